package css

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ngc-lower/packages/compiler/core"
)

func mustParse(t *testing.T, selector string) []*CssSelector {
	t.Helper()
	res, err := ParseCssSelector(selector)
	require.NoError(t, err)
	return res
}

func TestParseCssSelector(t *testing.T) {
	cases := []struct {
		selector string
		want     []string
	}{
		{"div", []string{"div"}},
		{".a.B", []string{".a.b"}},
		{"#main", []string{"[id=main]"}},
		{"[title]", []string{"[title]"}},
		{`[type="Text"]`, []string{"[type=text]"}},
		{"[dir='rtl']", []string{"[dir=rtl]"}},
		{"[role=tab]", []string{"[role=tab]"}},
		{"input[ngModel]:not(.x)", []string{"input[ngModel]:not(.x)"}},
		{":not(span)", []string{"*:not(span)"}},
		{"a, b[c]", []string{"a", "b[c]"}},
	}
	for _, tc := range cases {
		selectors := mustParse(t, tc.selector)
		got := make([]string, len(selectors))
		for i, s := range selectors {
			got[i] = s.String()
		}
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Errorf("ParseCssSelector(%q) mismatch (-want +got):\n%s", tc.selector, diff)
		}
	}
}

func TestParseCssSelectorErrors(t *testing.T) {
	_, err := ParseCssSelector(":not(:not(a))")
	assert.ErrorContains(t, err, "Nesting :not")

	_, err = ParseCssSelector(":not(a, b)")
	assert.ErrorContains(t, err, "Multiple selectors in :not")

	_, err = ParseCssSelector("[a$b]")
	assert.ErrorContains(t, err, `Unescaped "$"`)

	sel := mustParse(t, `[a\$b]`)
	assert.Equal(t, []string{"a$b", ""}, sel[0].Attrs)
}

func match(t *testing.T, matcher *SelectorMatcher[string], element string, attrs ...[2]string) []string {
	t.Helper()
	var got []string
	matcher.Match(NewElementSelector(element, attrs), func(_ *CssSelector, name string) {
		got = append(got, name)
	})
	return got
}

func TestSelectorMatcher(t *testing.T) {
	matcher := NewSelectorMatcher[string]()
	for _, dir := range []struct{ selector, name string }{
		{"my-cmp", "MyCmp"},
		{"[ngIf]", "NgIf"},
		{"[type=checkbox]", "Checkbox"},
		{"input[ngModel]", "NgModel"},
		{".btn:not(.disabled)", "Button"},
		{"a, [routerLink]", "RouterLink"},
	} {
		matcher.AddSelectables(mustParse(t, dir.selector), dir.name)
	}

	assert.Equal(t, []string{"MyCmp"}, match(t, matcher, "my-cmp"))
	assert.Equal(t, []string{"NgIf"}, match(t, matcher, "ng-template", [2]string{"ngIf", ""}))
	assert.Equal(t, []string{"Checkbox"}, match(t, matcher, "input", [2]string{"type", "CHECKBOX"}))
	assert.Empty(t, match(t, matcher, "div", [2]string{"type", "radio"}))
	assert.Equal(t, []string{"NgModel"}, match(t, matcher, "input", [2]string{"ngModel", ""}))
	assert.Empty(t, match(t, matcher, "select", [2]string{"ngModel", ""}))
	assert.Equal(t, []string{"Button"}, match(t, matcher, "button", [2]string{"class", "btn primary"}))
	assert.Empty(t, match(t, matcher, "button", [2]string{"class", "btn disabled"}))
	assert.Equal(t, []string{"RouterLink"}, match(t, matcher, "a", [2]string{"routerLink", "/"}),
		"a selector list matches once")
}

func TestSelectorMatcherStar(t *testing.T) {
	matcher := NewSelectorMatcher[string]()
	matcher.AddSelectables(mustParse(t, ":not(p)"), "NotP")
	matcher.AddSelectables(mustParse(t, "span"), "Span")

	assert.Equal(t, []string{"Span", "NotP"}, match(t, matcher, "span"))
	assert.Empty(t, match(t, matcher, "p"))
	// Star matches must not leak into the element's own list.
	assert.Equal(t, []string{"Span", "NotP"}, match(t, matcher, "span"))
}

func TestToR3Selector(t *testing.T) {
	cases := []struct {
		selector string
		want     []R3Selector
	}{
		{"div", []R3Selector{{"div"}}},
		{"*", []R3Selector{{""}}},
		{"[title=x].a.b", []R3Selector{{"", "title", "x", core.SelectorFlagsCLASS, "a", "b"}}},
		{"a:not(.x)", []R3Selector{{"a", core.SelectorFlagsNOT | core.SelectorFlagsCLASS, "x"}}},
		{"a:not([b])", []R3Selector{{"a", core.SelectorFlagsNOT | core.SelectorFlagsATTRIBUTE, "b", ""}}},
		{":not(span.y)", []R3Selector{{"", core.SelectorFlagsNOT | core.SelectorFlagsELEMENT, "span", core.SelectorFlagsCLASS, "y"}}},
		{"x, [y]", []R3Selector{{"x"}, {"", "y", ""}}},
	}
	for _, tc := range cases {
		got, err := ParseSelectorToR3Selector(tc.selector)
		require.NoError(t, err)
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Errorf("ParseSelectorToR3Selector(%q) mismatch (-want +got):\n%s", tc.selector, diff)
		}
	}

	got, err := ParseSelectorToR3Selector("")
	require.NoError(t, err)
	assert.Empty(t, got)
}
