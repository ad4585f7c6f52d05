package view

import (
	"ngc-lower/packages/compiler/css"
	"ngc-lower/packages/compiler/output"
)

// SelectorDirectiveMatcher matches directives by their CSS selector
type SelectorDirectiveMatcher struct {
	matcher *css.SelectorMatcher[output.OutputExpression]
}

var _ DirectiveMatcher = (*SelectorDirectiveMatcher)(nil)

// NewSelectorDirectiveMatcher creates an empty SelectorDirectiveMatcher
func NewSelectorDirectiveMatcher() *SelectorDirectiveMatcher {
	return &SelectorDirectiveMatcher{matcher: css.NewSelectorMatcher[output.OutputExpression]()}
}

// Add registers directiveType under selector
func (m *SelectorDirectiveMatcher) Add(selector string, directiveType output.OutputExpression) error {
	selectors, err := css.ParseCssSelector(selector)
	if err != nil {
		return err
	}
	m.matcher.AddSelectables(selectors, directiveType)
	return nil
}

// Match implements DirectiveMatcher
func (m *SelectorDirectiveMatcher) Match(elementName string, attrs [][2]string) []output.OutputExpression {
	var matched []output.OutputExpression
	m.matcher.Match(css.NewElementSelector(elementName, attrs), func(_ *css.CssSelector, directiveType output.OutputExpression) {
		matched = append(matched, directiveType)
	})
	return matched
}
