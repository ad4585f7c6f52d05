package css

import (
	"fmt"
	"regexp"
	"strings"
)

// Submatch indices of selectorRegexp.
const (
	groupNot            = 1
	groupTag            = 2
	groupPrefix         = 3
	groupAttribute      = 4
	groupDoubleQuoted   = 6
	groupSingleQuoted   = 8
	groupUnquotedValue  = 10
	groupNotEnd         = 12
	groupSeparator      = 13
	selectorRegexpCount = 14
)

// Go regexp has no backreferences, so each quote style is its own alternative.
var selectorRegexp = regexp.MustCompile(
	`(\:not\()|` + // 1: ":not("
		`(([\.\#]?)[-\w]+)|` + // 2: "tag"; 3: "."/"#"
		// 4: attribute; 5/6: double quoted value; 7/8: single quoted value;
		// 9/10: unquoted value; 11: no value
		`(?:\[([-.\w*\\$]+)(?:=(")([^\]"]*)"|=(')([^\]']*)'|(=)([^\]\s]+)|())\])|` +
		`(\))|` + // 12: ")"
		`(\s*,\s*)`, // 13: ","
)

// CssSelector is one compound selector of a selector list: an optional
// element, class names, attribute name/value pairs and negations.
type CssSelector struct {
	Element      string
	ClassNames   []string
	Attrs        []string // name, value, name, value, ...
	NotSelectors []*CssSelector
}

// NewCssSelector creates an empty selector
func NewCssSelector() *CssSelector {
	return &CssSelector{}
}

// ParseCssSelector parses a comma separated selector list
func ParseCssSelector(selector string) ([]*CssSelector, error) {
	var results []*CssSelector
	addResult := func(cssSel *CssSelector) {
		if len(cssSel.NotSelectors) > 0 && cssSel.Element == "" &&
			len(cssSel.ClassNames) == 0 && len(cssSel.Attrs) == 0 {
			cssSel.Element = "*"
		}
		results = append(results, cssSel)
	}

	cssSelector := NewCssSelector()
	current := cssSelector
	inNot := false
	for _, match := range selectorRegexp.FindAllStringSubmatch(selector, -1) {
		if len(match) < selectorRegexpCount {
			continue
		}
		if match[groupNot] != "" {
			if inNot {
				return nil, fmt.Errorf("Nesting :not is not allowed in a selector")
			}
			inNot = true
			current = NewCssSelector()
			cssSelector.NotSelectors = append(cssSelector.NotSelectors, current)
		}
		if tag := match[groupTag]; tag != "" {
			switch match[groupPrefix] {
			case "#":
				current.AddAttribute("id", tag[1:])
			case ".":
				current.AddClassName(tag[1:])
			default:
				current.SetElement(tag)
			}
		}
		if attribute := match[groupAttribute]; attribute != "" {
			name, err := UnescapeAttribute(attribute)
			if err != nil {
				return nil, err
			}
			current.AddAttribute(name, match[groupDoubleQuoted]+match[groupSingleQuoted]+match[groupUnquotedValue])
		}
		if match[groupNotEnd] != "" {
			inNot = false
			current = cssSelector
		}
		if match[groupSeparator] != "" {
			if inNot {
				return nil, fmt.Errorf("Multiple selectors in :not are not supported")
			}
			addResult(cssSelector)
			cssSelector = NewCssSelector()
			current = cssSelector
		}
	}
	addResult(cssSelector)
	return results, nil
}

// NewElementSelector builds the selector a directive selector is matched
// against: the element name plus its static attributes. The class attribute
// is split into class names.
func NewElementSelector(elementName string, attributes [][2]string) *CssSelector {
	cssSelector := NewCssSelector()
	cssSelector.SetElement(elementName)
	for _, attr := range attributes {
		cssSelector.AddAttribute(attr[0], attr[1])
		if strings.ToLower(attr[0]) == "class" {
			for _, className := range strings.Fields(attr[1]) {
				cssSelector.AddClassName(className)
			}
		}
	}
	return cssSelector
}

// UnescapeAttribute removes the `\` escapes of an attribute selector. A bare
// `$` is rejected.
func UnescapeAttribute(attr string) (string, error) {
	var sb strings.Builder
	escaping := false
	for i := 0; i < len(attr); i++ {
		char := attr[i]
		if char == '\\' && !escaping {
			escaping = true
			continue
		}
		if char == '$' && !escaping {
			return "", fmt.Errorf(`Error in attribute selector "%s". Unescaped "$" is not supported. Please escape with "\$".`, attr)
		}
		escaping = false
		sb.WriteByte(char)
	}
	return sb.String(), nil
}

// EscapeAttribute is the inverse of UnescapeAttribute
func EscapeAttribute(attr string) string {
	return strings.ReplaceAll(strings.ReplaceAll(attr, `\`, `\\`), "$", `\$`)
}

// IsElementSelector reports whether the selector is a bare element name
func (cs *CssSelector) IsElementSelector() bool {
	return cs.HasElementSelector() && len(cs.ClassNames) == 0 &&
		len(cs.Attrs) == 0 && len(cs.NotSelectors) == 0
}

// HasElementSelector reports whether an element name was given
func (cs *CssSelector) HasElementSelector() bool {
	return cs.Element != ""
}

// SetElement sets the element name
func (cs *CssSelector) SetElement(element string) {
	cs.Element = element
}

// AddAttribute adds an attribute; the value is compared case-insensitively
func (cs *CssSelector) AddAttribute(name, value string) {
	cs.Attrs = append(cs.Attrs, name, strings.ToLower(value))
}

// AddClassName adds a class name
func (cs *CssSelector) AddClassName(name string) {
	cs.ClassNames = append(cs.ClassNames, strings.ToLower(name))
}

func (cs *CssSelector) String() string {
	var sb strings.Builder
	sb.WriteString(cs.Element)
	for _, klass := range cs.ClassNames {
		sb.WriteString("." + klass)
	}
	for i := 0; i+1 < len(cs.Attrs); i += 2 {
		name := EscapeAttribute(cs.Attrs[i])
		if value := cs.Attrs[i+1]; value != "" {
			fmt.Fprintf(&sb, "[%s=%s]", name, value)
		} else {
			fmt.Fprintf(&sb, "[%s]", name)
		}
	}
	for _, notSelector := range cs.NotSelectors {
		fmt.Fprintf(&sb, ":not(%s)", notSelector)
	}
	return sb.String()
}

// SelectorMatcher indexes selectors and finds the ones an element selector
// satisfies. T is the value registered with each selector list.
type SelectorMatcher[T any] struct {
	elementMap          map[string][]*SelectorContext[T]
	elementPartialMap   map[string]*SelectorMatcher[T]
	classMap            map[string][]*SelectorContext[T]
	classPartialMap     map[string]*SelectorMatcher[T]
	attrValueMap        map[string]map[string][]*SelectorContext[T]
	attrValuePartialMap map[string]map[string]*SelectorMatcher[T]
	listContexts        []*SelectorListContext
}

// NewSelectorMatcher creates an empty matcher
func NewSelectorMatcher[T any]() *SelectorMatcher[T] {
	return &SelectorMatcher[T]{
		elementMap:          make(map[string][]*SelectorContext[T]),
		elementPartialMap:   make(map[string]*SelectorMatcher[T]),
		classMap:            make(map[string][]*SelectorContext[T]),
		classPartialMap:     make(map[string]*SelectorMatcher[T]),
		attrValueMap:        make(map[string]map[string][]*SelectorContext[T]),
		attrValuePartialMap: make(map[string]map[string]*SelectorMatcher[T]),
	}
}

// AddSelectables registers a selector list. A list matches at most once per
// Match call.
func (sm *SelectorMatcher[T]) AddSelectables(cssSelectors []*CssSelector, callbackCtxt T) {
	var listContext *SelectorListContext
	if len(cssSelectors) > 1 {
		listContext = &SelectorListContext{Selectors: cssSelectors}
		sm.listContexts = append(sm.listContexts, listContext)
	}
	for _, cssSelector := range cssSelectors {
		sm.addSelectable(cssSelector, callbackCtxt, listContext)
	}
}

func (sm *SelectorMatcher[T]) addSelectable(cssSelector *CssSelector, callbackCtxt T, listContext *SelectorListContext) {
	matcher := sm
	classNames := cssSelector.ClassNames
	attrs := cssSelector.Attrs
	selectable := &SelectorContext[T]{Selector: cssSelector, CbContext: callbackCtxt, ListContext: listContext}

	if element := cssSelector.Element; element != "" {
		if len(attrs) == 0 && len(classNames) == 0 {
			addTerminal(matcher.elementMap, element, selectable)
		} else {
			matcher = addPartial(matcher.elementPartialMap, element)
		}
	}

	for i, className := range classNames {
		if len(attrs) == 0 && i == len(classNames)-1 {
			addTerminal(matcher.classMap, className, selectable)
		} else {
			matcher = addPartial(matcher.classPartialMap, className)
		}
	}

	for i := 0; i+1 < len(attrs); i += 2 {
		name, value := attrs[i], attrs[i+1]
		if i == len(attrs)-2 {
			values, ok := matcher.attrValueMap[name]
			if !ok {
				values = make(map[string][]*SelectorContext[T])
				matcher.attrValueMap[name] = values
			}
			addTerminal(values, value, selectable)
		} else {
			values, ok := matcher.attrValuePartialMap[name]
			if !ok {
				values = make(map[string]*SelectorMatcher[T])
				matcher.attrValuePartialMap[name] = values
			}
			matcher = addPartial(values, value)
		}
	}
}

func addTerminal[T any](m map[string][]*SelectorContext[T], name string, selectable *SelectorContext[T]) {
	m[name] = append(m[name], selectable)
}

func addPartial[T any](m map[string]*SelectorMatcher[T], name string) *SelectorMatcher[T] {
	matcher, ok := m[name]
	if !ok {
		matcher = NewSelectorMatcher[T]()
		m[name] = matcher
	}
	return matcher
}

// MatchCallback receives every matching selector and its registered value
type MatchCallback[T any] func(selector *CssSelector, ctx T)

// Match calls matchedCallback for every registered selector that cssSelector
// satisfies and reports whether there was any. matchedCallback may be nil.
func (sm *SelectorMatcher[T]) Match(cssSelector *CssSelector, matchedCallback MatchCallback[T]) bool {
	result := false
	for _, listContext := range sm.listContexts {
		listContext.AlreadyMatched = false
	}

	if element := cssSelector.Element; element != "" {
		result = sm.matchTerminal(sm.elementMap, element, cssSelector, matchedCallback) || result
		result = sm.matchPartial(sm.elementPartialMap, element, cssSelector, matchedCallback) || result
	}

	for _, className := range cssSelector.ClassNames {
		result = sm.matchTerminal(sm.classMap, className, cssSelector, matchedCallback) || result
		result = sm.matchPartial(sm.classPartialMap, className, cssSelector, matchedCallback) || result
	}

	attrs := cssSelector.Attrs
	for i := 0; i+1 < len(attrs); i += 2 {
		name, value := attrs[i], attrs[i+1]
		if values, ok := sm.attrValueMap[name]; ok {
			if value != "" {
				result = sm.matchTerminal(values, "", cssSelector, matchedCallback) || result
			}
			result = sm.matchTerminal(values, value, cssSelector, matchedCallback) || result
		}
		if values, ok := sm.attrValuePartialMap[name]; ok {
			if value != "" {
				result = sm.matchPartial(values, "", cssSelector, matchedCallback) || result
			}
			result = sm.matchPartial(values, value, cssSelector, matchedCallback) || result
		}
	}
	return result
}

func (sm *SelectorMatcher[T]) matchTerminal(m map[string][]*SelectorContext[T], name string, cssSelector *CssSelector, matchedCallback MatchCallback[T]) bool {
	selectables := make([]*SelectorContext[T], 0, len(m[name])+len(m["*"]))
	selectables = append(selectables, m[name]...)
	selectables = append(selectables, m["*"]...)

	result := false
	for _, selectable := range selectables {
		result = selectable.Finalize(cssSelector, matchedCallback) || result
	}
	return result
}

func (sm *SelectorMatcher[T]) matchPartial(m map[string]*SelectorMatcher[T], name string, cssSelector *CssSelector, matchedCallback MatchCallback[T]) bool {
	nested, ok := m[name]
	if !ok {
		return false
	}
	return nested.Match(cssSelector, matchedCallback)
}

// SelectorListContext tracks whether one selector list already matched
type SelectorListContext struct {
	AlreadyMatched bool
	Selectors      []*CssSelector
}

// SelectorContext is one registered selector
type SelectorContext[T any] struct {
	Selector    *CssSelector
	CbContext   T
	ListContext *SelectorListContext
}

// Finalize checks the negations of the selector and reports the match
func (sc *SelectorContext[T]) Finalize(cssSelector *CssSelector, callback MatchCallback[T]) bool {
	result := true
	if len(sc.Selector.NotSelectors) > 0 && (sc.ListContext == nil || !sc.ListContext.AlreadyMatched) {
		notMatcher := NewSelectorMatcher[struct{}]()
		notMatcher.AddSelectables(sc.Selector.NotSelectors, struct{}{})
		result = !notMatcher.Match(cssSelector, nil)
	}
	if result && callback != nil && (sc.ListContext == nil || !sc.ListContext.AlreadyMatched) {
		if sc.ListContext != nil {
			sc.ListContext.AlreadyMatched = true
		}
		callback(sc.Selector, sc.CbContext)
	}
	return result
}
