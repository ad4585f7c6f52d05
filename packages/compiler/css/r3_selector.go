package css

import "ngc-lower/packages/compiler/core"

// R3Selector is the flat runtime form of a CssSelector: the element name
// ('' for any), attribute name/value pairs, then core.SelectorFlagsCLASS and
// the class names. Each negation follows, starting with its flags.
// Entries are strings or core.SelectorFlags.
type R3Selector []interface{}

// ToR3Selector flattens selector into its runtime form
func ToR3Selector(selector *CssSelector) R3Selector {
	res := positiveSelector(selector)
	for _, notSelector := range selector.NotSelectors {
		res = append(res, negativeSelector(notSelector)...)
	}
	return res
}

// ParseSelectorToR3Selector parses a selector list into runtime selectors
func ParseSelectorToR3Selector(selector string) ([]R3Selector, error) {
	if selector == "" {
		return nil, nil
	}
	selectors, err := ParseCssSelector(selector)
	if err != nil {
		return nil, err
	}
	res := make([]R3Selector, len(selectors))
	for i, s := range selectors {
		res[i] = ToR3Selector(s)
	}
	return res, nil
}

func positiveSelector(selector *CssSelector) R3Selector {
	element := selector.Element
	if element == "*" {
		element = ""
	}
	res := R3Selector{element}
	res = appendStrings(res, selector.Attrs)
	if len(selector.ClassNames) > 0 {
		res = append(res, core.SelectorFlagsCLASS)
		res = appendStrings(res, selector.ClassNames)
	}
	return res
}

func negativeSelector(selector *CssSelector) R3Selector {
	var classes R3Selector
	if len(selector.ClassNames) > 0 {
		classes = appendStrings(R3Selector{core.SelectorFlagsCLASS}, selector.ClassNames)
	}
	switch {
	case selector.Element != "":
		res := R3Selector{core.SelectorFlagsNOT | core.SelectorFlagsELEMENT, selector.Element}
		return append(appendStrings(res, selector.Attrs), classes...)
	case len(selector.Attrs) > 0:
		res := R3Selector{core.SelectorFlagsNOT | core.SelectorFlagsATTRIBUTE}
		return append(appendStrings(res, selector.Attrs), classes...)
	case len(selector.ClassNames) > 0:
		return appendStrings(R3Selector{core.SelectorFlagsNOT | core.SelectorFlagsCLASS}, selector.ClassNames)
	}
	return nil
}

func appendStrings(res R3Selector, values []string) R3Selector {
	for _, v := range values {
		res = append(res, v)
	}
	return res
}
