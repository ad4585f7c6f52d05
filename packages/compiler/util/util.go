package util

import (
	"regexp"
	"strings"
)

var nonWordRegexp = regexp.MustCompile(`\W`)

// SanitizeIdentifier replaces every character that cannot appear in an identifier with '_'
func SanitizeIdentifier(name string) string {
	return nonWordRegexp.ReplaceAllString(name, "_")
}

// SplitNsName splits a `:ns:name` element name into its namespace and local name
func SplitNsName(elementName string) (string, string) {
	if !strings.HasPrefix(elementName, ":") {
		return "", elementName
	}
	colonIndex := strings.Index(elementName[1:], ":")
	if colonIndex == -1 {
		Fail(nil, "Unsupported format %q expecting \":namespace:name\"", elementName)
	}
	return elementName[1 : colonIndex+1], elementName[colonIndex+2:]
}
