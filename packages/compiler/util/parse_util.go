package util

import (
	"fmt"
	"strings"
)

// ParseSourceFile is a named piece of source text
type ParseSourceFile struct {
	Content string
	URL     string
}

// NewParseSourceFile creates a new ParseSourceFile
func NewParseSourceFile(content, url string) *ParseSourceFile {
	return &ParseSourceFile{Content: content, URL: url}
}

// ParseLocation represents a location in the source file
type ParseLocation struct {
	File   *ParseSourceFile
	Offset int
	Line   int
	Col    int
}

// NewParseLocation creates a new ParseLocation
func NewParseLocation(file *ParseSourceFile, offset, line, col int) *ParseLocation {
	return &ParseLocation{
		File:   file,
		Offset: offset,
		Line:   line,
		Col:    col,
	}
}

// LocationAt computes the line and column of an offset in file.
// A nil file yields a location that only knows its offset.
func LocationAt(file *ParseSourceFile, offset int) *ParseLocation {
	if file == nil {
		return NewParseLocation(nil, offset, 0, 0)
	}
	content := file.Content
	if offset > len(content) {
		offset = len(content)
	}
	line := strings.Count(content[:offset], "\n")
	col := offset
	if nl := strings.LastIndex(content[:offset], "\n"); nl >= 0 {
		col = offset - nl - 1
	}
	return NewParseLocation(file, offset, line, col)
}

// String returns a string representation of the location
func (p *ParseLocation) String() string {
	if p.File == nil {
		return fmt.Sprintf("@%d", p.Offset)
	}
	return fmt.Sprintf("%s@%d:%d", p.File.URL, p.Line, p.Col)
}

// ParseSourceSpan represents a span of source code
type ParseSourceSpan struct {
	Start   *ParseLocation
	End     *ParseLocation
	Details string
}

// NewParseSourceSpan creates a new ParseSourceSpan
func NewParseSourceSpan(start, end *ParseLocation, details string) *ParseSourceSpan {
	return &ParseSourceSpan{Start: start, End: end, Details: details}
}

// SpanOf builds a span covering [start, end) of file.
func SpanOf(file *ParseSourceFile, start, end int) *ParseSourceSpan {
	return NewParseSourceSpan(LocationAt(file, start), LocationAt(file, end), "")
}

// String returns the covered source text
func (s *ParseSourceSpan) String() string {
	if s.Start.File == nil {
		return ""
	}
	return s.Start.File.Content[s.Start.Offset:s.End.Offset]
}
