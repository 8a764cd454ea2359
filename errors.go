package deckdown

import "fmt"

// ParseError describes a problem in a markdown outline file with
// enough position detail to show the user where to look.
type ParseError struct {
	File    string
	Line    int
	Message string
	Hint    string
}

func (e *ParseError) Error() string {
	loc := e.File
	if loc == "" {
		loc = "outline"
	}
	if e.Line > 0 {
		loc = fmt.Sprintf("%s:%d", loc, e.Line)
	}
	if e.Hint != "" {
		return fmt.Sprintf("%s: %s (hint: %s)", loc, e.Message, e.Hint)
	}
	return fmt.Sprintf("%s: %s", loc, e.Message)
}

// WithHint attaches a suggestion and returns the error for chaining.
func (e *ParseError) WithHint(hint string) *ParseError {
	e.Hint = hint
	return e
}

func newParseError(file string, line int, format string, args ...interface{}) *ParseError {
	return &ParseError{File: file, Line: line, Message: fmt.Sprintf(format, args...)}
}
