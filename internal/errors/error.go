package errors

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strconv"
)

// Category represents the type of error.
type Category string

const (
	CategoryConfig  Category = "config"
	CategoryReport  Category = "report"
	CategoryRender  Category = "render"
	CategoryPublish Category = "publish"
	CategoryServe   Category = "serve"
	CategoryCLI     Category = "cli"
)

// Location represents a position in an input file.
type Location struct {
	File   string
	Line   int
	Column int
}

// String returns the location as a formatted string.
func (l *Location) String() string {
	if l == nil {
		return ""
	}
	if l.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// DocError is a structured error with location, suggestion and cause.
type DocError struct {
	// Code is a unique error identifier (e.g., "E201").
	Code string

	// Category is the error type (config, report, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Location is the input position where the error occurred.
	Location *Location

	// Context contains the input lines around Location.
	Context []string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Example shows the correct input.
	Example string

	// DocURL is a link to documentation about this error.
	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *DocError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *DocError) Unwrap() error {
	return e.Wrapped
}

// WithLocation adds an input location to the error.
func (e *DocError) WithLocation(file string, line, column int) *DocError {
	e.Location = &Location{File: file, Line: line, Column: column}
	e.Context = readContextLines(file, line, 5)
	return e
}

// yamlLine matches the position yaml.v3 puts in its error messages,
// e.g. "yaml: line 3: mapping values are not allowed in this context".
var yamlLine = regexp.MustCompile(`line (\d+)`)

// WithLocationFromError extracts a line number from a decoder error
// message and records it as the location in file.
func (e *DocError) WithLocationFromError(file string, err error) *DocError {
	if err == nil {
		return e
	}
	m := yamlLine.FindStringSubmatch(err.Error())
	if m == nil {
		return e
	}
	line, convErr := strconv.Atoi(m[1])
	if convErr != nil || line <= 0 {
		return e
	}
	return e.WithLocation(file, line, 0)
}

// WithSuggestion adds a fix suggestion to the error.
func (e *DocError) WithSuggestion(s string) *DocError {
	e.Suggestion = s
	return e
}

// WithExample adds an input example to the error.
func (e *DocError) WithExample(ex string) *DocError {
	e.Example = ex
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *DocError) WithDetail(d string) *DocError {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *DocError) Wrap(err error) *DocError {
	e.Wrapped = err
	return e
}

// readContextLines reads lines around the specified line number from a file.
func readContextLines(filename string, targetLine, contextSize int) []string {
	file, err := os.Open(filename)
	if err != nil {
		return nil
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	lineNum := 0
	startLine := targetLine - contextSize/2
	endLine := targetLine + contextSize/2

	for scanner.Scan() {
		lineNum++
		if lineNum >= startLine && lineNum <= endLine {
			lines = append(lines, scanner.Text())
		}
		if lineNum > endLine {
			break
		}
	}

	return lines
}

// New creates a DocError from a registered error code.
func New(code string) *DocError {
	template, ok := registry[code]
	if !ok {
		return &DocError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &DocError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
		DocURL:   template.DocURL,
	}
}

// Newf creates a new DocError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *DocError {
	return &DocError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a DocError.
func FromError(err error, code string) *DocError {
	if err == nil {
		return nil
	}
	if de, ok := err.(*DocError); ok {
		return de
	}
	return New(code).Wrap(err)
}

// HasCode reports whether err, or any error in its tree, is a DocError
// with the given code. Joined errors are searched as well.
func HasCode(err error, code string) bool {
	if de, ok := err.(*DocError); ok && de.Code == code {
		return true
	}
	switch u := err.(type) {
	case interface{ Unwrap() error }:
		return HasCode(u.Unwrap(), code)
	case interface{ Unwrap() []error }:
		for _, e := range u.Unwrap() {
			if HasCode(e, code) {
				return true
			}
		}
	}
	return false
}
