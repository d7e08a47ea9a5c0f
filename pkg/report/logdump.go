package report

import (
	"strings"

	"github.com/vango-dev/htmldoc/pkg/html"
)

// Level classes applied to log dump lines.
const (
	ClassError = "log-error"
	ClassWarn  = "log-warn"
	ClassInfo  = "log-info"
	ClassDebug = "log-debug"
	ClassLine  = "log-line"
)

var levelClasses = map[string]string{
	"error":   ClassError,
	"err":     ClassError,
	"fatal":   ClassError,
	"panic":   ClassError,
	"warn":    ClassWarn,
	"warning": ClassWarn,
	"info":    ClassInfo,
	"debug":   ClassDebug,
	"trace":   ClassDebug,
}

// LogDump appends a preformatted log block to parent and returns it.
// Each line is wrapped in a span whose class reflects its leading level
// word, and lines are separated by line breaks. A trailing newline does
// not produce an empty line.
func LogDump(parent *html.Element, text string) *html.Element {
	pre := parent.AddChild("pre").SetClass("log").SetInline(true)

	text = strings.TrimSuffix(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			pre.AddLineBreak()
		}
		pre.AddSpan(LineClass(line)).AddContent(line)
	}
	return pre
}

// LineClass returns the class for a log line, based on its first word.
// Brackets and a trailing colon around the word are ignored, as is a
// logfmt "level=" prefix.
func LineClass(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ClassLine
	}

	word := strings.ToLower(fields[0])
	word = strings.TrimPrefix(word, "level=")
	word = strings.Trim(word, "[]:")

	if class, ok := levelClasses[word]; ok {
		return class
	}
	return ClassLine
}
