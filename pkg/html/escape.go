package html

import (
	"strconv"
	"strings"
)

// legalPunctuation lists the ASCII punctuation that is written unescaped.
const legalPunctuation = " .,;:-()_+=?!$#@[]/|*%~{}\\"

// isLegal reports whether b can be written to the output as it is.
func isLegal(b byte) bool {
	return (b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9') ||
		(b < 127 && strings.IndexByte(legalPunctuation, b) >= 0)
}

// Escape escapes text for inclusion in an HTML document.
//
// Letters, digits and the punctuation in " .,;:-()_+=?!$#@[]/|*%~{}\" are
// copied unchanged. The characters <, >, & and " become named entities.
// Every other byte, including each byte of a multi-byte UTF-8 sequence, is
// written as a decimal character reference such as "&#39;". When
// escapeNewLines is false, '\n' and '\r' are copied unchanged instead.
func Escape(text string, escapeNewLines bool) string {
	var buf strings.Builder
	buf.Grow(len(text))

	for i := 0; i < len(text); i++ {
		c := text[i]
		if isLegal(c) {
			buf.WriteByte(c)
			continue
		}

		switch c {
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '&':
			buf.WriteString("&amp;")
		case '"':
			buf.WriteString("&quot;")
		case '\n', '\r':
			if !escapeNewLines {
				buf.WriteByte(c)
				break
			}
			writeCharRef(&buf, c)
		default:
			writeCharRef(&buf, c)
		}
	}

	return buf.String()
}

// EscapeAttr escapes an attribute value. Line breaks are escaped.
func EscapeAttr(value string) string {
	return Escape(value, true)
}

// EscapeText escapes text content. Line breaks are kept.
func EscapeText(text string) string {
	return Escape(text, false)
}

func writeCharRef(buf *strings.Builder, c byte) {
	buf.WriteString("&#")
	buf.WriteString(strconv.Itoa(int(c)))
	buf.WriteByte(';')
}
