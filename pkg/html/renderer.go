package html

import (
	"bytes"
	"io"
	"strings"
)

// Doctype is the declaration written at the start of every document.
const Doctype = `<!DOCTYPE HTML PUBLIC "-//W3C//DTD HTML 4.01//EN" "http://www.w3.org/TR/html4/strict.dtd">`

// DefaultIndent is the indentation written per nesting level.
const DefaultIndent = " "

// RendererConfig configures the HTML renderer.
type RendererConfig struct {
	// Indent is the string written once per nesting level in front of
	// block elements. Defaults to a single space.
	Indent string
}

// Renderer writes element trees as HTML documents.
//
// A Renderer holds no per-document state and may be shared between
// goroutines.
type Renderer struct {
	config RendererConfig
}

// NewRenderer creates a new Renderer with the given configuration.
func NewRenderer(config RendererConfig) *Renderer {
	if config.Indent == "" {
		config.Indent = DefaultIndent
	}
	return &Renderer{config: config}
}

var defaultRenderer = NewRenderer(RendererConfig{})

// RenderToString renders a complete document to a string.
func (r *Renderer) RenderToString(root *Element) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderToWriter(&buf, root); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderToWriter writes the DOCTYPE line followed by the root element.
// The first error returned by w stops rendering and is returned as is.
func (r *Renderer) RenderToWriter(w io.Writer, root *Element) error {
	if err := writeDoctype(w); err != nil {
		return err
	}
	return r.RenderFragment(w, root)
}

// RenderFragment writes root and its descendants without a DOCTYPE line.
func (r *Renderer) RenderFragment(w io.Writer, root *Element) error {
	if root == nil {
		return nil
	}
	_, err := r.renderElement(w, root, 0, lineState{atStartOfLine: true})
	return err
}

func writeDoctype(w io.Writer) error {
	_, err := io.WriteString(w, Doctype+"\n")
	return err
}

// lineState is the layout state threaded through the traversal. Each call
// to renderElement receives the state left by the previous sibling and
// returns the state its own output leaves behind.
type lineState struct {
	atStartOfLine    bool
	followingContent bool
}

// renderElement writes a tag element and its children.
func (r *Renderer) renderElement(w io.Writer, e *Element, depth int, st lineState) (lineState, error) {
	if !st.atStartOfLine && !st.followingContent {
		if !e.inline {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return st, err
			}
		}
		st.atStartOfLine = true
	}

	if st.atStartOfLine && !e.inline && depth > 0 {
		if _, err := io.WriteString(w, strings.Repeat(r.config.Indent, depth)); err != nil {
			return st, err
		}
	}
	st.atStartOfLine = false

	// Opening tag
	if _, err := io.WriteString(w, "<"+e.name); err != nil {
		return st, err
	}
	for _, attr := range e.attrs {
		if _, err := io.WriteString(w, " "+attr); err != nil {
			return st, err
		}
	}

	if len(e.children) == 0 {
		if _, err := io.WriteString(w, "/>"); err != nil {
			return st, err
		}
		st.followingContent = false
		return st, nil
	}

	if _, err := io.WriteString(w, ">"); err != nil {
		return st, err
	}
	st.followingContent = false

	for _, child := range e.children {
		if child.isContent {
			if _, err := io.WriteString(w, child.name); err != nil {
				return st, err
			}
			st.followingContent = true
			continue
		}

		var err error
		if st, err = r.renderElement(w, child, depth+1, st); err != nil {
			return st, err
		}
	}

	if _, err := io.WriteString(w, "</"+e.name+">"); err != nil {
		return st, err
	}
	st.followingContent = false
	return st, nil
}

// Render writes a complete document for root using the default renderer.
func Render(w io.Writer, root *Element) error {
	return defaultRenderer.RenderToWriter(w, root)
}

// ToDocument returns the complete document for e, rendered with the
// default configuration.
func (e *Element) ToDocument() string {
	var buf bytes.Buffer
	// Writes to a bytes.Buffer do not fail.
	_ = defaultRenderer.RenderToWriter(&buf, e)
	return buf.String()
}

// String implements fmt.Stringer by returning ToDocument.
func (e *Element) String() string {
	return e.ToDocument()
}

// WriteTo implements io.WriterTo. It writes the complete document for e
// using the default configuration.
func (e *Element) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	err := defaultRenderer.RenderToWriter(cw, e)
	return cw.n, err
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
