package html

import "strings"

// Element is a node in an HTML document tree.
//
// An element is either a tag with attributes and children, or a content
// leaf holding text that is written verbatim. Content leaves are created
// only through AddContent, AddRawContent, AddLineBreak and AddNBSP, and
// never carry attributes or children.
type Element struct {
	name      string // tag name, or the escaped text of a content leaf
	isContent bool
	inline    bool
	attrs     []string // pre-escaped name="value" pairs, in insertion order
	children  []*Element
}

// New creates a root element with the given tag name.
func New(name string) *Element {
	return &Element{name: name}
}

// AddChild appends a new element with the given tag name and returns the
// new child.
func (e *Element) AddChild(name string) *Element {
	child := &Element{name: name}
	e.children = append(e.children, child)
	return child
}

// AddLink appends an "a" element with the given href and returns it.
func (e *Element) AddLink(url string) *Element {
	return e.AddChild("a").SetProperty("href", url)
}

// AddDiv appends a "div" element and returns it.
func (e *Element) AddDiv() *Element {
	return e.AddChild("div")
}

// AddParagraph appends an inline "p" element and returns it.
func (e *Element) AddParagraph() *Element {
	return e.AddChild("p").SetInline(true)
}

// AddSpan appends an inline "span" element with the given class and
// returns it.
func (e *Element) AddSpan(class string) *Element {
	return e.AddChild("span").SetInline(true).SetClass(class)
}

// SetProperty appends the attribute name="value" to this element and
// returns the element itself. The value is escaped, including any line
// breaks. Setting the same name twice keeps both entries.
func (e *Element) SetProperty(name, value string) *Element {
	e.attrs = append(e.attrs, name+`="`+EscapeAttr(value)+`"`)
	return e
}

// SetID sets the "id" attribute.
func (e *Element) SetID(value string) *Element {
	return e.SetProperty("id", value)
}

// SetClass sets the "class" attribute.
func (e *Element) SetClass(value string) *Element {
	return e.SetProperty("class", value)
}

// AddContent appends escaped text to this element. Line breaks in the text
// are kept as they are.
//
// Note that AddContent returns the receiver, not the new content leaf, so
// that several pieces of content can be chained on the same element.
func (e *Element) AddContent(text string) *Element {
	return e.AddRawContent(EscapeText(text))
}

// AddRawContent appends text that is written to the output without any
// escaping, and returns the receiver. Only use it with trusted markup.
func (e *Element) AddRawContent(text string) *Element {
	e.children = append(e.children, &Element{name: text, isContent: true})
	return e
}

// AddLineBreak appends a "<br>" to the content of this element.
func (e *Element) AddLineBreak() *Element {
	return e.AddRawContent("<br>")
}

// AddNBSP appends n non-breaking spaces as a single piece of content.
// There is no default count: pass 1 for a single space. A count below one
// appends empty content.
func (e *Element) AddNBSP(n int) *Element {
	if n < 0 {
		n = 0
	}
	return e.AddRawContent(strings.Repeat("&nbsp;", n))
}

// SetInline marks the element as inline. The renderer does not insert
// newlines or indentation between the children of an inline element.
func (e *Element) SetInline(inline bool) *Element {
	e.inline = inline
	return e
}

// Tag returns the tag name, or the literal text of a content leaf.
func (e *Element) Tag() string {
	return e.name
}

// IsContent reports whether e is a content leaf.
func (e *Element) IsContent() bool {
	return e.isContent
}

// IsInline reports whether e is marked inline.
func (e *Element) IsInline() bool {
	return e.inline
}

// Attributes returns the rendered name="value" pairs in insertion order.
// The returned slice must not be modified.
func (e *Element) Attributes() []string {
	return e.attrs
}

// Children returns the child elements in order. The returned slice must not
// be modified.
func (e *Element) Children() []*Element {
	return e.children
}
