// Package html builds small HTML documents in memory and renders them as
// readable, deterministic text.
//
// A document is a tree of *Element values. Builder methods either descend
// into a newly created child or stay on the receiver, so that a tree can be
// written as a chain of calls:
//
//	root := html.New("html")
//	body := root.AddChild("body")
//	body.AddParagraph().AddContent("a < b & c")
//	body.AddDiv().SetClass("footer").AddLink("https://example.com").AddContent("home")
//
// Methods that descend (return the new child):
//
//   - AddChild, AddLink, AddDiv, AddParagraph, AddSpan
//
// Methods that stay (return the receiver):
//
//   - SetProperty, SetID, SetClass, SetInline
//   - AddContent, AddRawContent, AddLineBreak, AddNBSP
//
// # Escaping
//
// Attribute values and text content are escaped once, when they are added
// to the tree. Attribute values have line breaks escaped; text content keeps
// them. Escaping works on bytes: every byte outside a small ASCII allow-list
// becomes a named entity or a decimal character reference.
//
// # Rendering
//
// Renderer writes an HTML 4.01 Strict DOCTYPE line followed by the root
// element. Block elements are placed on their own lines and indented by
// depth; elements marked inline (paragraphs, spans) keep their children on
// one line. Elements without children are written self-closed:
//
//	r := html.NewRenderer(html.RendererConfig{})
//	err := r.RenderToWriter(os.Stdout, root)
//
// Rendering never modifies the tree, so a finished tree may be rendered
// from several goroutines at once. Errors returned by the destination
// writer are passed back unchanged.
package html
