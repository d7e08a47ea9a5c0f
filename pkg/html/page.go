package html

// PageData describes the head of a document created by NewPage.
type PageData struct {
	// Title is the page title.
	Title string

	// Lang is the language attribute for the html element.
	// No attribute is written when empty.
	Lang string

	// Charset is written as a Content-Type meta tag.
	// Defaults to "utf-8".
	Charset string

	// Meta contains additional meta tags.
	Meta []MetaTag

	// StyleSheets contains URLs of external stylesheets.
	StyleSheets []string

	// Styles contains inline CSS, each written as its own style element.
	Styles []string

	// Scripts contains script elements appended to the head.
	Scripts []ScriptTag
}

// MetaTag represents a meta element in the document head.
type MetaTag struct {
	Name      string // name attribute
	HTTPEquiv string // http-equiv attribute
	Content   string // content attribute
}

// ScriptTag represents a script element.
type ScriptTag struct {
	Src    string // src attribute
	Inline string // inline script, written without escaping
}

// NewPage builds an "html" element with a populated "head" and an empty
// "body", and returns the root and the body.
func NewPage(page PageData) (root, body *Element) {
	root = New("html")
	if page.Lang != "" {
		root.SetProperty("lang", page.Lang)
	}

	head := root.AddChild("head")

	charset := page.Charset
	if charset == "" {
		charset = "utf-8"
	}
	head.AddChild("meta").
		SetProperty("http-equiv", "Content-Type").
		SetProperty("content", "text/html; charset="+charset)

	for _, meta := range page.Meta {
		m := head.AddChild("meta")
		if meta.Name != "" {
			m.SetProperty("name", meta.Name)
		}
		if meta.HTTPEquiv != "" {
			m.SetProperty("http-equiv", meta.HTTPEquiv)
		}
		m.SetProperty("content", meta.Content)
	}

	// Browsers do not accept a self-closed title or script, so both always
	// get content even when it is empty.
	head.AddChild("title").AddContent(page.Title)

	for _, href := range page.StyleSheets {
		head.AddChild("link").
			SetProperty("rel", "stylesheet").
			SetProperty("type", "text/css").
			SetProperty("href", href)
	}

	for _, css := range page.Styles {
		head.AddChild("style").
			SetProperty("type", "text/css").
			AddRawContent(css)
	}

	for _, script := range page.Scripts {
		AddScript(head, script)
	}

	body = root.AddChild("body")
	return root, body
}

// AddScript appends a script element to parent and returns it.
func AddScript(parent *Element, script ScriptTag) *Element {
	s := parent.AddChild("script").SetProperty("type", "text/javascript")
	if script.Src != "" {
		s.SetProperty("src", script.Src)
	}
	s.AddRawContent(script.Inline)
	return s
}
