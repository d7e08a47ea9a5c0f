package report

import (
	"fmt"
	"io"
	"os"

	"github.com/vango-dev/htmldoc/internal/errors"
	"github.com/vango-dev/htmldoc/pkg/html"
	"gopkg.in/yaml.v3"
)

// Generator is written to the generator meta tag of every report.
const Generator = "htmldoc"

// Report is a parsed report description.
type Report struct {
	Title       string    `yaml:"title"`
	Lang        string    `yaml:"lang,omitempty"`
	StyleSheets []string  `yaml:"stylesheets,omitempty"`
	Style       string    `yaml:"style,omitempty"`
	Sections    []Section `yaml:"sections"`
}

// Section is one titled block of a report.
type Section struct {
	Heading    string   `yaml:"heading"`
	ID         string   `yaml:"id,omitempty"`
	Paragraphs []string `yaml:"paragraphs,omitempty"`
	List       []string `yaml:"list,omitempty"`
	Table      *Table   `yaml:"table,omitempty"`
	Log        string   `yaml:"log,omitempty"`
	Links      []Link   `yaml:"links,omitempty"`
}

// Table is a header row plus data rows.
type Table struct {
	Columns []string   `yaml:"columns"`
	Rows    [][]string `yaml:"rows"`
}

// Link is an anchor with visible text.
type Link struct {
	Text string `yaml:"text"`
	Href string `yaml:"href"`
}

// Parse decodes and validates a report description.
func Parse(data []byte) (*Report, error) {
	return parse(data, "")
}

// Load reads and parses the report description at path.
func Load(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E203").WithDetail(path)
		}
		return nil, errors.New("E200").WithDetail(path).Wrap(err)
	}
	return parse(data, path)
}

func parse(data []byte, path string) (*Report, error) {
	var r Report
	if err := yaml.Unmarshal(data, &r); err != nil {
		e := errors.New("E201").Wrap(err)
		if path != "" {
			e = e.WithLocationFromError(path, err)
		}
		return nil, e
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

// Validate checks that the report can be built.
func (r *Report) Validate() error {
	if r.Title == "" {
		return errors.New("E202").
			WithDetail("title is required").
			WithExample("title: Nightly build")
	}
	for i, s := range r.Sections {
		if s.Table != nil {
			for j, row := range s.Table.Rows {
				if len(row) != len(s.Table.Columns) {
					return errors.New("E202").
						WithDetail(fmt.Sprintf("sections[%d].table.rows[%d] has %d cells, expected %d",
							i, j, len(row), len(s.Table.Columns))).
						WithSuggestion("Every table row needs one cell per column")
				}
			}
		}
		for j, l := range s.Links {
			if l.Href == "" {
				return errors.New("E202").
					WithDetail(fmt.Sprintf("sections[%d].links[%d] has no href", i, j))
			}
		}
	}
	return nil
}

// Build creates the document tree for the report.
func (r *Report) Build() *html.Element {
	page := html.PageData{
		Title:       r.Title,
		Lang:        r.Lang,
		Meta:        []html.MetaTag{{Name: "generator", Content: Generator}},
		StyleSheets: r.StyleSheets,
	}
	if r.Style != "" {
		page.Styles = []string{r.Style}
	}

	root, body := html.NewPage(page)
	body.AddChild("h1").SetInline(true).AddContent(r.Title)

	for _, s := range r.Sections {
		buildSection(body, s)
	}
	return root
}

func buildSection(body *html.Element, s Section) {
	div := body.AddDiv().SetClass("section")
	if s.ID != "" {
		div.SetID(s.ID)
	}
	if s.Heading != "" {
		div.AddChild("h2").SetInline(true).AddContent(s.Heading)
	}

	for _, p := range s.Paragraphs {
		div.AddParagraph().AddContent(p)
	}

	if len(s.List) > 0 {
		ul := div.AddChild("ul")
		for _, item := range s.List {
			ul.AddChild("li").SetInline(true).AddContent(item)
		}
	}

	if s.Table != nil {
		buildTable(div, s.Table)
	}

	if s.Log != "" {
		LogDump(div, s.Log)
	}

	if len(s.Links) > 0 {
		ul := div.AddChild("ul").SetClass("links")
		for _, l := range s.Links {
			text := l.Text
			if text == "" {
				text = l.Href
			}
			ul.AddChild("li").SetInline(true).
				AddLink(l.Href).SetInline(true).AddContent(text)
		}
	}
}

func buildTable(parent *html.Element, t *Table) {
	table := parent.AddChild("table")

	header := table.AddChild("tr")
	for _, c := range t.Columns {
		header.AddChild("th").SetInline(true).AddContent(c)
	}

	for _, row := range t.Rows {
		tr := table.AddChild("tr")
		for _, cell := range row {
			tr.AddChild("td").SetInline(true).AddContent(cell)
		}
	}
}

// Render writes the complete document for r to w.
func Render(w io.Writer, r *Report, config html.RendererConfig) error {
	if err := html.NewRenderer(config).RenderToWriter(w, r.Build()); err != nil {
		return errors.New("E300").Wrap(err)
	}
	return nil
}
