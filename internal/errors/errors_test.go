package errors

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{
			name:    "config error",
			code:    "E100",
			wantMsg: "Config file not found",
			wantCat: CategoryConfig,
		},
		{
			name:    "report error",
			code:    "E201",
			wantMsg: "Report could not be parsed",
			wantCat: CategoryReport,
		},
		{
			name:    "publish error",
			code:    "E401",
			wantMsg: "Upload failed",
			wantCat: CategoryPublish,
		},
		{
			name:    "unknown error code",
			code:    "E999",
			wantMsg: "Unknown error",
			wantCat: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestNewf(t *testing.T) {
	err := Newf(CategoryCLI, "file %q not found", "a.yaml")
	if err.Message != `file "a.yaml" not found` {
		t.Errorf("Message = %q, want %q", err.Message, `file "a.yaml" not found`)
	}
	if err.Category != CategoryCLI {
		t.Errorf("Category = %q, want %q", err.Category, CategoryCLI)
	}
}

func TestDocError_Error(t *testing.T) {
	if got, want := New("E202").Error(), "E202: Invalid report"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	wrapped := New("E300").Wrap(stderrors.New("disk full"))
	if got, want := wrapped.Error(), "E300: Document could not be written: disk full"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	plain := &DocError{Message: "test error"}
	if plain.Error() != "test error" {
		t.Errorf("Error() = %q, want %q", plain.Error(), "test error")
	}
}

func writeReport(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "report.yaml")
	content := "title: Nightly\nsections:\n  - heading: Summary\n   paragraphs: [a]\n  - heading: Logs\nfooter: done\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDocError_WithLocation(t *testing.T) {
	path := writeReport(t)

	err := New("E201").WithLocation(path, 4, 4)
	if err.Location == nil {
		t.Fatal("Location is nil")
	}
	if err.Location.File != path || err.Location.Line != 4 || err.Location.Column != 4 {
		t.Errorf("Location = %+v", err.Location)
	}
	if len(err.Context) != 5 {
		t.Errorf("Context has %d lines, want 5: %q", len(err.Context), err.Context)
	}
}

func TestDocError_WithLocationFromError(t *testing.T) {
	path := writeReport(t)

	err := New("E201").WithLocationFromError(path, stderrors.New("yaml: line 4: did not find expected key"))
	if err.Location == nil || err.Location.Line != 4 {
		t.Fatalf("Location = %+v, want line 4", err.Location)
	}

	noLine := New("E201").WithLocationFromError(path, stderrors.New("unexpected EOF"))
	if noLine.Location != nil {
		t.Errorf("Location = %+v, want nil", noLine.Location)
	}

	if New("E201").WithLocationFromError(path, nil).Location != nil {
		t.Error("nil error should not set a location")
	}
}

func TestDocError_Builders(t *testing.T) {
	err := New("E202").
		WithDetail("table rows must match the column count").
		WithSuggestion("Add the missing cell").
		WithExample("rows: [[a, b]]")

	if err.Detail != "table rows must match the column count" {
		t.Errorf("Detail = %q", err.Detail)
	}
	if err.Suggestion != "Add the missing cell" {
		t.Errorf("Suggestion = %q", err.Suggestion)
	}
	if err.Example != "rows: [[a, b]]" {
		t.Errorf("Example = %q", err.Example)
	}
}

func TestDocError_Wrap(t *testing.T) {
	inner := New("E300")
	outer := New("E401").Wrap(inner)

	if outer.Unwrap() != inner {
		t.Error("Unwrap() should return wrapped error")
	}
	if !stderrors.Is(outer, inner) {
		t.Error("errors.Is should find the wrapped error")
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "E300") != nil {
		t.Error("FromError(nil, ...) should return nil")
	}

	de := New("E300")
	if FromError(de, "E401") != de {
		t.Error("FromError should return DocError as-is")
	}

	stdErr := stderrors.New("boom")
	result := FromError(stdErr, "E401")
	if result.Wrapped != stdErr || result.Code != "E401" {
		t.Errorf("FromError = %+v", result)
	}
}

func TestHasCode(t *testing.T) {
	err := New("E401").Wrap(New("E300").Wrap(stderrors.New("io")))

	if !HasCode(err, "E401") || !HasCode(err, "E300") {
		t.Error("HasCode should find codes along the chain")
	}
	if HasCode(err, "E100") {
		t.Error("HasCode found a code that is not in the chain")
	}
	if HasCode(stderrors.New("plain"), "E100") || HasCode(nil, "E100") {
		t.Error("HasCode should be false for non-DocErrors")
	}
}

func TestHasCodeJoined(t *testing.T) {
	err := fmt.Errorf("render all: %w", stderrors.Join(
		stderrors.New("first"),
		New("E401").Wrap(New("E202")),
	))

	for _, code := range []string{"E401", "E202"} {
		if !HasCode(err, code) {
			t.Errorf("HasCode(%s) = false on joined error", code)
		}
	}
	if HasCode(err, "E300") {
		t.Error("HasCode found a code that is not in the tree")
	}
}

func TestLocation_String(t *testing.T) {
	tests := []struct {
		name string
		loc  *Location
		want string
	}{
		{"nil location", nil, ""},
		{"with column", &Location{File: "r.yaml", Line: 10, Column: 5}, "r.yaml:10:5"},
		{"without column", &Location{File: "r.yaml", Line: 10}, "r.yaml:10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.loc.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	path := writeReport(t)
	err := New("E201").
		WithLocation(path, 4, 4).
		WithSuggestion("Check the indentation").
		WithExample("sections:\n  - heading: x").
		Wrap(stderrors.New("yaml: line 4: did not find expected key"))
	err.DocURL = "https://example.com/E201"

	formatted := err.Format()

	for _, want := range []string{
		"ERROR E201: Report could not be parsed",
		path + ":4:4",
		"→    4 │    paragraphs: [a]",
		"Cause: yaml: line 4",
		"Hint: Check the indentation",
		"Example:",
		"Learn more: https://example.com/E201",
	} {
		if !strings.Contains(formatted, want) {
			t.Errorf("Format() missing %q in:\n%s", want, formatted)
		}
	}
	if strings.Contains(formatted, "\033[") {
		t.Error("Format() contains ANSI codes with colors disabled")
	}
}

func TestFormatCompact(t *testing.T) {
	err := New("E201").WithLocation("missing.yaml", 10, 5)

	want := "missing.yaml:10:5: E201: Report could not be parsed"
	if got := err.FormatCompact(); got != want {
		t.Errorf("FormatCompact() = %q, want %q", got, want)
	}
}

func TestFprint(t *testing.T) {
	DisableColors()
	defer EnableColors()

	var b strings.Builder
	Fprint(&b, New("E400"))
	if !strings.Contains(b.String(), "ERROR E400: No bucket configured") {
		t.Errorf("Fprint(DocError) = %q", b.String())
	}

	b.Reset()
	Fprint(&b, stderrors.New("plain failure"))
	if !strings.Contains(b.String(), "ERROR: plain failure") {
		t.Errorf("Fprint(error) = %q", b.String())
	}
}

func TestGetAllCodes(t *testing.T) {
	codes := GetAllCodes()
	if len(codes) == 0 {
		t.Fatal("GetAllCodes() should return codes")
	}
	for i := 1; i < len(codes); i++ {
		if codes[i-1] >= codes[i] {
			t.Errorf("codes not sorted: %q before %q", codes[i-1], codes[i])
		}
	}
	for _, code := range codes {
		tmpl, _ := GetTemplate(code)
		if tmpl.Category == "" || tmpl.Message == "" {
			t.Errorf("%s has an incomplete template: %+v", code, tmpl)
		}
	}
}

func TestRegister(t *testing.T) {
	Register("E999", ErrorTemplate{
		Category: CategoryRender,
		Message:  "Custom test error",
	})
	defer delete(registry, "E999")

	if err := New("E999"); err.Message != "Custom test error" {
		t.Errorf("Message = %q, want %q", err.Message, "Custom test error")
	}
}

func TestWrapText(t *testing.T) {
	if got := wrapText("short text", 100); len(got) != 1 || got[0] != "short text" {
		t.Errorf("wrapText short text: got %v", got)
	}
	if got := wrapText("this is a longer text that should be wrapped", 20); len(got) != 3 {
		t.Errorf("wrapText long text: expected 3 lines, got %d: %v", len(got), got)
	}
	if got := wrapText("", 10); len(got) != 0 {
		t.Errorf("wrapText empty: expected empty, got %v", got)
	}
}

func TestColorFunctions(t *testing.T) {
	EnableColors()
	if !strings.Contains(red("test"), "\033[31m") {
		t.Error("red should contain ANSI code when colors enabled")
	}

	DisableColors()
	if strings.Contains(red("test"), "\033[") {
		t.Error("red should not contain ANSI code when colors disabled")
	}
	EnableColors()
}
