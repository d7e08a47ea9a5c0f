package html

import (
	"bytes"
	"net/http/httptest"
	"testing"
)

func TestStreamingRendererMatchesRenderer(t *testing.T) {
	root := sampleDocument()
	want, err := NewRenderer(RendererConfig{}).RenderToString(root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var buf bytes.Buffer
	fw := &FlushableWriter{Writer: &buf}
	if err := NewStreamingRenderer(fw, RendererConfig{}, 0).Render(root); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if buf.String() != want {
		t.Errorf("streamed output differs:\n got %q\nwant %q", buf.String(), want)
	}
	if fw.FlushCount != 2 {
		t.Errorf("FlushCount = %d, want 2 (after DOCTYPE and at the end)", fw.FlushCount)
	}
}

func TestStreamingRendererFlushEvery(t *testing.T) {
	root := sampleDocument()

	var buf bytes.Buffer
	fw := &FlushableWriter{Writer: &buf}
	if err := NewStreamingRenderer(fw, RendererConfig{}, 16).Render(root); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if fw.FlushCount <= 2 {
		t.Errorf("FlushCount = %d, want more than 2 with a 16 byte threshold", fw.FlushCount)
	}
}

func TestStreamingRendererWithoutFlusher(t *testing.T) {
	var buf bytes.Buffer
	if err := NewStreamingRenderer(&buf, RendererConfig{}, 1).Render(New("html")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := Doctype + "\n<html/>"; buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestStreamingRendererHTTP(t *testing.T) {
	rec := httptest.NewRecorder()
	if err := NewStreamingRenderer(rec, RendererConfig{}, 0).Render(sampleDocument()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rec.Flushed {
		t.Error("response was not flushed")
	}
	if rec.Body.Len() == 0 {
		t.Error("response body is empty")
	}
}
