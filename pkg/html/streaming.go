package html

import (
	"io"
	"net/http"
)

// StreamingRenderer wraps Renderer with chunked output support.
// It flushes content incrementally for faster time-to-first-byte.
type StreamingRenderer struct {
	*Renderer
	flusher    http.Flusher
	w          io.Writer
	flushEvery int
}

// NewStreamingRenderer creates a streaming renderer that writes to w.
// If w implements http.Flusher, the DOCTYPE line is flushed immediately and
// the rest of the document is flushed every flushEvery bytes and once at
// the end. A flushEvery of zero or less flushes only at the start and end.
func NewStreamingRenderer(w io.Writer, config RendererConfig, flushEvery int) *StreamingRenderer {
	flusher, _ := w.(http.Flusher)
	return &StreamingRenderer{
		Renderer:   NewRenderer(config),
		flusher:    flusher,
		w:          w,
		flushEvery: flushEvery,
	}
}

// Render writes the complete document for root.
func (s *StreamingRenderer) Render(root *Element) error {
	if err := writeDoctype(s.w); err != nil {
		return err
	}
	s.flush()

	fw := &flushingWriter{w: s.w, every: s.flushEvery, flush: s.flush}
	if err := s.RenderFragment(fw, root); err != nil {
		return err
	}

	// Final flush
	s.flush()
	return nil
}

// flush flushes the writer if it supports flushing.
func (s *StreamingRenderer) flush() {
	if s.flusher != nil {
		s.flusher.Flush()
	}
}

// flushingWriter calls flush each time at least every bytes have been
// written since the previous flush.
type flushingWriter struct {
	w       io.Writer
	every   int
	pending int
	flush   func()
}

func (f *flushingWriter) Write(p []byte) (int, error) {
	n, err := f.w.Write(p)
	if err != nil {
		return n, err
	}
	if f.every > 0 {
		f.pending += n
		if f.pending >= f.every {
			f.pending = 0
			f.flush()
		}
	}
	return n, nil
}

// FlushableWriter wraps an io.Writer with optional flushing capability.
// This is useful for testing streaming behavior without using http.ResponseWriter.
type FlushableWriter struct {
	io.Writer
	FlushCount int
}

// Flush implements http.Flusher.
func (w *FlushableWriter) Flush() {
	w.FlushCount++
}
