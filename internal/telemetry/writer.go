package telemetry

import (
	"io"
	"net/http"
)

// CountingWriter counts the bytes written through it. It implements
// http.Flusher and forwards Flush when W does.
type CountingWriter struct {
	W io.Writer
	N int64
}

func (c *CountingWriter) Write(p []byte) (int, error) {
	n, err := c.W.Write(p)
	c.N += int64(n)
	return n, err
}

// Flush flushes W if it is an http.Flusher.
func (c *CountingWriter) Flush() {
	if f, ok := c.W.(http.Flusher); ok {
		f.Flush()
	}
}
