// Package preview serves rendered reports over HTTP while they are being
// written.
//
// The server lists the report descriptions found in the reports directory
// and renders each one on request. With live reload enabled, a small script
// is added to every document; it opens a WebSocket to the server and reloads
// the page when the watched report changes, or shows an overlay when the
// report no longer parses.
//
// Routes:
//
//	GET /                  index of reports
//	GET /reports/{name}    rendered report
//	GET /_htmldoc/reload   live reload WebSocket
//	GET /metrics           Prometheus metrics (path configurable)
package preview
