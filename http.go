package devtrace

import (
	"io"
	"net/http"
)

const (
	// HeaderRequestID is the standard header name for request IDs.
	HeaderRequestID = "X-Request-Id"
)

// WriteReport writes a 500 diagnostic response for err, rendered for the
// representation the request negotiates.
func WriteReport(w http.ResponseWriter, r *http.Request, err error, stylesheet string) {
	chain := Build(err)
	target := Negotiate(r)

	if id := RequestIDFromRequest(r); id != "" {
		w.Header().Set(HeaderRequestID, id)
	}
	w.Header().Set("Content-Type", target.ContentType())
	w.Header().Del("Content-Length")
	w.WriteHeader(http.StatusInternalServerError)

	if target == TargetMarkup {
		_ = WriteMarkup(w, chain, stylesheet)
		return
	}
	_, _ = io.WriteString(w, RenderText(chain, false))
}

// responseWriter remembers whether the wrapped handler already sent headers.
type responseWriter struct {
	http.ResponseWriter
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.wroteHeader = true
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	return rw.ResponseWriter.Write(b)
}

func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		rw.wroteHeader = true
		f.Flush()
	}
}

// committed reports whether w, or any writer it wraps, has already sent its
// status line. Framework writers are recognised by a Written method.
func committed(w http.ResponseWriter) bool {
	for w != nil {
		switch rw := w.(type) {
		case *responseWriter:
			if rw.wroteHeader {
				return true
			}
		case interface{ Written() bool }:
			return rw.Written()
		}
		u, ok := w.(interface{ Unwrap() http.ResponseWriter })
		if !ok {
			return false
		}
		w = u.Unwrap()
	}
	return false
}

// trackWriter wraps w unless it is already tracked.
func trackWriter(w http.ResponseWriter) http.ResponseWriter {
	if _, ok := w.(*responseWriter); ok {
		return w
	}
	return &responseWriter{ResponseWriter: w}
}
