package devtrace

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWriteReportText(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/test", nil)
	r.Header.Set(HeaderRequestID, "trace123")

	WriteReport(w, r, errors.New("something broke"), "")

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/plain" {
		t.Errorf("expected Content-Type text/plain, got %s", ct)
	}
	if id := w.Header().Get(HeaderRequestID); id != "trace123" {
		t.Errorf("expected X-Request-Id trace123, got %s", id)
	}
	if w.Body.String() != "*errors.errorString: something broke\n" {
		t.Errorf("unexpected body %q", w.Body.String())
	}
}

func TestWriteReportMarkup(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/test", nil)
	r.Header.Set("Accept", "text/html; q=0.9")

	WriteReport(w, r, errors.New("<script>alert(1)</script>"), "")

	if ct := w.Header().Get("Content-Type"); ct != "text/html" {
		t.Errorf("expected Content-Type text/html, got %s", ct)
	}
	if strings.Contains(w.Body.String(), "<script>") {
		t.Error("message must be escaped in markup")
	}
	if w.Header().Get(HeaderRequestID) != "" {
		t.Error("expected no request id header without a request id")
	}
}

func TestWriteReportDropsContentLength(t *testing.T) {
	w := httptest.NewRecorder()
	w.Header().Set("Content-Length", "2")

	WriteReport(w, httptest.NewRequest("GET", "/", nil), errBoom, "")

	if w.Header().Get("Content-Length") != "" {
		t.Error("stale Content-Length should be removed")
	}
}

type writtenWriter struct {
	http.ResponseWriter
	written bool
}

func (w *writtenWriter) Written() bool { return w.written }

type unwrapper struct {
	http.ResponseWriter
}

func (u unwrapper) Unwrap() http.ResponseWriter { return u.ResponseWriter }

func TestCommitted(t *testing.T) {
	rec := httptest.NewRecorder()

	tracked := trackWriter(rec)
	if committed(tracked) {
		t.Error("fresh writer should not be committed")
	}
	tracked.WriteHeader(http.StatusOK)
	if !committed(tracked) {
		t.Error("writer should be committed after WriteHeader")
	}
	if trackWriter(tracked) != tracked {
		t.Error("trackWriter should not wrap twice")
	}

	framework := &writtenWriter{ResponseWriter: rec}
	if committed(trackWriter(framework)) {
		t.Error("framework writer not written yet")
	}
	framework.written = true
	if !committed(trackWriter(framework)) {
		t.Error("expected Written() to be consulted through the tracker")
	}
	if !committed(unwrapper{framework}) {
		t.Error("expected Unwrap chain to be followed")
	}
	if committed(rec) {
		t.Error("plain recorder carries no commit state")
	}
}

func TestTrackedWriterFlush(t *testing.T) {
	rec := httptest.NewRecorder()
	tracked := trackWriter(rec)
	tracked.(http.Flusher).Flush()

	if !rec.Flushed {
		t.Error("expected Flush to reach the recorder")
	}
	if !committed(tracked) {
		t.Error("flushed writer is committed")
	}
}
