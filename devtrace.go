// Package devtrace is development middleware that turns unhandled handler
// failures into readable stack traces.
//
// A failure is a panic or, for handlers that can return one, an error. devtrace
// follows the error's causes, captures the stack recorded on each of them and
// either logs the report to an operator stream (Log), answers the request with
// it as text or HTML (Respond), or does both (Debug).
//
// Reports show raw internals. Do not enable devtrace in production.
package devtrace

import (
	"io"
	"net/http"
	"strings"
)

// Config configures the wrappers.
type Config struct {
	// Output is the diagnostic stream Log writes reports to. Required by
	// Log and Debug.
	Output io.Writer

	// Colorize decorates logged reports with ANSI terminal styling.
	Colorize bool

	// Resources provides the stylesheet of HTML reports. Defaults to the
	// stylesheet bundled with the package.
	Resources ResourceLoader
}

// LogFailure writes a text report of each failure to cfg.Output and lets the
// failure propagate unchanged.
func LogFailure(cfg Config) FailureFunc {
	if cfg.Output == nil {
		panic("devtrace: Config.Output is nil")
	}
	return func(w http.ResponseWriter, r *http.Request, err error) error {
		var b strings.Builder
		b.WriteString(requestLine(r))
		b.WriteString(RenderText(Build(err), cfg.Colorize))
		// One write per report keeps concurrent reports from interleaving
		// on streams that serialize writes.
		_, _ = io.WriteString(cfg.Output, b.String())
		return err
	}
}

// RespondFailure answers the request with a 500 diagnostic report and
// swallows the failure. If the handler already sent its headers the text
// report is appended to whatever it wrote.
func RespondFailure(cfg Config) FailureFunc {
	stylesheet := mustLoad(cfg.Resources, StylesheetName)
	return func(w http.ResponseWriter, r *http.Request, err error) error {
		if committed(w) {
			_, _ = io.WriteString(w, "\n"+RenderText(Build(err), false))
			return nil
		}
		WriteReport(w, r, err, stylesheet)
		return nil
	}
}

// Wrap routes every failure of h through onFailure. Log, Respond and Debug
// are Wrap with the corresponding FailureFunc.
func Wrap(h Invocation, onFailure FailureFunc) Invocation {
	return h.wrap(onFailure)
}

// WrapFunc is Wrap for a HandlerFunc, keeping the error return available to
// callers that are not net/http.
func WrapFunc(h HandlerFunc, onFailure FailureFunc) HandlerFunc {
	return h.wrap(onFailure).(HandlerFunc)
}

// Log wraps h so that every failure is logged and then re-raised.
func Log(h Invocation, cfg Config) Invocation {
	return h.wrap(LogFailure(cfg))
}

// Respond wraps h so that every failure is answered with a diagnostic report
// instead of propagating.
func Respond(h Invocation, cfg Config) Invocation {
	return h.wrap(RespondFailure(cfg))
}

// Debug logs every failure of h once and answers it once.
func Debug(h Invocation, cfg Config) Invocation {
	return Respond(Log(h, cfg), cfg)
}

// LogMiddleware is Log for standard handlers.
func LogMiddleware(cfg Config) func(http.Handler) http.Handler {
	onFailure := LogFailure(cfg)
	return func(next http.Handler) http.Handler {
		return Handler(next).wrap(onFailure)
	}
}

// RespondMiddleware is Respond for standard handlers.
func RespondMiddleware(cfg Config) func(http.Handler) http.Handler {
	onFailure := RespondFailure(cfg)
	return func(next http.Handler) http.Handler {
		return Handler(next).wrap(onFailure)
	}
}

// DebugMiddleware is Debug for standard handlers.
func DebugMiddleware(cfg Config) func(http.Handler) http.Handler {
	onFailure := LogFailure(cfg).Then(RespondFailure(cfg))
	return func(next http.Handler) http.Handler {
		return Handler(next).wrap(onFailure)
	}
}

func requestLine(r *http.Request) string {
	if r == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString("devtrace: ")
	b.WriteString(r.Method)
	if r.URL != nil {
		b.WriteByte(' ')
		b.WriteString(r.URL.RequestURI())
	}
	if id := RequestIDFromRequest(r); id != "" {
		b.WriteString(" request_id=")
		b.WriteString(id)
	}
	b.WriteByte('\n')
	return b.String()
}
