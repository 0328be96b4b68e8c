// Package chi provides thin adapters for using devtrace with chi router.
//
// Chi uses standard net/http handlers, so devtrace works directly.
// This package exists for discoverability and convenience.
package chi

import (
	"net/http"

	"github.com/blackwell-systems/devtrace"
)

// Debug logs every panic of the routes below it to cfg.Output and answers
// with a diagnostic report.
//
// Example:
//
//	r := chi.NewRouter()
//	r.Use(devtracechi.Debug(devtrace.Config{Output: os.Stderr}))
func Debug(cfg devtrace.Config) func(http.Handler) http.Handler {
	return devtrace.DebugMiddleware(cfg)
}

// Log logs every panic to cfg.Output and re-panics.
func Log(cfg devtrace.Config) func(http.Handler) http.Handler {
	return devtrace.LogMiddleware(cfg)
}

// Respond answers panics with a diagnostic report.
func Respond(cfg devtrace.Config) func(http.Handler) http.Handler {
	return devtrace.RespondMiddleware(cfg)
}

// RequestID is devtrace.RequestIDMiddleware.
func RequestID(next http.Handler) http.Handler {
	return devtrace.RequestIDMiddleware(next)
}
