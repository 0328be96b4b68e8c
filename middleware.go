package devtrace

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type ctxKey string

const requestIDKey ctxKey = "devtrace.request_id"

// RequestIDFromRequest extracts the request ID from the request header or context.
func RequestIDFromRequest(r *http.Request) string {
	if r == nil {
		return ""
	}
	// Prefer header
	if id := r.Header.Get(HeaderRequestID); id != "" {
		return id
	}
	if v, ok := r.Context().Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

// WithRequestID adds a request ID to the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDMiddleware generates or propagates a request ID for each request so
// that a logged report and the response it belongs to can be matched up.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(HeaderRequestID, id)
		next.ServeHTTP(w, r.WithContext(WithRequestID(r.Context(), id)))
	})
}
