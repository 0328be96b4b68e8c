package devtrace

import (
	"net/http"
	"strings"
)

// Target is the representation a failure report is rendered to.
type Target int

const (
	TargetText Target = iota
	TargetMarkup
)

const (
	contentTypeText   = "text/plain"
	contentTypeMarkup = "text/html"
)

func (t Target) ContentType() string {
	if t == TargetMarkup {
		return contentTypeMarkup
	}
	return contentTypeText
}

// Negotiate picks markup only for clients whose Accept header leads with
// text/html (browsers). Everything else, including a missing header, gets text.
func Negotiate(r *http.Request) Target {
	if r == nil {
		return TargetText
	}
	if strings.HasPrefix(r.Header.Get("Accept"), contentTypeMarkup) {
		return TargetMarkup
	}
	return TargetText
}
