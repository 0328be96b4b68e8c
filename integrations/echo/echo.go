// Package echo provides adapters for using devtrace with Echo framework.
package echo

import (
	"errors"
	"net/http"

	"github.com/blackwell-systems/devtrace"
	echofw "github.com/labstack/echo/v4"
)

// Debug reports panics and returned errors of the wrapped handlers: each is
// logged to cfg.Output and answered with a diagnostic report.
//
// *echo.HTTPError values are routing and protocol outcomes, not failures,
// and are left to Echo's error handler.
//
// Example:
//
//	e := echo.New()
//	e.Use(Debug(devtrace.Config{Output: os.Stderr}))
func Debug(cfg devtrace.Config) echofw.MiddlewareFunc {
	return middleware(devtrace.LogFailure(cfg).Then(devtrace.RespondFailure(cfg)))
}

// Log logs failures to cfg.Output and returns them to Echo unchanged.
// Panics are re-raised with their original value.
func Log(cfg devtrace.Config) echofw.MiddlewareFunc {
	return middleware(devtrace.LogFailure(cfg))
}

// Respond answers failures with a diagnostic report.
func Respond(cfg devtrace.Config) echofw.MiddlewareFunc {
	return middleware(devtrace.RespondFailure(cfg))
}

func middleware(onFailure devtrace.FailureFunc) echofw.MiddlewareFunc {
	filtered := func(w http.ResponseWriter, r *http.Request, err error) error {
		var he *echofw.HTTPError
		if errors.As(err, &he) {
			return err
		}
		return onFailure(w, r, err)
	}

	return func(next echofw.HandlerFunc) echofw.HandlerFunc {
		return func(c echofw.Context) error {
			h := devtrace.WrapFunc(func(w http.ResponseWriter, r *http.Request) error {
				c.SetRequest(r)
				return next(c)
			}, filtered)

			err := h(response{c.Response()}, c.Request())
			if pe, ok := err.(*devtrace.PanicError); ok {
				panic(pe.Value)
			}
			return err
		}
	}
}

// response exposes Echo's commit state to devtrace.
type response struct {
	*echofw.Response
}

func (r response) Written() bool { return r.Committed }
