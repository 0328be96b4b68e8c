// Package gin provides adapters for using devtrace with Gin framework.
package gin

import (
	"net/http"

	"github.com/blackwell-systems/devtrace"
	"github.com/gin-gonic/gin"
)

// Debug recovers panics of the remaining chain, logs them to cfg.Output and
// answers with a diagnostic report.
//
// Register it instead of gin.Recovery():
//
//	r := gin.New()
//	r.Use(Debug(devtrace.Config{Output: os.Stderr}))
func Debug(cfg devtrace.Config) gin.HandlerFunc {
	return middleware(devtrace.LogFailure(cfg).Then(devtrace.RespondFailure(cfg)))
}

// Log logs panics to cfg.Output and re-panics with the original value.
func Log(cfg devtrace.Config) gin.HandlerFunc {
	return middleware(devtrace.LogFailure(cfg))
}

// Respond answers panics with a diagnostic report.
func Respond(cfg devtrace.Config) gin.HandlerFunc {
	return middleware(devtrace.RespondFailure(cfg))
}

func middleware(onFailure devtrace.FailureFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		next := devtrace.HandlerFunc(func(w http.ResponseWriter, r *http.Request) error {
			c.Request = r
			c.Next()
			return nil
		})
		h := devtrace.Wrap(next, func(w http.ResponseWriter, r *http.Request, err error) error {
			if err = onFailure(w, r, err); err != nil {
				return err
			}
			// Handlers after the failing one must not run.
			c.Abort()
			return nil
		})
		h.ServeHTTP(c.Writer, c.Request)
	}
}
