package gin

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/blackwell-systems/devtrace"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestDebug(t *testing.T) {
	var out bytes.Buffer
	r := gin.New()
	r.Use(Debug(devtrace.Config{Output: &out}))

	var after bool
	r.GET("/test", func(c *gin.Context) {
		panic("gin handler exploded")
	}, func(c *gin.Context) {
		after = true
	})

	req := httptest.NewRequest("GET", "/test", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected status %d, got %d", http.StatusInternalServerError, rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/plain" {
		t.Errorf("expected Content-Type text/plain, got %s", ct)
	}
	if !strings.Contains(rec.Body.String(), "gin handler exploded") {
		t.Errorf("expected report in body, got %s", rec.Body.String())
	}
	if strings.Count(out.String(), "gin handler exploded") != 1 {
		t.Errorf("expected one report in log, got %s", out.String())
	}
	if after {
		t.Error("handlers after the failure should not run")
	}
}

func TestRespondHTML(t *testing.T) {
	r := gin.New()
	r.Use(Respond(devtrace.Config{}))

	r.GET("/test", func(c *gin.Context) {
		panic("boom")
	})

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected status %d, got %d", http.StatusInternalServerError, rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/html" {
		t.Errorf("expected Content-Type text/html, got %s", ct)
	}
	if !strings.Contains(rec.Body.String(), `<section id="exception">`) {
		t.Error("expected markup report")
	}
}

func TestLogRepanics(t *testing.T) {
	var out bytes.Buffer
	r := gin.New()
	r.Use(Log(devtrace.Config{Output: &out}))

	r.GET("/test", func(c *gin.Context) {
		panic("boom")
	})

	defer func() {
		if p := recover(); p != "boom" {
			t.Errorf("expected boom to be re-raised, got %v", p)
		}
		if !strings.Contains(out.String(), "boom") {
			t.Error("expected report in log")
		}
	}()
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/test", nil))
}

func TestNoFailure(t *testing.T) {
	var out bytes.Buffer
	r := gin.New()
	r.Use(Debug(devtrace.Config{Output: &out}))

	r.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, "fine")
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/test", nil))

	if rec.Code != http.StatusOK || rec.Body.String() != "fine" {
		t.Errorf("expected 200 fine, got %d %s", rec.Code, rec.Body.String())
	}
	if out.Len() != 0 {
		t.Errorf("expected nothing logged, got %s", out.String())
	}
}
