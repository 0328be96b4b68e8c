package devtrace

import (
	"strings"

	"github.com/labstack/gommon/color"
)

// RenderText renders a chain as a conventional stack dump:
//
//	*errors.errorString: boom
//		at api.(*Server).Create (/src/api/server.go:42)
//		at net/http.HandlerFunc.ServeHTTP (/usr/local/go/src/net/http/server.go:2171)
//	Caused by: ...
//
// With colorize set the same lines are decorated with ANSI styles.
func RenderText(c Chain, colorize bool) string {
	p := newPalette(colorize)
	var b strings.Builder
	for i, f := range c.All() {
		if i > 0 {
			b.WriteString(p.cause("Caused by: "))
		}
		b.WriteString(p.class(orEmpty(f.Class)))
		b.WriteString(": ")
		b.WriteString(p.message(f.Message))
		b.WriteByte('\n')
		for _, e := range f.Elements {
			b.WriteString("\tat ")
			b.WriteString(p.method(e))
			b.WriteString(" (")
			b.WriteString(p.location(e.Location()))
			b.WriteString(")\n")
		}
	}
	return b.String()
}

type palette struct {
	c *color.Color
}

func newPalette(colorize bool) palette {
	c := color.New()
	if colorize {
		c.Enable()
	} else {
		c.Disable()
	}
	return palette{c: c}
}

func (p palette) class(s string) string   { return p.c.Red(s, color.B) }
func (p palette) message(s string) string { return p.c.Bold(s) }
func (p palette) cause(s string) string   { return p.c.Yellow(s) }
func (p palette) location(s string) string {
	return p.c.Cyan(s)
}

func (p palette) method(e Element) string {
	if e.Origin == OriginRuntime {
		return p.c.Grey(e.Method())
	}
	return p.c.Yellow(e.Method())
}

func orEmpty(s string) string {
	if s == "" {
		return "<unknown>"
	}
	return s
}
