package devtrace

import (
	"bytes"
	"html/template"
	"io"
)

var markupTemplate = template.Must(template.New("trace").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>{{.Stylesheet}}</style>
</head>
<body>
{{- range $i, $f := .Chain}}
{{- if eq $i 0}}
<section id="exception">
<h1>{{$f.Class}}</h1>
{{- else}}
<section class="cause">
<h1>Caused by {{$f.Class}}</h1>
{{- end}}
<div class="message">{{$f.Message}}</div>
{{- if $f.Elements}}
<table class="trace">
<tbody>
{{- range $f.Elements}}
<tr class="{{.Origin}}">
<td class="location">{{.Location}}</td>
<td class="method">{{.Method}}</td>
</tr>
{{- end}}
</tbody>
</table>
{{- else}}
<p class="empty">no stack recorded</p>
{{- end}}
</section>
{{- end}}
</body>
</html>
`))

type markupPage struct {
	Title      string
	Stylesheet template.CSS
	Chain      Chain
}

// WriteMarkup renders a chain as a self-contained HTML document. The
// stylesheet is trusted and inserted verbatim; every string taken from the
// chain is escaped.
func WriteMarkup(w io.Writer, c Chain, stylesheet string) error {
	root := c.Root()
	title := root.Message
	if title == "" {
		title = orEmpty(root.Class)
	}
	return markupTemplate.Execute(w, markupPage{
		Title:      title,
		Stylesheet: template.CSS(stylesheet),
		Chain:      c,
	})
}

// RenderMarkup is WriteMarkup into a string.
func RenderMarkup(c Chain, stylesheet string) string {
	var buf bytes.Buffer
	// Writes to a bytes.Buffer cannot fail and the template is fixed.
	_ = WriteMarkup(&buf, c, stylesheet)
	return buf.String()
}
