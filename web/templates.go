// Package web holds the server-rendered view templates. The views are
// thin glue over the same services the JSON API uses.
package web

import (
	"embed"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/notesmart/notesmart/internal/logger"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"datetime": func(t time.Time) string {
		return t.Format("Jan 02, 2006 at 3:04 PM")
	},
	"nl2br": func(s string) template.HTML {
		escaped := template.HTMLEscapeString(s)
		return template.HTML(strings.ReplaceAll(escaped, "\n", "<br>"))
	},
}).ParseFS(templateFS, "templates/*.html"))

// Render writes the named template to the response. Render failures
// are logged; by then part of the body may already be written.
func Render(w http.ResponseWriter, name string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.ExecuteTemplate(w, name, data); err != nil {
		logger.Log.Errorw("template render failed", "template", name, "error", err)
	}
}
