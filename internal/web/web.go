// Package web holds the server-rendered pages.
package web

import (
	"embed"
	"html/template"
	"time"

	"github.com/KristinSchanks/healthcare-qms/internal/utils"
)

//go:embed templates/*.html
var files embed.FS

// Templates parses every page and partial. Page templates are named by file name, e.g. "login.html".
func Templates() (*template.Template, error) {
	return template.New("").Funcs(FuncMap()).ParseFS(files, "templates/*.html")
}

func FuncMap() template.FuncMap {
	return template.FuncMap{
		"truncate": utils.Truncate,
		"timestamp": func(t time.Time) string {
			return t.UTC().Format("2006-01-02 15:04 UTC")
		},
	}
}
