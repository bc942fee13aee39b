// Package view renders the dashboard's server-side HTML pages from embedded
// templates.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"deallens-dashboard/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

type Renderer struct {
	templates *template.Template
}

func New() (*Renderer, error) {
	templates, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return &Renderer{templates: templates}, nil
}

// Page is the data contract shared by all templates.
type Page struct {
	Title string
	User  *model.User
	Error string
	Flash string
	Data  any
}

// Render buffers the template output so a late template failure cannot leave
// the client with half a page and a 200 status.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, page Page) {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, name, page); err != nil {
		slog.Error("template render failed", "template", name, "error", err)
		http.Error(w, "Something went wrong", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
