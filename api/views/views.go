package views

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/http"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer executes the embedded page templates. Every page template is
// parsed together with base.html and rendered through its "base" block.
type Renderer struct {
	pages map[string]*template.Template
}

var pageNames = []string{
	"product_list.html",
	"product_detail.html",
	"product_form.html",
	"product_confirm_archive.html",
	"order_list.html",
	"order_detail.html",
	"order_form.html",
	"order_confirm_delete.html",
	"user_orders.html",
	"csv_import.html",
}

// NewRenderer parses the embedded templates once at startup.
func NewRenderer() (*Renderer, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tmpl, err := template.ParseFS(templateFS, "templates/base.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		pages[name] = tmpl
	}
	return &Renderer{pages: pages}, nil
}

// Render writes the named page with the given status code.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, data any) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown template %s", name)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	return tmpl.ExecuteTemplate(w, "base", data)
}

// RenderTo executes a page into an arbitrary writer, used by tests.
func (r *Renderer) RenderTo(w io.Writer, name string, data any) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown template %s", name)
	}
	return tmpl.ExecuteTemplate(w, "base", data)
}
