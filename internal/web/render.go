package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/pathakanu/pillpal/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{
	"login",
	"register",
	"dashboard",
	"add_reminder",
	"upload_voice",
	"community",
}

// page is the data every template receives.
type page struct {
	Title string
	User  *model.User
	Flash *Flash
	Data  any
}

type renderer struct {
	pages map[string]*template.Template
}

func newRenderer() (*renderer, error) {
	rd := &renderer{pages: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		tmpl, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		rd.pages[name] = tmpl
	}
	return rd, nil
}

// render writes the named page. The pending flash is consumed.
func (s *Server) render(w http.ResponseWriter, r *http.Request, name, title string, data any) error {
	tmpl, ok := s.pages.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}

	p := page{
		Title: title,
		User:  currentUser(r),
		Flash: s.flash.pop(w, r),
		Data:  data,
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", p); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, err := buf.WriteTo(w)
	return err
}
