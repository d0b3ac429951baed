package http

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/vncsmyrnk/pollweb/internal/core/domain"
	"github.com/vncsmyrnk/pollweb/internal/logging"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{"landing", "auth", "polls", "create", "poll", "error"}

type page struct {
	Title   string
	Session *domain.Session
	Data    any
}

type Views struct {
	pages map[string]*template.Template
}

func NewViews() (*Views, error) {
	funcs := template.FuncMap{
		"inc": func(i int) int { return i + 1 },
	}

	r := &Views{pages: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

func (rd *Views) render(w http.ResponseWriter, r *http.Request, status int, name string, p page) {
	if p.Session == nil {
		p.Session, _ = domain.SessionFromContext(r.Context())
	}

	t, ok := rd.pages[name]
	if !ok {
		http.Error(w, "unknown page "+name, http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", p); err != nil {
		logging.Log.Errorf("failed to render %s: %v", name, err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (rd *Views) renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	rd.render(w, r, status, "error", page{Title: http.StatusText(status), Data: message})
}
