package handlers

import (
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/carechat/portal/internal/models"
)

// TemplateData holds common data passed to templates
type TemplateData struct {
	Error     string
	Message   string
	Username  string // Repopulates the username field after a failed submit
	Email     string
	FullName  string
	User      *models.User
	Sessions  []models.Session
	Version   string
	CSRFField template.HTML
}

// templateFuncs returns custom template functions
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"shortID": func(id string) string {
			if len(id) > 8 {
				return id[:8]
			}
			return id
		},
		"formatTime": func(t time.Time) string {
			return t.Local().Format("Jan 2, 2006 15:04")
		},
	}
}

// parsePages parses every embedded page template
func parsePages() map[string]*template.Template {
	sources := map[string]string{
		"login":    loginHTML,
		"signup":   signupHTML,
		"home":     homeHTML,
		"notfound": notFoundHTML,
	}

	pages := make(map[string]*template.Template, len(sources))
	for name, src := range sources {
		pages[name] = template.Must(template.New(name).Funcs(templateFuncs()).Parse(src))
	}
	return pages
}

var pages = parsePages()

// renderPage writes the named page with the given data
func renderPage(w http.ResponseWriter, name string, status int, data TemplateData) error {
	tmpl, ok := pages[name]
	if !ok {
		return fmt.Errorf("unknown page template: %q", name)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	return tmpl.Execute(w, data)
}
