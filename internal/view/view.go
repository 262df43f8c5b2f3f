package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"

	"bloghub/internal/auth"

	"github.com/dustin/go-humanize"
)

//go:embed templates/*.html
var templateFS embed.FS

const layoutFile = "templates/layout.html"

// Data is the value handed to a page template. Identity and Form are always
// present when the template runs.
type Data map[string]any

// Form echoes submitted values back into a re-rendered form.
type Form struct {
	FirstName string
	Surname   string
	Email     string
	IsAdmin   bool
	Title     string
	Body      string
}

type Renderer interface {
	Render(w http.ResponseWriter, status int, name string, data Data) error
}

type templates struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	"ago": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return humanize.Time(t)
	},
	"date": func(t time.Time) string {
		return t.Format("2 January 2006")
	},
	"iso": func(t time.Time) string {
		return t.UTC().Format(time.RFC3339)
	},
	"paragraphs": func(body string) []string {
		var out []string
		for _, p := range strings.Split(strings.ReplaceAll(body, "\r\n", "\n"), "\n\n") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	},
}

// New parses every page together with the shared layout.
func New() (Renderer, error) {
	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	pages := map[string]*template.Template{}
	for _, file := range files {
		if file == layoutFile {
			continue
		}
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, layoutFile, file)
		if err != nil {
			return nil, fmt.Errorf("error parsing %s: %w", file, err)
		}
		pages[strings.TrimSuffix(path.Base(file), ".html")] = t
	}

	return &templates{pages: pages}, nil
}

func (t *templates) Render(w http.ResponseWriter, status int, name string, data Data) error {
	page, ok := t.pages[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}

	if data == nil {
		data = Data{}
	}
	if _, ok := data["Identity"]; !ok {
		data["Identity"] = auth.Anonymous()
	}
	if _, ok := data["Form"]; !ok {
		data["Form"] = Form{}
	}

	var buf bytes.Buffer
	if err := page.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("error rendering %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
