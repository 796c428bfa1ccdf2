package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var templateFS embed.FS

const layoutTemplate = "templates/layout.html"

// Renderer renders the embedded page templates, each inside the shared layout.
type Renderer struct {
	pages map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	funcs := template.FuncMap{
		"join":       func(messages []string) string { return strings.Join(messages, " ") },
		"seededQS":   func(seeded bool) string { return "seeded=" + strconv.FormatBool(seeded) },
		"pageLink":   pageLink,
		"pathEscape": url.PathEscape,
	}

	pages := make(map[string]*template.Template, len(files))
	for _, file := range files {
		if file == layoutTemplate {
			continue
		}
		tmpl, err := template.New(path.Base(file)).Funcs(funcs).ParseFS(templateFS, layoutTemplate, file)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", file, err)
		}
		pages[path.Base(file)] = tmpl
	}

	return &Renderer{pages: pages}, nil
}

// Render executes the "layout" template of the named page.
func (r *Renderer) Render(w io.Writer, name string, data any, c echo.Context) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown template %s", name)
	}
	return tmpl.ExecuteTemplate(w, "layout", data)
}

func pageLink(filter string, seeded bool, page int) string {
	params := url.Values{}
	if filter != "" {
		params.Set("filter", filter)
	}
	params.Set("seeded", strconv.FormatBool(seeded))
	params.Set("page", strconv.Itoa(page))
	return "/friends?" + params.Encode()
}
