package handlers

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"strings"

	"github.com/labstack/echo/v4"
)

const layoutTemplate = "templates/layout.html"

//go:embed templates
var templates embed.FS

// TemplateRenderer renders pages embedded into the binary, every page is wrapped into layout
type TemplateRenderer struct {
	pages map[string]*template.Template
}

// NewTemplateRenderer parses layout together with each page
func NewTemplateRenderer() (*TemplateRenderer, error) {
	layout, err := template.ParseFS(templates, layoutTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout - %w", err)
	}

	pages := make(map[string]*template.Template)
	err = fs.WalkDir(templates, "templates", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || path == layoutTemplate {
			return err
		}

		page, err := layout.Clone()
		if err != nil {
			return err
		}

		if _, err := page.ParseFS(templates, path); err != nil {
			return fmt.Errorf("failed to parse page %s - %w", path, err)
		}

		pages[strings.TrimPrefix(path, "templates/")] = page
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &TemplateRenderer{pages: pages}, nil
}

func (r *TemplateRenderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	page, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("page %s doesn't exist", name)
	}
	return page.ExecuteTemplate(w, "layout", data)
}
