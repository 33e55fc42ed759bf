// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package render parses the embedded site templates and executes them
// against loader output.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"

	"github.com/olegiv/wayfare-go/internal/i18n"
)

// Renderer handles template rendering with pre-parsed templates.
type Renderer struct {
	templates map[string]*template.Template
	markdown  goldmark.Markdown
	sanitizer *bluemonday.Policy
	mediaURL  func(string) string
	isDev     bool
}

// Config holds renderer configuration.
type Config struct {
	TemplatesFS fs.FS
	// MediaURL resolves a CMS media path to an absolute URL.
	MediaURL func(string) string
	IsDev    bool
}

// New creates a new Renderer with parsed templates.
func New(cfg Config) (*Renderer, error) {
	mediaURL := cfg.MediaURL
	if mediaURL == nil {
		mediaURL = func(s string) string { return s }
	}

	r := &Renderer{
		templates: make(map[string]*template.Template),
		markdown:  goldmark.New(),
		sanitizer: bluemonday.UGCPolicy(),
		mediaURL:  mediaURL,
		isDev:     cfg.IsDev,
	}

	if err := r.parseTemplates(cfg.TemplatesFS); err != nil {
		return nil, err
	}

	return r, nil
}

// parseTemplates parses all page templates from the filesystem.
func (r *Renderer) parseTemplates(templatesFS fs.FS) error {
	partials, err := r.getTemplateFiles(templatesFS, "partials")
	if err != nil {
		return fmt.Errorf("getting partials: %w", err)
	}

	baseLayout := "layouts/base.html"

	pages, err := r.getTemplateFiles(templatesFS, "pages")
	if err != nil {
		return fmt.Errorf("getting page templates: %w", err)
	}

	for _, tmplPath := range pages {
		name := strings.TrimSuffix(filepath.Base(tmplPath), ".html")

		files := []string{baseLayout}
		files = append(files, partials...)
		files = append(files, tmplPath)

		tmpl, err := template.New("").Funcs(r.templateFuncs()).ParseFS(templatesFS, files...)
		if err != nil {
			return fmt.Errorf("parsing template %s: %w", name, err)
		}

		r.templates[name] = tmpl
	}

	return nil
}

// getTemplateFiles returns all .html files in a directory.
func (r *Renderer) getTemplateFiles(templatesFS fs.FS, dir string) ([]string, error) {
	var files []string

	entries, err := fs.ReadDir(templatesFS, dir)
	if err != nil {
		return files, nil
	}

	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".html") {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}

	return files, nil
}

// templateFuncs returns custom template functions.
func (r *Renderer) templateFuncs() template.FuncMap {
	return template.FuncMap{
		"markdown": func(source string) template.HTML {
			var buf bytes.Buffer
			if err := r.markdown.Convert([]byte(source), &buf); err != nil {
				return template.HTML(template.HTMLEscapeString(source))
			}
			return template.HTML(r.sanitizer.SanitizeBytes(buf.Bytes()))
		},
		"mediaURL": func(path string) string {
			return r.mediaURL(path)
		},
		"localizedURL": func(lang string, keys ...string) string {
			return i18n.BuildLocalizedURL(lang, keys, nil)
		},
		"articleURL": func(lang, slug string) string {
			return i18n.BuildLocalizedURL(lang, []string{"articles", ":slug"},
				map[string]string{"slug": slug})
		},
		"tagURL": func(lang, slug string) string {
			return i18n.BuildLocalizedURL(lang, []string{"tag", ":slug"},
				map[string]string{"slug": slug})
		},
		"languageName": func(code string) string {
			return i18n.GetLanguageInfo(code).Name
		},
		"languageFlag": func(code string) string {
			return i18n.GetLanguageInfo(code).Flag
		},
		"formatDate": func(value string) string {
			t, err := time.Parse(time.RFC3339, value)
			if err != nil {
				return value
			}
			return t.Format("Jan 2, 2006")
		},
		"safe": func(s string) template.HTML {
			return template.HTML(s)
		},
	}
}

// TemplateData holds data passed to templates.
type TemplateData struct {
	Title       string
	Lang        string
	Data        any
	CurrentYear int
	IsDev       bool
}

// Render renders a template with the given data.
func (r *Renderer) Render(w http.ResponseWriter, name string, data TemplateData) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}

	data.CurrentYear = time.Now().Year()
	data.IsDev = r.isDev
	if data.Lang == "" {
		data.Lang = i18n.FallbackLocale
	}

	// Render to buffer first to catch errors
	buf := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(buf, "base", data); err != nil {
		return fmt.Errorf("executing template %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err := buf.WriteTo(w)
	return err
}

// Markdown converts CMS markdown to sanitized HTML outside of templates.
func (r *Renderer) Markdown(source string) template.HTML {
	var buf bytes.Buffer
	if err := r.markdown.Convert([]byte(source), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(source))
	}
	return template.HTML(r.sanitizer.SanitizeBytes(buf.Bytes()))
}
