// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package render renders the public, auth and admin pages from html/template
// files and keeps the per-session flash message and form token.
package render

import (
	"bytes"
	"context"
	"crypto/subtle"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/dreamcore/site/internal/backend"
	"github.com/dreamcore/site/internal/i18n"
	"github.com/dreamcore/site/internal/security"
)

// Session keys.
const (
	sessionKeyFlash     = "flash"
	sessionKeyFlashType = "flash_type"
	sessionKeyFormToken = "form_token"
)

// FormTokenField is the form field and FormTokenHeader the request header
// that carry the form token.
const (
	FormTokenField  = "form_token"
	FormTokenHeader = "X-CSRF-Token"
)

// layouts maps a template directory to the layout its pages are wrapped in.
var layouts = map[string]string{
	"public": "layouts/public.html",
	"auth":   "layouts/auth.html",
	"admin":  "layouts/admin.html",
}

// Renderer handles template rendering with caching.
type Renderer struct {
	templates      map[string]*template.Template
	sessionManager *scs.SessionManager
	catalog        *i18n.Catalog
	now            func() time.Time
	logger         *slog.Logger
}

// Config holds renderer configuration.
type Config struct {
	TemplatesFS    fs.FS
	SessionManager *scs.SessionManager
	Catalog        *i18n.Catalog
	Now            func() time.Time
	Logger         *slog.Logger
}

// New creates a Renderer and parses every page under TemplatesFS.
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		templates:      make(map[string]*template.Template),
		sessionManager: cfg.SessionManager,
		catalog:        cfg.Catalog,
		now:            cfg.Now,
		logger:         cfg.Logger,
	}
	if r.now == nil {
		r.now = time.Now
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}

	if err := r.parseTemplates(cfg.TemplatesFS); err != nil {
		return nil, err
	}
	return r, nil
}

// parseTemplates builds one template set per page: base layout, section
// layout, partials, page.
func (r *Renderer) parseTemplates(templatesFS fs.FS) error {
	partials, err := templateFiles(templatesFS, "partials")
	if err != nil {
		return fmt.Errorf("getting partials: %w", err)
	}

	for dir, layout := range layouts {
		pages, err := templateFiles(templatesFS, dir)
		if err != nil {
			return fmt.Errorf("getting %s templates: %w", dir, err)
		}

		for _, page := range pages {
			name := dir + "/" + strings.TrimSuffix(path.Base(page), ".html")

			files := []string{"layouts/base.html", layout}
			files = append(files, partials...)
			files = append(files, page)

			tmpl, err := template.New("").Funcs(templateFuncs()).ParseFS(templatesFS, files...)
			if err != nil {
				return fmt.Errorf("parsing template %s: %w", name, err)
			}
			r.templates[name] = tmpl
		}
	}
	return nil
}

// templateFiles returns the .html files in dir. A missing directory yields
// no files.
func templateFiles(templatesFS fs.FS, dir string) ([]string, error) {
	entries, err := fs.ReadDir(templatesFS, dir)
	if err != nil {
		return nil, nil
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".html") {
			files = append(files, path.Join(dir, entry.Name()))
		}
	}
	return files, nil
}

// Has reports whether a page template exists.
func (r *Renderer) Has(name string) bool {
	_, ok := r.templates[name]
	return ok
}

// TemplateData holds data passed to templates.
type TemplateData struct {
	Title       string
	SiteName    string
	Lang        string
	Languages   []string
	Path        string
	Data        any
	Errors      map[string]string
	Flash       string
	FlashType   string
	CurrentYear int
	CSRFToken   string
	User        *backend.User

	catalog *i18n.Catalog
}

// T translates key into the page language. Templates call it as
// {{$.T "nav.home"}}.
func (d TemplateData) T(key string, args ...any) string {
	if d.catalog == nil {
		return key
	}
	return d.catalog.T(d.Lang, key, args...)
}

// FieldError returns the translated error of a form field.
func (d TemplateData) FieldError(field string) string {
	return d.Errors[field]
}

// Render writes page name with status 200.
func (r *Renderer) Render(w http.ResponseWriter, req *http.Request, name string, data TemplateData) error {
	return r.RenderStatus(w, req, http.StatusOK, name, data)
}

// RenderStatus writes page name with the given status. Rendering happens
// into a buffer, so a template error leaves the response untouched.
func (r *Renderer) RenderStatus(w http.ResponseWriter, req *http.Request, status int, name string, data TemplateData) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}

	data.catalog = r.catalog
	data.CurrentYear = r.now().Year()
	data.Path = req.URL.Path
	if data.Lang == "" {
		data.Lang = i18n.DefaultLanguage
	}
	if r.catalog != nil {
		data.Languages = r.catalog.Languages()
	}
	if data.SiteName == "" {
		data.SiteName = "DreamCore"
	}

	if r.sessionManager != nil {
		ctx := req.Context()
		if flash := r.sessionManager.PopString(ctx, sessionKeyFlash); flash != "" {
			data.Flash = flash
			data.FlashType = r.sessionManager.PopString(ctx, sessionKeyFlashType)
			if data.FlashType == "" {
				data.FlashType = "info"
			}
		}
		if data.CSRFToken == "" {
			data.CSRFToken = r.FormToken(ctx)
		}
	}

	buf := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(buf, "base", data); err != nil {
		return fmt.Errorf("executing template %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// SetFlash sets a flash message in the session.
func (r *Renderer) SetFlash(req *http.Request, message, flashType string) {
	if r.sessionManager != nil {
		r.sessionManager.Put(req.Context(), sessionKeyFlash, message)
		r.sessionManager.Put(req.Context(), sessionKeyFlashType, flashType)
	}
}

// FormToken returns the session's form token, creating it on first use.
func (r *Renderer) FormToken(ctx context.Context) string {
	if r.sessionManager == nil {
		return ""
	}
	if token := r.sessionManager.GetString(ctx, sessionKeyFormToken); token != "" {
		return token
	}
	token, err := security.NewCSRFToken()
	if err != nil {
		r.logger.Error("generating form token", "error", err)
		return ""
	}
	r.sessionManager.Put(ctx, sessionKeyFormToken, token)
	return token
}

// ValidFormToken reports whether the request carries the session's form
// token in the form body or the X-CSRF-Token header.
func (r *Renderer) ValidFormToken(req *http.Request) bool {
	if r.sessionManager == nil {
		return false
	}
	want := r.sessionManager.GetString(req.Context(), sessionKeyFormToken)
	if want == "" {
		return false
	}
	got := req.Header.Get(FormTokenHeader)
	if got == "" {
		got = req.PostFormValue(FormTokenField)
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}
