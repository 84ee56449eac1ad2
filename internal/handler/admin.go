// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dreamcore/site/internal/dashboard"
	"github.com/dreamcore/site/internal/i18n"
	"github.com/dreamcore/site/internal/middleware"
	"github.com/dreamcore/site/internal/render"
	"github.com/dreamcore/site/internal/security"
	"github.com/dreamcore/site/internal/service"
)

// Admin page templates.
const (
	tmplDashboard    = "admin/dashboard"
	tmplBanners      = "admin/banners"
	tmplProjects     = "admin/projects"
	tmplRecruitments = "admin/recruitments"
	tmplRecruitment  = "admin/recruitment"
	tmplContacts     = "admin/contacts"
	tmplUsers        = "admin/users"
	tmplSecurity     = "admin/security"
	tmplSettings     = "admin/settings"
)

// AdminDeps are the collaborators of AdminHandler.
type AdminDeps struct {
	Renderer     *render.Renderer
	Catalog      *i18n.Catalog
	Banners      *service.BannerService
	Projects     *service.ProjectService
	Recruitments *service.RecruitmentService
	Contacts     *service.ContactService
	Users        *service.AdminUserService
	Settings     *service.SettingsService
	Monitor      *security.Monitor
	Now          func() time.Time
	Logger       *slog.Logger
}

// AdminHandler serves the admin back office.
type AdminHandler struct {
	AdminDeps
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(deps AdminDeps) *AdminHandler {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &AdminHandler{AdminDeps: deps}
}

// t returns the translator of the request language.
func (h *AdminHandler) t(r *http.Request) func(string, ...any) string {
	return h.Catalog.Translator(middleware.GetLang(r))
}

func (h *AdminHandler) page(r *http.Request, titleKey string) render.TemplateData {
	return pageData(r, h.Settings, h.t(r)(titleKey))
}

func (h *AdminHandler) stats() dashboard.Stats {
	return dashboard.Compute(dashboard.Input{
		Banners:      h.Banners.List(),
		Projects:     h.Projects.List(),
		Recruitments: h.Recruitments.List(),
		Contacts:     h.Contacts.List(),
	}, h.Now())
}

// Dashboard handles GET /admin.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	data := h.page(r, "admin.nav.dashboard")
	data.Data = h.stats()
	renderPage(w, r, h.Renderer, http.StatusOK, tmplDashboard, data)
}

// Stats handles GET /admin/api/stats.
func (h *AdminHandler) Stats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.stats())
}

// Reload handles POST /admin/reload: every collection is fetched again
// from the backend.
func (h *AdminHandler) Reload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	loaders := []struct {
		name string
		load func() error
	}{
		{"banners", func() error { return h.Banners.Load(ctx) }},
		{"projects", func() error { return h.Projects.Load(ctx) }},
		{"recruitments", func() error { return h.Recruitments.Load(ctx) }},
		{"contacts", func() error { return h.Contacts.Load(ctx) }},
		{"admin_users", func() error { return h.Users.Load(ctx) }},
	}
	for _, l := range loaders {
		if err := l.load(); err != nil {
			h.Logger.Error("reloading collection failed", "collection", l.name, "error", err)
			respondServiceError(w, r, h.Renderer, h.Catalog, redirectAdmin, err)
			return
		}
	}
	respondSuccess(w, r, h.Renderer, redirectAdmin, h.t(r)("admin.saved"), nil)
}
