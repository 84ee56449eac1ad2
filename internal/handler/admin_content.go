// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dreamcore/site/internal/model"
	"github.com/dreamcore/site/internal/service"
)

// ListBanners handles GET /admin/banners.
func (h *AdminHandler) ListBanners(w http.ResponseWriter, r *http.Request) {
	data := h.page(r, "admin.nav.banners")
	data.Data = h.Banners.List()
	renderPage(w, r, h.Renderer, http.StatusOK, tmplBanners, data)
}

// CreateBanner handles POST /admin/banners.
func (h *AdminHandler) CreateBanner(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.Renderer, h.Catalog, redirectBanners) {
		return
	}
	created, err := h.Banners.Create(r.Context(), bannerFromForm(r))
	if err != nil {
		respondServiceError(w, r, h.Renderer, h.Catalog, redirectBanners, err)
		return
	}
	respondSuccess(w, r, h.Renderer, redirectBanners, h.t(r)("admin.created"), map[string]any{"banner": created})
}

// UpdateBanner handles POST /admin/banners/{id}.
func (h *AdminHandler) UpdateBanner(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.Renderer, h.Catalog, redirectBanners) {
		return
	}
	updated, err := h.Banners.Update(r.Context(), chi.URLParam(r, "id"), bannerFromForm(r))
	if err != nil {
		respondServiceError(w, r, h.Renderer, h.Catalog, redirectBanners, err)
		return
	}
	respondSuccess(w, r, h.Renderer, redirectBanners, h.t(r)("admin.saved"), map[string]any{"banner": updated})
}

// ToggleBanner handles POST /admin/banners/{id}/toggle.
func (h *AdminHandler) ToggleBanner(w http.ResponseWriter, r *http.Request) {
	banner, ok := requireRecord(w, r, h.Renderer, h.Catalog, redirectBanners, chi.URLParam(r, "id"), h.Banners.Get)
	if !ok {
		return
	}
	updated, err := h.Banners.SetActive(r.Context(), banner.ID, !banner.Active)
	if err != nil {
		respondServiceError(w, r, h.Renderer, h.Catalog, redirectBanners, err)
		return
	}
	respondSuccess(w, r, h.Renderer, redirectBanners, h.t(r)("admin.saved"), map[string]any{"banner": updated})
}

// DeleteBanner handles POST /admin/banners/{id}/delete.
func (h *AdminHandler) DeleteBanner(w http.ResponseWriter, r *http.Request) {
	if err := h.Banners.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, r, h.Renderer, h.Catalog, redirectBanners, err)
		return
	}
	respondSuccess(w, r, h.Renderer, redirectBanners, h.t(r)("admin.deleted"), nil)
}

func bannerFromForm(r *http.Request) model.Banner {
	return model.Banner{
		Title:       r.PostFormValue("title"),
		Description: r.PostFormValue("description"),
		ImageURL:    r.PostFormValue("imageUrl"),
		Active:      r.PostFormValue("isActive") == "true",
	}
}

// ListProjects handles GET /admin/projects.
func (h *AdminHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	data := h.page(r, "admin.nav.projects")
	data.Data = h.Projects.List()
	renderPage(w, r, h.Renderer, http.StatusOK, tmplProjects, data)
}

// CreateProject handles POST /admin/projects.
func (h *AdminHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.Renderer, h.Catalog, redirectProjects) {
		return
	}
	created, err := h.Projects.Create(r.Context(), projectFromForm(r))
	if err != nil {
		respondServiceError(w, r, h.Renderer, h.Catalog, redirectProjects, err)
		return
	}
	respondSuccess(w, r, h.Renderer, redirectProjects, h.t(r)("admin.created"), map[string]any{"project": created})
}

// UpdateProject handles POST /admin/projects/{id}.
func (h *AdminHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.Renderer, h.Catalog, redirectProjects) {
		return
	}
	updated, err := h.Projects.Update(r.Context(), chi.URLParam(r, "id"), projectFromForm(r))
	if err != nil {
		respondServiceError(w, r, h.Renderer, h.Catalog, redirectProjects, err)
		return
	}
	respondSuccess(w, r, h.Renderer, redirectProjects, h.t(r)("admin.saved"), map[string]any{"project": updated})
}

// ToggleProject handles POST /admin/projects/{id}/toggle.
func (h *AdminHandler) ToggleProject(w http.ResponseWriter, r *http.Request) {
	project, ok := requireRecord(w, r, h.Renderer, h.Catalog, redirectProjects, chi.URLParam(r, "id"), h.Projects.Get)
	if !ok {
		return
	}
	updated, err := h.Projects.SetActive(r.Context(), project.ID, !project.Active)
	if err != nil {
		respondServiceError(w, r, h.Renderer, h.Catalog, redirectProjects, err)
		return
	}
	respondSuccess(w, r, h.Renderer, redirectProjects, h.t(r)("admin.saved"), map[string]any{"project": updated})
}

// DeleteProject handles POST /admin/projects/{id}/delete.
func (h *AdminHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := h.Projects.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, r, h.Renderer, h.Catalog, redirectProjects, err)
		return
	}
	respondSuccess(w, r, h.Renderer, redirectProjects, h.t(r)("admin.deleted"), nil)
}

func projectFromForm(r *http.Request) model.Project {
	order, _ := strconv.Atoi(strings.TrimSpace(r.PostFormValue("order")))
	return model.Project{
		Name:        r.PostFormValue("name"),
		Description: r.PostFormValue("description"),
		Image:       strings.TrimSpace(r.PostFormValue("image")),
		Status:      model.ProjectStatus(r.PostFormValue("status")),
		Link:        r.PostFormValue("link"),
		Tags:        service.ParseTags(r.PostFormValue("tags")),
		Order:       max(order, 0),
		Active:      r.PostFormValue("isActive") == "true",
	}
}
