// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/dreamcore/site/internal/backend"
	"github.com/dreamcore/site/internal/service"
	"github.com/dreamcore/site/internal/validation"
)

// SettingsPage handles GET /admin/settings.
func (h *AdminHandler) SettingsPage(w http.ResponseWriter, r *http.Request) {
	data := h.page(r, "admin.nav.settings")
	data.Data = h.Settings.Get()
	renderPage(w, r, h.Renderer, http.StatusOK, tmplSettings, data)
}

// SaveSettings handles POST /admin/settings.
func (h *AdminHandler) SaveSettings(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.Renderer, h.Catalog, redirectSettings) {
		return
	}
	saved, err := h.Settings.Save(r.Context(), service.SiteSettings{
		SiteName:           r.PostFormValue("siteName"),
		AdminEmail:         r.PostFormValue("adminEmail"),
		AutoApproval:       r.PostFormValue("autoApproval") == "true",
		EmailNotifications: r.PostFormValue("emailNotifications") == "true",
		MaintenanceMode:    r.PostFormValue("maintenanceMode") == "true",
		RecruitmentOpen:    r.PostFormValue("recruitmentOpen") == "true",
	})
	if err != nil {
		respondServiceError(w, r, h.Renderer, h.Catalog, redirectSettings, err)
		return
	}
	respondSuccess(w, r, h.Renderer, redirectSettings, h.t(r)("settings.saved"), map[string]any{"settings": saved})
}

// ChangePassword handles POST /admin/settings/password for the signed in
// admin.
func (h *AdminHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.Renderer, h.Catalog, redirectSettings) {
		return
	}
	err := h.Settings.ChangePassword(r.Context(), backend.AccessToken(r.Context()), validation.PasswordChangeInput{
		NewPassword:     r.PostFormValue("newPassword"),
		ConfirmPassword: r.PostFormValue("confirmPassword"),
	})
	if err != nil {
		respondServiceError(w, r, h.Renderer, h.Catalog, redirectSettings, err)
		return
	}
	respondSuccess(w, r, h.Renderer, redirectSettings, h.t(r)("settings.password_changed"), nil)
}
