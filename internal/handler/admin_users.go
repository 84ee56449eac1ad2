// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dreamcore/site/internal/middleware"
	"github.com/dreamcore/site/internal/model"
	"github.com/dreamcore/site/internal/validation"
)

var adminUserStatuses = []model.AdminUserStatus{model.AdminUserActive, model.AdminUserPending, model.AdminUserSuspended}

// UserList is the users page model.
type UserList struct {
	Users    []model.AdminUser
	Roles    []string
	Statuses []model.AdminUserStatus
}

// ListUsers handles GET /admin/users.
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	if middleware.WantsJSON(r) {
		writeJSON(w, http.StatusOK, map[string]any{"users": h.Users.List(), "loading": h.Users.IsLoading()})
		return
	}
	h.renderUsers(w, r, http.StatusOK, nil)
}

func (h *AdminHandler) renderUsers(w http.ResponseWriter, r *http.Request, status int, fields map[string]string) {
	data := h.page(r, "admin.nav.users")
	data.Data = UserList{Users: h.Users.List(), Roles: validation.AdminUserRoles, Statuses: adminUserStatuses}
	data.Errors = fields
	if len(fields) > 0 {
		data.Flash, data.FlashType = h.t(r)("form.invalid"), flashTypeError
	}
	renderPage(w, r, h.Renderer, status, tmplUsers, data)
}

// AddUser handles POST /admin/users. The temporary password is shown once
// in the flash message.
func (h *AdminHandler) AddUser(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.Renderer, h.Catalog, redirectUsers) {
		return
	}
	t := h.t(r)
	user, err := h.Users.Add(r.Context(), r.PostFormValue("name"), r.PostFormValue("email"), r.PostFormValue("role"))

	var verrs *validation.Errors
	if errors.As(err, &verrs) && !middleware.WantsJSON(r) {
		h.renderUsers(w, r, http.StatusUnprocessableEntity, verrs.Translate(t))
		return
	}
	if err != nil {
		respondServiceError(w, r, h.Renderer, h.Catalog, redirectUsers, err)
		return
	}
	respondSuccess(w, r, h.Renderer, redirectUsers, t("admin.user_added", user.TempPassword), map[string]any{"user": user})
}

// RegenerateUserPassword handles POST /admin/users/{id}/regenerate.
func (h *AdminHandler) RegenerateUserPassword(w http.ResponseWriter, r *http.Request) {
	user, err := h.Users.RegeneratePassword(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, h.Renderer, h.Catalog, redirectUsers, err)
		return
	}
	respondSuccess(w, r, h.Renderer, redirectUsers, h.t(r)("admin.password_regenerated", user.TempPassword), map[string]any{"user": user})
}

// SetUserPassword handles POST /admin/users/{id}/password.
func (h *AdminHandler) SetUserPassword(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.Renderer, h.Catalog, redirectUsers) {
		return
	}
	user, err := h.Users.UpdatePassword(r.Context(), chi.URLParam(r, "id"), r.PostFormValue("password"))
	if err != nil {
		respondServiceError(w, r, h.Renderer, h.Catalog, redirectUsers, err)
		return
	}
	respondSuccess(w, r, h.Renderer, redirectUsers, h.t(r)("admin.password_updated"), map[string]any{"user": user})
}

// SetUserStatus handles POST /admin/users/{id}/status.
func (h *AdminHandler) SetUserStatus(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.Renderer, h.Catalog, redirectUsers) {
		return
	}
	user, err := h.Users.SetStatus(r.Context(), chi.URLParam(r, "id"), model.AdminUserStatus(r.PostFormValue("status")))
	if err != nil {
		respondServiceError(w, r, h.Renderer, h.Catalog, redirectUsers, err)
		return
	}
	respondSuccess(w, r, h.Renderer, redirectUsers, h.t(r)("admin.saved"), map[string]any{"user": user})
}

// DeleteUser handles POST /admin/users/{id}/delete.
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.Users.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, r, h.Renderer, h.Catalog, redirectUsers, err)
		return
	}
	respondSuccess(w, r, h.Renderer, redirectUsers, h.t(r)("admin.deleted"), nil)
}
