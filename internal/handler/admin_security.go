// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"net/http"
	"slices"

	"github.com/dreamcore/site/internal/middleware"
	"github.com/dreamcore/site/internal/security"
)

// violationTypes are offered by the security page filter.
var violationTypes = []string{
	security.ViolationXSS,
	security.ViolationInjection,
	security.ViolationMaliciousScript,
	security.ViolationRateLimit,
	security.ViolationBot,
	security.ViolationUnsafeInput,
	security.ViolationSuspiciousSpeed,
	security.ViolationLoginFailure,
	security.ViolationInvalidOrigin,
	security.ViolationAccessDenied,
}

// SecurityLog is the security page model. Violations are newest first.
type SecurityLog struct {
	Stats      security.MonitorStats
	Violations []security.Violation
	Filter     string
	Types      []string
}

// Security handles GET /admin/security with an optional type filter.
func (h *AdminHandler) Security(w http.ResponseWriter, r *http.Request) {
	filter := r.URL.Query().Get("type")
	if !slices.Contains(violationTypes, filter) {
		filter = ""
	}
	violations := h.Monitor.Violations(filter)
	slices.Reverse(violations)

	if middleware.WantsJSON(r) {
		writeJSON(w, http.StatusOK, map[string]any{"stats": h.Monitor.Stats(), "violations": violations})
		return
	}
	data := h.page(r, "security.title")
	data.Data = SecurityLog{
		Stats:      h.Monitor.Stats(),
		Violations: violations,
		Filter:     filter,
		Types:      violationTypes,
	}
	renderPage(w, r, h.Renderer, http.StatusOK, tmplSecurity, data)
}

// ClearSecurity handles POST /admin/security/clear.
func (h *AdminHandler) ClearSecurity(w http.ResponseWriter, r *http.Request) {
	removed := h.Monitor.ClearOlderThan(0)
	h.Logger.Info("security log cleared", "removed", removed, "by", middleware.GetUserEmail(r))
	respondSuccess(w, r, h.Renderer, redirectSecurity, h.t(r)("security.cleared"), map[string]any{"removed": removed})
}

// ExportSecurity handles GET /admin/security/export.json.
func (h *AdminHandler) ExportSecurity(w http.ResponseWriter, _ *http.Request) {
	now := h.Now()
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="security-logs-`+now.Format("2006-01-02")+`.json"`)

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(map[string]any{
		"exportedAt": now.UTC(),
		"stats":      h.Monitor.Stats(),
		"violations": h.Monitor.Violations(""),
	})
}
