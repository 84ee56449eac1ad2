// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/dreamcore/site/internal/middleware"
	"github.com/dreamcore/site/internal/render"
	"github.com/dreamcore/site/internal/service"
)

// pageData starts the template data of a page: language, site name and
// the signed in admin, if any.
func pageData(r *http.Request, settings *service.SettingsService, title string) render.TemplateData {
	data := render.TemplateData{
		Title: title,
		Lang:  middleware.GetLang(r),
		User:  middleware.GetUser(r),
	}
	if settings != nil {
		data.SiteName = settings.Get().SiteName
	}
	return data
}

// renderPage renders name with status, answering 500 when the template fails.
func renderPage(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, status int, name string, data render.TemplateData) {
	if err := renderer.RenderStatus(w, r, status, name, data); err != nil {
		logAndInternalError(w, "failed to render template", "template", name, "error", err)
	}
}
