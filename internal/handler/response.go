// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"mime"
	"net/http"

	"github.com/dreamcore/site/internal/backend"
	"github.com/dreamcore/site/internal/i18n"
	"github.com/dreamcore/site/internal/middleware"
	"github.com/dreamcore/site/internal/render"
	"github.com/dreamcore/site/internal/service"
	"github.com/dreamcore/site/internal/validation"
)

// maxFormMemory bounds multipart parsing of admin and public forms.
const maxFormMemory = 1 << 20

// flashAndRedirect sets a flash message and redirects to the given URL.
// Uses http.StatusSeeOther (303) for POST redirects.
func flashAndRedirect(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, message, messageType string) {
	renderer.SetFlash(r, message, messageType)
	http.Redirect(w, r, url, http.StatusSeeOther)
}

// flashError sets an error flash message and redirects to the given URL.
func flashError(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, message string) {
	flashAndRedirect(w, r, renderer, url, message, flashTypeError)
}

// flashSuccess sets a success flash message and redirects to the given URL.
func flashSuccess(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, message string) {
	flashAndRedirect(w, r, renderer, url, message, flashTypeSuccess)
}

// parseForm parses urlencoded and multipart bodies alike; fetch() posts
// FormData as multipart.
func parseForm(r *http.Request) error {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		return r.ParseMultipartForm(maxFormMemory)
	}
	return r.ParseForm()
}

// parseFormOrRedirect parses the request form and redirects with an error message on failure.
// Returns true if parsing succeeded, false if it failed (and a response was written).
func parseFormOrRedirect(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, catalog *i18n.Catalog, redirectURL string) bool {
	if err := parseForm(r); err != nil {
		respondError(w, r, renderer, redirectURL, http.StatusBadRequest, catalog.T(middleware.GetLang(r), "admin.invalid_request"))
		return false
	}
	return true
}

// respondError answers a failed admin action: JSON callers get the status
// and message, browsers a flash and a redirect.
func respondError(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, redirectURL string, status int, message string) {
	if middleware.WantsJSON(r) {
		writeJSONError(w, status, message)
		return
	}
	flashError(w, r, renderer, redirectURL, message)
}

// respondSuccess answers a completed admin action.
func respondSuccess(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, redirectURL, message string, data map[string]any) {
	if middleware.WantsJSON(r) {
		if data == nil {
			data = make(map[string]any)
		}
		data["message"] = message
		writeJSONSuccess(w, data)
		return
	}
	flashSuccess(w, r, renderer, redirectURL, message)
}

// respondServiceError maps a service error to a status and translated message.
func respondServiceError(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, catalog *i18n.Catalog, redirectURL string, err error) {
	t := catalog.Translator(middleware.GetLang(r))

	var verrs *validation.Errors
	switch {
	case errors.As(err, &verrs):
		if middleware.WantsJSON(r) {
			writeJSONFieldErrors(w, t("form.invalid"), verrs.Translate(t))
			return
		}
		flashError(w, r, renderer, redirectURL, firstError(verrs, t))
	case errors.Is(err, backend.ErrNotFound):
		respondError(w, r, renderer, redirectURL, http.StatusNotFound, t("admin.not_found"))
	case errors.Is(err, service.ErrInvalidStatus):
		respondError(w, r, renderer, redirectURL, http.StatusBadRequest, t("admin.invalid_status"))
	default:
		slog.Error("admin action failed", "path", r.URL.Path, "error", err)
		respondError(w, r, renderer, redirectURL, http.StatusBadGateway, t("admin.remote_error"))
	}
}

// firstError returns "field: message" for the first failing field.
func firstError(verrs *validation.Errors, t func(string, ...any) string) string {
	names := verrs.FieldNames()
	if len(names) == 0 {
		return t("form.invalid")
	}
	msgs := verrs.Translate(t)
	return names[0] + ": " + msgs[names[0]]
}

// logAndInternalError logs an error and writes a 500 Internal Server Error response.
func logAndInternalError(w http.ResponseWriter, logMsg string, args ...any) {
	slog.Error(logMsg, args...)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

// requireRecord looks a record up by the {id} URL parameter. On a miss it
// answers 404 (JSON) or flashes and redirects, and returns false.
func requireRecord[T any](
	w http.ResponseWriter,
	r *http.Request,
	renderer *render.Renderer,
	catalog *i18n.Catalog,
	redirectURL string,
	id string,
	get func(id string) (T, bool),
) (T, bool) {
	record, ok := get(id)
	if !ok {
		respondError(w, r, renderer, redirectURL, http.StatusNotFound, catalog.T(middleware.GetLang(r), "admin.not_found"))
	}
	return record, ok
}
