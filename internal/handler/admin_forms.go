// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"slices"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dreamcore/site/internal/export"
	"github.com/dreamcore/site/internal/middleware"
	"github.com/dreamcore/site/internal/model"
)

var (
	recruitmentStatuses = []model.RecruitmentStatus{model.RecruitmentPending, model.RecruitmentApproved, model.RecruitmentRejected}
	contactStatuses     = []model.ContactStatus{model.ContactNew, model.ContactRead, model.ContactReplied}
)

// RecruitmentList is the recruitments page model.
type RecruitmentList struct {
	Records  []model.Recruitment
	Filter   string
	Statuses []model.RecruitmentStatus
}

// ContactList is the contacts page model.
type ContactList struct {
	Records  []model.Contact
	Filter   string
	Statuses []model.ContactStatus
}

// ListRecruitments handles GET /admin/recruitments. The optional status
// query parameter filters the list; unknown values show everything.
func (h *AdminHandler) ListRecruitments(w http.ResponseWriter, r *http.Request) {
	records := h.Recruitments.List()
	filter := model.RecruitmentStatus(r.URL.Query().Get("status"))
	if filter.Valid() {
		records = slices.DeleteFunc(records, func(rec model.Recruitment) bool { return rec.Status != filter })
	} else {
		filter = ""
	}

	if middleware.WantsJSON(r) {
		writeJSON(w, http.StatusOK, map[string]any{"records": records, "loading": h.Recruitments.IsLoading()})
		return
	}
	data := h.page(r, "admin.nav.recruitments")
	data.Data = RecruitmentList{Records: records, Filter: string(filter), Statuses: recruitmentStatuses}
	renderPage(w, r, h.Renderer, http.StatusOK, tmplRecruitments, data)
}

// ShowRecruitment handles GET /admin/recruitments/{id}.
func (h *AdminHandler) ShowRecruitment(w http.ResponseWriter, r *http.Request) {
	rec, ok := requireRecord(w, r, h.Renderer, h.Catalog, redirectRecruitments, chi.URLParam(r, "id"), h.Recruitments.Get)
	if !ok {
		return
	}
	if middleware.WantsJSON(r) {
		writeJSON(w, http.StatusOK, rec)
		return
	}
	data := h.page(r, "admin.nav.recruitments")
	data.Title = rec.NomeCompleto
	data.Data = rec
	renderPage(w, r, h.Renderer, http.StatusOK, tmplRecruitment, data)
}

// SetRecruitmentStatus handles POST /admin/recruitments/{id}/status.
func (h *AdminHandler) SetRecruitmentStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	back := redirectRecruitments + "/" + id
	if !parseFormOrRedirect(w, r, h.Renderer, h.Catalog, back) {
		return
	}
	updated, err := h.Recruitments.SetStatus(r.Context(), id, model.RecruitmentStatus(r.PostFormValue("status")))
	if err != nil {
		respondServiceError(w, r, h.Renderer, h.Catalog, back, err)
		return
	}
	respondSuccess(w, r, h.Renderer, back, h.t(r)("admin.saved"), map[string]any{"recruitment": updated})
}

// DeleteRecruitment handles POST /admin/recruitments/{id}/delete.
func (h *AdminHandler) DeleteRecruitment(w http.ResponseWriter, r *http.Request) {
	if err := h.Recruitments.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, r, h.Renderer, h.Catalog, redirectRecruitments, err)
		return
	}
	respondSuccess(w, r, h.Renderer, redirectRecruitments, h.t(r)("admin.deleted"), nil)
}

// ExportRecruitments handles GET /admin/recruitments/export.pdf.
func (h *AdminHandler) ExportRecruitments(w http.ResponseWriter, r *http.Request) {
	name, pdf, err := export.Recruitments(h.Recruitments.List(), h.Now())
	if err != nil {
		h.Logger.Error("exporting recruitments failed", "error", err)
		respondError(w, r, h.Renderer, redirectRecruitments, http.StatusInternalServerError, h.t(r)("admin.export_error"))
		return
	}
	writePDF(w, name, pdf)
}

// ListContacts handles GET /admin/contacts.
func (h *AdminHandler) ListContacts(w http.ResponseWriter, r *http.Request) {
	records := h.Contacts.List()
	filter := model.ContactStatus(r.URL.Query().Get("status"))
	if filter.Valid() {
		records = slices.DeleteFunc(records, func(c model.Contact) bool { return c.Status != filter })
	} else {
		filter = ""
	}

	if middleware.WantsJSON(r) {
		writeJSON(w, http.StatusOK, map[string]any{"records": records, "loading": h.Contacts.IsLoading()})
		return
	}
	data := h.page(r, "admin.nav.contacts")
	data.Data = ContactList{Records: records, Filter: string(filter), Statuses: contactStatuses}
	renderPage(w, r, h.Renderer, http.StatusOK, tmplContacts, data)
}

// SetContactStatus handles POST /admin/contacts/{id}/status.
func (h *AdminHandler) SetContactStatus(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.Renderer, h.Catalog, redirectContacts) {
		return
	}
	updated, err := h.Contacts.SetStatus(r.Context(), chi.URLParam(r, "id"), model.ContactStatus(r.PostFormValue("status")))
	if err != nil {
		respondServiceError(w, r, h.Renderer, h.Catalog, redirectContacts, err)
		return
	}
	respondSuccess(w, r, h.Renderer, redirectContacts, h.t(r)("admin.saved"), map[string]any{"contact": updated})
}

// DeleteContact handles POST /admin/contacts/{id}/delete.
func (h *AdminHandler) DeleteContact(w http.ResponseWriter, r *http.Request) {
	if err := h.Contacts.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, r, h.Renderer, h.Catalog, redirectContacts, err)
		return
	}
	respondSuccess(w, r, h.Renderer, redirectContacts, h.t(r)("admin.deleted"), nil)
}

// ExportContacts handles GET /admin/contacts/export.pdf.
func (h *AdminHandler) ExportContacts(w http.ResponseWriter, r *http.Request) {
	name, pdf, err := export.Contacts(h.Contacts.List(), h.Now())
	if err != nil {
		h.Logger.Error("exporting contacts failed", "error", err)
		respondError(w, r, h.Renderer, redirectContacts, http.StatusInternalServerError, h.t(r)("admin.export_error"))
		return
	}
	writePDF(w, name, pdf)
}

func writePDF(w http.ResponseWriter, name string, data []byte) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = w.Write(data)
}
