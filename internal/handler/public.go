// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dreamcore/site/internal/carousel"
	"github.com/dreamcore/site/internal/content"
	"github.com/dreamcore/site/internal/i18n"
	"github.com/dreamcore/site/internal/middleware"
	"github.com/dreamcore/site/internal/model"
	"github.com/dreamcore/site/internal/render"
	"github.com/dreamcore/site/internal/security"
	"github.com/dreamcore/site/internal/seo"
	"github.com/dreamcore/site/internal/service"
	"github.com/dreamcore/site/internal/validation"
)

// Public page templates.
const (
	tmplHome            = "public/home"
	tmplContact         = "public/contact"
	tmplRecruitmentForm = "public/recruitment"
	tmplMaintenance     = "public/maintenance"
	tmplError           = "public/error"
)

// Choice is a labelled option of the recruitment form.
type Choice struct {
	Value       string
	Title       string
	Description string
}

// recruitmentAreas are the interest areas offered by the recruitment form.
var recruitmentAreas = []string{
	"Programação", "Design", "Marketing", "Game Design",
	"Roteiro", "Administração", "Modding", "Outro",
}

var recruitmentHours = []Choice{
	{Value: "menos-5h", Title: "Menos de 5h"},
	{Value: "5h-10h", Title: "5h a 10h"},
	{Value: "10h-20h", Title: "10h a 20h"},
	{Value: "mais-20h", Title: "Mais de 20h"},
}

var recruitmentModels = []Choice{
	{
		Value:       "voluntario",
		Title:       "Voluntário",
		Description: "Ajuda nos projetos por afinidade, aprendizado e participação, sem fins financeiros.",
	},
	{
		Value:       "ajuda-custo",
		Title:       "Ajuda de custo fixa",
		Description: "Recebe um valor simbólico mensal (se disponível no projeto).",
	},
	{
		Value:       "participacao-lucros",
		Title:       "Participação nos lucros",
		Description: "Colabora ativamente no desenvolvimento e recebe uma porcentagem do lucro líquido quando o projeto gerar receita.",
	},
}

// PublicDeps are the collaborators of PublicHandler.
type PublicDeps struct {
	Renderer     *render.Renderer
	Catalog      *i18n.Catalog
	Site         *content.Site
	Banners      *service.BannerService
	Projects     *service.ProjectService
	Carousel     *carousel.Carousel
	Recruitments *service.RecruitmentService
	Contacts     *service.ContactService
	Settings     *service.SettingsService
	Guard        *security.FormGuard
	Logger       *slog.Logger
	// SiteURL is the public base URL. Empty derives it from the request.
	SiteURL string
}

// PublicHandler serves the marketing site and its two forms.
type PublicHandler struct {
	PublicDeps
}

// NewPublicHandler creates a PublicHandler.
func NewPublicHandler(deps PublicDeps) *PublicHandler {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &PublicHandler{PublicDeps: deps}
}

// HomeData is the landing page model.
type HomeData struct {
	Site       *content.Site
	Banners    []model.Banner
	Carousel   carousel.State
	IntervalMS int64
}

// ContactData is the contact page model.
type ContactData struct {
	Form       model.Contact
	MaxMessage int
}

// RecruitmentData is the recruitment page model.
type RecruitmentData struct {
	Form   model.Recruitment
	Open   bool
	Areas  []string
	Hours  []Choice
	Models []Choice
}

// carouselResponse is the JSON shape of the carousel endpoints.
type carouselResponse struct {
	carousel.State
	IntervalMS int64 `json:"intervalMs"`
}

// syncCarousel feeds the active projects to the shared carousel. While
// projects are loading the carousel keeps the fallback list.
func (h *PublicHandler) syncCarousel() carousel.State {
	if h.Projects.IsLoading() {
		h.Carousel.SetProjects(nil)
	} else {
		h.Carousel.SetProjects(h.Projects.Active())
	}
	return h.Carousel.State()
}

// Home handles GET /.
func (h *PublicHandler) Home(w http.ResponseWriter, r *http.Request) {
	data := pageData(r, h.Settings, "")
	data.Data = HomeData{
		Site:       h.Site,
		Banners:    h.Banners.Active(),
		Carousel:   h.syncCarousel(),
		IntervalMS: h.Carousel.Interval().Milliseconds(),
	}
	renderPage(w, r, h.Renderer, http.StatusOK, tmplHome, data)
}

// CarouselState handles GET /carousel.
func (h *PublicHandler) CarouselState(w http.ResponseWriter, _ *http.Request) {
	h.writeCarousel(w, h.syncCarousel())
}

// CarouselNext handles POST /carousel/next.
func (h *PublicHandler) CarouselNext(w http.ResponseWriter, _ *http.Request) {
	h.syncCarousel()
	h.writeCarousel(w, h.Carousel.Next())
}

// CarouselPrev handles POST /carousel/prev.
func (h *PublicHandler) CarouselPrev(w http.ResponseWriter, _ *http.Request) {
	h.syncCarousel()
	h.writeCarousel(w, h.Carousel.Prev())
}

// CarouselJump handles POST /carousel/{index}.
func (h *PublicHandler) CarouselJump(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid index")
		return
	}

	h.syncCarousel()
	state, err := h.Carousel.Jump(index)
	if errors.Is(err, carousel.ErrIndexOutOfRange) {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.writeCarousel(w, state)
}

func (h *PublicHandler) writeCarousel(w http.ResponseWriter, state carousel.State) {
	writeJSON(w, http.StatusOK, carouselResponse{
		State:      state,
		IntervalMS: h.Carousel.Interval().Milliseconds(),
	})
}

// ContactForm handles GET /contato.
func (h *PublicHandler) ContactForm(w http.ResponseWriter, r *http.Request) {
	h.renderContact(w, r, http.StatusOK, model.Contact{}, nil, "")
}

// SubmitContact handles POST /contato.
func (h *PublicHandler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	t := h.Catalog.Translator(middleware.GetLang(r))
	if err := parseForm(r); err != nil {
		h.renderContact(w, r, http.StatusBadRequest, model.Contact{}, nil, t("admin.invalid_request"))
		return
	}

	in := model.Contact{
		Nome:     r.PostFormValue("nome"),
		Email:    r.PostFormValue("email"),
		Mensagem: r.PostFormValue("mensagem"),
	}

	if status, msg, ok := h.screen(r, "contact", map[string]*string{
		"nome":     &in.Nome,
		"email":    &in.Email,
		"mensagem": &in.Mensagem,
	}); !ok {
		h.renderContact(w, r, status, in, nil, msg)
		return
	}

	if _, err := h.Contacts.Submit(r.Context(), in); err != nil {
		status, msg, fields := h.submitFailure(err, t)
		h.renderContact(w, r, status, in, fields, msg)
		return
	}

	h.succeed(w, r, RouteContact, t("contact.success"))
}

func (h *PublicHandler) renderContact(w http.ResponseWriter, r *http.Request, status int, form model.Contact, fields map[string]string, message string) {
	if message != "" && middleware.WantsJSON(r) {
		writeFormError(w, status, message, fields)
		return
	}
	data := pageData(r, h.Settings, h.Catalog.T(middleware.GetLang(r), "contact.title"))
	data.Data = ContactData{Form: form, MaxMessage: validation.MaxMessageLength}
	data.Errors = fields
	if message != "" {
		data.Flash, data.FlashType = message, flashTypeError
	}
	renderPage(w, r, h.Renderer, status, tmplContact, data)
}

// RecruitmentForm handles GET /recrutamento.
func (h *PublicHandler) RecruitmentForm(w http.ResponseWriter, r *http.Request) {
	h.renderRecruitment(w, r, http.StatusOK, model.Recruitment{}, nil, "")
}

// SubmitRecruitment handles POST /recrutamento.
func (h *PublicHandler) SubmitRecruitment(w http.ResponseWriter, r *http.Request) {
	t := h.Catalog.Translator(middleware.GetLang(r))
	if !h.Settings.Get().RecruitmentOpen {
		h.renderRecruitment(w, r, http.StatusForbidden, model.Recruitment{}, nil, t("recruitment.closed"))
		return
	}
	if err := parseForm(r); err != nil {
		h.renderRecruitment(w, r, http.StatusBadRequest, model.Recruitment{}, nil, t("admin.invalid_request"))
		return
	}

	in := recruitmentFromForm(r)
	if status, msg, ok := h.screen(r, "recruitment", recruitmentFields(&in)); !ok {
		h.renderRecruitment(w, r, status, in, nil, msg)
		return
	}

	if _, err := h.Recruitments.Submit(r.Context(), in); err != nil {
		status, msg, fields := h.submitFailure(err, t)
		h.renderRecruitment(w, r, status, in, fields, msg)
		return
	}

	h.succeed(w, r, RouteRecruitment, t("recruitment.success"))
}

func (h *PublicHandler) renderRecruitment(w http.ResponseWriter, r *http.Request, status int, form model.Recruitment, fields map[string]string, message string) {
	if message != "" && middleware.WantsJSON(r) {
		writeFormError(w, status, message, fields)
		return
	}
	data := pageData(r, h.Settings, h.Catalog.T(middleware.GetLang(r), "recruitment.title"))
	data.Data = RecruitmentData{
		Form:   form,
		Open:   h.Settings.Get().RecruitmentOpen,
		Areas:  recruitmentAreas,
		Hours:  recruitmentHours,
		Models: recruitmentModels,
	}
	data.Errors = fields
	if message != "" {
		data.Flash, data.FlashType = message, flashTypeError
	}
	renderPage(w, r, h.Renderer, status, tmplRecruitmentForm, data)
}

// screen checks the form token and runs the form guard. It returns the
// status and message to answer with when the submission is refused.
func (h *PublicHandler) screen(r *http.Request, form string, fields map[string]*string) (int, string, bool) {
	t := h.Catalog.Translator(middleware.GetLang(r))
	if !h.Renderer.ValidFormToken(r) {
		return http.StatusForbidden, t("form.expired"), false
	}

	switch err := h.Guard.Check(r, form, fields); {
	case err == nil:
		return 0, "", true
	case errors.Is(err, security.ErrBotDetected):
		return http.StatusForbidden, t("form.bot"), false
	case errors.Is(err, security.ErrRateLimited):
		return http.StatusTooManyRequests, t("form.rate_limited"), false
	case errors.Is(err, security.ErrUnsafeInput):
		return http.StatusBadRequest, t("form.unsafe"), false
	default:
		h.Logger.Error("form guard failed", "form", form, "error", err)
		return http.StatusInternalServerError, t("error.server"), false
	}
}

// submitFailure maps a Submit error to a status, message and field errors.
func (h *PublicHandler) submitFailure(err error, t func(string, ...any) string) (int, string, map[string]string) {
	var verrs *validation.Errors
	if errors.As(err, &verrs) {
		return http.StatusUnprocessableEntity, t("form.invalid"), verrs.Translate(t)
	}
	return http.StatusBadGateway, t("form.remote_error"), nil
}

// succeed answers an accepted submission: JSON callers get the message,
// browsers are redirected back to an empty form.
func (h *PublicHandler) succeed(w http.ResponseWriter, r *http.Request, url, message string) {
	if middleware.WantsJSON(r) {
		writeJSONSuccess(w, map[string]any{"message": message})
		return
	}
	flashSuccess(w, r, h.Renderer, url, message)
}

// Maintenance renders the maintenance page with 503.
func (h *PublicHandler) Maintenance(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Retry-After", "3600")
	data := pageData(r, h.Settings, h.Catalog.T(middleware.GetLang(r), "maintenance.title"))
	renderPage(w, r, h.Renderer, http.StatusServiceUnavailable, tmplMaintenance, data)
}

// Robots serves robots.txt. Crawlers are turned away while the site is in
// maintenance.
func (h *PublicHandler) Robots(w http.ResponseWriter, r *http.Request) {
	settings := h.Settings.Get()
	cfg := seo.RobotsConfig{
		SiteURL:     h.baseURL(r),
		DisallowAll: settings.MaintenanceMode,
	}
	if !settings.RecruitmentOpen {
		cfg.DisallowPaths = []string{RouteRecruitment}
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write([]byte(seo.Robots(cfg)))
}

// Sitemap serves sitemap.xml with the public pages.
func (h *PublicHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	pages := []seo.Page{
		{Path: RouteRoot, ChangeFreq: seo.ChangeFreqDaily, Priority: "1.0", UpdatedAt: h.latestProjectUpdate()},
		{Path: RouteContact, ChangeFreq: seo.ChangeFreqMonthly, Priority: "0.5"},
	}
	if h.Settings.Get().RecruitmentOpen {
		pages = append(pages, seo.Page{Path: RouteRecruitment, ChangeFreq: seo.ChangeFreqWeekly, Priority: "0.8"})
	}

	data, err := seo.Sitemap(h.baseURL(r), pages)
	if err != nil {
		h.Logger.Error("failed to build sitemap", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(data)
}

func (h *PublicHandler) baseURL(r *http.Request) string {
	if h.SiteURL != "" {
		return h.SiteURL
	}
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

func (h *PublicHandler) latestProjectUpdate() time.Time {
	var latest time.Time
	for _, p := range h.Projects.Active() {
		if p.UpdatedAt.After(latest) {
			latest = p.UpdatedAt
		}
	}
	return latest
}

// NotFound renders the 404 page.
func (h *PublicHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	t := h.Catalog.Translator(middleware.GetLang(r))
	if middleware.WantsJSON(r) {
		writeJSONError(w, http.StatusNotFound, t("error.not_found"))
		return
	}
	data := pageData(r, h.Settings, t("error.not_found"))
	data.Data = t("error.not_found")
	renderPage(w, r, h.Renderer, http.StatusNotFound, tmplError, data)
}

func writeFormError(w http.ResponseWriter, status int, message string, fields map[string]string) {
	if len(fields) > 0 {
		writeJSONFieldErrors(w, message, fields)
		return
	}
	writeJSONError(w, status, message)
}

func recruitmentFromForm(r *http.Request) model.Recruitment {
	return model.Recruitment{
		NomeCompleto:                 r.PostFormValue("nomeCompleto"),
		Idade:                        r.PostFormValue("idade"),
		Localidade:                   r.PostFormValue("localidade"),
		Discord:                      r.PostFormValue("discord"),
		Email:                        r.PostFormValue("email"),
		AreaInteresse:                r.PostForm["areaInteresse"],
		OutroInteresse:               r.PostFormValue("outroInteresse"),
		Experiencia:                  r.PostFormValue("experiencia"),
		Portfolio:                    r.PostFormValue("portfolio"),
		Motivacao:                    r.PostFormValue("motivacao"),
		RelacaoGaming:                r.PostFormValue("relacaoGaming"),
		Ferramentas:                  r.PostFormValue("ferramentas"),
		ExperienciaColaborativa:      r.PostFormValue("experienciaColaborativa"),
		ExperienciaColaborativaTexto: r.PostFormValue("experienciaColaborativaTexto"),
		HorasSemanais:                r.PostFormValue("horasSemanais"),
		ModeloColaboracao:            r.PostFormValue("modeloColaboracao"),
		AreaAprender:                 r.PostFormValue("areaAprender"),
		AceitaPoliticas:              r.PostFormValue("aceitaPoliticas") == "true",
		HabilidadePrincipal:          r.PostFormValue("habilidadePrincipal"),
		ComentarioFinal:              r.PostFormValue("comentarioFinal"),
	}
}

// recruitmentFields lists the free-text fields the guard screens.
func recruitmentFields(in *model.Recruitment) map[string]*string {
	return map[string]*string{
		"nomeCompleto":                 &in.NomeCompleto,
		"idade":                        &in.Idade,
		"localidade":                   &in.Localidade,
		"discord":                      &in.Discord,
		"email":                        &in.Email,
		"outroInteresse":               &in.OutroInteresse,
		"experiencia":                  &in.Experiencia,
		"portfolio":                    &in.Portfolio,
		"motivacao":                    &in.Motivacao,
		"relacaoGaming":                &in.RelacaoGaming,
		"ferramentas":                  &in.Ferramentas,
		"experienciaColaborativaTexto": &in.ExperienciaColaborativaTexto,
		"areaAprender":                 &in.AreaAprender,
		"habilidadePrincipal":          &in.HabilidadePrincipal,
		"comentarioFinal":              &in.ComentarioFinal,
	}
}
