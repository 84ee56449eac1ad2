// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dreamcore/site/internal/authgate"
	"github.com/dreamcore/site/internal/backend"
	"github.com/dreamcore/site/internal/i18n"
	"github.com/dreamcore/site/internal/middleware"
	"github.com/dreamcore/site/internal/render"
	"github.com/dreamcore/site/internal/security"
	"github.com/dreamcore/site/internal/service"
	"github.com/dreamcore/site/internal/validation"
)

// Auth page templates.
const (
	tmplLogin  = "auth/login"
	tmplSignup = "auth/signup"
)

// AuthHandler handles sign in, sign up and sign out of the admin area.
type AuthHandler struct {
	renderer        *render.Renderer
	catalog         *i18n.Catalog
	gate            *authgate.Gate
	loginProtection *middleware.LoginProtection
	settings        *service.SettingsService
	logger          *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(renderer *render.Renderer, catalog *i18n.Catalog, gate *authgate.Gate, lp *middleware.LoginProtection, settings *service.SettingsService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		renderer:        renderer,
		catalog:         catalog,
		gate:            gate,
		loginProtection: lp,
		settings:        settings,
		logger:          logger,
	}
}

// LoginForm handles GET /admin/login. Signed in admins go straight to the
// dashboard.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if st, err := h.gate.Resolve(r.Context()); err == nil && st.State == authgate.StateAuthenticated {
		http.Redirect(w, r, redirectAdmin, http.StatusSeeOther)
		return
	}
	h.renderLogin(w, r, http.StatusOK, validation.LoginInput{}, nil, "")
}

// Login handles POST /admin/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	t := h.catalog.Translator(middleware.GetLang(r))
	if err := parseForm(r); err != nil {
		h.renderLogin(w, r, http.StatusBadRequest, validation.LoginInput{}, nil, t("admin.invalid_request"))
		return
	}
	if !h.renderer.ValidFormToken(r) {
		h.renderLogin(w, r, http.StatusForbidden, validation.LoginInput{}, nil, t("form.expired"))
		return
	}

	in := validation.LoginInput{
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
	}
	// The password is never echoed back.
	echo := validation.LoginInput{Email: in.Email}

	var verrs *validation.Errors
	if err := validation.Login.Validate(in); errors.As(err, &verrs) {
		h.renderLogin(w, r, http.StatusUnprocessableEntity, echo, verrs.Translate(t), t("form.invalid"))
		return
	}

	if locked, remaining := h.loginProtection.IsAccountLocked(in.Email); locked {
		h.renderLogin(w, r, http.StatusTooManyRequests, echo, nil, t("auth.account_locked", formatWait(remaining)))
		return
	}

	sess, err := h.gate.Login(r.Context(), in.Email, in.Password)
	switch {
	case err == nil:
	case errors.Is(err, backend.ErrInvalidCredentials):
		h.failedLogin(w, r, echo)
		return
	case errors.Is(err, authgate.ErrNotAdmin):
		slog.WarnContext(r.Context(), "non-admin sign in refused",
			"category", "security",
			"type", security.ViolationAccessDenied,
			"message", "account without admin role tried to sign in",
			"ip", security.ClientIP(r),
			"email", security.Obfuscate(in.Email, 3, 0),
		)
		h.renderLogin(w, r, http.StatusForbidden, echo, nil, t("auth.not_admin"))
		return
	default:
		h.logger.Error("sign in failed", "error", err)
		h.renderLogin(w, r, http.StatusServiceUnavailable, echo, nil, t("auth.unavailable"))
		return
	}

	h.loginProtection.RecordSuccessfulLogin(in.Email)
	h.logger.Info("admin signed in", "user_id", sess.User.ID, "role", sess.User.Role)

	name := sess.User.Name
	if name == "" {
		name = sess.User.Email
	}
	if middleware.WantsJSON(r) {
		writeJSONSuccess(w, map[string]any{"redirect": redirectAdmin})
		return
	}
	flashSuccess(w, r, h.renderer, redirectAdmin, t("auth.welcome_back", name))
}

func (h *AuthHandler) failedLogin(w http.ResponseWriter, r *http.Request, echo validation.LoginInput) {
	t := h.catalog.Translator(middleware.GetLang(r))

	slog.WarnContext(r.Context(), "login failed",
		"category", "security",
		"type", security.ViolationLoginFailure,
		"message", "invalid credentials",
		"ip", security.ClientIP(r),
		"email", security.Obfuscate(echo.Email, 3, 0),
	)

	if locked, d := h.loginProtection.RecordFailedAttempt(echo.Email); locked {
		h.renderLogin(w, r, http.StatusTooManyRequests, echo, nil, t("auth.account_locked", formatWait(d)))
		return
	}
	remaining := h.loginProtection.GetRemainingAttempts(echo.Email)
	h.renderLogin(w, r, http.StatusUnauthorized, echo, nil, t("auth.attempts_remaining", remaining))
}

func (h *AuthHandler) renderLogin(w http.ResponseWriter, r *http.Request, status int, in validation.LoginInput, fields map[string]string, message string) {
	if message != "" && middleware.WantsJSON(r) {
		writeFormError(w, status, message, fields)
		return
	}
	data := pageData(r, h.settings, h.catalog.T(middleware.GetLang(r), "auth.login.title"))
	data.Data = in
	data.Errors = fields
	if message != "" {
		data.Flash, data.FlashType = message, flashTypeError
	}
	renderPage(w, r, h.renderer, status, tmplLogin, data)
}

// SignupForm handles GET /admin/signup.
func (h *AuthHandler) SignupForm(w http.ResponseWriter, r *http.Request) {
	h.renderSignup(w, r, http.StatusOK, validation.SignupInput{}, nil, "")
}

// Signup handles POST /admin/signup. New accounts get the user role, so
// they reach the login page and wait for an administrator to promote them.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	t := h.catalog.Translator(middleware.GetLang(r))
	if err := parseForm(r); err != nil {
		h.renderSignup(w, r, http.StatusBadRequest, validation.SignupInput{}, nil, t("admin.invalid_request"))
		return
	}
	if !h.renderer.ValidFormToken(r) {
		h.renderSignup(w, r, http.StatusForbidden, validation.SignupInput{}, nil, t("form.expired"))
		return
	}

	in := validation.SignupInput{
		FullName:        strings.TrimSpace(r.PostFormValue("fullName")),
		Email:           strings.TrimSpace(r.PostFormValue("email")),
		Password:        r.PostFormValue("password"),
		ConfirmPassword: r.PostFormValue("confirmPassword"),
	}
	echo := validation.SignupInput{FullName: in.FullName, Email: in.Email}

	var verrs *validation.Errors
	if err := validation.Signup.Validate(in); errors.As(err, &verrs) {
		h.renderSignup(w, r, http.StatusUnprocessableEntity, echo, verrs.Translate(t), t("form.invalid"))
		return
	}

	sess, err := h.gate.SignUp(r.Context(), in.Email, in.Password, in.FullName)
	switch {
	case errors.Is(err, backend.ErrEmailTaken):
		h.renderSignup(w, r, http.StatusConflict, echo, map[string]string{"email": t("auth.email_taken")}, t("auth.email_taken"))
		return
	case err != nil:
		h.logger.Error("sign up failed", "error", err)
		h.renderSignup(w, r, http.StatusServiceUnavailable, echo, nil, t("auth.unavailable"))
		return
	}

	h.logger.Info("account registered", "email", security.Obfuscate(in.Email, 3, 0))

	switch {
	case sess == nil:
		flashAndRedirect(w, r, h.renderer, redirectLogin, t("auth.signup_confirm"), flashTypeInfo)
	case sess.User.Role.CanAdminister():
		flashSuccess(w, r, h.renderer, redirectAdmin, t("auth.welcome_back", in.FullName))
	default:
		flashAndRedirect(w, r, h.renderer, redirectLogin, t("auth.signup_success"), flashTypeInfo)
	}
}

func (h *AuthHandler) renderSignup(w http.ResponseWriter, r *http.Request, status int, in validation.SignupInput, fields map[string]string, message string) {
	if message != "" && middleware.WantsJSON(r) {
		writeFormError(w, status, message, fields)
		return
	}
	data := pageData(r, h.settings, h.catalog.T(middleware.GetLang(r), "auth.signup.title"))
	data.Data = in
	data.Errors = fields
	if message != "" {
		data.Flash, data.FlashType = message, flashTypeError
	}
	renderPage(w, r, h.renderer, status, tmplSignup, data)
}

// Logout handles POST /admin/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.gate.Logout(r.Context()); err != nil {
		h.logger.Error("renewing session on logout", "error", err)
	}
	flashAndRedirect(w, r, h.renderer, redirectLogin, h.catalog.T(middleware.GetLang(r), "auth.logged_out"), flashTypeInfo)
}

// formatWait renders a lockout duration rounded up to whole minutes.
func formatWait(d time.Duration) string {
	minutes := int((d + time.Minute - 1) / time.Minute)
	return fmt.Sprintf("%d min", max(minutes, 1))
}
