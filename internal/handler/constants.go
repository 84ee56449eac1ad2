// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

// Route pattern constants for chi router registration.
const (
	// RouteRoot is the root path.
	RouteRoot = "/"
	// RouteHealth is the health check.
	RouteHealth = "/health"
	// RouteStatic serves embedded assets.
	RouteStatic = "/static/*"

	// RouteCarousel returns the carousel state.
	RouteCarousel = "/carousel"
	// RouteCarouselNext and RouteCarouselPrev move the carousel one step.
	RouteCarouselNext = "/carousel/next"
	RouteCarouselPrev = "/carousel/prev"
	// RouteCarouselJump jumps to a project index.
	RouteCarouselJump = "/carousel/{index:[0-9]+}"

	// RouteRobots and RouteSitemap are served to crawlers.
	RouteRobots  = "/robots.txt"
	RouteSitemap = "/sitemap.xml"

	// RouteContact is the public contact form.
	RouteContact = "/contato"
	// RouteRecruitment is the public recruitment form.
	RouteRecruitment = "/recrutamento"

	// RouteAdmin is the admin area prefix.
	RouteAdmin = "/admin"
	// RouteLogin is the login route.
	RouteLogin = "/login"
	// RouteSignup is the signup route.
	RouteSignup = "/signup"
	// RouteLogout is the logout route.
	RouteLogout = "/logout"

	// Admin resources, relative to RouteAdmin.
	RouteStats        = "/api/stats"
	RouteAdminHealth  = "/api/health"
	RouteReload       = "/reload"
	RouteBanners      = "/banners"
	RouteBannersID    = "/banners/{id}"
	RouteProjects     = "/projects"
	RouteProjectsID   = "/projects/{id}"
	RouteRecruitments = "/recruitments"
	RouteRecruitID    = "/recruitments/{id}"
	RouteContacts     = "/contacts"
	RouteContactsID   = "/contacts/{id}"
	RouteUsers        = "/users"
	RouteUsersID      = "/users/{id}"
	RouteSecurity     = "/security"
	RouteSettings     = "/settings"

	// Route suffixes.
	RouteSuffixToggle     = "/toggle"
	RouteSuffixDelete     = "/delete"
	RouteSuffixStatus     = "/status"
	RouteSuffixRegenerate = "/regenerate"
	RouteSuffixPassword   = "/password"
	RouteSuffixClear      = "/clear"
	RouteSuffixExportPDF  = "/export.pdf"
	RouteSuffixExportJSON = "/export.json"
)

// Redirect targets.
const (
	redirectAdmin        = RouteAdmin
	redirectLogin        = RouteAdmin + RouteLogin
	redirectBanners      = RouteAdmin + RouteBanners
	redirectProjects     = RouteAdmin + RouteProjects
	redirectRecruitments = RouteAdmin + RouteRecruitments
	redirectContacts     = RouteAdmin + RouteContacts
	redirectUsers        = RouteAdmin + RouteUsers
	redirectSecurity     = RouteAdmin + RouteSecurity
	redirectSettings     = RouteAdmin + RouteSettings
)

// Flash message types.
const (
	flashTypeSuccess = "success"
	flashTypeError   = "error"
	flashTypeInfo    = "info"
)
