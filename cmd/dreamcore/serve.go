// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/dreamcore/site/internal/authgate"
	"github.com/dreamcore/site/internal/cache"
	"github.com/dreamcore/site/internal/carousel"
	"github.com/dreamcore/site/internal/collection"
	"github.com/dreamcore/site/internal/content"
	"github.com/dreamcore/site/internal/handler"
	"github.com/dreamcore/site/internal/i18n"
	"github.com/dreamcore/site/internal/middleware"
	"github.com/dreamcore/site/internal/render"
	"github.com/dreamcore/site/internal/scheduler"
	"github.com/dreamcore/site/internal/security"
	"github.com/dreamcore/site/internal/service"
	"github.com/dreamcore/site/internal/session"
	"github.com/dreamcore/site/internal/version"
	"github.com/dreamcore/site/web"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
}

// services are the per-entity services over the configured backend.
type services struct {
	banners      *service.BannerService
	projects     *service.ProjectService
	recruitments *service.RecruitmentService
	contacts     *service.ContactService
	users        *service.AdminUserService
	settings     *service.SettingsService
}

func newServices(a *app, storage *security.SecureStorage) *services {
	var userOpts []service.AdminUserOption
	if !a.cfg.UseSupabase() {
		userOpts = append(userOpts, service.WithAccountProvisioner(a.store.LocalAuth()))
	}
	return &services{
		banners:      service.NewBannerService(collection.Banners(a.backend), a.logger),
		projects:     service.NewProjectService(collection.Projects(a.backend), a.logger),
		recruitments: service.NewRecruitmentService(collection.Recruitments(a.backend), a.logger),
		contacts:     service.NewContactService(collection.Contacts(a.backend), a.logger),
		users:        service.NewAdminUserService(collection.AdminUsers(a.backend), storage, a.logger, userOpts...),
		settings:     service.NewSettingsService(storage, a.backend.Auth(), a.logger),
	}
}

// load fetches every collection. Failures are logged: a collection that
// could not load keeps its loading state until the admin reloads it.
func (s *services) load(ctx context.Context) {
	s.settings.Restore(ctx)
	s.users.Warm(ctx)

	loaders := []struct {
		name string
		load func(context.Context) error
	}{
		{"banners", s.banners.Load},
		{"projects", s.projects.Load},
		{"recruitments", s.recruitments.Load},
		{"contacts", s.contacts.Load},
		{"admin_users", s.users.Load},
	}
	for _, l := range loaders {
		if err := l.load(ctx); err != nil {
			slog.Warn("initial collection load failed", "collection", l.name, "error", err)
		}
	}
}

func runServe(ctx context.Context) error {
	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.close()
	cfg, logger := a.cfg, a.logger

	catalog, err := i18n.New(cfg.Language, logger)
	if err != nil {
		return fmt.Errorf("initializing i18n: %w", err)
	}
	slog.Info("i18n initialized", "languages", catalog.Languages(), "default", cfg.Language)

	storageCache, err := cache.New(cache.Config{
		RedisURL:   cfg.RedisURL,
		Prefix:     cfg.CachePrefix,
		DefaultTTL: cfg.CacheTTL,
	}, logger)
	if err != nil {
		return fmt.Errorf("initializing cache: %w", err)
	}
	defer func() { _ = storageCache.Close() }()
	storage := security.NewSecureStorage(storageCache, time.Now, logger)
	if scheduler.RestoreViolations(ctx, storage, a.monitor) {
		slog.Info("security violations restored from storage")
	}

	sanitizer := security.NewSanitizer()
	site, err := content.Load(cfg.ContentFile, sanitizer)
	if err != nil {
		return fmt.Errorf("loading site content: %w", err)
	}

	svc := newServices(a, storage)
	svc.load(ctx)

	sessionManager := session.New(a.db, cfg.IsDevelopment())
	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("getting templates fs: %w", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sessionManager,
		Catalog:        catalog,
		Logger:         logger,
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}

	slides := carousel.New(site.FallbackProjects(),
		carousel.WithInterval(cfg.CarouselInterval),
		carousel.WithLogger(logger))
	slides.Start()
	defer slides.Stop()

	formLimiter := security.NewRateLimiter(time.Now)
	guard := security.NewFormGuard(formLimiter, a.monitor, sanitizer, security.FormGuardConfig{
		MaxAttempts: cfg.FormMaxAttempts,
		Window:      cfg.FormWindow,
	}, logger)

	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	publicRateLimiter := middleware.NewGlobalRateLimiter(10.0, 20)
	gate := authgate.New(sessionManager, a.backend.Auth(), logger)

	sched := scheduler.New(logger)
	jobs := scheduler.Housekeeping(scheduler.Deps{
		Monitor:    a.monitor,
		Storage:    storage,
		Forms:      formLimiter,
		FormWindow: cfg.FormWindow,
		Logins:     loginProtection,
		Requests:   publicRateLimiter,
		GeoIP:      geoReloader(a),
		Sessions:   a.store.LocalAuth(),
	})
	for _, job := range jobs {
		if err := sched.Add(job); err != nil {
			return fmt.Errorf("registering job: %w", err)
		}
	}
	sched.Start()
	defer sched.Stop()

	public := handler.NewPublicHandler(handler.PublicDeps{
		Renderer:     renderer,
		Catalog:      catalog,
		Site:         site,
		Banners:      svc.banners,
		Projects:     svc.projects,
		Carousel:     slides,
		Recruitments: svc.recruitments,
		Contacts:     svc.contacts,
		Settings:     svc.settings,
		Guard:        guard,
		Logger:       logger,
		SiteURL:      a.cfg.SiteURL,
	})
	auth := handler.NewAuthHandler(renderer, catalog, gate, loginProtection, svc.settings, logger)
	admin := handler.NewAdminHandler(handler.AdminDeps{
		Renderer:     renderer,
		Catalog:      catalog,
		Banners:      svc.banners,
		Projects:     svc.projects,
		Recruitments: svc.recruitments,
		Contacts:     svc.contacts,
		Users:        svc.users,
		Settings:     svc.settings,
		Monitor:      a.monitor,
		Logger:       logger,
	})
	checks := map[string]handler.Pinger{"database": a.store}
	if cfg.UseSupabase() {
		checks["backend"] = a.backend
	}
	var healthOpts []handler.HealthOption
	if p, ok := storageCache.(handler.Pinger); ok {
		checks["cache"] = p
	}
	if sp, ok := storageCache.(cache.StatsProvider); ok {
		healthOpts = append(healthOpts, handler.WithCacheStats(sp))
	}
	health := handler.NewHealthHandler(checks, healthOpts...)

	csrf := middleware.CSRF(middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment(), cfg.TrustedOrigins...))

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(chimw.StripSlashes)
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))
	r.Use(middleware.RequestPath)
	r.Use(sessionManager.LoadAndSave)
	r.Use(middleware.Language(catalog, sessionManager))

	r.Get(handler.RouteHealth, health.Health)

	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		return fmt.Errorf("getting static fs: %w", err)
	}
	r.Handle(handler.RouteStatic, middleware.StaticCache(86400)(http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))))

	maintenance := middleware.Maintenance(func() bool { return svc.settings.Get().MaintenanceMode },
		http.HandlerFunc(public.Maintenance), handler.RouteAdmin, "/static/", handler.RouteHealth, handler.RouteRobots)

	r.Group(func(r chi.Router) {
		r.Use(maintenance)
		r.Use(publicRateLimiter.Middleware())
		r.Use(csrf)

		r.Get(handler.RouteRoot, public.Home)
		r.Get(handler.RouteRobots, public.Robots)
		r.Get(handler.RouteSitemap, public.Sitemap)
		r.Get(handler.RouteCarousel, public.CarouselState)
		r.Post(handler.RouteCarouselNext, public.CarouselNext)
		r.Post(handler.RouteCarouselPrev, public.CarouselPrev)
		r.Post(handler.RouteCarouselJump, public.CarouselJump)
		r.Get(handler.RouteContact, public.ContactForm)
		r.Post(handler.RouteContact, public.SubmitContact)
		r.Get(handler.RouteRecruitment, public.RecruitmentForm)
		r.Post(handler.RouteRecruitment, public.SubmitRecruitment)
	})

	r.Route(handler.RouteAdmin, func(r chi.Router) {
		r.Use(csrf)
		r.Use(middleware.NoStore)

		r.Group(func(r chi.Router) {
			r.Use(publicRateLimiter.Middleware())
			r.Get(handler.RouteLogin, auth.LoginForm)
			r.With(loginProtection.Middleware(catalog)).Post(handler.RouteLogin, auth.Login)
			r.Get(handler.RouteSignup, auth.SignupForm)
			r.With(loginProtection.Middleware(catalog)).Post(handler.RouteSignup, auth.Signup)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin(middleware.AdminGateConfig{
				Gate:    gate,
				Catalog: catalog,
				Flasher: renderer,
				Logger:  logger,
			}))
			registerAdminRoutes(r, admin, auth, health)
		})
	})

	r.NotFound(public.NotFound)

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", version.Get().Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	if err := scheduler.SaveViolations(shutdownCtx, storage, a.monitor); err != nil {
		slog.Error("saving security violations", "error", err)
	}

	slog.Info("server stopped")
	return nil
}

// registerAdminRoutes mounts the back-office routes behind the admin gate.
func registerAdminRoutes(r chi.Router, admin *handler.AdminHandler, auth *handler.AuthHandler, health *handler.HealthHandler) {
	r.Post(handler.RouteLogout, auth.Logout)
	r.Get(handler.RouteRoot, admin.Dashboard)
	r.Get(handler.RouteStats, admin.Stats)
	r.Get(handler.RouteAdminHealth, health.Details)
	r.Post(handler.RouteReload, admin.Reload)

	r.Get(handler.RouteBanners, admin.ListBanners)
	r.Post(handler.RouteBanners, admin.CreateBanner)
	r.Post(handler.RouteBannersID, admin.UpdateBanner)
	r.Post(handler.RouteBannersID+handler.RouteSuffixToggle, admin.ToggleBanner)
	r.Post(handler.RouteBannersID+handler.RouteSuffixDelete, admin.DeleteBanner)

	r.Get(handler.RouteProjects, admin.ListProjects)
	r.Post(handler.RouteProjects, admin.CreateProject)
	r.Post(handler.RouteProjectsID, admin.UpdateProject)
	r.Post(handler.RouteProjectsID+handler.RouteSuffixToggle, admin.ToggleProject)
	r.Post(handler.RouteProjectsID+handler.RouteSuffixDelete, admin.DeleteProject)

	r.Get(handler.RouteRecruitments, admin.ListRecruitments)
	r.Get(handler.RouteRecruitments+handler.RouteSuffixExportPDF, admin.ExportRecruitments)
	r.Get(handler.RouteRecruitID, admin.ShowRecruitment)
	r.Post(handler.RouteRecruitID+handler.RouteSuffixStatus, admin.SetRecruitmentStatus)
	r.Post(handler.RouteRecruitID+handler.RouteSuffixDelete, admin.DeleteRecruitment)

	r.Get(handler.RouteContacts, admin.ListContacts)
	r.Get(handler.RouteContacts+handler.RouteSuffixExportPDF, admin.ExportContacts)
	r.Post(handler.RouteContactsID+handler.RouteSuffixStatus, admin.SetContactStatus)
	r.Post(handler.RouteContactsID+handler.RouteSuffixDelete, admin.DeleteContact)

	r.Get(handler.RouteUsers, admin.ListUsers)
	r.Post(handler.RouteUsers, admin.AddUser)
	r.Post(handler.RouteUsersID+handler.RouteSuffixRegenerate, admin.RegenerateUserPassword)
	r.Post(handler.RouteUsersID+handler.RouteSuffixPassword, admin.SetUserPassword)
	r.Post(handler.RouteUsersID+handler.RouteSuffixStatus, admin.SetUserStatus)
	r.Post(handler.RouteUsersID+handler.RouteSuffixDelete, admin.DeleteUser)

	r.Get(handler.RouteSecurity, admin.Security)
	r.Post(handler.RouteSecurity+handler.RouteSuffixClear, admin.ClearSecurity)
	r.Get(handler.RouteSecurity+handler.RouteSuffixExportJSON, admin.ExportSecurity)

	r.Get(handler.RouteSettings, admin.SettingsPage)
	r.Post(handler.RouteSettings, admin.SaveSettings)
	r.Post(handler.RouteSettings+handler.RouteSuffixPassword, admin.ChangePassword)
}

// geoReloader returns the resolver when a database is configured.
func geoReloader(a *app) scheduler.Reloader {
	if a.cfg.GeoIPEnabled() {
		return a.geo
	}
	return nil
}
