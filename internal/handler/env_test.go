package handler

import (
	"context"
	"io"
	"io/fs"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/dreamcore/site/internal/authgate"
	"github.com/dreamcore/site/internal/carousel"
	"github.com/dreamcore/site/internal/collection"
	"github.com/dreamcore/site/internal/content"
	"github.com/dreamcore/site/internal/i18n"
	"github.com/dreamcore/site/internal/middleware"
	"github.com/dreamcore/site/internal/model"
	"github.com/dreamcore/site/internal/render"
	"github.com/dreamcore/site/internal/security"
	"github.com/dreamcore/site/internal/service"
	"github.com/dreamcore/site/internal/store"
	"github.com/dreamcore/site/internal/testutil"
	"github.com/dreamcore/site/web"
)

const (
	browserUA     = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
	adminEmail    = "admin@dreamcore.com"
	adminPassword = "secret123"
)

var formTokenRe = regexp.MustCompile(`name="form_token" value="([0-9a-f]+)"`)

type testEnv struct {
	server *httptest.Server
	client *http.Client

	store        *store.Store
	banners      *service.BannerService
	projects     *service.ProjectService
	recruitments *service.RecruitmentService
	contacts     *service.ContactService
	users        *service.AdminUserService
	settings     *service.SettingsService
	monitor      *security.Monitor
	carousel     *carousel.Carousel
}

type uaTransport struct{ next http.RoundTripper }

func (u uaTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	if r.Header.Get("User-Agent") == "" {
		r.Header.Set("User-Agent", browserUA)
	}
	return u.next.RoundTrip(r)
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	logger := testutil.DiscardLogger()
	now := time.Now

	env := &testEnv{store: testutil.TestStore(t)}
	storage := testutil.TestStorage(t, now)

	_, err := env.store.LocalAuth().CreateProfile(ctx, adminEmail, "Admin", adminPassword, model.RoleAdmin)
	require.NoError(t, err)

	catalog, err := i18n.New(i18n.DefaultLanguage, logger)
	require.NoError(t, err)

	sm := scs.New()
	templates, err := fs.Sub(web.Templates, "templates")
	require.NoError(t, err)
	renderer, err := render.New(render.Config{TemplatesFS: templates, SessionManager: sm, Catalog: catalog, Logger: logger})
	require.NoError(t, err)

	sanitizer := security.NewSanitizer()
	site, err := content.Load("", sanitizer)
	require.NoError(t, err)

	env.monitor = security.NewMonitor()
	env.banners = service.NewBannerService(collection.Banners(env.store), logger)
	env.projects = service.NewProjectService(collection.Projects(env.store), logger)
	env.recruitments = service.NewRecruitmentService(collection.Recruitments(env.store), logger)
	env.contacts = service.NewContactService(collection.Contacts(env.store), logger)
	env.users = service.NewAdminUserService(collection.AdminUsers(env.store), storage, logger,
		service.WithAccountProvisioner(env.store.LocalAuth()))
	env.settings = service.NewSettingsService(storage, env.store.Auth(), logger)
	for _, load := range []func(context.Context) error{
		env.banners.Load, env.projects.Load, env.recruitments.Load, env.contacts.Load, env.users.Load,
	} {
		require.NoError(t, load(ctx))
	}
	env.carousel = carousel.New(site.FallbackProjects(), carousel.WithLogger(logger))

	guard := security.NewFormGuard(security.NewRateLimiter(now), env.monitor, sanitizer,
		security.FormGuardConfig{MaxAttempts: 3, Window: time.Minute}, logger)
	gate := authgate.New(sm, env.store.Auth(), logger)

	public := NewPublicHandler(PublicDeps{
		Renderer:     renderer,
		Catalog:      catalog,
		Site:         site,
		Banners:      env.banners,
		Projects:     env.projects,
		Carousel:     env.carousel,
		Recruitments: env.recruitments,
		Contacts:     env.contacts,
		Settings:     env.settings,
		Guard:        guard,
		Logger:       logger,
		SiteURL:      "https://dreamcore.test",
	})
	auth := NewAuthHandler(renderer, catalog, gate, middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig()), env.settings, logger)
	admin := NewAdminHandler(AdminDeps{
		Renderer:     renderer,
		Catalog:      catalog,
		Banners:      env.banners,
		Projects:     env.projects,
		Recruitments: env.recruitments,
		Contacts:     env.contacts,
		Users:        env.users,
		Settings:     env.settings,
		Monitor:      env.monitor,
		Logger:       logger,
	})

	r := chi.NewRouter()
	r.Use(sm.LoadAndSave)
	r.Use(middleware.Language(catalog, sm))
	r.NotFound(public.NotFound)

	r.Get(RouteRoot, public.Home)
	r.Get(RouteRobots, public.Robots)
	r.Get(RouteSitemap, public.Sitemap)
	r.Get(RouteCarousel, public.CarouselState)
	r.Post(RouteCarouselNext, public.CarouselNext)
	r.Post(RouteCarouselPrev, public.CarouselPrev)
	r.Post(RouteCarouselJump, public.CarouselJump)
	r.Get(RouteContact, public.ContactForm)
	r.Post(RouteContact, public.SubmitContact)
	r.Get(RouteRecruitment, public.RecruitmentForm)
	r.Post(RouteRecruitment, public.SubmitRecruitment)

	r.Route(RouteAdmin, func(r chi.Router) {
		r.Get(RouteLogin, auth.LoginForm)
		r.Post(RouteLogin, auth.Login)
		r.Get(RouteSignup, auth.SignupForm)
		r.Post(RouteSignup, auth.Signup)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin(middleware.AdminGateConfig{
				Gate: gate, Catalog: catalog, Flasher: renderer, Logger: logger,
			}))
			r.Post(RouteLogout, auth.Logout)
			r.Get(RouteRoot, admin.Dashboard)
			r.Get(RouteStats, admin.Stats)
			r.Get(RouteBanners, admin.ListBanners)
			r.Post(RouteBanners, admin.CreateBanner)
			r.Post(RouteBannersID, admin.UpdateBanner)
			r.Post(RouteBannersID+RouteSuffixToggle, admin.ToggleBanner)
			r.Post(RouteBannersID+RouteSuffixDelete, admin.DeleteBanner)
			r.Get(RouteRecruitments, admin.ListRecruitments)
			r.Get(RouteRecruitments+RouteSuffixExportPDF, admin.ExportRecruitments)
			r.Get(RouteRecruitID, admin.ShowRecruitment)
			r.Post(RouteRecruitID+RouteSuffixStatus, admin.SetRecruitmentStatus)
			r.Get(RouteUsers, admin.ListUsers)
			r.Post(RouteUsers, admin.AddUser)
			r.Get(RouteSecurity, admin.Security)
			r.Post(RouteSecurity+RouteSuffixClear, admin.ClearSecurity)
			r.Get(RouteSecurity+RouteSuffixExportJSON, admin.ExportSecurity)
			r.Post(RouteSettings, admin.SaveSettings)
		})
	})

	env.server = httptest.NewServer(r)
	t.Cleanup(env.server.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	env.client = &http.Client{Jar: jar, Transport: uaTransport{next: http.DefaultTransport}}
	return env
}

// get fetches path and returns the response and its body.
func (e *testEnv) get(t *testing.T, path string, header ...string) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, e.server.URL+path, nil)
	require.NoError(t, err)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	return e.do(t, req)
}

// post submits form to path. Header pairs are added to the request.
func (e *testEnv) post(t *testing.T, path string, form url.Values, header ...string) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, e.server.URL+path, strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	return e.do(t, req)
}

func (e *testEnv) do(t *testing.T, req *http.Request) (*http.Response, string) {
	t.Helper()
	resp, err := e.client.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

// formToken loads path and returns the form token rendered into it.
func (e *testEnv) formToken(t *testing.T, path string) string {
	t.Helper()
	_, body := e.get(t, path)
	m := formTokenRe.FindStringSubmatch(body)
	require.Len(t, m, 2, "no form token on %s", path)
	return m[1]
}

// login signs the client in as the seeded admin.
func (e *testEnv) login(t *testing.T) {
	t.Helper()
	token := e.formToken(t, "/admin/login")
	resp, _ := e.post(t, "/admin/login", url.Values{
		"form_token": {token},
		"email":      {adminEmail},
		"password":   {adminPassword},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "/admin", resp.Request.URL.Path)
}
