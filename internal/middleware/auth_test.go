package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alexedwards/scs/v2"

	"github.com/dreamcore/site/internal/authgate"
	"github.com/dreamcore/site/internal/backend"
	"github.com/dreamcore/site/internal/i18n"
	"github.com/dreamcore/site/internal/model"
	"github.com/dreamcore/site/internal/store"
	"github.com/dreamcore/site/internal/testutil"
)

type recordingFlasher struct{ messages []string }

func (f *recordingFlasher) SetFlash(_ *http.Request, message, _ string) {
	f.messages = append(f.messages, message)
}

type unavailableAuth struct{ backend.Auth }

func (unavailableAuth) Session(context.Context, string) (*backend.Session, error) {
	return nil, &backend.RemoteError{Op: "session", Status: http.StatusBadGateway, Message: "down"}
}

type adminFixture struct {
	mux     *http.ServeMux
	handler http.Handler
	flasher *recordingFlasher
}

func newAdminFixture(t *testing.T, auth backend.Auth) *adminFixture {
	t.Helper()

	catalog, err := i18n.New("", testutil.DiscardLogger())
	if err != nil {
		t.Fatal(err)
	}

	sm := scs.New()
	gate := authgate.New(sm, auth, testutil.DiscardLogger())
	f := &adminFixture{mux: http.NewServeMux(), flasher: &recordingFlasher{}}

	protected := RequireAdmin(AdminGateConfig{
		Gate:    gate,
		Catalog: catalog,
		Flasher: f.flasher,
		Logger:  testutil.DiscardLogger(),
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := GetUser(r)
		if user == nil || backend.AccessToken(r.Context()) == "" {
			t.Error("protected handler ran without user or token")
			return
		}
		_, _ = w.Write([]byte(user.Email))
	}))

	f.mux.Handle("/admin", protected)
	f.mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		if _, err := gate.Login(r.Context(), "admin@dreamcore.com", "secret123"); err != nil {
			t.Errorf("Login() error = %v", err)
		}
	})
	f.mux.HandleFunc("/seed", func(w http.ResponseWriter, r *http.Request) {
		sm.Put(r.Context(), authgate.SessionKeyToken, "stale-token")
	})
	f.handler = sm.LoadAndSave(Language(catalog, sm)(f.mux))
	return f
}

func (f *adminFixture) do(path string, cookies []*http.Cookie, json bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	if json {
		req.Header.Set("Accept", "application/json")
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func localAuth(t *testing.T) backend.Auth {
	t.Helper()
	s := store.New(testutil.TestMemoryDB(t))
	if _, err := s.LocalAuth().CreateProfile(context.Background(), "admin@dreamcore.com", "Admin", "secret123", model.RoleAdmin); err != nil {
		t.Fatal(err)
	}
	return s.Auth()
}

func TestRequireAdminUnauthenticated(t *testing.T) {
	f := newAdminFixture(t, localAuth(t))

	rec := f.do("/admin", nil, false)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/admin/login" {
		t.Errorf("got %d %q, want redirect to /admin/login", rec.Code, rec.Header().Get("Location"))
	}
	if len(f.flasher.messages) != 1 || f.flasher.messages[0] != "Faça login para continuar." {
		t.Errorf("flash = %v", f.flasher.messages)
	}

	rec = f.do("/admin", nil, true)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("JSON status = %d, want 401", rec.Code)
	}
}

func TestRequireAdminAuthenticated(t *testing.T) {
	f := newAdminFixture(t, localAuth(t))

	login := f.do("/login", nil, false)
	cookies := login.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("login did not set a session cookie")
	}

	rec := f.do("/admin", cookies, false)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != "admin@dreamcore.com" {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestRequireAdminBackendUnavailable(t *testing.T) {
	f := newAdminFixture(t, unavailableAuth{})

	cookies := f.do("/seed", nil, false).Result().Cookies()
	rec := f.do("/admin", cookies, true)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestGetUserOutsideGate(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if GetUser(req) != nil || GetUserEmail(req) != "" {
		t.Error("GetUser should be empty without RequireAdmin")
	}

	req = req.WithContext(context.WithValue(req.Context(), ContextKeyUser, backend.User{Email: "a@b.co"}))
	if GetUserEmail(req) != "a@b.co" {
		t.Errorf("GetUserEmail() = %q", GetUserEmail(req))
	}
}

func TestRequestPath(t *testing.T) {
	var got string
	handler := RequestPath(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetRequestPath(r.Context())
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/recrutamento", nil))

	if got != "/recrutamento" {
		t.Errorf("GetRequestPath() = %q", got)
	}
	if GetRequestPath(context.Background()) != "" {
		t.Error("GetRequestPath() outside middleware should be empty")
	}
}
