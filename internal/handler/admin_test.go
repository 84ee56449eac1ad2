package handler

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dreamcore/site/internal/dashboard"
	"github.com/dreamcore/site/internal/model"
	"github.com/dreamcore/site/internal/security"
)

const acceptJSON = "application/json"

func seedRecruitment(t *testing.T, env *testEnv, name string) model.Recruitment {
	t.Helper()
	rec, err := env.recruitments.Submit(t.Context(), model.Recruitment{
		NomeCompleto:            name,
		Idade:                   "30",
		Localidade:              "Curitiba, PR",
		Discord:                 "dev#0001",
		Email:                   strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.com",
		AreaInteresse:           []string{"Arte 2D"},
		Experiencia:             "Cinco anos de ilustração digital.",
		Motivacao:               "Gosto de trabalhar em equipe criativa.",
		RelacaoGaming:           "Jogo estratégia e plataforma desde sempre.",
		Ferramentas:             "Krita, Aseprite",
		ExperienciaColaborativa: "nao",
		HorasSemanais:           "5-10",
		ModeloColaboracao:       "voluntario",
		AceitaPoliticas:         true,
		HabilidadePrincipal:     "Pixel art para jogos de plataforma.",
	})
	require.NoError(t, err)
	return rec
}

func TestDashboardAndStats(t *testing.T) {
	env := newTestEnv(t)
	seedRecruitment(t, env, "Diego Alves")
	env.login(t)

	resp, body := env.get(t, "/admin")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "DreamCore")

	resp, body = env.get(t, "/admin/api/stats", "Accept", acceptJSON)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var stats dashboard.Stats
	require.NoError(t, json.Unmarshal([]byte(body), &stats))
	assert.Equal(t, 1, stats.TotalRecruitments)
	assert.Equal(t, 1, stats.RecruitmentsByStatus[model.RecruitmentPending])
}

func TestBannerLifecycle(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	form := url.Values{
		"title":       {"Temporada de verão"},
		"description": {"Novos mapas e eventos."},
		"imageUrl":    {"https://cdn.dreamcore.com/verao.png"},
		"isActive":    {"true"},
	}
	resp, body := env.post(t, "/admin/banners", form, "Accept", acceptJSON)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)

	var created struct {
		Success bool         `json:"success"`
		Banner  model.Banner `json:"banner"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &created))
	require.True(t, created.Success)
	require.NotEmpty(t, created.Banner.ID)
	assert.True(t, created.Banner.Active)
	assert.Len(t, env.banners.Active(), 1)

	// The public page shows active banners only.
	_, home := env.get(t, "/")
	assert.Contains(t, home, "Temporada de verão")

	path := "/admin/banners/" + created.Banner.ID
	resp, _ = env.post(t, path+"/toggle", nil, "Accept", acceptJSON)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, env.banners.Active())

	form.Set("title", "Temporada de inverno")
	resp, _ = env.post(t, path, form)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/admin/banners", resp.Request.URL.Path)
	got, ok := env.banners.Get(created.Banner.ID)
	require.True(t, ok)
	assert.Equal(t, "Temporada de inverno", got.Title)

	resp, _ = env.post(t, path+"/delete", nil, "Accept", acceptJSON)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, env.banners.List())

	resp, _ = env.post(t, path+"/toggle", nil, "Accept", acceptJSON)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateBannerInvalid(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	resp, body := env.post(t, "/admin/banners", url.Values{"imageUrl": {"not a url"}}, "Accept", acceptJSON)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, `"title"`)
	assert.Contains(t, body, `"imageUrl"`)
	assert.Empty(t, env.banners.List())
}

func TestRecruitmentReview(t *testing.T) {
	env := newTestEnv(t)
	rec := seedRecruitment(t, env, "Elisa Rocha")
	seedRecruitment(t, env, "Fabio Reis")
	env.login(t)

	path := "/admin/recruitments/" + rec.ID
	resp, body := env.get(t, path)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Elisa Rocha")

	resp, _ = env.post(t, path+"/status", url.Values{"status": {"hired"}}, "Accept", acceptJSON)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = env.post(t, path+"/status", url.Values{"status": {string(model.RecruitmentApproved)}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, path, resp.Request.URL.Path)

	got, ok := env.recruitments.Get(rec.ID)
	require.True(t, ok)
	assert.Equal(t, model.RecruitmentApproved, got.Status)

	resp, body = env.get(t, "/admin/recruitments?status=approved", "Accept", acceptJSON)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list struct {
		Records []model.Recruitment `json:"records"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &list))
	require.Len(t, list.Records, 1)
	assert.Equal(t, rec.ID, list.Records[0].ID)

	resp, _ = env.get(t, "/admin/recruitments/missing")
	assert.Equal(t, "/admin/recruitments", resp.Request.URL.Path)
}

func TestExportRecruitmentsPDF(t *testing.T) {
	env := newTestEnv(t)
	seedRecruitment(t, env, "Gabriel Souza")
	env.login(t)

	resp, body := env.get(t, "/admin/recruitments/export.pdf")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")
	assert.True(t, strings.HasPrefix(body, "%PDF"))
}

func TestAddUser(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	form := url.Values{"name": {"Helena Costa"}, "email": {"helena@dreamcore.com"}, "role": {"editor"}}
	resp, body := env.post(t, "/admin/users", form, "Accept", acceptJSON)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)

	var added struct {
		User    model.AdminUser `json:"user"`
		Message string          `json:"message"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &added))
	require.NotEmpty(t, added.User.TempPassword)
	assert.Contains(t, added.Message, added.User.TempPassword)
	assert.Equal(t, "editor", added.User.Role)

	users := env.users.List()
	require.Len(t, users, 1)
	assert.Equal(t, "helena@dreamcore.com", users[0].Email)

	resp, _ = env.post(t, "/admin/users", url.Values{"name": {"X"}, "email": {"bad"}, "role": {"owner"}})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestSecurityLog(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	now := time.Now()
	env.monitor.Log(security.Violation{Type: security.ViolationXSS, Message: "script tag", Timestamp: now.Add(-time.Minute), IP: "203.0.113.7"})
	env.monitor.Log(security.Violation{Type: security.ViolationBot, Message: "crawler", Timestamp: now, IP: "203.0.113.8"})

	resp, body := env.get(t, "/admin/security?type="+security.ViolationXSS)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "script tag")
	assert.NotContains(t, body, "crawler")

	resp, body = env.get(t, "/admin/security/export.json")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "security-logs-"+time.Now().Format("2006-01-02")+".json")
	var exported struct {
		Violations []security.Violation `json:"violations"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &exported))
	assert.Len(t, exported.Violations, 2)

	resp, _ = env.post(t, "/admin/security/clear", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, env.monitor.Violations(""))
}

func TestSaveSettings(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	form := url.Values{
		"siteName":        {"DreamCore Studio"},
		"adminEmail":      {"ops@dreamcore.com"},
		"recruitmentOpen": {"true"},
		"maintenanceMode": {"true"},
	}
	resp, body := env.post(t, "/admin/settings", form, "Accept", acceptJSON)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)

	got := env.settings.Get()
	assert.Equal(t, "DreamCore Studio", got.SiteName)
	assert.True(t, got.MaintenanceMode)
	assert.True(t, got.RecruitmentOpen)
	assert.False(t, got.EmailNotifications)

	resp, _ = env.post(t, "/admin/settings", url.Values{"siteName": {""}, "adminEmail": {"nope"}}, "Accept", acceptJSON)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}
