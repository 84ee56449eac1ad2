package handler

import (
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHomeShowsFallbackProjects(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.get(t, "/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "GameServer Pro")
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
}

func TestNotFound(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := env.get(t, "/no-such-page")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body := env.get(t, "/no-such-page", "Accept", "application/json")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, `"success":false`)
}

func TestCarouselEndpoints(t *testing.T) {
	env := newTestEnv(t)

	decode := func(t *testing.T, body string) carouselResponse {
		t.Helper()
		var got carouselResponse
		require.NoError(t, json.Unmarshal([]byte(body), &got))
		return got
	}

	resp, body := env.get(t, "/carousel")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	state := decode(t, body)
	require.Len(t, state.Projects, 3)
	assert.True(t, state.Fallback)
	assert.Equal(t, 0, state.Index)
	assert.Positive(t, state.IntervalMS)

	tests := []struct {
		name      string
		path      string
		wantIndex int
	}{
		{"next", "/carousel/next", 1},
		{"next again", "/carousel/next", 2},
		{"next wraps", "/carousel/next", 0},
		{"prev wraps", "/carousel/prev", 2},
		{"jump", "/carousel/1", 1},
	}
	for _, tt := range tests {
		resp, body := env.post(t, tt.path, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode, tt.name)
		got := decode(t, body)
		assert.Equal(t, tt.wantIndex, got.Index, tt.name)
		assert.Equal(t, got.Projects[got.Index].Name, got.Current.Name, tt.name)
	}

	resp, _ = env.post(t, "/carousel/99", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCarouselSharedAcrossVisitors(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := env.post(t, "/carousel/next", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	other := &http.Client{Jar: jar}
	resp, err = other.Get(env.server.URL + "/carousel")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got carouselResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, 1, got.Index, "a second visitor sees the slide the first one moved to")
}

func validContact(token string) url.Values {
	return url.Values{
		"form_token": {token},
		"nome":       {"Ana Souza"},
		"email":      {"ana@example.com"},
		"mensagem":   {"Gostaria de saber mais sobre o DreamStack."},
	}
}

func TestSubmitContact(t *testing.T) {
	env := newTestEnv(t)
	token := env.formToken(t, "/contato")

	resp, _ := env.post(t, "/contato", validContact(token))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/contato", resp.Request.URL.Path)

	got := env.contacts.List()
	require.Len(t, got, 1)
	assert.Equal(t, "Ana Souza", got[0].Nome)
	assert.Equal(t, "ana@example.com", got[0].Email)
}

func TestSubmitContactRejected(t *testing.T) {
	tests := []struct {
		name       string
		form       func(token string) url.Values
		wantStatus int
		wantBody   string
	}{
		{
			name: "missing form token",
			form: func(string) url.Values {
				return validContact("")
			},
			wantStatus: http.StatusForbidden,
		},
		{
			name: "short message",
			form: func(token string) url.Values {
				v := validContact(token)
				v.Set("mensagem", "oi")
				return v
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   `"mensagem"`,
		},
		{
			name: "bad email",
			form: func(token string) url.Values {
				v := validContact(token)
				v.Set("email", "not-an-email")
				return v
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   `"email"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			token := env.formToken(t, "/contato")

			resp, body := env.post(t, "/contato", tt.form(token), "Accept", "application/json")
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Contains(t, body, `"success":false`)
			if tt.wantBody != "" {
				assert.Contains(t, body, tt.wantBody)
			}
			assert.Empty(t, env.contacts.List())
		})
	}
}

func TestSubmitContactBotUserAgent(t *testing.T) {
	env := newTestEnv(t)
	token := env.formToken(t, "/contato")

	resp, _ := env.post(t, "/contato", validContact(token), "User-Agent", "curl/8.5.0", "Accept", "application/json")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Empty(t, env.contacts.List())
	assert.NotEmpty(t, env.monitor.Violations(""))
}

func TestSubmitContactRateLimited(t *testing.T) {
	env := newTestEnv(t)
	token := env.formToken(t, "/contato")

	var last int
	for range 4 {
		resp, _ := env.post(t, "/contato", validContact(token), "Accept", "application/json")
		last = resp.StatusCode
	}
	assert.Equal(t, http.StatusTooManyRequests, last)
	assert.Len(t, env.contacts.List(), 3)
}

func TestRecruitmentClosed(t *testing.T) {
	env := newTestEnv(t)
	token := env.formToken(t, "/recrutamento")

	settings := env.settings.Get()
	settings.RecruitmentOpen = false
	_, err := env.settings.Save(t.Context(), settings)
	require.NoError(t, err)

	resp, body := env.post(t, "/recrutamento", url.Values{"form_token": {token}}, "Accept", "application/json")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Contains(t, body, `"success":false`)
	assert.Empty(t, env.recruitments.List())
}

func TestSubmitRecruitment(t *testing.T) {
	env := newTestEnv(t)
	token := env.formToken(t, "/recrutamento")

	form := url.Values{
		"form_token":              {token},
		"nomeCompleto":            {"Bruno Lima"},
		"idade":                   {"24"},
		"localidade":              {"Recife, PE"},
		"discord":                 {"bruno#1234"},
		"email":                   {"bruno@example.com"},
		"areaInteresse":           {"Programação", "Game Design"},
		"experiencia":             {"Dois anos com Unity e Godot."},
		"motivacao":               {"Quero construir jogos com a comunidade."},
		"relacaoGaming":           {"Jogo desde criança, principalmente RPGs."},
		"ferramentas":             {"Godot, Blender"},
		"experienciaColaborativa": {"sim"},
		"horasSemanais":           {"10-20"},
		"modeloColaboracao":       {"voluntario"},
		"aceitaPoliticas":         {"true"},
		"habilidadePrincipal":     {"Programação de gameplay em C#."},
	}

	resp, body := env.post(t, "/recrutamento", form, "Accept", "application/json")
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Contains(t, body, `"success":true`)

	got := env.recruitments.List()
	require.Len(t, got, 1)
	assert.Equal(t, []string{"Programação", "Game Design"}, got[0].AreaInteresse)
	assert.True(t, got[0].AceitaPoliticas)
}

func TestRecruitmentFormLists(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.get(t, "/recrutamento")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	for _, c := range recruitmentModels {
		assert.Contains(t, body, c.Value)
	}
}

func TestCrawlerDocuments(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.get(t, "/robots.txt")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Disallow: /admin")
	assert.Contains(t, body, "Sitemap: https://dreamcore.test/sitemap.xml")

	resp, body = env.get(t, "/sitemap.xml")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/xml")
	assert.Contains(t, body, "<loc>https://dreamcore.test/recrutamento</loc>")

	settings := env.settings.Get()
	settings.RecruitmentOpen = false
	_, err := env.settings.Save(t.Context(), settings)
	require.NoError(t, err)

	_, body = env.get(t, "/sitemap.xml")
	assert.NotContains(t, body, "/recrutamento</loc>")
	_, body = env.get(t, "/robots.txt")
	assert.Contains(t, body, "Disallow: /recrutamento")
}
