package i18n

import (
	"io"
	"log/slog"
	"testing"
)

func newTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := New("", slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return c
}

func TestNew(t *testing.T) {
	c := newTestCatalog(t)

	if c.Default() != "pt-BR" {
		t.Errorf("Default() = %q, want pt-BR", c.Default())
	}
	for _, lang := range SupportedLanguages {
		if c.Count(lang) == 0 {
			t.Errorf("no translations loaded for %s", lang)
		}
	}
	if c.Count("en") != c.Count("pt-BR") {
		t.Errorf("en has %d messages, pt-BR has %d", c.Count("en"), c.Count("pt-BR"))
	}
}

func TestNewUnsupportedDefault(t *testing.T) {
	if _, err := New("ru", nil); err == nil {
		t.Error("New(ru) should fail")
	}
}

func TestNewEnglishDefault(t *testing.T) {
	c, err := New("en", nil)
	if err != nil {
		t.Fatalf("New(en) error = %v", err)
	}
	if got := c.Languages(); got[0] != "en" {
		t.Errorf("Languages() = %v, want en first", got)
	}
	if got := c.Match("de"); got != "en" {
		t.Errorf("Match(de) = %q, want en", got)
	}
}

func TestT(t *testing.T) {
	c := newTestCatalog(t)

	tests := []struct {
		name string
		lang string
		key  string
		args []any
		want string
	}{
		{"portuguese", "pt-BR", "auth.login", nil, "Entrar"},
		{"english", "en", "auth.login", nil, "Sign in"},
		{"with args", "pt-BR", "validation.min_length", []any{10}, "Deve ter pelo menos 10 caracteres"},
		{"english with args", "en", "validation.max_length", []any{1000}, "Must be at most 1000 characters"},
		{"unknown language falls back", "fr", "nav.contact", nil, "Contato"},
		{"missing key", "en", "nonexistent.key", nil, "nonexistent.key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.T(tt.lang, tt.key, tt.args...); got != tt.want {
				t.Errorf("T(%q, %q) = %q, want %q", tt.lang, tt.key, got, tt.want)
			}
		})
	}
}

func TestTranslator(t *testing.T) {
	c := newTestCatalog(t)
	tr := c.Translator("en")
	if got := tr("validation.min_items", 1); got != "Select at least 1 option(s)" {
		t.Errorf("Translator(en)(min_items) = %q", got)
	}
}

func TestMatch(t *testing.T) {
	c := newTestCatalog(t)

	tests := []struct {
		input string
		want  string
	}{
		{"pt-BR", "pt-BR"},
		{"pt", "pt-BR"},
		{"pt-PT,pt;q=0.9", "pt-BR"},
		{"en", "en"},
		{"en-US,en;q=0.9", "en"},
		{"de-DE,en;q=0.8", "en"},
		{"ja", "pt-BR"},
		{"", "pt-BR"},
		{"!!invalid", "pt-BR"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := c.Match(tt.input); got != tt.want {
				t.Errorf("Match(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsSupported(t *testing.T) {
	c := newTestCatalog(t)
	if !c.IsSupported("en") || !c.IsSupported("pt-BR") {
		t.Error("en and pt-BR should be supported")
	}
	if c.IsSupported("ru") {
		t.Error("ru should not be supported")
	}
}
