// Package i18n provides the translations of the public site and the admin area.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"golang.org/x/text/language"
)

//go:embed locales
var localesFS embed.FS

// DefaultLanguage is used when a request matches no supported language.
const DefaultLanguage = "pt-BR"

// SupportedLanguages lists the languages with a message file, default first.
var SupportedLanguages = []string{"pt-BR", "en"}

// Message represents a single translatable message.
type Message struct {
	ID          string `json:"id"`
	Message     string `json:"message"`
	Translation string `json:"translation"`
}

// MessageFile represents the structure of a messages JSON file.
type MessageFile struct {
	Language string    `json:"language"`
	Messages []Message `json:"messages"`
}

// Catalog holds the translations of every supported language.
type Catalog struct {
	mu           sync.RWMutex
	translations map[string]map[string]string // lang -> key -> translation
	matcher      language.Matcher
	supported    []language.Tag
	defaultLang  string
	logger       *slog.Logger
}

// New loads the embedded message files. defaultLang must be supported; an
// empty value selects DefaultLanguage.
func New(defaultLang string, logger *slog.Logger) (*Catalog, error) {
	if defaultLang == "" {
		defaultLang = DefaultLanguage
	}
	if !slices.Contains(SupportedLanguages, defaultLang) {
		return nil, fmt.Errorf("unsupported default language %q", defaultLang)
	}

	c := &Catalog{
		translations: make(map[string]map[string]string),
		defaultLang:  defaultLang,
		logger:       logger,
	}

	// The matcher falls back to its first tag, so the default goes first.
	langs := append([]string{defaultLang}, slices.DeleteFunc(slices.Clone(SupportedLanguages), func(l string) bool {
		return l == defaultLang
	})...)
	for _, lang := range langs {
		c.supported = append(c.supported, language.MustParse(lang))
		if err := c.loadLanguage(lang); err != nil {
			return nil, fmt.Errorf("failed to load language %s: %w", lang, err)
		}
	}
	c.matcher = language.NewMatcher(c.supported)

	if logger != nil {
		logger.Info("i18n initialized", "languages", langs, "default", defaultLang)
	}
	return c, nil
}

// loadLanguage loads translations for a specific language.
func (c *Catalog) loadLanguage(lang string) error {
	path := fmt.Sprintf("locales/%s/messages.json", lang)
	data, err := localesFS.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	var msgFile MessageFile
	if err := json.Unmarshal(data, &msgFile); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.translations[lang] = make(map[string]string, len(msgFile.Messages))
	for _, msg := range msgFile.Messages {
		c.translations[lang][msg.ID] = msg.Translation
	}

	if c.logger != nil {
		c.logger.Debug("loaded translations", "language", lang, "count", len(msgFile.Messages))
	}
	return nil
}

// T translates key into lang, formatting args with fmt.Sprintf. Unknown
// languages and missing keys fall back to the default language; a key
// missing there too is returned as is.
func (c *Catalog) T(lang, key string, args ...any) string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	translation, ok := c.translations[lang][key]
	if !ok && lang != c.defaultLang {
		translation, ok = c.translations[c.defaultLang][key]
		if ok && c.logger != nil {
			c.logger.Debug("missing translation, using default", "key", key, "lang", lang)
		}
	}
	if !ok {
		return key
	}

	if len(args) > 0 {
		return fmt.Sprintf(translation, args...)
	}
	return translation
}

// Translator binds T to lang.
func (c *Catalog) Translator(lang string) func(key string, args ...any) string {
	return func(key string, args ...any) string {
		return c.T(lang, key, args...)
	}
}

// Match finds the best supported language for an Accept-Language header or
// a single language code.
func (c *Catalog) Match(acceptLang string) string {
	tags, _, err := language.ParseAcceptLanguage(acceptLang)
	if err != nil || len(tags) == 0 {
		tag, err := language.Parse(acceptLang)
		if err != nil {
			return c.defaultLang
		}
		tags = []language.Tag{tag}
	}

	_, idx, conf := c.matcher.Match(tags...)
	if conf == language.No || idx < 0 || idx >= len(c.supported) {
		return c.defaultLang
	}
	return c.supported[idx].String()
}

// IsSupported reports whether lang has a message file.
func (c *Catalog) IsSupported(lang string) bool {
	return slices.Contains(SupportedLanguages, lang)
}

// Default returns the default language.
func (c *Catalog) Default() string {
	return c.defaultLang
}

// Languages returns the supported languages, default first.
func (c *Catalog) Languages() []string {
	out := make([]string, len(c.supported))
	for i, t := range c.supported {
		out[i] = t.String()
	}
	return out
}

// Count returns the number of messages loaded for lang.
func (c *Catalog) Count(lang string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.translations[lang])
}
