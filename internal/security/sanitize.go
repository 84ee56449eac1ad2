// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package security holds the input hardening used on the public forms and the
// admin area: sanitising, unsafe-input detection, rate limiting, bot
// detection, the violation monitor and expiring secure storage.
//
// These checks add friction for casual abuse. Authorization is enforced by
// the admin session gate and the backend.
package security

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"html"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer strips markup from user input.
type Sanitizer struct {
	text *bluemonday.Policy
	rich *bluemonday.Policy
}

// NewSanitizer builds the text and rich-HTML policies.
func NewSanitizer() *Sanitizer {
	text := bluemonday.NewPolicy()
	text.AllowElements("b", "i", "em", "strong", "p", "br")

	rich := bluemonday.NewPolicy()
	rich.AllowElements("p", "br", "b", "i", "strong", "em", "ul", "ol", "li")
	rich.AllowAttrs("class").Globally()

	return &Sanitizer{text: text, rich: rich}
}

// Sanitize keeps only b, i, em, strong, p and br, without attributes.
func (s *Sanitizer) Sanitize(input string) string {
	if input == "" {
		return ""
	}
	return s.text.Sanitize(input)
}

// SanitizeText is Sanitize with HTML entities decoded, for values that are
// stored as plain text and escaped again when rendered.
func (s *Sanitizer) SanitizeText(input string) string {
	return html.UnescapeString(s.Sanitize(input))
}

// SanitizeHTML keeps basic formatting and lists plus the class attribute.
func (s *Sanitizer) SanitizeHTML(input string) string {
	return s.rich.Sanitize(input)
}

var unsafePattern = regexp.MustCompile(`(?i)<script|javascript:|on\w+\s*=|<iframe|<object|<embed`)

// ValidateSafeString reports whether input is free of script injection markers.
func ValidateSafeString(input string) bool {
	return !unsafePattern.MatchString(input)
}

var specialChars = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#x27;",
	"/", "&#x2F;",
	"`", "&#96;",
	"=", "&#x3D;",
)

// EscapeSpecialChars escapes the HTML-significant characters plus / ` and =.
func EscapeSpecialChars(input string) string {
	return specialChars.Replace(input)
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// MaxEmailLength is the longest address IsValidEmail accepts.
const MaxEmailLength = 254

// IsValidEmail checks the address shape and length.
func IsValidEmail(email string) bool {
	return len(email) <= MaxEmailLength && emailPattern.MatchString(email)
}

// IsValidURL accepts absolute http and https URLs only.
func IsValidURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

// Obfuscate masks data, keeping the first and last characters visible.
func Obfuscate(data string, first, last int) string {
	n := utf8.RuneCountInString(data)
	if n <= first+last {
		return strings.Repeat("*", n)
	}
	runes := []rune(data)
	return string(runes[:first]) + strings.Repeat("*", n-first-last) + string(runes[n-last:])
}

var sensitiveKeys = []string{"password", "token", "secret", "key", "auth", "credential"}

// Redacted replaces sensitive values.
const Redacted = "[REDACTED]"

// RedactSensitive returns a copy of data with sensitive keys redacted,
// descending into nested maps and slices.
func RedactSensitive(data map[string]any) map[string]any {
	if data == nil {
		return nil
	}
	out := make(map[string]any, len(data))
	for k, v := range data {
		if isSensitiveKey(k) {
			out[k] = Redacted
			continue
		}
		out[k] = redactValue(v)
	}
	return out
}

func redactValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return RedactSensitive(val)
	case []any:
		cp := make([]any, len(val))
		for i, item := range val {
			cp[i] = redactValue(item)
		}
		return cp
	default:
		return v
	}
}

func isSensitiveKey(k string) bool {
	k = strings.ToLower(k)
	for _, s := range sensitiveKeys {
		if strings.Contains(k, s) {
			return true
		}
	}
	return false
}

// HashSHA256 returns the hex SHA-256 digest of data.
func HashSHA256(data string) string {
	sum := sha256.Sum256([]byte(data))
	return hex.EncodeToString(sum[:])
}

// NewCSRFToken returns 32 random bytes, hex encoded.
func NewCSRFToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// NewUUID returns a random (version 4) UUID.
func NewUUID() string {
	return uuid.NewString()
}
