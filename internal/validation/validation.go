// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package validation provides declarative form schemas. A Schema checks every
// field and returns all failures together as *Errors. Messages are i18n keys
// with format arguments.
package validation

import (
	"fmt"
	"net/mail"
	"net/url"
	"sort"
	"strings"
	"unicode/utf8"
)

// Message keys.
const (
	KeyRequired   = "validation.required"
	KeyMinLength  = "validation.min_length"
	KeyMaxLength  = "validation.max_length"
	KeyEmail      = "validation.email"
	KeyMinItems   = "validation.min_items"
	KeyMustAccept = "validation.must_accept"
	KeyMismatch   = "validation.mismatch"
	KeyURL        = "validation.url"
	KeyOption     = "validation.option"
)

// FieldError is one failed rule of one field.
type FieldError struct {
	Field string
	Key   string
	Args  []any
}

// Errors is returned by Schema.Validate when at least one field is invalid.
type Errors struct {
	Fields []FieldError
}

func (e *Errors) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Key)
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// Has reports whether field failed.
func (e *Errors) Has(field string) bool {
	_, ok := e.Get(field)
	return ok
}

// Get returns the error of field.
func (e *Errors) Get(field string) (FieldError, bool) {
	for _, f := range e.Fields {
		if f.Field == field {
			return f, true
		}
	}
	return FieldError{}, false
}

// Translate renders every field error with t, keyed by field name.
func (e *Errors) Translate(t func(key string, args ...any) string) map[string]string {
	out := make(map[string]string, len(e.Fields))
	for _, f := range e.Fields {
		out[f.Field] = t(f.Key, f.Args...)
	}
	return out
}

// FieldNames returns the failed fields in sorted order.
func (e *Errors) FieldNames() []string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, f.Field)
	}
	sort.Strings(names)
	return names
}

// Check validates one field of T. It returns nil when the field is valid.
type Check[T any] func(v T) *FieldError

// Schema is an ordered list of field checks.
type Schema[T any] []Check[T]

// Validate runs every check and returns *Errors if any failed.
func (s Schema[T]) Validate(v T) error {
	var errs Errors
	for _, check := range s {
		if fe := check(v); fe != nil {
			errs.Fields = append(errs.Fields, *fe)
		}
	}
	if len(errs.Fields) == 0 {
		return nil
	}
	return &errs
}

// StringRule is one constraint on a string value.
type StringRule func(s string) (key string, args []any, ok bool)

// String checks the string returned by get against rules, stopping at the
// first failing rule of the field.
func String[T any](field string, get func(T) string, rules ...StringRule) Check[T] {
	return func(v T) *FieldError {
		s := get(v)
		for _, rule := range rules {
			if key, args, ok := rule(s); !ok {
				return &FieldError{Field: field, Key: key, Args: args}
			}
		}
		return nil
	}
}

// Required rejects a blank string.
func Required() StringRule {
	return func(s string) (string, []any, bool) {
		return KeyRequired, nil, strings.TrimSpace(s) != ""
	}
}

// MinLen requires at least n characters.
func MinLen(n int) StringRule {
	return func(s string) (string, []any, bool) {
		return KeyMinLength, []any{n}, utf8.RuneCountInString(s) >= n
	}
}

// MaxLen allows at most n characters.
func MaxLen(n int) StringRule {
	return func(s string) (string, []any, bool) {
		return KeyMaxLength, []any{n}, utf8.RuneCountInString(s) <= n
	}
}

// Email requires a bare address of the form local@domain.tld.
func Email() StringRule {
	return func(s string) (string, []any, bool) {
		return KeyEmail, nil, IsEmail(s)
	}
}

// IsEmail reports whether s is a bare email address with a dotted domain.
func IsEmail(s string) bool {
	if s == "" || strings.ContainsAny(s, " <>") {
		return false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return false
	}
	at := strings.LastIndexByte(s, '@')
	domain := s[at+1:]
	dot := strings.LastIndexByte(domain, '.')
	return dot > 0 && dot < len(domain)-1
}

// OptionalURL accepts an empty string or an absolute http(s) URL.
func OptionalURL() StringRule {
	return func(s string) (string, []any, bool) {
		if s == "" {
			return KeyURL, nil, true
		}
		u, err := url.Parse(s)
		ok := err == nil && u.Host != "" && (u.Scheme == "http" || u.Scheme == "https")
		return KeyURL, nil, ok
	}
}

// OneOf requires one of the allowed values.
func OneOf(allowed ...string) StringRule {
	return func(s string) (string, []any, bool) {
		for _, a := range allowed {
			if s == a {
				return KeyOption, nil, true
			}
		}
		return KeyOption, nil, false
	}
}

// MinItems requires a list with at least n entries.
func MinItems[T any](field string, get func(T) []string, n int) Check[T] {
	return func(v T) *FieldError {
		if len(get(v)) < n {
			return &FieldError{Field: field, Key: KeyMinItems, Args: []any{n}}
		}
		return nil
	}
}

// MustBeTrue requires a checked flag.
func MustBeTrue[T any](field string, get func(T) bool) Check[T] {
	return func(v T) *FieldError {
		if !get(v) {
			return &FieldError{Field: field, Key: KeyMustAccept}
		}
		return nil
	}
}

// EqualsField requires field to equal another field of the same value.
func EqualsField[T any](field string, get, other func(T) string) Check[T] {
	return func(v T) *FieldError {
		if get(v) != other(v) {
			return &FieldError{Field: field, Key: KeyMismatch}
		}
		return nil
	}
}

// Predicate fails with key when ok returns false.
func Predicate[T any](field, key string, ok func(T) bool) Check[T] {
	return func(v T) *FieldError {
		if !ok(v) {
			return &FieldError{Field: field, Key: key}
		}
		return nil
	}
}

// String formats the error without translation, for logs.
func (f FieldError) String() string {
	if len(f.Args) == 0 {
		return fmt.Sprintf("%s: %s", f.Field, f.Key)
	}
	return fmt.Sprintf("%s: %s %v", f.Field, f.Key, f.Args)
}
