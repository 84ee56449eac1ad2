// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package backend defines the contract between DreamCore and the persistence
// and identity service it delegates to. Rows are exchanged in the backend's
// wire shape; see mappers.go for the conversion to domain types.
package backend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dreamcore/site/internal/model"
)

// Table names.
const (
	TableBanners      = "banners"
	TableProjects     = "projects"
	TableRecruitments = "recruitments"
	TableContacts     = "contacts"
	TableAdminUsers   = "admin_users"
	TableProfiles     = "profiles"
)

var (
	// ErrNotFound is returned when a row addressed by id does not exist.
	ErrNotFound = errors.New("backend: row not found")
	// ErrUnauthorized is returned when a session is missing, expired or revoked.
	ErrUnauthorized = errors.New("backend: unauthorized")
	// ErrInvalidCredentials is returned by SignIn for a wrong email or password.
	ErrInvalidCredentials = errors.New("backend: invalid credentials")
	// ErrEmailTaken is returned by SignUp when the email is already registered.
	ErrEmailTaken = errors.New("backend: email already registered")
	// ErrInvalidRow is returned when a stored row carries a value outside its
	// enumeration.
	ErrInvalidRow = errors.New("backend: invalid row")
)

// RemoteError describes a failure reported by the backend service.
type RemoteError struct {
	Op      string
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("backend %s: status %d: %s", e.Op, e.Status, e.Message)
	}
	return fmt.Sprintf("backend %s: %s", e.Op, e.Message)
}

// Query selects rows of a table.
type Query struct {
	OrderBy string
	Desc    bool
	// Eq restricts rows to those whose column equals the value.
	Eq map[string]any
}

// Patch is a partial row keyed by wire column name.
type Patch map[string]any

// Table is row-level access to one backend table.
type Table[R any] interface {
	// List returns all rows matching q.
	List(ctx context.Context, q Query) ([]R, error)
	// Insert stores row, ignoring its generated fields, and returns the stored row.
	Insert(ctx context.Context, row R) (R, error)
	// Update applies patch to the row with the given id and returns the stored row.
	Update(ctx context.Context, id string, patch Patch) (R, error)
	// Delete removes the row with the given id. It returns ErrNotFound if no row matched.
	Delete(ctx context.Context, id string) error
}

// User is the identity behind a session.
type User struct {
	ID    string
	Email string
	Name  string
	Role  model.Role
}

// Session is an authenticated backend session.
type Session struct {
	AccessToken string
	ExpiresAt   time.Time
	User        User
}

// Expired reports whether the session is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Auth is session-based authentication with a role claim.
type Auth interface {
	SignIn(ctx context.Context, email, password string) (*Session, error)
	// SignUp registers a new account. The returned session is nil when the
	// backend requires email confirmation before the first sign in.
	SignUp(ctx context.Context, email, password, fullName string) (*Session, error)
	SignOut(ctx context.Context, accessToken string) error
	// Session resolves an access token. It returns ErrUnauthorized once the
	// session expired or was revoked.
	Session(ctx context.Context, accessToken string) (*Session, error)
	UpdatePassword(ctx context.Context, accessToken, newPassword string) error
}

// Backend bundles the tables and the authentication service.
type Backend interface {
	Banners() Table[BannerRow]
	Projects() Table[ProjectRow]
	Recruitments() Table[RecruitmentRow]
	Contacts() Table[ContactRow]
	AdminUsers() Table[AdminUserRow]
	Auth() Auth
	Ping(ctx context.Context) error
}
