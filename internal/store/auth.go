// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dreamcore/site/internal/auth"
	"github.com/dreamcore/site/internal/backend"
	"github.com/dreamcore/site/internal/model"
)

// DefaultSessionTTL is the lifetime of a local backend session.
const DefaultSessionTTL = 24 * time.Hour

// LocalAuth implements backend.Auth with argon2id password hashes stored in
// the profiles table and opaque tokens stored in auth_sessions.
type LocalAuth struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

var _ backend.Auth = (*LocalAuth)(nil)

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignIn verifies the credentials and opens a new session.
func (a *LocalAuth) SignIn(ctx context.Context, email, password string) (*backend.Session, error) {
	var (
		user backend.User
		hash string
		role string
	)
	err := a.db.QueryRowContext(ctx,
		`SELECT user_id, nome, email, role, password_hash FROM profiles WHERE email = ?`,
		normalizeEmail(email),
	).Scan(&user.ID, &user.Name, &user.Email, &role, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, backend.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("looking up profile: %w", err)
	}

	ok, err := auth.CheckPassword(password, hash)
	if err != nil {
		return nil, fmt.Errorf("checking password: %w", err)
	}
	if !ok {
		return nil, backend.ErrInvalidCredentials
	}

	if auth.NeedsRehash(hash) {
		if newHash, err := auth.HashPassword(password); err == nil {
			_, _ = a.db.ExecContext(ctx, `UPDATE profiles SET password_hash = ? WHERE user_id = ?`, newHash, user.ID)
		}
	}

	user.Role = profileRole(role)
	return a.openSession(ctx, user)
}

func (a *LocalAuth) openSession(ctx context.Context, user backend.User) (*backend.Session, error) {
	token, err := auth.NewToken(32)
	if err != nil {
		return nil, err
	}

	now := a.now()
	expires := now.Add(a.ttl)
	if _, err := a.db.ExecContext(ctx,
		`INSERT INTO auth_sessions (token, user_id, expires_at, created_at) VALUES (?, ?, ?, ?)`,
		token, user.ID, formatTime(expires), formatTime(now),
	); err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}

	return &backend.Session{AccessToken: token, ExpiresAt: expires.UTC(), User: user}, nil
}

// SignUp registers a profile with the user role and signs it in.
func (a *LocalAuth) SignUp(ctx context.Context, email, password, fullName string) (*backend.Session, error) {
	user, err := a.CreateProfile(ctx, email, fullName, password, model.RoleUser)
	if err != nil {
		return nil, err
	}
	return a.openSession(ctx, user)
}

// CreateProfile inserts a profile with the given role.
func (a *LocalAuth) CreateProfile(ctx context.Context, email, name, password string, role model.Role) (backend.User, error) {
	if !role.Valid() {
		return backend.User{}, fmt.Errorf("invalid role %q", role)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return backend.User{}, fmt.Errorf("hashing password: %w", err)
	}

	user := backend.User{ID: uuid.NewString(), Email: normalizeEmail(email), Name: name, Role: role}
	now := formatTime(a.now())
	_, err = a.db.ExecContext(ctx,
		`INSERT INTO profiles (id, user_id, nome, email, role, password_hash, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), user.ID, user.Name, user.Email, string(role), hash, now, now,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return backend.User{}, backend.ErrEmailTaken
		}
		return backend.User{}, fmt.Errorf("creating profile: %w", err)
	}
	return user, nil
}

// ProfileExists reports whether a profile is registered for email.
func (a *LocalAuth) ProfileExists(ctx context.Context, email string) (bool, error) {
	var n int
	err := a.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM profiles WHERE email = ?`, normalizeEmail(email)).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking profile: %w", err)
	}
	return n > 0, nil
}

// SignOut revokes the session. Unknown tokens are ignored.
func (a *LocalAuth) SignOut(ctx context.Context, accessToken string) error {
	if _, err := a.db.ExecContext(ctx, `DELETE FROM auth_sessions WHERE token = ?`, accessToken); err != nil {
		return fmt.Errorf("revoking session: %w", err)
	}
	return nil
}

// Session resolves an access token to its user and role.
func (a *LocalAuth) Session(ctx context.Context, accessToken string) (*backend.Session, error) {
	if accessToken == "" {
		return nil, backend.ErrUnauthorized
	}

	var (
		s       backend.Session
		role    string
		expires string
	)
	err := a.db.QueryRowContext(ctx,
		`SELECT s.expires_at, p.user_id, p.nome, p.email, p.role
		 FROM auth_sessions s JOIN profiles p ON p.user_id = s.user_id
		 WHERE s.token = ?`, accessToken,
	).Scan(&expires, &s.User.ID, &s.User.Name, &s.User.Email, &role)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, backend.ErrUnauthorized
	}
	if err != nil {
		return nil, fmt.Errorf("resolving session: %w", err)
	}

	if s.ExpiresAt, err = parseTime(expires); err != nil {
		return nil, err
	}
	if s.Expired(a.now()) {
		_ = a.SignOut(ctx, accessToken)
		return nil, backend.ErrUnauthorized
	}

	s.AccessToken = accessToken
	s.User.Role = profileRole(role)
	return &s, nil
}

// UpdatePassword replaces the password of the session's user.
func (a *LocalAuth) UpdatePassword(ctx context.Context, accessToken, newPassword string) error {
	s, err := a.Session(ctx, accessToken)
	if err != nil {
		return err
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	if _, err := a.db.ExecContext(ctx,
		`UPDATE profiles SET password_hash = ?, updated_at = ? WHERE user_id = ?`,
		hash, formatTime(a.now()), s.User.ID,
	); err != nil {
		return fmt.Errorf("updating password: %w", err)
	}
	return nil
}

// ResetPassword sets the password of the profile registered for email and
// revokes its sessions.
func (a *LocalAuth) ResetPassword(ctx context.Context, email, password string) error {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	var userID string
	err = a.db.QueryRowContext(ctx, `SELECT user_id FROM profiles WHERE email = ?`, normalizeEmail(email)).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return backend.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("finding profile: %w", err)
	}

	if _, err := a.db.ExecContext(ctx,
		`UPDATE profiles SET password_hash = ?, updated_at = ? WHERE user_id = ?`,
		hash, formatTime(a.now()), userID,
	); err != nil {
		return fmt.Errorf("resetting password: %w", err)
	}
	if _, err := a.db.ExecContext(ctx, `DELETE FROM auth_sessions WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("revoking sessions: %w", err)
	}
	return nil
}

// DeleteProfile removes the profile registered for email together with its
// sessions. Unknown emails are ignored.
func (a *LocalAuth) DeleteProfile(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if _, err := a.db.ExecContext(ctx,
		`DELETE FROM auth_sessions WHERE user_id IN (SELECT user_id FROM profiles WHERE email = ?)`, email,
	); err != nil {
		return fmt.Errorf("revoking sessions: %w", err)
	}
	if _, err := a.db.ExecContext(ctx, `DELETE FROM profiles WHERE email = ?`, email); err != nil {
		return fmt.Errorf("deleting profile: %w", err)
	}
	return nil
}

// PurgeExpiredSessions removes expired sessions and returns how many were removed.
func (a *LocalAuth) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	res, err := a.db.ExecContext(ctx, `DELETE FROM auth_sessions WHERE expires_at <= ?`, formatTime(a.now()))
	if err != nil {
		return 0, fmt.Errorf("purging sessions: %w", err)
	}
	return res.RowsAffected()
}

// profileRole maps a stored role to the login role. Values outside the
// enumeration get the unprivileged role.
func profileRole(role string) model.Role {
	if r := model.Role(role); r.Valid() {
		return r
	}
	return model.RoleUser
}
