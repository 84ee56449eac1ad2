// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package authgate guards the admin area. A request starts in the checking
// state; resolving the stored backend session moves it to authenticated or
// unauthenticated. Only admin and moderator roles are let through.
package authgate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/alexedwards/scs/v2"

	"github.com/dreamcore/site/internal/backend"
	"github.com/dreamcore/site/internal/model"
	"github.com/dreamcore/site/internal/security"
)

// State is the position of a request in the gate state machine.
type State string

// Gate states.
const (
	StateChecking        State = "checking"
	StateAuthenticated   State = "authenticated"
	StateUnauthenticated State = "unauthenticated"
)

// Session keys.
const (
	SessionKeyToken  = "access_token"
	SessionKeyRole   = "role"
	SessionKeyUserID = "user_id"
	SessionKeyEmail  = "email"
	SessionKeyName   = "name"
)

// ErrNotAdmin is returned when a valid account lacks an administrative role.
var ErrNotAdmin = errors.New("authgate: account is not an administrator")

// Status is the outcome of resolving a request's session.
type Status struct {
	State       State
	User        backend.User
	AccessToken string
}

// Gate ties the scs session to the backend auth service.
type Gate struct {
	sm     *scs.SessionManager
	auth   backend.Auth
	logger *slog.Logger
}

// New creates a Gate.
func New(sm *scs.SessionManager, auth backend.Auth, logger *slog.Logger) *Gate {
	return &Gate{sm: sm, auth: auth, logger: logger}
}

// Resolve checks the session token against the backend. An expired or
// revoked session, or one whose role lost admin rights, is cleared and
// reported as unauthenticated. Any other backend failure leaves the state at
// checking and returns the error.
func (g *Gate) Resolve(ctx context.Context) (Status, error) {
	token := g.sm.GetString(ctx, SessionKeyToken)
	if token == "" {
		return Status{State: StateUnauthenticated}, nil
	}

	sess, err := g.auth.Session(ctx, token)
	if errors.Is(err, backend.ErrUnauthorized) {
		g.logger.Info("admin session expired", "email", g.sm.GetString(ctx, SessionKeyEmail))
		g.clear(ctx)
		return Status{State: StateUnauthenticated}, nil
	}
	if err != nil {
		return Status{State: StateChecking}, fmt.Errorf("resolving session: %w", err)
	}

	if !sess.User.Role.CanAdminister() {
		g.logger.Warn("admin session without admin role",
			"category", "security",
			"type", security.ViolationAccessDenied,
			"message", "session role lost admin rights",
			"email", sess.User.Email,
			"role", string(sess.User.Role),
		)
		g.clear(ctx)
		return Status{State: StateUnauthenticated}, nil
	}

	if model.Role(g.sm.GetString(ctx, SessionKeyRole)) != sess.User.Role {
		g.sm.Put(ctx, SessionKeyRole, string(sess.User.Role))
	}
	return Status{State: StateAuthenticated, User: sess.User, AccessToken: token}, nil
}

// Login signs in with the backend. Accounts without an administrative role
// are signed out again and rejected with ErrNotAdmin. Errors leave the
// session untouched.
func (g *Gate) Login(ctx context.Context, email, password string) (*backend.Session, error) {
	sess, err := g.auth.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}

	if !sess.User.Role.CanAdminister() {
		if err := g.auth.SignOut(ctx, sess.AccessToken); err != nil {
			g.logger.Error("signing out non-admin session", "error", err)
		}
		return nil, ErrNotAdmin
	}

	if err := g.store(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// SignUp registers an account. The returned session is nil when the backend
// wants email confirmation first. New accounts normally carry the user role
// and so stay unauthenticated until an administrator promotes them.
func (g *Gate) SignUp(ctx context.Context, email, password, fullName string) (*backend.Session, error) {
	sess, err := g.auth.SignUp(ctx, email, password, fullName)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, nil
	}

	if !sess.User.Role.CanAdminister() {
		if err := g.auth.SignOut(ctx, sess.AccessToken); err != nil {
			g.logger.Error("signing out new account", "error", err)
		}
		return sess, nil
	}
	if err := g.store(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Logout revokes the backend session and clears the scs session. A backend
// failure is logged; the local session is cleared regardless.
func (g *Gate) Logout(ctx context.Context) error {
	if token := g.sm.GetString(ctx, SessionKeyToken); token != "" {
		if err := g.auth.SignOut(ctx, token); err != nil {
			g.logger.Error("backend sign out failed", "error", err)
		}
	}
	g.clear(ctx)
	return g.sm.RenewToken(ctx)
}

// AccessToken returns the backend token stored in the session.
func (g *Gate) AccessToken(ctx context.Context) string {
	return g.sm.GetString(ctx, SessionKeyToken)
}

func (g *Gate) store(ctx context.Context, sess *backend.Session) error {
	// New session id on privilege change.
	if err := g.sm.RenewToken(ctx); err != nil {
		return fmt.Errorf("renewing session token: %w", err)
	}
	g.sm.Put(ctx, SessionKeyToken, sess.AccessToken)
	g.sm.Put(ctx, SessionKeyRole, string(sess.User.Role))
	g.sm.Put(ctx, SessionKeyUserID, sess.User.ID)
	g.sm.Put(ctx, SessionKeyEmail, sess.User.Email)
	g.sm.Put(ctx, SessionKeyName, sess.User.Name)
	return nil
}

func (g *Gate) clear(ctx context.Context) {
	for _, key := range []string{SessionKeyToken, SessionKeyRole, SessionKeyUserID, SessionKeyEmail, SessionKeyName} {
		g.sm.Remove(ctx, key)
	}
}
