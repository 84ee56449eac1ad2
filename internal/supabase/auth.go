// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package supabase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dreamcore/site/internal/backend"
	"github.com/dreamcore/site/internal/model"
)

type authService struct {
	c *Client
}

var _ backend.Auth = (*authService)(nil)

type gotrueUser struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata"`
}

type gotrueSession struct {
	AccessToken string     `json:"access_token"`
	ExpiresIn   int64      `json:"expires_in"`
	ExpiresAt   int64      `json:"expires_at"`
	User        gotrueUser `json:"user"`
}

type profileRow struct {
	Nome string `json:"nome"`
	Role string `json:"role"`
}

func (s *authService) SignIn(ctx context.Context, email, password string) (*backend.Session, error) {
	resp, err := s.c.http.POST("/auth/v1/token").
		Context().Set(ctx).
		Header().Add("Content-Type", "application/json").
		Query().AddParam("grant_type", "password").
		Body().AsJSON(map[string]string{"email": email, "password": password}).
		Send()
	if err != nil {
		return nil, fmt.Errorf("signing in: %w", err)
	}
	defer resp.Body().Close()

	if err := checkResponse("sign in", resp); err != nil {
		if remoteStatus(err) == http.StatusBadRequest {
			return nil, backend.ErrInvalidCredentials
		}
		return nil, err
	}

	var gs gotrueSession
	if err := resp.Body().AsJSON(&gs); err != nil {
		return nil, fmt.Errorf("decoding session: %w", err)
	}
	return s.resolve(ctx, gs.AccessToken, gs.User, sessionExpiry(gs))
}

func (s *authService) SignUp(ctx context.Context, email, password, fullName string) (*backend.Session, error) {
	resp, err := s.c.http.POST("/auth/v1/signup").
		Context().Set(ctx).
		Header().Add("Content-Type", "application/json").
		Body().AsJSON(map[string]any{
			"email":    email,
			"password": password,
			"data":     map[string]string{"full_name": fullName},
		}).
		Send()
	if err != nil {
		return nil, fmt.Errorf("signing up: %w", err)
	}
	defer resp.Body().Close()

	if err := checkResponse("sign up", resp); err != nil {
		var re *backend.RemoteError
		if errors.As(err, &re) && re.Status == http.StatusUnprocessableEntity &&
			strings.Contains(strings.ToLower(re.Message), "already registered") {
			return nil, backend.ErrEmailTaken
		}
		return nil, err
	}

	var gs gotrueSession
	if err := resp.Body().AsJSON(&gs); err != nil {
		return nil, fmt.Errorf("decoding sign up: %w", err)
	}
	// Email confirmation pending: no session yet.
	if gs.AccessToken == "" {
		return nil, nil
	}
	return s.resolve(ctx, gs.AccessToken, gs.User, sessionExpiry(gs))
}

func (s *authService) SignOut(ctx context.Context, accessToken string) error {
	resp, err := s.c.http.POST("/auth/v1/logout").
		Context().Set(ctx).
		Header().Add("Authorization", "Bearer "+accessToken).
		Send()
	if err != nil {
		return fmt.Errorf("signing out: %w", err)
	}
	defer resp.Body().Close()

	err = checkResponse("sign out", resp)
	if errors.Is(err, backend.ErrUnauthorized) {
		// Already expired or revoked.
		return nil
	}
	return err
}

func (s *authService) Session(ctx context.Context, accessToken string) (*backend.Session, error) {
	if accessToken == "" {
		return nil, backend.ErrUnauthorized
	}

	resp, err := s.c.http.GET("/auth/v1/user").
		Context().Set(ctx).
		Header().Add("Authorization", "Bearer "+accessToken).
		Send()
	if err != nil {
		return nil, fmt.Errorf("resolving session: %w", err)
	}
	defer resp.Body().Close()

	if err := checkResponse("session", resp); err != nil {
		if remoteStatus(err) == http.StatusForbidden {
			return nil, backend.ErrUnauthorized
		}
		return nil, err
	}

	var u gotrueUser
	if err := resp.Body().AsJSON(&u); err != nil {
		return nil, fmt.Errorf("decoding user: %w", err)
	}
	return s.resolve(ctx, accessToken, u, time.Time{})
}

func (s *authService) UpdatePassword(ctx context.Context, accessToken, newPassword string) error {
	resp, err := s.c.http.PUT("/auth/v1/user").
		Context().Set(ctx).
		Header().Add("Authorization", "Bearer "+accessToken).
		Header().Add("Content-Type", "application/json").
		Body().AsJSON(map[string]string{"password": newPassword}).
		Send()
	if err != nil {
		return fmt.Errorf("updating password: %w", err)
	}
	defer resp.Body().Close()

	return checkResponse("update password", resp)
}

// resolve loads the profile role for a GoTrue user and builds the session.
func (s *authService) resolve(ctx context.Context, token string, u gotrueUser, expires time.Time) (*backend.Session, error) {
	resp, err := s.c.http.GET("/rest/v1/"+backend.TableProfiles).
		Context().Set(ctx).
		Header().Add("Authorization", "Bearer "+token).
		Query().AddParam("select", "nome,role").
		Query().AddParam("user_id", "eq."+u.ID).
		Send()
	if err != nil {
		return nil, fmt.Errorf("loading profile: %w", err)
	}
	defer resp.Body().Close()

	if err := checkResponse("profile", resp); err != nil {
		return nil, err
	}

	var profiles []profileRow
	if err := resp.Body().AsJSON(&profiles); err != nil {
		return nil, fmt.Errorf("decoding profile: %w", err)
	}

	user := backend.User{ID: u.ID, Email: u.Email, Role: model.RoleUser}
	if name, ok := u.UserMetadata["full_name"].(string); ok {
		user.Name = name
	}
	if len(profiles) > 0 {
		if profiles[0].Nome != "" {
			user.Name = profiles[0].Nome
		}
		if role := model.Role(profiles[0].Role); role.Valid() {
			user.Role = role
		}
	}

	return &backend.Session{AccessToken: token, ExpiresAt: expires, User: user}, nil
}

func sessionExpiry(gs gotrueSession) time.Time {
	if gs.ExpiresAt > 0 {
		return time.Unix(gs.ExpiresAt, 0).UTC()
	}
	if gs.ExpiresIn > 0 {
		return time.Now().Add(time.Duration(gs.ExpiresIn) * time.Second).UTC()
	}
	return time.Time{}
}
