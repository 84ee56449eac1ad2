// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package supabase implements the DreamCore backend contract against a hosted
// Supabase project: PostgREST for tables and GoTrue for authentication.
package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	fastshot "github.com/opus-domini/fast-shot"

	"github.com/dreamcore/site/internal/backend"
)

// DefaultTimeout bounds every request to the hosted backend.
const DefaultTimeout = 15 * time.Second

// Client is a backend.Backend backed by Supabase.
type Client struct {
	http    fastshot.ClientHttpMethods
	anonKey string

	banners      *table[backend.BannerRow]
	projects     *table[backend.ProjectRow]
	recruitments *table[backend.RecruitmentRow]
	contacts     *table[backend.ContactRow]
	adminUsers   *table[backend.AdminUserRow]
	auth         *authService
}

var _ backend.Backend = (*Client)(nil)

// New returns a client for the project at baseURL authenticated with anonKey.
func New(baseURL, anonKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	httpClient := fastshot.NewClient(strings.TrimSuffix(baseURL, "/")).
		Config().SetTimeout(timeout).
		Header().Add("apikey", anonKey).
		Header().Add("Accept", "application/json").
		Build()

	c := &Client{http: httpClient, anonKey: anonKey}
	c.banners = &table[backend.BannerRow]{c: c, name: backend.TableBanners}
	c.projects = &table[backend.ProjectRow]{c: c, name: backend.TableProjects}
	c.recruitments = &table[backend.RecruitmentRow]{c: c, name: backend.TableRecruitments}
	c.contacts = &table[backend.ContactRow]{c: c, name: backend.TableContacts}
	c.adminUsers = &table[backend.AdminUserRow]{c: c, name: backend.TableAdminUsers}
	c.auth = &authService{c: c}
	return c
}

func (c *Client) Banners() backend.Table[backend.BannerRow]           { return c.banners }
func (c *Client) Projects() backend.Table[backend.ProjectRow]         { return c.projects }
func (c *Client) Recruitments() backend.Table[backend.RecruitmentRow] { return c.recruitments }
func (c *Client) Contacts() backend.Table[backend.ContactRow]         { return c.contacts }
func (c *Client) AdminUsers() backend.Table[backend.AdminUserRow]     { return c.adminUsers }
func (c *Client) Auth() backend.Auth                                  { return c.auth }

// Ping checks that the auth service of the project answers.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.http.GET("/auth/v1/health").
		Context().Set(ctx).
		Send()
	if err != nil {
		return fmt.Errorf("pinging supabase: %w", err)
	}
	defer resp.Body().Close()

	return checkResponse("ping", resp)
}

// bearer returns the token used for row access: the caller's session if the
// context carries one, the anon key otherwise.
func (c *Client) bearer(ctx context.Context) string {
	if token := backend.AccessToken(ctx); token != "" {
		return token
	}
	return c.anonKey
}

// apiError is the error body returned by PostgREST and GoTrue.
type apiError struct {
	Message          string `json:"message"`
	Msg              string `json:"msg"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Code             any    `json:"code"`
}

func (e apiError) text() string {
	for _, s := range []string{e.Message, e.Msg, e.ErrorDescription, e.Error} {
		if s != "" {
			return s
		}
	}
	return ""
}

// checkResponse converts an error status into a *backend.RemoteError, or
// backend.ErrUnauthorized for 401.
func checkResponse(op string, resp *fastshot.Response) error {
	if !resp.Status().IsError() {
		return nil
	}

	status := resp.Status().Code()
	if status == http.StatusUnauthorized {
		return fmt.Errorf("%s: %w", op, backend.ErrUnauthorized)
	}

	body, err := resp.Body().AsString()
	if err != nil {
		return &backend.RemoteError{Op: op, Status: status, Message: "unreadable error body"}
	}

	msg := strings.TrimSpace(body)
	var ae apiError
	if json.Unmarshal([]byte(body), &ae) == nil && ae.text() != "" {
		msg = ae.text()
	}
	return &backend.RemoteError{Op: op, Status: status, Message: msg}
}

// remoteStatus returns the HTTP status of a *backend.RemoteError, or 0.
func remoteStatus(err error) int {
	var re *backend.RemoteError
	if errors.As(err, &re) {
		return re.Status
	}
	return 0
}
