// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/dreamcore/site/internal/backend"
)

// Store is the SQLite backend.
type Store struct {
	db           *sql.DB
	banners      *table[backend.BannerRow]
	projects     *table[backend.ProjectRow]
	recruitments *table[backend.RecruitmentRow]
	contacts     *table[backend.ContactRow]
	adminUsers   *table[backend.AdminUserRow]
	auth         *LocalAuth
}

var _ backend.Backend = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the clock used for timestamps and session expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.banners.now = now
		s.projects.now = now
		s.recruitments.now = now
		s.contacts.now = now
		s.adminUsers.now = now
		s.auth.now = now
	}
}

// WithSessionTTL overrides DefaultSessionTTL.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.auth.ttl = ttl
	}
}

// New returns a Store over a migrated database.
func New(db *sql.DB, opts ...Option) *Store {
	s := &Store{
		db:           db,
		banners:      &table[backend.BannerRow]{db: db, spec: bannersSpec, now: time.Now},
		projects:     &table[backend.ProjectRow]{db: db, spec: projectsSpec, now: time.Now},
		recruitments: &table[backend.RecruitmentRow]{db: db, spec: recruitmentsSpec, now: time.Now},
		contacts:     &table[backend.ContactRow]{db: db, spec: contactsSpec, now: time.Now},
		adminUsers:   &table[backend.AdminUserRow]{db: db, spec: adminUsersSpec, now: time.Now},
		auth:         &LocalAuth{db: db, ttl: DefaultSessionTTL, now: time.Now},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Banners() backend.Table[backend.BannerRow]           { return s.banners }
func (s *Store) Projects() backend.Table[backend.ProjectRow]         { return s.projects }
func (s *Store) Recruitments() backend.Table[backend.RecruitmentRow] { return s.recruitments }
func (s *Store) Contacts() backend.Table[backend.ContactRow]         { return s.contacts }
func (s *Store) AdminUsers() backend.Table[backend.AdminUserRow]     { return s.adminUsers }
func (s *Store) Auth() backend.Auth                                  { return s.auth }

// LocalAuth exposes the profile management used by seeding.
func (s *Store) LocalAuth() *LocalAuth { return s.auth }

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
