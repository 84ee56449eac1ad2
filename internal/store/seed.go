// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dreamcore/site/internal/auth"
	"github.com/dreamcore/site/internal/backend"
	"github.com/dreamcore/site/internal/model"
)

// DefaultAdminName is the display name of the seeded admin profile.
const DefaultAdminName = "Administrador DreamCore"

// SeedOptions controls Seed.
type SeedOptions struct {
	AdminEmail string
	// AdminPassword is generated and logged once when empty.
	AdminPassword string
	// Projects are inserted when the projects table is empty.
	Projects []model.Project
	Banner   *model.Banner
}

// Seed creates the admin profile and demo content if they do not exist yet.
func Seed(ctx context.Context, s *Store, opts SeedOptions) error {
	exists, err := s.auth.ProfileExists(ctx, opts.AdminEmail)
	if err != nil {
		return err
	}

	if exists {
		slog.Info("admin profile already exists, skipping", "email", opts.AdminEmail)
	} else {
		password := opts.AdminPassword
		generated := password == ""
		if generated {
			if password, err = auth.GenerateTempPassword(); err != nil {
				return err
			}
		}

		user, err := s.auth.CreateProfile(ctx, opts.AdminEmail, DefaultAdminName, password, model.RoleAdmin)
		if err != nil {
			return fmt.Errorf("creating admin profile: %w", err)
		}

		attrs := []any{"user_id", user.ID, "email", user.Email}
		if generated {
			attrs = append(attrs, "password", password)
		}
		slog.Info("created admin profile", attrs...)
	}

	if err := seedProjects(ctx, s, opts.Projects); err != nil {
		return err
	}
	return seedBanner(ctx, s, opts.Banner)
}

func seedProjects(ctx context.Context, s *Store, projects []model.Project) error {
	existing, err := s.projects.List(ctx, backend.Query{})
	if err != nil {
		return err
	}
	if len(existing) > 0 || len(projects) == 0 {
		return nil
	}

	for _, p := range projects {
		if _, err := s.projects.Insert(ctx, backend.ProjectToWire(p)); err != nil {
			return fmt.Errorf("seeding project %q: %w", p.Name, err)
		}
	}
	slog.Info("seeded demo projects", "count", len(projects))
	return nil
}

func seedBanner(ctx context.Context, s *Store, b *model.Banner) error {
	if b == nil {
		return nil
	}
	existing, err := s.banners.List(ctx, backend.Query{})
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	if _, err := s.banners.Insert(ctx, backend.BannerToWire(*b)); err != nil {
		return fmt.Errorf("seeding banner: %w", err)
	}
	return nil
}
