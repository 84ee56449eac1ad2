// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/dreamcore/site/internal/backend"
	"github.com/dreamcore/site/internal/collection"
	"github.com/dreamcore/site/internal/model"
	"github.com/dreamcore/site/internal/validation"
)

// ProjectService manages the projects shown in the landing page carousel.
type ProjectService struct {
	projects *collection.Collection[model.Project, backend.ProjectRow]
	logger   *slog.Logger
}

// NewProjectService creates a ProjectService over the projects collection.
func NewProjectService(projects *collection.Collection[model.Project, backend.ProjectRow], logger *slog.Logger) *ProjectService {
	return &ProjectService{projects: projects, logger: logger}
}

// Load refreshes the cached projects from the backend.
func (s *ProjectService) Load(ctx context.Context) error {
	return s.projects.Load(ctx)
}

// IsLoading reports whether the first load is still pending.
func (s *ProjectService) IsLoading() bool {
	return s.projects.IsLoading()
}

// List returns every project ordered by display order.
func (s *ProjectService) List() []model.Project {
	return s.projects.Records()
}

// Get returns the cached project with id.
func (s *ProjectService) Get(id string) (model.Project, bool) {
	return s.projects.Get(id)
}

// Active returns the active projects ordered by display order.
func (s *ProjectService) Active() []model.Project {
	return slices.DeleteFunc(s.projects.Records(), func(p model.Project) bool {
		return !p.Active
	})
}

// Create validates and stores a new project. An empty status defaults to
// development.
func (s *ProjectService) Create(ctx context.Context, p model.Project) (model.Project, error) {
	p = normalizeProject(p)
	if err := validation.Project.Validate(p); err != nil {
		return model.Project{}, err
	}

	created, err := s.projects.Create(ctx, p)
	if err != nil {
		s.logger.Error("creating project failed", "name", p.Name, "error", err)
		return model.Project{}, err
	}
	s.logger.Info("project created", "id", created.ID, "name", created.Name)
	return created, nil
}

// Update validates p and replaces the stored project with id.
func (s *ProjectService) Update(ctx context.Context, id string, p model.Project) (model.Project, error) {
	p = normalizeProject(p)
	if err := validation.Project.Validate(p); err != nil {
		return model.Project{}, err
	}

	updated, err := s.projects.Update(ctx, id, backend.ProjectToWire(p).Patch())
	if err != nil {
		s.logger.Error("updating project failed", "id", id, "error", err)
		return model.Project{}, err
	}
	return updated, nil
}

// SetActive toggles whether the project appears on the landing page.
func (s *ProjectService) SetActive(ctx context.Context, id string, active bool) (model.Project, error) {
	return s.projects.Update(ctx, id, backend.Patch{"is_active": active})
}

// Delete removes the project with id.
func (s *ProjectService) Delete(ctx context.Context, id string) error {
	if err := s.projects.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("project deleted", "id", id)
	return nil
}

func normalizeProject(p model.Project) model.Project {
	p.Name = strings.TrimSpace(p.Name)
	p.Link = strings.TrimSpace(p.Link)
	if p.Status == "" {
		p.Status = model.ProjectDevelopment
	}
	tags := make([]string, 0, len(p.Tags))
	for _, t := range p.Tags {
		if t = strings.TrimSpace(t); t != "" && !slices.Contains(tags, t) {
			tags = append(tags, t)
		}
	}
	p.Tags = tags
	return p
}

// ParseTags splits a comma separated tag list.
func ParseTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return strings.Split(s, ",")
}

// BannerService manages the landing page banners.
type BannerService struct {
	banners *collection.Collection[model.Banner, backend.BannerRow]
	logger  *slog.Logger
}

// NewBannerService creates a BannerService over the banners collection.
func NewBannerService(banners *collection.Collection[model.Banner, backend.BannerRow], logger *slog.Logger) *BannerService {
	return &BannerService{banners: banners, logger: logger}
}

// Load refreshes the cached banners from the backend.
func (s *BannerService) Load(ctx context.Context) error {
	return s.banners.Load(ctx)
}

// IsLoading reports whether the first load is still pending.
func (s *BannerService) IsLoading() bool {
	return s.banners.IsLoading()
}

// List returns every banner, newest first.
func (s *BannerService) List() []model.Banner {
	return s.banners.Records()
}

// Active returns the active banners, newest first.
func (s *BannerService) Active() []model.Banner {
	return slices.DeleteFunc(s.banners.Records(), func(b model.Banner) bool {
		return !b.Active
	})
}

// Get returns the cached banner with id.
func (s *BannerService) Get(id string) (model.Banner, bool) {
	return s.banners.Get(id)
}

// Create validates and stores a new banner.
func (s *BannerService) Create(ctx context.Context, b model.Banner) (model.Banner, error) {
	b.Title = strings.TrimSpace(b.Title)
	b.ImageURL = strings.TrimSpace(b.ImageURL)
	if err := validation.Banner.Validate(b); err != nil {
		return model.Banner{}, err
	}

	created, err := s.banners.Create(ctx, b)
	if err != nil {
		s.logger.Error("creating banner failed", "title", b.Title, "error", err)
		return model.Banner{}, err
	}
	s.logger.Info("banner created", "id", created.ID)
	return created, nil
}

// Update validates b and replaces the stored banner with id.
func (s *BannerService) Update(ctx context.Context, id string, b model.Banner) (model.Banner, error) {
	b.Title = strings.TrimSpace(b.Title)
	b.ImageURL = strings.TrimSpace(b.ImageURL)
	if err := validation.Banner.Validate(b); err != nil {
		return model.Banner{}, err
	}

	updated, err := s.banners.Update(ctx, id, backend.BannerToWire(b).Patch())
	if err != nil {
		return model.Banner{}, fmt.Errorf("banner %s: %w", id, err)
	}
	return updated, nil
}

// SetActive toggles the banner.
func (s *BannerService) SetActive(ctx context.Context, id string, active bool) (model.Banner, error) {
	return s.banners.Update(ctx, id, backend.Patch{"is_active": active})
}

// Delete removes the banner with id.
func (s *BannerService) Delete(ctx context.Context, id string) error {
	return s.banners.Delete(ctx, id)
}
