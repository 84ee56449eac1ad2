// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/dreamcore/site/internal/backend"
	"github.com/dreamcore/site/internal/security"
	"github.com/dreamcore/site/internal/validation"
)

// SiteSettings are the options of the settings panel. AutoApproval and
// EmailNotifications are stored preferences only.
type SiteSettings struct {
	SiteName           string `json:"siteName"`
	AdminEmail         string `json:"adminEmail"`
	AutoApproval       bool   `json:"autoApproval"`
	EmailNotifications bool   `json:"emailNotifications"`
	MaintenanceMode    bool   `json:"maintenanceMode"`
	RecruitmentOpen    bool   `json:"recruitmentOpen"`
}

// DefaultSettings returns the settings used until an admin saves the panel.
func DefaultSettings() SiteSettings {
	return SiteSettings{
		SiteName:           "DreamCore",
		AdminEmail:         "admin@dreamcore.com",
		EmailNotifications: true,
		RecruitmentOpen:    true,
	}
}

// SettingsService reads and saves the site settings and changes the signed
// in admin's password.
type SettingsService struct {
	storage *security.SecureStorage
	auth    backend.Auth
	logger  *slog.Logger

	mu      sync.RWMutex
	current SiteSettings
}

// NewSettingsService creates a SettingsService holding the defaults.
func NewSettingsService(storage *security.SecureStorage, auth backend.Auth, logger *slog.Logger) *SettingsService {
	return &SettingsService{
		storage: storage,
		auth:    auth,
		logger:  logger,
		current: DefaultSettings(),
	}
}

// Restore loads the saved settings, keeping the defaults when none are stored.
func (s *SettingsService) Restore(ctx context.Context) {
	saved := DefaultSettings()
	if !s.storage.Get(ctx, security.KeySettings, &saved) {
		return
	}
	s.mu.Lock()
	s.current = saved
	s.mu.Unlock()
}

// Get returns the current settings.
func (s *SettingsService) Get() SiteSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Save validates and stores the settings.
func (s *SettingsService) Save(ctx context.Context, next SiteSettings) (SiteSettings, error) {
	next.SiteName = strings.TrimSpace(next.SiteName)
	next.AdminEmail = strings.TrimSpace(next.AdminEmail)
	if err := settingsSchema.Validate(next); err != nil {
		return SiteSettings{}, err
	}

	if err := s.storage.Set(ctx, security.KeySettings, next, 0); err != nil {
		return SiteSettings{}, fmt.Errorf("saving settings: %w", err)
	}

	s.mu.Lock()
	prev := s.current
	s.current = next
	s.mu.Unlock()

	if prev.MaintenanceMode != next.MaintenanceMode {
		s.logger.Warn("maintenance mode changed", "enabled", next.MaintenanceMode)
	}
	return next, nil
}

// ChangePassword validates the password form and updates the password of the
// session identified by accessToken.
func (s *SettingsService) ChangePassword(ctx context.Context, accessToken string, in validation.PasswordChangeInput) error {
	if err := validation.PasswordChange.Validate(in); err != nil {
		return err
	}
	if err := s.auth.UpdatePassword(ctx, accessToken, in.NewPassword); err != nil {
		s.logger.Error("changing password failed", "error", err)
		return err
	}
	s.logger.Info("admin password changed")
	return nil
}

var settingsSchema = validation.Schema[SiteSettings]{
	validation.String("siteName", func(s SiteSettings) string { return s.SiteName }, validation.Required(), validation.MaxLen(80)),
	validation.String("adminEmail", func(s SiteSettings) string { return s.AdminEmail }, validation.Email()),
}
