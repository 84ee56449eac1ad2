// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"

	"github.com/dreamcore/site/internal/auth"
	"github.com/dreamcore/site/internal/backend"
	"github.com/dreamcore/site/internal/collection"
	"github.com/dreamcore/site/internal/model"
	"github.com/dreamcore/site/internal/security"
	"github.com/dreamcore/site/internal/validation"
)

// AccountProvisioner maintains the login accounts behind admin users. The
// local store implements it; with a hosted backend accounts are managed there.
type AccountProvisioner interface {
	CreateProfile(ctx context.Context, email, name, password string, role model.Role) (backend.User, error)
	ResetPassword(ctx context.Context, email, password string) error
	DeleteProfile(ctx context.Context, email string) error
}

// AdminUserService manages the back-office accounts. The list is mirrored
// into secure storage so it can be shown before the first backend load.
type AdminUserService struct {
	users    *collection.Collection[model.AdminUser, backend.AdminUserRow]
	storage  *security.SecureStorage
	accounts AccountProvisioner
	generate func() (string, error)
	logger   *slog.Logger
}

// AdminUserOption configures an AdminUserService.
type AdminUserOption func(*AdminUserService)

// WithAccountProvisioner keeps login accounts in step with the admin users.
func WithAccountProvisioner(p AccountProvisioner) AdminUserOption {
	return func(s *AdminUserService) { s.accounts = p }
}

// WithPasswordGenerator replaces the temporary password generator.
func WithPasswordGenerator(gen func() (string, error)) AdminUserOption {
	return func(s *AdminUserService) { s.generate = gen }
}

// NewAdminUserService creates an AdminUserService.
func NewAdminUserService(users *collection.Collection[model.AdminUser, backend.AdminUserRow], storage *security.SecureStorage, logger *slog.Logger, opts ...AdminUserOption) *AdminUserService {
	s := &AdminUserService{
		users:    users,
		storage:  storage,
		generate: auth.GenerateTempPassword,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Warm shows the stored snapshot until the first Load completes.
func (s *AdminUserService) Warm(ctx context.Context) {
	var snapshot []model.AdminUser
	if s.storage.Get(ctx, security.KeyAdminUsers, &snapshot) {
		s.users.Warm(slices.DeleteFunc(snapshot, func(u model.AdminUser) bool {
			return !u.Status.Valid()
		}))
	}
}

// Load refreshes the list from the backend and updates the snapshot.
func (s *AdminUserService) Load(ctx context.Context) error {
	if err := s.users.Load(ctx); err != nil {
		return err
	}
	s.persist(ctx)
	return nil
}

// IsLoading reports whether the first load is still pending.
func (s *AdminUserService) IsLoading() bool {
	return s.users.IsLoading()
}

// List returns the admin users, newest first.
func (s *AdminUserService) List() []model.AdminUser {
	return s.users.Records()
}

// Add creates a pending admin user with a fresh temporary password.
func (s *AdminUserService) Add(ctx context.Context, name, email, role string) (model.AdminUser, error) {
	u := model.AdminUser{
		Name:  strings.TrimSpace(name),
		Email: strings.ToLower(strings.TrimSpace(email)),
		Role:  role,
	}
	if err := validation.AdminUser.Validate(u); err != nil {
		return model.AdminUser{}, err
	}

	password, err := s.generate()
	if err != nil {
		return model.AdminUser{}, err
	}
	u.TempPassword = password
	u.Status = model.AdminUserPending
	u.PasswordChanged = false

	created, err := s.users.Create(ctx, u)
	if err != nil {
		s.logger.Error("adding admin user failed", "email", u.Email, "error", err)
		return model.AdminUser{}, err
	}

	if s.accounts != nil {
		_, err := s.accounts.CreateProfile(ctx, u.Email, u.Name, password, AccountRole(role))
		if errors.Is(err, backend.ErrEmailTaken) {
			err = s.accounts.ResetPassword(ctx, u.Email, password)
		}
		if err != nil {
			s.logger.Warn("provisioning login account failed", "email", u.Email, "error", err)
		}
	}

	s.persist(ctx)
	s.logger.Info("admin user added", "id", created.ID, "role", role)
	return created, nil
}

// RegeneratePassword issues a new temporary password. The status is kept.
func (s *AdminUserService) RegeneratePassword(ctx context.Context, id string) (model.AdminUser, error) {
	password, err := s.generate()
	if err != nil {
		return model.AdminUser{}, err
	}

	u, err := s.users.Update(ctx, id, backend.Patch{
		"temp_password":    password,
		"password_changed": false,
	})
	if err != nil {
		return model.AdminUser{}, err
	}

	if s.accounts != nil {
		if err := s.accounts.ResetPassword(ctx, u.Email, password); err != nil {
			s.logger.Warn("resetting login password failed", "email", u.Email, "error", err)
		}
	}

	s.persist(ctx)
	s.logger.Info("admin user password regenerated", "id", id)
	return u, nil
}

// UpdatePassword records that the user chose a password. The temporary
// password is cleared and a pending user becomes active.
func (s *AdminUserService) UpdatePassword(ctx context.Context, id, newPassword string) (model.AdminUser, error) {
	if err := validation.PasswordChange.Validate(validation.PasswordChangeInput{
		NewPassword:     newPassword,
		ConfirmPassword: newPassword,
	}); err != nil {
		return model.AdminUser{}, err
	}

	current, ok := s.users.Get(id)
	if !ok {
		return model.AdminUser{}, backend.ErrNotFound
	}

	patch := backend.Patch{
		"temp_password":    nil,
		"password_changed": true,
	}
	if current.Status == model.AdminUserPending {
		patch["status"] = string(model.AdminUserActive)
	}
	u, err := s.users.Update(ctx, id, patch)
	if err != nil {
		return model.AdminUser{}, err
	}

	if s.accounts != nil {
		if err := s.accounts.ResetPassword(ctx, u.Email, newPassword); err != nil {
			s.logger.Warn("updating login password failed", "email", u.Email, "error", err)
		}
	}

	s.persist(ctx)
	return u, nil
}

// SetStatus activates, suspends or resets an admin user to pending.
func (s *AdminUserService) SetStatus(ctx context.Context, id string, status model.AdminUserStatus) (model.AdminUser, error) {
	if !status.Valid() {
		return model.AdminUser{}, ErrInvalidStatus
	}
	u, err := s.users.Update(ctx, id, backend.Patch{"status": string(status)})
	if err != nil {
		return model.AdminUser{}, err
	}
	s.persist(ctx)
	s.logger.Info("admin user status changed", "id", id, "status", status)
	return u, nil
}

// Delete removes the admin user and its login account.
func (s *AdminUserService) Delete(ctx context.Context, id string) error {
	current, known := s.users.Get(id)
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}

	if s.accounts != nil && known {
		if err := s.accounts.DeleteProfile(ctx, current.Email); err != nil {
			s.logger.Warn("deleting login account failed", "email", current.Email, "error", err)
		}
	}

	s.persist(ctx)
	s.logger.Info("admin user deleted", "id", id)
	return nil
}

// persist mirrors the list into secure storage without temporary passwords.
func (s *AdminUserService) persist(ctx context.Context) {
	users := s.users.Records()
	for i := range users {
		users[i].TempPassword = ""
	}
	if err := s.storage.Set(ctx, security.KeyAdminUsers, users, 0); err != nil {
		s.logger.Warn("saving admin users snapshot failed", "error", err)
	}
}

// AccountRole maps an admin user role label to the login role. Labels other
// than admin and moderator get no admin access.
func AccountRole(label string) model.Role {
	switch r := model.Role(label); r {
	case model.RoleAdmin, model.RoleModerator:
		return r
	default:
		return model.RoleUser
	}
}
