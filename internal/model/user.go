// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the DreamCore domain entities: banners, projects,
// recruitment applications, contact messages, admin users and profiles.
package model

import "time"

// Role is the role claim attached to an authenticated profile.
type Role string

// Roles known to the backend.
const (
	RoleAdmin     Role = "admin"
	RoleModerator Role = "moderator"
	RoleUser      Role = "user"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleModerator, RoleUser:
		return true
	}
	return false
}

// CanAdminister reports whether the role may enter the admin area.
func (r Role) CanAdminister() bool {
	return r == RoleAdmin || r == RoleModerator
}

// Profile is the identity record of an authenticated account.
type Profile struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Name      string    `json:"nome"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// IsAdmin returns true if the profile has an admin or moderator role.
func (p *Profile) IsAdmin() bool {
	return p != nil && p.Role.CanAdminister()
}

// AdminUserStatus is the lifecycle state of a managed admin account.
type AdminUserStatus string

// Admin user statuses.
const (
	AdminUserActive    AdminUserStatus = "active"
	AdminUserPending   AdminUserStatus = "pending"
	AdminUserSuspended AdminUserStatus = "suspended"
)

// Valid reports whether s is a known admin user status.
func (s AdminUserStatus) Valid() bool {
	switch s {
	case AdminUserActive, AdminUserPending, AdminUserSuspended:
		return true
	}
	return false
}

// AdminUser is an account managed from the admin users screen.
// TempPassword is only populated until the user sets their own password.
type AdminUser struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Email           string          `json:"email"`
	Role            string          `json:"role"`
	Status          AdminUserStatus `json:"status"`
	TempPassword    string          `json:"tempPassword,omitempty"`
	PasswordChanged bool            `json:"passwordChanged"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}
