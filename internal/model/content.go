// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Banner is a promotional block shown on the landing page.
type Banner struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	Active      bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ProjectStatus is the development stage of a project.
type ProjectStatus string

// Project statuses.
const (
	ProjectActive      ProjectStatus = "active"
	ProjectDevelopment ProjectStatus = "development"
)

// Valid reports whether s is a known project status.
func (s ProjectStatus) Valid() bool {
	return s == ProjectActive || s == ProjectDevelopment
}

// Project is a studio project displayed in the carousel.
type Project struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Image       string        `json:"image,omitempty"`
	Status      ProjectStatus `json:"status"`
	Link        string        `json:"link,omitempty"`
	Tags        []string      `json:"tags"`
	Order       int           `json:"order"`
	Active      bool          `json:"isActive"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}
