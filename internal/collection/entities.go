// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package collection

import (
	"cmp"

	"github.com/dreamcore/site/internal/backend"
	"github.com/dreamcore/site/internal/model"
)

var newestFirst = backend.Query{OrderBy: "created_at", Desc: true}

// Banners returns the banners collection, newest first.
func Banners(b backend.Backend) *Collection[model.Banner, backend.BannerRow] {
	return New(Options[model.Banner, backend.BannerRow]{
		Table:    b.Banners(),
		ToWire:   backend.BannerToWire,
		FromWire: backend.BannerFromWire,
		ID:       func(r model.Banner) string { return r.ID },
		Query:    newestFirst,
	})
}

// Projects returns the projects collection ordered by display order.
func Projects(b backend.Backend) *Collection[model.Project, backend.ProjectRow] {
	return New(Options[model.Project, backend.ProjectRow]{
		Table:    b.Projects(),
		ToWire:   backend.ProjectToWire,
		FromWire: backend.ProjectFromWire,
		ID:       func(r model.Project) string { return r.ID },
		Query:    backend.Query{OrderBy: "order_position"},
		Compare:  func(a, b model.Project) int { return cmp.Compare(a.Order, b.Order) },
	})
}

// Recruitments returns the recruitment applications collection, newest first.
func Recruitments(b backend.Backend) *Collection[model.Recruitment, backend.RecruitmentRow] {
	return New(Options[model.Recruitment, backend.RecruitmentRow]{
		Table:    b.Recruitments(),
		ToWire:   backend.RecruitmentToWire,
		FromWire: backend.RecruitmentFromWire,
		ID:       func(r model.Recruitment) string { return r.ID },
		Query:    newestFirst,
	})
}

// Contacts returns the contact messages collection, newest first.
func Contacts(b backend.Backend) *Collection[model.Contact, backend.ContactRow] {
	return New(Options[model.Contact, backend.ContactRow]{
		Table:    b.Contacts(),
		ToWire:   backend.ContactToWire,
		FromWire: backend.ContactFromWire,
		ID:       func(r model.Contact) string { return r.ID },
		Query:    newestFirst,
	})
}

// AdminUsers returns the managed admin accounts collection, newest first.
func AdminUsers(b backend.Backend) *Collection[model.AdminUser, backend.AdminUserRow] {
	return New(Options[model.AdminUser, backend.AdminUserRow]{
		Table:    b.AdminUsers(),
		ToWire:   backend.AdminUserToWire,
		FromWire: backend.AdminUserFromWire,
		ID:       func(r model.AdminUser) string { return r.ID },
		Query:    newestFirst,
	})
}
