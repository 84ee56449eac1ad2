// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package dashboard computes the admin dashboard statistics.
package dashboard

import (
	"cmp"
	"math"
	"slices"
	"time"

	"github.com/dreamcore/site/internal/model"
)

// Months is the number of months covered by the recruitment series.
const Months = 6

// RecentLimit is the number of recent recruitments shown.
const RecentLimit = 5

var monthLabels = [12]string{"jan", "fev", "mar", "abr", "mai", "jun", "jul", "ago", "set", "out", "nov", "dez"}

// Input holds the cached lists the statistics are computed from.
type Input struct {
	Banners      []model.Banner
	Projects     []model.Project
	Recruitments []model.Recruitment
	Contacts     []model.Contact
}

// MonthCount is the number of recruitments received in one month.
type MonthCount struct {
	Month string `json:"month"` // YYYY-MM
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Stats is the dashboard payload. Rates are whole percentages.
type Stats struct {
	TotalBanners      int `json:"totalBanners"`
	ActiveBanners     int `json:"activeBanners"`
	TotalProjects     int `json:"totalProjects"`
	ActiveProjects    int `json:"activeProjects"`
	TotalRecruitments int `json:"totalRecruitments"`
	TotalContacts     int `json:"totalContacts"`

	RecruitmentsByStatus map[model.RecruitmentStatus]int `json:"recruitmentsByStatus"`
	ContactsByStatus     map[model.ContactStatus]int     `json:"contactsByStatus"`

	Monthly []MonthCount        `json:"monthly"`
	Recent  []model.Recruitment `json:"recent"`

	ConversionRate int `json:"conversionRate"`
	ResponseRate   int `json:"responseRate"`
}

// Compute derives the statistics at now.
func Compute(in Input, now time.Time) Stats {
	s := Stats{
		TotalBanners:      len(in.Banners),
		TotalProjects:     len(in.Projects),
		TotalRecruitments: len(in.Recruitments),
		TotalContacts:     len(in.Contacts),
		RecruitmentsByStatus: map[model.RecruitmentStatus]int{
			model.RecruitmentPending:  0,
			model.RecruitmentApproved: 0,
			model.RecruitmentRejected: 0,
		},
		ContactsByStatus: map[model.ContactStatus]int{
			model.ContactNew:     0,
			model.ContactRead:    0,
			model.ContactReplied: 0,
		},
	}

	for _, b := range in.Banners {
		if b.Active {
			s.ActiveBanners++
		}
	}
	for _, p := range in.Projects {
		if p.Active {
			s.ActiveProjects++
		}
	}
	for _, r := range in.Recruitments {
		s.RecruitmentsByStatus[r.Status]++
	}
	for _, c := range in.Contacts {
		s.ContactsByStatus[c.Status]++
	}

	s.Monthly = monthly(in.Recruitments, now)
	s.Recent = recent(in.Recruitments)
	s.ConversionRate = percent(s.RecruitmentsByStatus[model.RecruitmentApproved], s.TotalRecruitments)
	s.ResponseRate = percent(s.ContactsByStatus[model.ContactReplied], s.TotalContacts)
	return s
}

// monthly counts recruitments per calendar month for the last Months
// months, oldest first, including the month of now.
func monthly(recruitments []model.Recruitment, now time.Time) []MonthCount {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -(Months - 1), 0)

	out := make([]MonthCount, Months)
	index := make(map[string]int, Months)
	for i := range out {
		m := first.AddDate(0, i, 0)
		key := m.Format("2006-01")
		out[i] = MonthCount{Month: key, Label: monthLabels[m.Month()-1]}
		index[key] = i
	}
	for _, r := range recruitments {
		if i, ok := index[r.CreatedAt.In(now.Location()).Format("2006-01")]; ok {
			out[i].Count++
		}
	}
	return out
}

func recent(recruitments []model.Recruitment) []model.Recruitment {
	sorted := slices.Clone(recruitments)
	slices.SortStableFunc(sorted, func(a, b model.Recruitment) int {
		return cmp.Compare(b.CreatedAt.UnixNano(), a.CreatedAt.UnixNano())
	})
	if len(sorted) > RecentLimit {
		sorted = sorted[:RecentLimit]
	}
	return sorted
}

func percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}
