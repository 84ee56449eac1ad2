// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"time"

	"github.com/dreamcore/site/internal/security"
)

// Housekeeping defaults.
const (
	SnapshotExpiration  = 24 * time.Hour
	MaxGlobalLimiterIPs = 10000
)

// Interfaces satisfied by the limiters, the geoip resolver and the local
// auth store.
type (
	FormLimiter interface {
		Cleanup(window time.Duration) int
	}
	LoginLimiter interface {
		Cleanup() int
	}
	IPLimiter interface {
		Prune(maxEntries int) bool
	}
	Reloader interface {
		Reload() error
	}
	SessionPurger interface {
		PurgeExpiredSessions(ctx context.Context) (int64, error)
	}
)

// Deps holds what the housekeeping jobs act on. Nil fields skip their job.
type Deps struct {
	Monitor    *security.Monitor
	Storage    *security.SecureStorage
	Forms      FormLimiter
	FormWindow time.Duration
	Logins     LoginLimiter
	Requests   IPLimiter
	GeoIP      Reloader
	Sessions   SessionPurger
}

// Housekeeping returns the site's periodic jobs for d.
func Housekeeping(d Deps) []Job {
	var jobs []Job

	if d.Monitor != nil {
		jobs = append(jobs, Job{
			Name:        "prune-violations",
			Description: "Drop security violations older than 24 hours",
			Schedule:    "@hourly",
			Run: func(context.Context) error {
				d.Monitor.ClearOlderThan(security.DefaultRetention)
				return nil
			},
		})
	}

	if d.Monitor != nil && d.Storage != nil {
		jobs = append(jobs, Job{
			Name:        "snapshot-violations",
			Description: "Persist the violation log",
			Schedule:    "@every 1m",
			Run: func(ctx context.Context) error {
				return SaveViolations(ctx, d.Storage, d.Monitor)
			},
		})
	}

	if d.Forms != nil || d.Logins != nil || d.Requests != nil {
		jobs = append(jobs, Job{
			Name:        "cleanup-rate-limits",
			Description: "Forget expired rate limit and lockout entries",
			Schedule:    "@every 5m",
			Run: func(context.Context) error {
				if d.Forms != nil {
					d.Forms.Cleanup(d.FormWindow)
				}
				if d.Logins != nil {
					d.Logins.Cleanup()
				}
				if d.Requests != nil {
					d.Requests.Prune(MaxGlobalLimiterIPs)
				}
				return nil
			},
		})
	}

	if d.GeoIP != nil {
		jobs = append(jobs, Job{
			Name:        "reload-geoip",
			Description: "Reopen the GeoIP database when it changes",
			Schedule:    "@daily",
			Run:         func(context.Context) error { return d.GeoIP.Reload() },
		})
	}

	if d.Sessions != nil {
		jobs = append(jobs, Job{
			Name:        "purge-sessions",
			Description: "Delete expired backend auth sessions",
			Schedule:    "@every 30m",
			Run: func(ctx context.Context) error {
				_, err := d.Sessions.PurgeExpiredSessions(ctx)
				return err
			},
		})
	}

	return jobs
}

// SaveViolations stores the monitor's log under security.KeyViolations.
func SaveViolations(ctx context.Context, storage *security.SecureStorage, monitor *security.Monitor) error {
	return storage.Set(ctx, security.KeyViolations, monitor.Violations(""), SnapshotExpiration)
}

// RestoreViolations loads a stored snapshot into the monitor. It reports
// whether one was found.
func RestoreViolations(ctx context.Context, storage *security.SecureStorage, monitor *security.Monitor) bool {
	var snapshot []security.Violation
	if !storage.Get(ctx, security.KeyViolations, &snapshot) {
		return false
	}
	monitor.Restore(snapshot)
	return true
}
