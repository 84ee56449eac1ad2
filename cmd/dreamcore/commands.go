// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/dreamcore/site/internal/collection"
	"github.com/dreamcore/site/internal/content"
	"github.com/dreamcore/site/internal/export"
	"github.com/dreamcore/site/internal/security"
	"github.com/dreamcore/site/internal/store"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.close()

			v, err := store.MigrationVersion(a.db)
			if err != nil {
				return fmt.Errorf("reading migration version: %w", err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "database at migration %d\n", v)
			return nil
		},
	}
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the admin profile and demo content",
		Long: `Creates the admin profile from DREAMCORE_ADMIN_EMAIL and
DREAMCORE_ADMIN_PASSWORD (a password is generated and logged when unset),
then inserts the fallback projects and a welcome banner into empty tables.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.close()

			if a.cfg.UseSupabase() {
				return errors.New("seed only applies to the local backend")
			}

			site, err := content.Load(a.cfg.ContentFile, security.NewSanitizer())
			if err != nil {
				return fmt.Errorf("loading site content: %w", err)
			}
			return store.Seed(cmd.Context(), a.store, store.SeedOptions{
				AdminEmail:    a.cfg.AdminEmail,
				AdminPassword: a.cfg.AdminPassword,
				Projects:      site.FallbackProjects(),
				Banner:        site.DemoBanner(),
			})
		},
	}
}

func newExportCmd() *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:       "export " + export.KindRecruitments + "|" + export.KindContacts,
		Short:     "Write a PDF report of recruitment applications or contact messages",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{export.KindRecruitments, export.KindContacts},
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.close()

			name, data, err := buildReport(cmd.Context(), a, args[0], time.Now())
			if err != nil {
				return err
			}

			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("creating output directory: %w", err)
			}
			path := filepath.Join(outDir, name)
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return fmt.Errorf("writing report: %w", err)
			}
			slog.Info("report written", "path", path, "bytes", len(data))
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "directory the PDF is written to")
	return cmd
}

// buildReport loads the records of kind from the backend and renders them.
func buildReport(ctx context.Context, a *app, kind string, now time.Time) (string, []byte, error) {
	switch kind {
	case export.KindRecruitments:
		c := collection.Recruitments(a.backend)
		if err := c.Load(ctx); err != nil {
			return "", nil, fmt.Errorf("loading recruitments: %w", err)
		}
		return export.Recruitments(c.Records(), now)
	case export.KindContacts:
		c := collection.Contacts(a.backend)
		if err := c.Load(ctx); err != nil {
			return "", nil, fmt.Errorf("loading contacts: %w", err)
		}
		return export.Contacts(c.Records(), now)
	default:
		return "", nil, fmt.Errorf("unknown report %q", kind)
	}
}
