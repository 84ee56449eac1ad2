// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dreamcore/site/internal/backend"
)

// timeLayout is fixed-width so that text ordering matches time ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", s, err)
	}
	return t, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// tableSpec describes how a wire row maps onto a SQLite table. Columns lists
// the writable columns; id, created_at and updated_at are managed by the table.
type tableSpec[R any] struct {
	name    string
	columns []string
	values  func(R) []any
	// scan reads id, columns..., created_at, updated_at in that order.
	scan func(rowScanner) (R, error)
}

// table implements backend.Table on top of database/sql.
type table[R any] struct {
	db   *sql.DB
	spec tableSpec[R]
	now  func() time.Time
}

var _ backend.Table[backend.BannerRow] = (*table[backend.BannerRow])(nil)

func (t *table[R]) selectList() string {
	return "id, " + strings.Join(t.spec.columns, ", ") + ", created_at, updated_at"
}

func (t *table[R]) known(column string) bool {
	return slices.Contains(t.spec.columns, column)
}

func (t *table[R]) List(ctx context.Context, q backend.Query) ([]R, error) {
	var (
		sb   strings.Builder
		args []any
	)
	sb.WriteString("SELECT " + t.selectList() + " FROM " + t.spec.name)

	if len(q.Eq) > 0 {
		keys := sortedKeys(q.Eq)
		conds := make([]string, 0, len(keys))
		for _, k := range keys {
			if !t.known(k) && k != "id" {
				return nil, fmt.Errorf("%s: unknown filter column %q", t.spec.name, k)
			}
			v, err := encodeValue(q.Eq[k])
			if err != nil {
				return nil, err
			}
			conds = append(conds, k+" = ?")
			args = append(args, v)
		}
		sb.WriteString(" WHERE " + strings.Join(conds, " AND "))
	}

	if q.OrderBy != "" {
		if !t.known(q.OrderBy) && q.OrderBy != "created_at" && q.OrderBy != "updated_at" {
			return nil, fmt.Errorf("%s: unknown order column %q", t.spec.name, q.OrderBy)
		}
		sb.WriteString(" ORDER BY " + q.OrderBy)
		if q.Desc {
			sb.WriteString(" DESC")
		}
		// Stable order for rows sharing the sort key.
		sb.WriteString(", rowid")
	}

	rows, err := t.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", t.spec.name, err)
	}
	defer func() { _ = rows.Close() }()

	var out []R
	for rows.Next() {
		r, err := t.spec.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", t.spec.name, err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing %s: %w", t.spec.name, err)
	}
	return out, nil
}

func (t *table[R]) Insert(ctx context.Context, row R) (R, error) {
	var zero R

	now := formatTime(t.now())
	values := t.spec.values(row)
	args := make([]any, 0, len(values)+3)
	args = append(args, uuid.NewString())
	for _, v := range values {
		ev, err := encodeValue(v)
		if err != nil {
			return zero, err
		}
		args = append(args, ev)
	}
	args = append(args, now, now)

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(args)), ", ")
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		t.spec.name, t.selectList(), placeholders, t.selectList())

	stored, err := t.spec.scan(t.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return zero, fmt.Errorf("inserting into %s: %w", t.spec.name, err)
	}
	return stored, nil
}

func (t *table[R]) Update(ctx context.Context, id string, patch backend.Patch) (R, error) {
	var zero R

	keys := sortedKeys(patch)
	sets := make([]string, 0, len(keys)+1)
	args := make([]any, 0, len(keys)+2)
	for _, k := range keys {
		if !t.known(k) {
			return zero, fmt.Errorf("%s: unknown column %q", t.spec.name, k)
		}
		v, err := encodeValue(patch[k])
		if err != nil {
			return zero, err
		}
		sets = append(sets, k+" = ?")
		args = append(args, v)
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, formatTime(t.now()), id)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = ? RETURNING %s",
		t.spec.name, strings.Join(sets, ", "), t.selectList())

	stored, err := t.spec.scan(t.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return zero, backend.ErrNotFound
	}
	if err != nil {
		return zero, fmt.Errorf("updating %s: %w", t.spec.name, err)
	}
	return stored, nil
}

func (t *table[R]) Delete(ctx context.Context, id string) error {
	res, err := t.db.ExecContext(ctx, "DELETE FROM "+t.spec.name+" WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting from %s: %w", t.spec.name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting from %s: %w", t.spec.name, err)
	}
	if n == 0 {
		return backend.ErrNotFound
	}
	return nil
}

// encodeValue converts list values to their JSON text column representation.
func encodeValue(v any) (any, error) {
	switch val := v.(type) {
	case []string:
		if val == nil {
			val = []string{}
		}
		b, err := json.Marshal(val)
		if err != nil {
			return nil, err
		}
		return string(b), nil
	case []any:
		b, err := json.Marshal(val)
		if err != nil {
			return nil, err
		}
		return string(b), nil
	case *string:
		if val == nil {
			return nil, nil
		}
		return *val, nil
	case time.Time:
		return formatTime(val), nil
	case fmt.Stringer:
		return val.String(), nil
	}
	return v, nil
}

func decodeList(s string) ([]string, error) {
	out := []string{}
	if s == "" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, fmt.Errorf("decoding list %q: %w", s, err)
	}
	return out, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
