// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package supabase

import (
	"context"
	"fmt"
	"sort"

	fastshot "github.com/opus-domini/fast-shot"

	"github.com/dreamcore/site/internal/backend"
)

// table implements backend.Table over PostgREST.
type table[R any] struct {
	c    *Client
	name string
}

func (t *table[R]) path() string {
	return "/rest/v1/" + t.name
}

func (t *table[R]) List(ctx context.Context, q backend.Query) ([]R, error) {
	req := t.c.http.GET(t.path()).
		Context().Set(ctx).
		Header().Add("Authorization", "Bearer "+t.c.bearer(ctx)).
		Query().AddParam("select", "*")

	if q.OrderBy != "" {
		dir := "asc"
		if q.Desc {
			dir = "desc"
		}
		req = req.Query().AddParam("order", q.OrderBy+"."+dir)
	}

	keys := make([]string, 0, len(q.Eq))
	for k := range q.Eq {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		req = req.Query().AddParam(k, "eq."+fmt.Sprint(q.Eq[k]))
	}

	resp, err := req.Send()
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", t.name, err)
	}
	defer resp.Body().Close()

	if err := checkResponse("list "+t.name, resp); err != nil {
		return nil, err
	}

	var rows []R
	if err := resp.Body().AsJSON(&rows); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", t.name, err)
	}
	return rows, nil
}

func (t *table[R]) Insert(ctx context.Context, row R) (R, error) {
	var zero R

	resp, err := t.c.http.POST(t.path()).
		Context().Set(ctx).
		Header().Add("Authorization", "Bearer "+t.c.bearer(ctx)).
		Header().Add("Content-Type", "application/json").
		Header().Add("Prefer", "return=representation").
		Body().AsJSON(row).
		Send()
	if err != nil {
		return zero, fmt.Errorf("inserting into %s: %w", t.name, err)
	}
	defer resp.Body().Close()

	return t.single("insert", resp)
}

func (t *table[R]) Update(ctx context.Context, id string, patch backend.Patch) (R, error) {
	var zero R

	resp, err := t.c.http.PATCH(t.path()).
		Context().Set(ctx).
		Header().Add("Authorization", "Bearer "+t.c.bearer(ctx)).
		Header().Add("Content-Type", "application/json").
		Header().Add("Prefer", "return=representation").
		Query().AddParam("id", "eq."+id).
		Body().AsJSON(patch).
		Send()
	if err != nil {
		return zero, fmt.Errorf("updating %s: %w", t.name, err)
	}
	defer resp.Body().Close()

	return t.single("update", resp)
}

func (t *table[R]) Delete(ctx context.Context, id string) error {
	resp, err := t.c.http.DELETE(t.path()).
		Context().Set(ctx).
		Header().Add("Authorization", "Bearer "+t.c.bearer(ctx)).
		Header().Add("Prefer", "return=representation").
		Query().AddParam("id", "eq."+id).
		Send()
	if err != nil {
		return fmt.Errorf("deleting from %s: %w", t.name, err)
	}
	defer resp.Body().Close()

	if err := checkResponse("delete "+t.name, resp); err != nil {
		return err
	}

	// PostgREST answers 200 with an empty representation when no row matched.
	var rows []map[string]any
	if err := resp.Body().AsJSON(&rows); err != nil {
		return fmt.Errorf("decoding %s: %w", t.name, err)
	}
	if len(rows) == 0 {
		return backend.ErrNotFound
	}
	return nil
}

// single decodes a representation response holding exactly one row.
func (t *table[R]) single(op string, resp *fastshot.Response) (R, error) {
	var zero R

	if err := checkResponse(op+" "+t.name, resp); err != nil {
		return zero, err
	}

	var rows []R
	if err := resp.Body().AsJSON(&rows); err != nil {
		return zero, fmt.Errorf("decoding %s: %w", t.name, err)
	}
	if len(rows) == 0 {
		return zero, backend.ErrNotFound
	}
	return rows[0], nil
}
