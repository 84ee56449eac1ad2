// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service provides the DreamCore domain operations on top of the
// cached collections: public form submission, the admin managers and the
// settings panel.
package service

import (
	"errors"
	"fmt"
)

// ErrInvalidStatus is returned when a status outside its enumeration is set.
var ErrInvalidStatus = errors.New("service: invalid status")

// SubmitError reports a backend failure while storing a validated
// submission. Validation failures are returned as *validation.Errors instead.
type SubmitError struct {
	Form string
	Err  error
}

func (e *SubmitError) Error() string {
	return fmt.Sprintf("submitting %s: %v", e.Form, e.Err)
}

func (e *SubmitError) Unwrap() error {
	return e.Err
}
