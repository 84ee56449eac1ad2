// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/dreamcore/site/internal/backend"
	"github.com/dreamcore/site/internal/collection"
	"github.com/dreamcore/site/internal/model"
	"github.com/dreamcore/site/internal/validation"
)

// RecruitmentService accepts recruitment applications and lets the admin
// area review them.
type RecruitmentService struct {
	recruitments *collection.Collection[model.Recruitment, backend.RecruitmentRow]
	logger       *slog.Logger
}

// NewRecruitmentService creates a RecruitmentService.
func NewRecruitmentService(recruitments *collection.Collection[model.Recruitment, backend.RecruitmentRow], logger *slog.Logger) *RecruitmentService {
	return &RecruitmentService{recruitments: recruitments, logger: logger}
}

// Load refreshes the cached applications.
func (s *RecruitmentService) Load(ctx context.Context) error {
	return s.recruitments.Load(ctx)
}

// IsLoading reports whether the first load is still pending.
func (s *RecruitmentService) IsLoading() bool {
	return s.recruitments.IsLoading()
}

// List returns the applications, newest first.
func (s *RecruitmentService) List() []model.Recruitment {
	return s.recruitments.Records()
}

// Get returns the cached application with id.
func (s *RecruitmentService) Get(id string) (model.Recruitment, bool) {
	return s.recruitments.Get(id)
}

// Submit validates an application and stores it as pending. A validation
// failure returns *validation.Errors without calling the backend; a backend
// failure returns *SubmitError.
func (s *RecruitmentService) Submit(ctx context.Context, in model.Recruitment) (model.Recruitment, error) {
	in.Email = strings.TrimSpace(in.Email)
	if err := validation.Recruitment.Validate(in); err != nil {
		return model.Recruitment{}, err
	}

	in.ID = ""
	in.Status = model.RecruitmentPending
	rec, err := s.recruitments.Create(ctx, in)
	if err != nil {
		s.logger.Error("storing recruitment application failed", "error", err)
		return model.Recruitment{}, &SubmitError{Form: "recruitment", Err: err}
	}
	s.logger.Info("recruitment application received", "id", rec.ID)
	return rec, nil
}

// SetStatus moves an application to status.
func (s *RecruitmentService) SetStatus(ctx context.Context, id string, status model.RecruitmentStatus) (model.Recruitment, error) {
	if !status.Valid() {
		return model.Recruitment{}, ErrInvalidStatus
	}
	rec, err := s.recruitments.Update(ctx, id, backend.Patch{"status": string(status)})
	if err != nil {
		return model.Recruitment{}, err
	}
	s.logger.Info("recruitment status changed", "id", id, "status", status)
	return rec, nil
}

// Delete removes the application with id.
func (s *RecruitmentService) Delete(ctx context.Context, id string) error {
	return s.recruitments.Delete(ctx, id)
}

// ContactService accepts contact messages and lets the admin area triage them.
type ContactService struct {
	contacts *collection.Collection[model.Contact, backend.ContactRow]
	logger   *slog.Logger
}

// NewContactService creates a ContactService.
func NewContactService(contacts *collection.Collection[model.Contact, backend.ContactRow], logger *slog.Logger) *ContactService {
	return &ContactService{contacts: contacts, logger: logger}
}

// Load refreshes the cached messages.
func (s *ContactService) Load(ctx context.Context) error {
	return s.contacts.Load(ctx)
}

// IsLoading reports whether the first load is still pending.
func (s *ContactService) IsLoading() bool {
	return s.contacts.IsLoading()
}

// List returns the messages, newest first.
func (s *ContactService) List() []model.Contact {
	return s.contacts.Records()
}

// Submit validates a message and stores it as new.
func (s *ContactService) Submit(ctx context.Context, in model.Contact) (model.Contact, error) {
	in.Email = strings.TrimSpace(in.Email)
	if err := validation.Contact.Validate(in); err != nil {
		return model.Contact{}, err
	}

	in.ID = ""
	in.Status = model.ContactNew
	c, err := s.contacts.Create(ctx, in)
	if err != nil {
		s.logger.Error("storing contact message failed", "error", err)
		return model.Contact{}, &SubmitError{Form: "contact", Err: err}
	}
	s.logger.Info("contact message received", "id", c.ID)
	return c, nil
}

// SetStatus marks a message as new, read or replied.
func (s *ContactService) SetStatus(ctx context.Context, id string, status model.ContactStatus) (model.Contact, error) {
	if !status.Valid() {
		return model.Contact{}, ErrInvalidStatus
	}
	return s.contacts.Update(ctx, id, backend.Patch{"status": string(status)})
}

// Delete removes the message with id.
func (s *ContactService) Delete(ctx context.Context, id string) error {
	return s.contacts.Delete(ctx, id)
}
