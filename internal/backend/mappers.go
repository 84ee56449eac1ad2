// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package backend

import (
	"fmt"

	"github.com/dreamcore/site/internal/model"
)

// Each entity has a ToWire/FromWire pair. Nothing outside this file renames
// fields between the domain shape and the backend column names. FromWire
// rejects status values outside the entity's enumeration with ErrInvalidRow.

// BannerToWire converts a banner to its row shape.
func BannerToWire(b model.Banner) BannerRow {
	return BannerRow{
		ID:          b.ID,
		Title:       b.Title,
		Description: b.Description,
		ImageURL:    nullable(b.ImageURL),
		IsActive:    b.Active,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

// BannerFromWire converts a banners row to the domain type.
func BannerFromWire(r BannerRow) (model.Banner, error) {
	return model.Banner{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		ImageURL:    deref(r.ImageURL),
		Active:      r.IsActive,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}, nil
}

// ProjectToWire converts a project to its row shape.
func ProjectToWire(p model.Project) ProjectRow {
	return ProjectRow{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Image:         nullable(p.Image),
		Status:        string(p.Status),
		Link:          nullable(p.Link),
		Tags:          nonNil(p.Tags),
		OrderPosition: p.Order,
		IsActive:      p.Active,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// ProjectFromWire converts a projects row to the domain type.
func ProjectFromWire(r ProjectRow) (model.Project, error) {
	status := model.ProjectStatus(r.Status)
	if !status.Valid() {
		return model.Project{}, invalidStatus(TableProjects, r.ID, r.Status)
	}
	return model.Project{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Image:       deref(r.Image),
		Status:      status,
		Link:        deref(r.Link),
		Tags:        nonNil(r.Tags),
		Order:       r.OrderPosition,
		Active:      r.IsActive,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}, nil
}

// RecruitmentToWire converts a recruitment application to its row shape.
func RecruitmentToWire(r model.Recruitment) RecruitmentRow {
	return RecruitmentRow{
		ID:                           r.ID,
		NomeCompleto:                 r.NomeCompleto,
		Idade:                        r.Idade,
		Localidade:                   r.Localidade,
		Discord:                      r.Discord,
		Email:                        r.Email,
		AreaInteresse:                nonNil(r.AreaInteresse),
		OutroInteresse:               nullable(r.OutroInteresse),
		Experiencia:                  r.Experiencia,
		Portfolio:                    nullable(r.Portfolio),
		Motivacao:                    r.Motivacao,
		RelacaoGaming:                r.RelacaoGaming,
		Ferramentas:                  r.Ferramentas,
		ExperienciaColaborativa:      r.ExperienciaColaborativa,
		ExperienciaColaborativaTexto: nullable(r.ExperienciaColaborativaTexto),
		HorasSemanais:                r.HorasSemanais,
		ModeloColaboracao:            r.ModeloColaboracao,
		AreaAprender:                 nullable(r.AreaAprender),
		AceitaPoliticas:              r.AceitaPoliticas,
		HabilidadePrincipal:          r.HabilidadePrincipal,
		ComentarioFinal:              nullable(r.ComentarioFinal),
		Status:                       string(r.Status),
		CreatedAt:                    r.CreatedAt,
		UpdatedAt:                    r.UpdatedAt,
	}
}

// RecruitmentFromWire converts a recruitments row to the domain type.
func RecruitmentFromWire(r RecruitmentRow) (model.Recruitment, error) {
	status := model.RecruitmentStatus(r.Status)
	if !status.Valid() {
		return model.Recruitment{}, invalidStatus(TableRecruitments, r.ID, r.Status)
	}
	return model.Recruitment{
		ID:                           r.ID,
		NomeCompleto:                 r.NomeCompleto,
		Idade:                        r.Idade,
		Localidade:                   r.Localidade,
		Discord:                      r.Discord,
		Email:                        r.Email,
		AreaInteresse:                nonNil(r.AreaInteresse),
		OutroInteresse:               deref(r.OutroInteresse),
		Experiencia:                  r.Experiencia,
		Portfolio:                    deref(r.Portfolio),
		Motivacao:                    r.Motivacao,
		RelacaoGaming:                r.RelacaoGaming,
		Ferramentas:                  r.Ferramentas,
		ExperienciaColaborativa:      r.ExperienciaColaborativa,
		ExperienciaColaborativaTexto: deref(r.ExperienciaColaborativaTexto),
		HorasSemanais:                r.HorasSemanais,
		ModeloColaboracao:            r.ModeloColaboracao,
		AreaAprender:                 deref(r.AreaAprender),
		AceitaPoliticas:              r.AceitaPoliticas,
		HabilidadePrincipal:          r.HabilidadePrincipal,
		ComentarioFinal:              deref(r.ComentarioFinal),
		Status:                       status,
		CreatedAt:                    r.CreatedAt,
		UpdatedAt:                    r.UpdatedAt,
	}, nil
}

// ContactToWire converts a contact message to its row shape.
func ContactToWire(c model.Contact) ContactRow {
	return ContactRow{
		ID:        c.ID,
		Nome:      c.Nome,
		Email:     c.Email,
		Mensagem:  c.Mensagem,
		Status:    string(c.Status),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// ContactFromWire converts a contacts row to the domain type.
func ContactFromWire(r ContactRow) (model.Contact, error) {
	status := model.ContactStatus(r.Status)
	if !status.Valid() {
		return model.Contact{}, invalidStatus(TableContacts, r.ID, r.Status)
	}
	return model.Contact{
		ID:        r.ID,
		Nome:      r.Nome,
		Email:     r.Email,
		Mensagem:  r.Mensagem,
		Status:    status,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}, nil
}

// AdminUserToWire converts an admin user to its row shape.
func AdminUserToWire(u model.AdminUser) AdminUserRow {
	return AdminUserRow{
		ID:              u.ID,
		Name:            u.Name,
		Email:           u.Email,
		Role:            u.Role,
		Status:          string(u.Status),
		TempPassword:    nullable(u.TempPassword),
		PasswordChanged: u.PasswordChanged,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

// AdminUserFromWire converts an admin_users row to the domain type.
func AdminUserFromWire(r AdminUserRow) (model.AdminUser, error) {
	status := model.AdminUserStatus(r.Status)
	if !status.Valid() {
		return model.AdminUser{}, invalidStatus(TableAdminUsers, r.ID, r.Status)
	}
	return model.AdminUser{
		ID:              r.ID,
		Name:            r.Name,
		Email:           r.Email,
		Role:            r.Role,
		Status:          status,
		TempPassword:    deref(r.TempPassword),
		PasswordChanged: r.PasswordChanged,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}, nil
}

func invalidStatus(table, id, status string) error {
	return fmt.Errorf("%w: %s %s has status %q", ErrInvalidRow, table, id, status)
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
