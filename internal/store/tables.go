// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"time"

	"github.com/dreamcore/site/internal/backend"
)

// scanMeta scans the trailing created_at/updated_at text columns.
type scanMeta struct {
	created, updated string
}

func (m *scanMeta) apply(created, updated *time.Time) error {
	var err error
	if *created, err = parseTime(m.created); err != nil {
		return err
	}
	*updated, err = parseTime(m.updated)
	return err
}

var bannersSpec = tableSpec[backend.BannerRow]{
	name:    backend.TableBanners,
	columns: []string{"title", "description", "image_url", "is_active"},
	values: func(r backend.BannerRow) []any {
		return []any{r.Title, r.Description, r.ImageURL, r.IsActive}
	},
	scan: func(s rowScanner) (backend.BannerRow, error) {
		var (
			r backend.BannerRow
			m scanMeta
		)
		if err := s.Scan(&r.ID, &r.Title, &r.Description, &r.ImageURL, &r.IsActive, &m.created, &m.updated); err != nil {
			return r, err
		}
		return r, m.apply(&r.CreatedAt, &r.UpdatedAt)
	},
}

var projectsSpec = tableSpec[backend.ProjectRow]{
	name:    backend.TableProjects,
	columns: []string{"name", "description", "image", "status", "link", "tags", "order_position", "is_active"},
	values: func(r backend.ProjectRow) []any {
		status := r.Status
		if status == "" {
			status = "active"
		}
		return []any{r.Name, r.Description, r.Image, status, r.Link, r.Tags, r.OrderPosition, r.IsActive}
	},
	scan: func(s rowScanner) (backend.ProjectRow, error) {
		var (
			r    backend.ProjectRow
			m    scanMeta
			tags string
		)
		if err := s.Scan(&r.ID, &r.Name, &r.Description, &r.Image, &r.Status, &r.Link, &tags,
			&r.OrderPosition, &r.IsActive, &m.created, &m.updated); err != nil {
			return r, err
		}
		var err error
		if r.Tags, err = decodeList(tags); err != nil {
			return r, err
		}
		return r, m.apply(&r.CreatedAt, &r.UpdatedAt)
	},
}

var recruitmentsSpec = tableSpec[backend.RecruitmentRow]{
	name: backend.TableRecruitments,
	columns: []string{
		"nome_completo", "idade", "localidade", "discord", "email", "area_interesse",
		"outro_interesse", "experiencia", "portfolio", "motivacao", "relacao_gaming",
		"ferramentas", "experiencia_colaborativa", "experiencia_colaborativa_texto",
		"horas_semanais", "modelo_colaboracao", "area_aprender", "aceita_politicas",
		"habilidade_principal", "comentario_final", "status",
	},
	values: func(r backend.RecruitmentRow) []any {
		status := r.Status
		if status == "" {
			status = "pending"
		}
		return []any{
			r.NomeCompleto, r.Idade, r.Localidade, r.Discord, r.Email, r.AreaInteresse,
			r.OutroInteresse, r.Experiencia, r.Portfolio, r.Motivacao, r.RelacaoGaming,
			r.Ferramentas, r.ExperienciaColaborativa, r.ExperienciaColaborativaTexto,
			r.HorasSemanais, r.ModeloColaboracao, r.AreaAprender, r.AceitaPoliticas,
			r.HabilidadePrincipal, r.ComentarioFinal, status,
		}
	},
	scan: func(s rowScanner) (backend.RecruitmentRow, error) {
		var (
			r     backend.RecruitmentRow
			m     scanMeta
			areas string
		)
		if err := s.Scan(&r.ID,
			&r.NomeCompleto, &r.Idade, &r.Localidade, &r.Discord, &r.Email, &areas,
			&r.OutroInteresse, &r.Experiencia, &r.Portfolio, &r.Motivacao, &r.RelacaoGaming,
			&r.Ferramentas, &r.ExperienciaColaborativa, &r.ExperienciaColaborativaTexto,
			&r.HorasSemanais, &r.ModeloColaboracao, &r.AreaAprender, &r.AceitaPoliticas,
			&r.HabilidadePrincipal, &r.ComentarioFinal, &r.Status,
			&m.created, &m.updated); err != nil {
			return r, err
		}
		var err error
		if r.AreaInteresse, err = decodeList(areas); err != nil {
			return r, err
		}
		return r, m.apply(&r.CreatedAt, &r.UpdatedAt)
	},
}

var contactsSpec = tableSpec[backend.ContactRow]{
	name:    backend.TableContacts,
	columns: []string{"nome", "email", "mensagem", "status"},
	values: func(r backend.ContactRow) []any {
		status := r.Status
		if status == "" {
			status = "new"
		}
		return []any{r.Nome, r.Email, r.Mensagem, status}
	},
	scan: func(s rowScanner) (backend.ContactRow, error) {
		var (
			r backend.ContactRow
			m scanMeta
		)
		if err := s.Scan(&r.ID, &r.Nome, &r.Email, &r.Mensagem, &r.Status, &m.created, &m.updated); err != nil {
			return r, err
		}
		return r, m.apply(&r.CreatedAt, &r.UpdatedAt)
	},
}

var adminUsersSpec = tableSpec[backend.AdminUserRow]{
	name:    backend.TableAdminUsers,
	columns: []string{"name", "email", "role", "status", "temp_password", "password_changed"},
	values: func(r backend.AdminUserRow) []any {
		status := r.Status
		if status == "" {
			status = "pending"
		}
		return []any{r.Name, r.Email, r.Role, status, r.TempPassword, r.PasswordChanged}
	},
	scan: func(s rowScanner) (backend.AdminUserRow, error) {
		var (
			r backend.AdminUserRow
			m scanMeta
		)
		if err := s.Scan(&r.ID, &r.Name, &r.Email, &r.Role, &r.Status, &r.TempPassword,
			&r.PasswordChanged, &m.created, &m.updated); err != nil {
			return r, err
		}
		return r, m.apply(&r.CreatedAt, &r.UpdatedAt)
	},
}
