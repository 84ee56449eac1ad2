// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package backend

import "time"

// BannerRow is a row of the banners table.
type BannerRow struct {
	ID          string    `json:"id,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ImageURL    *string   `json:"image_url"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at,omitzero"`
	UpdatedAt   time.Time `json:"updated_at,omitzero"`
}

// Patch returns the mutable columns of the row.
func (r BannerRow) Patch() Patch {
	return Patch{
		"title":       r.Title,
		"description": r.Description,
		"image_url":   r.ImageURL,
		"is_active":   r.IsActive,
	}
}

// ProjectRow is a row of the projects table.
type ProjectRow struct {
	ID            string    `json:"id,omitempty"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Image         *string   `json:"image"`
	Status        string    `json:"status"`
	Link          *string   `json:"link"`
	Tags          []string  `json:"tags"`
	OrderPosition int       `json:"order_position"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at,omitzero"`
	UpdatedAt     time.Time `json:"updated_at,omitzero"`
}

// Patch returns the mutable columns of the row.
func (r ProjectRow) Patch() Patch {
	return Patch{
		"name":           r.Name,
		"description":    r.Description,
		"image":          r.Image,
		"status":         r.Status,
		"link":           r.Link,
		"tags":           r.Tags,
		"order_position": r.OrderPosition,
		"is_active":      r.IsActive,
	}
}

// RecruitmentRow is a row of the recruitments table.
type RecruitmentRow struct {
	ID                           string    `json:"id,omitempty"`
	NomeCompleto                 string    `json:"nome_completo"`
	Idade                        string    `json:"idade"`
	Localidade                   string    `json:"localidade"`
	Discord                      string    `json:"discord"`
	Email                        string    `json:"email"`
	AreaInteresse                []string  `json:"area_interesse"`
	OutroInteresse               *string   `json:"outro_interesse"`
	Experiencia                  string    `json:"experiencia"`
	Portfolio                    *string   `json:"portfolio"`
	Motivacao                    string    `json:"motivacao"`
	RelacaoGaming                string    `json:"relacao_gaming"`
	Ferramentas                  string    `json:"ferramentas"`
	ExperienciaColaborativa      string    `json:"experiencia_colaborativa"`
	ExperienciaColaborativaTexto *string   `json:"experiencia_colaborativa_texto"`
	HorasSemanais                string    `json:"horas_semanais"`
	ModeloColaboracao            string    `json:"modelo_colaboracao"`
	AreaAprender                 *string   `json:"area_aprender"`
	AceitaPoliticas              bool      `json:"aceita_politicas"`
	HabilidadePrincipal          string    `json:"habilidade_principal"`
	ComentarioFinal              *string   `json:"comentario_final"`
	Status                       string    `json:"status"`
	CreatedAt                    time.Time `json:"created_at,omitzero"`
	UpdatedAt                    time.Time `json:"updated_at,omitzero"`
}

// ContactRow is a row of the contacts table.
type ContactRow struct {
	ID        string    `json:"id,omitempty"`
	Nome      string    `json:"nome"`
	Email     string    `json:"email"`
	Mensagem  string    `json:"mensagem"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at,omitzero"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}

// AdminUserRow is a row of the admin_users table.
type AdminUserRow struct {
	ID              string    `json:"id,omitempty"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Role            string    `json:"role"`
	Status          string    `json:"status"`
	TempPassword    *string   `json:"temp_password"`
	PasswordChanged bool      `json:"password_changed"`
	CreatedAt       time.Time `json:"created_at,omitzero"`
	UpdatedAt       time.Time `json:"updated_at,omitzero"`
}
