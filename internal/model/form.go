// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// RecruitmentStatus is the review state of a recruitment application.
type RecruitmentStatus string

// Recruitment statuses.
const (
	RecruitmentPending  RecruitmentStatus = "pending"
	RecruitmentApproved RecruitmentStatus = "approved"
	RecruitmentRejected RecruitmentStatus = "rejected"
)

// Valid reports whether s is a known recruitment status.
func (s RecruitmentStatus) Valid() bool {
	switch s {
	case RecruitmentPending, RecruitmentApproved, RecruitmentRejected:
		return true
	}
	return false
}

// Recruitment is an application submitted through the public recruitment form.
// Field names follow the Portuguese labels of the form.
type Recruitment struct {
	ID                           string            `json:"id"`
	NomeCompleto                 string            `json:"nomeCompleto"`
	Idade                        string            `json:"idade"`
	Localidade                   string            `json:"localidade"`
	Discord                      string            `json:"discord"`
	Email                        string            `json:"email"`
	AreaInteresse                []string          `json:"areaInteresse"`
	OutroInteresse               string            `json:"outroInteresse,omitempty"`
	Experiencia                  string            `json:"experiencia"`
	Portfolio                    string            `json:"portfolio,omitempty"`
	Motivacao                    string            `json:"motivacao"`
	RelacaoGaming                string            `json:"relacaoGaming"`
	Ferramentas                  string            `json:"ferramentas"`
	ExperienciaColaborativa      string            `json:"experienciaColaborativa"`
	ExperienciaColaborativaTexto string            `json:"experienciaColaborativaTexto,omitempty"`
	HorasSemanais                string            `json:"horasSemanais"`
	ModeloColaboracao            string            `json:"modeloColaboracao"`
	AreaAprender                 string            `json:"areaAprender,omitempty"`
	AceitaPoliticas              bool              `json:"aceitaPoliticas"`
	HabilidadePrincipal          string            `json:"habilidadePrincipal"`
	ComentarioFinal              string            `json:"comentarioFinal,omitempty"`
	Status                       RecruitmentStatus `json:"status"`
	CreatedAt                    time.Time         `json:"createdAt"`
	UpdatedAt                    time.Time         `json:"updatedAt"`
}

// ContactStatus is the handling state of a contact message.
type ContactStatus string

// Contact statuses.
const (
	ContactNew     ContactStatus = "new"
	ContactRead    ContactStatus = "read"
	ContactReplied ContactStatus = "replied"
)

// Valid reports whether s is a known contact status.
func (s ContactStatus) Valid() bool {
	switch s {
	case ContactNew, ContactRead, ContactReplied:
		return true
	}
	return false
}

// Contact is a message sent through the public contact form.
type Contact struct {
	ID        string        `json:"id"`
	Nome      string        `json:"nome"`
	Email     string        `json:"email"`
	Mensagem  string        `json:"mensagem"`
	Status    ContactStatus `json:"status"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}
