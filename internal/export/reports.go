// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/dreamcore/site/internal/model"
)

// Report subtitles.
const (
	RecruitmentsTitle = "Relatório de Recrutamentos"
	ContactsTitle     = "Relatório de Contatos"
)

// Report kinds, used in file names and by the export command.
const (
	KindRecruitments = "recrutamentos"
	KindContacts     = "contatos"
)

const (
	contactPreviewLength = 60
	detailPreviewLength  = 100
)

// RecruitmentStatusLabel returns the pt-BR label of a recruitment status.
func RecruitmentStatusLabel(s model.RecruitmentStatus) string {
	switch s {
	case model.RecruitmentApproved:
		return "Aprovado"
	case model.RecruitmentRejected:
		return "Rejeitado"
	default:
		return "Pendente"
	}
}

// ContactStatusLabel returns the pt-BR label of a contact status.
func ContactStatusLabel(s model.ContactStatus) string {
	switch s {
	case model.ContactRead:
		return "Lido"
	case model.ContactReplied:
		return "Respondido"
	default:
		return "Novo"
	}
}

// Filename returns the report file name for kind generated at now.
func Filename(kind string, now time.Time) string {
	return fmt.Sprintf("dreamcore-%s-%s.pdf", kind, now.Format("02-01-2006"))
}

// Recruitments renders the recruitment report.
func Recruitments(records []model.Recruitment, now time.Time) (string, []byte, error) {
	data, err := recruitmentsPDF(records, now, true)
	if err != nil {
		return "", nil, err
	}
	return Filename(KindRecruitments, now), data, nil
}

// Contacts renders the contact report.
func Contacts(records []model.Contact, now time.Time) (string, []byte, error) {
	data, err := contactsPDF(records, now, true)
	if err != nil {
		return "", nil, err
	}
	return Filename(KindContacts, now), data, nil
}

func recruitmentsPDF(records []model.Recruitment, now time.Time, compress bool) ([]byte, error) {
	d := newDocument(RecruitmentsTitle, now, len(records), compress)

	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.NomeCompleto,
			r.Email,
			r.Idade,
			r.Localidade,
			strings.Join(r.AreaInteresse, ", "),
			RecruitmentStatusLabel(r.Status),
			dateLabel(r.CreatedAt),
		})
	}
	d.table(
		[]string{"Nome", "Email", "Idade", "Localidade", "Áreas de Interesse", "Status", "Data"},
		[]float64{34, 44, 12, 28, 36, 18, 18},
		rows,
	)

	if len(records) > 0 {
		d.section("Detalhes das Candidaturas")
		for _, r := range records {
			d.entry(r.NomeCompleto, [][2]string{
				{"Email", r.Email},
				{"Discord", r.Discord},
				{"Idade", r.Idade},
				{"Localidade", r.Localidade},
				{"Áreas de Interesse", strings.Join(r.AreaInteresse, ", ")},
				{"Habilidade Principal", r.HabilidadePrincipal},
				{"Horas Semanais", r.HorasSemanais},
				{"Modelo de Colaboração", r.ModeloColaboracao},
				{"Portfólio", orDash(r.Portfolio)},
				{"Motivação", truncate(r.Motivacao, detailPreviewLength)},
				{"Experiência", truncate(r.Experiencia, detailPreviewLength)},
				{"Status", RecruitmentStatusLabel(r.Status)},
				{"Data", dateLabel(r.CreatedAt)},
			})
		}
	}
	return d.bytes()
}

func contactsPDF(records []model.Contact, now time.Time, compress bool) ([]byte, error) {
	d := newDocument(ContactsTitle, now, len(records), compress)

	rows := make([][]string, 0, len(records))
	for _, c := range records {
		rows = append(rows, []string{
			c.Nome,
			c.Email,
			truncate(c.Mensagem, contactPreviewLength),
			ContactStatusLabel(c.Status),
			dateLabel(c.CreatedAt),
		})
	}
	d.table(
		[]string{"Nome", "Email", "Mensagem", "Status", "Data"},
		[]float64{36, 46, 70, 20, 18},
		rows,
	)

	if len(records) > 0 {
		d.section("Mensagens")
		for _, c := range records {
			d.entry(c.Nome, [][2]string{
				{"Email", c.Email},
				{"Status", ContactStatusLabel(c.Status)},
				{"Data", dateLabel(c.CreatedAt)},
				{"Mensagem", c.Mensagem},
			})
		}
	}
	return d.bytes()
}
