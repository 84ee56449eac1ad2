package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/dreamcore/site/internal/model"
)

var generatedAt = time.Date(2025, 3, 7, 14, 30, 0, 0, time.UTC)

func sampleRecruitments() []model.Recruitment {
	return []model.Recruitment{{
		NomeCompleto:  "João Pereira",
		Email:         "joao@example.com",
		Idade:         "27",
		Localidade:    "São Paulo, SP",
		Discord:       "joao#0001",
		AreaInteresse: []string{"Programação", "Arte"},
		Motivacao:     strings.Repeat("i", 150),
		Experiencia:   "Curta",
		Status:        model.RecruitmentApproved,
		CreatedAt:     generatedAt.AddDate(0, 0, -2),
	}}
}

func TestFilenames(t *testing.T) {
	name, data, err := Recruitments(nil, generatedAt)
	if err != nil {
		t.Fatalf("Recruitments: %v", err)
	}
	if name != "dreamcore-recrutamentos-07-03-2025.pdf" {
		t.Errorf("filename = %q", name)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Errorf("output is not a PDF")
	}

	name, _, err = Contacts(nil, generatedAt)
	if err != nil {
		t.Fatalf("Contacts: %v", err)
	}
	if name != "dreamcore-contatos-07-03-2025.pdf" {
		t.Errorf("filename = %q", name)
	}
}

func TestRecruitmentsContent(t *testing.T) {
	data, err := recruitmentsPDF(sampleRecruitments(), generatedAt, false)
	if err != nil {
		t.Fatalf("recruitmentsPDF: %v", err)
	}

	// Core fonts use cp1252, so accented text appears as single bytes.
	for _, want := range []string{
		"DreamCore",
		"Relat\xf3rio de Recrutamentos",
		"Total de registros: 1",
		"Gerado em: 07/03/2025 14:30",
		"Jo\xe3o Pereira",
		"Aprovado",
		strings.Repeat("i", 100) + "...",
	} {
		if !bytes.Contains(data, []byte(want)) {
			t.Errorf("report does not contain %q", want)
		}
	}
	if bytes.Contains(data, []byte(strings.Repeat("i", 101))) {
		t.Error("motivation was not truncated to 100 characters")
	}
}

func TestContactsContent(t *testing.T) {
	msg := strings.Repeat("a", 59) + "bcdef"
	data, err := contactsPDF([]model.Contact{{
		Nome:      "Ana",
		Email:     "ana@example.com",
		Mensagem:  msg,
		Status:    model.ContactReplied,
		CreatedAt: generatedAt,
	}}, generatedAt, false)
	if err != nil {
		t.Fatalf("contactsPDF: %v", err)
	}
	for _, want := range []string{"Relat\xf3rio de Contatos", "Respondido", "07/03/2025"} {
		if !bytes.Contains(data, []byte(want)) {
			t.Errorf("report does not contain %q", want)
		}
	}
}

func TestTextTransliteratesOutsideCP1252(t *testing.T) {
	d := newDocument(ContactsTitle, generatedAt, 0, false)
	if got := d.text("Ação Привет"); got != "A\xe7\xe3o Privet" {
		t.Errorf("text() = %q", got)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"curto", 10, "curto"},
		{"exatamente", 10, "exatamente"},
		{"informação longa", 10, "informação..."},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestStatusLabels(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{RecruitmentStatusLabel(model.RecruitmentPending), "Pendente"},
		{RecruitmentStatusLabel(model.RecruitmentApproved), "Aprovado"},
		{RecruitmentStatusLabel(model.RecruitmentRejected), "Rejeitado"},
		{ContactStatusLabel(model.ContactNew), "Novo"},
		{ContactStatusLabel(model.ContactRead), "Lido"},
		{ContactStatusLabel(model.ContactReplied), "Respondido"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("label = %q, want %q", tt.got, tt.want)
		}
	}
}
