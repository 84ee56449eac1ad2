package render

import (
	"testing"
	"time"

	"github.com/dreamcore/site/internal/model"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"curto", 10, "curto"},
		{"exatamente", 10, "exatamente"},
		{"programação gamer", 11, "programação…"},
		{"ação ", 4, "ação…"},
		{"abc def", 4, "abc…"},
		{"qualquer", 0, "qualquer"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestFormatDate(t *testing.T) {
	ts := time.Date(2025, 1, 9, 14, 5, 0, 0, time.UTC)
	if got := formatDate(ts); got != "09/01/2025" {
		t.Errorf("formatDate() = %q", got)
	}
	if got := formatDateTime(ts); got != "09/01/2025 14:05" {
		t.Errorf("formatDateTime() = %q", got)
	}
	if got := formatDate(time.Time{}); got != "-" {
		t.Errorf("formatDate(zero) = %q, want -", got)
	}
}

func TestStatusClass(t *testing.T) {
	tests := []struct {
		status any
		want   string
	}{
		{model.RecruitmentApproved, "badge badge-success"},
		{model.RecruitmentRejected, "badge badge-danger"},
		{model.RecruitmentPending, "badge badge-warning"},
		{model.ContactNew, "badge badge-info"},
		{model.ContactReplied, "badge badge-success"},
		{model.ProjectDevelopment, "badge badge-warning"},
		{"unknown", "badge"},
	}
	for _, tt := range tests {
		if got := statusClass(tt.status); got != tt.want {
			t.Errorf("statusClass(%v) = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestDict(t *testing.T) {
	m, err := dict("a", 1, "b", "two")
	if err != nil {
		t.Fatalf("dict() error = %v", err)
	}
	if m["a"] != 1 || m["b"] != "two" {
		t.Errorf("dict() = %v", m)
	}
	if _, err := dict("odd"); err == nil {
		t.Error("dict(odd) should fail")
	}
	if _, err := dict(1, 2); err == nil {
		t.Error("dict(non-string key) should fail")
	}
}
