package auth

import (
	"strings"
	"testing"
)

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("changeme")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}

	tests := []struct {
		name     string
		password string
		want     bool
	}{
		{"correct", "changeme", true},
		{"wrong", "wrongpassword", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CheckPassword(tt.password, hash)
			if err != nil {
				t.Fatalf("CheckPassword error: %v", err)
			}
			if got != tt.want {
				t.Errorf("CheckPassword(%q) = %v, want %v", tt.password, got, tt.want)
			}
		})
	}
}

func TestCheckPassword_ForeignParameters(t *testing.T) {
	// Hash for "changeme" created with m=65536,t=1,p=4.
	legacy := "$argon2id$v=19$m=65536,t=1,p=4$mucMvOaS6lZ2LWNS1OEFKw$UYEWv8cvCOO6l2zGeqv3JPVe1nyy0x9GXBfYEuDM544"

	valid, err := CheckPassword("changeme", legacy)
	if err != nil {
		t.Fatalf("CheckPassword error: %v", err)
	}
	if !valid {
		t.Error("legacy hash rejected correct password")
	}
	if !NeedsRehash(legacy) {
		t.Error("NeedsRehash(legacy) = false, want true")
	}
}

func TestCheckPassword_InvalidHash(t *testing.T) {
	for _, hash := range []string{"", "plain", "$bcrypt$v=1$x$y$z"} {
		if _, err := CheckPassword("x", hash); err == nil {
			t.Errorf("CheckPassword(%q) expected error", hash)
		}
	}
}

func TestNeedsRehash_Current(t *testing.T) {
	hash, _ := HashPassword("secret")
	if NeedsRehash(hash) {
		t.Error("fresh hash should not need rehash")
	}
}

func TestGenerateTempPassword(t *testing.T) {
	seen := make(map[string]bool)
	for range 50 {
		pw, err := GenerateTempPassword()
		if err != nil {
			t.Fatalf("GenerateTempPassword error: %v", err)
		}
		if len(pw) != TempPasswordLength {
			t.Errorf("len = %d, want %d", len(pw), TempPasswordLength)
		}
		for _, c := range pw {
			if !strings.ContainsRune(TempPasswordAlphabet, c) {
				t.Errorf("password %q contains %q outside the alphabet", pw, c)
			}
		}
		seen[pw] = true
	}
	if len(seen) < 50 {
		t.Errorf("expected 50 distinct passwords, got %d", len(seen))
	}
}

func TestNewToken(t *testing.T) {
	tok, err := NewToken(32)
	if err != nil {
		t.Fatalf("NewToken error: %v", err)
	}
	if len(tok) != 64 {
		t.Errorf("len = %d, want 64", len(tok))
	}
	if strings.ToLower(tok) != tok {
		t.Errorf("token %q should be lowercase hex", tok)
	}
}
