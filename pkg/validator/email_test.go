package validator

import "testing"

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		email   string
		wantErr bool
	}{
		{"user@example.com", false},
		{"first.last+tag@sub.example.co", false},
		{"  padded@example.com  ", false},
		{"", true},
		{"   ", true},
		{"no-at-sign", true},
		{"user@", true},
		{"@example.com", true},
		{"user@-bad-.com", true},
	}

	for _, tt := range tests {
		err := ValidateEmail(tt.email)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateEmail(%q) error = %v, wantErr %v", tt.email, err, tt.wantErr)
		}
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Ada@Example.COM "); got != "ada@example.com" {
		t.Errorf("NormalizeEmail() = %q, want %q", got, "ada@example.com")
	}
}
