package utils

import (
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple latin", "Bishkek", "bishkek"},
		{"two words", "Cholpon Ata", "cholpon-ata"},
		{"cyrillic", "Бишкек", "бишкек"},
		{"cyrillic with spaces", "Чолпон Ата", "чолпон-ата"},
		{"surrounding whitespace", "  Osh  ", "osh"},
		{"punctuation collapses", "Jalal-Abad!!", "jalal-abad"},
		{"digits kept", "Terminal 2", "terminal-2"},
		{"empty", "", ""},
		{"only punctuation", "?!.", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.in); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestIsValidUUID(t *testing.T) {
	if !IsValidUUID(GenerateID()) {
		t.Error("generated id must be a valid uuid")
	}
	if IsValidUUID("not-a-uuid") {
		t.Error("expected invalid uuid to be rejected")
	}
	if IsValidUUID("") {
		t.Error("expected empty string to be rejected")
	}
}
