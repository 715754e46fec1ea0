package slug

import (
	"strings"
	"testing"
)

func TestMake(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple lowercase", "leadership", "leadership"},
		{"uppercase folded", "Leadership", "leadership"},
		{"accents folded", "Liderança", "lideranca"},
		{"accents and spaces", "Gestão de Pessoas", "gestao-de-pessoas"},
		{"cedilla and tilde", "Comunicação não-violenta", "comunicacao-nao-violenta"},
		{"punctuation collapsed", "Feedback  --  1:1!", "feedback-1-1"},
		{"leading trailing trimmed", "  ***Inovação***  ", "inovacao"},
		{"digits kept", "Scrum 101", "scrum-101"},
		{"empty input", "", ""},
		{"only symbols", "!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Make(tt.input)
			if got != tt.expected {
				t.Errorf("Make(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestMakeProducesOnlySafeCharacters(t *testing.T) {
	inputs := []string{
		"Água & Óleo", "Ética profissional", "São Paulo / Rio",
		"100% Alinhado", "Caçador de Nuvens", "çÇáÁ",
	}

	for _, input := range inputs {
		got := Make(input)
		if strings.HasPrefix(got, "-") || strings.HasSuffix(got, "-") {
			t.Errorf("Make(%q) = %q has a leading or trailing hyphen", input, got)
		}
		for _, r := range got {
			valid := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-'
			if !valid {
				t.Errorf("Make(%q) = %q contains invalid character %q", input, got, r)
			}
		}
		if strings.Contains(got, "--") {
			t.Errorf("Make(%q) = %q contains consecutive hyphens", input, got)
		}
	}
}
