package evaluation

import (
	"math"
	"testing"

	"github.com/talentos-hr/pdi-backend/internal/models"
)

func TestAverageScore(t *testing.T) {
	tests := []struct {
		name     string
		scores   []int
		expected float64
	}{
		{"no scores", nil, 0},
		{"all zero", []int{0, 0, 0}, 0},
		{"single score", []int{4}, 4},
		{"zeros excluded from mean", []int{0, 3, 5, 0}, 4},
		{"fractional mean", []int{3, 4}, 3.5},
		{"full set", []int{1, 2, 3, 4, 5}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eval := &models.Evaluation{}
			for _, s := range tt.scores {
				eval.Scores = append(eval.Scores, models.EvaluationScore{Score: s})
			}
			got := AverageScore(eval)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("AverageScore() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestValidateTemplate(t *testing.T) {
	valid := TemplateInput{
		Name: "Ciclo Anual",
		Questions: []models.CustomQuestion{
			{TitlePT: "Como você avalia o período?", Scope: models.QuestionScopeBoth},
		},
	}
	if err := validateTemplate(valid); err != nil {
		t.Fatalf("validateTemplate() unexpected error: %v", err)
	}

	missingName := valid
	missingName.Name = "   "
	if err := validateTemplate(missingName); err == nil {
		t.Error("validateTemplate() accepted a blank template name")
	}

	missingPT := TemplateInput{
		Name: "Ciclo Anual",
		Questions: []models.CustomQuestion{
			{TitleEN: "How was the period?", Scope: models.QuestionScopeManager},
		},
	}
	if err := validateTemplate(missingPT); err != ErrMissingPTTitle {
		t.Errorf("validateTemplate() error = %v, want ErrMissingPTTitle", err)
	}

	whitespacePT := TemplateInput{
		Name:      "Ciclo Anual",
		Questions: []models.CustomQuestion{{TitlePT: "   "}},
	}
	if err := validateTemplate(whitespacePT); err != ErrMissingPTTitle {
		t.Errorf("validateTemplate() error = %v, want ErrMissingPTTitle", err)
	}

	badScope := TemplateInput{
		Name:      "Ciclo Anual",
		Questions: []models.CustomQuestion{{TitlePT: "Pergunta", Scope: "everyone"}},
	}
	if err := validateTemplate(badScope); err != ErrInvalidScope {
		t.Errorf("validateTemplate() error = %v, want ErrInvalidScope", err)
	}
}
