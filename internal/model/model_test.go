package model

import (
	"strings"
	"testing"
)

func TestQuestionnaireValidate(t *testing.T) {
	valid := DefaultAnswers()
	valid.Age = 42
	if err := valid.Validate(); err != nil {
		t.Fatalf("default answers should validate: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*QuestionnaireAnswers)
		field  string
	}{
		{"severity too low", func(a *QuestionnaireAnswers) { a.HeadacheSeverity = 0 }, "HeadacheSeverity"},
		{"severity too high", func(a *QuestionnaireAnswers) { a.HeadacheSeverity = 11 }, "HeadacheSeverity"},
		{"negative age", func(a *QuestionnaireAnswers) { a.Age = -1 }, "Age"},
		{"unknown gender", func(a *QuestionnaireAnswers) { a.Gender = "robot" }, "Gender"},
		{"unknown onset", func(a *QuestionnaireAnswers) { a.HeadacheOnset = "" }, "HeadacheOnset"},
		{"unknown location", func(a *QuestionnaireAnswers) { a.HeadacheLocation = "everywhere" }, "HeadacheLocation"},
		{"bad flag", func(a *QuestionnaireAnswers) { a.FeverPresent = "maybe" }, "FeverPresent"},
	}
	for _, c := range cases {
		a := valid
		c.mutate(&a)
		err := a.Validate()
		if err == nil {
			t.Fatalf("%s: expected validation error", c.name)
		}
		if !strings.Contains(err.Error(), c.field) {
			t.Fatalf("%s: error %q does not name %s", c.name, err, c.field)
		}
	}
}

func TestAnalysisResultValidate(t *testing.T) {
	r := AnalysisResult{
		Analysis: Analysis{
			Category:  CategoryOnset,
			RiskLevel: RiskHigh,
			Urgency:   UrgencyImmediate,
		},
	}
	if err := r.Validate(); err != nil {
		t.Fatalf("expected valid result: %v", err)
	}

	bad := r
	bad.Analysis.Category = "migraine"
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected error for category outside the closed set")
	}
	bad = r
	bad.Analysis.RiskLevel = "extreme"
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected error for unknown risk level")
	}
	bad = r
	bad.Analysis.Urgency = ""
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected error for missing urgency")
	}
}

func TestCategoryLabel(t *testing.T) {
	if got := CategoryOnset.Label(); got != "Sudden Onset" {
		t.Fatalf("Label()=%q", got)
	}
	if got := Category("other").Label(); got != "other" {
		t.Fatalf("unknown category should pass through, got %q", got)
	}
}
