package orchestrator

import (
	"reflect"
	"testing"
)

func TestClassifyIntakeField(t *testing.T) {
	tests := []struct {
		name     string
		question string
		want     string
	}{
		{"empty question", "", "notes"},
		{"tagged title", "[TITLE] What should we call your report?", "title"},
		{"tagged report title alias", "[REPORT_TITLE] What is the report called?", "title"},
		{"tagged problem statement", "[PROBLEM_STATEMENT] What problem does the study address?", "problem_statement"},
		{"unmapped tag passes through lowercased", "[FUNDING_SOURCE] Who funds this work?", "funding_source"},
		{"keyword title", "What title would you like to use?", "title"},
		{"keyword department", "Which faculty are you in?", "department"},
		{"keyword objectives", "What is the main goal of the study?", "objectives"},
		{"keyword sample size", "How many participants were involved?", "sample_size"},
		{"keyword deadline", "When is the submission due date?", "deadline"},
		{"ordered table, title beats topic", "What is the name of the subject?", "title"},
		{"unclassifiable", "Tell me more please", "notes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyIntakeField(tt.question); got != tt.want {
				t.Errorf("ClassifyIntakeField(%q) = %q, want %q", tt.question, got, tt.want)
			}
		})
	}
}

func TestMissingIntakeFields(t *testing.T) {
	tests := []struct {
		name   string
		intake map[string]string
		want   []string
	}{
		{
			"all empty",
			map[string]string{},
			[]string{"title", "department", "objectives", "problem_statement", "sample_size"},
		},
		{
			"partially answered",
			map[string]string{"title": "Water Quality Study", "objectives": "Assess contamination"},
			[]string{"department", "problem_statement", "sample_size"},
		},
		{
			"blank value counts as missing",
			map[string]string{"title": "", "department": "Biology", "objectives": "x", "problem_statement": "y", "sample_size": "30"},
			[]string{"title"},
		},
		{
			"complete",
			map[string]string{"title": "a", "department": "b", "objectives": "c", "problem_statement": "d", "sample_size": "e"},
			[]string{},
		},
		{
			"optional fields do not count",
			map[string]string{"title": "a", "department": "b", "objectives": "c", "problem_statement": "d", "sample_size": "e", "notes": "extra"},
			[]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MissingIntakeFields(tt.intake)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("MissingIntakeFields() = %v, want %v", got, tt.want)
			}
		})
	}
}
