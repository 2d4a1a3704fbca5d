package orchestrator

import (
	"regexp"
	"strings"
)

// fieldNotes is the sentinel intake field used when a question cannot be
// classified.
const fieldNotes = "notes"

var tagPattern = regexp.MustCompile(`\[([A-Z_]+)\]`)

// tagToField maps bracketed question tags onto intake field names.
var tagToField = map[string]string{
	"title":                   "title",
	"report_title":            "title",
	"department":              "department",
	"objectives":              "objectives",
	"problem_statement":       "problem_statement",
	"sample_size":             "sample_size",
	"academic_level":          "academic_level",
	"target_audience":         "target_audience",
	"topic":                   "topic",
	"length":                  "length",
	"deadline":                "deadline",
	"additional_requirements": "additional_requirements",
	"format":                  "format",
	"citations":               "citations",
	"notes":                   "notes",
}

// fieldKeywords is the ordered fallback table; the first field with a
// matching keyword wins, so declaration order is part of the contract.
var fieldKeywords = []struct {
	field    string
	keywords []string
}{
	{"title", []string{"title", "name", "heading"}},
	{"department", []string{"department", "faculty", "school", "discipline"}},
	{"objectives", []string{"objective", "goal", "aim"}},
	{"problem_statement", []string{"problem statement", "problem", "issue", "challenge"}},
	{"sample_size", []string{"sample size", "sample", "participants", "respondents"}},
	{"academic_level", []string{"academic level", "level", "grade", "year"}},
	{"target_audience", []string{"audience", "readers", "who will read", "intended for"}},
	{"topic", []string{"topic", "subject", "about", "focus"}},
	{"length", []string{"length", "pages", "words", "how long"}},
	{"deadline", []string{"deadline", "due date", "when is", "submit"}},
	{"format", []string{"format", "style", "structure", "organized"}},
	{"citations", []string{"citation", "reference", "sources", "bibliography"}},
	{"additional_requirements", []string{"requirements", "additional", "special", "specific"}},
	{"notes", []string{"notes", "anything else", "other", "additional information"}},
}

// ClassifyIntakeField determines which intake field the user's message
// answers, given the assistant question that preceded it. A bracketed
// [TAG] in the question wins; an unmapped tag is returned lower-cased as
// the field itself. Without a tag the question text is matched against
// the ordered keyword table. Unclassifiable questions land in "notes".
func ClassifyIntakeField(previousQuestion string) string {
	if previousQuestion == "" {
		return fieldNotes
	}

	if m := tagPattern.FindStringSubmatch(previousQuestion); m != nil {
		tag := strings.ToLower(m[1])
		if field, ok := tagToField[tag]; ok {
			return field
		}
		return tag
	}

	questionLower := strings.ToLower(previousQuestion)
	for _, entry := range fieldKeywords {
		for _, keyword := range entry.keywords {
			if strings.Contains(questionLower, keyword) {
				return entry.field
			}
		}
	}

	return fieldNotes
}

// RequiredIntakeFields is the field set that must be answered before the
// session is ready for section work.
var RequiredIntakeFields = []string{"title", "department", "objectives", "problem_statement", "sample_size"}

// MissingIntakeFields returns the required fields not yet answered, in
// declaration order.
func MissingIntakeFields(intake map[string]string) []string {
	missing := []string{}
	for _, field := range RequiredIntakeFields {
		if intake[field] == "" {
			missing = append(missing, field)
		}
	}
	return missing
}
