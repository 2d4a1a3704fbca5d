package orchestrator

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
)

func TestParseSectionID(t *testing.T) {
	tests := []struct {
		input   string
		want    SectionID
		wantErr bool
	}{
		{"0.0", SectionID{0, 0}, false},
		{"2.5", SectionID{2, 5}, false},
		{"10.3", SectionID{10, 3}, false},
		{"1", SectionID{}, true},
		{"1.2.3", SectionID{}, true},
		{"a.b", SectionID{}, true},
		{"1.b", SectionID{}, true},
		{"-1.0", SectionID{}, true},
		{"0.-2", SectionID{}, true},
		{"", SectionID{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSectionID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSectionID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseSectionID(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestSectionIDString(t *testing.T) {
	id := SectionID{Chapter: 3, Section: 7}
	if got := id.String(); got != "3.7" {
		t.Errorf("String() = %q, want %q", got, "3.7")
	}

	// String and ParseSectionID must be inverses
	parsed, err := ParseSectionID(id.String())
	if err != nil {
		t.Fatalf("roundtrip parse failed: %v", err)
	}
	if parsed != id {
		t.Errorf("roundtrip = %v, want %v", parsed, id)
	}
}

func TestPhaseIsValid(t *testing.T) {
	for _, p := range []Phase{PhaseIntake, PhasePlanning, PhaseExecution, PhaseReflection} {
		if !p.IsValid() {
			t.Errorf("phase %q should be valid", p)
		}
	}
	for _, p := range []Phase{"", "done", "INTAKE"} {
		if p.IsValid() {
			t.Errorf("phase %q should be invalid", p)
		}
	}
}

func TestStateJSONRoundtrip(t *testing.T) {
	sessionID := uuid.New()
	section := SectionID{Chapter: 1, Section: 2}
	st := &State{
		SessionID:      sessionID,
		Phase:          PhaseExecution,
		CurrentSection: &section,
	}

	data, err := json.Marshal(st)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got State
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.SessionID != sessionID {
		t.Errorf("SessionID = %v, want %v", got.SessionID, sessionID)
	}
	if got.Phase != PhaseExecution {
		t.Errorf("Phase = %v, want %v", got.Phase, PhaseExecution)
	}
	if got.CurrentSection == nil || *got.CurrentSection != section {
		t.Errorf("CurrentSection = %v, want %v", got.CurrentSection, section)
	}
}

func TestStateJSONRoundtripNoSection(t *testing.T) {
	st := NewState(uuid.New())

	data, err := json.Marshal(st)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got State
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Phase != PhaseIntake {
		t.Errorf("Phase = %v, want intake", got.Phase)
	}
	if got.CurrentSection != nil {
		t.Errorf("CurrentSection = %v, want nil", got.CurrentSection)
	}
}

func TestStateUnmarshalRejectsBadRecords(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad session id", `{"session_id":"nope","phase":"intake","current_section_id":null}`},
		{"unknown phase", `{"session_id":"` + uuid.New().String() + `","phase":"done","current_section_id":null}`},
		{"bad section id", `{"session_id":"` + uuid.New().String() + `","phase":"planning","current_section_id":"x.y"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var st State
			if err := json.Unmarshal([]byte(tt.data), &st); err == nil {
				t.Errorf("unmarshal should fail for %s", tt.name)
			}
		})
	}
}
