package orchestrator

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Phase is one stage of the per-section drafting loop.
type Phase string

const (
	PhaseIntake     Phase = "intake"
	PhasePlanning   Phase = "planning"
	PhaseExecution  Phase = "execution"
	PhaseReflection Phase = "reflection"
)

func (p Phase) IsValid() bool {
	switch p {
	case PhaseIntake, PhasePlanning, PhaseExecution, PhaseReflection:
		return true
	}
	return false
}

func (p Phase) String() string {
	return string(p)
}

// SectionID addresses one node of the guide tree by 0-based chapter and
// section index. The wire format is "<chapter>.<section>"; this type owns
// the single parse/format pair for it.
type SectionID struct {
	Chapter int
	Section int
}

func ParseSectionID(s string) (SectionID, error) {
	left, right, ok := strings.Cut(s, ".")
	if !ok {
		return SectionID{}, fmt.Errorf("section id %q: want \"<chapter>.<section>\"", s)
	}
	chapter, err := strconv.Atoi(left)
	if err != nil {
		return SectionID{}, fmt.Errorf("section id %q: chapter index: %w", s, err)
	}
	section, err := strconv.Atoi(right)
	if err != nil {
		return SectionID{}, fmt.Errorf("section id %q: section index: %w", s, err)
	}
	if chapter < 0 || section < 0 {
		return SectionID{}, fmt.Errorf("section id %q: indices must be non-negative", s)
	}
	return SectionID{Chapter: chapter, Section: section}, nil
}

func (id SectionID) String() string {
	return fmt.Sprintf("%d.%d", id.Chapter, id.Section)
}

// State is the per-session control state of the workflow. It is reloaded
// from durable storage on every request and written back after the
// handler runs; the orchestrator itself holds nothing between requests.
type State struct {
	SessionID      uuid.UUID
	Phase          Phase
	CurrentSection *SectionID
}

// NewState returns the initial state for a fresh session.
func NewState(sessionID uuid.UUID) *State {
	return &State{
		SessionID: sessionID,
		Phase:     PhaseIntake,
	}
}

// stateRecord is the one explicit serialization schema for State.
type stateRecord struct {
	SessionID        string  `json:"session_id"`
	Phase            string  `json:"phase"`
	CurrentSectionID *string `json:"current_section_id"`
}

func (s *State) MarshalJSON() ([]byte, error) {
	rec := stateRecord{
		SessionID: s.SessionID.String(),
		Phase:     string(s.Phase),
	}
	if s.CurrentSection != nil {
		formatted := s.CurrentSection.String()
		rec.CurrentSectionID = &formatted
	}
	return json.Marshal(rec)
}

func (s *State) UnmarshalJSON(data []byte) error {
	var rec stateRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}

	sessionID, err := uuid.Parse(rec.SessionID)
	if err != nil {
		return fmt.Errorf("state session_id: %w", err)
	}
	phase := Phase(rec.Phase)
	if !phase.IsValid() {
		return fmt.Errorf("state phase %q is not a workflow phase", rec.Phase)
	}

	s.SessionID = sessionID
	s.Phase = phase
	s.CurrentSection = nil
	if rec.CurrentSectionID != nil {
		id, err := ParseSectionID(*rec.CurrentSectionID)
		if err != nil {
			return fmt.Errorf("state current_section_id: %w", err)
		}
		s.CurrentSection = &id
	}
	return nil
}
