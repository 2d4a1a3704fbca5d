package events

import "time"

// Workflow event type codes. Consumers key on these to route phase
// transitions to websocket subscribers and the external bus.
const (
	TypePhaseChanged    = "WORKFLOW_PHASE_CHANGED"
	TypeSectionDrafted  = "WORKFLOW_SECTION_DRAFTED"
	TypeSectionSaved    = "WORKFLOW_SECTION_SAVED"
	TypeIntakeCompleted = "WORKFLOW_INTAKE_COMPLETED"
)

func NewPhaseChanged(sessionID, fromPhase, toPhase, sectionID string) Event {
	return BaseEvent{
		Type: TypePhaseChanged,
		Data: map[string]interface{}{
			"session_id": sessionID,
			"from_phase": fromPhase,
			"to_phase":   toPhase,
			"section_id": sectionID,
		},
		OccurredAt: time.Now(),
	}
}

func NewSectionDrafted(sessionID, sectionID string) Event {
	return BaseEvent{
		Type: TypeSectionDrafted,
		Data: map[string]interface{}{
			"session_id": sessionID,
			"section_id": sectionID,
		},
		OccurredAt: time.Now(),
	}
}

func NewSectionSaved(sessionID, sectionID string) Event {
	return BaseEvent{
		Type: TypeSectionSaved,
		Data: map[string]interface{}{
			"session_id": sessionID,
			"section_id": sectionID,
		},
		OccurredAt: time.Now(),
	}
}

func NewIntakeCompleted(sessionID string) Event {
	return BaseEvent{
		Type: TypeIntakeCompleted,
		Data: map[string]interface{}{
			"session_id": sessionID,
		},
		OccurredAt: time.Now(),
	}
}
