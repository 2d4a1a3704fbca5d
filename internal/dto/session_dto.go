package dto

import (
	"time"

	"github.com/google/uuid"

	"ai-reportdraft-be/pkg/guide"
)

type CreateSessionRequest struct {
	// GuideText carries the guide inline when no file is uploaded.
	GuideText string `json:"guide_text"`
}

type CreateSessionResponse struct {
	SessionId    uuid.UUID `json:"session_id"`
	GuideTitle   string    `json:"guide_title"`
	SectionCount int       `json:"section_count"`
}

type SessionStateResponse struct {
	SessionId      uuid.UUID         `json:"session_id"`
	Guide          *guide.Tree       `json:"guide"`
	Intake         map[string]string `json:"intake"`
	IntakeDone     bool              `json:"intake_done"`
	Phase          string            `json:"phase"`
	CurrentSection string            `json:"current_section_id,omitempty"`
	Sections       map[string]string `json:"sections"` // "c.s" -> status
	CreatedAt      time.Time         `json:"created_at"`
}

type IntakeResponseRequest struct {
	Field string `json:"field" validate:"required"`
	Value string `json:"value" validate:"required"`
}

type IntakeResponseResponse struct {
	IntakeDone    bool     `json:"intake_done"`
	MissingFields []string `json:"missing_fields"`
}

type SelectSectionRequest struct {
	ChapterIdx int `json:"chapter_idx" validate:"gte=0"`
	SectionIdx int `json:"section_idx" validate:"gte=0"`
}

type SelectSectionResponse struct {
	Phase          string `json:"phase"`
	CurrentSection string `json:"current_section_id"`
}

type SaveSectionRequest struct {
	ChapterIdx int `json:"chapter_idx" validate:"gte=0"`
	SectionIdx int `json:"section_idx" validate:"gte=0"`
}

type SaveSectionResponse struct {
	Saved bool `json:"saved"`
}
