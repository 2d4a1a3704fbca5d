package entity

import (
	"time"

	"github.com/google/uuid"
)

// Section status values.
const (
	SectionStatusPending = "pending"
	SectionStatusSaved   = "saved"
)

type Section struct {
	SessionId  uuid.UUID
	ChapterIdx int
	SectionIdx int
	Status     string
	Content    string
	SavedAt    *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
