package specification

import (
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// BySessionID filters rows of session-scoped tables.
type BySessionID struct {
	SessionID uuid.UUID
}

func (s BySessionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_id = ?", s.SessionID)
}

// BySectionKey addresses one section row by its composite key.
type BySectionKey struct {
	SessionID  uuid.UUID
	ChapterIdx int
	SectionIdx int
}

func (s BySectionKey) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_id = ? AND chapter_idx = ? AND section_idx = ?",
		s.SessionID, s.ChapterIdx, s.SectionIdx)
}

// ByStatus filters sections by workflow status.
type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

// HasCategories filters memory entries whose JSON categories array
// contains ALL the given values, via Postgres jsonb containment.
type HasCategories struct {
	Categories []string
}

func (s HasCategories) Apply(db *gorm.DB) *gorm.DB {
	categories := s.Categories
	if categories == nil {
		categories = []string{}
	}
	encoded, err := json.Marshal(categories)
	if err != nil {
		return db
	}
	return db.Where("categories @> ?", datatypes.JSON(encoded))
}
