package model

import (
	"time"

	"github.com/google/uuid"
)

type Section struct {
	SessionId  uuid.UUID `gorm:"type:uuid;primaryKey"`
	ChapterIdx int       `gorm:"primaryKey"`
	SectionIdx int       `gorm:"primaryKey"`
	Status     string    `gorm:"type:varchar(20);not null;default:'pending'"`
	Content    string    `gorm:"type:text"`
	SavedAt    *time.Time
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

func (Section) TableName() string {
	return "sections"
}
