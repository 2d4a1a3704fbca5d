package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ReportSession struct {
	Id         uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	GuideJson  datatypes.JSON `gorm:"not null"`
	IntakeJson datatypes.JSON `gorm:"not null;default:'{}'"`
	StateJson  datatypes.JSON
	IntakeDone bool      `gorm:"not null;default:false"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

func (ReportSession) TableName() string {
	return "report_sessions"
}
