package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"ai-reportdraft-be/pkg/guide"
)

// ReportSession is the domain view of one drafting session: the parsed
// guide, the intake answers collected so far and the raw orchestrator
// state blob.
type ReportSession struct {
	Id         uuid.UUID
	Guide      *guide.Tree
	Intake     map[string]string
	State      json.RawMessage
	IntakeDone bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
