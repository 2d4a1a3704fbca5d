package entity

import (
	"time"

	"github.com/google/uuid"
)

type MemoryEntry struct {
	Id         uuid.UUID
	SessionId  uuid.UUID
	Role       string
	Content    string
	Categories []string
	Embedding  []float32
	CreatedAt  time.Time
}
