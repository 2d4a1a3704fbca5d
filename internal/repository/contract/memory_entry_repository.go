package contract

import (
	"context"

	"github.com/google/uuid"

	"ai-reportdraft-be/internal/entity"
	"ai-reportdraft-be/internal/repository/specification"
)

type MemoryEntryRepository interface {
	Create(ctx context.Context, entry *entity.MemoryEntry) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.MemoryEntry, error)

	// NearestBySession orders the session's embedded entries by cosine
	// distance to the query vector.
	NearestBySession(ctx context.Context, sessionId uuid.UUID, embedding []float32, limit int) ([]*entity.MemoryEntry, error)
}
