package memory

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Conversation roles stored alongside each entry.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Entry is one appended conversation record. Entries are immutable once
// written; the store is an append-only log per session.
type Entry struct {
	ID         uuid.UUID
	SessionID  uuid.UUID
	Role       string
	Content    string
	Categories []string
	CreatedAt  time.Time
}

// Store is the categorized conversation memory the workflow phases read
// and write. Search results come back most recent first.
type Store interface {
	// Append records a new entry. Callers treat failures as soft: the
	// workflow keeps going without the memory write.
	Append(ctx context.Context, sessionID uuid.UUID, role, content string, categories []string) error

	// Search returns entries carrying ALL the given categories,
	// most recent first, up to limit.
	Search(ctx context.Context, sessionID uuid.UUID, categories []string, limit int) ([]Entry, error)

	// SemanticSearch returns the entries closest to the query by
	// embedding distance. Implementations without an embedding
	// provider return an empty slice.
	SemanticSearch(ctx context.Context, sessionID uuid.UUID, query string, limit int) ([]Entry, error)
}
