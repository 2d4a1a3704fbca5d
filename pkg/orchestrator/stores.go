package orchestrator

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"ai-reportdraft-be/pkg/events"
	"ai-reportdraft-be/pkg/guide"
)

// ErrSessionNotFound is returned by ProcessMessage and SelectSection
// when the session id resolves to nothing.
var ErrSessionNotFound = errors.New("session not found")

// ErrUnknownSection is returned by SelectSection when the requested
// section does not exist in the guide tree.
var ErrUnknownSection = errors.New("section not found in guide")

// Session is the immutable per-session view the orchestrator works
// against: the parsed guide plus the intake answers collected so far.
type Session struct {
	ID         uuid.UUID
	Guide      *guide.Tree
	Intake     map[string]string
	IntakeDone bool
}

// SessionSource loads the session view. A nil session with nil error
// means the session does not exist.
type SessionSource interface {
	GetSession(ctx context.Context, sessionID uuid.UUID) (*Session, error)
}

// StateStore persists orchestrator state between requests. Load returns
// (nil, nil) when no state was saved yet; corrupt stored state is
// reported as an error and the caller starts fresh.
type StateStore interface {
	Load(ctx context.Context, sessionID uuid.UUID) (*State, error)
	Save(ctx context.Context, state *State) error
}

// DraftStore is the durable per-section draft record. SaveDraft upserts
// content with status left pending; MarkSaved flips status to saved and
// reports whether a record matched, staying idempotent on repeats.
type DraftStore interface {
	SaveDraft(ctx context.Context, sessionID uuid.UUID, id SectionID, content string) error
	MarkSaved(ctx context.Context, sessionID uuid.UUID, id SectionID) (bool, error)
}

// IntakeStore accumulates intake answers. StoreField reports whether the
// required field set is now complete and which fields are still missing.
type IntakeStore interface {
	StoreField(ctx context.Context, sessionID uuid.UUID, field, value string) (done bool, missing []string, err error)
}

// EventPublisher receives workflow events. Publishing is best-effort
// from the orchestrator's point of view.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// NoopPublisher drops all events.
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, event events.Event) error {
	return nil
}
