// Package orchestrator drives the four-phase report drafting loop:
// intake collects global report metadata, then planning, execution and
// reflection cycle once per section. State lives in durable storage and
// is reloaded per request, so the orchestrator itself is stateless.
package orchestrator

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"ai-reportdraft-be/pkg/events"
	"ai-reportdraft-be/pkg/llm"
	"ai-reportdraft-be/pkg/memory"
	"ai-reportdraft-be/pkg/search"
)

// Metadata accompanies every assistant reply and tells the caller where
// the workflow now stands.
type Metadata struct {
	Phase            Phase    `json:"phase"`
	SectionID        string   `json:"section_id,omitempty"`
	IntakeDone       bool     `json:"intake_done,omitempty"`
	MissingFields    []string `json:"missing_fields,omitempty"`
	BulletPoints     []string `json:"bullet_points,omitempty"`
	GeneratedContent bool     `json:"generated_content,omitempty"`
	SectionCompleted bool     `json:"section_completed,omitempty"`
}

// Response is the result of one advance-workflow turn.
type Response struct {
	Message  string   `json:"message"`
	Metadata Metadata `json:"metadata"`
}

// Orchestrator is the state machine driver. All collaborators are
// injected; none of them is optional except the publisher and logger.
type Orchestrator struct {
	sessions  SessionSource
	states    StateStore
	drafts    DraftStore
	intake    IntakeStore
	memory    memory.Store
	llm       llm.LLMProvider
	search    search.Provider
	publisher EventPublisher
	logger    *log.Logger
}

func New(
	sessions SessionSource,
	states StateStore,
	drafts DraftStore,
	intake IntakeStore,
	memoryStore memory.Store,
	provider llm.LLMProvider,
	searcher search.Provider,
	publisher EventPublisher,
	logger *log.Logger,
) *Orchestrator {
	if searcher == nil {
		searcher = search.NoopProvider{}
	}
	if publisher == nil {
		publisher = NoopPublisher{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Orchestrator{
		sessions:  sessions,
		states:    states,
		drafts:    drafts,
		intake:    intake,
		memory:    memoryStore,
		llm:       provider,
		search:    searcher,
		publisher: publisher,
		logger:    logger,
	}
}

// ProcessMessage advances the workflow by one turn: load session and
// state, dispatch the message to the handler for the current phase,
// persist the resulting state, return the assistant reply.
func (o *Orchestrator) ProcessMessage(ctx context.Context, sessionID uuid.UUID, message string) (*Response, error) {
	sess, err := o.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", sessionID, err)
	}
	if sess == nil {
		return nil, ErrSessionNotFound
	}

	if strings.EqualFold(strings.TrimSpace(message), "force-complete-intake") {
		return o.forceCompleteIntake(ctx, sessionID)
	}

	st := o.loadState(ctx, sessionID)
	prevPhase := st.Phase

	var resp *Response
	switch st.Phase {
	case PhaseIntake:
		resp = o.handleIntake(ctx, sess, st, message)
	case PhasePlanning:
		resp = o.handlePlanning(ctx, sess, st, message)
	case PhaseExecution:
		resp = o.handleExecution(ctx, sess, st, message)
	case PhaseReflection:
		resp = o.handleReflection(ctx, sess, st, message)
	default:
		// loadState only hands out valid phases; reset if it ever lies
		o.logger.Printf("orchestrator: session %s has unknown phase %q, resetting", sessionID, st.Phase)
		st = NewState(sessionID)
		resp = &Response{
			Message:  "Let's start over. Tell me about the report you need to write.",
			Metadata: Metadata{Phase: PhaseIntake},
		}
	}

	if err := o.states.Save(ctx, st); err != nil {
		// Response is already computed; the next request simply will
		// not see this turn's transition
		o.logger.Printf("orchestrator: save state for session %s: %v", sessionID, err)
	}

	if st.Phase != prevPhase {
		o.publish(ctx, events.NewPhaseChanged(sessionID.String(), prevPhase.String(), st.Phase.String(), sectionString(st.CurrentSection)))
	}

	return resp, nil
}

// SelectSection is the external section-selection driver: it points the
// workflow at a section and moves the phase to planning.
func (o *Orchestrator) SelectSection(ctx context.Context, sessionID uuid.UUID, id SectionID) (*State, error) {
	sess, err := o.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", sessionID, err)
	}
	if sess == nil {
		return nil, ErrSessionNotFound
	}
	if sess.Guide == nil || id.Chapter >= len(sess.Guide.Chapters) ||
		id.Section >= len(sess.Guide.Chapters[id.Chapter].Sections) {
		return nil, ErrUnknownSection
	}

	st := o.loadState(ctx, sessionID)
	prevPhase := st.Phase
	st.CurrentSection = &id
	st.Phase = PhasePlanning

	if err := o.states.Save(ctx, st); err != nil {
		return nil, fmt.Errorf("save state for session %s: %w", sessionID, err)
	}

	if st.Phase != prevPhase {
		o.publish(ctx, events.NewPhaseChanged(sessionID.String(), prevPhase.String(), st.Phase.String(), id.String()))
	}
	return st, nil
}

// forceCompleteIntake is a debug escape hatch that skips the intake
// conversation entirely.
func (o *Orchestrator) forceCompleteIntake(ctx context.Context, sessionID uuid.UUID) (*Response, error) {
	st := o.loadState(ctx, sessionID)
	prevPhase := st.Phase
	st.Phase = PhasePlanning

	if err := o.states.Save(ctx, st); err != nil {
		o.logger.Printf("orchestrator: save state for session %s: %v", sessionID, err)
	}
	if st.Phase != prevPhase {
		o.publish(ctx, events.NewPhaseChanged(sessionID.String(), prevPhase.String(), st.Phase.String(), sectionString(st.CurrentSection)))
	}

	return &Response{
		Message:  "Intake phase forced to complete. Transitioning to planning phase.",
		Metadata: Metadata{Phase: PhasePlanning, SectionID: sectionString(st.CurrentSection)},
	}, nil
}

// loadState returns the persisted state or a fresh intake state when
// nothing usable is stored. It never fails the request.
func (o *Orchestrator) loadState(ctx context.Context, sessionID uuid.UUID) *State {
	st, err := o.states.Load(ctx, sessionID)
	if err != nil {
		o.logger.Printf("orchestrator: load state for session %s, starting fresh: %v", sessionID, err)
		return NewState(sessionID)
	}
	if st == nil || !st.Phase.IsValid() {
		return NewState(sessionID)
	}
	return st
}

func (o *Orchestrator) appendMemory(ctx context.Context, sessionID uuid.UUID, role, content string, categories []string) {
	if err := o.memory.Append(ctx, sessionID, role, content, categories); err != nil {
		o.logger.Printf("orchestrator: append %s memory for session %s: %v", categories[0], sessionID, err)
	}
}

// lastAssistantMessage returns the most recent assistant entry under the
// given category, or "" when there is none or the search fails.
func (o *Orchestrator) lastAssistantMessage(ctx context.Context, sessionID uuid.UUID, category string) string {
	entries, err := o.memory.Search(ctx, sessionID, []string{category}, 10)
	if err != nil {
		o.logger.Printf("orchestrator: search %s memory for session %s: %v", category, sessionID, err)
		return ""
	}
	for _, entry := range entries {
		if entry.Role == memory.RoleAssistant {
			return entry.Content
		}
	}
	return ""
}

func (o *Orchestrator) publish(ctx context.Context, event events.Event) {
	if err := o.publisher.Publish(ctx, event); err != nil {
		o.logger.Printf("orchestrator: publish %s: %v", event.EventType(), err)
	}
}

func sectionString(id *SectionID) string {
	if id == nil {
		return ""
	}
	return id.String()
}
