package orchestrator

import (
	"context"

	"github.com/google/uuid"

	"ai-reportdraft-be/pkg/events"
	"ai-reportdraft-be/pkg/llm"
	"ai-reportdraft-be/pkg/memory"
)

// handleReflection closes the loop on a drafted section: record the
// user's reflection, mark the section saved, ask Socratic follow-up
// questions, and hand the phase back to planning. The current section
// stays selected; picking the next one is the caller's move.
func (o *Orchestrator) handleReflection(ctx context.Context, sess *Session, st *State, message string) *Response {
	sectionID := sectionString(st.CurrentSection)

	o.appendMemory(ctx, sess.ID, memory.RoleUser, message, []string{categoryReflection, sectionID})

	info := ResolveSection(sess.Guide, sectionID)
	draft := o.latestDraft(ctx, sess.ID, sectionID)

	completed := false
	if st.CurrentSection != nil {
		matched, err := o.drafts.MarkSaved(ctx, sess.ID, *st.CurrentSection)
		if err != nil {
			o.logger.Printf("orchestrator: mark section %s saved for session %s: %v", sectionID, sess.ID, err)
		} else {
			completed = matched
			if !matched {
				o.logger.Printf("orchestrator: no section record %s for session %s to mark saved", sectionID, sess.ID)
			}
		}
	}

	questions, err := o.llm.Chat(ctx, reflectorMessages(info, draft, message), llm.WithMaxTokens(1000))
	if err != nil {
		o.logger.Printf("orchestrator: reflection reply for session %s: %v", sess.ID, err)
		questions = reflectionFallbackMessage
	}

	o.appendMemory(ctx, sess.ID, memory.RoleAssistant, questions, []string{categoryReflection})

	st.Phase = PhasePlanning

	if completed {
		o.publish(ctx, events.NewSectionSaved(sess.ID.String(), sectionID))
	}

	return &Response{
		Message: questions,
		Metadata: Metadata{
			Phase:            PhasePlanning,
			SectionID:        sectionID,
			SectionCompleted: completed,
		},
	}
}

// latestDraft returns the most recent execution draft stored for the
// section, or "" when none exists.
func (o *Orchestrator) latestDraft(ctx context.Context, sessionID uuid.UUID, sectionID string) string {
	entries, err := o.memory.Search(ctx, sessionID, []string{categoryExecution, sectionID, categoryDraft}, 1)
	if err != nil {
		o.logger.Printf("orchestrator: search draft for session %s: %v", sessionID, err)
		return ""
	}
	if len(entries) == 0 {
		return ""
	}
	return entries[0].Content
}
