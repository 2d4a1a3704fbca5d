package orchestrator

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"

	"ai-reportdraft-be/pkg/events"
	"ai-reportdraft-be/pkg/llm"
	"ai-reportdraft-be/pkg/memory"
	"ai-reportdraft-be/pkg/search"
)

const searchResultLimit = 5

// handleExecution produces the section draft: stored bullets (or the
// default list), best-effort search results and prior related drafts go
// into one drafting call, and the result is persisted on the section
// record with status left pending.
func (o *Orchestrator) handleExecution(ctx context.Context, sess *Session, st *State, message string) *Response {
	sectionID := sectionString(st.CurrentSection)

	o.appendMemory(ctx, sess.ID, memory.RoleUser, message, []string{categoryExecution, sectionID})

	info := ResolveSection(sess.Guide, sectionID)
	bullets := o.storedBullets(ctx, sess.ID, sectionID)
	results := o.searchReferences(ctx, info, bullets)
	prior := o.priorContext(ctx, sess.ID, info)

	draft, err := o.llm.Chat(ctx, executorMessages(info, bullets, results, prior), llm.WithMaxTokens(2000))
	if err != nil {
		o.logger.Printf("orchestrator: draft section %s for session %s: %v", sectionID, sess.ID, err)
		draft = draftFailureMessage
	}

	if st.CurrentSection != nil {
		if err := o.drafts.SaveDraft(ctx, sess.ID, *st.CurrentSection, draft); err != nil {
			o.logger.Printf("orchestrator: save draft %s for session %s: %v", sectionID, sess.ID, err)
		}
	}

	o.appendMemory(ctx, sess.ID, memory.RoleAssistant, draft, []string{categoryExecution, sectionID, categoryDraft})

	st.Phase = PhaseReflection

	o.publish(ctx, events.NewSectionDrafted(sess.ID.String(), sectionID))

	return &Response{
		Message: draft,
		Metadata: Metadata{
			Phase:            PhaseReflection,
			SectionID:        sectionID,
			GeneratedContent: true,
		},
	}
}

// storedBullets returns the most recent planning bullets for the
// section, or the fixed default list so drafting is never blocked.
func (o *Orchestrator) storedBullets(ctx context.Context, sessionID uuid.UUID, sectionID string) []string {
	entries, err := o.memory.Search(ctx, sessionID, []string{categoryBullets, sectionID}, 1)
	if err != nil {
		o.logger.Printf("orchestrator: search bullets for session %s: %v", sessionID, err)
		return defaultBullets
	}
	for _, entry := range entries {
		var payload bulletPayload
		if err := json.Unmarshal([]byte(entry.Content), &payload); err != nil {
			continue
		}
		if len(payload.BulletPoints) > 0 {
			return payload.BulletPoints
		}
	}
	return defaultBullets
}

// searchReferences queries the search collaborator; failures and empty
// results both leave drafting to proceed without references.
func (o *Orchestrator) searchReferences(ctx context.Context, info SectionInfo, bullets []string) []search.Result {
	query := strings.TrimSpace(info.ChapterTitle + " " + info.SectionTitle)
	if len(bullets) > 0 {
		query += " " + bullets[0]
	}
	results, err := o.search.Search(ctx, query, searchResultLimit)
	if err != nil {
		o.logger.Printf("orchestrator: search references %q: %v", query, err)
		return nil
	}
	return results
}

// priorContext pulls semantically related material drafted earlier in
// the session, best-effort.
func (o *Orchestrator) priorContext(ctx context.Context, sessionID uuid.UUID, info SectionInfo) []string {
	entries, err := o.memory.SemanticSearch(ctx, sessionID, info.SectionTitle, 3)
	if err != nil {
		o.logger.Printf("orchestrator: semantic search for session %s: %v", sessionID, err)
		return nil
	}
	prior := make([]string, 0, len(entries))
	for _, entry := range entries {
		prior = append(prior, entry.Content)
	}
	return prior
}
