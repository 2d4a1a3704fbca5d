package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"

	"ai-reportdraft-be/pkg/llm"
	"ai-reportdraft-be/pkg/memory"
)

// bulletPayload is the system memory record planning leaves behind for
// execution to pick up.
type bulletPayload struct {
	SectionID    string   `json:"section_id"`
	BulletPoints []string `json:"bullet_points"`
}

// handlePlanning collects bullet points for the selected section. As
// soon as the message yields at least one bullet they are stored and
// the phase moves to execution; otherwise the assistant keeps asking.
func (o *Orchestrator) handlePlanning(ctx context.Context, sess *Session, st *State, message string) *Response {
	o.appendMemory(ctx, sess.ID, memory.RoleUser, message, []string{categoryPlanning})

	if st.CurrentSection == nil {
		// No section selected yet; selection is driven externally,
		// so just guide the user there
		reply, err := o.llm.Chat(ctx, plannerMessages(sess, nil, message), llm.WithMaxTokens(1000))
		if err != nil {
			o.logger.Printf("orchestrator: planning reply for session %s: %v", sess.ID, err)
			reply = planningFallbackMessage
		}
		o.appendMemory(ctx, sess.ID, memory.RoleAssistant, reply, []string{categoryPlanning})
		return &Response{
			Message:  reply,
			Metadata: Metadata{Phase: PhasePlanning},
		}
	}

	sectionID := st.CurrentSection.String()
	info := ResolveSection(sess.Guide, sectionID)

	bullets := ExtractBullets(message)
	if len(bullets) == 0 {
		reply, err := o.llm.Chat(ctx, plannerMessages(sess, &info, message), llm.WithMaxTokens(1000))
		if err != nil {
			o.logger.Printf("orchestrator: planning reply for session %s: %v", sess.ID, err)
			reply = planningFallbackMessage
		}
		o.appendMemory(ctx, sess.ID, memory.RoleAssistant, reply, []string{categoryPlanning, sectionID})
		return &Response{
			Message:  reply,
			Metadata: Metadata{Phase: PhasePlanning, SectionID: sectionID},
		}
	}

	payload, err := json.Marshal(bulletPayload{SectionID: sectionID, BulletPoints: bullets})
	if err == nil {
		o.appendMemory(ctx, sess.ID, memory.RoleSystem, string(payload), []string{categoryBullets, sectionID})
	} else {
		o.logger.Printf("orchestrator: marshal bullets for session %s: %v", sess.ID, err)
	}

	st.Phase = PhaseExecution

	reply := fmt.Sprintf("Great! I've captured your bullet points for the section '%s'. Let me generate a draft based on these points.", info.SectionTitle)
	o.appendMemory(ctx, sess.ID, memory.RoleAssistant, reply, []string{categoryPlanning, sectionID})

	return &Response{
		Message: reply,
		Metadata: Metadata{
			Phase:        PhaseExecution,
			SectionID:    sectionID,
			BulletPoints: bullets,
		},
	}
}
