package orchestrator

import (
	"context"

	"ai-reportdraft-be/pkg/events"
	"ai-reportdraft-be/pkg/llm"
	"ai-reportdraft-be/pkg/memory"
)

// Memory categories used to scope retrieval per phase.
const (
	categoryIntake     = "intake"
	categoryPlanning   = "planning"
	categoryExecution  = "execution"
	categoryReflection = "reflection"
	categoryBullets    = "bullet_points"
	categoryDraft      = "draft"
)

// handleIntake answers one intake turn: classify which field the user's
// message answers from the previous assistant question, store it, and
// ask for the next missing piece. The phase never changes here; intake
// readiness is only reported, section selection moves the phase.
func (o *Orchestrator) handleIntake(ctx context.Context, sess *Session, st *State, message string) *Response {
	previousQuestion := o.lastAssistantMessage(ctx, sess.ID, categoryIntake)
	field := ClassifyIntakeField(previousQuestion)

	done, missing, err := o.intake.StoreField(ctx, sess.ID, field, message)
	if err != nil {
		o.logger.Printf("orchestrator: store intake field %q for session %s: %v", field, sess.ID, err)
		done = sess.IntakeDone
		missing = MissingIntakeFields(sess.Intake)
	}

	o.appendMemory(ctx, sess.ID, memory.RoleUser, message, []string{categoryIntake})

	reply, llmErr := o.llm.Chat(ctx, intakeMessages(sess, message, missing), llm.WithMaxTokens(1000))
	if llmErr != nil {
		o.logger.Printf("orchestrator: intake reply for session %s: %v", sess.ID, llmErr)
		reply = intakeFallbackMessage
	}

	o.appendMemory(ctx, sess.ID, memory.RoleAssistant, reply, []string{categoryIntake})

	if done && !sess.IntakeDone {
		o.publish(ctx, events.NewIntakeCompleted(sess.ID.String()))
	}

	return &Response{
		Message: reply,
		Metadata: Metadata{
			Phase:         PhaseIntake,
			IntakeDone:    done,
			MissingFields: missing,
		},
	}
}
