package contract

import (
	"context"

	"github.com/google/uuid"

	"ai-reportdraft-be/internal/entity"
	"ai-reportdraft-be/internal/repository/specification"
)

type ReportSessionRepository interface {
	Create(ctx context.Context, session *entity.ReportSession) error
	Update(ctx context.Context, session *entity.ReportSession) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ReportSession, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// UpdateState overwrites only the persisted orchestrator state blob.
	UpdateState(ctx context.Context, id uuid.UUID, state []byte) error

	// UpdateIntake overwrites the intake answers and the done flag.
	UpdateIntake(ctx context.Context, id uuid.UUID, intake map[string]string, done bool) error
}
