package contract

import (
	"context"

	"github.com/google/uuid"

	"ai-reportdraft-be/internal/entity"
	"ai-reportdraft-be/internal/repository/specification"
)

type SectionRepository interface {
	CreateBulk(ctx context.Context, sections []*entity.Section) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Section, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Section, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// UpdateContent sets the draft content, leaving status untouched.
	UpdateContent(ctx context.Context, sessionId uuid.UUID, chapterIdx, sectionIdx int, content string) error

	// MarkSaved flips status to saved and stamps saved_at. Reports
	// whether a row matched; repeating the call is harmless.
	MarkSaved(ctx context.Context, sessionId uuid.UUID, chapterIdx, sectionIdx int) (bool, error)
}
