package unitofwork

import (
	"context"

	"ai-reportdraft-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ReportSessionRepository() contract.ReportSessionRepository
	SectionRepository() contract.SectionRepository
	MemoryEntryRepository() contract.MemoryEntryRepository
}
