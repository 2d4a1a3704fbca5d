package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"ai-reportdraft-be/internal/repository/specification"
	"ai-reportdraft-be/internal/repository/unitofwork"
	"ai-reportdraft-be/pkg/orchestrator"
)

// GORM-backed adapters behind the orchestrator's collaborator seams.
// Each call opens its own short-lived unit of work, matching the
// one-request-one-state-roundtrip model.

type gormSessionSource struct {
	uowFactory unitofwork.RepositoryFactory
}

func (s *gormSessionSource) GetSession(ctx context.Context, sessionID uuid.UUID) (*orchestrator.Session, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	found, err := uow.ReportSessionRepository().FindOne(ctx, specification.ByID{ID: sessionID})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, nil
	}
	return &orchestrator.Session{
		ID:         found.Id,
		Guide:      found.Guide,
		Intake:     found.Intake,
		IntakeDone: found.IntakeDone,
	}, nil
}

type gormStateStore struct {
	uowFactory unitofwork.RepositoryFactory
}

func (s *gormStateStore) Load(ctx context.Context, sessionID uuid.UUID) (*orchestrator.State, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	found, err := uow.ReportSessionRepository().FindOne(ctx, specification.ByID{ID: sessionID})
	if err != nil {
		return nil, err
	}
	if found == nil || len(found.State) == 0 {
		return nil, nil
	}

	var state orchestrator.State
	if err := json.Unmarshal(found.State, &state); err != nil {
		return nil, fmt.Errorf("stored state for session %s is corrupt: %w", sessionID, err)
	}
	return &state, nil
}

func (s *gormStateStore) Save(ctx context.Context, state *orchestrator.State) error {
	encoded, err := json.Marshal(state)
	if err != nil {
		return err
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.ReportSessionRepository().UpdateState(ctx, state.SessionID, encoded)
}

type gormDraftStore struct {
	uowFactory unitofwork.RepositoryFactory
}

func (s *gormDraftStore) SaveDraft(ctx context.Context, sessionID uuid.UUID, id orchestrator.SectionID, content string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.SectionRepository().UpdateContent(ctx, sessionID, id.Chapter, id.Section, content)
}

func (s *gormDraftStore) MarkSaved(ctx context.Context, sessionID uuid.UUID, id orchestrator.SectionID) (bool, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.SectionRepository().MarkSaved(ctx, sessionID, id.Chapter, id.Section)
}

type gormIntakeStore struct {
	uowFactory unitofwork.RepositoryFactory
}

func (s *gormIntakeStore) StoreField(ctx context.Context, sessionID uuid.UUID, field, value string) (bool, []string, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.ReportSessionRepository()

	found, err := repo.FindOne(ctx, specification.ByID{ID: sessionID})
	if err != nil {
		return false, nil, err
	}
	if found == nil {
		return false, nil, orchestrator.ErrSessionNotFound
	}

	intake := found.Intake
	if intake == nil {
		intake = map[string]string{}
	}
	intake[field] = value

	missing := orchestrator.MissingIntakeFields(intake)
	done := len(missing) == 0

	if err := repo.UpdateIntake(ctx, sessionID, intake, done); err != nil {
		return false, nil, err
	}
	return done, missing, nil
}
