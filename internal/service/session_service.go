package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"ai-reportdraft-be/internal/dto"
	"ai-reportdraft-be/internal/entity"
	"ai-reportdraft-be/internal/pkg/logger"
	"ai-reportdraft-be/internal/repository/specification"
	"ai-reportdraft-be/internal/repository/unitofwork"
	"ai-reportdraft-be/pkg/events"
	"ai-reportdraft-be/pkg/guide"
	"ai-reportdraft-be/pkg/memory"
	"ai-reportdraft-be/pkg/orchestrator"
)

type ISessionService interface {
	CreateSession(ctx context.Context, guideText string) (*dto.CreateSessionResponse, error)
	GetState(ctx context.Context, id uuid.UUID) (*dto.SessionStateResponse, error)
	UpdateIntake(ctx context.Context, id uuid.UUID, req *dto.IntakeResponseRequest) (*dto.IntakeResponseResponse, error)
	SaveSection(ctx context.Context, id uuid.UUID, req *dto.SaveSectionRequest) (*dto.SaveSectionResponse, error)
}

type sessionService struct {
	uowFactory       unitofwork.RepositoryFactory
	guideParser      *guide.Parser
	memoryStore      memory.Store
	publisherService IPublisherService
	logger           logger.ILogger
}

func NewSessionService(
	uowFactory unitofwork.RepositoryFactory,
	guideParser *guide.Parser,
	memoryStore memory.Store,
	publisherService IPublisherService,
	log logger.ILogger,
) ISessionService {
	return &sessionService{
		uowFactory:       uowFactory,
		guideParser:      guideParser,
		memoryStore:      memoryStore,
		publisherService: publisherService,
		logger:           log,
	}
}

// CreateSession parses the guide text into a structured tree, persists
// the session and seeds one pending section row per guide section.
func (s *sessionService) CreateSession(ctx context.Context, guideText string) (*dto.CreateSessionResponse, error) {
	tree, err := s.guideParser.ParseGuide(ctx, guideText)
	if err != nil {
		return nil, err
	}

	session := entity.ReportSession{
		Id:        uuid.New(),
		Guide:     tree,
		Intake:    map[string]string{},
		CreatedAt: time.Now(),
	}

	sections := make([]*entity.Section, 0, tree.SectionCount())
	for ci, chapter := range tree.Chapters {
		for si := range chapter.Sections {
			sections = append(sections, &entity.Section{
				SessionId:  session.Id,
				ChapterIdx: ci,
				SectionIdx: si,
				Status:     entity.SectionStatusPending,
			})
		}
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.ReportSessionRepository().Create(ctx, &session); err != nil {
		return nil, err
	}
	if err := uow.SectionRepository().CreateBulk(ctx, sections); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	// Seed memory with the guide outline so every later phase can
	// recall the structure without reparsing. Soft failure.
	if outline, err := json.Marshal(tree); err == nil {
		if err := s.memoryStore.Append(ctx, session.Id, memory.RoleSystem, string(outline), []string{"guide"}); err != nil {
			s.logger.Warn("session_service", "failed to seed guide memory", map[string]interface{}{
				"session_id": session.Id.String(),
				"error":      err.Error(),
			})
		}
	}

	s.logger.Info("session_service", "session created", map[string]interface{}{
		"session_id":    session.Id.String(),
		"section_count": len(sections),
	})

	return &dto.CreateSessionResponse{
		SessionId:    session.Id,
		GuideTitle:   tree.Title,
		SectionCount: len(sections),
	}, nil
}

func (s *sessionService) GetState(ctx context.Context, id uuid.UUID) (*dto.SessionStateResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.ReportSessionRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, orchestrator.ErrSessionNotFound
	}

	sections, err := uow.SectionRepository().FindAll(ctx, specification.BySessionID{SessionID: id})
	if err != nil {
		return nil, err
	}
	statuses := make(map[string]string, len(sections))
	for _, section := range sections {
		key := fmt.Sprintf("%d.%d", section.ChapterIdx, section.SectionIdx)
		statuses[key] = section.Status
	}

	phase := orchestrator.PhaseIntake
	currentSection := ""
	if len(session.State) > 0 {
		var st orchestrator.State
		if err := json.Unmarshal(session.State, &st); err == nil {
			phase = st.Phase
			if st.CurrentSection != nil {
				currentSection = st.CurrentSection.String()
			}
		}
	}

	return &dto.SessionStateResponse{
		SessionId:      session.Id,
		Guide:          session.Guide,
		Intake:         session.Intake,
		IntakeDone:     session.IntakeDone,
		Phase:          phase.String(),
		CurrentSection: currentSection,
		Sections:       statuses,
		CreatedAt:      session.CreatedAt,
	}, nil
}

// UpdateIntake stores one intake answer directly, bypassing the chat
// classifier. Used by structured intake forms.
func (s *sessionService) UpdateIntake(ctx context.Context, id uuid.UUID, req *dto.IntakeResponseRequest) (*dto.IntakeResponseResponse, error) {
	store := &gormIntakeStore{uowFactory: s.uowFactory}
	done, missing, err := store.StoreField(ctx, id, req.Field, req.Value)
	if err != nil {
		return nil, err
	}

	if done {
		s.publishEvent(ctx, events.NewIntakeCompleted(id.String()))
	}

	return &dto.IntakeResponseResponse{
		IntakeDone:    done,
		MissingFields: missing,
	}, nil
}

func (s *sessionService) SaveSection(ctx context.Context, id uuid.UUID, req *dto.SaveSectionRequest) (*dto.SaveSectionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	saved, err := uow.SectionRepository().MarkSaved(ctx, id, req.ChapterIdx, req.SectionIdx)
	if err != nil {
		return nil, err
	}
	if !saved {
		return nil, orchestrator.ErrUnknownSection
	}

	sectionID := orchestrator.SectionID{Chapter: req.ChapterIdx, Section: req.SectionIdx}
	s.publishEvent(ctx, events.NewSectionSaved(id.String(), sectionID.String()))

	return &dto.SaveSectionResponse{Saved: true}, nil
}

func (s *sessionService) publishEvent(ctx context.Context, event events.Event) {
	if s.publisherService == nil {
		return
	}
	if err := s.publisherService.Publish(ctx, event); err != nil {
		s.logger.Warn("session_service", "failed to publish event", map[string]interface{}{
			"type":  event.EventType(),
			"error": err.Error(),
		})
	}
}
