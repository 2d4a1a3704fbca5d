package service

import (
	"context"
	"log"

	"github.com/google/uuid"

	"ai-reportdraft-be/internal/dto"
	"ai-reportdraft-be/internal/repository/unitofwork"
	"ai-reportdraft-be/pkg/llm"
	"ai-reportdraft-be/pkg/memory"
	"ai-reportdraft-be/pkg/orchestrator"
	"ai-reportdraft-be/pkg/search"
)

type IOrchestratorService interface {
	Chat(ctx context.Context, sessionId uuid.UUID, req *dto.ChatRequest) (*dto.ChatResponse, error)
	SelectSection(ctx context.Context, sessionId uuid.UUID, req *dto.SelectSectionRequest) (*dto.SelectSectionResponse, error)
}

type orchestratorService struct {
	orchestrator *orchestrator.Orchestrator
}

func NewOrchestratorService(
	uowFactory unitofwork.RepositoryFactory,
	memoryStore memory.Store,
	llmProvider llm.LLMProvider,
	searchProvider search.Provider,
	publisherService IPublisherService,
	stdLogger *log.Logger,
) IOrchestratorService {
	orch := orchestrator.New(
		&gormSessionSource{uowFactory: uowFactory},
		&gormStateStore{uowFactory: uowFactory},
		&gormDraftStore{uowFactory: uowFactory},
		&gormIntakeStore{uowFactory: uowFactory},
		memoryStore,
		llmProvider,
		searchProvider,
		publisherService,
		stdLogger,
	)
	return &orchestratorService{orchestrator: orch}
}

func (s *orchestratorService) Chat(ctx context.Context, sessionId uuid.UUID, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	resp, err := s.orchestrator.ProcessMessage(ctx, sessionId, req.Message)
	if err != nil {
		return nil, err
	}
	return &dto.ChatResponse{
		Message:  resp.Message,
		Metadata: resp.Metadata,
	}, nil
}

func (s *orchestratorService) SelectSection(ctx context.Context, sessionId uuid.UUID, req *dto.SelectSectionRequest) (*dto.SelectSectionResponse, error) {
	id := orchestrator.SectionID{Chapter: req.ChapterIdx, Section: req.SectionIdx}
	st, err := s.orchestrator.SelectSection(ctx, sessionId, id)
	if err != nil {
		return nil, err
	}

	currentSection := ""
	if st.CurrentSection != nil {
		currentSection = st.CurrentSection.String()
	}
	return &dto.SelectSectionResponse{
		Phase:          st.Phase.String(),
		CurrentSection: currentSection,
	}, nil
}
