package integration

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-reportdraft-be/internal/entity"
	"ai-reportdraft-be/internal/pkg/logger"
	memoryrepo "ai-reportdraft-be/internal/repository/memory"
	"ai-reportdraft-be/internal/repository/specification"
	"ai-reportdraft-be/internal/repository/unitofwork"
	"ai-reportdraft-be/pkg/database"
	"ai-reportdraft-be/pkg/guide"
	pkgmemory "ai-reportdraft-be/pkg/memory"
	"ai-reportdraft-be/pkg/orchestrator"
)

func testGuideTree() *guide.Tree {
	return &guide.Tree{
		Title: "Integration Guide",
		Chapters: []guide.Chapter{
			{Title: "Introduction", Sections: []guide.Section{{Title: "Background"}, {Title: "Problem Statement"}}},
			{Title: "Methodology", Sections: []guide.Section{{Title: "Data Collection"}, {Title: "Analysis"}}},
		},
	}
}

func TestGormWorkflowPersistence(t *testing.T) {
	// Load .env from root
	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	require.NoError(t, err, "Failed to connect to DB")

	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	ctx := context.Background()

	sqlDB, _ := gormDB.DB()
	assert.NoError(t, sqlDB.Ping())

	sessionId := uuid.New()

	t.Run("Create Session With Sections In Transaction", func(t *testing.T) {
		uow := uowFactory.NewUnitOfWork(ctx)
		require.NoError(t, uow.Begin(ctx))
		defer uow.Rollback()

		session := &entity.ReportSession{
			Id:     sessionId,
			Guide:  testGuideTree(),
			Intake: map[string]string{},
		}
		require.NoError(t, uow.ReportSessionRepository().Create(ctx, session))

		var sections []*entity.Section
		for ci, ch := range testGuideTree().Chapters {
			for si := range ch.Sections {
				sections = append(sections, &entity.Section{
					SessionId:  sessionId,
					ChapterIdx: ci,
					SectionIdx: si,
					Status:     entity.SectionStatusPending,
				})
			}
		}
		require.NoError(t, uow.SectionRepository().CreateBulk(ctx, sections))
		require.NoError(t, uow.Commit())

		// 2x2 guide seeds 4 pending rows
		uow = uowFactory.NewUnitOfWork(ctx)
		found, err := uow.SectionRepository().FindAll(ctx, specification.BySessionID{SessionID: sessionId})
		require.NoError(t, err)
		assert.Len(t, found, 4)
		for _, s := range found {
			assert.Equal(t, entity.SectionStatusPending, s.Status)
		}
	})

	t.Run("Session Roundtrips Guide And Intake", func(t *testing.T) {
		uow := uowFactory.NewUnitOfWork(ctx)
		found, err := uow.ReportSessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
		require.NoError(t, err)
		require.NotNil(t, found)
		require.NotNil(t, found.Guide)
		assert.Equal(t, "Integration Guide", found.Guide.Title)
		assert.Equal(t, 4, found.Guide.SectionCount())
		assert.False(t, found.IntakeDone)
	})

	t.Run("State Blob Roundtrip", func(t *testing.T) {
		section := orchestrator.SectionID{Chapter: 1, Section: 0}
		st := &orchestrator.State{
			SessionID:      sessionId,
			Phase:          orchestrator.PhaseExecution,
			CurrentSection: &section,
		}
		encoded, err := json.Marshal(st)
		require.NoError(t, err)

		uow := uowFactory.NewUnitOfWork(ctx)
		require.NoError(t, uow.ReportSessionRepository().UpdateState(ctx, sessionId, encoded))

		found, err := uow.ReportSessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
		require.NoError(t, err)
		require.NotNil(t, found)

		var got orchestrator.State
		require.NoError(t, json.Unmarshal(found.State, &got))
		assert.Equal(t, orchestrator.PhaseExecution, got.Phase)
		require.NotNil(t, got.CurrentSection)
		assert.Equal(t, "1.0", got.CurrentSection.String())
	})

	t.Run("Update Intake And Done Flag", func(t *testing.T) {
		uow := uowFactory.NewUnitOfWork(ctx)
		intake := map[string]string{
			"title":             "Integration Study",
			"department":        "Testing",
			"objectives":        "Verify persistence",
			"problem_statement": "Unverified storage",
			"sample_size":       "4",
		}
		require.NoError(t, uow.ReportSessionRepository().UpdateIntake(ctx, sessionId, intake, true))

		found, err := uow.ReportSessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.True(t, found.IntakeDone)
		assert.Equal(t, "Integration Study", found.Intake["title"])
	})

	t.Run("Draft Content And Idempotent Mark Saved", func(t *testing.T) {
		uow := uowFactory.NewUnitOfWork(ctx)
		repo := uow.SectionRepository()

		require.NoError(t, repo.UpdateContent(ctx, sessionId, 0, 0, "draft text"))

		matched, err := repo.MarkSaved(ctx, sessionId, 0, 0)
		require.NoError(t, err)
		assert.True(t, matched)

		// repeating the call is harmless and still reports a match
		matched, err = repo.MarkSaved(ctx, sessionId, 0, 0)
		require.NoError(t, err)
		assert.True(t, matched)

		// no row for an unknown key
		matched, err = repo.MarkSaved(ctx, sessionId, 9, 9)
		require.NoError(t, err)
		assert.False(t, matched)

		found, err := repo.FindOne(ctx,
			specification.BySectionKey{SessionID: sessionId, ChapterIdx: 0, SectionIdx: 0})
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, entity.SectionStatusSaved, found.Status)
		assert.Equal(t, "draft text", found.Content)
		assert.NotNil(t, found.SavedAt)
	})

	t.Run("Memory Append And Categorized Search", func(t *testing.T) {
		store := memoryrepo.NewStore(gormDB, nil, logger.NewIsolatedLogger("logs/integration_test.log"))

		require.NoError(t, store.Append(ctx, sessionId, pkgmemory.RoleUser, "first intake answer", []string{"intake"}))
		require.NoError(t, store.Append(ctx, sessionId, pkgmemory.RoleAssistant, "[TITLE] What is the title?", []string{"intake"}))
		require.NoError(t, store.Append(ctx, sessionId, pkgmemory.RoleSystem, `{"bullet_points":["a"]}`, []string{"bullet_points", "0.0"}))

		entries, err := store.Search(ctx, sessionId, []string{"intake"}, 10)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		// most recent first
		assert.Equal(t, pkgmemory.RoleAssistant, entries[0].Role)

		// AND semantics on category sets
		bullets, err := store.Search(ctx, sessionId, []string{"bullet_points", "0.0"}, 1)
		require.NoError(t, err)
		require.Len(t, bullets, 1)
		assert.Equal(t, pkgmemory.RoleSystem, bullets[0].Role)

		none, err := store.Search(ctx, sessionId, []string{"bullet_points", "9.9"}, 1)
		require.NoError(t, err)
		assert.Empty(t, none)

		// nil embedder disables semantic recall without erroring
		sem, err := store.SemanticSearch(ctx, sessionId, "anything", 3)
		require.NoError(t, err)
		assert.Empty(t, sem)
	})
}
