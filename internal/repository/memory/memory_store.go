package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"gorm.io/gorm"

	"ai-reportdraft-be/internal/entity"
	"ai-reportdraft-be/internal/pkg/logger"
	"ai-reportdraft-be/internal/repository/contract"
	"ai-reportdraft-be/internal/repository/implementation"
	"ai-reportdraft-be/internal/repository/specification"
	"ai-reportdraft-be/pkg/embedding"
	pkgmemory "ai-reportdraft-be/pkg/memory"
)

// Store is the GORM-backed conversation memory. A small in-process
// cache keeps the most recent entry per (session, category set), which
// covers the workflow's frequent latest-entry lookups. Embeddings are
// attached best-effort when a provider is configured.
type Store struct {
	repo     contract.MemoryEntryRepository
	embedder embedding.Provider
	cache    *cache.Cache
	logger   logger.ILogger
}

var _ pkgmemory.Store = (*Store)(nil)

func NewStore(db *gorm.DB, embedder embedding.Provider, log logger.ILogger) *Store {
	return &Store{
		repo:     implementation.NewMemoryEntryRepository(db),
		embedder: embedder,
		cache:    cache.New(1*time.Hour, 10*time.Minute),
		logger:   log,
	}
}

func cacheKey(sessionID uuid.UUID, categories []string) string {
	sorted := append([]string(nil), categories...)
	sort.Strings(sorted)
	return sessionID.String() + "|" + strings.Join(sorted, "|")
}

func toEntry(e *entity.MemoryEntry) pkgmemory.Entry {
	return pkgmemory.Entry{
		ID:         e.Id,
		SessionID:  e.SessionId,
		Role:       e.Role,
		Content:    e.Content,
		Categories: e.Categories,
		CreatedAt:  e.CreatedAt,
	}
}

func (s *Store) Append(ctx context.Context, sessionID uuid.UUID, role, content string, categories []string) error {
	e := &entity.MemoryEntry{
		SessionId:  sessionID,
		Role:       role,
		Content:    content,
		Categories: categories,
	}

	if s.embedder != nil {
		vec, err := s.embedder.Generate(ctx, content)
		if err != nil {
			s.logger.Warn("memory_store", "embedding generation failed, storing entry without vector", map[string]interface{}{
				"session_id": sessionID.String(),
				"error":      err.Error(),
			})
		} else {
			e.Embedding = vec
		}
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return err
	}

	entry := toEntry(e)
	s.cache.Set(cacheKey(sessionID, categories), entry, cache.DefaultExpiration)
	return nil
}

func (s *Store) Search(ctx context.Context, sessionID uuid.UUID, categories []string, limit int) ([]pkgmemory.Entry, error) {
	if limit <= 0 {
		limit = 10
	}

	key := cacheKey(sessionID, categories)
	if limit == 1 {
		if cached, found := s.cache.Get(key); found {
			return []pkgmemory.Entry{cached.(pkgmemory.Entry)}, nil
		}
	}

	found, err := s.repo.FindAll(ctx,
		specification.BySessionID{SessionID: sessionID},
		specification.HasCategories{Categories: categories},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit},
	)
	if err != nil {
		return nil, err
	}

	entries := make([]pkgmemory.Entry, 0, len(found))
	for _, e := range found {
		entries = append(entries, toEntry(e))
	}

	if limit == 1 && len(entries) > 0 {
		s.cache.Set(key, entries[0], cache.DefaultExpiration)
	}
	return entries, nil
}

func (s *Store) SemanticSearch(ctx context.Context, sessionID uuid.UUID, query string, limit int) ([]pkgmemory.Entry, error) {
	if s.embedder == nil {
		return []pkgmemory.Entry{}, nil
	}
	if limit <= 0 {
		limit = 5
	}

	vec, err := s.embedder.Generate(ctx, query)
	if err != nil {
		return nil, err
	}

	found, err := s.repo.NearestBySession(ctx, sessionID, vec, limit)
	if err != nil {
		return nil, err
	}

	entries := make([]pkgmemory.Entry, 0, len(found))
	for _, e := range found {
		entries = append(entries, toEntry(e))
	}
	return entries, nil
}
