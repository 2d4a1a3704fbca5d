package implementation

import (
	"context"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"ai-reportdraft-be/internal/entity"
	"ai-reportdraft-be/internal/mapper"
	"ai-reportdraft-be/internal/model"
	"ai-reportdraft-be/internal/repository/contract"
	"ai-reportdraft-be/internal/repository/specification"
)

type MemoryEntryRepositoryImpl struct {
	db *gorm.DB
}

func NewMemoryEntryRepository(db *gorm.DB) contract.MemoryEntryRepository {
	return &MemoryEntryRepositoryImpl{db: db}
}

func (r *MemoryEntryRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *MemoryEntryRepositoryImpl) Create(ctx context.Context, entry *entity.MemoryEntry) error {
	m, err := mapper.ToMemoryEntryModel(entry)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*entry = *mapper.ToMemoryEntryEntity(m)
	return nil
}

func (r *MemoryEntryRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.MemoryEntry, error) {
	var models []*model.MemoryEntry
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return mapper.ToMemoryEntryEntities(models), nil
}

func (r *MemoryEntryRepositoryImpl) NearestBySession(ctx context.Context, sessionId uuid.UUID, embedding []float32, limit int) ([]*entity.MemoryEntry, error) {
	var models []*model.MemoryEntry
	err := r.db.WithContext(ctx).
		Where("session_id = ? AND embedding IS NOT NULL", sessionId).
		Order(gorm.Expr("embedding <=> ?", pgvector.NewVector(embedding))).
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return mapper.ToMemoryEntryEntities(models), nil
}
