package mapper

import (
	"encoding/json"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"

	"ai-reportdraft-be/internal/entity"
	"ai-reportdraft-be/internal/model"
)

func ToMemoryEntryEntity(m *model.MemoryEntry) *entity.MemoryEntry {
	if m == nil {
		return nil
	}

	var categories []string
	if len(m.Categories) > 0 {
		_ = json.Unmarshal(m.Categories, &categories)
	}

	var embeddingValues []float32
	if m.Embedding != nil {
		embeddingValues = m.Embedding.Slice()
	}

	return &entity.MemoryEntry{
		Id:         m.Id,
		SessionId:  m.SessionId,
		Role:       m.Role,
		Content:    m.Content,
		Categories: categories,
		Embedding:  embeddingValues,
		CreatedAt:  m.CreatedAt,
	}
}

func ToMemoryEntryEntities(models []*model.MemoryEntry) []*entity.MemoryEntry {
	entities := make([]*entity.MemoryEntry, 0, len(models))
	for _, m := range models {
		entities = append(entities, ToMemoryEntryEntity(m))
	}
	return entities
}

func ToMemoryEntryModel(e *entity.MemoryEntry) (*model.MemoryEntry, error) {
	categories := e.Categories
	if categories == nil {
		categories = []string{}
	}
	categoriesJson, err := json.Marshal(categories)
	if err != nil {
		return nil, err
	}

	m := &model.MemoryEntry{
		Id:         e.Id,
		SessionId:  e.SessionId,
		Role:       e.Role,
		Content:    e.Content,
		Categories: datatypes.JSON(categoriesJson),
	}
	if len(e.Embedding) > 0 {
		vec := pgvector.NewVector(e.Embedding)
		m.Embedding = &vec
	}
	return m, nil
}
