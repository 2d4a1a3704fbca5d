package mapper

import (
	"ai-reportdraft-be/internal/entity"
	"ai-reportdraft-be/internal/model"
)

func ToSectionEntity(m *model.Section) *entity.Section {
	if m == nil {
		return nil
	}
	return &entity.Section{
		SessionId:  m.SessionId,
		ChapterIdx: m.ChapterIdx,
		SectionIdx: m.SectionIdx,
		Status:     m.Status,
		Content:    m.Content,
		SavedAt:    m.SavedAt,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func ToSectionEntities(models []*model.Section) []*entity.Section {
	entities := make([]*entity.Section, 0, len(models))
	for _, m := range models {
		entities = append(entities, ToSectionEntity(m))
	}
	return entities
}

func ToSectionModel(e *entity.Section) *model.Section {
	status := e.Status
	if status == "" {
		status = entity.SectionStatusPending
	}
	return &model.Section{
		SessionId:  e.SessionId,
		ChapterIdx: e.ChapterIdx,
		SectionIdx: e.SectionIdx,
		Status:     status,
		Content:    e.Content,
		SavedAt:    e.SavedAt,
	}
}
