package implementation

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"ai-reportdraft-be/internal/entity"
	"ai-reportdraft-be/internal/mapper"
	"ai-reportdraft-be/internal/model"
	"ai-reportdraft-be/internal/repository/contract"
	"ai-reportdraft-be/internal/repository/specification"
)

type SectionRepositoryImpl struct {
	db *gorm.DB
}

func NewSectionRepository(db *gorm.DB) contract.SectionRepository {
	return &SectionRepositoryImpl{db: db}
}

func (r *SectionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *SectionRepositoryImpl) CreateBulk(ctx context.Context, sections []*entity.Section) error {
	if len(sections) == 0 {
		return nil
	}
	models := make([]*model.Section, len(sections))
	for i, e := range sections {
		models[i] = mapper.ToSectionModel(e)
	}
	if err := r.db.WithContext(ctx).Create(&models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*sections[i] = *mapper.ToSectionEntity(m)
	}
	return nil
}

func (r *SectionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Section, error) {
	var m model.Section
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return mapper.ToSectionEntity(&m), nil
}

func (r *SectionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Section, error) {
	var models []*model.Section
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return mapper.ToSectionEntities(models), nil
}

func (r *SectionRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Section{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *SectionRepositoryImpl) UpdateContent(ctx context.Context, sessionId uuid.UUID, chapterIdx, sectionIdx int, content string) error {
	res := r.db.WithContext(ctx).Model(&model.Section{}).
		Where("session_id = ? AND chapter_idx = ? AND section_idx = ?", sessionId, chapterIdx, sectionIdx).
		Update("content", content)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *SectionRepositoryImpl) MarkSaved(ctx context.Context, sessionId uuid.UUID, chapterIdx, sectionIdx int) (bool, error) {
	now := time.Now()
	res := r.db.WithContext(ctx).Model(&model.Section{}).
		Where("session_id = ? AND chapter_idx = ? AND section_idx = ?", sessionId, chapterIdx, sectionIdx).
		Updates(map[string]interface{}{
			"status":   entity.SectionStatusSaved,
			"saved_at": now,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
