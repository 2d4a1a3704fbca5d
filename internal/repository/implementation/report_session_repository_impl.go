package implementation

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"ai-reportdraft-be/internal/entity"
	"ai-reportdraft-be/internal/mapper"
	"ai-reportdraft-be/internal/model"
	"ai-reportdraft-be/internal/repository/contract"
	"ai-reportdraft-be/internal/repository/specification"
)

type ReportSessionRepositoryImpl struct {
	db *gorm.DB
}

func NewReportSessionRepository(db *gorm.DB) contract.ReportSessionRepository {
	return &ReportSessionRepositoryImpl{db: db}
}

func (r *ReportSessionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ReportSessionRepositoryImpl) Create(ctx context.Context, session *entity.ReportSession) error {
	m, err := mapper.ToReportSessionModel(session)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*session = *mapper.ToReportSessionEntity(m)
	return nil
}

func (r *ReportSessionRepositoryImpl) Update(ctx context.Context, session *entity.ReportSession) error {
	m, err := mapper.ToReportSessionModel(session)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*session = *mapper.ToReportSessionEntity(m)
	return nil
}

func (r *ReportSessionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ReportSession, error) {
	var m model.ReportSession
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return mapper.ToReportSessionEntity(&m), nil
}

func (r *ReportSessionRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.ReportSession{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ReportSessionRepositoryImpl) UpdateState(ctx context.Context, id uuid.UUID, state []byte) error {
	res := r.db.WithContext(ctx).Model(&model.ReportSession{}).
		Where("id = ?", id).
		Update("state_json", datatypes.JSON(state))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ReportSessionRepositoryImpl) UpdateIntake(ctx context.Context, id uuid.UUID, intake map[string]string, done bool) error {
	if intake == nil {
		intake = map[string]string{}
	}
	encoded, err := json.Marshal(intake)
	if err != nil {
		return err
	}
	res := r.db.WithContext(ctx).Model(&model.ReportSession{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"intake_json": datatypes.JSON(encoded),
			"intake_done": done,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
