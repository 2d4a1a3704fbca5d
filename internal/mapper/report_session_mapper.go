package mapper

import (
	"encoding/json"

	"gorm.io/datatypes"

	"ai-reportdraft-be/internal/entity"
	"ai-reportdraft-be/internal/model"
	"ai-reportdraft-be/pkg/guide"
)

// ToReportSessionEntity maps the stored row into the domain entity.
// Corrupt JSON columns degrade to zero values rather than failing the
// request; the orchestrator copes with a nil guide and empty intake.
func ToReportSessionEntity(m *model.ReportSession) *entity.ReportSession {
	if m == nil {
		return nil
	}

	var tree *guide.Tree
	if len(m.GuideJson) > 0 {
		var decoded guide.Tree
		if err := json.Unmarshal(m.GuideJson, &decoded); err == nil {
			tree = &decoded
		}
	}

	intake := map[string]string{}
	if len(m.IntakeJson) > 0 {
		_ = json.Unmarshal(m.IntakeJson, &intake)
	}

	return &entity.ReportSession{
		Id:         m.Id,
		Guide:      tree,
		Intake:     intake,
		State:      json.RawMessage(m.StateJson),
		IntakeDone: m.IntakeDone,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func ToReportSessionModel(e *entity.ReportSession) (*model.ReportSession, error) {
	guideJson, err := json.Marshal(e.Guide)
	if err != nil {
		return nil, err
	}
	intake := e.Intake
	if intake == nil {
		intake = map[string]string{}
	}
	intakeJson, err := json.Marshal(intake)
	if err != nil {
		return nil, err
	}

	return &model.ReportSession{
		Id:         e.Id,
		GuideJson:  datatypes.JSON(guideJson),
		IntakeJson: datatypes.JSON(intakeJson),
		StateJson:  datatypes.JSON(e.State),
		IntakeDone: e.IntakeDone,
	}, nil
}
