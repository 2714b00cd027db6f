package repository

import (
	"github.com/suitloom/suitloom-backend/internal/app/model"
	"github.com/suitloom/suitloom-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MeasurementRepository interface {
	Save(sessionID string, fields string) error
	Load(sessionID string) (*model.Measurement, error)
	Delete(sessionID string) error
}

type measurementRepository struct {
	db *gorm.DB
}

func NewMeasurementRepository(db *gorm.DB) MeasurementRepository {
	return &measurementRepository{db: db}
}

func (r *measurementRepository) Save(sessionID string, fields string) error {
	logger.Debug("Saving measurement in database", map[string]interface{}{
		"session_id": sessionID,
	})

	measurement := model.Measurement{
		SessionID: sessionID,
		Fields:    fields,
	}

	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"fields"}),
	}).Create(&measurement).Error
	if err != nil {
		logger.Error("Failed to save measurement in database", err, map[string]interface{}{
			"session_id": sessionID,
		})
		return err
	}

	return nil
}

func (r *measurementRepository) Load(sessionID string) (*model.Measurement, error) {
	logger.Debug("Loading measurement from database", map[string]interface{}{
		"session_id": sessionID,
	})

	var measurement model.Measurement
	err := r.db.Where("session_id = ?", sessionID).First(&measurement).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to load measurement from database", err, map[string]interface{}{
				"session_id": sessionID,
			})
		}
		return nil, err
	}

	return &measurement, nil
}

func (r *measurementRepository) Delete(sessionID string) error {
	logger.Debug("Deleting measurement from database", map[string]interface{}{
		"session_id": sessionID,
	})

	if err := r.db.Where("session_id = ?", sessionID).Delete(&model.Measurement{}).Error; err != nil {
		logger.Error("Failed to delete measurement from database", err, map[string]interface{}{
			"session_id": sessionID,
		})
		return err
	}

	return nil
}
