package repository

import (
	"time"

	"github.com/suitloom/suitloom-backend/internal/app/model"
	"github.com/suitloom/suitloom-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SnapshotRepository는 세션별 설정 스냅샷의 영속 채널을 담당한다.
type SnapshotRepository interface {
	Save(sessionID string, payload string) error
	Load(sessionID string) (*model.ConfiguratorSnapshot, error)
	Delete(sessionID string) error
	DeleteStale(olderThan time.Time) (int64, error)
}

type snapshotRepository struct {
	db *gorm.DB
}

func NewSnapshotRepository(db *gorm.DB) SnapshotRepository {
	return &snapshotRepository{db: db}
}

func (r *snapshotRepository) Save(sessionID string, payload string) error {
	logger.Debug("Saving configurator snapshot in database", map[string]interface{}{
		"session_id": sessionID,
		"bytes":      len(payload),
	})

	snapshot := model.ConfiguratorSnapshot{
		SessionID: sessionID,
		Payload:   payload,
		UpdatedAt: time.Now(),
	}

	// session_id 기준 upsert
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&snapshot).Error
	if err != nil {
		logger.Error("Failed to save configurator snapshot in database", err, map[string]interface{}{
			"session_id": sessionID,
		})
		return err
	}

	return nil
}

func (r *snapshotRepository) Load(sessionID string) (*model.ConfiguratorSnapshot, error) {
	logger.Debug("Loading configurator snapshot from database", map[string]interface{}{
		"session_id": sessionID,
	})

	var snapshot model.ConfiguratorSnapshot
	err := r.db.Where("session_id = ?", sessionID).First(&snapshot).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to load configurator snapshot from database", err, map[string]interface{}{
				"session_id": sessionID,
			})
		}
		return nil, err
	}

	return &snapshot, nil
}

func (r *snapshotRepository) Delete(sessionID string) error {
	logger.Debug("Deleting configurator snapshot from database", map[string]interface{}{
		"session_id": sessionID,
	})

	if err := r.db.Where("session_id = ?", sessionID).Delete(&model.ConfiguratorSnapshot{}).Error; err != nil {
		logger.Error("Failed to delete configurator snapshot from database", err, map[string]interface{}{
			"session_id": sessionID,
		})
		return err
	}

	return nil
}

func (r *snapshotRepository) DeleteStale(olderThan time.Time) (int64, error) {
	logger.Debug("Deleting stale configurator snapshots from database", map[string]interface{}{
		"older_than": olderThan,
	})

	result := r.db.Where("updated_at < ?", olderThan).Delete(&model.ConfiguratorSnapshot{})
	if result.Error != nil {
		logger.Error("Failed to delete stale configurator snapshots from database", result.Error, map[string]interface{}{
			"older_than": olderThan,
		})
		return 0, result.Error
	}

	logger.Debug("Stale configurator snapshots deleted from database", map[string]interface{}{
		"count": result.RowsAffected,
	})
	return result.RowsAffected, nil
}
