package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"

	"github.com/suitloom/suitloom-backend/internal/app/repository"
	"github.com/suitloom/suitloom-backend/pkg/logger"
)

// SnapshotCleanupScheduler 오래된 컨피규레이터 세션 스냅샷 정리 스케줄러
type SnapshotCleanupScheduler struct {
	cron         *cron.Cron
	snapshotRepo repository.SnapshotRepository
	retention    time.Duration
}

// NewSnapshotCleanupScheduler 스냅샷 정리 스케줄러 생성
func NewSnapshotCleanupScheduler(snapshotRepo repository.SnapshotRepository, retention time.Duration) *SnapshotCleanupScheduler {
	return &SnapshotCleanupScheduler{
		cron:         cron.New(),
		snapshotRepo: snapshotRepo,
		retention:    retention,
	}
}

// Start 스케줄러 시작
func (s *SnapshotCleanupScheduler) Start() error {
	// 매일 새벽 4시에 보존 기간이 지난 스냅샷 삭제 (KST 기준)
	// cron 표현식: "0 4 * * *" = 매일 4시 0분
	_, err := s.cron.AddFunc("0 4 * * *", func() {
		cutoff := time.Now().Add(-s.retention)
		logger.Info("Starting scheduled snapshot cleanup", map[string]interface{}{
			"cutoff": cutoff.Format(time.RFC3339),
		})

		deleted, err := s.snapshotRepo.DeleteStale(cutoff)
		if err != nil {
			logger.Error("Failed to purge stale snapshots", err)
			return
		}

		logger.Info("Stale snapshots purged", map[string]interface{}{
			"deleted": deleted,
		})
	})

	if err != nil {
		logger.Error("Failed to add cron job for snapshot cleanup", err)
		return err
	}

	s.cron.Start()
	logger.Info("Snapshot cleanup scheduler started successfully (daily at 4:00 AM)", nil)

	return nil
}

// Stop 스케줄러 중지
func (s *SnapshotCleanupScheduler) Stop() {
	logger.Info("Stopping snapshot cleanup scheduler...", nil)
	s.cron.Stop()
	logger.Info("Snapshot cleanup scheduler stopped", nil)
}
