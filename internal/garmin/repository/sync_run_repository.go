package repository

import (
	"errors"
	"time"

	garmindomain "runsight-backend/internal/garmin/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// syncRunRepository implements SyncRunRepository interface
type syncRunRepository struct {
	db *gorm.DB
}

// NewSyncRunRepository creates a new instance of syncRunRepository
func NewSyncRunRepository(db *gorm.DB) SyncRunRepository {
	return &syncRunRepository{
		db: db,
	}
}

func (r *syncRunRepository) Create(run *garmindomain.SyncRun) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}
	if run.Status == "" {
		run.Status = garmindomain.SyncStatusRunning
	}
	return r.db.Create(run).Error
}

func (r *syncRunRepository) FindRunning(userID string) (*garmindomain.SyncRun, error) {
	var run garmindomain.SyncRun
	err := r.db.Where("user_id = ? AND status = ?", userID, garmindomain.SyncStatusRunning).
		Order("started_at DESC").First(&run).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &run, nil
}

func (r *syncRunRepository) Complete(runID string, itemsSynced int) error {
	now := time.Now()
	return r.db.Model(&garmindomain.SyncRun{}).Where("id = ?", runID).
		Updates(map[string]interface{}{
			"status":       garmindomain.SyncStatusCompleted,
			"completed_at": now,
			"items_synced": itemsSynced,
		}).Error
}

func (r *syncRunRepository) Fail(runID string, message string) error {
	now := time.Now()
	return r.db.Model(&garmindomain.SyncRun{}).Where("id = ?", runID).
		Updates(map[string]interface{}{
			"status":        garmindomain.SyncStatusFailed,
			"completed_at":  now,
			"error_message": message,
		}).Error
}

func (r *syncRunRepository) FindLatest(userID string) (*garmindomain.SyncRun, error) {
	var run garmindomain.SyncRun
	err := r.db.Where("user_id = ?", userID).Order("started_at DESC").First(&run).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &run, nil
}
