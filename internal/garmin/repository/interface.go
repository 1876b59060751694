package repository

import (
	"time"

	garmindomain "runsight-backend/internal/garmin/domain"
)

// CredentialRepository defines the interface for credential persistence
type CredentialRepository interface {
	// Upsert inserts or replaces the single credential record for a user
	Upsert(credential *garmindomain.Credential) error
	FindByUser(userID string) (*garmindomain.Credential, error)
	UpdateLastSync(userID string, at time.Time) error
	DeleteByUser(userID string) error
}

// SyncRunRepository defines the interface for sync run persistence
type SyncRunRepository interface {
	Create(run *garmindomain.SyncRun) error
	FindRunning(userID string) (*garmindomain.SyncRun, error)
	Complete(runID string, itemsSynced int) error
	Fail(runID string, message string) error
	FindLatest(userID string) (*garmindomain.SyncRun, error)
}
