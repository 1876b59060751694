package domain

import "time"

// Sync run statuses.
const (
	SyncStatusRunning   = "running"
	SyncStatusCompleted = "completed"
	SyncStatusFailed    = "failed"
)

// Credential holds one user's Garmin Connect account, encrypted at rest.
// The unique index enforces at most one record per user.
type Credential struct {
	ID                string     `json:"id" gorm:"primaryKey"`
	UserID            string     `json:"user_id" gorm:"uniqueIndex;not null"`
	EncryptedEmail    string     `json:"-" gorm:"not null"`
	EncryptedPassword string     `json:"-" gorm:"not null"`
	LastSync          *time.Time `json:"last_sync"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// SyncRun records one sync attempt. A row with status "running" blocks
// further syncs for that user until it resolves.
type SyncRun struct {
	ID           string     `json:"id" gorm:"primaryKey"`
	UserID       string     `json:"user_id" gorm:"index"`
	Status       string     `json:"status" gorm:"not null"`
	StartedAt    time.Time  `json:"started_at"`
	CompletedAt  *time.Time `json:"completed_at"`
	ItemsSynced  int        `json:"items_synced"`
	ErrorMessage string     `json:"error_message,omitempty"`
}
