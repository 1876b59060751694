package usecase

import (
	"context"
	"errors"

	garmindto "runsight-backend/internal/garmin/dto"
)

// Sentinel errors the delivery layer maps to HTTP statuses.
var (
	ErrNotConnected       = errors.New("garmin account not connected")
	ErrSyncInProgress     = errors.New("a sync is already running")
	ErrCollectorMissing   = errors.New("sync feature unavailable: collector not installed")
	ErrCollectorFailed    = errors.New("collector failed")
	ErrInvalidCredentials = errors.New("could not decrypt stored credentials")
)

// CredentialUsecase defines the interface for Garmin account management
type CredentialUsecase interface {
	Connect(userID, email, password string) error
	Update(userID, email, password string) error
	Status(userID string) (*garmindto.ConnectionStatus, error)
	Disconnect(userID string) error
}

// SyncUsecase defines the interface for sync orchestration
type SyncUsecase interface {
	StartSync(ctx context.Context, userID string) (*garmindto.SyncResult, error)
	SyncStatus(userID string) (*garmindto.SyncStatus, error)
}
