package usecase

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// syncState is the file-based fallback cache for a user's last sync. It is
// consulted only when the credential record carries no timestamp, which
// happens for data imported before timestamps were tracked per account.
type syncState struct {
	LastSyncDate string `json:"lastSyncDate,omitempty"` // YYYY-MM-DD
	LastSyncTime string `json:"lastSyncTime,omitempty"` // RFC3339
}

func loadSyncState(path string) *syncState {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var state syncState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil
	}
	return &state
}

func saveSyncState(path string, state *syncState) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
