package repository

import (
	"errors"
	"time"

	garmindomain "runsight-backend/internal/garmin/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// credentialRepository implements CredentialRepository interface
type credentialRepository struct {
	db *gorm.DB
}

// NewCredentialRepository creates a new instance of credentialRepository
func NewCredentialRepository(db *gorm.DB) CredentialRepository {
	return &credentialRepository{
		db: db,
	}
}

func (r *credentialRepository) Upsert(credential *garmindomain.Credential) error {
	now := time.Now()
	if credential.ID == "" {
		credential.ID = uuid.New().String()
	}
	credential.CreatedAt = now
	credential.UpdatedAt = now

	// One credential per user: replacing credentials resets last_sync so the
	// next sync starts from stored data rather than the old account's history.
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"encrypted_email", "encrypted_password", "last_sync", "updated_at"}),
	}).Create(credential).Error
}

func (r *credentialRepository) FindByUser(userID string) (*garmindomain.Credential, error) {
	var credential garmindomain.Credential
	err := r.db.Where("user_id = ?", userID).First(&credential).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &credential, nil
}

func (r *credentialRepository) UpdateLastSync(userID string, at time.Time) error {
	return r.db.Model(&garmindomain.Credential{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{"last_sync": at, "updated_at": time.Now()}).Error
}

func (r *credentialRepository) DeleteByUser(userID string) error {
	return r.db.Where("user_id = ?", userID).Delete(&garmindomain.Credential{}).Error
}
