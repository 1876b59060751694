package repository

import (
	"testing"
	"time"

	garmindomain "runsight-backend/internal/garmin/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&garmindomain.Credential{}, &garmindomain.SyncRun{}))
	return db
}

func TestCredentialUpsertKeepsOneRowPerUser(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCredentialRepository(db)

	first := &garmindomain.Credential{
		UserID:            "user-1",
		EncryptedEmail:    "blob-email-1",
		EncryptedPassword: "blob-pass-1",
	}
	require.NoError(t, repo.Upsert(first))

	second := &garmindomain.Credential{
		UserID:            "user-1",
		EncryptedEmail:    "blob-email-2",
		EncryptedPassword: "blob-pass-2",
	}
	require.NoError(t, repo.Upsert(second))

	var count int64
	require.NoError(t, db.Model(&garmindomain.Credential{}).Where("user_id = ?", "user-1").Count(&count).Error)
	assert.Equal(t, int64(1), count)

	stored, err := repo.FindByUser("user-1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "blob-email-2", stored.EncryptedEmail)
	assert.Equal(t, "blob-pass-2", stored.EncryptedPassword)
	assert.Equal(t, first.ID, stored.ID) // original row updated, not replaced
}

func TestCredentialFindByUserMissing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCredentialRepository(db)

	stored, err := repo.FindByUser("nobody")
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestCredentialUpdateLastSyncAndDelete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCredentialRepository(db)

	require.NoError(t, repo.Upsert(&garmindomain.Credential{
		UserID:            "user-1",
		EncryptedEmail:    "e",
		EncryptedPassword: "p",
	}))

	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.UpdateLastSync("user-1", at))

	stored, err := repo.FindByUser("user-1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.NotNil(t, stored.LastSync)
	assert.Equal(t, at.Unix(), stored.LastSync.Unix())

	require.NoError(t, repo.DeleteByUser("user-1"))
	stored, err = repo.FindByUser("user-1")
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestSyncRunLifecycle(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSyncRunRepository(db)

	run := &garmindomain.SyncRun{UserID: "user-1"}
	require.NoError(t, repo.Create(run))
	assert.Equal(t, garmindomain.SyncStatusRunning, run.Status)

	running, err := repo.FindRunning("user-1")
	require.NoError(t, err)
	require.NotNil(t, running)
	assert.Equal(t, run.ID, running.ID)

	require.NoError(t, repo.Complete(run.ID, 42))

	running, err = repo.FindRunning("user-1")
	require.NoError(t, err)
	assert.Nil(t, running)

	latest, err := repo.FindLatest("user-1")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, garmindomain.SyncStatusCompleted, latest.Status)
	assert.Equal(t, 42, latest.ItemsSynced)
	assert.NotNil(t, latest.CompletedAt)
}

func TestSyncRunFail(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSyncRunRepository(db)

	run := &garmindomain.SyncRun{UserID: "user-1"}
	require.NoError(t, repo.Create(run))
	require.NoError(t, repo.Fail(run.ID, "collector exited with code 2"))

	latest, err := repo.FindLatest("user-1")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, garmindomain.SyncStatusFailed, latest.Status)
	assert.Equal(t, "collector exited with code 2", latest.ErrorMessage)

	running, err := repo.FindRunning("user-1")
	require.NoError(t, err)
	assert.Nil(t, running)
}

func TestFindRunningScopedToUser(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSyncRunRepository(db)

	require.NoError(t, repo.Create(&garmindomain.SyncRun{UserID: "user-1"}))

	running, err := repo.FindRunning("user-2")
	require.NoError(t, err)
	assert.Nil(t, running)
}
