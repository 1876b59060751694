package usecase

import (
	"os"
	"path/filepath"
	"testing"

	activitydomain "runsight-backend/internal/activity/domain"
	activityrepo "runsight-backend/internal/activity/repository"
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
	require.NoError(t, db.AutoMigrate(
		&activitydomain.Activity{},
		&activitydomain.DailySummary{},
		&garmindomain.Credential{},
		&garmindomain.SyncRun{},
	))
	return db
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestImportActivities(t *testing.T) {
	db := setupTestDB(t)
	activities := activityrepo.NewActivityRepository(db)
	summaries := activityrepo.NewDailySummaryRepository(db)
	importer := NewImporter(activities, summaries)

	baseDir := t.TempDir()
	activityDir := filepath.Join(baseDir, "FitFiles", "Activities")
	writeFile(t, filepath.Join(activityDir, "activity_100.json"),
		`{"activityId": 100, "startTimeGMT": "2024-03-01 07:30:00", "distance": 5000, "duration": 1500}`)
	writeFile(t, filepath.Join(activityDir, "activity_101.json"),
		`{"activityId": 101, "startTimeGMT": "2024-03-02 07:30:00", "distance": 8000, "duration": 2400}`)
	// Detail files and broken files must not abort the batch.
	writeFile(t, filepath.Join(activityDir, "activity_details_100.json"), `{"activityId": 100}`)
	writeFile(t, filepath.Join(activityDir, "activity_102.json"), `{not json`)
	writeFile(t, filepath.Join(activityDir, "activity_103.json"), `{"startTimeGMT": "2024-03-03 07:30:00"}`)
	writeFile(t, filepath.Join(activityDir, "notes.txt"), "ignored")

	result := importer.ImportActivities("user-1", baseDir)
	assert.Equal(t, 2, result.Processed)
	assert.Equal(t, 2, result.Errors)

	var count int64
	require.NoError(t, db.Model(&activitydomain.Activity{}).Where("user_id = ?", "user-1").Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestImportActivitiesIdempotent(t *testing.T) {
	db := setupTestDB(t)
	activities := activityrepo.NewActivityRepository(db)
	importer := NewImporter(activities, activityrepo.NewDailySummaryRepository(db))

	baseDir := t.TempDir()
	path := filepath.Join(baseDir, "FitFiles", "Activities", "activity_100.json")
	writeFile(t, path, `{"activityId": 100, "startTimeGMT": "2024-03-01 07:30:00", "distance": 5000}`)

	first := importer.ImportActivities("user-1", baseDir)
	assert.Equal(t, 1, first.Processed)

	// Re-import with replaced payload: still one row, new data wins.
	writeFile(t, path, `{"activityId": 100, "startTimeGMT": "2024-03-01 07:30:00", "distance": 5200}`)
	second := importer.ImportActivities("user-1", baseDir)
	assert.Equal(t, 1, second.Processed)

	var count int64
	require.NoError(t, db.Model(&activitydomain.Activity{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	stored, err := activities.FindByUserAndActivityID("user-1", 100)
	require.NoError(t, err)
	require.NotNil(t, stored)
	payload, err := stored.TypedPayload()
	require.NoError(t, err)
	assert.Equal(t, 5200.0, payload.Distance)
}

func TestImportActivitiesMissingDirectory(t *testing.T) {
	db := setupTestDB(t)
	importer := NewImporter(activityrepo.NewActivityRepository(db), activityrepo.NewDailySummaryRepository(db))

	result := importer.ImportActivities("user-1", t.TempDir())
	assert.Equal(t, 0, result.Processed)
	assert.Equal(t, 0, result.Errors)
}

func TestImportDailySummaries(t *testing.T) {
	db := setupTestDB(t)
	summaries := activityrepo.NewDailySummaryRepository(db)
	importer := NewImporter(activityrepo.NewActivityRepository(db), summaries)

	baseDir := t.TempDir()
	monitoringDir := filepath.Join(baseDir, "FitFiles", "Monitoring", "2024")
	writeFile(t, filepath.Join(monitoringDir, "daily_summary_2024-03-01.json"),
		`{"calendarDate": "2024-03-01", "totalSteps": 9000, "totalDistanceMeters": 7000}`)
	writeFile(t, filepath.Join(monitoringDir, "daily_summary_2024-03-02.json"),
		`{"calendarDate": "2024-03-02", "totalSteps": 11000}`)
	writeFile(t, filepath.Join(monitoringDir, "daily_summary_bad.json"), `{"totalSteps": 1}`)

	result := importer.ImportDailySummaries("user-1", baseDir)
	assert.Equal(t, 2, result.Processed)
	assert.Equal(t, 1, result.Errors)

	rows, err := summaries.FindByUser("user-1", activityrepo.QueryOptions{})
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestImportDailySummariesIdempotent(t *testing.T) {
	db := setupTestDB(t)
	summaries := activityrepo.NewDailySummaryRepository(db)
	importer := NewImporter(activityrepo.NewActivityRepository(db), summaries)

	baseDir := t.TempDir()
	path := filepath.Join(baseDir, "FitFiles", "Monitoring", "2024", "daily_summary_2024-03-01.json")
	writeFile(t, path, `{"calendarDate": "2024-03-01", "totalSteps": 9000}`)

	importer.ImportDailySummaries("user-1", baseDir)
	importer.ImportDailySummaries("user-1", baseDir)

	var count int64
	require.NoError(t, db.Model(&activitydomain.DailySummary{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
