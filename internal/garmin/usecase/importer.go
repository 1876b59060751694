package usecase

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"

	activitydomain "runsight-backend/internal/activity/domain"
	activityrepo "runsight-backend/internal/activity/repository"
)

var (
	errMissingActivityID = errors.New("file has no activityId")
	errBadStartTime      = errors.New("file has no parseable startTimeGMT")
	errBadCalendarDate   = errors.New("file has no parseable calendarDate")
)

// ImportResult tallies one import category. Errors counts files skipped for
// any reason; the batch itself never aborts on a bad file.
type ImportResult struct {
	Processed int
	Errors    int
}

// Importer reads the collector's output files and upserts them. Re-importing
// the same files is safe: rows are keyed on natural keys and overwritten.
type Importer struct {
	activityRepo activityrepo.ActivityRepository
	summaryRepo  activityrepo.DailySummaryRepository
}

func NewImporter(activityRepo activityrepo.ActivityRepository, summaryRepo activityrepo.DailySummaryRepository) *Importer {
	return &Importer{
		activityRepo: activityRepo,
		summaryRepo:  summaryRepo,
	}
}

// ImportActivities loads activity_*.json files from the collector's
// FitFiles/Activities directory. Detail files and files without a usable
// activity id or start time are skipped with a log line.
func (i *Importer) ImportActivities(userID, baseDir string) ImportResult {
	var result ImportResult

	dir := filepath.Join(baseDir, "FitFiles", "Activities")
	entries, err := os.ReadDir(dir)
	if err != nil {
		// A sync that fetched no activities leaves no directory behind.
		return result
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, "activity_") || !strings.HasSuffix(name, ".json") {
			continue
		}
		if strings.Contains(name, "_details_") {
			continue
		}

		if err := i.importActivityFile(userID, filepath.Join(dir, name)); err != nil {
			log.Printf("[WARN] skipping activity file %s: %v", name, err)
			result.Errors++
			continue
		}
		result.Processed++
	}

	return result
}

func (i *Importer) importActivityFile(userID, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var payload activitydomain.ActivityPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return err
	}
	if payload.ActivityID == 0 {
		return errMissingActivityID
	}
	startTime, ok := activitydomain.ParseStartTime(payload.StartTimeGMT)
	if !ok {
		return errBadStartTime
	}

	return i.activityRepo.Upsert(&activitydomain.Activity{
		UserID:           userID,
		GarminActivityID: payload.ActivityID,
		Data:             json.RawMessage(data),
		StartTime:        startTime,
	})
}

// ImportDailySummaries loads daily_summary_*.json files from the per-year
// subdirectories of FitFiles/Monitoring.
func (i *Importer) ImportDailySummaries(userID, baseDir string) ImportResult {
	var result ImportResult

	root := filepath.Join(baseDir, "FitFiles", "Monitoring")
	years, err := os.ReadDir(root)
	if err != nil {
		return result
	}

	for _, year := range years {
		if !year.IsDir() {
			continue
		}
		dir := filepath.Join(root, year.Name())
		entries, err := os.ReadDir(dir)
		if err != nil {
			log.Printf("[WARN] skipping monitoring directory %s: %v", year.Name(), err)
			result.Errors++
			continue
		}

		for _, entry := range entries {
			name := entry.Name()
			if entry.IsDir() || !strings.HasPrefix(name, "daily_summary_") || !strings.HasSuffix(name, ".json") {
				continue
			}

			if err := i.importSummaryFile(userID, filepath.Join(dir, name)); err != nil {
				log.Printf("[WARN] skipping daily summary file %s: %v", name, err)
				result.Errors++
				continue
			}
			result.Processed++
		}
	}

	return result
}

func (i *Importer) importSummaryFile(userID, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var payload activitydomain.DailySummaryPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return err
	}
	date, ok := activitydomain.ParseCalendarDate(payload.CalendarDate)
	if !ok {
		return errBadCalendarDate
	}

	return i.summaryRepo.Upsert(&activitydomain.DailySummary{
		UserID: userID,
		Date:   date,
		Data:   json.RawMessage(data),
	})
}
