package usecase

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	activityrepo "runsight-backend/internal/activity/repository"
	garmindomain "runsight-backend/internal/garmin/domain"
	garmindto "runsight-backend/internal/garmin/dto"
	"runsight-backend/internal/garmin/repository"
	"runsight-backend/internal/observability"
	"runsight-backend/pkg/config"
	"runsight-backend/pkg/crypto"
	"runsight-backend/pkg/garmindb"
)

const dateLayout = "2006-01-02"

// syncUsecase implements SyncUsecase interface. One sync: check for an
// in-flight run, record a run row, decrypt credentials, invoke the collector,
// import its output, update timestamps.
type syncUsecase struct {
	credentialRepo repository.CredentialRepository
	syncRunRepo    repository.SyncRunRepository
	activityRepo   activityrepo.ActivityRepository
	summaryRepo    activityrepo.DailySummaryRepository
	importer       *Importer
	vault          *crypto.Vault
	runner         *garmindb.Runner
	config         *config.Config
}

// NewSyncUsecase creates a new instance of syncUsecase
func NewSyncUsecase(
	credentialRepo repository.CredentialRepository,
	syncRunRepo repository.SyncRunRepository,
	activityRepo activityrepo.ActivityRepository,
	summaryRepo activityrepo.DailySummaryRepository,
	importer *Importer,
	vault *crypto.Vault,
	runner *garmindb.Runner,
	cfg *config.Config,
) SyncUsecase {
	return &syncUsecase{
		credentialRepo: credentialRepo,
		syncRunRepo:    syncRunRepo,
		activityRepo:   activityRepo,
		summaryRepo:    summaryRepo,
		importer:       importer,
		vault:          vault,
		runner:         runner,
		config:         cfg,
	}
}

func (u *syncUsecase) StartSync(ctx context.Context, userID string) (*garmindto.SyncResult, error) {
	// Check-then-insert: two simultaneous requests can both pass this check.
	// Acceptable for a single-user dashboard; the collector itself serializes
	// on its on-disk database.
	running, err := u.syncRunRepo.FindRunning(userID)
	if err != nil {
		return nil, err
	}
	if running != nil {
		return nil, ErrSyncInProgress
	}

	run := &garmindomain.SyncRun{UserID: userID}
	if err := u.syncRunRepo.Create(run); err != nil {
		return nil, err
	}

	start := time.Now()
	result, err := u.runSync(ctx, userID)
	if err != nil {
		u.failRun(run.ID, err)
		observability.RecordSyncRun("failed", time.Since(start))
		return nil, err
	}

	if err := u.syncRunRepo.Complete(run.ID, result.ItemsSynced); err != nil {
		log.Printf("[WARN] could not mark sync run %s completed: %v", run.ID, err)
	}
	observability.RecordSyncRun(result.Status, time.Since(start))
	result.DurationSeconds = int(time.Since(start).Seconds())
	return result, nil
}

func (u *syncUsecase) runSync(ctx context.Context, userID string) (*garmindto.SyncResult, error) {
	if !u.runner.Available() {
		return nil, ErrCollectorMissing
	}

	credential, err := u.credentialRepo.FindByUser(userID)
	if err != nil {
		return nil, err
	}
	if credential == nil {
		return nil, ErrNotConnected
	}

	email, err := u.vault.Decrypt(credential.EncryptedEmail)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	password, err := u.vault.Decrypt(credential.EncryptedPassword)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	workDir := filepath.Join(u.config.DataDir, userID)
	lastSync := u.resolveLastSyncDate(userID, credential)
	if lastSync != nil {
		log.Printf("[SYNC] user %s: incremental sync since %s", userID, lastSync.Format(dateLayout))
	} else {
		log.Printf("[SYNC] user %s: no previous sync, full download", userID)
	}

	// Plaintext credentials exist only inside the collector's config file,
	// written just before the run.
	connectConfig := garmindb.NewConnectConfig(u.config.GarminDomain, email, password, workDir)
	configDir, err := connectConfig.Write(filepath.Join(workDir, ".GarminDb"))
	if err != nil {
		return nil, fmt.Errorf("write collector config: %w", err)
	}

	collectorResult, err := u.runner.Run(ctx, configDir, workDir, lastSync != nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCollectorFailed, err)
	}

	partial := false
	if collectorResult.ExitCode != 0 {
		if !collectorResult.Partial() {
			return nil, fmt.Errorf("%w: exit code %d: %s",
				ErrCollectorFailed, collectorResult.ExitCode, excerpt(collectorResult.Stderr, collectorResult.Stdout))
		}
		partial = true
		log.Printf("[SYNC] user %s: collector exited %d but produced activity output, importing what it fetched",
			userID, collectorResult.ExitCode)
	}

	activities := u.importer.ImportActivities(userID, workDir)
	summaries := u.importer.ImportDailySummaries(userID, workDir)
	observability.RecordImport("activities", activities.Processed, activities.Errors)
	observability.RecordImport("daily_summaries", summaries.Processed, summaries.Errors)

	now := time.Now()
	if err := u.credentialRepo.UpdateLastSync(userID, now); err != nil {
		log.Printf("[WARN] could not update last sync for user %s: %v", userID, err)
	}
	state := &syncState{
		LastSyncDate: now.UTC().Format(dateLayout),
		LastSyncTime: now.UTC().Format(time.RFC3339),
	}
	if err := saveSyncState(u.statePath(userID), state); err != nil {
		log.Printf("[WARN] could not save sync state for user %s: %v", userID, err)
	}

	status := "success"
	if partial {
		status = "partial"
	}
	log.Printf("[SYNC] user %s: %s, %d activities, %d daily summaries, %d errors",
		userID, status, activities.Processed, summaries.Processed, activities.Errors+summaries.Errors)

	return &garmindto.SyncResult{
		Status:          status,
		ItemsSynced:     activities.Processed + summaries.Processed,
		ActivitiesFound: activities.Processed,
		SummariesFound:  summaries.Processed,
		Errors:          activities.Errors + summaries.Errors,
	}, nil
}

func (u *syncUsecase) SyncStatus(userID string) (*garmindto.SyncStatus, error) {
	status := &garmindto.SyncStatus{}

	credential, err := u.credentialRepo.FindByUser(userID)
	if err != nil {
		return nil, err
	}

	if credential != nil && credential.LastSync != nil {
		date := credential.LastSync.UTC().Format(dateLayout)
		full := credential.LastSync.UTC().Format(time.RFC3339)
		status.LastSyncDate = &date
		status.LastSyncTime = &full
	} else if state := loadSyncState(u.statePath(userID)); state != nil && state.LastSyncDate != "" {
		status.LastSyncDate = &state.LastSyncDate
		if state.LastSyncTime != "" {
			status.LastSyncTime = &state.LastSyncTime
		}
	}

	mostRecent := u.mostRecentDataDate(userID)
	if mostRecent != nil {
		date := mostRecent.UTC().Format(dateLayout)
		status.MostRecentDataDate = &date
	}

	// Fresh means the last sync happened on or after the newest stored data.
	switch {
	case status.MostRecentDataDate == nil:
		status.NeedsSync = status.LastSyncDate == nil
	case status.LastSyncDate == nil:
		status.NeedsSync = true
	default:
		status.NeedsSync = *status.LastSyncDate != *status.MostRecentDataDate
	}

	return status, nil
}

// resolveLastSyncDate prefers the credential record's timestamp, then the
// state file, then the newest stored row. Nil means never synced.
func (u *syncUsecase) resolveLastSyncDate(userID string, credential *garmindomain.Credential) *time.Time {
	if credential.LastSync != nil {
		return credential.LastSync
	}

	if state := loadSyncState(u.statePath(userID)); state != nil && state.LastSyncDate != "" {
		if parsed, err := time.Parse(dateLayout, state.LastSyncDate); err == nil {
			return &parsed
		}
	}

	return u.mostRecentDataDate(userID)
}

func (u *syncUsecase) mostRecentDataDate(userID string) *time.Time {
	activityTime, err := u.activityRepo.MostRecentStartTime(userID)
	if err != nil {
		log.Printf("[WARN] could not read most recent activity for user %s: %v", userID, err)
	}
	summaryDate, err := u.summaryRepo.MostRecentDate(userID)
	if err != nil {
		log.Printf("[WARN] could not read most recent summary for user %s: %v", userID, err)
	}

	switch {
	case activityTime == nil:
		return summaryDate
	case summaryDate == nil:
		return activityTime
	case summaryDate.After(*activityTime):
		return summaryDate
	default:
		return activityTime
	}
}

func (u *syncUsecase) statePath(userID string) string {
	return filepath.Join(u.config.DataDir, userID, u.config.SyncStateFile)
}

func (u *syncUsecase) failRun(runID string, cause error) {
	if err := u.syncRunRepo.Fail(runID, cause.Error()); err != nil {
		log.Printf("[WARN] could not mark sync run %s failed: %v", runID, err)
	}
}

// excerpt keeps error messages stored on run rows short.
func excerpt(stderr, stdout string) string {
	s := stderr
	if s == "" {
		s = stdout
	}
	const max = 500
	if len(s) > max {
		s = s[len(s)-max:]
	}
	return s
}
