package usecase

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	activitydomain "runsight-backend/internal/activity/domain"
	"runsight-backend/internal/activity/repository"
	"runsight-backend/internal/stats"
	"runsight-backend/pkg/config"
	"runsight-backend/pkg/fitsplits"
)

// activityUsecase implements ActivityUsecase interface
type activityUsecase struct {
	activityRepo repository.ActivityRepository
	summaryRepo  repository.DailySummaryRepository
	config       *config.Config
}

// NewActivityUsecase creates a new instance of activityUsecase
func NewActivityUsecase(activityRepo repository.ActivityRepository, summaryRepo repository.DailySummaryRepository, cfg *config.Config) ActivityUsecase {
	return &activityUsecase{
		activityRepo: activityRepo,
		summaryRepo:  summaryRepo,
		config:       cfg,
	}
}

func (u *activityUsecase) GetActivities(userID string, opts ListOptions) ([]map[string]interface{}, error) {
	rows, err := u.activityRepo.FindByUser(userID, queryOptions(opts))
	if err != nil {
		return nil, err
	}

	payloads := make([]map[string]interface{}, 0, len(rows))
	for _, row := range rows {
		typed, err := row.TypedPayload()
		if err != nil {
			log.Printf("[WARN] skipping unreadable activity %s: %v", row.ID, err)
			continue
		}
		if opts.ActivityType != "" && typed.TypeKey() != opts.ActivityType {
			continue
		}
		payload, err := row.Payload()
		if err != nil {
			continue
		}
		payloads = append(payloads, payload)
	}
	return payloads, nil
}

func (u *activityUsecase) GetRunningActivities(userID string, opts ListOptions) ([]map[string]interface{}, error) {
	opts.ActivityType = "running"
	return u.GetActivities(userID, opts)
}

func (u *activityUsecase) GetDailySummaries(userID string, opts ListOptions) ([]map[string]interface{}, error) {
	rows, err := u.summaryRepo.FindByUser(userID, queryOptions(opts))
	if err != nil {
		return nil, err
	}

	payloads := make([]map[string]interface{}, 0, len(rows))
	for _, row := range rows {
		payload, err := row.Payload()
		if err != nil {
			log.Printf("[WARN] skipping unreadable daily summary %s: %v", row.ID, err)
			continue
		}
		payloads = append(payloads, payload)
	}
	return payloads, nil
}

func (u *activityUsecase) GetAggregatedSummaries(userID, groupBy string, weekStartDay int, opts ListOptions) (interface{}, error) {
	switch groupBy {
	case GroupByDay, GroupByWeek, GroupByMonth, "":
	default:
		return nil, fmt.Errorf("%w, got %q", ErrBadGroupBy, groupBy)
	}

	typed, err := u.typedSummaries(userID, opts)
	if err != nil {
		return nil, err
	}

	switch groupBy {
	case GroupByWeek:
		return stats.GroupSummariesByWeek(typed, weekStartDay), nil
	case GroupByMonth:
		return stats.GroupSummariesByMonth(typed), nil
	default:
		return stats.AggregateSummaries(typed), nil
	}
}

func (u *activityUsecase) GetHealthMetrics(userID, metric string, opts ListOptions) ([]MetricPoint, error) {
	rows, err := u.summaryRepo.FindByUser(userID, queryOptions(opts))
	if err != nil {
		return nil, err
	}

	points := make([]MetricPoint, 0, len(rows))
	for _, row := range rows {
		payload, err := row.Payload()
		if err != nil {
			continue
		}
		value, present := payload[metric]
		if !present || value == nil {
			continue
		}
		points = append(points, MetricPoint{
			Date:  row.Date.UTC().Format("2006-01-02"),
			Value: value,
		})
	}
	return points, nil
}

func (u *activityUsecase) GetRunningStats(userID string, opts ListOptions) (*stats.RunningTotals, error) {
	opts.ActivityType = "running"
	typed, err := u.typedActivities(userID, opts)
	if err != nil {
		return nil, err
	}
	totals := stats.RunningStats(typed)
	return &totals, nil
}

func (u *activityUsecase) GetAggregatedActivities(userID string, opts ListOptions) (*stats.ActivityTotals, error) {
	typed, err := u.typedActivities(userID, opts)
	if err != nil {
		return nil, err
	}
	totals := stats.AggregateActivities(typed)
	return &totals, nil
}

// GetActivityDetails prefers the collector's detail file; without one it
// falls back to the stored payload.
func (u *activityUsecase) GetActivityDetails(userID string, garminActivityID int64) (map[string]interface{}, error) {
	activity, err := u.activityRepo.FindByUserAndActivityID(userID, garminActivityID)
	if err != nil {
		return nil, err
	}
	if activity == nil {
		return nil, ErrActivityNotFound
	}

	detailPath := filepath.Join(u.config.DataDir, userID, "FitFiles", "Activities",
		fmt.Sprintf("activity_details_%d.json", garminActivityID))
	if data, err := os.ReadFile(detailPath); err == nil {
		details := map[string]interface{}{}
		if err := json.Unmarshal(data, &details); err == nil {
			return details, nil
		}
		log.Printf("[WARN] unreadable detail file for activity %d, falling back to stored payload", garminActivityID)
	}

	return activity.Payload()
}

func (u *activityUsecase) GetActivitySplits(userID string, garminActivityID int64, unit string) ([]fitsplits.Split, error) {
	activity, err := u.activityRepo.FindByUserAndActivityID(userID, garminActivityID)
	if err != nil {
		return nil, err
	}
	if activity == nil {
		return nil, ErrActivityNotFound
	}

	// The collector names activity FIT files <id>_ACTIVITY.fit.
	fitPath := filepath.Join(u.config.DataDir, userID, "FitFiles", "Activities",
		fmt.Sprintf("%d_ACTIVITY.fit", garminActivityID))
	data, err := os.ReadFile(fitPath)
	if err != nil {
		return nil, ErrNoSplitData
	}

	splitDistance := stats.UnitKilometers
	if unit == "miles" {
		splitDistance = stats.UnitMiles
	}

	splits, err := fitsplits.ExtractSplits(data, splitDistance)
	if err != nil {
		return nil, ErrNoSplitData
	}
	return splits, nil
}

func (u *activityUsecase) typedActivities(userID string, opts ListOptions) ([]activitydomain.ActivityPayload, error) {
	rows, err := u.activityRepo.FindByUser(userID, queryOptions(opts))
	if err != nil {
		return nil, err
	}

	typed := make([]activitydomain.ActivityPayload, 0, len(rows))
	for _, row := range rows {
		payload, err := row.TypedPayload()
		if err != nil {
			continue
		}
		if opts.ActivityType != "" && payload.TypeKey() != opts.ActivityType {
			continue
		}
		typed = append(typed, *payload)
	}
	return typed, nil
}

func (u *activityUsecase) typedSummaries(userID string, opts ListOptions) ([]activitydomain.DailySummaryPayload, error) {
	rows, err := u.summaryRepo.FindByUser(userID, queryOptions(opts))
	if err != nil {
		return nil, err
	}

	typed := make([]activitydomain.DailySummaryPayload, 0, len(rows))
	for _, row := range rows {
		payload, err := row.TypedPayload()
		if err != nil {
			continue
		}
		typed = append(typed, *payload)
	}
	return typed, nil
}

func queryOptions(opts ListOptions) repository.QueryOptions {
	return repository.QueryOptions{
		StartDate: opts.StartDate,
		EndDate:   opts.EndDate,
		Limit:     opts.Limit,
	}
}
