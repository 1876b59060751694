package usecase

import (
	"errors"
	"time"

	"runsight-backend/internal/stats"
	"runsight-backend/pkg/fitsplits"
)

var (
	ErrActivityNotFound = errors.New("activity not found")
	ErrNoSplitData      = errors.New("no split data for this activity")
	ErrBadGroupBy       = errors.New("groupBy must be day, week or month")
)

// ListOptions narrows read queries. Nil bounds are open-ended; an empty
// ActivityType keeps all types; a zero Limit means no limit.
type ListOptions struct {
	StartDate    *time.Time
	EndDate      *time.Time
	Limit        int
	ActivityType string
}

// WeekGrouping selects the bucket granularity for aggregated summaries.
const (
	GroupByDay   = "day"
	GroupByWeek  = "week"
	GroupByMonth = "month"
)

// ActivityUsecase defines the interface for data-read operations
type ActivityUsecase interface {
	GetActivities(userID string, opts ListOptions) ([]map[string]interface{}, error)
	GetRunningActivities(userID string, opts ListOptions) ([]map[string]interface{}, error)
	GetDailySummaries(userID string, opts ListOptions) ([]map[string]interface{}, error)
	GetAggregatedSummaries(userID, groupBy string, weekStartDay int, opts ListOptions) (interface{}, error)
	GetHealthMetrics(userID, metric string, opts ListOptions) ([]MetricPoint, error)
	GetRunningStats(userID string, opts ListOptions) (*stats.RunningTotals, error)
	GetAggregatedActivities(userID string, opts ListOptions) (*stats.ActivityTotals, error)
	GetActivityDetails(userID string, garminActivityID int64) (map[string]interface{}, error)
	GetActivitySplits(userID string, garminActivityID int64, unit string) ([]fitsplits.Split, error)
}

// MetricPoint is one day of a single health metric series.
type MetricPoint struct {
	Date  string      `json:"date"`
	Value interface{} `json:"value"`
}
