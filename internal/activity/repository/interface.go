package repository

import (
	"time"

	activitydomain "runsight-backend/internal/activity/domain"
)

// QueryOptions narrows list queries by date range and row count. Nil bounds
// are open-ended; a zero limit means no limit.
type QueryOptions struct {
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
}

// ActivityRepository defines the interface for activity persistence
type ActivityRepository interface {
	// Upsert inserts or replaces the payload keyed on (user, garmin activity id)
	Upsert(activity *activitydomain.Activity) error
	FindByUser(userID string, opts QueryOptions) ([]activitydomain.Activity, error)
	FindByUserAndActivityID(userID string, garminActivityID int64) (*activitydomain.Activity, error)
	MostRecentStartTime(userID string) (*time.Time, error)
}

// DailySummaryRepository defines the interface for daily summary persistence
type DailySummaryRepository interface {
	// Upsert inserts or replaces the payload keyed on (user, calendar date)
	Upsert(summary *activitydomain.DailySummary) error
	FindByUser(userID string, opts QueryOptions) ([]activitydomain.DailySummary, error)
	MostRecentDate(userID string) (*time.Time, error)
}
