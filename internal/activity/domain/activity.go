package domain

import (
	"encoding/json"
	"time"
)

// Activity stores one synced activity. Data holds the collector's raw JSON
// payload; only the natural key and start time are extracted for querying.
type Activity struct {
	ID               string          `json:"id" gorm:"primaryKey"`
	UserID           string          `json:"user_id" gorm:"uniqueIndex:idx_user_garmin_activity;not null"`
	GarminActivityID int64           `json:"garmin_activity_id" gorm:"uniqueIndex:idx_user_garmin_activity;not null"`
	Data             json.RawMessage `json:"-" gorm:"type:jsonb"`
	StartTime        time.Time       `json:"start_time" gorm:"index"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// DailySummary stores one synced day of health metrics, keyed by calendar date.
type DailySummary struct {
	ID        string          `json:"id" gorm:"primaryKey"`
	UserID    string          `json:"user_id" gorm:"uniqueIndex:idx_user_summary_date;not null"`
	Date      time.Time       `json:"date" gorm:"uniqueIndex:idx_user_summary_date;not null"`
	Data      json.RawMessage `json:"-" gorm:"type:jsonb"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ActivityTypeRef is the nested type descriptor inside an activity payload.
type ActivityTypeRef struct {
	TypeKey string `json:"typeKey"`
}

// ActivityPayload is the subset of the raw activity JSON the aggregation
// engine reads. Optional metrics are pointers so that absent values stay out
// of averages instead of counting as zero.
type ActivityPayload struct {
	ActivityID              int64            `json:"activityId"`
	ActivityName            string           `json:"activityName,omitempty"`
	StartTimeGMT            string           `json:"startTimeGMT"`
	ActivityType            *ActivityTypeRef `json:"activityType,omitempty"`
	Distance                float64          `json:"distance"`      // meters
	Duration                float64          `json:"duration"`      // seconds
	Calories                float64          `json:"calories"`
	ElevationGain           float64          `json:"elevationGain"` // meters
	AverageSpeed            float64          `json:"averageSpeed"`  // m/s
	AverageHR               *float64         `json:"averageHR,omitempty"`
	MaxHR                   *float64         `json:"maxHR,omitempty"`
	AverageRunningCadence   *float64         `json:"averageRunningCadenceInStepsPerMinute,omitempty"`
	AerobicTrainingEffect   *float64         `json:"aerobicTrainingEffect,omitempty"`
	AnaerobicTrainingEffect *float64         `json:"anaerobicTrainingEffect,omitempty"`
}

// TypeKey returns the activity type key or "unknown".
func (p *ActivityPayload) TypeKey() string {
	if p.ActivityType == nil || p.ActivityType.TypeKey == "" {
		return "unknown"
	}
	return p.ActivityType.TypeKey
}

// DailySummaryPayload is the subset of the raw daily-metrics JSON the
// aggregation engine reads.
type DailySummaryPayload struct {
	CalendarDate            string   `json:"calendarDate"`
	TotalSteps              float64  `json:"totalSteps"`
	TotalDistanceMeters     float64  `json:"totalDistanceMeters"`
	TotalKilocalories       float64  `json:"totalKilocalories"`
	RestingHeartRate        *float64 `json:"restingHeartRate,omitempty"`
	AverageStressLevel      *float64 `json:"averageStressLevel,omitempty"`
	BodyBatteryHighestValue *float64 `json:"bodyBatteryHighestValue,omitempty"`
}

// Payload decodes the raw activity JSON into a generic map with startTimeGMT
// normalized to the stored start time, matching the shape clients expect.
func (a *Activity) Payload() (map[string]interface{}, error) {
	payload := map[string]interface{}{}
	if err := json.Unmarshal(a.Data, &payload); err != nil {
		return nil, err
	}
	payload["startTimeGMT"] = a.StartTime.UTC().Format(time.RFC3339)
	return payload, nil
}

// TypedPayload decodes the raw activity JSON into the typed aggregation view.
func (a *Activity) TypedPayload() (*ActivityPayload, error) {
	var payload ActivityPayload
	if err := json.Unmarshal(a.Data, &payload); err != nil {
		return nil, err
	}
	payload.StartTimeGMT = a.StartTime.UTC().Format(time.RFC3339)
	return &payload, nil
}

// Payload decodes the raw summary JSON into a generic map with calendarDate
// normalized to the stored date.
func (s *DailySummary) Payload() (map[string]interface{}, error) {
	payload := map[string]interface{}{}
	if err := json.Unmarshal(s.Data, &payload); err != nil {
		return nil, err
	}
	payload["calendarDate"] = s.Date.UTC().Format("2006-01-02")
	return payload, nil
}

// TypedPayload decodes the raw summary JSON into the typed aggregation view.
func (s *DailySummary) TypedPayload() (*DailySummaryPayload, error) {
	var payload DailySummaryPayload
	if err := json.Unmarshal(s.Data, &payload); err != nil {
		return nil, err
	}
	payload.CalendarDate = s.Date.UTC().Format("2006-01-02")
	return &payload, nil
}

// startTimeFormats covers the timestamp shapes seen in collector output.
var startTimeFormats = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseStartTime parses an activity start timestamp in any supported format.
func ParseStartTime(value string) (time.Time, bool) {
	for _, layout := range startTimeFormats {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.UTC(), true
		}
	}
	return time.Time{}, false
}

// ParseCalendarDate parses a YYYY-MM-DD calendar date.
func ParseCalendarDate(value string) (time.Time, bool) {
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, false
	}
	return parsed.UTC(), true
}
