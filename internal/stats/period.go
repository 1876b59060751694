package stats

import (
	"time"

	activitydomain "runsight-backend/internal/activity/domain"
)

// FilterActivitiesByPeriod returns the activities whose start time falls
// within [start, end] inclusive. Activities with unparseable start times are
// excluded, not errored.
func FilterActivitiesByPeriod(activities []activitydomain.ActivityPayload, start, end time.Time) []activitydomain.ActivityPayload {
	var filtered []activitydomain.ActivityPayload
	for _, activity := range activities {
		when, ok := activitydomain.ParseStartTime(activity.StartTimeGMT)
		if !ok {
			continue
		}
		if when.Before(start) || when.After(end) {
			continue
		}
		filtered = append(filtered, activity)
	}
	return filtered
}

// FilterSummariesByPeriod returns the summaries whose calendar date falls
// within [start, end] inclusive, excluding unparseable dates.
func FilterSummariesByPeriod(summaries []activitydomain.DailySummaryPayload, start, end time.Time) []activitydomain.DailySummaryPayload {
	var filtered []activitydomain.DailySummaryPayload
	for _, summary := range summaries {
		date, ok := activitydomain.ParseCalendarDate(summary.CalendarDate)
		if !ok {
			continue
		}
		if date.Before(start) || date.After(end) {
			continue
		}
		filtered = append(filtered, summary)
	}
	return filtered
}

// WeekStart returns the start of the week containing t under the given
// week-start-day convention (0 = Sunday .. 6 = Saturday), truncated to
// midnight UTC. Out-of-range weekStartDay falls back to Sunday.
func WeekStart(t time.Time, weekStartDay int) time.Time {
	if weekStartDay < 0 || weekStartDay > 6 {
		weekStartDay = 0
	}

	day := int(t.UTC().Weekday())
	var diff int
	if day >= weekStartDay {
		diff = day - weekStartDay
	} else {
		diff = 7 - (weekStartDay - day)
	}

	start := t.UTC().AddDate(0, 0, -diff)
	return time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
}
