package stats

import (
	"fmt"
	"math"

	activitydomain "runsight-backend/internal/activity/domain"
)

// Meters per pace unit.
const (
	UnitKilometers = 1000.0
	UnitMiles      = 1609.34
)

// RunningTotals aggregates a set of running activities. Distances are in
// kilometers, durations in seconds, paces in minutes per kilometer.
type RunningTotals struct {
	TotalRuns          int      `json:"totalRuns"`
	TotalDistance      float64  `json:"totalDistance"`
	TotalDuration      float64  `json:"totalDuration"`
	TotalCalories      float64  `json:"totalCalories"`
	TotalElevationGain float64  `json:"totalElevationGain"`
	AvgDistance        float64  `json:"avgDistance"`
	AvgDuration        float64  `json:"avgDuration"`
	AvgPace            *float64 `json:"avgPace"`
	AvgHeartRate       *float64 `json:"avgHeartRate"`
	AvgCadence         *float64 `json:"avgCadence"`
	BestPace           *float64 `json:"bestPace"`
	LongestRun         float64  `json:"longestRun"`
}

// TypeTotals is the per-activity-type breakdown inside ActivityTotals.
type TypeTotals struct {
	Count         int     `json:"count"`
	TotalDistance float64 `json:"totalDistance"` // km
	TotalDuration float64 `json:"totalDuration"` // seconds
	TotalCalories float64 `json:"totalCalories"`
}

// ActivityTotals aggregates activities of any type.
type ActivityTotals struct {
	TotalActivities    int                   `json:"totalActivities"`
	TotalDistance      float64               `json:"totalDistance"` // km
	TotalDuration      float64               `json:"totalDuration"` // seconds
	TotalCalories      float64               `json:"totalCalories"`
	TotalElevationGain float64               `json:"totalElevationGain"` // meters
	AvgDistance        float64               `json:"avgDistance"`
	AvgDuration        float64               `json:"avgDuration"`
	AvgCalories        float64               `json:"avgCalories"`
	AvgHeartRate       *float64              `json:"avgHeartRate"`
	MaxHeartRate       *float64              `json:"maxHeartRate"`
	ActivitiesByType   map[string]TypeTotals `json:"activitiesByType"`
}

// PaceFromSpeed converts a speed in m/s to minutes per unit (1000 m for
// kilometers, 1609.34 m for miles).
func PaceFromSpeed(speed, unitMeters float64) float64 {
	return unitMeters / speed / 60
}

// FormatPace renders a pace in minutes as "M:SS".
func FormatPace(paceMinutes float64) string {
	minutes := int(paceMinutes)
	seconds := int(math.Round((paceMinutes - float64(minutes)) * 60))
	if seconds == 60 {
		minutes++
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

// RunningStats aggregates running activities. An empty set yields an explicit
// zero/nil result rather than NaN from zero divisions.
func RunningStats(activities []activitydomain.ActivityPayload) RunningTotals {
	totals := RunningTotals{TotalRuns: len(activities)}
	if len(activities) == 0 {
		return totals
	}

	var speeds, heartRates, cadences []float64
	bestPace := math.Inf(1)
	for _, activity := range activities {
		totals.TotalDistance += activity.Distance
		totals.TotalDuration += activity.Duration
		totals.TotalCalories += activity.Calories
		totals.TotalElevationGain += activity.ElevationGain
		totals.LongestRun = math.Max(totals.LongestRun, activity.Distance/1000)

		if activity.AverageSpeed > 0 {
			speeds = append(speeds, activity.AverageSpeed)
			bestPace = math.Min(bestPace, PaceFromSpeed(activity.AverageSpeed, UnitKilometers))
		}
		if activity.AverageHR != nil {
			heartRates = append(heartRates, *activity.AverageHR)
		}
		if activity.AverageRunningCadence != nil {
			cadences = append(cadences, *activity.AverageRunningCadence)
		}
	}

	runs := float64(totals.TotalRuns)
	totals.AvgDistance = totals.TotalDistance / runs / 1000
	totals.AvgDuration = totals.TotalDuration / runs
	totals.TotalDistance /= 1000

	if avgSpeed := mean(speeds); avgSpeed != nil {
		pace := PaceFromSpeed(*avgSpeed, UnitKilometers)
		totals.AvgPace = &pace
		best := bestPace
		totals.BestPace = &best
	}
	totals.AvgHeartRate = mean(heartRates)
	totals.AvgCadence = mean(cadences)

	return totals
}

// AggregateActivities aggregates activities of any type, including the
// by-type breakdown.
func AggregateActivities(activities []activitydomain.ActivityPayload) ActivityTotals {
	totals := ActivityTotals{
		TotalActivities:  len(activities),
		ActivitiesByType: map[string]TypeTotals{},
	}
	if len(activities) == 0 {
		return totals
	}

	var heartRates []float64
	var maxHR *float64
	for _, activity := range activities {
		totals.TotalDistance += activity.Distance / 1000
		totals.TotalDuration += activity.Duration
		totals.TotalCalories += activity.Calories
		totals.TotalElevationGain += activity.ElevationGain

		if activity.AverageHR != nil {
			heartRates = append(heartRates, *activity.AverageHR)
		}
		if activity.MaxHR != nil && (maxHR == nil || *activity.MaxHR > *maxHR) {
			value := *activity.MaxHR
			maxHR = &value
		}

		typeKey := activity.TypeKey()
		byType := totals.ActivitiesByType[typeKey]
		byType.Count++
		byType.TotalDistance += activity.Distance / 1000
		byType.TotalDuration += activity.Duration
		byType.TotalCalories += activity.Calories
		totals.ActivitiesByType[typeKey] = byType
	}

	count := float64(totals.TotalActivities)
	totals.AvgDistance = totals.TotalDistance / count
	totals.AvgDuration = totals.TotalDuration / count
	totals.AvgCalories = totals.TotalCalories / count
	totals.AvgHeartRate = mean(heartRates)
	totals.MaxHeartRate = maxHR

	return totals
}
