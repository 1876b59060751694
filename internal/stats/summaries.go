package stats

import (
	"sort"

	activitydomain "runsight-backend/internal/activity/domain"
)

// PeriodBucket accumulates one week or month of daily summaries. Distance is
// reported in kilometers. Optional metric averages are nil when no
// contributing day carried the metric.
type PeriodBucket struct {
	WeekStart           string   `json:"weekStart,omitempty"`
	Month               string   `json:"month,omitempty"`
	TotalSteps          float64  `json:"totalSteps"`
	TotalDistance       float64  `json:"totalDistance"`
	TotalCalories       float64  `json:"totalCalories"`
	AvgRestingHeartRate *float64 `json:"avgRestingHeartRate"`
	AvgStressLevel      *float64 `json:"avgStressLevel"`
	AvgBodyBattery      *float64 `json:"avgBodyBattery"`
	Days                int      `json:"days"`
}

// SummaryTotals is the overall aggregation across a set of daily summaries.
type SummaryTotals struct {
	TotalDays           int      `json:"totalDays"`
	TotalSteps          float64  `json:"totalSteps"`
	TotalDistance       float64  `json:"totalDistance"` // km
	TotalCalories       float64  `json:"totalCalories"`
	AvgSteps            float64  `json:"avgSteps"`
	AvgDistance         float64  `json:"avgDistance"`
	AvgCalories         float64  `json:"avgCalories"`
	AvgRestingHeartRate *float64 `json:"avgRestingHeartRate"`
	AvgStressLevel      *float64 `json:"avgStressLevel"`
	AvgBodyBattery      *float64 `json:"avgBodyBattery"`
}

type bucketAccumulator struct {
	bucket       *PeriodBucket
	restingHR    []float64
	stressLevels []float64
	bodyBattery  []float64
}

func (acc *bucketAccumulator) add(summary activitydomain.DailySummaryPayload) {
	acc.bucket.TotalSteps += summary.TotalSteps
	acc.bucket.TotalDistance += summary.TotalDistanceMeters / 1000
	acc.bucket.TotalCalories += summary.TotalKilocalories
	if summary.RestingHeartRate != nil {
		acc.restingHR = append(acc.restingHR, *summary.RestingHeartRate)
	}
	if summary.AverageStressLevel != nil {
		acc.stressLevels = append(acc.stressLevels, *summary.AverageStressLevel)
	}
	if summary.BodyBatteryHighestValue != nil {
		acc.bodyBattery = append(acc.bodyBattery, *summary.BodyBatteryHighestValue)
	}
	acc.bucket.Days++
}

func (acc *bucketAccumulator) finish() {
	acc.bucket.AvgRestingHeartRate = mean(acc.restingHR)
	acc.bucket.AvgStressLevel = mean(acc.stressLevels)
	acc.bucket.AvgBodyBattery = mean(acc.bodyBattery)
}

// GroupSummariesByWeek partitions daily summaries into week buckets keyed by
// the computed week-start date. Summaries with unparseable dates are dropped.
// Buckets are returned in ascending key order.
func GroupSummariesByWeek(summaries []activitydomain.DailySummaryPayload, weekStartDay int) []PeriodBucket {
	accumulators := map[string]*bucketAccumulator{}

	for _, summary := range summaries {
		date, ok := activitydomain.ParseCalendarDate(summary.CalendarDate)
		if !ok {
			continue
		}

		key := WeekStart(date, weekStartDay).Format("2006-01-02")
		acc, exists := accumulators[key]
		if !exists {
			acc = &bucketAccumulator{bucket: &PeriodBucket{WeekStart: key}}
			accumulators[key] = acc
		}
		acc.add(summary)
	}

	return collectBuckets(accumulators)
}

// GroupSummariesByMonth partitions daily summaries into YYYY-MM buckets.
func GroupSummariesByMonth(summaries []activitydomain.DailySummaryPayload) []PeriodBucket {
	accumulators := map[string]*bucketAccumulator{}

	for _, summary := range summaries {
		date, ok := activitydomain.ParseCalendarDate(summary.CalendarDate)
		if !ok {
			continue
		}

		key := date.Format("2006-01")
		acc, exists := accumulators[key]
		if !exists {
			acc = &bucketAccumulator{bucket: &PeriodBucket{Month: key}}
			accumulators[key] = acc
		}
		acc.add(summary)
	}

	return collectBuckets(accumulators)
}

func collectBuckets(accumulators map[string]*bucketAccumulator) []PeriodBucket {
	keys := make([]string, 0, len(accumulators))
	for key := range accumulators {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	buckets := make([]PeriodBucket, 0, len(keys))
	for _, key := range keys {
		acc := accumulators[key]
		acc.finish()
		buckets = append(buckets, *acc.bucket)
	}
	return buckets
}

// AggregateSummaries computes totals and per-day averages across the whole
// set. An empty set yields a zero-filled result with nil optional averages,
// never NaN.
func AggregateSummaries(summaries []activitydomain.DailySummaryPayload) SummaryTotals {
	totals := SummaryTotals{TotalDays: len(summaries)}
	if len(summaries) == 0 {
		return totals
	}

	var restingHR, stressLevels, bodyBattery []float64
	for _, summary := range summaries {
		totals.TotalSteps += summary.TotalSteps
		totals.TotalDistance += summary.TotalDistanceMeters / 1000
		totals.TotalCalories += summary.TotalKilocalories
		if summary.RestingHeartRate != nil {
			restingHR = append(restingHR, *summary.RestingHeartRate)
		}
		if summary.AverageStressLevel != nil {
			stressLevels = append(stressLevels, *summary.AverageStressLevel)
		}
		if summary.BodyBatteryHighestValue != nil {
			bodyBattery = append(bodyBattery, *summary.BodyBatteryHighestValue)
		}
	}

	days := float64(totals.TotalDays)
	totals.AvgSteps = totals.TotalSteps / days
	totals.AvgDistance = totals.TotalDistance / days
	totals.AvgCalories = totals.TotalCalories / days
	totals.AvgRestingHeartRate = mean(restingHR)
	totals.AvgStressLevel = mean(stressLevels)
	totals.AvgBodyBattery = mean(bodyBattery)

	return totals
}

// mean returns the average of values, or nil for an empty slice.
func mean(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	avg := sum / float64(len(values))
	return &avg
}
