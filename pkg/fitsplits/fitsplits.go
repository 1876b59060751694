package fitsplits

import (
	"bytes"
	"fmt"
	"time"

	"github.com/muktihari/fit/decoder"
	"github.com/muktihari/fit/profile/mesgdef"
	"github.com/muktihari/fit/profile/typedef"
)

// Split is one distance segment of an activity.
type Split struct {
	Index           int     `json:"index"`
	DistanceMeters  float64 `json:"distanceMeters"`
	DurationSeconds float64 `json:"durationSeconds"`
	PaceMinutes     float64 `json:"paceMinutes"`
	AvgHeartRate    *int    `json:"avgHeartRate,omitempty"`
}

type trackpoint struct {
	timestamp time.Time
	distance  float64 // cumulative meters
	heartRate int     // 0 when absent
}

// ExtractSplits decodes a FIT activity file and slices its record stream into
// splits of splitDistance meters (1000 for km, 1609.34 for miles). The final
// partial segment is included with its actual distance. Records without a
// timestamp or cumulative distance are skipped.
func ExtractSplits(data []byte, splitDistance float64) ([]Split, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty FIT data")
	}
	if splitDistance <= 0 {
		return nil, fmt.Errorf("split distance must be positive, got %f", splitDistance)
	}

	points, err := decodeTrackpoints(data)
	if err != nil {
		return nil, err
	}
	if len(points) < 2 {
		return nil, fmt.Errorf("not enough records to compute splits")
	}

	return buildSplits(points, splitDistance), nil
}

func decodeTrackpoints(data []byte) ([]trackpoint, error) {
	fitDec := decoder.New(bytes.NewReader(data))

	var points []trackpoint
	for fitDec.Next() {
		fitData, err := fitDec.Decode()
		if err != nil {
			return nil, fmt.Errorf("failed to decode FIT file: %w", err)
		}

		for _, msg := range fitData.Messages {
			if msg.Num != typedef.MesgNumRecord {
				continue
			}

			recordMsg := mesgdef.NewRecord(&msg)
			if recordMsg.Timestamp.IsZero() {
				continue
			}
			if recordMsg.Distance == 0xFFFFFFFF { // invalid
				continue
			}

			point := trackpoint{
				timestamp: recordMsg.Timestamp.UTC(),
				distance:  float64(recordMsg.Distance) / 100, // FIT stores cm
			}
			if recordMsg.HeartRate != 0xFF { // 0xFF is invalid
				point.heartRate = int(recordMsg.HeartRate)
			}
			points = append(points, point)
		}
	}

	return points, nil
}

func buildSplits(points []trackpoint, splitDistance float64) []Split {
	var splits []Split

	splitStart := points[0]
	var hrSum, hrCount int
	threshold := splitStart.distance + splitDistance

	closeSplit := func(end trackpoint) {
		distance := end.distance - splitStart.distance
		duration := end.timestamp.Sub(splitStart.timestamp).Seconds()
		if distance <= 0 || duration <= 0 {
			return
		}

		split := Split{
			Index:           len(splits) + 1,
			DistanceMeters:  distance,
			DurationSeconds: duration,
			PaceMinutes:     (duration / 60) / (distance / splitDistance),
		}
		if hrCount > 0 {
			avg := hrSum / hrCount
			split.AvgHeartRate = &avg
		}
		splits = append(splits, split)
	}

	for _, point := range points[1:] {
		if point.heartRate > 0 {
			hrSum += point.heartRate
			hrCount++
		}

		if point.distance >= threshold {
			closeSplit(point)
			splitStart = point
			threshold = splitStart.distance + splitDistance
			hrSum, hrCount = 0, 0
		}
	}

	// Trailing partial split.
	last := points[len(points)-1]
	if last.distance > splitStart.distance {
		closeSplit(last)
	}

	return splits
}
