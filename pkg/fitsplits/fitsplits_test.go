package fitsplits

import (
	"bytes"
	"testing"
	"time"

	"github.com/muktihari/fit/encoder"
	"github.com/muktihari/fit/profile/mesgdef"
	"github.com/muktihari/fit/profile/typedef"
	"github.com/muktihari/fit/proto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// encodeTestActivity builds a FIT file with one record every interval,
// advancing the cumulative distance by stepMeters per record.
func encodeTestActivity(t *testing.T, start time.Time, records int, interval time.Duration, stepMeters float64, heartRate uint8) []byte {
	t.Helper()

	fit := &proto.FIT{}

	fileId := mesgdef.NewFileId(nil).
		SetType(typedef.FileActivity).
		SetManufacturer(typedef.ManufacturerDevelopment).
		SetProduct(1).
		SetTimeCreated(start)
	fit.Messages = append(fit.Messages, fileId.ToMesg(nil))

	for i := 0; i <= records; i++ {
		record := mesgdef.NewRecord(nil).
			SetTimestamp(start.Add(time.Duration(i) * interval)).
			SetDistance(uint32(float64(i) * stepMeters * 100)) // FIT stores cm
		if heartRate > 0 {
			record.SetHeartRate(heartRate)
		}
		fit.Messages = append(fit.Messages, record.ToMesg(nil))
	}

	var buf bytes.Buffer
	require.NoError(t, encoder.New(&buf).Encode(fit))
	return buf.Bytes()
}

func TestExtractSplitsEvenPace(t *testing.T) {
	start := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)
	// 100 m every 30 s = 5:00 min/km, 2.5 km total.
	data := encodeTestActivity(t, start, 25, 30*time.Second, 100, 150)

	splits, err := ExtractSplits(data, 1000)
	require.NoError(t, err)
	require.Len(t, splits, 3)

	for i, split := range splits[:2] {
		assert.Equal(t, i+1, split.Index)
		assert.InDelta(t, 1000, split.DistanceMeters, 0.5)
		assert.InDelta(t, 300, split.DurationSeconds, 0.5)
		assert.InDelta(t, 5.0, split.PaceMinutes, 0.01)
		require.NotNil(t, split.AvgHeartRate)
		assert.Equal(t, 150, *split.AvgHeartRate)
	}

	// Trailing partial 500 m at the same pace.
	partial := splits[2]
	assert.InDelta(t, 500, partial.DistanceMeters, 0.5)
	assert.InDelta(t, 150, partial.DurationSeconds, 0.5)
	assert.InDelta(t, 5.0, partial.PaceMinutes, 0.01)
}

func TestExtractSplitsMileUnit(t *testing.T) {
	start := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)
	// 2000 m at 100 m / 30 s: just over one mile.
	data := encodeTestActivity(t, start, 20, 30*time.Second, 100, 0)

	splits, err := ExtractSplits(data, 1609.34)
	require.NoError(t, err)
	require.NotEmpty(t, splits)

	first := splits[0]
	assert.GreaterOrEqual(t, first.DistanceMeters, 1609.34)
	assert.Nil(t, first.AvgHeartRate)
}

func TestExtractSplitsErrors(t *testing.T) {
	_, err := ExtractSplits(nil, 1000)
	assert.Error(t, err)

	_, err = ExtractSplits([]byte{0x01, 0x02}, 1000)
	assert.Error(t, err)

	start := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)
	data := encodeTestActivity(t, start, 10, 30*time.Second, 100, 0)
	_, err = ExtractSplits(data, 0)
	assert.Error(t, err)
}

func TestExtractSplitsTooFewRecords(t *testing.T) {
	start := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)
	data := encodeTestActivity(t, start, 0, 30*time.Second, 100, 0)

	_, err := ExtractSplits(data, 1000)
	assert.Error(t, err)
}
