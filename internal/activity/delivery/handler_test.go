package delivery

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"runsight-backend/internal/activity/usecase"
	"runsight-backend/internal/stats"
	"runsight-backend/pkg/fitsplits"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubActivityUsecase struct {
	activities []map[string]interface{}
	splitsErr  error
	detailsErr error
	aggErr     error
}

func (s *stubActivityUsecase) GetActivities(userID string, opts usecase.ListOptions) ([]map[string]interface{}, error) {
	return s.activities, nil
}

func (s *stubActivityUsecase) GetRunningActivities(userID string, opts usecase.ListOptions) ([]map[string]interface{}, error) {
	return s.activities, nil
}

func (s *stubActivityUsecase) GetDailySummaries(userID string, opts usecase.ListOptions) ([]map[string]interface{}, error) {
	return s.activities, nil
}

func (s *stubActivityUsecase) GetAggregatedSummaries(userID, groupBy string, weekStartDay int, opts usecase.ListOptions) (interface{}, error) {
	if s.aggErr != nil {
		return nil, s.aggErr
	}
	return stats.SummaryTotals{}, nil
}

func (s *stubActivityUsecase) GetHealthMetrics(userID, metric string, opts usecase.ListOptions) ([]usecase.MetricPoint, error) {
	return []usecase.MetricPoint{{Date: "2024-01-01", Value: 52.0}}, nil
}

func (s *stubActivityUsecase) GetRunningStats(userID string, opts usecase.ListOptions) (*stats.RunningTotals, error) {
	return &stats.RunningTotals{TotalRuns: 3}, nil
}

func (s *stubActivityUsecase) GetAggregatedActivities(userID string, opts usecase.ListOptions) (*stats.ActivityTotals, error) {
	return &stats.ActivityTotals{TotalActivities: 5}, nil
}

func (s *stubActivityUsecase) GetActivityDetails(userID string, garminActivityID int64) (map[string]interface{}, error) {
	if s.detailsErr != nil {
		return nil, s.detailsErr
	}
	return map[string]interface{}{"activityId": garminActivityID}, nil
}

func (s *stubActivityUsecase) GetActivitySplits(userID string, garminActivityID int64, unit string) ([]fitsplits.Split, error) {
	if s.splitsErr != nil {
		return nil, s.splitsErr
	}
	return []fitsplits.Split{{Index: 1, DistanceMeters: 1000}}, nil
}

func newTestRouter(stub *stubActivityUsecase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewActivityHandler(stub, 1)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", "user-1")
	})
	r.GET("/api/activities", handler.GetActivities)
	r.GET("/api/activities/:id/details", handler.GetActivityDetails)
	r.GET("/api/activities/:id/splits", handler.GetActivitySplits)
	r.GET("/api/running/stats", handler.GetRunningStats)
	r.GET("/api/health-metrics", handler.GetHealthMetrics)
	r.GET("/api/daily-summaries/aggregated", handler.GetAggregatedSummaries)
	return r
}

func doRequest(t *testing.T, r *gin.Engine, path string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(w, req)

	body := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestGetActivitiesEnvelope(t *testing.T) {
	stub := &stubActivityUsecase{activities: []map[string]interface{}{
		{"activityId": float64(1)},
		{"activityId": float64(2)},
	}}
	r := newTestRouter(stub)

	w, body := doRequest(t, r, "/api/activities")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), body["count"])
	assert.Len(t, body["data"], 2)
}

func TestGetActivitiesBadDate(t *testing.T) {
	r := newTestRouter(&stubActivityUsecase{})

	w, body := doRequest(t, r, "/api/activities?startDate=01-02-2024")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, body["error"], "startDate")
}

func TestGetActivitiesBadLimit(t *testing.T) {
	r := newTestRouter(&stubActivityUsecase{})

	w, _ := doRequest(t, r, "/api/activities?limit=-3")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetActivityDetailsNotFound(t *testing.T) {
	r := newTestRouter(&stubActivityUsecase{detailsErr: usecase.ErrActivityNotFound})

	w, body := doRequest(t, r, "/api/activities/123/details")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "activity not found", body["error"])
}

func TestGetActivityDetailsBadID(t *testing.T) {
	r := newTestRouter(&stubActivityUsecase{})

	w, _ := doRequest(t, r, "/api/activities/abc/details")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetActivitySplits(t *testing.T) {
	r := newTestRouter(&stubActivityUsecase{})

	w, body := doRequest(t, r, "/api/activities/123/splits?unit=miles")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), body["count"])
}

func TestGetActivitySplitsBadUnit(t *testing.T) {
	r := newTestRouter(&stubActivityUsecase{})

	w, _ := doRequest(t, r, "/api/activities/123/splits?unit=furlongs")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetActivitySplitsNoData(t *testing.T) {
	r := newTestRouter(&stubActivityUsecase{splitsErr: usecase.ErrNoSplitData})

	w, body := doRequest(t, r, "/api/activities/123/splits")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "no split data for this activity", body["error"])
}

func TestGetRunningStats(t *testing.T) {
	r := newTestRouter(&stubActivityUsecase{})

	w, body := doRequest(t, r, "/api/running/stats")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(3), body["totalRuns"])
}

func TestGetAggregatedSummariesErrorMapping(t *testing.T) {
	// An unknown groupBy is the caller's fault.
	r := newTestRouter(&stubActivityUsecase{aggErr: usecase.ErrBadGroupBy})
	w, body := doRequest(t, r, "/api/daily-summaries/aggregated?groupBy=fortnight")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "groupBy must be day, week or month", body["error"])

	// A storage failure is not.
	r = newTestRouter(&stubActivityUsecase{aggErr: errors.New("connection refused")})
	w, _ = doRequest(t, r, "/api/daily-summaries/aggregated?groupBy=week")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGetHealthMetricsRequiresMetric(t *testing.T) {
	r := newTestRouter(&stubActivityUsecase{})

	w, body := doRequest(t, r, "/api/health-metrics")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "metric parameter required", body["error"])

	w, body = doRequest(t, r, "/api/health-metrics?metric=restingHeartRate")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), body["count"])
}
