package delivery

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"runsight-backend/internal/activity/usecase"

	"github.com/gin-gonic/gin"
)

type ActivityHandler struct {
	activityUsecase usecase.ActivityUsecase
	weekStartDay    int
}

func NewActivityHandler(activityUsecase usecase.ActivityUsecase, weekStartDay int) *ActivityHandler {
	return &ActivityHandler{
		activityUsecase: activityUsecase,
		weekStartDay:    weekStartDay,
	}
}

func (h *ActivityHandler) GetActivities(c *gin.Context) {
	opts, err := parseListOptions(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	opts.ActivityType = c.Query("type")

	data, err := h.activityUsecase.GetActivities(c.GetString("userID"), opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load activities"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": len(data), "data": data})
}

func (h *ActivityHandler) GetRunningActivities(c *gin.Context) {
	opts, err := parseListOptions(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	data, err := h.activityUsecase.GetRunningActivities(c.GetString("userID"), opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load activities"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": len(data), "data": data})
}

func (h *ActivityHandler) GetRunningStats(c *gin.Context) {
	opts, err := parseListOptions(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	totals, err := h.activityUsecase.GetRunningStats(c.GetString("userID"), opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not compute running stats"})
		return
	}

	c.JSON(http.StatusOK, totals)
}

func (h *ActivityHandler) GetAggregatedActivities(c *gin.Context) {
	opts, err := parseListOptions(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	opts.ActivityType = c.Query("type")

	totals, err := h.activityUsecase.GetAggregatedActivities(c.GetString("userID"), opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not aggregate activities"})
		return
	}

	c.JSON(http.StatusOK, totals)
}

func (h *ActivityHandler) GetDailySummaries(c *gin.Context) {
	opts, err := parseListOptions(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	data, err := h.activityUsecase.GetDailySummaries(c.GetString("userID"), opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load daily summaries"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": len(data), "data": data})
}

func (h *ActivityHandler) GetAggregatedSummaries(c *gin.Context) {
	opts, err := parseListOptions(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	groupBy := c.DefaultQuery("groupBy", "day")
	result, err := h.activityUsecase.GetAggregatedSummaries(c.GetString("userID"), groupBy, h.weekStartDay, opts)
	if err != nil {
		if errors.Is(err, usecase.ErrBadGroupBy) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "groupBy must be day, week or month"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not aggregate daily summaries"})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *ActivityHandler) GetHealthMetrics(c *gin.Context) {
	metric := c.Query("metric")
	if metric == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "metric parameter required"})
		return
	}

	opts, err := parseListOptions(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	points, err := h.activityUsecase.GetHealthMetrics(c.GetString("userID"), metric, opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load health metrics"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": len(points), "data": points})
}

func (h *ActivityHandler) GetActivityDetails(c *gin.Context) {
	activityID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid activity id"})
		return
	}

	details, err := h.activityUsecase.GetActivityDetails(c.GetString("userID"), activityID)
	if err != nil {
		if errors.Is(err, usecase.ErrActivityNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "activity not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load activity details"})
		return
	}

	c.JSON(http.StatusOK, details)
}

func (h *ActivityHandler) GetActivitySplits(c *gin.Context) {
	activityID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid activity id"})
		return
	}

	unit := c.DefaultQuery("unit", "km")
	if unit != "km" && unit != "miles" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unit must be km or miles"})
		return
	}

	splits, err := h.activityUsecase.GetActivitySplits(c.GetString("userID"), activityID, unit)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrActivityNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "activity not found"})
		case errors.Is(err, usecase.ErrNoSplitData):
			c.JSON(http.StatusNotFound, gin.H{"error": "no split data for this activity"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not compute splits"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": len(splits), "data": splits})
}

func parseListOptions(c *gin.Context) (usecase.ListOptions, error) {
	var opts usecase.ListOptions

	if raw := c.Query("startDate"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return opts, errors.New("startDate must be YYYY-MM-DD")
		}
		opts.StartDate = &parsed
	}
	if raw := c.Query("endDate"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return opts, errors.New("endDate must be YYYY-MM-DD")
		}
		// Include the whole end day.
		end := parsed.Add(24*time.Hour - time.Second)
		opts.EndDate = &end
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return opts, errors.New("limit must be a non-negative integer")
		}
		opts.Limit = limit
	}

	return opts, nil
}
