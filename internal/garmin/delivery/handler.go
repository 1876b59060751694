package delivery

import (
	"errors"
	"net/http"

	garmindto "runsight-backend/internal/garmin/dto"
	"runsight-backend/internal/garmin/usecase"

	"github.com/gin-gonic/gin"
)

type GarminHandler struct {
	credentialUsecase usecase.CredentialUsecase
	syncUsecase       usecase.SyncUsecase
}

func NewGarminHandler(credentialUsecase usecase.CredentialUsecase, syncUsecase usecase.SyncUsecase) *GarminHandler {
	return &GarminHandler{
		credentialUsecase: credentialUsecase,
		syncUsecase:       syncUsecase,
	}
}

func (h *GarminHandler) Connect(c *gin.Context) {
	var req garmindto.ConnectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password required", "message": err.Error()})
		return
	}

	userID := c.GetString("userID")
	if err := h.credentialUsecase.Connect(userID, req.Email, req.Password); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store credentials", "message": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "garmin account connected"})
}

func (h *GarminHandler) UpdateCredentials(c *gin.Context) {
	var req garmindto.ConnectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password required", "message": err.Error()})
		return
	}

	userID := c.GetString("userID")
	if err := h.credentialUsecase.Update(userID, req.Email, req.Password); err != nil {
		if errors.Is(err, usecase.ErrNotConnected) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no garmin account connected"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update credentials", "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "credentials updated"})
}

func (h *GarminHandler) Status(c *gin.Context) {
	userID := c.GetString("userID")
	status, err := h.credentialUsecase.Status(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not read connection status"})
		return
	}

	c.JSON(http.StatusOK, status)
}

func (h *GarminHandler) Disconnect(c *gin.Context) {
	userID := c.GetString("userID")
	if err := h.credentialUsecase.Disconnect(userID); err != nil {
		if errors.Is(err, usecase.ErrNotConnected) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no garmin account connected"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not disconnect"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "garmin account disconnected"})
}

func (h *GarminHandler) StartSync(c *gin.Context) {
	userID := c.GetString("userID")
	result, err := h.syncUsecase.StartSync(c.Request.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrSyncInProgress):
			c.JSON(http.StatusConflict, gin.H{"error": "sync already in progress"})
		case errors.Is(err, usecase.ErrNotConnected):
			c.JSON(http.StatusBadRequest, gin.H{"error": "no garmin account connected"})
		case errors.Is(err, usecase.ErrCollectorMissing):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "sync feature unavailable"})
		case errors.Is(err, usecase.ErrInvalidCredentials):
			c.JSON(http.StatusInternalServerError, gin.H{"error": "stored credentials could not be decrypted"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "sync failed", "message": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *GarminHandler) SyncStatus(c *gin.Context) {
	userID := c.GetString("userID")
	status, err := h.syncUsecase.SyncStatus(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not read sync status"})
		return
	}

	c.JSON(http.StatusOK, status)
}
