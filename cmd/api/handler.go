package api

import (
	activityDelivery "runsight-backend/internal/activity/delivery"
	activityUsecasePkg "runsight-backend/internal/activity/usecase"
	authUsecase "runsight-backend/internal/auth/usecase"
	garminDelivery "runsight-backend/internal/garmin/delivery"
	garminUsecasePkg "runsight-backend/internal/garmin/usecase"
	"runsight-backend/pkg/config"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	authUsecase     authUsecase.AuthUsecase
	config          *config.Config
	garminHandler   *garminDelivery.GarminHandler
	activityHandler *activityDelivery.ActivityHandler
}

func NewHandler(
	authUc authUsecase.AuthUsecase,
	credentialUc garminUsecasePkg.CredentialUsecase,
	syncUc garminUsecasePkg.SyncUsecase,
	activityUc activityUsecasePkg.ActivityUsecase,
	cfg *config.Config,
) *Handler {
	return &Handler{
		authUsecase:     authUc,
		config:          cfg,
		garminHandler:   garminDelivery.NewGarminHandler(credentialUc, syncUc),
		activityHandler: activityDelivery.NewActivityHandler(activityUc, cfg.WeekStartDay),
	}
}

func (h *Handler) Start(addr string) error {
	r := gin.Default()
	gin.SetMode(gin.ReleaseMode)

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	SetupRoutes(r, h.authUsecase, h.garminHandler, h.activityHandler)

	return r.Run(addr)
}
