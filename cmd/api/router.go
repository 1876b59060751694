package api

import (
	"net/http"

	activityDelivery "runsight-backend/internal/activity/delivery"
	"runsight-backend/internal/auth/delivery"
	authUsecase "runsight-backend/internal/auth/usecase"
	garminDelivery "runsight-backend/internal/garmin/delivery"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRoutes(r *gin.Engine, authUsecase authUsecase.AuthUsecase, garminHandler *garminDelivery.GarminHandler, activityHandler *activityDelivery.ActivityHandler) {
	authHandler := delivery.NewAuthHandler(authUsecase)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/register", authHandler.Register)
			auth.POST("/google", authHandler.GoogleSignIn)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.GET("/me", delivery.AuthMiddleware(authUsecase), authHandler.Me)
			auth.POST("/logout", authHandler.Logout)
		}

		// Garmin account routes (protected)
		garmin := api.Group("/garmin")
		garmin.Use(delivery.AuthMiddleware(authUsecase))
		{
			garmin.POST("/connect", garminHandler.Connect)
			garmin.PUT("/connect", garminHandler.UpdateCredentials)
			garmin.GET("/status", garminHandler.Status)
			garmin.DELETE("/connect", garminHandler.Disconnect)
		}

		// Sync routes (protected)
		sync := api.Group("/sync")
		sync.Use(delivery.AuthMiddleware(authUsecase))
		{
			sync.POST("", garminHandler.StartSync)
			sync.GET("/status", garminHandler.SyncStatus)
		}

		// Data read routes (protected)
		activities := api.Group("/activities")
		activities.Use(delivery.AuthMiddleware(authUsecase))
		{
			activities.GET("", activityHandler.GetActivities)
			activities.GET("/aggregated", activityHandler.GetAggregatedActivities)
			activities.GET("/:id/details", activityHandler.GetActivityDetails)
			activities.GET("/:id/splits", activityHandler.GetActivitySplits)
		}

		running := api.Group("/running")
		running.Use(delivery.AuthMiddleware(authUsecase))
		{
			running.GET("", activityHandler.GetRunningActivities)
			running.GET("/stats", activityHandler.GetRunningStats)
		}

		summaries := api.Group("/daily-summaries")
		summaries.Use(delivery.AuthMiddleware(authUsecase))
		{
			summaries.GET("", activityHandler.GetDailySummaries)
			summaries.GET("/aggregated", activityHandler.GetAggregatedSummaries)
		}

		api.GET("/health-metrics", delivery.AuthMiddleware(authUsecase), activityHandler.GetHealthMetrics)
	}
}
