package main

import (
	"log"

	api "runsight-backend/cmd/api"
	activitydomain "runsight-backend/internal/activity/domain"
	activityRepo "runsight-backend/internal/activity/repository"
	activityUsecase "runsight-backend/internal/activity/usecase"
	authdomain "runsight-backend/internal/auth/domain"
	authRepo "runsight-backend/internal/auth/repository"
	authUsecase "runsight-backend/internal/auth/usecase"
	garmindomain "runsight-backend/internal/garmin/domain"
	garminRepo "runsight-backend/internal/garmin/repository"
	garminUsecase "runsight-backend/internal/garmin/usecase"
	"runsight-backend/pkg/config"
	"runsight-backend/pkg/crypto"
	"runsight-backend/pkg/database"
	"runsight-backend/pkg/garmindb"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(
		&authdomain.User{},
		&authdomain.RefreshToken{},
		&garmindomain.Credential{},
		&garmindomain.SyncRun{},
		&activitydomain.Activity{},
		&activitydomain.DailySummary{},
	); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize credential vault
	vault, err := crypto.NewVault(cfg.EncryptionKey)
	if err != nil {
		log.Fatal("Failed to initialize credential vault:", err)
	}

	// Initialize collector runner
	runner := garmindb.NewRunner(cfg.GarminDBPython, cfg.GarminDBCli, cfg.SyncTimeout)
	if !runner.Available() {
		log.Printf("[WARN] garmindb collector not found at %s, sync will be unavailable", cfg.GarminDBPython)
	}

	// Initialize repositories (dependency injection)
	userRepo := authRepo.NewUserRepository(db)
	credentialRepo := garminRepo.NewCredentialRepository(db)
	syncRunRepo := garminRepo.NewSyncRunRepository(db)
	activityRepository := activityRepo.NewActivityRepository(db)
	summaryRepo := activityRepo.NewDailySummaryRepository(db)

	// Initialize use cases (dependency injection)
	authUsecaseInstance := authUsecase.NewAuthUsecase(userRepo, cfg)
	credentialUsecaseInstance := garminUsecase.NewCredentialUsecase(credentialRepo, vault)
	importer := garminUsecase.NewImporter(activityRepository, summaryRepo)
	syncUsecaseInstance := garminUsecase.NewSyncUsecase(credentialRepo, syncRunRepo, activityRepository, summaryRepo, importer, vault, runner, cfg)
	activityUsecaseInstance := activityUsecase.NewActivityUsecase(activityRepository, summaryRepo, cfg)

	// Initialize HTTP handler
	handler := api.NewHandler(authUsecaseInstance, credentialUsecaseInstance, syncUsecaseInstance, activityUsecaseInstance, cfg)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
