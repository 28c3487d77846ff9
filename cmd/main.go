package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/educompass/educompass-backend/internal/cache"
	"github.com/educompass/educompass-backend/internal/clients/gemini"
	"github.com/educompass/educompass-backend/internal/clients/unisearch"
	"github.com/educompass/educompass-backend/internal/counsellor"
	"github.com/educompass/educompass-backend/internal/db"
	"github.com/educompass/educompass-backend/internal/handlers"
	"github.com/educompass/educompass-backend/internal/logger"
	"github.com/educompass/educompass-backend/internal/middleware"
	"github.com/educompass/educompass-backend/internal/repos"
	"github.com/educompass/educompass-backend/internal/server"
	"github.com/educompass/educompass-backend/internal/services"
	"github.com/educompass/educompass-backend/internal/utils"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading environment variables from main...")
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	tokenTTL := utils.GetEnvAsInt("TOKEN_TTL", 3600, log)
	port := utils.GetEnv("PORT", "8080", log)
	ginMode := utils.GetEnv("GIN_MODE", "debug", log)
	allowedOrigins := utils.GetEnv("CORS_ALLOWED_ORIGINS", "", log)

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Fatal("Postgres init failed", "error", err)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Fatal("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Cache: Redis when configured, in-process otherwise.
	var appCache cache.Cache
	if redisCache, rErr := cache.NewRedis(log); rErr != nil {
		log.Warn("Redis unavailable, using in-memory cache", "error", rErr)
		appCache = cache.NewMemory()
	} else {
		appCache = redisCache
	}

	// External clients
	geminiClient, err := gemini.NewClient(context.Background(), log)
	if err != nil {
		log.Fatal("Gemini client init failed", "error", err)
	}
	searchClient := unisearch.NewClient(log, appCache)

	// Repos
	log.Info("Setting up repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)
	profileRepo := repos.NewProfileRepo(thePG, log)
	universityRepo := repos.NewUniversityRepo(thePG, log)
	shortlistRepo := repos.NewShortlistRepo(thePG, log)
	taskRepo := repos.NewTaskRepo(thePG, log)
	applicationRepo := repos.NewApplicationRepo(thePG, log)

	// Services
	log.Info("Setting up services from main...")
	authService := services.NewAuthService(thePG, log, userRepo, profileRepo, jwtSecretKey, time.Duration(tokenTTL)*time.Second)
	profileService := services.NewProfileService(thePG, log, profileRepo)
	statusService := services.NewStatusService(thePG, log, profileRepo, shortlistRepo, applicationRepo)
	universityService := services.NewUniversityService(thePG, log, universityRepo, shortlistRepo, profileRepo, searchClient)
	dashboardService := services.NewDashboardService(thePG, log, profileRepo, taskRepo, shortlistRepo, applicationRepo)
	applicationService := services.NewApplicationService(thePG, log, applicationRepo, universityRepo, profileRepo)

	// Counsellor pipeline
	assembler := counsellor.NewAssembler(log, profileRepo, taskRepo, shortlistRepo, universityService)
	gateway := counsellor.NewGateway(log, geminiClient)
	dispatcher := counsellor.NewDispatcher(thePG, log, universityRepo, shortlistRepo, taskRepo, profileRepo)
	engine := counsellor.NewEngine(log, assembler, gateway, dispatcher)

	// Handlers
	log.Info("Setting up handlers from main...")
	healthcheckHandler := handlers.NewHealthcheckHandler(thePG)
	authHandler := handlers.NewAuthHandler(authService)
	profileHandler := handlers.NewProfileHandler(profileService, statusService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	universityHandler := handlers.NewUniversityHandler(universityService)
	counsellorHandler := handlers.NewCounsellorHandler(engine, universityService)
	applicationHandler := handlers.NewApplicationHandler(applicationService)

	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	router := server.NewRouter(server.RouterConfig{
		Mode:               ginMode,
		AllowedOrigins:     splitOrigins(allowedOrigins),
		AuthMiddleware:     authMiddleware,
		HealthcheckHandler: healthcheckHandler,
		AuthHandler:        authHandler,
		ProfileHandler:     profileHandler,
		DashboardHandler:   dashboardHandler,
		UniversityHandler:  universityHandler,
		CounsellorHandler:  counsellorHandler,
		ApplicationHandler: applicationHandler,
	})

	log.Info("Starting server", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Server exited", "error", err)
	}
}

func splitOrigins(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
