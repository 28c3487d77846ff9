package server

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/educompass/educompass-backend/internal/handlers"
	"github.com/educompass/educompass-backend/internal/middleware"
)

type RouterConfig struct {
	Mode               string
	AllowedOrigins     []string
	AuthMiddleware     *middleware.AuthMiddleware
	HealthcheckHandler *handlers.HealthcheckHandler
	AuthHandler        *handlers.AuthHandler
	ProfileHandler     *handlers.ProfileHandler
	DashboardHandler   *handlers.DashboardHandler
	UniversityHandler  *handlers.UniversityHandler
	CounsellorHandler  *handlers.CounsellorHandler
	ApplicationHandler *handlers.ApplicationHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	if strings.EqualFold(cfg.Mode, "release") {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// Public
	router.GET("/healthcheck", cfg.HealthcheckHandler.Healthcheck)
	api := router.Group("/api")
	{
		api.POST("/auth/register", cfg.AuthHandler.Register)
		api.POST("/auth/login", cfg.AuthHandler.Login)
	}

	// Protected
	protected := api.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())

	// Auth and profile
	protected.POST("/auth/logout", cfg.AuthHandler.Logout)
	protected.GET("/auth/me", cfg.AuthHandler.GetMe)
	protected.GET("/user/status", cfg.ProfileHandler.Status)
	protected.GET("/profile", cfg.ProfileHandler.Get)
	protected.PUT("/profile", cfg.ProfileHandler.Update)
	protected.POST("/profile/save-step", cfg.ProfileHandler.SaveOnboardingStep)

	// Dashboard and tasks
	protected.GET("/dashboard/summary", cfg.DashboardHandler.Summary)
	protected.GET("/dashboard/strength", cfg.DashboardHandler.Strength)
	protected.GET("/dashboard/tasks", cfg.DashboardHandler.ListTasks)
	protected.POST("/dashboard/tasks/generate", cfg.DashboardHandler.GenerateTasks)
	protected.PUT("/dashboard/tasks/:id", cfg.DashboardHandler.UpdateTask)

	// Discovery and shortlist
	protected.GET("/universities", cfg.UniversityHandler.Discover)
	protected.GET("/universities/recommendations", cfg.UniversityHandler.Recommend)
	protected.GET("/universities/shortlist", cfg.UniversityHandler.ListShortlist)
	protected.POST("/universities/shortlist", cfg.UniversityHandler.AddToShortlist)
	protected.DELETE("/universities/shortlist/:id", cfg.UniversityHandler.RemoveFromShortlist)

	// AI counsellor
	protected.POST("/ai/counsellor/chat", cfg.CounsellorHandler.Chat)
	protected.POST("/ai/counsellor/recommend", cfg.CounsellorHandler.Recommend)

	// Locking and application tracker
	protected.GET("/lock", cfg.ApplicationHandler.LockStatus)
	protected.GET("/lock/all", cfg.ApplicationHandler.List)
	protected.POST("/lock", cfg.ApplicationHandler.Lock)
	protected.DELETE("/lock/:universityId", cfg.ApplicationHandler.Unlock)
	protected.GET("/applications", cfg.ApplicationHandler.List)
	protected.PUT("/applications/:id", cfg.ApplicationHandler.Update)
	protected.DELETE("/applications/:id", cfg.ApplicationHandler.Delete)

	return router
}
