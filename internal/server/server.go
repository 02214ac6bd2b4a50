package server

import (
	"log"
	"strings"
	"time"

	"sahaaya.org/actionhub/internal/config"
	"sahaaya.org/actionhub/internal/middleware"
	"sahaaya.org/actionhub/internal/scheduler"
	"sahaaya.org/actionhub/pkg/storage"

	donationHttp "sahaaya.org/actionhub/internal/modules/donation/delivery/http"
	donationRepo "sahaaya.org/actionhub/internal/modules/donation/repository"
	donationService "sahaaya.org/actionhub/internal/modules/donation/service"

	leaderboardHttp "sahaaya.org/actionhub/internal/modules/leaderboard/delivery/http"
	leaderboardRepo "sahaaya.org/actionhub/internal/modules/leaderboard/repository"
	leaderboardService "sahaaya.org/actionhub/internal/modules/leaderboard/service"

	notiHttp "sahaaya.org/actionhub/internal/modules/notification/delivery/http"
	notifRepo "sahaaya.org/actionhub/internal/modules/notification/repository"
	notifService "sahaaya.org/actionhub/internal/modules/notification/service"

	projectHttp "sahaaya.org/actionhub/internal/modules/project/delivery/http"
	projectRepo "sahaaya.org/actionhub/internal/modules/project/repository"
	projectService "sahaaya.org/actionhub/internal/modules/project/service"

	searchService "sahaaya.org/actionhub/internal/modules/search/service"

	statHttp "sahaaya.org/actionhub/internal/modules/stat/delivery/http"
	statService "sahaaya.org/actionhub/internal/modules/stat/service"

	userHttp "sahaaya.org/actionhub/internal/modules/user/delivery/http"
	userRepo "sahaaya.org/actionhub/internal/modules/user/repository"
	userService "sahaaya.org/actionhub/internal/modules/user/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
	resetSched  *scheduler.ResetScheduler
}

func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	userRepository := userRepo.NewUserRepository(db)

	imageStorage, err := storage.NewCloudinaryStorage()
	if err != nil {
		log.Printf("Cloudinary storage unavailable, photo uploads disabled: %v", err)
		imageStorage = nil
	}

	// Meilisearch is optional; without it donation search falls back to 503.
	var searchSvc searchService.SearchService
	if cfg.MeiliSearchHost != "" {
		meiliHost := cfg.MeiliSearchHost
		if !strings.HasPrefix(meiliHost, "http") {
			meiliHost = "http://" + meiliHost + ":7700"
		}
		meiliClient := meilisearch.New(meiliHost, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
		searchSvc = searchService.NewSearchService(meiliClient)
	}

	authSvc := userService.NewAuthService(userRepository, cfg.JWTSecret, time.Duration(cfg.JWTTTLMinutes)*time.Minute)
	authHandler := userHttp.NewAuthHandler(authSvc)

	// Notification module
	notificationRepository := notifRepo.NewNotificationRepository(db)
	notificationSvc := notifService.NewNotificationService(notificationRepository, redisClient)
	notificationHandler := notiHttp.NewNotificationHandler(notificationSvc, redisClient)

	// Leaderboard engine
	lbRepository := leaderboardRepo.NewLeaderboardRepository(db)
	badges, err := leaderboardService.NewBadgeClassifier(leaderboardService.DefaultBadgeTiers())
	if err != nil {
		log.Fatalf("invalid badge configuration: %v", err)
	}
	scorer := leaderboardService.NewScorer(leaderboardService.DefaultPointTable(), cfg.MoneyPointRate)
	lbSvc := leaderboardService.NewLeaderboardService(lbRepository, scorer, badges, notificationSvc, cfg.ResetTopN)
	lbHandler := leaderboardHttp.NewLeaderboardHandler(lbSvc)

	// Donation module
	donationRepository := donationRepo.NewDonationRepository(db)
	donationSvc := donationService.NewDonationService(donationRepository, lbSvc, searchSvc, notificationSvc, redisClient, cfg.RateLimitDonation)
	donationHandler := donationHttp.NewDonationHandler(donationSvc, imageStorage)

	// Project module
	projectRepository := projectRepo.NewProjectRepository(db)
	projectSvc := projectService.NewProjectService(projectRepository)
	projectHandler := projectHttp.NewProjectHandler(projectSvc)

	statSvc := statService.NewStatService(lbRepository, userRepository)
	statHandler := statHttp.NewStatHandler(statSvc)

	resetSched := scheduler.NewResetScheduler(lbSvc, cfg.ResetCron, cfg.ResetTopN)
	if cfg.ResetCron != "" {
		if err := resetSched.Start(); err != nil {
			log.Printf("Failed to start reset scheduler: %v", err)
		}
	}

	router := gin.New()

	setupCORS(router, cfg.AllowedOrigins)

	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	authMiddleware := middleware.NewAuthMiddleware(userRepository, cfg.JWTSecret)

	api := router.Group("/api")

	// Public routes (no auth required)
	auth := api.Group("/auth")
	{
		auth.POST("/signup", authHandler.Signup)
		auth.POST("/login", authHandler.Login)
	}

	api.GET("/stats", statHandler.GetStats)
	api.GET("/projects", projectHandler.GetProjects)
	api.GET("/projects/:id", projectHandler.GetProject)
	api.GET("/leaderboard", lbHandler.GetLeaderboard)
	api.GET("/leaderboard/history", lbHandler.GetHistory)
	api.GET("/leaderboard/teams/:team_id", lbHandler.GetTeam)

	// Protected routes (apply auth middleware explicitly)
	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		// Admin routes
		adminGroup := protected.Group("/admin")
		adminGroup.Use(authMiddleware.RequireAdmin())
		{
			adminGroup.POST("/leaderboard/reset", lbHandler.ResetPeriod)
			adminGroup.PUT("/donations/:id/verify", donationHandler.Verify)
			adminGroup.POST("/projects", projectHandler.CreateProject)
			adminGroup.PUT("/projects/:id", projectHandler.UpdateProject)
			adminGroup.DELETE("/projects/:id", projectHandler.DeleteProject)
		}

		// Donation routes
		protected.POST("/donations", donationHandler.Create)
		protected.GET("/donations", donationHandler.GetAll)
		protected.GET("/donations/me", donationHandler.GetMine)
		protected.GET("/donations/search", donationHandler.Search)
		protected.GET("/donations/:id", donationHandler.GetByID)
		protected.POST("/upload", donationHandler.UploadProof)

		// Notification routes
		protected.GET("/notifications", notificationHandler.GetNotifications)
		protected.GET("/notifications/unread-count", notificationHandler.UnreadCount)
		protected.PUT("/notifications/:id/read", notificationHandler.MarkAsRead)
		protected.PUT("/notifications/read-all", notificationHandler.MarkAllAsRead)
		protected.GET("/notifications/ws", notificationHandler.HandleWebSocket)
	}

	return &Server{
		engine:      router,
		db:          db,
		redisClient: redisClient,
		resetSched:  resetSched,
	}
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func setupCORS(router *gin.Engine, allowedOrigins string) {
	var origins []string
	if allowedOrigins != "" {
		origins = strings.Split(allowedOrigins, ",")
	} else {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
