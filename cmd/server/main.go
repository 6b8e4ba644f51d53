package main

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"raidboard/backend/internal/auth"
	"raidboard/backend/internal/config"
	"raidboard/backend/internal/database"
	"raidboard/backend/internal/handler"
	"raidboard/backend/internal/middleware"
	"raidboard/backend/internal/repository/gormrepo"
	"raidboard/backend/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	// Swagger imports
	_ "raidboard/backend/docs" // This is important for swag to find the generated docs

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func init() {
	config.LoadConfig()

	if gin.Mode() == gin.ReleaseMode {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}

// @title           RaidBoard API
// @version         1.0
// @description     This is the API for the RaidBoard raid coordination service.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	// Connect to the database
	database.Connect(config.AppConfig.DatabaseURL)

	// Optional redis cache for the activity feed
	var feedCache *redis.Client
	if config.AppConfig.RedisAddr != "" {
		feedCache = redis.NewClient(&redis.Options{Addr: config.AppConfig.RedisAddr})
		logrus.WithField("addr", config.AppConfig.RedisAddr).Info("Feed cache enabled")
	}

	// Wire repositories, services and handlers
	store := gormrepo.NewStore(database.DB)
	roomService := service.NewRoomService(store)
	rosterService := service.NewRosterService(store)
	reviewService := service.NewReviewService(store)
	feedService := service.NewFeedService(store, feedCache)
	leaderboardService := service.NewLeaderboardService(store)

	roomHandler := handler.NewRoomHandler(roomService)
	rosterHandler := handler.NewRosterHandler(rosterService)
	reviewHandler := handler.NewReviewHandler(reviewService)
	feedHandler := handler.NewFeedHandler(feedService)
	leaderboardHandler := handler.NewLeaderboardHandler(leaderboardService)

	router := gin.Default()
	router.Use(middleware.RequestID())

	if config.AppConfig.CORSAllowedOrigins != "" {
		corsCfg := cors.DefaultConfig()
		corsCfg.AllowOrigins = strings.Split(config.AppConfig.CORSAllowedOrigins, ",")
		corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
		router.Use(cors.New(corsCfg))
	}

	// 30 writes/minute/IP with a small burst; read endpoints are unmetered
	writeLimiter := middleware.NewIPRateLimiter(30, 10, 5*time.Minute)

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// API v1 routes
	apiV1 := router.Group("/api/v1")
	{
		// Auth routes
		authRoutes := apiV1.Group("/auth")
		{
			authRoutes.POST("/register", middleware.RateLimitByIP(writeLimiter), handler.RegisterUser)
			authRoutes.POST("/login", middleware.RateLimitByIP(writeLimiter), handler.LoginUser)
		}

		// User routes (protected)
		userRoutes := apiV1.Group("/users")
		userRoutes.Use(auth.AuthMiddleware())
		{
			userRoutes.GET("/me", handler.GetMe)
			userRoutes.GET("/:id/host-rating", reviewHandler.HostRating)
		}

		// Boss catalog (protected reads)
		bossRoutes := apiV1.Group("/bosses")
		bossRoutes.Use(auth.AuthMiddleware())
		{
			bossRoutes.GET("", handler.GetRaidBosses)
		}

		// Room routes (protected)
		roomRoutes := apiV1.Group("/rooms")
		roomRoutes.Use(auth.AuthMiddleware())
		{
			roomRoutes.POST("", middleware.RateLimitByIP(writeLimiter), roomHandler.Create)
			roomRoutes.GET("", roomHandler.List)
			roomRoutes.GET("/:id", roomHandler.Get)
			roomRoutes.POST("/:id/status", roomHandler.Transition)
			roomRoutes.DELETE("/:id", roomHandler.Delete)
			roomRoutes.POST("/:id/join", rosterHandler.Join)
			roomRoutes.POST("/:id/leave", rosterHandler.Leave)
			roomRoutes.POST("/:id/friend-ready", rosterHandler.FriendReady)
			roomRoutes.GET("/:id/members/count", rosterHandler.MemberTotal)
			roomRoutes.DELETE("/:id/members/:userID", rosterHandler.Kick)
			roomRoutes.POST("/:id/reviews", middleware.RateLimitByIP(writeLimiter), reviewHandler.Create)
		}

		// Public read aggregates (actor optional)
		apiV1.GET("/feed", auth.OptionalAuthMiddleware(), feedHandler.Get)
		apiV1.GET("/rankings", auth.OptionalAuthMiddleware(), leaderboardHandler.Get)

		// Admin routes (protected by auth and admin check)
		adminRoutes := apiV1.Group("/admin")
		adminRoutes.Use(auth.AuthMiddleware(), auth.AdminMiddleware())
		{
			bosses := adminRoutes.Group("/bosses")
			{
				bosses.POST("", handler.CreateRaidBoss)
				bosses.PUT("/:id", handler.UpdateRaidBoss)
				bosses.DELETE("/:id", handler.DeleteRaidBoss)
			}

			adminRoutes.PUT("/rooms/:id/status", roomHandler.ForceStatus)
		}
	}

	addr := ":" + config.AppConfig.Port
	fmt.Printf("Server is running on %s\n", addr)
	fmt.Printf("Swagger UI is available at http://localhost%s/swagger/index.html\n", addr)
	log.Fatal(router.Run(addr))
}
