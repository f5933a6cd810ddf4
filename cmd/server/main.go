package main

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"pulseboard/config"
	"pulseboard/controllers"
	"pulseboard/db"
	"pulseboard/middlewares"
	"pulseboard/routes"
	"pulseboard/services"
	"pulseboard/websocket"
)

func main() {
	// .env is optional; real deployments set the environment directly
	godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yml"
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		bootLogger := zerolog.New(os.Stderr)
		bootLogger.Fatal().Err(err).Msg("Failed to load config")
	}

	logger := newLogger(cfg)
	logger.Info().Msg("Starting pulseboard")

	if err := db.ConnectMongoDB(cfg.Database.URI); err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer db.Disconnect()
	logger.Info().Msg("Connected to MongoDB")

	ouraClient := services.NewOuraClient(cfg.Oura.BaseURL, logger)
	profileService := services.NewProfileService(db.NewMongoProfileStore(), ouraClient, logger)
	statsService := services.NewStatsService(ouraClient, logger)
	leaderboardService := services.NewLeaderboardService(ouraClient, logger)
	briefingService := services.NewBriefingService(cfg.Gemini.ApiKey, cfg.Gemini.Model, logger)

	hub := websocket.NewHub(logger)

	// After a profile mutation, rebuild the board off the request path and
	// push it to connected clients.
	notify := func() {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			defer cancel()

			profiles, err := profileService.List(ctx)
			if err != nil {
				logger.Error().Err(err).Msg("leaderboard push: failed to list profiles")
				return
			}
			entries := leaderboardService.BuildLeaderboard(ctx, profiles, profileService.ActiveID())
			hub.Broadcast(gin.H{"type": "leaderboard", "entries": entries})
		}()
	}

	handlers := &routes.Handlers{
		Profiles:    controllers.NewProfileController(profileService, statsService, notify),
		Dashboard:   controllers.NewDashboardController(profileService, statsService, logger),
		Leaderboard: controllers.NewLeaderboardController(profileService, leaderboardService),
		Versus:      controllers.NewVersusController(profileService, statsService, briefingService, logger),
		Hub:         hub,
	}

	router := setupRouter(cfg, logger, handlers)
	port := strconv.Itoa(cfg.Server.Port)
	logger.Info().Str("port", port).Msg("Server starting")

	if err := router.Run(":" + port); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start server")
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if cfg.Log.Pretty {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	} else {
		logger = zerolog.New(os.Stderr)
	}
	return logger.Level(level).With().Timestamp().Logger()
}

func setupRouter(cfg *config.Config, logger zerolog.Logger, handlers *routes.Handlers) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.SetTrustedProxies([]string{"127.0.0.1", "localhost"})
	router.Use(middlewares.Recovery(logger))
	router.Use(middlewares.RequestLogger(logger))

	origins := cfg.Server.CorsOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	routes.Setup(router, handlers)
	return router
}
