package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "sorteo-platform-backend/docs"
	"sorteo-platform-backend/internal/common/cache"
	"sorteo-platform-backend/internal/common/config"
	"sorteo-platform-backend/internal/common/logger"
	"sorteo-platform-backend/internal/common/middleware"
	companyhttp "sorteo-platform-backend/internal/features/company/delivery/http"
	companyrepo "sorteo-platform-backend/internal/features/company/repository/postgres"
	companyservice "sorteo-platform-backend/internal/features/company/service"
	giveawayhttp "sorteo-platform-backend/internal/features/giveaway/delivery/http"
	giveawaymodels "sorteo-platform-backend/internal/features/giveaway/models"
	giveawayrepo "sorteo-platform-backend/internal/features/giveaway/repository/postgres"
	giveawayservice "sorteo-platform-backend/internal/features/giveaway/service"
	participationhttp "sorteo-platform-backend/internal/features/participation/delivery/http"
	participationrepo "sorteo-platform-backend/internal/features/participation/repository/postgres"
	participationservice "sorteo-platform-backend/internal/features/participation/service"
	userhttp "sorteo-platform-backend/internal/features/user/delivery/http"
	userrepository "sorteo-platform-backend/internal/features/user/repository"
	userrepo "sorteo-platform-backend/internal/features/user/repository/postgres"
	"sorteo-platform-backend/internal/platform/kafka"
	"sorteo-platform-backend/internal/platform/migrate"
	"sorteo-platform-backend/internal/platform/postgres"
	"sorteo-platform-backend/internal/platform/redis"
	"sorteo-platform-backend/internal/social"
	"sorteo-platform-backend/internal/social/meta"
)

// @title           Sorteo Platform API
// @version         1.0
// @description     Giveaway platform backend: giveaway lifecycle, requirement verification and winner selection.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer JWT

// @tag.name giveaways
// @tag.description Giveaway lifecycle and winner selection

// @tag.name participations
// @tag.description Participation entry and requirement verification

// @tag.name companies
// @tag.description Company accounts

// @tag.name users
// @tag.description User profiles
func main() {
	cfg := config.Load()

	logger.Init("sorteo-platform-backend", cfg.Debug)
	logger.Info().Bool("debug", cfg.Debug).Msg("Starting sorteo platform backend")

	postgresClient, err := postgres.NewClient(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to postgres")
	}
	defer postgresClient.Close()

	if err := migrate.Run(postgresClient.GetDB(), cfg.Postgres.MigrationsPath); err != nil {
		logger.Fatal().Err(err).Msg("Failed to run migrations")
	}

	redisClient, err := redis.NewClient(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to redis")
	}
	defer redisClient.Close()

	cacheService := cache.NewCacheService(redisClient)

	var events giveawayservice.EventPublisher = kafka.NopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		publisher := kafka.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer publisher.Close()
		events = publisher
	}

	db := postgresClient.GetDB()
	userRepository := userrepo.NewPostgresRepository(db)
	accountRepository := userrepo.NewSocialAccountRepository(db)
	companyRepository := companyrepo.NewPostgresRepository(db)
	giveawayRepository := giveawayrepo.NewPostgresRepository(db)
	participationRepository := participationrepo.NewPostgresRepository(db)

	providers := buildProviders(cfg, accountRepository)
	verifier := participationservice.NewVerifier(providers, cfg.Meta.Timeout)

	companySvc := companyservice.NewCompanyService(companyRepository)
	giveawaySvc := giveawayservice.NewGiveawayService(giveawayRepository, participationRepository, companyRepository, cacheService, events)
	participationSvc := participationservice.NewParticipationService(participationRepository, giveawayRepository, verifier)

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.Logger())
	router.Use(middleware.Metrics())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.Origin}
	corsConfig.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization", "Accept"}
	router.Use(cors.New(corsConfig))

	v1 := router.Group("/api/v1")
	v1.Use(middleware.Auth(cfg.JWT.Secret))

	giveawayhttp.NewGiveawayHandler(giveawaySvc).RegisterRoutes(v1)
	participationhttp.NewParticipationHandler(participationSvc).RegisterRoutes(v1)
	companyhttp.NewCompanyHandler(companySvc).RegisterRoutes(v1)
	userhttp.NewUserHandler(userRepository).RegisterRoutes(v1)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC(),
			"service":   "sorteo-platform-backend",
		})
	})
	router.GET("/live", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	router.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := postgresClient.HealthCheck(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "postgres unavailable"})
			return
		}
		if err := redisClient.Ping(ctx).Err(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "redis unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Server exited")
}

// buildProviders wires one capability provider per supported network.
// The mock is selected only here, never inside the verification core.
func buildProviders(cfg *config.Config, accounts userrepository.SocialAccountRepository) social.Providers {
	if cfg.MockVerification != "" {
		mock := social.NewMockProvider(social.MockMode(cfg.MockVerification))
		return social.Providers{
			giveawaymodels.NetworkInstagram: mock,
			giveawaymodels.NetworkFacebook:  mock,
			giveawaymodels.NetworkX:         mock,
			giveawaymodels.NetworkTikTok:    mock,
		}
	}

	metaClient := meta.NewClient(cfg.Meta.GraphVersion, cfg.Meta.Timeout, accounts)
	return social.Providers{
		giveawaymodels.NetworkInstagram: metaClient,
		giveawaymodels.NetworkFacebook:  metaClient,
	}
}
