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
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "catcents-backend/docs"
	"catcents-backend/internal/common/cache"
	"catcents-backend/internal/common/config"
	"catcents-backend/internal/common/logger"
	"catcents-backend/internal/common/middleware"
	"catcents-backend/internal/common/retry"
	authHTTP "catcents-backend/internal/features/auth/delivery/http"
	authRepo "catcents-backend/internal/features/auth/repository/redis"
	authService "catcents-backend/internal/features/auth/service"
	"catcents-backend/internal/features/auth/session"
	eligibilityHTTP "catcents-backend/internal/features/eligibility/delivery/http"
	eligibilityService "catcents-backend/internal/features/eligibility/service"
	rolesHTTP "catcents-backend/internal/features/roles/delivery/http"
	rolemodels "catcents-backend/internal/features/roles/models"
	roleService "catcents-backend/internal/features/roles/service"
	userHTTP "catcents-backend/internal/features/user/delivery/http"
	userRepo "catcents-backend/internal/features/user/repository/redis"
	userService "catcents-backend/internal/features/user/service"
	walletHTTP "catcents-backend/internal/features/wallet/delivery/http"
	walletService "catcents-backend/internal/features/wallet/service"
	"catcents-backend/internal/platform/chain"
	"catcents-backend/internal/platform/discord"
	"catcents-backend/internal/platform/redis"
	"catcents-backend/internal/workers"
)

// @title           Catcents Dashboard API
// @version         1.0
// @description     Discord sign-in, mint eligibility checks and wallet submission for the Catcents community.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey SessionCookie
// @in cookie
// @name session
// @description Session cookie set by /auth/callback

// @tag.name auth
// @tag.description Discord OAuth sign-in and sign-out

// @tag.name users
// @tag.description Stored user profiles

// @tag.name eligibility
// @tag.description Mint eligibility role checks and the dashboard view

// @tag.name wallet
// @tag.description Wallet submission and NFT tier lookup

// @tag.name admin
// @tag.description Badge updates and role sync requests

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.ValidateWeb(); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger.Init("catcents-api", cfg.Debug, !cfg.Debug)

	log.Info().
		Str("version", "1.0.0").
		Bool("debug", cfg.Debug).
		Msg("Starting Catcents dashboard API")

	ctx := context.Background()

	redisClient, err := redis.Open(ctx, cfg.RedisAddr(), cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()

	log.Info().Str("addr", cfg.RedisAddr()).Msg("Redis connection established")

	nftReader, closeChain, err := chain.Dial(ctx, cfg.Chain.RPCURL, cfg.Chain.NFTContract, cfg.Chain.Timeout)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to dial chain RPC")
	}
	defer closeChain()

	discordSession, err := discord.NewSession(cfg.Discord.BotToken)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Discord session")
	}
	discordSession.Client.Timeout = cfg.Discord.APITimeout

	policy := retry.DefaultPolicy()
	policy.MaxAttempts = cfg.Sync.MaxAttempts
	policy.BaseDelay = cfg.Sync.BaseDelay
	guildAPI := roleService.WithRetry(
		discord.NewClient(discordSession, cfg.GuildSnowflake()),
		policy,
		logger.Component("discord"),
	)

	catalog := rolemodels.DefaultCatalog()
	cacheService := cache.NewCacheService(redisClient, "catcents")
	publisher := workers.NewPublisher(redisClient, cfg.Events.Stream)

	// Repositories
	profileRepository := userRepo.NewProfileRepository(redisClient)
	stateRepository := authRepo.NewStateRepository(redisClient)

	// Services
	sessions := session.NewManager(cfg.Session.Secret, cfg.Session.TTL)
	userSvc := userService.NewUserService(profileRepository, catalog, logger.Component("users"))
	eligibilitySvc := eligibilityService.NewEligibilityService(
		guildAPI,
		profileRepository,
		catalog,
		cacheService,
		cfg.Sync.RoleCheckTTL,
		logger.Component("eligibility"),
	)
	walletSvc := walletService.NewWalletService(profileRepository, nftReader, catalog, publisher, logger.Component("wallet"))
	authSvc := authService.NewAuthService(
		discord.NewOAuthProvider(cfg.OAuth.ClientID, cfg.OAuth.ClientSecret, cfg.OAuth.RedirectURL),
		stateRepository,
		userSvc,
		sessions,
		cfg.OAuth.StateTTL,
		logger.Component("auth"),
	)

	log.Info().Str("catalog", catalog.Version()).Msg("Services initialized")

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	httpLog := logger.Component("http")
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.ErrorHandler(httpLog))
	router.Use(middleware.Logger(httpLog))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.Origin}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Accept", "X-Request-ID"}
	corsConfig.AllowCredentials = true
	router.Use(cors.New(corsConfig))

	router.Use(middleware.HandleErrors(httpLog))
	router.Use(middleware.Session(sessions, middleware.NewAdminSet(cfg.Discord.AdminIDs)))

	v1 := router.Group("/api/v1")
	authHTTP.NewAuthHandler(authSvc, cfg.Server.BaseURL, authHTTP.CookieOptions{
		Secure:     cfg.Session.CookieSecure,
		SessionAge: int(cfg.Session.TTL.Seconds()),
		StateAge:   int(cfg.OAuth.StateTTL.Seconds()),
	}, logger.Component("auth")).RegisterRoutes(v1)
	userHTTP.NewUserHandler(userSvc, logger.Component("users")).RegisterRoutes(v1)
	eligibilityHTTP.NewEligibilityHandler(eligibilitySvc, logger.Component("eligibility")).RegisterRoutes(v1)
	walletHTTP.NewWalletHandler(walletSvc, logger.Component("wallet")).RegisterRoutes(v1)
	rolesHTTP.NewRolesHandler(publisher, catalog, logger.Component("admin")).RegisterRoutes(v1)

	setupHealthRoutes(router, redisClient)
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

func setupHealthRoutes(router *gin.Engine, redisClient *redis.Client) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC(),
			"service":   "catcents-backend",
		})
	})

	router.GET("/live", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	router.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := redisClient.Healthy(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unready",
				"error":   "redis unavailable",
				"details": err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "ready",
			"timestamp": time.Now().UTC(),
			"service":   "catcents-backend",
		})
	})
}
