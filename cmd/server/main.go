package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"merch_store_backend/internal/cache"
	"merch_store_backend/internal/config"
	"merch_store_backend/internal/database"
	"merch_store_backend/internal/router"
	"merch_store_backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Load()

	// Initialize Logger
	utils.InitLogger(cfg.LogLevel, cfg.LogPretty)
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	ctx := context.Background()

	// Initialize Database
	db, err := database.Connect(ctx, cfg.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if cfg.DBAutoMigrate {
		if err := database.Migrate(db); err != nil {
			log.Fatal().Err(err).Msg("Failed to migrate database schema")
		}
		utils.LogInfo("Database schema migrated")
	}

	var catalogCache cache.Cache = cache.NoopCache{}
	if cfg.RedisURL != "" {
		redisCache, err := cache.NewRedisCache(ctx, cfg.RedisURL)
		if err != nil {
			// The catalog is served from the database when Redis is unreachable.
			utils.LogError(err, "Redis unavailable, catalog cache disabled")
		} else {
			defer redisCache.Close()
			catalogCache = redisCache
			utils.LogInfo("Catalog cache enabled", map[string]interface{}{"ttl": cfg.CacheTTL.String()})
		}
	}

	if cfg.AuthEnabled && cfg.JWTSecret == "change-me-merch-store-secret" {
		utils.LogWarn("AUTH_ENABLED with the default JWT_SECRET; set JWT_SECRET in production")
	}

	engine := router.NewEngine(cfg.CORSAllowedOrigins)
	router.Setup(engine, db, router.Options{
		Cache:       catalogCache,
		CacheTTL:    cfg.CacheTTL,
		Tokens:      utils.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL),
		AuthEnabled: cfg.AuthEnabled,
	})

	httpServer := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: engine,
	}

	go func() {
		utils.LogInfo("Server starting", map[string]interface{}{"port": cfg.Port, "auth_enabled": cfg.AuthEnabled})
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	utils.LogInfo("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		utils.LogError(err, "Server shutdown error")
	}
	utils.LogInfo("Server stopped")
}
