package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"scholar-warehouse/config"
	"scholar-warehouse/providers"
	"scholar-warehouse/providers/hal"
	"scholar-warehouse/providers/openalex"
	"scholar-warehouse/services"
	"scholar-warehouse/storage"
	"scholar-warehouse/warehouse"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func apiKeyAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.APISecretKey == "" {
			c.Next()
			return
		}
		apiKey := c.GetHeader("X-API-KEY")
		if apiKey != cfg.APISecretKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Invalid API Key"})
			return
		}
		c.Next()
	}
}

func main() {
	logging, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("Config load error", zap.Error(err))
	}

	// Setup Database Connection
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		logging.Fatal("Failed to connect to warehouse database", zap.Error(err))
	}
	logging.Info("Successfully connected to warehouse database.")

	// Schema Migrations
	if err := warehouse.Up(cfg.MigrateURL()); err != nil {
		logging.Fatal("Schema migration failed", zap.Error(err))
	}
	logging.Info("Schema migrations applied.")

	// Setup Providers
	enabledProviderNames := strings.Split(cfg.EnabledProviders, ",")
	var enabledProviders []providers.Provider
	for _, name := range enabledProviderNames {
		switch strings.TrimSpace(name) {
		case "openalex":
			enabledProviders = append(enabledProviders, openalex.NewFetcher(cfg, logging))
		case "hal":
			enabledProviders = append(enabledProviders, hal.NewFetcher(cfg, logging))
		default:
			logging.Warn("Unknown provider in config", zap.String("provider_name", name))
		}
	}
	if len(enabledProviders) == 0 {
		logging.Fatal("No valid providers enabled. Check ENABLED_PROVIDERS in .env")
	}
	logging.Info("Active providers loaded", zap.Strings("providers", enabledProviderNames))

	// Setup Services
	var snapshots *storage.SnapshotStore
	if cfg.SnapshotEnabled {
		snapshots, err = storage.NewSnapshotStore(context.Background(), cfg, logging)
		if err != nil {
			logging.Fatal("Snapshot store creation failed", zap.Error(err))
		}
	}
	etlService := services.NewETLService(db, cfg, enabledProviders, snapshots, logging)

	// Setup Router
	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(apiKeyAuthMiddleware(cfg))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.Ping()
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	// Setup Routes
	setupAnalyticsRoutes(router, db, logging)
	setupETLRoutes(router, etlService)

	// Setup Cron
	cronScheduler := cron.New()
	cronScheduler.AddFunc(cfg.CronSchedule, func() {
		logging.Info("Running scheduled ETL job...")
		if err := etlService.Run(context.Background()); err != nil {
			logging.Error("Cron ETL job failed", zap.Error(err))
		}
	})
	cronScheduler.Start()

	logging.Info("Starting server", zap.String("port", cfg.HTTPPort))
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logging.Fatal("Failed to run server", zap.Error(err))
	}
}

func queryLimit(c *gin.Context, fallback int) int {
	raw := c.Query("limit")
	if raw == "" {
		return fallback
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return fallback
	}
	return limit
}

func queryYear(c *gin.Context) int {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		return 0
	}
	return year
}

// setupAnalyticsRoutes exposes the warehouse views as read-only endpoints.
func setupAnalyticsRoutes(router *gin.Engine, db *gorm.DB, log *zap.Logger) {
	rg := router.Group("/analytics")

	serve := func(c *gin.Context, result interface{}, err error) {
		if err != nil {
			log.Error("Analytics view query failed", zap.String("path", c.FullPath()), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, result)
	}

	rg.GET("/works", func(c *gin.Context) {
		rows, err := warehouse.WorksOverview(db, queryLimit(c, 100))
		serve(c, rows, err)
	})
	rg.GET("/works/topics", func(c *gin.Context) {
		rows, err := warehouse.WorksWithTopics(db, queryLimit(c, 100))
		serve(c, rows, err)
	})
	rg.GET("/trends", func(c *gin.Context) {
		rows, err := warehouse.PublicationTrends(db, queryYear(c))
		serve(c, rows, err)
	})
	rg.GET("/oa-distribution", func(c *gin.Context) {
		rows, err := warehouse.OADistributionByYear(db, queryYear(c))
		serve(c, rows, err)
	})
	rg.GET("/top-authors", func(c *gin.Context) {
		rows, err := warehouse.TopAuthors(db, queryLimit(c, 20))
		serve(c, rows, err)
	})
	rg.GET("/top-institutions", func(c *gin.Context) {
		rows, err := warehouse.TopInstitutions(db, queryLimit(c, 20))
		serve(c, rows, err)
	})
	rg.GET("/top-topics", func(c *gin.Context) {
		rows, err := warehouse.TopTopics(db, queryLimit(c, 20))
		serve(c, rows, err)
	})
	rg.GET("/countries", func(c *gin.Context) {
		rows, err := warehouse.GeographicDistribution(db)
		serve(c, rows, err)
	})
	rg.GET("/sources", func(c *gin.Context) {
		rows, err := warehouse.SourcePerformances(db, queryLimit(c, 20))
		serve(c, rows, err)
	})
	rg.GET("/top-keywords", func(c *gin.Context) {
		rows, err := warehouse.TopKeywords(db, queryLimit(c, 20))
		serve(c, rows, err)
	})

	log.Info("Analytics routes configured successfully", zap.String("base_path", "/analytics"))
}

// setupETLRoutes lets operators trigger a pipeline run and inspect past runs.
func setupETLRoutes(router *gin.Engine, etlService *services.ETLService) {
	rg := router.Group("/etl")

	rg.POST("/run", func(c *gin.Context) {
		go func() {
			if err := etlService.Run(context.Background()); err != nil {
				if errors.Is(err, services.ErrRunInProgress) {
					etlService.Logger.Warn("ETL trigger ignored, run already in progress")
					return
				}
				etlService.Logger.Error("Async ETL run failed", zap.Error(err))
			}
		}()
		c.JSON(http.StatusAccepted, gin.H{"message": "ETL run triggered."})
	})

	rg.GET("/runs", func(c *gin.Context) {
		runs, err := etlService.RecentRuns(queryLimit(c, 20))
		if err != nil {
			etlService.Logger.Error("Failed to list ETL runs", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, runs)
	})
}
