package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"profitpilot/config"
	"profitpilot/engine"
	"profitpilot/handlers"
	"profitpilot/logger"
	"profitpilot/middleware"
	"profitpilot/services"
	"profitpilot/utils"
)

// buildEngine applies configured overrides on top of the built-in
// normalization defaults.
func buildEngine(cfg *config.Config) *engine.Engine {
	defaults := engine.DefaultSettings()
	if cfg.Engine.DefaultCountry != "" {
		defaults.Country = cfg.Engine.DefaultCountry
	}
	if cfg.Engine.DefaultAnnualVolume > 0 {
		defaults.AnnualVolume = cfg.Engine.DefaultAnnualVolume
	}
	if cfg.Engine.DefaultFixedCosts > 0 {
		defaults.FixedCosts = cfg.Engine.DefaultFixedCosts
	}
	if cfg.Engine.DefaultCashReserve > 0 {
		defaults.CashReserve = cfg.Engine.DefaultCashReserve
	}
	return engine.New(engine.DefaultTables(), defaults)
}

func main() {
	// 1. Config
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Server.LogLevel, cfg.Server.LogFormat)
	defer log.Sync()

	log.Info("configuration loaded",
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port),
		zap.String("redis", cfg.Redis.Address),
		zap.String("mongodb", cfg.MongoDB.Database))

	// 2. Core Services
	geo, err := utils.NewGeoResolver(cfg.GeoIP.DBPath)
	if err != nil {
		log.Warn("GeoIP database unavailable, using API fallback", zap.Error(err))
	}
	defer geo.Close()

	mongoService, err := services.NewMongoDBService(cfg, log)
	if err != nil {
		log.Warn("MongoDB connection failed, persistence disabled", zap.Error(err))
		mongoService = nil
	}
	if mongoService != nil {
		defer mongoService.Close()
	}

	discordBot, err := services.NewDiscordBotService(cfg.Alerts.DiscordToken, cfg.Alerts.DiscordChannelID, log)
	if err != nil {
		log.Warn("Discord bot initialization failed, notifications disabled", zap.Error(err))
		discordBot = nil
	}
	if discordBot != nil {
		defer discordBot.Close()
	}

	cache := services.NewCacheService(cfg, log)
	defer cache.Stop()

	historyService := services.NewHistoryService(mongoService, log, cfg.History.MaxRecords)
	alertService := services.NewAlertService(mongoService, discordBot, log)
	platformService := services.NewPlatformService()
	uploadService := services.NewUploadService(cfg)

	eng := buildEngine(cfg)
	calculatorService := services.NewCalculatorService(eng, cache, historyService, alertService, platformService, geo, log)

	// 3. Background loops
	cache.StartHealthLoop()
	alertService.LoadRules(context.Background())

	// 4. Web Server Setup
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.RequestLogger(log))
	e.Use(middleware.CORSMiddleware(cfg.Server.AllowedOrigins))
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			defer func() {
				if r := recover(); r != nil {
					log.Error("recovered from panic", zap.Any("panic", r))
					c.Error(fmt.Errorf("internal server error"))
				}
			}()
			return next(c)
		}
	})

	// 5. Handlers
	calculatorHandlers := handlers.NewCalculatorHandlers(calculatorService, platformService)
	bulkHandlers := handlers.NewBulkHandlers(calculatorService, uploadService, cache, cfg)
	historyHandlers := handlers.NewHistoryHandlers(historyService)
	alertHandlers := handlers.NewAlertHandlers(alertService)
	cacheHandlers := handlers.NewCacheHandlers(cache)
	systemHandlers := handlers.NewSystemHandlers(cache, mongoService, cfg)

	// 6. Routes
	e.GET("/health", systemHandlers.GetHealth)
	e.GET("/cache/status", cacheHandlers.GetCacheStatus)
	e.POST("/cache/clear", cacheHandlers.ClearCache)

	api := e.Group("/api")
	api.GET("/status", systemHandlers.GetStatus)
	api.GET("/version", systemHandlers.CheckVersion)
	api.GET("/tables", calculatorHandlers.GetTables)
	api.GET("/platform-fees", calculatorHandlers.GetPlatformFees)

	calc := api.Group("/calculate")
	calc.POST("", calculatorHandlers.Calculate)
	calc.POST("/returns", calculatorHandlers.AdjustForReturns)
	calc.POST("/health-score", calculatorHandlers.HealthScore)
	calc.POST("/scenario", calculatorHandlers.Scenario)

	bulk := api.Group("/bulk")
	bulk.POST("", bulkHandlers.CalculateBulk)
	bulk.POST("/upload", bulkHandlers.UploadBulk)
	bulk.GET("/:id", bulkHandlers.GetReport)
	bulk.GET("/:id/export", bulkHandlers.ExportReport)

	history := api.Group("/history")
	history.GET("", historyHandlers.GetRecent)
	history.GET("/stats", historyHandlers.GetStats)
	history.GET("/bulk", historyHandlers.GetBulkReports)
	history.GET("/product/:product", historyHandlers.GetByProduct)
	history.GET("/:id", historyHandlers.GetByID)

	alerts := api.Group("/alerts")
	alerts.GET("/rules", alertHandlers.ListRules)
	alerts.POST("/rules", alertHandlers.CreateRule)
	alerts.GET("/rules/:id", alertHandlers.GetRule)
	alerts.PUT("/rules/:id", alertHandlers.UpdateRule)
	alerts.DELETE("/rules/:id", alertHandlers.DeleteRule)
	alerts.GET("/history", alertHandlers.GetHistory)

	// 7. Start HTTP Server
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	go func() {
		log.Info("server starting", zap.String("addr", serverAddr))
		if err := e.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			log.Fatal("server stopped", zap.Error(err))
		}
	}()

	// 8. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
	log.Info("server stopped")
}
