/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the instructor payroll console server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load .env (if present) and environment configuration
  2. Initialize the zap logger
  3. Open the SQLite store
  4. Build the engine configuration and payroll service
  5. Configure the HTTP router
  6. Start the server with graceful shutdown

ENVIRONMENT:
  PORT                    HTTP server port (default: 8080)
  LOG_LEVEL               zap level (default: info)
  ENV                     "prod" switches to JSON logs (default: dev)
  DB_PATH                 SQLite database path (default: ./payroll.db)
  RETENTION_PERCENT       Default retention, whole percent (default: 8)
  ALLOWED_PENALTY_POINTS  Penalty allowance per period (default: 10)
  PER_POINT_PERCENT       Discount per excess point (default: 2)
  MAX_PENALTY_PERCENT     Discount cap (default: 10)
  COVER_BONUS_RATE        Per-cover bonus amount (default: 30)
  BRANDING_BONUS_RATE     Per-branding bonus amount (default: 50)
  THEME_RIDE_BONUS_RATE   Per-theme-ride bonus amount (default: 40)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

SEE ALSO:
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ridepulse/payroll-engine/api"
	"github.com/ridepulse/payroll-engine/config"
	"github.com/ridepulse/payroll-engine/engine"
	"github.com/ridepulse/payroll-engine/logging"
	"github.com/ridepulse/payroll-engine/payroll"
	"github.com/ridepulse/payroll-engine/store/sqlite"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logging.Init(cfg.LogLevel, cfg.Env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Closer()

	st, err := sqlite.New(cfg.DBPath)
	if err != nil {
		log.Base.Fatal("failed to open store", zap.String("db_path", cfg.DBPath), zap.Error(err))
	}
	defer st.Close()

	engineCfg := engineConfig(cfg)
	svc := payroll.NewService(st, engine.New(engineCfg), log.Base)
	router := api.NewRouter(api.NewHandler(st, svc))

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Base.Info("server starting",
			zap.Int("port", cfg.Port),
			zap.String("db_path", cfg.DBPath))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Base.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Base.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Base.Error("forced shutdown", zap.Error(err))
	}
	log.Base.Info("server stopped")
}

// engineConfig maps environment configuration onto the engine's defaults.
func engineConfig(cfg *config.Config) engine.Config {
	ec := engine.DefaultConfig()
	ec.RetentionPercent = decimal.NewFromFloat(cfg.RetentionPercent)
	ec.DiscountRules = engine.DiscountRules{
		AllowedPoints:   cfg.AllowedPoints,
		PerPointPercent: decimal.NewFromFloat(cfg.PerPointPercent),
		MaxPercent:      decimal.NewFromFloat(cfg.MaxPenaltyPct),
	}
	ec.CoverRate = decimal.NewFromFloat(cfg.CoverRate)
	ec.BrandingRate = decimal.NewFromFloat(cfg.BrandingRate)
	ec.ThemeRideRate = decimal.NewFromFloat(cfg.ThemeRideRate)
	return ec
}
