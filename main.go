package main

import (
	"context"
	"log"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sonicforge/scbridge-api/internal/api"
	"github.com/sonicforge/scbridge-api/internal/config"
	"github.com/sonicforge/scbridge-api/internal/database"
	"github.com/sonicforge/scbridge-api/internal/metrics"
	"github.com/sonicforge/scbridge-api/internal/osc"
	"github.com/sonicforge/scbridge-api/internal/sound"
	"gorm.io/gorm"
)

const (
	sentryFlushTimeout    = 2 * time.Second
	environmentProduction = "production"
)

// releaseVersion is set via ldflags during build
var releaseVersion = "dev"

// GetVersion returns the current release version
func GetVersion() string {
	return releaseVersion
}

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := config.Load()

	// Initialize Sentry
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			Environment:      cfg.Environment,
			Release:          "scbridge-api@" + releaseVersion,
			EnableTracing:    true,
			TracesSampleRate: 1.0, // adjust based on volume
			Debug:            cfg.Environment != environmentProduction,
			BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
				// Filter out sensitive data
				if event.Request != nil {
					event.Request.Headers = filterSensitiveHeaders(event.Request.Headers)
				}
				return event
			},
		}); err != nil {
			log.Printf("Failed to initialize Sentry: %v", err)
		} else {
			log.Printf("✅ Sentry initialized (environment: %s, release: %s)", cfg.Environment, releaseVersion)
			// Flush on shutdown
			defer sentry.Flush(sentryFlushTimeout)
		}
	} else {
		log.Println("⚠️  Sentry not configured (SENTRY_DSN not set)")
	}

	// Initialize database for performance history. The server runs without
	// it; history endpoints report unavailable instead.
	historyDB := connectHistory(cfg)

	// Initialize the OSC client. UDP sends are fire-and-forget, so this
	// never fails even when scsynth is not running yet.
	scClient := osc.NewClient(cfg.SCHost, cfg.SCPort)
	log.Printf("🎛  scsynth endpoint: %s:%d (patch: %s)", cfg.SCHost, cfg.SCPort, cfg.SCPatch)

	performer := sound.New(scClient, sound.WithPatch(cfg.SCPatch))

	// Initialize CloudWatch metrics
	metricsClient, err := metrics.NewClient(context.Background(), cfg.Environment, cfg.MetricsEnabled)
	if err != nil {
		sentry.CaptureException(err)
		log.Printf("Failed to initialize CloudWatch metrics: %v", err)
	}

	// Set Gin mode
	if cfg.Environment == environmentProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize router
	router := api.SetupRouter(historyDB, cfg, performer, metricsClient, GetVersion())

	// Start server
	log.Printf("🚀 Starting server on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		sentry.CaptureException(err)
		log.Fatal("Failed to start server:", err)
	}
}

// connectHistory opens the performance history database when DATABASE_URL
// is set. A nil return disables history recording without failing startup.
func connectHistory(cfg *config.Config) *gorm.DB {
	if cfg.DatabaseURL == "" {
		log.Println("⚠️  Performance history disabled (DATABASE_URL not set)")
		return nil
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		sentry.CaptureException(err)
		log.Fatal("Failed to connect to database:", err)
	}

	if err := database.Migrate(db); err != nil {
		sentry.CaptureException(err)
		log.Fatal("Failed to run migrations:", err)
	}
	return db
}

func filterSensitiveHeaders(headers map[string]string) map[string]string {
	filtered := make(map[string]string)
	sensitiveKeys := map[string]bool{
		"authorization": true,
		"cookie":        true,
		"x-api-key":     true,
	}

	for k, v := range headers {
		if sensitiveKeys[k] {
			filtered[k] = "[REDACTED]"
		} else {
			filtered[k] = v
		}
	}
	return filtered
}
