package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/sonicforge/scbridge-api/internal/api/handlers"
	apimiddleware "github.com/sonicforge/scbridge-api/internal/api/middleware"
	"github.com/sonicforge/scbridge-api/internal/config"
	"github.com/sonicforge/scbridge-api/internal/metrics"
	"github.com/sonicforge/scbridge-api/internal/sound"
	"gorm.io/gorm"
)

func SetupRouter(db *gorm.DB, cfg *config.Config, performer *sound.Performer, metricsClient *metrics.Client, version string) *gin.Engine {
	router := gin.New()

	// Recovery middleware (must be first)
	router.Use(apimiddleware.RecoverWithSentry())

	// Sentry middleware for error tracking
	router.Use(apimiddleware.SentryMiddleware())

	// Request tracking and structured logging
	router.Use(apimiddleware.RequestTracking())

	// CORS middleware
	router.Use(apimiddleware.CORS())

	// Health check
	scAddr := fmt.Sprintf("%s:%d", cfg.SCHost, cfg.SCPort)
	healthHandler := handlers.NewHealthHandler(db, scAddr)
	router.GET("/health", healthHandler.HealthCheck)

	// Metrics endpoint
	metricsHandler := handlers.NewMetricsHandler(version)
	router.GET("/api/metrics", metricsHandler.GetMetrics)

	// Sound tools
	soundHandler := handlers.NewSoundHandler(performer, db, metricsClient)
	v1 := router.Group("/api/v1")
	{
		play := v1.Group("/play")
		{
			play.POST("/example", soundHandler.PlayExample)
			play.POST("/melody", soundHandler.PlayMelody)
			play.POST("/drums", soundHandler.PlayDrumPattern)
			play.POST("/synth", soundHandler.PlaySynth)
			play.POST("/sequence", soundHandler.PlaySequence)
			play.POST("/lfo", soundHandler.LFOModulation)
			play.POST("/layered", soundHandler.LayeredSynth)
			play.POST("/granular", soundHandler.GranularTexture)
			play.POST("/soundscape", soundHandler.AmbientSoundscape)
			play.POST("/rhythm", soundHandler.GenerativeRhythm)
			play.POST("/chords", soundHandler.ChordProgression)
		}

		performanceHandler := handlers.NewPerformanceHandler(db)
		v1.GET("/performances", performanceHandler.ListPerformances)
	}

	return router
}
