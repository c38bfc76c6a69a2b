package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sonicforge/scbridge-api/internal/logger"
	"github.com/sonicforge/scbridge-api/internal/metrics"
	"github.com/sonicforge/scbridge-api/internal/models"
	"github.com/sonicforge/scbridge-api/internal/sound"
	"gorm.io/gorm"
)

// soundTimeoutSecs bounds any single invocation. The longest tool runs 120
// seconds of musical time; the margin absorbs scheduling jitter.
const soundTimeoutSecs = 150

// SoundHandler exposes each musical tool as one endpoint. The performer is
// shared; every invocation gets its own allocator and lifecycle guard.
type SoundHandler struct {
	performer *sound.Performer
	db        *gorm.DB
	metrics   *metrics.Client
}

func NewSoundHandler(performer *sound.Performer, db *gorm.DB, metricsClient *metrics.Client) *SoundHandler {
	return &SoundHandler{
		performer: performer,
		db:        db,
		metrics:   metricsClient,
	}
}

// bind decodes the request body over a params struct prefilled with
// defaults; absent fields keep their defaults, out-of-range values are
// clamped downstream. An empty body plays the tool's default variant.
func bind(c *gin.Context, params any) bool {
	if err := c.ShouldBindJSON(params); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

// invoke runs one tool under a request-scoped deadline and records the
// outcome. Errors surface only after the performer's guard has released
// every voice, so a failed invocation still leaves the engine silent.
func (h *SoundHandler) invoke(c *gin.Context, tool string, params any, fn func(ctx context.Context) (sound.Result, error)) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), soundTimeoutSecs*time.Second)
	defer cancel()

	start := time.Now()
	result, err := fn(ctx)
	elapsed := time.Since(start)

	statusCode := http.StatusOK
	if err != nil {
		statusCode = http.StatusInternalServerError
	}
	h.metrics.RecordInvocation(tool, statusCode, elapsed, result.VoicesCreated)
	h.recordHistory(tool, params, result, err, elapsed)

	if err != nil {
		logger.Error("Tool invocation failed", err, logger.Fields{
			"request_id": c.GetString("request_id"),
			"tool":       tool,
			"voices":     result.VoicesCreated,
		})
		c.JSON(statusCode, gin.H{
			"error":          err.Error(),
			"tool":           tool,
			"voices_created": result.VoicesCreated,
			"voices_freed":   result.VoicesFreed,
		})
		return
	}

	logger.Info("Tool invocation completed", logger.Fields{
		"request_id":  c.GetString("request_id"),
		"tool":        tool,
		"duration_ms": elapsed.Milliseconds(),
		"voices":      result.VoicesCreated,
	})
	c.JSON(statusCode, gin.H{
		"tool":           tool,
		"summary":        result.Summary,
		"voices_created": result.VoicesCreated,
		"voices_freed":   result.VoicesFreed,
	})
}

// recordHistory persists the invocation when a database is configured.
func (h *SoundHandler) recordHistory(tool string, params any, result sound.Result, invokeErr error, elapsed time.Duration) {
	if h.db == nil {
		return
	}
	status := "ok"
	errMsg := ""
	if invokeErr != nil {
		status = "error"
		errMsg = invokeErr.Error()
	}
	paramsJSON, _ := json.Marshal(params)

	perf := models.Performance{
		ID:            uuid.New(),
		Tool:          tool,
		Params:        string(paramsJSON),
		Summary:       result.Summary,
		Status:        status,
		Error:         errMsg,
		DurationMS:    elapsed.Milliseconds(),
		VoicesCreated: result.VoicesCreated,
		VoicesFreed:   result.VoicesFreed,
	}
	if err := h.db.Create(&perf).Error; err != nil {
		logger.Error("Failed to record performance", err, logger.Fields{"tool": tool})
	}
}

// PlayExample plays the connection smoke test.
func (h *SoundHandler) PlayExample(c *gin.Context) {
	h.invoke(c, "example", nil, func(ctx context.Context) (sound.Result, error) {
		return h.performer.PlayExample(ctx)
	})
}

// PlayMelody plays a procedurally generated melody.
func (h *SoundHandler) PlayMelody(c *gin.Context) {
	params := sound.MelodyParams{Scale: "major", Tempo: 120}
	if !bind(c, &params) {
		return
	}
	h.invoke(c, "melody", params, func(ctx context.Context) (sound.Result, error) {
		return h.performer.PlayMelody(ctx, params)
	})
}

// PlayDrumPattern plays a fixed or random drum pattern.
func (h *SoundHandler) PlayDrumPattern(c *gin.Context) {
	params := sound.DrumParams{Pattern: "four_on_floor", Beats: 16, Tempo: 120}
	if !bind(c, &params) {
		return
	}
	h.invoke(c, "drums", params, func(ctx context.Context) (sound.Result, error) {
		return h.performer.PlayDrumPattern(ctx, params)
	})
}

// PlaySynth plays one shaped synth voice.
func (h *SoundHandler) PlaySynth(c *gin.Context) {
	params := sound.SynthParams{Type: "sine", Note: "A4", Duration: 2.0, Volume: 0.5}
	if !bind(c, &params) {
		return
	}
	h.invoke(c, "synth", params, func(ctx context.Context) (sound.Result, error) {
		return h.performer.PlaySynth(ctx, params)
	})
}

// PlaySequence plays a literal pattern string.
func (h *SoundHandler) PlaySequence(c *gin.Context) {
	params := sound.SequenceParams{Synth: "sine", Tempo: 120, Repeats: 1}
	if !bind(c, &params) {
		return
	}
	if params.Pattern == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pattern is required"})
		return
	}
	h.invoke(c, "sequence", params, func(ctx context.Context) (sound.Result, error) {
		return h.performer.PlaySequence(ctx, params)
	})
}

// LFOModulation sweeps one parameter on one held voice.
func (h *SoundHandler) LFOModulation(c *gin.Context) {
	params := sound.LFOParams{Target: "frequency", Rate: 0.5, Depth: 0.5, Waveform: "sine", Duration: 10.0}
	if !bind(c, &params) {
		return
	}
	h.invoke(c, "lfo", params, func(ctx context.Context) (sound.Result, error) {
		return h.performer.LFOModulation(ctx, params)
	})
}

// LayeredSynth plays a stack of detuned layers.
func (h *SoundHandler) LayeredSynth(c *gin.Context) {
	params := sound.LayeredParams{BaseNote: "C3", Layers: 3, Detune: 0.1, Duration: 5.0}
	if !bind(c, &params) {
		return
	}
	h.invoke(c, "layered", params, func(ctx context.Context) (sound.Result, error) {
		return h.performer.LayeredSynth(ctx, params)
	})
}

// GranularTexture plays a granular cloud around a center pitch.
func (h *SoundHandler) GranularTexture(c *gin.Context) {
	params := sound.GranularParams{SourceNote: "A4", Density: 0.5, GrainSize: 0.1, PitchSpread: 0.5, Duration: 10.0}
	if !bind(c, &params) {
		return
	}
	h.invoke(c, "granular", params, func(ctx context.Context) (sound.Result, error) {
		return h.performer.GranularTexture(ctx, params)
	})
}

// AmbientSoundscape plays a mood-driven ambient texture.
func (h *SoundHandler) AmbientSoundscape(c *gin.Context) {
	params := sound.SoundscapeParams{Duration: 30, Density: 0.5, PitchRange: "medium", Mood: "calm"}
	if !bind(c, &params) {
		return
	}
	h.invoke(c, "soundscape", params, func(ctx context.Context) (sound.Result, error) {
		return h.performer.AmbientSoundscape(ctx, params)
	})
}

// GenerativeRhythm plays an evolving rhythm.
func (h *SoundHandler) GenerativeRhythm(c *gin.Context) {
	params := sound.RhythmParams{Style: "minimal", Duration: 20, Tempo: 120, Intensity: 0.5}
	if !bind(c, &params) {
		return
	}
	h.invoke(c, "rhythm", params, func(ctx context.Context) (sound.Result, error) {
		return h.performer.GenerativeRhythm(ctx, params)
	})
}

// ChordProgression plays a chord progression in a voicing style.
func (h *SoundHandler) ChordProgression(c *gin.Context) {
	params := sound.ChordProgressionParams{Progression: "C-G-Am-F", Style: "pad", Tempo: 60, DurationPerChord: 4.0}
	if !bind(c, &params) {
		return
	}
	h.invoke(c, "chords", params, func(ctx context.Context) (sound.Result, error) {
		return h.performer.ChordProgression(ctx, params)
	})
}
