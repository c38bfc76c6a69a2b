package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sonicforge/scbridge-api/internal/logger"
	"github.com/sonicforge/scbridge-api/internal/models"
	"gorm.io/gorm"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
)

// PerformanceHandler serves the invocation history recorded by the sound
// endpoints.
type PerformanceHandler struct {
	db *gorm.DB
}

func NewPerformanceHandler(db *gorm.DB) *PerformanceHandler {
	return &PerformanceHandler{db: db}
}

// ListPerformances returns recent invocations, newest first. Optional query
// params: limit (default 50, capped at 500) and tool to filter by.
func (h *PerformanceHandler) ListPerformances(c *gin.Context) {
	if h.db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "performance history is not configured"})
		return
	}

	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
		if limit > maxHistoryLimit {
			limit = maxHistoryLimit
		}
	}

	query := h.db.Order("created_at desc").Limit(limit)
	if tool := c.Query("tool"); tool != "" {
		query = query.Where("tool = ?", tool)
	}

	var performances []models.Performance
	if err := query.Find(&performances).Error; err != nil {
		logger.Error("Failed to list performances", err, logger.Fields{
			"request_id": c.GetString("request_id"),
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to query performance history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":        len(performances),
		"performances": performances,
	})
}
