package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db     *gorm.DB
	scAddr string
}

func NewHealthHandler(db *gorm.DB, scAddr string) *HealthHandler {
	return &HealthHandler{db: db, scAddr: scAddr}
}

// HealthCheck returns the health status of the API. The scsynth endpoint is
// reported but not probed: the control channel is send-only UDP, so there is
// nothing to ping.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	historyStatus := "disabled"
	if h.db != nil {
		historyStatus = "enabled"
		if sqlDB, err := h.db.DB(); err != nil || sqlDB.Ping() != nil {
			historyStatus = "unreachable"
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"supercollider": gin.H{
			"addr": h.scAddr,
		},
		"history": gin.H{
			"status": historyStatus,
		},
	})
}
