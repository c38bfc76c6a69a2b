package models

import (
	"time"

	"github.com/google/uuid"
)

// Performance records one tool invocation: what was asked for, what was
// played, and whether every created voice was freed. VoicesCreated and
// VoicesFreed diverging would indicate a lifecycle bug.
type Performance struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	Tool          string    `gorm:"not null;index" json:"tool"`
	Params        string    `gorm:"type:text" json:"params"` // request body as JSON
	Summary       string    `json:"summary"`
	Status        string    `gorm:"index" json:"status"` // "ok" or "error"
	Error         string    `json:"error,omitempty"`
	DurationMS    int64     `json:"duration_ms"`
	VoicesCreated int       `json:"voices_created"`
	VoicesFreed   int       `json:"voices_freed"`
}
