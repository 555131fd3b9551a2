package events

import (
	"time"

	"github.com/google/uuid"
)

// Dashboard event types
const (
	EventTypeAnalysisTracked = "analysis_tracked"
	EventTypeAnalysisSaved   = "analysis_saved"
	EventTypeStatsRecomputed = "stats_recomputed"
	EventTypeDataCleared     = "data_cleared"
)

// DashboardEvent is published on every analytics mutation so cached
// dashboard payloads can be invalidated.
type DashboardEvent struct {
	EventType string      `json:"event_type"`
	UserID    uuid.UUID   `json:"user_id"`
	EntityID  uuid.UUID   `json:"entity_id"`
	Timestamp time.Time   `json:"timestamp"`
	Details   interface{} `json:"details,omitempty"`
}

// NewDashboardEvent builds an event stamped with the current time.
func NewDashboardEvent(eventType string, userID, entityID uuid.UUID) *DashboardEvent {
	return &DashboardEvent{
		EventType: eventType,
		UserID:    userID,
		EntityID:  entityID,
		Timestamp: time.Now().UTC(),
	}
}
