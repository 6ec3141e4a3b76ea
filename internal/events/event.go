// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"time"

	"dealerhub_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Leads Domain Events
// =============================================================================

// LeadCaptured is published when a new lead enters the system, before
// distribution has run.
type LeadCaptured struct {
	BaseEvent
	LeadID uuid.UUID `json:"leadId"`
	Brand  string    `json:"brand"`
	Region string    `json:"region"`
	Source string    `json:"source,omitempty"`
	Score  int       `json:"score"`
}

func (e LeadCaptured) EventName() string { return "leads.lead.captured" }

// LeadAssigned is published when distribution assigns a lead to a dealer.
type LeadAssigned struct {
	BaseEvent
	LeadID         uuid.UUID `json:"leadId"`
	DealerID       uuid.UUID `json:"dealerId"`
	AssignmentType string    `json:"assignmentType"`
	Score          int       `json:"score"`
}

func (e LeadAssigned) EventName() string { return "leads.lead.assigned" }

// LeadUnassigned is published when a lead could not be matched to any
// dealer and remains in the unassigned pool.
type LeadUnassigned struct {
	BaseEvent
	LeadID uuid.UUID `json:"leadId"`
	Brand  string    `json:"brand"`
	Region string    `json:"region"`
}

func (e LeadUnassigned) EventName() string { return "leads.lead.unassigned" }

// LeadReassigned is published when a lead is moved from one dealer to
// another, manually or via redistribution.
type LeadReassigned struct {
	BaseEvent
	LeadID         uuid.UUID  `json:"leadId"`
	FromDealerID   *uuid.UUID `json:"fromDealerId,omitempty"`
	ToDealerID     uuid.UUID  `json:"toDealerId"`
	AssignmentType string     `json:"assignmentType"`
}

func (e LeadReassigned) EventName() string { return "leads.lead.reassigned" }

// LeadStatusChanged is published on every pipeline transition.
type LeadStatusChanged struct {
	BaseEvent
	LeadID    uuid.UUID  `json:"leadId"`
	DealerID  *uuid.UUID `json:"dealerId,omitempty"`
	OldStatus string     `json:"oldStatus"`
	NewStatus string     `json:"newStatus"`
	ChangedBy uuid.UUID  `json:"changedBy"`
}

func (e LeadStatusChanged) EventName() string { return "leads.lead.status_changed" }

// FollowUpDue is published by the scheduler when a lead's follow-up
// reminder fires.
type FollowUpDue struct {
	BaseEvent
	LeadID       uuid.UUID `json:"leadId"`
	DealerID     uuid.UUID `json:"dealerId"`
	CustomerName string    `json:"customerName"`
	DueAt        time.Time `json:"dueAt"`
}

func (e FollowUpDue) EventName() string { return "leads.followup.due" }

// =============================================================================
// Insights Domain Events
// =============================================================================

// InsightConverted is published when a market insight is promoted to a
// real lead.
type InsightConverted struct {
	BaseEvent
	InsightID uuid.UUID `json:"insightId"`
	LeadID    uuid.UUID `json:"leadId"`
	Brand     string    `json:"brand"`
	Region    string    `json:"region"`
}

func (e InsightConverted) EventName() string { return "insights.insight.converted" }

// =============================================================================
// Dealers Domain Events
// =============================================================================

// DealerCreated is published when a dealer is onboarded.
type DealerCreated struct {
	BaseEvent
	DealerID uuid.UUID `json:"dealerId"`
	Name     string    `json:"name"`
	Region   string    `json:"region"`
	Plan     string    `json:"plan"`
}

func (e DealerCreated) EventName() string { return "dealers.dealer.created" }

// DealerDeactivated is published when a dealer is taken offline and can
// no longer receive leads.
type DealerDeactivated struct {
	BaseEvent
	DealerID uuid.UUID `json:"dealerId"`
}

func (e DealerDeactivated) EventName() string { return "dealers.dealer.deactivated" }
