package service

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DealerInfo is the slice of dealer state the leads context needs.
// Defined here so leads depends on its own port, not on the dealers
// module directly; the adapter in internal/adapters does the mapping.
type DealerInfo struct {
	ID               uuid.UUID
	Name             string
	Brand            string
	Region           string
	Active           bool
	BillingPlan      string
	MaxLeadsCapacity *int
	LeadsAssigned    int
}

// DealerDirectory exposes the dealer lookups and ledger updates the
// distribution flow needs.
type DealerDirectory interface {
	ListByBrand(ctx context.Context, brand string) ([]DealerInfo, error)
	Get(ctx context.Context, id uuid.UUID) (DealerInfo, error)
	// ApplyAssignment increments the dealer's lead counter and unbilled
	// balance after a lead lands on them.
	ApplyAssignment(ctx context.Context, dealerID uuid.UUID) error
	// ReleaseAssignment reverses ApplyAssignment when a lead is moved
	// away.
	ReleaseAssignment(ctx context.Context, dealerID uuid.UUID) error
}

// FollowUpScheduler enqueues delayed follow-up reminders. A nil
// scheduler disables reminders (e.g. when Redis is not configured).
type FollowUpScheduler interface {
	ScheduleFollowUp(ctx context.Context, leadID uuid.UUID, at time.Time) error
	CancelFollowUp(ctx context.Context, leadID uuid.UUID) error
}
