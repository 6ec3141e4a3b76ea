package transport

import (
	"time"

	"github.com/google/uuid"
)

type CreateLeadRequest struct {
	CustomerName string  `json:"customerName" validate:"required,min=1,max=200"`
	Phone        *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	Email        *string `json:"email,omitempty" validate:"omitempty,email"`
	Brand        string  `json:"brand" validate:"required,max=100"`
	Model        *string `json:"model,omitempty" validate:"omitempty,max=100"`
	Region       string  `json:"region" validate:"required,max=100"`
	Source       string  `json:"source" validate:"required,max=200"`
	Sentiment    string  `json:"sentiment" validate:"omitempty,max=20"`
	Summary      *string `json:"summary,omitempty" validate:"omitempty,max=4000"`
	// DateDetected is when the lead surfaced at its source, ISO 8601.
	// A bare date (2025-06-11) is accepted; time-of-day signals are
	// then skipped during scoring.
	DateDetected string `json:"dateDetected" validate:"required"`
}

type UpdateLeadRequest struct {
	CustomerName *string `json:"customerName,omitempty" validate:"omitempty,min=1,max=200"`
	Phone        *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	Email        *string `json:"email,omitempty" validate:"omitempty,email"`
	Model        *string `json:"model,omitempty" validate:"omitempty,max=100"`
	Sentiment    *string `json:"sentiment,omitempty" validate:"omitempty,max=20"`
	Summary      *string `json:"summary,omitempty" validate:"omitempty,max=4000"`
}

type UpdateLeadStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=NEW CONTACTED QUALIFIED CONVERTED ARCHIVED"`
}

type ReassignLeadRequest struct {
	DealerID uuid.UUID `json:"dealerId" validate:"required"`
}

type ScheduleFollowUpRequest struct {
	FollowUpAt time.Time `json:"followUpAt" validate:"required"`
}

type LeadResponse struct {
	ID               uuid.UUID  `json:"id"`
	CustomerName     string     `json:"customerName"`
	Phone            *string    `json:"phone,omitempty"`
	Email            *string    `json:"email,omitempty"`
	Brand            string     `json:"brand"`
	Model            *string    `json:"model,omitempty"`
	Region           string     `json:"region"`
	Source           string     `json:"source"`
	Sentiment        string     `json:"sentiment"`
	Summary          *string    `json:"summary,omitempty"`
	Status           string     `json:"status"`
	Score            int        `json:"score"`
	ScoreVersion     string     `json:"scoreVersion"`
	ScoreFactors     map[string]float64 `json:"scoreFactors,omitempty"`
	AssignedDealerID *uuid.UUID `json:"assignedDealerId,omitempty"`
	AssignmentType   *string    `json:"assignmentType,omitempty"`
	AssignedAt       *time.Time `json:"assignedAt,omitempty"`
	FollowUpAt       *time.Time `json:"followUpAt,omitempty"`
	DateDetected     time.Time  `json:"dateDetected"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

type ListLeadsRequest struct {
	DealerID   *uuid.UUID `form:"dealerId"`
	Status     string     `form:"status" validate:"omitempty,oneof=NEW CONTACTED QUALIFIED CONVERTED ARCHIVED"`
	Brand      string     `form:"brand" validate:"omitempty,max=100"`
	Region     string     `form:"region" validate:"omitempty,max=100"`
	Unassigned bool       `form:"unassigned"`
	Search     string     `form:"search" validate:"omitempty,max=100"`
	SortBy     string     `form:"sortBy" validate:"omitempty,oneof=score createdAt dateDetected"`
	SortOrder  string     `form:"sortOrder" validate:"omitempty,oneof=asc desc"`
	Page       int        `form:"page" validate:"omitempty,min=1"`
	PageSize   int        `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

type ListLeadsResponse struct {
	Items      []LeadResponse `json:"items"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
	TotalPages int            `json:"totalPages"`
}

// PublicLeadResponse is the customer-facing view behind the follow-up
// link. It exposes no dealer economics or scoring internals.
type PublicLeadResponse struct {
	CustomerName string     `json:"customerName"`
	Brand        string     `json:"brand"`
	Model        *string    `json:"model,omitempty"`
	Status       string     `json:"status"`
	FollowUpAt   *time.Time `json:"followUpAt,omitempty"`
}
