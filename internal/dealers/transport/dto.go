package transport

import (
	"time"

	"github.com/google/uuid"
)

type CreateDealerRequest struct {
	Name             string `json:"name" validate:"required,min=1,max=200"`
	Brand            string `json:"brand" validate:"required,max=100"`
	Region           string `json:"region" validate:"required,max=100"`
	BillingPlan      string `json:"billingPlan" validate:"required,oneof=Standard Pro Enterprise"`
	MaxLeadsCapacity *int   `json:"maxLeadsCapacity,omitempty" validate:"omitempty,min=1"`
	CostPerLeadCents int64  `json:"costPerLeadCents" validate:"required,min=0"`
	ContactName      string `json:"contactName" validate:"required,max=120"`
	ContactEmail     string `json:"contactEmail" validate:"required,email"`
	ContactPhone     string `json:"contactPhone" validate:"required,max=50"`
}

type UpdateDealerRequest struct {
	Name             *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Brand            *string `json:"brand,omitempty" validate:"omitempty,max=100"`
	Region           *string `json:"region,omitempty" validate:"omitempty,max=100"`
	Active           *bool   `json:"active,omitempty"`
	BillingPlan      *string `json:"billingPlan,omitempty" validate:"omitempty,oneof=Standard Pro Enterprise"`
	MaxLeadsCapacity *int    `json:"maxLeadsCapacity,omitempty" validate:"omitempty,min=1"`
	CostPerLeadCents *int64  `json:"costPerLeadCents,omitempty" validate:"omitempty,min=0"`
	ContactName      *string `json:"contactName,omitempty" validate:"omitempty,max=120"`
	ContactEmail     *string `json:"contactEmail,omitempty" validate:"omitempty,email"`
	ContactPhone     *string `json:"contactPhone,omitempty" validate:"omitempty,max=50"`
}

type DealerResponse struct {
	ID                   uuid.UUID `json:"id"`
	Name                 string    `json:"name"`
	Brand                string    `json:"brand"`
	Region               string    `json:"region"`
	Active               bool      `json:"active"`
	BillingPlan          string    `json:"billingPlan"`
	MaxLeadsCapacity     *int      `json:"maxLeadsCapacity,omitempty"`
	LeadsAssigned        int       `json:"leadsAssigned"`
	CostPerLeadCents     int64     `json:"costPerLeadCents"`
	CurrentUnbilledCents int64     `json:"currentUnbilledCents"`
	TotalSpentCents      int64     `json:"totalSpentCents"`
	ContactName          string    `json:"contactName"`
	ContactEmail         string    `json:"contactEmail"`
	ContactPhone         string    `json:"contactPhone"`
	LogoFileKey          *string   `json:"logoFileKey,omitempty"`
	LogoFileName         *string   `json:"logoFileName,omitempty"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
}

type ListDealersRequest struct {
	Brand      string `form:"brand" validate:"omitempty,max=100"`
	Region     string `form:"region" validate:"omitempty,max=100"`
	ActiveOnly bool   `form:"activeOnly"`
	Search     string `form:"search" validate:"omitempty,max=100"`
	SortBy     string `form:"sortBy" validate:"omitempty,oneof=name leadsAssigned createdAt"`
	SortOrder  string `form:"sortOrder" validate:"omitempty,oneof=asc desc"`
	Page       int    `form:"page" validate:"omitempty,min=1"`
	PageSize   int    `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

type ListDealersResponse struct {
	Items      []DealerResponse `json:"items"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"pageSize"`
	TotalPages int              `json:"totalPages"`
}

type DealerBillingResponse struct {
	DealerID             uuid.UUID `json:"dealerId"`
	BillingPlan          string    `json:"billingPlan"`
	LeadsAssigned        int       `json:"leadsAssigned"`
	CostPerLeadCents     int64     `json:"costPerLeadCents"`
	CurrentUnbilledCents int64     `json:"currentUnbilledCents"`
	TotalSpentCents      int64     `json:"totalSpentCents"`
}

type SettleBillingResponse struct {
	DealerID        uuid.UUID `json:"dealerId"`
	SettledCents    int64     `json:"settledCents"`
	TotalSpentCents int64     `json:"totalSpentCents"`
}

type DealerLogoPresignRequest struct {
	FileName    string `json:"fileName" validate:"required,max=255"`
	ContentType string `json:"contentType" validate:"required,max=100"`
	SizeBytes   int64  `json:"sizeBytes" validate:"required,min=1"`
}

type DealerLogoPresignResponse struct {
	UploadURL string `json:"uploadUrl"`
	FileKey   string `json:"fileKey"`
	ExpiresAt int64  `json:"expiresAt"`
}

type SetDealerLogoRequest struct {
	FileKey     string `json:"fileKey" validate:"required,max=512"`
	FileName    string `json:"fileName" validate:"required,max=255"`
	ContentType string `json:"contentType" validate:"required,max=100"`
	SizeBytes   int64  `json:"sizeBytes" validate:"required,min=1"`
}

type DealerLogoDownloadResponse struct {
	DownloadURL string `json:"downloadUrl"`
	ExpiresAt   int64  `json:"expiresAt"`
}
