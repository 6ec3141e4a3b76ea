// Package adapters contains anti-corruption adapters that let one
// bounded context consume another through its own port types.
package adapters

import (
	"context"

	dealerrepo "dealerhub_backend/internal/dealers/repository"
	leadsvc "dealerhub_backend/internal/leads/service"

	"github.com/google/uuid"
)

// DealerDirectory adapts the dealers repository to the leads context's
// DealerDirectory port.
type DealerDirectory struct {
	repo *dealerrepo.Repository
}

// NewDealerDirectory creates the leads-facing dealer directory adapter.
func NewDealerDirectory(repo *dealerrepo.Repository) *DealerDirectory {
	return &DealerDirectory{repo: repo}
}

func (a *DealerDirectory) ListByBrand(ctx context.Context, brand string) ([]leadsvc.DealerInfo, error) {
	dealers, err := a.repo.ListByBrand(ctx, brand)
	if err != nil {
		return nil, err
	}
	infos := make([]leadsvc.DealerInfo, 0, len(dealers))
	for _, d := range dealers {
		infos = append(infos, mapDealerInfo(d))
	}
	return infos, nil
}

func (a *DealerDirectory) Get(ctx context.Context, id uuid.UUID) (leadsvc.DealerInfo, error) {
	dealer, err := a.repo.GetByID(ctx, id)
	if err != nil {
		return leadsvc.DealerInfo{}, err
	}
	return mapDealerInfo(dealer), nil
}

func (a *DealerDirectory) ApplyAssignment(ctx context.Context, dealerID uuid.UUID) error {
	return a.repo.ApplyAssignment(ctx, dealerID)
}

func (a *DealerDirectory) ReleaseAssignment(ctx context.Context, dealerID uuid.UUID) error {
	return a.repo.ReleaseAssignment(ctx, dealerID)
}

func mapDealerInfo(d dealerrepo.Dealer) leadsvc.DealerInfo {
	return leadsvc.DealerInfo{
		ID:               d.ID,
		Name:             d.Name,
		Brand:            d.Brand,
		Region:           d.Region,
		Active:           d.Active,
		BillingPlan:      d.BillingPlan,
		MaxLeadsCapacity: d.MaxLeadsCapacity,
		LeadsAssigned:    d.LeadsAssigned,
	}
}

// Compile-time check.
var _ leadsvc.DealerDirectory = (*DealerDirectory)(nil)
