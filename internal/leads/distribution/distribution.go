// Package distribution decides which dealer receives a new lead.
//
// Matching walks three tiers: exact brand and region, then the lead
// region's neighbouring provinces in priority order, then any dealer of
// the brand nationally. Dealer-side users capturing their own leads
// bypass matching entirely and keep the lead at their home dealership.
package distribution

import (
	"sort"
	"strings"

	"dealerhub_backend/internal/auth/roles"
	"dealerhub_backend/internal/regions"

	"github.com/google/uuid"
)

// AssignmentType records which tier produced an assignment.
type AssignmentType string

const (
	// AssignmentDirect is an exact brand and region match, or a
	// dealer-side self-assignment.
	AssignmentDirect AssignmentType = "DIRECT"
	// AssignmentFallback is a match in a neighbouring province.
	AssignmentFallback AssignmentType = "FALLBACK"
	// AssignmentNational is a brand-only match anywhere in the country.
	AssignmentNational AssignmentType = "NATIONAL"
)

// Dealer is the slice of dealer state the engine needs. Candidates are
// expected to already match the lead's brand.
type Dealer struct {
	ID               uuid.UUID
	Name             string
	Region           string
	Active           bool
	BillingPlan      string
	MaxLeadsCapacity *int
	LeadsAssigned    int
}

// Lead carries the routing inputs of a lead.
type Lead struct {
	Brand  string
	Region string
}

// Actor identifies who is capturing the lead. A nil actor means the
// lead arrived through an unattended channel such as a webhook.
type Actor struct {
	Role     string
	DealerID *uuid.UUID
}

// Assignment is the engine's verdict for a single lead.
type Assignment struct {
	DealerID   uuid.UUID
	DealerName string
	Type       AssignmentType
}

// FilterAvailable keeps dealers that can take another lead: active, and
// either uncapped or under their monthly capacity.
func FilterAvailable(dealers []Dealer) []Dealer {
	available := make([]Dealer, 0, len(dealers))
	for _, d := range dealers {
		if !d.Active {
			continue
		}
		if d.MaxLeadsCapacity != nil && d.LeadsAssigned >= *d.MaxLeadsCapacity {
			continue
		}
		available = append(available, d)
	}
	return available
}

// planWeight ranks billing plans. Unknown plans sort last.
func planWeight(plan string) int {
	switch strings.ToLower(plan) {
	case "enterprise":
		return 3
	case "pro":
		return 2
	case "standard":
		return 1
	default:
		return 0
	}
}

// PickBest filters candidates to those that can take another lead, then
// chooses the one with the highest billing plan weight, breaking ties by
// fewest leads assigned this month. The sort is stable so equal
// candidates keep their input order.
func PickBest(candidates []Dealer) *Dealer {
	ranked := FilterAvailable(candidates)
	if len(ranked) == 0 {
		return nil
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		wi, wj := planWeight(ranked[i].BillingPlan), planWeight(ranked[j].BillingPlan)
		if wi != wj {
			return wi > wj
		}
		return ranked[i].LeadsAssigned < ranked[j].LeadsAssigned
	})

	best := ranked[0]
	return &best
}

// Distribute runs the full matching cascade. Candidates must already be
// filtered to the lead's brand. A nil result means no dealer can take
// the lead and it stays in the unassigned pool.
func Distribute(lead Lead, candidates []Dealer, actor *Actor, graph *regions.Graph) *Assignment {
	// Dealer-side staff capturing a lead keep it at their own store,
	// regardless of brand or capacity.
	if actor != nil && roles.DealerSide(actor.Role) && actor.DealerID != nil {
		return &Assignment{DealerID: *actor.DealerID, Type: AssignmentDirect}
	}

	available := FilterAvailable(candidates)
	if len(available) == 0 {
		return nil
	}

	// Tier 1: dealers in the lead's own province.
	if best := PickBest(inRegion(available, lead.Region)); best != nil {
		return &Assignment{DealerID: best.ID, DealerName: best.Name, Type: AssignmentDirect}
	}

	// Tier 2: neighbouring provinces, in priority order. The first
	// neighbour with any available dealer wins; later neighbours are
	// not considered even if they hold a better-ranked dealer.
	for _, neighbor := range graph.Neighbors(lead.Region) {
		if best := PickBest(inRegion(available, neighbor)); best != nil {
			return &Assignment{DealerID: best.ID, DealerName: best.Name, Type: AssignmentFallback}
		}
	}

	// Tier 3: any dealer of the brand, nationally.
	if best := PickBest(available); best != nil {
		return &Assignment{DealerID: best.ID, DealerName: best.Name, Type: AssignmentNational}
	}

	return nil
}

func inRegion(dealers []Dealer, region string) []Dealer {
	matched := make([]Dealer, 0, len(dealers))
	for _, d := range dealers {
		if strings.EqualFold(d.Region, region) {
			matched = append(matched, d)
		}
	}
	return matched
}
