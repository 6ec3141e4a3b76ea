package distribution

import (
	"testing"

	"dealerhub_backend/internal/auth/roles"
	"dealerhub_backend/internal/regions"

	"github.com/google/uuid"
)

func intPtr(v int) *int { return &v }

func testDealer(name, region, plan string, assigned int) Dealer {
	return Dealer{
		ID:            uuid.New(),
		Name:          name,
		Region:        region,
		Active:        true,
		BillingPlan:   plan,
		LeadsAssigned: assigned,
	}
}

func TestFilterAvailable(t *testing.T) {
	inactive := testDealer("inactive", "Gauteng", "Pro", 0)
	inactive.Active = false

	atCapacity := testDealer("full", "Gauteng", "Pro", 10)
	atCapacity.MaxLeadsCapacity = intPtr(10)

	overCapacity := testDealer("over", "Gauteng", "Pro", 12)
	overCapacity.MaxLeadsCapacity = intPtr(10)

	underCapacity := testDealer("under", "Gauteng", "Pro", 9)
	underCapacity.MaxLeadsCapacity = intPtr(10)

	uncapped := testDealer("uncapped", "Gauteng", "Pro", 500)

	available := FilterAvailable([]Dealer{inactive, atCapacity, overCapacity, underCapacity, uncapped})

	if len(available) != 2 {
		t.Fatalf("expected 2 available dealers, got %d", len(available))
	}
	if available[0].Name != "under" || available[1].Name != "uncapped" {
		t.Errorf("unexpected available set: %q, %q", available[0].Name, available[1].Name)
	}
}

func TestPickBestPlanWeight(t *testing.T) {
	standard := testDealer("standard", "Gauteng", "Standard", 0)
	enterprise := testDealer("enterprise", "Gauteng", "Enterprise", 50)
	pro := testDealer("pro", "Gauteng", "Pro", 0)

	best := PickBest([]Dealer{standard, enterprise, pro})
	if best == nil || best.Name != "enterprise" {
		t.Fatalf("expected enterprise dealer, got %+v", best)
	}
}

func TestPickBestTieBreaksOnLeadsAssigned(t *testing.T) {
	busy := testDealer("busy", "Gauteng", "Pro", 8)
	quiet := testDealer("quiet", "Gauteng", "Pro", 2)

	best := PickBest([]Dealer{busy, quiet})
	if best == nil || best.Name != "quiet" {
		t.Fatalf("expected quiet dealer, got %+v", best)
	}
}

func TestPickBestStableOnEqualRank(t *testing.T) {
	first := testDealer("first", "Gauteng", "Pro", 5)
	second := testDealer("second", "Gauteng", "Pro", 5)

	best := PickBest([]Dealer{first, second})
	if best == nil || best.Name != "first" {
		t.Fatalf("expected first dealer on equal rank, got %+v", best)
	}
}

func TestPickBestUnknownPlanSortsLast(t *testing.T) {
	unknown := testDealer("unknown", "Gauteng", "Legacy", 0)
	standard := testDealer("standard", "Gauteng", "Standard", 100)

	best := PickBest([]Dealer{unknown, standard})
	if best == nil || best.Name != "standard" {
		t.Fatalf("expected standard dealer over unknown plan, got %+v", best)
	}
}

func TestPickBestEmpty(t *testing.T) {
	if best := PickBest(nil); best != nil {
		t.Fatalf("expected nil for empty candidates, got %+v", best)
	}
}

func TestPickBestSkipsUnavailable(t *testing.T) {
	inactive := testDealer("inactive", "Gauteng", "Enterprise", 0)
	inactive.Active = false

	full := testDealer("full", "Gauteng", "Enterprise", 10)
	full.MaxLeadsCapacity = intPtr(10)

	standard := testDealer("standard", "Gauteng", "Standard", 3)

	best := PickBest([]Dealer{inactive, full, standard})
	if best == nil || best.Name != "standard" {
		t.Fatalf("expected the available Standard dealer, got %+v", best)
	}

	if best := PickBest([]Dealer{inactive, full}); best != nil {
		t.Fatalf("expected nil when no candidate can take a lead, got %+v", best)
	}
}

func TestDistributeSelfAssignmentOverride(t *testing.T) {
	graph := regions.MustGraph()
	homeDealer := uuid.New()

	// The actor's own store is not even in the candidate list.
	candidates := []Dealer{testDealer("other", "Gauteng", "Enterprise", 0)}

	for _, role := range []string{roles.DealerPrincipal, roles.SalesManager, roles.SalesExecutive} {
		actor := &Actor{Role: role, DealerID: &homeDealer}
		got := Distribute(Lead{Brand: "toyota", Region: "Gauteng"}, candidates, actor, graph)
		if got == nil || got.DealerID != homeDealer || got.Type != AssignmentDirect {
			t.Fatalf("role %s: expected direct self-assignment, got %+v", role, got)
		}
	}
}

func TestDistributeAdminDoesNotSelfAssign(t *testing.T) {
	graph := regions.MustGraph()
	adminDealer := uuid.New()
	candidate := testDealer("gauteng", "Gauteng", "Standard", 0)

	actor := &Actor{Role: roles.Admin, DealerID: &adminDealer}
	got := Distribute(Lead{Brand: "toyota", Region: "Gauteng"}, []Dealer{candidate}, actor, graph)
	if got == nil || got.DealerID != candidate.ID {
		t.Fatalf("expected normal matching for admin actor, got %+v", got)
	}
}

func TestDistributeTier1ExactRegion(t *testing.T) {
	graph := regions.MustGraph()
	local := testDealer("local", "Gauteng", "Standard", 0)
	neighbor := testDealer("neighbor", "North West", "Enterprise", 0)

	got := Distribute(Lead{Brand: "toyota", Region: "gauteng"}, []Dealer{neighbor, local}, nil, graph)
	if got == nil || got.DealerID != local.ID || got.Type != AssignmentDirect {
		t.Fatalf("expected direct assignment to local dealer, got %+v", got)
	}
}

func TestDistributeTier2FirstNeighborWins(t *testing.T) {
	graph := regions.MustGraph()

	// Gauteng's neighbours in priority order: North West, Mpumalanga,
	// Free State, Limpopo. A stronger dealer in a later neighbour must
	// not beat any dealer in an earlier one.
	firstNeighbor := testDealer("north-west", "North West", "Standard", 20)
	laterNeighbor := testDealer("limpopo", "Limpopo", "Enterprise", 0)

	got := Distribute(Lead{Brand: "toyota", Region: "Gauteng"}, []Dealer{laterNeighbor, firstNeighbor}, nil, graph)
	if got == nil || got.DealerID != firstNeighbor.ID || got.Type != AssignmentFallback {
		t.Fatalf("expected fallback to first neighbour, got %+v", got)
	}
}

func TestDistributeTier3National(t *testing.T) {
	graph := regions.MustGraph()

	// Western Cape neighbours are Northern Cape and Eastern Cape; a
	// KwaZulu-Natal dealer is only reachable nationally.
	far := testDealer("kzn", "KwaZulu-Natal", "Standard", 0)

	got := Distribute(Lead{Brand: "toyota", Region: "Western Cape"}, []Dealer{far}, nil, graph)
	if got == nil || got.DealerID != far.ID || got.Type != AssignmentNational {
		t.Fatalf("expected national assignment, got %+v", got)
	}
}

func TestDistributeNoCandidates(t *testing.T) {
	graph := regions.MustGraph()

	if got := Distribute(Lead{Brand: "toyota", Region: "Gauteng"}, nil, nil, graph); got != nil {
		t.Fatalf("expected nil assignment, got %+v", got)
	}

	full := testDealer("full", "Gauteng", "Enterprise", 10)
	full.MaxLeadsCapacity = intPtr(10)
	if got := Distribute(Lead{Brand: "toyota", Region: "Gauteng"}, []Dealer{full}, nil, graph); got != nil {
		t.Fatalf("expected nil assignment when all dealers at capacity, got %+v", got)
	}
}
