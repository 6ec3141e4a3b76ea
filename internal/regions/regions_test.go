package regions

import "testing"

func TestNewGraph(t *testing.T) {
	g, err := NewGraph()
	if err != nil {
		t.Fatalf("NewGraph() error = %v", err)
	}
	if len(g.Names()) != 9 {
		t.Fatalf("expected 9 provinces, got %d", len(g.Names()))
	}
}

func TestCanonicalCaseInsensitive(t *testing.T) {
	g := MustGraph()

	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"gauteng", "Gauteng", true},
		{"GAUTENG", "Gauteng", true},
		{"  KwaZulu-Natal  ", "KwaZulu-Natal", true},
		{"western cape", "Western Cape", true},
		{"Mars", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := g.Canonical(tt.input)
		if ok != tt.ok || got != tt.want {
			t.Errorf("Canonical(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.ok)
		}
	}
}

func TestNeighborsOrder(t *testing.T) {
	g := MustGraph()

	// Neighbour order is fallback priority and must be stable.
	got := g.Neighbors("gauteng")
	want := []string{"North West", "Mpumalanga", "Free State", "Limpopo"}
	if len(got) != len(want) {
		t.Fatalf("Neighbors(gauteng) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Neighbors(gauteng)[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if n := g.Neighbors("atlantis"); n != nil {
		t.Errorf("Neighbors(atlantis) = %v, want nil", n)
	}
}

func TestAdjacencyIsSymmetric(t *testing.T) {
	g := MustGraph()

	// Fallback routing walks adjacency from the lead's province while
	// proximity scoring checks it from the assigned dealer's side, so
	// the data must read the same in both directions.
	for _, name := range g.Names() {
		for _, neighbor := range g.Neighbors(name) {
			if !g.IsAdjacent(neighbor, name) {
				t.Errorf("%s lists %s as a neighbour, but %s does not list %s", name, neighbor, neighbor, name)
			}
		}
	}
}

func TestIsAdjacent(t *testing.T) {
	g := MustGraph()

	if !g.IsAdjacent("Gauteng", "free state") {
		t.Error("Gauteng should be adjacent to Free State")
	}
	if g.IsAdjacent("Gauteng", "Western Cape") {
		t.Error("Gauteng should not be adjacent to Western Cape")
	}
	if g.IsAdjacent("Gauteng", "Gauteng") {
		t.Error("a region is not its own neighbour")
	}
}
