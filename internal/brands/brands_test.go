package brands

import "testing"

func TestCanonical(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"VW", "volkswagen"},
		{"Volkswagen", "volkswagen"},
		{"  Mercedes Benz ", "mercedes-benz"},
		{"MERC", "mercedes-benz"},
		{"Toyota", "toyota"},
		{"LandRover", "land rover"},
		{"Chevy", "chevrolet"},
		{"SsangYong", "ssangyong"}, // unknown brand passes through lowercased
	}

	for _, tt := range tests {
		if got := Canonical(tt.input); got != tt.want {
			t.Errorf("Canonical(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestEqual(t *testing.T) {
	if !Equal("VW", "volkswagen") {
		t.Error("VW and volkswagen should be equal")
	}
	if Equal("BMW", "Audi") {
		t.Error("BMW and Audi should not be equal")
	}
}
