// Package regions holds the province adjacency graph used for lead
// distribution fallback. The data is embedded at build time so routing
// never depends on an external file or a database round trip.
package regions

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed regions.yaml
var regionsYAML []byte

type regionEntry struct {
	Name      string   `yaml:"name"`
	Neighbors []string `yaml:"neighbors"`
}

type regionsFile struct {
	Regions []regionEntry `yaml:"regions"`
}

// Graph is the province adjacency graph. Lookups are case-insensitive;
// canonical names keep the casing from the embedded data.
type Graph struct {
	canonical map[string]string   // lowercase -> canonical name
	neighbors map[string][]string // lowercase -> canonical neighbors, in fallback order
	names     []string            // canonical names, in file order
}

// NewGraph parses the embedded province data. It is called once at
// startup; a malformed data file is a build defect, not a runtime
// condition, so the error should be treated as fatal.
func NewGraph() (*Graph, error) {
	var file regionsFile
	if err := yaml.Unmarshal(regionsYAML, &file); err != nil {
		return nil, fmt.Errorf("parse regions data: %w", err)
	}
	if len(file.Regions) == 0 {
		return nil, fmt.Errorf("regions data is empty")
	}

	g := &Graph{
		canonical: make(map[string]string, len(file.Regions)),
		neighbors: make(map[string][]string, len(file.Regions)),
	}
	for _, entry := range file.Regions {
		key := strings.ToLower(entry.Name)
		if _, exists := g.canonical[key]; exists {
			return nil, fmt.Errorf("duplicate region %q", entry.Name)
		}
		g.canonical[key] = entry.Name
		g.neighbors[key] = entry.Neighbors
		g.names = append(g.names, entry.Name)
	}

	// Every neighbour must itself be a known region.
	for _, entry := range file.Regions {
		for _, n := range entry.Neighbors {
			if _, ok := g.canonical[strings.ToLower(n)]; !ok {
				return nil, fmt.Errorf("region %q lists unknown neighbor %q", entry.Name, n)
			}
		}
	}
	return g, nil
}

// MustGraph is NewGraph for composition roots where the embedded data
// has already been validated by tests.
func MustGraph() *Graph {
	g, err := NewGraph()
	if err != nil {
		panic(err)
	}
	return g
}

// Canonical returns the canonical spelling of a region name, or false
// when the region is unknown.
func (g *Graph) Canonical(name string) (string, bool) {
	c, ok := g.canonical[strings.ToLower(strings.TrimSpace(name))]
	return c, ok
}

// IsValid reports whether the name refers to a known region.
func (g *Graph) IsValid(name string) bool {
	_, ok := g.Canonical(name)
	return ok
}

// Neighbors returns the region's neighbours in fallback priority order.
// The returned slice must not be modified. Unknown regions have no
// neighbours.
func (g *Graph) Neighbors(name string) []string {
	return g.neighbors[strings.ToLower(strings.TrimSpace(name))]
}

// IsAdjacent reports whether other is a neighbour of name.
func (g *Graph) IsAdjacent(name, other string) bool {
	target := strings.ToLower(strings.TrimSpace(other))
	for _, n := range g.neighbors[strings.ToLower(strings.TrimSpace(name))] {
		if strings.ToLower(n) == target {
			return true
		}
	}
	return false
}

// Names returns the canonical region names in data-file order.
func (g *Graph) Names() []string {
	return g.names
}
