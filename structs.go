package tilewave

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
)

// Stats holds generic counts about the grid's progress.
type Stats struct {
	// Stable is the number of committed cells
	Stable int

	// Open is the number of cells still holding choices
	Open int

	// Contradictions counts open cells with no options left
	Contradictions int

	// PlacedByKind counts committed tiles per kind name
	PlacedByKind map[string]int
}

// newStats returns blank Stats
func newStats() *Stats {
	return &Stats{PlacedByKind: map[string]int{}}
}

// Stats walks the grid and tallies its current state.
func (g *Grid) Stats() *Stats {
	s := newStats()
	g.Each(func(p Pos, c *Cell) {
		t, ok := c.Tile()
		if ok {
			s.Stable++
			s.PlacedByKind[t.Kind.Name]++
			return
		}
		s.Open++
		if c.Len() == 0 {
			s.Contradictions++
		}
	})
	return s
}

// Placement records one committed tile.
type Placement struct {
	Pos      Pos    `json:"pos"`
	Kind     string `json:"kind"`
	Rotation int    `json:"rotation"`
}

// Snapshot is the exportable state of a run; enough to redraw or replay
// the committed placements, nothing about cells still in flux.
type Snapshot struct {
	Seed   int64       `json:"seed"`
	Stage  int         `json:"stage"`
	Width  int         `json:"width"`
	Height int         `json:"height"`
	Placed []Placement `json:"placed"`
}

// Snapshot captures the committed placements in row order.
func (g *Grid) Snapshot() *Snapshot {
	s := &Snapshot{
		Seed:   g.seed,
		Stage:  g.latest,
		Width:  g.width,
		Height: g.height,
		Placed: []Placement{},
	}
	g.Each(func(p Pos, c *Cell) {
		if t, ok := c.Tile(); ok {
			s.Placed = append(s.Placed, Placement{
				Pos:      p,
				Kind:     t.Kind.Name,
				Rotation: t.Rotation,
			})
		}
	})
	return s
}

// JSON returns the snapshot as json.
func (g *Grid) JSON() ([]byte, error) {
	return json.Marshal(g.Snapshot())
}

// SaveJSON writes a json file to the given path.
func (g *Grid) SaveJSON(fpath string) error {
	data, err := g.JSON()
	if err != nil {
		return err
	}
	return errors.Wrapf(os.WriteFile(fpath, data, 0644), "failed to write %s", fpath)
}
