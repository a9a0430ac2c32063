package tilewave

import (
	"sort"
)

// Ternary summarises whether a feature is absent, possibly present or
// certainly present on an edge, across all remaining options of a cell.
type Ternary int

const (
	Never Ternary = iota
	Maybe
	Must
)

// String returns the ternary state name
func (t Ternary) String() string {
	switch t {
	case Never:
		return "never"
	case Maybe:
		return "maybe"
	case Must:
		return "must"
	}
	return "unknown"
}

// WeightedTile pairs a candidate placement with its pipeline weight.
type WeightedTile struct {
	Tile   Tile
	Weight int
}

// Cell holds one grid position's remaining placement possibilities plus
// caches derived from them.
type Cell struct {
	pos Pos

	// options maps signature -> tile. It only ever shrinks, until the
	// cell stabilises at exactly one entry.
	options map[Signature]Tile

	// stage is the last propagation pass that touched this cell, used
	// to stop passes doubling back on themselves
	stage int

	stable bool

	// ternary connection cache, per feature per direction
	connect [numFeatures][4]Ternary

	// weighted distribution cache, valid only while wfStage matches the
	// grid's current stage
	wf      []WeightedTile
	wfStage int
}

// newCell seeds a cell with every rotation of every catalog kind.
// Symmetric rotations share a signature & so collapse to one option.
func newCell(pos Pos, kinds []*TileKind) *Cell {
	c := &Cell{pos: pos, options: map[Signature]Tile{}, wfStage: -1}
	for _, k := range kinds {
		for rot := 0; rot < 4; rot++ {
			t := NewTile(k, rot)
			c.options[t.Sig()] = t
		}
	}
	c.recomputeConnections()
	return c
}

// Pos returns the cell's grid position.
func (c *Cell) Pos() Pos {
	return c.pos
}

// Len returns the number of remaining options.
func (c *Cell) Len() int {
	return len(c.options)
}

// Stable returns whether the cell has committed to a single tile.
func (c *Cell) Stable() bool {
	return c.stable
}

// Stage returns the last propagation pass that touched the cell.
func (c *Cell) Stage() int {
	return c.stage
}

// Options returns the remaining placements in signature order.
func (c *Cell) Options() []Tile {
	out := make([]Tile, 0, len(c.options))
	for _, t := range c.options {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Sig() < out[j].Sig() })
	return out
}

// Has returns whether the tile is still a valid option here.
func (c *Cell) Has(t Tile) bool {
	_, ok := c.options[t.Sig()]
	return ok
}

// Tile returns the committed tile, if the cell is stable.
func (c *Cell) Tile() (Tile, bool) {
	if !c.stable {
		return Tile{}, false
	}
	for _, t := range c.options {
		return t, true
	}
	return Tile{}, false
}

// Connects returns the ternary state of feature f on edge d.
func (c *Cell) Connects(f Feature, d Direction) Ternary {
	return c.connect[f][d]
}

// recomputeConnections rebuilds the ternary cache from the option set.
// Never if no remaining option carries the feature on that edge, Must if
// all do, Maybe otherwise.
func (c *Cell) recomputeConnections() {
	n := len(c.options)
	for _, f := range AllFeatures() {
		for _, d := range AllDirections() {
			count := 0
			for _, t := range c.options {
				if t.Has(f, d) {
					count++
				}
			}
			switch {
			case count == 0:
				c.connect[f][d] = Never
			case count == n:
				c.connect[f][d] = Must
			default:
				c.connect[f][d] = Maybe
			}
		}
	}
}

// reduce removes every option incompatible with the current state of the
// neighbouring cell across d & returns the number removed. Stable cells
// are never reduced.
func (c *Cell) reduce(other *Cell, d Direction) int {
	if c.stable {
		return 0
	}

	removed := 0
	for sig, t := range c.options {
		if !t.fitsBeside(other, d) {
			delete(c.options, sig)
			removed++
		}
	}
	if removed > 0 {
		c.recomputeConnections()
	}
	return removed
}

// stabilise commits the cell to exactly one tile. Returns the number of
// options discarded (minimum 1, so follow-up propagation always runs).
func (c *Cell) stabilise(t Tile) int {
	old := len(c.options)
	c.options = map[Signature]Tile{t.Sig(): t}
	c.recomputeConnections()
	c.stable = true

	if old-1 > 1 {
		return old - 1
	}
	return 1
}

// distribution returns the weighted options for this cell under the
// grid's pipeline, cached per stage. Stable cells always report their
// single committed tile at weight 1.
func (c *Cell) distribution(g *Grid) []WeightedTile {
	if c.stable {
		out := make([]WeightedTile, 0, 1)
		for _, t := range c.options {
			out = append(out, WeightedTile{Tile: t, Weight: 1})
		}
		return out
	}

	if c.wfStage < g.latest {
		raw := g.pipeline.WaveFunction(g, c.pos, c)
		wf := make([]WeightedTile, 0, len(raw))
		for _, wt := range raw {
			if wt.Weight > 0 {
				wf = append(wf, wt)
			}
		}
		c.wf = wf
		c.wfStage = g.latest
	}

	return c.wf
}

// Distribution returns the weighted options for this cell under the
// grid's pipeline. Callers must not mutate the result.
func (c *Cell) Distribution(g *Grid) []WeightedTile {
	return c.distribution(g)
}

// Entropy returns the cell's entropy under the grid's pipeline. The
// sentinel -1 marks a contradiction (an empty distribution).
func (c *Cell) Entropy(g *Grid) float64 {
	return g.pipeline.Entropy(g, c.pos, c, c.distribution(g))
}
