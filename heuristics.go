package tilewave

// connections counts the neighbours a tile would join via a feature,
// counting any neighbour that has not ruled the feature out on the
// shared edge.
func connections(g *Grid, p Pos, t Tile, f Feature) int {
	n := 0
	for _, nb := range g.around(p) {
		if t.Has(f, nb.dir) && nb.cell.Connects(f, nb.dir.Flip()) != Never {
			n++
		}
	}
	return n
}

// Opportunistic rescales weights by the cell's raw option count,
// biasing selection toward resolving the least constrained cells.
type Opportunistic struct {
	PassStage
}

// WaveFunction multiplies every weight by the option count.
func (Opportunistic) WaveFunction(g *Grid, p Pos, c *Cell, in []WeightedTile) []WeightedTile {
	n := c.Len()
	out := make([]WeightedTile, 0, len(in))
	for _, wt := range in {
		out = append(out, WeightedTile{Tile: wt.Tile, Weight: wt.Weight * n})
	}
	return out
}

// Inverted penalises options for each neighbour they would connect to
// via the feature, the opposite pull of a Forecast; features spread
// thin instead of clumping.
type Inverted struct {
	PassStage

	feature Feature
	penalty int
}

// NewInverted subtracts penalty points per connecting neighbour.
func NewInverted(f Feature, penalty int) *Inverted {
	return &Inverted{feature: f, penalty: penalty}
}

// WaveFunction applies the subtractive penalty. Weights driven to zero
// or below drop out of the sampled distribution.
func (h *Inverted) WaveFunction(g *Grid, p Pos, c *Cell, in []WeightedTile) []WeightedTile {
	out := make([]WeightedTile, 0, len(in))
	for _, wt := range in {
		w := wt.Weight - h.penalty*connections(g, p, wt.Tile, h.feature)
		out = append(out, WeightedTile{Tile: wt.Tile, Weight: w})
	}
	return out
}

// Restriction sequences one feature ahead of everything else. A cell
// with a neighbour demanding the feature across the shared edge may
// only take feature-bearing tiles; every other cell may only take
// tiles without it, and has its entropy inflated a hundredfold so
// selection settles the demanded cells first. With a river feature
// this completes the river before any landscape fills in around it.
type Restriction struct {
	PassStage

	feature Feature
}

// NewRestriction sequences the given feature first.
func NewRestriction(f Feature) *Restriction {
	return &Restriction{feature: f}
}

// pending reports whether any neighbour must continue the feature into
// this cell.
func (r *Restriction) pending(g *Grid, p Pos) bool {
	for _, nb := range g.around(p) {
		if nb.cell.Connects(r.feature, nb.dir.Flip()) == Must {
			return true
		}
	}
	return false
}

// WaveFunction keeps only bearing options under a pending connection,
// only non-bearing options otherwise.
func (r *Restriction) WaveFunction(g *Grid, p Pos, c *Cell, in []WeightedTile) []WeightedTile {
	want := r.pending(g, p)
	out := make([]WeightedTile, 0, len(in))
	for _, wt := range in {
		if wt.Tile.Carries(r.feature) == want {
			out = append(out, wt)
		}
	}
	return out
}

// ScaleEntropy inflates cells restricted to non-bearing options so
// they lose minimum-entropy ties against cells the feature is waiting
// on. The contradiction sentinel passes through untouched.
func (r *Restriction) ScaleEntropy(g *Grid, p Pos, c *Cell, wf []WeightedTile, entropy float64) float64 {
	if entropy <= contradictionEntropy {
		return entropy
	}
	for _, wt := range wf {
		if !wt.Tile.Carries(r.feature) {
			return entropy * 100
		}
	}
	return entropy
}

// CityBuilder reweights options by how many adjacent cities they would
// extend, ignoring options that extend none; if no option extends a
// city the distribution passes through unchanged.
type CityBuilder struct {
	PassStage
}

// WaveFunction applies the connection weighting.
func (CityBuilder) WaveFunction(g *Grid, p Pos, c *Cell, in []WeightedTile) []WeightedTile {
	out := make([]WeightedTile, 0, len(in))
	for _, wt := range in {
		w := wt.Weight * connections(g, p, wt.Tile, City)
		if w > 0 {
			out = append(out, WeightedTile{Tile: wt.Tile, Weight: w})
		}
	}
	if len(out) == 0 {
		return in
	}
	return out
}
