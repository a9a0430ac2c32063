package tilewave

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand"
	"time"
)

const contradictionEntropy = -1

var (
	// ErrInvalidPlacement means an explicit tile handed to Collapse is
	// not among the cell's remaining options.
	ErrInvalidPlacement = fmt.Errorf("tile is not a valid option for cell")

	// ErrInvalidSize means the requested grid dimensions are unusable.
	ErrInvalidSize = fmt.Errorf("invalid grid size")
)

// Config holds settings for a new Grid.
type Config struct {
	// Width of the grid in cells, required > 0
	Width int

	// Height of the grid in cells, required > 0
	Height int

	// Seed for the random number generator. A seed of 0 means
	// "pick one"; the seed actually used is readable via Seed().
	Seed int64

	// Logger for debug tracing, nil disables logging
	Logger *slog.Logger
}

// Grid owns the cells & runs the propagation / collapse machinery.
// It is not safe for concurrent use.
type Grid struct {
	width  int
	height int

	cells [][]*Cell

	// latest is the stage counter, ticking once per collapse turn.
	// Cells compare their own stage against it to decide whether a
	// propagation pass has reached them yet.
	latest int

	pipeline *Pipeline
	rng      *rand.Rand
	log      *slog.Logger
	seed     int64
	kinds    []*TileKind
}

// neighbour pairs an adjacent cell with the direction leading to it.
type neighbour struct {
	dir  Direction
	cell *Cell
}

// New builds a grid in which every cell may still become any rotation
// of any kind in the given tileset.
func New(cfg *Config, set *Tileset) (*Grid, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.Width < 1 || cfg.Height < 1 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, cfg.Width, cfg.Height)
	}
	if set == nil || len(set.Kinds) == 0 {
		return nil, fmt.Errorf("%w: tileset has no kinds", ErrInvalidSize)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	g := &Grid{
		width:    cfg.Width,
		height:   cfg.Height,
		pipeline: NewPipeline(),
		rng:      rand.New(rand.NewSource(seed)),
		log:      log,
		seed:     seed,
		kinds:    set.Kinds,
	}
	g.resetCells()
	return g, nil
}

func (g *Grid) resetCells() {
	g.cells = make([][]*Cell, g.height)
	for y := range g.cells {
		g.cells[y] = make([]*Cell, g.width)
		for x := range g.cells[y] {
			g.cells[y][x] = newCell(Pos{X: x, Y: y}, g.kinds)
		}
	}
}

// Reset clears every placement, restores the full possibility space and
// refills any supply-tracking pipeline stages. The random source is not
// reseeded, so a reset run continues the same sequence.
func (g *Grid) Reset() {
	g.resetCells()
	g.latest = 0
	g.pipeline.Reset(g)
}

// Width of the grid in cells.
func (g *Grid) Width() int {
	return g.width
}

// Height of the grid in cells.
func (g *Grid) Height() int {
	return g.height
}

// Seed actually used by the random number generator.
func (g *Grid) Seed() int64 {
	return g.seed
}

// Latest returns the current stage counter.
func (g *Grid) Latest() int {
	return g.latest
}

// SetPipeline installs the weighting pipeline. A nil pipeline restores
// the default (uniform weights, Shannon entropy).
func (g *Grid) SetPipeline(p *Pipeline) {
	if p == nil {
		p = NewPipeline()
	}
	g.pipeline = p
}

// Pipeline currently installed.
func (g *Grid) Pipeline() *Pipeline {
	return g.pipeline
}

// At returns the cell at p, or nil if p is out of bounds.
func (g *Grid) At(p Pos) *Cell {
	if p.X < 0 || p.X >= g.width || p.Y < 0 || p.Y >= g.height {
		return nil
	}
	return g.cells[p.Y][p.X]
}

// Each visits every cell in row order.
func (g *Grid) Each(fn func(Pos, *Cell)) {
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			fn(Pos{X: x, Y: y}, g.cells[y][x])
		}
	}
}

// around returns the in-bounds neighbours of p.
func (g *Grid) around(p Pos) []neighbour {
	ns := make([]neighbour, 0, 4)
	for _, d := range AllDirections() {
		if c := g.At(p.Step(d)); c != nil {
			ns = append(ns, neighbour{dir: d, cell: c})
		}
	}
	return ns
}

// Bordering returns the positions of cells with at least one stable
// neighbour; the frontier where new placements connect to the map.
func (g *Grid) Bordering() []Pos {
	out := []Pos{}
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			p := Pos{X: x, Y: y}
			for _, n := range g.around(p) {
				if n.cell.stable {
					out = append(out, p)
					break
				}
			}
		}
	}
	return out
}

// Visible reports whether the cell at p is stable or adjacent to a
// stable cell. Renderers use this to fade out the untouched region.
func (g *Grid) Visible(p Pos) bool {
	c := g.At(p)
	if c == nil {
		return false
	}
	if c.stable {
		return true
	}
	for _, n := range g.around(p) {
		if n.cell.stable {
			return true
		}
	}
	return false
}

// reduce runs one stage-gated consistency pass seeded at p. The seed
// cell is advanced to stage+1, reduced against any neighbour already
// past this stage, and only if something was removed (the seed count
// included) does the pass walk on into neighbours that have not yet
// caught up. Passes therefore stop at local fixpoints rather than
// guaranteeing full arc consistency; stale regions the pass never
// reaches get revisited by later turns.
//
// An explicit frame stack stands in for recursion so pass depth is not
// bounded by the call stack on large grids. Returns the total number
// of options removed and cells visited.
func (g *Grid) reduce(p Pos, stage, seed int) (int, int) {
	type frame struct {
		pos     Pos
		cell    *Cell
		from    Direction // direction the parent stepped to reach us
		acc     int
		visited int
		walk    bool // whether acc > 0 opened the stale walk
		idx     int  // next direction to try in the stale walk
	}

	this := g.At(p)
	if this == nil {
		return seed, 0
	}

	// enter advances the cell a stage and reduces it against every
	// neighbour already ahead of it.
	enter := func(p Pos, c *Cell, acc int) *frame {
		c.stage = stage + 1
		f := &frame{pos: p, cell: c, acc: acc, visited: 1}
		for _, n := range g.around(p) {
			if n.cell.stage > stage {
				f.acc += c.reduce(n.cell, n.dir)
			}
		}
		f.walk = f.acc > 0
		return f
	}

	stack := []*frame{enter(p, this, seed)}
	for {
		f := stack[len(stack)-1]

		if f.walk && f.idx < len(AllDirections()) {
			d := AllDirections()[f.idx]
			f.idx++
			o := g.At(f.pos.Step(d))
			// staleness is checked lazily; a sibling subtree may
			// already have advanced this neighbour
			if o == nil || o.stage > stage {
				continue
			}
			child := enter(f.pos.Step(d), o, 0)
			child.from = d
			stack = append(stack, child)
			continue
		}

		stack = stack[:len(stack)-1]
		if len(stack) == 0 {
			return f.acc, f.visited
		}
		parent := stack[len(stack)-1]
		parent.acc += f.acc
		parent.visited += f.visited
		// re-reduce against the now-settled child; removals here are
		// deliberately not added to the running count
		parent.cell.reduce(f.cell, f.from)
	}
}

// Collapse commits the cell at p to a single tile. If tile is nil one
// is sampled from the pipeline's weighted distribution; an empty
// distribution is a contradiction & nothing is placed. An explicit
// tile must be among the cell's remaining options or
// ErrInvalidPlacement is returned with no state touched.
//
// Returns the number of option reductions and cells visited by the
// follow-up propagation pass.
func (g *Grid) Collapse(p Pos, tile *Tile) (int, int, error) {
	this := g.At(p)
	if this == nil {
		return 0, 0, nil
	}

	var chosen Tile
	if tile == nil {
		wf := this.distribution(g)
		if len(wf) == 0 {
			g.log.Debug("no options to collapse", "pos", p.String())
			return 0, 0, nil
		}
		chosen = g.weightedChoice(wf)
	} else {
		chosen = *tile
		if !this.Has(chosen) {
			return 0, 0, fmt.Errorf("%w: %s at %s", ErrInvalidPlacement, chosen, p)
		}
	}

	diff := this.stabilise(chosen)
	g.pipeline.Take(g, p, chosen)

	g.latest++
	reductions, visited := g.reduce(p, g.latest, diff)

	g.pipeline.AfterCollapse(g, reductions)
	g.log.Debug("collapsed",
		"pos", p.String(),
		"tile", chosen.String(),
		"stage", g.latest,
		"reductions", reductions,
		"visited", visited,
	)
	return reductions, visited, nil
}

// CollapseMin collapses whichever open frontier cell has the minimum
// entropy, breaking ties uniformly at random. Cells whose entropy is
// the -1 contradiction sentinel are never candidates. When no eligible
// cell exists nothing is placed but the stage still advances and
// stages still get their turn bookkeeping.
func (g *Grid) CollapseMin() (int, int) {
	type cand struct {
		pos     Pos
		entropy float64
	}
	cands := []cand{}
	for _, p := range g.Bordering() {
		c := g.At(p)
		if c.stable {
			continue
		}
		e := c.Entropy(g)
		if e > contradictionEntropy {
			cands = append(cands, cand{pos: p, entropy: e})
		}
	}
	if len(cands) == 0 {
		g.pipeline.AfterCollapse(g, 0)
		g.latest++
		return 0, 0
	}

	min := cands[0].entropy
	for _, c := range cands[1:] {
		if c.entropy < min {
			min = c.entropy
		}
	}
	ties := []Pos{}
	for _, c := range cands {
		if c.entropy == min {
			ties = append(ties, c.pos)
		}
	}

	r, v, _ := g.Collapse(ties[g.rng.Intn(len(ties))], nil)
	return r, v
}

// CollapseRandom collapses one open frontier cell chosen with
// probability proportional to exp(-entropy * k). Large k approaches
// CollapseMin; k == 0 picks uniformly. As with CollapseMin a turn with
// no eligible cell places nothing but still advances the stage.
func (g *Grid) CollapseRandom(k float64) (int, int) {
	type cand struct {
		pos    Pos
		weight float64
	}
	cands := []cand{}
	total := 0.0
	for _, p := range g.Bordering() {
		c := g.At(p)
		if c.stable {
			continue
		}
		e := c.Entropy(g)
		if e <= contradictionEntropy {
			continue
		}
		w := math.Exp(-e * k)
		if math.IsInf(w, 1) {
			w = 1
		}
		cands = append(cands, cand{pos: p, weight: w})
		total += w
	}
	if len(cands) == 0 {
		g.pipeline.AfterCollapse(g, 0)
		g.latest++
		return 0, 0
	}

	pick := cands[len(cands)-1].pos
	if total > 0 {
		n := g.rng.Float64() * total
		for _, c := range cands {
			n -= c.weight
			if n < 0 {
				pick = c.pos
				break
			}
		}
	} else {
		// every weight underflowed to zero, fall back to uniform
		pick = cands[g.rng.Intn(len(cands))].pos
	}

	r, v, _ := g.Collapse(pick, nil)
	return r, v
}

// weightedChoice samples one option with probability proportional to
// its weight. The caller guarantees a non-empty distribution of
// positive weights.
func (g *Grid) weightedChoice(wf []WeightedTile) Tile {
	total := 0
	for _, wt := range wf {
		total += wt.Weight
	}
	n := g.rng.Intn(total)
	for _, wt := range wf {
		n -= wt.Weight
		if n < 0 {
			return wt.Tile
		}
	}
	return wf[len(wf)-1].Tile
}
