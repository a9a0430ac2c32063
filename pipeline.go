package tilewave

import "math"

// Stage is one step of the weighting pipeline. Each stage transforms the
// distribution produced by the chain inside it; the first stage in a
// pipeline sees the uniform base weights, the last has the final say.
// Stages own their private bookkeeping (supply counts, groups) & only
// read the grid and cells handed to them.
type Stage interface {
	// WaveFunction transforms the inner chain's weighted options.
	WaveFunction(g *Grid, p Pos, c *Cell, in []WeightedTile) []WeightedTile

	// Take is invoked when a tile is committed at p.
	Take(g *Grid, p Pos, t Tile)

	// AfterCollapse is invoked once per turn - after a collapse, or
	// after a turn in which nothing could be placed - with the number
	// of reductions propagation made.
	AfterCollapse(g *Grid, reductions int)
}

// EntropyScaler is an optional Stage extension letting a stage adjust a
// cell's entropy after the pipeline's entropy function has scored it.
type EntropyScaler interface {
	ScaleEntropy(g *Grid, p Pos, c *Cell, wf []WeightedTile, entropy float64) float64
}

// Resetter is an optional Stage extension for supply-tracking stages
// that can be reshuffled / refilled without rebuilding the grid.
type Resetter interface {
	Reset(g *Grid)
}

// EntropyFunc scores the remaining uncertainty of a weighted
// distribution. Implementations must return -1 for an empty or all-zero
// distribution; that sentinel marks a contradiction.
type EntropyFunc func(wf []WeightedTile) float64

// ShannonEntropy is the default entropy, -sum(p*log(p)) over normalised
// weights.
func ShannonEntropy(wf []WeightedTile) float64 {
	total := 0
	for _, wt := range wf {
		total += wt.Weight
	}
	if total == 0 {
		return -1
	}

	e := 0.0
	for _, wt := range wf {
		p := float64(wt.Weight) / float64(total)
		if p > 0 {
			e -= p * math.Log(p)
		}
	}
	return e
}

// CountEntropy scores a cell by its raw number of weighted options; a
// cheaper definition that ignores how skewed the weights are.
func CountEntropy(wf []WeightedTile) float64 {
	if len(wf) == 0 {
		return -1
	}
	return float64(len(wf))
}

// MaxWeightEntropy scores by option count scaled by the reciprocal of
// the largest weight; many options with no strong favourite score high.
func MaxWeightEntropy(wf []WeightedTile) float64 {
	max := 0
	for _, wt := range wf {
		if wt.Weight > max {
			max = wt.Weight
		}
	}
	if max == 0 {
		return -1
	}
	return float64(len(wf)) / float64(max)
}

// PassStage provides no-op hooks; embed it in stages that only care
// about a subset of the interface.
type PassStage struct{}

// Take does nothing
func (PassStage) Take(*Grid, Pos, Tile) {}

// AfterCollapse does nothing
func (PassStage) AfterCollapse(*Grid, int) {}

// Pipeline composes stages over a uniform-weight base; every remaining
// option starts at weight 1 & each stage rescales or filters the output
// of the chain before it.
type Pipeline struct {
	stages  []Stage
	entropy EntropyFunc
}

// NewPipeline builds a pipeline from inner-most stage to outer-most,
// scoring with Shannon entropy unless substituted.
func NewPipeline(stages ...Stage) *Pipeline {
	return &Pipeline{stages: stages, entropy: ShannonEntropy}
}

// SetEntropy substitutes the entropy definition.
func (p *Pipeline) SetEntropy(fn EntropyFunc) {
	p.entropy = fn
}

// Stages returns the ordered stage list (inner-most first).
func (p *Pipeline) Stages() []Stage {
	return p.stages
}

// WaveFunction produces the weighted distribution for a cell.
func (p *Pipeline) WaveFunction(g *Grid, pos Pos, c *Cell) []WeightedTile {
	opts := c.Options()
	wf := make([]WeightedTile, len(opts))
	for i, t := range opts {
		wf[i] = WeightedTile{Tile: t, Weight: 1}
	}
	for _, s := range p.stages {
		wf = s.WaveFunction(g, pos, c, wf)
	}
	return wf
}

// Entropy scores the cell's distribution, then lets stages that scale
// entropy adjust the score, inner-most first.
func (p *Pipeline) Entropy(g *Grid, pos Pos, c *Cell, wf []WeightedTile) float64 {
	e := p.entropy(wf)
	for _, s := range p.stages {
		if es, ok := s.(EntropyScaler); ok {
			e = es.ScaleEntropy(g, pos, c, wf, e)
		}
	}
	return e
}

// Take tells every stage a tile was committed, inner-most first.
func (p *Pipeline) Take(g *Grid, pos Pos, t Tile) {
	for _, s := range p.stages {
		s.Take(g, pos, t)
	}
}

// AfterCollapse forwards turn bookkeeping to every stage, inner-most
// first.
func (p *Pipeline) AfterCollapse(g *Grid, reductions int) {
	for _, s := range p.stages {
		s.AfterCollapse(g, reductions)
	}
}

// Reset reshuffles / refills every supply-tracking stage without
// rebuilding the grid.
func (p *Pipeline) Reset(g *Grid) {
	for _, s := range p.stages {
		if r, ok := s.(Resetter); ok {
			r.Reset(g)
		}
	}
}
