package tilewave

import (
	"math"
	"testing"
)

func TestShannonEntropy(t *testing.T) {
	set := BaseTileset()
	a := WeightedTile{Tile: NewTile(set.Kind("m"), 0), Weight: 1}
	b := WeightedTile{Tile: NewTile(set.Kind("u"), 0), Weight: 1}

	if got := ShannonEntropy(nil); got != -1 {
		t.Errorf("entropy of empty = %v, want -1", got)
	}
	if got := ShannonEntropy([]WeightedTile{{Tile: a.Tile, Weight: 0}}); got != -1 {
		t.Errorf("entropy of all-zero = %v, want -1", got)
	}
	if got := ShannonEntropy([]WeightedTile{a}); got != 0 {
		t.Errorf("entropy of certainty = %v, want 0", got)
	}

	// two equal options score ln(2)
	got := ShannonEntropy([]WeightedTile{a, b})
	if math.Abs(got-math.Log(2)) > 1e-9 {
		t.Errorf("entropy of 50/50 = %v, want %v", got, math.Log(2))
	}

	// skewed weights score below the uniform maximum
	skew := ShannonEntropy([]WeightedTile{{Tile: a.Tile, Weight: 9}, {Tile: b.Tile, Weight: 1}})
	if skew <= 0 || skew >= got {
		t.Errorf("skewed entropy = %v, want between 0 and %v", skew, got)
	}
}

func TestAlternativeEntropies(t *testing.T) {
	set := BaseTileset()
	wf := []WeightedTile{
		{Tile: NewTile(set.Kind("m"), 0), Weight: 2},
		{Tile: NewTile(set.Kind("u"), 0), Weight: 4},
		{Tile: NewTile(set.Kind("lr"), 0), Weight: 1},
	}

	if got := CountEntropy(wf); got != 3 {
		t.Errorf("CountEntropy = %v, want 3", got)
	}
	if got := CountEntropy(nil); got != -1 {
		t.Errorf("CountEntropy(empty) = %v, want -1", got)
	}
	if got := MaxWeightEntropy(wf); got != 0.75 {
		t.Errorf("MaxWeightEntropy = %v, want 0.75", got)
	}
	if got := MaxWeightEntropy(nil); got != -1 {
		t.Errorf("MaxWeightEntropy(empty) = %v, want -1", got)
	}
}

// doubler doubles every weight, recording hook calls.
type doubler struct {
	takes  int
	afters int
	resets int
}

func (d *doubler) WaveFunction(g *Grid, p Pos, c *Cell, in []WeightedTile) []WeightedTile {
	out := make([]WeightedTile, 0, len(in))
	for _, wt := range in {
		out = append(out, WeightedTile{Tile: wt.Tile, Weight: wt.Weight * 2})
	}
	return out
}

func (d *doubler) Take(g *Grid, p Pos, t Tile) { d.takes++ }

func (d *doubler) AfterCollapse(g *Grid, r int) { d.afters++ }

func (d *doubler) Reset(g *Grid) { d.resets++ }

func TestPipelineComposesInOrder(t *testing.T) {
	g, err := New(&Config{Width: 2, Height: 2, Seed: 13}, BaseTileset())
	if err != nil {
		t.Fatal(err)
	}

	inner := &doubler{}
	outer := &doubler{}
	g.SetPipeline(NewPipeline(inner, outer))

	c := g.At(Pos{})
	wf := g.pipeline.WaveFunction(g, Pos{}, c)
	if len(wf) != c.Len() {
		t.Fatalf("pipeline produced %d entries, want %d", len(wf), c.Len())
	}
	for _, wt := range wf {
		if wt.Weight != 4 {
			t.Errorf("weight = %d, want 4 (two doublings of the uniform base)", wt.Weight)
		}
	}

	if _, _, err := g.Collapse(Pos{}, nil); err != nil {
		t.Fatal(err)
	}
	if inner.takes != 1 || outer.takes != 1 {
		t.Errorf("takes = %d, %d, want 1, 1", inner.takes, outer.takes)
	}
	if inner.afters != 1 || outer.afters != 1 {
		t.Errorf("afters = %d, %d, want 1, 1", inner.afters, outer.afters)
	}

	g.Reset()
	if inner.resets != 1 || outer.resets != 1 {
		t.Errorf("resets = %d, %d, want 1, 1", inner.resets, outer.resets)
	}
}

func TestPipelineCustomEntropy(t *testing.T) {
	g, err := New(&Config{Width: 2, Height: 2, Seed: 13}, BaseTileset())
	if err != nil {
		t.Fatal(err)
	}
	p := NewPipeline()
	p.SetEntropy(CountEntropy)
	g.SetPipeline(p)

	c := g.At(Pos{})
	if got := c.Entropy(g); got != float64(c.Len()) {
		t.Errorf("entropy = %v, want option count %d", got, c.Len())
	}
}

func TestOpportunisticScalesByOptionCount(t *testing.T) {
	set := BaseTileset()
	g, err := New(&Config{Width: 2, Height: 2, Seed: 13}, set)
	if err != nil {
		t.Fatal(err)
	}

	c := g.At(Pos{})
	in := []WeightedTile{{Tile: NewTile(set.Kind("m"), 0), Weight: 2}}
	out := Opportunistic{}.WaveFunction(g, Pos{}, c, in)
	if len(out) != 1 || out[0].Weight != 2*c.Len() {
		t.Errorf("weight = %v, want %d", out, 2*c.Len())
	}
}

func TestInvertedPenalisesConnections(t *testing.T) {
	set := BaseTileset()
	g, err := New(&Config{Width: 3, Height: 3, Seed: 13}, set)
	if err != nil {
		t.Fatal(err)
	}

	// commit a Left-Right road at the centre left
	g.At(Pos{X: 0, Y: 1}).stabilise(NewTile(set.Kind("-.lr"), 0))

	h := NewInverted(Road, 3)
	joins := NewTile(set.Kind("-.lr"), 0) // connects via its Left edge
	avoids := NewTile(set.Kind("m"), 0)
	in := []WeightedTile{
		{Tile: joins, Weight: 5},
		{Tile: avoids, Weight: 5},
	}
	out := h.WaveFunction(g, Pos{X: 1, Y: 1}, g.At(Pos{X: 1, Y: 1}), in)

	want := map[Signature]int{joins.Sig(): 5 - 3*2, avoids.Sig(): 5}
	for _, wt := range out {
		if wt.Weight != want[wt.Tile.Sig()] {
			t.Errorf("%v weight = %d, want %d", wt.Tile, wt.Weight, want[wt.Tile.Sig()])
		}
	}
}

func TestRestrictionFiltersAndDefers(t *testing.T) {
	set := BaseTileset()
	g, err := New(&Config{Width: 3, Height: 3, Seed: 13}, set)
	if err != nil {
		t.Fatal(err)
	}
	r := NewRestriction(River)

	river := NewTile(set.Kind("r.ud"), 1) // river Left-Right
	plain := NewTile(set.Kind("m"), 0)
	in := []WeightedTile{
		{Tile: river, Weight: 1},
		{Tile: plain, Weight: 1},
	}

	// no pending river nearby: only non-bearing tiles survive
	out := r.WaveFunction(g, Pos{X: 1, Y: 1}, g.At(Pos{X: 1, Y: 1}), in)
	if len(out) != 1 || out[0].Tile.Sig() != plain.Sig() {
		t.Fatalf("without pending river kept %v, want only the plain tile", out)
	}
	// and entropy is deferred a hundredfold
	if got := r.ScaleEntropy(g, Pos{X: 1, Y: 1}, g.At(Pos{X: 1, Y: 1}), out, 2); got != 200 {
		t.Errorf("deferred entropy = %v, want 200", got)
	}
	// the contradiction sentinel passes through untouched
	if got := r.ScaleEntropy(g, Pos{X: 1, Y: 1}, g.At(Pos{X: 1, Y: 1}), nil, -1); got != -1 {
		t.Errorf("sentinel scaled to %v, want -1", got)
	}

	// a neighbour now demands the river continue left: only bearing
	// tiles survive and entropy is left alone
	g.At(Pos{X: 0, Y: 1}).stabilise(river)
	out = r.WaveFunction(g, Pos{X: 1, Y: 1}, g.At(Pos{X: 1, Y: 1}), in)
	if len(out) != 1 || out[0].Tile.Sig() != river.Sig() {
		t.Fatalf("with pending river kept %v, want only the river tile", out)
	}
	if got := r.ScaleEntropy(g, Pos{X: 1, Y: 1}, g.At(Pos{X: 1, Y: 1}), out, 2); got != 2 {
		t.Errorf("pending entropy = %v, want 2", got)
	}
}

func TestCityBuilderPrefersConnections(t *testing.T) {
	set := BaseTileset()
	g, err := New(&Config{Width: 3, Height: 3, Seed: 13}, set)
	if err != nil {
		t.Fatal(err)
	}

	// a Left-Right city committed left of centre
	g.At(Pos{X: 0, Y: 1}).stabilise(NewTile(set.Kind("lr"), 0))

	joins := NewTile(set.Kind("lr"), 0)
	road := NewTile(set.Kind("-.lr"), 0)
	in := []WeightedTile{
		{Tile: joins, Weight: 1},
		{Tile: road, Weight: 1},
	}
	out := CityBuilder{}.WaveFunction(g, Pos{X: 1, Y: 1}, g.At(Pos{X: 1, Y: 1}), in)
	if len(out) != 1 || out[0].Tile.Sig() != joins.Sig() {
		t.Fatalf("kept %v, want only the connecting city", out)
	}

	// when nothing connects the distribution passes through unchanged
	noCity := []WeightedTile{{Tile: road, Weight: 1}}
	out = CityBuilder{}.WaveFunction(g, Pos{X: 2, Y: 0}, g.At(Pos{X: 2, Y: 0}), noCity)
	if len(out) != 1 || out[0].Tile.Sig() != road.Sig() {
		t.Errorf("pass-through kept %v, want the original option", out)
	}
}
