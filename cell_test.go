package tilewave

import "testing"

func TestNewCellCollapsesSymmetricRotations(t *testing.T) {
	set := BaseTileset()
	c := newCell(Pos{}, set.Kinds)

	if c.Len() == 0 {
		t.Fatal("new cell has no options")
	}
	// symmetric kinds fold their rotations into one signature, so the
	// option count sits strictly below kinds * 4
	if c.Len() >= set.NumTiles() {
		t.Errorf("cell has %d options, want fewer than %d", c.Len(), set.NumTiles())
	}
	if c.Stable() {
		t.Error("new cell reports stable")
	}
}

func TestCellConnectionsTernary(t *testing.T) {
	set := BaseTileset()
	c := newCell(Pos{}, set.Kinds)

	// the full catalog holds tiles with and without each feature on
	// every edge
	for _, f := range AllFeatures() {
		for _, d := range AllDirections() {
			if got := c.Connects(f, d); got != Maybe {
				t.Errorf("fresh cell Connects(%v, %v) = %v, want maybe", f, d, got)
			}
		}
	}

	// committed to a city-Up tile: city Must on Up, Never elsewhere
	tile := NewTile(set.Kind("u"), 0)
	c.stabilise(tile)
	if got := c.Connects(City, Up); got != Must {
		t.Errorf("Connects(City, Up) = %v, want must", got)
	}
	if got := c.Connects(City, Down); got != Never {
		t.Errorf("Connects(City, Down) = %v, want never", got)
	}
	if got := c.Connects(Road, Left); got != Never {
		t.Errorf("Connects(Road, Left) = %v, want never", got)
	}
}

func TestCellStabilise(t *testing.T) {
	set := BaseTileset()
	c := newCell(Pos{}, set.Kinds)
	tile := NewTile(set.Kind("m"), 0)

	old := c.Len()
	diff := c.stabilise(tile)

	if diff != old-1 {
		t.Errorf("stabilise returned %d, want %d", diff, old-1)
	}
	if !c.Stable() || c.Len() != 1 {
		t.Errorf("after stabilise: stable=%v len=%d, want true, 1", c.Stable(), c.Len())
	}
	got, ok := c.Tile()
	if !ok || !got.Equal(tile) {
		t.Errorf("Tile() = %v, %v, want %v, true", got, ok, tile)
	}

	// stabilising an already-single cell still reports one reduction
	d := newCell(Pos{}, set.Kinds)
	d.options = map[Signature]Tile{tile.Sig(): tile}
	d.recomputeConnections()
	if diff := d.stabilise(tile); diff != 1 {
		t.Errorf("stabilise on single option returned %d, want 1", diff)
	}
}

func TestCellReduce(t *testing.T) {
	set := BaseTileset()

	// neighbour above committed to a city-Down tile; our Up edge must
	// now be a city
	other := newCell(Pos{X: 0, Y: 1}, set.Kinds)
	other.stabilise(NewTile(set.Kind("u"), 2))

	c := newCell(Pos{}, set.Kinds)
	before := c.Len()
	removed := c.reduce(other, Up)

	if removed == 0 {
		t.Fatal("reduce removed nothing")
	}
	if c.Len() != before-removed {
		t.Errorf("len = %d, want %d", c.Len(), before-removed)
	}
	if got := c.Connects(City, Up); got != Must {
		t.Errorf("Connects(City, Up) = %v, want must", got)
	}
	for _, tile := range c.Options() {
		if !tile.HasCity(Up) {
			t.Errorf("option %v survived without a city Up", tile)
		}
	}

	// stable cells are never reduced
	s := newCell(Pos{}, set.Kinds)
	s.stabilise(NewTile(set.Kind("m"), 0))
	if removed := s.reduce(other, Up); removed != 0 {
		t.Errorf("reduce on stable cell removed %d, want 0", removed)
	}
}

func TestCellDistributionCaching(t *testing.T) {
	set := BaseTileset()
	g, err := New(&Config{Width: 3, Height: 3, Seed: 1}, set)
	if err != nil {
		t.Fatal(err)
	}

	c := g.At(Pos{X: 1, Y: 1})
	first := c.distribution(g)
	if len(first) != c.Len() {
		t.Errorf("uniform distribution has %d entries, want %d", len(first), c.Len())
	}
	for _, wt := range first {
		if wt.Weight != 1 {
			t.Errorf("uniform weight = %d, want 1", wt.Weight)
		}
	}

	// same stage, same slice
	again := c.distribution(g)
	if &first[0] != &again[0] {
		t.Error("distribution was recomputed within a stage")
	}
}
