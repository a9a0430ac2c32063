package tilewave

import "testing"

func deckGrid(t *testing.T) *Grid {
	t.Helper()
	g, err := New(&Config{Width: 3, Height: 3, Seed: 21}, BaseTileset())
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestDeckRescaleMode(t *testing.T) {
	set := BaseTileset()
	g := deckGrid(t)

	deck, err := NewDeck(set, map[string]int{"m": 4, "u": 2}, nil)
	if err != nil {
		t.Fatal(err)
	}

	in := []WeightedTile{
		{Tile: NewTile(set.Kind("m"), 0), Weight: 1},
		{Tile: NewTile(set.Kind("u"), 0), Weight: 3},
		{Tile: NewTile(set.Kind("lr"), 0), Weight: 1}, // not in the table
	}
	out := deck.WaveFunction(g, Pos{}, g.At(Pos{}), in)

	want := map[string]int{"m": 4, "u": 6, "lr": 0}
	for _, wt := range out {
		if wt.Weight != want[wt.Tile.Kind.Name] {
			t.Errorf("%s weight = %d, want %d", wt.Tile.Kind.Name, wt.Weight, want[wt.Tile.Kind.Name])
		}
	}
}

func TestDeckFilterMode(t *testing.T) {
	set := BaseTileset()
	g := deckGrid(t)

	deck, err := NewDeck(set, map[string]int{"m": 1}, &DeckConfig{Mode: DeckFilter})
	if err != nil {
		t.Fatal(err)
	}

	in := []WeightedTile{
		{Tile: NewTile(set.Kind("m"), 0), Weight: 5},
		{Tile: NewTile(set.Kind("u"), 0), Weight: 5},
	}
	out := deck.WaveFunction(g, Pos{}, g.At(Pos{}), in)

	if len(out) != 1 || out[0].Tile.Kind.Name != "m" {
		t.Fatalf("filter kept %v, want only m", out)
	}
	// filter mode leaves weights alone
	if out[0].Weight != 5 {
		t.Errorf("weight = %d, want 5", out[0].Weight)
	}

	// spend the last m; nothing survives the filter
	deck.Take(g, Pos{}, NewTile(set.Kind("m"), 0))
	if out := deck.WaveFunction(g, Pos{}, g.At(Pos{}), in); len(out) != 0 {
		t.Errorf("exhausted deck kept %v, want nothing", out)
	}
}

func TestDeckCopiesAndUnknownKind(t *testing.T) {
	set := BaseTileset()

	deck, err := NewDeck(set, map[string]int{"m": 2}, &DeckConfig{Copies: 3})
	if err != nil {
		t.Fatal(err)
	}
	if got := deck.Remaining(set.Kind("m")); got != 6 {
		t.Errorf("Remaining(m) = %d, want 6", got)
	}

	if _, err := NewDeck(set, map[string]int{"nope": 1}, nil); err == nil {
		t.Error("unknown kind accepted, want error")
	}
}

func TestDeckInfiniteRefill(t *testing.T) {
	set := BaseTileset()
	g := deckGrid(t)

	deck, err := NewDeck(set, map[string]int{"m": 1, "r.u": 1}, &DeckConfig{Infinite: true})
	if err != nil {
		t.Fatal(err)
	}

	// spending m alone leaves r.u in hand; no refill yet
	deck.Take(g, Pos{}, NewTile(set.Kind("m"), 0))
	if got := deck.Remaining(set.Kind("m")); got != 0 {
		t.Errorf("Remaining(m) = %d, want 0 before the deck empties", got)
	}

	// spending the last tile refills, but river kinds stay exhausted
	deck.Take(g, Pos{}, NewTile(set.Kind("r.u"), 0))
	if got := deck.Remaining(set.Kind("m")); got != 1 {
		t.Errorf("Remaining(m) = %d after refill, want 1", got)
	}
	if got := deck.Remaining(set.Kind("r.u")); got != 0 {
		t.Errorf("Remaining(r.u) = %d after refill, want 0 (no refill kind)", got)
	}
}

func TestDeckReset(t *testing.T) {
	set := BaseTileset()
	g := deckGrid(t)

	deck, err := NewDeck(set, map[string]int{"m": 2}, nil)
	if err != nil {
		t.Fatal(err)
	}
	deck.Take(g, Pos{}, NewTile(set.Kind("m"), 0))
	deck.Reset(g)
	if got := deck.Remaining(set.Kind("m")); got != 2 {
		t.Errorf("Remaining(m) = %d after reset, want 2", got)
	}
}

func TestRealDeckOnlyOffersTop(t *testing.T) {
	set := BaseTileset()
	g := deckGrid(t)

	deck, err := NewDeck(set, map[string]int{"m": 2, "u": 2, "lr": 2}, nil)
	if err != nil {
		t.Fatal(err)
	}
	real := NewRealDeck(deck)

	in := []WeightedTile{
		{Tile: NewTile(set.Kind("m"), 0), Weight: 1},
		{Tile: NewTile(set.Kind("u"), 0), Weight: 1},
		{Tile: NewTile(set.Kind("lr"), 0), Weight: 1},
	}

	for i := 0; i < 20; i++ {
		out := real.WaveFunction(g, Pos{}, g.At(Pos{}), in)
		top := real.Top()
		if top == nil {
			t.Fatal("Top() = nil with supply remaining")
		}
		for _, wt := range out {
			if wt.Tile.Kind.ID != top.ID {
				t.Fatalf("offered %s while top is %s", wt.Tile.Kind.Name, top.Name)
			}
		}
		// discarding the turn draws a fresh top
		real.AfterCollapse(g, 0)
	}
}

func TestRealDeckExhaustion(t *testing.T) {
	set := BaseTileset()
	g := deckGrid(t)

	deck, err := NewDeck(set, map[string]int{"m": 1}, nil)
	if err != nil {
		t.Fatal(err)
	}
	real := NewRealDeck(deck)

	in := []WeightedTile{{Tile: NewTile(set.Kind("m"), 0), Weight: 1}}
	if out := real.WaveFunction(g, Pos{}, g.At(Pos{}), in); len(out) != 1 {
		t.Fatalf("fresh real deck offered %v, want the single m", out)
	}

	real.Take(g, Pos{}, NewTile(set.Kind("m"), 0))
	if real.Top() != nil {
		t.Errorf("Top() = %v after exhaustion, want nil", real.Top())
	}
	if got := deck.Remaining(set.Kind("m")); got != 0 {
		t.Errorf("Remaining(m) = %d, want 0 (take spends exactly one)", got)
	}
	if out := real.WaveFunction(g, Pos{}, g.At(Pos{}), in); len(out) != 0 {
		t.Errorf("exhausted real deck offered %v, want nothing", out)
	}
}
