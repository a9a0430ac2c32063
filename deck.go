package tilewave

import (
	"fmt"
	"sort"
)

// ErrUnknownKind means a frequency table names a kind the tileset
// doesn't contain.
var ErrUnknownKind = fmt.Errorf("unknown tile kind")

// DeckMode controls how a Deck applies its remaining supply to the
// distribution.
type DeckMode int

const (
	// DeckRescale multiplies each option's weight by the remaining
	// count of its kind, so nearly-exhausted kinds fade out gradually.
	DeckRescale DeckMode = iota

	// DeckFilter drops options whose kind is exhausted outright,
	// leaving the inner weights untouched.
	DeckFilter
)

// DeckConfig tunes a Deck stage.
type DeckConfig struct {
	// Mode decides between rescaling weights by remaining supply
	// (the default) and filtering exhausted kinds.
	Mode DeckMode

	// Copies multiplies every starting count, as if shuffling several
	// boxes together. Values < 1 are treated as 1.
	Copies int

	// Infinite refills the whole table once every kind is exhausted.
	// Kinds marked NoRefill stay exhausted unless RefillAll is also
	// set; this keeps one-off content (river runs) from recurring.
	Infinite  bool
	RefillAll bool
}

// Deck tracks a finite supply of each tile kind, like the physical
// stack of tiles in a box. Placing a tile spends one from the supply;
// the distribution reflects what is left.
type Deck struct {
	PassStage

	mode      DeckMode
	infinite  bool
	refillAll bool

	base map[int]int // starting supply by kind id
	hand map[int]int // remaining supply by kind id

	kinds map[int]*TileKind
}

// NewDeck builds a deck from a kind-name -> count frequency table.
// Kinds the table doesn't mention start with zero supply.
func NewDeck(set *Tileset, freq map[string]int, cfg *DeckConfig) (*Deck, error) {
	if cfg == nil {
		cfg = &DeckConfig{}
	}
	copies := cfg.Copies
	if copies < 1 {
		copies = 1
	}

	d := &Deck{
		mode:      cfg.Mode,
		infinite:  cfg.Infinite,
		refillAll: cfg.RefillAll,
		base:      map[int]int{},
		hand:      map[int]int{},
		kinds:     map[int]*TileKind{},
	}
	for _, k := range set.Kinds {
		d.kinds[k.ID] = k
	}
	for name, count := range freq {
		k := set.Kind(name)
		if k == nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownKind, name)
		}
		d.base[k.ID] = count * copies
		d.hand[k.ID] = count * copies
	}
	return d, nil
}

// Remaining supply of the given kind.
func (d *Deck) Remaining(k *TileKind) int {
	if k == nil {
		return 0
	}
	return d.hand[k.ID]
}

// WaveFunction applies the remaining supply to the inner distribution.
func (d *Deck) WaveFunction(g *Grid, p Pos, c *Cell, in []WeightedTile) []WeightedTile {
	out := make([]WeightedTile, 0, len(in))
	for _, wt := range in {
		n := d.hand[wt.Tile.Kind.ID]
		switch d.mode {
		case DeckFilter:
			if n > 0 {
				out = append(out, wt)
			}
		default:
			out = append(out, WeightedTile{Tile: wt.Tile, Weight: wt.Weight * n})
		}
	}
	return out
}

// Take spends one tile of the committed kind. An infinite deck refills
// the whole table once every kind is exhausted.
func (d *Deck) Take(g *Grid, p Pos, t Tile) {
	d.hand[t.Kind.ID]--
	if !d.infinite {
		return
	}
	for _, n := range d.hand {
		if n > 0 {
			return
		}
	}
	for id, n := range d.base {
		if k := d.kinds[id]; k != nil && k.NoRefill && !d.refillAll {
			continue
		}
		d.hand[id] = n
	}
}

// Reset restores the full starting supply.
func (d *Deck) Reset(g *Grid) {
	for id, n := range d.base {
		d.hand[id] = n
	}
}

// RealDeck simulates drawing tiles from a face-down shuffled deck: one
// kind is face up at a time and only that kind can be placed. A fresh
// top tile is drawn after every placement and at the start of every
// turn, so a top that fits nowhere is discarded rather than blocking
// the run.
type RealDeck struct {
	deck *Deck
	top  int // kind id face up; 0 when exhausted, -1 before first draw
}

// NewRealDeck wraps a deck's supply in draw-one-at-a-time semantics.
func NewRealDeck(deck *Deck) *RealDeck {
	return &RealDeck{deck: deck, top: -1}
}

// Top returns the kind currently face up, or nil if the deck is
// exhausted or nothing has been drawn yet.
func (r *RealDeck) Top() *TileKind {
	if r.top <= 0 {
		return nil
	}
	return r.deck.kinds[r.top]
}

func (r *RealDeck) draw(g *Grid) {
	ids := []int{}
	for id, n := range r.deck.hand {
		if n > 0 {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		r.top = 0
		return
	}
	// map order is random; sort so the draw depends only on the rng
	sort.Ints(ids)
	r.top = ids[g.rng.Intn(len(ids))]
}

// WaveFunction narrows the supply-adjusted distribution to the kind
// face up.
func (r *RealDeck) WaveFunction(g *Grid, p Pos, c *Cell, in []WeightedTile) []WeightedTile {
	if r.top == -1 {
		r.draw(g)
	}
	wf := r.deck.WaveFunction(g, p, c, in)
	out := make([]WeightedTile, 0, len(wf))
	for _, wt := range wf {
		if wt.Tile.Sig().KindID() == r.top {
			out = append(out, wt)
		}
	}
	return out
}

// Take spends the placed tile and draws the next top.
func (r *RealDeck) Take(g *Grid, p Pos, t Tile) {
	r.deck.Take(g, p, t)
	r.draw(g)
}

// AfterCollapse discards a top that could not be placed by drawing
// again for the next turn.
func (r *RealDeck) AfterCollapse(g *Grid, reductions int) {
	r.draw(g)
}

// Reset restores the supply and forces a fresh draw.
func (r *RealDeck) Reset(g *Grid) {
	r.deck.Reset(g)
	r.top = -1
}
