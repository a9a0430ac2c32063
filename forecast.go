package tilewave

// group is one contiguous run of a feature across committed tiles.
// Groups are created when a feature tile lands with no connected
// neighbours, grow as tiles join, and merge when a tile bridges two of
// them. They are never split or destroyed during a run.
type group struct {
	positions []Pos
	shields   int
}

// groupArena owns every group and maps positions to the group holding
// them. Ids are never reused; merging repoints the absorbed members.
type groupArena struct {
	byPos  map[Pos]int
	groups map[int]*group
	next   int
}

func newGroupArena() *groupArena {
	return &groupArena{
		byPos:  map[Pos]int{},
		groups: map[int]*group{},
		next:   1,
	}
}

// at returns the id of the group holding p, 0 if none.
func (a *groupArena) at(p Pos) int {
	return a.byPos[p]
}

func (a *groupArena) size(id int) int {
	if g := a.groups[id]; g != nil {
		return len(g.positions)
	}
	return 0
}

func (a *groupArena) shields(id int) int {
	if g := a.groups[id]; g != nil {
		return g.shields
	}
	return 0
}

// add starts a fresh singleton group at p and returns its id.
func (a *groupArena) add(p Pos, shields int) int {
	id := a.next
	a.next++
	a.groups[id] = &group{positions: []Pos{p}, shields: shields}
	a.byPos[p] = id
	return id
}

// join appends p to an existing group.
func (a *groupArena) join(id int, p Pos, shields int) {
	g := a.groups[id]
	if g == nil {
		return
	}
	g.positions = append(g.positions, p)
	g.shields += shields
	a.byPos[p] = id
}

// merge absorbs src into dst, repointing every absorbed member. Cost is
// linear in the size of src; merges are rare enough that union-find is
// not worth the bookkeeping.
func (a *groupArena) merge(dst, src int) {
	if dst == src {
		return
	}
	d, s := a.groups[dst], a.groups[src]
	if d == nil || s == nil {
		return
	}
	for _, p := range s.positions {
		a.byPos[p] = dst
	}
	d.positions = append(d.positions, s.positions...)
	d.shields += s.shields
	delete(a.groups, src)
}

// Forecast biases placement toward growing contiguous runs of one
// feature. It watches committed tiles to maintain the connected groups
// of that feature, then rescales every option by the total size of the
// groups the option would join; bigger cities attract more city tiles.
//
// While the last propagation round removed at least one option the
// stage is strict and non-connecting options drop to weight zero.
// Otherwise a flat +1 keeps them alive, so light constraint pressure
// does not force the feature everywhere.
type Forecast struct {
	feature     Feature
	shieldBonus int
	strict      bool
	arena       *groupArena
}

// NewForecast tracks connectivity of the given feature. shieldBonus
// adds that many points per shield held by a group being joined; zero
// disables it.
func NewForecast(f Feature, shieldBonus int) *Forecast {
	return &Forecast{feature: f, shieldBonus: shieldBonus, arena: newGroupArena()}
}

// connected reports the neighbouring group the committed tile at nb
// offers across the shared edge, 0 if none.
func (f *Forecast) connected(nb neighbour, t Tile) int {
	if !t.Has(f.feature, nb.dir) {
		return 0
	}
	ot, ok := nb.cell.Tile()
	if !ok || !ot.Has(f.feature, nb.dir.Flip()) {
		return 0
	}
	return f.arena.at(nb.cell.Pos())
}

// forecast totals the sizes of every distinct group t would join if
// placed at p.
func (f *Forecast) forecast(g *Grid, p Pos, t Tile) int {
	total := 0
	var seen [4]int
	for i, nb := range g.around(p) {
		id := f.connected(nb, t)
		if id == 0 {
			continue
		}
		dup := false
		for _, s := range seen[:i] {
			if s == id {
				dup = true
				break
			}
		}
		seen[i] = id
		if dup {
			continue
		}
		total += f.arena.size(id)
		if f.shieldBonus > 0 {
			total += f.arena.shields(id) * f.shieldBonus
		}
	}
	return total
}

// WaveFunction rescales each option by its forecast.
func (f *Forecast) WaveFunction(g *Grid, p Pos, c *Cell, in []WeightedTile) []WeightedTile {
	out := make([]WeightedTile, 0, len(in))
	for _, wt := range in {
		n := f.forecast(g, p, wt.Tile)
		if !f.strict {
			n++
		}
		out = append(out, WeightedTile{Tile: wt.Tile, Weight: wt.Weight * n})
	}
	return out
}

// Take absorbs every group the placed tile connects to, or starts a new
// one if the tile carries the feature in isolation.
func (f *Forecast) Take(g *Grid, p Pos, t Tile) {
	if !t.Carries(f.feature) {
		return
	}
	shields := 0
	if t.Kind.Shield {
		shields = 1
	}

	into := 0
	for _, nb := range g.around(p) {
		id := f.connected(nb, t)
		if id == 0 || id == into {
			continue
		}
		if into == 0 {
			into = id
		} else {
			f.arena.merge(into, id)
		}
	}
	if into == 0 {
		f.arena.add(p, shields)
		return
	}
	f.arena.join(into, p, shields)
}

// AfterCollapse latches the strict flag for the next turn.
func (f *Forecast) AfterCollapse(g *Grid, reductions int) {
	f.strict = reductions > 0
}
