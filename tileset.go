package tilewave

// TileKind is an immutable catalog template: which edges carry roads or
// rivers, which (disjoint) groups of edges form city regions, and whether
// the tile holds a monastery or a shield. Rotation is never baked into a
// kind - it is applied at runtime by Tile.
type TileKind struct {
	// ID is assigned by the Tileset & is stable for the life of a run
	ID int

	// Name is the catalog name used by frequency tables / configs
	Name string

	Roads  DirSet
	Cities []DirSet // pairwise disjoint regions
	Rivers DirSet

	Monastery bool
	Shield    bool

	// NoRefill marks kinds an infinite deck should not restock
	// (eg. river tiles which are dealt exactly once)
	NoRefill bool
}

// HasCity returns whether any city region touches the (unrotated) edge d.
func (k *TileKind) HasCity(d Direction) bool {
	for _, region := range k.Cities {
		if region.Has(d) {
			return true
		}
	}
	return false
}

// Tileset is the catalog of kinds a grid draws placements from.
type Tileset struct {
	Kinds []*TileKind

	byName map[string]*TileKind
}

// NewTileset wraps the given kinds, assigning ids in order.
func NewTileset(kinds []*TileKind) *Tileset {
	ts := &Tileset{Kinds: kinds, byName: map[string]*TileKind{}}
	for i, k := range kinds {
		k.ID = i + 1 // nb. kind ids must be > 0
		ts.byName[k.Name] = k
	}
	return ts
}

// Kind returns the kind with the given catalog name (nil if unknown).
func (t *Tileset) Kind(name string) *TileKind {
	return t.byName[name]
}

// NumTiles returns the number of placements before symmetry collapsing;
// every kind at each of the four rotations.
func (t *Tileset) NumTiles() int {
	return len(t.Kinds) * 4
}

// BaseTileset returns the standard catalog; monasteries, cities, roads
// and a handful of river kinds. Names encode the city edges first, then
// road edges after a dot ("u.ld" is a city Up with a road Left-Down),
// with ".s" marking a shield and a leading "r" marking river kinds.
func BaseTileset() *Tileset {
	return NewTileset([]*TileKind{
		{Name: "m", Monastery: true},

		{Name: "u", Cities: []DirSet{NewDirSet(Up)}},
		{Name: "u-d", Cities: []DirSet{NewDirSet(Up), NewDirSet(Down)}},
		{Name: "u-r", Cities: []DirSet{NewDirSet(Up), NewDirSet(Right)}},
		{Name: "lr", Cities: []DirSet{NewDirSet(Left, Right)}},
		{Name: "lr.s", Cities: []DirSet{NewDirSet(Left, Right)}, Shield: true},
		{Name: "ur", Cities: []DirSet{NewDirSet(Up, Right)}},
		{Name: "ur.s", Cities: []DirSet{NewDirSet(Up, Right)}, Shield: true},
		{Name: "ulr", Cities: []DirSet{NewDirSet(Up, Left, Right)}},
		{Name: "ulr.s", Cities: []DirSet{NewDirSet(Up, Left, Right)}, Shield: true},
		{Name: "udlr.s", Cities: []DirSet{NewDirSet(Up, Down, Left, Right)}, Shield: true},

		{Name: "m.d", Roads: NewDirSet(Down), Monastery: true},
		{Name: "ulr.d", Roads: NewDirSet(Down), Cities: []DirSet{NewDirSet(Up, Left, Right)}},
		{Name: "ulr.s.d", Roads: NewDirSet(Down), Cities: []DirSet{NewDirSet(Up, Left, Right)}, Shield: true},

		{Name: "-.lr", Roads: NewDirSet(Left, Right)},
		{Name: "-.ld", Roads: NewDirSet(Left, Down)},
		{Name: "u.lr", Roads: NewDirSet(Left, Right), Cities: []DirSet{NewDirSet(Up)}},
		{Name: "u.ld", Roads: NewDirSet(Left, Down), Cities: []DirSet{NewDirSet(Up)}},
		{Name: "u.rd", Roads: NewDirSet(Right, Down), Cities: []DirSet{NewDirSet(Up)}},
		{Name: "ur.ld", Roads: NewDirSet(Left, Down), Cities: []DirSet{NewDirSet(Up, Right)}},
		{Name: "ur.s.ld", Roads: NewDirSet(Left, Down), Cities: []DirSet{NewDirSet(Up, Right)}, Shield: true},

		{Name: "-.lrd", Roads: NewDirSet(Left, Right, Down)},
		{Name: "u.lrd", Roads: NewDirSet(Left, Right, Down), Cities: []DirSet{NewDirSet(Up)}},
		{Name: "-.ulrd", Roads: NewDirSet(Up, Left, Right, Down)},

		{Name: "r.ud", Rivers: NewDirSet(Up, Down), NoRefill: true},
		{Name: "r.rd", Rivers: NewDirSet(Right, Down), NoRefill: true},
		{Name: "r.lr.-ud", Rivers: NewDirSet(Left, Right), Roads: NewDirSet(Up, Down), NoRefill: true},
		{Name: "u.r.lr", Rivers: NewDirSet(Left, Right), Cities: []DirSet{NewDirSet(Up)}, NoRefill: true},
		{Name: "r.u", Rivers: NewDirSet(Up), NoRefill: true},
	})
}

// BaseFrequencies returns how many of each base kind a single deck holds.
func BaseFrequencies() map[string]int {
	return map[string]int{
		"m": 4, "u": 5, "u-d": 3, "u-r": 2, "lr": 1, "lr.s": 2, "ur": 3,
		"ur.s": 2, "ulr": 3, "ulr.s": 1, "udlr.s": 1, "m.d": 2, "ulr.d": 1,
		"ulr.s.d": 2, "-.lr": 8, "-.ld": 9, "u.lr": 4, "u.ld": 3, "u.rd": 3,
		"ur.ld": 3, "ur.s.ld": 3, "-.lrd": 4, "u.lrd": 3, "-.ulrd": 1,
		"r.ud": 4, "r.rd": 3, "r.lr.-ud": 2, "u.r.lr": 2, "r.u": 2,
	}
}
