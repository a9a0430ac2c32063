package tilewave

import (
	"fmt"

	"github.com/voidshard/tilewave/internal/encoding"

	"github.com/boljen/go-bitmap"
)

// Feature enumerates the edge features a tile can carry.
type Feature int

const (
	Road Feature = iota
	City
	River
)

const numFeatures = 3

// String returns the feature name
func (f Feature) String() string {
	switch f {
	case Road:
		return "road"
	case City:
		return "city"
	case River:
		return "river"
	}
	return "unknown"
}

// AllFeatures returns the edge features in a fixed order.
func AllFeatures() []Feature {
	return []Feature{Road, City, River}
}

const (
	// bit numbers for the tile predicate bitmap
	bitMonastery = 0
	bitShield    = 1
	bitRoadBase  = 2  // bits 2-5, one per direction
	bitCityBase  = 6  // bits 6-9
	bitRiverBase = 10 // bits 10-13
)

// Signature identifies a tile by its kind and derived edge predicates.
// Rotations of a symmetric kind that present identical edges share a
// signature, so they collapse to one identity in option sets.
type Signature uint32

// KindID recovers the catalog kind id packed into the high half of the
// signature.
func (s Signature) KindID() int {
	id, _ := encoding.Split32(uint32(s))
	return int(id)
}

// Tile is a catalog kind at one of four rotations. Edge predicates are
// resolved by rotating the queried direction backward onto the kind.
type Tile struct {
	Kind     *TileKind
	Rotation int

	sig Signature
}

// NewTile builds a tile & precomputes its signature.
func NewTile(kind *TileKind, rotation int) Tile {
	t := Tile{Kind: kind, Rotation: ((rotation % 4) + 4) % 4}
	t.sig = t.signature()
	return t
}

// signature packs the kind id with the 14 derived predicate bits.
func (t Tile) signature() Signature {
	bm := bitmap.New(16)
	if t.Kind.Monastery {
		bm.Set(bitMonastery, true)
	}
	if t.Kind.Shield {
		bm.Set(bitShield, true)
	}
	for _, d := range AllDirections() {
		if t.HasRoad(d) {
			bm.Set(bitRoadBase+int(d), true)
		}
		if t.HasCity(d) {
			bm.Set(bitCityBase+int(d), true)
		}
		if t.HasRiver(d) {
			bm.Set(bitRiverBase+int(d), true)
		}
	}
	bits := encoding.FromBytes16(bm.Data(false))
	return Signature(encoding.Merge16(uint16(t.Kind.ID), bits))
}

// Sig returns the tile's identity signature.
func (t Tile) Sig() Signature {
	return t.sig
}

// Equal reports whether two tiles present identical edge predicates and
// flags (not whether kind+rotation match exactly).
func (t Tile) Equal(o Tile) bool {
	return t.sig == o.sig
}

// String formats the tile as name@rotation
func (t Tile) String() string {
	return fmt.Sprintf("%s@%d", t.Kind.Name, t.Rotation)
}

// HasRoad reports whether the rotated tile presents a road on edge d.
func (t Tile) HasRoad(d Direction) bool {
	return t.Kind.Roads.Has(d.Rotate(-t.Rotation))
}

// HasCity reports whether the rotated tile presents a city on edge d.
func (t Tile) HasCity(d Direction) bool {
	return t.Kind.HasCity(d.Rotate(-t.Rotation))
}

// HasRiver reports whether the rotated tile presents a river on edge d.
func (t Tile) HasRiver(d Direction) bool {
	return t.Kind.Rivers.Has(d.Rotate(-t.Rotation))
}

// Has reports whether the rotated tile presents feature f on edge d.
func (t Tile) Has(f Feature, d Direction) bool {
	switch f {
	case Road:
		return t.HasRoad(d)
	case City:
		return t.HasCity(d)
	case River:
		return t.HasRiver(d)
	}
	return false
}

// Carries reports whether the tile presents feature f on any edge.
func (t Tile) Carries(f Feature) bool {
	for _, d := range AllDirections() {
		if t.Has(f, d) {
			return true
		}
	}
	return false
}

// validBeside reports whether two placed tiles are compatible across a
// shared edge; presence of every feature must match exactly on both
// sides, mere absence of conflict is not enough.
func (t Tile) validBeside(o Tile, d Direction) bool {
	opp := d.Flip()
	for _, f := range AllFeatures() {
		if t.Has(f, d) != o.Has(f, opp) {
			return false
		}
	}
	return true
}

// fitsBeside reports whether this tile could sit next to a cell that has
// not fully committed. The test is asymmetric on purpose: the tile may
// not present a feature the cell can Never match, and must present any
// feature the cell Must match. This lets us prune before the neighbour
// stabilises.
func (t Tile) fitsBeside(c *Cell, d Direction) bool {
	opp := d.Flip()
	for _, f := range AllFeatures() {
		switch c.Connects(f, opp) {
		case Never:
			if t.Has(f, d) {
				return false
			}
		case Must:
			if !t.Has(f, d) {
				return false
			}
		}
	}
	return true
}
