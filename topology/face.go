package topology

import (
	"sort"

	"github.com/bits-and-blooms/bitset"
)

// Corner names the four canonical corners of a face, in the fixed order
// spec §3 requires: [SW, SE, NW, NE].
type Corner int

const (
	SW Corner = iota
	SE
	NW
	NE
)

// TreeEntry is the value a Face's local refinement tree maps a
// LogicalLocation to: the global block id and the MPI rank that owns it.
type TreeEntry struct {
	GID       uint32
	OwnerRank int
}

// RefinementTree is a Face's local mapping of LogicalLocation to the
// block that occupies it. The set of keys must form a valid quad-tree
// cover: no ancestor-descendant pair may both be present, and siblings
// must be either all present or all absent. occupiedLevels is a
// popcount-style presence bitset (one bit per level that has at least
// one entry), modeled on gaissmai-bart's prefixCBTree.indexes. Insert
// keeps it up to date; Validate does not read it.
type RefinementTree struct {
	entries        map[LogicalLocation]TreeEntry
	occupiedLevels *bitset.BitSet
}

// NewRefinementTree returns an empty tree ready to receive Insert calls.
func NewRefinementTree() *RefinementTree {
	return &RefinementTree{
		entries:        make(map[LogicalLocation]TreeEntry),
		occupiedLevels: bitset.New(64),
	}
}

// Insert adds loc -> entry. Does not validate the cover invariant itself
// (cheap — callers batch many Inserts then call Validate once).
func (t *RefinementTree) Insert(loc LogicalLocation, entry TreeEntry) {
	t.entries[loc] = entry
	t.occupiedLevels.Set(uint(loc.Level))
}

// Lookup returns the entry at loc, if any.
func (t *RefinementTree) Lookup(loc LogicalLocation) (TreeEntry, bool) {
	e, ok := t.entries[loc]
	return e, ok
}

// Len returns the number of occupied logical locations.
func (t *RefinementTree) Len() int {
	return len(t.entries)
}

// Locations returns all occupied locations, sorted by (level, Morton).
func (t *RefinementTree) Locations() []LogicalLocation {
	out := make([]LogicalLocation, 0, len(t.entries))
	for loc := range t.entries {
		out = append(out, loc)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Level != out[j].Level {
			return out[i].Level < out[j].Level
		}
		return out[i].Morton() < out[j].Morton()
	})
	return out
}

// Validate checks the quad-tree cover invariant: no entry may be the
// ancestor or descendant of another, and if one child of a parent is
// present then all 2^D siblings must be present. Returns a
// *TopologyError (not yet panicked — callers decide whether to panic,
// per spec §7's "Fatal at construction").
func (t *RefinementTree) Validate(face FaceID) error {
	locs := t.Locations()

	for i, a := range locs {
		for _, b := range locs[i+1:] {
			if a.Level == b.Level {
				continue
			}
			lo, hi := a, b
			if lo.Level > hi.Level {
				lo, hi = hi, lo
			}
			if lo.Contains(hi) {
				return newTopologyError(face,
					"refinement tree has ancestor %s overlapping descendant %s", lo, hi)
			}
		}
	}

	seen := make(map[LogicalLocation]bool, len(locs))
	for _, l := range locs {
		seen[l] = true
	}
	checkedParents := make(map[LogicalLocation]bool)
	for _, l := range locs {
		if l.Level == 0 {
			continue
		}
		parent := l.Parent()
		if checkedParents[parent] {
			continue
		}
		checkedParents[parent] = true

		present := 0
		for o1 := 0; o1 <= 1; o1++ {
			for o2 := 0; o2 <= 1; o2++ {
				for o3 := 0; o3 <= 1; o3++ {
					if seen[parent.Child(o1, o2, o3)] {
						present++
					}
				}
			}
		}
		if present != 0 && present != 8 {
			return newTopologyError(face,
				"refinement tree has %d/8 siblings of %s present, want 0 or 8", present, parent)
		}
	}

	return nil
}

// Face is a quadrilateral forest element with four corner nodes in
// canonical order [SW, SE, NW, NE], four edges keyed by
// {South,North,West,East} derived from those corners, and a local
// refinement tree. A Face owns its edges and its tree; it shares
// ownership of its corner nodes (each node merely indexes the face back
// via Node.registerFace).
type Face struct {
	ID      FaceID
	Corners [4]NodeID
	edges   [4]Edge // indexed by EdgeSide
	Tree    *RefinementTree

	// RelOrient[side] is the orientation of the neighbor sharing that
	// side's edge, once the forest has resolved it. 0 means unresolved
	// or boundary (no neighbor yet).
	RelOrient [4]int8

	// Boundary[side] records whether the builder asserted that side is
	// a true domain boundary (spec §8 invariant 3). Forest.Build checks
	// every side's assertion against what resolveOrientations actually
	// found and panics on a mismatch — see Forest.validateClosure.
	Boundary [4]bool
}

// NewFace builds the four canonical edges from the corner order and
// registers the face with each of its four nodes, mutating their face
// sets — mirroring Face::new in spec §4.B.
func NewFace(id FaceID, corners [4]NodeID, boundary [4]bool, nodes map[NodeID]*Node) *Face {
	f := &Face{
		ID:       id,
		Corners:  corners,
		Tree:     NewRefinementTree(),
		Boundary: boundary,
	}

	f.edges[South] = Edge{A: corners[SW], B: corners[SE], Axis: Axis1}
	f.edges[North] = Edge{A: corners[NW], B: corners[NE], Axis: Axis1}
	f.edges[West] = Edge{A: corners[SW], B: corners[NW], Axis: Axis2}
	f.edges[East] = Edge{A: corners[SE], B: corners[NE], Axis: Axis2}

	for _, c := range corners {
		if n, ok := nodes[c]; ok {
			n.registerFace(id)
		}
	}

	return f
}

// Edge returns the edge at the given canonical side.
func (f *Face) Edge(side EdgeSide) Edge {
	return f.edges[side]
}

// cornerSet returns the pair of node ids bounding the given side, in
// canonical (non-rotated) order.
func (f *Face) cornerSet(side EdgeSide) (NodeID, NodeID) {
	e := f.edges[side]
	return e.A, e.B
}
