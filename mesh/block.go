package mesh

import (
	"github.com/sarchlab/ghostmesh/index"
	"github.com/sarchlab/ghostmesh/topology"
)

// Block is one logical mesh block: a location within a face's refinement
// tree, its owning rank, its interior cell-index bounds on each axis, and
// the set of variables and neighbor descriptors it carries (spec §3).
type Block struct {
	Loc   topology.LogicalLocation
	Face  topology.FaceID
	GID   uint32
	Rank  int

	// CellBounds are this block's own interior index ranges, one per
	// logical axis. CCellBounds holds the equivalent ranges at this
	// block's parent's resolution; NewBlock leaves it zero and nothing
	// reads it — the exchange window routines use CellBounds for
	// neighbors at every level.
	CellBounds  [3]index.Range
	CCellBounds [3]index.Range

	Ghost       int
	CoarseGhost int

	Neighbors []NeighborBlock
	Vars      []*Variable
}

// NewBlock constructs a block with no neighbors or variables yet;
// RefreshNeighbors and AddVar populate those after construction.
func NewBlock(loc topology.LogicalLocation, face topology.FaceID, gid uint32, rank int, cellBounds [3]index.Range, ghost, coarseGhost int) *Block {
	return &Block{
		Loc:         loc,
		Face:        face,
		GID:         gid,
		Rank:        rank,
		CellBounds:  cellBounds,
		Ghost:       ghost,
		CoarseGhost: coarseGhost,
	}
}

// AddVar appends v to this block's variable list. Panics on a duplicate
// name — every block's variable set must be unambiguous by name.
func (b *Block) AddVar(v *Variable) {
	if _, ok := b.Var(v.Name); ok {
		panic("mesh: duplicate variable name " + v.Name + " on block " + b.Loc.String())
	}
	b.Vars = append(b.Vars, v)
}

// Var looks up a variable by name.
func (b *Block) Var(name string) (*Variable, bool) {
	for _, v := range b.Vars {
		if v.Name == name {
			return v, true
		}
	}
	return nil, false
}

// RefreshNeighbors recomputes this block's Neighbors from the current
// state of forest — called once after the forest (or this face's
// refinement tree) changes, e.g. after a regrid.
func (b *Block) RefreshNeighbors(forest *topology.Forest) {
	b.Neighbors = EnumerateNeighbors(b, forest)
}

// axisOf returns the logical axis a canonical edge side runs
// perpendicular to: South/North vary along Axis1, West/East along
// Axis2 (the convention fixed when Face built its canonical edges).
func axisOf(side topology.EdgeSide) topology.Axis {
	switch side {
	case topology.South, topology.North:
		return topology.Axis1
	default:
		return topology.Axis2
	}
}

// freeAxisOf returns the other in-plane axis: the one a coarser/finer
// neighbor search must split on, since the side's own axis is pinned by
// the offset direction.
func freeAxisOf(side topology.EdgeSide) topology.Axis {
	if axisOf(side) == topology.Axis1 {
		return topology.Axis2
	}
	return topology.Axis1
}

// signOf returns the direction, along axisOf(side), from a block toward
// whatever lies across that side: North and East are the positive
// side, South and West the negative side.
func signOf(side topology.EdgeSide) int {
	switch side {
	case topology.North, topology.East:
		return 1
	default:
		return -1
	}
}

func axisSlot(a topology.Axis) int {
	switch a {
	case topology.Axis1:
		return 0
	case topology.Axis2:
		return 1
	default:
		return 2
	}
}

func axisCoord(loc topology.LogicalLocation, a topology.Axis) int64 {
	switch a {
	case topology.Axis1:
		return loc.Lx1
	case topology.Axis2:
		return loc.Lx2
	default:
		return loc.Lx3
	}
}

// oxTriple builds the (ox1,ox2,ox3) descriptor for a neighbor found by
// stepping +/-1 along axis.
func oxTriple(axis topology.Axis, sign int) (int8, int8, int8) {
	var o [3]int8
	o[axisSlot(axis)] = int8(sign)
	return o[0], o[1], o[2]
}

// childOffsets builds the (o1,o2,o3) argument to LogicalLocation.Child
// that selects, of a cell's 8 children, the one with sideBit along
// sideAxis and freeBit along freeAxis (the remaining axis is always 0 —
// EnumerateNeighbors only walks in-plane, 2-D faces).
func childOffsets(sideAxis topology.Axis, sideBit int64, freeAxis topology.Axis, freeBit int64) (int, int, int) {
	var o [3]int
	o[axisSlot(sideAxis)] = int(sideBit)
	o[axisSlot(freeAxis)] = int(freeBit)
	return o[0], o[1], o[2]
}

// childBitForSign returns which child (0 or 1), along the side's axis,
// of a same-level neighbor actually touches the querying block: a
// negative-side neighbor's touching children are its "upper" half
// (bit 1); a positive-side neighbor's touching children are its "lower"
// half (bit 0).
func childBitForSign(sign int) int64 {
	if sign < 0 {
		return 1
	}
	return 0
}

// treeHit is one candidate neighbor found by searchTree: the location it
// occupies, the tree entry there, which half of the search axis it
// represents when the match is finer/coarser (always 0 for a same-level
// match), and what kind of match it was.
type treeHit struct {
	loc   topology.LogicalLocation
	entry topology.TreeEntry
	fi    uint8
	kind  string // "same", "coarser", or "finer"
}

// searchTree looks up loc in tree, trying same-level first, then
// walking ancestors (coarser neighbor), then checking the (up to two)
// children along freeAxis (finer neighbor) — spec §4.D's "a neighbor
// may be same-level, one level coarser, or one level finer" resolution
// order. sideAxis/sideChildBit tell the finer search which child bit
// on the side's own axis actually borders the querying block.
func searchTree(tree *topology.RefinementTree, loc topology.LogicalLocation, freeAxis, sideAxis topology.Axis, sideChildBit int64) []treeHit {
	if entry, ok := tree.Lookup(loc); ok {
		return []treeHit{{loc: loc, entry: entry, fi: 0, kind: "same"}}
	}

	cur := loc
	for cur.Level > 0 {
		bit := axisCoord(cur, freeAxis) & 1
		cur = cur.Parent()
		if entry, ok := tree.Lookup(cur); ok {
			return []treeHit{{loc: cur, entry: entry, fi: uint8(bit), kind: "coarser"}}
		}
	}

	var hits []treeHit
	for freeBit := int64(0); freeBit <= 1; freeBit++ {
		o1, o2, o3 := childOffsets(sideAxis, sideChildBit, freeAxis, freeBit)
		child := loc.Child(o1, o2, o3)
		if entry, ok := tree.Lookup(child); ok {
			hits = append(hits, treeHit{loc: child, entry: entry, fi: uint8(freeBit), kind: "finer"})
		}
	}
	return hits
}

// neighborsFromHits converts treeHits found for the given local side
// into NeighborBlocks, assigning each hit's fi bit to Fi1 or Fi2
// according to which axis was free for this side (spec §4.D/§4.E: the
// axis carrying no offset is the one fi1/fi2 discriminate on).
func neighborsFromHits(hits []treeHit, side topology.EdgeSide, relOrient int8) []NeighborBlock {
	sAxis := axisOf(side)
	sign := signOf(side)
	ox1, ox2, ox3 := oxTriple(sAxis, sign)
	fAxis := freeAxisOf(side)

	out := make([]NeighborBlock, 0, len(hits))
	for _, h := range hits {
		var fi1, fi2 uint8
		if fAxis == topology.Axis1 {
			fi1 = h.fi
		} else {
			fi2 = h.fi
		}
		out = append(out, newNeighborBlock(h.entry.GID, h.entry.OwnerRank, h.loc.Level, ox1, ox2, ox3, fi1, fi2, relOrient))
	}
	return out
}

// EnumerateNeighbors walks all four canonical edge sides of block,
// resolving each to zero, one, or several NeighborBlocks depending on
// whether the neighbor lies within the same face or must be found by
// crossing into an adjacent face (spec §4.C/§4.D). Corner-only (no
// shared edge) adjacency is intentionally not enumerated here — see
// DESIGN.md's scope note on corner neighbors.
func EnumerateNeighbors(block *Block, forest *topology.Forest) []NeighborBlock {
	var out []NeighborBlock

	sides := [4]topology.EdgeSide{topology.South, topology.North, topology.West, topology.East}
	for _, side := range sides {
		sAxis := axisOf(side)
		sign := signOf(side)
		fAxis := freeAxisOf(side)

		if sameLoc, within := block.Loc.SameLevelNeighbor(sAxis, sign); within {
			tree := forest.FaceTree(block.Face)
			hits := searchTree(tree, sameLoc, fAxis, sAxis, childBitForSign(sign))
			out = append(out, neighborsFromHits(hits, side, 0)...)
			continue
		}

		nbFace, rotatedLoc, ok := forest.CrossFaceNeighbor(block.Face, side, block.Loc)
		if !ok {
			continue // domain boundary: no neighbor on this side.
		}
		edgeNeighbors := forest.FindEdgeNeighbors(block.Face, side)
		if len(edgeNeighbors) == 0 {
			continue
		}
		nb := edgeNeighbors[0]

		nbSAxis := axisOf(nb.Side)
		nbFAxis := freeAxisOf(nb.Side)
		nbSign := signOf(nb.Side)

		tree := forest.FaceTree(nbFace)
		hits := searchTree(tree, rotatedLoc, nbFAxis, nbSAxis, childBitForSign(nbSign))
		out = append(out, neighborsFromHits(hits, side, nb.Orientation)...)
	}

	return out
}
