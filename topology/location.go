// Package topology implements the forest-of-trees macro topology: nodes,
// edges, and faces joined with explicit relative orientations, each face
// owning a logical refinement tree of blocks.
package topology

import "fmt"

// Axis names one of the (at most) three logical directions a location can
// be refined or compared along.
type Axis int

const (
	Axis1 Axis = iota
	Axis2
	Axis3
)

// LogicalLocation identifies a block within a single face's refinement
// tree by (level, lx1, lx2, lx3). Invariant: 0 <= lxd < 2^level for every
// d. Two locations are equal (identical) only when both level and every
// lxd match; a Morton number derived by bit-interleaving the low `level`
// bits of lx1,lx2,lx3 gives a total order usable for hashing and sorting.
type LogicalLocation struct {
	Level            uint32
	Lx1, Lx2, Lx3    int64
}

// NewRoot returns the single location at level 0 (the whole face).
func NewRoot() LogicalLocation {
	return LogicalLocation{}
}

// Parent returns the location one level coarser. Panics if called on the
// root location (level 0 has no parent within this face).
func (l LogicalLocation) Parent() LogicalLocation {
	if l.Level == 0 {
		panic(fmt.Sprintf("topology: Parent() called on root location %s", l))
	}
	return LogicalLocation{
		Level: l.Level - 1,
		Lx1:   l.Lx1 >> 1,
		Lx2:   l.Lx2 >> 1,
		Lx3:   l.Lx3 >> 1,
	}
}

// Child returns one of the 2^D children at level+1, selected by the
// per-axis offset o1,o2,o3 in {0,1}.
func (l LogicalLocation) Child(o1, o2, o3 int) LogicalLocation {
	if o1 != 0 && o1 != 1 || o2 != 0 && o2 != 1 || o3 != 0 && o3 != 1 {
		panic(fmt.Sprintf("topology: Child offsets must be in {0,1}, got (%d,%d,%d)", o1, o2, o3))
	}
	return LogicalLocation{
		Level: l.Level + 1,
		Lx1:   l.Lx1<<1 + int64(o1),
		Lx2:   l.Lx2<<1 + int64(o2),
		Lx3:   l.Lx3<<1 + int64(o3),
	}
}

// Contains reports whether other is a descendant of l (or equal to l):
// other.level >= l.level and, after shifting out the extra bits, every
// axis coordinate of other matches l's.
func (l LogicalLocation) Contains(other LogicalLocation) bool {
	if other.Level < l.Level {
		return false
	}
	shift := other.Level - l.Level
	return other.Lx1>>shift == l.Lx1 &&
		other.Lx2>>shift == l.Lx2 &&
		other.Lx3>>shift == l.Lx3
}

// Equal reports identity: same level and same coordinates on every axis.
func (l LogicalLocation) Equal(other LogicalLocation) bool {
	return l.Level == other.Level && l.Lx1 == other.Lx1 && l.Lx2 == other.Lx2 && l.Lx3 == other.Lx3
}

// Morton interleaves the low `Level` bits of Lx1, Lx2, Lx3 (in that
// axis order, Lx1 occupying bit 0 of each triple) to produce a total
// order and a hashable key. Locations at different levels are NOT
// comparable by Morton number alone — compare Level first.
func (l LogicalLocation) Morton() uint64 {
	var m uint64
	for b := uint32(0); b < l.Level; b++ {
		bit1 := uint64(l.Lx1>>b) & 1
		bit2 := uint64(l.Lx2>>b) & 1
		bit3 := uint64(l.Lx3>>b) & 1
		m |= bit1 << (3 * b)
		m |= bit2 << (3*b + 1)
		m |= bit3 << (3*b + 2)
	}
	return m
}

// axisCoord returns the coordinate on the given axis.
func (l LogicalLocation) axisCoord(a Axis) int64 {
	switch a {
	case Axis1:
		return l.Lx1
	case Axis2:
		return l.Lx2
	case Axis3:
		return l.Lx3
	default:
		panic(fmt.Sprintf("topology: unknown axis %d", a))
	}
}

func (l LogicalLocation) withAxis(a Axis, v int64) LogicalLocation {
	switch a {
	case Axis1:
		l.Lx1 = v
	case Axis2:
		l.Lx2 = v
	case Axis3:
		l.Lx3 = v
	default:
		panic(fmt.Sprintf("topology: unknown axis %d", a))
	}
	return l
}

// SameLevelNeighbor returns the same-level location offset by sign
// (+1/-1) along axis, and whether that neighbor still lies within this
// face's tree (0 <= coord < 2^level). When it returns false, the caller
// must hand the query off to the forest-level neighbor search (the
// query crossed this face's edge) per spec §4.C.
func (l LogicalLocation) SameLevelNeighbor(axis Axis, sign int) (LogicalLocation, bool) {
	if sign != 1 && sign != -1 {
		panic(fmt.Sprintf("topology: sign must be +1 or -1, got %d", sign))
	}
	coord := l.axisCoord(axis) + int64(sign)
	limit := int64(1) << l.Level
	if coord < 0 || coord >= limit {
		return LogicalLocation{}, false
	}
	return l.withAxis(axis, coord), true
}

func (l LogicalLocation) String() string {
	return fmt.Sprintf("L%d(%d,%d,%d)", l.Level, l.Lx1, l.Lx2, l.Lx3)
}
