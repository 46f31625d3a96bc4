// Package index computes the source/destination cell-index windows used
// to load and set ghost zones across same-level, coarser, and finer
// neighbors (spec §4.E). Every routine here is a pure function of its
// inputs so sender and receiver can compute matching windows
// independently, which is the symmetry property spec §8 invariant 1
// tests for.
package index

import "fmt"

// Range is an inclusive cell-index interval [S, E] along one axis.
type Range struct {
	S, E int
}

// Len returns the number of cells covered by the range.
func (r Range) Len() int {
	return r.E - r.S + 1
}

// IndexError reports a computed window that falls outside its bounds —
// spec §7 requires this be fatal, never silently clipped.
type IndexError struct {
	Reason string
}

func (e *IndexError) Error() string { return "index: " + e.Reason }

func mustNonEmpty(r Range, label string) {
	if r.E < r.S {
		panic(&IndexError{Reason: fmt.Sprintf("%s produced empty range %+v", label, r)})
	}
}

// LoadSame computes the source window on the sending side for a
// same-level neighbor offset by ox along this axis (spec §4.E
// load_same): ox=0 reads the whole bounds; ox>0 reads the last g cells
// (the sender's own edge, about to be seen by the neighbor sitting to
// its positive side); ox<0 reads the first g cells.
func LoadSame(ox int8, bounds Range, g int) Range {
	var r Range
	switch {
	case ox == 0:
		r = bounds
	case ox > 0:
		r = Range{S: bounds.E - g + 1, E: bounds.E}
	default:
		r = Range{S: bounds.S, E: bounds.S + g - 1}
	}
	mustNonEmpty(r, "LoadSame")
	return r
}

// SetSame computes the destination ghost window on the receiving side
// for a same-level neighbor (spec §4.E set_same): symmetric across the
// boundary from LoadSame — ox>0 writes the g cells just past the
// interior's positive edge, ox<0 writes the g cells just before its
// negative edge, ox=0 writes the whole bounds (the axis carries no
// offset, so its window is the full interior span).
func SetSame(ox int8, bounds Range, g int) Range {
	var r Range
	switch {
	case ox == 0:
		r = bounds
	case ox > 0:
		r = Range{S: bounds.E + 1, E: bounds.E + g}
	default:
		r = Range{S: bounds.S - g, E: bounds.S - 1}
	}
	mustNonEmpty(r, "SetSame")
	return r
}

// SetFromCoarser computes the destination window when the neighbor
// supplying this axis's ghost data is one level coarser (spec §4.E
// set_from_coarser). When ox=0 on this axis and includeDim is set (this
// axis actually participates in the coarse-to-fine offset, i.e. the
// block's logical index lxParity along this axis determines which half
// of the parent it occupies), the fine block's own window is extended
// by cg on the side matching its parity instead of being taken from
// SetSame: even lx extends the window's end, odd lx extends its start.
// Otherwise this axis behaves exactly like SetSame but with ghost width
// cg instead of g.
func SetFromCoarser(ox int8, bounds Range, lxParity int, cg int, includeDim bool) Range {
	if ox == 0 && includeDim {
		r := bounds
		if lxParity&1 == 0 {
			r.E += cg
		} else {
			r.S -= cg
		}
		mustNonEmpty(r, "SetFromCoarser")
		return r
	}
	return SetSame(ox, bounds, cg)
}

// Offsets is the full (ox1,ox2,ox3) triple of a neighbor descriptor,
// used to decide axis priority in SetFromFiner/LoadToFiner (spec §4.E:
// "if any higher-priority axis has ox≠0, fi1 selects along this axis;
// else fi2 does for the next lower axis"). Priority order is Axis1,
// then Axis2, then Axis3.
type Offsets struct {
	Ox1, Ox2, Ox3 int8
}

// AxisIndex names which of Offsets' three fields a routine is computing
// the window for.
type AxisIndex int

const (
	Axis1 AxisIndex = iota
	Axis2
	Axis3
)

func (o Offsets) at(a AxisIndex) int8 {
	switch a {
	case Axis1:
		return o.Ox1
	case Axis2:
		return o.Ox2
	default:
		return o.Ox3
	}
}

// higherPriorityNonzero reports whether any axis with strictly higher
// priority than axis (i.e. earlier in Axis1,Axis2,Axis3 order) has a
// nonzero offset.
func higherPriorityNonzero(o Offsets, axis AxisIndex) bool {
	for a := AxisIndex(0); a < axis; a++ {
		if o.at(a) != 0 {
			return true
		}
	}
	return false
}

// selector picks which of fi1/fi2 governs this axis, per the rule above.
func selector(o Offsets, axis AxisIndex, fi1, fi2 uint8) uint8 {
	if higherPriorityNonzero(o, axis) {
		return fi1
	}
	return fi2
}

// halfInterval splits bounds into two equal halves and returns the one
// selected by fi (0 = lower half, 1 = upper half). bounds must have even
// length — a finer neighbor by construction only ever owns half of a
// coarser axis span.
func halfInterval(bounds Range, fi uint8) Range {
	n := bounds.Len()
	if n%2 != 0 {
		panic(&IndexError{Reason: fmt.Sprintf("halfInterval: odd-length bounds %+v cannot be split", bounds)})
	}
	mid := bounds.S + n/2
	if fi == 0 {
		return Range{S: bounds.S, E: mid - 1}
	}
	return Range{S: mid, E: bounds.E}
}

// SetFromFiner computes the destination window, on this axis, for a
// finer neighbor (spec §4.E set_from_finer). For an axis where the
// neighbor descriptor's offset is nonzero, this behaves exactly like
// SetSame (the fine neighbor sits entirely to one side, same as a
// same-level one). For an axis where the offset is zero, the finer
// neighbor only covers one half of this block's span along that axis;
// selector() picks fi1 or fi2 to decide which half, per the axis
// priority rule.
func SetFromFiner(axis AxisIndex, off Offsets, fi1, fi2 uint8, bounds Range, g int) Range {
	ox := off.at(axis)
	if ox != 0 {
		return SetSame(ox, bounds, g)
	}
	fi := selector(off, axis, fi1, fi2)
	r := halfInterval(bounds, fi)
	mustNonEmpty(r, "SetFromFiner")
	return r
}

// LoadToFiner computes the source window, on this axis, that the
// coarser sender must read in order to supply a finer neighbor — the
// mirror of SetFromFiner on the source side, using the coarse ghost
// width (cnghost-1, passed in as width) instead of the fine ghost width
// g for axes with a nonzero offset.
func LoadToFiner(axis AxisIndex, off Offsets, fi1, fi2 uint8, bounds Range, width int) Range {
	ox := off.at(axis)
	if ox != 0 {
		return LoadSame(ox, bounds, width)
	}
	fi := selector(off, axis, fi1, fi2)
	r := halfInterval(bounds, fi)
	mustNonEmpty(r, "LoadToFiner")
	return r
}
