package exchange

import (
	"github.com/sarchlab/ghostmesh/index"
	"github.com/sarchlab/ghostmesh/mesh"
	"github.com/sarchlab/ghostmesh/topology"
)

// sideAxisOfNeighbor returns the one in-plane axis a neighbor descriptor
// carries a nonzero offset on — the axis the shared edge runs
// perpendicular to.
func sideAxisOfNeighbor(nb mesh.NeighborBlock) index.AxisIndex {
	switch {
	case nb.Ox1 != 0:
		return index.Axis1
	case nb.Ox2 != 0:
		return index.Axis2
	default:
		return index.Axis3
	}
}

// freeAxisOfNeighbor returns the other in-plane axis — the one a
// coarser/finer neighbor's fi bit discriminates along.
func freeAxisOfNeighbor(nb mesh.NeighborBlock) index.AxisIndex {
	if sideAxisOfNeighbor(nb) == index.Axis1 {
		return index.Axis2
	}
	return index.Axis1
}

func locAxisCoord(loc topology.LogicalLocation, axis index.AxisIndex) int64 {
	switch axis {
	case index.Axis1:
		return loc.Lx1
	case index.Axis2:
		return loc.Lx2
	default:
		return loc.Lx3
	}
}

// windowsForSet computes, per axis, the destination ghost-zone window
// this block must write when receiving from nb, mirroring
// windowsForSend on the other side of the same exchange.
func windowsForSet(block *mesh.Block, nb mesh.NeighborBlock) [3]index.Range {
	off := index.Offsets{Ox1: nb.Ox1, Ox2: nb.Ox2, Ox3: nb.Ox3}
	free := freeAxisOfNeighbor(nb)

	var out [3]index.Range
	axes := [3]index.AxisIndex{index.Axis1, index.Axis2, index.Axis3}
	for i, axis := range axes {
		bounds := block.CellBounds[i]
		switch {
		case nb.IsFiner(block.Loc.Level):
			out[i] = index.SetFromFiner(axis, off, nb.Fi1, nb.Fi2, bounds, block.Ghost)
		case nb.IsCoarser(block.Loc.Level):
			lxParity := int(locAxisCoord(block.Loc, axis) & 1)
			out[i] = index.SetFromCoarser(axisOx(nb, axis), bounds, lxParity, block.CoarseGhost, axis == free)
		default:
			out[i] = index.SetSame(axisOx(nb, axis), bounds, block.Ghost)
		}
	}
	return out
}

// UnpackBuffer writes an incoming, already-received buf into row.Var's
// ghost window for row.Neighbor, following P1-P3 of spec §4.H via the
// trailing tag float: tagZero means the sending window held nothing
// above AllocationThreshold, so P2/P3 apply — an unallocated destination
// stays unallocated, an allocated one gets its ghost zone zeroed;
// tagNonZero means the payload is real (P1), allocating the destination
// first if it was sparse and unallocated.
func UnpackBuffer(row BoundaryInfo, buf []float64) {
	block, v, nb := row.Block, row.Var, row.Neighbor
	windows := windowsForSet(block, nb)

	sendingNonZero := buf[len(buf)-1] == tagNonZero
	if sendingNonZero && !v.Allocated() {
		v.AllocateSparse("unpack")
	}
	if !sendingNonZero && !v.Allocated() {
		// Destination stays unallocated (P2); nothing meaningful to
		// write and no sense paying for storage just to hold zeros.
		return
	}

	ni, nj, nk := windows[0].Len(), windows[1].Len(), windows[2].Len()
	for vi := 0; vi < v.Nv; vi++ {
		for k := windows[2].S; k <= windows[2].E; k++ {
			kk := k - windows[2].S
			for j := windows[1].S; j <= windows[1].E; j++ {
				jj := j - windows[1].S
				for i := windows[0].S; i <= windows[0].E; i++ {
					ii := i - windows[0].S
					idx := ii + ni*(jj+nj*(kk+nk*vi))
					val := 0.0
					if sendingNonZero {
						val = buf[idx]
					}
					v.Set(vi, k, j, i, val)
				}
			}
		}
	}
}
