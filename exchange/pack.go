package exchange

import (
	"github.com/sarchlab/ghostmesh/index"
	"github.com/sarchlab/ghostmesh/mesh"
)

// tagNonZero/tagZero are the two values the trailing tag float of a
// Buffer can carry (spec §4.G/§4.H): whether any packed cell exceeded
// AllocationThreshold ("sending_nonzero"). An unallocated source packs
// all zeros (Variable.At returns 0 for those), so it always tags Zero;
// an allocated source packed entirely of zeros also tags Zero — the tag
// tracks content, not the source's allocation flag. P1-P3 (postOne and
// ReceiveBoundaryBuffers in engine.go, UnpackBuffer in unpack.go) decide
// what the receiver does with each combination.
const (
	tagZero    = 0.0
	tagNonZero = 1.0
)

func axisOx(nb mesh.NeighborBlock, axis index.AxisIndex) int8 {
	switch axis {
	case index.Axis1:
		return nb.Ox1
	case index.Axis2:
		return nb.Ox2
	default:
		return nb.Ox3
	}
}

// windowsForSend computes, per axis, the source cell-index window this
// block must read in order to supply nb with ghost data — LoadSame for
// same-level and coarser-bound neighbors (this block's own edge, same
// either way since the receiver's SetSame/SetFromCoarser is what
// differs), LoadToFiner for a finer neighbor (this block supplies only
// the half the finer neighbor occupies).
func windowsForSend(block *mesh.Block, nb mesh.NeighborBlock) [3]index.Range {
	off := index.Offsets{Ox1: nb.Ox1, Ox2: nb.Ox2, Ox3: nb.Ox3}

	var out [3]index.Range
	axes := [3]index.AxisIndex{index.Axis1, index.Axis2, index.Axis3}
	for i, axis := range axes {
		bounds := block.CellBounds[i]
		switch {
		case nb.IsFiner(block.Loc.Level):
			out[i] = index.LoadToFiner(axis, off, nb.Fi1, nb.Fi2, bounds, block.CoarseGhost-1)
		default: // same-level or coarser neighbor: load this block's own edge
			out[i] = index.LoadSame(axisOx(nb, axis), bounds, block.Ghost)
		}
	}
	return out
}

// PackBuffer fills (creating if absent) row.Var's send buffer for
// row.Neighbor.BufID from row.Block's interior, per spec §4.G/§6: a
// flat i-fastest,j,k,v payload followed by one tag float recording
// whether any packed cell exceeded AllocationThreshold.
func PackBuffer(row BoundaryInfo) []float64 {
	block, v, nb := row.Block, row.Var, row.Neighbor
	windows := windowsForSend(block, nb)
	size := v.Nv * windows[0].Len() * windows[1].Len() * windows[2].Len()
	buf := v.SendBuffer(nb.BufID, size)

	ni, nj, nk := windows[0].Len(), windows[1].Len(), windows[2].Len()
	sendingNonZero := false
	for vi := 0; vi < v.Nv; vi++ {
		for k := windows[2].S; k <= windows[2].E; k++ {
			kk := k - windows[2].S
			for j := windows[1].S; j <= windows[1].E; j++ {
				jj := j - windows[1].S
				for i := windows[0].S; i <= windows[0].E; i++ {
					ii := i - windows[0].S
					idx := ii + ni*(jj+nj*(kk+nk*vi))
					val := v.At(vi, k, j, i)
					buf[idx] = val
					if IsNonZero(val, AllocationThreshold) {
						sendingNonZero = true
					}
				}
			}
		}
	}

	if sendingNonZero {
		buf[len(buf)-1] = tagNonZero
	} else {
		buf[len(buf)-1] = tagZero
	}
	return buf
}
