package exchange

import (
	"github.com/sarchlab/ghostmesh/ghostlog"
	"github.com/sarchlab/ghostmesh/mesh"
)

// AllocationThreshold is the default value spec §4.H's tag-byte decision
// is made against: a packed value strictly above this counts as "real"
// data and triggers P1 (allocate the receiver); at or below it is
// treated as zero (spec §7: "not an error; policy choice").
const AllocationThreshold = 1e-6

// IsNonZero reports whether v counts as meaningful content under
// threshold, per spec §7's transient sparse zero/non-zero contract.
func IsNonZero(v, threshold float64) bool {
	if v < 0 {
		v = -v
	}
	return v > threshold
}

// ResetNonZeroTracking clears every sparse variable's sawNonZero
// accumulator across all of md's blocks, called once at the start of an
// exchange cycle so SweepDeallocate's later read reflects only this
// cycle's activity.
func ResetNonZeroTracking(md *mesh.MeshData) {
	for _, block := range md.Blocks() {
		for _, v := range block.Vars {
			if v.Flags.Has(mesh.Sparse) {
				v.ResetNonZeroTracking()
			}
		}
	}
}

// SweepDeallocate implements spec §4.H's "separate, later sweep": a
// sparse variable deallocates only if it is currently allocated and
// observed no nonzero value — interior or ghost — across the full
// SendBoundaryBuffers/ReceiveBoundaryBuffers/SetBoundaries cycle just
// completed (SPEC_FULL.md §9's resolution of the stated Open Question):
// no nonzero write through Set since ResetNonZeroTracking, and every
// interior cell at or below AllocationThreshold when the sweep runs.
// Returns the names of every variable it deallocated, for
// logging/introspection.
func SweepDeallocate(md *mesh.MeshData) []string {
	var deallocated []string

	for _, block := range md.Blocks() {
		for _, v := range block.Vars {
			if !v.Flags.Has(mesh.Sparse) || !v.Allocated() {
				continue
			}
			if v.SawNonZero() {
				continue
			}
			cb := block.CellBounds
			interiorNonZero := false
			for vi := 0; vi < v.Nv; vi++ {
				for k := cb[2].S; k <= cb[2].E; k++ {
					for j := cb[1].S; j <= cb[1].E; j++ {
						for i := cb[0].S; i <= cb[0].E; i++ {
							interiorNonZero = interiorNonZero || IsNonZero(v.At(vi, k, j, i), AllocationThreshold)
						}
					}
				}
			}
			if interiorNonZero {
				continue
			}

			label := v.Name
			v.Deallocate()
			ghostlog.Trace("sparse deallocate", "block", block.GID, "var", label)
			deallocated = append(deallocated, label)
		}
	}

	return deallocated
}
