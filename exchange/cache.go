package exchange

import (
	"sort"

	"github.com/bits-and-blooms/bitset"
	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/ghostmesh/mesh"
)

// BoundaryInfo is one row of a BufferCache: a single (block, variable,
// neighbor) triple that the exchange engine must pack/send, or
// receive/unpack, on one pass (spec §3's cache-row struct).
type BoundaryInfo struct {
	Block    *mesh.Block
	Var      *mesh.Variable
	VarSlot  int // index of Var within Block.Vars, used by Tag()
	Neighbor mesh.NeighborBlock
}

// BufferCache is the flattened, order-stable work list the send and set
// phases both iterate: built once per exchange round in the fixed
// nested order block(GID asc) -> variable(FillGhost vars, declaration
// order) -> neighbor(BufID asc), per spec §4.F. AllocStatus records
// each row's variable's allocation state at build time, using a bitset
// the same way topology.RefinementTree tracks per-level occupancy,
// rather than a hand-rolled []bool.
type BufferCache struct {
	sim.HookableBase

	Rows        []BoundaryInfo
	AllocStatus *bitset.BitSet

	// SendStatus/RecvStatus track the per-row state machine of spec
	// §4.G: Uninitialized->Pending->Filled->Completed for sends,
	// Uninitialized->Arrived->Completed for receives (receive rows are
	// never set to Pending). Parallel to Rows so row
	// index is shared across all three slices.
	SendStatus []Status
	RecvStatus []Status
}

// Status is one state of the per-row send or receive state machine
// (spec §4.G).
type Status int

const (
	StatusUninitialized Status = iota
	StatusPending
	StatusFilled
	StatusArrived
	StatusCompleted
)

// BuildCache walks every locally owned block's FillGhost variables and
// their neighbor list, in the canonical order, producing a fresh
// BufferCache. Called once per exchange round — rebuilding from scratch
// is cheap relative to the exchange itself and sidesteps any staleness
// after a regrid.
func BuildCache(md *mesh.MeshData) *BufferCache {
	cache := &BufferCache{AllocStatus: bitset.New(0)}

	for _, block := range md.Blocks() {
		for slot, v := range block.Vars {
			if !v.Flags.Has(mesh.FillGhost) {
				continue
			}
			neighbors := append([]mesh.NeighborBlock(nil), block.Neighbors...)
			sort.Slice(neighbors, func(i, j int) bool { return neighbors[i].BufID < neighbors[j].BufID })

			for _, nb := range neighbors {
				idx := uint(len(cache.Rows))
				cache.Rows = append(cache.Rows, BoundaryInfo{
					Block: block, Var: v, VarSlot: slot, Neighbor: nb,
				})
				cache.AllocStatus.SetTo(idx, v.Allocated())
				cache.SendStatus = append(cache.SendStatus, StatusUninitialized)
				cache.RecvStatus = append(cache.RecvStatus, StatusUninitialized)
			}
		}
	}

	cache.InvokeHook(sim.HookCtx{Domain: cache, Pos: HookPosCacheRebuilt, Item: cache})
	return cache
}

// Stale reports whether md's current per-variable allocation bits differ
// from the bits recorded when c was built, per spec §4.F's invalidation
// rule.
func (c *BufferCache) Stale(md *mesh.MeshData) bool {
	fresh := BuildCache(md)
	if fresh.AllocStatus.Len() != c.AllocStatus.Len() {
		return true
	}
	return !fresh.AllocStatus.Equal(c.AllocStatus)
}

// EnsureCache returns cached unchanged if it is still fresh against md's
// current allocation bits, or a freshly built replacement otherwise
// (spec §4.F: "invalidated and rebuilt whenever the vector of allocated?
// bits differs from the one recorded at cache build").
func EnsureCache(md *mesh.MeshData, cached *BufferCache) *BufferCache {
	if cached == nil || cached.Stale(md) {
		return BuildCache(md)
	}
	return cached
}

// Verify re-checks every row's recorded AllocStatus bit against the
// variable's current allocation state, panicking with
// *AllocationMismatchError on the first disagreement (spec §7). The
// send, receive and set phases do not call it; a caller that wants the
// check runs Verify itself.
func (c *BufferCache) Verify() {
	for i, row := range c.Rows {
		want := c.AllocStatus.Test(uint(i))
		got := row.Var.Allocated()
		if want != got {
			panic(&AllocationMismatchError{
				BlockGID: row.Block.GID, VarName: row.Var.Name,
				Expected: want, Actual: got,
			})
		}
	}
}

// CacheIterator is the single canonical way every phase (send, receive,
// set, debug dumps) walks a BufferCache — spec §9's Open
// Question resolution: one iterator type, not a different ad hoc loop
// per phase.
type CacheIterator struct {
	cache *BufferCache
	pos   int
}

// NewCacheIterator returns an iterator positioned before the first row.
func NewCacheIterator(c *BufferCache) *CacheIterator {
	return &CacheIterator{cache: c}
}

// Next advances to and returns the next row along with its index into
// the owning cache's Rows/SendStatus/RecvStatus slices (callers that
// mutate per-row state machines key off this index), or ok=false once
// exhausted.
func (it *CacheIterator) Next() (row BoundaryInfo, index int, ok bool) {
	if it.pos >= len(it.cache.Rows) {
		return BoundaryInfo{}, 0, false
	}
	index = it.pos
	row = it.cache.Rows[index]
	it.pos++
	return row, index, true
}

// Reset rewinds the iterator to the beginning, letting a second phase
// (e.g. ReceiveBoundaryBuffers after SendBoundaryBuffers) reuse the same
// built cache instead of rebuilding it.
func (it *CacheIterator) Reset() {
	it.pos = 0
}
