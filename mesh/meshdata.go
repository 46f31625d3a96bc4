package mesh

import (
	"fmt"
	"sort"

	"github.com/sarchlab/ghostmesh/topology"
)

// MeshData is the local process's view of the distributed mesh: every
// block it owns, indexed by GID, plus a handle on the forest those
// blocks' locations are resolved against. It plays the role
// config/config.go's Device plays for tiles: a single place that owns
// the collection and exposes lookup/iteration, rather than scattering
// block storage across the caller.
type MeshData struct {
	Forest *topology.Forest
	Rank   int

	blocks map[uint32]*Block
}

// NewMeshData returns an empty mesh for the given rank, resolved
// against forest.
func NewMeshData(forest *topology.Forest, rank int) *MeshData {
	return &MeshData{
		Forest: forest,
		Rank:   rank,
		blocks: make(map[uint32]*Block),
	}
}

// AddBlock registers a block under its GID. Panics on a duplicate GID —
// GIDs are assigned by the caller (typically a config/checkpoint loader)
// and must be unique process-wide.
func (m *MeshData) AddBlock(b *Block) {
	if _, ok := m.blocks[b.GID]; ok {
		panic(fmt.Sprintf("mesh: duplicate block GID %d", b.GID))
	}
	m.blocks[b.GID] = b
}

// Block looks up a block by GID.
func (m *MeshData) Block(gid uint32) (*Block, bool) {
	b, ok := m.blocks[gid]
	return b, ok
}

// Len returns the number of locally owned blocks.
func (m *MeshData) Len() int {
	return len(m.blocks)
}

// Blocks returns all locally owned blocks sorted by GID, giving every
// caller that walks the mesh (exchange engine, debug server, checkpoint
// writer) the same deterministic order.
func (m *MeshData) Blocks() []*Block {
	out := make([]*Block, 0, len(m.blocks))
	for _, b := range m.blocks {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GID < out[j].GID })
	return out
}

// RefreshAllNeighbors recomputes Neighbors on every locally owned block
// against the current forest — called once after a regrid changes any
// face's refinement tree.
func (m *MeshData) RefreshAllNeighbors() {
	for _, b := range m.Blocks() {
		b.RefreshNeighbors(m.Forest)
	}
}

// LocalNeighbors returns, for a given block, the subset of its
// neighbors this MeshData itself owns (as opposed to neighbors that
// live on a remote rank and must be reached through the exchange
// engine's cross-rank connection).
func (m *MeshData) LocalNeighbors(b *Block) []*Block {
	var out []*Block
	for _, n := range b.Neighbors {
		if nb, ok := m.blocks[n.OwnerGID]; ok {
			out = append(out, nb)
		}
	}
	return out
}
