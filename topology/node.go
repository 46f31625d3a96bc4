package topology

import (
	"sort"
	"sync"
)

// NodeID is the stable identifier of a forest vertex.
type NodeID uint32

// FaceID is the stable identifier of a forest face, used as the arena
// index into Forest.Faces (see forest.go's design note on avoiding a
// Node<->Face cyclic ownership: Face owns its Node handles, Node holds a
// non-owning, sorted list of the FaceIDs that touch it).
type FaceID uint32

// Node is a forest vertex: a stable id plus a physical coordinate. A Node
// does not own the faces that reference it; it only indexes them, so
// that "which faces share this vertex" can be answered in
// Forest.FindEdgeNeighbors without a face needing to walk the whole
// forest. Faces are added via registerFace, which is only ever called
// from NewFace during forest construction.
type Node struct {
	ID    NodeID
	Coord [3]float64

	mu    sync.Mutex
	faces []FaceID
}

// NewNode creates a node with the given physical coordinate. Nodes are
// created during forest build and live for the lifetime of the forest.
func NewNode(id NodeID, coord [3]float64) *Node {
	return &Node{ID: id, Coord: coord}
}

// registerFace records that face touches this node, keeping the list
// sorted and free of duplicates — the same discipline bart's childTree
// uses for its popcount-compressed node slices, applied here to a small
// slice kept sorted by binary-search insertion since a node typically
// touches a handful of faces, not hundreds.
func (n *Node) registerFace(f FaceID) {
	n.mu.Lock()
	defer n.mu.Unlock()

	i := sort.Search(len(n.faces), func(i int) bool { return n.faces[i] >= f })
	if i < len(n.faces) && n.faces[i] == f {
		return
	}
	n.faces = append(n.faces, 0)
	copy(n.faces[i+1:], n.faces[i:])
	n.faces[i] = f
}

// Faces returns the sorted, de-duplicated set of faces touching this
// node. The returned slice is owned by the caller (a defensive copy).
func (n *Node) Faces() []FaceID {
	n.mu.Lock()
	defer n.mu.Unlock()

	out := make([]FaceID, len(n.faces))
	copy(out, n.faces)
	return out
}
