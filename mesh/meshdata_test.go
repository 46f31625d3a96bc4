package mesh

import (
	"testing"

	"github.com/sarchlab/ghostmesh/index"
	"github.com/sarchlab/ghostmesh/topology"
)

func TestMeshDataAddAndLookup(t *testing.T) {
	fr := singleFaceForest(t)
	md := NewMeshData(fr, 0)

	b1 := NewBlock(topology.NewRoot().Child(0, 0, 0), 0, 1, 0, [3]index.Range{}, 2, 1)
	b2 := NewBlock(topology.NewRoot().Child(1, 0, 0), 0, 2, 0, [3]index.Range{}, 2, 1)
	md.AddBlock(b1)
	md.AddBlock(b2)

	if md.Len() != 2 {
		t.Fatalf("expected 2 blocks, got %d", md.Len())
	}
	if got, ok := md.Block(1); !ok || got != b1 {
		t.Fatalf("lookup of GID 1 failed: %v %v", got, ok)
	}

	blocks := md.Blocks()
	if len(blocks) != 2 || blocks[0].GID != 1 || blocks[1].GID != 2 {
		t.Fatalf("expected sorted [1,2], got %+v", blocks)
	}
}

func TestMeshDataDuplicateGIDPanics(t *testing.T) {
	fr := singleFaceForest(t)
	md := NewMeshData(fr, 0)
	md.AddBlock(NewBlock(topology.NewRoot(), 0, 1, 0, [3]index.Range{}, 2, 1))

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on duplicate GID")
		}
	}()
	md.AddBlock(NewBlock(topology.NewRoot().Child(0, 0, 0), 0, 1, 0, [3]index.Range{}, 2, 1))
}

func TestMeshDataLocalNeighbors(t *testing.T) {
	fr := singleFaceForest(t)
	tree := fr.FaceTree(0)
	for o1 := 0; o1 <= 1; o1++ {
		for o2 := 0; o2 <= 1; o2++ {
			for o3 := 0; o3 <= 1; o3++ {
				loc := topology.NewRoot().Child(o1, o2, o3)
				gid := uint32(o1*4 + o2*2 + o3 + 1)
				tree.Insert(loc, topology.TreeEntry{GID: gid, OwnerRank: 0})
			}
		}
	}

	md := NewMeshData(fr, 0)
	b1 := NewBlock(topology.NewRoot().Child(0, 0, 0), 0, 1, 0, [3]index.Range{}, 2, 1)
	b3 := NewBlock(topology.NewRoot().Child(0, 1, 0), 0, 3, 0, [3]index.Range{}, 2, 1)
	md.AddBlock(b1)
	md.AddBlock(b3)
	md.RefreshAllNeighbors()

	local := md.LocalNeighbors(b1)
	found := false
	for _, n := range local {
		if n.GID == 3 {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected block 1's local neighbors to include block 3, got %+v", local)
	}
}
