package topology

import "testing"

func TestRefinementTreeValidCover(t *testing.T) {
	tr := NewRefinementTree()
	root := NewRoot()
	tr.Insert(root, TreeEntry{GID: 0})
	if err := tr.Validate(0); err != nil {
		t.Fatalf("single-root tree should validate: %v", err)
	}

	tr2 := NewRefinementTree()
	for o1 := 0; o1 <= 1; o1++ {
		for o2 := 0; o2 <= 1; o2++ {
			for o3 := 0; o3 <= 1; o3++ {
				tr2.Insert(root.Child(o1, o2, o3), TreeEntry{GID: uint32(o1*4 + o2*2 + o3)})
			}
		}
	}
	if err := tr2.Validate(0); err != nil {
		t.Fatalf("fully-refined tree should validate: %v", err)
	}
}

func TestRefinementTreeAncestorOverlapIsInvalid(t *testing.T) {
	tr := NewRefinementTree()
	root := NewRoot()
	child := root.Child(0, 0, 0)

	tr.Insert(root, TreeEntry{GID: 0})
	tr.Insert(child, TreeEntry{GID: 1})

	err := tr.Validate(0)
	if err == nil {
		t.Fatal("expected ancestor/descendant overlap to be rejected")
	}
	if _, ok := err.(*TopologyError); !ok {
		t.Fatalf("expected *TopologyError, got %T", err)
	}
}

func TestRefinementTreePartialSiblingsIsInvalid(t *testing.T) {
	tr := NewRefinementTree()
	root := NewRoot()
	tr.Insert(root.Child(0, 0, 0), TreeEntry{GID: 0})
	tr.Insert(root.Child(1, 0, 0), TreeEntry{GID: 1})
	// Only 2 of 8 siblings present.

	if err := tr.Validate(0); err == nil {
		t.Fatal("expected partial sibling set to be rejected")
	}
}
