package topology

import "testing"

func TestParentChildRoundTrip(t *testing.T) {
	cases := []struct {
		o1, o2, o3 int
	}{
		{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1}, {1, 1, 1},
	}

	root := NewRoot()
	for _, c := range cases {
		child := root.Child(c.o1, c.o2, c.o3)
		if child.Level != 1 {
			t.Fatalf("child level = %d, want 1", child.Level)
		}
		if got := child.Parent(); !got.Equal(root) {
			t.Fatalf("child(%v).Parent() = %v, want %v", c, got, root)
		}
	}
}

func TestContains(t *testing.T) {
	root := NewRoot()
	child := root.Child(1, 0, 1)
	grandchild := child.Child(0, 1, 1)

	if !root.Contains(child) {
		t.Error("root should contain its child")
	}
	if !root.Contains(grandchild) {
		t.Error("root should contain its grandchild")
	}
	if !child.Contains(grandchild) {
		t.Error("child should contain its grandchild")
	}
	if child.Contains(root) {
		t.Error("child should not contain its parent")
	}

	other := root.Child(0, 0, 0)
	if other.Contains(grandchild) {
		t.Error("unrelated sibling subtree should not contain grandchild")
	}
}

func TestMortonOrdering(t *testing.T) {
	root := NewRoot()
	seen := map[uint64]LogicalLocation{}
	for o1 := 0; o1 <= 1; o1++ {
		for o2 := 0; o2 <= 1; o2++ {
			for o3 := 0; o3 <= 1; o3++ {
				loc := root.Child(o1, o2, o3)
				m := loc.Morton()
				if prev, ok := seen[m]; ok {
					t.Fatalf("Morton collision between %v and %v", prev, loc)
				}
				seen[m] = loc
			}
		}
	}
	if len(seen) != 8 {
		t.Fatalf("expected 8 distinct Morton keys, got %d", len(seen))
	}
}

func TestSameLevelNeighborBoundary(t *testing.T) {
	loc := LogicalLocation{Level: 2, Lx1: 0, Lx2: 1, Lx3: 0}

	if _, ok := loc.SameLevelNeighbor(Axis1, -1); ok {
		t.Error("expected neighbor at lx1=-1 to be out of this face's tree")
	}

	got, ok := loc.SameLevelNeighbor(Axis1, 1)
	if !ok {
		t.Fatal("expected in-tree neighbor at lx1=1")
	}
	want := LogicalLocation{Level: 2, Lx1: 1, Lx2: 1, Lx3: 0}
	if !got.Equal(want) {
		t.Fatalf("neighbor = %v, want %v", got, want)
	}
}

func TestParentPanicsAtRoot(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected Parent() on root to panic")
		}
	}()
	NewRoot().Parent()
}
