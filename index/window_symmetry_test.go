package index

import "testing"

// TestLoadSameSetSameSymmetric checks spec §8 invariant 1: for any
// same-level neighbor offset, the sender's LoadSame window and a SetSame
// window computed for the same ox value cover the same number of cells.
// Both lengths depend only on whether ox is zero, so this also holds for
// the receiver, which sees the opposite-signed offset — a packed buffer
// always fits exactly into the ghost zone it's unpacked into.
func TestLoadSameSetSameSymmetric(t *testing.T) {
	bounds := Range{S: 4, E: 11}
	const ghost = 3

	for _, ox := range []int8{-1, 0, 1} {
		load := LoadSame(ox, bounds, ghost)
		set := SetSame(ox, bounds, ghost)
		if load.Len() != set.Len() {
			t.Fatalf("ox=%d: LoadSame len %d != SetSame len %d", ox, load.Len(), set.Len())
		}
	}
}

func TestLoadSameBoundaryPositions(t *testing.T) {
	bounds := Range{S: 4, E: 11}
	const ghost = 3

	cases := []struct {
		ox   int8
		want Range
	}{
		{ox: 0, want: bounds},
		{ox: 1, want: Range{S: 9, E: 11}},
		{ox: -1, want: Range{S: 4, E: 6}},
	}
	for _, c := range cases {
		got := LoadSame(c.ox, bounds, ghost)
		if got != c.want {
			t.Errorf("LoadSame(%d, %+v, %d) = %+v, want %+v", c.ox, bounds, ghost, got, c.want)
		}
	}
}

func TestSetSameBoundaryPositions(t *testing.T) {
	bounds := Range{S: 4, E: 11}
	const ghost = 3

	cases := []struct {
		ox   int8
		want Range
	}{
		{ox: 0, want: bounds},
		{ox: 1, want: Range{S: 12, E: 14}},
		{ox: -1, want: Range{S: 1, E: 3}},
	}
	for _, c := range cases {
		got := SetSame(c.ox, bounds, ghost)
		if got != c.want {
			t.Errorf("SetSame(%d, %+v, %d) = %+v, want %+v", c.ox, bounds, ghost, got, c.want)
		}
	}
}

// TestSetFromFinerLoadToFinerSymmetric checks that, for a finer
// neighbor, the receiver's SetFromFiner window and the coarser sender's
// LoadToFiner window agree in length on every axis — the half-interval
// split picked by fi1/fi2 must be the same size both ways.
func TestSetFromFinerLoadToFinerSymmetric(t *testing.T) {
	bounds := Range{S: 0, E: 7} // even length, splittable
	off := Offsets{Ox1: 0, Ox2: 0, Ox3: 0}

	for _, fi1 := range []uint8{0, 1} {
		set := SetFromFiner(Axis1, off, fi1, 0, bounds, 2)
		load := LoadToFiner(Axis1, off, fi1, 0, bounds, 2)
		if set.Len() != load.Len() {
			t.Fatalf("fi1=%d: SetFromFiner len %d != LoadToFiner len %d", fi1, set.Len(), load.Len())
		}
		if set.Len() != bounds.Len()/2 {
			t.Fatalf("fi1=%d: half-interval length %d, want %d", fi1, set.Len(), bounds.Len()/2)
		}
	}
}

// TestAxisPrioritySelector checks spec §4.E's axis priority rule: when
// Axis1 carries a non-zero offset, Axis2's half is selected by fi1, and
// when no axis carries an offset, Axis1 (which has no higher-priority
// axis) is selected by fi2.
func TestAxisPrioritySelector(t *testing.T) {
	bounds := Range{S: 0, E: 7}

	// Axis1 carries a non-zero offset, so when computing Axis2's window,
	// higherPriorityNonzero(Axis2) is true and fi1 governs the split.
	offAxis1 := Offsets{Ox1: 1, Ox2: 0, Ox3: 0}
	loHalf := SetFromFiner(Axis2, offAxis1, 0, 0, bounds, 2)
	hiHalf := SetFromFiner(Axis2, offAxis1, 1, 0, bounds, 2)
	if loHalf == hiHalf {
		t.Fatalf("fi1 should select different halves of Axis2 when Axis1 carries the offset")
	}

	// No axis carries an offset: Axis1 has no strictly-higher-priority
	// axis at all, so higherPriorityNonzero is vacuously false and it is
	// selected by fi2, not fi1 — fi1 only governs an axis once some
	// earlier axis's offset is itself non-zero.
	offNone := Offsets{}
	a1Lo := SetFromFiner(Axis1, offNone, 1, 0, bounds, 2)
	a1Hi := SetFromFiner(Axis1, offNone, 1, 1, bounds, 2)
	if a1Lo == a1Hi {
		t.Fatalf("Axis1 should be selected by fi2, independent of fi1")
	}
}
