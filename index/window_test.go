package index

import "testing"

const g = 2

var bounds = Range{S: 0, E: 7} // an 8-cell interior, g=2 ghost

func TestLoadSame(t *testing.T) {
	cases := []struct {
		ox   int8
		want Range
	}{
		{0, Range{0, 7}},
		{1, Range{6, 7}},
		{-1, Range{0, 1}},
	}
	for _, c := range cases {
		if got := LoadSame(c.ox, bounds, g); got != c.want {
			t.Errorf("LoadSame(%d) = %+v, want %+v", c.ox, got, c.want)
		}
	}
}

func TestSetSame(t *testing.T) {
	cases := []struct {
		ox   int8
		want Range
	}{
		{0, Range{0, 7}},
		{1, Range{8, 9}},
		{-1, Range{-2, -1}},
	}
	for _, c := range cases {
		if got := SetSame(c.ox, bounds, g); got != c.want {
			t.Errorf("SetSame(%d) = %+v, want %+v", c.ox, got, c.want)
		}
	}
}

// TestWindowSymmetry covers spec §8 invariant 1: the load window on the
// sender equals the set window on the receiver under the (trivial,
// ox-negation) coordinate map for a same-level pair, and byte counts
// (range lengths) match.
func TestWindowSymmetry(t *testing.T) {
	senderBounds := Range{S: 0, E: 7}
	receiverBounds := Range{S: 0, E: 7}

	// Sender sits to the west of receiver: sender's +ox load feeds
	// receiver's -ox set.
	load := LoadSame(1, senderBounds, g)
	set := SetSame(-1, receiverBounds, g)

	if load.Len() != set.Len() {
		t.Fatalf("load len %d != set len %d", load.Len(), set.Len())
	}
	if load.Len() != g {
		t.Fatalf("expected load/set window of width g=%d, got %d", g, load.Len())
	}
}

func TestSetFromCoarserIncludeDim(t *testing.T) {
	cg := 1
	even := SetFromCoarser(0, bounds, 0, cg, true)
	if want := (Range{0, 8}); even != want {
		t.Errorf("even parity: got %+v, want %+v", even, want)
	}
	odd := SetFromCoarser(0, bounds, 1, cg, true)
	if want := (Range{-1, 7}); odd != want {
		t.Errorf("odd parity: got %+v, want %+v", odd, want)
	}
}

func TestSetFromCoarserFallsBackToSetSame(t *testing.T) {
	cg := 1
	got := SetFromCoarser(1, bounds, 0, cg, true)
	want := SetSame(1, bounds, cg)
	if got != want {
		t.Errorf("SetFromCoarser(ox!=0) = %+v, want SetSame result %+v", got, want)
	}

	got2 := SetFromCoarser(0, bounds, 0, cg, false)
	want2 := SetSame(0, bounds, cg)
	if got2 != want2 {
		t.Errorf("SetFromCoarser(includeDim=false) = %+v, want %+v", got2, want2)
	}
}

func TestSetFromFinerOffsetAxisUsesSetSame(t *testing.T) {
	off := Offsets{Ox1: 1}
	got := SetFromFiner(Axis1, off, 0, 0, bounds, g)
	want := SetSame(1, bounds, g)
	if got != want {
		t.Errorf("SetFromFiner on offset axis = %+v, want %+v", got, want)
	}
}

func TestSetFromFinerZeroAxisSelectsHalfByFi(t *testing.T) {
	// Single nonzero axis (Ox1): Axis1 is higher priority than the zero
	// axis Axis2 and is nonzero, so Axis2 uses fi1.
	off := Offsets{Ox1: 1}

	lower := SetFromFiner(Axis2, off, 0, 0, bounds, g) // fi1=0
	upper := SetFromFiner(Axis2, off, 1, 0, bounds, g) // fi1=1

	if lower == upper {
		t.Fatal("fi1=0 and fi1=1 should select different halves")
	}
	if lower.Len() != bounds.Len()/2 || upper.Len() != bounds.Len()/2 {
		t.Fatalf("expected equal halves, got %+v and %+v", lower, upper)
	}
	if lower.E+1 != upper.S {
		t.Fatalf("expected contiguous halves, got %+v and %+v", lower, upper)
	}
}

func TestSetFromFinerNoHigherPriorityUsesFi2(t *testing.T) {
	// All-zero offsets: Axis1 has no higher-priority axis at all, so it
	// must use fi2, not fi1.
	off := Offsets{}

	viaFi2 := SetFromFiner(Axis1, off, 9 /* fi1, should be ignored */, 0, bounds, g)
	viaFi2Upper := SetFromFiner(Axis1, off, 9, 1, bounds, g)

	if viaFi2 == viaFi2Upper {
		t.Fatal("fi2=0 and fi2=1 should select different halves when Axis1 has no higher-priority predecessor")
	}
}

func TestLoadToFinerMirrorsSetFromFiner(t *testing.T) {
	off := Offsets{Ox1: -1}
	width := 1 // cnghost - 1

	gotOffsetAxis := LoadToFiner(Axis1, off, 0, 0, bounds, width)
	wantOffsetAxis := LoadSame(-1, bounds, width)
	if gotOffsetAxis != wantOffsetAxis {
		t.Errorf("LoadToFiner on offset axis = %+v, want %+v", gotOffsetAxis, wantOffsetAxis)
	}

	gotZeroAxis := LoadToFiner(Axis2, off, 1, 0, bounds, width)
	wantZeroAxis := halfInterval(bounds, 1)
	if gotZeroAxis != wantZeroAxis {
		t.Errorf("LoadToFiner on zero axis = %+v, want %+v", gotZeroAxis, wantZeroAxis)
	}
}

func TestIndexErrorOnOddLengthHalving(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic on odd-length halving")
		}
		if _, ok := r.(*IndexError); !ok {
			t.Fatalf("expected *IndexError, got %T: %v", r, r)
		}
	}()
	// A 1-cell range cannot be split into two equal halves, so
	// halfInterval panics with *IndexError.
	halfInterval(Range{S: 0, E: 0}, 0)
}
