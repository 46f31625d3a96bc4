package mesh

import "fmt"

// VarFlag is one bit of a Variable's metadata flag set (spec §3).
type VarFlag uint8

const (
	FillGhost VarFlag = 1 << iota
	WithFluxes
	Sparse
	Independent
)

// Has reports whether all bits in want are set in f.
func (f VarFlag) Has(want VarFlag) bool {
	return f&want == want
}

// Variable is a single named field carried by a block: a 4-D data array
// (v,k,j,i), a metadata flag set, and — for sparse variables — a
// content-driven allocation flag (spec §3/§4.H). Per-neighbor send/recv
// buffers are keyed by BufID/TargetID so the exchange engine can find a
// variable's buffer for a given neighbor without a linear scan.
type Variable struct {
	Name  string
	Flags VarFlag

	Nv, Nk, Nj, Ni int
	data           []float64 // flattened i-fastest,j,k,v, length Nv*Nk*Nj*Ni

	allocated bool

	sendBufs map[int][]float64 // keyed by BufID
	recvBufs map[int][]float64 // keyed by this block's own BufID for the sender (the sender's TargetID)

	// sawNonZero tracks whether, since the last ResetNonZeroTracking, any
	// cell of this variable (interior or ghost) was written a nonzero
	// value through Set — one input to the deallocation sweep (spec §4.H,
	// SPEC_FULL §9 Open Question resolution).
	sawNonZero bool
}

// NewVariable allocates a dense variable immediately (Independent
// variables and any non-sparse field are always allocated). Sparse
// variables should be built with NewSparseVariable instead, starting
// unallocated.
func NewVariable(name string, flags VarFlag, nv, nk, nj, ni int) *Variable {
	v := &Variable{
		Name: name, Flags: flags,
		Nv: nv, Nk: nk, Nj: nj, Ni: ni,
		sendBufs: make(map[int][]float64),
		recvBufs: make(map[int][]float64),
	}
	v.allocate()
	return v
}

// NewSparseVariable builds a variable with the Sparse flag set and
// leaves it unallocated until content demands otherwise (spec §3/§4.H).
func NewSparseVariable(name string, flags VarFlag, nv, nk, nj, ni int) *Variable {
	v := &Variable{
		Name: name, Flags: flags | Sparse,
		Nv: nv, Nk: nk, Nj: nj, Ni: ni,
		sendBufs: make(map[int][]float64),
		recvBufs: make(map[int][]float64),
	}
	return v
}

func (v *Variable) allocate() {
	if v.data == nil {
		v.data = make([]float64, v.Nv*v.Nk*v.Nj*v.Ni)
	}
	v.allocated = true
}

// Allocated reports whether this variable currently has backing storage.
// Non-sparse variables are always allocated.
func (v *Variable) Allocated() bool {
	return v.allocated
}

// AllocateSparse allocates storage for a currently-unallocated sparse
// variable — named to match spec §4.H's vocabulary verbatim. label is
// used only for logging (which exchange step triggered the allocation).
func (v *Variable) AllocateSparse(label string) {
	if v.allocated {
		return
	}
	if !v.Flags.Has(Sparse) {
		panic(fmt.Sprintf("mesh: AllocateSparse called on non-sparse variable %q", v.Name))
	}
	v.allocate()
}

// Deallocate frees a sparse variable's storage. Only ever called by the
// deallocation sweep (exchange.SweepDeallocate), never mid-exchange.
func (v *Variable) Deallocate() {
	if !v.Flags.Has(Sparse) {
		panic(fmt.Sprintf("mesh: Deallocate called on non-sparse variable %q", v.Name))
	}
	v.data = nil
	v.allocated = false
}

func (v *Variable) index(vi, k, j, i int) int {
	return i + v.Ni*(j+v.Nj*(k+v.Nk*vi))
}

// At reads cell (vi,k,j,i). Reading an unallocated sparse variable
// always yields 0, matching the pack kernel's "write 0.0 if the source
// variable is unallocated" rule (spec §4.G step 3).
func (v *Variable) At(vi, k, j, i int) float64 {
	if !v.allocated {
		return 0
	}
	return v.data[v.index(vi, k, j, i)]
}

// Set writes cell (vi,k,j,i). Panics if the variable is unallocated —
// callers must AllocateSparse first.
func (v *Variable) Set(vi, k, j, i int, val float64) {
	if !v.allocated {
		panic(fmt.Sprintf("mesh: Set on unallocated variable %q", v.Name))
	}
	v.data[v.index(vi, k, j, i)] = val
	if val != 0 {
		v.sawNonZero = true
	}
}

// ResetNonZeroTracking clears the accumulator the deallocation sweep
// reads; called once at the start of each exchange cycle.
func (v *Variable) ResetNonZeroTracking() {
	v.sawNonZero = false
}

// SawNonZero reports whether any cell written via Set since the last
// ResetNonZeroTracking was nonzero.
func (v *Variable) SawNonZero() bool {
	return v.sawNonZero
}

// SendBuffer returns the flat on-wire send buffer for the given BufID,
// sized exactly size+1 (the +1 is the trailing tag float, spec §6) —
// reallocated if a previous call used a different window volume (the
// window can change size across a regrid).
func (v *Variable) SendBuffer(bufID int, size int) []float64 {
	buf, ok := v.sendBufs[bufID]
	if !ok || len(buf) != size+1 {
		buf = make([]float64, size+1)
		v.sendBufs[bufID] = buf
	}
	return buf
}

// RecvBuffer returns the flat on-wire recv buffer for the given
// TargetID, sized exactly size+1.
func (v *Variable) RecvBuffer(targetID int, size int) []float64 {
	buf, ok := v.recvBufs[targetID]
	if !ok || len(buf) != size+1 {
		buf = make([]float64, size+1)
		v.recvBufs[targetID] = buf
	}
	return buf
}
