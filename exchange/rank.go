package exchange

import "github.com/sarchlab/akita/v4/sim"

// Comp is the minimal TickingComponent that hosts one rank's boundary-
// exchange ports, mirroring core.Core's `*sim.TickingComponent`
// embedding. It does no per-tick work of its own: SendBoundaryBuffers/
// ReceiveBoundaryBuffers/SetBoundaries are called directly by a driver's
// own tick loop (spec.md §4.G composed as a MeshData-scoped phase
// function, not a whole akita component), so Tick only needs to satisfy
// the TickingComponent interface and drains nothing on its own.
type Comp struct {
	*sim.TickingComponent
}

// NewComp builds a Comp driven by engine at freq, ready to be passed to
// NewFabric/WireMesh as the port-owning sim.Component.
func NewComp(name string, engine sim.Engine, freq sim.Freq) *Comp {
	c := &Comp{}
	c.TickingComponent = sim.NewTickingComponent(name, engine, freq, c)
	return c
}

// Tick never reports progress; all boundary-exchange work happens via
// direct calls into the exchange package's phase functions.
func (c *Comp) Tick(now sim.VTimeInSec) bool {
	return false
}
