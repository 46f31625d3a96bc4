package exchange

import (
	"fmt"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/akita/v4/sim/directconnection"
	"github.com/sarchlab/ghostmesh/mesh"
)

// portKey identifies one endpoint of an exchange: which block's send/recv
// port, for which BufID, owns it.
type portKey struct {
	gid   uint32
	bufID int
}

// Fabric owns every per-(block,neighbor) exchange.Port this process needs
// and the wiring between them, built the same way
// config.DeviceBuilder.connectTiles wires cgra.Side ports between
// adjacent tiles (one directconnection.Comp per pair, PlugIn on both
// ends). Same-rank neighbors get a real port pair over a
// directconnection.Comp; cross-rank neighbors are modeled without a
// port at all — see the outbox/inbox pair below, which realizes spec
// §5's "ranks are independent address spaces" directly instead of
// layering a second custom sim.Connection on top of directconnection
// (the real MPI transport itself is explicitly out of scope, spec §1).
type Fabric struct {
	comp  sim.Component
	ports map[portKey]Port

	// outbox/inbox model the one legitimate suspension point in the
	// whole pipeline (spec §5): a cross-rank send posts into outbox and
	// only becomes visible to the destination rank's
	// ReceiveBoundaryBuffers poll after DeliverCrossRank moves it into
	// inbox — standing in for "the MPI progress engine advanced".
	outbox map[portKey]*BoundaryMsg
	inbox  map[portKey]*BoundaryMsg
}

// NewFabric returns an empty fabric whose ports are owned by comp (used
// only for hook hosting and hook hierarchy; the exchange engine does not
// otherwise drive comp's own Tick).
func NewFabric(comp sim.Component) *Fabric {
	return &Fabric{
		comp:   comp,
		ports:  make(map[portKey]Port),
		outbox: make(map[portKey]*BoundaryMsg),
		inbox:  make(map[portKey]*BoundaryMsg),
	}
}

func (f *Fabric) portFor(gid uint32, bufID int, label string) Port {
	key := portKey{gid: gid, bufID: bufID}
	p, ok := f.ports[key]
	if !ok {
		name := fmt.Sprintf("%s.Block%d.Buf%d.%s", f.comp.Name(), gid, bufID, label)
		p = NewPort(f.comp, 4, 4, name)
		f.ports[key] = p
	}
	return p
}

// WireLocalPair connects the two ports of a same-rank neighbor pair with
// a directconnection.Comp, exactly the pattern
// config.DeviceBuilder.connectTilePorts uses for adjacent tiles.
func (f *Fabric) WireLocalPair(engine sim.Engine, freq sim.Freq, aGID uint32, aBufID int, bGID uint32, bBufID int) {
	aPort := f.portFor(aGID, aBufID, "Send")
	bPort := f.portFor(bGID, bBufID, "Recv")

	connName := fmt.Sprintf("%s.Conn.%d.%d-%d.%d", f.comp.Name(), aGID, aBufID, bGID, bBufID)
	conn := directconnection.MakeBuilder().
		WithEngine(engine).
		WithFreq(freq).
		Build(connName)

	conn.PlugIn(aPort)
	conn.PlugIn(bPort)
}

// WireMesh builds a Fabric and, for every locally owned block's
// same-rank neighbor, plugs in a directconnection.Comp between the two
// sides' ports — cross-rank neighbors get no port at all, only an
// outbox/inbox entry, populated lazily the first time a send targets
// them. Call once after RefreshAllNeighbors settles the block list.
func WireMesh(comp sim.Component, engine sim.Engine, freq sim.Freq, md *mesh.MeshData) *Fabric {
	f := NewFabric(comp)
	wired := make(map[[2]portKey]bool)

	for _, block := range md.Blocks() {
		for _, nb := range block.Neighbors {
			if nb.OwnerRank != md.Rank {
				continue // cross-rank: wired lazily via outbox/inbox.
			}
			peer, ok := md.Block(nb.OwnerGID)
			if !ok {
				continue // same rank number but a remote MeshData we don't own.
			}

			a := portKey{gid: block.GID, bufID: nb.BufID}
			b := portKey{gid: peer.GID, bufID: nb.TargetID}
			pair := [2]portKey{a, b}
			if a.gid > b.gid || (a.gid == b.gid && a.bufID > b.bufID) {
				pair = [2]portKey{b, a}
			}
			if wired[pair] {
				continue
			}
			wired[pair] = true

			f.WireLocalPair(engine, freq, block.GID, nb.BufID, peer.GID, nb.TargetID)
		}
	}

	return f
}

// PostRemote enqueues msg for a cross-rank neighbor, keyed by the
// destination's (gid, targetID) — the receiver's own identification of
// its recv slot, so DeliverCrossRank and a poll agree on the same key
// regardless of which rank computed it.
func (f *Fabric) PostRemote(destGID uint32, targetID int, msg *BoundaryMsg) {
	f.outbox[portKey{gid: destGID, bufID: targetID}] = msg
}

// DeliverCrossRank simulates the MPI progress engine advancing: every
// currently posted outbound message becomes visible to the destination's
// next ReceiveBoundaryBuffers poll. Calling it is the only way a
// cross-rank message ever arrives — without it, ReceiveBoundaryBuffers
// blocks in Incomplete forever, matching spec §5's suspension-point rule.
func (f *Fabric) DeliverCrossRank() {
	for k, msg := range f.outbox {
		f.inbox[k] = msg
		delete(f.outbox, k)
	}
}

// PollRemote checks whether a cross-rank message has arrived for
// (destGID, targetID), consuming it if so.
func (f *Fabric) PollRemote(destGID uint32, targetID int) (*BoundaryMsg, bool) {
	key := portKey{gid: destGID, bufID: targetID}
	msg, ok := f.inbox[key]
	if ok {
		delete(f.inbox, key)
	}
	return msg, ok
}
