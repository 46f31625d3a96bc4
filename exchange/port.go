package exchange

import (
	"fmt"
	"sync"

	"github.com/sarchlab/akita/v4/sim"
)

// HookPosPack marks when a buffer has been packed from a variable's
// interior, ready to send.
var HookPosPack = &sim.HookPos{Name: "Exchange Pack"}

// HookPosSendPosted marks when a packed buffer has been handed to a
// port's outgoing queue.
var HookPosSendPosted = &sim.HookPos{Name: "Exchange Send Posted"}

// HookPosRecvArrived marks when a buffer has been retrieved from a
// port's incoming queue, before it is unpacked.
var HookPosRecvArrived = &sim.HookPos{Name: "Exchange Recv Arrived"}

// HookPosSetComplete marks when an unpacked buffer has been written into
// a variable's ghost zone.
var HookPosSetComplete = &sim.HookPos{Name: "Exchange Set Complete"}

// HookPosSparseAllocated marks when AllocateSparse was triggered by an
// incoming or outgoing pack/unpack.
var HookPosSparseAllocated = &sim.HookPos{Name: "Exchange Sparse Allocated"}

// HookPosCacheRebuilt marks when a BufferCache finished a rebuild pass.
var HookPosCacheRebuilt = &sim.HookPos{Name: "Exchange Cache Rebuilt"}

// Port is the per-neighbor boundary-exchange endpoint a Block owns for
// each NeighborBlock it carries: exactly core.Port's Send/Deliver/
// RetrieveIncoming/RetrieveOutgoing state machine (the teacher's
// cgra.Side ports). Fabric wires ports only for same-rank neighbor pairs
// (over directconnection); a cross-rank neighbor gets no Port and its
// BoundaryMsg travels through Fabric's outbox/inbox instead.
type Port interface {
	sim.Named
	sim.Hookable

	AsRemote() sim.RemotePort
	SetConnection(conn sim.Connection)
	Component() sim.Component

	Deliver(msg sim.Msg) *sim.SendError
	NotifyAvailable()
	RetrieveOutgoing() sim.Msg
	PeekOutgoing() sim.Msg

	CanSend() bool
	Send(msg sim.Msg) *sim.SendError
	RetrieveIncoming() sim.Msg
	PeekIncoming() sim.Msg
}

type defaultPort struct {
	sim.HookableBase

	lock sync.Mutex
	name string
	comp sim.Component
	conn sim.Connection

	incomingBuf sim.Buffer
	outgoingBuf sim.Buffer
}

// NewPort creates a boundary-exchange port with the given buffer
// capacities, named the same way core.NewPort names tile ports
// (`<block>.<side>`).
func NewPort(comp sim.Component, incomingBufCap, outgoingBufCap int, name string) Port {
	p := new(defaultPort)
	p.comp = comp
	p.incomingBuf = sim.NewBuffer(name+".IncomingBuf", incomingBufCap)
	p.outgoingBuf = sim.NewBuffer(name+".OutgoingBuf", outgoingBufCap)
	p.name = name
	return p
}

func (p *defaultPort) AsRemote() sim.RemotePort { return sim.RemotePort(p.name) }

func (p *defaultPort) SetConnection(conn sim.Connection) {
	if p.conn != nil {
		panic(fmt.Sprintf("exchange: connection already set to %s, now connecting to %s",
			p.conn.Name(), conn.Name()))
	}
	p.conn = conn
}

func (p *defaultPort) Component() sim.Component { return p.comp }
func (p *defaultPort) Name() string              { return p.name }

func (p *defaultPort) CanSend() bool {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.outgoingBuf.CanPush()
}

func (p *defaultPort) Send(msg sim.Msg) *sim.SendError {
	p.lock.Lock()
	p.msgMustBeValid(msg)

	if !p.outgoingBuf.CanPush() {
		p.lock.Unlock()
		return sim.NewSendError()
	}

	wasEmpty := p.outgoingBuf.Size() == 0
	p.outgoingBuf.Push(msg)
	p.InvokeHook(sim.HookCtx{Domain: p, Pos: HookPosSendPosted, Item: msg})
	p.lock.Unlock()

	if wasEmpty {
		p.conn.NotifySend()
	}
	return nil
}

func (p *defaultPort) Deliver(msg sim.Msg) *sim.SendError {
	p.lock.Lock()
	if !p.incomingBuf.CanPush() {
		p.lock.Unlock()
		return sim.NewSendError()
	}

	wasEmpty := p.incomingBuf.Size() == 0
	p.InvokeHook(sim.HookCtx{Domain: p, Pos: HookPosRecvArrived, Item: msg})
	p.incomingBuf.Push(msg)
	p.lock.Unlock()

	if p.comp != nil && wasEmpty {
		p.comp.NotifyRecv(p)
	}
	return nil
}

func (p *defaultPort) RetrieveIncoming() sim.Msg {
	p.lock.Lock()
	defer p.lock.Unlock()

	item := p.incomingBuf.Pop()
	if item == nil {
		return nil
	}
	msg := item.(sim.Msg)
	if p.incomingBuf.Size() == p.incomingBuf.Capacity()-1 {
		p.conn.NotifyAvailable(p)
	}
	return msg
}

func (p *defaultPort) RetrieveOutgoing() sim.Msg {
	p.lock.Lock()
	defer p.lock.Unlock()

	item := p.outgoingBuf.Pop()
	if item == nil {
		return nil
	}
	msg := item.(sim.Msg)
	if p.outgoingBuf.Size() == p.outgoingBuf.Capacity()-1 {
		p.comp.NotifyPortFree(p)
	}
	return msg
}

func (p *defaultPort) PeekIncoming() sim.Msg {
	p.lock.Lock()
	defer p.lock.Unlock()
	item := p.incomingBuf.Peek()
	if item == nil {
		return nil
	}
	return item.(sim.Msg)
}

func (p *defaultPort) PeekOutgoing() sim.Msg {
	p.lock.Lock()
	defer p.lock.Unlock()
	item := p.outgoingBuf.Peek()
	if item == nil {
		return nil
	}
	return item.(sim.Msg)
}

func (p *defaultPort) NotifyAvailable() {
	if p.comp != nil {
		p.comp.NotifyPortFree(p)
	}
}

func (p *defaultPort) msgMustBeValid(msg sim.Msg) {
	if p.Name() != string(msg.Meta().Src) {
		panic("exchange: sending port is not msg src")
	}
	if msg.Meta().Dst == "" {
		panic("exchange: dst is not given")
	}
	if msg.Meta().Src == msg.Meta().Dst {
		panic("exchange: sending back to src")
	}
}
