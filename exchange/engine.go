package exchange

import (
	"context"
	"fmt"

	"github.com/rs/xid"
	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/ghostmesh/ghostlog"
	"github.com/sarchlab/ghostmesh/mesh"
)

// SendBoundaryBuffers implements spec §4.G's send pipeline for every row
// of cache: reset, pack, fence, post (local copy or remote enqueue),
// complete. now is only used to timestamp ports' outgoing messages; the
// pipeline itself is non-suspending (it completes when its kernel is
// launched, spec §5), so SendBoundaryBuffers never blocks.
func SendBoundaryBuffers(md *mesh.MeshData, cache *BufferCache, fabric *Fabric, now sim.VTimeInSec) error {
	corr := xid.New().String()
	ghostlog.Trace("send boundary buffers begin", "rank", md.Rank, "corr", corr, "rows", len(cache.Rows))

	for i := range cache.SendStatus {
		cache.SendStatus[i] = StatusPending
	}

	it := NewCacheIterator(cache)
	for {
		row, i, ok := it.Next()
		if !ok {
			break
		}

		buf := PackBuffer(row)
		cache.InvokeHook(sim.HookCtx{Domain: cache, Pos: HookPosPack, Item: row})
		cache.SendStatus[i] = StatusFilled
		if row.Var.SawNonZero() {
			ghostlog.Trace("pack nonzero", "var", row.Var.Name, "bufID", row.Neighbor.BufID, "corr", corr)
		}

		if err := postOne(md, row, buf, fabric, now, cache); err != nil {
			return fmt.Errorf("exchange: send row %d: %w", i, err)
		}
		cache.SendStatus[i] = StatusCompleted
	}

	ghostlog.Trace("send boundary buffers complete", "rank", md.Rank, "corr", corr)
	return nil
}

// postOne delivers one packed buffer to its destination: a same-rank
// neighbor is written directly into the peer's recv buffer and, per P1,
// allocated first if the sender's data was nonzero and the peer was
// unallocated (spec §4.G step 5, §4.H). A cross-rank neighbor is posted
// to the fabric's outbox and only becomes visible after DeliverCrossRank.
func postOne(md *mesh.MeshData, row BoundaryInfo, buf []float64, fabric *Fabric, now sim.VTimeInSec, cache *BufferCache) error {
	nb := row.Neighbor

	if peer, ok := md.Block(nb.OwnerGID); ok && nb.OwnerRank == md.Rank {
		peerVar, ok := peer.Var(row.Var.Name)
		if !ok {
			return fmt.Errorf("peer block %d has no variable %q", peer.GID, row.Var.Name)
		}

		sendingNonZero := buf[len(buf)-1] == tagNonZero
		if sendingNonZero && !peerVar.Allocated() {
			peerVar.AllocateSparse("local-send")
			cache.InvokeHook(sim.HookCtx{Domain: cache, Pos: HookPosSparseAllocated, Item: peerVar})
			ghostlog.Trace("sparse allocate on peer", "block", peer.GID, "var", peerVar.Name)
		}

		recv := peerVar.RecvBuffer(nb.TargetID, len(buf)-1)
		copy(recv, buf)
		return nil
	}

	msg := BoundaryMsgBuilder{}.
		WithSendTime(now).
		WithSenderGID(row.Block.GID).
		WithTargetID(nb.TargetID).
		WithVarSlot(row.VarSlot).
		WithBuf(buf).
		Build()
	fabric.PostRemote(nb.OwnerGID, nb.TargetID, msg)
	return nil
}

// ReceiveBoundaryBuffers polls every row not yet Arrived. It returns
// (true, nil) once every row has arrived, (false, nil) if some rows are
// still outstanding (the caller should re-poll), and (false,
// ErrReceiveTimeout) if ctx's deadline has elapsed first — the only
// routine in the pipeline allowed to return Incomplete, per spec §5.
func ReceiveBoundaryBuffers(ctx context.Context, md *mesh.MeshData, cache *BufferCache, fabric *Fabric) (bool, error) {
	allArrived := true

	it := NewCacheIterator(cache)
	for {
		row, i, ok := it.Next()
		if !ok {
			break
		}
		if cache.RecvStatus[i] == StatusArrived || cache.RecvStatus[i] == StatusCompleted {
			continue
		}

		nb := row.Neighbor
		if nb.OwnerRank == md.Rank {
			// Local sends write directly into our recv buffer during
			// SendBoundaryBuffers; by the time we poll, it has already
			// arrived.
			cache.RecvStatus[i] = StatusArrived
			continue
		}

		if msg, ok := fabric.PollRemote(row.Block.GID, nb.BufID); ok {
			if expected := Tag(msg.SenderGID, msg.TargetID, msg.VarSlot); msg.Tag != expected {
				panic(&TagMismatchError{
					SenderGID: msg.SenderGID, TargetID: msg.TargetID, VarSlot: msg.VarSlot,
					Carried: msg.Tag, Expected: expected,
				})
			}

			sendingNonZero := msg.Buf[len(msg.Buf)-1] == tagNonZero
			if sendingNonZero && !row.Var.Allocated() {
				row.Var.AllocateSparse("remote-recv")
				cache.InvokeHook(sim.HookCtx{Domain: cache, Pos: HookPosSparseAllocated, Item: row.Var})
				ghostlog.Trace("sparse allocate on receive", "block", row.Block.GID, "var", row.Var.Name)
			}
			recv := row.Var.RecvBuffer(nb.BufID, len(msg.Buf)-1)
			copy(recv, msg.Buf)
			cache.RecvStatus[i] = StatusArrived
			continue
		}

		allArrived = false
	}

	if allArrived {
		return true, nil
	}

	select {
	case <-ctx.Done():
		ghostlog.Warn("receive boundary buffers timed out", "rank", md.Rank)
		return false, ErrReceiveTimeout
	default:
		return false, nil
	}
}

// SetBoundaries unpacks every Arrived row of cache into its destination
// variable's ghost window and marks the row Completed. It does not
// recompute allocation status and does not rebuild cache: it unpacks
// against the rows the given cache already holds.
func SetBoundaries(md *mesh.MeshData, cache *BufferCache) error {
	it := NewCacheIterator(cache)
	for {
		row, i, ok := it.Next()
		if !ok {
			break
		}
		if cache.RecvStatus[i] != StatusArrived {
			continue
		}

		UnpackBuffer(row, recvBufferFor(row))
		cache.InvokeHook(sim.HookCtx{Domain: cache, Pos: HookPosSetComplete, Item: row})
		cache.RecvStatus[i] = StatusCompleted
	}
	return nil
}

// recvBufferFor returns the already-populated recv buffer for row's
// destination variable, keyed by this block's own BufID for the neighbor
// (the slot the sender addressed as its TargetID) — postOne (same rank)
// or ReceiveBoundaryBuffers (cross rank) already filled this exact slot
// with the matching size (symmetric windows, spec §8 invariant 1), so
// the size passed here is just a no-op lookup key.
func recvBufferFor(row BoundaryInfo) []float64 {
	windows := windowsForSet(row.Block, row.Neighbor)
	size := row.Var.Nv * windows[0].Len() * windows[1].Len() * windows[2].Len()
	return row.Var.RecvBuffer(row.Neighbor.BufID, size)
}
