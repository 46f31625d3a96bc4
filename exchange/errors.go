package exchange

import (
	"errors"
	"fmt"
)

// AllocationMismatchError is panicked by BufferCache.Verify when a row's
// recorded AllocStatus bit disagrees with the variable's current
// allocation state (spec §7).
type AllocationMismatchError struct {
	BlockGID uint32
	VarName  string
	Expected bool
	Actual   bool
}

func (e *AllocationMismatchError) Error() string {
	return fmt.Sprintf("exchange: alloc status mismatch for block %d var %q: cache says %v, variable says %v",
		e.BlockGID, e.VarName, e.Expected, e.Actual)
}

// TagMismatchError is panicked when a cross-rank BoundaryMsg's carried
// Tag disagrees with the value Tag() independently recomputes from its
// own (SenderGID, TargetID, VarSlot) — the two endpoints are supposed to
// derive identical tags from symmetric inputs (spec §6/§9); disagreement
// means the message was corrupted or mis-routed in transit.
type TagMismatchError struct {
	SenderGID uint32
	TargetID  int
	VarSlot   int
	Carried   int
	Expected  int
}

func (e *TagMismatchError) Error() string {
	return fmt.Sprintf("exchange: tag mismatch for sender %d target %d var slot %d: carried %d, expected %d",
		e.SenderGID, e.TargetID, e.VarSlot, e.Carried, e.Expected)
}

// ErrReceiveTimeout is returned (not panicked) by ReceiveBoundaryBuffers
// when its context deadline elapses before every expected buffer has
// arrived, leaving the teardown decision to the caller. The re-pollable
// state (rows still outstanding before the deadline) is reported as
// (false, nil), not as this error.
var ErrReceiveTimeout = errors.New("exchange: receive boundary buffers timed out")
