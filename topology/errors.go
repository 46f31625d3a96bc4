package topology

import "fmt"

// TopologyError reports an inconsistent forest: an edge with no
// orientation match on either endpoint, or a refinement tree whose keys
// do not form a valid quad-tree cover. These are detection-time invariant
// violations, not recoverable input errors — callers are expected to
// panic with them (spec §7: "Fatal at construction").
type TopologyError struct {
	Face   FaceID
	Reason string
}

func (e *TopologyError) Error() string {
	return fmt.Sprintf("topology: face %d: %s", e.Face, e.Reason)
}

func newTopologyError(face FaceID, format string, args ...any) *TopologyError {
	return &TopologyError{Face: face, Reason: fmt.Sprintf(format, args...)}
}
