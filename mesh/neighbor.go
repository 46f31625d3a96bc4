// Package mesh implements concrete MeshBlock/Variable instances and the
// per-block NeighborBlock descriptors produced by walking a
// topology.Forest (spec §4.D).
package mesh

// NeighborBlock describes one logical neighbor of a block across a
// face, edge, or corner, exactly as spec §3/§4.D define it. (ox1,ox2,ox3)
// encodes which face/edge/corner of this block the neighbor sits
// across; (fi1,fi2) selects which of several finer neighbors occupies
// that same offset when more than one child is present there.
type NeighborBlock struct {
	OwnerGID  uint32
	OwnerRank int
	Level     uint32
	Ox1       int8
	Ox2       int8
	Ox3       int8
	Fi1       uint8
	Fi2       uint8
	BufID     int
	TargetID  int
	// RelativeOrientation is copied from the forest edge this neighbor
	// was discovered across (0 if the neighbor is within the same face
	// and therefore needs no coordinate rotation).
	RelativeOrientation int8
}

// offsetIndex maps ox in {-1,0,1} to {0,1,2} for use as a base-3 digit.
func offsetIndex(ox int8) int {
	return int(ox) + 1
}

// bufID computes spec §4.D's "deterministic function of
// (ox1,ox2,ox3,fi1,fi2)" so both endpoints of an exchange compute
// matching ids without communicating: the three offsets become a
// base-3 number (27 possibilities) and fi1,fi2 become its low two bits
// (4 possibilities), giving a dense id space of 108 values per block.
func bufID(ox1, ox2, ox3 int8, fi1, fi2 uint8) int {
	base := (offsetIndex(ox1)*9 + offsetIndex(ox2)*3 + offsetIndex(ox3))
	return base*4 + int(fi1)*2 + int(fi2)
}

// targetID computes the buf_id the neighbor will independently compute
// for the reverse direction: its offsets are this block's offsets
// negated (the neighbor sees this block across the opposite sign), and
// it keeps the same fi1/fi2 (those select which child of the shared
// coarser face is involved, a property of the pair, not of which side
// is asking).
func targetID(ox1, ox2, ox3 int8, fi1, fi2 uint8) int {
	return bufID(-ox1, -ox2, -ox3, fi1, fi2)
}

// newNeighborBlock fills in BufID/TargetID from the offset/fi fields,
// so every call site constructs a NeighborBlock with consistent,
// matching ids instead of computing them ad hoc.
func newNeighborBlock(ownerGID uint32, ownerRank int, level uint32, ox1, ox2, ox3 int8, fi1, fi2 uint8, relOrient int8) NeighborBlock {
	return NeighborBlock{
		OwnerGID:            ownerGID,
		OwnerRank:           ownerRank,
		Level:               level,
		Ox1:                 ox1,
		Ox2:                 ox2,
		Ox3:                 ox3,
		Fi1:                 fi1,
		Fi2:                 fi2,
		BufID:               bufID(ox1, ox2, ox3, fi1, fi2),
		TargetID:            targetID(ox1, ox2, ox3, fi1, fi2),
		RelativeOrientation: relOrient,
	}
}

// IsSameLevel reports whether the neighbor is at the same refinement
// level as blockLevel. It compares levels only and does not inspect
// Fi1/Fi2.
func (n NeighborBlock) IsSameLevel(blockLevel uint32) bool {
	return n.Level == blockLevel
}

// IsFiner reports whether the neighbor is at a finer refinement level
// than blockLevel.
func (n NeighborBlock) IsFiner(blockLevel uint32) bool {
	return n.Level > blockLevel
}

// IsCoarser reports whether the neighbor is at a coarser refinement
// level than blockLevel.
func (n NeighborBlock) IsCoarser(blockLevel uint32) bool {
	return n.Level < blockLevel
}
