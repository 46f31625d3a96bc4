package exchange

import "hash/fnv"

// MaxMPITag bounds the reduced tag space Tag() hashes into, standing in
// for whatever MPI_TAG_UB the real transport reports (spec §6/§9).
const MaxMPITag = 1 << 15

// Tag derives a bounded MPI tag from (senderGID, targetID, varSlot), per
// spec §9's Open Question resolution: fnv32a the triple, then reduce mod
// MaxMPITag. Only the cross-rank path through Fabric (BoundaryMsg
// carries it, ReceiveBoundaryBuffers re-checks it) consults this value —
// same-rank exchange copies straight into the peer variable's recv slot
// and never reads it, so a collision here can never misroute a
// same-rank delivery (see DESIGN.md).
func Tag(senderGID uint32, targetID int, varSlot int) int {
	h := fnv.New32a()
	var b [12]byte
	putUint32(b[0:4], senderGID)
	putUint32(b[4:8], uint32(targetID))
	putUint32(b[8:12], uint32(varSlot))
	h.Write(b[:])
	return int(h.Sum32() % MaxMPITag)
}

func putUint32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}
