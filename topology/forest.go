package topology

import "fmt"

// EdgeNeighbor is one result of Forest.FindEdgeNeighbors: a face sharing
// the queried edge, which of its own sides that edge occupies, and the
// relative orientation between the two faces' views of the edge.
type EdgeNeighbor struct {
	Face        FaceID
	Side        EdgeSide
	Orientation int8
}

// Forest is a graph of quadrilateral faces joined along edges with
// explicit relative orientations, each face owning a refinement tree of
// logical locations. Forest.Faces is a flat arena indexed by FaceID —
// see the design note in SPEC_FULL.md/DESIGN.md on why Node holds only a
// non-owning, sorted FaceID list rather than a back-pointer.
type Forest struct {
	Nodes map[NodeID]*Node
	Faces []*Face
}

func (f *Forest) face(id FaceID) *Face {
	if int(id) >= len(f.Faces) {
		panic(fmt.Sprintf("topology: face id %d out of range", id))
	}
	return f.Faces[id]
}

// FaceTree returns the refinement tree owned by the given face, for
// callers outside this package (mesh.EnumerateNeighbors) that need to
// look up logical locations directly.
func (f *Forest) FaceTree(id FaceID) *RefinementTree {
	return f.face(id).Tree
}

// ForestBuilder assembles a Forest from an explicit list of faces, each
// given as four corner node ids plus those nodes' coordinates. The
// With-chain mirrors config.DeviceBuilder's builder idiom in the teacher
// repo (WithEngine().WithFreq()....Build(name)).
type ForestBuilder struct {
	coords map[NodeID][3]float64
	faces  []faceSpec
}

type faceSpec struct {
	corners  [4]NodeID
	boundary [4]bool
}

// NewForestBuilder returns an empty builder.
func NewForestBuilder() ForestBuilder {
	return ForestBuilder{coords: make(map[NodeID][3]float64)}
}

// WithNode registers (or overwrites) the coordinate of a node id that
// will be referenced by a later WithFace call.
func (b ForestBuilder) WithNode(id NodeID, coord [3]float64) ForestBuilder {
	b.coords[id] = coord
	return b
}

// WithFace appends a face in canonical corner order [SW, SE, NW, NE].
// Every corner must have been registered with WithNode first. boundary
// lists the sides of this face the caller asserts are true domain
// boundaries (no neighbor expected) — the only metadata this design
// tracks to distinguish a genuine edge-of-domain from an internal edge
// that failed to resolve a neighbor (spec §7/§8 invariant 3). A side
// left off this list is asserted internal: Build panics if it resolves
// no neighbor, and also panics if a listed boundary side unexpectedly
// does resolve one (both are forest inconsistencies).
func (b ForestBuilder) WithFace(corners [4]NodeID, boundary ...EdgeSide) ForestBuilder {
	spec := faceSpec{corners: corners}
	for _, side := range boundary {
		spec.boundary[side] = true
	}
	b.faces = append(b.faces, spec)
	return b
}

// Build constructs the Forest: creates every Node, creates every Face
// (registering it with its corner nodes), then resolves every face's
// edge orientations against every other face, and validates each face's
// refinement tree. Panics with a *TopologyError on any inconsistency,
// per spec §7 ("fatal at construction").
func (b ForestBuilder) Build() *Forest {
	fr := &Forest{Nodes: make(map[NodeID]*Node, len(b.coords))}
	for id, coord := range b.coords {
		fr.Nodes[id] = NewNode(id, coord)
	}

	for i, spec := range b.faces {
		for _, c := range spec.corners {
			if _, ok := fr.Nodes[c]; !ok {
				panic(fmt.Sprintf("topology: face %d references unregistered node %d", i, c))
			}
		}
		fr.Faces = append(fr.Faces, NewFace(FaceID(i), spec.corners, spec.boundary, fr.Nodes))
	}

	fr.resolveOrientations()
	fr.validateClosure()

	for _, face := range fr.Faces {
		if err := face.Tree.Validate(face.ID); err != nil {
			panic(err)
		}
	}

	return fr
}

// resolveOrientations computes, for every face and every side of that
// face, the relative orientation to whichever neighboring face (if any)
// shares that edge. When more than one neighbor shares an edge
// (non-manifold junction, spec §4.C), RelOrient records the first one
// found; callers that need the full set use FindEdgeNeighbors directly.
func (fr *Forest) resolveOrientations() {
	for _, face := range fr.Faces {
		for side := EdgeSide(0); side < 4; side++ {
			neighbors := fr.FindEdgeNeighbors(face.ID, side)
			if len(neighbors) > 0 {
				face.RelOrient[side] = neighbors[0].Orientation
			}
		}
	}
}

// validateClosure checks spec §8 invariant 3 (forest closure): every
// face edge either lies on the domain boundary or has at least one
// counterpart edge with nonzero orientation in a different face.
// RelOrient alone can't distinguish those two cases — a zero entry means
// only "FindEdgeNeighbors found nothing," which is exactly what a true
// boundary AND an edge that was *supposed* to resolve but didn't both
// look like (the same node can be shared with an unrelated face without
// the two faces' edges ever matching, so "some other face touches this
// corner" is not a reliable signal either). The only way to tell them
// apart is the caller's own declared intent, so Face.Boundary (set via
// WithFace's variadic boundary list) is checked against what actually
// resolved: a side declared boundary must resolve nothing, and a side
// not declared boundary must resolve something. Either mismatch panics
// with a *TopologyError, per spec §7 ("fatal at construction").
func (fr *Forest) validateClosure() {
	for _, face := range fr.Faces {
		for side := EdgeSide(0); side < 4; side++ {
			resolved := face.RelOrient[side] != 0
			switch {
			case face.Boundary[side] && resolved:
				panic(newTopologyError(face.ID,
					"side %s was declared a domain boundary but resolved a neighbor across it",
					side.Name()))
			case !face.Boundary[side] && !resolved:
				panic(newTopologyError(face.ID,
					"side %s has no orientation match on either endpoint and was not declared a domain boundary",
					side.Name()))
			}
		}
	}
}

// FindEdgeNeighbors implements spec §4.C: let E be the edge at the given
// side of face. Collect candidate faces as the union of the
// associated-face sets of E's two endpoint nodes, minus face itself. For
// each candidate, for each of its four edges E', if E and E' share a
// relative orientation other than 0, emit a result. The edge may have
// more than two incident faces (non-manifold junction) — the result list
// is order-independent and the caller must not assume len <= 1.
func (fr *Forest) FindEdgeNeighbors(face FaceID, side EdgeSide) []EdgeNeighbor {
	f := fr.face(face)
	e := f.Edge(side)

	candidateSet := make(map[FaceID]bool)
	for _, endpoint := range [2]NodeID{e.A, e.B} {
		node, ok := fr.Nodes[endpoint]
		if !ok {
			continue
		}
		for _, fid := range node.Faces() {
			if fid != face {
				candidateSet[fid] = true
			}
		}
	}

	var results []EdgeNeighbor
	for fid := range candidateSet {
		other := fr.face(fid)
		for otherSide := EdgeSide(0); otherSide < 4; otherSide++ {
			otherEdge := other.Edge(otherSide)
			if orient := e.RelativeOrientation(otherEdge); orient != 0 {
				results = append(results, EdgeNeighbor{
					Face:        fid,
					Side:        otherSide,
					Orientation: orient,
				})
			}
		}
	}

	return results
}

// rotate maps a logical location expressed in face's coordinate frame
// into the coordinate frame of a neighboring face sharing the given
// side, given the resolved orientation of that shared edge. Orientation
// +1 means the two faces agree on edge direction (no flip along the
// edge's own axis); -1 means the neighbor's view of the edge runs
// opposite to this face's, so the coordinate along the edge's axis must
// be mirrored within the current refinement level.
func rotate(loc LogicalLocation, side EdgeSide, axis Axis, orientation int8) LogicalLocation {
	if orientation == 1 {
		return loc
	}
	limit := int64(1)<<loc.Level - 1
	switch axis {
	case Axis1:
		return LogicalLocation{Level: loc.Level, Lx1: limit - loc.Lx1, Lx2: loc.Lx2, Lx3: loc.Lx3}
	case Axis2:
		return LogicalLocation{Level: loc.Level, Lx1: loc.Lx1, Lx2: limit - loc.Lx2, Lx3: loc.Lx3}
	default:
		return LogicalLocation{Level: loc.Level, Lx1: loc.Lx1, Lx2: loc.Lx2, Lx3: limit - loc.Lx3}
	}
}

// CrossFaceNeighbor resolves the logical location, on a neighboring
// face, that sits across the given side from loc on face. It picks the
// first resolved edge neighbor for that side (non-manifold junctions
// with more than one counterpart should use FindEdgeNeighbors directly
// and iterate), rotates loc into the neighbor's frame by the stored
// RelOrient, and returns the neighboring face id plus the rotated
// location. ok is false if side is a domain boundary (no neighbor).
func (fr *Forest) CrossFaceNeighbor(face FaceID, side EdgeSide, loc LogicalLocation) (FaceID, LogicalLocation, bool) {
	f := fr.face(face)
	neighbors := fr.FindEdgeNeighbors(face, side)
	if len(neighbors) == 0 {
		return 0, LogicalLocation{}, false
	}
	nb := neighbors[0]
	axis := f.Edge(side).Axis
	return nb.Face, rotate(loc, side, axis, nb.Orientation), true
}
