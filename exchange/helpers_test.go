package exchange_test

import (
	"context"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/ghostmesh/exchange"
	"github.com/sarchlab/ghostmesh/index"
	"github.com/sarchlab/ghostmesh/mesh"
	"github.com/sarchlab/ghostmesh/topology"
)

const (
	testInterior = 4
	testGhost    = 2
)

// twoBlockFixture is a same-rank pair of single-level blocks joined
// East-West, mirroring the teacher's habit of a single small shared
// fixture builder reused across a whole _test.go file (mesh/block_test.go's
// singleFaceForest plays the same role for the mesh tests).
type twoBlockFixture struct {
	md     *mesh.MeshData
	fabric *exchange.Fabric
}

func newTwoBlockFixture() *twoBlockFixture {
	forest := topology.NewForestBuilder().
		WithNode(0, [3]float64{0, 0, 0}).
		WithNode(1, [3]float64{1, 0, 0}).
		WithNode(2, [3]float64{0, 1, 0}).
		WithNode(3, [3]float64{1, 1, 0}).
		WithNode(4, [3]float64{2, 0, 0}).
		WithNode(5, [3]float64{2, 1, 0}).
		WithFace([4]topology.NodeID{0, 1, 2, 3}, topology.South, topology.North, topology.West).
		WithFace([4]topology.NodeID{1, 4, 3, 5}, topology.South, topology.North, topology.East).
		Build()

	forest.FaceTree(0).Insert(topology.NewRoot(), topology.TreeEntry{GID: 0, OwnerRank: 0})
	forest.FaceTree(1).Insert(topology.NewRoot(), topology.TreeEntry{GID: 1, OwnerRank: 0})

	bounds := [3]index.Range{
		{S: 0, E: 0},
		{S: testGhost, E: testGhost + testInterior - 1},
		{S: 0, E: 0},
	}

	md := mesh.NewMeshData(forest, 0)
	for i, face := range []topology.FaceID{0, 1} {
		block := mesh.NewBlock(topology.NewRoot(), face, uint32(i), 0, bounds, testGhost, 1)
		v := mesh.NewSparseVariable("density", mesh.FillGhost|mesh.Sparse, 1, 1, testGhost*2+testInterior, 1)
		block.AddVar(v)
		md.AddBlock(block)
	}
	md.RefreshAllNeighbors()

	engine := sim.NewSerialEngine()
	comp := exchange.NewComp("TestRank", engine, 1*sim.GHz)
	fabric := exchange.WireMesh(comp, engine, 1*sim.GHz, md)

	return &twoBlockFixture{md: md, fabric: fabric}
}

// runCycle drives exactly one send/receive/set cycle to completion
// against f's same-rank fabric (same-rank exchanges never suspend, so a
// single ReceiveBoundaryBuffers poll always completes them).
func (f *twoBlockFixture) runCycle(cache *exchange.BufferCache) error {
	if err := exchange.SendBoundaryBuffers(f.md, cache, f.fabric, 0); err != nil {
		return err
	}
	f.fabric.DeliverCrossRank()
	if _, err := exchange.ReceiveBoundaryBuffers(context.Background(), f.md, cache, f.fabric); err != nil {
		return err
	}
	return exchange.SetBoundaries(f.md, cache)
}
