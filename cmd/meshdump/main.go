// Command meshdump prints an input file's decoded mesh, meshblock and
// package settings, then pretty-prints a one-block demo mesh built with
// the file's ghost widths: one table row per locally owned block with its
// variable and neighbor counts, its neighbors, the forest's faces and the
// buffer cache rows — a quick sanity-check tool for a mesh configuration
// before handing it to a real run, the way samples/TestInstruction/
// main.go's driver setup is the quick sanity check for a CGRA program.
package main

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sarchlab/ghostmesh/config"
	"github.com/sarchlab/ghostmesh/exchange"
	"github.com/sarchlab/ghostmesh/index"
	"github.com/sarchlab/ghostmesh/mesh"
	"github.com/sarchlab/ghostmesh/topology"
	"github.com/tebeka/atexit"
)

func main() {
	atexit.Register(func() { fmt.Fprintln(os.Stderr, "meshdump: done") })

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: meshdump <input-file>")
		atexit.Exit(1)
	}

	f, err := os.Open(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, "meshdump:", err)
		atexit.Exit(1)
	}
	defer f.Close()

	sections, err := config.ParseInputFile(f)
	if err != nil {
		fmt.Fprintln(os.Stderr, "meshdump:", err)
		atexit.Exit(1)
	}

	meshCfg, err := config.DecodeMeshConfig(sections)
	if err != nil {
		fmt.Fprintln(os.Stderr, "meshdump:", err)
		atexit.Exit(1)
	}
	blockCfg, err := config.DecodeMeshBlockConfig(sections)
	if err != nil {
		fmt.Fprintln(os.Stderr, "meshdump:", err)
		atexit.Exit(1)
	}

	fmt.Printf("mesh: %dx%dx%d cells, block %dx%dx%d, %d level(s), ghost=%d coarse_ghost=%d\n",
		meshCfg.Nx1, meshCfg.Nx2, meshCfg.Nx3,
		blockCfg.Nx1, blockCfg.Nx2, blockCfg.Nx3,
		meshCfg.RefinementLevels, meshCfg.Ghost, meshCfg.CoarseGhost)

	pkgs := config.DecodePackageConfigs(sections)
	for _, p := range pkgs {
		fmt.Printf("package <%s>: %d keys\n", p.Name, len(p.Values))
	}

	md := demoMeshFromConfig(meshCfg)
	printBlocks(md)
	printFaces(md.Forest)
	printCache(md)

	atexit.Exit(0)
}

// demoMeshFromConfig builds a single face holding one level-0 root
// block; of cfg it uses only the ghost widths (regridding into an actual multi-block
// forest from an input file is config/'s caller's job, not meshdump's;
// this renders the topology meshdump itself can already resolve
// without a regrid driver).
func demoMeshFromConfig(cfg config.MeshConfig) *mesh.MeshData {
	forest := topology.NewForestBuilder().
		WithNode(0, [3]float64{0, 0, 0}).
		WithNode(1, [3]float64{1, 0, 0}).
		WithNode(2, [3]float64{0, 1, 0}).
		WithNode(3, [3]float64{1, 1, 0}).
		WithFace([4]topology.NodeID{0, 1, 2, 3}, topology.South, topology.North, topology.West, topology.East).
		Build()

	forest.FaceTree(0).Insert(topology.NewRoot(), topology.TreeEntry{GID: 0, OwnerRank: 0})

	bounds := [3]index.Range{{S: 0, E: 0}, {S: 0, E: 0}, {S: 0, E: 0}}
	md := mesh.NewMeshData(forest, 0)
	block := mesh.NewBlock(topology.NewRoot(), 0, 0, 0, bounds, cfg.Ghost, cfg.CoarseGhost)
	md.AddBlock(block)
	md.RefreshAllNeighbors()
	return md
}

func printBlocks(md *mesh.MeshData) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"GID", "Level", "Rank", "Face", "Vars", "Neighbors"})

	for _, b := range md.Blocks() {
		t.AppendRow(table.Row{b.GID, b.Loc.Level, b.Rank, b.Face, len(b.Vars), len(b.Neighbors)})
	}
	t.Render()

	for _, b := range md.Blocks() {
		if len(b.Neighbors) == 0 {
			continue
		}
		nt := table.NewWriter()
		nt.SetOutputMirror(os.Stdout)
		nt.SetTitle(fmt.Sprintf("block %d neighbors", b.GID))
		nt.AppendHeader(table.Row{"BufID", "OwnerGID", "OwnerRank", "Side"})
		for _, nb := range b.Neighbors {
			nt.AppendRow(table.Row{nb.BufID, nb.OwnerGID, nb.OwnerRank, nb.Describe(b.Loc.Level)})
		}
		nt.Render()
	}
}

// printFaces dumps the forest's faces, each of their four canonical
// edges, and the relative orientation resolved (or declared boundary)
// at each side — the topology-level view meshdump exposes alongside the
// per-block summary.
func printFaces(forest *topology.Forest) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("faces")
	t.AppendHeader(table.Row{"Face", "Side", "A", "B", "Boundary", "RelOrient"})

	for _, face := range forest.Faces {
		for side := topology.EdgeSide(0); side < 4; side++ {
			edge := face.Edge(side)
			t.AppendRow(table.Row{
				face.ID, side.Name(), edge.A, edge.B,
				face.Boundary[side], face.RelOrient[side],
			})
		}
	}
	t.Render()
}

// printCache walks md's current exchange buffer cache via the shared
// CacheIterator (the same iterator the send/receive/set phases consume,
// exchange/cache.go) and renders one row per (block, variable, neighbor)
// the exchange engine would pack or unpack.
func printCache(md *mesh.MeshData) {
	cache := exchange.BuildCache(md)

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("buffer cache")
	t.AppendHeader(table.Row{"Block", "Var", "NeighborBufID", "SendStatus", "RecvStatus"})

	it := exchange.NewCacheIterator(cache)
	for {
		row, i, ok := it.Next()
		if !ok {
			break
		}
		t.AppendRow(table.Row{
			row.Block.GID, row.Var.Name, row.Neighbor.BufID,
			cache.SendStatus[i], cache.RecvStatus[i],
		})
	}
	t.Render()
}
