// Package debugserver exposes a running rank's mesh and exchange state
// over HTTP, for attaching a browser or curl to a live run the way
// akita/v4/monitoring.Monitor exposes engine state — a read-only
// introspection surface, never a control plane.
package debugserver

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sarchlab/ghostmesh/exchange"
	"github.com/sarchlab/ghostmesh/mesh"
)

// Server is a read-only HTTP introspection endpoint for one rank's
// MeshData and the exchange.BufferCache most recently built against it.
type Server struct {
	md    *mesh.MeshData
	cache *exchange.BufferCache
	mux   *mux.Router
}

// New builds a Server wired against md. The cache pointer is read fresh
// on every request, so a caller can keep calling exchange.EnsureCache
// and swapping it in between requests via SetCache.
func New(md *mesh.MeshData) *Server {
	s := &Server{md: md, mux: mux.NewRouter()}
	s.mux.HandleFunc("/blocks", s.handleBlocks).Methods(http.MethodGet)
	s.mux.HandleFunc("/blocks/{gid}", s.handleBlock).Methods(http.MethodGet)
	s.mux.HandleFunc("/cache", s.handleCache).Methods(http.MethodGet)
	return s
}

// SetCache updates the cache this server reports from. Call after every
// exchange.EnsureCache rebuild.
func (s *Server) SetCache(cache *exchange.BufferCache) {
	s.cache = cache
}

// ServeHTTP implements http.Handler by delegating to the mux router.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

type blockSummary struct {
	GID       uint32   `json:"gid"`
	Level     uint32   `json:"level"`
	Rank      int      `json:"rank"`
	Face      uint32   `json:"face"`
	NumVars   int      `json:"num_vars"`
	Neighbors []string `json:"neighbors"`
}

func summarize(b *mesh.Block) blockSummary {
	s := blockSummary{
		GID:     b.GID,
		Level:   b.Loc.Level,
		Rank:    b.Rank,
		Face:    uint32(b.Face),
		NumVars: len(b.Vars),
	}
	for _, nb := range b.Neighbors {
		s.Neighbors = append(s.Neighbors, nb.Describe(b.Loc.Level))
	}
	return s
}

func (s *Server) handleBlocks(w http.ResponseWriter, r *http.Request) {
	var out []blockSummary
	for _, b := range s.md.Blocks() {
		out = append(out, summarize(b))
	}
	writeJSON(w, out)
}

func (s *Server) handleBlock(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	gid, err := parseGID(vars["gid"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	b, ok := s.md.Block(gid)
	if !ok {
		http.Error(w, "block not found", http.StatusNotFound)
		return
	}

	type varDetail struct {
		Name      string `json:"name"`
		Allocated bool   `json:"allocated"`
		Sparse    bool   `json:"sparse"`
	}
	out := struct {
		blockSummary
		Vars []varDetail `json:"vars"`
	}{blockSummary: summarize(b)}

	for _, v := range b.Vars {
		out.Vars = append(out.Vars, varDetail{
			Name:      v.Name,
			Allocated: v.Allocated(),
			Sparse:    v.Flags.Has(mesh.Sparse),
		})
	}
	writeJSON(w, out)
}

type cacheRowView struct {
	BlockGID   uint32 `json:"block_gid"`
	Var        string `json:"var"`
	NeighborID int    `json:"neighbor_buf_id"`
	SendStatus int    `json:"send_status"`
	RecvStatus int    `json:"recv_status"`
}

func (s *Server) handleCache(w http.ResponseWriter, r *http.Request) {
	if s.cache == nil {
		writeJSON(w, []cacheRowView{})
		return
	}

	out := make([]cacheRowView, 0, len(s.cache.Rows))
	it := exchange.NewCacheIterator(s.cache)
	for {
		row, i, ok := it.Next()
		if !ok {
			break
		}
		out = append(out, cacheRowView{
			BlockGID:   row.Block.GID,
			Var:        row.Var.Name,
			NeighborID: row.Neighbor.BufID,
			SendStatus: int(s.cache.SendStatus[i]),
			RecvStatus: int(s.cache.RecvStatus[i]),
		})
	}
	writeJSON(w, out)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func parseGID(s string) (uint32, error) {
	var gid uint32
	_, err := fmt.Sscanf(s, "%d", &gid)
	return gid, err
}
