// Package checkpoint persists a MeshData's variable contents to disk and
// restores them, the way a restart dump needs to: one row per
// (block, variable), storing the allocation bit and, when allocated, the
// raw float payload as a BLOB.
package checkpoint

import (
	"bytes"
	"database/sql"
	"encoding/binary"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sarchlab/ghostmesh/mesh"
)

// Store wraps a sqlite3-backed restart database. One Store per output
// file; Close before the file is copied or archived.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS variables (
	block_gid     INTEGER NOT NULL,
	var_name      TEXT    NOT NULL,
	allocated_bit INTEGER NOT NULL,
	data          BLOB,
	PRIMARY KEY (block_gid, var_name)
);
`

// Open creates (or reopens) a sqlite3 restart database at path,
// creating the variables table if absent.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("checkpoint: open %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("checkpoint: create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// WriteBlock persists every variable of block: its allocation bit
// always, and its raw data only when allocated — an unallocated sparse
// variable restores as "still unallocated" rather than a block of
// zeros, matching spec §4.H's "absence of storage is the allocation
// signal" contract.
func (s *Store) WriteBlock(block *mesh.Block) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("checkpoint: begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO variables (block_gid, var_name, allocated_bit, data)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(block_gid, var_name) DO UPDATE SET
			allocated_bit = excluded.allocated_bit,
			data          = excluded.data
	`)
	if err != nil {
		return fmt.Errorf("checkpoint: prepare: %w", err)
	}
	defer stmt.Close()

	for _, v := range block.Vars {
		var payload []byte
		if v.Allocated() {
			payload = encodeVariable(v)
		}
		allocBit := 0
		if v.Allocated() {
			allocBit = 1
		}
		if _, err := stmt.Exec(block.GID, v.Name, allocBit, payload); err != nil {
			return fmt.Errorf("checkpoint: write block %d var %q: %w", block.GID, v.Name, err)
		}
	}

	return tx.Commit()
}

// ReadBlock restores every row this store holds for block.GID into
// block's already-constructed variables (by name), allocating a sparse
// variable first if its stored allocated_bit is set and it currently
// isn't. Variables present in block but absent from the store are left
// untouched — a checkpoint taken before a variable existed is not an
// error.
func (s *Store) ReadBlock(block *mesh.Block) error {
	rows, err := s.db.Query(
		`SELECT var_name, allocated_bit, data FROM variables WHERE block_gid = ?`,
		block.GID,
	)
	if err != nil {
		return fmt.Errorf("checkpoint: query block %d: %w", block.GID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		var allocBit int
		var data []byte
		if err := rows.Scan(&name, &allocBit, &data); err != nil {
			return fmt.Errorf("checkpoint: scan block %d: %w", block.GID, err)
		}

		v, ok := block.Var(name)
		if !ok {
			continue
		}
		if allocBit == 0 {
			continue
		}
		if !v.Allocated() {
			v.AllocateSparse("checkpoint-restore")
		}
		if err := decodeVariable(v, data); err != nil {
			return fmt.Errorf("checkpoint: decode block %d var %q: %w", block.GID, name, err)
		}
	}

	return rows.Err()
}

func encodeVariable(v *mesh.Variable) []byte {
	var buf bytes.Buffer
	for vi := 0; vi < v.Nv; vi++ {
		for k := 0; k < v.Nk; k++ {
			for j := 0; j < v.Nj; j++ {
				for i := 0; i < v.Ni; i++ {
					binary.Write(&buf, binary.LittleEndian, v.At(vi, k, j, i))
				}
			}
		}
	}
	return buf.Bytes()
}

func decodeVariable(v *mesh.Variable, data []byte) error {
	r := bytes.NewReader(data)
	for vi := 0; vi < v.Nv; vi++ {
		for k := 0; k < v.Nk; k++ {
			for j := 0; j < v.Nj; j++ {
				for i := 0; i < v.Ni; i++ {
					var f float64
					if err := binary.Read(r, binary.LittleEndian, &f); err != nil {
						return err
					}
					v.Set(vi, k, j, i, f)
				}
			}
		}
	}
	return nil
}
