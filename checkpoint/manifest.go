package checkpoint

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest is the human-readable sidecar written next to a restart
// database: enough metadata to locate and sanity-check the matching
// .sqlite file without opening it, the way a parthenon restart dump
// pairs a binary blob with a small text header.
type Manifest struct {
	Cycle     int      `yaml:"cycle"`
	Time      float64  `yaml:"time"`
	Rank      int      `yaml:"rank"`
	NumRanks  int      `yaml:"num_ranks"`
	DataFile  string   `yaml:"data_file"`
	BlockGIDs []uint32 `yaml:"block_gids"`
}

// WriteManifest marshals m to path as YAML.
func WriteManifest(path string, m Manifest) error {
	out, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("checkpoint: marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("checkpoint: write manifest %s: %w", path, err)
	}
	return nil
}

// ReadManifest loads and unmarshals the manifest at path.
func ReadManifest(path string) (Manifest, error) {
	var m Manifest
	raw, err := os.ReadFile(path)
	if err != nil {
		return m, fmt.Errorf("checkpoint: read manifest %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return m, fmt.Errorf("checkpoint: unmarshal manifest %s: %w", path, err)
	}
	return m, nil
}
