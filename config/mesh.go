package config

import (
	"fmt"
	"strconv"
)

// MeshConfig is the typed form of an input file's <mesh> section (the
// <meshblock> section decodes into MeshBlockConfig): the global grid
// shape, ghost widths and refinement depth a mesh builder needs to
// construct a topology.Forest and
// populate a mesh.MeshData, mirroring the way config/config.go hand-
// populates a Device from a YAML section rather than decoding into it
// generically.
type MeshConfig struct {
	Nx1, Nx2, Nx3    int64 // root-level grid size in cells, per axis
	RootLevel        int64
	Ghost            int
	CoarseGhost      int
	RefinementLevels int
}

// MeshBlockConfig is one <meshblock> section: the per-block cell count
// along each axis (spec §3's block-interior dimensions).
type MeshBlockConfig struct {
	Nx1, Nx2, Nx3 int
}

// PackageConfig is one arbitrary <package> section — free-form
// key=value pairs a physics/application package defines and reads back
// by name, matching the teacher's pattern of an application owning its
// own input-file block instead of the framework pre-declaring every
// possible section.
type PackageConfig struct {
	Name   string
	Values map[string]string
}

// DecodeMeshConfig reads the <mesh> section out of sections into a
// MeshConfig, applying the defaults spec §6 documents (ghost=2,
// coarse_ghost=1) when a key is absent.
func DecodeMeshConfig(sections Sections) (MeshConfig, error) {
	var cfg MeshConfig
	var err error

	if cfg.Nx1, err = intField(sections, "mesh", "nx1", 0); err != nil {
		return cfg, err
	}
	if cfg.Nx2, err = intField(sections, "mesh", "nx2", 0); err != nil {
		return cfg, err
	}
	if cfg.Nx3, err = intField(sections, "mesh", "nx3", 1); err != nil {
		return cfg, err
	}
	if cfg.RootLevel, err = intField(sections, "mesh", "root_level", 0); err != nil {
		return cfg, err
	}

	ghost, err := intField(sections, "mesh", "ghost", 2)
	if err != nil {
		return cfg, err
	}
	cfg.Ghost = int(ghost)

	coarseGhost, err := intField(sections, "mesh", "coarse_ghost", 1)
	if err != nil {
		return cfg, err
	}
	cfg.CoarseGhost = int(coarseGhost)

	levels, err := intField(sections, "mesh", "numlevel", 1)
	if err != nil {
		return cfg, err
	}
	cfg.RefinementLevels = int(levels)

	return cfg, nil
}

// DecodeMeshBlockConfig reads the <meshblock> section.
func DecodeMeshBlockConfig(sections Sections) (MeshBlockConfig, error) {
	var cfg MeshBlockConfig
	var err error

	nx1, err := intField(sections, "meshblock", "nx1", 0)
	if err != nil {
		return cfg, err
	}
	nx2, err := intField(sections, "meshblock", "nx2", 0)
	if err != nil {
		return cfg, err
	}
	nx3, err := intField(sections, "meshblock", "nx3", 1)
	if err != nil {
		return cfg, err
	}
	cfg.Nx1, cfg.Nx2, cfg.Nx3 = int(nx1), int(nx2), int(nx3)
	return cfg, nil
}

// DecodePackageConfigs returns one PackageConfig per <package/*> section
// — every section whose name does not match a framework-reserved name
// (mesh, meshblock, job, parthenon/input) is treated as an application
// package's own block.
func DecodePackageConfigs(sections Sections) []PackageConfig {
	reserved := map[string]bool{"mesh": true, "meshblock": true, "job": true, "parthenon/input": true}

	var out []PackageConfig
	for name, vals := range sections {
		if reserved[name] {
			continue
		}
		cp := make(map[string]string, len(vals))
		for k, v := range vals {
			cp[k] = v
		}
		out = append(out, PackageConfig{Name: name, Values: cp})
	}
	return out
}

func intField(sections Sections, section, key string, def int64) (int64, error) {
	raw, ok := sections[section]
	if !ok {
		return def, nil
	}
	v, ok := raw[key]
	if !ok {
		return def, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("config: %s.%s=%q: %w", section, key, v, err)
	}
	return n, nil
}
