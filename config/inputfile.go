// Package config parses the parthenon-style key=value input file (spec
// §6) into typed mesh configuration, the way core/program.go in the
// teacher repo hand-populates structs from a parsed kernel description
// rather than a general-purpose decoder.
package config

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Sections is the raw parse result of an input file: section name ->
// key -> value, in the exact textual form the file carried. Callers
// that need typed fields (MeshConfig, MeshBlockConfig) decode from this
// map by hand, following core/program.go's explicit field-assignment
// style rather than reflection-based binding — justified in DESIGN.md
// since no pack library parses this ini-like section format.
type Sections map[string]map[string]string

// ParseInputFile scans r line by line: blank lines and lines starting
// with '#' are ignored, a line of the form "<name>" opens a
// new current section, and "key = value" lines populate it. Returns a
// descriptive error on a key=value line seen before any section
// header — spec §6 names no top-level (sectionless) options.
func ParseInputFile(r io.Reader) (Sections, error) {
	sections := make(Sections)
	scanner := bufio.NewScanner(r)

	var current string
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasPrefix(line, "<") && strings.HasSuffix(line, ">") {
			current = strings.TrimSuffix(strings.TrimPrefix(line, "<"), ">")
			if _, ok := sections[current]; !ok {
				sections[current] = make(map[string]string)
			}
			continue
		}

		if current == "" {
			return nil, fmt.Errorf("config: line %d: key=value outside any section: %q", lineNo, line)
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("config: line %d: expected key=value, got %q", lineNo, line)
		}
		sections[current][strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("config: scan failed: %w", err)
	}

	return sections, nil
}

// String returns key's value in section, or def if either is absent.
func (s Sections) String(section, key, def string) string {
	vals, ok := s[section]
	if !ok {
		return def
	}
	v, ok := vals[key]
	if !ok {
		return def
	}
	return v
}
