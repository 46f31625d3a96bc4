package mesh

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// toTitleCase normalizes a direction label to Title case (e.g.
// "EAST-NORTH" -> "East-North"), the same helper core/emu.go uses to
// normalize CGRA direction operands before comparing them.
func toTitleCase(s string) string {
	return titleCaser.String(strings.ToLower(s))
}

// directionLabel names a NeighborBlock's offset the way a human reading
// a trace log expects: "east"/"west" from Ox2, then "north"/"south" from
// Ox1, joined with "-" (e.g. "east-north"), or "self" when both are
// zero. Ox3 is not part of the label.
func directionLabel(n NeighborBlock) string {
	var parts []string
	if n.Ox2 > 0 {
		parts = append(parts, "east")
	} else if n.Ox2 < 0 {
		parts = append(parts, "west")
	}
	if n.Ox1 > 0 {
		parts = append(parts, "north")
	} else if n.Ox1 < 0 {
		parts = append(parts, "south")
	}
	if len(parts) == 0 {
		return "self"
	}
	return strings.Join(parts, "-")
}

// Describe renders a NeighborBlock as a short, log-friendly summary:
// which direction it sits in, its level relative to blockLevel, and its
// owning gid/rank — used by cmd/meshdump's table dump and debugserver's
// block summaries instead of each caller formatting NeighborBlock by hand.
func (n NeighborBlock) Describe(blockLevel uint32) string {
	rel := "same-level"
	switch {
	case n.IsFiner(blockLevel):
		rel = "finer"
	case n.IsCoarser(blockLevel):
		rel = "coarser"
	}

	return fmt.Sprintf("%s %s neighbor (gid=%d rank=%d bufID=%d)",
		toTitleCase(directionLabel(n)), rel, n.OwnerGID, n.OwnerRank, n.BufID)
}
