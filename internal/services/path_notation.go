package services

import (
	"regexp"
	"strconv"
	"strings"
)

const pathSeparator = " → "

var (
	pathSplitRe  = regexp.MustCompile("[-→>]+")
	leadingIntRe = regexp.MustCompile(`^[+]?\d+`)
)

// FormatPath renders indices as "6 → 3 → 11".
func FormatPath(indices []int) string {
	parts := make([]string, len(indices))
	for i, n := range indices {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, pathSeparator)
}

// ParsePath reads a path written with "->", ">", "-" or "→" separators.
// Each token contributes its leading integer; tokens without one are dropped.
func ParsePath(text string) []int {
	out := []int{}
	for _, tok := range pathSplitRe.Split(text, -1) {
		m := leadingIntRe.FindString(strings.TrimSpace(tok))
		if m == "" {
			continue
		}
		n, err := strconv.Atoi(m)
		if err != nil {
			continue
		}
		out = append(out, n)
	}
	return out
}

// AnchorToDepot rotates indices so the first depot visit comes first, then
// closes the cycle by appending the depot if the path does not already end
// there. Without a depot visit the order is kept as is. Duplicate depot
// visits are never removed.
func AnchorToDepot(indices []int) []int {
	if len(indices) == 0 {
		return []int{}
	}

	start := 0
	for i, n := range indices {
		if n == depotIndex {
			start = i
			break
		}
	}

	out := make([]int, 0, len(indices)+1)
	out = append(out, indices[start:]...)
	out = append(out, indices[:start]...)

	if out[len(out)-1] != depotIndex {
		out = append(out, depotIndex)
	}
	return out
}
