// Package util holds small helpers shared by the command line and config.
package util

import "strings"

// SplitList splits a comma-separated list, trimming whitespace and dropping
// empty and repeated entries. It returns nil when nothing remains.
func SplitList(s string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" || seen[part] {
			continue
		}
		seen[part] = true
		out = append(out, part)
	}
	return out
}
