package helpers

import (
	"strings"
)

const headsPrefix = "refs/heads/"

// NormaliseRef strips the "refs/heads/" prefix from a branch reference.
func NormaliseRef(ref string) string {
	return strings.TrimPrefix(strings.TrimSpace(ref), headsPrefix)
}

// NormaliseRefs normalises every reference of refs, dropping empty entries.
func NormaliseRefs(refs []string) []string {
	out := make([]string, 0, len(refs))
	for _, r := range refs {
		if n := NormaliseRef(r); n != "" {
			out = append(out, n)
		}
	}
	return out
}
