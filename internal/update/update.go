package update

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	Repo       = "1broseidon/snaptile"
	ReleaseURL = "https://api.github.com/repos/" + Repo + "/releases/latest"
)

// Release is the latest published release.
type Release struct {
	Version string
	URL     string
}

// parseVersion splits a tag like "v1.4" or "1.4.2-rc1" into numeric parts.
func parseVersion(v string) ([]int, error) {
	v = strings.TrimPrefix(strings.TrimSpace(v), "v")
	if i := strings.IndexAny(v, "-+"); i >= 0 {
		v = v[:i]
	}
	if v == "" {
		return nil, fmt.Errorf("invalid version: empty")
	}
	parts := strings.Split(v, ".")
	nums := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid version: %q", v)
		}
		nums[i] = n
	}
	return nums, nil
}

// compareVersions returns -1, 0 or 1. Missing trailing parts count as zero.
func compareVersions(a, b []int) int {
	n := max(len(a), len(b))
	for i := range n {
		var x, y int
		if i < len(a) {
			x = a[i]
		}
		if i < len(b) {
			y = b[i]
		}
		switch {
		case x > y:
			return 1
		case x < y:
			return -1
		}
	}
	return 0
}

// NewerThan reports whether r is strictly newer than current. Unparseable
// versions (including "dev") never compare newer.
func (r Release) NewerThan(current string) bool {
	cur, err := parseVersion(current)
	if err != nil {
		return false
	}
	rel, err := parseVersion(r.Version)
	if err != nil {
		return false
	}
	return compareVersions(rel, cur) > 0
}
