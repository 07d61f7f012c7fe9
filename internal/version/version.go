// Package version orders version strings loosely: not strict PEP 440 or
// SemVer, so malformed and pre-release versions still sort without error.
package version

import (
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// Component is one field of a version, either numeric or textual
type Component struct {
	Numeric bool
	Num     uint64
	Text    string
}

// Parse splits v into components: runs of digits are numeric, runs of
// any other characters are textual, and '.' only separates.
func Parse(v string) []Component {
	var parts []Component

	flush := func(s string, digits bool) {
		if s == "" {
			return
		}
		if digits {
			if n, err := strconv.ParseUint(s, 10, 64); err == nil {
				parts = append(parts, Component{Numeric: true, Num: n, Text: s})
				return
			}
		}
		parts = append(parts, Component{Text: s})
	}

	start := 0
	digits := false
	for i, r := range v {
		isDigit := unicode.IsDigit(r) && r < unicode.MaxASCII
		switch {
		case r == '.':
			flush(v[start:i], digits)
			start = i + 1
		case i > start && isDigit != digits:
			flush(v[start:i], digits)
			start = i
		}
		if i == start {
			digits = isDigit
		}
	}
	flush(v[start:], digits)

	return parts
}

// compareComponent compares numerically when both components are numeric
// and lexically otherwise
func compareComponent(a, b Component) int {
	if a.Numeric && b.Numeric {
		switch {
		case a.Num < b.Num:
			return -1
		case a.Num > b.Num:
			return 1
		}
		return 0
	}
	return strings.Compare(a.Text, b.Text)
}

// Compare returns -1, 0 or 1 as a sorts before, equal to or after b.
// A version that is a prefix of another sorts first.
func Compare(a, b string) int {
	pa, pb := Parse(a), Parse(b)
	for i := 0; i < len(pa) && i < len(pb); i++ {
		if c := compareComponent(pa[i], pb[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(pa) < len(pb):
		return -1
	case len(pa) > len(pb):
		return 1
	}
	return 0
}

// SortDescending returns a sorted copy of versions, newest first
func SortDescending(versions []string) []string {
	sorted := append([]string(nil), versions...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return Compare(sorted[i], sorted[j]) > 0
	})
	return sorted
}

// Unique returns the distinct versions, newest first
func Unique(versions []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, v := range versions {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return SortDescending(out)
}
