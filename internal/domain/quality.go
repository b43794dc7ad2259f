package domain

import "sort"

// Resolution parses the leading integer of a quality label ("1080p" -> 1080,
// "720p60" -> 720). The second return is false when the label does not start
// with a digit.
func Resolution(label string) (int, bool) {
	n := 0
	seen := false
	for _, r := range label {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
		seen = true
	}
	return n, seen
}

// DedupeByLabel removes quality options with duplicate labels. The first
// occurrence of each label wins and the relative order of survivors is
// preserved.
func DedupeByLabel(opts []QualityOption) []QualityOption {
	seen := make(map[string]struct{}, len(opts))
	out := make([]QualityOption, 0, len(opts))
	for _, o := range opts {
		if _, ok := seen[o.Label]; ok {
			continue
		}
		seen[o.Label] = struct{}{}
		out = append(out, o)
	}
	return out
}

// SortByResolution orders quality options by parsed resolution, highest
// first. Options whose labels do not parse sort after all that do. The sort
// is stable: ties and unparsable labels keep their input order.
func SortByResolution(opts []QualityOption) {
	sort.SliceStable(opts, func(i, j int) bool {
		ri, oki := Resolution(opts[i].Label)
		rj, okj := Resolution(opts[j].Label)
		if oki != okj {
			return oki
		}
		return ri > rj
	})
}

// NormalizeQualities deduplicates by label and sorts by resolution,
// descending. The input slice is not modified.
func NormalizeQualities(opts []QualityOption) []QualityOption {
	out := DedupeByLabel(opts)
	SortByResolution(out)
	return out
}
