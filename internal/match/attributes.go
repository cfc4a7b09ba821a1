package match

import "strings"

// Attribute dimensions are bounded bonus/penalty signals, never full-weight
// dimensions. A dimension with missing data on either side is excluded from
// the candidate's computation entirely.

// dobScore compares ISO dates. Full agreement scores 1; agreement on
// year and month 0.5; year only 0.25; disagreement 0.
func dobScore(entity, candidate string) (float64, bool) {
	entity, candidate = strings.TrimSpace(entity), strings.TrimSpace(candidate)
	if entity == "" || candidate == "" {
		return 0, false
	}
	if entity == candidate {
		return 1, true
	}
	ep, cp := strings.SplitN(entity, "-", 3), strings.SplitN(candidate, "-", 3)
	if ep[0] != cp[0] {
		return 0, true
	}
	if len(ep) > 1 && len(cp) > 1 && ep[1] == cp[1] {
		return 0.5, true
	}
	return 0.25, true
}

// nationalityScore compares country codes case-insensitively.
func nationalityScore(entity, candidate string) (float64, bool) {
	entity, candidate = strings.TrimSpace(entity), strings.TrimSpace(candidate)
	if entity == "" || candidate == "" {
		return 0, false
	}
	if strings.EqualFold(entity, candidate) {
		return 1, true
	}
	return 0, true
}

// identifierScore compares identifier sets scheme by scheme. Any exact
// value agreement on a shared scheme scores 1; shared schemes with only
// mismatching values score 0; no shared scheme carries no signal.
func identifierScore(entity, candidate map[string]string) (float64, bool) {
	known := false
	for scheme, value := range entity {
		cv, ok := candidate[scheme]
		if !ok || value == "" || cv == "" {
			continue
		}
		known = true
		if strings.EqualFold(strings.TrimSpace(value), strings.TrimSpace(cv)) {
			return 1, true
		}
	}
	return 0, known
}
