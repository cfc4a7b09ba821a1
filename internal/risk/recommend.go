package risk

import (
	"fmt"
	"strings"

	"github.com/backgroundcheck/x24-platform/internal/domain"
)

// recommend derives the free-text recommendation deterministically from the
// verdict's level, triggers, and overrides. No external model is involved;
// the same verdict always produces the same text.
func recommend(v domain.RiskVerdict) string {
	if v.InsufficientData {
		return "No watchlist evidence was available for this entity. " +
			"Treat this result as insufficient data, not as an indication of low risk."
	}

	var b strings.Builder
	switch v.Level {
	case domain.LevelCritical:
		b.WriteString("Block and escalate to the compliance team immediately.")
	case domain.LevelHigh:
		b.WriteString("Escalate for enhanced due diligence before proceeding.")
	case domain.LevelMedium:
		b.WriteString("Review the contributing matches before proceeding.")
	default:
		b.WriteString("No significant risk indicators; proceed with standard monitoring.")
	}

	if len(v.Overrides) > 0 {
		fmt.Fprintf(&b, " Level set by override rule(s): %s.", strings.Join(v.Overrides, ", "))
	}
	if len(v.Triggers) > 0 {
		fmt.Fprintf(&b, " Cross-domain trigger(s) fired: %s.", strings.Join(v.Triggers, ", "))
	}
	if len(v.DomainsAbsent) > 0 {
		names := make([]string, len(v.DomainsAbsent))
		for i, cat := range v.DomainsAbsent {
			names[i] = string(cat)
		}
		fmt.Fprintf(&b, " No data was available for: %s.", strings.Join(names, ", "))
	}
	return b.String()
}
