package domain

// Category identifies the kind of risk evidence a watchlist source produces.
type Category string

const (
	CategorySanctions   Category = "sanctions"
	CategoryThreatActor Category = "threat_actor"
	CategoryCriminal    Category = "criminal"
	CategoryPEP         Category = "pep"
	CategoryOwnership   Category = "ownership"
	CategoryWatchlist   Category = "watchlist"
)

// categoryPriority orders categories for deterministic tie-breaking.
// Lower value wins: a sanctions hit outranks a generic watchlist hit.
var categoryPriority = map[Category]int{
	CategorySanctions:   0,
	CategoryThreatActor: 1,
	CategoryCriminal:    2,
	CategoryPEP:         3,
	CategoryOwnership:   4,
	CategoryWatchlist:   5,
}

// Priority returns the tie-break rank of the category. Unknown categories
// sort last.
func (c Category) Priority() int {
	if p, ok := categoryPriority[c]; ok {
		return p
	}
	return len(categoryPriority)
}

// Categories lists all known categories in priority order.
func Categories() []Category {
	return []Category{
		CategorySanctions,
		CategoryThreatActor,
		CategoryCriminal,
		CategoryPEP,
		CategoryOwnership,
		CategoryWatchlist,
	}
}

// CandidateRecord is one record returned by a connector. Records are
// request-scoped: created per query and discarded after matching unless a
// caller explicitly caches the normalized response.
type CandidateRecord struct {
	ID          string
	Source      string // connector that produced the record
	Category    Category
	Names       []string // index 0 is the list's primary name
	DateOfBirth string
	Nationality string
	Identifiers map[string]string
}

// PrimaryName returns the record's primary name, or "" for a malformed record.
func (r CandidateRecord) PrimaryName() string {
	if len(r.Names) == 0 {
		return ""
	}
	return r.Names[0]
}
