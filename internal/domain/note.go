package domain

import "time"

// WineIdentity is the tuple that identifies a wine independently of any
// physical bottle row. Tasting notes are keyed by it, and history
// averages are computed over it.
type WineIdentity struct {
	Name    string
	Vintage *int
	Type    string
	Domain  *string
	OwnerID string
}

// Equal reports whether two identities refer to the same wine.
// Optional fields (vintage, domain) match when both are unset; an unset
// value never matches a set one. This is deliberately not SQL NULL
// semantics, and the store queries reproduce the same rule.
func (i WineIdentity) Equal(other WineIdentity) bool {
	return i.Name == other.Name &&
		i.Type == other.Type &&
		i.OwnerID == other.OwnerID &&
		OptIntEqual(i.Vintage, other.Vintage) &&
		OptStringEqual(i.Domain, other.Domain)
}

// OptStringEqual is the null-safe equality used for optional identity
// fields: both unset is a match, one unset is not.
func OptStringEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// OptIntEqual is OptStringEqual for optional integers.
func OptIntEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// TastingNote is a rating and comment tied to a wine identity, not to a
// specific bottle row. At most one note exists per identity per owner;
// a later note for the same identity overwrites the earlier one.
type TastingNote struct {
	ID         string    `json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	OwnerID    string    `json:"owner_id"`
	BottleName string    `json:"bottle_name"`
	Vintage    *int      `json:"vintage,omitempty"`
	Type       string    `json:"type"`
	Domain     *string   `json:"domain,omitempty"`
	Rating     *float64  `json:"rating,omitempty"`
	Comment    string    `json:"comment,omitempty"`
}

// Identity returns the wine identity this note is keyed on.
func (n *TastingNote) Identity() WineIdentity {
	return WineIdentity{
		Name:    n.BottleName,
		Vintage: n.Vintage,
		Type:    n.Type,
		Domain:  n.Domain,
		OwnerID: n.OwnerID,
	}
}

// TastingHistoryEntry is one archived bottle joined with its tasting
// note (if any) and the average rating across all notes sharing the
// same identity. One entry per archived bottle row; rows with matching
// identities are never collapsed.
type TastingHistoryEntry struct {
	BottleID string   `json:"bottle_id"`
	Name     string   `json:"name"`
	Vintage  *int     `json:"vintage,omitempty"`
	Type     string   `json:"type"`
	Domain   *string  `json:"domain,omitempty"`
	Quantity int      `json:"quantity"`
	Label    string   `json:"label,omitempty"`
	Rating   *float64 `json:"rating,omitempty"`
	Comment  string   `json:"comment,omitempty"`
	// AverageRating is the mean of all note ratings for this identity,
	// nil when no rated note matches.
	AverageRating *float64 `json:"average_rating,omitempty"`
}
