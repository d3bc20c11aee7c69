package domain

import "time"

// ArchiveShelfName is the display name of the per-user archival shelf
// that receives consumed bottles. The shelf is identified by its
// IsArchive flag, not by this name; the name is presentation only.
const ArchiveShelfName = "Consumed"

// ArchiveShelfCapacity is the sentinel capacity given to the archival
// shelf. Archived stock never reserves slots on it, so the value only
// needs to be large enough to look unbounded.
const ArchiveShelfCapacity = 1000

// Shelf is a physical storage unit with a finite number of slots.
// One bottle quantity unit occupies one slot.
//
// Invariant: Available == Capacity − Σ(quantity of in-stock, non-deleted
// bottles assigned to this shelf). The store maintains this under a
// single-writer transaction; every reservation and release goes through
// the same transaction as the bottle mutation that caused it.
type Shelf struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	OwnerID   string    `json:"owner_id"`
	Name      string    `json:"name"`
	Location  string    `json:"location,omitempty"`
	Capacity  int       `json:"capacity"`
	Available int       `json:"available"`
	// IsArchive marks the per-user "Consumed" shelf. Exactly one per
	// user, created lazily on first consumption, hidden from listings
	// and protected from deletion.
	IsArchive bool `json:"is_archive,omitempty"`

	// Bottles holds the in-stock, non-deleted bottles assigned to this
	// shelf when returned from a listing. Not populated elsewhere.
	Bottles []*Bottle `json:"bottles,omitempty"`
}

// Occupied returns the number of slots currently in use.
func (s *Shelf) Occupied() int {
	return s.Capacity - s.Available
}
