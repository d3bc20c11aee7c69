package domain

import "time"

// BottleStatus represents a bottle's position in the consumption lifecycle.
type BottleStatus string

const (
	// BottleInStock means the bottle occupies slots on a regular shelf.
	BottleInStock BottleStatus = "in_stock"
	// BottleArchived is terminal: the bottle has been consumed and sits
	// on the owner's archival shelf. Archived bottles never reserve slots.
	BottleArchived BottleStatus = "archived"
)

// Bottle is a wine record. Quantity counts physical bottles sharing one
// row; partial consumption splits the row, leaving the remainder in
// stock and archiving a new row for the consumed share.
type Bottle struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	OwnerID   string    `json:"owner_id"`
	// ShelfID is empty only for an unassigned bottle; an in-stock bottle
	// that went through the ledger always has one.
	ShelfID  string       `json:"shelf_id,omitempty"`
	Name     string       `json:"name"`
	Vintage  *int         `json:"vintage,omitempty"`
	Type     string       `json:"type"`
	Domain   *string      `json:"domain,omitempty"`
	Quantity int          `json:"quantity"`
	Rating   *float64     `json:"rating,omitempty"`
	Comment  string       `json:"comment,omitempty"`
	Status   BottleStatus `json:"status"`
	// Label is the file name of the uploaded label image, if any.
	Label   string `json:"label,omitempty"`
	Deleted bool   `json:"-"`
}

// InStock reports whether the bottle currently occupies shelf slots.
func (b *Bottle) InStock() bool {
	return b.Status == BottleInStock && !b.Deleted
}

// Identity returns the wine identity of this bottle, used to match
// tasting notes across physical rows.
func (b *Bottle) Identity() WineIdentity {
	return WineIdentity{
		Name:    b.Name,
		Vintage: b.Vintage,
		Type:    b.Type,
		Domain:  b.Domain,
		OwnerID: b.OwnerID,
	}
}
