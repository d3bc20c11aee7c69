package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/cellarapp/cellar-server/internal/domain"
	"github.com/cellarapp/cellar-server/internal/store"
)

// boolToInt converts a bool to an int for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// bottleColumns is the ordered list of columns selected in bottle queries.
// Must match the scan order in scanBottle.
const bottleColumns = `id, created_at, updated_at, owner_id, shelf_id, name,
	vintage, type, domain, quantity, rating, comment, status, label, deleted`

// scanBottle scans a sql.Row (or sql.Rows via its Scan method) into a domain.Bottle.
func scanBottle(scanner interface{ Scan(dest ...any) error }) (*domain.Bottle, error) {
	var b domain.Bottle

	var (
		createdAt string
		updatedAt string
		shelfID   sql.NullString
		vintage   sql.NullInt64
		wineDom   sql.NullString
		rating    sql.NullFloat64
		comment   sql.NullString
		status    string
		label     sql.NullString
		deleted   int
	)

	err := scanner.Scan(
		&b.ID,
		&createdAt,
		&updatedAt,
		&b.OwnerID,
		&shelfID,
		&b.Name,
		&vintage,
		&b.Type,
		&wineDom,
		&b.Quantity,
		&rating,
		&comment,
		&status,
		&label,
		&deleted,
	)
	if err != nil {
		return nil, err
	}

	// Parse timestamps.
	b.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	b.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	if shelfID.Valid {
		b.ShelfID = shelfID.String
	}
	b.Vintage = intPtr(vintage)
	b.Domain = strPtr(wineDom)
	b.Rating = floatPtr(rating)
	if comment.Valid {
		b.Comment = comment.String
	}
	b.Status = domain.BottleStatus(status)
	if label.Valid {
		b.Label = label.String
	}
	b.Deleted = deleted != 0

	return &b, nil
}

// GetBottle retrieves a bottle by ID, scoped to its owner.
// Soft-deleted bottles are treated as missing.
func (s *Store) GetBottle(ctx context.Context, id, ownerID string) (*domain.Bottle, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+bottleColumns+` FROM bottles
		WHERE id = ? AND owner_id = ? AND deleted = 0`, id, ownerID)

	b, err := scanBottle(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// ListBottlesByOwner returns the owner's in-stock, non-deleted bottles,
// oldest first.
func (s *Store) ListBottlesByOwner(ctx context.Context, ownerID string) ([]*domain.Bottle, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+bottleColumns+` FROM bottles
		WHERE owner_id = ? AND status = ? AND deleted = 0
		ORDER BY created_at`, ownerID, domain.BottleInStock)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bottles []*domain.Bottle
	for rows.Next() {
		b, err := scanBottle(rows)
		if err != nil {
			return nil, err
		}
		bottles = append(bottles, b)
	}
	return bottles, rows.Err()
}

// GetBottle retrieves a bottle inside the transaction, scoped to its owner.
func (t *Tx) GetBottle(ctx context.Context, id, ownerID string) (*domain.Bottle, error) {
	row := t.tx.QueryRowContext(ctx, `
		SELECT `+bottleColumns+` FROM bottles
		WHERE id = ? AND owner_id = ? AND deleted = 0`, id, ownerID)

	b, err := scanBottle(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// InsertBottle inserts a new bottle row.
func (t *Tx) InsertBottle(ctx context.Context, b *domain.Bottle) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO bottles (
			id, created_at, updated_at, owner_id, shelf_id, name,
			vintage, type, domain, quantity, rating, comment, status, label, deleted
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID,
		formatTime(b.CreatedAt),
		formatTime(b.UpdatedAt),
		b.OwnerID,
		nullString(b.ShelfID),
		b.Name,
		nullableInt(b.Vintage),
		b.Type,
		nullableString(b.Domain),
		b.Quantity,
		nullableFloat(b.Rating),
		nullString(b.Comment),
		b.Status,
		nullString(b.Label),
		boolToInt(b.Deleted),
	)
	return err
}

// UpdateBottle updates a bottle's descriptive fields, shelf and quantity.
// Returns store.ErrNotFound if the bottle does not exist.
func (t *Tx) UpdateBottle(ctx context.Context, b *domain.Bottle) error {
	result, err := t.tx.ExecContext(ctx, `
		UPDATE bottles SET
			updated_at = ?,
			shelf_id = ?,
			name = ?,
			vintage = ?,
			type = ?,
			domain = ?,
			quantity = ?,
			label = ?
		WHERE id = ? AND owner_id = ? AND deleted = 0`,
		formatTime(b.UpdatedAt),
		nullString(b.ShelfID),
		b.Name,
		nullableInt(b.Vintage),
		b.Type,
		nullableString(b.Domain),
		b.Quantity,
		nullString(b.Label),
		b.ID,
		b.OwnerID,
	)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// SetBottleQuantity updates the quantity of a bottle row.
func (t *Tx) SetBottleQuantity(ctx context.Context, id string, quantity int, now time.Time) error {
	result, err := t.tx.ExecContext(ctx, `
		UPDATE bottles SET quantity = ?, updated_at = ? WHERE id = ?`,
		quantity, formatTime(now), id,
	)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ArchiveBottle moves a bottle row to the archive shelf and marks it
// consumed, recording the tasting rating and comment on the row.
func (t *Tx) ArchiveBottle(ctx context.Context, id, archiveShelfID string, rating *float64, comment string, now time.Time) error {
	result, err := t.tx.ExecContext(ctx, `
		UPDATE bottles SET
			updated_at = ?,
			shelf_id = ?,
			status = ?,
			rating = ?,
			comment = ?
		WHERE id = ?`,
		formatTime(now),
		archiveShelfID,
		domain.BottleArchived,
		nullableFloat(rating),
		nullString(comment),
		id,
	)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// SoftDeleteBottle marks a bottle as deleted without removing the row.
func (t *Tx) SoftDeleteBottle(ctx context.Context, id string, now time.Time) error {
	result, err := t.tx.ExecContext(ctx, `
		UPDATE bottles SET deleted = 1, updated_at = ? WHERE id = ? AND deleted = 0`,
		formatTime(now), id,
	)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
