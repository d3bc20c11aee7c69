package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/cellarapp/cellar-server/internal/domain"
	"github.com/cellarapp/cellar-server/internal/store"
)

// shelfColumns is the ordered list of columns selected in shelf queries.
// Must match the scan order in scanShelf.
const shelfColumns = `id, created_at, updated_at, owner_id, name, location, capacity, available, is_archive`

// scanShelf scans a sql.Row (or sql.Rows via its Scan method) into a domain.Shelf.
func scanShelf(scanner interface{ Scan(dest ...any) error }) (*domain.Shelf, error) {
	var sh domain.Shelf

	var (
		createdAt string
		updatedAt string
		location  sql.NullString
		isArchive int
	)

	err := scanner.Scan(
		&sh.ID,
		&createdAt,
		&updatedAt,
		&sh.OwnerID,
		&sh.Name,
		&location,
		&sh.Capacity,
		&sh.Available,
		&isArchive,
	)
	if err != nil {
		return nil, err
	}

	// Parse timestamps.
	sh.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	sh.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	if location.Valid {
		sh.Location = location.String
	}
	sh.IsArchive = isArchive != 0

	return &sh, nil
}

// CreateShelf inserts a new shelf.
// Returns store.ErrAlreadyExists on duplicate ID.
func (s *Store) CreateShelf(ctx context.Context, shelf *domain.Shelf) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO shelves (
			id, created_at, updated_at, owner_id, name, location, capacity, available, is_archive
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		shelf.ID,
		formatTime(shelf.CreatedAt),
		formatTime(shelf.UpdatedAt),
		shelf.OwnerID,
		shelf.Name,
		nullString(shelf.Location),
		shelf.Capacity,
		shelf.Available,
		boolToInt(shelf.IsArchive),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetShelf retrieves a shelf by ID, scoped to its owner.
// Returns store.ErrNotFound if the shelf does not exist or belongs to
// another user.
func (s *Store) GetShelf(ctx context.Context, id, ownerID string) (*domain.Shelf, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+shelfColumns+` FROM shelves WHERE id = ? AND owner_id = ?`, id, ownerID)

	sh, err := scanShelf(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return sh, nil
}

// DeleteShelf removes a shelf that holds no in-stock bottles.
// Returns store.ErrShelfNotEmpty when bottles remain, and
// store.ErrNotFound if the shelf does not exist. The archive shelf
// cannot be deleted.
func (s *Store) DeleteShelf(ctx context.Context, id, ownerID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var isArchive int
	err = tx.QueryRowContext(ctx,
		`SELECT is_archive FROM shelves WHERE id = ? AND owner_id = ?`, id, ownerID).Scan(&isArchive)
	if err == sql.ErrNoRows {
		return store.ErrNotFound
	}
	if err != nil {
		return err
	}
	if isArchive != 0 {
		return store.ErrInvalidInput.WithMessage("archive shelf cannot be deleted")
	}

	var occupied int
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM bottles
		WHERE shelf_id = ? AND status = ? AND deleted = 0`,
		id, domain.BottleInStock).Scan(&occupied)
	if err != nil {
		return err
	}
	if occupied > 0 {
		return store.ErrShelfNotEmpty
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM shelves WHERE id = ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}

// ListShelvesByOwner returns a user's shelves ordered by creation time,
// excluding the archive shelf. In-stock bottles are loaded for each.
func (s *Store) ListShelvesByOwner(ctx context.Context, ownerID string) ([]*domain.Shelf, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+shelfColumns+` FROM shelves
		 WHERE owner_id = ? AND is_archive = 0 ORDER BY created_at`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shelves []*domain.Shelf
	for rows.Next() {
		sh, err := scanShelf(rows)
		if err != nil {
			return nil, err
		}
		shelves = append(shelves, sh)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, sh := range shelves {
		sh.Bottles, err = s.loadShelfBottles(ctx, sh.ID)
		if err != nil {
			return nil, err
		}
	}

	return shelves, nil
}

// loadShelfBottles loads the in-stock bottles of a shelf.
func (s *Store) loadShelfBottles(ctx context.Context, shelfID string) ([]*domain.Bottle, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+bottleColumns+` FROM bottles
		WHERE shelf_id = ? AND status = ? AND deleted = 0
		ORDER BY created_at`, shelfID, domain.BottleInStock)
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

// GetShelf retrieves a shelf inside the transaction, scoped to its owner.
func (t *Tx) GetShelf(ctx context.Context, id, ownerID string) (*domain.Shelf, error) {
	row := t.tx.QueryRowContext(ctx,
		`SELECT `+shelfColumns+` FROM shelves WHERE id = ? AND owner_id = ?`, id, ownerID)

	sh, err := scanShelf(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return sh, nil
}

// UpdateShelf updates a shelf's name, location, capacity and available
// count. Returns store.ErrNotFound if the shelf does not exist or is
// the archive shelf.
func (t *Tx) UpdateShelf(ctx context.Context, shelf *domain.Shelf) error {
	result, err := t.tx.ExecContext(ctx, `
		UPDATE shelves SET
			updated_at = ?,
			name = ?,
			location = ?,
			capacity = ?,
			available = ?
		WHERE id = ? AND owner_id = ? AND is_archive = 0`,
		formatTime(shelf.UpdatedAt),
		shelf.Name,
		nullString(shelf.Location),
		shelf.Capacity,
		shelf.Available,
		shelf.ID,
		shelf.OwnerID,
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

// ReserveSlots decrements a shelf's available count by n.
// Returns store.ErrInsufficientCapacity when fewer than n slots are
// free, and store.ErrNotFound if the shelf does not exist or belongs
// to another user.
func (t *Tx) ReserveSlots(ctx context.Context, shelfID, ownerID string, n int) error {
	result, err := t.tx.ExecContext(ctx, `
		UPDATE shelves SET available = available - ?, updated_at = ?
		WHERE id = ? AND owner_id = ? AND available >= ?`,
		n, formatTime(time.Now()), shelfID, ownerID, n,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		if err := t.shelfExists(ctx, shelfID, ownerID); err != nil {
			return err
		}
		return store.ErrInsufficientCapacity
	}
	return nil
}

// ReleaseSlots increments a shelf's available count by n.
// Exceeding capacity indicates corrupted bookkeeping and fails with
// store.ErrCapacityExceeded rather than clamping.
func (t *Tx) ReleaseSlots(ctx context.Context, shelfID, ownerID string, n int) error {
	result, err := t.tx.ExecContext(ctx, `
		UPDATE shelves SET available = available + ?, updated_at = ?
		WHERE id = ? AND owner_id = ? AND available + ? <= capacity`,
		n, formatTime(time.Now()), shelfID, ownerID, n,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		if err := t.shelfExists(ctx, shelfID, ownerID); err != nil {
			return err
		}
		return store.ErrCapacityExceeded
	}
	return nil
}

func (t *Tx) shelfExists(ctx context.Context, shelfID, ownerID string) error {
	var one int
	err := t.tx.QueryRowContext(ctx,
		`SELECT 1 FROM shelves WHERE id = ? AND owner_id = ?`, shelfID, ownerID).Scan(&one)
	if err == sql.ErrNoRows {
		return store.ErrNotFound
	}
	return err
}

// ArchiveShelf returns the owner's archive shelf, creating it on first
// use. The partial unique index on (owner_id) WHERE is_archive = 1
// guarantees at most one per owner.
func (t *Tx) ArchiveShelf(ctx context.Context, ownerID, newID string, now time.Time) (*domain.Shelf, error) {
	row := t.tx.QueryRowContext(ctx,
		`SELECT `+shelfColumns+` FROM shelves WHERE owner_id = ? AND is_archive = 1`, ownerID)

	sh, err := scanShelf(row)
	if err == nil {
		return sh, nil
	}
	if err != sql.ErrNoRows {
		return nil, err
	}

	sh = &domain.Shelf{
		ID:        newID,
		CreatedAt: now,
		UpdatedAt: now,
		OwnerID:   ownerID,
		Name:      domain.ArchiveShelfName,
		Capacity:  domain.ArchiveShelfCapacity,
		Available: domain.ArchiveShelfCapacity,
		IsArchive: true,
	}

	_, err = t.tx.ExecContext(ctx, `
		INSERT INTO shelves (
			id, created_at, updated_at, owner_id, name, location, capacity, available, is_archive
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, 1)`,
		sh.ID,
		formatTime(sh.CreatedAt),
		formatTime(sh.UpdatedAt),
		sh.OwnerID,
		sh.Name,
		sql.NullString{},
		sh.Capacity,
		sh.Available,
	)
	if err != nil {
		return nil, err
	}
	return sh, nil
}
