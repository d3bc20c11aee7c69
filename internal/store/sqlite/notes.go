package sqlite

import (
	"context"
	"database/sql"

	"github.com/cellarapp/cellar-server/internal/domain"
	"github.com/cellarapp/cellar-server/internal/store"
)

// noteColumns is the ordered list of columns selected in tasting note
// queries. Must match the scan order in scanNote.
const noteColumns = `id, created_at, updated_at, owner_id, bottle_name, vintage, type, domain, rating, comment`

// scanNote scans a sql.Row (or sql.Rows via its Scan method) into a domain.TastingNote.
func scanNote(scanner interface{ Scan(dest ...any) error }) (*domain.TastingNote, error) {
	var n domain.TastingNote

	var (
		createdAt string
		updatedAt string
		vintage   sql.NullInt64
		wineDom   sql.NullString
		rating    sql.NullFloat64
		comment   sql.NullString
	)

	err := scanner.Scan(
		&n.ID,
		&createdAt,
		&updatedAt,
		&n.OwnerID,
		&n.BottleName,
		&vintage,
		&n.Type,
		&wineDom,
		&rating,
		&comment,
	)
	if err != nil {
		return nil, err
	}

	// Parse timestamps.
	n.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	n.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	n.Vintage = intPtr(vintage)
	n.Domain = strPtr(wineDom)
	n.Rating = floatPtr(rating)
	if comment.Valid {
		n.Comment = comment.String
	}

	return &n, nil
}

// identityClause matches tasting notes by wine identity. NULL vintage
// and domain match only NULL, mirroring domain.WineIdentity.Equal.
const identityClause = `owner_id = ? AND bottle_name = ? AND type = ?
	AND (vintage = ? OR (vintage IS NULL AND ? IS NULL))
	AND (domain = ? OR (domain IS NULL AND ? IS NULL))`

// identityArgs returns the bind arguments for identityClause.
func identityArgs(id domain.WineIdentity) []any {
	vintage := nullableInt(id.Vintage)
	wineDom := nullableString(id.Domain)
	return []any{id.OwnerID, id.Name, id.Type, vintage, vintage, wineDom, wineDom}
}

// UpsertTastingNote inserts a note for a wine identity, or overwrites
// the rating and comment of the existing one. The note's ID is only
// used when a new row is created.
func (t *Tx) UpsertTastingNote(ctx context.Context, note *domain.TastingNote) error {
	var existingID string
	err := t.tx.QueryRowContext(ctx,
		`SELECT id FROM tasting_notes WHERE `+identityClause,
		identityArgs(note.Identity())...,
	).Scan(&existingID)

	switch {
	case err == sql.ErrNoRows:
		_, err = t.tx.ExecContext(ctx, `
			INSERT INTO tasting_notes (
				id, created_at, updated_at, owner_id, bottle_name, vintage, type, domain, rating, comment
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			note.ID,
			formatTime(note.CreatedAt),
			formatTime(note.UpdatedAt),
			note.OwnerID,
			note.BottleName,
			nullableInt(note.Vintage),
			note.Type,
			nullableString(note.Domain),
			nullableFloat(note.Rating),
			nullString(note.Comment),
		)
		return err

	case err != nil:
		return err

	default:
		_, err = t.tx.ExecContext(ctx, `
			UPDATE tasting_notes SET updated_at = ?, rating = ?, comment = ? WHERE id = ?`,
			formatTime(note.UpdatedAt),
			nullableFloat(note.Rating),
			nullString(note.Comment),
			existingID,
		)
		return err
	}
}

// GetNoteByIdentity retrieves the tasting note for a wine identity.
// Returns store.ErrNotFound when no note exists.
func (s *Store) GetNoteByIdentity(ctx context.Context, id domain.WineIdentity) (*domain.TastingNote, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+noteColumns+` FROM tasting_notes WHERE `+identityClause,
		identityArgs(id)...,
	)

	n, err := scanNote(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return n, nil
}
