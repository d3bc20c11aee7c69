package sqlite

import (
	"context"
	"database/sql"

	"github.com/cellarapp/cellar-server/internal/domain"
)

// bottleNoteJoin matches a tasting note (aliased n) against a bottle
// (aliased b) by wine identity, with NULL-only-matches-NULL semantics
// for vintage and domain. Same rule as identityClause and
// domain.WineIdentity.Equal.
const bottleNoteJoin = `n.owner_id = b.owner_id AND n.bottle_name = b.name AND n.type = b.type
	AND (n.vintage = b.vintage OR (n.vintage IS NULL AND b.vintage IS NULL))
	AND (n.domain = b.domain OR (n.domain IS NULL AND b.domain IS NULL))`

// ListTastingHistory returns one entry per archived bottle owned by the
// user, most recently archived first. Each entry carries the matching
// tasting note (if any) and the average rating over all notes sharing
// the bottle's identity. Bottles with equal identities stay separate
// rows.
func (s *Store) ListTastingHistory(ctx context.Context, ownerID string) ([]*domain.TastingHistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT b.id, b.name, b.vintage, b.type, b.domain, b.quantity, b.label,
			n.rating, n.comment,
			(SELECT AVG(n.rating) FROM tasting_notes n WHERE `+bottleNoteJoin+`) AS avg_rating
		FROM bottles b
		LEFT JOIN tasting_notes n ON `+bottleNoteJoin+`
		WHERE b.owner_id = ? AND b.status = ? AND b.deleted = 0
		ORDER BY b.updated_at DESC, b.id DESC`,
		ownerID, domain.BottleArchived,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.TastingHistoryEntry
	for rows.Next() {
		var (
			e         domain.TastingHistoryEntry
			vintage   sql.NullInt64
			wineDom   sql.NullString
			label     sql.NullString
			rating    sql.NullFloat64
			comment   sql.NullString
			avgRating sql.NullFloat64
		)
		err := rows.Scan(
			&e.BottleID,
			&e.Name,
			&vintage,
			&e.Type,
			&wineDom,
			&e.Quantity,
			&label,
			&rating,
			&comment,
			&avgRating,
		)
		if err != nil {
			return nil, err
		}

		e.Vintage = intPtr(vintage)
		e.Domain = strPtr(wineDom)
		if label.Valid {
			e.Label = label.String
		}
		e.Rating = floatPtr(rating)
		if comment.Valid {
			e.Comment = comment.String
		}
		e.AverageRating = floatPtr(avgRating)

		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
