package shopping

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// MarkRepository persists which list items a user has checked off.
// Marks are keyed by the stable item id, so they survive list regeneration.
type MarkRepository struct {
	db *sql.DB
}

// NewMarkRepository creates a new MarkRepository.
func NewMarkRepository(d *sql.DB) *MarkRepository {
	return &MarkRepository{db: d}
}

// SetPurchased records the purchased flag for an item.
func (r *MarkRepository) SetPurchased(ctx context.Context, userID, itemID string, purchased bool) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO purchase_marks (user_id, item_id, purchased, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(user_id, item_id) DO UPDATE SET purchased = excluded.purchased, updated_at = excluded.updated_at`,
		userID, itemID, purchased, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to save purchase mark: %w", err)
	}
	return nil
}

// PurchasedIDs returns the ids of items the user marked as purchased.
func (r *MarkRepository) PurchasedIDs(ctx context.Context, userID string) (map[string]bool, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT item_id FROM purchase_marks WHERE user_id = ? AND purchased = 1`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchase marks for user %s: %w", userID, err)
	}
	defer rows.Close()

	ids := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan purchase mark: %w", err)
		}
		ids[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate purchase marks: %w", err)
	}
	return ids, nil
}

// Clear removes all of the user's marks and returns how many were deleted.
func (r *MarkRepository) Clear(ctx context.Context, userID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM purchase_marks WHERE user_id = ?`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear purchase marks: %w", err)
	}
	return res.RowsAffected()
}
