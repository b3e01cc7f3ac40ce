package inventory

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"meal-grocer/internal/units"

	"github.com/google/uuid"
)

// Repository persists pantry stock in SQLite.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new inventory Repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{db: d}
}

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const selectColumns = `SELECT id, household_id, name, amount, unit, category, expires_at, created_at, updated_at FROM inventory_items`

// Add stores a new item, assigning its id and timestamps.
func (r *Repository) Add(ctx context.Context, item *Item) error {
	item.Unit = units.Parse(string(item.Unit))
	if err := item.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	item.CreatedAt = now
	item.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO inventory_items (id, household_id, name, amount, unit, category, expires_at, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.HouseholdID, item.Name, item.Amount, string(item.Unit),
		nullableString(item.Category), nullableTime(item.ExpiresAt),
		now.Format(timeLayout), now.Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to insert inventory item: %w", err)
	}
	return nil
}

// Get retrieves an item by id.
func (r *Repository) Get(ctx context.Context, id string) (*Item, error) {
	rows, err := r.db.QueryContext(ctx, selectColumns+` WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory item: %w", err)
	}
	defer rows.Close()

	items, err := scanItems(rows)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrNotFound
	}
	return &items[0], nil
}

// List returns the household's stock in insertion order.
func (r *Repository) List(ctx context.Context, householdID string) ([]Item, error) {
	rows, err := r.db.QueryContext(ctx, selectColumns+` WHERE household_id = ? ORDER BY created_at, rowid`, householdID)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory for %s: %w", householdID, err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// Expiring returns items that expire before the given time.
func (r *Repository) Expiring(ctx context.Context, householdID string, before time.Time) ([]Item, error) {
	rows, err := r.db.QueryContext(ctx,
		selectColumns+` WHERE household_id = ? AND expires_at IS NOT NULL AND expires_at < ? ORDER BY expires_at`,
		householdID, before.UTC().Format(timeLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to list expiring inventory for %s: %w", householdID, err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// UpdateAmount replaces the stocked quantity of an item.
func (r *Repository) UpdateAmount(ctx context.Context, id string, q units.Quantity) error {
	if q.Amount < 0 {
		return fmt.Errorf("amount must not be negative")
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE inventory_items SET amount = ?, unit = ?, updated_at = ? WHERE id = ?`,
		q.Amount, string(units.Parse(string(q.Unit))), time.Now().UTC().Format(timeLayout), id)
	if err != nil {
		return fmt.Errorf("failed to update inventory item: %w", err)
	}
	return expectOneRow(res)
}

// Delete removes an item.
func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM inventory_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete inventory item: %w", err)
	}
	return expectOneRow(res)
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanItems(rows *sql.Rows) ([]Item, error) {
	var items []Item
	for rows.Next() {
		var (
			item                 Item
			unit                 string
			category, expiresAt  sql.NullString
			createdAt, updatedAt string
		)
		if err := rows.Scan(&item.ID, &item.HouseholdID, &item.Name, &item.Amount, &unit,
			&category, &expiresAt, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan inventory item: %w", err)
		}
		item.Unit = units.Unit(unit)
		item.Category = category.String
		if expiresAt.Valid {
			t, err := time.Parse(timeLayout, expiresAt.String)
			if err != nil {
				return nil, fmt.Errorf("failed to parse expiry of item %s: %w", item.ID, err)
			}
			item.ExpiresAt = &t
		}
		item.CreatedAt, _ = time.Parse(timeLayout, createdAt)
		item.UpdatedAt, _ = time.Parse(timeLayout, updatedAt)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate inventory rows: %w", err)
	}
	return items, nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(timeLayout)
}
