package recipe

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Repository is a database-backed repository for recipes.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new Repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{db: d}
}

// Save inserts or updates a recipe in the database.
func (r *Repository) Save(ctx context.Context, rec Recipe) error {
	rec.Normalize()
	if err := rec.Validate(); err != nil {
		return err
	}

	recipeJSON, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal recipe to JSON: %w", err)
	}

	updatedAt := time.Now().UTC()
	if rec.UpdatedAt != "" {
		parsed, err := time.Parse(time.RFC3339, rec.UpdatedAt)
		if err != nil {
			log.Warn().Err(err).Str("recipe_id", rec.ID).Str("updated_at", rec.UpdatedAt).
				Msg("Failed to parse recipe updated_at, using current time")
		} else {
			updatedAt = parsed.UTC()
		}
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO recipes (id, data, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		rec.ID, string(recipeJSON), updatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save recipe %s: %w", rec.ID, err)
	}
	return nil
}

// Get retrieves a recipe by its ID.
func (r *Repository) Get(ctx context.Context, id string) (*Recipe, error) {
	var data string
	err := r.db.QueryRowContext(ctx, `SELECT data FROM recipes WHERE id = ?`, id).Scan(&data)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Recipe not found
		}
		return nil, fmt.Errorf("failed to get recipe by ID: %w", err)
	}

	var rec Recipe
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal recipe JSON: %w", err)
	}
	return &rec, nil
}

// GetByIDs retrieves multiple recipes by their IDs. Unknown ids are simply absent from the result.
func (r *Repository) GetByIDs(ctx context.Context, ids []string) ([]Recipe, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, data FROM recipes WHERE id IN (`+placeholders+`) ORDER BY id`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get recipes by IDs: %w", err)
	}
	defer rows.Close()

	return scanRecipes(rows)
}

// List retrieves all recipes.
func (r *Repository) List(ctx context.Context) ([]Recipe, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, data FROM recipes ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	defer rows.Close()

	return scanRecipes(rows)
}

// Count returns the number of recipes in the database.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM recipes`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count recipes: %w", err)
	}
	return count, nil
}

func scanRecipes(rows *sql.Rows) ([]Recipe, error) {
	var recipes []Recipe
	for rows.Next() {
		var id, data string
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("failed to scan recipe row: %w", err)
		}

		var rec Recipe
		if err := json.Unmarshal([]byte(data), &rec); err != nil {
			// Skip corrupted rows rather than failing the whole batch.
			log.Warn().Err(err).Str("recipe_id", id).Msg("Failed to unmarshal recipe JSON")
			continue
		}
		recipes = append(recipes, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate recipe rows: %w", err)
	}
	return recipes, nil
}
