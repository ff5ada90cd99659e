package recipe

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Repository is a database-backed store for the recipe catalog.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new Repository.
func NewRepository(d *sql.DB) *Repository {
	return &Repository{db: d}
}

// ReplaceAll swaps the stored catalog for recipes in a single transaction.
func (r *Repository) ReplaceAll(ctx context.Context, recipes []Recipe) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin catalog import: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM recipes`); err != nil {
		return fmt.Errorf("failed to clear recipes: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO recipes (name, calories, protein, carbs, fat, cuisine, diet_type, imported_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare recipe insert: %w", err)
	}
	defer stmt.Close()

	importedAt := time.Now().UTC().Format(time.DateTime)
	for _, rec := range recipes {
		if _, err := stmt.ExecContext(ctx,
			rec.Name, rec.Calories, rec.Protein, rec.Carbs, rec.Fat, rec.Cuisine, rec.DietType, importedAt,
		); err != nil {
			return fmt.Errorf("failed to insert recipe %q: %w", rec.Name, err)
		}
	}

	return tx.Commit()
}

// List retrieves every stored recipe in insertion order.
func (r *Repository) List(ctx context.Context) ([]Recipe, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT name, calories, protein, carbs, fat, cuisine, diet_type
		FROM recipes ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	defer rows.Close()

	var recipes []Recipe
	for rows.Next() {
		var rec Recipe
		if err := rows.Scan(&rec.Name, &rec.Calories, &rec.Protein, &rec.Carbs, &rec.Fat, &rec.Cuisine, &rec.DietType); err != nil {
			return nil, fmt.Errorf("failed to scan recipe: %w", err)
		}
		recipes = append(recipes, rec)
	}
	return recipes, rows.Err()
}

// Count returns the number of stored recipes.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM recipes`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count recipes: %w", err)
	}
	return count, nil
}
