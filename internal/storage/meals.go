package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/meltforce/liftlog/internal/models"
)

// InsertMeal persists a meal entry and returns the stored row.
func (db *DB) InsertMeal(ctx context.Context, meal models.MealRow) (*models.MealRow, error) {
	meal.ID = uuid.NewString()
	meal.CreatedAt = time.Now().UTC()
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO meals (id, date, name, calories, protein_g, note, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		meal.ID, meal.Date, meal.Name, meal.Calories, meal.ProteinG, meal.Note, meal.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("inserting meal: %w", err)
	}
	return &meal, nil
}

// QueryMeals retrieves meals with dates in [start, end], newest first.
func (db *DB) QueryMeals(ctx context.Context, start, end string) ([]models.MealRow, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, date, name, calories, protein_g, note, created_at
		 FROM meals
		 WHERE date >= $1 AND date <= $2
		 ORDER BY date DESC, created_at DESC`,
		start, end)
	if err != nil {
		return nil, fmt.Errorf("querying meals: %w", err)
	}
	defer rows.Close()

	var out []models.MealRow
	for rows.Next() {
		var m models.MealRow
		if err := rows.Scan(&m.ID, &m.Date, &m.Name, &m.Calories, &m.ProteinG, &m.Note, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning meal: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// DeleteMeal removes a meal. Returns true if a row was deleted.
func (db *DB) DeleteMeal(ctx context.Context, id string) (bool, error) {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM meals WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("deleting meal: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
