package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/meltforce/liftlog/internal/models"
)

// InsertWeightEntry persists a body-weight measurement and returns the
// stored row.
func (db *DB) InsertWeightEntry(ctx context.Context, entry models.WeightEntryRow) (*models.WeightEntryRow, error) {
	entry.ID = uuid.NewString()
	entry.CreatedAt = time.Now().UTC()
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO weight_entries (id, date, kilos, created_at) VALUES ($1,$2,$3,$4)`,
		entry.ID, entry.Date, entry.Kilos, entry.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("inserting weight entry: %w", err)
	}
	return &entry, nil
}

// QueryWeightEntries retrieves measurements with dates in [start, end],
// oldest first (chart order).
func (db *DB) QueryWeightEntries(ctx context.Context, start, end string) ([]models.WeightEntryRow, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, date, kilos, created_at
		 FROM weight_entries
		 WHERE date >= $1 AND date <= $2
		 ORDER BY date ASC`,
		start, end)
	if err != nil {
		return nil, fmt.Errorf("querying weight entries: %w", err)
	}
	defer rows.Close()

	var out []models.WeightEntryRow
	for rows.Next() {
		var e models.WeightEntryRow
		if err := rows.Scan(&e.ID, &e.Date, &e.Kilos, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning weight entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// DeleteWeightEntry removes a measurement. Returns true if a row was deleted.
func (db *DB) DeleteWeightEntry(ctx context.Context, id string) (bool, error) {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM weight_entries WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("deleting weight entry: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
