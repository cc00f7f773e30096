package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/meltforce/liftlog/internal/models"
)

// InsertTrainingRecord persists a completion record and returns the stored
// row. The per-exercise breakdown is kept as JSONB.
func (db *DB) InsertTrainingRecord(ctx context.Context, rec models.CompletionRecord) (*models.TrainingRecordRow, error) {
	breakdown, err := json.Marshal(rec.Exercises)
	if err != nil {
		return nil, fmt.Errorf("encoding breakdown: %w", err)
	}

	row := models.TrainingRecordRow{
		ID:              uuid.NewString(),
		Date:            rec.Date,
		Type:            rec.Type,
		DurationMinutes: rec.DurationMinutes,
		ProgramName:     rec.ProgramName,
		CompletedSets:   rec.CompletedSets,
		TotalSets:       rec.TotalSets,
		Notes:           rec.Notes,
		Exercises:       rec.Exercises,
		CreatedAt:       time.Now().UTC(),
	}

	_, err = db.Pool.Exec(ctx,
		`INSERT INTO training_records (id, date, type, duration_min, program_name,
		 completed_sets, total_sets, notes, breakdown, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		row.ID, row.Date, row.Type, row.DurationMinutes, row.ProgramName,
		row.CompletedSets, row.TotalSets, row.Notes, breakdown, row.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("inserting training record: %w", err)
	}
	return &row, nil
}

// QueryTrainingRecords retrieves records with dates in [start, end],
// newest first.
func (db *DB) QueryTrainingRecords(ctx context.Context, start, end string) ([]models.TrainingRecordRow, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, date, type, duration_min, program_name, completed_sets,
		 total_sets, notes, breakdown, created_at
		 FROM training_records
		 WHERE date >= $1 AND date <= $2
		 ORDER BY date DESC, created_at DESC`,
		start, end)
	if err != nil {
		return nil, fmt.Errorf("querying training records: %w", err)
	}
	defer rows.Close()
	return scanTrainingRecords(rows)
}

// GetTrainingRecord retrieves one record by ID, or nil if absent.
func (db *DB) GetTrainingRecord(ctx context.Context, id string) (*models.TrainingRecordRow, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, date, type, duration_min, program_name, completed_sets,
		 total_sets, notes, breakdown, created_at
		 FROM training_records WHERE id = $1`,
		id)
	if err != nil {
		return nil, fmt.Errorf("querying training record: %w", err)
	}
	defer rows.Close()
	records, err := scanTrainingRecords(rows)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return &records[0], nil
}

// DeleteTrainingRecord removes a record. Returns true if a row was deleted.
func (db *DB) DeleteTrainingRecord(ctx context.Context, id string) (bool, error) {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM training_records WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("deleting training record: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanTrainingRecords(rows pgx.Rows) ([]models.TrainingRecordRow, error) {
	var out []models.TrainingRecordRow
	for rows.Next() {
		var r models.TrainingRecordRow
		var breakdown []byte
		if err := rows.Scan(&r.ID, &r.Date, &r.Type, &r.DurationMinutes, &r.ProgramName,
			&r.CompletedSets, &r.TotalSets, &r.Notes, &breakdown, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning training record: %w", err)
		}
		if len(breakdown) > 0 {
			if err := json.Unmarshal(breakdown, &r.Exercises); err != nil {
				return nil, fmt.Errorf("decoding breakdown for %s: %w", r.ID, err)
			}
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// VolumePeriod is one week of aggregated training volume.
type VolumePeriod struct {
	WeekStart     string `json:"weekStart"` // YYYY-MM-DD, Monday
	Sessions      int    `json:"sessions"`
	CompletedSets int    `json:"completedSets"`
	TotalMinutes  int    `json:"totalMinutes"`
}

// GetWeeklyVolume aggregates sessions, completed sets, and training minutes
// per ISO week over the given date range.
func (db *DB) GetWeeklyVolume(ctx context.Context, start, end string) ([]VolumePeriod, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT to_char(date_trunc('week', date::date), 'YYYY-MM-DD') AS week_start,
		 COUNT(*), COALESCE(SUM(completed_sets), 0), COALESCE(SUM(duration_min), 0)
		 FROM training_records
		 WHERE date >= $1 AND date <= $2
		 GROUP BY week_start
		 ORDER BY week_start`,
		start, end)
	if err != nil {
		return nil, fmt.Errorf("querying weekly volume: %w", err)
	}
	defer rows.Close()

	var out []VolumePeriod
	for rows.Next() {
		var p VolumePeriod
		if err := rows.Scan(&p.WeekStart, &p.Sessions, &p.CompletedSets, &p.TotalMinutes); err != nil {
			return nil, fmt.Errorf("scanning weekly volume: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
