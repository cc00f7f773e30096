// Package catalog manages the training-program library: ordered exercise
// specs grouped under named programs. The live-session engine only reads
// from it; the thin CRUD here serves the program-builder endpoints.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/storage"
)

// Catalog is the program library backed by Postgres. Exercise lists are
// stored as JSONB to keep the ordered sequence intact without a join table.
type Catalog struct {
	db  *storage.DB
	log *slog.Logger
}

// New creates a Catalog.
func New(db *storage.DB, log *slog.Logger) *Catalog {
	return &Catalog{db: db, log: log}
}

// ListPrograms returns all programs, oldest first.
func (c *Catalog) ListPrograms(ctx context.Context) ([]models.Program, error) {
	rows, err := c.db.Pool.Query(ctx,
		`SELECT id, name, exercises, created_at FROM programs ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying programs: %w", err)
	}
	defer rows.Close()

	var out []models.Program
	for rows.Next() {
		p, err := scanProgram(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetProgramByID returns the program, or nil if it does not exist.
func (c *Catalog) GetProgramByID(ctx context.Context, id string) (*models.Program, error) {
	rows, err := c.db.Pool.Query(ctx,
		`SELECT id, name, exercises, created_at FROM programs WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("querying program: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	p, err := scanProgram(rows)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProgram inserts a program, assigning IDs where missing: the program
// gets a UUID, and any exercise without an ID gets one derived from a UUID.
func (c *Catalog) CreateProgram(ctx context.Context, p models.Program) (*models.Program, error) {
	p.ID = uuid.NewString()
	p.CreatedAt = time.Now().UTC()
	for i := range p.Exercises {
		if p.Exercises[i].ID == "" {
			p.Exercises[i].ID = uuid.NewString()
		}
	}
	if err := c.insert(ctx, p); err != nil {
		return nil, err
	}
	return &p, nil
}

// CloneProgram copies an existing program under a new name. Exercise IDs
// are preserved so weight memory carries over to the clone.
func (c *Catalog) CloneProgram(ctx context.Context, id, newName string) (*models.Program, error) {
	src, err := c.GetProgramByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if src == nil {
		return nil, nil
	}

	clone := *src
	clone.ID = uuid.NewString()
	clone.CreatedAt = time.Now().UTC()
	if newName != "" {
		clone.Name = newName
	} else {
		clone.Name = src.Name + " (copy)"
	}
	if err := c.insert(ctx, clone); err != nil {
		return nil, err
	}
	return &clone, nil
}

// DeleteProgram removes a program. Returns true if a row was deleted.
func (c *Catalog) DeleteProgram(ctx context.Context, id string) (bool, error) {
	tag, err := c.db.Pool.Exec(ctx, `DELETE FROM programs WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("deleting program: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (c *Catalog) insert(ctx context.Context, p models.Program) error {
	exercises, err := json.Marshal(p.Exercises)
	if err != nil {
		return fmt.Errorf("encoding exercises: %w", err)
	}
	_, err = c.db.Pool.Exec(ctx,
		`INSERT INTO programs (id, name, exercises, created_at) VALUES ($1,$2,$3,$4)`,
		p.ID, p.Name, exercises, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting program: %w", err)
	}
	return nil
}

func scanProgram(rows pgx.Rows) (models.Program, error) {
	var p models.Program
	var exercises []byte
	if err := rows.Scan(&p.ID, &p.Name, &exercises, &p.CreatedAt); err != nil {
		return p, fmt.Errorf("scanning program: %w", err)
	}
	if len(exercises) > 0 {
		if err := json.Unmarshal(exercises, &p.Exercises); err != nil {
			return p, fmt.Errorf("decoding exercises for %s: %w", p.ID, err)
		}
	}
	return p, nil
}
