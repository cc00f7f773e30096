package catalog

import (
	"context"
	"fmt"

	"github.com/meltforce/liftlog/internal/models"
)

// defaultPrograms is the starter library seeded into an empty catalog.
func defaultPrograms() []models.Program {
	return []models.Program{
		{
			Name: "Push Day",
			Exercises: []models.ExerciseSpec{
				{Name: "Bench Press", TargetSets: 4, TargetReps: "6-8", RestSeconds: 150},
				{Name: "Overhead Press", TargetSets: 3, TargetReps: "8-10", RestSeconds: 120},
				{Name: "Incline Dumbbell Press", TargetSets: 3, TargetReps: "8-12", RestSeconds: 90},
				{Name: "Triceps Pushdown", TargetSets: 3, TargetReps: "10-15", RestSeconds: 60},
			},
		},
		{
			Name: "Pull Day",
			Exercises: []models.ExerciseSpec{
				{Name: "Deadlift", TargetSets: 3, TargetReps: "5", RestSeconds: 180, Note: "belt on top sets"},
				{Name: "Barbell Row", TargetSets: 4, TargetReps: "6-8", RestSeconds: 120},
				{Name: "Lat Pulldown", TargetSets: 3, TargetReps: "10-12", RestSeconds: 90},
				{Name: "Biceps Curl", TargetSets: 3, TargetReps: "10-15", RestSeconds: 60},
			},
		},
	}
}

// SeedDefaults inserts the starter programs when the catalog is empty.
// Idempotent across restarts: a non-empty catalog is left untouched.
func (c *Catalog) SeedDefaults(ctx context.Context) error {
	var count int
	if err := c.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM programs`).Scan(&count); err != nil {
		return fmt.Errorf("counting programs: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, p := range defaultPrograms() {
		created, err := c.CreateProgram(ctx, p)
		if err != nil {
			return fmt.Errorf("seeding %q: %w", p.Name, err)
		}
		c.log.Info("seeded default program", "name", created.Name, "exercises", len(created.Exercises))
	}
	return nil
}
