package models

import "time"

// RecordTypeStrength tags completion records produced by the live session
// engine, distinguishing them from other training record kinds.
const RecordTypeStrength = "strength"

// SetSummary is the per-set detail inside a completion record.
type SetSummary struct {
	Number      int        `json:"number"`
	Weight      *float64   `json:"weight,omitempty"`
	Reps        *int       `json:"reps,omitempty"`
	TargetReps  string     `json:"targetReps"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// ExerciseSummary is the per-exercise breakdown inside a completion record.
// ElapsedSeconds spans the first to the last completed-set timestamp; it is
// nil when the exercise has no completed set (a single completed set yields
// zero, not nil).
type ExerciseSummary struct {
	ExerciseID     string       `json:"exerciseId"`
	Name           string       `json:"name"`
	Note           string       `json:"note,omitempty"`
	ElapsedSeconds *int64       `json:"elapsedSeconds,omitempty"`
	Sets           []SetSummary `json:"sets"`
}

// CompletionRecord is the finalized summary of a live session, handed to the
// storage layer as a training-record creation payload.
type CompletionRecord struct {
	Date            string            `json:"date"` // YYYY-MM-DD, the session's start date
	Type            string            `json:"type"`
	DurationMinutes int               `json:"durationMinutes"`
	ProgramName     string            `json:"programName"`
	CompletedSets   int               `json:"completedSets"`
	TotalSets       int               `json:"totalSets"`
	Notes           string            `json:"notes"`
	Exercises       []ExerciseSummary `json:"exercises"`
}

// TrainingRecordRow is a persisted completion record.
type TrainingRecordRow struct {
	ID              string            `json:"id"`
	Date            string            `json:"date"`
	Type            string            `json:"type"`
	DurationMinutes int               `json:"durationMinutes"`
	ProgramName     string            `json:"programName"`
	CompletedSets   int               `json:"completedSets"`
	TotalSets       int               `json:"totalSets"`
	Notes           string            `json:"notes"`
	Exercises       []ExerciseSummary `json:"exercises"`
	CreatedAt       time.Time         `json:"createdAt"`
}

// MealRow is a logged meal.
type MealRow struct {
	ID        string    `json:"id"`
	Date      string    `json:"date"` // YYYY-MM-DD
	Name      string    `json:"name"`
	Calories  int       `json:"calories"`
	ProteinG  float64   `json:"proteinGrams"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// WeightEntryRow is a logged body-weight measurement.
type WeightEntryRow struct {
	ID        string    `json:"id"`
	Date      string    `json:"date"` // YYYY-MM-DD
	Kilos     float64   `json:"kilos"`
	CreatedAt time.Time `json:"createdAt"`
}
