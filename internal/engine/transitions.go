package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/meltforce/liftlog/internal/models"
)

// NewSession builds a fresh session for a program: one progress entry per
// exercise in program order, each with exactly targetSets empty set records
// numbered from 1. Pure function of its inputs.
func NewSession(p models.Program, now time.Time) *models.Session {
	exercises := make([]models.ExerciseProgress, len(p.Exercises))
	for i, spec := range p.Exercises {
		sets := make([]models.SetRecord, spec.TargetSets)
		for j := range sets {
			sets[j] = models.SetRecord{Number: j + 1}
		}
		exercises[i] = models.ExerciseProgress{ExerciseID: spec.ID, Sets: sets}
	}
	return &models.Session{
		ID:          uuid.NewString(),
		ProgramID:   p.ID,
		ProgramName: p.Name,
		StartedAt:   now,
		Exercises:   exercises,
	}
}

// applyCompleteSet marks one set completed and advances the session
// pointers. It returns the rest interval to begin, or 0 when no rest period
// should start (last set of the exercise, or a zero-interval spec).
//
// Advancement is forward-only: when an exercise is exhausted the search for
// the next exercise starts after the current index and never rewinds, so
// completing sets out of order cannot move the pointer backwards.
func applyCompleteSet(s *models.Session, p models.Program, exIdx, setIdx int, weight *float64, reps *int, now time.Time) (restSeconds int, err error) {
	if exIdx < 0 || exIdx >= len(s.Exercises) {
		return 0, fmt.Errorf("%w: exercise %d", ErrNoSuchSet, exIdx)
	}
	ep := &s.Exercises[exIdx]
	if setIdx < 0 || setIdx >= len(ep.Sets) {
		return 0, fmt.Errorf("%w: exercise %d set %d", ErrNoSuchSet, exIdx, setIdx)
	}
	rec := &ep.Sets[setIdx]
	if rec.Completed {
		return 0, fmt.Errorf("%w: exercise %d set %d", ErrSetAlreadyCompleted, exIdx, setIdx)
	}

	rec.Completed = true
	completedAt := now
	rec.CompletedAt = &completedAt
	rec.Weight = weight
	rec.Reps = reps

	if next := ep.NextIncompleteSet(); next >= 0 {
		ep.CurrentSet = next
		if spec := findSpec(p, exIdx); spec != nil {
			return spec.RestSeconds, nil
		}
		return 0, nil
	}

	// Exercise exhausted: advance to the first later exercise with work
	// left. When none exists the pointer stays put and the session simply
	// awaits finishing.
	for i := s.CurrentExercise + 1; i < len(s.Exercises); i++ {
		if s.Exercises[i].NextIncompleteSet() >= 0 {
			s.CurrentExercise = i
			break
		}
	}
	return 0, nil
}

func findSpec(p models.Program, exIdx int) *models.ExerciseSpec {
	if exIdx < 0 || exIdx >= len(p.Exercises) {
		return nil
	}
	return &p.Exercises[exIdx]
}

// applyBeginRest enters the resting state with an absolute anchor.
func applyBeginRest(s *models.Session, seconds int, now time.Time) {
	anchor := now
	s.Resting = true
	s.RestStartedAt = &anchor
	s.RestDuration = time.Duration(seconds) * time.Second
}

// applyExpireRest leaves the resting state and drops the anchor. Pausing
// deliberately does NOT do this: pause keeps the anchor so remaining rest
// can be recomputed on unpause.
func applyExpireRest(s *models.Session) {
	s.Resting = false
	s.RestStartedAt = nil
	s.RestDuration = 0
}

// buildCompletionRecord computes the finalized summary of a session. The
// per-exercise elapsed time spans the earliest to the latest completed-set
// timestamp; an exercise with no completed set gets no elapsed time (one
// completed set yields zero).
func buildCompletionRecord(s *models.Session, p models.Program, now time.Time) models.CompletionRecord {
	completed, total := s.SetCounts()
	durationMin := int(now.Sub(s.StartedAt).Minutes())

	exercises := make([]models.ExerciseSummary, len(s.Exercises))
	for i, ep := range s.Exercises {
		var name, note, targetReps string
		if spec := p.FindExercise(ep.ExerciseID); spec != nil {
			name, note, targetReps = spec.Name, spec.Note, spec.TargetReps
		}

		summary := models.ExerciseSummary{
			ExerciseID: ep.ExerciseID,
			Name:       name,
			Note:       note,
			Sets:       make([]models.SetSummary, len(ep.Sets)),
		}

		var earliest, latest *time.Time
		for j, rec := range ep.Sets {
			summary.Sets[j] = models.SetSummary{
				Number:      rec.Number,
				Weight:      rec.Weight,
				Reps:        rec.Reps,
				TargetReps:  targetReps,
				Completed:   rec.Completed,
				CompletedAt: rec.CompletedAt,
			}
			if !rec.Completed || rec.CompletedAt == nil {
				continue
			}
			if earliest == nil || rec.CompletedAt.Before(*earliest) {
				earliest = rec.CompletedAt
			}
			if latest == nil || rec.CompletedAt.After(*latest) {
				latest = rec.CompletedAt
			}
		}
		if earliest != nil {
			elapsed := int64(latest.Sub(*earliest).Seconds())
			summary.ElapsedSeconds = &elapsed
		}
		exercises[i] = summary
	}

	notes := fmt.Sprintf("%s started %s, %d min, %d/%d sets",
		s.ProgramName, s.StartedAt.Format("15:04"), durationMin, completed, total)

	return models.CompletionRecord{
		Date:            s.StartedAt.Format("2006-01-02"),
		Type:            models.RecordTypeStrength,
		DurationMinutes: durationMin,
		ProgramName:     s.ProgramName,
		CompletedSets:   completed,
		TotalSets:       total,
		Notes:           notes,
		Exercises:       exercises,
	}
}
