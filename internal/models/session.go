package models

import "time"

// SetRecord is the state of a single set within a live session. Once
// Completed is true the record is write-once: no transition alters it again
// short of discarding the whole session.
type SetRecord struct {
	Number      int        `json:"number"` // 1-based, matches position within the exercise
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	Weight      *float64   `json:"weight,omitempty"`
	Reps        *int       `json:"reps,omitempty"`
}

// ExerciseProgress tracks one exercise through a live session. The Sets
// slice length is fixed at session creation to the spec's target set count
// and never resized.
type ExerciseProgress struct {
	ExerciseID string      `json:"exerciseId"`
	Sets       []SetRecord `json:"sets"`
	CurrentSet int         `json:"currentSet"` // 0-based; may point past the end once all sets are done
}

// CompletedSets returns how many sets of this exercise are done.
func (ep ExerciseProgress) CompletedSets() int {
	n := 0
	for _, set := range ep.Sets {
		if set.Completed {
			n++
		}
	}
	return n
}

// NextIncompleteSet returns the index of the lowest-numbered set that is not
// yet completed, or -1 if every set is done.
func (ep ExerciseProgress) NextIncompleteSet() int {
	for i, set := range ep.Sets {
		if !set.Completed {
			return i
		}
	}
	return -1
}

// Session is the resumable state of one live workout. All time accounting is
// derived from the absolute timestamps stored here; nothing accumulates in a
// running counter, so a reload or a suspended tab never corrupts it.
//
// Invariant: Resting==true implies RestStartedAt and RestDuration are set;
// Resting==false implies both are absent.
type Session struct {
	ID              string             `json:"id"`
	ProgramID       string             `json:"programId"`
	ProgramName     string             `json:"programName"` // captured at creation; later renames don't alter history
	StartedAt       time.Time          `json:"startedAt"`
	Exercises       []ExerciseProgress `json:"exercises"`
	CurrentExercise int                `json:"currentExercise"`
	Resting         bool               `json:"resting"`
	RestStartedAt   *time.Time         `json:"restStartedAt,omitempty"`
	RestDuration    time.Duration      `json:"restDuration,omitempty"`
	Paused          bool               `json:"paused"`
}

// SetCounts returns (completed, total) across all exercises.
func (s *Session) SetCounts() (int, int) {
	completed, total := 0, 0
	for _, ep := range s.Exercises {
		completed += ep.CompletedSets()
		total += len(ep.Sets)
	}
	return completed, total
}

// RestEnd returns the absolute end of the current rest period. Only
// meaningful while Resting is true.
func (s *Session) RestEnd() time.Time {
	if s.RestStartedAt == nil {
		return time.Time{}
	}
	return s.RestStartedAt.Add(s.RestDuration)
}

// Clone returns a deep copy, safe to hand to renderers while the engine
// keeps mutating the original.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := *s
	out.Exercises = make([]ExerciseProgress, len(s.Exercises))
	for i, ep := range s.Exercises {
		cp := ep
		cp.Sets = make([]SetRecord, len(ep.Sets))
		for j, set := range ep.Sets {
			rec := set
			if set.CompletedAt != nil {
				t := *set.CompletedAt
				rec.CompletedAt = &t
			}
			if set.Weight != nil {
				w := *set.Weight
				rec.Weight = &w
			}
			if set.Reps != nil {
				r := *set.Reps
				rec.Reps = &r
			}
			cp.Sets[j] = rec
		}
		out.Exercises[i] = cp
	}
	if s.RestStartedAt != nil {
		t := *s.RestStartedAt
		out.RestStartedAt = &t
	}
	return &out
}
