package models

import "time"

// ExerciseSpec is one prescribed exercise within a program: what to do,
// for how many sets, and how long to rest between them.
type ExerciseSpec struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	TargetSets  int    `json:"targetSets"`
	TargetReps  string `json:"targetReps"` // "8" or a range like "8-12"
	RestSeconds int    `json:"restSeconds"`
	Note        string `json:"note,omitempty"`
}

// Program is an ordered list of exercise specs. Order is significant:
// it is the traversal order of a live session.
type Program struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Exercises []ExerciseSpec `json:"exercises"`
	CreatedAt time.Time      `json:"createdAt"`
}

// TotalSets returns the number of sets a full run of the program prescribes.
func (p Program) TotalSets() int {
	total := 0
	for _, ex := range p.Exercises {
		total += ex.TargetSets
	}
	return total
}

// FindExercise returns the spec with the given ID, or nil if the program
// does not contain it.
func (p Program) FindExercise(id string) *ExerciseSpec {
	for i := range p.Exercises {
		if p.Exercises[i].ID == id {
			return &p.Exercises[i]
		}
	}
	return nil
}
