package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/meltforce/liftlog/internal/clock"
	"github.com/meltforce/liftlog/internal/engine"
	"github.com/meltforce/liftlog/internal/models"
)

// exerciseView pairs an exercise's progress with its resolved spec and the
// suggested load from weight memory.
type exerciseView struct {
	Spec            models.ExerciseSpec     `json:"spec"`
	Progress        models.ExerciseProgress `json:"progress"`
	SuggestedWeight *float64                `json:"suggestedWeight,omitempty"`
}

// sessionView is the read-only snapshot the UI renders from. Session is
// null when nothing is live.
type sessionView struct {
	Session         *models.Session `json:"session"`
	Exercises       []exerciseView  `json:"exercises,omitempty"`
	RestRemainingMS int64           `json:"restRemainingMs"`
	WorkoutElapsed  string          `json:"workoutElapsed,omitempty"` // minutes:seconds
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, program, restRemaining, elapsed := s.engine.Snapshot()
	if session == nil {
		writeJSON(w, http.StatusOK, sessionView{})
		return
	}

	view := sessionView{
		Session:         session,
		RestRemainingMS: restRemaining.Milliseconds(),
		WorkoutElapsed:  clock.FormatElapsed(elapsed),
		Exercises:       make([]exerciseView, len(session.Exercises)),
	}
	for i, progress := range session.Exercises {
		ev := exerciseView{Progress: progress}
		if spec := program.FindExercise(progress.ExerciseID); spec != nil {
			ev.Spec = *spec
		}
		if kilos, ok := s.engine.LastWeight(progress.ExerciseID); ok {
			ev.SuggestedWeight = &kilos
		}
		view.Exercises[i] = ev
	}
	writeJSON(w, http.StatusOK, view)
}

type startSessionRequest struct {
	ProgramID string `json:"programId"`
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if req.ProgramID == "" {
		writeError(w, http.StatusBadRequest, "programId required")
		return
	}

	if err := s.engine.Start(r.Context(), req.ProgramID); err != nil {
		if errors.Is(err, engine.ErrProgramNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		s.log.Error("starting session", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.handleGetSession(w, r)
}

type resetSessionRequest struct {
	ProgramID string `json:"programId"`
	Confirm   bool   `json:"confirm"`
}

// handleResetSession discards all progress, so it demands an explicit
// confirm flag from the client.
func (s *Server) handleResetSession(w http.ResponseWriter, r *http.Request) {
	var req resetSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if req.ProgramID == "" {
		writeError(w, http.StatusBadRequest, "programId required")
		return
	}
	if !req.Confirm {
		writeError(w, http.StatusBadRequest, "reset discards the current session; set confirm=true")
		return
	}

	if err := s.engine.Reset(r.Context(), req.ProgramID); err != nil {
		if errors.Is(err, engine.ErrProgramNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		s.log.Error("resetting session", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.handleGetSession(w, r)
}

type completeSetRequest struct {
	ExerciseIndex int      `json:"exerciseIndex"`
	SetIndex      int      `json:"setIndex"`
	Weight        *float64 `json:"weight,omitempty"`
	Reps          *int     `json:"reps,omitempty"`
}

func (s *Server) handleCompleteSet(w http.ResponseWriter, r *http.Request) {
	var req completeSetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	err := s.engine.CompleteSet(r.Context(), req.ExerciseIndex, req.SetIndex, req.Weight, req.Reps)
	switch {
	case errors.Is(err, engine.ErrNoActiveSession):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, engine.ErrNoSuchSet), errors.Is(err, engine.ErrSetAlreadyCompleted):
		writeError(w, http.StatusBadRequest, err.Error())
	case err != nil:
		s.log.Error("completing set", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
	default:
		s.handleGetSession(w, r)
	}
}

func (s *Server) handleTogglePause(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.TogglePause(r.Context()); err != nil {
		s.writeSessionMutationError(w, "toggling pause", err)
		return
	}
	s.handleGetSession(w, r)
}

func (s *Server) handleSkipRest(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.SkipRest(r.Context()); err != nil {
		s.writeSessionMutationError(w, "skipping rest", err)
		return
	}
	s.handleGetSession(w, r)
}

type extendRestRequest struct {
	Seconds int `json:"seconds"`
}

func (s *Server) handleExtendRest(w http.ResponseWriter, r *http.Request) {
	var req extendRestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if req.Seconds <= 0 {
		writeError(w, http.StatusBadRequest, "seconds must be positive")
		return
	}
	if err := s.engine.ExtendRest(r.Context(), req.Seconds); err != nil {
		s.writeSessionMutationError(w, "extending rest", err)
		return
	}
	s.handleGetSession(w, r)
}

// handleFinishSession runs the two-phase finish: build the completion
// record, persist it, and only then let the engine clear the session. A
// failed save leaves the session active and resumable for a retry.
func (s *Server) handleFinishSession(w http.ResponseWriter, r *http.Request) {
	record, err := s.engine.Finish(r.Context())
	if err != nil {
		if errors.Is(err, engine.ErrNoActiveSession) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		if errors.Is(err, engine.ErrProgramNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		s.log.Error("finishing session", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	stored, err := s.db.InsertTrainingRecord(r.Context(), *record)
	if err != nil {
		s.log.Error("saving completion record, session kept", "error", err)
		writeError(w, http.StatusBadGateway, "saving completion record: "+err.Error())
		return
	}

	if err := s.engine.ConfirmFinish(r.Context()); err != nil {
		s.log.Error("clearing finished session", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, stored)
}

func (s *Server) writeSessionMutationError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, engine.ErrNoActiveSession) {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	s.log.Error(op, "error", err)
	writeError(w, http.StatusInternalServerError, err.Error())
}
