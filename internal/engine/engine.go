// Package engine is the live training-session state machine. It turns a
// static program into a resumable, time-aware session: set completion,
// exercise advancement, rest-period lifecycle, pause/resume reconciliation,
// and finalization into a completion record.
//
// Every transition is a single read-modify-persist cycle guarded by one
// mutex, so no two mutations are ever in flight concurrently. All time
// accounting derives from absolute timestamps stored in the snapshot; the
// timers in internal/clock only redraw and expire, they never hold state.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/meltforce/liftlog/internal/clock"
	"github.com/meltforce/liftlog/internal/models"
)

// ProgramSource is the program catalog as the engine sees it: read-only
// lookup. GetProgramByID returns (nil, nil) when the program does not exist.
type ProgramSource interface {
	GetProgramByID(ctx context.Context, id string) (*models.Program, error)
}

// SessionStore holds at most one session snapshot. LoadSession returns
// (nil, nil) when none is persisted.
type SessionStore interface {
	LoadSession() (*models.Session, error)
	SaveSession(*models.Session) error
	ClearSession() error
}

// WeightMemory caches the last load used per exercise. Writes are
// best-effort from the engine's perspective.
type WeightMemory interface {
	LastWeight(exerciseID string) (float64, bool)
	SetLastWeight(exerciseID string, kilos float64) error
}

// Engine owns the active session. The in-memory session is authoritative
// between transitions; every mutation is written through to the store so a
// crash or restart resumes exactly where the user left off.
type Engine struct {
	mu       sync.Mutex
	programs ProgramSource
	store    SessionStore
	weights  WeightMemory
	timers   *clock.Driver
	log      *slog.Logger
	now      func() time.Time

	session *models.Session
	program *models.Program // spec of the active session, cached at start/resume
}

// Option configures an Engine.
type Option func(*Engine)

// WithNow replaces the wall clock, for tests.
func WithNow(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates an Engine. It performs no I/O; call Resume to pick up a
// persisted session.
func New(programs ProgramSource, store SessionStore, weights WeightMemory, log *slog.Logger, opts ...Option) *Engine {
	e := &Engine{
		programs: programs,
		store:    store,
		weights:  weights,
		log:      log,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.timers = clock.New(e.now)
	return e
}

// Timers exposes the clock driver, e.g. for shutdown.
func (e *Engine) Timers() *clock.Driver { return e.timers }

// Start looks up the program, builds a fresh session, persists it as the
// sole active session (replacing any prior one), and arms the workout
// clock.
func (e *Engine) Start(ctx context.Context, programID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.startLocked(ctx, programID)
}

func (e *Engine) startLocked(ctx context.Context, programID string) error {
	program, err := e.programs.GetProgramByID(ctx, programID)
	if err != nil {
		return fmt.Errorf("looking up program %s: %w", programID, err)
	}
	if program == nil {
		return fmt.Errorf("%w: %s", ErrProgramNotFound, programID)
	}

	e.timers.StopAll()
	session := NewSession(*program, e.now())
	if err := e.store.SaveSession(session); err != nil {
		return fmt.Errorf("persisting session: %w", err)
	}
	e.session = session
	e.program = program
	e.timers.StartWorkout(session.StartedAt, nil)
	e.log.Info("session started", "program", program.Name, "exercises", len(program.Exercises))
	return nil
}

// Resume loads any persisted session on process start and reconciles it
// with the wall clock. A session whose program no longer exists is treated
// as no session (shown as nothing rather than broken); a rest period that
// fully elapsed while the process was down expires immediately instead of
// lingering stale.
func (e *Engine) Resume(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	session, err := e.store.LoadSession()
	if err != nil {
		return fmt.Errorf("loading session: %w", err)
	}
	if session == nil {
		e.session = nil
		e.program = nil
		return nil
	}

	program, err := e.programs.GetProgramByID(ctx, session.ProgramID)
	if err != nil {
		return fmt.Errorf("looking up program %s: %w", session.ProgramID, err)
	}
	if program == nil {
		e.log.Warn("persisted session references missing program, ignoring",
			"program_id", session.ProgramID)
		e.session = nil
		e.program = nil
		return nil
	}

	e.session = session
	e.program = program

	if session.Paused {
		e.log.Info("session resumed paused", "program", program.Name)
		return nil
	}

	e.timers.StartWorkout(session.StartedAt, nil)
	if session.Resting {
		e.rearmOrExpireRestLocked()
		if !session.Resting {
			// Rest fully elapsed while the process was down.
			if err := e.persistLocked(); err != nil {
				return err
			}
		}
	}
	e.log.Info("session resumed", "program", program.Name, "resting", session.Resting)
	return nil
}

// rearmOrExpireRestLocked recomputes remaining rest from the stored anchor:
// positive remainders re-arm the countdown, anything else expires the rest
// period right away. The caller persists the session afterwards if needed.
func (e *Engine) rearmOrExpireRestLocked() {
	s := e.session
	remaining := clock.Remaining(e.now(), *s.RestStartedAt, s.RestDuration)
	if remaining <= 0 {
		applyExpireRest(s)
		return
	}
	e.timers.StartRest(s.RestEnd(), nil, e.onRestExpired)
}

// CompleteSet marks a set done, caches the load in weight memory, advances
// the session pointers, and begins a rest period when another set remains
// in the same exercise and the spec's interval is positive.
func (e *Engine) CompleteSet(ctx context.Context, exerciseIndex, setIndex int, weight *float64, reps *int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == nil {
		return ErrNoActiveSession
	}

	restSeconds, err := applyCompleteSet(e.session, *e.program, exerciseIndex, setIndex, weight, reps, e.now())
	if err != nil {
		return err
	}

	if weight != nil {
		exerciseID := e.session.Exercises[exerciseIndex].ExerciseID
		if werr := e.weights.SetLastWeight(exerciseID, *weight); werr != nil {
			// Best-effort cache; losing it never fails the completion.
			e.log.Warn("weight memory write failed", "exercise", exerciseID, "error", werr)
		}
	}

	if restSeconds > 0 {
		applyBeginRest(e.session, restSeconds, e.now())
		if !e.session.Paused {
			e.timers.StartRest(e.session.RestEnd(), nil, e.onRestExpired)
		}
	}

	return e.persistLocked()
}

// onRestExpired is the countdown's expiry callback. A stale callback after
// the session was cleared or stopped resting is a silent no-op.
func (e *Engine) onRestExpired() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == nil || !e.session.Resting {
		return
	}
	applyExpireRest(e.session)
	if err := e.persistLocked(); err != nil {
		e.log.Error("persisting rest expiry", "error", err)
	}
}

// SkipRest ends the current rest period immediately. No-op when not
// resting.
func (e *Engine) SkipRest(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == nil {
		return ErrNoActiveSession
	}
	if !e.session.Resting {
		return nil
	}
	e.timers.StopRest()
	applyExpireRest(e.session)
	return e.persistLocked()
}

// ExtendRest adds extra seconds to the current rest period, pushing out
// both the stored duration and the running countdown. No-op when not
// resting.
func (e *Engine) ExtendRest(ctx context.Context, seconds int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == nil {
		return ErrNoActiveSession
	}
	if !e.session.Resting {
		return nil
	}
	extra := time.Duration(seconds) * time.Second
	e.session.RestDuration += extra
	e.timers.ExtendRest(extra)
	return e.persistLocked()
}

// TogglePause flips the paused flag. Pausing disarms both timers but keeps
// every stored timestamp, including the rest anchor; unpausing re-arms the
// workout clock and recomputes remaining rest from that anchor exactly as
// Resume does. Rest keeps elapsing against the wall clock while paused.
func (e *Engine) TogglePause(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == nil {
		return ErrNoActiveSession
	}

	e.session.Paused = !e.session.Paused
	if e.session.Paused {
		e.timers.StopWorkout()
		e.timers.StopRest()
		return e.persistLocked()
	}

	e.timers.StartWorkout(e.session.StartedAt, nil)
	if e.session.Resting {
		e.rearmOrExpireRestLocked()
	}
	return e.persistLocked()
}

// Reset discards the current session and starts a fresh one for the given
// program. The destructive-confirmation gate lives at the HTTP boundary.
func (e *Engine) Reset(ctx context.Context, programID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.timers.StopAll()
	e.session = nil
	e.program = nil
	return e.startLocked(ctx, programID)
}

// Finish builds the completion record draft for the active session. It does
// NOT clear anything: the caller persists the record first and calls
// ConfirmFinish only on success, so a failed save leaves the session intact
// and resumable.
func (e *Engine) Finish(ctx context.Context) (*models.CompletionRecord, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == nil {
		return nil, ErrNoActiveSession
	}
	if e.program == nil {
		return nil, fmt.Errorf("%w: %s", ErrProgramNotFound, e.session.ProgramID)
	}
	record := buildCompletionRecord(e.session, *e.program, e.now())
	return &record, nil
}

// ConfirmFinish completes the finish handshake after the completion record
// was durably saved: disarm all timers and clear the persisted session.
func (e *Engine) ConfirmFinish(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == nil {
		return ErrNoActiveSession
	}
	e.timers.StopAll()
	if err := e.store.ClearSession(); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	e.log.Info("session finished", "program", e.session.ProgramName)
	e.session = nil
	e.program = nil
	return nil
}

// Snapshot returns a deep copy of the active session and its program spec
// for rendering, plus the derived remaining rest and workout elapsed time.
// Both durations come from the engine's clock so a rendered view always
// agrees with the transition timestamps. Returns (nil, nil, 0, 0) when no
// session is active.
func (e *Engine) Snapshot() (*models.Session, *models.Program, time.Duration, time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == nil {
		return nil, nil, 0, 0
	}
	var remaining time.Duration
	if e.session.Resting {
		remaining = clock.Remaining(e.now(), *e.session.RestStartedAt, e.session.RestDuration)
	}
	elapsed := e.now().Sub(e.session.StartedAt)
	program := *e.program
	return e.session.Clone(), &program, remaining, elapsed
}

// LastWeight exposes the weight memory for pre-filling suggested loads.
func (e *Engine) LastWeight(exerciseID string) (float64, bool) {
	return e.weights.LastWeight(exerciseID)
}

func (e *Engine) persistLocked() error {
	if err := e.store.SaveSession(e.session); err != nil {
		return fmt.Errorf("persisting session: %w", err)
	}
	return nil
}
