package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/meltforce/liftlog/internal/engine"
	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/statestore"
)

type stubCatalog struct {
	programs map[string]models.Program
}

func (c *stubCatalog) GetProgramByID(_ context.Context, id string) (*models.Program, error) {
	p, ok := c.programs[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// newTestServer wires real engine + real SQLite state store + stub program
// source. The Postgres-backed handlers are not exercised here.
func newTestServer(t *testing.T, apiKey string) *Server {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	store, err := statestore.Open(t.TempDir(), log)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })

	cat := &stubCatalog{programs: map[string]models.Program{
		"push-day": {
			ID:   "push-day",
			Name: "Push Day",
			Exercises: []models.ExerciseSpec{
				{ID: "bench-press", Name: "Bench Press", TargetSets: 2, TargetReps: "8", RestSeconds: 75},
			},
		},
	}}

	eng := engine.New(cat, store, store, log)
	t.Cleanup(eng.Timers().StopAll)

	return New(nil, nil, eng, apiKey, log)
}

func postJSON(t *testing.T, s *Server, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func getSessionView(t *testing.T, s *Server) sessionView {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/session", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET session status = %d", rec.Code)
	}
	var view sessionView
	if err := json.NewDecoder(rec.Body).Decode(&view); err != nil {
		t.Fatalf("decoding session view: %v", err)
	}
	return view
}

// TestGetSessionEmpty verifies the snapshot endpoint reports no session as
// a null session, not an error.
func TestGetSessionEmpty(t *testing.T) {
	s := newTestServer(t, "")
	view := getSessionView(t, s)
	if view.Session != nil {
		t.Errorf("session = %+v, want nil", view.Session)
	}
}

// TestStartSessionFlow verifies start returns the live view with resolved
// specs, and completing a set through the API begins the rest period.
func TestStartSessionFlow(t *testing.T) {
	s := newTestServer(t, "")

	rec := postJSON(t, s, "/api/v1/session/start", `{"programId":"push-day"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("start status = %d: %s", rec.Code, rec.Body)
	}

	view := getSessionView(t, s)
	if view.Session == nil {
		t.Fatal("no session after start")
	}
	if view.Session.ProgramName != "Push Day" {
		t.Errorf("program name = %q", view.Session.ProgramName)
	}
	if len(view.Exercises) != 1 || view.Exercises[0].Spec.Name != "Bench Press" {
		t.Fatalf("exercises view = %+v", view.Exercises)
	}

	rec = postJSON(t, s, "/api/v1/session/sets", `{"exerciseIndex":0,"setIndex":0,"weight":100}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("complete set status = %d: %s", rec.Code, rec.Body)
	}

	view = getSessionView(t, s)
	if !view.Session.Resting {
		t.Error("expected resting after first set")
	}
	if view.RestRemainingMS <= 0 || view.RestRemainingMS > 75_000 {
		t.Errorf("rest remaining = %d ms", view.RestRemainingMS)
	}
	if view.Exercises[0].SuggestedWeight == nil || *view.Exercises[0].SuggestedWeight != 100 {
		t.Errorf("suggested weight = %v, want 100", view.Exercises[0].SuggestedWeight)
	}

	rec = postJSON(t, s, "/api/v1/session/rest/skip", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("skip rest status = %d", rec.Code)
	}
	if view = getSessionView(t, s); view.Session.Resting {
		t.Error("still resting after skip")
	}
}

// TestStartUnknownProgramIs404 verifies the catalog miss surfaces as 404.
func TestStartUnknownProgramIs404(t *testing.T) {
	s := newTestServer(t, "")
	rec := postJSON(t, s, "/api/v1/session/start", `{"programId":"leg-day"}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

// TestMutationWithoutSessionIs409 verifies user-initiated mutations with no
// live session report a conflict.
func TestMutationWithoutSessionIs409(t *testing.T) {
	s := newTestServer(t, "")
	for _, path := range []string{
		"/api/v1/session/pause",
		"/api/v1/session/rest/skip",
		"/api/v1/session/finish",
	} {
		if rec := postJSON(t, s, path, ""); rec.Code != http.StatusConflict {
			t.Errorf("%s status = %d, want 409", path, rec.Code)
		}
	}
	if rec := postJSON(t, s, "/api/v1/session/sets", `{"exerciseIndex":0,"setIndex":0}`); rec.Code != http.StatusConflict {
		t.Errorf("sets status = %d, want 409", rec.Code)
	}
}

// TestResetRequiresConfirm verifies the destructive-reset gate.
func TestResetRequiresConfirm(t *testing.T) {
	s := newTestServer(t, "")
	postJSON(t, s, "/api/v1/session/start", `{"programId":"push-day"}`)
	postJSON(t, s, "/api/v1/session/sets", `{"exerciseIndex":0,"setIndex":0,"weight":100}`)

	rec := postJSON(t, s, "/api/v1/session/reset", `{"programId":"push-day"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unconfirmed reset status = %d, want 400", rec.Code)
	}
	view := getSessionView(t, s)
	if got := view.Session.Exercises[0].CompletedSets(); got != 1 {
		t.Fatalf("unconfirmed reset lost progress: %d completed sets", got)
	}

	rec = postJSON(t, s, "/api/v1/session/reset", `{"programId":"push-day","confirm":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("confirmed reset status = %d", rec.Code)
	}
	view = getSessionView(t, s)
	if got := view.Session.Exercises[0].CompletedSets(); got != 0 {
		t.Errorf("completed sets after reset = %d, want 0", got)
	}
}

// TestTogglePauseRoundTrip verifies pausing and unpausing through the API.
func TestTogglePauseRoundTrip(t *testing.T) {
	s := newTestServer(t, "")
	postJSON(t, s, "/api/v1/session/start", `{"programId":"push-day"}`)

	if rec := postJSON(t, s, "/api/v1/session/pause", ""); rec.Code != http.StatusOK {
		t.Fatalf("pause status = %d", rec.Code)
	}
	if view := getSessionView(t, s); !view.Session.Paused {
		t.Error("not paused after toggle")
	}
	if rec := postJSON(t, s, "/api/v1/session/pause", ""); rec.Code != http.StatusOK {
		t.Fatalf("unpause status = %d", rec.Code)
	}
	if view := getSessionView(t, s); view.Session.Paused {
		t.Error("still paused after second toggle")
	}
}

// TestExtendRestValidation verifies the seconds must be positive.
func TestExtendRestValidation(t *testing.T) {
	s := newTestServer(t, "")
	postJSON(t, s, "/api/v1/session/start", `{"programId":"push-day"}`)
	if rec := postJSON(t, s, "/api/v1/session/rest/extend", `{"seconds":0}`); rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

// TestAPIKeyGuardsMutations verifies that with a configured key, reads stay
// open while session mutations demand the header.
func TestAPIKeyGuardsMutations(t *testing.T) {
	s := newTestServer(t, "secret")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/session", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("unauthenticated read status = %d, want 200", rec.Code)
	}

	if rec := postJSON(t, s, "/api/v1/session/start", `{"programId":"push-day"}`); rec.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated mutation status = %d, want 401", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/v1/session/start", strings.NewReader(`{"programId":"push-day"}`))
	req.Header.Set("X-API-Key", "secret")
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("authenticated mutation status = %d, want 200", rec.Code)
	}
}
