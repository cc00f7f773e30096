package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/meltforce/liftlog/internal/models"
)

func (s *Server) handleQueryRecords(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseDateRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	records, err := s.db.QueryTrainingRecords(r.Context(), start, end)
	if err != nil {
		s.log.Error("querying records", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if records == nil {
		records = []models.TrainingRecordRow{}
	}
	writeJSON(w, http.StatusOK, records)
}

// handleCreateRecord logs a training record directly, bypassing the live
// session engine. Used for importing history or logging sessions tracked
// elsewhere.
func (s *Server) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	var rec models.CompletionRecord
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if rec.ProgramName == "" {
		writeError(w, http.StatusBadRequest, "programName required")
		return
	}
	if rec.Type == "" {
		rec.Type = models.RecordTypeStrength
	}
	if rec.Date == "" {
		rec.Date = time.Now().Format("2006-01-02")
	}

	stored, err := s.db.InsertTrainingRecord(r.Context(), rec)
	if err != nil {
		s.log.Error("creating record", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, stored)
}

func (s *Server) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	record, err := s.db.GetTrainingRecord(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.log.Error("getting record", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if record == nil {
		writeError(w, http.StatusNotFound, "record not found")
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	deleted, err := s.db.DeleteTrainingRecord(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.log.Error("deleting record", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "record not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleQueryMeals(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseDateRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	meals, err := s.db.QueryMeals(r.Context(), start, end)
	if err != nil {
		s.log.Error("querying meals", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if meals == nil {
		meals = []models.MealRow{}
	}
	writeJSON(w, http.StatusOK, meals)
}

func (s *Server) handleCreateMeal(w http.ResponseWriter, r *http.Request) {
	var meal models.MealRow
	if err := json.NewDecoder(r.Body).Decode(&meal); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if meal.Name == "" {
		writeError(w, http.StatusBadRequest, "name required")
		return
	}
	if meal.Date == "" {
		meal.Date = time.Now().Format("2006-01-02")
	}

	stored, err := s.db.InsertMeal(r.Context(), meal)
	if err != nil {
		s.log.Error("creating meal", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, stored)
}

func (s *Server) handleDeleteMeal(w http.ResponseWriter, r *http.Request) {
	deleted, err := s.db.DeleteMeal(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.log.Error("deleting meal", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "meal not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleQueryWeight(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseDateRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	entries, err := s.db.QueryWeightEntries(r.Context(), start, end)
	if err != nil {
		s.log.Error("querying weight entries", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if entries == nil {
		entries = []models.WeightEntryRow{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleCreateWeight(w http.ResponseWriter, r *http.Request) {
	var entry models.WeightEntryRow
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if entry.Kilos <= 0 {
		writeError(w, http.StatusBadRequest, "kilos must be positive")
		return
	}
	if entry.Date == "" {
		entry.Date = time.Now().Format("2006-01-02")
	}

	stored, err := s.db.InsertWeightEntry(r.Context(), entry)
	if err != nil {
		s.log.Error("creating weight entry", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, stored)
}

func (s *Server) handleDeleteWeight(w http.ResponseWriter, r *http.Request) {
	deleted, err := s.db.DeleteWeightEntry(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.log.Error("deleting weight entry", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "weight entry not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleVolumeStats(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseDateRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	periods, err := s.db.GetWeeklyVolume(r.Context(), start, end)
	if err != nil {
		s.log.Error("querying volume stats", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, periods)
}
