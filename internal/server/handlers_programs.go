package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/meltforce/liftlog/internal/models"
)

func (s *Server) handleListPrograms(w http.ResponseWriter, r *http.Request) {
	programs, err := s.catalog.ListPrograms(r.Context())
	if err != nil {
		s.log.Error("listing programs", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if programs == nil {
		programs = []models.Program{}
	}
	writeJSON(w, http.StatusOK, programs)
}

func (s *Server) handleGetProgram(w http.ResponseWriter, r *http.Request) {
	program, err := s.catalog.GetProgramByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.log.Error("getting program", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if program == nil {
		writeError(w, http.StatusNotFound, "program not found")
		return
	}
	writeJSON(w, http.StatusOK, program)
}

func (s *Server) handleCreateProgram(w http.ResponseWriter, r *http.Request) {
	var program models.Program
	if err := json.NewDecoder(r.Body).Decode(&program); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if program.Name == "" {
		writeError(w, http.StatusBadRequest, "name required")
		return
	}
	for i, ex := range program.Exercises {
		if ex.Name == "" {
			writeError(w, http.StatusBadRequest, "exercise name required")
			return
		}
		if ex.TargetSets <= 0 {
			writeError(w, http.StatusBadRequest, "targetSets must be positive")
			return
		}
		if ex.RestSeconds < 0 {
			writeError(w, http.StatusBadRequest, "restSeconds must not be negative")
			return
		}
		program.Exercises[i] = ex
	}

	created, err := s.catalog.CreateProgram(r.Context(), program)
	if err != nil {
		s.log.Error("creating program", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

type cloneProgramRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleCloneProgram(w http.ResponseWriter, r *http.Request) {
	var req cloneProgramRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
			return
		}
	}

	clone, err := s.catalog.CloneProgram(r.Context(), chi.URLParam(r, "id"), req.Name)
	if err != nil {
		s.log.Error("cloning program", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if clone == nil {
		writeError(w, http.StatusNotFound, "program not found")
		return
	}
	writeJSON(w, http.StatusCreated, clone)
}

func (s *Server) handleDeleteProgram(w http.ResponseWriter, r *http.Request) {
	deleted, err := s.catalog.DeleteProgram(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.log.Error("deleting program", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "program not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
