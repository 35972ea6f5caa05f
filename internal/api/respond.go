package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Gradebook/internal/store"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// loadModule resolves {id} to a module owned by the request user. Modules
// owned by someone else are reported as missing.
func loadModule(w http.ResponseWriter, r *http.Request, s store.Store) (*store.Module, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid module id")
		return nil, false
	}
	m, err := s.GetModule(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return nil, false
	}
	if m == nil || m.UserID != UserID(r.Context()) {
		writeError(w, http.StatusNotFound, "module not found")
		return nil, false
	}
	return m, true
}

// loadAssessment resolves {id} to an assessment and its owning module.
func loadAssessment(w http.ResponseWriter, r *http.Request, s store.Store) (*store.Assessment, *store.Module, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid assessment id")
		return nil, nil, false
	}
	a, err := s.GetAssessment(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return nil, nil, false
	}
	if a == nil {
		writeError(w, http.StatusNotFound, "assessment not found")
		return nil, nil, false
	}
	m, err := s.GetModule(r.Context(), a.ModuleID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return nil, nil, false
	}
	if m == nil || m.UserID != UserID(r.Context()) {
		writeError(w, http.StatusNotFound, "assessment not found")
		return nil, nil, false
	}
	return a, m, true
}

var errInvalidBody = errors.New("invalid request body")

// decode reads a JSON body into dst and runs struct validation on it.
func decode(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errInvalidBody
	}
	return validate.Struct(dst)
}

func writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrDuplicateCode) {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}
