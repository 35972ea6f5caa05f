package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MikeSquared-Agency/Gradebook/internal/catalog"
	"github.com/MikeSquared-Agency/Gradebook/internal/grades"
	"github.com/MikeSquared-Agency/Gradebook/internal/hermes"
	"github.com/MikeSquared-Agency/Gradebook/internal/store"
)

type CatalogHandler struct {
	store  store.Store
	hermes hermes.Client
}

func NewCatalogHandler(s store.Store, h hermes.Client) *CatalogHandler {
	return &CatalogHandler{store: s, hermes: h}
}

type EnrollRequest struct {
	Code string `json:"code" validate:"required,min=2,max=32"`
}

type EnrollResponse struct {
	Module      *store.Module       `json:"module"`
	Enrolled    bool                `json:"enrolled"`
	Assessments []*store.Assessment `json:"assessments"`
}

type UpsertCatalogRequest struct {
	Title        string `json:"title" validate:"required,max=200"`
	ECTS         int    `json:"ects" validate:"min=0,max=60"`
	DefaultScale string `json:"default_scale" validate:"required,grade_scale"`
}

func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	stored, err := h.store.ListCatalog(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, catalog.Listing(stored))
}

// lookup prefers a stored catalog row over the built-in entry.
func (h *CatalogHandler) lookup(r *http.Request, code string) (*catalog.Entry, error) {
	e, err := h.store.GetCatalogEntry(r.Context(), code)
	if err != nil || e != nil {
		return e, err
	}
	if b, ok := catalog.Lookup(code); ok {
		return &b, nil
	}
	return nil, nil
}

// Enroll creates the catalog module for the user and seeds its default
// assessments as pending. Enrolling twice returns the existing module.
func (h *CatalogHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	var req EnrollRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}
	entry, err := h.lookup(r, req.Code)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if entry == nil {
		writeError(w, http.StatusNotFound, "module not found in catalog")
		return
	}

	userID := UserID(r.Context())
	m := &store.Module{
		UserID: userID,
		Code:   entry.Code,
		Title:  entry.Title,
		ECTS:   entry.ECTS,
		Scale:  entry.DefaultScale,
		Method: grades.MethodClassificationPoint,
	}
	enrolled := true
	err = h.store.CreateModule(r.Context(), m)
	switch {
	case errors.Is(err, store.ErrDuplicateCode):
		enrolled = false
		m, err = h.findByCode(r, userID, entry.Code)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if m == nil {
			writeError(w, http.StatusConflict, "module code already exists for user")
			return
		}
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	default:
		if h.hermes != nil {
			_ = h.hermes.Publish(hermes.SubjectModuleCreated(m.ID.String()), moduleEvent(m))
		}
	}

	items, err := h.store.ListAssessments(r.Context(), m.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if len(items) == 0 {
		for _, t := range catalog.Templates(entry.Code) {
			a := &store.Assessment{ModuleID: m.ID, Name: t.Name, Weight: t.Weight, Status: grades.StatusPending}
			if err := h.store.CreateAssessment(r.Context(), a); err != nil {
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
			items = append(items, a)
		}
	}
	if items == nil {
		items = []*store.Assessment{}
	}

	status := http.StatusCreated
	if !enrolled {
		status = http.StatusOK
	}
	writeJSON(w, status, EnrollResponse{Module: m, Enrolled: enrolled, Assessments: items})
}

func (h *CatalogHandler) findByCode(r *http.Request, userID, code string) (*store.Module, error) {
	modules, err := h.store.ListModules(r.Context(), store.ModuleFilter{UserID: userID, Limit: store.NoLimit})
	if err != nil {
		return nil, err
	}
	for _, m := range modules {
		if catalog.Normalize(m.Code) == code {
			return m, nil
		}
	}
	return nil, nil
}

// Upsert stores a catalog entry, overriding any built-in entry of the same
// code.
func (h *CatalogHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	code := catalog.Normalize(chi.URLParam(r, "code"))
	if code == "" || len(code) > 50 {
		writeError(w, http.StatusBadRequest, "invalid catalog code")
		return
	}
	var req UpsertCatalogRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}
	scale, _ := grades.ParseScale(req.DefaultScale)
	e := &catalog.Entry{Code: code, Title: req.Title, ECTS: req.ECTS, DefaultScale: scale}
	if err := h.store.UpsertCatalogEntry(r.Context(), e); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, e)
}

type AdminHandler struct {
	store store.Store
}

func NewAdminHandler(s store.Store) *AdminHandler {
	return &AdminHandler{store: s}
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.GetStats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
