package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/MikeSquared-Agency/Gradebook/internal/grades"
	"github.com/MikeSquared-Agency/Gradebook/internal/hermes"
	"github.com/MikeSquared-Agency/Gradebook/internal/store"
)

const (
	defaultModuleECTS   = 5
	defaultModuleTitle  = "New Module"
	defaultCodeBase     = "NEW"
	defaultCodeAttempts = 25
)

type ModulesHandler struct {
	store  store.Store
	hermes hermes.Client
	scale  grades.Scale
	method grades.Method
}

func NewModulesHandler(s store.Store, h hermes.Client, scale grades.Scale, method grades.Method) *ModulesHandler {
	return &ModulesHandler{store: s, hermes: h, scale: scale, method: method}
}

type CreateModuleRequest struct {
	Code   string `json:"code" validate:"required,max=50"`
	Title  string `json:"title" validate:"max=200"`
	ECTS   *int   `json:"ects" validate:"omitempty,min=0,max=60"`
	Scale  string `json:"scale" validate:"omitempty,grade_scale"`
	Method string `json:"method" validate:"omitempty,grade_method"`
}

type UpdateModuleRequest struct {
	Code   *string `json:"code" validate:"omitempty,max=50"`
	Title  *string `json:"title" validate:"omitempty,max=200"`
	ECTS   *int    `json:"ects" validate:"omitempty,min=0,max=60"`
	Scale  *string `json:"scale" validate:"omitempty,grade_scale"`
	Method *string `json:"method" validate:"omitempty,grade_method"`
}

type ModuleDetail struct {
	*store.Module
	Assessments []*store.Assessment `json:"assessments"`
}

func (h *ModulesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateModuleRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}
	code := strings.TrimSpace(req.Code)
	if code == "" {
		writeError(w, http.StatusBadRequest, "code is required")
		return
	}

	m := &store.Module{
		UserID: UserID(r.Context()),
		Code:   code,
		Title:  strings.TrimSpace(req.Title),
		ECTS:   defaultModuleECTS,
		Scale:  h.scale,
		Method: h.method,
	}
	if req.ECTS != nil {
		m.ECTS = *req.ECTS
	}
	if s, ok := grades.ParseScale(req.Scale); ok {
		m.Scale = s
	}
	if meth, ok := grades.ParseMethod(req.Method); ok {
		m.Method = meth
	}

	if err := h.store.CreateModule(r.Context(), m); err != nil {
		writeStoreError(w, err)
		return
	}
	h.publish(hermes.SubjectModuleCreated(m.ID.String()), m)
	writeJSON(w, http.StatusCreated, m)
}

// CreateDefault adds a placeholder module, picking the first free code of
// NEW, NEW-2, NEW-3 and so on.
func (h *ModulesHandler) CreateDefault(w http.ResponseWriter, r *http.Request) {
	for i := 0; i < defaultCodeAttempts; i++ {
		code := defaultCodeBase
		if i > 0 {
			code = fmt.Sprintf("%s-%d", defaultCodeBase, i+1)
		}
		m := &store.Module{
			UserID: UserID(r.Context()),
			Code:   code,
			Title:  defaultModuleTitle,
			ECTS:   defaultModuleECTS,
			Scale:  grades.ScaleStandard,
			Method: grades.MethodClassificationPoint,
		}
		err := h.store.CreateModule(r.Context(), m)
		if errors.Is(err, store.ErrDuplicateCode) {
			continue
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		h.publish(hermes.SubjectModuleCreated(m.ID.String()), m)
		writeJSON(w, http.StatusCreated, m)
		return
	}
	writeError(w, http.StatusConflict, "could not create a unique module code")
}

func (h *ModulesHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := store.ModuleFilter{UserID: UserID(r.Context())}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		filter.Limit = n
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid offset")
			return
		}
		filter.Offset = n
	}

	modules, err := h.store.ListModules(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if modules == nil {
		modules = []*store.Module{}
	}
	writeJSON(w, http.StatusOK, modules)
}

func (h *ModulesHandler) Get(w http.ResponseWriter, r *http.Request) {
	m, ok := loadModule(w, r, h.store)
	if !ok {
		return
	}
	items, err := h.store.ListAssessments(r.Context(), m.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if items == nil {
		items = []*store.Assessment{}
	}
	writeJSON(w, http.StatusOK, ModuleDetail{Module: m, Assessments: items})
}

func (h *ModulesHandler) Update(w http.ResponseWriter, r *http.Request) {
	m, ok := loadModule(w, r, h.store)
	if !ok {
		return
	}
	var req UpdateModuleRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	if req.Code != nil {
		code := strings.TrimSpace(*req.Code)
		if code == "" {
			writeError(w, http.StatusBadRequest, "code cannot be empty")
			return
		}
		m.Code = code
	}
	if req.Title != nil {
		m.Title = strings.TrimSpace(*req.Title)
	}
	if req.ECTS != nil {
		m.ECTS = *req.ECTS
	}
	if req.Scale != nil {
		m.Scale, _ = grades.ParseScale(*req.Scale)
	}
	if req.Method != nil {
		m.Method, _ = grades.ParseMethod(*req.Method)
	}

	if err := h.store.UpdateModule(r.Context(), m); err != nil {
		writeStoreError(w, err)
		return
	}
	h.publish(hermes.SubjectModuleUpdated(m.ID.String()), m)
	writeJSON(w, http.StatusOK, m)
}

func (h *ModulesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	m, ok := loadModule(w, r, h.store)
	if !ok {
		return
	}
	if err := h.store.DeleteModule(r.Context(), m.ID); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.publish(hermes.SubjectModuleDeleted(m.ID.String()), m)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *ModulesHandler) publish(subject string, m *store.Module) {
	if h.hermes == nil {
		return
	}
	_ = h.hermes.Publish(subject, moduleEvent(m))
}

func moduleEvent(m *store.Module) hermes.ModuleEvent {
	return hermes.ModuleEvent{
		ModuleID: m.ID.String(),
		UserID:   m.UserID,
		Code:     m.Code,
		Title:    m.Title,
		ECTS:     m.ECTS,
		Scale:    string(m.Scale),
		Method:   string(m.Method),
	}
}
