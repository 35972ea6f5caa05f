package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/MikeSquared-Agency/Gradebook/internal/grades"
	"github.com/MikeSquared-Agency/Gradebook/internal/hermes"
	"github.com/MikeSquared-Agency/Gradebook/internal/ingest"
	"github.com/MikeSquared-Agency/Gradebook/internal/store"
)

type AssessmentsHandler struct {
	store  store.Store
	hermes hermes.Client
	logger *slog.Logger
}

func NewAssessmentsHandler(s store.Store, h hermes.Client, logger *slog.Logger) *AssessmentsHandler {
	return &AssessmentsHandler{store: s, hermes: h, logger: logger}
}

type CreateAssessmentRequest struct {
	Name   string   `json:"name" validate:"max=200"`
	Weight *float64 `json:"weight" validate:"required,min=0,max=100"`
	Mark   *float64 `json:"mark" validate:"omitempty,min=0,max=100"`
	Status string   `json:"status" validate:"omitempty,grade_status"`
}

type UpdateAssessmentRequest struct {
	Name      *string  `json:"name" validate:"omitempty,max=200"`
	Weight    *float64 `json:"weight" validate:"omitempty,min=0,max=100"`
	Mark      *float64 `json:"mark" validate:"omitempty,min=0,max=100"`
	ClearMark bool     `json:"clear_mark"`
	Status    *string  `json:"status" validate:"omitempty,grade_status"`
}

// inputValue accepts a JSON string or number.
type inputValue string

func (v *inputValue) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*v = inputValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*v = inputValue(n.String())
	return nil
}

type MarkEntryRequest struct {
	Mode  string     `json:"mode" validate:"omitempty,input_mode"`
	Value inputValue `json:"value" validate:"required"`
}

type MarkEntryResponse struct {
	Assessment *store.Assessment    `json:"assessment"`
	Outcome    grades.ModuleOutcome `json:"outcome"`
	Label      string               `json:"label"`
}

func (h *AssessmentsHandler) Create(w http.ResponseWriter, r *http.Request) {
	m, ok := loadModule(w, r, h.store)
	if !ok {
		return
	}
	var req CreateAssessmentRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	a := &store.Assessment{
		ModuleID: m.ID,
		Name:     strings.TrimSpace(req.Name),
		Weight:   *req.Weight,
		Mark:     req.Mark,
		Status:   grades.StatusPending,
	}
	if s, ok := grades.ParseStatus(req.Status); ok {
		a.Status = s
	}

	if err := h.store.CreateAssessment(r.Context(), a); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.afterChange(r.Context(), m, a)
	writeJSON(w, http.StatusCreated, a)
}

func (h *AssessmentsHandler) Update(w http.ResponseWriter, r *http.Request) {
	a, m, ok := loadAssessment(w, r, h.store)
	if !ok {
		return
	}
	var req UpdateAssessmentRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	if req.Name != nil {
		a.Name = strings.TrimSpace(*req.Name)
	}
	if req.Weight != nil {
		a.Weight = *req.Weight
	}
	if req.Mark != nil {
		a.Mark = req.Mark
	}
	if req.ClearMark {
		a.Mark = nil
	}
	if req.Status != nil {
		a.Status, _ = grades.ParseStatus(*req.Status)
	}

	if err := h.store.UpdateAssessment(r.Context(), a); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.afterChange(r.Context(), m, a)
	writeJSON(w, http.StatusOK, a)
}

func (h *AssessmentsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	a, m, ok := loadAssessment(w, r, h.store)
	if !ok {
		return
	}
	if err := h.store.DeleteAssessment(r.Context(), a.ID); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.afterChange(r.Context(), m, nil)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// EnterMark records a mark typed as a percentage, raw points out of the
// weight, or a letter. Entering ABS marks the assessment absent.
func (h *AssessmentsHandler) EnterMark(w http.ResponseWriter, r *http.Request) {
	a, m, ok := loadAssessment(w, r, h.store)
	if !ok {
		return
	}
	var req MarkEntryRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}
	mode, _ := grades.ParseInputMode(req.Mode)
	value := string(req.Value)

	if l, isLetter := grades.ParseLetter(value); mode == grades.InputLetter && isLetter && l == grades.ABS {
		a.Mark = nil
		a.Status = grades.StatusAbsent
	} else {
		mark, ok := grades.MarkFromInput(mode, value, a.Weight, m.Scale)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid mark value")
			return
		}
		if mark < 0 || mark > 100 {
			writeError(w, http.StatusBadRequest, "mark must be between 0 and 100")
			return
		}
		a.Mark = &mark
		a.Status = grades.StatusEntered
	}

	if err := h.store.UpdateAssessment(r.Context(), a); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	outcome := h.afterChange(r.Context(), m, a)
	writeJSON(w, http.StatusOK, MarkEntryResponse{Assessment: a, Outcome: outcome, Label: outcome.Label()})
}

// afterChange republishes the assessment and the module's new outcome.
func (h *AssessmentsHandler) afterChange(ctx context.Context, m *store.Module, a *store.Assessment) grades.ModuleOutcome {
	items, err := h.store.ListAssessments(ctx, m.ID)
	if err != nil {
		h.logger.Warn("recompute outcome failed", "module_id", m.ID, "error", err)
		return grades.ModuleOutcome{}
	}
	outcome, health := m.Outcome(items)
	observeOutcome(outcome, health)
	if h.hermes != nil {
		if a != nil {
			_ = h.hermes.Publish(hermes.SubjectAssessmentUpdated(a.ID.String()), ingest.AssessmentEvent(a, "api"))
		}
		_ = h.hermes.Publish(hermes.SubjectModuleOutcome(m.ID.String()), ingest.OutcomeEvent(m, outcome, health))
	}
	return outcome
}
