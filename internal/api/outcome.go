package api

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/MikeSquared-Agency/Gradebook/internal/grades"
	"github.com/MikeSquared-Agency/Gradebook/internal/store"
	"github.com/MikeSquared-Agency/Gradebook/internal/whatif"
)

var exportHeader = []string{"Name", "Weight%", "Mark%", "Status", "Letter", "CalcPt", "WeightedCP"}

type OutcomeHandler struct {
	store  store.Store
	logger *slog.Logger
}

func NewOutcomeHandler(s store.Store, logger *slog.Logger) *OutcomeHandler {
	return &OutcomeHandler{store: s, logger: logger}
}

type OutcomeRow struct {
	AssessmentID string        `json:"assessment_id"`
	Name         string        `json:"name"`
	Weight       float64       `json:"weight"`
	Status       grades.Status `json:"status"`
	grades.RowBreakdown
}

type OutcomeResponse struct {
	ModuleID     string               `json:"module_id"`
	Scale        grades.Scale         `json:"scale"`
	Outcome      grades.ModuleOutcome `json:"outcome"`
	Label        string               `json:"label"`
	Passing      bool                 `json:"passing"`
	WeightHealth grades.WeightHealth  `json:"weight_health"`
	Warning      string               `json:"warning,omitempty"`
	Rows         []OutcomeRow         `json:"rows"`
}

type WhatIfRequest struct {
	Overrides map[string]float64 `json:"overrides"`
}

func (h *OutcomeHandler) Outcome(w http.ResponseWriter, r *http.Request) {
	m, ok := loadModule(w, r, h.store)
	if !ok {
		return
	}
	items, err := h.store.ListAssessments(r.Context(), m.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	outcome, health := m.Outcome(items)
	observeOutcome(outcome, health)

	resp := OutcomeResponse{
		ModuleID:     m.ID.String(),
		Scale:        m.Scale,
		Outcome:      outcome,
		Label:        outcome.Label(),
		Passing:      outcome.Letter.Passing(),
		WeightHealth: health,
		Warning:      weightWarning(health, len(items)),
		Rows:         make([]OutcomeRow, 0, len(items)),
	}
	for _, a := range items {
		resp.Rows = append(resp.Rows, OutcomeRow{
			AssessmentID: a.ID.String(),
			Name:         a.Name,
			Weight:       a.Weight,
			Status:       a.Status,
			RowBreakdown: grades.Breakdown(a.Component(), m.Scale),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// WhatIf predicts the outcome with overrides for pending assessments,
// keyed by assessment id. Nothing is stored.
func (h *OutcomeHandler) WhatIf(w http.ResponseWriter, r *http.Request) {
	m, ok := loadModule(w, r, h.store)
	if !ok {
		return
	}
	var req WhatIfRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}
	items, err := h.store.ListAssessments(r.Context(), m.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	whatIfItems := make([]whatif.Item, len(items))
	for i, a := range items {
		whatIfItems[i] = a.WhatIfItem()
	}
	writeJSON(w, http.StatusOK, whatif.Predict(whatIfItems, req.Overrides, m.Scale, m.Method))
}

// Export writes the per-assessment breakdown as CSV.
func (h *OutcomeHandler) Export(w http.ResponseWriter, r *http.Request) {
	m, ok := loadModule(w, r, h.store)
	if !ok {
		return
	}
	items, err := h.store.ListAssessments(r.Context(), m.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=module_%s.csv", m.ID))
	w.WriteHeader(http.StatusOK)

	cw := csv.NewWriter(w)
	_ = cw.Write(exportHeader)
	for _, a := range items {
		row := grades.Breakdown(a.Component(), m.Scale)
		_ = cw.Write([]string{
			a.Name,
			strconv.FormatFloat(a.Weight, 'f', 2, 64),
			strconv.FormatFloat(row.Mark, 'f', 2, 64),
			string(a.Status),
			string(row.Letter),
			strconv.FormatFloat(row.ClassificationPoint, 'f', 2, 64),
			strconv.FormatFloat(row.WeightedCP, 'f', 4, 64),
		})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		h.logger.Warn("csv export failed", "module_id", m.ID, "error", err)
	}
}

type DashboardModule struct {
	*store.Module
	Outcome grades.ModuleOutcome `json:"outcome"`
	Label   string               `json:"label"`
}

type DashboardResponse struct {
	Modules    []DashboardModule `json:"modules"`
	GPA        float64           `json:"gpa"`
	TotalECTS  int               `json:"total_ects"`
	PassedECTS int               `json:"passed_ects"`
}

// Dashboard lists every module of the user with its outcome and the
// ECTS-weighted GPA across all of them.
func (h *OutcomeHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	modules, err := h.store.ListModules(r.Context(), store.ModuleFilter{UserID: UserID(r.Context()), Limit: store.NoLimit})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := DashboardResponse{Modules: make([]DashboardModule, 0, len(modules))}
	credits := make([]grades.ModuleCredit, 0, len(modules))
	for _, m := range modules {
		items, err := h.store.ListAssessments(r.Context(), m.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		outcome, _ := m.Outcome(items)
		resp.Modules = append(resp.Modules, DashboardModule{Module: m, Outcome: outcome, Label: outcome.Label()})
		credits = append(credits, grades.ModuleCredit{ECTS: float64(m.ECTS), GradePoint: outcome.GradePoint})
		resp.TotalECTS += m.ECTS
		if outcome.Letter.Passing() {
			resp.PassedECTS += m.ECTS
		}
	}
	resp.GPA = grades.ComputeGPA(credits)
	writeJSON(w, http.StatusOK, resp)
}

func weightWarning(h grades.WeightHealth, n int) string {
	if n == 0 || h.Balanced() {
		return ""
	}
	return fmt.Sprintf("weights total %s%%; results are normalized to 100%%", strconv.FormatFloat(h.Total, 'f', -1, 64))
}
