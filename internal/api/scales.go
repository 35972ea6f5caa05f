package api

import (
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MikeSquared-Agency/Gradebook/internal/grades"
)

type ScalesHandler struct {
	defaultScale grades.Scale
}

func NewScalesHandler(defaultScale grades.Scale) *ScalesHandler {
	return &ScalesHandler{defaultScale: defaultScale}
}

type BandResponse struct {
	Letter              grades.Letter `json:"letter"`
	Lower               float64       `json:"lower"`
	Upper               float64       `json:"upper"`
	ClassificationPoint float64       `json:"cp"`
	GradePoint          float64       `json:"grade_point"`
}

type ClassifyResponse struct {
	Mark                float64       `json:"mark"`
	Scale               grades.Scale  `json:"scale"`
	Letter              grades.Letter `json:"letter"`
	ClassificationPoint float64       `json:"cp"`
	GradePoint          float64       `json:"grade_point"`
	Passing             bool          `json:"passing"`
}

func (h *ScalesHandler) Bands(w http.ResponseWriter, r *http.Request) {
	scale, ok := grades.ParseScale(chi.URLParam(r, "scale"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown scale")
		return
	}
	bands := grades.Bands(scale)
	out := make([]BandResponse, len(bands))
	for i, b := range bands {
		out[i] = BandResponse{
			Letter:              b.Letter,
			Lower:               b.Lower,
			Upper:               b.Upper,
			ClassificationPoint: grades.ClassificationPoints(b.Letter),
			GradePoint:          grades.GradePoint(b.Letter),
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *ScalesHandler) Classify(w http.ResponseWriter, r *http.Request) {
	mark, err := strconv.ParseFloat(r.URL.Query().Get("mark"), 64)
	if err != nil || math.IsNaN(mark) || math.IsInf(mark, 0) {
		writeError(w, http.StatusBadRequest, "mark must be a number")
		return
	}
	scale := h.defaultScale
	if v := r.URL.Query().Get("scale"); v != "" {
		s, ok := grades.ParseScale(v)
		if !ok {
			writeError(w, http.StatusBadRequest, "unknown scale")
			return
		}
		scale = s
	}
	letter := grades.Classify(mark, scale)
	writeJSON(w, http.StatusOK, ClassifyResponse{
		Mark:                mark,
		Scale:               scale,
		Letter:              letter,
		ClassificationPoint: grades.ClassificationPoints(letter),
		GradePoint:          grades.GradePoint(letter),
		Passing:             letter.Passing(),
	})
}
