package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/MikeSquared-Agency/Gradebook/internal/grades"
)

var (
	outcomesComputed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gradebook_module_outcomes_total",
		Help: "Module outcomes computed, by method and letter.",
	}, []string{"method", "letter"})

	weightWarnings = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gradebook_weight_normalization_warnings_total",
		Help: "Outcomes computed over weights that did not total 100.",
	})
)

func observeOutcome(o grades.ModuleOutcome, h grades.WeightHealth) {
	outcomesComputed.WithLabelValues(string(o.Method), string(o.Letter)).Inc()
	if h.Total != 0 && !h.Balanced() {
		weightWarnings.Inc()
	}
}
