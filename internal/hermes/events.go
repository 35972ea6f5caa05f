package hermes

import "time"

// MarkSubmittedEvent arrives on gradebook.marks.submit from external
// marking tools. Status defaults to "entered" when empty.
type MarkSubmittedEvent struct {
	AssessmentID string   `json:"assessment_id"`
	Mark         *float64 `json:"mark,omitempty"`
	Status       string   `json:"status,omitempty"`
	Source       string   `json:"source,omitempty"`
}

type ModuleEvent struct {
	ModuleID string `json:"module_id"`
	UserID   string `json:"user_id"`
	Code     string `json:"code"`
	Title    string `json:"title,omitempty"`
	ECTS     int    `json:"ects"`
	Scale    string `json:"scale"`
	Method   string `json:"method"`
}

type AssessmentUpdatedEvent struct {
	AssessmentID string   `json:"assessment_id"`
	ModuleID     string   `json:"module_id"`
	Name         string   `json:"name"`
	Weight       float64  `json:"weight"`
	Mark         *float64 `json:"mark,omitempty"`
	Status       string   `json:"status"`
	Source       string   `json:"source,omitempty"`
}

type ModuleOutcomeEvent struct {
	ModuleID      string    `json:"module_id"`
	UserID        string    `json:"user_id"`
	Method        string    `json:"method"`
	Letter        string    `json:"letter"`
	Label         string    `json:"label"`
	GradePoint    float64   `json:"grade_point"`
	ModulePercent *float64  `json:"module_percent,omitempty"`
	CPTotal       *float64  `json:"cp_total,omitempty"`
	WeightTotal   float64   `json:"weight_total"`
	Timestamp     time.Time `json:"timestamp"`
}
