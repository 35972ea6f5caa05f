package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Gradebook/internal/catalog"
	"github.com/MikeSquared-Agency/Gradebook/internal/grades"
	"github.com/MikeSquared-Agency/Gradebook/internal/whatif"
)

// ErrDuplicateCode is returned when a user already has a module with the code.
var ErrDuplicateCode = errors.New("module code already exists for user")

type Module struct {
	ID     uuid.UUID     `json:"id"`
	UserID string        `json:"user_id"`
	Code   string        `json:"code"`
	Title  string        `json:"title"`
	ECTS   int           `json:"ects"`
	Scale  grades.Scale  `json:"scale"`
	Method grades.Method `json:"method"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Outcome runs the engine over the module's assessments using the
// module's own scale and method.
func (m *Module) Outcome(as []*Assessment) (grades.ModuleOutcome, grades.WeightHealth) {
	components := Components(as)
	return grades.ComputeModuleOutcome(components, m.Scale, m.Method), grades.ComputeWeightHealth(components)
}

const (
	// DefaultLimit applies when ModuleFilter.Limit is 0.
	DefaultLimit = 100
	// NoLimit lists every matching module.
	NoLimit = -1
)

type ModuleFilter struct {
	UserID string
	Limit  int
	Offset int
}

type Assessment struct {
	ID       uuid.UUID     `json:"id"`
	ModuleID uuid.UUID     `json:"module_id"`
	Name     string        `json:"name"`
	Weight   float64       `json:"weight"`
	Mark     *float64      `json:"mark"`
	Status   grades.Status `json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Component converts the stored row into an engine input.
func (a *Assessment) Component() grades.Component {
	return grades.Component{Weight: a.Weight, Mark: a.Mark, Status: a.Status}
}

// WhatIfItem converts the stored row into a what-if input.
func (a *Assessment) WhatIfItem() whatif.Item {
	return whatif.Item{ID: a.ID.String(), Name: a.Name, Weight: a.Weight, Mark: a.Mark, Status: a.Status}
}

// Components converts rows in order.
func Components(as []*Assessment) []grades.Component {
	out := make([]grades.Component, len(as))
	for i, a := range as {
		out[i] = a.Component()
	}
	return out
}

type Stats struct {
	Users              int `json:"users"`
	Modules            int `json:"modules"`
	Assessments        int `json:"assessments"`
	PendingAssessments int `json:"pending_assessments"`
	CatalogEntries     int `json:"catalog_entries"`
}

type Store interface {
	CreateModule(ctx context.Context, m *Module) error
	GetModule(ctx context.Context, id uuid.UUID) (*Module, error)
	ListModules(ctx context.Context, filter ModuleFilter) ([]*Module, error)
	UpdateModule(ctx context.Context, m *Module) error
	DeleteModule(ctx context.Context, id uuid.UUID) error

	CreateAssessment(ctx context.Context, a *Assessment) error
	GetAssessment(ctx context.Context, id uuid.UUID) (*Assessment, error)
	ListAssessments(ctx context.Context, moduleID uuid.UUID) ([]*Assessment, error)
	UpdateAssessment(ctx context.Context, a *Assessment) error
	DeleteAssessment(ctx context.Context, id uuid.UUID) error

	GetCatalogEntry(ctx context.Context, code string) (*catalog.Entry, error)
	ListCatalog(ctx context.Context) ([]catalog.Entry, error)
	UpsertCatalogEntry(ctx context.Context, e *catalog.Entry) error

	GetStats(ctx context.Context) (*Stats, error)

	Close() error
}
