package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/MikeSquared-Agency/Gradebook/internal/grades"
	"github.com/MikeSquared-Agency/Gradebook/internal/hermes"
	"github.com/MikeSquared-Agency/Gradebook/internal/store"
)

var (
	ErrInvalidEvent      = errors.New("invalid mark event")
	ErrUnknownAssessment = errors.New("assessment not found")
)

var eventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "gradebook_ingest_events_total",
	Help: "Mark submissions received over NATS, by result.",
}, []string{"result"})

// Ingester applies marks submitted over the event bus and republishes the
// recomputed module outcome.
type Ingester struct {
	store  store.Store
	hermes hermes.Client
	logger *slog.Logger
}

func New(s store.Store, h hermes.Client, logger *slog.Logger) *Ingester {
	return &Ingester{store: s, hermes: h, logger: logger}
}

// SetupSubscriptions attaches the durable mark submission consumer.
// Malformed, invalid and unknown events are acked and dropped; store
// failures are redelivered.
func (i *Ingester) SetupSubscriptions(ctx context.Context) error {
	if i.hermes == nil {
		return nil
	}
	return i.hermes.Consume(ctx, hermes.DurableMarks, hermes.SubjectMarksSubmit, i.handle)
}

func (i *Ingester) handle(_ string, data []byte) error {
	var evt hermes.MarkSubmittedEvent
	if err := json.Unmarshal(data, &evt); err != nil {
		eventsTotal.WithLabelValues("malformed").Inc()
		i.logger.Warn("invalid mark event", "error", err)
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err := i.Apply(ctx, evt)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrInvalidEvent), errors.Is(err, ErrUnknownAssessment):
		i.logger.Warn("mark event dropped", "assessment_id", evt.AssessmentID, "source", evt.Source, "error", err)
		return nil
	}
	return err
}

// Apply validates evt, stores it on the assessment and returns the owning
// module's recomputed outcome.
func (i *Ingester) Apply(ctx context.Context, evt hermes.MarkSubmittedEvent) (grades.ModuleOutcome, error) {
	id, status, err := validate(evt)
	if err != nil {
		eventsTotal.WithLabelValues("invalid").Inc()
		return grades.ModuleOutcome{}, err
	}

	a, err := i.store.GetAssessment(ctx, id)
	if err != nil {
		eventsTotal.WithLabelValues("error").Inc()
		return grades.ModuleOutcome{}, fmt.Errorf("get assessment: %w", err)
	}
	if a == nil {
		eventsTotal.WithLabelValues("unknown").Inc()
		return grades.ModuleOutcome{}, ErrUnknownAssessment
	}

	a.Status = status
	if evt.Mark != nil {
		mark := *evt.Mark
		a.Mark = &mark
	}
	if status.ForcesZero() {
		a.Mark = nil
	}
	if err := i.store.UpdateAssessment(ctx, a); err != nil {
		eventsTotal.WithLabelValues("error").Inc()
		return grades.ModuleOutcome{}, fmt.Errorf("update assessment: %w", err)
	}

	m, err := i.store.GetModule(ctx, a.ModuleID)
	if err != nil {
		eventsTotal.WithLabelValues("error").Inc()
		return grades.ModuleOutcome{}, fmt.Errorf("get module: %w", err)
	}
	if m == nil {
		eventsTotal.WithLabelValues("unknown").Inc()
		return grades.ModuleOutcome{}, fmt.Errorf("module %s of assessment %s: %w", a.ModuleID, a.ID, ErrUnknownAssessment)
	}

	items, err := i.store.ListAssessments(ctx, m.ID)
	if err != nil {
		eventsTotal.WithLabelValues("error").Inc()
		return grades.ModuleOutcome{}, fmt.Errorf("list assessments: %w", err)
	}

	outcome, health := m.Outcome(items)
	eventsTotal.WithLabelValues("applied").Inc()
	i.logger.Info("mark applied",
		"assessment_id", a.ID,
		"module_id", m.ID,
		"status", a.Status,
		"module_letter", outcome.Letter,
		"source", evt.Source,
	)

	if i.hermes != nil {
		_ = i.hermes.Publish(hermes.SubjectAssessmentUpdated(a.ID.String()), AssessmentEvent(a, evt.Source))
		_ = i.hermes.Publish(hermes.SubjectModuleOutcome(m.ID.String()), OutcomeEvent(m, outcome, health))
	}
	return outcome, nil
}

func validate(evt hermes.MarkSubmittedEvent) (uuid.UUID, grades.Status, error) {
	id, err := uuid.Parse(evt.AssessmentID)
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("%w: assessment_id: %v", ErrInvalidEvent, err)
	}

	status := grades.StatusEntered
	if evt.Status != "" {
		s, ok := grades.ParseStatus(evt.Status)
		if !ok {
			return uuid.Nil, "", fmt.Errorf("%w: unknown status %q", ErrInvalidEvent, evt.Status)
		}
		status = s
	}

	if evt.Mark != nil {
		m := *evt.Mark
		if math.IsNaN(m) || m < 0 || m > 100 {
			return uuid.Nil, "", fmt.Errorf("%w: mark %v outside [0,100]", ErrInvalidEvent, m)
		}
	} else if status == grades.StatusEntered {
		return uuid.Nil, "", fmt.Errorf("%w: entered status needs a mark", ErrInvalidEvent)
	}
	return id, status, nil
}

// OutcomeEvent builds the payload published on the module outcome subject.
func OutcomeEvent(m *store.Module, o grades.ModuleOutcome, h grades.WeightHealth) hermes.ModuleOutcomeEvent {
	return hermes.ModuleOutcomeEvent{
		ModuleID:      m.ID.String(),
		UserID:        m.UserID,
		Method:        string(o.Method),
		Letter:        string(o.Letter),
		Label:         o.Label(),
		GradePoint:    o.GradePoint,
		ModulePercent: o.ModulePercent,
		CPTotal:       o.ClassificationPointTotal,
		WeightTotal:   h.Total,
		Timestamp:     time.Now().UTC(),
	}
}

func AssessmentEvent(a *store.Assessment, source string) hermes.AssessmentUpdatedEvent {
	return hermes.AssessmentUpdatedEvent{
		AssessmentID: a.ID.String(),
		ModuleID:     a.ModuleID.String(),
		Name:         a.Name,
		Weight:       a.Weight,
		Mark:         a.Mark,
		Status:       string(a.Status),
		Source:       source,
	}
}
