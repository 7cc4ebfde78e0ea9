package scheduling

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/saudeviva/clinic-scheduler/internal/observability/metrics"
	"github.com/saudeviva/clinic-scheduler/pkg/logging"
)

var schedulingTracer = otel.Tracer("clinic.internal.scheduling")

// Service runs the appointment book operations against a repository.
// A single mutex serializes every load-mutate-save sequence; without it
// two concurrent callers could interleave Load and Save and silently
// lose a write.
type Service struct {
	mu      sync.Mutex
	repo    Repository
	logger  *logging.Logger
	metrics *metrics.SchedulingMetrics
}

// NewService constructs a scheduling service. The metrics may be nil.
func NewService(repo Repository, logger *logging.Logger, m *metrics.SchedulingMetrics) *Service {
	if repo == nil {
		panic("scheduling: repository required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{repo: repo, logger: logger, metrics: m}
}

// ParseStart combines a YYYY-MM-DD date and an HH:MM 24-hour time into
// a naive timestamp. Any malformed input, including non-padded fields,
// wrong separators or impossible calendar dates, yields
// ErrInvalidDateTime.
func ParseStart(dateText, timeText string) (time.Time, error) {
	dateText = strings.TrimSpace(dateText)
	timeText = strings.TrimSpace(timeText)
	if len(dateText) != len("2006-01-02") || len(timeText) != len("15:04") {
		return time.Time{}, ErrInvalidDateTime
	}
	start, err := time.Parse(StartLayout, dateText+"T"+timeText)
	if err != nil {
		return time.Time{}, ErrInvalidDateTime
	}
	return start, nil
}

// Schedule validates and books a new appointment. Validation runs in
// order: parse, office hours, conflicts. Nothing is persisted unless
// every check passes; the new record is appended with
// id = len(existing)+1 and the full set saved back.
func (s *Service) Schedule(ctx context.Context, patient, dateText, timeText string) (*Appointment, error) {
	ctx, span := schedulingTracer.Start(ctx, "scheduling.schedule")
	defer span.End()

	patient = strings.TrimSpace(patient)
	if patient == "" {
		s.metrics.ObserveRejected(metrics.ReasonParse)
		return nil, ErrPatientRequired
	}

	start, err := ParseStart(dateText, timeText)
	if err != nil {
		s.metrics.ObserveRejected(metrics.ReasonParse)
		return nil, err
	}
	span.SetAttributes(
		attribute.String("clinic.patient", patient),
		attribute.String("clinic.start", start.Format(StartLayout)),
	)

	if ok, reason := WithinOfficeHours(start); !ok {
		s.metrics.ObserveRejected(metrics.ReasonHours)
		return nil, &OutOfHoursError{Reason: reason}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.repo.Load(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("scheduling: load appointments: %w", err)
	}

	if ok, reason := CheckAvailability(existing, start); !ok {
		s.metrics.ObserveRejected(metrics.ReasonConflict)
		return nil, &ConflictError{Reason: reason}
	}

	appt := Appointment{
		ID:              len(existing) + 1,
		Patient:         patient,
		Start:           NewTimestamp(start),
		DurationMinutes: int(SlotDuration / time.Minute),
		Status:          StatusScheduled,
	}
	if err := s.repo.Save(ctx, append(existing, appt)); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("scheduling: save appointments: %w", err)
	}

	s.metrics.ObserveScheduled()
	s.logger.Info("appointment scheduled",
		"id", appt.ID,
		"patient", appt.Patient,
		"start", appt.Start.Format(StartLayout),
	)
	return &appt, nil
}

// Cancel flips the first scheduled appointment matching id to cancelled
// and returns it. ErrNotFound covers both an unknown id and an id that
// was already cancelled.
func (s *Service) Cancel(ctx context.Context, id int) (*Appointment, error) {
	ctx, span := schedulingTracer.Start(ctx, "scheduling.cancel")
	defer span.End()
	span.SetAttributes(attribute.Int("clinic.appointment_id", id))

	s.mu.Lock()
	defer s.mu.Unlock()

	appointments, err := s.repo.Load(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("scheduling: load appointments: %w", err)
	}

	for i := range appointments {
		if appointments[i].ID != id || appointments[i].Status != StatusScheduled {
			continue
		}
		appointments[i].Status = StatusCancelled
		if err := s.repo.Save(ctx, appointments); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("scheduling: save appointments: %w", err)
		}
		s.metrics.ObserveCancelled()
		s.logger.Info("appointment cancelled", "id", id, "patient", appointments[i].Patient)
		return &appointments[i], nil
	}

	s.metrics.ObserveRejected(metrics.ReasonNotFound)
	return nil, ErrNotFound
}

// ListActive returns the scheduled appointments in load order.
func (s *Service) ListActive(ctx context.Context) ([]Appointment, error) {
	ctx, span := schedulingTracer.Start(ctx, "scheduling.list_active")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	appointments, err := s.repo.Load(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("scheduling: load appointments: %w", err)
	}

	active := make([]Appointment, 0, len(appointments))
	for _, appt := range appointments {
		if appt.Status == StatusScheduled {
			active = append(active, appt)
		}
	}
	return active, nil
}
