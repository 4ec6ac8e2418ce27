package patient

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Service implements the patient operations: registration, full edits,
// status transitions, and the list/search flow. Writes are last-write-wins;
// there is no optimistic concurrency token.
type Service struct {
	repo Repository
	log  zerolog.Logger
	now  func() time.Time
}

func NewService(repo Repository, log zerolog.Logger) *Service {
	return &Service{repo: repo, log: log, now: time.Now}
}

// Register creates a patient record. Required fields must be non-empty and
// the appointment date must fall within [today, today+1 year], but the age
// bound is not applied on this path (it is on Update). Status always starts
// at Pending regardless of input.
func (s *Service) Register(ctx context.Context, p *Patient, actor string) error {
	if err := p.validateRequired(); err != nil {
		return err
	}
	if err := s.checkAppointmentWindow(p.AppointmentDate); err != nil {
		return err
	}

	p.Status = StatusPending
	if err := s.repo.Create(ctx, p); err != nil {
		return fmt.Errorf("create patient: %w", err)
	}

	s.log.Info().
		Int64("patient_id", p.ID).
		Str("actor", actorOrSelf(actor)).
		Msg("patient registered")
	return nil
}

// Update replaces all editable fields of an existing record, including
// status, and bumps updated_at. Unlike Register it enforces the 0-120 age
// bound.
func (s *Service) Update(ctx context.Context, p *Patient, actor string) error {
	if err := p.validateRequired(); err != nil {
		return err
	}
	if p.Age < MinAge || p.Age > MaxAge {
		return validationErr("age", fmt.Sprintf("must be between %d and %d", MinAge, MaxAge))
	}
	if p.Status == "" {
		p.Status = StatusPending
	}
	if !ValidStatus(p.Status) {
		return ErrInvalidStatus
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return err
	}

	s.log.Info().
		Int64("patient_id", p.ID).
		Str("actor", actor).
		Msg("patient updated")
	return nil
}

// SetStatus applies a status transition. All transitions between the four
// states are allowed and re-applying the current status is a no-op write
// that still succeeds. updated_at is not bumped on this path.
func (s *Service) SetStatus(ctx context.Context, id int64, status Status, actor string) error {
	if !ValidStatus(status) {
		return ErrInvalidStatus
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return err
	}

	s.log.Info().
		Int64("patient_id", id).
		Str("status", string(status)).
		Str("actor", actor).
		Msg("patient status changed")
	return nil
}

// Get returns a single record or ErrNotFound.
func (s *Service) Get(ctx context.Context, id int64) (*Patient, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns records matching the filter, ordered by created_at descending
// with ties broken by id descending, plus the total match count. An absent
// status filter includes Archived records.
func (s *Service) List(ctx context.Context, filter ListFilter, limit, offset int) ([]*Patient, int, error) {
	return s.repo.List(ctx, filter, limit, offset)
}

// checkAppointmentWindow enforces the entry-time constraint: the appointment
// date must be today or later, and no more than one year out.
func (s *Service) checkAppointmentWindow(date time.Time) error {
	y, m, d := s.now().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, date.Location())

	if date.Before(today) {
		return validationErr("appointment_date", "must not be in the past")
	}
	if date.After(today.AddDate(1, 0, 0)) {
		return validationErr("appointment_date", "must be within one year")
	}
	return nil
}

func actorOrSelf(actor string) string {
	if actor == "" {
		return "self-service"
	}
	return actor
}
