package bookings

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"slotbook/backend/internal/domain"
	"slotbook/backend/internal/store"
)

var (
	// ErrForbidden means the requester does not own the booking. Surfaced
	// instead of a not-found so the caller gets an explicit authorization
	// signal.
	ErrForbidden = errors.New("booking belongs to another user")
	// ErrAlreadyPast means the booking's slot has elapsed; it stands as a
	// historical record and can no longer be cancelled.
	ErrAlreadyPast = errors.New("booking time has already passed")
)

type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func validationError(msg string) error {
	return &ValidationError{msg: msg}
}

// Service is the only component that mutates booking state. The clock is
// injected and read once per operation so every check within one call
// compares against the same moment.
type Service struct {
	repo store.BookingRepository
	grid domain.GridConfig
	now  func() time.Time
}

func NewService(repo store.BookingRepository, grid domain.GridConfig, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{repo: repo, grid: grid, now: now}
}

func (s *Service) Grid() domain.GridConfig {
	return s.grid
}

type CreateInput struct {
	OwnerID      uuid.UUID
	Date         time.Time
	Slot         domain.TimeOfDay
	ServiceLabel string
	Notes        string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (domain.Booking, error) {
	label := strings.TrimSpace(in.ServiceLabel)
	if label == "" {
		return domain.Booking{}, validationError("service_label is required")
	}
	if in.OwnerID == uuid.Nil {
		return domain.Booking{}, validationError("owner_id is required")
	}

	now := s.now().UTC()
	date := domain.DateOf(in.Date)

	if err := domain.ValidateBookingTime(date, in.Slot, now, s.grid); err != nil {
		return domain.Booking{}, err
	}

	// Fast-path existence check. The unique constraint behind Insert is the
	// real guard; a conflicting concurrent insert surfaces as the same
	// ErrSlotTaken either way.
	_, err := s.repo.FindByDateAndSlot(ctx, date, in.Slot)
	if err == nil {
		return domain.Booking{}, store.ErrSlotTaken
	}
	if !errors.Is(err, store.ErrNotFound) {
		return domain.Booking{}, err
	}

	return s.repo.Insert(ctx, domain.Booking{
		OwnerID:      in.OwnerID,
		Date:         date,
		Slot:         in.Slot,
		ServiceLabel: label,
		Notes:        in.Notes,
	})
}

func (s *Service) Cancel(ctx context.Context, bookingID, requesterID uuid.UUID) error {
	if bookingID == uuid.Nil {
		return validationError("booking_id is required")
	}
	if requesterID == uuid.Nil {
		return validationError("requester_id is required")
	}

	b, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if b.OwnerID != requesterID {
		return ErrForbidden
	}
	if !b.StartsAt().After(s.now().UTC()) {
		return ErrAlreadyPast
	}

	return s.repo.Delete(ctx, bookingID)
}

func (s *Service) ListOwn(ctx context.Context, ownerID uuid.UUID) ([]domain.Booking, error) {
	if ownerID == uuid.Nil {
		return nil, validationError("owner_id is required")
	}
	return s.repo.ListByOwner(ctx, ownerID)
}

func (s *Service) ListAll(ctx context.Context) ([]domain.Booking, error) {
	return s.repo.ListAll(ctx)
}

// Availability annotates the full grid for a date with booked/free status.
func (s *Service) Availability(ctx context.Context, date time.Time) ([]domain.SlotStatus, error) {
	now := s.now().UTC()
	day := domain.DateOf(date)
	if day.Before(domain.DateOf(now)) {
		return nil, domain.ErrPastDate
	}

	booked, err := s.repo.BookedSlots(ctx, day)
	if err != nil {
		return nil, err
	}

	return domain.ComputeAvailability(day, now, s.grid, booked)
}
