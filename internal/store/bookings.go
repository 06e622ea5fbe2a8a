package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"slotbook/backend/internal/domain"
)

// BookingRepository is the record store behind the booking lifecycle. Insert
// must enforce the one-booking-per-(date, slot) invariant atomically and
// return ErrSlotTaken on violation; the service's prior existence check is
// only a fast path.
type BookingRepository interface {
	Insert(ctx context.Context, b domain.Booking) (domain.Booking, error)
	FindByID(ctx context.Context, id uuid.UUID) (domain.Booking, error)
	FindByDateAndSlot(ctx context.Context, date time.Time, slot domain.TimeOfDay) (domain.Booking, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Booking, error)
	ListAll(ctx context.Context) ([]domain.Booking, error)
	BookedSlots(ctx context.Context, date time.Time) (map[domain.TimeOfDay]bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
