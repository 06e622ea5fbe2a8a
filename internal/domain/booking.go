package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Booking reserves one grid slot on one date for one owner. Bookings are
// immutable after creation; a change is a cancel plus a new booking.
type Booking struct {
	bun.BaseModel `bun:"table:bookings"`

	ID           uuid.UUID `bun:"id,pk,type:uuid"`
	OwnerID      uuid.UUID `bun:"owner_id,notnull,type:uuid"`
	Date         time.Time `bun:"date,notnull,type:date"`
	Slot         TimeOfDay `bun:"slot_minutes,notnull"`
	ServiceLabel string    `bun:"service_label,notnull"`
	Notes        string    `bun:"notes"`
	CreatedAt    time.Time `bun:"created_at,notnull"`
}

// StartsAt is the moment the booked slot begins.
func (b *Booking) StartsAt() time.Time {
	return b.Slot.At(b.Date)
}

func (b *Booking) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	if _, ok := query.(*bun.InsertQuery); ok {
		if b.ID == uuid.Nil {
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			b.ID = id
		}
		if b.CreatedAt.IsZero() {
			b.CreatedAt = time.Now().UTC()
		}
	}
	return nil
}
