package bookings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"slotbook/backend/internal/domain"
	"slotbook/backend/internal/store"
)

type fakeRepo struct {
	insertFn            func(ctx context.Context, b domain.Booking) (domain.Booking, error)
	findByIDFn          func(ctx context.Context, id uuid.UUID) (domain.Booking, error)
	findByDateAndSlotFn func(ctx context.Context, date time.Time, slot domain.TimeOfDay) (domain.Booking, error)
	listByOwnerFn       func(ctx context.Context, ownerID uuid.UUID) ([]domain.Booking, error)
	listAllFn           func(ctx context.Context) ([]domain.Booking, error)
	bookedSlotsFn       func(ctx context.Context, date time.Time) (map[domain.TimeOfDay]bool, error)
	deleteFn            func(ctx context.Context, id uuid.UUID) error
}

func (f *fakeRepo) Insert(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	if f.insertFn == nil {
		panic("Insert not configured")
	}
	return f.insertFn(ctx, b)
}

func (f *fakeRepo) FindByID(ctx context.Context, id uuid.UUID) (domain.Booking, error) {
	if f.findByIDFn == nil {
		panic("FindByID not configured")
	}
	return f.findByIDFn(ctx, id)
}

func (f *fakeRepo) FindByDateAndSlot(ctx context.Context, date time.Time, slot domain.TimeOfDay) (domain.Booking, error) {
	if f.findByDateAndSlotFn == nil {
		return domain.Booking{}, store.ErrNotFound
	}
	return f.findByDateAndSlotFn(ctx, date, slot)
}

func (f *fakeRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Booking, error) {
	if f.listByOwnerFn == nil {
		panic("ListByOwner not configured")
	}
	return f.listByOwnerFn(ctx, ownerID)
}

func (f *fakeRepo) ListAll(ctx context.Context) ([]domain.Booking, error) {
	if f.listAllFn == nil {
		panic("ListAll not configured")
	}
	return f.listAllFn(ctx)
}

func (f *fakeRepo) BookedSlots(ctx context.Context, date time.Time) (map[domain.TimeOfDay]bool, error) {
	if f.bookedSlotsFn == nil {
		return map[domain.TimeOfDay]bool{}, nil
	}
	return f.bookedSlotsFn(ctx, date)
}

func (f *fakeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if f.deleteFn == nil {
		panic("Delete not configured")
	}
	return f.deleteFn(ctx, id)
}

var (
	testOwner = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	testOther = uuid.MustParse("00000000-0000-0000-0000-000000000002")
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestCreate_ValidationErrorType(t *testing.T) {
	svc := NewService(&fakeRepo{}, domain.DefaultGrid(), nil)

	_, err := svc.Create(context.Background(), CreateInput{
		OwnerID: testOwner,
		Date:    time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		Slot:    domain.MinuteOfDay(10, 0),
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("error type = %T, want *ValidationError", err)
	}
	if vErr.Error() != "service_label is required" {
		t.Fatalf("error = %q, want %q", vErr.Error(), "service_label is required")
	}
}

func TestCreate_OffGridSlotRejected(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	svc := NewService(&fakeRepo{}, domain.DefaultGrid(), fixedClock(now))

	_, err := svc.Create(context.Background(), CreateInput{
		OwnerID:      testOwner,
		Date:         time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		Slot:         domain.MinuteOfDay(10, 15),
		ServiceLabel: "haircut",
	})
	if !errors.Is(err, domain.ErrOffGrid) {
		t.Fatalf("err = %v, want %v", err, domain.ErrOffGrid)
	}
}

func TestCreate_SameDayElapsedSlotRejected(t *testing.T) {
	now := time.Date(2026, 3, 14, 11, 15, 0, 0, time.UTC)
	svc := NewService(&fakeRepo{}, domain.DefaultGrid(), fixedClock(now))

	_, err := svc.Create(context.Background(), CreateInput{
		OwnerID:      testOwner,
		Date:         domain.DateOf(now),
		Slot:         domain.MinuteOfDay(9, 30),
		ServiceLabel: "haircut",
	})
	if !errors.Is(err, domain.ErrNotFuture) {
		t.Fatalf("err = %v, want %v", err, domain.ErrNotFuture)
	}
}

func TestCreate_ExistingBookingWinsBeforeInsert(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	inserted := false

	svc := NewService(&fakeRepo{
		findByDateAndSlotFn: func(ctx context.Context, date time.Time, slot domain.TimeOfDay) (domain.Booking, error) {
			return domain.Booking{ID: uuid.MustParse("00000000-0000-0000-0000-000000000009")}, nil
		},
		insertFn: func(ctx context.Context, b domain.Booking) (domain.Booking, error) {
			inserted = true
			return b, nil
		},
	}, domain.DefaultGrid(), fixedClock(now))

	_, err := svc.Create(context.Background(), CreateInput{
		OwnerID:      testOwner,
		Date:         time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		Slot:         domain.MinuteOfDay(10, 0),
		ServiceLabel: "haircut",
	})
	if !errors.Is(err, store.ErrSlotTaken) {
		t.Fatalf("err = %v, want %v", err, store.ErrSlotTaken)
	}
	if inserted {
		t.Fatalf("Insert was called despite existing booking")
	}
}

func TestCreate_RacingInsertSurfacesSameError(t *testing.T) {
	// The existence check passes but a concurrent caller wins the insert.
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	svc := NewService(&fakeRepo{
		insertFn: func(ctx context.Context, b domain.Booking) (domain.Booking, error) {
			return domain.Booking{}, store.ErrSlotTaken
		},
	}, domain.DefaultGrid(), fixedClock(now))

	_, err := svc.Create(context.Background(), CreateInput{
		OwnerID:      testOwner,
		Date:         time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		Slot:         domain.MinuteOfDay(10, 0),
		ServiceLabel: "haircut",
	})
	if !errors.Is(err, store.ErrSlotTaken) {
		t.Fatalf("err = %v, want %v", err, store.ErrSlotTaken)
	}
}

func TestCreate_TrimsLabelAndNormalizesDate(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	var got domain.Booking

	svc := NewService(&fakeRepo{
		insertFn: func(ctx context.Context, b domain.Booking) (domain.Booking, error) {
			got = b
			return b, nil
		},
	}, domain.DefaultGrid(), fixedClock(now))

	_, err := svc.Create(context.Background(), CreateInput{
		OwnerID:      testOwner,
		Date:         time.Date(2026, 3, 15, 13, 45, 12, 0, time.UTC),
		Slot:         domain.MinuteOfDay(10, 0),
		ServiceLabel: "  haircut  ",
		Notes:        "window seat",
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ServiceLabel != "haircut" {
		t.Fatalf("service label = %q, want %q", got.ServiceLabel, "haircut")
	}
	want := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	if !got.Date.Equal(want) {
		t.Fatalf("date = %v, want %v", got.Date, want)
	}
	if got.OwnerID != testOwner {
		t.Fatalf("owner = %s, want %s", got.OwnerID, testOwner)
	}
}

func TestCancel_NotFound(t *testing.T) {
	svc := NewService(&fakeRepo{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (domain.Booking, error) {
			return domain.Booking{}, store.ErrNotFound
		},
	}, domain.DefaultGrid(), nil)

	err := svc.Cancel(context.Background(), uuid.MustParse("00000000-0000-0000-0000-000000000010"), testOwner)
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("err = %v, want %v", err, store.ErrNotFound)
	}
}

func TestCancel_ForbiddenForNonOwnerAndLeavesBookingIntact(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	bookingID := uuid.MustParse("00000000-0000-0000-0000-000000000011")
	deleted := false

	svc := NewService(&fakeRepo{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (domain.Booking, error) {
			return domain.Booking{
				ID:      bookingID,
				OwnerID: testOwner,
				Date:    time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
				Slot:    domain.MinuteOfDay(10, 0),
			}, nil
		},
		deleteFn: func(ctx context.Context, id uuid.UUID) error {
			deleted = true
			return nil
		},
	}, domain.DefaultGrid(), fixedClock(now))

	err := svc.Cancel(context.Background(), bookingID, testOther)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("err = %v, want %v", err, ErrForbidden)
	}
	if deleted {
		t.Fatalf("Delete was called for a forbidden cancel")
	}
}

func TestCancel_AlreadyPastEvenForOwner(t *testing.T) {
	now := time.Date(2026, 3, 14, 11, 0, 0, 0, time.UTC)
	bookingID := uuid.MustParse("00000000-0000-0000-0000-000000000012")

	svc := NewService(&fakeRepo{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (domain.Booking, error) {
			return domain.Booking{
				ID:      bookingID,
				OwnerID: testOwner,
				Date:    domain.DateOf(now),
				Slot:    domain.MinuteOfDay(11, 0),
			}, nil
		},
	}, domain.DefaultGrid(), fixedClock(now))

	err := svc.Cancel(context.Background(), bookingID, testOwner)
	if !errors.Is(err, ErrAlreadyPast) {
		t.Fatalf("err = %v, want %v", err, ErrAlreadyPast)
	}
}

func TestCancel_DeletesFutureOwnBooking(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	bookingID := uuid.MustParse("00000000-0000-0000-0000-000000000013")
	var deletedID uuid.UUID

	svc := NewService(&fakeRepo{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (domain.Booking, error) {
			return domain.Booking{
				ID:      bookingID,
				OwnerID: testOwner,
				Date:    time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
				Slot:    domain.MinuteOfDay(10, 0),
			}, nil
		},
		deleteFn: func(ctx context.Context, id uuid.UUID) error {
			deletedID = id
			return nil
		},
	}, domain.DefaultGrid(), fixedClock(now))

	if err := svc.Cancel(context.Background(), bookingID, testOwner); err != nil {
		t.Fatalf("Cancel error: %v", err)
	}
	if deletedID != bookingID {
		t.Fatalf("deleted id = %s, want %s", deletedID, bookingID)
	}
}

func TestAvailability_PastDateRejectedBeforeStoreQuery(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	queried := false

	svc := NewService(&fakeRepo{
		bookedSlotsFn: func(ctx context.Context, date time.Time) (map[domain.TimeOfDay]bool, error) {
			queried = true
			return nil, nil
		},
	}, domain.DefaultGrid(), fixedClock(now))

	_, err := svc.Availability(context.Background(), time.Date(2026, 3, 13, 0, 0, 0, 0, time.UTC))
	if !errors.Is(err, domain.ErrPastDate) {
		t.Fatalf("err = %v, want %v", err, domain.ErrPastDate)
	}
	if queried {
		t.Fatalf("store was queried for a past date")
	}
}

func TestAvailability_MergesBookedAndElapsed(t *testing.T) {
	now := time.Date(2026, 3, 14, 11, 15, 0, 0, time.UTC)

	svc := NewService(&fakeRepo{
		bookedSlotsFn: func(ctx context.Context, date time.Time) (map[domain.TimeOfDay]bool, error) {
			return map[domain.TimeOfDay]bool{domain.MinuteOfDay(14, 30): true}, nil
		},
	}, domain.DefaultGrid(), fixedClock(now))

	out, err := svc.Availability(context.Background(), domain.DateOf(now))
	if err != nil {
		t.Fatalf("Availability error: %v", err)
	}

	bySlot := make(map[domain.TimeOfDay]bool, len(out))
	for _, s := range out {
		bySlot[s.Slot] = s.Available
	}
	if bySlot[domain.MinuteOfDay(9, 0)] {
		t.Fatalf("elapsed slot 09:00 reported available")
	}
	if bySlot[domain.MinuteOfDay(14, 30)] {
		t.Fatalf("booked slot 14:30 reported available")
	}
	if !bySlot[domain.MinuteOfDay(11, 30)] {
		t.Fatalf("free future slot 11:30 reported unavailable")
	}
}

func TestListOwn_RequiresOwner(t *testing.T) {
	svc := NewService(&fakeRepo{}, domain.DefaultGrid(), nil)

	_, err := svc.ListOwn(context.Background(), uuid.Nil)
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("error type = %T, want *ValidationError", err)
	}
}
