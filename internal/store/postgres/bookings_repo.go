package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun"

	"slotbook/backend/internal/domain"
	"slotbook/backend/internal/store"
)

type BookingRepo struct {
	db bun.IDB
}

func NewBookingRepo(db bun.IDB) *BookingRepo {
	return &BookingRepo{db: db}
}

func (r *BookingRepo) Insert(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	m := domain.Booking{
		ID:           b.ID,
		OwnerID:      b.OwnerID,
		Date:         b.Date,
		Slot:         b.Slot,
		ServiceLabel: b.ServiceLabel,
		Notes:        b.Notes,
		CreatedAt:    b.CreatedAt,
	}

	_, err := r.db.NewInsert().Model(&m).Exec(ctx)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// bookings_date_slot_key backs the one-booking-per-slot invariant.
			return domain.Booking{}, store.ErrSlotTaken
		}
		return domain.Booking{}, err
	}
	return m, nil
}

func (r *BookingRepo) FindByID(ctx context.Context, id uuid.UUID) (domain.Booking, error) {
	var m domain.Booking
	err := r.db.NewSelect().
		Model(&m).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Booking{}, store.ErrNotFound
		}
		return domain.Booking{}, err
	}
	return m, nil
}

func (r *BookingRepo) FindByDateAndSlot(ctx context.Context, date time.Time, slot domain.TimeOfDay) (domain.Booking, error) {
	var m domain.Booking
	err := r.db.NewSelect().
		Model(&m).
		Where("date = ?", domain.DateOf(date)).
		Where("slot_minutes = ?", slot).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Booking{}, store.ErrNotFound
		}
		return domain.Booking{}, err
	}
	return m, nil
}

func (r *BookingRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Booking, error) {
	var rows []domain.Booking
	err := r.db.NewSelect().
		Model(&rows).
		Where("owner_id = ?", ownerID).
		OrderExpr("date ASC, slot_minutes ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *BookingRepo) ListAll(ctx context.Context) ([]domain.Booking, error) {
	var rows []domain.Booking
	err := r.db.NewSelect().
		Model(&rows).
		OrderExpr("date ASC, slot_minutes ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *BookingRepo) BookedSlots(ctx context.Context, date time.Time) (map[domain.TimeOfDay]bool, error) {
	var rows []domain.Booking
	err := r.db.NewSelect().
		Model(&rows).
		Column("slot_minutes").
		Where("date = ?", domain.DateOf(date)).
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	out := make(map[domain.TimeOfDay]bool, len(rows))
	for _, row := range rows {
		out[row.Slot] = true
	}
	return out, nil
}

func (r *BookingRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.NewDelete().
		Model((*domain.Booking)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}
