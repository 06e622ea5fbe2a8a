package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"slotbook/backend/internal/domain"
	"slotbook/backend/internal/service/bookings"
	"slotbook/backend/internal/store"
)

const dateLayout = "2006-01-02"

type bookingsService interface {
	Create(ctx context.Context, in bookings.CreateInput) (domain.Booking, error)
	Cancel(ctx context.Context, bookingID, requesterID uuid.UUID) error
	ListOwn(ctx context.Context, ownerID uuid.UUID) ([]domain.Booking, error)
	ListAll(ctx context.Context) ([]domain.Booking, error)
	Availability(ctx context.Context, date time.Time) ([]domain.SlotStatus, error)
}

type BookingsHandler struct {
	svc bookingsService
	log *slog.Logger
}

func NewBookingsHandler(svc bookingsService, log *slog.Logger) *BookingsHandler {
	if log == nil {
		log = slog.Default()
	}
	return &BookingsHandler{
		svc: svc,
		log: log.With(slog.String("component", "http.bookings")),
	}
}

type bookingPayload struct {
	ID           string `json:"id"`
	OwnerID      string `json:"owner_id"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	ServiceLabel string `json:"service_label"`
	Notes        string `json:"notes,omitempty"`
	CreatedAt    string `json:"created_at"`
}

func toBookingPayload(b domain.Booking) bookingPayload {
	return bookingPayload{
		ID:           b.ID.String(),
		OwnerID:      b.OwnerID.String(),
		Date:         b.Date.Format(dateLayout),
		Time:         b.Slot.String(),
		ServiceLabel: b.ServiceLabel,
		Notes:        b.Notes,
		CreatedAt:    b.CreatedAt.UTC().Format(time.RFC3339),
	}
}

type createBookingRequest struct {
	Date         string `json:"date"`
	Time         string `json:"time"`
	ServiceLabel string `json:"service_label"`
	Notes        string `json:"notes"`
}

func (h *BookingsHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := h.log.With(slog.String("handler", "CreateBooking"))

	ownerID, ok := userIDFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing bearer token")
		return
	}

	var req createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("invalid request", slog.String("reason", "malformed_body"))
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "malformed_date"), slog.String("date", req.Date))
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	slot, err := domain.ParseTimeOfDay(req.Time)
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "malformed_time"), slog.String("time", req.Time))
		writeError(w, http.StatusBadRequest, "time must be HH:MM")
		return
	}

	b, err := h.svc.Create(r.Context(), bookings.CreateInput{
		OwnerID:      ownerID,
		Date:         date,
		Slot:         slot,
		ServiceLabel: req.ServiceLabel,
		Notes:        req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrSlotTaken):
			log.Info("booking conflict", slog.String("date", req.Date), slog.String("time", req.Time))
			writeError(w, http.StatusConflict, "This time is already booked. Pick a different slot.")
		case errors.Is(err, domain.ErrOffGrid):
			log.Warn("invalid request", slog.Any("err", err), slog.String("time", req.Time))
			writeError(w, http.StatusBadRequest, "time is outside business hours or off the booking grid")
		case errors.Is(err, domain.ErrNotFuture):
			log.Warn("invalid request", slog.Any("err", err), slog.String("date", req.Date), slog.String("time", req.Time))
			writeError(w, http.StatusBadRequest, "booking must be for a future date and time")
		default:
			var vErr *bookings.ValidationError
			if errors.As(err, &vErr) {
				log.Warn("invalid request", slog.Any("err", err))
				writeError(w, http.StatusBadRequest, vErr.Error())
				return
			}
			log.Error("booking create failed", slog.Any("err", err), slog.String("owner_id", ownerID.String()))
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	log.Info(
		"booking created",
		slog.String("booking_id", b.ID.String()),
		slog.String("owner_id", b.OwnerID.String()),
		slog.String("date", b.Date.Format(dateLayout)),
		slog.String("time", b.Slot.String()),
	)
	writeJSON(w, http.StatusCreated, toBookingPayload(b))
}

func (h *BookingsHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	log := h.log.With(slog.String("handler", "CancelBooking"))

	requesterID, ok := userIDFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing bearer token")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "invalid_uuid"))
		writeError(w, http.StatusBadRequest, "booking id must be a UUID")
		return
	}

	if err := h.svc.Cancel(r.Context(), id, requesterID); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			log.Info("booking not found", slog.String("booking_id", id.String()))
			writeError(w, http.StatusNotFound, "booking not found")
		case errors.Is(err, bookings.ErrForbidden):
			log.Info("cancel forbidden", slog.String("booking_id", id.String()), slog.String("requester_id", requesterID.String()))
			writeError(w, http.StatusForbidden, "you do not have permission to cancel this booking")
		case errors.Is(err, bookings.ErrAlreadyPast):
			log.Info("cancel rejected for past booking", slog.String("booking_id", id.String()))
			writeError(w, http.StatusBadRequest, "a booking that has already passed cannot be cancelled")
		default:
			var vErr *bookings.ValidationError
			if errors.As(err, &vErr) {
				writeError(w, http.StatusBadRequest, vErr.Error())
				return
			}
			log.Error("booking cancel failed", slog.Any("err", err), slog.String("booking_id", id.String()))
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	log.Info("booking cancelled", slog.String("booking_id", id.String()), slog.String("requester_id", requesterID.String()))
	w.WriteHeader(http.StatusNoContent)
}

func (h *BookingsHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	log := h.log.With(slog.String("handler", "ListMyBookings"))

	ownerID, ok := userIDFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing bearer token")
		return
	}

	rows, err := h.svc.ListOwn(r.Context(), ownerID)
	if err != nil {
		log.Error("bookings list failed", slog.Any("err", err), slog.String("owner_id", ownerID.String()))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	out := make([]bookingPayload, 0, len(rows))
	for _, b := range rows {
		out = append(out, toBookingPayload(b))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *BookingsHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	log := h.log.With(slog.String("handler", "ListAllBookings"))

	rows, err := h.svc.ListAll(r.Context())
	if err != nil {
		log.Error("bookings list failed", slog.Any("err", err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	out := make([]bookingPayload, 0, len(rows))
	for _, b := range rows {
		out = append(out, toBookingPayload(b))
	}
	writeJSON(w, http.StatusOK, out)
}

type slotPayload struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

type availabilityResponse struct {
	Date  string        `json:"date"`
	Slots []slotPayload `json:"slots"`
}

func (h *BookingsHandler) Availability(w http.ResponseWriter, r *http.Request) {
	log := h.log.With(slog.String("handler", "Availability"))

	raw := chi.URLParam(r, "date")
	date, err := time.Parse(dateLayout, raw)
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "malformed_date"), slog.String("date", raw))
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	slots, err := h.svc.Availability(r.Context(), date)
	if err != nil {
		if errors.Is(err, domain.ErrPastDate) {
			log.Warn("invalid request", slog.Any("err", err), slog.String("date", raw))
			writeError(w, http.StatusBadRequest, "date must be today or later")
			return
		}
		log.Error("availability failed", slog.Any("err", err), slog.String("date", raw))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	out := availabilityResponse{Date: raw, Slots: make([]slotPayload, 0, len(slots))}
	for _, s := range slots {
		out.Slots = append(out.Slots, slotPayload{Time: s.Slot.String(), Available: s.Available})
	}

	log.Debug("availability computed", slog.String("date", raw), slog.Int("slots", len(out.Slots)))
	writeJSON(w, http.StatusOK, out)
}
