package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kamuxx/reservas-api/internal/model"
	"github.com/kamuxx/reservas-api/internal/queue"
	"github.com/kamuxx/reservas-api/internal/repository"
	queue_publisher "github.com/kamuxx/reservas-api/internal/service"
	"github.com/kamuxx/reservas-api/internal/usecase"
)

// ReservationHandler exposes the reservation engine over HTTP. Admission and
// cancellation delegate to the use case layer, which owns the transaction;
// the handler only validates input, maps domain errors to status codes and
// fires broker events after a successful commit. All methods assume JWT
// authentication has already run.
type ReservationHandler struct {
	UC           *usecase.ReservationUseCases
	Reservations *repository.ReservationRepo
	AMQPURL      string // empty disables event publishing
}

// NewReservationHandler constructs a ReservationHandler. Dependencies must be
// non-nil.
func NewReservationHandler(uc *usecase.ReservationUseCases, reservations *repository.ReservationRepo, amqpURL string) *ReservationHandler {
	if uc == nil || reservations == nil {
		panic("nil dependency passed to NewReservationHandler")
	}
	return &ReservationHandler{UC: uc, Reservations: reservations, AMQPURL: amqpURL}
}

type createReservationReq struct {
	SpaceID          string  `json:"space_id"`
	EventName        string  `json:"event_name"`
	EventDescription *string `json:"event_description"`
	EventDate        string  `json:"event_date"` // YYYY-MM-DD
	StartTime        string  `json:"start_time"` // HH:MM
	EndTime          string  `json:"end_time"`   // HH:MM
}

type cancelReservationReq struct {
	Reason *string `json:"reason"`
}

// Create handles POST /v1/reservations. It validates the requested interval,
// then admits the reservation through the engine: lock the space, check for
// overlap under the lock, price, persist and audit atomically. Returns 201
// with the stored reservation, 404 when the space does not exist, 409 when
// the interval overlaps an active reservation.
func (h *ReservationHandler) Create(c echo.Context) error {
	userUUID, err := getUserUUID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createReservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.SpaceID = strings.TrimSpace(req.SpaceID)
	req.EventName = strings.TrimSpace(req.EventName)
	if req.SpaceID == "" || req.EventName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "space_id and event_name are required"})
	}
	if _, err := time.Parse("2006-01-02", req.EventDate); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "event_date must be YYYY-MM-DD"})
	}
	start, err := model.ClockSeconds(req.StartTime)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "start_time must be HH:MM"})
	}
	end, err := model.ClockSeconds(req.EndTime)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "end_time must be HH:MM"})
	}
	if start >= end {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "start_time must be before end_time"})
	}

	res, err := h.UC.Create(c.Request().Context(), usecase.CreateReservationInput{
		SpaceID:          req.SpaceID,
		EventName:        req.EventName,
		EventDescription: req.EventDescription,
		EventDate:        req.EventDate,
		StartTime:        req.StartTime,
		EndTime:          req.EndTime,
	}, userUUID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "space not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "time slot not available"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create reservation"})
		}
	}

	h.publish(res, queue.EventReservationConfirmed)
	return c.JSON(http.StatusCreated, echo.Map{"item": res})
}

// Cancel handles DELETE /v1/reservations/:id. Owners cancel their own
// reservations; admins can cancel any. Returns 200 with the cancelled
// reservation, 404 when absent, 403 when not permitted, 422 when the
// reservation is not in a cancellable state.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	userUUID, err := getUserUUID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	var req cancelReservationReq
	_ = c.Bind(&req) // reason is optional; ignore malformed bodies

	res, err := h.UC.Cancel(c.Request().Context(), id, userUUID, getRole(c), req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		case errors.Is(err, repository.ErrUnprocessable):
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "reservation cannot be cancelled"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to cancel reservation"})
		}
	}

	h.publish(res, queue.EventReservationCancelled)
	return c.JSON(http.StatusOK, echo.Map{"item": res})
}

// ListMine handles GET /v1/my-reservations. Returns all reservations created
// by the current user, newest first; an empty array when none exist.
func (h *ReservationHandler) ListMine(c echo.Context) error {
	userUUID, err := getUserUUID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Reservations.ListByUser(c.Request().Context(), userUUID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservations"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Get handles GET /v1/reservations/:id. Owners see their own reservations;
// admins see any. A reservation owned by someone else looks absent rather
// than forbidden, so the endpoint does not leak which IDs exist.
func (h *ReservationHandler) Get(c echo.Context) error {
	userUUID, err := getUserUUID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	res, err := h.Reservations.GetByUUID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch reservation"})
	}
	if getRole(c) != model.RoleAdmin && res.ReservedBy != userUUID {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": res})
}

// publish fires a broker event for a committed reservation change. Publishing
// is best effort: the reservation is already durable, so failures are only
// logged by the publisher and never surfaced to the client.
func (h *ReservationHandler) publish(res *model.Reservation, eventType string) {
	if h.AMQPURL == "" || res == nil {
		return
	}
	ev := queue.ReservationEvent{
		Type:            eventType,
		ReservationUUID: res.UUID,
		SpaceUUID:       res.SpaceID,
		UserUUID:        res.ReservedBy,
		EventName:       res.EventName,
		EventDate:       res.EventDate,
		StartTime:       res.StartTime,
		EndTime:         res.EndTime,
		EventPrice:      res.EventPrice.StringFixed(2),
		OccurredAt:      time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = queue_publisher.PublishReservationEvent(ctx, h.AMQPURL, ev)
	}()
}
