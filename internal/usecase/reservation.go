package usecase

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/kamuxx/reservas-api/internal/database"
	"github.com/kamuxx/reservas-api/internal/model"
	"github.com/kamuxx/reservas-api/internal/repository"
)

// SpaceStore is the slice of the catalog the admission flow needs: load one
// space by UUID with a pessimistic write lock, pricing rule attached.
// Implementations return sql.ErrNoRows when the space does not exist.
type SpaceStore interface {
	GetForUpdateTx(ctx context.Context, tx *sql.Tx, uuid string) (*model.Space, error)
}

// ReservationStore is the persistence contract for reservations as consumed
// by admission and cancellation. All methods run inside the caller's
// transaction.
type ReservationStore interface {
	HasOverlapTx(ctx context.Context, tx *sql.Tx, spaceID, date, start, end, cancelledStatusID string) (bool, error)
	CreateTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error
	GetForUpdateTx(ctx context.Context, tx *sql.Tx, uuid string) (*model.Reservation, error)
	MarkCancelledTx(ctx context.Context, tx *sql.Tx, uuid, statusID, cancelledBy string, reason *string) error
}

// AuditSink appends one before/after entry per mutating operation, inside
// the same transaction as the mutation.
type AuditSink interface {
	AppendTx(ctx context.Context, tx *sql.Tx, e model.AuditTrailEntry) error
}

// ReservationUseCases orchestrates reservation admission and cancellation.
// Every mutating operation runs inside one unit of work: the space (or
// reservation) row lock is acquired first, every check and write happens
// under it, and any failure rolls the whole transaction back so no partial
// reservation or orphan audit row is ever observable.
type ReservationUseCases struct {
	run          database.TxRunner
	spaces       SpaceStore
	reservations ReservationStore
	audits       AuditSink
	statuses     model.StatusSet
}

// NewReservationUseCases wires the reservation engine. The status set must
// come from a successful StatusRepo.LoadStatusSet call at startup.
func NewReservationUseCases(run database.TxRunner, spaces SpaceStore, reservations ReservationStore, audits AuditSink, statuses model.StatusSet) *ReservationUseCases {
	if run == nil || spaces == nil || reservations == nil || audits == nil {
		panic("nil dependency passed to NewReservationUseCases")
	}
	return &ReservationUseCases{
		run:          run,
		spaces:       spaces,
		reservations: reservations,
		audits:       audits,
		statuses:     statuses,
	}
}

// CreateReservationInput carries the validated admission request fields.
type CreateReservationInput struct {
	SpaceID          string
	EventName        string
	EventDescription *string
	EventDate        string // YYYY-MM-DD
	StartTime        string // HH:MM
	EndTime          string // HH:MM
}

// Create admits a new reservation. Inside one transaction it locks the
// target space, re-checks overlap under the lock, prices the interval,
// persists the reservation in the confirmed status and appends the audit
// entry. A second concurrent admission for the same space blocks on the row
// lock until this transaction finishes, which is what makes the overlap
// check authoritative: no two overlapping reservations can both commit.
//
// Errors: sql.ErrNoRows when the space does not exist,
// repository.ErrConflict when the interval overlaps an active reservation.
func (u *ReservationUseCases) Create(ctx context.Context, in CreateReservationInput, userUUID string) (*model.Reservation, error) {
	var res *model.Reservation
	err := u.run(ctx, func(tx *sql.Tx) error {
		space, err := u.spaces.GetForUpdateTx(ctx, tx, in.SpaceID)
		if err != nil {
			return err
		}

		overlap, err := u.reservations.HasOverlapTx(ctx, tx, space.UUID, in.EventDate,
			in.StartTime, in.EndTime, u.statuses.Cancelled.UUID)
		if err != nil {
			return fmt.Errorf("overlap check: %w", err)
		}
		if overlap {
			return repository.ErrConflict
		}

		res = &model.Reservation{
			UUID:             uuid.NewString(),
			ReservedBy:       userUUID,
			SpaceID:          space.UUID,
			StatusID:         u.statuses.Confirmed.UUID,
			EventName:        in.EventName,
			EventDescription: in.EventDescription,
			EventDate:        in.EventDate,
			StartTime:        in.StartTime,
			EndTime:          in.EndTime,
			EventPrice:       CalculatePrice(space.PricingRule, in.StartTime, in.EndTime),
			PricingRuleID:    space.PricingRuleID,
		}
		if err := u.reservations.CreateTx(ctx, tx, res); err != nil {
			return fmt.Errorf("create reservation: %w", err)
		}

		after, err := json.Marshal(res)
		if err != nil {
			return fmt.Errorf("serialize reservation: %w", err)
		}
		return u.audits.AppendTx(ctx, tx, model.AuditTrailEntry{
			EntityName: "reservation",
			EntityID:   res.UUID,
			Operation:  model.AuditCreate,
			AfterState: after,
			UserUUID:   &userUUID,
		})
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Cancel cancels an existing reservation. Inside one transaction it locks
// the reservation row, authorizes the actor (admins may cancel anything,
// everyone else only their own), validates the state transition, flips the
// status to cancelled and appends the audit entry.
//
// Errors: sql.ErrNoRows when the reservation does not exist,
// repository.ErrForbidden when the actor may not cancel it,
// repository.ErrUnprocessable when it is not in a cancellable state.
func (u *ReservationUseCases) Cancel(ctx context.Context, reservationUUID, userUUID string, role model.Role, reason *string) (*model.Reservation, error) {
	var res *model.Reservation
	err := u.run(ctx, func(tx *sql.Tx) error {
		var err error
		res, err = u.reservations.GetForUpdateTx(ctx, tx, reservationUUID)
		if err != nil {
			return err
		}

		if role != model.RoleAdmin && res.ReservedBy != userUUID {
			return repository.ErrForbidden
		}
		if !u.statuses.Cancellable(res.StatusID) {
			return repository.ErrUnprocessable
		}

		if err := u.reservations.MarkCancelledTx(ctx, tx, res.UUID,
			u.statuses.Cancelled.UUID, userUUID, reason); err != nil {
			return fmt.Errorf("mark cancelled: %w", err)
		}
		res.StatusID = u.statuses.Cancelled.UUID
		res.CancellationBy = &userUUID
		res.CancellationReason = reason

		after, err := json.Marshal(res)
		if err != nil {
			return fmt.Errorf("serialize reservation: %w", err)
		}
		return u.audits.AppendTx(ctx, tx, model.AuditTrailEntry{
			EntityName: "reservation",
			EntityID:   res.UUID,
			Operation:  model.AuditUpdate,
			AfterState: after,
			UserUUID:   &userUUID,
		})
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
