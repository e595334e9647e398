package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/kamuxx/reservas-api/internal/model"
)

// ReservationRepo owns persistence for the reservation table. All timestamp
// columns are stored in UTC; event_date is a DATE and start/end times are
// TIME columns exposed to callers as strings. Soft-deleted rows are excluded
// from every read.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

const reservationColumns = `uuid, reserved_by, space_id, status_id, event_name,
	event_description, event_date, start_time, end_time, event_price,
	pricing_rule_id, cancellation_reason, cancellation_by, created_at, updated_at`

func scanReservation(row interface{ Scan(...any) error }) (*model.Reservation, error) {
	var res model.Reservation
	var desc, ruleID, reason, cancelBy sql.NullString
	var eventDate time.Time
	err := row.Scan(&res.UUID, &res.ReservedBy, &res.SpaceID, &res.StatusID,
		&res.EventName, &desc, &eventDate, &res.StartTime, &res.EndTime,
		&res.EventPrice, &ruleID, &reason, &cancelBy, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return nil, err
	}
	res.EventDate = eventDate.UTC().Format("2006-01-02")
	if desc.Valid {
		res.EventDescription = &desc.String
	}
	if ruleID.Valid {
		res.PricingRuleID = &ruleID.String
	}
	if reason.Valid {
		res.CancellationReason = &reason.String
	}
	if cancelBy.Valid {
		res.CancellationBy = &cancelBy.String
	}
	return &res, nil
}

// CreateTx inserts a new reservation within the scope of an existing
// transaction and reads the row back to populate database-generated
// timestamps. The caller must commit or roll back the transaction.
func (r *ReservationRepo) CreateTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error {
	const q = `INSERT INTO reservation
		(uuid, reserved_by, space_id, status_id, event_name, event_description,
		 event_date, start_time, end_time, event_price, pricing_rule_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := tx.ExecContext(ctx, q, res.UUID, res.ReservedBy, res.SpaceID, res.StatusID,
		res.EventName, res.EventDescription, res.EventDate, res.StartTime, res.EndTime,
		res.EventPrice, res.PricingRuleID)
	if err != nil {
		return err
	}
	const sel = `SELECT created_at, updated_at FROM reservation WHERE uuid = ?`
	return tx.QueryRowContext(ctx, sel, res.UUID).Scan(&res.CreatedAt, &res.UpdatedAt)
}

// HasOverlapTx reports whether the candidate interval [start, end) conflicts
// with any non-cancelled, non-deleted reservation for the space on the given
// date. It must be called while the caller holds the space row lock: only
// the locked check is authoritative, since a check made before the lock can
// race another admission. Returns true on the first conflicting row.
func (r *ReservationRepo) HasOverlapTx(ctx context.Context, tx *sql.Tx, spaceID, date, start, end, cancelledStatusID string) (bool, error) {
	const q = `SELECT start_time, end_time FROM reservation
		WHERE space_id = ? AND event_date = ? AND status_id <> ? AND deleted_at IS NULL`
	rows, err := tx.QueryContext(ctx, q, spaceID, date, cancelledStatusID)
	if err != nil {
		return false, err
	}
	defer rows.Close()
	for rows.Next() {
		var iv model.Interval
		if err := rows.Scan(&iv.Start, &iv.End); err != nil {
			return false, err
		}
		if model.Overlaps(iv.Start, iv.End, start, end) {
			return true, nil
		}
	}
	return false, rows.Err()
}

// GetForUpdateTx loads a reservation by UUID with a pessimistic write lock
// held for the duration of the transaction. Soft-deleted rows are treated as
// absent. Returns sql.ErrNoRows when the reservation does not exist.
func (r *ReservationRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, uuid string) (*model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservation
		WHERE uuid = ? AND deleted_at IS NULL FOR UPDATE`
	return scanReservation(tx.QueryRowContext(ctx, q, uuid))
}

// MarkCancelledTx flips a reservation into the cancelled status and records
// who cancelled it and why. The row itself is kept; reservations are never
// physically deleted by the cancellation flow.
func (r *ReservationRepo) MarkCancelledTx(ctx context.Context, tx *sql.Tx, uuid, statusID, cancelledBy string, reason *string) error {
	const q = `UPDATE reservation
		SET status_id = ?, cancellation_by = ?, cancellation_reason = ?
		WHERE uuid = ? AND deleted_at IS NULL`
	_, err := tx.ExecContext(ctx, q, statusID, cancelledBy, reason, uuid)
	return err
}

// GetByUUID fetches a single reservation without locking. Returns
// sql.ErrNoRows when absent or soft-deleted.
func (r *ReservationRepo) GetByUUID(ctx context.Context, uuid string) (*model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservation
		WHERE uuid = ? AND deleted_at IS NULL`
	return scanReservation(r.db.QueryRowContext(ctx, q, uuid))
}

// ListByUser returns all reservations created by the given user, newest
// first. When no reservations exist, an empty slice is returned.
func (r *ReservationRepo) ListByUser(ctx context.Context, userUUID string) ([]model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservation
		WHERE reserved_by = ? AND deleted_at IS NULL
		ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userUUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// OccupiedSlot is one confirmed booking interval returned by OccupiedSlots.
type OccupiedSlot struct {
	EventDate string `json:"event_date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// OccupiedSlots lists the confirmed booking intervals for a space across a
// date range, ordered by date then start time. It backs the public "when is
// this space taken" view.
func (r *ReservationRepo) OccupiedSlots(ctx context.Context, spaceID, fromDate, toDate, confirmedStatusID string) ([]OccupiedSlot, error) {
	const q = `SELECT event_date, start_time, end_time FROM reservation
		WHERE space_id = ? AND status_id = ?
		  AND event_date >= ? AND event_date <= ? AND deleted_at IS NULL
		ORDER BY event_date, start_time`
	rows, err := r.db.QueryContext(ctx, q, spaceID, confirmedStatusID, fromDate, toDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	slots := make([]OccupiedSlot, 0)
	for rows.Next() {
		var s OccupiedSlot
		var d time.Time
		if err := rows.Scan(&d, &s.StartTime, &s.EndTime); err != nil {
			return nil, err
		}
		s.EventDate = d.UTC().Format("2006-01-02")
		slots = append(slots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return slots, nil
}
