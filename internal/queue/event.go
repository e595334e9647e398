// Package queue defines message payloads exchanged over the message broker
// and the background consumer that processes them.
package queue

// Event types carried in ReservationEvent.Type.
const (
	EventReservationConfirmed = "reservation.confirmed"
	EventReservationCancelled = "reservation.cancelled"
)

// ReservationEvent is published after a reservation is admitted or cancelled.
// It contains enough information for downstream consumers to log, notify, or
// trigger analytics without querying the primary database.
type ReservationEvent struct {
	Type            string `json:"type"`
	ReservationUUID string `json:"reservation_uuid"`
	SpaceUUID       string `json:"space_uuid"`
	UserUUID        string `json:"user_uuid"`
	EventName       string `json:"event_name"`
	EventDate       string `json:"event_date"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	EventPrice      string `json:"event_price"`
	OccurredAt      string `json:"occurred_at"`
}
