package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Reservation records a user's claim on a space for a time interval on a
// single event date.  Rows are never physically deleted by the reservation
// flow; cancellation only flips the status and records who cancelled.  Soft
// deletion (DeletedAt) belongs to housekeeping outside this subsystem.
//
// Invariant: for a given (space, date), reservations whose status is not the
// cancelled status must have pairwise non-overlapping [start, end) intervals.
// The invariant is enforced transactionally during admission, never in
// process memory.
type Reservation struct {
	UUID               string          `json:"uuid"`
	ReservedBy         string          `json:"reserved_by"`
	SpaceID            string          `json:"space_id"`
	StatusID           string          `json:"status_id"`
	EventName          string          `json:"event_name"`
	EventDescription   *string         `json:"event_description,omitempty"`
	EventDate          string          `json:"event_date"` // YYYY-MM-DD
	StartTime          string          `json:"start_time"` // HH:MM or HH:MM:SS
	EndTime            string          `json:"end_time"`
	EventPrice         decimal.Decimal `json:"event_price"`
	PricingRuleID      *string         `json:"pricing_rule_id,omitempty"`
	CancellationReason *string         `json:"cancellation_reason,omitempty"`
	CancellationBy     *string         `json:"cancellation_by,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
	DeletedAt          *time.Time      `json:"deleted_at,omitempty"`
}

// Interval is a [start, end) time-of-day pair as stored on a reservation row.
type Interval struct {
	Start string
	End   string
}

// ClockSeconds parses a time-of-day string ("10:00", "10:00:30") into seconds
// since midnight.  "24:00" is accepted as the exclusive end of a day so that a
// full-day reservation can be expressed as [00:00, 24:00).
func ClockSeconds(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 24 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	sec := 0
	if len(parts) == 3 {
		sec, err = strconv.Atoi(parts[2])
		if err != nil || sec < 0 || sec > 59 {
			return 0, fmt.Errorf("invalid second in %q", s)
		}
	}
	total := h*3600 + m*60 + sec
	if total > 24*3600 {
		return 0, fmt.Errorf("time %q beyond end of day", s)
	}
	return total, nil
}

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) share any instant.  Touching endpoints do not overlap.
// Malformed time strings never report an overlap.
func Overlaps(aStart, aEnd, bStart, bEnd string) bool {
	as, err := ClockSeconds(aStart)
	if err != nil {
		return false
	}
	ae, err := ClockSeconds(aEnd)
	if err != nil {
		return false
	}
	bs, err := ClockSeconds(bStart)
	if err != nil {
		return false
	}
	be, err := ClockSeconds(bEnd)
	if err != nil {
		return false
	}
	return as < be && ae > bs
}
