// Package repository defines error types that are reused across multiple
// repositories and use cases. These sentinel values allow higher layers such
// as handlers to distinguish between different failure scenarios. Missing
// rows are reported as sql.ErrNoRows, so only the domain-specific outcomes
// get their own sentinels here.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own. Handlers should translate this into an HTTP 403
// response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a candidate reservation interval overlaps an
// existing non-cancelled reservation for the same space and date. Handlers
// should translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrUnprocessable is returned when a reservation is not in a cancellable
// state (only confirmed or scheduled reservations may be cancelled).
// Handlers should translate this into an HTTP 422 response.
var ErrUnprocessable = errors.New("unprocessable state")

// ErrMisconfigured signals absent reference seed data, such as a missing
// "cancelada" status row. It is an operational fault, surfaced as HTTP 500
// and checked fatally at startup, never worked around per request.
var ErrMisconfigured = errors.New("misconfigured reference data")
