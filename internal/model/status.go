package model

// Status is a row of the name-keyed status lookup table.  Names are seed
// data ("confirmada", "agendada", "cancelada", ...) so operators can rename
// states without a migration.
type Status struct {
	UUID string `json:"uuid"`
	Name string `json:"name"`
}

// StatusSet is the bounded set of reservation states the core needs, resolved
// once at startup instead of by per-request name lookups.  Confirmed and
// Cancelled are mandatory; boot fails when the seed data cannot resolve them.
// Scheduled is optional and may be the zero value in underseeded
// environments.
type StatusSet struct {
	Confirmed Status
	Scheduled Status
	Cancelled Status
}

// Cancellable reports whether a reservation in the given status may be
// cancelled: only confirmed or scheduled reservations qualify.
func (s StatusSet) Cancellable(statusID string) bool {
	if statusID == s.Confirmed.UUID {
		return true
	}
	return s.Scheduled.UUID != "" && statusID == s.Scheduled.UUID
}
