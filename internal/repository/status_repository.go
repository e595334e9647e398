package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kamuxx/reservas-api/internal/model"
)

// StatusRepo reads the name-keyed status lookup table. Statuses are seed
// data; the set the reservation core relies on is resolved once at startup
// via LoadStatusSet rather than by per-request name lookups.
type StatusRepo struct {
	db *sql.DB
}

// NewStatusRepo returns a new StatusRepo bound to the given database.
func NewStatusRepo(db *sql.DB) *StatusRepo { return &StatusRepo{db: db} }

// Name chains tried when resolving each canonical state. The chains mirror
// the seed vocabularies the system has shipped with (Spanish first, then the
// older English names), so operators can rename rows without a migration as
// long as one alias per required state remains.
var (
	confirmedNames = []string{"confirmada", "agendada", "active"}
	scheduledNames = []string{"agendada"}
	cancelledNames = []string{"cancelada", "canceled"}
)

// LoadStatusSet loads every status row and resolves the confirmed, scheduled
// and cancelled states. Confirmed and cancelled are mandatory: when neither
// alias resolves the database seed is broken and the error wraps
// ErrMisconfigured so callers can fail fast at boot. Scheduled is optional
// and left as the zero value when absent.
func (r *StatusRepo) LoadStatusSet(ctx context.Context) (model.StatusSet, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT uuid, name FROM status`)
	if err != nil {
		return model.StatusSet{}, fmt.Errorf("load statuses: %w", err)
	}
	defer rows.Close()

	byName := make(map[string]model.Status)
	for rows.Next() {
		var s model.Status
		if err := rows.Scan(&s.UUID, &s.Name); err != nil {
			return model.StatusSet{}, err
		}
		byName[s.Name] = s
	}
	if err := rows.Err(); err != nil {
		return model.StatusSet{}, err
	}

	var set model.StatusSet
	var ok bool
	if set.Confirmed, ok = firstOf(byName, confirmedNames); !ok {
		return model.StatusSet{}, fmt.Errorf("no confirmed status (tried %v): %w", confirmedNames, ErrMisconfigured)
	}
	if set.Cancelled, ok = firstOf(byName, cancelledNames); !ok {
		return model.StatusSet{}, fmt.Errorf("no cancelled status (tried %v): %w", cancelledNames, ErrMisconfigured)
	}
	set.Scheduled, _ = firstOf(byName, scheduledNames)
	return set, nil
}

// firstOf returns the status for the first name in the chain present in m.
func firstOf(m map[string]model.Status, names []string) (model.Status, bool) {
	for _, n := range names {
		if s, ok := m[n]; ok {
			return s, true
		}
	}
	return model.Status{}, false
}
