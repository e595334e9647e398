package repository

import (
	"context"
	"database/sql"

	"github.com/kamuxx/reservas-api/internal/model"
)

// AuditRepo appends entries to the entity_audit_trails table. The table is
// append-only and never read by the reservation core; writes happen inside
// the caller's transaction so a rollback also rolls back the audit row.
type AuditRepo struct {
	db *sql.DB
}

// NewAuditRepo returns a new AuditRepo bound to the given database.
func NewAuditRepo(db *sql.DB) *AuditRepo { return &AuditRepo{db: db} }

// AppendTx writes one audit trail entry within the provided transaction.
func (r *AuditRepo) AppendTx(ctx context.Context, tx *sql.Tx, e model.AuditTrailEntry) error {
	const q = `INSERT INTO entity_audit_trails
		(entity_name, entity_id, operation, before_state, after_state, user_uuid)
		VALUES (?, ?, ?, ?, ?, ?)`
	var before any
	if e.BeforeState != nil {
		before = string(e.BeforeState)
	}
	_, err := tx.ExecContext(ctx, q, e.EntityName, e.EntityID, e.Operation,
		before, string(e.AfterState), e.UserUUID)
	return err
}
