package model

// Audit trail operations.  Every mutating operation writes exactly one entry.
const (
	AuditCreate  = "create"
	AuditUpdate  = "update"
	AuditDelete  = "delete"
	AuditRestore = "restore"
)

// AuditTrailEntry is an append-only record of an entity mutation, written
// inside the same transaction as the mutation itself so a rollback also
// rolls back the audit row.  BeforeState is nil for creations.
type AuditTrailEntry struct {
	EntityName  string  // e.g. "reservation", "spaces"
	EntityID    string  // entity UUID
	Operation   string  // AuditCreate | AuditUpdate | AuditDelete
	BeforeState []byte  // JSON snapshot prior to the mutation, nil on create
	AfterState  []byte  // JSON snapshot after the mutation
	UserUUID    *string // acting user, nil for system actions
}
