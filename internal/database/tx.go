package database

import (
	"context"
	"database/sql"
	"fmt"
)

// TxRunner executes fn inside a single database transaction: commit when fn
// returns nil, rollback on any error.  It is the unit of work shared by
// reservation admission and cancellation, so a failure at any step leaves no
// partial reservation and no orphan audit row behind.
type TxRunner func(ctx context.Context, fn func(tx *sql.Tx) error) error

// NewTxRunner returns a TxRunner bound to db.
func NewTxRunner(db *sql.DB) TxRunner {
	return func(ctx context.Context, fn func(tx *sql.Tx) error) error {
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		if err := fn(tx); err != nil {
			_ = tx.Rollback()
			return err
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit tx: %w", err)
		}
		return nil
	}
}
