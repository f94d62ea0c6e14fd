// Package schema holds the Postgres tables of the Interlink backend.
package schema

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
)

//go:embed schema.sql
var ddl string

// Apply creates any missing tables. It is safe to run on every start.
func Apply(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Tables lists the tables Apply creates, children first.
func Tables() []string {
	return []string{"submission_keys", "invitations", "about_me", "users"}
}
