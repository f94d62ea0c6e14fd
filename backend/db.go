package main

import (
	"context"
	"database/sql"
	"fmt"

	"gitea.kood.tech/petrkubec/interlink/internal/schema"
	_ "github.com/lib/pq" // PostgreSQL driver
)

// openDB connects to Postgres and makes sure the tables exist.
func openDB(ctx context.Context, connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("reach database: %w", err)
	}
	if err := schema.Apply(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
