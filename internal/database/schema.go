package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Schema creation runs once at process start. There is no migration
// protocol beyond "create tables if absent".
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id             BIGINT PRIMARY KEY,
		username       TEXT,
		full_name      TEXT,
		is_coordinator BOOLEAN NOT NULL DEFAULT FALSE,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS campaigns (
		id              BIGSERIAL PRIMARY KEY,
		title           TEXT NOT NULL,
		total_amount    BIGINT NOT NULL,
		per_user_amount BIGINT NOT NULL,
		created_by      BIGINT NOT NULL REFERENCES users(id),
		is_active       BOOLEAN NOT NULL DEFAULT TRUE,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS campaign_members (
		id          BIGSERIAL PRIMARY KEY,
		campaign_id BIGINT NOT NULL REFERENCES campaigns(id),
		user_id     BIGINT NOT NULL REFERENCES users(id),
		has_paid    BOOLEAN NOT NULL DEFAULT FALSE,
		paid_at     TIMESTAMPTZ,
		UNIQUE (campaign_id, user_id)
	)`,
}

// CreateTables creates the three application tables if they do not exist.
func CreateTables(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}
