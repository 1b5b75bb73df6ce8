package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"
)

// schema is idempotent. Username uniqueness lives here, not in application
// code, so concurrent registrations cannot both succeed.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id              TEXT        PRIMARY KEY,
		username        TEXT        NOT NULL,
		hashed_password TEXT        NOT NULL,
		role            TEXT        NOT NULL DEFAULT 'user' CHECK (role IN ('admin', 'user')),
		status          TEXT        NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'suspended')),
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS users_username_key ON users (username)`,

	`CREATE TABLE IF NOT EXISTS resources (
		id         TEXT        PRIMARY KEY,
		name       TEXT        NOT NULL,
		slug       TEXT        NOT NULL DEFAULT '',
		link       TEXT        NOT NULL,
		category   TEXT        NOT NULL,
		type       TEXT        NOT NULL,
		tags       TEXT[]      NOT NULL DEFAULT '{}',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS resources_tags_idx ON resources USING GIN (tags)`,
	`CREATE INDEX IF NOT EXISTS resources_created_at_idx ON resources (created_at, id)`,

	`CREATE TABLE IF NOT EXISTS requests (
		id            TEXT        PRIMARY KEY,
		user_name     TEXT        NOT NULL,
		resource_name TEXT        NOT NULL,
		resource_type TEXT        NOT NULL,
		request_date  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		status        TEXT        NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'approved', 'rejected')),
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS requests_created_at_idx ON requests (created_at, id)`,
}

// Migrate creates the tables and indexes inside one transaction.
func Migrate(ctx context.Context, db *sql.DB, log logrus.FieldLogger) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration: %w", err)
	}
	defer tx.Rollback()

	for i, stmt := range schema {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration step %d: %w", i+1, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration: %w", err)
	}
	log.WithField("statements", len(schema)).Info("Database schema is up to date")
	return nil
}
