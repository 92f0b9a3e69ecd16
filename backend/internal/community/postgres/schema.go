package postgres

import (
	"context"

	apperrors "orkg-backend/backend/pkg/errors"
)

// Schema creates the community tables. Every statement is idempotent.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS "organizations" (
		"id"           uuid PRIMARY KEY,
		"name"         text NOT NULL,
		"display_id"   text NOT NULL UNIQUE,
		"url"          text NOT NULL DEFAULT '',
		"type"         text NOT NULL DEFAULT 'GENERAL',
		"created_by"   uuid
	)`,
	`CREATE TABLE IF NOT EXISTS "observatories" (
		"id"               uuid PRIMARY KEY,
		"name"             text NOT NULL UNIQUE,
		"description"      text NOT NULL DEFAULT '',
		"research_field"   text NOT NULL,
		"display_id"       text NOT NULL UNIQUE,
		"organization_ids" uuid[] NOT NULL DEFAULT '{}'
	)`,
	`CREATE TABLE IF NOT EXISTS "contributors" (
		"id"              uuid PRIMARY KEY,
		"name"            text NOT NULL,
		"email"           text NOT NULL DEFAULT '',
		"joined_at"       timestamptz NOT NULL DEFAULT now(),
		"observatory_id"  uuid REFERENCES "observatories" ("id") ON DELETE SET NULL,
		"organization_id" uuid REFERENCES "organizations" ("id") ON DELETE SET NULL
	)`,
	`CREATE INDEX IF NOT EXISTS "contributors_observatory_idx" ON "contributors" ("observatory_id")`,
}

// Migrate applies Schema in order
func Migrate(ctx context.Context, q Queryer) error {
	for _, stmt := range Schema {
		if _, err := q.Exec(ctx, stmt); err != nil {
			return apperrors.NewStoreQueryFailed("migrate", err)
		}
	}
	return nil
}
