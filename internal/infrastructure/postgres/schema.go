package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS charges (
	id         TEXT PRIMARY KEY,
	amount     NUMERIC(15, 2),
	reference  TEXT NOT NULL,
	payload    TEXT NOT NULL,
	status     TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS charges_created_at_idx ON charges (created_at DESC);

CREATE TABLE IF NOT EXISTS idempotency_keys (
	key           TEXT PRIMARY KEY,
	charge_id     TEXT NOT NULL,
	response_body BYTEA NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, schema)
	return err
}
