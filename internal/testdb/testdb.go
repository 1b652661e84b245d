// Package testdb hands database-backed tests a pgx pool against the
// database named by TEST_DATABASE_URL, bootstrapping the schema on first
// use. Tests skip when the variable is unset, so the default `go test`
// run stays database-free.
package testdb

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// Mirrors migrations/001_init.sql. Kept idempotent so repeated runs
// against the same database are safe.
const schema = `
CREATE EXTENSION IF NOT EXISTS pgcrypto;

CREATE TABLE IF NOT EXISTS lessons (
    id         uuid PRIMARY KEY DEFAULT gen_random_uuid(),
    topic      text NOT NULL,
    price      numeric NOT NULL CHECK (price > 0),
    location   text NOT NULL,
    space      integer NOT NULL DEFAULT 0 CHECK (space >= 0),
    created_at timestamptz NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS orders (
    id               uuid PRIMARY KEY DEFAULT gen_random_uuid(),
    name             text NOT NULL,
    phone_number     text NOT NULL,
    lesson_ids       uuid[] NOT NULL,
    number_of_spaces integer NOT NULL CHECK (number_of_spaces > 0),
    total_price      numeric NOT NULL,
    order_date       timestamptz NOT NULL DEFAULT now(),
    status           text NOT NULL DEFAULT 'pending',
    email            text NOT NULL DEFAULT '',
    notes            text NOT NULL DEFAULT '',
    lesson_details   jsonb NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_orders_order_date ON orders (order_date DESC);
`

// New connects to TEST_DATABASE_URL and ensures the schema exists. The
// pool is closed when the test finishes.
func New(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	// no bind parameters, so pgx sends this as one simple-protocol batch
	_, err = pool.Exec(ctx, schema)
	require.NoError(t, err)

	return pool
}
