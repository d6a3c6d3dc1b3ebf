// Package store is the optional Postgres archive for parsed incidents. It
// lives entirely behind the boundary layer: the extraction engine never
// touches it and keeps working when no database is configured.
package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

// EnsureSchema creates the incidents table when it does not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS incidents (
			id              uuid PRIMARY KEY,
			data_ocorrencia text NOT NULL,
			local           text NOT NULL,
			tipo_incidente  text NOT NULL,
			impacto         text NOT NULL,
			method          text NOT NULL,
			source_text     text NOT NULL,
			created_at      timestamptz NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("create incidents table: %w", err)
	}
	return nil
}
