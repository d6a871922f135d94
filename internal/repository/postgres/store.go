package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"quill/internal/domain"
	"quill/internal/domain/repositories"
)

// Store is a key-value medium kept in a single Postgres table, so several
// devices can share one storage namespace.
type Store struct {
	pool   *pgxpool.Pool
	table  string
	logger *slog.Logger
}

// NewStore creates the kv table if needed. tablePrefix follows the
// environment (dev_, test_, prod_).
func NewStore(ctx context.Context, pool *pgxpool.Pool, tablePrefix string, logger *slog.Logger) (*Store, error) {
	s := &Store{
		pool:   pool,
		table:  pgx.Identifier{tablePrefix + "kv"}.Sanitize(),
		logger: logger,
	}

	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			key        TEXT PRIMARY KEY,
			value      BYTEA NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`, s.table)
	if _, err := pool.Exec(ctx, query); err != nil {
		return nil, fmt.Errorf("create kv table: %w", err)
	}

	return s, nil
}

var _ repositories.KeyValueStore = (*Store)(nil)

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	query := fmt.Sprintf(`SELECT value FROM %s WHERE key = $1`, s.table)

	var value []byte
	err := s.pool.QueryRow(ctx, query, key).Scan(&value)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("key %q: %w", key, domain.ErrNotFound)
		}
		return nil, &domain.StorageError{Op: "get", Key: key, Err: err}
	}
	return value, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if _, err := s.pool.Exec(ctx, s.upsertQuery(), key, value); err != nil {
		return writeError("set", key, err)
	}
	return nil
}

// SetMany writes all entries in one transaction
func (s *Store) SetMany(ctx context.Context, entries map[string][]byte) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return &domain.StorageError{Op: "set_many", Key: "begin", Err: err}
	}

	// Rollback is a no-op once the transaction is committed
	defer func() {
		if err := tx.Rollback(ctx); err != nil && err != pgx.ErrTxClosed && s.logger != nil {
			s.logger.Warn("rollback failed", "error", err)
		}
	}()

	deleteQuery := fmt.Sprintf(`DELETE FROM %s WHERE key = $1`, s.table)
	for key, value := range entries {
		if value == nil {
			if _, err := tx.Exec(ctx, deleteQuery, key); err != nil {
				return &domain.StorageError{Op: "set_many", Key: key, Err: err}
			}
			continue
		}
		if _, err := tx.Exec(ctx, s.upsertQuery(), key, value); err != nil {
			return writeError("set_many", key, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return &domain.StorageError{Op: "set_many", Key: "commit", Err: err}
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE key = $1`, s.table)
	if _, err := s.pool.Exec(ctx, query, key); err != nil {
		return &domain.StorageError{Op: "delete", Key: key, Err: err}
	}
	return nil
}

func (s *Store) Keys(ctx context.Context, prefix string) ([]string, error) {
	query := fmt.Sprintf(`SELECT key FROM %s WHERE starts_with(key, $1) ORDER BY key`, s.table)

	rows, err := s.pool.Query(ctx, query, prefix)
	if err != nil {
		return nil, &domain.StorageError{Op: "keys", Key: prefix, Err: err}
	}
	keys, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, &domain.StorageError{Op: "keys", Key: prefix, Err: err}
	}
	return keys, nil
}

// Close releases the pool
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func (s *Store) upsertQuery() string {
	return fmt.Sprintf(`
		INSERT INTO %s (key, value, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`, s.table)
}

func writeError(op, key string, err error) error {
	if IsPgDiskFullError(err) {
		err = fmt.Errorf("database out of space: %w", err)
	}
	return &domain.StorageError{Op: op, Key: key, Err: err}
}
