package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/till/internal/storage"
)

// Store keeps the register blobs in a single key/value table. The same SQL runs
// on Postgres (pgx) and SQLite; only the placeholder style differs.
type Store struct {
	db       *sql.DB
	numbered bool
}

func New(db *sql.DB, driver string) *Store {
	return &Store{db: db, numbered: driver == "pgx"}
}

const schema = `
	CREATE TABLE IF NOT EXISTS pos_storage (
		name       TEXT PRIMARY KEY,
		data       TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`

// Migrate creates the storage table if it does not exist yet.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating storage table: %w", err)
	}

	return nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	query := s.bind(`SELECT data FROM pos_storage WHERE name = ?`)

	var data string

	err := s.db.QueryRowContext(ctx, query, key).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}

		return nil, fmt.Errorf("getting %s: %w", key, err)
	}

	return []byte(data), nil
}

func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	query := s.bind(`
		INSERT INTO pos_storage (name, data, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`)

	if _, err := s.db.ExecContext(ctx, query, key, string(value), time.Now().UTC()); err != nil {
		return fmt.Errorf("putting %s: %w", key, err)
	}

	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	query := s.bind(`DELETE FROM pos_storage WHERE name = ?`)

	if _, err := s.db.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("deleting %s: %w", key, err)
	}

	return nil
}

// bind rewrites ? placeholders to $n for Postgres.
func (s *Store) bind(query string) string {
	if !s.numbered {
		return query
	}

	var sb strings.Builder

	n := 0

	for _, r := range query {
		if r != '?' {
			sb.WriteRune(r)
			continue
		}

		n++
		sb.WriteString("$" + strconv.Itoa(n))
	}

	return sb.String()
}
