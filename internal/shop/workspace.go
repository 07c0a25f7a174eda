package shop

import (
	"context"
	"fmt"
	"sync"
)

//go:generate mockgen -source=workspace.go -destination=repository_mock.go -package=shop
type Repository interface {
	Load(ctx context.Context) (*DB, error)
	Save(ctx context.Context, db *DB) error
}

// Workspace owns the loaded shop database. Every mutation runs on a copy which
// replaces the live database only after it was saved, so a failed update
// leaves both memory and storage untouched.
type Workspace struct {
	mu   sync.Mutex
	repo Repository
	db   *DB
}

func NewWorkspace(ctx context.Context, repo Repository) (*Workspace, error) {
	db, err := repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading shop db: %w", err)
	}

	return &Workspace{repo: repo, db: db}, nil
}

// View runs fn against the live database. fn must not modify it.
func (w *Workspace) View(fn func(db *DB) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	return fn(w.db)
}

// Update runs fn against a copy of the database and persists the result.
func (w *Workspace) Update(ctx context.Context, fn func(db *DB) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	next := w.db.Clone()
	if err := fn(next); err != nil {
		return err
	}

	next.Version = SchemaVersion
	if err := w.repo.Save(ctx, next); err != nil {
		return fmt.Errorf("saving shop db: %w", err)
	}

	w.db = next

	return nil
}

// Snapshot returns a deep copy of the current database.
func (w *Workspace) Snapshot() *DB {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.db.Clone()
}

// Replace swaps in a whole database, e.g. after a restore, and persists it.
func (w *Workspace) Replace(ctx context.Context, db *DB) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.repo.Save(ctx, db); err != nil {
		return fmt.Errorf("saving shop db: %w", err)
	}

	w.db = db.Clone()

	return nil
}
