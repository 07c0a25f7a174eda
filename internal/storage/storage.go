package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/MrJamesThe3rd/till/internal/shop"
)

// Keys of the blobs kept in the key/value store.
const (
	KeyDB      = "pos_db"
	KeySession = "pos_session"
	KeyDraft   = "pos_current_sale"
)

var (
	ErrNotFound = errors.New("key not found")
	ErrCorrupt  = errors.New("stored data is corrupt")
)

//go:generate mockgen -source=storage.go -destination=repository_mock.go -package=storage
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Session is the persisted login marker of the active salesperson.
type Session struct {
	UserID     string    `json:"userId"`
	LoggedInAt time.Time `json:"loggedInAt"`
}

type Options struct {
	// ResetOnCorrupt re-seeds the database when the stored blob cannot be decoded.
	// When false, Load returns ErrCorrupt and leaves the stored data alone.
	ResetOnCorrupt bool
	Shop           shop.Info
	Logger         *slog.Logger
}

// Service is the persistent store of the register: the shop database, the
// session marker and the auto-saved draft sale.
type Service struct {
	repo Repository
	opts Options
	log  *slog.Logger
}

func NewService(repo Repository, opts Options) *Service {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	return &Service{repo: repo, opts: opts, log: log}
}

func (s *Service) Load(ctx context.Context) (*shop.DB, error) {
	raw, err := s.repo.Get(ctx, KeyDB)
	if errors.Is(err, ErrNotFound) {
		s.log.Info("no shop db found, seeding defaults")
		return s.reseed(ctx)
	}

	if err != nil {
		return nil, fmt.Errorf("reading shop db: %w", err)
	}

	var db shop.DB
	if err := json.Unmarshal(raw, &db); err != nil {
		if !s.opts.ResetOnCorrupt {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}

		s.log.Error("shop db is corrupt, resetting to defaults", "error", err, "bytes", len(raw))

		return s.reseed(ctx)
	}

	Normalize(&db)

	return &db, nil
}

func (s *Service) Save(ctx context.Context, db *shop.DB) error {
	raw, err := json.Marshal(db)
	if err != nil {
		return fmt.Errorf("encoding shop db: %w", err)
	}

	if err := s.repo.Put(ctx, KeyDB, raw); err != nil {
		return fmt.Errorf("writing shop db: %w", err)
	}

	return nil
}

// LoadDraft returns the auto-saved draft, or nil when there is none.
// A draft that cannot be decoded is dropped.
func (s *Service) LoadDraft(ctx context.Context) (*shop.Sale, error) {
	raw, err := s.repo.Get(ctx, KeyDraft)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("reading draft: %w", err)
	}

	var sale shop.Sale
	if err := json.Unmarshal(raw, &sale); err != nil {
		s.log.Warn("discarding unreadable draft", "error", err)

		if err := s.ClearDraft(ctx); err != nil {
			return nil, err
		}

		return nil, nil
	}

	return &sale, nil
}

func (s *Service) SaveDraft(ctx context.Context, sale *shop.Sale) error {
	raw, err := json.Marshal(sale)
	if err != nil {
		return fmt.Errorf("encoding draft: %w", err)
	}

	if err := s.repo.Put(ctx, KeyDraft, raw); err != nil {
		return fmt.Errorf("writing draft: %w", err)
	}

	return nil
}

func (s *Service) ClearDraft(ctx context.Context) error {
	if err := s.repo.Delete(ctx, KeyDraft); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("clearing draft: %w", err)
	}

	return nil
}

// LoadSession returns nil when nobody is logged in. An unreadable session is
// cleared and treated as logged out.
func (s *Service) LoadSession(ctx context.Context) (*Session, error) {
	raw, err := s.repo.Get(ctx, KeySession)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("reading session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		s.log.Warn("discarding unreadable session", "error", err)

		if err := s.ClearSession(ctx); err != nil {
			return nil, err
		}

		return nil, nil
	}

	return &sess, nil
}

func (s *Service) SaveSession(ctx context.Context, sess Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}

	if err := s.repo.Put(ctx, KeySession, raw); err != nil {
		return fmt.Errorf("writing session: %w", err)
	}

	return nil
}

func (s *Service) ClearSession(ctx context.Context) error {
	if err := s.repo.Delete(ctx, KeySession); err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("clearing session: %w", err)
	}

	return nil
}

func (s *Service) reseed(ctx context.Context) (*shop.DB, error) {
	db := shop.Seed(s.opts.Shop)
	if err := s.Save(ctx, db); err != nil {
		return nil, err
	}

	return db, nil
}

// Normalize fills in fields that older or restored blobs may lack.
func Normalize(db *shop.DB) {
	if db.Counters.NextSaleID < 1 {
		db.Counters.NextSaleID = 1
	}

	if db.Settings.Currency == "" {
		db.Settings.Currency = shop.DefaultCurrency
	}

	if len(db.Users) == 0 {
		db.Users = []shop.User{{ID: shop.DefaultUserID, Name: "Administrator", Role: "admin"}}
	}

	db.Version = shop.SchemaVersion
}
