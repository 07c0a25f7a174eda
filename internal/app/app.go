package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/MrJamesThe3rd/till/internal/catalog"
	"github.com/MrJamesThe3rd/till/internal/config"
	"github.com/MrJamesThe3rd/till/internal/database"
	"github.com/MrJamesThe3rd/till/internal/export"
	"github.com/MrJamesThe3rd/till/internal/importer"
	"github.com/MrJamesThe3rd/till/internal/report"
	"github.com/MrJamesThe3rd/till/internal/sale"
	"github.com/MrJamesThe3rd/till/internal/session"
	"github.com/MrJamesThe3rd/till/internal/shop"
	"github.com/MrJamesThe3rd/till/internal/storage"
	"github.com/MrJamesThe3rd/till/internal/storage/store"
)

// DriverMemory keeps everything in process memory.
const DriverMemory = "memory"

// App holds the services shared by the API and the terminal UI.
type App struct {
	Storage   *storage.Service
	Workspace *shop.Workspace
	Register  *sale.Controller
	Catalog   *catalog.Service
	Reports   *report.Service
	Importer  *importer.Service
	Export    *export.Service
	Session   *session.Service

	db *sql.DB
}

// Open connects the configured store, loads the shop database and restores
// the auto-saved draft.
func Open(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{}

	if cfg.InsecureSessionSecret() {
		slog.Warn("SESSION_SECRET is not set, session tokens can be forged")
	}

	repo, err := a.openRepository(ctx, cfg)
	if err != nil {
		return nil, err
	}

	a.Storage = storage.NewService(repo, storage.Options{
		ResetOnCorrupt: cfg.Storage.ResetOnCorrupt,
		Shop:           cfg.ShopInfo(),
	})

	a.Workspace, err = shop.NewWorkspace(ctx, a.Storage)
	if err != nil {
		a.Close()
		return nil, err
	}

	salesperson := cfg.App.DefaultUser

	sess, err := a.Storage.LoadSession(ctx)
	if err != nil {
		slog.Warn("failed to read session, using default user", "error", err)
	} else if sess != nil {
		salesperson = sess.UserID
	}

	a.Register, err = sale.NewController(ctx, a.Workspace, a.Storage, sale.Options{Salesperson: salesperson})
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Catalog = catalog.NewService(a.Workspace)
	a.Reports = report.NewService(a.Workspace)
	a.Importer = importer.NewService(a.Catalog)
	a.Export = export.NewService(a.Workspace)
	a.Session = session.NewService(a.Workspace, a.Storage, cfg.Session.Secret, cfg.Session.TTL)

	return a, nil
}

func (a *App) openRepository(ctx context.Context, cfg *config.Config) (storage.Repository, error) {
	if cfg.DB.Driver == DriverMemory {
		slog.Warn("using in-memory storage, nothing will be persisted")
		return store.NewMemory(), nil
	}

	db, err := database.New(cfg.DB.Driver, cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	a.db = db

	s := store.New(db, cfg.DB.Driver)
	if err := s.Migrate(ctx); err != nil {
		a.Close()
		return nil, err
	}

	return s, nil
}

func (a *App) Close() {
	if a.db == nil {
		return
	}

	if err := a.db.Close(); err != nil {
		slog.Error("failed to close database", "error", err)
	}
}
