package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/till/internal/app"
	"github.com/MrJamesThe3rd/till/internal/config"
	tillHttp "github.com/MrJamesThe3rd/till/internal/http"
	backupHandler "github.com/MrJamesThe3rd/till/internal/http/backup"
	customerHandler "github.com/MrJamesThe3rd/till/internal/http/customer"
	importHandler "github.com/MrJamesThe3rd/till/internal/http/importcsv"
	productHandler "github.com/MrJamesThe3rd/till/internal/http/product"
	registerHandler "github.com/MrJamesThe3rd/till/internal/http/register"
	reportHandler "github.com/MrJamesThe3rd/till/internal/http/report"
	sessionHandler "github.com/MrJamesThe3rd/till/internal/http/session"
	"github.com/MrJamesThe3rd/till/internal/shop"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	a, err := app.Open(context.Background(), cfg)
	if err != nil {
		slog.Error("failed to open register", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	unsubscribe := a.Register.Subscribe(func(s shop.Sale) {
		slog.Debug("draft changed", "sale_id", s.ID, "status", s.Status, "items", s.ItemCount(), "total", s.Total.String())
	})
	defer unsubscribe()

	router := tillHttp.New(tillHttp.Handlers{
		Session:   sessionHandler.NewHandler(a.Session, a.Register.SetSalesperson),
		Register:  registerHandler.NewHandler(a.Register),
		Products:  productHandler.NewHandler(a.Catalog),
		Customers: customerHandler.NewHandler(a.Catalog),
		Reports:   reportHandler.NewHandler(a.Reports),
		Import:    importHandler.NewHandler(a.Importer),
		Backup:    backupHandler.NewHandler(a.Export),
	}, a.Session, cfg.CORS.AllowedOrigins)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	slog.Info("starting server", "port", srv.Addr, "storage", cfg.DB.Driver)

	if err := srv.ListenAndServe(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
