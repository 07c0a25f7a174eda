package backup

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/till/internal/export"
	"github.com/MrJamesThe3rd/till/internal/http/respond"
)

type Handler struct {
	svc *export.Service
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.download)
	r.Put("/", h.restore)
}

// ReceiptRoutes serves printable receipts of committed sales.
func (h *Handler) ReceiptRoutes(r chi.Router) {
	r.Get("/{id}/receipt", h.receipt)
}

func (h *Handler) download(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"till_backup_%s.zip\"", time.Now().Format("20060102")))

	if err := h.svc.WriteArchive(w); err != nil {
		slog.Error("failed to write backup archive", "error", err)
	}
}

// restore takes the db.json of a backup as the request body.
func (h *Handler) restore(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Restore(r.Context(), r.Body); err != nil {
		respond.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) receipt(w http.ResponseWriter, r *http.Request) {
	text, err := h.svc.Receipt(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	if _, err := w.Write([]byte(text)); err != nil {
		slog.Error("failed to write receipt", "error", err)
	}
}
