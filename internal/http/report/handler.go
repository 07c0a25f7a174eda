package report

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/till/internal/http/respond"
	"github.com/MrJamesThe3rd/till/internal/report"
	"github.com/MrJamesThe3rd/till/internal/shop"
)

type Handler struct {
	svc *report.Service
}

func NewHandler(svc *report.Service) *Handler {
	return &Handler{svc: svc}
}

// SalesRoutes serves the committed sale records.
func (h *Handler) SalesRoutes(r chi.Router) {
	r.Get("/", h.listSales)
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/summary", h.summary)
}

func (h *Handler) listSales(w http.ResponseWriter, r *http.Request) {
	filter, ok := parseFilter(w, r)
	if !ok {
		return
	}

	if s := r.URL.Query().Get("status"); s != "" {
		filter.Status = new(shop.Status(s))
	}

	respond.JSON(w, http.StatusOK, h.svc.Sales(filter))
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	filter, ok := parseFilter(w, r)
	if !ok {
		return
	}

	respond.JSON(w, http.StatusOK, h.svc.Summary(filter))
}

// parseFilter reads start_date and end_date as YYYY-MM-DD. The end date is
// inclusive.
func parseFilter(w http.ResponseWriter, r *http.Request) (report.Filter, bool) {
	var filter report.Filter

	if s := r.URL.Query().Get("start_date"); s != "" {
		t, err := time.ParseInLocation(time.DateOnly, s, time.Local)
		if err != nil {
			respond.BadRequest(w, "invalid start_date")
			return filter, false
		}

		filter.StartDate = new(t)
	}

	if s := r.URL.Query().Get("end_date"); s != "" {
		t, err := time.ParseInLocation(time.DateOnly, s, time.Local)
		if err != nil {
			respond.BadRequest(w, "invalid end_date")
			return filter, false
		}

		filter.EndDate = new(t.AddDate(0, 0, 1).Add(-time.Nanosecond))
	}

	return filter, true
}
