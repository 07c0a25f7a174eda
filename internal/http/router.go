package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/till/internal/http/backup"
	"github.com/MrJamesThe3rd/till/internal/http/customer"
	"github.com/MrJamesThe3rd/till/internal/http/importcsv"
	"github.com/MrJamesThe3rd/till/internal/http/product"
	"github.com/MrJamesThe3rd/till/internal/http/register"
	"github.com/MrJamesThe3rd/till/internal/http/report"
	httpsession "github.com/MrJamesThe3rd/till/internal/http/session"
	"github.com/MrJamesThe3rd/till/internal/session"
)

type Handlers struct {
	Session   *httpsession.Handler
	Register  *register.Handler
	Products  *product.Handler
	Customers *customer.Handler
	Reports   *report.Handler
	Import    *importcsv.Handler
	Backup    *backup.Handler
}

// New builds the API router. Everything except starting a session requires a
// bearer token from auth.
func New(h Handlers, auth *session.Service, allowedOrigins []string) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/session", h.Session.Routes)

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)

			r.Route("/register", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				h.Register.Routes(r)
			})

			r.Route("/products", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				h.Products.Routes(r)
			})

			r.Route("/customers", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				h.Customers.Routes(r)
			})

			r.Route("/sales", func(r chi.Router) {
				h.Reports.SalesRoutes(r)
				h.Backup.ReceiptRoutes(r)
			})

			r.Route("/reports", h.Reports.Routes)
			r.Route("/import", h.Import.Routes)
			r.Route("/backup", h.Backup.Routes)
		})
	})

	return router
}
