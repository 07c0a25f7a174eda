package product

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/till/internal/catalog"
	"github.com/MrJamesThe3rd/till/internal/http/respond"
	"github.com/MrJamesThe3rd/till/internal/session"
)

type Handler struct {
	svc *catalog.Service
}

func NewHandler(svc *catalog.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/low-stock", h.lowStock)
	r.Get("/stock-updates", h.stockUpdates)
	r.Get("/{id}", h.get) // id, SKU or barcode
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Post("/{id}/stock", h.adjustStock)
	r.Get("/{id}/stock-updates", h.stockUpdates)
}

type createProductRequest struct {
	SKU               string          `json:"sku"`
	Barcodes          []string        `json:"barcodes"`
	Name              string          `json:"name"`
	Category          string          `json:"category"`
	Brand             string          `json:"brand"`
	Supplier          string          `json:"supplier"`
	BuyPrice          decimal.Decimal `json:"buy_price"`
	SellPrice         decimal.Decimal `json:"sell_price"`
	Stock             int             `json:"stock"`
	LowStockThreshold int             `json:"low_stock_threshold"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, err.Error())
		return
	}

	p, err := h.svc.CreateProduct(r.Context(), catalog.ProductParams{
		SKU:               req.SKU,
		Barcodes:          req.Barcodes,
		Name:              req.Name,
		Category:          req.Category,
		Brand:             req.Brand,
		Supplier:          req.Supplier,
		BuyPrice:          req.BuyPrice,
		SellPrice:         req.SellPrice,
		Stock:             req.Stock,
		LowStockThreshold: req.LowStockThreshold,
	})
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(p))
}

func (h *Handler) list(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusOK, toResponseList(h.svc.ListProducts()))
}

func (h *Handler) lowStock(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusOK, toResponseList(h.svc.LowStock()))
}

// get resolves the product by id, SKU or barcode, as the scanner does.
func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.FindProduct(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(p))
}

type updateProductRequest struct {
	SKU               *string          `json:"sku,omitempty"`
	Barcodes          *[]string        `json:"barcodes,omitempty"`
	Name              *string          `json:"name,omitempty"`
	Category          *string          `json:"category,omitempty"`
	Brand             *string          `json:"brand,omitempty"`
	Supplier          *string          `json:"supplier,omitempty"`
	BuyPrice          *decimal.Decimal `json:"buy_price,omitempty"`
	SellPrice         *decimal.Decimal `json:"sell_price,omitempty"`
	LowStockThreshold *int             `json:"low_stock_threshold,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req updateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, err.Error())
		return
	}

	p, err := h.svc.UpdateProduct(r.Context(), chi.URLParam(r, "id"), catalog.ProductUpdate{
		SKU:               req.SKU,
		Barcodes:          req.Barcodes,
		Name:              req.Name,
		Category:          req.Category,
		Brand:             req.Brand,
		Supplier:          req.Supplier,
		BuyPrice:          req.BuyPrice,
		SellPrice:         req.SellPrice,
		LowStockThreshold: req.LowStockThreshold,
	})
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(p))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		respond.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type adjustStockRequest struct {
	Delta int    `json:"delta"`
	Note  string `json:"note"`
}

func (h *Handler) adjustStock(w http.ResponseWriter, r *http.Request) {
	var req adjustStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, err.Error())
		return
	}

	if req.Delta == 0 {
		respond.BadRequest(w, "delta must not be zero")
		return
	}

	actor, _ := session.UserFromContext(r.Context())

	rec, err := h.svc.AdjustStock(r.Context(), catalog.AdjustParams{
		ProductID: chi.URLParam(r, "id"),
		Delta:     req.Delta,
		Note:      req.Note,
		Actor:     actor,
	})
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, rec)
}

// stockUpdates serves both the global log and the per-product one.
func (h *Handler) stockUpdates(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, h.svc.ListStockUpdates(chi.URLParam(r, "id")))
}
