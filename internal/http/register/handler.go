package register

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/till/internal/http/respond"
	"github.com/MrJamesThe3rd/till/internal/sale"
	"github.com/MrJamesThe3rd/till/internal/shop"
)

type Handler struct {
	ctrl *sale.Controller
}

func NewHandler(ctrl *sale.Controller) *Handler {
	return &Handler{ctrl: ctrl}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.current)

	r.Post("/items", h.addItem)
	r.Delete("/items", h.clearItems)
	r.Patch("/items/{index}", h.changeQuantity)
	r.Delete("/items/{index}", h.removeItem)

	r.Put("/discount", h.setDiscount)
	r.Put("/payment", h.setPayment)
	r.Put("/customer", h.setCustomer)
	r.Delete("/customer", h.clearCustomer)
	r.Put("/payment-method", h.setPaymentMethod)
	r.Put("/note", h.setNote)

	r.Post("/hold", h.hold)
	r.Post("/complete", h.complete)
	r.Post("/cancel", h.cancel)
	r.Post("/new", h.startNew)

	r.Get("/open", h.listOpen)
	r.Post("/open/{id}/edit", h.loadForEditing)
	r.Get("/last-closed", h.lastClosed)
}

func (h *Handler) current(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusOK, toResponse(h.ctrl.Current()))
}

// draft answers a successful cart change with the updated draft.
func (h *Handler) draft(w http.ResponseWriter, err error) {
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(h.ctrl.Current()))
}

type addItemRequest struct {
	Ref string `json:"ref"`
	Qty int    `json:"qty"`
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, err.Error())
		return
	}

	if req.Ref == "" {
		respond.BadRequest(w, "ref is required")
		return
	}

	if req.Qty == 0 {
		req.Qty = 1
	}

	h.draft(w, h.ctrl.AddItem(r.Context(), req.Ref, req.Qty))
}

type changeQuantityRequest struct {
	Delta int `json:"delta"`
}

func (h *Handler) changeQuantity(w http.ResponseWriter, r *http.Request) {
	index, ok := lineIndex(w, r)
	if !ok {
		return
	}

	var req changeQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, err.Error())
		return
	}

	h.draft(w, h.ctrl.ChangeQuantity(r.Context(), index, req.Delta))
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	index, ok := lineIndex(w, r)
	if !ok {
		return
	}

	h.draft(w, h.ctrl.RemoveItem(r.Context(), index))
}

func (h *Handler) clearItems(w http.ResponseWriter, r *http.Request) {
	h.draft(w, h.ctrl.ClearItems(r.Context()))
}

type amountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func (h *Handler) setDiscount(w http.ResponseWriter, r *http.Request) {
	var req amountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, err.Error())
		return
	}

	h.draft(w, h.ctrl.SetDiscount(r.Context(), req.Amount))
}

func (h *Handler) setPayment(w http.ResponseWriter, r *http.Request) {
	var req amountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, err.Error())
		return
	}

	h.draft(w, h.ctrl.SetPayment(r.Context(), req.Amount))
}

type customerRequest struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

func (h *Handler) setCustomer(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, err.Error())
		return
	}

	if req.ID == "" && req.Name == "" && req.Phone == "" {
		respond.BadRequest(w, "id, name or phone is required")
		return
	}

	h.draft(w, h.ctrl.SetCustomer(r.Context(), &shop.CustomerRef{ID: req.ID, Name: req.Name, Phone: req.Phone}))
}

func (h *Handler) clearCustomer(w http.ResponseWriter, r *http.Request) {
	h.draft(w, h.ctrl.SetCustomer(r.Context(), nil))
}

type paymentMethodRequest struct {
	Method  string `json:"method"`
	Details string `json:"details"`
}

func (h *Handler) setPaymentMethod(w http.ResponseWriter, r *http.Request) {
	var req paymentMethodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, err.Error())
		return
	}

	h.draft(w, h.ctrl.SetPaymentMethod(r.Context(), req.Method, req.Details))
}

type noteRequest struct {
	Note string `json:"note"`
}

func (h *Handler) setNote(w http.ResponseWriter, r *http.Request) {
	var req noteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, err.Error())
		return
	}

	h.draft(w, h.ctrl.SetNote(r.Context(), req.Note))
}

func (h *Handler) hold(w http.ResponseWriter, r *http.Request) {
	held, err := h.ctrl.Hold(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(held))
}

func (h *Handler) complete(w http.ResponseWriter, r *http.Request) {
	closed, err := h.ctrl.Complete(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(closed))
}

func (h *Handler) cancel(w http.ResponseWriter, r *http.Request) {
	if err := h.ctrl.Cancel(r.Context()); err != nil {
		respond.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) startNew(w http.ResponseWriter, r *http.Request) {
	if err := h.ctrl.StartNew(r.Context()); err != nil {
		respond.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listOpen(w http.ResponseWriter, _ *http.Request) {
	respond.JSON(w, http.StatusOK, toResponseList(h.ctrl.ListOpenSales()))
}

func (h *Handler) loadForEditing(w http.ResponseWriter, r *http.Request) {
	h.draft(w, h.ctrl.LoadForEditing(r.Context(), chi.URLParam(r, "id")))
}

func (h *Handler) lastClosed(w http.ResponseWriter, _ *http.Request) {
	s, err := h.ctrl.LastClosedSale()
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(s))
}

func lineIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		respond.BadRequest(w, "invalid line index")
		return 0, false
	}

	return index, true
}
