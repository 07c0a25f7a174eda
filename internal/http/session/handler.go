package session

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/till/internal/http/respond"
	"github.com/MrJamesThe3rd/till/internal/session"
	"github.com/MrJamesThe3rd/till/internal/shop"
)

type Handler struct {
	svc *session.Service
	// onStart is told about every new salesperson, e.g. to re-stamp the draft.
	onStart func(userID string)
}

func NewHandler(svc *session.Service, onStart func(userID string)) *Handler {
	return &Handler{svc: svc, onStart: onStart}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.start)
	r.Get("/", h.current)
	r.Delete("/", h.end)
}

type startRequest struct {
	UserID string `json:"user_id"`
}

type startResponse struct {
	Token string    `json:"token"`
	User  shop.User `json:"user"`
}

type currentResponse struct {
	UserID     string    `json:"user_id"`
	LoggedInAt time.Time `json:"logged_in_at"`
}

func (h *Handler) start(w http.ResponseWriter, r *http.Request) {
	// An empty body starts a session for the default user.
	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respond.BadRequest(w, err.Error())
		return
	}

	if req.UserID == "" {
		req.UserID = shop.DefaultUserID
	}

	token, user, err := h.svc.Start(r.Context(), req.UserID)
	if err != nil {
		respond.Error(w, err)
		return
	}

	if h.onStart != nil {
		h.onStart(user.ID)
	}

	respond.JSON(w, http.StatusCreated, startResponse{Token: token, User: user})
}

func (h *Handler) current(w http.ResponseWriter, r *http.Request) {
	sess, err := h.svc.Current(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}

	if sess == nil {
		respond.JSON(w, http.StatusNotFound, map[string]string{"error": "no active session", "kind": "not_found"})
		return
	}

	respond.JSON(w, http.StatusOK, currentResponse{UserID: sess.UserID, LoggedInAt: sess.LoggedInAt})
}

func (h *Handler) end(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.End(r.Context()); err != nil {
		respond.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
