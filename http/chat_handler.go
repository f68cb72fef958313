package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"nebify-credit/service"
)

type ChatHandler struct {
	service *service.ChatService
	logger  *logrus.Logger
}

func NewChatHandler(service *service.ChatService, logger *logrus.Logger) *ChatHandler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &ChatHandler{service: service, logger: logger}
}

func (h *ChatHandler) RegisterRoutes(r chi.Router) {
	r.Post("/chat/sessions", h.CreateSession)
	r.Get("/chat/sessions/{id}", h.GetSession)
	r.Delete("/chat/sessions/{id}", h.EndSession)
	r.Post("/chat/sessions/{id}/messages", h.SendMessage)
}

// CreateSession accepts an optional {"id": "..."} to resume a session.
func (h *ChatHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, h.logger, http.StatusBadRequest, "invalid request body")
		return
	}

	session := h.service.StartSession(r.Context(), payload.ID)
	respondJSON(w, h.logger, http.StatusCreated, session)
}

func (h *ChatHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.GetSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, session)
}

func (h *ChatHandler) EndSession(w http.ResponseWriter, r *http.Request) {
	if err := h.service.EndSession(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid request body")
		return
	}

	reply, err := h.service.Reply(r.Context(), chi.URLParam(r, "id"), payload.Message)
	if err != nil {
		h.fail(w, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, reply)
}

func (h *ChatHandler) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrEmptyMessage):
		respondError(w, h.logger, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrSessionNotFound):
		respondError(w, h.logger, http.StatusNotFound, err.Error())
	default:
		h.logger.WithError(err).Error("chat request failed")
		respondError(w, h.logger, http.StatusInternalServerError, "internal server error")
	}
}
