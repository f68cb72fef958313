package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"nebify-credit/domain"
	"nebify-credit/service"
)

type LoanHandler struct {
	service *service.LoanSimulatorService
	logger  *logrus.Logger
}

func NewLoanHandler(service *service.LoanSimulatorService, logger *logrus.Logger) *LoanHandler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &LoanHandler{service: service, logger: logger}
}

func (h *LoanHandler) RegisterRoutes(r chi.Router) {
	r.Post("/loan/simulate", h.Simulate)
	r.Post("/loan/export", h.Export)
	r.Get("/loan/presets", h.ListPresets)
	r.Get("/loan/presets/{name}", h.SimulatePreset)
	r.Get("/loan/simulations", h.History)
}

func (h *LoanHandler) decodeScenario(w http.ResponseWriter, r *http.Request) (domain.LoanScenario, bool) {
	var scenario domain.LoanScenario
	if err := json.NewDecoder(r.Body).Decode(&scenario); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid request body")
		return scenario, false
	}
	return scenario, true
}

func (h *LoanHandler) Simulate(w http.ResponseWriter, r *http.Request) {
	scenario, ok := h.decodeScenario(w, r)
	if !ok {
		return
	}

	result, err := h.service.Simulate(r.Context(), scenario)
	if err != nil {
		h.fail(w, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, result)
}

func (h *LoanHandler) Export(w http.ResponseWriter, r *http.Request) {
	scenario, ok := h.decodeScenario(w, r)
	if !ok {
		return
	}

	result, err := h.service.Simulate(r.Context(), scenario)
	if err != nil {
		h.fail(w, err)
		return
	}

	export, filename := h.service.Export(result)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	respondJSON(w, h.logger, http.StatusOK, export)
}

func (h *LoanHandler) ListPresets(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, h.logger, http.StatusOK, service.Presets())
}

func (h *LoanHandler) SimulatePreset(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.SimulatePreset(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		h.fail(w, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, result)
}

func (h *LoanHandler) History(w http.ResponseWriter, r *http.Request) {
	history, err := h.service.History()
	if err != nil {
		h.logger.WithError(err).Error("failed to list simulations")
		respondError(w, h.logger, http.StatusInternalServerError, "internal server error")
		return
	}

	respondJSON(w, h.logger, http.StatusOK, history)
}

func (h *LoanHandler) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidScenario):
		respondError(w, h.logger, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrUnknownPreset):
		respondError(w, h.logger, http.StatusNotFound, err.Error())
	default:
		h.logger.WithError(err).Error("loan simulation failed")
		respondError(w, h.logger, http.StatusInternalServerError, "internal server error")
	}
}
