package http

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
)

// respondJSON encodes into a buffer first so a failed encode does not leave
// a half-written 200.
func respondJSON(w http.ResponseWriter, logger *logrus.Logger, status int, payload any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		logger.WithError(err).Error("failed to encode response")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		logger.WithError(err).Warn("failed to write response")
	}
}

func respondError(w http.ResponseWriter, logger *logrus.Logger, status int, message string) {
	respondJSON(w, logger, status, map[string]string{"error": message})
}
