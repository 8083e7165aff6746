// Package http translates the HTTP surface of the backup service into
// [service.BackupService] calls: health, schema init, status, backup,
// restore and delete.
package http

import (
	"encoding/json"
	"net/http"

	"github.com/omnisession/omnisession-server/internal/logger"
	"github.com/omnisession/omnisession-server/internal/service"
	"github.com/omnisession/omnisession-server/models"
)

// passwordHeader optionally carries the encryption password on backup and
// restore requests.
const passwordHeader = "X-USK-Password"

type Handler struct {
	services service.BackupService

	logger *logger.Logger
}

func NewHandler(services service.BackupService, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services: services,
		logger:   logger,
	}
}

// writeJSON serializes body into the response with the given status code.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// respondError maps err onto an HTTP status and writes a JSON error body.
// Server-side failures get a generic message so no driver or query detail
// leaks to the caller; the full error is already logged where it occurred.
func respondError(w http.ResponseWriter, err error) {
	status := statusFromError(err)

	msg := err.Error()
	if status >= http.StatusInternalServerError {
		msg = "storage operation failed"
	}

	writeJSON(w, status, models.ErrorResponse{Error: msg})
}
