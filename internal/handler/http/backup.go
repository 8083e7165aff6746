package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/omnisession/omnisession-server/internal/logger"
	"github.com/omnisession/omnisession-server/models"
)

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, models.StatusResponse{Status: "ok"})
}

func (h *Handler) initSchema(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	if err := h.services.InitSchema(r.Context()); err != nil {
		log.Err(err).Str("func", "*Handler.initSchema").Msg("error re-initializing storage schema")
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, models.StatusResponse{Status: "ok"})
}

func (h *Handler) backupStatus(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	domain := chi.URLParam(r, "domain")

	updatedAt, err := h.services.Status(r.Context(), domain)
	if err != nil {
		log.Err(err).Str("func", "*Handler.backupStatus").Str("domain", domain).Msg("error checking backup status")
		respondError(w, err)
		return
	}

	resp := models.BackupStatusResponse{Domain: domain}
	if updatedAt != nil {
		ts := updatedAt.Format(time.RFC3339Nano)
		resp.Exists = true
		resp.UpdatedAt = &ts
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) saveBackup(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var req models.BackupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Str("func", "*Handler.saveBackup").Msg("invalid JSON was passed")
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "invalid JSON body"})
		return
	}

	if req.Domain == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "domain must not be empty"})
		return
	}
	if req.Cookies == nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "cookies must be a list"})
		return
	}
	if req.LocalStorage == nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "local_storage must be an object"})
		return
	}

	payload := models.SessionPayload{
		Cookies:      req.Cookies,
		LocalStorage: req.LocalStorage,
	}

	if err := h.services.Save(r.Context(), req.Domain, payload, r.Header.Get(passwordHeader)); err != nil {
		log.Err(err).Str("func", "*Handler.saveBackup").Str("domain", req.Domain).Msg("error saving backup")
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, models.StatusResponse{Status: "ok"})
}

func (h *Handler) restoreBackup(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	domain := chi.URLParam(r, "domain")

	restored, err := h.services.Restore(r.Context(), domain, r.Header.Get(passwordHeader))
	if err != nil {
		log.Err(err).Str("func", "*Handler.restoreBackup").Str("domain", domain).Msg("error restoring backup")
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, models.RestoreResponse{
		Domain:       restored.Domain,
		Cookies:      restored.Payload.Cookies,
		LocalStorage: restored.Payload.LocalStorage,
		UpdatedAt:    restored.UpdatedAt.Format(time.RFC3339Nano),
	})
}

func (h *Handler) deleteBackup(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	domain := chi.URLParam(r, "domain")

	deleted, err := h.services.Delete(r.Context(), domain)
	if err != nil {
		log.Err(err).Str("func", "*Handler.deleteBackup").Str("domain", domain).Msg("error deleting backup")
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, models.DeleteResponse{Status: "ok", Deleted: deleted})
}
