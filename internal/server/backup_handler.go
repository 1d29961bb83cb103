package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/eventon/eventon/internal/models"
	"github.com/eventon/eventon/internal/store"
)

// BackupHandler handles HTTP requests for the backup contract
type BackupHandler struct {
	backups store.BackupStore
	log     *zerolog.Logger
}

// NewBackupHandler creates a new BackupHandler
func NewBackupHandler(backups store.BackupStore, log *zerolog.Logger) *BackupHandler {
	return &BackupHandler{
		backups: backups,
		log:     log,
	}
}

// Receive stores a pushed backup document and acknowledges it with a
// JSON message.
func (h *BackupHandler) Receive(w http.ResponseWriter, r *http.Request) {
	var doc models.BackupDocument
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		h.log.Error().Err(err).Msg("Failed to decode backup document")
		http.Error(w, `{"message":"invalid backup document"}`, http.StatusBadRequest)
		return
	}

	if doc.UserID == 0 || doc.User == nil {
		http.Error(w, `{"message":"backup document missing user"}`, http.StatusBadRequest)
		return
	}

	stored, err := h.backups.Save(r.Context(), &doc)
	if err != nil {
		h.log.Error().Err(err).Int64("user_id", doc.UserID).Msg("Failed to store backup")
		http.Error(w, `{"message":"failed to store backup"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message":   fmt.Sprintf("backup %s stored for user %d", stored.BackupID, stored.UserID),
		"backup_id": stored.BackupID,
	})
}

// Recover returns the stored backup document for a user, or a 404 when no
// backup exists.
func (h *BackupHandler) Recover(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	userID, err := strconv.ParseInt(vars["user_id"], 10, 64)
	if err != nil {
		http.Error(w, `{"message":"invalid user id"}`, http.StatusBadRequest)
		return
	}

	doc, err := h.backups.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrBackupNotFound) {
			http.Error(w, `{"message":"no backup found for user"}`, http.StatusNotFound)
			return
		}
		h.log.Error().Err(err).Int64("user_id", userID).Msg("Failed to load backup")
		http.Error(w, `{"message":"failed to load backup"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(doc)
}
