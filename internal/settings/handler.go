package settings

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nailit-studio/nailit-scheduler/pkg/logging"
)

// Handler handles HTTP requests for settings
type Handler struct {
	store  Store
	logger *logging.Logger
}

// NewHandler creates a new settings handler
func NewHandler(store Store, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{store: store, logger: logger}
}

// SettingResponse is the response body for reading a setting
type SettingResponse struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Get handles GET /settings/{key} requests
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if key == "" {
		http.Error(w, "missing setting key", http.StatusBadRequest)
		return
	}

	value, err := h.store.Get(r.Context(), key)
	if err != nil {
		h.logger.Error("failed to read setting", "error", err, "key", key)
		http.Error(w, "failed to read setting", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(SettingResponse{Key: key, Value: value})
}

// UpdateSettingRequest is the request body for writing a setting
type UpdateSettingRequest struct {
	Value string `json:"value"`
}

// Set handles PUT /settings/{key} requests
func (h *Handler) Set(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if key == "" {
		http.Error(w, "missing setting key", http.StatusBadRequest)
		return
	}

	var req UpdateSettingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.store.Set(r.Context(), key, req.Value); err != nil {
		h.logger.Error("failed to write setting", "error", err, "key", key)
		http.Error(w, "failed to write setting", http.StatusInternalServerError)
		return
	}

	h.logger.Info("setting updated", "key", key)
	w.WriteHeader(http.StatusNoContent)
}
