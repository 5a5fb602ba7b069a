package clients

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nailit-studio/nailit-scheduler/pkg/logging"
)

// Handler handles HTTP requests for clients
type Handler struct {
	repo   Repository
	logger *logging.Logger
}

// NewHandler creates a new clients handler
func NewHandler(repo Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		repo:   repo,
		logger: logger,
	}
}

// Create handles POST /clients requests
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateClientRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode client request", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	client, err := h.repo.Create(r.Context(), &req)
	if err != nil {
		if errors.Is(err, ErrInvalidName) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.Error("failed to create client", "error", err)
		http.Error(w, "failed to create client", http.StatusInternalServerError)
		return
	}

	h.logger.Info("client created", "id", client.ID, "name", client.Name)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(client)
}

// SearchResponse is the response for client search
type SearchResponse struct {
	Clients []*Client `json:"clients"`
	Count   int       `json:"count"`
}

// Search handles GET /clients?q=term requests
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")

	matches, err := h.repo.Search(r.Context(), term)
	if err != nil {
		h.logger.Error("failed to search clients", "error", err)
		http.Error(w, "failed to search clients", http.StatusInternalServerError)
		return
	}

	response := SearchResponse{
		Clients: matches,
		Count:   len(matches),
	}
	if response.Clients == nil {
		response.Clients = []*Client{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
