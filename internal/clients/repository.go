package clients

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// searchLimit caps client search results for the booking screen.
const searchLimit = 20

// Repository defines the interface for client storage
type Repository interface {
	Create(ctx context.Context, req *CreateClientRequest) (*Client, error)
	GetByID(ctx context.Context, id string) (*Client, error)
	Search(ctx context.Context, term string) ([]*Client, error)
}

// InMemoryRepository is a Repository backed by a process-local map.
type InMemoryRepository struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		clients: make(map[string]*Client),
	}
}

// Create creates a new client in memory
func (r *InMemoryRepository) Create(ctx context.Context, req *CreateClientRequest) (*Client, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	client := &Client{
		ID:             uuid.New().String(),
		Name:           strings.TrimSpace(req.Name),
		Phone:          strings.TrimSpace(req.Phone),
		PermanentNotes: req.PermanentNotes,
		CreatedAt:      time.Now().UTC(),
	}

	r.mu.Lock()
	r.clients[client.ID] = client
	r.mu.Unlock()

	return client, nil
}

// GetByID retrieves a client by ID
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	client, ok := r.clients[id]
	if !ok {
		return nil, ErrClientNotFound
	}

	return client, nil
}

// Search returns clients whose name or phone contains the term, ordered by name.
func (r *InMemoryRepository) Search(ctx context.Context, term string) ([]*Client, error) {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return nil, nil
	}

	r.mu.RLock()
	var matches []*Client
	for _, c := range r.clients {
		if strings.Contains(strings.ToLower(c.Name), term) || strings.Contains(c.Phone, term) {
			matches = append(matches, c)
		}
	}
	r.mu.RUnlock()

	sort.Slice(matches, func(i, j int) bool { return matches[i].Name < matches[j].Name })
	if len(matches) > searchLimit {
		matches = matches[:searchLimit]
	}
	return matches, nil
}
