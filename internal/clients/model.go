package clients

import (
	"strings"
	"time"
)

// Client represents a recurring customer of the studio
type Client struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Phone          string    `json:"phone,omitempty"`
	PermanentNotes string    `json:"permanent_notes,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// CreateClientRequest represents the request body for creating a client
type CreateClientRequest struct {
	Name           string `json:"name"`
	Phone          string `json:"phone"`
	PermanentNotes string `json:"permanent_notes"`
}

// Validate validates the create client request
func (r *CreateClientRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrInvalidName
	}
	return nil
}
