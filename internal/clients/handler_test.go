package clients

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nailit-studio/nailit-scheduler/pkg/logging"
)

func TestCreateClient_Success(t *testing.T) {
	repo := NewInMemoryRepository()
	handler := NewHandler(repo, logging.Default())

	reqBody := CreateClientRequest{
		Name:  "Dana Levi",
		Phone: "050-1234567",
	}

	body, _ := json.Marshal(reqBody)
	req := httptest.NewRequest(http.MethodPost, "/clients", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.Create(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("expected status %d, got %d", http.StatusCreated, w.Code)
	}

	var client Client
	if err := json.NewDecoder(w.Body).Decode(&client); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if client.Name != reqBody.Name {
		t.Errorf("expected name %s, got %s", reqBody.Name, client.Name)
	}
	if client.ID == "" {
		t.Error("expected generated id in response")
	}
}

func TestCreateClient_EmptyName(t *testing.T) {
	repo := NewInMemoryRepository()
	handler := NewHandler(repo, logging.Default())

	body, _ := json.Marshal(CreateClientRequest{Name: "   "})
	req := httptest.NewRequest(http.MethodPost, "/clients", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.Create(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestCreateClient_InvalidJSON(t *testing.T) {
	repo := NewInMemoryRepository()
	handler := NewHandler(repo, logging.Default())

	req := httptest.NewRequest(http.MethodPost, "/clients", bytes.NewReader([]byte("{not json")))
	w := httptest.NewRecorder()

	handler.Create(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestSearchClients(t *testing.T) {
	repo := NewInMemoryRepository()
	handler := NewHandler(repo, logging.Default())

	if _, err := repo.Create(httptest.NewRequest(http.MethodGet, "/", nil).Context(), &CreateClientRequest{Name: "Dana Levi", Phone: "050-1111111"}); err != nil {
		t.Fatalf("seed client: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/clients?q=dana", nil)
	w := httptest.NewRecorder()

	handler.Search(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	var resp SearchResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Count != 1 || resp.Clients[0].Name != "Dana Levi" {
		t.Fatalf("unexpected search response: %+v", resp)
	}
}

func TestSearchClients_EmptyTermReturnsEmptyList(t *testing.T) {
	repo := NewInMemoryRepository()
	handler := NewHandler(repo, logging.Default())

	req := httptest.NewRequest(http.MethodGet, "/clients", nil)
	w := httptest.NewRecorder()

	handler.Search(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	var resp SearchResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Count != 0 || resp.Clients == nil {
		t.Fatalf("expected empty client list, got %+v", resp)
	}
}
