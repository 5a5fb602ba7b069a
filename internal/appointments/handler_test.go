package appointments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nailit-studio/nailit-scheduler/internal/settings"
	"github.com/nailit-studio/nailit-scheduler/pkg/logging"
)

func newHandlerFixture(t *testing.T) (*serviceFixture, *chi.Mux) {
	t.Helper()
	f := newServiceFixture(t)
	h := NewHandler(f.service, time.UTC, 60, logging.Default())

	r := chi.NewRouter()
	r.Post("/appointments", h.Create)
	r.Get("/appointments", h.List)
	r.Post("/appointments/{id}/done", h.MarkDone)
	r.Post("/appointments/{id}/cancel", h.MarkCanceled)
	r.Put("/appointments/{id}/calendar-event", h.UpdateCalendarEvent)
	return f, r
}

func postAppointment(t *testing.T, router http.Handler, clientID string, start time.Time) *httptest.ResponseRecorder {
	t.Helper()
	body := fmt.Sprintf(`{"client_id":%q,"type":"manicure","start_time":%q,"duration_minutes":60}`,
		clientID, start.Format(time.RFC3339))
	req := httptest.NewRequest(http.MethodPost, "/appointments", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandlerCreateReturnsAppointment(t *testing.T) {
	f, router := newHandlerFixture(t)
	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	rec := postAppointment(t, router, f.clientID, start)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp AppointmentResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != StatusScheduled {
		t.Fatalf("expected scheduled, got %s", resp.Status)
	}
	if resp.CalendarEventID != "evt-1" {
		t.Fatalf("expected linked event, got %q", resp.CalendarEventID)
	}
	if resp.CalendarWarning != "" {
		t.Fatalf("unexpected warning %q", resp.CalendarWarning)
	}
}

func TestHandlerCreateAppliesDefaultDuration(t *testing.T) {
	f, router := newHandlerFixture(t)

	body := fmt.Sprintf(`{"client_id":%q,"type":"pedicure","start_time":"2026-09-01T10:00:00Z"}`, f.clientID)
	req := httptest.NewRequest(http.MethodPost, "/appointments", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp AppointmentResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.DurationMinutes != 60 {
		t.Fatalf("expected default duration 60, got %d", resp.DurationMinutes)
	}
}

func TestHandlerCreateConflict(t *testing.T) {
	f, router := newHandlerFixture(t)
	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	if rec := postAppointment(t, router, f.clientID, start); rec.Code != http.StatusCreated {
		t.Fatalf("first booking: expected 201, got %d", rec.Code)
	}
	rec := postAppointment(t, router, f.clientID, start.Add(30*time.Minute))
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHandlerCreateValidation(t *testing.T) {
	f, router := newHandlerFixture(t)

	body := fmt.Sprintf(`{"client_id":%q,"type":"massage","start_time":"2026-09-01T10:00:00Z","duration_minutes":60}`, f.clientID)
	req := httptest.NewRequest(http.MethodPost, "/appointments", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHandlerCreateSurfacesCalendarWarning(t *testing.T) {
	f, router := newHandlerFixture(t)
	f.calendar.err = fmt.Errorf("calendar unreachable")
	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	rec := postAppointment(t, router, f.clientID, start)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var resp AppointmentResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.CalendarWarning == "" {
		t.Fatal("expected calendar_warning in response")
	}
}

func TestHandlerListRange(t *testing.T) {
	f, router := newHandlerFixture(t)
	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	if rec := postAppointment(t, router, f.clientID, start); rec.Code != http.StatusCreated {
		t.Fatalf("booking: expected 201, got %d", rec.Code)
	}

	url := "/appointments?from=2026-09-01T00:00:00Z&to=2026-09-01T23:59:59Z"
	req := httptest.NewRequest(http.MethodGet, url, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp ListResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Count != 1 || resp.Appointments[0].ClientName != "Dana" {
		t.Fatalf("unexpected agenda: %+v", resp)
	}
}

func TestHandlerListRejectsBadRange(t *testing.T) {
	_, router := newHandlerFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/appointments?from=yesterday&to=tomorrow", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHandlerDoneAndRepeatConflicts(t *testing.T) {
	f, router := newHandlerFixture(t)
	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	rec := postAppointment(t, router, f.clientID, start)
	var created AppointmentResponse
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	doneReq := httptest.NewRequest(http.MethodPost, "/appointments/"+created.ID+"/done", nil)
	doneRec := httptest.NewRecorder()
	router.ServeHTTP(doneRec, doneReq)
	if doneRec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", doneRec.Code, doneRec.Body.String())
	}

	againReq := httptest.NewRequest(http.MethodPost, "/appointments/"+created.ID+"/cancel", nil)
	againRec := httptest.NewRecorder()
	router.ServeHTTP(againRec, againReq)
	if againRec.Code != http.StatusConflict {
		t.Fatalf("expected 409 on terminal re-mark, got %d", againRec.Code)
	}
}

func TestHandlerStatusChangeUnknownID(t *testing.T) {
	_, router := newHandlerFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/appointments/missing/done", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestHandlerLinkCalendarEvent(t *testing.T) {
	f, router := newHandlerFixture(t)
	if err := f.settings.Set(context.Background(), settings.KeyCalendarID, ""); err != nil {
		t.Fatalf("clear calendar id: %v", err)
	}
	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	rec := postAppointment(t, router, f.clientID, start)
	var created AppointmentResponse
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	linkReq := httptest.NewRequest(http.MethodPut, "/appointments/"+created.ID+"/calendar-event",
		bytes.NewBufferString(`{"event_id":"evt-manual"}`))
	linkRec := httptest.NewRecorder()
	router.ServeHTTP(linkRec, linkReq)
	if linkRec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", linkRec.Code, linkRec.Body.String())
	}

	appt, err := f.repo.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if appt.CalendarEventID != "evt-manual" {
		t.Fatalf("expected evt-manual, got %q", appt.CalendarEventID)
	}
}

func TestHandlerResyncWithoutCalendarIsBadRequest(t *testing.T) {
	f, router := newHandlerFixture(t)
	if err := f.settings.Set(context.Background(), settings.KeyCalendarID, ""); err != nil {
		t.Fatalf("clear calendar id: %v", err)
	}
	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	rec := postAppointment(t, router, f.clientID, start)
	var created AppointmentResponse
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	syncReq := httptest.NewRequest(http.MethodPut, "/appointments/"+created.ID+"/calendar-event",
		bytes.NewBufferString(`{}`))
	syncRec := httptest.NewRecorder()
	router.ServeHTTP(syncRec, syncReq)
	if syncRec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 when no calendar is configured, got %d", syncRec.Code)
	}
}
