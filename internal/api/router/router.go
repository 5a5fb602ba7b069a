package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/nailit-studio/nailit-scheduler/internal/appointments"
	"github.com/nailit-studio/nailit-scheduler/internal/clients"
	httpmiddleware "github.com/nailit-studio/nailit-scheduler/internal/http/middleware"
	"github.com/nailit-studio/nailit-scheduler/internal/settings"
	"github.com/nailit-studio/nailit-scheduler/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger              *logging.Logger
	ClientsHandler      *clients.Handler
	AppointmentsHandler *appointments.Handler
	SettingsHandler     *settings.Handler
	MetricsHandler      http.Handler
	CORSAllowedOrigins  []string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", handleHealth)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	if cfg.ClientsHandler != nil {
		r.Route("/clients", func(r chi.Router) {
			r.Post("/", cfg.ClientsHandler.Create)
			r.Get("/", cfg.ClientsHandler.Search)
		})
	}

	if cfg.AppointmentsHandler != nil {
		r.Route("/appointments", func(r chi.Router) {
			r.Post("/", cfg.AppointmentsHandler.Create)
			r.Get("/", cfg.AppointmentsHandler.List)
			r.Route("/{id}", func(r chi.Router) {
				r.Post("/done", cfg.AppointmentsHandler.MarkDone)
				r.Post("/cancel", cfg.AppointmentsHandler.MarkCanceled)
				r.Put("/calendar-event", cfg.AppointmentsHandler.UpdateCalendarEvent)
			})
		})
	}

	if cfg.SettingsHandler != nil {
		r.Route("/settings/{key}", func(r chi.Router) {
			r.Get("/", cfg.SettingsHandler.Get)
			r.Put("/", cfg.SettingsHandler.Set)
		})
	}

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
