package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/mcoot/roomwarden/internal/api/apierr"
	"github.com/mcoot/roomwarden/internal/api/handler"
	"github.com/mcoot/roomwarden/internal/api/middleware"
	"github.com/mcoot/roomwarden/internal/dependencies/clock"
	"github.com/mcoot/roomwarden/internal/notify/stream"
	"github.com/mcoot/roomwarden/internal/room/simroom"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger *slog.Logger
	Loop   handler.Looper
	Clock  clock.Clock
	// Stream serves /api/v1/events; nil disables the route
	Stream *stream.Hub
	// Sim is the simulated room; nil when another platform is in use
	Sim           *simroom.Room
	SimulationAPI bool
	Version       string
	StartedAt     time.Time
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	roomHandler := handler.NewRoomHandler(cfg.Loop, cfg.Clock, cfg.StartedAt, cfg.Version)

	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	r.Use(recoveryMiddleware)
	r.HandleFunc("/", roomHandler.Root).Methods(http.MethodGet)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(loggingMiddleware)

	api.HandleFunc("/health", roomHandler.Health).Methods(http.MethodGet)
	api.HandleFunc("/status", roomHandler.Status).Methods(http.MethodGet)
	api.HandleFunc("/stats", roomHandler.Stats).Methods(http.MethodGet)
	if cfg.Stream != nil {
		api.HandleFunc("/events", cfg.Stream.ServeSSE).Methods(http.MethodGet)
	}

	// Simulation routes drive the in-memory room
	sim := api.PathPrefix("/sim").Subrouter()
	if cfg.Sim == nil || !cfg.SimulationAPI {
		sim.PathPrefix("/").HandlerFunc(simulationDisabled)
		return r
	}
	simHandler := handler.NewSimHandler(cfg.Sim)
	sim.HandleFunc("/join", simHandler.Join).Methods(http.MethodPost)
	sim.HandleFunc("/leave", simHandler.Leave).Methods(http.MethodPost)
	sim.HandleFunc("/chat", simHandler.Chat).Methods(http.MethodPost)
	sim.HandleFunc("/touch", simHandler.Touch).Methods(http.MethodPost)
	sim.HandleFunc("/goal", simHandler.Goal).Methods(http.MethodPost)
	sim.HandleFunc("/team", simHandler.Team).Methods(http.MethodPost)
	sim.HandleFunc("/start", simHandler.Start).Methods(http.MethodPost)
	sim.HandleFunc("/stop", simHandler.Stop).Methods(http.MethodPost)

	return r
}

func simulationDisabled(w http.ResponseWriter, _ *http.Request) {
	apierr.WriteError(w, apierr.NewSimulationDisabledError())
}
