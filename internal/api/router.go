package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/duelware/rps-arena/internal/api/handler"
	"github.com/duelware/rps-arena/internal/gateway"
	"github.com/duelware/rps-arena/internal/middleware"
	"github.com/duelware/rps-arena/internal/room"
	"github.com/duelware/rps-arena/internal/storage"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	RoomController *room.Controller
	Gateway        *gateway.Gateway
	Storage        storage.Storage
}

// NewRouter creates a new router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	roomHandler := handler.NewRoomHandler(cfg.RoomController, cfg.Storage)

	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger, middleware.DefaultPanicHandler)

	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)

	// Gameplay transport
	r.HandleFunc("/ws", cfg.Gateway.ServeWS)

	// Read-only inspection API
	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/rooms/{code}", roomHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/rooms/{code}/history", roomHandler.History).Methods(http.MethodGet)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	// Built-in browser client
	r.HandleFunc("/", indexHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
