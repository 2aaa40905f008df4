package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wonny/ohaasa/backend/internal/api/handlers"
	"github.com/wonny/ohaasa/backend/pkg/logger"
)

// Handlers groups everything the router mounts
type Handlers struct {
	Ranking *handlers.RankingHandler
	Fortune *handlers.FortuneHandler
	Stream  http.Handler // websocket hub; nil disables /ws
}

// NewRouter creates and configures the HTTP router
// ⭐ SSOT: 라우팅 설정은 이 함수에서만
func NewRouter(h Handlers, log *logger.Logger) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	// Realtime
	if h.Stream != nil {
		r.Handle("/ws", h.Stream).Methods("GET")
	}

	api := r.PathPrefix("/api").Subrouter()

	// Ranking endpoints
	api.HandleFunc("/rankings", h.Ranking.GetRankings).Methods("GET")
	api.HandleFunc("/rankings/refresh", h.Ranking.Refresh).Methods("POST")

	// Fortune endpoints
	api.HandleFunc("/fortune", h.Fortune.GetFortune).Methods("GET")

	// Apply middleware
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "ohaasa-api",
	})
}
