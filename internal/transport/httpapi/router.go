package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/palco-live/palco/internal/app/search"
	"github.com/palco-live/palco/internal/app/session"
	"github.com/palco-live/palco/internal/transport/ws"
)

// NewRouter wires the REST endpoints and the websocket upgrade path.
func NewRouter(coordinator *session.Coordinator, searcher *search.Service, hub *ws.Hub) *mux.Router {
	h := &handler{coordinator: coordinator, searcher: searcher}

	r := mux.NewRouter()
	r.HandleFunc("/api/rooms", h.createRoom).Methods(http.MethodPost)
	r.HandleFunc("/api/search", h.search).Methods(http.MethodGet)
	r.HandleFunc("/ws", hub.ServeWS)
	r.HandleFunc("/healthz", h.healthz).Methods(http.MethodGet)
	return r
}
