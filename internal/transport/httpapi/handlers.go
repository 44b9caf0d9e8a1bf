package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"

	"github.com/palco-live/palco/internal/app/search"
	"github.com/palco-live/palco/internal/app/session"
	"github.com/palco-live/palco/internal/domain/video"
)

type handler struct {
	coordinator *session.Coordinator
	searcher    *search.Service
}

type createRoomRequest struct {
	RoomName string `json:"roomName"`
	HostID   string `json:"hostId"`
}

type createRoomResponse struct {
	RoomID string `json:"roomId"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *handler) createRoom(w http.ResponseWriter, r *http.Request) {
	var req createRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if strings.TrimSpace(req.RoomName) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "roomName is required"})
		return
	}
	if req.HostID == "" {
		req.HostID = uuid.New().String()
	}

	rm, err := h.coordinator.CreateRoom(req.RoomName, req.HostID)
	if err != nil {
		zlog.Error().Msgf("room creation failed: err=%v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "could not create room"})
		return
	}
	writeJSON(w, http.StatusCreated, createRoomResponse{RoomID: rm.ID})
}

type searchResponse struct {
	Results []video.Result `json:"results"`
	Source  string         `json:"source,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// search never signals provider failure through the status code; the
// player UI treats an empty result set with an error field as "try
// again", not as a broken page.
func (h *handler) search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if strings.TrimSpace(query) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "q is required"})
		return
	}
	roomID := r.URL.Query().Get("roomId")
	forceScrape := r.URL.Query().Get("forceScrape") == "true"

	resp, err := h.searcher.Search(r.Context(), query, roomID, forceScrape)
	if err != nil {
		zlog.Warn().Msgf("search failed: query=%q err=%v", query, err)
		writeJSON(w, http.StatusOK, searchResponse{Results: []video.Result{}, Error: "search unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, searchResponse{Results: resp.Results, Source: resp.Source})
}

func (h *handler) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zlog.Error().Msgf("response encoding failed: err=%v", err)
	}
}
