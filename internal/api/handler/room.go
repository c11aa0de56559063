// Package handler holds the HTTP endpoint handlers for the read-only
// room inspection API. Gameplay itself happens over the websocket.
package handler

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/duelware/rps-arena/internal/api/apierr"
	"github.com/duelware/rps-arena/internal/api/response"
	"github.com/duelware/rps-arena/internal/model"
	"github.com/duelware/rps-arena/internal/room"
	"github.com/duelware/rps-arena/internal/storage"
)

// RoomHandler handles room inspection endpoints
type RoomHandler struct {
	rooms   *room.Controller
	history storage.Storage
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(rooms *room.Controller, history storage.Storage) *RoomHandler {
	return &RoomHandler{rooms: rooms, history: history}
}

// Get handles GET /api/v1/rooms/{code}
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := model.RoomCode(mux.Vars(r)["code"])

	snapshot, err := h.rooms.Snapshot(code)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomFromSnapshot(snapshot))
}

// History handles GET /api/v1/rooms/{code}/history. Histories outlive
// their rooms, so this answers for closed rooms too; a code that never
// resolved a round gets an empty list.
func (h *RoomHandler) History(w http.ResponseWriter, r *http.Request) {
	// History keys are stored in canonical upper-case form
	code := model.RoomCode(strings.ToUpper(strings.TrimSpace(mux.Vars(r)["code"])))

	records, err := h.history.GetRoundsForRoom(r.Context(), code)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	rounds := make([]response.Round, 0, len(records))
	for _, rec := range records {
		rounds = append(rounds, response.RoundFromModel(rec))
	}

	response.JSON(w, http.StatusOK, response.HistoryResponse{
		RoomCode: string(code),
		Rounds:   rounds,
	})
}
