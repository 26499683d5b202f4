package handlers

import (
	"log/slog"
	"net/http"

	"github.com/fairwayfive/golf-pool/live"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browser clients connect from the frontend origin; CORS policy is
	// enforced at the router level.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type WebSocketHandler struct {
	hub    *live.Hub
	logger *slog.Logger
}

func NewWebSocketHandler(hub *live.Hub, logger *slog.Logger) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, logger: logger}
}

// Leaderboard upgrades the connection and subscribes it to the tournament's
// live leaderboard feed.
func (h *WebSocketHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := readIntParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}
	h.hub.Subscribe(conn, tournamentID)
}
