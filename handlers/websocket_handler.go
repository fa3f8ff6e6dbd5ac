package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/Dosada05/esports-overlay/overlay"
	"github.com/Dosada05/esports-overlay/services"
)

type WebSocketHandler struct {
	hub              *overlay.Hub
	liveMatchService services.LiveMatchService
	upgrader         websocket.Upgrader
	logger           *slog.Logger
}

// NewWebSocketHandler accepts connections from the given origins; "*" allows any.
func NewWebSocketHandler(hub *overlay.Hub, ls services.LiveMatchService, allowedOrigins []string, logger *slog.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		hub:              hub,
		liveMatchService: ls,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		logger: logger,
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, a := range allowed {
			if a == "*" || a == origin {
				return true
			}
		}
		return false
	}
}

// ServeCurrentMatch upgrades the connection, sends the current match snapshot
// and then joins the client to the live match room.
func (h *WebSocketHandler) ServeCurrentMatch(w http.ResponseWriter, r *http.Request) {
	var snapshot interface{}
	match, err := h.liveMatchService.Get(r.Context())
	switch {
	case err == nil:
		snapshot = match
	case errors.Is(err, services.ErrNoLiveMatch):
	default:
		h.logger.Error("websocket: failed to load live match snapshot", slog.Any("error", err))
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied with an HTTP error.
		h.logger.Warn("websocket upgrade failed", slog.Any("error", err))
		return
	}

	client := overlay.NewClient(h.hub, conn, overlay.RoomCurrentMatch)
	if raw, err := json.Marshal(overlay.SnapshotMessage(snapshot)); err == nil {
		client.Queue(raw)
	} else {
		h.logger.Error("websocket: failed to encode snapshot", slog.Any("error", err))
	}

	if !h.hub.Register(client) {
		_ = conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()

	h.logger.Debug("websocket client connected", slog.String("room", overlay.RoomCurrentMatch), slog.String("remote", r.RemoteAddr))
}
