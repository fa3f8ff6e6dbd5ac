package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Dosada05/esports-overlay/services"
)

type PlayerHandler struct {
	responder
	playerService services.PlayerService
	mediaService  services.MediaService
}

func NewPlayerHandler(ps services.PlayerService, ms services.MediaService, logger *slog.Logger) *PlayerHandler {
	return &PlayerHandler{responder: responder{logger: logger}, playerService: ps, mediaService: ms}
}

func (h *PlayerHandler) CreatePlayer(w http.ResponseWriter, r *http.Request) {
	var input services.PlayerInput
	if err := readJSON(w, r, &input); err != nil {
		h.badRequest(w, r, err)
		return
	}

	player, err := h.playerService.Create(r.Context(), input)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.ok(w, r, http.StatusCreated, "player", player)
}

func (h *PlayerHandler) GetAllPlayers(w http.ResponseWriter, r *http.Request) {
	players, err := h.playerService.GetAll(r.Context())
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.write(w, r, http.StatusOK, players)
}

func (h *PlayerHandler) GetPlayerByID(w http.ResponseWriter, r *http.Request) {
	playerID, err := getIDFromURL(r, "playerID")
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	player, err := h.playerService.GetByID(r.Context(), playerID)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.write(w, r, http.StatusOK, player)
}

func (h *PlayerHandler) UpdatePlayer(w http.ResponseWriter, r *http.Request) {
	playerID, err := getIDFromURL(r, "playerID")
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	var input services.PlayerInput
	if err := readJSON(w, r, &input); err != nil {
		h.badRequest(w, r, err)
		return
	}

	player, err := h.playerService.Update(r.Context(), playerID, input)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, "player", player)
}

func (h *PlayerHandler) DeletePlayer(w http.ResponseWriter, r *http.Request) {
	playerID, err := getIDFromURL(r, "playerID")
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.playerService.Delete(r.Context(), playerID); err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, "msg", "player deleted")
}

// AssignGame answers 201 for a new association and 200 when an existing one
// was replaced.
func (h *PlayerHandler) AssignGame(w http.ResponseWriter, r *http.Request) {
	playerID, err := getIDFromURL(r, "playerID")
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	var input services.AssignGameInput
	if err := readJSON(w, r, &input); err != nil {
		h.badRequest(w, r, err)
		return
	}

	playerGame, created, err := h.playerService.AssignGame(r.Context(), playerID, input)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	h.ok(w, r, status, "player_game", playerGame)
}

func (h *PlayerHandler) RemoveGame(w http.ResponseWriter, r *http.Request) {
	playerID, err := getIDFromURL(r, "playerID")
	if err != nil {
		h.badRequest(w, r, err)
		return
	}
	gameID, err := getIDFromURL(r, "gameID")
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.playerService.RemoveGame(r.Context(), playerID, gameID); err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, "msg", "game removed from player")
}

func (h *PlayerHandler) UploadPlayerAvatar(w http.ResponseWriter, r *http.Request) {
	uploadMedia(w, r, h.responder, h.mediaService, services.MediaPlayerAvatar, "playerID")
}
