package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Dosada05/esports-overlay/services"
)

type GameHandler struct {
	responder
	gameService      services.GameService
	characterService services.CharacterService
	mediaService     services.MediaService
}

func NewGameHandler(gs services.GameService, cs services.CharacterService, ms services.MediaService, logger *slog.Logger) *GameHandler {
	return &GameHandler{
		responder:        responder{logger: logger},
		gameService:      gs,
		characterService: cs,
		mediaService:     ms,
	}
}

func (h *GameHandler) CreateGame(w http.ResponseWriter, r *http.Request) {
	var input services.GameInput
	if err := readJSON(w, r, &input); err != nil {
		h.badRequest(w, r, err)
		return
	}

	game, err := h.gameService.Create(r.Context(), input)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.ok(w, r, http.StatusCreated, "game", game)
}

func (h *GameHandler) GetAllGames(w http.ResponseWriter, r *http.Request) {
	games, err := h.gameService.GetAll(r.Context())
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.write(w, r, http.StatusOK, games)
}

func (h *GameHandler) GetGameByID(w http.ResponseWriter, r *http.Request) {
	gameID, err := getIDFromURL(r, "gameID")
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	game, err := h.gameService.GetByID(r.Context(), gameID)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.write(w, r, http.StatusOK, game)
}

func (h *GameHandler) UpdateGame(w http.ResponseWriter, r *http.Request) {
	gameID, err := getIDFromURL(r, "gameID")
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	var input services.GameInput
	if err := readJSON(w, r, &input); err != nil {
		h.badRequest(w, r, err)
		return
	}

	game, err := h.gameService.Update(r.Context(), gameID, input)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, "game", game)
}

func (h *GameHandler) DeleteGame(w http.ResponseWriter, r *http.Request) {
	gameID, err := getIDFromURL(r, "gameID")
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.gameService.Delete(r.Context(), gameID); err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, "msg", "game deleted")
}

func (h *GameHandler) GetGameCharacters(w http.ResponseWriter, r *http.Request) {
	gameID, err := getIDFromURL(r, "gameID")
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	characters, err := h.gameService.ListCharacters(r.Context(), gameID)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.write(w, r, http.StatusOK, characters)
}

// CreateGameCharacter adds a character to the game named in the path; a
// game_id in the body is overridden.
func (h *GameHandler) CreateGameCharacter(w http.ResponseWriter, r *http.Request) {
	gameID, err := getIDFromURL(r, "gameID")
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	var input services.CharacterInput
	if err := readJSON(w, r, &input); err != nil {
		h.badRequest(w, r, err)
		return
	}
	input.GameID = gameID

	character, err := h.characterService.Create(r.Context(), input)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.ok(w, r, http.StatusCreated, "character", character)
}

// characterInGame resolves the character id from the path and answers 404
// when it belongs to another game.
func (h *GameHandler) characterInGame(w http.ResponseWriter, r *http.Request) (gameID, characterID int, ok bool) {
	gameID, err := getIDFromURL(r, "gameID")
	if err != nil {
		h.badRequest(w, r, err)
		return 0, 0, false
	}
	characterID, err = getIDFromURL(r, "characterID")
	if err != nil {
		h.badRequest(w, r, err)
		return 0, 0, false
	}

	character, err := h.characterService.GetByID(r.Context(), characterID)
	if err != nil {
		h.serviceError(w, r, err)
		return 0, 0, false
	}
	if character.GameID != gameID {
		h.serviceError(w, r, services.ErrCharacterNotFound)
		return 0, 0, false
	}
	return gameID, characterID, true
}

// UpdateGameCharacter keeps the character in the game named in the path.
func (h *GameHandler) UpdateGameCharacter(w http.ResponseWriter, r *http.Request) {
	gameID, characterID, ok := h.characterInGame(w, r)
	if !ok {
		return
	}

	var input services.CharacterInput
	if err := readJSON(w, r, &input); err != nil {
		h.badRequest(w, r, err)
		return
	}
	input.GameID = gameID

	character, err := h.characterService.Update(r.Context(), characterID, input)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, "character", character)
}

func (h *GameHandler) DeleteGameCharacter(w http.ResponseWriter, r *http.Request) {
	_, characterID, ok := h.characterInGame(w, r)
	if !ok {
		return
	}

	if err := h.characterService.Delete(r.Context(), characterID); err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, "msg", "character deleted")
}

func (h *GameHandler) UploadGameLogo(w http.ResponseWriter, r *http.Request) {
	uploadMedia(w, r, h.responder, h.mediaService, services.MediaGameLogo, "gameID")
}
