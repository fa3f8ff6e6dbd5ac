package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Dosada05/esports-overlay/services"
)

type CharacterHandler struct {
	responder
	characterService services.CharacterService
}

func NewCharacterHandler(cs services.CharacterService, logger *slog.Logger) *CharacterHandler {
	return &CharacterHandler{responder: responder{logger: logger}, characterService: cs}
}

func (h *CharacterHandler) CreateCharacter(w http.ResponseWriter, r *http.Request) {
	var input services.CharacterInput
	if err := readJSON(w, r, &input); err != nil {
		h.badRequest(w, r, err)
		return
	}

	character, err := h.characterService.Create(r.Context(), input)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.ok(w, r, http.StatusCreated, "character", character)
}

func (h *CharacterHandler) GetAllCharacters(w http.ResponseWriter, r *http.Request) {
	characters, err := h.characterService.GetAll(r.Context())
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.write(w, r, http.StatusOK, characters)
}

func (h *CharacterHandler) GetCharacterByID(w http.ResponseWriter, r *http.Request) {
	characterID, err := getIDFromURL(r, "characterID")
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	character, err := h.characterService.GetByID(r.Context(), characterID)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.write(w, r, http.StatusOK, character)
}

func (h *CharacterHandler) UpdateCharacter(w http.ResponseWriter, r *http.Request) {
	characterID, err := getIDFromURL(r, "characterID")
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	var input services.CharacterInput
	if err := readJSON(w, r, &input); err != nil {
		h.badRequest(w, r, err)
		return
	}

	character, err := h.characterService.Update(r.Context(), characterID, input)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, "character", character)
}

func (h *CharacterHandler) DeleteCharacter(w http.ResponseWriter, r *http.Request) {
	characterID, err := getIDFromURL(r, "characterID")
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.characterService.Delete(r.Context(), characterID); err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, "msg", "character deleted")
}
