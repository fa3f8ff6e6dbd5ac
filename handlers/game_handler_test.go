package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/Dosada05/esports-overlay/models"
	"github.com/Dosada05/esports-overlay/services"
)

type fakeCharacterService struct {
	services.CharacterService
	characters map[int]*models.Character
	updated    *services.CharacterInput
	deleted    []int
}

func (f *fakeCharacterService) GetByID(_ context.Context, id int) (*models.Character, error) {
	c, ok := f.characters[id]
	if !ok {
		return nil, services.ErrCharacterNotFound
	}
	return c, nil
}

func (f *fakeCharacterService) Update(_ context.Context, id int, in services.CharacterInput) (*models.Character, error) {
	f.updated = &in
	return &models.Character{ID: id, GameID: in.GameID, Name: in.Name}, nil
}

func (f *fakeCharacterService) Delete(_ context.Context, id int) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func gameCharacterRouter(cs services.CharacterService) http.Handler {
	h := NewGameHandler(nil, cs, nil, testLogger())
	r := chi.NewRouter()
	r.Put("/games/{gameID}/characters/{characterID}", h.UpdateGameCharacter)
	r.Delete("/games/{gameID}/characters/{characterID}", h.DeleteGameCharacter)
	return r
}

func TestUpdateGameCharacterPinsGame(t *testing.T) {
	cs := &fakeCharacterService{characters: map[int]*models.Character{5: {ID: 5, GameID: 1}}}

	rec, env := do(t, gameCharacterRouter(cs), http.MethodPut, "/games/1/characters/5", `{"game_id":9,"name":"Scorpion"}`)
	if rec.Code != http.StatusOK || !env.OK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	if cs.updated == nil || cs.updated.GameID != 1 {
		t.Fatalf("update input = %+v", cs.updated)
	}
}

func TestGameCharacterFromOtherGame(t *testing.T) {
	cs := &fakeCharacterService{characters: map[int]*models.Character{5: {ID: 5, GameID: 2}}}
	r := gameCharacterRouter(cs)

	rec, env := do(t, r, http.MethodPut, "/games/1/characters/5", `{"name":"Scorpion"}`)
	if rec.Code != http.StatusNotFound || env.OK {
		t.Fatalf("update status = %d", rec.Code)
	}
	if cs.updated != nil {
		t.Fatal("update reached the service")
	}

	rec, _ = do(t, r, http.MethodDelete, "/games/1/characters/5", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("delete status = %d", rec.Code)
	}
	if len(cs.deleted) != 0 {
		t.Fatalf("deleted %v", cs.deleted)
	}
}

func TestDeleteGameCharacter(t *testing.T) {
	cs := &fakeCharacterService{characters: map[int]*models.Character{5: {ID: 5, GameID: 1}}}
	r := gameCharacterRouter(cs)

	rec, env := do(t, r, http.MethodDelete, "/games/1/characters/5", "")
	if rec.Code != http.StatusOK || !env.OK {
		t.Fatalf("status = %d", rec.Code)
	}
	if len(cs.deleted) != 1 || cs.deleted[0] != 5 {
		t.Fatalf("deleted %v", cs.deleted)
	}

	rec, _ = do(t, r, http.MethodDelete, "/games/1/characters/7", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing character status = %d", rec.Code)
	}
	rec, _ = do(t, r, http.MethodDelete, "/games/1/characters/x", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad id status = %d", rec.Code)
	}
}
