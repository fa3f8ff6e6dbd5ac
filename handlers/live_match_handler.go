package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Dosada05/esports-overlay/services"
)

type LiveMatchHandler struct {
	responder
	liveMatchService services.LiveMatchService
}

func NewLiveMatchHandler(ls services.LiveMatchService, logger *slog.Logger) *LiveMatchHandler {
	return &LiveMatchHandler{responder: responder{logger: logger}, liveMatchService: ls}
}

func (h *LiveMatchHandler) GetCurrentMatch(w http.ResponseWriter, r *http.Request) {
	match, err := h.liveMatchService.Get(r.Context())
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.write(w, r, http.StatusOK, match)
}

func (h *LiveMatchHandler) CreateMatch(w http.ResponseWriter, r *http.Request) {
	var input services.CreateMatchInput
	if err := readJSON(w, r, &input); err != nil {
		h.badRequest(w, r, err)
		return
	}

	match, err := h.liveMatchService.Create(r.Context(), input)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.ok(w, r, http.StatusCreated, "match", match)
}

func (h *LiveMatchHandler) UpdateScores(w http.ResponseWriter, r *http.Request) {
	var input services.UpdateScoresInput
	if err := readJSON(w, r, &input); err != nil {
		h.badRequest(w, r, err)
		return
	}

	match, err := h.liveMatchService.UpdateScores(r.Context(), input)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, "match", match)
}

func (h *LiveMatchHandler) CompleteMatch(w http.ResponseWriter, r *http.Request) {
	record, err := h.liveMatchService.Complete(r.Context())
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.ok(w, r, http.StatusCreated, "history", record)
}

func (h *LiveMatchHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			h.badRequest(w, r, fmt.Errorf("invalid limit: %q", raw))
			return
		}
		limit = v
	}

	history, err := h.liveMatchService.History(r.Context(), limit)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.write(w, r, http.StatusOK, history)
}
