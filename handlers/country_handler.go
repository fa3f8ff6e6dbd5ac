package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Dosada05/esports-overlay/services"
)

type CountryHandler struct {
	responder
	countryService services.CountryService
	mediaService   services.MediaService
}

func NewCountryHandler(cs services.CountryService, ms services.MediaService, logger *slog.Logger) *CountryHandler {
	return &CountryHandler{responder: responder{logger: logger}, countryService: cs, mediaService: ms}
}

func (h *CountryHandler) CreateCountry(w http.ResponseWriter, r *http.Request) {
	var input services.CountryInput
	if err := readJSON(w, r, &input); err != nil {
		h.badRequest(w, r, err)
		return
	}

	country, err := h.countryService.Create(r.Context(), input)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.ok(w, r, http.StatusCreated, "country", country)
}

func (h *CountryHandler) GetAllCountries(w http.ResponseWriter, r *http.Request) {
	countries, err := h.countryService.GetAll(r.Context())
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.write(w, r, http.StatusOK, countries)
}

func (h *CountryHandler) GetCountryByID(w http.ResponseWriter, r *http.Request) {
	countryID, err := getIDFromURL(r, "countryID")
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	country, err := h.countryService.GetByID(r.Context(), countryID)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.write(w, r, http.StatusOK, country)
}

func (h *CountryHandler) UpdateCountry(w http.ResponseWriter, r *http.Request) {
	countryID, err := getIDFromURL(r, "countryID")
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	var input services.CountryInput
	if err := readJSON(w, r, &input); err != nil {
		h.badRequest(w, r, err)
		return
	}

	country, err := h.countryService.Update(r.Context(), countryID, input)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, "country", country)
}

func (h *CountryHandler) DeleteCountry(w http.ResponseWriter, r *http.Request) {
	countryID, err := getIDFromURL(r, "countryID")
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.countryService.Delete(r.Context(), countryID); err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, "msg", "country deleted")
}

func (h *CountryHandler) UploadCountryFlag(w http.ResponseWriter, r *http.Request) {
	uploadMedia(w, r, h.responder, h.mediaService, services.MediaCountryFlag, "countryID")
}
