package handler

import (
	"net/http"

	"github.com/msomdec/hublocal-manager/internal/service"
)

// LocationHandler handles location HTTP requests nested under a company.
type LocationHandler struct {
	locations *service.LocationService
}

// NewLocationHandler creates a new LocationHandler.
func NewLocationHandler(locations *service.LocationService) *LocationHandler {
	return &LocationHandler{locations: locations}
}

type locationRequest struct {
	Name         string `json:"name"`
	CEP          string `json:"cep"`
	Street       string `json:"street"`
	Number       string `json:"number"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
}

type locationPatchRequest struct {
	Name         *string `json:"name"`
	CEP          *string `json:"cep"`
	Street       *string `json:"street"`
	Number       *string `json:"number"`
	Neighborhood *string `json:"neighborhood"`
	City         *string `json:"city"`
	State        *string `json:"state"`
}

// HandleList returns every location of a company.
// GET /api/companies/{companyId}/locations
func (h *LocationHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())

	companyID, err := pathID(r, "companyId")
	if err != nil {
		respondError(w, r, "list locations", err)
		return
	}

	locations, err := h.locations.List(r.Context(), identity, companyID)
	if err != nil {
		respondError(w, r, "list locations", err)
		return
	}
	writeJSON(w, http.StatusOK, toLocationDTOs(locations))
}

// HandleCreate adds a location to a company.
// POST /api/companies/{companyId}/locations
func (h *LocationHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())

	companyID, err := pathID(r, "companyId")
	if err != nil {
		respondError(w, r, "create location", err)
		return
	}

	var req locationRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	location, err := h.locations.Create(r.Context(), identity, companyID, service.LocationInput{
		Name:         req.Name,
		CEP:          req.CEP,
		Street:       req.Street,
		Number:       req.Number,
		Neighborhood: req.Neighborhood,
		City:         req.City,
		State:        req.State,
	})
	if err != nil {
		respondError(w, r, "create location", err)
		return
	}
	writeJSON(w, http.StatusCreated, toLocationDTO(location))
}

// HandleGet returns one location.
// GET /api/companies/{companyId}/locations/{id}
func (h *LocationHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())

	companyID, id, err := locationPath(r)
	if err != nil {
		respondError(w, r, "get location", err)
		return
	}

	location, err := h.locations.Get(r.Context(), identity, companyID, id)
	if err != nil {
		respondError(w, r, "get location", err)
		return
	}
	writeJSON(w, http.StatusOK, toLocationDTO(location))
}

// HandleUpdate applies a partial update.
// PATCH /api/companies/{companyId}/locations/{id}
func (h *LocationHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())

	companyID, id, err := locationPath(r)
	if err != nil {
		respondError(w, r, "update location", err)
		return
	}

	var req locationPatchRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	location, err := h.locations.Update(r.Context(), identity, companyID, id, service.LocationPatch{
		Name:         req.Name,
		CEP:          req.CEP,
		Street:       req.Street,
		Number:       req.Number,
		Neighborhood: req.Neighborhood,
		City:         req.City,
		State:        req.State,
	})
	if err != nil {
		respondError(w, r, "update location", err)
		return
	}
	writeJSON(w, http.StatusOK, toLocationDTO(location))
}

// HandleDelete removes a location.
// DELETE /api/companies/{companyId}/locations/{id}
func (h *LocationHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())

	companyID, id, err := locationPath(r)
	if err != nil {
		respondError(w, r, "delete location", err)
		return
	}

	if err := h.locations.Delete(r.Context(), identity, companyID, id); err != nil {
		respondError(w, r, "delete location", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func locationPath(r *http.Request) (companyID, id int64, err error) {
	if companyID, err = pathID(r, "companyId"); err != nil {
		return 0, 0, err
	}
	if id, err = pathID(r, "id"); err != nil {
		return 0, 0, err
	}
	return companyID, id, nil
}
