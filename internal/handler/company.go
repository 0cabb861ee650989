package handler

import (
	"net/http"

	"github.com/msomdec/hublocal-manager/internal/service"
)

// CompanyHandler handles company HTTP requests. All routes require auth.
type CompanyHandler struct {
	companies *service.CompanyService
}

// NewCompanyHandler creates a new CompanyHandler.
func NewCompanyHandler(companies *service.CompanyService) *CompanyHandler {
	return &CompanyHandler{companies: companies}
}

type companyRequest struct {
	Name    string `json:"name"`
	CNPJ    string `json:"cnpj"`
	Website string `json:"website"`
	LogoURL string `json:"logoUrl"`
}

type companyPatchRequest struct {
	Name    *string `json:"name"`
	CNPJ    *string `json:"cnpj"`
	Website *string `json:"website"`
	LogoURL *string `json:"logoUrl"`
}

// HandleList returns a page of the caller's companies.
// GET /api/companies?page=1&limit=10
func (h *CompanyHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())

	page, err := queryInt(r, "page")
	if err != nil {
		respondError(w, r, "list companies", err)
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		respondError(w, r, "list companies", err)
		return
	}

	list, err := h.companies.List(r.Context(), identity, service.Page{Number: page, Size: limit})
	if err != nil {
		respondError(w, r, "list companies", err)
		return
	}
	writeJSON(w, http.StatusOK, toCompanyListDTO(list))
}

// HandleCreate creates a company owned by the caller.
// POST /api/companies
func (h *CompanyHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())

	var req companyRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	company, err := h.companies.Create(r.Context(), identity, service.CompanyInput{
		Name:    req.Name,
		CNPJ:    req.CNPJ,
		Website: req.Website,
		LogoURL: req.LogoURL,
	})
	if err != nil {
		respondError(w, r, "create company", err)
		return
	}
	writeJSON(w, http.StatusCreated, toCompanyDTO(company))
}

// HandleGet returns one of the caller's companies.
// GET /api/companies/{id}
func (h *CompanyHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())

	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, "get company", err)
		return
	}

	company, err := h.companies.Get(r.Context(), identity, id)
	if err != nil {
		respondError(w, r, "get company", err)
		return
	}
	writeJSON(w, http.StatusOK, toCompanyDTO(company))
}

// HandleUpdate applies a partial update.
// PATCH /api/companies/{id}
func (h *CompanyHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())

	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, "update company", err)
		return
	}

	var req companyPatchRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	company, err := h.companies.Update(r.Context(), identity, id, service.CompanyPatch{
		Name:    req.Name,
		CNPJ:    req.CNPJ,
		Website: req.Website,
		LogoURL: req.LogoURL,
	})
	if err != nil {
		respondError(w, r, "update company", err)
		return
	}
	writeJSON(w, http.StatusOK, toCompanyDTO(company))
}

// HandleDelete removes a company and its locations.
// DELETE /api/companies/{id}
func (h *CompanyHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())

	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, "delete company", err)
		return
	}

	if err := h.companies.Delete(r.Context(), identity, id); err != nil {
		respondError(w, r, "delete company", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
