package handler

import (
	"time"

	"github.com/msomdec/hublocal-manager/internal/domain"
	"github.com/msomdec/hublocal-manager/internal/service"
)

// AuthResponse is returned by register and login.
type AuthResponse struct {
	AccessToken string `json:"access_token"`
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	Name        string `json:"name"`
}

func toAuthResponse(s *service.Session) AuthResponse {
	return AuthResponse{
		AccessToken: s.Token,
		ID:          s.Identity.ID,
		Email:       s.Identity.Email,
		Name:        s.Identity.Name,
	}
}

// UserDTO is the JSON representation of a user. It never carries the hash.
type UserDTO struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

func toUserDTO(id domain.Identity) UserDTO {
	return UserDTO{
		ID:        id.ID,
		Name:      id.Name,
		Email:     id.Email,
		CreatedAt: id.CreatedAt.Format(time.RFC3339),
		UpdatedAt: id.UpdatedAt.Format(time.RFC3339),
	}
}

// CompanyDTO is the JSON representation of a company.
type CompanyDTO struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	CNPJ           string `json:"cnpj"`
	Website        string `json:"website"`
	LogoURL        string `json:"logoUrl"`
	LocationsCount int    `json:"locationsCount"`
	CreatedAt      string `json:"createdAt"`
	UpdatedAt      string `json:"updatedAt"`
}

func toCompanyDTO(c *domain.Company) CompanyDTO {
	return CompanyDTO{
		ID:             c.ID,
		Name:           c.Name,
		CNPJ:           c.CNPJ,
		Website:        c.Website,
		LogoURL:        c.LogoURL,
		LocationsCount: c.LocationsCount,
		CreatedAt:      c.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      c.UpdatedAt.Format(time.RFC3339),
	}
}

// CompanyListDTO is one page of companies.
type CompanyListDTO struct {
	Companies []CompanyDTO `json:"companies"`
	Count     int          `json:"count"`
}

func toCompanyListDTO(l *service.CompanyList) CompanyListDTO {
	dtos := make([]CompanyDTO, len(l.Companies))
	for i := range l.Companies {
		dtos[i] = toCompanyDTO(&l.Companies[i])
	}
	return CompanyListDTO{Companies: dtos, Count: l.Count}
}

// LocationDTO is the JSON representation of a location.
type LocationDTO struct {
	ID           int64  `json:"id"`
	CompanyID    int64  `json:"companyId"`
	Name         string `json:"name"`
	CEP          string `json:"cep"`
	Street       string `json:"street"`
	Number       string `json:"number"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
	CreatedAt    string `json:"createdAt"`
	UpdatedAt    string `json:"updatedAt"`
}

func toLocationDTO(l *domain.Location) LocationDTO {
	return LocationDTO{
		ID:           l.ID,
		CompanyID:    l.CompanyID,
		Name:         l.Name,
		CEP:          l.CEP,
		Street:       l.Street,
		Number:       l.Number,
		Neighborhood: l.Neighborhood,
		City:         l.City,
		State:        l.State,
		CreatedAt:    l.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    l.UpdatedAt.Format(time.RFC3339),
	}
}

func toLocationDTOs(locations []domain.Location) []LocationDTO {
	dtos := make([]LocationDTO, len(locations))
	for i := range locations {
		dtos[i] = toLocationDTO(&locations[i])
	}
	return dtos
}
