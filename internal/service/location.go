package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/msomdec/hublocal-manager/internal/domain"
)

// LocationInput carries the fields of a new location.
type LocationInput struct {
	Name         string
	CEP          string
	Street       string
	Number       string
	Neighborhood string
	City         string
	State        string
}

// LocationPatch carries a partial update; nil fields are left unchanged.
type LocationPatch struct {
	Name         *string
	CEP          *string
	Street       *string
	Number       *string
	Neighborhood *string
	City         *string
	State        *string
}

// LocationService handles location CRUD. A location's owner is the owner of
// its company, so every operation first resolves the company through
// CompanyService.Get.
type LocationService struct {
	locations domain.LocationRepository
	companies *CompanyService
}

// NewLocationService creates a new LocationService.
func NewLocationService(locations domain.LocationRepository, companies *CompanyService) *LocationService {
	return &LocationService{locations: locations, companies: companies}
}

func (s *LocationService) Create(ctx context.Context, owner domain.Identity, companyID int64, in LocationInput) (*domain.Location, error) {
	if _, err := s.companies.Get(ctx, owner, companyID); err != nil {
		return nil, err
	}

	location := &domain.Location{
		CompanyID:    companyID,
		Name:         strings.TrimSpace(in.Name),
		CEP:          strings.TrimSpace(in.CEP),
		Street:       strings.TrimSpace(in.Street),
		Number:       strings.TrimSpace(in.Number),
		Neighborhood: strings.TrimSpace(in.Neighborhood),
		City:         strings.TrimSpace(in.City),
		State:        strings.ToUpper(strings.TrimSpace(in.State)),
	}
	if err := validateLocation(location); err != nil {
		return nil, err
	}

	if err := s.locations.Create(ctx, location); err != nil {
		return nil, fmt.Errorf("create location: %w", err)
	}
	return location, nil
}

func (s *LocationService) List(ctx context.Context, owner domain.Identity, companyID int64) ([]domain.Location, error) {
	if _, err := s.companies.Get(ctx, owner, companyID); err != nil {
		return nil, err
	}

	locations, err := s.locations.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	if locations == nil {
		locations = []domain.Location{}
	}
	return locations, nil
}

// Get returns a location of a company the caller owns. A location that
// belongs to a different company is reported as not found.
func (s *LocationService) Get(ctx context.Context, owner domain.Identity, companyID, id int64) (*domain.Location, error) {
	if _, err := s.companies.Get(ctx, owner, companyID); err != nil {
		return nil, err
	}

	location, err := s.locations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if location.CompanyID != companyID {
		return nil, fmt.Errorf("location: %w", domain.ErrNotFound)
	}
	return location, nil
}

func (s *LocationService) Update(ctx context.Context, owner domain.Identity, companyID, id int64, patch LocationPatch) (*domain.Location, error) {
	location, err := s.Get(ctx, owner, companyID, id)
	if err != nil {
		return nil, err
	}

	apply := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	apply(&location.Name, patch.Name)
	apply(&location.CEP, patch.CEP)
	apply(&location.Street, patch.Street)
	apply(&location.Number, patch.Number)
	apply(&location.Neighborhood, patch.Neighborhood)
	apply(&location.City, patch.City)
	apply(&location.State, patch.State)
	location.State = strings.ToUpper(location.State)

	if err := validateLocation(location); err != nil {
		return nil, err
	}

	if err := s.locations.Update(ctx, location); err != nil {
		return nil, fmt.Errorf("update location: %w", err)
	}
	return location, nil
}

func (s *LocationService) Delete(ctx context.Context, owner domain.Identity, companyID, id int64) error {
	if _, err := s.Get(ctx, owner, companyID, id); err != nil {
		return err
	}
	return s.locations.Delete(ctx, id)
}

func validateLocation(l *domain.Location) error {
	switch {
	case blank(l.Name):
		return fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	case !isDigits(l.CEP, 8):
		return fmt.Errorf("%w: cep must be exactly 8 digits", domain.ErrInvalidInput)
	case blank(l.Street):
		return fmt.Errorf("%w: street is required", domain.ErrInvalidInput)
	case blank(l.Number):
		return fmt.Errorf("%w: number is required", domain.ErrInvalidInput)
	case blank(l.Neighborhood):
		return fmt.Errorf("%w: neighborhood is required", domain.ErrInvalidInput)
	case blank(l.City):
		return fmt.Errorf("%w: city is required", domain.ErrInvalidInput)
	case !isLetters(l.State, 2):
		return fmt.Errorf("%w: state must be a two-letter code", domain.ErrInvalidInput)
	}
	return nil
}
