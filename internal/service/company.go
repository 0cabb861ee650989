package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/msomdec/hublocal-manager/internal/domain"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100

	// MaxPageNumber keeps the row offset within int.
	MaxPageNumber = math.MaxInt / MaxPageSize
)

// Page selects a 1-based page of a list.
type Page struct {
	Number int
	Size   int
}

// normalize fills in defaults for zero values and rejects a page number or
// size outside the supported range.
func (p Page) normalize() (Page, error) {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Size < 1 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		return Page{}, fmt.Errorf("%w: limit must be at most %d", domain.ErrInvalidInput, MaxPageSize)
	}
	if p.Number > MaxPageNumber {
		return Page{}, fmt.Errorf("%w: page must be at most %d", domain.ErrInvalidInput, MaxPageNumber)
	}
	return p, nil
}

func (p Page) offset() int {
	return (p.Number - 1) * p.Size
}

// CompanyInput carries the fields of a new company.
type CompanyInput struct {
	Name    string
	CNPJ    string
	Website string
	LogoURL string
}

// CompanyPatch carries a partial update; nil fields are left unchanged.
type CompanyPatch struct {
	Name    *string
	CNPJ    *string
	Website *string
	LogoURL *string
}

// CompanyList is one page of a user's companies plus their total count.
type CompanyList struct {
	Companies []domain.Company
	Count     int
}

// CompanyService handles company CRUD scoped to the owning user.
type CompanyService struct {
	companies domain.CompanyRepository
	guard     *OwnershipGuard
}

// NewCompanyService creates a new CompanyService.
func NewCompanyService(companies domain.CompanyRepository, guard *OwnershipGuard) *CompanyService {
	return &CompanyService{companies: companies, guard: guard}
}

// Create validates the input and stores a company owned by the caller.
func (s *CompanyService) Create(ctx context.Context, owner domain.Identity, in CompanyInput) (*domain.Company, error) {
	company := &domain.Company{
		UserID:  owner.ID,
		Name:    strings.TrimSpace(in.Name),
		CNPJ:    in.CNPJ,
		Website: in.Website,
		LogoURL: in.LogoURL,
	}
	if err := validateCompany(company); err != nil {
		return nil, err
	}

	if err := s.companies.Create(ctx, company); err != nil {
		return nil, fmt.Errorf("create company: %w", err)
	}
	return company, nil
}

// Get returns a company the caller owns.
func (s *CompanyService) Get(ctx context.Context, owner domain.Identity, id int64) (*domain.Company, error) {
	company, err := s.companies.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Require(owner, company.UserID, "company"); err != nil {
		return nil, err
	}
	return company, nil
}

// List returns one page of the caller's companies.
func (s *CompanyService) List(ctx context.Context, owner domain.Identity, page Page) (*CompanyList, error) {
	page, err := page.normalize()
	if err != nil {
		return nil, err
	}

	companies, err := s.companies.ListByUser(ctx, owner.ID, page.Size, page.offset())
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	count, err := s.companies.CountByUser(ctx, owner.ID)
	if err != nil {
		return nil, fmt.Errorf("count companies: %w", err)
	}

	if companies == nil {
		companies = []domain.Company{}
	}
	return &CompanyList{Companies: companies, Count: count}, nil
}

// Update applies a partial update to a company the caller owns.
func (s *CompanyService) Update(ctx context.Context, owner domain.Identity, id int64, patch CompanyPatch) (*domain.Company, error) {
	company, err := s.Get(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		company.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.CNPJ != nil {
		company.CNPJ = *patch.CNPJ
	}
	if patch.Website != nil {
		company.Website = *patch.Website
	}
	if patch.LogoURL != nil {
		company.LogoURL = *patch.LogoURL
	}

	if err := validateCompany(company); err != nil {
		return nil, err
	}

	if err := s.companies.Update(ctx, company); err != nil {
		return nil, fmt.Errorf("update company: %w", err)
	}
	return company, nil
}

// Delete removes a company the caller owns, along with its locations.
func (s *CompanyService) Delete(ctx context.Context, owner domain.Identity, id int64) error {
	if _, err := s.Get(ctx, owner, id); err != nil {
		return err
	}
	return s.companies.Delete(ctx, id)
}

func validateCompany(c *domain.Company) error {
	if !runeLenBetween(c.Name, 2, 100) {
		return fmt.Errorf("%w: name must be between 2 and 100 characters", domain.ErrInvalidInput)
	}
	if !isDigits(c.CNPJ, 14) {
		return fmt.Errorf("%w: cnpj must be exactly 14 digits", domain.ErrInvalidInput)
	}
	if !validURL(c.Website) {
		return fmt.Errorf("%w: website must be an http or https URL", domain.ErrInvalidInput)
	}
	if !validURL(c.LogoURL) {
		return fmt.Errorf("%w: logo url must be an http or https URL", domain.ErrInvalidInput)
	}
	return nil
}
