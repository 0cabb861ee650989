package domain

import (
	"context"
	"time"
)

// Location is a branch address of a Company. Its owner is the company's owner.
type Location struct {
	ID           int64
	CompanyID    int64
	Name         string
	CEP          string // Brazilian postal code, 8 digits
	Street       string
	Number       string
	Neighborhood string
	City         string
	State        string // Two-letter state code
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type LocationRepository interface {
	Create(ctx context.Context, location *Location) error
	GetByID(ctx context.Context, id int64) (*Location, error)
	ListByCompany(ctx context.Context, companyID int64) ([]Location, error)
	Update(ctx context.Context, location *Location) error
	Delete(ctx context.Context, id int64) error
}
