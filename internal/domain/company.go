package domain

import (
	"context"
	"time"
)

// Company is a tenant-owned record. UserID is the owning user.
type Company struct {
	ID             int64
	UserID         int64
	Name           string
	CNPJ           string
	Website        string
	LogoURL        string
	LocationsCount int // Read-only, computed by the repository
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type CompanyRepository interface {
	Create(ctx context.Context, company *Company) error
	GetByID(ctx context.Context, id int64) (*Company, error)
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]Company, error)
	CountByUser(ctx context.Context, userID int64) (int, error)
	Update(ctx context.Context, company *Company) error
	Delete(ctx context.Context, id int64) error
}
