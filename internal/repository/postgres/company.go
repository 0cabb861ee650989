package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/msomdec/hublocal-manager/internal/domain"
)

// CompanyRepository implements domain.CompanyRepository using PostgreSQL.
type CompanyRepository struct {
	q Querier
}

func NewCompanyRepository(q Querier) *CompanyRepository {
	return &CompanyRepository{q: q}
}

const companySelect = `SELECT c.id, c.user_id, c.name, c.cnpj, c.website, c.logo_url,
	(SELECT COUNT(*) FROM locations l WHERE l.company_id = c.id)::int,
	c.created_at, c.updated_at
	FROM companies c`

func scanCompany(row pgx.Row, c *domain.Company) error {
	return row.Scan(&c.ID, &c.UserID, &c.Name, &c.CNPJ, &c.Website, &c.LogoURL,
		&c.LocationsCount, &c.CreatedAt, &c.UpdatedAt)
}

func (r *CompanyRepository) Create(ctx context.Context, company *domain.Company) error {
	err := r.q.QueryRow(ctx,
		`INSERT INTO companies (user_id, name, cnpj, website, logo_url)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		company.UserID, company.Name, company.CNPJ, company.Website, company.LogoURL,
	).Scan(&company.ID, &company.CreatedAt, &company.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateCNPJ
		}
		return fmt.Errorf("insert company: %w", err)
	}
	company.LocationsCount = 0
	return nil
}

func (r *CompanyRepository) GetByID(ctx context.Context, id int64) (*domain.Company, error) {
	c := &domain.Company{}
	if err := scanCompany(r.q.QueryRow(ctx, companySelect+` WHERE c.id = $1`, id), c); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	return c, nil
}

func (r *CompanyRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Company, error) {
	rows, err := r.q.Query(ctx,
		companySelect+` WHERE c.user_id = $1 ORDER BY c.id ASC LIMIT $2 OFFSET $3`,
		userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()

	var companies []domain.Company
	for rows.Next() {
		var c domain.Company
		if err := scanCompany(rows, &c); err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}

func (r *CompanyRepository) CountByUser(ctx context.Context, userID int64) (int, error) {
	var count int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM companies WHERE user_id = $1`, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count companies: %w", err)
	}
	return count, nil
}

func (r *CompanyRepository) Update(ctx context.Context, company *domain.Company) error {
	err := r.q.QueryRow(ctx,
		`UPDATE companies SET name = $1, cnpj = $2, website = $3, logo_url = $4, updated_at = now()
		 WHERE id = $5
		 RETURNING updated_at`,
		company.Name, company.CNPJ, company.Website, company.LogoURL, company.ID,
	).Scan(&company.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		if isUniqueViolation(err) {
			return domain.ErrDuplicateCNPJ
		}
		return fmt.Errorf("update company: %w", err)
	}
	return nil
}

func (r *CompanyRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM companies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete company: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
