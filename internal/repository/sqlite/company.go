package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/msomdec/hublocal-manager/internal/domain"
)

// companyRepo implements domain.CompanyRepository using SQLite.
type companyRepo struct {
	db *sql.DB
}

const companyColumns = `c.id, c.user_id, c.name, c.cnpj, c.website, c.logo_url,
	(SELECT COUNT(*) FROM locations l WHERE l.company_id = c.id),
	c.created_at, c.updated_at`

func scanCompany(row interface{ Scan(...any) error }, c *domain.Company) error {
	return row.Scan(&c.ID, &c.UserID, &c.Name, &c.CNPJ, &c.Website, &c.LogoURL,
		&c.LocationsCount, &c.CreatedAt, &c.UpdatedAt)
}

func (r *companyRepo) Create(ctx context.Context, company *domain.Company) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO companies (user_id, name, cnpj, website, logo_url, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		company.UserID, company.Name, company.CNPJ, company.Website, company.LogoURL, now, now,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return domain.ErrDuplicateCNPJ
		}
		return fmt.Errorf("insert company: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get company id: %w", err)
	}

	company.ID = id
	company.LocationsCount = 0
	company.CreatedAt = now
	company.UpdatedAt = now
	return nil
}

func (r *companyRepo) GetByID(ctx context.Context, id int64) (*domain.Company, error) {
	c := &domain.Company{}
	err := scanCompany(r.db.QueryRowContext(ctx,
		`SELECT `+companyColumns+` FROM companies c WHERE c.id = ?`, id), c)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	return c, nil
}

func (r *companyRepo) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Company, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+companyColumns+` FROM companies c
		 WHERE c.user_id = ? ORDER BY c.id ASC LIMIT ? OFFSET ?`, userID, limit, offset)
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

func (r *companyRepo) CountByUser(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM companies WHERE user_id = ?", userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count companies: %w", err)
	}
	return count, nil
}

func (r *companyRepo) Update(ctx context.Context, company *domain.Company) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE companies SET name = ?, cnpj = ?, website = ?, logo_url = ?, updated_at = ?
		 WHERE id = ?`,
		company.Name, company.CNPJ, company.Website, company.LogoURL, now, company.ID,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return domain.ErrDuplicateCNPJ
		}
		return fmt.Errorf("update company: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}

	company.UpdatedAt = now
	return nil
}

// Delete removes the company; its locations go with it via ON DELETE CASCADE.
func (r *companyRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM companies WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete company: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
