package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/msomdec/hublocal-manager/internal/domain"
)

// locationRepo implements domain.LocationRepository using SQLite.
type locationRepo struct {
	db *sql.DB
}

const locationColumns = `id, company_id, name, cep, street, number, neighborhood, city, state, created_at, updated_at`

func scanLocation(row interface{ Scan(...any) error }, l *domain.Location) error {
	return row.Scan(&l.ID, &l.CompanyID, &l.Name, &l.CEP, &l.Street, &l.Number,
		&l.Neighborhood, &l.City, &l.State, &l.CreatedAt, &l.UpdatedAt)
}

func (r *locationRepo) Create(ctx context.Context, location *domain.Location) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO locations (company_id, name, cep, street, number, neighborhood, city, state, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		location.CompanyID, location.Name, location.CEP, location.Street, location.Number,
		location.Neighborhood, location.City, location.State, now, now,
	)
	if err != nil {
		return fmt.Errorf("insert location: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get location id: %w", err)
	}

	location.ID = id
	location.CreatedAt = now
	location.UpdatedAt = now
	return nil
}

func (r *locationRepo) GetByID(ctx context.Context, id int64) (*domain.Location, error) {
	l := &domain.Location{}
	err := scanLocation(r.db.QueryRowContext(ctx,
		`SELECT `+locationColumns+` FROM locations WHERE id = ?`, id), l)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get location: %w", err)
	}
	return l, nil
}

func (r *locationRepo) ListByCompany(ctx context.Context, companyID int64) ([]domain.Location, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+locationColumns+` FROM locations WHERE company_id = ? ORDER BY id ASC`, companyID)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()

	var locations []domain.Location
	for rows.Next() {
		var l domain.Location
		if err := scanLocation(rows, &l); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		locations = append(locations, l)
	}
	return locations, rows.Err()
}

func (r *locationRepo) Update(ctx context.Context, location *domain.Location) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE locations SET name = ?, cep = ?, street = ?, number = ?, neighborhood = ?, city = ?, state = ?, updated_at = ?
		 WHERE id = ?`,
		location.Name, location.CEP, location.Street, location.Number,
		location.Neighborhood, location.City, location.State, now, location.ID,
	)
	if err != nil {
		return fmt.Errorf("update location: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}

	location.UpdatedAt = now
	return nil
}

func (r *locationRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM locations WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete location: %w", err)
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
