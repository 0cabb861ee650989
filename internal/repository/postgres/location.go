package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/msomdec/hublocal-manager/internal/domain"
)

// LocationRepository implements domain.LocationRepository using PostgreSQL.
type LocationRepository struct {
	q Querier
}

func NewLocationRepository(q Querier) *LocationRepository {
	return &LocationRepository{q: q}
}

const locationSelect = `SELECT id, company_id, name, cep, street, number, neighborhood, city, state,
	created_at, updated_at
	FROM locations`

func scanLocation(row pgx.Row, l *domain.Location) error {
	return row.Scan(&l.ID, &l.CompanyID, &l.Name, &l.CEP, &l.Street, &l.Number,
		&l.Neighborhood, &l.City, &l.State, &l.CreatedAt, &l.UpdatedAt)
}

func (r *LocationRepository) Create(ctx context.Context, location *domain.Location) error {
	err := r.q.QueryRow(ctx,
		`INSERT INTO locations (company_id, name, cep, street, number, neighborhood, city, state)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at, updated_at`,
		location.CompanyID, location.Name, location.CEP, location.Street, location.Number,
		location.Neighborhood, location.City, location.State,
	).Scan(&location.ID, &location.CreatedAt, &location.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert location: %w", err)
	}
	return nil
}

func (r *LocationRepository) GetByID(ctx context.Context, id int64) (*domain.Location, error) {
	l := &domain.Location{}
	if err := scanLocation(r.q.QueryRow(ctx, locationSelect+` WHERE id = $1`, id), l); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get location: %w", err)
	}
	return l, nil
}

func (r *LocationRepository) ListByCompany(ctx context.Context, companyID int64) ([]domain.Location, error) {
	rows, err := r.q.Query(ctx, locationSelect+` WHERE company_id = $1 ORDER BY id ASC`, companyID)
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

func (r *LocationRepository) Update(ctx context.Context, location *domain.Location) error {
	err := r.q.QueryRow(ctx,
		`UPDATE locations SET name = $1, cep = $2, street = $3, number = $4, neighborhood = $5,
		 city = $6, state = $7, updated_at = now()
		 WHERE id = $8
		 RETURNING updated_at`,
		location.Name, location.CEP, location.Street, location.Number,
		location.Neighborhood, location.City, location.State, location.ID,
	).Scan(&location.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update location: %w", err)
	}
	return nil
}

func (r *LocationRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM locations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete location: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
