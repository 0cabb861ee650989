package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msomdec/hublocal-manager/internal/domain"
)

func TestLocationRepository_Create(t *testing.T) {
	mock := newMock(t)
	repo := NewLocationRepository(mock)
	now := time.Now().UTC()

	mock.ExpectQuery("INSERT INTO locations").
		WithArgs(int64(3), "HQ", "01001000", "Praca da Se", "1", "Se", "Sao Paulo", "SP").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(int64(11), now, now))

	loc := &domain.Location{
		CompanyID: 3, Name: "HQ", CEP: "01001000", Street: "Praca da Se", Number: "1",
		Neighborhood: "Se", City: "Sao Paulo", State: "SP",
	}
	require.NoError(t, repo.Create(context.Background(), loc))
	assert.Equal(t, int64(11), loc.ID)
}

func TestLocationRepository_ListByCompany(t *testing.T) {
	mock := newMock(t)
	repo := NewLocationRepository(mock)
	now := time.Now().UTC()

	cols := []string{"id", "company_id", "name", "cep", "street", "number", "neighborhood", "city", "state", "created_at", "updated_at"}
	mock.ExpectQuery("FROM locations").
		WithArgs(int64(3)).
		WillReturnRows(pgxmock.NewRows(cols).
			AddRow(int64(11), int64(3), "HQ", "01001000", "Praca da Se", "1", "Se", "Sao Paulo", "SP", now, now))

	locations, err := repo.ListByCompany(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, locations, 1)
	assert.Equal(t, "SP", locations[0].State)
}

func TestLocationRepository_GetByID_NotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewLocationRepository(mock)

	mock.ExpectQuery("FROM locations").
		WithArgs(int64(404)).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLocationRepository_Delete_Missing(t *testing.T) {
	mock := newMock(t)
	repo := NewLocationRepository(mock)

	mock.ExpectExec("DELETE FROM locations").
		WithArgs(int64(404)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), 404), domain.ErrNotFound)
}
