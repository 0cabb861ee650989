package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/msomdec/hublocal-manager/internal/domain"
	"github.com/msomdec/hublocal-manager/internal/repository/sqlite/migrations"
	_ "modernc.org/sqlite"
)

var _ domain.Database = (*DB)(nil)

// DB is the SQLite implementation of domain.Database.
type DB struct {
	SqlDB *sql.DB

	users     *UserRepository
	companies *companyRepo
	locations *locationRepo
}

// New opens a SQLite database at the given path and configures it for use.
// It enables WAL mode and foreign keys.
func New(dbPath string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := sqlDB.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	// Enable foreign key enforcement; company deletes cascade to locations.
	if _, err := sqlDB.ExecContext(context.Background(), "PRAGMA foreign_keys=ON"); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	// SQLite allows one writer; a single connection also keeps the PRAGMAs in effect.
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.PingContext(context.Background()); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	db := &DB{SqlDB: sqlDB}
	db.users = &UserRepository{db: sqlDB}
	db.companies = &companyRepo{db: sqlDB}
	db.locations = &locationRepo{db: sqlDB}
	return db, nil
}

func (db *DB) Migrate(ctx context.Context) error {
	return migrations.Run(ctx, db.SqlDB)
}

func (db *DB) Ping(ctx context.Context) error {
	return db.SqlDB.PingContext(ctx)
}

func (db *DB) Close() error {
	return db.SqlDB.Close()
}

func (db *DB) Users() domain.UserRepository         { return db.users }
func (db *DB) Companies() domain.CompanyRepository { return db.companies }
func (db *DB) Locations() domain.LocationRepository { return db.locations }

// isUniqueConstraintError checks if the error is a SQLite unique constraint violation.
func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
