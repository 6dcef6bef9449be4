package postgresrepo

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/pharmarun/dispatch/internal/dal/postgres"
	"github.com/pharmarun/dispatch/internal/service/models/driver"
)

// DriverRepository implements the driver profile repository for PostgreSQL.
type DriverRepository struct {
	conn postgres.Queryer
}

// NewDriverRepository creates a new driver repository.
func NewDriverRepository(conn postgres.Queryer) *DriverRepository {
	return &DriverRepository{
		conn: conn,
	}
}

// GetByID retrieves one driver profile.
func (r *DriverRepository) GetByID(ctx context.Context, id int64) (*driver.Driver, error) {
	query, args, err := sq.Select(
		"id",
		"display_name",
		"role",
		"phone",
		"active",
		"created_at",
	).
		From("drivers").
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	var d driver.Driver
	err = r.conn.QueryRow(ctx, query, args...).Scan(
		&d.ID,
		&d.DisplayName,
		&d.Role,
		&d.Phone,
		&d.Active,
		&d.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, driver.ErrDriverNotFound
		}

		return nil, fmt.Errorf("failed to get driver: %w", err)
	}

	return &d, nil
}
