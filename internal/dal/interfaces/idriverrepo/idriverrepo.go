package idriverrepo

import (
	"context"

	"github.com/pharmarun/dispatch/internal/service/models/driver"
)

// IDriverRepository is an interface for the driver profile repository.
type IDriverRepository interface {
	// GetByID returns one driver or driver.ErrDriverNotFound.
	GetByID(ctx context.Context, id int64) (*driver.Driver, error)
}
