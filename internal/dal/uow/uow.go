package uow

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pharmarun/dispatch/internal/dal/interfaces/idriverrepo"
	"github.com/pharmarun/dispatch/internal/dal/interfaces/iidentifierrepo"
	"github.com/pharmarun/dispatch/internal/dal/interfaces/iorderrepo"
	"github.com/pharmarun/dispatch/internal/dal/interfaces/itrackingrepo"
	"github.com/pharmarun/dispatch/internal/dal/postgres"
	driverrepo "github.com/pharmarun/dispatch/internal/dal/repositories/driver/postgres"
	identifierrepo "github.com/pharmarun/dispatch/internal/dal/repositories/identifier/postgres"
	orderrepo "github.com/pharmarun/dispatch/internal/dal/repositories/order/postgres"
	trackingrepo "github.com/pharmarun/dispatch/internal/dal/repositories/tracking/postgres"
)

// unitOfWork scopes the order, tracking, driver and identifier repositories
// to one transaction so a status transition lands atomically or not at all.
type unitOfWork struct {
	pool           *pgxpool.Pool
	tx             pgx.Tx
	orderRepo      iorderrepo.IOrderRepository
	trackingRepo   itrackingrepo.ITrackingRepository
	driverRepo     idriverrepo.IDriverRepository
	identifierRepo iidentifierrepo.IIdentifierRepository
}

func (u *unitOfWork) OrderRepository() iorderrepo.IOrderRepository {
	return u.orderRepo
}

func (u *unitOfWork) TrackingRepository() itrackingrepo.ITrackingRepository {
	return u.trackingRepo
}

func (u *unitOfWork) DriverRepository() idriverrepo.IDriverRepository {
	return u.driverRepo
}

func (u *unitOfWork) IdentifierRepository() iidentifierrepo.IIdentifierRepository {
	return u.identifierRepo
}

func NewUnitOfWork(client *postgres.Client) *unitOfWork {
	return &unitOfWork{
		pool:           client.Pool(),
		orderRepo:      orderrepo.NewPostgresOrderRepository(client.Pool()),
		trackingRepo:   trackingrepo.NewPostgresTrackingRepository(client.Pool()),
		driverRepo:     driverrepo.NewDriverRepository(client.Pool()),
		identifierRepo: identifierrepo.NewIdentifierRepository(client.Pool()),
	}
}

func (u *unitOfWork) Begin(ctx context.Context) error {
	tx, err := u.pool.Begin(ctx)
	if err != nil {
		return err
	}

	u.tx = tx
	u.orderRepo = orderrepo.NewPostgresOrderRepository(tx)
	u.trackingRepo = trackingrepo.NewPostgresTrackingRepository(tx)
	u.driverRepo = driverrepo.NewDriverRepository(tx)
	u.identifierRepo = identifierrepo.NewIdentifierRepository(tx)

	return nil
}

func (u *unitOfWork) Commit(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}
	return u.tx.Commit(ctx)
}

func (u *unitOfWork) Rollback(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}
	return u.tx.Rollback(ctx)
}
