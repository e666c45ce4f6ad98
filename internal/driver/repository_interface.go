package driver

import (
	"context"
	"time"

	"github.com/abakymuk/DriverOS/internal/api"
)

type Repository interface {
	Create(ctx context.Context, req CreateRequest) (*Driver, error)
	GetByID(ctx context.Context, id string) (*Driver, error)
	LicenseTaken(ctx context.Context, license, exceptID string) (bool, error)
	List(ctx context.Context, f ListFilter, q api.PageQuery) ([]Driver, int, error)
	ListAvailable(ctx context.Context, date time.Time) ([]Driver, error)
	ListByStatus(ctx context.Context, statuses ...string) ([]Driver, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Driver, error)
	UpdateStatus(ctx context.Context, id, status string) (*Driver, error)
	SoftDelete(ctx context.Context, id string) error
	AddAvailability(ctx context.Context, a Availability) (*Availability, error)
	ListAvailability(ctx context.Context, driverID string, from time.Time) ([]Availability, error)
}
