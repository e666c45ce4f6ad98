package trip

import (
	"context"

	"github.com/abakymuk/DriverOS/internal/api"
)

type Repository interface {
	Create(ctx context.Context, req CreateRequest) (*Trip, error)
	GetByID(ctx context.Context, id string) (*Trip, error)
	List(ctx context.Context, f ListFilter, q api.PageQuery) ([]Trip, int, error)
	ListByStatus(ctx context.Context, statuses ...string) ([]Trip, error)
	ListByDriver(ctx context.Context, driverID string) ([]Trip, error)
	ListByContainer(ctx context.Context, containerID string) ([]Trip, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Trip, error)
	// SaveProgress writes status, startedAt, completedAt and turnMinutes.
	SaveProgress(ctx context.Context, t *Trip) (*Trip, error)
	SoftDelete(ctx context.Context, id string) error
	AddEvent(ctx context.Context, e Event) (*Event, error)
	ListEvents(ctx context.Context, tripID string) ([]Event, error)
	UpsertMetrics(ctx context.Context, m Metrics) (*Metrics, error)
	Statistics(ctx context.Context) (*Statistics, error)
	DriverPerformance(ctx context.Context, driverID string) (*DriverPerformance, error)
}
