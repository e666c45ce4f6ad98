package vessel

import (
	"context"

	"github.com/abakymuk/DriverOS/internal/api"
)

type Repository interface {
	Create(ctx context.Context, req CreateRequest) (*Vessel, error)
	GetByID(ctx context.Context, id string) (*Vessel, error)
	List(ctx context.Context, f ListFilter, q api.PageQuery) ([]Vessel, int, error)
	ListActive(ctx context.Context, terminalID string) ([]Vessel, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Vessel, error)
	UpdateStatus(ctx context.Context, id, status string) (*Vessel, error)
	SoftDelete(ctx context.Context, id string) error
	ContainerCounts(ctx context.Context, id string) (*ContainerCounts, error)
	CreateSchedule(ctx context.Context, s Schedule) (*Schedule, error)
	ListSchedules(ctx context.Context, vesselID string) ([]Schedule, error)
}
