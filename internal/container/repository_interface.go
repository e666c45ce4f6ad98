package container

import (
	"context"

	"github.com/abakymuk/DriverOS/internal/api"
)

type Repository interface {
	Create(ctx context.Context, req CreateRequest) (*Container, error)
	GetByID(ctx context.Context, id string) (*Container, error)
	GetByNumber(ctx context.Context, cntrNo string) (*Container, error)
	List(ctx context.Context, f ListFilter, q api.PageQuery) ([]Container, int, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Container, error)
	UpdateStatus(ctx context.Context, id, status string) (*Container, error)
	SoftDelete(ctx context.Context, id string) error
	Statistics(ctx context.Context, terminalID string) (*Statistics, error)

	// AddHold records the hold and flags the container as held.
	AddHold(ctx context.Context, containerID string, req HoldRequest) (*Hold, error)
	// ResolveHold closes one open hold. cleared is true when it was the
	// last one and the container went back to NOT_READY.
	ResolveHold(ctx context.Context, containerID, holdID string) (hold *Hold, cleared bool, err error)
	ListHolds(ctx context.Context, containerID string) ([]Hold, error)
}
