package terminal

import (
	"context"

	"github.com/abakymuk/DriverOS/internal/api"
)

type Repository interface {
	Create(ctx context.Context, req CreateRequest) (*Terminal, error)
	GetByID(ctx context.Context, id string) (*Terminal, error)
	GetByCode(ctx context.Context, code string) (*Terminal, error)
	List(ctx context.Context, f ListFilter, q api.PageQuery) ([]Terminal, int, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Terminal, error)
	SoftDelete(ctx context.Context, id string) error
	CountContainers(ctx context.Context, id string) (int, error)
	GetSettings(ctx context.Context, id string) (*Settings, error)
	UpsertSettings(ctx context.Context, s Settings) (*Settings, error)
}
