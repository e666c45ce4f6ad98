package slot

import (
	"context"
	"time"

	"github.com/abakymuk/DriverOS/internal/api"
)

type Repository interface {
	Create(ctx context.Context, s Slot) (*Slot, error)
	// CreateMany inserts slots, skipping windows that already exist.
	CreateMany(ctx context.Context, slots []Slot) ([]Slot, error)
	GetByID(ctx context.Context, id string) (*Slot, error)
	WindowTaken(ctx context.Context, terminalID string, start, end time.Time, exceptID string) (bool, error)
	List(ctx context.Context, f ListFilter, q api.PageQuery) ([]Slot, int, error)
	ListAvailable(ctx context.Context, terminalID string, from, to time.Time) ([]Slot, error)
	ListBetween(ctx context.Context, terminalID string, from, to time.Time) ([]Slot, error)
	// Mutate loads the slot under a row lock, applies fn and saves the
	// result in the same transaction.
	Mutate(ctx context.Context, id string, fn func(*Slot) error) (*Slot, error)
	// SoftDelete removes a slot that holds no bookings.
	SoftDelete(ctx context.Context, id string) error
	Statistics(ctx context.Context, terminalID string) (*Statistics, error)
}
