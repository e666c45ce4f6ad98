package booking

import (
	"context"

	"github.com/abakymuk/DriverOS/internal/slot"
)

type Repository interface {
	// Reserve takes a unit of the slot's capacity and records b in one
	// transaction. b.ID and timestamps are filled in on success.
	Reserve(ctx context.Context, b *Booking) (*slot.Slot, error)
	// Release voids a confirmed booking of slotID and returns its capacity.
	Release(ctx context.Context, slotID, bookingID string) (*Booking, *slot.Slot, error)
	ListBySlot(ctx context.Context, slotID string) ([]BookingWithDetails, error)
}
