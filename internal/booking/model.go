package booking

import (
	"time"

	"github.com/abakymuk/DriverOS/internal/slot"
)

const (
	StatusConfirmed = "CONFIRMED"
	StatusCancelled = "CANCELLED"
)

// Booking ties one trip, its driver and container to a slot. Cancelled
// bookings are kept for audit.
type Booking struct {
	ID          string     `db:"id" json:"id"`
	SlotID      string     `db:"slot_id" json:"slotId"`
	TripID      string     `db:"trip_id" json:"tripId"`
	DriverID    string     `db:"driver_id" json:"driverId"`
	ContainerID string     `db:"container_id" json:"containerId"`
	Status      string     `db:"status" json:"status"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updatedAt"`
	CancelledAt *time.Time `db:"cancelled_at" json:"cancelledAt,omitempty"`
}

type BookingWithDetails struct {
	Booking
	DriverName string `db:"driver_name" json:"driverName"`
	CntrNo     string `db:"cntr_no" json:"cntrNo"`
}

type BookRequest struct {
	TripID      string `json:"tripId" binding:"required,uuid"`
	DriverID    string `json:"driverId" binding:"required,uuid"`
	ContainerID string `json:"containerId" binding:"required,uuid"`
}

// Result is returned by book and cancel so callers see the slot occupancy
// the change produced.
type Result struct {
	Booking *Booking   `json:"booking"`
	Slot    *slot.Slot `json:"slot"`
}
