// Package events carries real time domain notifications to dashboards and
// downstream consumers.
package events

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/abakymuk/DriverOS/internal/logger"
)

type Type string

const (
	VesselArrival  Type = "VESSEL_ARRIVAL"
	ContainerReady Type = "CNTR_READY"
	HoldAdded      Type = "HOLD_ADDED"
	HoldRemoved    Type = "HOLD_REMOVED"
	TripAssigned   Type = "TRIP_ASSIGNED"
	TripStarted    Type = "TRIP_STARTED"
	TripCompleted  Type = "TRIP_COMPLETED"
	TripFailed     Type = "TRIP_FAILED"
	SlotBooked     Type = "SLOT_BOOKED"
	SlotCancelled  Type = "SLOT_CANCELLED"
)

// Channels group events by the entity they describe.
const (
	ChannelSlots      = "slots"
	ChannelTrips      = "trips"
	ChannelContainers = "containers"
	ChannelVessels    = "vessels"
)

type Event struct {
	ID        string         `json:"id"`
	Type      Type           `json:"type"`
	Channel   string         `json:"channel"`
	RefID     string         `json:"refId"`
	Meta      map[string]any `json:"meta,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

func New(t Type, channel, refID string, meta map[string]any) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      t,
		Channel:   channel,
		RefID:     refID,
		Meta:      meta,
		CreatedAt: time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Emit publishes ev and only logs failures. Events go out after the
// state change has committed, so a broker outage must not fail the request.
func Emit(ctx context.Context, p Publisher, ev Event) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, ev); err != nil {
		logger.Warn("event publish failed",
			"type", string(ev.Type),
			"ref_id", ev.RefID,
			"error", err.Error(),
		)
	}
}

// Multi fans an event out to every publisher, returning the joined errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, ev Event) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
