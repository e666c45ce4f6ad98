// Package dashboard assembles the one-call summary shown on the dispatcher
// dashboard.
package dashboard

import (
	"context"
	"time"

	"github.com/abakymuk/DriverOS/internal/container"
	"github.com/abakymuk/DriverOS/internal/slot"
	"github.com/abakymuk/DriverOS/internal/terminal"
	"github.com/abakymuk/DriverOS/internal/trip"
	"github.com/abakymuk/DriverOS/internal/vessel"
)

type SlotStats interface {
	Statistics(ctx context.Context, terminalID string) (*slot.Statistics, error)
}

type ContainerStats interface {
	Statistics(ctx context.Context, terminalID string) (*container.Statistics, error)
}

type TripStats interface {
	Statistics(ctx context.Context) (*trip.Statistics, error)
}

type VesselLister interface {
	ListActive(ctx context.Context) ([]vessel.Vessel, error)
	ListActiveByTerminal(ctx context.Context, terminalID string) ([]vessel.Vessel, error)
}

type TerminalCapacity interface {
	Capacity(ctx context.Context, id string) (*terminal.CapacityReport, error)
}

type Summary struct {
	TerminalID    string                   `json:"terminalId,omitempty"`
	Slots         *slot.Statistics         `json:"slots"`
	Containers    *container.Statistics    `json:"containers"`
	Trips         *trip.Statistics         `json:"trips"`
	ActiveVessels int                      `json:"activeVessels"`
	Capacity      *terminal.CapacityReport `json:"capacity,omitempty"`
	GeneratedAt   time.Time                `json:"generatedAt"`
}

type Service struct {
	slots      SlotStats
	containers ContainerStats
	trips      TripStats
	vessels    VesselLister
	terminals  TerminalCapacity
	now        func() time.Time
}

func NewService(slots SlotStats, containers ContainerStats, trips TripStats, vessels VesselLister, terminals TerminalCapacity) *Service {
	return &Service{
		slots:      slots,
		containers: containers,
		trips:      trips,
		vessels:    vessels,
		terminals:  terminals,
		now:        time.Now,
	}
}

// Summary gathers counts across the system, or for one terminal when
// terminalID is set. Trip counts are never scoped to a terminal.
func (s *Service) Summary(ctx context.Context, terminalID string) (*Summary, error) {
	out := &Summary{TerminalID: terminalID, GeneratedAt: s.now().UTC()}

	if terminalID != "" {
		capacity, err := s.terminals.Capacity(ctx, terminalID)
		if err != nil {
			return nil, err
		}
		out.Capacity = capacity
	}

	var err error
	if out.Slots, err = s.slots.Statistics(ctx, terminalID); err != nil {
		return nil, err
	}
	if out.Containers, err = s.containers.Statistics(ctx, terminalID); err != nil {
		return nil, err
	}
	if out.Trips, err = s.trips.Statistics(ctx); err != nil {
		return nil, err
	}

	var vessels []vessel.Vessel
	if terminalID != "" {
		vessels, err = s.vessels.ListActiveByTerminal(ctx, terminalID)
	} else {
		vessels, err = s.vessels.ListActive(ctx)
	}
	if err != nil {
		return nil, err
	}
	out.ActiveVessels = len(vessels)

	return out, nil
}
