package trip

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/abakymuk/DriverOS/internal/api"
	"github.com/abakymuk/DriverOS/internal/container"
	"github.com/abakymuk/DriverOS/internal/driver"
	"github.com/abakymuk/DriverOS/internal/events"
	"github.com/abakymuk/DriverOS/internal/slot"
)

type DriverFinder interface {
	GetByID(ctx context.Context, id string) (*driver.Driver, error)
}

type ContainerFinder interface {
	GetByID(ctx context.Context, id string) (*container.Container, error)
}

type SlotFinder interface {
	GetByID(ctx context.Context, id string) (*slot.Slot, error)
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Trip, error)
	GetByID(ctx context.Context, id string) (*Trip, error)
	List(ctx context.Context, f ListFilter, q api.PageQuery) (api.Page[Trip], error)
	ListActive(ctx context.Context) ([]Trip, error)
	ListCompleted(ctx context.Context) ([]Trip, error)
	ListByDriver(ctx context.Context, driverID string) ([]Trip, error)
	ListByContainer(ctx context.Context, containerID string) ([]Trip, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Trip, error)
	UpdateStatus(ctx context.Context, id, status string) (*Trip, error)
	Delete(ctx context.Context, id string) error
	AddEvent(ctx context.Context, id string, req EventRequest) (*Event, error)
	Events(ctx context.Context, id string) ([]Event, error)
	UpdateMetrics(ctx context.Context, id string, req MetricsRequest) (*Metrics, error)
	TurnTime(ctx context.Context, id string) (*TurnTimeResponse, error)
	Statistics(ctx context.Context) (*Statistics, error)
	DriverPerformance(ctx context.Context, driverID string) (*DriverPerformance, error)
}

type service struct {
	repo       Repository
	drivers    DriverFinder
	containers ContainerFinder
	slots      SlotFinder
	publisher  events.Publisher
	now        func() time.Time
}

func NewService(repo Repository, drivers DriverFinder, containers ContainerFinder, slots SlotFinder, publisher events.Publisher) Service {
	return &service{
		repo:       repo,
		drivers:    drivers,
		containers: containers,
		slots:      slots,
		publisher:  publisher,
		now:        time.Now,
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Trip, error) {
	if err := s.checkRefs(ctx, &req.DriverID, &req.ContainerID, req.PickupSlotID); err != nil {
		return nil, err
	}

	t, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, err
	}

	events.Emit(ctx, s.publisher, events.New(events.TripAssigned, events.ChannelTrips, t.ID, map[string]any{
		"driverId":    t.DriverID,
		"containerId": t.ContainerID,
	}))
	return t, nil
}

// checkRefs verifies each non-nil reference points at a live row.
func (s *service) checkRefs(ctx context.Context, driverID, containerID, slotID *string) error {
	if driverID != nil {
		if _, err := s.drivers.GetByID(ctx, *driverID); err != nil {
			return err
		}
	}
	if containerID != nil {
		if _, err := s.containers.GetByID(ctx, *containerID); err != nil {
			return err
		}
	}
	if slotID != nil {
		if _, err := s.slots.GetByID(ctx, *slotID); err != nil {
			return err
		}
	}
	return nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Trip, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, f ListFilter, q api.PageQuery) (api.Page[Trip], error) {
	trips, total, err := s.repo.List(ctx, f, q)
	if err != nil {
		return api.Page[Trip]{}, err
	}
	return api.NewPage(trips, total, q), nil
}

func (s *service) ListActive(ctx context.Context) ([]Trip, error) {
	return s.repo.ListByStatus(ctx, ActiveStatuses...)
}

func (s *service) ListCompleted(ctx context.Context) ([]Trip, error) {
	return s.repo.ListByStatus(ctx, FinishedStatuses...)
}

func (s *service) ListByDriver(ctx context.Context, driverID string) ([]Trip, error) {
	if _, err := s.drivers.GetByID(ctx, driverID); err != nil {
		return nil, err
	}
	return s.repo.ListByDriver(ctx, driverID)
}

func (s *service) ListByContainer(ctx context.Context, containerID string) ([]Trip, error) {
	if _, err := s.containers.GetByID(ctx, containerID); err != nil {
		return nil, err
	}
	return s.repo.ListByContainer(ctx, containerID)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Trip, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	driverID, containerID, slotID := req.DriverID, req.ContainerID, req.PickupSlotID
	if driverID != nil && *driverID == current.DriverID {
		driverID = nil
	}
	if containerID != nil && *containerID == current.ContainerID {
		containerID = nil
	}
	if slotID != nil && current.PickupSlotID != nil && *slotID == *current.PickupSlotID {
		slotID = nil
	}
	if err := s.checkRefs(ctx, driverID, containerID, slotID); err != nil {
		return nil, err
	}

	return s.repo.Update(ctx, id, req)
}

func (s *service) UpdateStatus(ctx context.Context, id, status string) (*Trip, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	previous := t.Status
	t.Transition(status, s.now().UTC())

	saved, err := s.repo.SaveProgress(ctx, t)
	if err != nil {
		return nil, err
	}

	if previous != status {
		if evType, ok := statusEvents[status]; ok {
			meta := map[string]any{"driverId": saved.DriverID, "status": status}
			if saved.TurnMinutes != nil {
				meta["turnMinutes"] = *saved.TurnMinutes
			}
			events.Emit(ctx, s.publisher, events.New(evType, events.ChannelTrips, saved.ID, meta))
		}
	}
	return saved, nil
}

var statusEvents = map[string]events.Type{
	StatusStarted:   events.TripStarted,
	StatusCompleted: events.TripCompleted,
	StatusFailed:    events.TripFailed,
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.repo.SoftDelete(ctx, id)
}

func (s *service) AddEvent(ctx context.Context, id string, req EventRequest) (*Event, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	e := Event{TripID: id, Type: req.Type, Timestamp: s.now().UTC()}
	if req.Timestamp != nil {
		e.Timestamp = req.Timestamp.UTC()
	}
	var err error
	if e.Location, err = marshalOptional(req.Location); err != nil {
		return nil, err
	}
	if e.Metadata, err = marshalOptional(req.Metadata); err != nil {
		return nil, err
	}

	return s.repo.AddEvent(ctx, e)
}

func marshalOptional(v map[string]any) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode trip event payload: %w", err)
	}
	return b, nil
}

func (s *service) Events(ctx context.Context, id string) ([]Event, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.ListEvents(ctx, id)
}

func (s *service) UpdateMetrics(ctx context.Context, id string, req MetricsRequest) (*Metrics, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.UpsertMetrics(ctx, Metrics{
		TripID:            id,
		TotalDistance:     req.TotalDistance,
		EstimatedDuration: req.EstimatedDuration,
		ActualDuration:    req.ActualDuration,
		FuelConsumption:   req.FuelConsumption,
		CarbonFootprint:   req.CarbonFootprint,
	})
}

// TurnTime reports nil minutes until the trip has both started and finished.
func (s *service) TurnTime(ctx context.Context, id string) (*TurnTimeResponse, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &TurnTimeResponse{
		TripID:      t.ID,
		StartedAt:   t.StartedAt,
		CompletedAt: t.CompletedAt,
		Minutes:     t.TurnTime(),
	}, nil
}

func (s *service) Statistics(ctx context.Context) (*Statistics, error) {
	return s.repo.Statistics(ctx)
}

func (s *service) DriverPerformance(ctx context.Context, driverID string) (*DriverPerformance, error) {
	if _, err := s.drivers.GetByID(ctx, driverID); err != nil {
		return nil, err
	}
	return s.repo.DriverPerformance(ctx, driverID)
}
