package vessel

import (
	"context"

	"github.com/abakymuk/DriverOS/internal/api"
	"github.com/abakymuk/DriverOS/internal/events"
	"github.com/abakymuk/DriverOS/internal/terminal"
)

// TerminalFinder is the terminal lookup vessels depend on.
type TerminalFinder interface {
	GetByID(ctx context.Context, id string) (*terminal.Terminal, error)
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Vessel, error)
	GetByID(ctx context.Context, id string) (*Vessel, error)
	List(ctx context.Context, f ListFilter, q api.PageQuery) (api.Page[Vessel], error)
	ListActive(ctx context.Context) ([]Vessel, error)
	ListActiveByTerminal(ctx context.Context, terminalID string) ([]Vessel, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Vessel, error)
	UpdateStatus(ctx context.Context, id, status string) (*Vessel, error)
	Delete(ctx context.Context, id string) error
	ContainerCounts(ctx context.Context, id string) (*ContainerCounts, error)
	AddSchedule(ctx context.Context, id string, req ScheduleRequest) (*Schedule, error)
	Schedules(ctx context.Context, id string) ([]Schedule, error)
}

type service struct {
	repo      Repository
	terminals TerminalFinder
	events    events.Publisher
}

func NewService(repo Repository, terminals TerminalFinder, publisher events.Publisher) Service {
	return &service{repo: repo, terminals: terminals, events: publisher}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Vessel, error) {
	if _, err := s.terminals.GetByID(ctx, req.TerminalID); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, req)
}

func (s *service) GetByID(ctx context.Context, id string) (*Vessel, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, f ListFilter, q api.PageQuery) (api.Page[Vessel], error) {
	vessels, total, err := s.repo.List(ctx, f, q)
	if err != nil {
		return api.Page[Vessel]{}, err
	}
	return api.NewPage(vessels, total, q), nil
}

func (s *service) ListActive(ctx context.Context) ([]Vessel, error) {
	return s.repo.ListActive(ctx, "")
}

func (s *service) ListActiveByTerminal(ctx context.Context, terminalID string) ([]Vessel, error) {
	if _, err := s.terminals.GetByID(ctx, terminalID); err != nil {
		return nil, err
	}
	return s.repo.ListActive(ctx, terminalID)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Vessel, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	if req.TerminalID != nil {
		if _, err := s.terminals.GetByID(ctx, *req.TerminalID); err != nil {
			return nil, err
		}
	}
	return s.repo.Update(ctx, id, req)
}

// UpdateStatus announces VESSEL_ARRIVAL when a vessel becomes berthed.
func (s *service) UpdateStatus(ctx context.Context, id, status string) (*Vessel, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	v, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	if status == StatusBerthed && current.Status != StatusBerthed {
		events.Emit(ctx, s.events, events.New(events.VesselArrival, events.ChannelVessels, v.ID, map[string]any{
			"name":       v.Name,
			"terminalId": v.TerminalID,
		}))
	}
	return v, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.repo.SoftDelete(ctx, id)
}

func (s *service) ContainerCounts(ctx context.Context, id string) (*ContainerCounts, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.ContainerCounts(ctx, id)
}

func (s *service) AddSchedule(ctx context.Context, id string, req ScheduleRequest) (*Schedule, error) {
	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = ScheduleScheduled
	}
	return s.repo.CreateSchedule(ctx, Schedule{
		VesselID:        v.ID,
		TerminalID:      v.TerminalID,
		ETA:             req.ETA,
		ETD:             req.ETD,
		ActualArrival:   req.ActualArrival,
		ActualDeparture: req.ActualDeparture,
		Status:          status,
	})
}

func (s *service) Schedules(ctx context.Context, id string) ([]Schedule, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.ListSchedules(ctx, id)
}
