package container

import (
	"context"

	"github.com/abakymuk/DriverOS/internal/api"
	"github.com/abakymuk/DriverOS/internal/apperror"
	"github.com/abakymuk/DriverOS/internal/events"
	"github.com/abakymuk/DriverOS/internal/terminal"
	"github.com/abakymuk/DriverOS/internal/vessel"
)

type TerminalFinder interface {
	GetByID(ctx context.Context, id string) (*terminal.Terminal, error)
}

type VesselFinder interface {
	GetByID(ctx context.Context, id string) (*vessel.Vessel, error)
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Container, error)
	GetByID(ctx context.Context, id string) (*Container, error)
	GetByNumber(ctx context.Context, cntrNo string) (*Container, error)
	List(ctx context.Context, f ListFilter, q api.PageQuery) (api.Page[Container], error)
	ListByVessel(ctx context.Context, vesselID string, q api.PageQuery) (api.Page[Container], error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Container, error)
	UpdateStatus(ctx context.Context, id, status string) (*Container, error)
	Delete(ctx context.Context, id string) error
	Statistics(ctx context.Context, terminalID string) (*Statistics, error)
	AddHold(ctx context.Context, id string, req HoldRequest) (*Hold, error)
	ResolveHold(ctx context.Context, id, holdID string) (*Hold, error)
	Holds(ctx context.Context, id string) ([]Hold, error)
}

type service struct {
	repo      Repository
	terminals TerminalFinder
	vessels   VesselFinder
	events    events.Publisher
}

func NewService(repo Repository, terminals TerminalFinder, vessels VesselFinder, publisher events.Publisher) Service {
	return &service{repo: repo, terminals: terminals, vessels: vessels, events: publisher}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Container, error) {
	req.CntrNo = NormalizeNumber(req.CntrNo)
	if !ValidNumber(req.CntrNo) {
		return nil, apperror.Invalid("%s is not a valid ISO 6346 container number", req.CntrNo)
	}

	if err := s.checkRefs(ctx, &req.TerminalID, req.VesselID); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetByNumber(ctx, req.CntrNo); err == nil {
		return nil, apperror.Conflict("container %s already exists", req.CntrNo)
	} else if !apperror.IsNotFound(err) {
		return nil, err
	}

	return s.repo.Create(ctx, req)
}

func (s *service) GetByID(ctx context.Context, id string) (*Container, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetByNumber(ctx context.Context, cntrNo string) (*Container, error) {
	return s.repo.GetByNumber(ctx, NormalizeNumber(cntrNo))
}

func (s *service) List(ctx context.Context, f ListFilter, q api.PageQuery) (api.Page[Container], error) {
	containers, total, err := s.repo.List(ctx, f, q)
	if err != nil {
		return api.Page[Container]{}, err
	}
	return api.NewPage(containers, total, q), nil
}

func (s *service) ListByVessel(ctx context.Context, vesselID string, q api.PageQuery) (api.Page[Container], error) {
	if _, err := s.vessels.GetByID(ctx, vesselID); err != nil {
		return api.Page[Container]{}, err
	}
	return s.List(ctx, ListFilter{VesselID: vesselID}, q)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Container, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	if err := s.checkRefs(ctx, req.TerminalID, req.VesselID); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, req)
}

// UpdateStatus refuses to move a held container. Holds are lifted only by
// resolving them.
func (s *service) UpdateStatus(ctx context.Context, id, status string) (*Container, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Hold {
		return nil, apperror.Conflict("container %s is on hold", current.CntrNo)
	}

	c, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	if status == StatusReady && current.Status != StatusReady {
		events.Emit(ctx, s.events, events.New(events.ContainerReady, events.ChannelContainers, c.ID, map[string]any{
			"cntrNo":     c.CntrNo,
			"terminalId": c.TerminalID,
		}))
	}
	return c, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.repo.SoftDelete(ctx, id)
}

func (s *service) Statistics(ctx context.Context, terminalID string) (*Statistics, error) {
	if terminalID != "" {
		if _, err := s.terminals.GetByID(ctx, terminalID); err != nil {
			return nil, err
		}
	}
	return s.repo.Statistics(ctx, terminalID)
}

func (s *service) AddHold(ctx context.Context, id string, req HoldRequest) (*Hold, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	h, err := s.repo.AddHold(ctx, id, req)
	if err != nil {
		return nil, err
	}

	events.Emit(ctx, s.events, events.New(events.HoldAdded, events.ChannelContainers, c.ID, map[string]any{
		"cntrNo": c.CntrNo,
		"holdId": h.ID,
		"reason": h.Reason,
	}))
	return h, nil
}

func (s *service) ResolveHold(ctx context.Context, id, holdID string) (*Hold, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	h, cleared, err := s.repo.ResolveHold(ctx, id, holdID)
	if err != nil {
		return nil, err
	}

	events.Emit(ctx, s.events, events.New(events.HoldRemoved, events.ChannelContainers, c.ID, map[string]any{
		"cntrNo":  c.CntrNo,
		"holdId":  h.ID,
		"cleared": cleared,
	}))
	return h, nil
}

func (s *service) Holds(ctx context.Context, id string) ([]Hold, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.ListHolds(ctx, id)
}

func (s *service) checkRefs(ctx context.Context, terminalID, vesselID *string) error {
	if terminalID != nil {
		if _, err := s.terminals.GetByID(ctx, *terminalID); err != nil {
			return err
		}
	}
	if vesselID != nil {
		if _, err := s.vessels.GetByID(ctx, *vesselID); err != nil {
			return err
		}
	}
	return nil
}
