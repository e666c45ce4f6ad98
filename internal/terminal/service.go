package terminal

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/jmoiron/sqlx/types"

	"github.com/abakymuk/DriverOS/internal/api"
	"github.com/abakymuk/DriverOS/internal/apperror"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Terminal, error)
	GetByID(ctx context.Context, id string) (*Terminal, error)
	GetByCode(ctx context.Context, code string) (*Terminal, error)
	List(ctx context.Context, f ListFilter, q api.PageQuery) (api.Page[Terminal], error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Terminal, error)
	Delete(ctx context.Context, id string) error
	Capacity(ctx context.Context, id string) (*CapacityReport, error)
	GetSettings(ctx context.Context, id string) (*Settings, error)
	UpdateSettings(ctx context.Context, id string, req SettingsRequest) (*Settings, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Terminal, error) {
	if err := s.ensureCodeFree(ctx, req.Code, ""); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, req)
}

func (s *service) GetByID(ctx context.Context, id string) (*Terminal, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetByCode(ctx context.Context, code string) (*Terminal, error) {
	return s.repo.GetByCode(ctx, code)
}

func (s *service) List(ctx context.Context, f ListFilter, q api.PageQuery) (api.Page[Terminal], error) {
	terminals, total, err := s.repo.List(ctx, f, q)
	if err != nil {
		return api.Page[Terminal]{}, err
	}
	return api.NewPage(terminals, total, q), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Terminal, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Code != nil && !strings.EqualFold(*req.Code, current.Code) {
		if err := s.ensureCodeFree(ctx, *req.Code, id); err != nil {
			return nil, err
		}
	}

	return s.repo.Update(ctx, id, req)
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.repo.SoftDelete(ctx, id)
}

// Capacity reports live containers at the terminal against its capacity.
func (s *service) Capacity(ctx context.Context, id string) (*CapacityReport, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	current, err := s.repo.CountContainers(ctx, id)
	if err != nil {
		return nil, err
	}

	return &CapacityReport{
		Current:    current,
		Max:        t.Capacity,
		Percentage: int(math.Round(float64(current) * 100 / float64(t.Capacity))),
	}, nil
}

func (s *service) GetSettings(ctx context.Context, id string) (*Settings, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.GetSettings(ctx, id)
}

func (s *service) UpdateSettings(ctx context.Context, id string, req SettingsRequest) (*Settings, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	if req.OperatingHours.End <= req.OperatingHours.Start {
		return nil, apperror.Invalid("operating hours must end after they start")
	}

	hours, err := json.Marshal(req.OperatingHours)
	if err != nil {
		return nil, fmt.Errorf("encode operating hours: %w", err)
	}
	rules := req.SpecialRules
	if rules == nil {
		rules = map[string]any{}
	}
	rulesJSON, err := json.Marshal(rules)
	if err != nil {
		return nil, apperror.Invalid("special rules must be a JSON object")
	}
	closed := req.ClosedDays
	if closed == nil {
		closed = []string{}
	}

	return s.repo.UpsertSettings(ctx, Settings{
		TerminalID:        id,
		SlotDuration:      req.SlotDuration,
		MaxSlotsPerWindow: req.MaxSlotsPerWindow,
		OperatingHours:    types.JSONText(hours),
		ClosedDays:        closed,
		SpecialRules:      types.JSONText(rulesJSON),
	})
}

func (s *service) ensureCodeFree(ctx context.Context, code, selfID string) error {
	existing, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil
		}
		return err
	}
	if existing.ID != selfID {
		return apperror.Conflict("terminal with code %s already exists", strings.ToUpper(code))
	}
	return nil
}
