package slot

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/abakymuk/DriverOS/internal/api"
	"github.com/abakymuk/DriverOS/internal/apperror"
	"github.com/abakymuk/DriverOS/internal/terminal"
)

const (
	DefaultUpcomingDays = 7
	MaxUpcomingDays     = 31
)

// TerminalFinder is the terminal lookup slots depend on.
type TerminalFinder interface {
	GetByID(ctx context.Context, id string) (*terminal.Terminal, error)
	GetSettings(ctx context.Context, id string) (*terminal.Settings, error)
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Slot, error)
	Generate(ctx context.Context, req GenerateRequest) ([]Slot, error)
	GetByID(ctx context.Context, id string) (*Slot, error)
	List(ctx context.Context, f ListFilter, q api.PageQuery) (api.Page[Slot], error)
	ListAvailable(ctx context.Context, terminalID string, date *time.Time) ([]Slot, error)
	ListUpcoming(ctx context.Context, terminalID string, days int) ([]Slot, error)
	ListForDay(ctx context.Context, terminalID string, date time.Time) ([]Slot, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Slot, error)
	UpdateStatus(ctx context.Context, id, status string) (*Slot, error)
	Delete(ctx context.Context, id string) error
	Statistics(ctx context.Context, terminalID string) (*Statistics, error)
	HourlyUtilization(ctx context.Context, terminalID string, date time.Time) ([]HourlyUtilization, error)
}

type service struct {
	repo      Repository
	terminals TerminalFinder
	locker    *Locker
	now       func() time.Time
}

// NewService shares locker with the booking service so every change to a
// slot's occupancy is serialized.
func NewService(repo Repository, terminals TerminalFinder, locker *Locker) Service {
	return &service{repo: repo, terminals: terminals, locker: locker, now: time.Now}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Slot, error) {
	if _, err := s.terminals.GetByID(ctx, req.TerminalID); err != nil {
		return nil, err
	}
	if !req.WindowEnd.After(req.WindowStart) {
		return nil, apperror.Invalid("windowEnd must be after windowStart")
	}

	taken, err := s.repo.WindowTaken(ctx, req.TerminalID, req.WindowStart, req.WindowEnd, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperror.Conflict("a slot already covers this window")
	}

	return s.repo.Create(ctx, Slot{
		TerminalID:  req.TerminalID,
		WindowStart: req.WindowStart.UTC(),
		WindowEnd:   req.WindowEnd.UTC(),
		Capacity:    req.Capacity,
		Status:      StatusAvailable,
	})
}

// Generate lays out one day of slots from the terminal's operating hours,
// in the terminal's time zone. Closed days produce nothing and windows that
// already exist are skipped.
func (s *service) Generate(ctx context.Context, req GenerateRequest) ([]Slot, error) {
	t, err := s.terminals.GetByID(ctx, req.TerminalID)
	if err != nil {
		return nil, err
	}
	settings, err := s.terminals.GetSettings(ctx, req.TerminalID)
	if err != nil {
		return nil, err
	}

	loc, err := time.LoadLocation(t.Timezone)
	if err != nil {
		return nil, apperror.Invalid("terminal timezone %q is not recognised", t.Timezone)
	}
	day, err := time.ParseInLocation(time.DateOnly, req.Date, loc)
	if err != nil {
		return nil, apperror.Invalid("date must be YYYY-MM-DD")
	}

	weekday := strings.ToUpper(day.Weekday().String()[:3])
	if slices.Contains(settings.ClosedDays, weekday) {
		return []Slot{}, nil
	}

	windows, err := layout(day, settings)
	if err != nil {
		return nil, err
	}
	for i := range windows {
		windows[i].TerminalID = t.ID
	}
	return s.repo.CreateMany(ctx, windows)
}

func layout(day time.Time, settings *terminal.Settings) ([]Slot, error) {
	var hours terminal.OperatingHours
	if err := json.Unmarshal(settings.OperatingHours, &hours); err != nil {
		return nil, fmt.Errorf("decode operating hours: %w", err)
	}
	open, err := clock(day, hours.Start)
	if err != nil {
		return nil, err
	}
	closing, err := clock(day, hours.End)
	if err != nil {
		return nil, err
	}

	step := time.Duration(settings.SlotDuration) * time.Minute
	if step <= 0 {
		return nil, apperror.Invalid("slot duration must be positive")
	}

	var out []Slot
	for start := open; !start.Add(step).After(closing); start = start.Add(step) {
		out = append(out, Slot{
			WindowStart: start.UTC(),
			WindowEnd:   start.Add(step).UTC(),
			Capacity:    settings.MaxSlotsPerWindow,
			Status:      StatusAvailable,
		})
	}
	return out, nil
}

func clock(day time.Time, hhmm string) (time.Time, error) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return time.Time{}, apperror.Invalid("invalid clock time %q", hhmm)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, day.Location()), nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Slot, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, f ListFilter, q api.PageQuery) (api.Page[Slot], error) {
	slots, total, err := s.repo.List(ctx, f, q)
	if err != nil {
		return api.Page[Slot]{}, err
	}
	return api.NewPage(slots, total, q), nil
}

// ListAvailable returns bookable slots for one UTC day, today by default.
func (s *service) ListAvailable(ctx context.Context, terminalID string, date *time.Time) ([]Slot, error) {
	if terminalID != "" {
		if _, err := s.terminals.GetByID(ctx, terminalID); err != nil {
			return nil, err
		}
	}

	day := s.now().UTC()
	if date != nil {
		day = *date
	}
	from := startOfDay(day)
	return s.repo.ListAvailable(ctx, terminalID, from, from.AddDate(0, 0, 1))
}

func (s *service) ListUpcoming(ctx context.Context, terminalID string, days int) ([]Slot, error) {
	if days <= 0 {
		days = DefaultUpcomingDays
	}
	if days > MaxUpcomingDays {
		days = MaxUpcomingDays
	}
	if terminalID != "" {
		if _, err := s.terminals.GetByID(ctx, terminalID); err != nil {
			return nil, err
		}
	}

	now := s.now().UTC()
	return s.repo.ListBetween(ctx, terminalID, now, now.AddDate(0, 0, days))
}

func (s *service) ListForDay(ctx context.Context, terminalID string, date time.Time) ([]Slot, error) {
	if _, err := s.terminals.GetByID(ctx, terminalID); err != nil {
		return nil, err
	}
	from := startOfDay(date)
	return s.repo.ListBetween(ctx, terminalID, from, from.AddDate(0, 0, 1))
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Slot, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	start, end := current.WindowStart, current.WindowEnd
	if req.WindowStart != nil {
		start = req.WindowStart.UTC()
	}
	if req.WindowEnd != nil {
		end = req.WindowEnd.UTC()
	}
	if !end.After(start) {
		return nil, apperror.Invalid("windowEnd must be after windowStart")
	}
	if !start.Equal(current.WindowStart) || !end.Equal(current.WindowEnd) {
		taken, err := s.repo.WindowTaken(ctx, current.TerminalID, start, end, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperror.Conflict("a slot already covers this window")
		}
	}

	return s.mutate(ctx, id, func(sl *Slot) error {
		sl.WindowStart, sl.WindowEnd = start, end
		if req.Capacity != nil {
			return sl.Resize(*req.Capacity)
		}
		return nil
	})
}

func (s *service) UpdateStatus(ctx context.Context, id, status string) (*Slot, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, func(sl *Slot) error {
		sl.SetStatus(status)
		return nil
	})
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}

	unlock, err := s.locker.Lock(ctx, id)
	if err != nil {
		return err
	}
	defer unlock()

	return s.repo.SoftDelete(ctx, id)
}

func (s *service) mutate(ctx context.Context, id string, fn func(*Slot) error) (*Slot, error) {
	unlock, err := s.locker.Lock(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	return s.repo.Mutate(ctx, id, fn)
}

func (s *service) Statistics(ctx context.Context, terminalID string) (*Statistics, error) {
	if terminalID != "" {
		if _, err := s.terminals.GetByID(ctx, terminalID); err != nil {
			return nil, err
		}
	}
	return s.repo.Statistics(ctx, terminalID)
}

func (s *service) HourlyUtilization(ctx context.Context, terminalID string, date time.Time) ([]HourlyUtilization, error) {
	slots, err := s.ListForDay(ctx, terminalID, date)
	if err != nil {
		return nil, err
	}
	return Hourly(slots), nil
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
