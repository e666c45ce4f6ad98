package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin/binding"

	"github.com/abakymuk/DriverOS/internal/api"
	"github.com/abakymuk/DriverOS/internal/apperror"
	"github.com/abakymuk/DriverOS/internal/container"
	"github.com/abakymuk/DriverOS/internal/driver"
	"github.com/abakymuk/DriverOS/internal/logger"
	"github.com/abakymuk/DriverOS/internal/slot"
	"github.com/abakymuk/DriverOS/internal/terminal"
	"github.com/abakymuk/DriverOS/internal/user"
	"github.com/abakymuk/DriverOS/internal/vessel"
)

type Terminals interface {
	Create(ctx context.Context, req terminal.CreateRequest) (*terminal.Terminal, error)
	GetByCode(ctx context.Context, code string) (*terminal.Terminal, error)
	UpdateSettings(ctx context.Context, id string, req terminal.SettingsRequest) (*terminal.Settings, error)
}

type Vessels interface {
	Create(ctx context.Context, req vessel.CreateRequest) (*vessel.Vessel, error)
	ListActiveByTerminal(ctx context.Context, terminalID string) ([]vessel.Vessel, error)
}

type Containers interface {
	Create(ctx context.Context, req container.CreateRequest) (*container.Container, error)
}

type Drivers interface {
	Create(ctx context.Context, req driver.CreateRequest) (*driver.Driver, error)
}

type Users interface {
	Register(ctx context.Context, req user.RegisterRequest) (*user.LoginResponse, error)
}

type Slots interface {
	Generate(ctx context.Context, req slot.GenerateRequest) ([]slot.Slot, error)
}

// Services are the write paths the seeder goes through.
type Services struct {
	Terminals  Terminals
	Vessels    Vessels
	Containers Containers
	Drivers    Drivers
	Users      Users
	Slots      Slots
}

// Report counts created and already present records.
type Report struct {
	Created map[string]int `json:"created"`
	Skipped map[string]int `json:"skipped"`
}

func newReport() *Report {
	return &Report{Created: map[string]int{}, Skipped: map[string]int{}}
}

func (r *Report) track(kind string, err error) error {
	switch {
	case err == nil:
		r.Created[kind]++
		return nil
	case apperror.IsConflict(err):
		r.Skipped[kind]++
		return nil
	default:
		return err
	}
}

type Seeder struct {
	svc Services
}

func New(svc Services) *Seeder {
	api.RegisterValidators()
	return &Seeder{svc: svc}
}

// Run applies f and then lays out slots for days days starting at from.
// Records that already exist are skipped, so running twice is harmless.
func (s *Seeder) Run(ctx context.Context, f *File, from time.Time, days int) (*Report, error) {
	rep := newReport()

	terminalIDs := make(map[string]string, len(f.Terminals))
	for _, t := range f.Terminals {
		id, err := s.terminal(ctx, rep, t)
		if err != nil {
			return rep, fmt.Errorf("terminal %s: %w", t.Code, err)
		}
		terminalIDs[t.Code] = id
	}

	vesselIDs := make(map[string]string, len(f.Vessels))
	for _, v := range f.Vessels {
		id, err := s.vessel(ctx, rep, terminalIDs[v.Terminal], v)
		if err != nil {
			return rep, fmt.Errorf("vessel %s: %w", v.Name, err)
		}
		vesselIDs[v.Name] = id
	}

	for _, c := range f.Containers {
		req := container.CreateRequest{
			CntrNo:     c.CntrNo,
			Type:       c.Type,
			Line:       c.Line,
			ReadyAt:    c.ReadyAt,
			TerminalID: terminalIDs[c.Terminal],
		}
		if id, ok := vesselIDs[c.Vessel]; ok {
			req.VesselID = &id
		}
		if err := validate(req); err != nil {
			return rep, fmt.Errorf("container %s: %w", c.CntrNo, err)
		}
		_, err := s.svc.Containers.Create(ctx, req)
		if err := rep.track("containers", err); err != nil {
			return rep, fmt.Errorf("container %s: %w", c.CntrNo, err)
		}
	}

	for _, d := range f.Drivers {
		req := driver.CreateRequest{
			Name:          d.Name,
			LicenseNumber: d.LicenseNumber,
			LicenseExpiry: d.LicenseExpiry,
			CarrierID:     d.CarrierID,
			Email:         optional(d.Email),
			Phone:         optional(d.Phone),
		}
		if err := validate(req); err != nil {
			return rep, fmt.Errorf("driver %s: %w", d.LicenseNumber, err)
		}
		_, err := s.svc.Drivers.Create(ctx, req)
		if err := rep.track("drivers", err); err != nil {
			return rep, fmt.Errorf("driver %s: %w", d.LicenseNumber, err)
		}
	}

	for _, u := range f.Users {
		req := user.RegisterRequest{Name: u.Name, Email: u.Email, Password: u.Password}
		if err := validate(req); err != nil {
			return rep, fmt.Errorf("user %s: %w", u.Email, err)
		}
		_, err := s.svc.Users.Register(ctx, req)
		if err := rep.track("users", err); err != nil {
			return rep, fmt.Errorf("user %s: %w", u.Email, err)
		}
	}

	for _, t := range f.Terminals {
		if t.Settings == nil {
			continue
		}
		for d := range days {
			date := from.AddDate(0, 0, d).Format(time.DateOnly)
			created, err := s.svc.Slots.Generate(ctx, slot.GenerateRequest{TerminalID: terminalIDs[t.Code], Date: date})
			if err != nil {
				return rep, fmt.Errorf("slots for %s on %s: %w", t.Code, date, err)
			}
			rep.Created["slots"] += len(created)
		}
	}

	logger.Info("seed applied", "created", rep.Created, "skipped", rep.Skipped)
	return rep, nil
}

func (s *Seeder) terminal(ctx context.Context, rep *Report, t Terminal) (string, error) {
	req := terminal.CreateRequest{Name: t.Name, Code: t.Code, Capacity: t.Capacity, Timezone: t.Timezone}
	if err := validate(req); err != nil {
		return "", err
	}

	var id string
	created, err := s.svc.Terminals.Create(ctx, req)
	switch {
	case err == nil:
		rep.Created["terminals"]++
		id = created.ID
	case apperror.IsConflict(err):
		existing, err := s.svc.Terminals.GetByCode(ctx, t.Code)
		if err != nil {
			return "", err
		}
		rep.Skipped["terminals"]++
		id = existing.ID
	default:
		return "", err
	}

	if t.Settings == nil {
		return id, nil
	}
	settings := terminal.SettingsRequest{
		SlotDuration:      t.Settings.SlotDuration,
		MaxSlotsPerWindow: t.Settings.MaxSlotsPerWindow,
		OperatingHours:    terminal.OperatingHours{Start: t.Settings.Open, End: t.Settings.Close},
		ClosedDays:        t.Settings.ClosedDays,
	}
	if err := validate(settings); err != nil {
		return "", err
	}
	if _, err := s.svc.Terminals.UpdateSettings(ctx, id, settings); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Seeder) vessel(ctx context.Context, rep *Report, terminalID string, v Vessel) (string, error) {
	active, err := s.svc.Vessels.ListActiveByTerminal(ctx, terminalID)
	if err != nil {
		return "", err
	}
	for _, a := range active {
		if a.Name == v.Name {
			rep.Skipped["vessels"]++
			return a.ID, nil
		}
	}

	req := vessel.CreateRequest{
		Name:           v.Name,
		ETA:            v.ETA,
		TerminalID:     terminalID,
		Status:         v.Status,
		ContainerCount: v.ContainerCount,
	}
	if err := validate(req); err != nil {
		return "", err
	}
	created, err := s.svc.Vessels.Create(ctx, req)
	if err != nil {
		return "", err
	}
	rep.Created["vessels"]++
	return created.ID, nil
}

// validate applies the same binding rules the HTTP layer enforces.
func validate(req any) error {
	if err := binding.Validator.ValidateStruct(req); err != nil {
		return apperror.Invalid("%s", err.Error())
	}
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
