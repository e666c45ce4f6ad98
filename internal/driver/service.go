package driver

import (
	"context"
	"time"

	"github.com/abakymuk/DriverOS/internal/api"
	"github.com/abakymuk/DriverOS/internal/apperror"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Driver, error)
	GetByID(ctx context.Context, id string) (*Driver, error)
	List(ctx context.Context, f ListFilter, q api.PageQuery) (api.Page[Driver], error)
	ListAvailable(ctx context.Context, date *time.Time) ([]Driver, error)
	ListActive(ctx context.Context) ([]Driver, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Driver, error)
	UpdateStatus(ctx context.Context, id, status string) (*Driver, error)
	Delete(ctx context.Context, id string) error
	AddAvailability(ctx context.Context, id string, req AvailabilityRequest) (*Availability, error)
	Availability(ctx context.Context, id string) ([]Availability, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) Service {
	return &service{repo: repo, now: time.Now}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Driver, error) {
	if !req.LicenseExpiry.After(s.now()) {
		return nil, apperror.Invalid("license has already expired")
	}

	taken, err := s.repo.LicenseTaken(ctx, req.LicenseNumber, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperror.Conflict("license %s is already registered", req.LicenseNumber)
	}

	return s.repo.Create(ctx, req)
}

func (s *service) GetByID(ctx context.Context, id string) (*Driver, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, f ListFilter, q api.PageQuery) (api.Page[Driver], error) {
	drivers, total, err := s.repo.List(ctx, f, q)
	if err != nil {
		return api.Page[Driver]{}, err
	}
	return api.NewPage(drivers, total, q), nil
}

// ListAvailable defaults to today (UTC) when date is nil.
func (s *service) ListAvailable(ctx context.Context, date *time.Time) ([]Driver, error) {
	day := s.now().UTC()
	if date != nil {
		day = *date
	}
	return s.repo.ListAvailable(ctx, day)
}

func (s *service) ListActive(ctx context.Context) ([]Driver, error) {
	return s.repo.ListByStatus(ctx, StatusActive, StatusOnTrip)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Driver, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	if req.LicenseNumber != nil {
		taken, err := s.repo.LicenseTaken(ctx, *req.LicenseNumber, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperror.Conflict("license %s is already registered", *req.LicenseNumber)
		}
	}

	return s.repo.Update(ctx, id, req)
}

func (s *service) UpdateStatus(ctx context.Context, id, status string) (*Driver, error) {
	return s.repo.UpdateStatus(ctx, id, status)
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.repo.SoftDelete(ctx, id)
}

func (s *service) AddAvailability(ctx context.Context, id string, req AvailabilityRequest) (*Availability, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	date, err := time.Parse(time.DateOnly, req.Date)
	if err != nil {
		return nil, apperror.Invalid("date must be YYYY-MM-DD")
	}
	// HH:MM strings order lexically.
	if req.EndTime <= req.StartTime {
		return nil, apperror.Invalid("availability must end after it starts")
	}

	status := req.Status
	if status == "" {
		status = AvailabilityAvailable
	}

	return s.repo.AddAvailability(ctx, Availability{
		DriverID:  id,
		Date:      date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Status:    status,
	})
}

// Availability lists windows from today onwards.
func (s *service) Availability(ctx context.Context, id string) ([]Availability, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	today := s.now().UTC().Truncate(24 * time.Hour)
	return s.repo.ListAvailability(ctx, id, today)
}
