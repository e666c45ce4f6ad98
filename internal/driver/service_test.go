package driver

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/abakymuk/DriverOS/internal/api"
	"github.com/abakymuk/DriverOS/internal/apperror"
)

const driverID = "a1b2c3d4-e5f6-4a7b-8c9d-0e1f2a3b4c5d"

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, req CreateRequest) (*Driver, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Driver), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, id string) (*Driver, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Driver), args.Error(1)
}

func (m *MockRepository) LicenseTaken(ctx context.Context, license, exceptID string) (bool, error) {
	args := m.Called(ctx, license, exceptID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, f ListFilter, q api.PageQuery) ([]Driver, int, error) {
	args := m.Called(ctx, f, q)
	return args.Get(0).([]Driver), args.Int(1), args.Error(2)
}

func (m *MockRepository) ListAvailable(ctx context.Context, date time.Time) ([]Driver, error) {
	args := m.Called(ctx, date)
	return args.Get(0).([]Driver), args.Error(1)
}

func (m *MockRepository) ListByStatus(ctx context.Context, statuses ...string) ([]Driver, error) {
	args := m.Called(ctx, statuses)
	return args.Get(0).([]Driver), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, id string, req UpdateRequest) (*Driver, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Driver), args.Error(1)
}

func (m *MockRepository) UpdateStatus(ctx context.Context, id, status string) (*Driver, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Driver), args.Error(1)
}

func (m *MockRepository) SoftDelete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockRepository) AddAvailability(ctx context.Context, a Availability) (*Availability, error) {
	args := m.Called(ctx, a)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Availability), args.Error(1)
}

func (m *MockRepository) ListAvailability(ctx context.Context, driverID string, from time.Time) ([]Availability, error) {
	args := m.Called(ctx, driverID, from)
	return args.Get(0).([]Availability), args.Error(1)
}

var fixedNow = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func newTestService(repo Repository) *service {
	return &service{repo: repo, now: func() time.Time { return fixedNow }}
}

func TestService_Create(t *testing.T) {
	valid := CreateRequest{Name: "Maria Lopez", LicenseNumber: "CDL-1", LicenseExpiry: fixedNow.AddDate(1, 0, 0), CarrierID: "ABCD"}

	tests := []struct {
		name      string
		req       CreateRequest
		setupMock func(*MockRepository)
		wantErr   error
	}{
		{
			name: "created",
			req:  valid,
			setupMock: func(m *MockRepository) {
				m.On("LicenseTaken", mock.Anything, "CDL-1", "").Return(false, nil)
				m.On("Create", mock.Anything, valid).Return(&Driver{ID: driverID}, nil)
			},
		},
		{
			name: "license taken",
			req:  valid,
			setupMock: func(m *MockRepository) {
				m.On("LicenseTaken", mock.Anything, "CDL-1", "").Return(true, nil)
			},
			wantErr: apperror.ErrConflict,
		},
		{
			name:      "expired license",
			req:       CreateRequest{Name: "Old", LicenseNumber: "CDL-2", LicenseExpiry: fixedNow.AddDate(0, 0, -1), CarrierID: "ABCD"},
			setupMock: func(m *MockRepository) {},
			wantErr:   apperror.ErrInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			tt.setupMock(repo)

			got, err := newTestService(repo).Create(context.Background(), tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, driverID, got.ID)
			repo.AssertExpectations(t)
		})
	}
}

func TestService_ListAvailableDefaultsToToday(t *testing.T) {
	repo := new(MockRepository)
	repo.On("ListAvailable", mock.Anything, fixedNow).Return([]Driver{{ID: driverID}}, nil)

	got, err := newTestService(repo).ListAvailable(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestService_ListActive(t *testing.T) {
	repo := new(MockRepository)
	repo.On("ListByStatus", mock.Anything, []string{StatusActive, StatusOnTrip}).Return([]Driver{}, nil)

	_, err := newTestService(repo).ListActive(context.Background())
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestService_AddAvailability(t *testing.T) {
	tests := []struct {
		name    string
		req     AvailabilityRequest
		wantErr error
	}{
		{"morning shift", AvailabilityRequest{Date: "2025-03-15", StartTime: "06:00", EndTime: "14:00"}, nil},
		{"inverted window", AvailabilityRequest{Date: "2025-03-15", StartTime: "14:00", EndTime: "06:00"}, apperror.ErrInvalid},
		{"empty window", AvailabilityRequest{Date: "2025-03-15", StartTime: "06:00", EndTime: "06:00"}, apperror.ErrInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			repo.On("GetByID", mock.Anything, driverID).Return(&Driver{ID: driverID}, nil)
			repo.On("AddAvailability", mock.Anything, mock.MatchedBy(func(a Availability) bool {
				return a.Status == AvailabilityAvailable && a.Date.Equal(time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC))
			})).Return(&Availability{ID: "w1"}, nil)

			_, err := newTestService(repo).AddAvailability(context.Background(), driverID, tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestService_AvailabilityFromToday(t *testing.T) {
	repo := new(MockRepository)
	repo.On("GetByID", mock.Anything, driverID).Return(&Driver{ID: driverID}, nil)
	repo.On("ListAvailability", mock.Anything, driverID, time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)).
		Return([]Availability{}, nil)

	_, err := newTestService(repo).Availability(context.Background(), driverID)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}
