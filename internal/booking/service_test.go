package booking

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/abakymuk/DriverOS/internal/apperror"
	"github.com/abakymuk/DriverOS/internal/container"
	"github.com/abakymuk/DriverOS/internal/driver"
	"github.com/abakymuk/DriverOS/internal/events"
	"github.com/abakymuk/DriverOS/internal/notify"
	"github.com/abakymuk/DriverOS/internal/slot"
	"github.com/abakymuk/DriverOS/internal/terminal"
	"github.com/abakymuk/DriverOS/internal/trip"
)

const (
	slotID      = "6f1d2c3b-4a5e-4f60-8b71-92a3b4c5d6e7"
	terminalID  = "0b6f3c1e-8d0a-4f3c-9a51-3f1b2a7d9c01"
	tripID      = "3c2b1a09-8f7e-4d6c-9b5a-4e3d2c1b0a98"
	driverID    = "7d6c5b4a-3e2f-4a1b-8c9d-0e1f2a3b4c5d"
	containerID = "1a2b3c4d-5e6f-4a7b-8c9d-0e1f2a3b4c5e"
	bookingID   = "5e4d3c2b-1a09-4f8e-9d7c-6b5a4f3e2d1c"
	missingID   = "9a0f3c1e-8d0a-4f3c-9a51-3f1b2a7d9c09"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Reserve(ctx context.Context, b *Booking) (*slot.Slot, error) {
	args := m.Called(ctx, b)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	b.ID = bookingID
	b.Status = StatusConfirmed
	return args.Get(0).(*slot.Slot), args.Error(1)
}

func (m *MockRepository) Release(ctx context.Context, slotID, bookingID string) (*Booking, *slot.Slot, error) {
	args := m.Called(ctx, slotID, bookingID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*Booking), args.Get(1).(*slot.Slot), args.Error(2)
}

func (m *MockRepository) ListBySlot(ctx context.Context, slotID string) ([]BookingWithDetails, error) {
	args := m.Called(ctx, slotID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]BookingWithDetails), args.Error(1)
}

type stubSlots map[string]*slot.Slot

func (s stubSlots) GetByID(_ context.Context, id string) (*slot.Slot, error) {
	if sl, ok := s[id]; ok {
		return sl, nil
	}
	return nil, apperror.NotFound("slot not found")
}

type stubTrips map[string]*trip.Trip

func (s stubTrips) GetByID(_ context.Context, id string) (*trip.Trip, error) {
	if t, ok := s[id]; ok {
		return t, nil
	}
	return nil, apperror.NotFound("trip not found")
}

type stubDrivers map[string]*driver.Driver

func (s stubDrivers) GetByID(_ context.Context, id string) (*driver.Driver, error) {
	if d, ok := s[id]; ok {
		return d, nil
	}
	return nil, apperror.NotFound("driver not found")
}

type stubContainers map[string]*container.Container

func (s stubContainers) GetByID(_ context.Context, id string) (*container.Container, error) {
	if c, ok := s[id]; ok {
		return c, nil
	}
	return nil, apperror.NotFound("container not found")
}

type stubTerminals map[string]*terminal.Terminal

func (s stubTerminals) GetByID(_ context.Context, id string) (*terminal.Terminal, error) {
	if t, ok := s[id]; ok {
		return t, nil
	}
	return nil, apperror.NotFound("terminal not found")
}

type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) Publish(_ context.Context, ev events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

type mailbox struct {
	mu        sync.Mutex
	booked    []notify.SlotNotice
	cancelled []notify.SlotNotice
}

func (m *mailbox) SendSlotBooked(_ context.Context, n notify.SlotNotice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.booked = append(m.booked, n)
	return nil
}

func (m *mailbox) SendSlotCancelled(_ context.Context, n notify.SlotNotice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancelled = append(m.cancelled, n)
	return nil
}

type fixture struct {
	repo  Repository
	slots stubSlots
	pub   *recorder
	mail  *mailbox
}

func newFixture(repo Repository) *fixture {
	return &fixture{
		repo:  repo,
		slots: stubSlots{slotID: {ID: slotID, TerminalID: terminalID, Capacity: 2, Status: slot.StatusAvailable}},
		pub:   &recorder{},
		mail:  &mailbox{},
	}
}

func (f *fixture) service() Service {
	email := "ana@carrier.example"
	return NewService(
		f.repo,
		f.slots,
		stubTrips{tripID: {ID: tripID}},
		stubDrivers{driverID: {ID: driverID, Name: "Ana Ruiz", Email: &email}},
		stubContainers{containerID: {ID: containerID, CntrNo: "CSQU3054383"}},
		stubTerminals{terminalID: {ID: terminalID, Name: "Pier 400"}},
		slot.NewLocker(),
		f.pub,
		f.mail,
	)
}

func validRequest() BookRequest {
	return BookRequest{TripID: tripID, DriverID: driverID, ContainerID: containerID}
}

func TestService_BookNotFoundBeforeConflict(t *testing.T) {
	tests := []struct {
		name    string
		slotID  string
		req     BookRequest
		wantMsg string
	}{
		{"missing slot", missingID, validRequest(), "slot not found"},
		{"missing trip", slotID, BookRequest{TripID: missingID, DriverID: driverID, ContainerID: containerID}, "trip not found"},
		{"missing driver", slotID, BookRequest{TripID: tripID, DriverID: missingID, ContainerID: containerID}, "driver not found"},
		{"missing container", slotID, BookRequest{TripID: tripID, DriverID: driverID, ContainerID: missingID}, "container not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			f := newFixture(repo)
			f.slots[slotID].Booked = 2
			f.slots[slotID].Status = slot.StatusFull

			_, err := f.service().Book(context.Background(), tt.slotID, tt.req)
			require.Error(t, err)
			assert.True(t, apperror.IsNotFound(err))
			assert.EqualError(t, err, tt.wantMsg)
			repo.AssertNotCalled(t, "Reserve", mock.Anything, mock.Anything)
			assert.Empty(t, f.pub.events)
		})
	}
}

func TestService_BookConfirmed(t *testing.T) {
	repo := new(MockRepository)
	f := newFixture(repo)
	after := &slot.Slot{ID: slotID, TerminalID: terminalID, Capacity: 2, Booked: 2, Status: slot.StatusFull}
	repo.On("Reserve", mock.Anything, mock.MatchedBy(func(b *Booking) bool {
		return b.SlotID == slotID && b.TripID == tripID && b.DriverID == driverID && b.ContainerID == containerID
	})).Return(after, nil)

	res, err := f.service().Book(context.Background(), slotID, validRequest())
	require.NoError(t, err)
	assert.Equal(t, bookingID, res.Booking.ID)
	assert.Equal(t, slot.StatusFull, res.Slot.Status)

	require.Len(t, f.pub.events, 1)
	ev := f.pub.events[0]
	assert.Equal(t, events.SlotBooked, ev.Type)
	assert.Equal(t, events.ChannelSlots, ev.Channel)
	assert.Equal(t, slotID, ev.RefID)
	assert.Equal(t, 2, ev.Meta["booked"])

	require.Len(t, f.mail.booked, 1)
	assert.Equal(t, "ana@carrier.example", f.mail.booked[0].DriverEmail)
	assert.Equal(t, "Pier 400", f.mail.booked[0].TerminalName)
	assert.Equal(t, "CSQU3054383", f.mail.booked[0].ContainerNo)
}

func TestService_BookConflictHasNoSideEffects(t *testing.T) {
	repo := new(MockRepository)
	f := newFixture(repo)
	repo.On("Reserve", mock.Anything, mock.Anything).Return(nil, apperror.Conflict("slot is full"))

	_, err := f.service().Book(context.Background(), slotID, validRequest())
	assert.True(t, apperror.IsConflict(err))
	assert.Empty(t, f.pub.events)
	assert.Empty(t, f.mail.booked)
}

func TestService_BookSkipsMailWithoutAddress(t *testing.T) {
	repo := new(MockRepository)
	f := newFixture(repo)
	repo.On("Reserve", mock.Anything, mock.Anything).Return(&slot.Slot{ID: slotID, Capacity: 2, Booked: 1}, nil)

	svc := NewService(repo, f.slots,
		stubTrips{tripID: {ID: tripID}},
		stubDrivers{driverID: {ID: driverID, Name: "No Mail"}},
		stubContainers{containerID: {ID: containerID}},
		stubTerminals{},
		slot.NewLocker(), f.pub, f.mail)

	_, err := svc.Book(context.Background(), slotID, validRequest())
	require.NoError(t, err)
	assert.Empty(t, f.mail.booked)
	assert.Len(t, f.pub.events, 1)
}

func TestService_Cancel(t *testing.T) {
	t.Run("voids booking", func(t *testing.T) {
		repo := new(MockRepository)
		f := newFixture(repo)
		now := time.Now()
		repo.On("Release", mock.Anything, slotID, bookingID).Return(
			&Booking{ID: bookingID, SlotID: slotID, TripID: tripID, DriverID: driverID, ContainerID: containerID, Status: StatusCancelled, CancelledAt: &now},
			&slot.Slot{ID: slotID, TerminalID: terminalID, Capacity: 2, Booked: 0, Status: slot.StatusAvailable},
			nil,
		)

		res, err := f.service().Cancel(context.Background(), slotID, bookingID)
		require.NoError(t, err)
		assert.Equal(t, StatusCancelled, res.Booking.Status)
		require.Len(t, f.pub.events, 1)
		assert.Equal(t, events.SlotCancelled, f.pub.events[0].Type)
		assert.Len(t, f.mail.cancelled, 1)
	})

	t.Run("unknown slot", func(t *testing.T) {
		repo := new(MockRepository)
		f := newFixture(repo)

		_, err := f.service().Cancel(context.Background(), missingID, bookingID)
		assert.True(t, apperror.IsNotFound(err))
		repo.AssertNotCalled(t, "Release", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown booking", func(t *testing.T) {
		repo := new(MockRepository)
		f := newFixture(repo)
		repo.On("Release", mock.Anything, slotID, missingID).Return(nil, nil, apperror.NotFound("booking not found"))

		_, err := f.service().Cancel(context.Background(), slotID, missingID)
		assert.True(t, apperror.IsNotFound(err))
		assert.Empty(t, f.pub.events)
	})
}

// memoryRepo keeps slot occupancy in memory. Its Reserve reads, yields and
// then writes, so only the service's per-slot lock keeps it consistent.
type memoryRepo struct {
	mu       sync.Mutex
	slots    map[string]slot.Slot
	bookings map[string]*Booking
}

func newMemoryRepo(s slot.Slot) *memoryRepo {
	return &memoryRepo{
		slots:    map[string]slot.Slot{s.ID: s},
		bookings: map[string]*Booking{},
	}
}

func (r *memoryRepo) load(id string) slot.Slot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.slots[id]
}

func (r *memoryRepo) store(s slot.Slot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.slots[s.ID] = s
}

func (r *memoryRepo) Reserve(_ context.Context, b *Booking) (*slot.Slot, error) {
	s := r.load(b.SlotID)
	runtime.Gosched()
	if err := s.Reserve(); err != nil {
		return nil, err
	}
	runtime.Gosched()
	r.store(s)

	b.ID = uuid.NewString()
	b.Status = StatusConfirmed
	r.mu.Lock()
	r.bookings[b.ID] = b
	r.mu.Unlock()
	return &s, nil
}

func (r *memoryRepo) Release(_ context.Context, slotID, bookingID string) (*Booking, *slot.Slot, error) {
	r.mu.Lock()
	b, ok := r.bookings[bookingID]
	if !ok || b.SlotID != slotID || b.Status != StatusConfirmed {
		r.mu.Unlock()
		return nil, nil, apperror.NotFound("booking not found")
	}
	b.Status = StatusCancelled
	r.mu.Unlock()

	s := r.load(slotID)
	runtime.Gosched()
	s.Release()
	r.store(s)
	return b, &s, nil
}

func (r *memoryRepo) ListBySlot(context.Context, string) ([]BookingWithDetails, error) {
	return nil, nil
}

func (r *memoryRepo) confirmed() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []string
	for id, b := range r.bookings {
		if b.Status == StatusConfirmed {
			ids = append(ids, id)
		}
	}
	return ids
}

func concurrentBooks(t *testing.T, svc Service, n int) (ok, conflicts int64) {
	t.Helper()
	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Book(context.Background(), slotID, validRequest())
			switch {
			case err == nil:
				atomic.AddInt64(&ok, 1)
			case apperror.IsConflict(err):
				atomic.AddInt64(&conflicts, 1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()
	return ok, conflicts
}

func TestService_ConcurrentBooksNeverOverbook(t *testing.T) {
	const n = 50
	repo := newMemoryRepo(slot.Slot{ID: slotID, TerminalID: terminalID, Capacity: 10, Booked: 3, Status: slot.StatusAvailable})
	f := newFixture(repo)

	ok, conflicts := concurrentBooks(t, f.service(), n)

	assert.EqualValues(t, 7, ok)
	assert.EqualValues(t, n-7, conflicts)
	final := repo.load(slotID)
	assert.Equal(t, 10, final.Booked)
	assert.Equal(t, slot.StatusFull, final.Status)
	assert.Len(t, repo.confirmed(), 7)
}

func TestService_TwoBooksForLastUnit(t *testing.T) {
	repo := newMemoryRepo(slot.Slot{ID: slotID, TerminalID: terminalID, Capacity: 1, Status: slot.StatusAvailable})
	f := newFixture(repo)

	ok, conflicts := concurrentBooks(t, f.service(), 2)

	assert.EqualValues(t, 1, ok)
	assert.EqualValues(t, 1, conflicts)
	final := repo.load(slotID)
	assert.Equal(t, 1, final.Booked)
	assert.Equal(t, slot.StatusFull, final.Status)
}

func TestService_InterleavedBookAndCancelStayInBounds(t *testing.T) {
	repo := newMemoryRepo(slot.Slot{ID: slotID, TerminalID: terminalID, Capacity: 5, Status: slot.StatusAvailable})
	f := newFixture(repo)
	svc := f.service()

	for range 5 {
		_, err := svc.Book(context.Background(), slotID, validRequest())
		require.NoError(t, err)
	}
	ids := repo.confirmed()
	require.Len(t, ids, 5)

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := svc.Cancel(context.Background(), slotID, id)
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, _ = svc.Book(context.Background(), slotID, validRequest())
		}()
	}
	wg.Wait()

	final := repo.load(slotID)
	assert.GreaterOrEqual(t, final.Booked, 0)
	assert.LessOrEqual(t, final.Booked, final.Capacity)
	assert.Equal(t, final.Booked >= final.Capacity, final.Status == slot.StatusFull)
	assert.Len(t, repo.confirmed(), final.Booked)
}

func TestService_CancelUnknownLeavesCount(t *testing.T) {
	repo := newMemoryRepo(slot.Slot{ID: slotID, TerminalID: terminalID, Capacity: 3, Booked: 0, Status: slot.StatusAvailable})
	svc := newFixture(repo).service()

	_, err := svc.Book(context.Background(), slotID, validRequest())
	require.NoError(t, err)

	_, err = svc.Cancel(context.Background(), slotID, missingID)
	assert.True(t, apperror.IsNotFound(err))
	assert.Equal(t, 1, repo.load(slotID).Booked)
}
