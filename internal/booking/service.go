package booking

import (
	"context"

	"github.com/abakymuk/DriverOS/internal/apperror"
	"github.com/abakymuk/DriverOS/internal/container"
	"github.com/abakymuk/DriverOS/internal/driver"
	"github.com/abakymuk/DriverOS/internal/events"
	"github.com/abakymuk/DriverOS/internal/logger"
	"github.com/abakymuk/DriverOS/internal/metrics"
	"github.com/abakymuk/DriverOS/internal/notify"
	"github.com/abakymuk/DriverOS/internal/slot"
	"github.com/abakymuk/DriverOS/internal/terminal"
	"github.com/abakymuk/DriverOS/internal/trip"
)

type SlotFinder interface {
	GetByID(ctx context.Context, id string) (*slot.Slot, error)
}

type TripFinder interface {
	GetByID(ctx context.Context, id string) (*trip.Trip, error)
}

type DriverFinder interface {
	GetByID(ctx context.Context, id string) (*driver.Driver, error)
}

type ContainerFinder interface {
	GetByID(ctx context.Context, id string) (*container.Container, error)
}

type TerminalFinder interface {
	GetByID(ctx context.Context, id string) (*terminal.Terminal, error)
}

// Notifier queues the driver e-mails. *notify.Service implements it.
type Notifier interface {
	SendSlotBooked(ctx context.Context, n notify.SlotNotice) error
	SendSlotCancelled(ctx context.Context, n notify.SlotNotice) error
}

type Service interface {
	Book(ctx context.Context, slotID string, req BookRequest) (*Result, error)
	Cancel(ctx context.Context, slotID, bookingID string) (*Result, error)
	ListBySlot(ctx context.Context, slotID string) ([]BookingWithDetails, error)
}

type service struct {
	repo       Repository
	slots      SlotFinder
	trips      TripFinder
	drivers    DriverFinder
	containers ContainerFinder
	terminals  TerminalFinder
	locker     *slot.Locker
	publisher  events.Publisher
	notifier   Notifier
}

// NewService builds the capacity accountant. locker must be the one the
// slot service uses. notifier may be nil.
func NewService(
	repo Repository,
	slots SlotFinder,
	trips TripFinder,
	drivers DriverFinder,
	containers ContainerFinder,
	terminals TerminalFinder,
	locker *slot.Locker,
	publisher events.Publisher,
	notifier Notifier,
) Service {
	return &service{
		repo:       repo,
		slots:      slots,
		trips:      trips,
		drivers:    drivers,
		containers: containers,
		terminals:  terminals,
		locker:     locker,
		publisher:  publisher,
		notifier:   notifier,
	}
}

// Book confirms a trip into a slot. Missing references are reported before
// any capacity check so a 404 never hides behind a 409.
func (s *service) Book(ctx context.Context, slotID string, req BookRequest) (*Result, error) {
	res, err := s.book(ctx, slotID, req)
	metrics.RecordBooking(outcome(err, "confirmed"))
	return res, err
}

func (s *service) book(ctx context.Context, slotID string, req BookRequest) (*Result, error) {
	if _, err := s.slots.GetByID(ctx, slotID); err != nil {
		return nil, err
	}
	if _, err := s.trips.GetByID(ctx, req.TripID); err != nil {
		return nil, err
	}
	d, err := s.drivers.GetByID(ctx, req.DriverID)
	if err != nil {
		return nil, err
	}
	c, err := s.containers.GetByID(ctx, req.ContainerID)
	if err != nil {
		return nil, err
	}

	unlock, err := s.locker.Lock(ctx, slotID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	b := &Booking{SlotID: slotID, TripID: req.TripID, DriverID: req.DriverID, ContainerID: req.ContainerID}
	sl, err := s.repo.Reserve(ctx, b)
	if err != nil {
		return nil, err
	}

	logger.Info("slot booked",
		"slot_id", slotID,
		"booking_id", b.ID,
		"trip_id", b.TripID,
		"booked", sl.Booked,
		"capacity", sl.Capacity,
	)
	metrics.ObserveSlotUtilization(sl.Booked, sl.Capacity)
	events.Emit(ctx, s.publisher, events.New(events.SlotBooked, events.ChannelSlots, slotID, map[string]any{
		"bookingId": b.ID,
		"tripId":    b.TripID,
		"driverId":  b.DriverID,
		"booked":    sl.Booked,
		"capacity":  sl.Capacity,
		"status":    sl.Status,
	}))
	s.notify(ctx, sl, d, c, true)

	return &Result{Booking: b, Slot: sl}, nil
}

// Cancel voids a confirmed booking and gives its capacity back.
func (s *service) Cancel(ctx context.Context, slotID, bookingID string) (*Result, error) {
	res, err := s.cancel(ctx, slotID, bookingID)
	metrics.RecordCancellation(outcome(err, "cancelled"))
	return res, err
}

func (s *service) cancel(ctx context.Context, slotID, bookingID string) (*Result, error) {
	if _, err := s.slots.GetByID(ctx, slotID); err != nil {
		return nil, err
	}

	unlock, err := s.locker.Lock(ctx, slotID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	b, sl, err := s.repo.Release(ctx, slotID, bookingID)
	if err != nil {
		return nil, err
	}

	logger.Info("slot booking cancelled",
		"slot_id", slotID,
		"booking_id", b.ID,
		"booked", sl.Booked,
		"capacity", sl.Capacity,
	)
	metrics.ObserveSlotUtilization(sl.Booked, sl.Capacity)
	events.Emit(ctx, s.publisher, events.New(events.SlotCancelled, events.ChannelSlots, slotID, map[string]any{
		"bookingId": b.ID,
		"tripId":    b.TripID,
		"booked":    sl.Booked,
		"capacity":  sl.Capacity,
		"status":    sl.Status,
	}))

	if s.notifier != nil {
		d, derr := s.drivers.GetByID(ctx, b.DriverID)
		c, cerr := s.containers.GetByID(ctx, b.ContainerID)
		if derr == nil && cerr == nil {
			s.notify(ctx, sl, d, c, false)
		}
	}

	return &Result{Booking: b, Slot: sl}, nil
}

func (s *service) notify(ctx context.Context, sl *slot.Slot, d *driver.Driver, c *container.Container, booked bool) {
	if s.notifier == nil || d.Email == nil || *d.Email == "" {
		return
	}

	n := notify.SlotNotice{
		DriverEmail:  *d.Email,
		DriverName:   d.Name,
		TerminalName: sl.TerminalID,
		ContainerNo:  c.CntrNo,
		WindowStart:  sl.WindowStart,
		WindowEnd:    sl.WindowEnd,
	}
	if t, err := s.terminals.GetByID(ctx, sl.TerminalID); err == nil {
		n.TerminalName = t.Name
	}

	send := s.notifier.SendSlotCancelled
	if booked {
		send = s.notifier.SendSlotBooked
	}
	if err := send(ctx, n); err != nil {
		logger.Warn("could not queue slot e-mail", "driver_id", d.ID, "error", err.Error())
	}
}

func (s *service) ListBySlot(ctx context.Context, slotID string) ([]BookingWithDetails, error) {
	if _, err := s.slots.GetByID(ctx, slotID); err != nil {
		return nil, err
	}
	return s.repo.ListBySlot(ctx, slotID)
}

func outcome(err error, success string) string {
	switch {
	case err == nil:
		return success
	case apperror.IsNotFound(err):
		return "not_found"
	case apperror.IsConflict(err):
		return "conflict"
	default:
		return "error"
	}
}
