package server

import (
	"github.com/jmoiron/sqlx"

	"github.com/abakymuk/DriverOS/internal/auth"
	"github.com/abakymuk/DriverOS/internal/booking"
	"github.com/abakymuk/DriverOS/internal/config"
	"github.com/abakymuk/DriverOS/internal/container"
	"github.com/abakymuk/DriverOS/internal/dashboard"
	"github.com/abakymuk/DriverOS/internal/driver"
	"github.com/abakymuk/DriverOS/internal/events"
	"github.com/abakymuk/DriverOS/internal/report"
	"github.com/abakymuk/DriverOS/internal/slot"
	"github.com/abakymuk/DriverOS/internal/terminal"
	"github.com/abakymuk/DriverOS/internal/trip"
	"github.com/abakymuk/DriverOS/internal/user"
	"github.com/abakymuk/DriverOS/internal/vessel"
)

// Services holds every domain service, wired against one database.
type Services struct {
	Tokens     *auth.Issuer
	Users      user.Service
	Terminals  terminal.Service
	Vessels    vessel.Service
	Containers container.Service
	Drivers    driver.Service
	Slots      slot.Service
	Bookings   booking.Service
	Trips      trip.Service
	Dashboard  *dashboard.Service
	Reports    *report.Exporter
}

// NewServices builds the service graph. The slot and booking services
// share one locker so capacity changes to a slot never interleave.
// notifier may be nil.
func NewServices(db *sqlx.DB, cfg *config.Config, publisher events.Publisher, notifier booking.Notifier) *Services {
	if publisher == nil {
		publisher = events.Nop{}
	}
	locker := slot.NewLocker()
	tokens := auth.NewIssuer(cfg.JWTSecret, cfg.JWTRefreshSecret)

	terminals := terminal.NewService(terminal.NewRepository(db))
	vessels := vessel.NewService(vessel.NewRepository(db), terminals, publisher)
	containers := container.NewService(container.NewRepository(db), terminals, vessels, publisher)
	drivers := driver.NewService(driver.NewRepository(db))
	slots := slot.NewService(slot.NewRepository(db, cfg.BookingMaxAttempts), terminals, locker)
	trips := trip.NewService(trip.NewRepository(db), drivers, containers, slots, publisher)

	bookings := booking.NewService(
		booking.NewRepository(db, cfg.BookingMaxAttempts),
		slots, trips, drivers, containers, terminals,
		locker, publisher, notifier,
	)

	return &Services{
		Tokens:     tokens,
		Users:      user.NewService(user.NewRepository(db), tokens),
		Terminals:  terminals,
		Vessels:    vessels,
		Containers: containers,
		Drivers:    drivers,
		Slots:      slots,
		Bookings:   bookings,
		Trips:      trips,
		Dashboard:  dashboard.NewService(slots, containers, trips, vessels, terminals),
		Reports:    report.NewExporter(slots, terminals),
	}
}
