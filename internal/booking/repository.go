package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/abakymuk/DriverOS/internal/apperror"
	"github.com/abakymuk/DriverOS/internal/db"
	"github.com/abakymuk/DriverOS/internal/slot"
)

const bookingColumns = `id, slot_id, trip_id, driver_id, container_id, status, created_at, updated_at, cancelled_at`

type repository struct {
	db          *sqlx.DB
	maxAttempts int
}

func NewRepository(db *sqlx.DB, maxAttempts int) Repository {
	return &repository{db: db, maxAttempts: maxAttempts}
}

func (r *repository) Reserve(ctx context.Context, b *Booking) (*slot.Slot, error) {
	var out *slot.Slot
	err := db.RetryTx(ctx, r.db, r.maxAttempts, func(tx *sqlx.Tx) error {
		s, err := slot.LockByID(ctx, tx, b.SlotID)
		if err != nil {
			return err
		}
		if err := s.Reserve(); err != nil {
			return err
		}

		var created Booking
		err = tx.GetContext(ctx, &created, `
			INSERT INTO slot_bookings (id, slot_id, trip_id, driver_id, container_id, status)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING `+bookingColumns,
			uuid.NewString(), b.SlotID, b.TripID, b.DriverID, b.ContainerID, StatusConfirmed)
		if err != nil {
			if db.IsUniqueViolation(err) {
				return apperror.Conflict("trip already booked on this slot")
			}
			if db.IsForeignKeyViolation(err) {
				return apperror.NotFound("trip, driver or container not found")
			}
			return fmt.Errorf("insert booking: %w", err)
		}

		if err := slot.SaveOccupancy(ctx, tx, s); err != nil {
			return err
		}

		*b = created
		out = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repository) Release(ctx context.Context, slotID, bookingID string) (*Booking, *slot.Slot, error) {
	var (
		booking Booking
		out     *slot.Slot
	)
	err := db.RetryTx(ctx, r.db, r.maxAttempts, func(tx *sqlx.Tx) error {
		s, err := slot.LockByID(ctx, tx, slotID)
		if err != nil {
			return err
		}

		err = tx.GetContext(ctx, &booking, `
			SELECT `+bookingColumns+` FROM slot_bookings
			WHERE id = $1 AND slot_id = $2 AND status = 'CONFIRMED'
			FOR UPDATE`, bookingID, slotID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperror.NotFound("booking not found")
			}
			return fmt.Errorf("lock booking: %w", err)
		}

		err = tx.GetContext(ctx, &booking, `
			UPDATE slot_bookings
			SET status = 'CANCELLED', cancelled_at = NOW(), updated_at = NOW()
			WHERE id = $1
			RETURNING `+bookingColumns, bookingID)
		if err != nil {
			return fmt.Errorf("cancel booking: %w", err)
		}

		s.Release()
		if err := slot.SaveOccupancy(ctx, tx, s); err != nil {
			return err
		}
		out = s
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return &booking, out, nil
}

func (r *repository) ListBySlot(ctx context.Context, slotID string) ([]BookingWithDetails, error) {
	query := `
		SELECT
			b.id, b.slot_id, b.trip_id, b.driver_id, b.container_id,
			b.status, b.created_at, b.updated_at, b.cancelled_at,
			d.name AS driver_name,
			c.cntr_no
		FROM slot_bookings b
		JOIN drivers d ON b.driver_id = d.id
		JOIN containers c ON b.container_id = c.id
		WHERE b.slot_id = $1
		ORDER BY b.created_at DESC`

	bookings := []BookingWithDetails{}
	if err := r.db.SelectContext(ctx, &bookings, query, slotID); err != nil {
		return nil, fmt.Errorf("list slot bookings: %w", err)
	}
	return bookings, nil
}
