package slot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/abakymuk/DriverOS/internal/apperror"
)

const slotColumns = `id, terminal_id, window_start, window_end, capacity, booked, status, version, created_at, updated_at, deleted_at`

// LockByID reads a live slot with FOR UPDATE inside tx. Callers changing
// occupancy must go through it so concurrent writers queue on the row.
func LockByID(ctx context.Context, tx *sqlx.Tx, id string) (*Slot, error) {
	var s Slot
	err := tx.GetContext(ctx, &s,
		`SELECT `+slotColumns+` FROM slots WHERE id = $1 AND deleted_at IS NULL FOR UPDATE`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("slot not found")
		}
		return nil, fmt.Errorf("lock slot: %w", err)
	}
	return &s, nil
}

// SaveOccupancy writes booked, status and capacity back and bumps version.
func SaveOccupancy(ctx context.Context, tx *sqlx.Tx, s *Slot) error {
	err := tx.GetContext(ctx, s, `
		UPDATE slots SET
			capacity = $2,
			booked = $3,
			status = $4,
			version = version + 1,
			updated_at = NOW()
		WHERE id = $1
		RETURNING `+slotColumns,
		s.ID, s.Capacity, s.Booked, s.Status)
	if err != nil {
		return fmt.Errorf("save slot occupancy: %w", err)
	}
	return nil
}
