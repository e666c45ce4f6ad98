package slot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/abakymuk/DriverOS/internal/api"
	"github.com/abakymuk/DriverOS/internal/apperror"
	"github.com/abakymuk/DriverOS/internal/db"
)

type repository struct {
	db          *sqlx.DB
	maxAttempts int
}

func NewRepository(db *sqlx.DB, maxAttempts int) Repository {
	return &repository{db: db, maxAttempts: maxAttempts}
}

var sortColumns = map[string]string{
	"windowStart": "window_start",
	"capacity":    "capacity",
	"booked":      "booked",
	"status":      "status",
	"createdAt":   "created_at",
}

const insertSlot = `
	INSERT INTO slots (id, terminal_id, window_start, window_end, capacity, booked, status)
	VALUES ($1, $2, $3, $4, $5, $6, $7)`

func (r *repository) Create(ctx context.Context, s Slot) (*Slot, error) {
	var out Slot
	err := r.db.GetContext(ctx, &out, insertSlot+` RETURNING `+slotColumns,
		uuid.NewString(), s.TerminalID, s.WindowStart, s.WindowEnd, s.Capacity, s.Booked, s.Status)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, apperror.Conflict("a slot already covers this window")
		}
		if db.IsForeignKeyViolation(err) {
			return nil, apperror.NotFound("terminal not found")
		}
		return nil, fmt.Errorf("create slot: %w", err)
	}
	return &out, nil
}

func (r *repository) CreateMany(ctx context.Context, slots []Slot) ([]Slot, error) {
	created := []Slot{}
	err := db.WithTx(ctx, r.db, nil, func(tx *sqlx.Tx) error {
		for _, s := range slots {
			var out Slot
			err := tx.GetContext(ctx, &out, insertSlot+`
				ON CONFLICT (terminal_id, window_start, window_end) WHERE deleted_at IS NULL DO NOTHING
				RETURNING `+slotColumns,
				uuid.NewString(), s.TerminalID, s.WindowStart, s.WindowEnd, s.Capacity, s.Booked, s.Status)
			if errors.Is(err, sql.ErrNoRows) {
				continue
			}
			if err != nil {
				return fmt.Errorf("create slot %s: %w", s.WindowStart.Format(time.RFC3339), err)
			}
			created = append(created, out)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Slot, error) {
	var s Slot
	err := r.db.GetContext(ctx, &s, `SELECT `+slotColumns+` FROM slots WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("slot not found")
		}
		return nil, fmt.Errorf("get slot: %w", err)
	}
	return &s, nil
}

func (r *repository) WindowTaken(ctx context.Context, terminalID string, start, end time.Time, exceptID string) (bool, error) {
	return db.Exists(ctx, r.db, `
		SELECT EXISTS(
			SELECT 1 FROM slots
			WHERE terminal_id = $1 AND window_start = $2 AND window_end = $3
			AND deleted_at IS NULL AND id::text <> $4
		)`, terminalID, start, end, exceptID)
}

func (r *repository) List(ctx context.Context, f ListFilter, q api.PageQuery) ([]Slot, int, error) {
	where := `WHERE deleted_at IS NULL`
	args := []any{}
	if f.TerminalID != "" {
		args = append(args, f.TerminalID)
		where += fmt.Sprintf(` AND terminal_id = $%d`, len(args))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		where += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	if f.Date != "" {
		day, err := time.Parse(time.DateOnly, f.Date)
		if err != nil {
			return nil, 0, apperror.Invalid("date must be YYYY-MM-DD")
		}
		args = append(args, day, day.AddDate(0, 0, 1))
		where += fmt.Sprintf(` AND window_start >= $%d AND window_start < $%d`, len(args)-1, len(args))
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM slots `+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count slots: %w", err)
	}

	q = q.Normalize()
	query := fmt.Sprintf(`SELECT %s FROM slots %s ORDER BY %s LIMIT $%d OFFSET $%d`,
		slotColumns, where, q.OrderBy(sortColumns, "window_start"), len(args)+1, len(args)+2)

	var slots []Slot
	if err := r.db.SelectContext(ctx, &slots, query, append(args, q.Limit, q.Offset())...); err != nil {
		return nil, 0, fmt.Errorf("list slots: %w", err)
	}
	return slots, total, nil
}

// ListAvailable returns bookable slots starting in [from, to). An empty
// terminalID searches every terminal.
func (r *repository) ListAvailable(ctx context.Context, terminalID string, from, to time.Time) ([]Slot, error) {
	slots := []Slot{}
	err := r.db.SelectContext(ctx, &slots, `
		SELECT `+slotColumns+` FROM slots
		WHERE deleted_at IS NULL AND status = 'AVAILABLE' AND booked < capacity
		AND window_start >= $1 AND window_start < $2
		AND ($3 = '' OR terminal_id::text = $3)
		ORDER BY window_start ASC`, from, to, terminalID)
	if err != nil {
		return nil, fmt.Errorf("list available slots: %w", err)
	}
	return slots, nil
}

func (r *repository) ListBetween(ctx context.Context, terminalID string, from, to time.Time) ([]Slot, error) {
	slots := []Slot{}
	err := r.db.SelectContext(ctx, &slots, `
		SELECT `+slotColumns+` FROM slots
		WHERE deleted_at IS NULL
		AND window_start >= $1 AND window_start < $2
		AND ($3 = '' OR terminal_id::text = $3)
		ORDER BY window_start ASC`, from, to, terminalID)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	return slots, nil
}

func (r *repository) Mutate(ctx context.Context, id string, fn func(*Slot) error) (*Slot, error) {
	var out *Slot
	err := db.RetryTx(ctx, r.db, r.maxAttempts, func(tx *sqlx.Tx) error {
		s, err := LockByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := fn(s); err != nil {
			return err
		}

		err = tx.GetContext(ctx, s, `
			UPDATE slots SET
				window_start = $2,
				window_end = $3,
				capacity = $4,
				booked = $5,
				status = $6,
				version = version + 1,
				updated_at = NOW()
			WHERE id = $1
			RETURNING `+slotColumns,
			s.ID, s.WindowStart, s.WindowEnd, s.Capacity, s.Booked, s.Status)
		if err != nil {
			if db.IsUniqueViolation(err) {
				return apperror.Conflict("a slot already covers this window")
			}
			if db.IsCheckViolation(err) {
				return apperror.Conflict("slot update violates capacity rules")
			}
			return fmt.Errorf("update slot: %w", err)
		}
		out = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repository) SoftDelete(ctx context.Context, id string) error {
	return db.RetryTx(ctx, r.db, r.maxAttempts, func(tx *sqlx.Tx) error {
		s, err := LockByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if s.Booked > 0 {
			return apperror.Conflict("slot has %d active bookings", s.Booked)
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE slots SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1`, id); err != nil {
			return fmt.Errorf("delete slot: %w", err)
		}
		return nil
	})
}

func (r *repository) Statistics(ctx context.Context, terminalID string) (*Statistics, error) {
	query := `
		SELECT COUNT(*) AS total,
			COUNT(*) FILTER (WHERE status = 'AVAILABLE') AS available,
			COUNT(*) FILTER (WHERE status = 'FULL') AS full,
			COUNT(*) FILTER (WHERE status = 'CLOSED') AS closed,
			COUNT(*) FILTER (WHERE status = 'MAINTENANCE') AS maintenance,
			COALESCE(ROUND(AVG(booked::numeric * 100 / capacity)), 0)::int AS average_utilization
		FROM slots
		WHERE deleted_at IS NULL AND ($1 = '' OR terminal_id::text = $1)`

	var s Statistics
	if err := r.db.GetContext(ctx, &s, query, terminalID); err != nil {
		return nil, fmt.Errorf("slot statistics: %w", err)
	}
	return &s, nil
}
