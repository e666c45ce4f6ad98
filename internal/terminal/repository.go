package terminal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/abakymuk/DriverOS/internal/api"
	"github.com/abakymuk/DriverOS/internal/apperror"
	"github.com/abakymuk/DriverOS/internal/db"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const terminalColumns = `id, name, code, capacity, timezone, status, created_at, updated_at, deleted_at`

var sortColumns = map[string]string{
	"name":      "name",
	"code":      "code",
	"capacity":  "capacity",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

func (r *repository) Create(ctx context.Context, req CreateRequest) (*Terminal, error) {
	query := `
		INSERT INTO terminals (id, name, code, capacity, timezone, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + terminalColumns

	tz := req.Timezone
	if tz == "" {
		tz = "UTC"
	}
	status := req.Status
	if status == "" {
		status = StatusActive
	}

	var t Terminal
	err := r.db.GetContext(ctx, &t, query, uuid.NewString(), req.Name, strings.ToUpper(req.Code), req.Capacity, tz, status)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, apperror.Conflict("terminal with code %s already exists", strings.ToUpper(req.Code))
		}
		return nil, fmt.Errorf("create terminal: %w", err)
	}
	return &t, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Terminal, error) {
	return r.findOne(ctx, `SELECT `+terminalColumns+` FROM terminals WHERE id = $1 AND deleted_at IS NULL`, id)
}

func (r *repository) GetByCode(ctx context.Context, code string) (*Terminal, error) {
	return r.findOne(ctx, `SELECT `+terminalColumns+` FROM terminals WHERE code = $1 AND deleted_at IS NULL`, strings.ToUpper(code))
}

func (r *repository) findOne(ctx context.Context, query string, arg any) (*Terminal, error) {
	var t Terminal
	if err := r.db.GetContext(ctx, &t, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("terminal not found")
		}
		return nil, fmt.Errorf("get terminal: %w", err)
	}
	return &t, nil
}

func (r *repository) List(ctx context.Context, f ListFilter, q api.PageQuery) ([]Terminal, int, error) {
	where := `WHERE deleted_at IS NULL`
	args := []any{}
	if f.Status != "" {
		args = append(args, f.Status)
		where += fmt.Sprintf(` AND status = $%d`, len(args))
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM terminals `+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count terminals: %w", err)
	}

	q = q.Normalize()
	query := fmt.Sprintf(`SELECT %s FROM terminals %s ORDER BY %s LIMIT $%d OFFSET $%d`,
		terminalColumns, where, q.OrderBy(sortColumns, "created_at"), len(args)+1, len(args)+2)

	var terminals []Terminal
	if err := r.db.SelectContext(ctx, &terminals, query, append(args, q.Limit, q.Offset())...); err != nil {
		return nil, 0, fmt.Errorf("list terminals: %w", err)
	}
	return terminals, total, nil
}

func (r *repository) Update(ctx context.Context, id string, req UpdateRequest) (*Terminal, error) {
	query := `
		UPDATE terminals SET
			name = COALESCE($2, name),
			code = COALESCE($3, code),
			capacity = COALESCE($4, capacity),
			timezone = COALESCE($5, timezone),
			status = COALESCE($6, status),
			updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING ` + terminalColumns

	var code *string
	if req.Code != nil {
		upper := strings.ToUpper(*req.Code)
		code = &upper
	}

	var t Terminal
	err := r.db.GetContext(ctx, &t, query, id, req.Name, code, req.Capacity, req.Timezone, req.Status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("terminal not found")
		}
		if db.IsUniqueViolation(err) {
			return nil, apperror.Conflict("terminal code already in use")
		}
		return nil, fmt.Errorf("update terminal: %w", err)
	}
	return &t, nil
}

func (r *repository) SoftDelete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE terminals SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("delete terminal: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete terminal: %w", err)
	}
	if n == 0 {
		return apperror.NotFound("terminal not found")
	}
	return nil
}

func (r *repository) CountContainers(ctx context.Context, id string) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n,
		`SELECT COUNT(*) FROM containers WHERE terminal_id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return 0, fmt.Errorf("count terminal containers: %w", err)
	}
	return n, nil
}

const settingsColumns = `terminal_id, slot_duration, max_slots_per_window, operating_hours, closed_days, special_rules, updated_at`

func (r *repository) GetSettings(ctx context.Context, id string) (*Settings, error) {
	var s Settings
	err := r.db.GetContext(ctx, &s, `SELECT `+settingsColumns+` FROM terminal_settings WHERE terminal_id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("terminal settings not configured")
		}
		return nil, fmt.Errorf("get terminal settings: %w", err)
	}
	return &s, nil
}

func (r *repository) UpsertSettings(ctx context.Context, s Settings) (*Settings, error) {
	query := `
		INSERT INTO terminal_settings (terminal_id, slot_duration, max_slots_per_window, operating_hours, closed_days, special_rules)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (terminal_id) DO UPDATE SET
			slot_duration = EXCLUDED.slot_duration,
			max_slots_per_window = EXCLUDED.max_slots_per_window,
			operating_hours = EXCLUDED.operating_hours,
			closed_days = EXCLUDED.closed_days,
			special_rules = EXCLUDED.special_rules,
			updated_at = NOW()
		RETURNING ` + settingsColumns

	var out Settings
	err := r.db.GetContext(ctx, &out, query,
		s.TerminalID, s.SlotDuration, s.MaxSlotsPerWindow, s.OperatingHours, s.ClosedDays, s.SpecialRules)
	if err != nil {
		return nil, fmt.Errorf("save terminal settings: %w", err)
	}
	return &out, nil
}
