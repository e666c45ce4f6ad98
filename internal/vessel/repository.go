package vessel

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

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

const vesselColumns = `id, name, eta, terminal_id, status, container_count, created_at, updated_at, deleted_at`

var sortColumns = map[string]string{
	"name":      "name",
	"eta":       "eta",
	"status":    "status",
	"createdAt": "created_at",
}

func (r *repository) Create(ctx context.Context, req CreateRequest) (*Vessel, error) {
	query := `
		INSERT INTO vessels (id, name, eta, terminal_id, status, container_count)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + vesselColumns

	status := req.Status
	if status == "" {
		status = StatusArriving
	}

	var v Vessel
	err := r.db.GetContext(ctx, &v, query, uuid.NewString(), req.Name, req.ETA, req.TerminalID, status, req.ContainerCount)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return nil, apperror.NotFound("terminal not found")
		}
		return nil, fmt.Errorf("create vessel: %w", err)
	}
	return &v, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Vessel, error) {
	var v Vessel
	err := r.db.GetContext(ctx, &v, `SELECT `+vesselColumns+` FROM vessels WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("vessel not found")
		}
		return nil, fmt.Errorf("get vessel: %w", err)
	}
	return &v, nil
}

func (r *repository) List(ctx context.Context, f ListFilter, q api.PageQuery) ([]Vessel, int, error) {
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

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM vessels `+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count vessels: %w", err)
	}

	q = q.Normalize()
	query := fmt.Sprintf(`SELECT %s FROM vessels %s ORDER BY %s LIMIT $%d OFFSET $%d`,
		vesselColumns, where, q.OrderBy(sortColumns, "created_at"), len(args)+1, len(args)+2)

	var vessels []Vessel
	if err := r.db.SelectContext(ctx, &vessels, query, append(args, q.Limit, q.Offset())...); err != nil {
		return nil, 0, fmt.Errorf("list vessels: %w", err)
	}
	return vessels, total, nil
}

// ListActive returns vessels not yet departed, soonest first. An empty
// terminalID lists every terminal.
func (r *repository) ListActive(ctx context.Context, terminalID string) ([]Vessel, error) {
	query := `SELECT ` + vesselColumns + ` FROM vessels
		WHERE deleted_at IS NULL AND status = ANY($1)
		AND ($2 = '' OR terminal_id::text = $2)
		ORDER BY eta ASC`

	vessels := []Vessel{}
	if err := r.db.SelectContext(ctx, &vessels, query, pq.Array(ActiveStatuses), terminalID); err != nil {
		return nil, fmt.Errorf("list active vessels: %w", err)
	}
	return vessels, nil
}

func (r *repository) Update(ctx context.Context, id string, req UpdateRequest) (*Vessel, error) {
	query := `
		UPDATE vessels SET
			name = COALESCE($2, name),
			eta = COALESCE($3, eta),
			terminal_id = COALESCE($4, terminal_id),
			container_count = COALESCE($5, container_count),
			updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING ` + vesselColumns

	var v Vessel
	err := r.db.GetContext(ctx, &v, query, id, req.Name, req.ETA, req.TerminalID, req.ContainerCount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("vessel not found")
		}
		return nil, fmt.Errorf("update vessel: %w", err)
	}
	return &v, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id, status string) (*Vessel, error) {
	query := `UPDATE vessels SET status = $2, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING ` + vesselColumns

	var v Vessel
	if err := r.db.GetContext(ctx, &v, query, id, status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("vessel not found")
		}
		return nil, fmt.Errorf("update vessel status: %w", err)
	}
	return &v, nil
}

func (r *repository) SoftDelete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE vessels SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("delete vessel: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NotFound("vessel not found")
	}
	return nil
}

func (r *repository) ContainerCounts(ctx context.Context, id string) (*ContainerCounts, error) {
	query := `
		SELECT COUNT(*) AS total,
			COUNT(*) FILTER (WHERE status = 'READY') AS ready,
			COUNT(*) FILTER (WHERE hold) AS hold
		FROM containers
		WHERE vessel_id = $1 AND deleted_at IS NULL`

	var c ContainerCounts
	if err := r.db.GetContext(ctx, &c, query, id); err != nil {
		return nil, fmt.Errorf("count vessel containers: %w", err)
	}
	return &c, nil
}

const scheduleColumns = `id, vessel_id, terminal_id, eta, etd, actual_arrival, actual_departure, status, created_at`

func (r *repository) CreateSchedule(ctx context.Context, s Schedule) (*Schedule, error) {
	query := `
		INSERT INTO vessel_schedules (id, vessel_id, terminal_id, eta, etd, actual_arrival, actual_departure, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + scheduleColumns

	var out Schedule
	err := r.db.GetContext(ctx, &out, query,
		uuid.NewString(), s.VesselID, s.TerminalID, s.ETA, s.ETD, s.ActualArrival, s.ActualDeparture, s.Status)
	if err != nil {
		return nil, fmt.Errorf("create vessel schedule: %w", err)
	}
	return &out, nil
}

func (r *repository) ListSchedules(ctx context.Context, vesselID string) ([]Schedule, error) {
	schedules := []Schedule{}
	err := r.db.SelectContext(ctx, &schedules,
		`SELECT `+scheduleColumns+` FROM vessel_schedules WHERE vessel_id = $1 ORDER BY eta ASC`, vesselID)
	if err != nil {
		return nil, fmt.Errorf("list vessel schedules: %w", err)
	}
	return schedules, nil
}
