package container

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

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

const containerColumns = `id, cntr_no, type, line, ready_at, hold, status, terminal_id, vessel_id, created_at, updated_at, deleted_at`

var sortColumns = map[string]string{
	"cntrNo":    "cntr_no",
	"line":      "line",
	"status":    "status",
	"readyAt":   "ready_at",
	"createdAt": "created_at",
}

func (r *repository) Create(ctx context.Context, req CreateRequest) (*Container, error) {
	query := `
		INSERT INTO containers (id, cntr_no, type, line, ready_at, status, terminal_id, vessel_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + containerColumns

	var c Container
	err := r.db.GetContext(ctx, &c, query,
		uuid.NewString(), req.CntrNo, req.Type, req.Line, req.ReadyAt, StatusNotReady, req.TerminalID, req.VesselID)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, apperror.Conflict("container %s already exists", req.CntrNo)
		}
		if db.IsForeignKeyViolation(err) {
			return nil, apperror.NotFound("terminal or vessel not found")
		}
		return nil, fmt.Errorf("create container: %w", err)
	}
	return &c, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Container, error) {
	return r.findOne(ctx, `SELECT `+containerColumns+` FROM containers WHERE id = $1 AND deleted_at IS NULL`, id)
}

func (r *repository) GetByNumber(ctx context.Context, cntrNo string) (*Container, error) {
	return r.findOne(ctx, `SELECT `+containerColumns+` FROM containers WHERE cntr_no = $1 AND deleted_at IS NULL`, cntrNo)
}

func (r *repository) findOne(ctx context.Context, query string, arg any) (*Container, error) {
	var c Container
	if err := r.db.GetContext(ctx, &c, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("container not found")
		}
		return nil, fmt.Errorf("get container: %w", err)
	}
	return &c, nil
}

func (r *repository) List(ctx context.Context, f ListFilter, q api.PageQuery) ([]Container, int, error) {
	where := `WHERE deleted_at IS NULL`
	args := []any{}
	add := func(cond string, v any) {
		args = append(args, v)
		where += fmt.Sprintf(" AND "+cond, len(args))
	}
	if f.TerminalID != "" {
		add("terminal_id = $%d", f.TerminalID)
	}
	if f.VesselID != "" {
		add("vessel_id = $%d", f.VesselID)
	}
	if f.Status != "" {
		add("status = $%d", f.Status)
	}
	if f.Line != "" {
		add("line = $%d", f.Line)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM containers `+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count containers: %w", err)
	}

	q = q.Normalize()
	query := fmt.Sprintf(`SELECT %s FROM containers %s ORDER BY %s LIMIT $%d OFFSET $%d`,
		containerColumns, where, q.OrderBy(sortColumns, "created_at"), len(args)+1, len(args)+2)

	var containers []Container
	if err := r.db.SelectContext(ctx, &containers, query, append(args, q.Limit, q.Offset())...); err != nil {
		return nil, 0, fmt.Errorf("list containers: %w", err)
	}
	return containers, total, nil
}

func (r *repository) Update(ctx context.Context, id string, req UpdateRequest) (*Container, error) {
	query := `
		UPDATE containers SET
			type = COALESCE($2, type),
			line = COALESCE($3, line),
			ready_at = COALESCE($4, ready_at),
			terminal_id = COALESCE($5, terminal_id),
			vessel_id = COALESCE($6, vessel_id),
			updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING ` + containerColumns

	var c Container
	err := r.db.GetContext(ctx, &c, query, id, req.Type, req.Line, req.ReadyAt, req.TerminalID, req.VesselID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("container not found")
		}
		if db.IsForeignKeyViolation(err) {
			return nil, apperror.NotFound("terminal or vessel not found")
		}
		return nil, fmt.Errorf("update container: %w", err)
	}
	return &c, nil
}

// UpdateStatus stamps ready_at the first time a container becomes READY.
func (r *repository) UpdateStatus(ctx context.Context, id, status string) (*Container, error) {
	query := `
		UPDATE containers SET
			status = $2,
			ready_at = CASE WHEN $3 AND ready_at IS NULL THEN NOW() ELSE ready_at END,
			updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING ` + containerColumns

	var c Container
	if err := r.db.GetContext(ctx, &c, query, id, status, status == StatusReady); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("container not found")
		}
		return nil, fmt.Errorf("update container status: %w", err)
	}
	return &c, nil
}

func (r *repository) SoftDelete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE containers SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("delete container: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NotFound("container not found")
	}
	return nil
}

func (r *repository) Statistics(ctx context.Context, terminalID string) (*Statistics, error) {
	query := `
		SELECT COUNT(*) AS total,
			COUNT(*) FILTER (WHERE status = 'READY') AS ready,
			COUNT(*) FILTER (WHERE status = 'NOT_READY') AS not_ready,
			COUNT(*) FILTER (WHERE hold) AS hold,
			COUNT(*) FILTER (WHERE status = 'PICKED') AS picked,
			COUNT(*) FILTER (WHERE status = 'DELIVERED') AS delivered
		FROM containers
		WHERE deleted_at IS NULL AND ($1 = '' OR terminal_id::text = $1)`

	var s Statistics
	if err := r.db.GetContext(ctx, &s, query, terminalID); err != nil {
		return nil, fmt.Errorf("container statistics: %w", err)
	}
	return &s, nil
}

const holdColumns = `id, container_id, reason, description, created_at, resolved_at`

func (r *repository) AddHold(ctx context.Context, containerID string, req HoldRequest) (*Hold, error) {
	var h Hold
	err := db.WithTx(ctx, r.db, nil, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE containers SET hold = TRUE, status = 'HOLD', updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`,
			containerID)
		if err != nil {
			return fmt.Errorf("flag container hold: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return apperror.NotFound("container not found")
		}

		return tx.GetContext(ctx, &h, `
			INSERT INTO container_holds (id, container_id, reason, description)
			VALUES ($1, $2, $3, $4)
			RETURNING `+holdColumns,
			uuid.NewString(), containerID, req.Reason, req.Description)
	})
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *repository) ResolveHold(ctx context.Context, containerID, holdID string) (*Hold, bool, error) {
	var (
		h       Hold
		cleared bool
	)
	err := db.WithTx(ctx, r.db, nil, func(tx *sqlx.Tx) error {
		// AddHold takes the same row lock first, so the open-hold check
		// below sees every hold committed before it.
		var id string
		err := tx.GetContext(ctx, &id,
			`SELECT id FROM containers WHERE id = $1 AND deleted_at IS NULL FOR UPDATE`, containerID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperror.NotFound("container not found")
			}
			return fmt.Errorf("lock container: %w", err)
		}

		err = tx.GetContext(ctx, &h, `
			UPDATE container_holds SET resolved_at = NOW()
			WHERE id = $1 AND container_id = $2 AND resolved_at IS NULL
			RETURNING `+holdColumns, holdID, containerID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperror.NotFound("open hold not found")
			}
			return fmt.Errorf("resolve hold: %w", err)
		}

		open, err := db.Exists(ctx, tx,
			`SELECT EXISTS(SELECT 1 FROM container_holds WHERE container_id = $1 AND resolved_at IS NULL)`, containerID)
		if err != nil {
			return fmt.Errorf("check open holds: %w", err)
		}
		if open {
			return nil
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE containers SET hold = FALSE, status = 'NOT_READY', updated_at = NOW() WHERE id = $1`, containerID)
		if err != nil {
			return fmt.Errorf("release container hold: %w", err)
		}
		cleared = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return &h, cleared, nil
}

func (r *repository) ListHolds(ctx context.Context, containerID string) ([]Hold, error) {
	holds := []Hold{}
	err := r.db.SelectContext(ctx, &holds,
		`SELECT `+holdColumns+` FROM container_holds WHERE container_id = $1 ORDER BY created_at DESC`, containerID)
	if err != nil {
		return nil, fmt.Errorf("list holds: %w", err)
	}
	return holds, nil
}
