package trip

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

const tripColumns = `id, driver_id, container_id, pickup_slot_id, return_empty, status, eta, started_at, completed_at, turn_minutes, created_at, updated_at, deleted_at`

// turnMinutesSQL rounds each trip before averaging.
const turnMinutesSQL = `ROUND(EXTRACT(EPOCH FROM (completed_at - started_at)) / 60)`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

var sortColumns = map[string]string{
	"status":      "status",
	"eta":         "eta",
	"startedAt":   "started_at",
	"completedAt": "completed_at",
	"createdAt":   "created_at",
}

func (r *repository) Create(ctx context.Context, req CreateRequest) (*Trip, error) {
	var t Trip
	err := r.db.GetContext(ctx, &t, `
		INSERT INTO trips (id, driver_id, container_id, pickup_slot_id, return_empty, status, eta)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+tripColumns,
		uuid.NewString(), req.DriverID, req.ContainerID, req.PickupSlotID, req.ReturnEmpty, StatusAssigned, req.ETA)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return nil, apperror.NotFound("driver, container or slot not found")
		}
		return nil, fmt.Errorf("create trip: %w", err)
	}
	return &t, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Trip, error) {
	var t Trip
	err := r.db.GetContext(ctx, &t, `SELECT `+tripColumns+` FROM trips WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("trip not found")
		}
		return nil, fmt.Errorf("get trip: %w", err)
	}
	return &t, nil
}

func (r *repository) List(ctx context.Context, f ListFilter, q api.PageQuery) ([]Trip, int, error) {
	where := `WHERE deleted_at IS NULL`
	args := []any{}
	if f.Status != "" {
		args = append(args, f.Status)
		where += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	if f.DriverID != "" {
		args = append(args, f.DriverID)
		where += fmt.Sprintf(` AND driver_id = $%d`, len(args))
	}
	if f.ContainerID != "" {
		args = append(args, f.ContainerID)
		where += fmt.Sprintf(` AND container_id = $%d`, len(args))
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM trips `+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count trips: %w", err)
	}

	q = q.Normalize()
	query := fmt.Sprintf(`SELECT %s FROM trips %s ORDER BY %s LIMIT $%d OFFSET $%d`,
		tripColumns, where, q.OrderBy(sortColumns, "created_at"), len(args)+1, len(args)+2)

	var trips []Trip
	if err := r.db.SelectContext(ctx, &trips, query, append(args, q.Limit, q.Offset())...); err != nil {
		return nil, 0, fmt.Errorf("list trips: %w", err)
	}
	return trips, total, nil
}

func (r *repository) ListByStatus(ctx context.Context, statuses ...string) ([]Trip, error) {
	trips := []Trip{}
	err := r.db.SelectContext(ctx, &trips, `
		SELECT `+tripColumns+` FROM trips
		WHERE deleted_at IS NULL AND status = ANY($1)
		ORDER BY COALESCE(completed_at, created_at) DESC`, pq.Array(statuses))
	if err != nil {
		return nil, fmt.Errorf("list trips by status: %w", err)
	}
	return trips, nil
}

func (r *repository) ListByDriver(ctx context.Context, driverID string) ([]Trip, error) {
	trips := []Trip{}
	err := r.db.SelectContext(ctx, &trips, `
		SELECT `+tripColumns+` FROM trips
		WHERE deleted_at IS NULL AND driver_id = $1
		ORDER BY created_at DESC`, driverID)
	if err != nil {
		return nil, fmt.Errorf("list driver trips: %w", err)
	}
	return trips, nil
}

func (r *repository) ListByContainer(ctx context.Context, containerID string) ([]Trip, error) {
	trips := []Trip{}
	err := r.db.SelectContext(ctx, &trips, `
		SELECT `+tripColumns+` FROM trips
		WHERE deleted_at IS NULL AND container_id = $1
		ORDER BY created_at DESC`, containerID)
	if err != nil {
		return nil, fmt.Errorf("list container trips: %w", err)
	}
	return trips, nil
}

func (r *repository) Update(ctx context.Context, id string, req UpdateRequest) (*Trip, error) {
	query := `
		UPDATE trips SET
			driver_id = COALESCE($2, driver_id),
			container_id = COALESCE($3, container_id),
			pickup_slot_id = COALESCE($4, pickup_slot_id),
			return_empty = COALESCE($5, return_empty),
			eta = COALESCE($6, eta),
			updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING ` + tripColumns

	var t Trip
	err := r.db.GetContext(ctx, &t, query,
		id, req.DriverID, req.ContainerID, req.PickupSlotID, req.ReturnEmpty, req.ETA)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("trip not found")
		}
		if db.IsForeignKeyViolation(err) {
			return nil, apperror.NotFound("driver, container or slot not found")
		}
		return nil, fmt.Errorf("update trip: %w", err)
	}
	return &t, nil
}

func (r *repository) SaveProgress(ctx context.Context, t *Trip) (*Trip, error) {
	var out Trip
	err := r.db.GetContext(ctx, &out, `
		UPDATE trips SET
			status = $2,
			started_at = $3,
			completed_at = $4,
			turn_minutes = $5,
			updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING `+tripColumns,
		t.ID, t.Status, t.StartedAt, t.CompletedAt, t.TurnMinutes)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("trip not found")
		}
		return nil, fmt.Errorf("save trip progress: %w", err)
	}
	return &out, nil
}

func (r *repository) SoftDelete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE trips SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("delete trip: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete trip: %w", err)
	}
	if n == 0 {
		return apperror.NotFound("trip not found")
	}
	return nil
}

func (r *repository) AddEvent(ctx context.Context, e Event) (*Event, error) {
	var out Event
	err := r.db.GetContext(ctx, &out, `
		INSERT INTO trip_events (id, trip_id, type, timestamp, location, metadata)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, trip_id, type, timestamp, location, metadata`,
		uuid.NewString(), e.TripID, e.Type, e.Timestamp, nullJSON(e.Location), nullJSON(e.Metadata))
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return nil, apperror.NotFound("trip not found")
		}
		return nil, fmt.Errorf("add trip event: %w", err)
	}
	return &out, nil
}

func (r *repository) ListEvents(ctx context.Context, tripID string) ([]Event, error) {
	evs := []Event{}
	err := r.db.SelectContext(ctx, &evs, `
		SELECT id, trip_id, type, timestamp, location, metadata
		FROM trip_events WHERE trip_id = $1
		ORDER BY timestamp DESC`, tripID)
	if err != nil {
		return nil, fmt.Errorf("list trip events: %w", err)
	}
	return evs, nil
}

func (r *repository) UpsertMetrics(ctx context.Context, m Metrics) (*Metrics, error) {
	var out Metrics
	err := r.db.GetContext(ctx, &out, `
		INSERT INTO trip_metrics (trip_id, total_distance, estimated_duration, actual_duration, fuel_consumption, carbon_footprint)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (trip_id) DO UPDATE SET
			total_distance = EXCLUDED.total_distance,
			estimated_duration = EXCLUDED.estimated_duration,
			actual_duration = EXCLUDED.actual_duration,
			fuel_consumption = EXCLUDED.fuel_consumption,
			carbon_footprint = EXCLUDED.carbon_footprint,
			updated_at = NOW()
		RETURNING trip_id, total_distance, estimated_duration, actual_duration, fuel_consumption, carbon_footprint, updated_at`,
		m.TripID, m.TotalDistance, m.EstimatedDuration, m.ActualDuration, m.FuelConsumption, m.CarbonFootprint)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return nil, apperror.NotFound("trip not found")
		}
		return nil, fmt.Errorf("upsert trip metrics: %w", err)
	}
	return &out, nil
}

func (r *repository) Statistics(ctx context.Context) (*Statistics, error) {
	var s Statistics
	err := r.db.GetContext(ctx, &s, `
		SELECT COUNT(*) AS total,
			COUNT(*) FILTER (WHERE status = 'ASSIGNED') AS assigned,
			COUNT(*) FILTER (WHERE status = ANY($1)) AS in_progress,
			COUNT(*) FILTER (WHERE status = 'COMPLETED') AS completed,
			COUNT(*) FILTER (WHERE status = 'FAILED') AS failed,
			COUNT(*) FILTER (WHERE status = 'CANCELLED') AS cancelled,
			COALESCE(ROUND(AVG(`+turnMinutesSQL+`)), 0)::int AS average_turn_time
		FROM trips
		WHERE deleted_at IS NULL`, pq.Array(InProgress))
	if err != nil {
		return nil, fmt.Errorf("trip statistics: %w", err)
	}
	return &s, nil
}

func (r *repository) DriverPerformance(ctx context.Context, driverID string) (*DriverPerformance, error) {
	var p DriverPerformance
	err := r.db.GetContext(ctx, &p, `
		SELECT $1::uuid AS driver_id,
			COUNT(t.id) AS total_trips,
			COUNT(t.id) FILTER (WHERE t.status = 'COMPLETED') AS completed_trips,
			COUNT(t.id) FILTER (WHERE t.status = 'FAILED') AS failed_trips,
			COALESCE(ROUND(AVG(ROUND(EXTRACT(EPOCH FROM (t.completed_at - t.started_at)) / 60))), 0)::int AS average_turn_time,
			COALESCE(SUM(m.total_distance), 0) AS total_distance
		FROM trips t
		LEFT JOIN trip_metrics m ON m.trip_id = t.id
		WHERE t.deleted_at IS NULL AND t.driver_id = $1`, driverID)
	if err != nil {
		return nil, fmt.Errorf("driver performance: %w", err)
	}
	return &p, nil
}

// nullJSON stores an absent document as SQL NULL rather than an empty string.
func nullJSON(j []byte) any {
	if len(j) == 0 {
		return nil
	}
	return string(j)
}
