package driver

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

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

const driverColumns = `id, name, phone, email, status, license_number, license_expiry, carrier_id, created_at, updated_at, deleted_at`

var sortColumns = map[string]string{
	"name":          "name",
	"status":        "status",
	"carrierId":     "carrier_id",
	"licenseExpiry": "license_expiry",
	"createdAt":     "created_at",
}

func (r *repository) Create(ctx context.Context, req CreateRequest) (*Driver, error) {
	query := `
		INSERT INTO drivers (id, name, phone, email, status, license_number, license_expiry, carrier_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + driverColumns

	var d Driver
	err := r.db.GetContext(ctx, &d, query,
		uuid.NewString(), req.Name, req.Phone, req.Email, StatusActive, req.LicenseNumber, req.LicenseExpiry, req.CarrierID)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, apperror.Conflict("license %s is already registered", req.LicenseNumber)
		}
		return nil, fmt.Errorf("create driver: %w", err)
	}
	return &d, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Driver, error) {
	var d Driver
	err := r.db.GetContext(ctx, &d, `SELECT `+driverColumns+` FROM drivers WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("driver not found")
		}
		return nil, fmt.Errorf("get driver: %w", err)
	}
	return &d, nil
}

func (r *repository) LicenseTaken(ctx context.Context, license, exceptID string) (bool, error) {
	return db.Exists(ctx, r.db, `
		SELECT EXISTS(
			SELECT 1 FROM drivers
			WHERE license_number = $1 AND deleted_at IS NULL AND id::text <> $2
		)`, license, exceptID)
}

func (r *repository) List(ctx context.Context, f ListFilter, q api.PageQuery) ([]Driver, int, error) {
	where := `WHERE deleted_at IS NULL`
	args := []any{}
	if f.Status != "" {
		args = append(args, f.Status)
		where += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	if f.CarrierID != "" {
		args = append(args, f.CarrierID)
		where += fmt.Sprintf(` AND carrier_id = $%d`, len(args))
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM drivers `+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count drivers: %w", err)
	}

	q = q.Normalize()
	query := fmt.Sprintf(`SELECT %s FROM drivers %s ORDER BY %s LIMIT $%d OFFSET $%d`,
		driverColumns, where, q.OrderBy(sortColumns, "created_at"), len(args)+1, len(args)+2)

	var drivers []Driver
	if err := r.db.SelectContext(ctx, &drivers, query, append(args, q.Limit, q.Offset())...); err != nil {
		return nil, 0, fmt.Errorf("list drivers: %w", err)
	}
	return drivers, total, nil
}

// ListAvailable returns ACTIVE drivers holding an AVAILABLE window on date.
func (r *repository) ListAvailable(ctx context.Context, date time.Time) ([]Driver, error) {
	query := `
		SELECT ` + driverColumns + ` FROM drivers d
		WHERE d.deleted_at IS NULL AND d.status = 'ACTIVE'
		AND EXISTS (
			SELECT 1 FROM driver_availability a
			WHERE a.driver_id = d.id AND a.date = $1 AND a.status = 'AVAILABLE'
		)
		ORDER BY d.name ASC`

	drivers := []Driver{}
	if err := r.db.SelectContext(ctx, &drivers, query, date.Format(time.DateOnly)); err != nil {
		return nil, fmt.Errorf("list available drivers: %w", err)
	}
	return drivers, nil
}

func (r *repository) ListByStatus(ctx context.Context, statuses ...string) ([]Driver, error) {
	drivers := []Driver{}
	err := r.db.SelectContext(ctx, &drivers,
		`SELECT `+driverColumns+` FROM drivers WHERE deleted_at IS NULL AND status = ANY($1) ORDER BY name ASC`,
		pq.Array(statuses))
	if err != nil {
		return nil, fmt.Errorf("list drivers by status: %w", err)
	}
	return drivers, nil
}

func (r *repository) Update(ctx context.Context, id string, req UpdateRequest) (*Driver, error) {
	query := `
		UPDATE drivers SET
			name = COALESCE($2, name),
			phone = COALESCE($3, phone),
			email = COALESCE($4, email),
			license_number = COALESCE($5, license_number),
			license_expiry = COALESCE($6, license_expiry),
			carrier_id = COALESCE($7, carrier_id),
			updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING ` + driverColumns

	var d Driver
	err := r.db.GetContext(ctx, &d, query,
		id, req.Name, req.Phone, req.Email, req.LicenseNumber, req.LicenseExpiry, req.CarrierID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("driver not found")
		}
		if db.IsUniqueViolation(err) {
			return nil, apperror.Conflict("license is already registered")
		}
		return nil, fmt.Errorf("update driver: %w", err)
	}
	return &d, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id, status string) (*Driver, error) {
	var d Driver
	err := r.db.GetContext(ctx, &d, `
		UPDATE drivers SET status = $2, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING `+driverColumns, id, status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("driver not found")
		}
		return nil, fmt.Errorf("update driver status: %w", err)
	}
	return &d, nil
}

func (r *repository) SoftDelete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE drivers SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("delete driver: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NotFound("driver not found")
	}
	return nil
}

const availabilityColumns = `id, driver_id, date, start_time, end_time, status, created_at`

func (r *repository) AddAvailability(ctx context.Context, a Availability) (*Availability, error) {
	var out Availability
	err := r.db.GetContext(ctx, &out, `
		INSERT INTO driver_availability (id, driver_id, date, start_time, end_time, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+availabilityColumns,
		uuid.NewString(), a.DriverID, a.Date.Format(time.DateOnly), a.StartTime, a.EndTime, a.Status)
	if err != nil {
		return nil, fmt.Errorf("add driver availability: %w", err)
	}
	return &out, nil
}

func (r *repository) ListAvailability(ctx context.Context, driverID string, from time.Time) ([]Availability, error) {
	windows := []Availability{}
	err := r.db.SelectContext(ctx, &windows, `
		SELECT `+availabilityColumns+` FROM driver_availability
		WHERE driver_id = $1 AND date >= $2
		ORDER BY date ASC, start_time ASC`, driverID, from.Format(time.DateOnly))
	if err != nil {
		return nil, fmt.Errorf("list driver availability: %w", err)
	}
	return windows, nil
}
