package driver

import "time"

const (
	StatusActive    = "ACTIVE"
	StatusInactive  = "INACTIVE"
	StatusSuspended = "SUSPENDED"
	StatusOnTrip    = "ON_TRIP"
)

const (
	AvailabilityAvailable = "AVAILABLE"
	AvailabilityBusy      = "BUSY"
	AvailabilityOffDuty   = "OFF_DUTY"
	AvailabilitySick      = "SICK_LEAVE"
)

type Driver struct {
	ID            string     `db:"id" json:"id"`
	Name          string     `db:"name" json:"name"`
	Phone         *string    `db:"phone" json:"phone,omitempty"`
	Email         *string    `db:"email" json:"email,omitempty"`
	Status        string     `db:"status" json:"status"`
	LicenseNumber string     `db:"license_number" json:"licenseNumber"`
	LicenseExpiry time.Time  `db:"license_expiry" json:"licenseExpiry"`
	CarrierID     string     `db:"carrier_id" json:"carrierId"`
	CreatedAt     time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updatedAt"`
	DeletedAt     *time.Time `db:"deleted_at" json:"-"`
}

// Availability is a window in which a driver can take trips.
type Availability struct {
	ID        string    `db:"id" json:"id"`
	DriverID  string    `db:"driver_id" json:"driverId"`
	Date      time.Time `db:"date" json:"date"`
	StartTime string    `db:"start_time" json:"startTime"`
	EndTime   string    `db:"end_time" json:"endTime"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type CreateRequest struct {
	Name          string    `json:"name" binding:"required,min=2,max=100" example:"Maria Lopez"`
	Phone         *string   `json:"phone" binding:"omitempty,max=30"`
	Email         *string   `json:"email" binding:"omitempty,email"`
	LicenseNumber string    `json:"licenseNumber" binding:"required,min=4,max=50" example:"CDL-A-99812"`
	LicenseExpiry time.Time `json:"licenseExpiry" binding:"required"`
	CarrierID     string    `json:"carrierId" binding:"required,max=50" example:"SCAC-ABCD"`
}

type UpdateRequest struct {
	Name          *string    `json:"name" binding:"omitempty,min=2,max=100"`
	Phone         *string    `json:"phone" binding:"omitempty,max=30"`
	Email         *string    `json:"email" binding:"omitempty,email"`
	LicenseNumber *string    `json:"licenseNumber" binding:"omitempty,min=4,max=50"`
	LicenseExpiry *time.Time `json:"licenseExpiry"`
	CarrierID     *string    `json:"carrierId" binding:"omitempty,max=50"`
}

type StatusRequest struct {
	Status string `json:"status" binding:"required,oneof=ACTIVE INACTIVE SUSPENDED ON_TRIP"`
}

type AvailabilityRequest struct {
	Date      string `json:"date" binding:"required,datetime=2006-01-02" example:"2025-03-14"`
	StartTime string `json:"startTime" binding:"required,hhmm" example:"06:00"`
	EndTime   string `json:"endTime" binding:"required,hhmm" example:"14:00"`
	Status    string `json:"status" binding:"omitempty,oneof=AVAILABLE BUSY OFF_DUTY SICK_LEAVE"`
}

type ListFilter struct {
	Status    string `form:"status" binding:"omitempty,oneof=ACTIVE INACTIVE SUSPENDED ON_TRIP"`
	CarrierID string `form:"carrierId"`
}
