package trip

import (
	"math"
	"slices"
	"time"

	"github.com/jmoiron/sqlx/types"
)

const (
	StatusAssigned   = "ASSIGNED"
	StatusStarted    = "STARTED"
	StatusEnRoute    = "EN_ROUTE"
	StatusGateReady  = "GATE_READY"
	StatusAtGate     = "AT_GATE"
	StatusProcessing = "PROCESSING"
	StatusCompleted  = "COMPLETED"
	StatusFailed     = "FAILED"
	StatusCancelled  = "CANCELLED"
)

var (
	// ActiveStatuses covers trips that still need a driver's attention.
	ActiveStatuses   = []string{StatusAssigned, StatusStarted, StatusEnRoute, StatusGateReady, StatusAtGate, StatusProcessing}
	InProgress       = []string{StatusStarted, StatusEnRoute, StatusGateReady, StatusAtGate, StatusProcessing}
	FinishedStatuses = []string{StatusCompleted, StatusFailed, StatusCancelled}
)

const (
	EventTripStarted     = "TRIP_STARTED"
	EventETAUpdated      = "ETA_UPDATED"
	EventArrivedAtGate   = "ARRIVED_AT_GATE"
	EventGateProcessing  = "GATE_PROCESSING"
	EventContainerPicked = "CONTAINER_PICKED"
	EventTripCompleted   = "TRIP_COMPLETED"
	EventTripFailed      = "TRIP_FAILED"
	EventDelayDetected   = "DELAY_DETECTED"
)

type Trip struct {
	ID           string     `db:"id" json:"id"`
	DriverID     string     `db:"driver_id" json:"driverId"`
	ContainerID  string     `db:"container_id" json:"containerId"`
	PickupSlotID *string    `db:"pickup_slot_id" json:"pickupSlotId,omitempty"`
	ReturnEmpty  bool       `db:"return_empty" json:"returnEmpty"`
	Status       string     `db:"status" json:"status"`
	ETA          *time.Time `db:"eta" json:"eta,omitempty"`
	StartedAt    *time.Time `db:"started_at" json:"startedAt,omitempty"`
	CompletedAt  *time.Time `db:"completed_at" json:"completedAt,omitempty"`
	TurnMinutes  *int       `db:"turn_minutes" json:"turnMinutes,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updatedAt"`
	DeletedAt    *time.Time `db:"deleted_at" json:"-"`
}

// Transition moves the trip to status. Start and completion are stamped
// the first time they are reached and never overwritten.
func (t *Trip) Transition(status string, now time.Time) {
	t.Status = status
	if status == StatusStarted && t.StartedAt == nil {
		t.StartedAt = &now
	}
	if slices.Contains(FinishedStatuses, status) && t.CompletedAt == nil {
		t.CompletedAt = &now
		t.TurnMinutes = t.TurnTime()
	}
}

// TurnTime is completion minus start in whole minutes, nil until both are known.
func (t *Trip) TurnTime() *int {
	if t.StartedAt == nil || t.CompletedAt == nil {
		return nil
	}
	m := int(math.Round(t.CompletedAt.Sub(*t.StartedAt).Minutes()))
	return &m
}

type Event struct {
	ID        string         `db:"id" json:"id"`
	TripID    string         `db:"trip_id" json:"tripId"`
	Type      string         `db:"type" json:"type"`
	Timestamp time.Time      `db:"timestamp" json:"timestamp"`
	Location  types.JSONText `db:"location" json:"location,omitempty" swaggertype:"object"`
	Metadata  types.JSONText `db:"metadata" json:"metadata,omitempty" swaggertype:"object"`
}

type Metrics struct {
	TripID            string    `db:"trip_id" json:"tripId"`
	TotalDistance     float64   `db:"total_distance" json:"totalDistance"`
	EstimatedDuration int       `db:"estimated_duration" json:"estimatedDuration"`
	ActualDuration    *int      `db:"actual_duration" json:"actualDuration,omitempty"`
	FuelConsumption   *float64  `db:"fuel_consumption" json:"fuelConsumption,omitempty"`
	CarbonFootprint   *float64  `db:"carbon_footprint" json:"carbonFootprint,omitempty"`
	UpdatedAt         time.Time `db:"updated_at" json:"updatedAt"`
}

type Statistics struct {
	Total           int `db:"total" json:"total"`
	Assigned        int `db:"assigned" json:"assigned"`
	InProgress      int `db:"in_progress" json:"inProgress"`
	Completed       int `db:"completed" json:"completed"`
	Failed          int `db:"failed" json:"failed"`
	Cancelled       int `db:"cancelled" json:"cancelled"`
	AverageTurnTime int `db:"average_turn_time" json:"averageTurnTime"`
}

type DriverPerformance struct {
	DriverID        string  `db:"driver_id" json:"driverId"`
	TotalTrips      int     `db:"total_trips" json:"totalTrips"`
	CompletedTrips  int     `db:"completed_trips" json:"completedTrips"`
	FailedTrips     int     `db:"failed_trips" json:"failedTrips"`
	AverageTurnTime int     `db:"average_turn_time" json:"averageTurnTime"`
	TotalDistance   float64 `db:"total_distance" json:"totalDistance"`
}

type TurnTimeResponse struct {
	TripID      string     `json:"tripId"`
	StartedAt   *time.Time `json:"startedAt"`
	CompletedAt *time.Time `json:"completedAt"`
	Minutes     *int       `json:"minutes"`
}

type CreateRequest struct {
	DriverID     string     `json:"driverId" binding:"required,uuid"`
	ContainerID  string     `json:"containerId" binding:"required,uuid"`
	PickupSlotID *string    `json:"pickupSlotId" binding:"omitempty,uuid"`
	ReturnEmpty  bool       `json:"returnEmpty"`
	ETA          *time.Time `json:"eta"`
}

type UpdateRequest struct {
	DriverID     *string    `json:"driverId" binding:"omitempty,uuid"`
	ContainerID  *string    `json:"containerId" binding:"omitempty,uuid"`
	PickupSlotID *string    `json:"pickupSlotId" binding:"omitempty,uuid"`
	ReturnEmpty  *bool      `json:"returnEmpty"`
	ETA          *time.Time `json:"eta"`
}

type StatusRequest struct {
	Status string `json:"status" binding:"required,oneof=ASSIGNED STARTED EN_ROUTE GATE_READY AT_GATE PROCESSING COMPLETED FAILED CANCELLED"`
}

type EventRequest struct {
	Type      string         `json:"type" binding:"required,oneof=TRIP_STARTED ETA_UPDATED ARRIVED_AT_GATE GATE_PROCESSING CONTAINER_PICKED TRIP_COMPLETED TRIP_FAILED DELAY_DETECTED"`
	Timestamp *time.Time     `json:"timestamp"`
	Location  map[string]any `json:"location"`
	Metadata  map[string]any `json:"metadata"`
}

type MetricsRequest struct {
	TotalDistance     float64  `json:"totalDistance" binding:"min=0" example:"42.5"`
	EstimatedDuration int      `json:"estimatedDuration" binding:"min=0" example:"90"`
	ActualDuration    *int     `json:"actualDuration" binding:"omitempty,min=0"`
	FuelConsumption   *float64 `json:"fuelConsumption" binding:"omitempty,min=0"`
	CarbonFootprint   *float64 `json:"carbonFootprint" binding:"omitempty,min=0"`
}

type ListFilter struct {
	Status      string `form:"status" binding:"omitempty,oneof=ASSIGNED STARTED EN_ROUTE GATE_READY AT_GATE PROCESSING COMPLETED FAILED CANCELLED"`
	DriverID    string `form:"driverId" binding:"omitempty,uuid"`
	ContainerID string `form:"containerId" binding:"omitempty,uuid"`
}
