package vessel

import "time"

const (
	StatusArriving    = "ARRIVING"
	StatusBerthed     = "BERTHED"
	StatusDischarging = "DISCHARGING"
	StatusDeparted    = "DEPARTED"
)

const (
	ScheduleScheduled = "SCHEDULED"
	ScheduleArrived   = "ARRIVED"
	ScheduleDeparted  = "DEPARTED"
	ScheduleDelayed   = "DELAYED"
	ScheduleCancelled = "CANCELLED"
)

// ActiveStatuses are vessels still working the terminal.
var ActiveStatuses = []string{StatusArriving, StatusBerthed, StatusDischarging}

type Vessel struct {
	ID             string     `db:"id" json:"id"`
	Name           string     `db:"name" json:"name"`
	ETA            time.Time  `db:"eta" json:"eta"`
	TerminalID     string     `db:"terminal_id" json:"terminalId"`
	Status         string     `db:"status" json:"status"`
	ContainerCount int        `db:"container_count" json:"containerCount"`
	CreatedAt      time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updatedAt"`
	DeletedAt      *time.Time `db:"deleted_at" json:"-"`
}

type Schedule struct {
	ID              string     `db:"id" json:"id"`
	VesselID        string     `db:"vessel_id" json:"vesselId"`
	TerminalID      string     `db:"terminal_id" json:"terminalId"`
	ETA             time.Time  `db:"eta" json:"eta"`
	ETD             time.Time  `db:"etd" json:"etd"`
	ActualArrival   *time.Time `db:"actual_arrival" json:"actualArrival,omitempty"`
	ActualDeparture *time.Time `db:"actual_departure" json:"actualDeparture,omitempty"`
	Status          string     `db:"status" json:"status"`
	CreatedAt       time.Time  `db:"created_at" json:"createdAt"`
}

type ContainerCounts struct {
	Total int `db:"total" json:"total"`
	Ready int `db:"ready" json:"ready"`
	Hold  int `db:"hold" json:"hold"`
}

type CreateRequest struct {
	Name           string    `json:"name" binding:"required,min=2,max=100" example:"MSC Aurora"`
	ETA            time.Time `json:"eta" binding:"required"`
	TerminalID     string    `json:"terminalId" binding:"required,uuid"`
	Status         string    `json:"status" binding:"omitempty,oneof=ARRIVING BERTHED DISCHARGING DEPARTED"`
	ContainerCount int       `json:"containerCount" binding:"omitempty,min=0"`
}

type UpdateRequest struct {
	Name           *string    `json:"name" binding:"omitempty,min=2,max=100"`
	ETA            *time.Time `json:"eta"`
	TerminalID     *string    `json:"terminalId" binding:"omitempty,uuid"`
	ContainerCount *int       `json:"containerCount" binding:"omitempty,min=0"`
}

type StatusRequest struct {
	Status string `json:"status" binding:"required,oneof=ARRIVING BERTHED DISCHARGING DEPARTED"`
}

type ScheduleRequest struct {
	ETA             time.Time  `json:"eta" binding:"required"`
	ETD             time.Time  `json:"etd" binding:"required,gtfield=ETA"`
	ActualArrival   *time.Time `json:"actualArrival"`
	ActualDeparture *time.Time `json:"actualDeparture"`
	Status          string     `json:"status" binding:"omitempty,oneof=SCHEDULED ARRIVED DEPARTED DELAYED CANCELLED"`
}

type ListFilter struct {
	TerminalID string `form:"terminalId" binding:"omitempty,uuid"`
	Status     string `form:"status" binding:"omitempty,oneof=ARRIVING BERTHED DISCHARGING DEPARTED"`
}
