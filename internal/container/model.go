package container

import "time"

const (
	StatusNotReady  = "NOT_READY"
	StatusReady     = "READY"
	StatusPicked    = "PICKED"
	StatusDelivered = "DELIVERED"
	StatusHold      = "HOLD"
)

const (
	HoldCustoms         = "CUSTOMS_HOLD"
	HoldDocumentation   = "DOCUMENTATION"
	HoldChassisShortage = "CHASSIS_SHORTAGE"
	HoldGateBlocked     = "GATE_BLOCKED"
	HoldWeather         = "WEATHER"
	HoldMaintenance     = "MAINTENANCE"
	HoldOther           = "OTHER"
)

type Container struct {
	ID         string     `db:"id" json:"id"`
	CntrNo     string     `db:"cntr_no" json:"cntrNo"`
	Type       string     `db:"type" json:"type"`
	Line       string     `db:"line" json:"line"`
	ReadyAt    *time.Time `db:"ready_at" json:"readyAt,omitempty"`
	Hold       bool       `db:"hold" json:"hold"`
	Status     string     `db:"status" json:"status"`
	TerminalID string     `db:"terminal_id" json:"terminalId"`
	VesselID   *string    `db:"vessel_id" json:"vesselId,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updatedAt"`
	DeletedAt  *time.Time `db:"deleted_at" json:"-"`
}

type Hold struct {
	ID          string     `db:"id" json:"id"`
	ContainerID string     `db:"container_id" json:"containerId"`
	Reason      string     `db:"reason" json:"reason"`
	Description *string    `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	ResolvedAt  *time.Time `db:"resolved_at" json:"resolvedAt,omitempty"`
}

type Statistics struct {
	Total     int `db:"total" json:"total"`
	Ready     int `db:"ready" json:"ready"`
	NotReady  int `db:"not_ready" json:"notReady"`
	Hold      int `db:"hold" json:"hold"`
	Picked    int `db:"picked" json:"picked"`
	Delivered int `db:"delivered" json:"delivered"`
}

type CreateRequest struct {
	CntrNo     string     `json:"cntrNo" binding:"required,cntrno" example:"CSQU3054383"`
	Type       string     `json:"type" binding:"required,oneof=20GP 40GP 40HC 45HC"`
	Line       string     `json:"line" binding:"required,min=2,max=50" example:"MAERSK"`
	ReadyAt    *time.Time `json:"readyAt"`
	TerminalID string     `json:"terminalId" binding:"required,uuid"`
	VesselID   *string    `json:"vesselId" binding:"omitempty,uuid"`
}

type UpdateRequest struct {
	Type       *string    `json:"type" binding:"omitempty,oneof=20GP 40GP 40HC 45HC"`
	Line       *string    `json:"line" binding:"omitempty,min=2,max=50"`
	ReadyAt    *time.Time `json:"readyAt"`
	TerminalID *string    `json:"terminalId" binding:"omitempty,uuid"`
	VesselID   *string    `json:"vesselId" binding:"omitempty,uuid"`
}

type StatusRequest struct {
	Status string `json:"status" binding:"required,oneof=NOT_READY READY PICKED DELIVERED"`
}

type HoldRequest struct {
	Reason      string  `json:"reason" binding:"required,oneof=CUSTOMS_HOLD DOCUMENTATION CHASSIS_SHORTAGE GATE_BLOCKED WEATHER MAINTENANCE OTHER"`
	Description *string `json:"description" binding:"omitempty,max=500"`
}

type ListFilter struct {
	TerminalID string `form:"terminalId" binding:"omitempty,uuid"`
	VesselID   string `form:"vesselId" binding:"omitempty,uuid"`
	Status     string `form:"status" binding:"omitempty,oneof=NOT_READY READY PICKED DELIVERED HOLD"`
	Line       string `form:"line"`
}
