package terminal

import (
	"time"

	"github.com/jmoiron/sqlx/types"
	"github.com/lib/pq"
)

const (
	StatusActive      = "ACTIVE"
	StatusInactive    = "INACTIVE"
	StatusMaintenance = "MAINTENANCE"
)

type Terminal struct {
	ID        string     `db:"id" json:"id"`
	Name      string     `db:"name" json:"name"`
	Code      string     `db:"code" json:"code"`
	Capacity  int        `db:"capacity" json:"capacity"`
	Timezone  string     `db:"timezone" json:"timezone"`
	Status    string     `db:"status" json:"status"`
	CreatedAt time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time  `db:"updated_at" json:"updatedAt"`
	DeletedAt *time.Time `db:"deleted_at" json:"-"`
}

// Settings drives slot generation for a terminal.
type Settings struct {
	TerminalID        string         `db:"terminal_id" json:"terminalId"`
	SlotDuration      int            `db:"slot_duration" json:"slotDuration"`
	MaxSlotsPerWindow int            `db:"max_slots_per_window" json:"maxSlotsPerWindow"`
	OperatingHours    types.JSONText `db:"operating_hours" json:"operatingHours" swaggertype:"object"`
	ClosedDays        pq.StringArray `db:"closed_days" json:"closedDays" swaggertype:"array,string"`
	SpecialRules      types.JSONText `db:"special_rules" json:"specialRules" swaggertype:"object"`
	UpdatedAt         time.Time      `db:"updated_at" json:"updatedAt"`
}

type OperatingHours struct {
	Start string `json:"start" binding:"required,hhmm" example:"06:00"`
	End   string `json:"end" binding:"required,hhmm" example:"22:00"`
}

type CapacityReport struct {
	Current    int `json:"current"`
	Max        int `json:"max"`
	Percentage int `json:"percentage"`
}

type CreateRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100" example:"Pier 400"`
	Code     string `json:"code" binding:"required,min=2,max=10,alphanum" example:"LAX400"`
	Capacity int    `json:"capacity" binding:"required,min=1" example:"5000"`
	Timezone string `json:"timezone" binding:"omitempty,max=64" example:"America/Los_Angeles"`
	Status   string `json:"status" binding:"omitempty,oneof=ACTIVE INACTIVE MAINTENANCE"`
}

type UpdateRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=2,max=100"`
	Code     *string `json:"code" binding:"omitempty,min=2,max=10,alphanum"`
	Capacity *int    `json:"capacity" binding:"omitempty,min=1"`
	Timezone *string `json:"timezone" binding:"omitempty,max=64"`
	Status   *string `json:"status" binding:"omitempty,oneof=ACTIVE INACTIVE MAINTENANCE"`
}

type SettingsRequest struct {
	SlotDuration      int            `json:"slotDuration" binding:"required,min=5,max=480" example:"60"`
	MaxSlotsPerWindow int            `json:"maxSlotsPerWindow" binding:"required,min=1" example:"20"`
	OperatingHours    OperatingHours `json:"operatingHours" binding:"required"`
	ClosedDays        []string       `json:"closedDays" binding:"omitempty,dive,oneof=MON TUE WED THU FRI SAT SUN"`
	SpecialRules      map[string]any `json:"specialRules"`
}

type ListFilter struct {
	Status string `form:"status" binding:"omitempty,oneof=ACTIVE INACTIVE MAINTENANCE"`
}
