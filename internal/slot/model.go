package slot

import (
	"math"
	"strings"
	"time"

	"github.com/abakymuk/DriverOS/internal/apperror"
)

const (
	StatusAvailable   = "AVAILABLE"
	StatusFull        = "FULL"
	StatusClosed      = "CLOSED"
	StatusMaintenance = "MAINTENANCE"
)

type Slot struct {
	ID          string     `db:"id" json:"id"`
	TerminalID  string     `db:"terminal_id" json:"terminalId"`
	WindowStart time.Time  `db:"window_start" json:"windowStart"`
	WindowEnd   time.Time  `db:"window_end" json:"windowEnd"`
	Capacity    int        `db:"capacity" json:"capacity"`
	Booked      int        `db:"booked" json:"booked"`
	Status      string     `db:"status" json:"status"`
	Version     int        `db:"version" json:"version"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updatedAt"`
	DeletedAt   *time.Time `db:"deleted_at" json:"-"`
}

// Remaining is the number of bookings the slot can still take.
func (s *Slot) Remaining() int {
	if s.Booked >= s.Capacity {
		return 0
	}
	return s.Capacity - s.Booked
}

func (s *Slot) Utilization() float64 {
	if s.Capacity == 0 {
		return 0
	}
	return float64(s.Booked) * 100 / float64(s.Capacity)
}

// RecomputeStatus derives AVAILABLE or FULL from occupancy. CLOSED and
// MAINTENANCE are set by operators and left alone.
func (s *Slot) RecomputeStatus() {
	if s.Status == StatusClosed || s.Status == StatusMaintenance {
		return
	}
	if s.Booked >= s.Capacity {
		s.Status = StatusFull
	} else {
		s.Status = StatusAvailable
	}
}

// Reserve takes one unit of capacity.
func (s *Slot) Reserve() error {
	switch s.Status {
	case StatusAvailable:
	case StatusMaintenance:
		return apperror.Conflict("slot is under maintenance")
	default:
		return apperror.Conflict("slot is %s", strings.ToLower(s.Status))
	}
	if s.Booked >= s.Capacity {
		return apperror.Conflict("slot is full")
	}
	s.Booked++
	s.RecomputeStatus()
	return nil
}

// Release gives back one unit of capacity, never going below zero.
func (s *Slot) Release() {
	if s.Booked > 0 {
		s.Booked--
	}
	s.RecomputeStatus()
}

// Resize changes capacity. Shrinking below the current bookings would
// strand confirmed trips, so it is refused.
func (s *Slot) Resize(capacity int) error {
	if capacity < 1 {
		return apperror.Invalid("capacity must be positive")
	}
	if capacity < s.Booked {
		return apperror.Conflict("capacity %d is below the %d bookings already made", capacity, s.Booked)
	}
	s.Capacity = capacity
	s.RecomputeStatus()
	return nil
}

// SetStatus applies an operator status. CLOSED and MAINTENANCE stick;
// AVAILABLE or FULL reopen the slot with status derived from occupancy.
func (s *Slot) SetStatus(status string) {
	switch status {
	case StatusClosed, StatusMaintenance:
		s.Status = status
	default:
		s.Status = StatusAvailable
		s.RecomputeStatus()
	}
}

type Statistics struct {
	Total              int `db:"total" json:"total"`
	Available          int `db:"available" json:"available"`
	Full               int `db:"full" json:"full"`
	Closed             int `db:"closed" json:"closed"`
	Maintenance        int `db:"maintenance" json:"maintenance"`
	AverageUtilization int `db:"average_utilization" json:"averageUtilization"`
}

type HourlyUtilization struct {
	Hour        int `json:"hour"`
	Slots       int `json:"slots"`
	Capacity    int `json:"capacity"`
	Booked      int `json:"booked"`
	Utilization int `json:"utilization"`
}

// Hourly buckets slots by the UTC hour their window starts in.
func Hourly(slots []Slot) []HourlyUtilization {
	buckets := make([]HourlyUtilization, 24)
	for h := range buckets {
		buckets[h].Hour = h
	}
	for _, s := range slots {
		b := &buckets[s.WindowStart.UTC().Hour()]
		b.Slots++
		b.Capacity += s.Capacity
		b.Booked += s.Booked
	}
	for h := range buckets {
		if buckets[h].Capacity > 0 {
			buckets[h].Utilization = int(math.Round(float64(buckets[h].Booked) * 100 / float64(buckets[h].Capacity)))
		}
	}
	return buckets
}

type CreateRequest struct {
	TerminalID  string    `json:"terminalId" binding:"required,uuid"`
	WindowStart time.Time `json:"windowStart" binding:"required"`
	WindowEnd   time.Time `json:"windowEnd" binding:"required,gtfield=WindowStart"`
	Capacity    int       `json:"capacity" binding:"required,min=1" example:"20"`
}

type UpdateRequest struct {
	WindowStart *time.Time `json:"windowStart"`
	WindowEnd   *time.Time `json:"windowEnd"`
	Capacity    *int       `json:"capacity" binding:"omitempty,min=1"`
}

type StatusRequest struct {
	Status string `json:"status" binding:"required,oneof=AVAILABLE FULL CLOSED MAINTENANCE"`
}

// GenerateRequest lays out a day of slots from the terminal settings.
type GenerateRequest struct {
	TerminalID string `json:"terminalId" binding:"required,uuid"`
	Date       string `json:"date" binding:"required,datetime=2006-01-02" example:"2025-03-14"`
}

type ListFilter struct {
	TerminalID string `form:"terminalId" binding:"omitempty,uuid"`
	Status     string `form:"status" binding:"omitempty,oneof=AVAILABLE FULL CLOSED MAINTENANCE"`
	Date       string `form:"date" binding:"omitempty,datetime=2006-01-02"`
}
