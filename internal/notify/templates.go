package notify

import (
	"context"
	"fmt"
	"time"
)

const windowLayout = "Mon Jan 2 2006, 15:04"

// SlotNotice describes the pickup window a driver was booked into.
type SlotNotice struct {
	DriverEmail  string
	DriverName   string
	TerminalName string
	ContainerNo  string
	WindowStart  time.Time
	WindowEnd    time.Time
}

func (s *Service) SendSlotBooked(ctx context.Context, n SlotNotice) error {
	body := fmt.Sprintf(`Hi %s,

You are booked for a pickup at %s.

Container: %s
Window:    %s - %s UTC

Please arrive at the gate within your window.

- DriverOS Dispatch`, n.DriverName, n.TerminalName, n.ContainerNo,
		n.WindowStart.UTC().Format(windowLayout), n.WindowEnd.UTC().Format("15:04"))

	return s.enqueue(ctx, Job{
		Kind:    "slot_booked",
		To:      n.DriverEmail,
		Name:    n.DriverName,
		Subject: "Pickup slot confirmed - " + n.TerminalName,
		Body:    body,
	})
}

func (s *Service) SendSlotCancelled(ctx context.Context, n SlotNotice) error {
	body := fmt.Sprintf(`Hi %s,

Your pickup at %s has been cancelled.

Container: %s
Window:    %s - %s UTC

Dispatch will contact you with a new slot.

- DriverOS Dispatch`, n.DriverName, n.TerminalName, n.ContainerNo,
		n.WindowStart.UTC().Format(windowLayout), n.WindowEnd.UTC().Format("15:04"))

	return s.enqueue(ctx, Job{
		Kind:    "slot_cancelled",
		To:      n.DriverEmail,
		Name:    n.DriverName,
		Subject: "Pickup slot cancelled - " + n.TerminalName,
		Body:    body,
	})
}
