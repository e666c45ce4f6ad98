// Package report renders slot utilization workbooks.
package report

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/abakymuk/DriverOS/internal/slot"
	"github.com/abakymuk/DriverOS/internal/terminal"
)

const (
	slotsSheet  = "Slots"
	hourlySheet = "Hourly"
)

type SlotSource interface {
	ListForDay(ctx context.Context, terminalID string, date time.Time) ([]slot.Slot, error)
}

type TerminalFinder interface {
	GetByID(ctx context.Context, id string) (*terminal.Terminal, error)
}

type Exporter struct {
	slots     SlotSource
	terminals TerminalFinder
}

func NewExporter(slots SlotSource, terminals TerminalFinder) *Exporter {
	return &Exporter{slots: slots, terminals: terminals}
}

// Utilization writes one day of slots for a terminal as an XLSX workbook
// with a per-slot sheet and a per-hour sheet. It returns the file name.
func (e *Exporter) Utilization(ctx context.Context, w io.Writer, terminalID string, date time.Time) (string, error) {
	t, err := e.terminals.GetByID(ctx, terminalID)
	if err != nil {
		return "", err
	}
	slots, err := e.slots.ListForDay(ctx, terminalID, date)
	if err != nil {
		return "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := writeSlots(f, slots); err != nil {
		return "", err
	}
	if err := writeHourly(f, slot.Hourly(slots)); err != nil {
		return "", err
	}

	if err := f.Write(w); err != nil {
		return "", fmt.Errorf("write workbook: %w", err)
	}
	return fmt.Sprintf("slots-%s-%s.xlsx", t.Code, date.Format(time.DateOnly)), nil
}

func writeSlots(f *excelize.File, slots []slot.Slot) error {
	if err := f.SetSheetName("Sheet1", slotsSheet); err != nil {
		return err
	}
	header := []any{"Window start (UTC)", "Window end (UTC)", "Status", "Capacity", "Booked", "Utilization %"}
	if err := writeRow(f, slotsSheet, 1, header); err != nil {
		return err
	}
	boldHeader(f, slotsSheet, len(header))

	for i, s := range slots {
		row := []any{
			s.WindowStart.UTC().Format("2006-01-02 15:04"),
			s.WindowEnd.UTC().Format("2006-01-02 15:04"),
			s.Status,
			s.Capacity,
			s.Booked,
			roundPercent(s.Utilization()),
		}
		if err := writeRow(f, slotsSheet, i+2, row); err != nil {
			return err
		}
	}
	return f.SetColWidth(slotsSheet, "A", "B", 20)
}

func writeHourly(f *excelize.File, hours []slot.HourlyUtilization) error {
	if _, err := f.NewSheet(hourlySheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", hourlySheet, err)
	}
	header := []any{"Hour (UTC)", "Slots", "Capacity", "Booked", "Utilization %"}
	if err := writeRow(f, hourlySheet, 1, header); err != nil {
		return err
	}
	boldHeader(f, hourlySheet, len(header))

	row := 2
	for _, h := range hours {
		if h.Slots == 0 {
			continue
		}
		values := []any{fmt.Sprintf("%02d:00", h.Hour), h.Slots, h.Capacity, h.Booked, h.Utilization}
		if err := writeRow(f, hourlySheet, row, values); err != nil {
			return err
		}
		row++
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func boldHeader(f *excelize.File, sheet string, columns int) {
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return
	}
	end, _ := excelize.CoordinatesToCellName(columns, 1)
	_ = f.SetCellStyle(sheet, "A1", end, style)
}

func roundPercent(v float64) int {
	return int(v + 0.5)
}
