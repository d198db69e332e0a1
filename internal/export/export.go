// Package export builds spreadsheet reports for download.
package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/crownvoyages/backoffice/internal/model"
)

// Filename renders the download name for a generated document, e.g.
// invoice-INV-000042.xlsx.
func Filename(docType, number, ext string) string {
	return fmt.Sprintf("%s-%s.%s", docType, number, ext)
}

// BookingsReport renders one row per booking with a styled header.
func BookingsReport(bookings []model.Booking) (*excelize.File, error) {
	f := excelize.NewFile()
	const sheet = "Bookings"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"Created", "Client", "Resort", "Room", "Check-in", "Check-out",
		"Rooms", "Adults", "Children", "Meal plan", "Status"}
	if err := writeHeaderRow(f, sheet, headers); err != nil {
		return nil, err
	}

	for i, b := range bookings {
		row := i + 2
		values := []any{
			b.CreatedAt.Format(model.DateFormat),
			b.ClientName,
			b.ResortName,
			b.RoomName,
			b.CheckIn.Format(model.DateFormat),
			b.CheckOut.Format(model.DateFormat),
			b.Rooms,
			b.Adults,
			b.Children,
			b.MealPlan,
			b.Status,
		}
		if err := writeRow(f, sheet, row, values); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// InvoiceAgingReport renders open invoices with balances, flagging
// overdue ones.
func InvoiceAgingReport(invoices []model.Invoice, now time.Time) (*excelize.File, error) {
	f := excelize.NewFile()
	const sheet = "Invoice aging"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"Number", "Client", "Total", "Paid", "Balance", "Due", "Overdue", "Status"}
	if err := writeHeaderRow(f, sheet, headers); err != nil {
		return nil, err
	}

	for i, inv := range invoices {
		row := i + 2
		overdue := ""
		if inv.Overdue(now) {
			overdue = "yes"
		}
		values := []any{
			inv.Number,
			inv.ClientName,
			float64(inv.TotalCents) / 100,
			float64(inv.PaidCents) / 100,
			float64(inv.BalanceCents()) / 100,
			inv.DueDate.Format(model.DateFormat),
			overdue,
			inv.Status,
		}
		if err := writeRow(f, sheet, row, values); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func writeHeaderRow(f *excelize.File, sheet string, headers []string) error {
	style, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("set header: %w", err)
		}
		if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
			return fmt.Errorf("style header: %w", err)
		}
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("set cell: %w", err)
		}
	}
	return nil
}
