package export

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crownvoyages/backoffice/internal/model"
)

func TestFilename(t *testing.T) {
	assert.Equal(t, "invoice-INV-000042.xlsx", Filename("invoice", "INV-000042", "xlsx"))
}

func TestBookingsReport(t *testing.T) {
	bookings := []model.Booking{
		{
			ClientName: "Ada Byron",
			ResortName: "Azure Bay",
			RoomName:   "Sea View Suite",
			CheckIn:    time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
			CheckOut:   time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC),
			Rooms:      2,
			Adults:     3,
			Children:   1,
			Status:     model.BookingStatusConfirmed,
			CreatedAt:  time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		},
	}

	f, err := BookingsReport(bookings)
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetCellValue("Bookings", "B2")
	require.NoError(t, err)
	assert.Equal(t, "Ada Byron", got)

	head, err := f.GetCellValue("Bookings", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Created", head)

	checkIn, err := f.GetCellValue("Bookings", "E2")
	require.NoError(t, err)
	assert.Equal(t, "2026-09-10", checkIn)
}

func TestInvoiceAgingReport_FlagsOverdue(t *testing.T) {
	now := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	invoices := []model.Invoice{
		{
			Number:     "INV-000001",
			ClientName: "Ada Byron",
			TotalCents: 120000,
			PaidCents:  20000,
			DueDate:    time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
			Status:     model.InvoiceStatusPartial,
		},
		{
			Number:     "INV-000002",
			ClientName: "Grace Hopper",
			TotalCents: 50000,
			PaidCents:  50000,
			DueDate:    time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
			Status:     model.InvoiceStatusPaid,
		},
	}

	f, err := InvoiceAgingReport(invoices, now)
	require.NoError(t, err)
	defer f.Close()

	overdue, err := f.GetCellValue("Invoice aging", "G2")
	require.NoError(t, err)
	assert.Equal(t, "yes", overdue)

	settled, err := f.GetCellValue("Invoice aging", "G3")
	require.NoError(t, err)
	assert.Empty(t, settled)

	balance, err := f.GetCellValue("Invoice aging", "E2")
	require.NoError(t, err)
	assert.Equal(t, "1000", balance)
}
