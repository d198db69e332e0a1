package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInvoice_Balance(t *testing.T) {
	inv := Invoice{TotalCents: 120000, PaidCents: 45000}
	assert.Equal(t, int64(75000), inv.BalanceCents())
	assert.False(t, inv.FullyPaid())

	inv.PaidCents = 120000
	assert.Zero(t, inv.BalanceCents())
	assert.True(t, inv.FullyPaid())
}

func TestInvoice_Overdue(t *testing.T) {
	due := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	inv := Invoice{TotalCents: 50000, DueDate: due}

	assert.False(t, inv.Overdue(due.AddDate(0, 0, -1)))
	assert.True(t, inv.Overdue(due.AddDate(0, 0, 1)))

	// A settled invoice is never overdue.
	inv.PaidCents = 50000
	assert.False(t, inv.Overdue(due.AddDate(0, 1, 0)))
}

func TestBooking_Nights(t *testing.T) {
	b := Booking{
		CheckIn:  time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		CheckOut: time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, 4, b.Nights())
}
