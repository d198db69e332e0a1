package model

import "time"

// Quotation is a priced proposal sent to a prospective guest.
type Quotation struct {
	ID          string    `json:"id"`
	Number      string    `json:"number"`
	ClientName  string    `json:"client_name"`
	ClientEmail string    `json:"client_email"`
	ResortName  string    `json:"resort_name"`
	RoomName    string    `json:"room_name"`
	CheckIn     time.Time `json:"check_in"`
	CheckOut    time.Time `json:"check_out"`
	AmountCents int64     `json:"amount_cents"`
	ValidUntil  time.Time `json:"valid_until"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// Invoice bills a booking. Paid is maintained by receipt recording.
type Invoice struct {
	ID          string    `json:"id"`
	Number      string    `json:"number"`
	BookingID   string    `json:"booking_id"`
	ClientName  string    `json:"client_name"`
	ClientEmail string    `json:"client_email"`
	TotalCents  int64     `json:"total_cents"`
	PaidCents   int64     `json:"paid_cents"`
	DueDate     time.Time `json:"due_date"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// BalanceCents returns the outstanding amount.
func (i *Invoice) BalanceCents() int64 {
	return i.TotalCents - i.PaidCents
}

// FullyPaid reports whether no balance remains.
func (i *Invoice) FullyPaid() bool {
	return i.BalanceCents() <= 0
}

// Overdue reports whether a balance remains past the due date.
func (i *Invoice) Overdue(now time.Time) bool {
	return !i.FullyPaid() && now.After(i.DueDate)
}

// Receipt records one payment against an invoice.
type Receipt struct {
	ID          string    `json:"id"`
	Number      string    `json:"number"`
	InvoiceID   string    `json:"invoice_id"`
	AmountCents int64     `json:"amount_cents"`
	Method      string    `json:"method"`
	ReceivedAt  time.Time `json:"received_at"`
	CreatedAt   time.Time `json:"created_at"`
}

// Voucher is the confirmation document issued once a booking's invoice
// is fully paid.
type Voucher struct {
	ID        string    `json:"id"`
	Number    string    `json:"number"`
	BookingID string    `json:"booking_id"`
	InvoiceID string    `json:"invoice_id"`
	Notes     string    `json:"notes"`
	IssuedAt  time.Time `json:"issued_at"`
}

// ReminderSchedule is a recurring payment-due notification rule.
type ReminderSchedule struct {
	ID           string     `json:"id"`
	InvoiceID    string     `json:"invoice_id"`
	IntervalDays int        `json:"interval_days"`
	NextRunAt    time.Time  `json:"next_run_at"`
	Active       bool       `json:"active"`
	LastSentAt   *time.Time `json:"last_sent_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Reminder is one dispatched payment notification.
type Reminder struct {
	ID        string    `json:"id"`
	InvoiceID string    `json:"invoice_id"`
	Kind      string    `json:"kind"` // manual or scheduled
	Message   string    `json:"message"`
	SentAt    time.Time `json:"sent_at"`
}

// Document statuses and reminder kinds.
const (
	QuotationStatusDraft    = "draft"
	QuotationStatusSent     = "sent"
	QuotationStatusAccepted = "accepted"
	QuotationStatusDeclined = "declined"

	InvoiceStatusOpen    = "open"
	InvoiceStatusPartial = "partial"
	InvoiceStatusPaid    = "paid"

	ReminderKindManual    = "manual"
	ReminderKindScheduled = "scheduled"
)
