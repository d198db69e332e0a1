package model

import "time"

// ErrorResponse is a standard JSON error envelope.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// LoginRequest is the payload for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupRequest is the payload for POST /auth/signup.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// CreateResortRequest is the payload for creating or updating a resort.
type CreateResortRequest struct {
	Name             string   `json:"name"`
	Location         string   `json:"location"`
	Description      string   `json:"description"`
	Stars            int      `json:"stars"`
	Amenities        []string `json:"amenities"`
	TransportOptions []string `json:"transport_options"`
	Images           []string `json:"images"`
}

// CreateRoomRequest is the payload for creating or updating a room.
type CreateRoomRequest struct {
	ResortID    string   `json:"resort_id"`
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Beds        int      `json:"beds"`
	MaxAdults   int      `json:"max_adults"`
	MaxChildren int      `json:"max_children"`
	PriceCents  int64    `json:"price_cents"`
	MealPlans   []string `json:"meal_plans"`
	Images      []string `json:"images"`
	TotalUnits  int      `json:"total_units"`
}

// AvailabilityRequest adds or updates one availability-calendar entry.
type AvailabilityRequest struct {
	Date       string `json:"date"`
	Units      int    `json:"units"`
	PriceCents int64  `json:"price_cents"`
}

// BookingCreate is the payload the wizard submits per accumulated
// booking summary.
type BookingCreate struct {
	ResortID        string            `json:"resort_id"`
	ResortName      string            `json:"resort_name"`
	RoomID          string            `json:"room_id"`
	RoomName        string            `json:"room_name"`
	ClientName      string            `json:"client_name"`
	ClientEmail     string            `json:"client_email"`
	ClientPhone     string            `json:"client_phone"`
	CheckIn         time.Time         `json:"check_in"`
	CheckOut        time.Time         `json:"check_out"`
	MealPlan        string            `json:"meal_plan"`
	Rooms           int               `json:"rooms"`
	Adults          int               `json:"adults"`
	Children        int               `json:"children"`
	SpecialRequests string            `json:"special_requests"`
	Passengers      []PassengerDetail `json:"passengers,omitempty"`
}

// LeadCreate is the companion lead record created per booking summary.
type LeadCreate struct {
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	ResortName string    `json:"resort_name"`
	RoomName   string    `json:"room_name"`
	CheckIn    time.Time `json:"check_in"`
	CheckOut   time.Time `json:"check_out"`
	Source     string    `json:"source"`
	Notes      string    `json:"notes"`
}

// CreateQuotationRequest is the payload for creating a quotation.
type CreateQuotationRequest struct {
	ClientName  string `json:"client_name"`
	ClientEmail string `json:"client_email"`
	ResortName  string `json:"resort_name"`
	RoomName    string `json:"room_name"`
	CheckIn     string `json:"check_in"`
	CheckOut    string `json:"check_out"`
	AmountCents int64  `json:"amount_cents"`
	ValidUntil  string `json:"valid_until"`
}

// CreateInvoiceRequest is the payload for invoicing a booking.
type CreateInvoiceRequest struct {
	BookingID   string `json:"booking_id"`
	ClientName  string `json:"client_name"`
	ClientEmail string `json:"client_email"`
	TotalCents  int64  `json:"total_cents"`
	DueDate     string `json:"due_date"`
}

// RecordReceiptRequest records a payment against an invoice.
type RecordReceiptRequest struct {
	AmountCents int64  `json:"amount_cents"`
	Method      string `json:"method"`
	ReceivedAt  string `json:"received_at"`
}

// ScheduleReminderRequest configures a recurring payment reminder.
type ScheduleReminderRequest struct {
	InvoiceID    string `json:"invoice_id"`
	IntervalDays int    `json:"interval_days"`
	StartAt      string `json:"start_at"`
}

// DashboardSummary feeds the overview cards.
type DashboardSummary struct {
	Bookings         int   `json:"bookings"`
	Leads            int   `json:"leads"`
	Quotations       int   `json:"quotations"`
	OpenInvoices     int   `json:"open_invoices"`
	OverdueInvoices  int   `json:"overdue_invoices"`
	RevenueCents     int64 `json:"revenue_cents"`
	OutstandingCents int64 `json:"outstanding_cents"`
}

// MonthlyCount is one month of a count time-series chart.
type MonthlyCount struct {
	Month string `json:"month"` // YYYY-MM
	Count int    `json:"count"`
}

// MonthlyAmount is one month of a money time-series chart.
type MonthlyAmount struct {
	Month       string `json:"month"` // YYYY-MM
	AmountCents int64  `json:"amount_cents"`
}
