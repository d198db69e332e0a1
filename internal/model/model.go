// Package model defines the core domain types for the Crown Voyages
// back office: catalog, bookings, leads, billing documents and users.
package model

import "time"

// DateFormat is the wire format for calendar dates (check-in/check-out).
const DateFormat = "2006-01-02"

// User is a back-office operator account.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// Resort is a property in the catalog.
type Resort struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Location         string    `json:"location"`
	Description      string    `json:"description"`
	Stars            int       `json:"stars"`
	Amenities        []string  `json:"amenities"`
	TransportOptions []string  `json:"transport_options"`
	Images           []string  `json:"images"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Room is a bookable room category within a resort.
type Room struct {
	ID             string    `json:"id"`
	ResortID       string    `json:"resort_id"`
	Name           string    `json:"name"`
	Category       string    `json:"category"`
	Beds           int       `json:"beds"`
	MaxAdults      int       `json:"max_adults"`
	MaxChildren    int       `json:"max_children"`
	PriceCents     int64     `json:"price_cents"`
	MealPlans      []string  `json:"meal_plans"`
	Images         []string  `json:"images"`
	TotalUnits     int       `json:"total_units"`
	CreatedAt      time.Time `json:"created_at"`
}

// AvailabilityEntry is one day of a room's availability calendar.
type AvailabilityEntry struct {
	ID         string    `json:"id"`
	RoomID     string    `json:"room_id"`
	Date       time.Time `json:"date"`
	Units      int       `json:"units"`
	PriceCents int64     `json:"price_cents"`
}

// Booking is a confirmed reservation produced by the wizard or entered
// directly.
type Booking struct {
	ID              string            `json:"id"`
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
	Status          string            `json:"status"`
	CreatedAt       time.Time         `json:"created_at"`
}

// Nights returns the stay length in nights.
func (b *Booking) Nights() int {
	return int(b.CheckOut.Sub(b.CheckIn).Hours() / 24)
}

// Lead is a prospective booking record before conversion to a confirmed
// reservation.
type Lead struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	ResortName string    `json:"resort_name"`
	RoomName   string    `json:"room_name"`
	CheckIn    time.Time `json:"check_in"`
	CheckOut   time.Time `json:"check_out"`
	Source     string    `json:"source"`
	Status     string    `json:"status"`
	Notes      string    `json:"notes"`
	CreatedAt  time.Time `json:"created_at"`
}

// Booking and lead statuses.
const (
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"

	LeadStatusNew       = "new"
	LeadStatusContacted = "contacted"
	LeadStatusConverted = "converted"
	LeadStatusLost      = "lost"
)
