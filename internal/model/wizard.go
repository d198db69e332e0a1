package model

// RoomConfig is the guest layout of one room inside the reservation
// wizard. ChildrenAges always has exactly Children entries.
type RoomConfig struct {
	Adults       int   `json:"adults"`
	Children     int   `json:"children"`
	ChildrenAges []int `json:"children_ages"`
}

// BookingSummary is a saved room reservation inside a wizard session.
// The totals are summed from RoomConfigs at save time and are a
// point-in-time snapshot, never re-derived later.
type BookingSummary struct {
	RoomID        string       `json:"room_id"`
	RoomName      string       `json:"room_name"`
	ResortID      string       `json:"resort_id"`
	ResortName    string       `json:"resort_name"`
	CheckIn       string       `json:"check_in"`
	CheckOut      string       `json:"check_out"`
	MealPlan      string       `json:"meal_plan"`
	RoomConfigs   []RoomConfig `json:"room_configs"`
	TotalRooms    int          `json:"total_rooms"`
	TotalAdults   int          `json:"total_adults"`
	TotalChildren int          `json:"total_children"`
}

// PersonDetail holds one traveller's identity and flight information.
type PersonDetail struct {
	Name                  string `json:"name"`
	Passport              string `json:"passport"`
	Country               string `json:"country"`
	ArrivalFlightNumber   string `json:"arrival_flight_number"`
	ArrivalTime           string `json:"arrival_time"`
	DepartureFlightNumber string `json:"departure_flight_number"`
	DepartureTime         string `json:"departure_time"`
	Age                   *int   `json:"age,omitempty"`
}

// PassengerDetail groups traveller entries for one room of one saved
// booking.
type PassengerDetail struct {
	BookingIndex int            `json:"booking_index"`
	BookingName  string         `json:"booking_name"`
	RoomName     string         `json:"room_name"`
	RoomNumber   int            `json:"room_number"`
	Adults       []PersonDetail `json:"adults"`
	Children     []PersonDetail `json:"children"`
}

// ClientInfo is the single guest contact record shared by every booking
// accumulated in a wizard session.
type ClientInfo struct {
	ClientName      string `json:"client_name"`
	ClientEmail     string `json:"client_email"`
	ClientPhone     string `json:"client_phone"`
	SpecialRequests string `json:"special_requests"`
}
