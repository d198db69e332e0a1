// Package wizard implements the multi-room reservation flow: a linear
// four-stage state machine that accumulates room reservations into a
// pending list and turns the whole list into bookings and leads on one
// final submission.
package wizard

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/crownvoyages/backoffice/internal/model"
)

// Stage is one step of the reservation flow.
type Stage int

const (
	StageDatesAndGuests Stage = iota
	StageClientInfo
	StageReview
	StageConfirmed
)

func (s Stage) String() string {
	switch s {
	case StageDatesAndGuests:
		return "dates_and_guests"
	case StageClientInfo:
		return "client_info"
	case StageReview:
		return "review"
	case StageConfirmed:
		return "confirmed"
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// ValidationErrors maps field names to messages. It blocks stage
// advancement when non-empty.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return "validation failed: " + strings.Join(fields, ", ")
}

// Selection is the room currently being configured in stage 0.
type Selection struct {
	ResortID    string             `json:"resort_id"`
	ResortName  string             `json:"resort_name"`
	RoomID      string             `json:"room_id"`
	RoomName    string             `json:"room_name"`
	CheckIn     string             `json:"check_in"`
	CheckOut    string             `json:"check_out"`
	MealPlan    string             `json:"meal_plan"`
	RoomConfigs []model.RoomConfig `json:"room_configs"`
}

// Session is one operator's in-progress reservation flow. The saved
// bookings list is append-only until a successful submission clears it.
type Session struct {
	ID               string                  `json:"id"`
	Stage            Stage                   `json:"stage"`
	Selection        Selection               `json:"selection"`
	SavedBookings    []model.BookingSummary  `json:"saved_bookings"`
	PassengerDetails []model.PassengerDetail `json:"passenger_details"`
	Client           model.ClientInfo        `json:"client"`
	CreatedAt        time.Time               `json:"created_at"`
	UpdatedAt        time.Time               `json:"updated_at"`
}

// NewSession starts a fresh flow with a single one-adult room.
func NewSession() *Session {
	now := time.Now().UTC()
	return &Session{
		ID:    uuid.New().String(),
		Stage: StageDatesAndGuests,
		Selection: Selection{
			RoomConfigs: []model.RoomConfig{{Adults: 1, ChildrenAges: []int{}}},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SetRooms adjusts how many rooms the current selection spans, keeping
// RoomConfigs the same length. New rooms start with one adult.
func (s *Session) SetRooms(n int) {
	if n < 1 {
		n = 1
	}
	for len(s.Selection.RoomConfigs) < n {
		s.Selection.RoomConfigs = append(s.Selection.RoomConfigs,
			model.RoomConfig{Adults: 1, ChildrenAges: []int{}})
	}
	s.Selection.RoomConfigs = s.Selection.RoomConfigs[:n]
}

// HandleRoomConfigChange updates one room's adult or child count.
// Changing children resets ChildrenAges to a zero-filled slice of the
// new length; previously entered ages are not preserved.
func (s *Session) HandleRoomConfigChange(roomIndex int, field string, value int) error {
	if roomIndex < 0 || roomIndex >= len(s.Selection.RoomConfigs) {
		return fmt.Errorf("room index %d out of range", roomIndex)
	}
	cfg := &s.Selection.RoomConfigs[roomIndex]
	switch field {
	case "adults":
		if value < 1 {
			return ValidationErrors{"adults": "at least one adult per room"}
		}
		cfg.Adults = value
	case "children":
		if value < 0 {
			return ValidationErrors{"children": "children cannot be negative"}
		}
		cfg.Children = value
		cfg.ChildrenAges = make([]int, value)
	default:
		return fmt.Errorf("unknown room config field %q", field)
	}
	return nil
}

// SetChildAge records one child's age in a room configuration.
func (s *Session) SetChildAge(roomIndex, childIndex, age int) error {
	if roomIndex < 0 || roomIndex >= len(s.Selection.RoomConfigs) {
		return fmt.Errorf("room index %d out of range", roomIndex)
	}
	cfg := &s.Selection.RoomConfigs[roomIndex]
	if childIndex < 0 || childIndex >= len(cfg.ChildrenAges) {
		return fmt.Errorf("child index %d out of range", childIndex)
	}
	cfg.ChildrenAges[childIndex] = age
	return nil
}

// SaveCurrentBooking snapshots the current selection into a
// BookingSummary and appends it to the pending list. The totals are
// summed here and never re-derived afterwards.
func (s *Session) SaveCurrentBooking() (model.BookingSummary, error) {
	if errs := s.validateDatesAndGuests(); len(errs) > 0 {
		return model.BookingSummary{}, errs
	}

	configs := make([]model.RoomConfig, len(s.Selection.RoomConfigs))
	for i, cfg := range s.Selection.RoomConfigs {
		configs[i] = model.RoomConfig{
			Adults:       cfg.Adults,
			Children:     cfg.Children,
			ChildrenAges: append([]int(nil), cfg.ChildrenAges...),
		}
	}

	summary := model.BookingSummary{
		RoomID:      s.Selection.RoomID,
		RoomName:    s.Selection.RoomName,
		ResortID:    s.Selection.ResortID,
		ResortName:  s.Selection.ResortName,
		CheckIn:     s.Selection.CheckIn,
		CheckOut:    s.Selection.CheckOut,
		MealPlan:    s.Selection.MealPlan,
		RoomConfigs: configs,
		TotalRooms:  len(configs),
	}
	for _, cfg := range configs {
		summary.TotalAdults += cfg.Adults
		summary.TotalChildren += cfg.Children
	}

	s.SavedBookings = append(s.SavedBookings, summary)
	return summary, nil
}

// ResetSelection clears the room choice so another room can be picked,
// keeping the resort and dates of the previous pick as a convenience.
func (s *Session) ResetSelection() {
	s.Selection.RoomID = ""
	s.Selection.RoomName = ""
	s.Selection.MealPlan = ""
	s.Selection.RoomConfigs = []model.RoomConfig{{Adults: 1, ChildrenAges: []int{}}}
}

// Advance moves the session forward one stage, enforcing the stage's
// validation rules. The 0→1 transition saves the current selection and
// rebuilds passenger placeholders across every accumulated booking.
func (s *Session) Advance() error {
	switch s.Stage {
	case StageDatesAndGuests:
		if _, err := s.SaveCurrentBooking(); err != nil {
			return err
		}
		s.PassengerDetails = buildPassengerDetails(s.SavedBookings)
		s.Stage = StageClientInfo
	case StageClientInfo:
		if errs := s.validateClientInfo(); len(errs) > 0 {
			return errs
		}
		s.Stage = StageReview
	case StageReview:
		return fmt.Errorf("review is confirmed through submission")
	case StageConfirmed:
		return fmt.Errorf("wizard already confirmed")
	}
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// Back steps one stage backwards. Confirmation is terminal.
func (s *Session) Back() error {
	switch s.Stage {
	case StageDatesAndGuests:
		return fmt.Errorf("already at the first stage")
	case StageConfirmed:
		return fmt.Errorf("cannot leave a confirmed wizard")
	default:
		s.Stage--
		s.UpdatedAt = time.Now().UTC()
		return nil
	}
}

// UpdatePassenger stores one traveller's details on a placeholder
// produced by the stage 0→1 fan-out.
func (s *Session) UpdatePassenger(detailIndex int, kind string, personIndex int, p model.PersonDetail) error {
	if detailIndex < 0 || detailIndex >= len(s.PassengerDetails) {
		return fmt.Errorf("passenger detail index %d out of range", detailIndex)
	}
	detail := &s.PassengerDetails[detailIndex]
	switch kind {
	case "adult":
		if personIndex < 0 || personIndex >= len(detail.Adults) {
			return fmt.Errorf("adult index %d out of range", personIndex)
		}
		// Ages are assigned by the fan-out for children only.
		p.Age = detail.Adults[personIndex].Age
		detail.Adults[personIndex] = p
	case "child":
		if personIndex < 0 || personIndex >= len(detail.Children) {
			return fmt.Errorf("child index %d out of range", personIndex)
		}
		if p.Age == nil {
			p.Age = detail.Children[personIndex].Age
		}
		detail.Children[personIndex] = p
	default:
		return fmt.Errorf("unknown passenger kind %q", kind)
	}
	return nil
}

func (s *Session) validateDatesAndGuests() ValidationErrors {
	errs := ValidationErrors{}
	if s.Selection.RoomID == "" {
		errs["room"] = "select a room"
	}
	checkIn, inErr := time.Parse(model.DateFormat, s.Selection.CheckIn)
	checkOut, outErr := time.Parse(model.DateFormat, s.Selection.CheckOut)
	if s.Selection.CheckIn == "" || inErr != nil {
		errs["check_in"] = "check-in date is required"
	}
	if s.Selection.CheckOut == "" || outErr != nil {
		errs["check_out"] = "check-out date is required"
	}
	if inErr == nil && outErr == nil && !checkOut.After(checkIn) {
		errs["check_out"] = "check-out must be after check-in"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (s *Session) validateClientInfo() ValidationErrors {
	errs := ValidationErrors{}
	if strings.TrimSpace(s.Client.ClientName) == "" {
		errs["client_name"] = "client name is required"
	}
	if strings.TrimSpace(s.Client.ClientEmail) == "" {
		errs["client_email"] = "client email is required"
	}
	if strings.TrimSpace(s.Client.ClientPhone) == "" {
		errs["client_phone"] = "client phone is required"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// buildPassengerDetails flattens every saved booking's room configs
// into one ordered list of per-room placeholder groups. Children get
// their age prefilled from the room configuration.
func buildPassengerDetails(bookings []model.BookingSummary) []model.PassengerDetail {
	var details []model.PassengerDetail
	for bIdx, b := range bookings {
		for roomIdx, cfg := range b.RoomConfigs {
			detail := model.PassengerDetail{
				BookingIndex: bIdx,
				BookingName:  fmt.Sprintf("%s / %s", b.ResortName, b.RoomName),
				RoomName:     b.RoomName,
				RoomNumber:   roomIdx + 1,
				Adults:       make([]model.PersonDetail, cfg.Adults),
				Children:     make([]model.PersonDetail, cfg.Children),
			}
			for c := 0; c < cfg.Children && c < len(cfg.ChildrenAges); c++ {
				age := cfg.ChildrenAges[c]
				detail.Children[c].Age = &age
			}
			details = append(details, detail)
		}
	}
	return details
}
