package wizard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/crownvoyages/backoffice/internal/model"
)

// ErrNoBookings is returned when submission is attempted with an empty
// pending list. No create calls are issued in that case.
var ErrNoBookings = errors.New("no bookings to submit")

// ErrNotInReview is returned when submission is attempted outside the
// review stage.
var ErrNotInReview = errors.New("wizard is not in the review stage")

// Submitter creates the booking and lead records a submission fans out
// to. Implemented by the reservation service over the repositories.
type Submitter interface {
	CreateBooking(ctx context.Context, req model.BookingCreate) (*model.Booking, error)
	CreateLead(ctx context.Context, req model.LeadCreate) (*model.Lead, error)
}

// BookingOutcome reports what happened to one accumulated booking
// summary during submission.
type BookingOutcome struct {
	Index        int    `json:"index"`
	RoomName     string `json:"room_name"`
	BookingID    string `json:"booking_id,omitempty"`
	LeadID       string `json:"lead_id,omitempty"`
	BookingError string `json:"booking_error,omitempty"`
	LeadError    string `json:"lead_error,omitempty"`
}

// OK reports whether both create calls for this summary succeeded.
func (o BookingOutcome) OK() bool {
	return o.BookingError == "" && o.LeadError == ""
}

// SubmitResult is the per-booking outcome set of one submission. Rather
// than collapsing a partial failure into a single opaque error, callers
// see exactly which summaries went through and can retry the rest.
type SubmitResult struct {
	Outcomes []BookingOutcome `json:"outcomes"`
}

// Succeeded reports whether every summary produced both records.
func (r *SubmitResult) Succeeded() bool {
	for _, o := range r.Outcomes {
		if !o.OK() {
			return false
		}
	}
	return true
}

// Manager drives wizard sessions: persistence plus the final fan-out
// submission.
type Manager struct {
	store     *Store
	submitter Submitter
}

func NewManager(store *Store, submitter Submitter) *Manager {
	return &Manager{store: store, submitter: submitter}
}

// Create starts and persists a new session.
func (m *Manager) Create(ctx context.Context) (*Session, error) {
	session := NewSession()
	if err := m.store.Put(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Get loads a session by id.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	return m.store.Get(ctx, id)
}

// Update loads a session, applies fn, and persists the result unless fn
// failed.
func (m *Manager) Update(ctx context.Context, id string, fn func(*Session) error) (*Session, error) {
	session, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(session); err != nil {
		return session, err
	}
	session.UpdatedAt = time.Now().UTC()
	if err := m.store.Put(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Submit turns every accumulated booking summary into one booking and
// one lead record. The create calls fan out concurrently and are
// awaited together. Every summary's dates must parse with check-out
// after check-in or the whole submission aborts before any call is
// issued. Only a fully successful submission clears the pending list
// and moves the session to Confirmed; otherwise the session stays in
// review so the failed summaries can be retried.
func (m *Manager) Submit(ctx context.Context, id string) (*Session, *SubmitResult, error) {
	session, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if session.Stage != StageReview {
		return session, nil, ErrNotInReview
	}
	if len(session.SavedBookings) == 0 {
		return session, nil, ErrNoBookings
	}

	type parsed struct {
		checkIn, checkOut time.Time
	}
	windows := make([]parsed, len(session.SavedBookings))
	for i, b := range session.SavedBookings {
		checkIn, inErr := time.Parse(model.DateFormat, b.CheckIn)
		checkOut, outErr := time.Parse(model.DateFormat, b.CheckOut)
		if inErr != nil || outErr != nil || !checkOut.After(checkIn) {
			return session, nil, ValidationErrors{
				fmt.Sprintf("bookings[%d].dates", i): "invalid check-in/check-out range",
			}
		}
		windows[i] = parsed{checkIn: checkIn, checkOut: checkOut}
	}

	result := &SubmitResult{Outcomes: make([]BookingOutcome, len(session.SavedBookings))}
	var wg sync.WaitGroup
	for i, summary := range session.SavedBookings {
		result.Outcomes[i] = BookingOutcome{Index: i, RoomName: summary.RoomName}

		bookingReq := model.BookingCreate{
			ResortID:        summary.ResortID,
			ResortName:      summary.ResortName,
			RoomID:          summary.RoomID,
			RoomName:        summary.RoomName,
			ClientName:      session.Client.ClientName,
			ClientEmail:     session.Client.ClientEmail,
			ClientPhone:     session.Client.ClientPhone,
			CheckIn:         windows[i].checkIn,
			CheckOut:        windows[i].checkOut,
			MealPlan:        summary.MealPlan,
			Rooms:           summary.TotalRooms,
			Adults:          summary.TotalAdults,
			Children:        summary.TotalChildren,
			SpecialRequests: session.Client.SpecialRequests,
			Passengers:      passengersForBooking(session.PassengerDetails, i),
		}
		leadReq := model.LeadCreate{
			Name:       session.Client.ClientName,
			Email:      session.Client.ClientEmail,
			Phone:      session.Client.ClientPhone,
			ResortName: summary.ResortName,
			RoomName:   summary.RoomName,
			CheckIn:    windows[i].checkIn,
			CheckOut:   windows[i].checkOut,
			Source:     "reservation-wizard",
			Notes:      session.Client.SpecialRequests,
		}

		wg.Add(2)
		outcome := &result.Outcomes[i]
		go func() {
			defer wg.Done()
			booking, err := m.submitter.CreateBooking(ctx, bookingReq)
			if err != nil {
				outcome.BookingError = err.Error()
				return
			}
			outcome.BookingID = booking.ID
		}()
		go func() {
			defer wg.Done()
			lead, err := m.submitter.CreateLead(ctx, leadReq)
			if err != nil {
				outcome.LeadError = err.Error()
				return
			}
			outcome.LeadID = lead.ID
		}()
	}
	wg.Wait()

	if result.Succeeded() {
		session.SavedBookings = nil
		session.PassengerDetails = nil
		session.Stage = StageConfirmed
		session.UpdatedAt = time.Now().UTC()
		if err := m.store.Put(ctx, session); err != nil {
			return session, result, err
		}
	}
	return session, result, nil
}

// passengersForBooking filters the session-wide fan-out down to the
// rooms of one saved booking.
func passengersForBooking(details []model.PassengerDetail, bookingIndex int) []model.PassengerDetail {
	var out []model.PassengerDetail
	for _, d := range details {
		if d.BookingIndex == bookingIndex {
			out = append(out, d)
		}
	}
	return out
}
