package wizard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crownvoyages/backoffice/internal/cache"
	"github.com/crownvoyages/backoffice/internal/model"
)

// fakeSubmitter records create calls and can be told to fail per room.
type fakeSubmitter struct {
	mu           sync.Mutex
	bookings     []model.BookingCreate
	leads        []model.LeadCreate
	failBookings map[string]error // keyed by room name
	failLeads    map[string]error
}

func (f *fakeSubmitter) CreateBooking(_ context.Context, req model.BookingCreate) (*model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failBookings[req.RoomName]; err != nil {
		return nil, err
	}
	f.bookings = append(f.bookings, req)
	return &model.Booking{ID: uuid.New().String(), RoomName: req.RoomName}, nil
}

func (f *fakeSubmitter) CreateLead(_ context.Context, req model.LeadCreate) (*model.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failLeads[req.RoomName]; err != nil {
		return nil, err
	}
	f.leads = append(f.leads, req)
	return &model.Lead{ID: uuid.New().String()}, nil
}

func (f *fakeSubmitter) calls() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.bookings), len(f.leads)
}

func newTestManager(t *testing.T) (*Manager, *fakeSubmitter) {
	t.Helper()
	sub := &fakeSubmitter{}
	store := NewStore(cache.NewMemoryKV(), time.Hour)
	return NewManager(store, sub), sub
}

// sessionInReview builds a session holding two saved bookings and moves
// it through the flow to the review stage.
func sessionInReview(t *testing.T, m *Manager) *Session {
	t.Helper()
	ctx := context.Background()

	session, err := m.Create(ctx)
	require.NoError(t, err)

	session, err = m.Update(ctx, session.ID, func(s *Session) error {
		s.Selection = validSelection()
		if _, err := s.SaveCurrentBooking(); err != nil {
			return err
		}
		s.ResetSelection()
		s.Selection.ResortID = "resort-1"
		s.Selection.ResortName = "Azure Bay"
		s.Selection.RoomID = "room-2"
		s.Selection.RoomName = "Garden Villa"
		s.Selection.CheckIn = "2026-09-10"
		s.Selection.CheckOut = "2026-09-14"
		if err := s.Advance(); err != nil {
			return err
		}
		s.Client = model.ClientInfo{
			ClientName:      "Ada Byron",
			ClientEmail:     "ada@example.com",
			ClientPhone:     "+44 20 0000 0000",
			SpecialRequests: "late arrival",
		}
		return s.Advance()
	})
	require.NoError(t, err)
	require.Equal(t, StageReview, session.Stage)
	require.Len(t, session.SavedBookings, 2)
	return session
}

func TestManager_GetUnknownSession(t *testing.T) {
	m, _ := newTestManager(t)
	_, err := m.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestManager_UpdatePersistsAcrossLoads(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	session, err := m.Create(ctx)
	require.NoError(t, err)

	_, err = m.Update(ctx, session.ID, func(s *Session) error {
		s.Selection = validSelection()
		return nil
	})
	require.NoError(t, err)

	loaded, err := m.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, "room-1", loaded.Selection.RoomID)
}

func TestManager_UpdateErrorDoesNotPersist(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	session, err := m.Create(ctx)
	require.NoError(t, err)

	boom := errors.New("boom")
	_, err = m.Update(ctx, session.ID, func(s *Session) error {
		s.Selection.RoomID = "should-not-stick"
		return boom
	})
	assert.ErrorIs(t, err, boom)

	loaded, err := m.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Empty(t, loaded.Selection.RoomID)
}

func TestSubmit_RequiresReviewStage(t *testing.T) {
	m, sub := newTestManager(t)
	ctx := context.Background()

	session, err := m.Create(ctx)
	require.NoError(t, err)

	_, _, err = m.Submit(ctx, session.ID)
	assert.ErrorIs(t, err, ErrNotInReview)

	b, l := sub.calls()
	assert.Zero(t, b)
	assert.Zero(t, l)
}

func TestSubmit_EmptyPendingListIssuesNoCalls(t *testing.T) {
	m, sub := newTestManager(t)
	ctx := context.Background()

	session, err := m.Create(ctx)
	require.NoError(t, err)
	_, err = m.Update(ctx, session.ID, func(s *Session) error {
		s.Stage = StageReview
		return nil
	})
	require.NoError(t, err)

	_, _, err = m.Submit(ctx, session.ID)
	assert.ErrorIs(t, err, ErrNoBookings)

	b, l := sub.calls()
	assert.Zero(t, b)
	assert.Zero(t, l)
}

func TestSubmit_InvalidDatesAbortBeforeAnyCall(t *testing.T) {
	m, sub := newTestManager(t)
	ctx := context.Background()
	session := sessionInReview(t, m)

	_, err := m.Update(ctx, session.ID, func(s *Session) error {
		s.SavedBookings[1].CheckOut = s.SavedBookings[1].CheckIn
		return nil
	})
	require.NoError(t, err)

	_, _, err = m.Submit(ctx, session.ID)
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)

	b, l := sub.calls()
	assert.Zero(t, b)
	assert.Zero(t, l)
}

func TestSubmit_FansOutOneBookingAndOneLeadPerSummary(t *testing.T) {
	m, sub := newTestManager(t)
	ctx := context.Background()
	session := sessionInReview(t, m)

	after, result, err := m.Submit(ctx, session.ID)
	require.NoError(t, err)
	assert.True(t, result.Succeeded())
	require.Len(t, result.Outcomes, 2)
	for _, o := range result.Outcomes {
		assert.True(t, o.OK())
		assert.NotEmpty(t, o.BookingID)
		assert.NotEmpty(t, o.LeadID)
	}

	b, l := sub.calls()
	assert.Equal(t, 2, b)
	assert.Equal(t, 2, l)

	assert.Equal(t, StageConfirmed, after.Stage)
	assert.Empty(t, after.SavedBookings)
	assert.Empty(t, after.PassengerDetails)

	// The cleared state is what got persisted.
	loaded, err := m.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, StageConfirmed, loaded.Stage)
	assert.Empty(t, loaded.SavedBookings)
}

func TestSubmit_CarriesClientAndPassengersIntoRequests(t *testing.T) {
	m, sub := newTestManager(t)
	ctx := context.Background()
	session := sessionInReview(t, m)

	_, _, err := m.Submit(ctx, session.ID)
	require.NoError(t, err)

	require.Len(t, sub.bookings, 2)
	for _, req := range sub.bookings {
		assert.Equal(t, "Ada Byron", req.ClientName)
		assert.Equal(t, "late arrival", req.SpecialRequests)
		assert.True(t, req.CheckOut.After(req.CheckIn))
	}
	byRoom := map[string]model.BookingCreate{}
	for _, req := range sub.bookings {
		byRoom[req.RoomName] = req
	}
	first := byRoom["Sea View Suite"]
	require.Len(t, first.Passengers, 1)
	assert.Equal(t, 0, first.Passengers[0].BookingIndex)
	assert.Len(t, first.Passengers[0].Adults, 2)

	require.Len(t, sub.leads, 2)
	for _, lead := range sub.leads {
		assert.Equal(t, "reservation-wizard", lead.Source)
		assert.Equal(t, "ada@example.com", lead.Email)
	}
}

func TestSubmit_PartialFailureKeepsSessionInReview(t *testing.T) {
	m, sub := newTestManager(t)
	sub.failBookings = map[string]error{"Garden Villa": errors.New("no availability")}
	ctx := context.Background()
	session := sessionInReview(t, m)

	after, result, err := m.Submit(ctx, session.ID)
	require.NoError(t, err)
	assert.False(t, result.Succeeded())
	require.Len(t, result.Outcomes, 2)

	var failed *BookingOutcome
	for i := range result.Outcomes {
		if !result.Outcomes[i].OK() {
			failed = &result.Outcomes[i]
		}
	}
	require.NotNil(t, failed)
	assert.Equal(t, "Garden Villa", failed.RoomName)
	assert.Contains(t, failed.BookingError, "no availability")
	assert.NotEmpty(t, failed.LeadID)

	assert.Equal(t, StageReview, after.Stage)
	assert.Len(t, after.SavedBookings, 2)

	// The pending list survives in the store for a retry.
	loaded, err := m.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, StageReview, loaded.Stage)
	assert.Len(t, loaded.SavedBookings, 2)
}

func TestSubmit_SingleRoomEndToEnd(t *testing.T) {
	m, sub := newTestManager(t)
	ctx := context.Background()

	session, err := m.Create(ctx)
	require.NoError(t, err)

	_, err = m.Update(ctx, session.ID, func(s *Session) error {
		s.Selection = validSelection()
		if err := s.Advance(); err != nil {
			return err
		}
		s.Client = model.ClientInfo{
			ClientName:  "Grace Hopper",
			ClientEmail: "grace@example.com",
			ClientPhone: "+1 555 0100",
		}
		return s.Advance()
	})
	require.NoError(t, err)

	after, result, err := m.Submit(ctx, session.ID)
	require.NoError(t, err)
	assert.True(t, result.Succeeded())
	assert.Equal(t, StageConfirmed, after.Stage)

	b, l := sub.calls()
	assert.Equal(t, 1, b)
	assert.Equal(t, 1, l)
	assert.Equal(t, 2, sub.bookings[0].Adults)
	assert.Equal(t, 1, sub.bookings[0].Children)
}
