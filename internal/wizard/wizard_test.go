package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crownvoyages/backoffice/internal/model"
)

func validSelection() Selection {
	return Selection{
		ResortID:   "resort-1",
		ResortName: "Azure Bay",
		RoomID:     "room-1",
		RoomName:   "Sea View Suite",
		CheckIn:    "2026-09-10",
		CheckOut:   "2026-09-14",
		MealPlan:   "half-board",
		RoomConfigs: []model.RoomConfig{
			{Adults: 2, Children: 1, ChildrenAges: []int{5}},
		},
	}
}

func TestNewSession_StartsWithOneAdultRoom(t *testing.T) {
	s := NewSession()

	assert.Equal(t, StageDatesAndGuests, s.Stage)
	require.Len(t, s.Selection.RoomConfigs, 1)
	assert.Equal(t, 1, s.Selection.RoomConfigs[0].Adults)
	assert.Empty(t, s.Selection.RoomConfigs[0].ChildrenAges)
	assert.Empty(t, s.SavedBookings)
}

func TestSetRooms_GrowsAndShrinks(t *testing.T) {
	s := NewSession()

	s.SetRooms(3)
	require.Len(t, s.Selection.RoomConfigs, 3)
	assert.Equal(t, 1, s.Selection.RoomConfigs[2].Adults)

	s.SetRooms(1)
	assert.Len(t, s.Selection.RoomConfigs, 1)

	s.SetRooms(0)
	assert.Len(t, s.Selection.RoomConfigs, 1)
}

func TestHandleRoomConfigChange_ChildrenResetsAges(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.HandleRoomConfigChange(0, "children", 2))
	require.NoError(t, s.SetChildAge(0, 0, 7))
	require.NoError(t, s.SetChildAge(0, 1, 11))

	// Changing the count discards previously entered ages.
	require.NoError(t, s.HandleRoomConfigChange(0, "children", 3))

	cfg := s.Selection.RoomConfigs[0]
	assert.Equal(t, 3, cfg.Children)
	assert.Equal(t, []int{0, 0, 0}, cfg.ChildrenAges)
}

func TestHandleRoomConfigChange_Validation(t *testing.T) {
	s := NewSession()

	err := s.HandleRoomConfigChange(0, "adults", 0)
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "adults")

	assert.Error(t, s.HandleRoomConfigChange(0, "children", -1))
	assert.Error(t, s.HandleRoomConfigChange(5, "adults", 2))
	assert.Error(t, s.HandleRoomConfigChange(0, "beds", 2))
}

func TestSaveCurrentBooking_SnapshotsTotals(t *testing.T) {
	s := NewSession()
	s.Selection = validSelection()
	s.Selection.RoomConfigs = []model.RoomConfig{
		{Adults: 2, Children: 1, ChildrenAges: []int{4}},
		{Adults: 1, Children: 2, ChildrenAges: []int{6, 9}},
	}

	summary, err := s.SaveCurrentBooking()
	require.NoError(t, err)

	assert.Equal(t, 2, summary.TotalRooms)
	assert.Equal(t, 3, summary.TotalAdults)
	assert.Equal(t, 3, summary.TotalChildren)
	require.Len(t, s.SavedBookings, 1)

	// The summary is a snapshot: later edits to the live selection do
	// not reach back into it.
	require.NoError(t, s.HandleRoomConfigChange(0, "adults", 9))
	assert.Equal(t, 2, s.SavedBookings[0].RoomConfigs[0].Adults)
	assert.Equal(t, 3, s.SavedBookings[0].TotalAdults)
}

func TestSaveCurrentBooking_RejectsInvalidDates(t *testing.T) {
	s := NewSession()
	s.Selection = validSelection()
	s.Selection.CheckOut = "2026-09-10" // same day as check-in

	_, err := s.SaveCurrentBooking()
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "check_out")
	assert.Empty(t, s.SavedBookings)
}

func TestSaveCurrentBooking_RequiresRoom(t *testing.T) {
	s := NewSession()
	s.Selection = validSelection()
	s.Selection.RoomID = ""

	_, err := s.SaveCurrentBooking()
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "room")
}

func TestAdvance_BuildsPassengerPlaceholders(t *testing.T) {
	s := NewSession()
	s.Selection = validSelection()

	require.NoError(t, s.Advance())

	assert.Equal(t, StageClientInfo, s.Stage)
	require.Len(t, s.SavedBookings, 1)
	require.Len(t, s.PassengerDetails, 1)

	detail := s.PassengerDetails[0]
	assert.Equal(t, 0, detail.BookingIndex)
	assert.Equal(t, "Azure Bay / Sea View Suite", detail.BookingName)
	assert.Len(t, detail.Adults, 2)
	require.Len(t, detail.Children, 1)
	require.NotNil(t, detail.Children[0].Age)
	assert.Equal(t, 5, *detail.Children[0].Age)
}

func TestAdvance_RebuildsFanOutAcrossAllSavedBookings(t *testing.T) {
	s := NewSession()
	s.Selection = validSelection()
	_, err := s.SaveCurrentBooking()
	require.NoError(t, err)

	s.ResetSelection()
	s.Selection.RoomID = "room-2"
	s.Selection.RoomName = "Garden Villa"
	s.Selection.RoomConfigs = []model.RoomConfig{
		{Adults: 2, ChildrenAges: []int{}},
		{Adults: 1, ChildrenAges: []int{}},
	}

	require.NoError(t, s.Advance())

	// One group per room across both bookings: 1 + 2.
	require.Len(t, s.PassengerDetails, 3)
	assert.Equal(t, 0, s.PassengerDetails[0].BookingIndex)
	assert.Equal(t, 1, s.PassengerDetails[1].BookingIndex)
	assert.Equal(t, 1, s.PassengerDetails[2].BookingIndex)
	assert.Equal(t, 1, s.PassengerDetails[1].RoomNumber)
	assert.Equal(t, 2, s.PassengerDetails[2].RoomNumber)
}

func TestAdvance_InvalidSelectionStaysOnStageZero(t *testing.T) {
	s := NewSession()
	s.Selection = validSelection()
	s.Selection.CheckIn = "not-a-date"

	err := s.Advance()
	require.Error(t, err)
	assert.Equal(t, StageDatesAndGuests, s.Stage)
	assert.Empty(t, s.SavedBookings)
	assert.Empty(t, s.PassengerDetails)
}

func TestAdvance_ClientInfoRequired(t *testing.T) {
	s := NewSession()
	s.Selection = validSelection()
	require.NoError(t, s.Advance())

	err := s.Advance()
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "client_name")
	assert.Contains(t, verrs, "client_email")
	assert.Contains(t, verrs, "client_phone")
	assert.Equal(t, StageClientInfo, s.Stage)

	s.Client = model.ClientInfo{
		ClientName:  "Ada Byron",
		ClientEmail: "ada@example.com",
		ClientPhone: "+44 20 0000 0000",
	}
	require.NoError(t, s.Advance())
	assert.Equal(t, StageReview, s.Stage)
}

func TestBack_BoundariesAndConfirmedTerminal(t *testing.T) {
	s := NewSession()
	assert.Error(t, s.Back())

	s.Stage = StageReview
	require.NoError(t, s.Back())
	assert.Equal(t, StageClientInfo, s.Stage)

	s.Stage = StageConfirmed
	assert.Error(t, s.Back())
	assert.Error(t, s.Advance())
}

func TestUpdatePassenger_KeepsPrefilledChildAge(t *testing.T) {
	s := NewSession()
	s.Selection = validSelection()
	require.NoError(t, s.Advance())

	require.NoError(t, s.UpdatePassenger(0, "adult", 0, model.PersonDetail{
		Name:     "Ada Byron",
		Passport: "GB1234567",
	}))
	require.NoError(t, s.UpdatePassenger(0, "child", 0, model.PersonDetail{
		Name: "Annabella Byron",
	}))

	detail := s.PassengerDetails[0]
	assert.Equal(t, "Ada Byron", detail.Adults[0].Name)
	require.NotNil(t, detail.Children[0].Age)
	assert.Equal(t, 5, *detail.Children[0].Age)

	assert.Error(t, s.UpdatePassenger(0, "adult", 9, model.PersonDetail{}))
	assert.Error(t, s.UpdatePassenger(0, "pet", 0, model.PersonDetail{}))
}

func TestValidationErrors_ErrorListsFields(t *testing.T) {
	err := ValidationErrors{"b": "x", "a": "y"}
	assert.Equal(t, "validation failed: a, b", err.Error())
}
