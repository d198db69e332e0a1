package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crownvoyages/backoffice/internal/cache"
	"github.com/crownvoyages/backoffice/internal/metrics"
	"github.com/crownvoyages/backoffice/internal/model"
	"github.com/crownvoyages/backoffice/internal/wizard"
)

// Prometheus collectors register globally, so the whole test binary
// shares one Metrics value.
var (
	testMetrics     *metrics.Metrics
	testMetricsOnce sync.Once
)

func sharedMetrics() *metrics.Metrics {
	testMetricsOnce.Do(func() { testMetrics = metrics.New() })
	return testMetrics
}

type stubSubmitter struct {
	mu       sync.Mutex
	bookings int
	leads    int
	fail     bool
}

func (s *stubSubmitter) CreateBooking(_ context.Context, req model.BookingCreate) (*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return nil, fmt.Errorf("no availability")
	}
	s.bookings++
	return &model.Booking{ID: uuid.New().String(), RoomName: req.RoomName}, nil
}

func (s *stubSubmitter) CreateLead(_ context.Context, _ model.LeadCreate) (*model.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leads++
	return &model.Lead{ID: uuid.New().String()}, nil
}

func newWizardServer(t *testing.T) (*httptest.Server, *stubSubmitter) {
	t.Helper()
	sub := &stubSubmitter{}
	store := wizard.NewStore(cache.NewMemoryKV(), time.Hour)
	h := NewWizardHandler(wizard.NewManager(store, sub), sharedMetrics())

	r := chi.NewRouter()
	r.Route("/wizard", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Put("/{id}/selection", h.SetSelection)
		r.Put("/{id}/rooms/{index}", h.RoomConfigChange)
		r.Put("/{id}/rooms/{index}/children/{child}", h.SetChildAge)
		r.Post("/{id}/bookings", h.SaveBooking)
		r.Put("/{id}/client", h.SetClient)
		r.Put("/{id}/passengers/{index}", h.UpdatePassenger)
		r.Post("/{id}/advance", h.Advance)
		r.Post("/{id}/back", h.Back)
		r.Post("/{id}/submit", h.Submit)
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, sub
}

func doJSON(t *testing.T, method, url string, body any) (*http.Response, []byte) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out bytes.Buffer
	_, err = out.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp, out.Bytes()
}

func decodeSession(t *testing.T, raw []byte) wizard.Session {
	t.Helper()
	var s wizard.Session
	require.NoError(t, json.Unmarshal(raw, &s))
	return s
}

func TestWizardFlow_EndToEnd(t *testing.T) {
	srv, sub := newWizardServer(t)

	resp, raw := doJSON(t, http.MethodPost, srv.URL+"/wizard", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	session := decodeSession(t, raw)
	base := srv.URL + "/wizard/" + session.ID

	resp, _ = doJSON(t, http.MethodPut, base+"/selection", map[string]any{
		"resort_id":   "resort-1",
		"resort_name": "Azure Bay",
		"room_id":     "room-1",
		"room_name":   "Sea View Suite",
		"check_in":    "2026-09-10",
		"check_out":   "2026-09-14",
		"meal_plan":   "half-board",
		"rooms":       1,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPut, base+"/rooms/0", map[string]any{"field": "adults", "value": 2})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = doJSON(t, http.MethodPut, base+"/rooms/0", map[string]any{"field": "children", "value": 1})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, raw = doJSON(t, http.MethodPut, base+"/rooms/0/children/0", map[string]any{"age": 5})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	session = decodeSession(t, raw)
	assert.Equal(t, []int{5}, session.Selection.RoomConfigs[0].ChildrenAges)

	resp, raw = doJSON(t, http.MethodPost, base+"/advance", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	session = decodeSession(t, raw)
	assert.Equal(t, wizard.StageClientInfo, session.Stage)
	require.Len(t, session.PassengerDetails, 1)
	require.NotNil(t, session.PassengerDetails[0].Children[0].Age)
	assert.Equal(t, 5, *session.PassengerDetails[0].Children[0].Age)

	resp, _ = doJSON(t, http.MethodPut, base+"/passengers/0", map[string]any{
		"kind":   "adult",
		"person": 0,
		"detail": map[string]any{"name": "Ada Byron", "passport": "GB1234567"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPut, base+"/client", map[string]any{
		"client_name":  "Ada Byron",
		"client_email": "ada@example.com",
		"client_phone": "+44 20 0000 0000",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, raw = doJSON(t, http.MethodPost, base+"/advance", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	session = decodeSession(t, raw)
	assert.Equal(t, wizard.StageReview, session.Stage)

	resp, raw = doJSON(t, http.MethodPost, base+"/submit", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var payload struct {
		Session wizard.Session      `json:"session"`
		Result  wizard.SubmitResult `json:"result"`
	}
	require.NoError(t, json.Unmarshal(raw, &payload))
	assert.Equal(t, wizard.StageConfirmed, payload.Session.Stage)
	require.Len(t, payload.Result.Outcomes, 1)
	assert.True(t, payload.Result.Outcomes[0].OK())
	assert.Equal(t, 1, sub.bookings)
	assert.Equal(t, 1, sub.leads)
}

func TestWizardHandler_ValidationFailureReportsFields(t *testing.T) {
	srv, _ := newWizardServer(t)

	_, raw := doJSON(t, http.MethodPost, srv.URL+"/wizard", nil)
	session := decodeSession(t, raw)
	base := srv.URL + "/wizard/" + session.ID

	// Advancing with no room selected fails stage 0 validation.
	resp, raw := doJSON(t, http.MethodPost, base+"/advance", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body model.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Contains(t, body.Fields, "room")
	assert.Contains(t, body.Fields, "check_in")
}

func TestWizardHandler_UnknownSessionIs404(t *testing.T) {
	srv, _ := newWizardServer(t)

	resp, _ := doJSON(t, http.MethodGet, srv.URL+"/wizard/"+uuid.New().String(), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestWizardHandler_SubmitOutsideReviewIs409(t *testing.T) {
	srv, _ := newWizardServer(t)

	_, raw := doJSON(t, http.MethodPost, srv.URL+"/wizard", nil)
	session := decodeSession(t, raw)

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/wizard/"+session.ID+"/submit", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestWizardHandler_PartialFailureIs502WithOutcomes(t *testing.T) {
	srv, sub := newWizardServer(t)
	sub.fail = true

	_, raw := doJSON(t, http.MethodPost, srv.URL+"/wizard", nil)
	session := decodeSession(t, raw)
	base := srv.URL + "/wizard/" + session.ID

	resp, _ := doJSON(t, http.MethodPut, base+"/selection", map[string]any{
		"room_id":   "room-1",
		"room_name": "Sea View Suite",
		"check_in":  "2026-09-10",
		"check_out": "2026-09-14",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = doJSON(t, http.MethodPost, base+"/advance", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = doJSON(t, http.MethodPut, base+"/client", map[string]any{
		"client_name":  "Ada Byron",
		"client_email": "ada@example.com",
		"client_phone": "+44 20 0000 0000",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = doJSON(t, http.MethodPost, base+"/advance", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, raw = doJSON(t, http.MethodPost, base+"/submit", nil)
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)

	var payload struct {
		Session wizard.Session      `json:"session"`
		Result  wizard.SubmitResult `json:"result"`
	}
	require.NoError(t, json.Unmarshal(raw, &payload))
	assert.Equal(t, wizard.StageReview, payload.Session.Stage)
	require.Len(t, payload.Result.Outcomes, 1)
	assert.Contains(t, payload.Result.Outcomes[0].BookingError, "no availability")
}
