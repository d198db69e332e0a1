package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/crownvoyages/backoffice/internal/metrics"
	"github.com/crownvoyages/backoffice/internal/model"
	"github.com/crownvoyages/backoffice/internal/wizard"
)

// WizardHandler exposes the reservation wizard's state machine over
// HTTP. Every mutation loads the session, applies the operation and
// persists the outcome, so a page reload resumes where the operator
// left off.
type WizardHandler struct {
	manager *wizard.Manager
	metrics *metrics.Metrics
}

func NewWizardHandler(manager *wizard.Manager, m *metrics.Metrics) *WizardHandler {
	return &WizardHandler{manager: manager, metrics: m}
}

// Create handles POST /wizard
func (h *WizardHandler) Create(w http.ResponseWriter, r *http.Request) {
	session, err := h.manager.Create(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to start wizard")
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

// Get handles GET /wizard/{id}
func (h *WizardHandler) Get(w http.ResponseWriter, r *http.Request) {
	session, err := h.manager.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// SetSelection handles PUT /wizard/{id}/selection
// Replaces the current room/resort/date/meal-plan choice. The room
// count drives the RoomConfigs length.
func (h *WizardHandler) SetSelection(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ResortID   string `json:"resort_id"`
		ResortName string `json:"resort_name"`
		RoomID     string `json:"room_id"`
		RoomName   string `json:"room_name"`
		CheckIn    string `json:"check_in"`
		CheckOut   string `json:"check_out"`
		MealPlan   string `json:"meal_plan"`
		Rooms      int    `json:"rooms"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	session, err := h.manager.Update(r.Context(), chi.URLParam(r, "id"), func(s *wizard.Session) error {
		s.Selection.ResortID = req.ResortID
		s.Selection.ResortName = req.ResortName
		s.Selection.RoomID = req.RoomID
		s.Selection.RoomName = req.RoomName
		s.Selection.CheckIn = req.CheckIn
		s.Selection.CheckOut = req.CheckOut
		s.Selection.MealPlan = req.MealPlan
		if req.Rooms > 0 {
			s.SetRooms(req.Rooms)
		}
		return nil
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// RoomConfigChange handles PUT /wizard/{id}/rooms/{index}
func (h *WizardHandler) RoomConfigChange(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Field string `json:"field"`
		Value int    `json:"value"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	index, ok := urlIndex(w, r, "index")
	if !ok {
		return
	}

	session, err := h.manager.Update(r.Context(), chi.URLParam(r, "id"), func(s *wizard.Session) error {
		return s.HandleRoomConfigChange(index, req.Field, req.Value)
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// SetChildAge handles PUT /wizard/{id}/rooms/{index}/children/{child}
func (h *WizardHandler) SetChildAge(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Age int `json:"age"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	index, ok := urlIndex(w, r, "index")
	if !ok {
		return
	}
	child, ok := urlIndex(w, r, "child")
	if !ok {
		return
	}

	session, err := h.manager.Update(r.Context(), chi.URLParam(r, "id"), func(s *wizard.Session) error {
		return s.SetChildAge(index, child, req.Age)
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// SaveBooking handles POST /wizard/{id}/bookings
// "Book another room": snapshots the current selection into the pending
// list and clears the room choice for the next pick.
func (h *WizardHandler) SaveBooking(w http.ResponseWriter, r *http.Request) {
	session, err := h.manager.Update(r.Context(), chi.URLParam(r, "id"), func(s *wizard.Session) error {
		if _, err := s.SaveCurrentBooking(); err != nil {
			return err
		}
		s.ResetSelection()
		return nil
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// SetClient handles PUT /wizard/{id}/client
func (h *WizardHandler) SetClient(w http.ResponseWriter, r *http.Request) {
	var req model.ClientInfo
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	session, err := h.manager.Update(r.Context(), chi.URLParam(r, "id"), func(s *wizard.Session) error {
		s.Client = req
		return nil
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// UpdatePassenger handles PUT /wizard/{id}/passengers/{index}
func (h *WizardHandler) UpdatePassenger(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Kind   string             `json:"kind"` // adult or child
		Person int                `json:"person"`
		Detail model.PersonDetail `json:"detail"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	index, ok := urlIndex(w, r, "index")
	if !ok {
		return
	}

	session, err := h.manager.Update(r.Context(), chi.URLParam(r, "id"), func(s *wizard.Session) error {
		return s.UpdatePassenger(index, req.Kind, req.Person, req.Detail)
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// Advance handles POST /wizard/{id}/advance
func (h *WizardHandler) Advance(w http.ResponseWriter, r *http.Request) {
	session, err := h.manager.Update(r.Context(), chi.URLParam(r, "id"), func(s *wizard.Session) error {
		return s.Advance()
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// Back handles POST /wizard/{id}/back
func (h *WizardHandler) Back(w http.ResponseWriter, r *http.Request) {
	session, err := h.manager.Update(r.Context(), chi.URLParam(r, "id"), func(s *wizard.Session) error {
		return s.Back()
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// Submit handles POST /wizard/{id}/submit
// Fans every accumulated booking summary out into booking and lead
// creates. A partial failure returns 502 with the per-booking outcomes
// so the operator can see which summaries went through.
func (h *WizardHandler) Submit(w http.ResponseWriter, r *http.Request) {
	session, result, err := h.manager.Submit(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.metrics.WizardSubmissions.WithLabelValues("rejected").Inc()
		respondServiceError(w, err)
		return
	}

	payload := struct {
		Session *wizard.Session      `json:"session"`
		Result  *wizard.SubmitResult `json:"result"`
	}{Session: session, Result: result}

	if !result.Succeeded() {
		h.metrics.WizardSubmissions.WithLabelValues("partial_failure").Inc()
		writeJSON(w, http.StatusBadGateway, payload)
		return
	}
	h.metrics.WizardSubmissions.WithLabelValues("success").Inc()
	writeJSON(w, http.StatusOK, payload)
}

func urlIndex(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	index, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || index < 0 {
		writeError(w, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return index, true
}
