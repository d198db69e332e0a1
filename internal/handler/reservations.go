package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/crownvoyages/backoffice/internal/model"
	"github.com/crownvoyages/backoffice/internal/repository"
	"github.com/crownvoyages/backoffice/internal/service"
)

// ReservationHandler exposes direct booking and lead management, used
// by the listing/filtering screens outside the wizard.
type ReservationHandler struct {
	svc *service.ReservationService
}

func NewReservationHandler(svc *service.ReservationService) *ReservationHandler {
	return &ReservationHandler{svc: svc}
}

// CreateBooking handles POST /bookings
func (h *ReservationHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req model.BookingCreate
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	booking, err := h.svc.CreateBooking(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

// ListBookings handles GET /bookings?client=…&from=…&to=…
func (h *ReservationHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	filter := repository.ListFilter{ClientName: r.URL.Query().Get("client")}
	if from := r.URL.Query().Get("from"); from != "" {
		t, err := time.Parse(model.DateFormat, from)
		if err != nil {
			writeError(w, http.StatusBadRequest, "from must be "+model.DateFormat+" formatted")
			return
		}
		filter.From = t
	}
	if to := r.URL.Query().Get("to"); to != "" {
		t, err := time.Parse(model.DateFormat, to)
		if err != nil {
			writeError(w, http.StatusBadRequest, "to must be "+model.DateFormat+" formatted")
			return
		}
		filter.To = t
	}

	bookings, err := h.svc.ListBookings(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list bookings")
		return
	}
	if bookings == nil {
		bookings = []model.Booking{}
	}
	writeJSON(w, http.StatusOK, bookings)
}

// GetBooking handles GET /bookings/{id}
func (h *ReservationHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	booking, err := h.svc.GetBooking(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

// CancelBooking handles POST /bookings/{id}/cancel
func (h *ReservationHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.CancelBooking(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": model.BookingStatusCancelled})
}

// CreateLead handles POST /leads
func (h *ReservationHandler) CreateLead(w http.ResponseWriter, r *http.Request) {
	var req model.LeadCreate
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	lead, err := h.svc.CreateLead(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, lead)
}

// ListLeads handles GET /leads?status=…
func (h *ReservationHandler) ListLeads(w http.ResponseWriter, r *http.Request) {
	leads, err := h.svc.ListLeads(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list leads")
		return
	}
	if leads == nil {
		leads = []model.Lead{}
	}
	writeJSON(w, http.StatusOK, leads)
}

// GetLead handles GET /leads/{id}
func (h *ReservationHandler) GetLead(w http.ResponseWriter, r *http.Request) {
	lead, err := h.svc.GetLead(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

// SetLeadStatus handles PUT /leads/{id}/status
func (h *ReservationHandler) SetLeadStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := h.svc.SetLeadStatus(r.Context(), chi.URLParam(r, "id"), req.Status); err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": req.Status})
}
