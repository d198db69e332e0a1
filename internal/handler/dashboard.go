package handler

import (
	"net/http"
	"strconv"

	"github.com/crownvoyages/backoffice/internal/service"
)

// DashboardHandler serves the overview cards and chart series.
type DashboardHandler struct {
	svc *service.DashboardService
}

func NewDashboardHandler(svc *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// Summary handles GET /dashboard/summary
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.Summary(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load dashboard summary")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// MonthlyBookings handles GET /dashboard/bookings?year=…
func (h *DashboardHandler) MonthlyBookings(w http.ResponseWriter, r *http.Request) {
	year, _ := strconv.Atoi(r.URL.Query().Get("year"))
	counts, err := h.svc.MonthlyBookings(r.Context(), year)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load booking chart")
		return
	}
	writeJSON(w, http.StatusOK, counts)
}

// MonthlyRevenue handles GET /dashboard/revenue?year=…
func (h *DashboardHandler) MonthlyRevenue(w http.ResponseWriter, r *http.Request) {
	year, _ := strconv.Atoi(r.URL.Query().Get("year"))
	totals, err := h.svc.MonthlyRevenue(r.Context(), year)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load revenue chart")
		return
	}
	writeJSON(w, http.StatusOK, totals)
}
