package handler

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/xuri/excelize/v2"

	"github.com/crownvoyages/backoffice/internal/export"
	"github.com/crownvoyages/backoffice/internal/model"
	"github.com/crownvoyages/backoffice/internal/repository"
	"github.com/crownvoyages/backoffice/internal/service"
)

// BillingHandler exposes quotations, invoices, receipts, vouchers,
// payment reminders and spreadsheet exports.
type BillingHandler struct {
	billing      *service.BillingService
	reservations *service.ReservationService
}

func NewBillingHandler(billing *service.BillingService, reservations *service.ReservationService) *BillingHandler {
	return &BillingHandler{billing: billing, reservations: reservations}
}

// CreateQuotation handles POST /quotations
func (h *BillingHandler) CreateQuotation(w http.ResponseWriter, r *http.Request) {
	var req model.CreateQuotationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	quote, err := h.billing.CreateQuotation(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, quote)
}

// ListQuotations handles GET /quotations?status=…
func (h *BillingHandler) ListQuotations(w http.ResponseWriter, r *http.Request) {
	quotes, err := h.billing.ListQuotations(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list quotations")
		return
	}
	if quotes == nil {
		quotes = []model.Quotation{}
	}
	writeJSON(w, http.StatusOK, quotes)
}

// GetQuotation handles GET /quotations/{id}
func (h *BillingHandler) GetQuotation(w http.ResponseWriter, r *http.Request) {
	quote, err := h.billing.GetQuotation(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

// SetQuotationStatus handles PUT /quotations/{id}/status
func (h *BillingHandler) SetQuotationStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := h.billing.SetQuotationStatus(r.Context(), chi.URLParam(r, "id"), req.Status); err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": req.Status})
}

// CreateInvoice handles POST /invoices
func (h *BillingHandler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	var req model.CreateInvoiceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	invoice, err := h.billing.CreateInvoice(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, invoice)
}

// ListInvoices handles GET /invoices?status=…
func (h *BillingHandler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	invoices, err := h.billing.ListInvoices(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list invoices")
		return
	}
	if invoices == nil {
		invoices = []model.Invoice{}
	}
	writeJSON(w, http.StatusOK, invoices)
}

// GetInvoice handles GET /invoices/{id}
func (h *BillingHandler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	invoice, err := h.billing.GetInvoice(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, invoice)
}

// RecordReceipt handles POST /invoices/{id}/receipts
// Issues a voucher alongside the receipt when the payment settles the
// invoice.
func (h *BillingHandler) RecordReceipt(w http.ResponseWriter, r *http.Request) {
	var req model.RecordReceiptRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	receipt, voucher, err := h.billing.RecordReceipt(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, struct {
		Receipt *model.Receipt `json:"receipt"`
		Voucher *model.Voucher `json:"voucher,omitempty"`
	}{Receipt: receipt, Voucher: voucher})
}

// ListReceipts handles GET /invoices/{id}/receipts
func (h *BillingHandler) ListReceipts(w http.ResponseWriter, r *http.Request) {
	receipts, err := h.billing.ListReceipts(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list receipts")
		return
	}
	if receipts == nil {
		receipts = []model.Receipt{}
	}
	writeJSON(w, http.StatusOK, receipts)
}

// ListVouchers handles GET /vouchers
func (h *BillingHandler) ListVouchers(w http.ResponseWriter, r *http.Request) {
	vouchers, err := h.billing.ListVouchers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list vouchers")
		return
	}
	if vouchers == nil {
		vouchers = []model.Voucher{}
	}
	writeJSON(w, http.StatusOK, vouchers)
}

// ScheduleReminder handles POST /reminders/schedules
func (h *BillingHandler) ScheduleReminder(w http.ResponseWriter, r *http.Request) {
	var req model.ScheduleReminderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	schedule, err := h.billing.ScheduleReminder(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, schedule)
}

// ListReminderSchedules handles GET /reminders/schedules
func (h *BillingHandler) ListReminderSchedules(w http.ResponseWriter, r *http.Request) {
	schedules, err := h.billing.ListReminderSchedules(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list reminder schedules")
		return
	}
	if schedules == nil {
		schedules = []model.ReminderSchedule{}
	}
	writeJSON(w, http.StatusOK, schedules)
}

// SendReminder handles POST /invoices/{id}/reminders
func (h *BillingHandler) SendReminder(w http.ResponseWriter, r *http.Request) {
	reminder, err := h.billing.SendReminder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, reminder)
}

// ListReminders handles GET /invoices/{id}/reminders
func (h *BillingHandler) ListReminders(w http.ResponseWriter, r *http.Request) {
	reminders, err := h.billing.ListReminders(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list reminders")
		return
	}
	if reminders == nil {
		reminders = []model.Reminder{}
	}
	writeJSON(w, http.StatusOK, reminders)
}

// ExportBookings handles GET /exports/bookings
// Streams a spreadsheet of all bookings as an attachment.
func (h *BillingHandler) ExportBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.reservations.ListBookings(r.Context(), repository.ListFilter{})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load bookings")
		return
	}
	f, err := export.BookingsReport(bookings)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to build report")
		return
	}
	name := export.Filename("bookings", time.Now().UTC().Format("20060102"), "xlsx")
	streamWorkbook(w, f, name)
}

// ExportInvoiceAging handles GET /exports/invoices
func (h *BillingHandler) ExportInvoiceAging(w http.ResponseWriter, r *http.Request) {
	invoices, err := h.billing.ListInvoices(r.Context(), "")
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load invoices")
		return
	}
	f, err := export.InvoiceAgingReport(invoices, time.Now().UTC())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to build report")
		return
	}
	name := export.Filename("invoices", time.Now().UTC().Format("20060102"), "xlsx")
	streamWorkbook(w, f, name)
}

func streamWorkbook(w http.ResponseWriter, f *excelize.File, name string) {
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", name))
	if err := f.Write(w); err != nil {
		log.Printf("stream workbook %s: %v", name, err)
	}
}
