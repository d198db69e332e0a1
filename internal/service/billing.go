package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/crownvoyages/backoffice/internal/model"
	"github.com/crownvoyages/backoffice/internal/repository"
)

// BillingService drives the quotation → invoice → receipt → voucher
// document lifecycle and the payment reminder sub-system.
type BillingService struct {
	quotations *repository.QuotationRepository
	invoices   *repository.InvoiceRepository
	vouchers   *repository.VoucherRepository
	reminders  *repository.ReminderRepository
	bookings   *repository.BookingRepository
	logger     *slog.Logger
}

func NewBillingService(
	quotations *repository.QuotationRepository,
	invoices *repository.InvoiceRepository,
	vouchers *repository.VoucherRepository,
	reminders *repository.ReminderRepository,
	bookings *repository.BookingRepository,
	logger *slog.Logger,
) *BillingService {
	return &BillingService{
		quotations: quotations,
		invoices:   invoices,
		vouchers:   vouchers,
		reminders:  reminders,
		bookings:   bookings,
		logger:     logger,
	}
}

func (s *BillingService) CreateQuotation(ctx context.Context, req model.CreateQuotationRequest) (*model.Quotation, error) {
	req.ClientName = strings.TrimSpace(req.ClientName)
	if req.ClientName == "" {
		return nil, fmt.Errorf("client name is required")
	}
	if req.AmountCents <= 0 {
		return nil, fmt.Errorf("amount must be positive")
	}
	checkIn, err := time.Parse(model.DateFormat, req.CheckIn)
	if err != nil {
		return nil, fmt.Errorf("check_in must be %s formatted", model.DateFormat)
	}
	checkOut, err := time.Parse(model.DateFormat, req.CheckOut)
	if err != nil {
		return nil, fmt.Errorf("check_out must be %s formatted", model.DateFormat)
	}
	if !checkOut.After(checkIn) {
		return nil, fmt.Errorf("check-out must be after check-in")
	}
	validUntil, err := time.Parse(model.DateFormat, req.ValidUntil)
	if err != nil {
		validUntil = checkIn
	}

	return s.quotations.Create(ctx, &model.Quotation{
		ClientName:  req.ClientName,
		ClientEmail: req.ClientEmail,
		ResortName:  req.ResortName,
		RoomName:    req.RoomName,
		CheckIn:     checkIn,
		CheckOut:    checkOut,
		AmountCents: req.AmountCents,
		ValidUntil:  validUntil,
	})
}

func (s *BillingService) ListQuotations(ctx context.Context, status string) ([]model.Quotation, error) {
	return s.quotations.List(ctx, status)
}

func (s *BillingService) GetQuotation(ctx context.Context, id string) (*model.Quotation, error) {
	return s.quotations.GetByID(ctx, id)
}

func (s *BillingService) SetQuotationStatus(ctx context.Context, id, status string) error {
	switch status {
	case model.QuotationStatusDraft, model.QuotationStatusSent,
		model.QuotationStatusAccepted, model.QuotationStatusDeclined:
		return s.quotations.SetStatus(ctx, id, status)
	default:
		return fmt.Errorf("unknown quotation status %q", status)
	}
}

func (s *BillingService) CreateInvoice(ctx context.Context, req model.CreateInvoiceRequest) (*model.Invoice, error) {
	if req.TotalCents <= 0 {
		return nil, fmt.Errorf("total must be positive")
	}
	if _, err := s.bookings.GetByID(ctx, req.BookingID); err != nil {
		return nil, fmt.Errorf("booking %s: %w", req.BookingID, err)
	}
	dueDate, err := time.Parse(model.DateFormat, req.DueDate)
	if err != nil {
		return nil, fmt.Errorf("due_date must be %s formatted", model.DateFormat)
	}
	return s.invoices.Create(ctx, &model.Invoice{
		BookingID:   req.BookingID,
		ClientName:  req.ClientName,
		ClientEmail: req.ClientEmail,
		TotalCents:  req.TotalCents,
		DueDate:     dueDate,
	})
}

func (s *BillingService) ListInvoices(ctx context.Context, status string) ([]model.Invoice, error) {
	return s.invoices.List(ctx, status)
}

func (s *BillingService) GetInvoice(ctx context.Context, id string) (*model.Invoice, error) {
	return s.invoices.GetByID(ctx, id)
}

// RecordReceipt posts a payment against an invoice. When the payment
// settles the balance, a voucher is issued for the underlying booking
// and any active reminder schedules for the invoice are deactivated.
func (s *BillingService) RecordReceipt(ctx context.Context, invoiceID string, req model.RecordReceiptRequest) (*model.Receipt, *model.Voucher, error) {
	if req.AmountCents <= 0 {
		return nil, nil, fmt.Errorf("amount must be positive")
	}
	receivedAt := time.Now().UTC()
	if req.ReceivedAt != "" {
		parsed, err := time.Parse(model.DateFormat, req.ReceivedAt)
		if err != nil {
			return nil, nil, fmt.Errorf("received_at must be %s formatted", model.DateFormat)
		}
		receivedAt = parsed
	}

	receipt, invoice, err := s.invoices.RecordPayment(ctx, invoiceID, req, receivedAt)
	if err != nil {
		return nil, nil, err
	}

	var voucher *model.Voucher
	if invoice.FullyPaid() {
		voucher, err = s.vouchers.Create(ctx, invoice.BookingID, invoice.ID, "issued on full payment")
		if err != nil {
			return receipt, nil, fmt.Errorf("issue voucher: %w", err)
		}
		s.deactivateSchedules(ctx, invoice.ID)
	}
	return receipt, voucher, nil
}

func (s *BillingService) ListReceipts(ctx context.Context, invoiceID string) ([]model.Receipt, error) {
	return s.invoices.ListReceipts(ctx, invoiceID)
}

func (s *BillingService) ListVouchers(ctx context.Context) ([]model.Voucher, error) {
	return s.vouchers.List(ctx)
}

// ScheduleReminder configures a recurring payment-due notification for
// an open invoice.
func (s *BillingService) ScheduleReminder(ctx context.Context, req model.ScheduleReminderRequest) (*model.ReminderSchedule, error) {
	if req.IntervalDays < 1 {
		return nil, fmt.Errorf("interval must be at least one day")
	}
	invoice, err := s.invoices.GetByID(ctx, req.InvoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.FullyPaid() {
		return nil, fmt.Errorf("invoice %s is already paid", invoice.Number)
	}
	startAt := time.Now().UTC()
	if req.StartAt != "" {
		parsed, err := time.Parse(model.DateFormat, req.StartAt)
		if err != nil {
			return nil, fmt.Errorf("start_at must be %s formatted", model.DateFormat)
		}
		startAt = parsed
	}
	return s.reminders.CreateSchedule(ctx, req.InvoiceID, req.IntervalDays, startAt)
}

func (s *BillingService) ListReminderSchedules(ctx context.Context) ([]model.ReminderSchedule, error) {
	return s.reminders.ListSchedules(ctx)
}

// SendReminder dispatches one manual payment reminder immediately.
func (s *BillingService) SendReminder(ctx context.Context, invoiceID string) (*model.Reminder, error) {
	invoice, err := s.invoices.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.FullyPaid() {
		return nil, fmt.Errorf("invoice %s is already paid", invoice.Number)
	}
	return s.reminders.RecordReminder(ctx, invoiceID, model.ReminderKindManual, reminderMessage(invoice))
}

func (s *BillingService) ListReminders(ctx context.Context, invoiceID string) ([]model.Reminder, error) {
	return s.reminders.ListByInvoice(ctx, invoiceID)
}

// DispatchDueReminders sends every scheduled reminder whose run time
// has passed and advances each schedule by its interval. Schedules for
// invoices that got paid in the meantime are deactivated instead of
// sent. Returns how many reminders went out.
func (s *BillingService) DispatchDueReminders(ctx context.Context, now time.Time) (int, error) {
	due, err := s.reminders.DueSchedules(ctx, now)
	if err != nil {
		return 0, err
	}
	sent := 0
	for _, schedule := range due {
		invoice, err := s.invoices.GetByID(ctx, schedule.InvoiceID)
		if err != nil {
			s.logger.Warn("reminder schedule references missing invoice",
				"schedule_id", schedule.ID, "invoice_id", schedule.InvoiceID, "err", err)
			continue
		}
		if invoice.FullyPaid() {
			if err := s.reminders.Deactivate(ctx, schedule.ID); err != nil {
				s.logger.Warn("deactivate reminder schedule", "schedule_id", schedule.ID, "err", err)
			}
			continue
		}
		if _, err := s.reminders.RecordReminder(ctx, invoice.ID, model.ReminderKindScheduled, reminderMessage(invoice)); err != nil {
			s.logger.Warn("dispatch reminder", "invoice_id", invoice.ID, "err", err)
			continue
		}
		next := schedule.NextRunAt.AddDate(0, 0, schedule.IntervalDays)
		if err := s.reminders.MarkSent(ctx, schedule.ID, now, next); err != nil {
			s.logger.Warn("advance reminder schedule", "schedule_id", schedule.ID, "err", err)
			continue
		}
		sent++
	}
	return sent, nil
}

func (s *BillingService) deactivateSchedules(ctx context.Context, invoiceID string) {
	schedules, err := s.reminders.ListSchedules(ctx)
	if err != nil {
		s.logger.Warn("list reminder schedules", "err", err)
		return
	}
	for _, schedule := range schedules {
		if schedule.InvoiceID != invoiceID || !schedule.Active {
			continue
		}
		if err := s.reminders.Deactivate(ctx, schedule.ID); err != nil {
			s.logger.Warn("deactivate reminder schedule", "schedule_id", schedule.ID, "err", err)
		}
	}
}

func reminderMessage(inv *model.Invoice) string {
	return fmt.Sprintf("Invoice %s has an outstanding balance of %.2f due %s.",
		inv.Number, float64(inv.BalanceCents())/100, inv.DueDate.Format(model.DateFormat))
}
