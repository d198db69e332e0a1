package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/crownvoyages/backoffice/internal/model"
)

// ReminderRepository handles persistence for payment reminder schedules
// and dispatched reminders.
type ReminderRepository struct {
	db *pgxpool.Pool
}

func NewReminderRepository(db *pgxpool.Pool) *ReminderRepository {
	return &ReminderRepository{db: db}
}

func (r *ReminderRepository) CreateSchedule(ctx context.Context, invoiceID string, intervalDays int, startAt time.Time) (*model.ReminderSchedule, error) {
	s := &model.ReminderSchedule{
		ID:           uuid.New().String(),
		InvoiceID:    invoiceID,
		IntervalDays: intervalDays,
		NextRunAt:    startAt,
		Active:       true,
		CreatedAt:    time.Now().UTC(),
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO reminder_schedules (id, invoice_id, interval_days, next_run_at, active, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		s.ID, s.InvoiceID, s.IntervalDays, s.NextRunAt, s.Active, s.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert reminder schedule: %w", err)
	}
	return s, nil
}

func (r *ReminderRepository) ListSchedules(ctx context.Context) ([]model.ReminderSchedule, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, invoice_id, interval_days, next_run_at, active, last_sent_at, created_at
		 FROM reminder_schedules
		 ORDER BY next_run_at ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list reminder schedules: %w", err)
	}
	defer rows.Close()
	return scanSchedules(rows)
}

// DueSchedules returns active schedules whose next run is at or before
// now.
func (r *ReminderRepository) DueSchedules(ctx context.Context, now time.Time) ([]model.ReminderSchedule, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, invoice_id, interval_days, next_run_at, active, last_sent_at, created_at
		 FROM reminder_schedules
		 WHERE active AND next_run_at <= $1
		 ORDER BY next_run_at ASC`,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("due reminder schedules: %w", err)
	}
	defer rows.Close()
	return scanSchedules(rows)
}

// MarkSent advances a schedule to its next run and stamps the send time.
func (r *ReminderRepository) MarkSent(ctx context.Context, id string, sentAt, nextRunAt time.Time) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE reminder_schedules SET last_sent_at = $2, next_run_at = $3 WHERE id = $1`,
		id, sentAt, nextRunAt,
	)
	if err != nil {
		return fmt.Errorf("mark reminder sent: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Deactivate stops a schedule, typically once its invoice is paid.
func (r *ReminderRepository) Deactivate(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE reminder_schedules SET active = FALSE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deactivate reminder schedule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// RecordReminder logs one dispatched reminder.
func (r *ReminderRepository) RecordReminder(ctx context.Context, invoiceID, kind, message string) (*model.Reminder, error) {
	rem := &model.Reminder{
		ID:        uuid.New().String(),
		InvoiceID: invoiceID,
		Kind:      kind,
		Message:   message,
		SentAt:    time.Now().UTC(),
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO reminders (id, invoice_id, kind, message, sent_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		rem.ID, rem.InvoiceID, rem.Kind, rem.Message, rem.SentAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert reminder: %w", err)
	}
	return rem, nil
}

func (r *ReminderRepository) ListByInvoice(ctx context.Context, invoiceID string) ([]model.Reminder, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, invoice_id, kind, message, sent_at
		 FROM reminders
		 WHERE invoice_id = $1
		 ORDER BY sent_at DESC`,
		invoiceID,
	)
	if err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}
	defer rows.Close()

	var reminders []model.Reminder
	for rows.Next() {
		var rem model.Reminder
		if err := rows.Scan(&rem.ID, &rem.InvoiceID, &rem.Kind, &rem.Message, &rem.SentAt); err != nil {
			return nil, fmt.Errorf("scan reminder: %w", err)
		}
		reminders = append(reminders, rem)
	}
	return reminders, rows.Err()
}

func scanSchedules(rows pgx.Rows) ([]model.ReminderSchedule, error) {
	var schedules []model.ReminderSchedule
	for rows.Next() {
		var s model.ReminderSchedule
		if err := rows.Scan(&s.ID, &s.InvoiceID, &s.IntervalDays, &s.NextRunAt,
			&s.Active, &s.LastSentAt, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan reminder schedule: %w", err)
		}
		schedules = append(schedules, s)
	}
	return schedules, rows.Err()
}
