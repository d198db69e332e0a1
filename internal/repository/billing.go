package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/crownvoyages/backoffice/internal/model"
)

// QuotationRepository handles persistence for quotations.
type QuotationRepository struct {
	db *pgxpool.Pool
}

func NewQuotationRepository(db *pgxpool.Pool) *QuotationRepository {
	return &QuotationRepository{db: db}
}

func (r *QuotationRepository) Create(ctx context.Context, q *model.Quotation) (*model.Quotation, error) {
	number, err := nextDocumentNumber(ctx, r.db, "QT")
	if err != nil {
		return nil, err
	}
	q.ID = uuid.New().String()
	q.Number = number
	q.Status = model.QuotationStatusDraft
	q.CreatedAt = time.Now().UTC()

	_, err = r.db.Exec(ctx,
		`INSERT INTO quotations (id, number, client_name, client_email, resort_name, room_name,
		                         check_in, check_out, amount_cents, valid_until, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		q.ID, q.Number, q.ClientName, q.ClientEmail, q.ResortName, q.RoomName,
		q.CheckIn, q.CheckOut, q.AmountCents, q.ValidUntil, q.Status, q.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert quotation: %w", err)
	}
	return q, nil
}

func (r *QuotationRepository) List(ctx context.Context, status string) ([]model.Quotation, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, number, client_name, client_email, resort_name, room_name,
		        check_in, check_out, amount_cents, valid_until, status, created_at
		 FROM quotations
		 WHERE ($1 = '' OR status = $1)
		 ORDER BY created_at DESC`,
		status,
	)
	if err != nil {
		return nil, fmt.Errorf("list quotations: %w", err)
	}
	defer rows.Close()

	var quotes []model.Quotation
	for rows.Next() {
		var q model.Quotation
		if err := rows.Scan(&q.ID, &q.Number, &q.ClientName, &q.ClientEmail, &q.ResortName, &q.RoomName,
			&q.CheckIn, &q.CheckOut, &q.AmountCents, &q.ValidUntil, &q.Status, &q.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan quotation: %w", err)
		}
		quotes = append(quotes, q)
	}
	return quotes, rows.Err()
}

func (r *QuotationRepository) GetByID(ctx context.Context, id string) (*model.Quotation, error) {
	var q model.Quotation
	err := r.db.QueryRow(ctx,
		`SELECT id, number, client_name, client_email, resort_name, room_name,
		        check_in, check_out, amount_cents, valid_until, status, created_at
		 FROM quotations WHERE id = $1`,
		id,
	).Scan(&q.ID, &q.Number, &q.ClientName, &q.ClientEmail, &q.ResortName, &q.RoomName,
		&q.CheckIn, &q.CheckOut, &q.AmountCents, &q.ValidUntil, &q.Status, &q.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get quotation: %w", err)
	}
	return &q, nil
}

func (r *QuotationRepository) SetStatus(ctx context.Context, id, status string) error {
	tag, err := r.db.Exec(ctx, `UPDATE quotations SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("set quotation status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// InvoiceRepository handles persistence for invoices and receipts.
type InvoiceRepository struct {
	db *pgxpool.Pool
}

func NewInvoiceRepository(db *pgxpool.Pool) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

func (r *InvoiceRepository) Create(ctx context.Context, inv *model.Invoice) (*model.Invoice, error) {
	number, err := nextDocumentNumber(ctx, r.db, "INV")
	if err != nil {
		return nil, err
	}
	inv.ID = uuid.New().String()
	inv.Number = number
	inv.Status = model.InvoiceStatusOpen
	inv.CreatedAt = time.Now().UTC()

	_, err = r.db.Exec(ctx,
		`INSERT INTO invoices (id, number, booking_id, client_name, client_email,
		                       total_cents, paid_cents, due_date, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		inv.ID, inv.Number, inv.BookingID, inv.ClientName, inv.ClientEmail,
		inv.TotalCents, inv.PaidCents, inv.DueDate, inv.Status, inv.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert invoice: %w", err)
	}
	return inv, nil
}

func (r *InvoiceRepository) List(ctx context.Context, status string) ([]model.Invoice, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, number, booking_id, client_name, client_email,
		        total_cents, paid_cents, due_date, status, created_at
		 FROM invoices
		 WHERE ($1 = '' OR status = $1)
		 ORDER BY created_at DESC`,
		status,
	)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var invoices []model.Invoice
	for rows.Next() {
		var inv model.Invoice
		if err := rows.Scan(&inv.ID, &inv.Number, &inv.BookingID, &inv.ClientName, &inv.ClientEmail,
			&inv.TotalCents, &inv.PaidCents, &inv.DueDate, &inv.Status, &inv.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

func (r *InvoiceRepository) GetByID(ctx context.Context, id string) (*model.Invoice, error) {
	var inv model.Invoice
	err := r.db.QueryRow(ctx,
		`SELECT id, number, booking_id, client_name, client_email,
		        total_cents, paid_cents, due_date, status, created_at
		 FROM invoices WHERE id = $1`,
		id,
	).Scan(&inv.ID, &inv.Number, &inv.BookingID, &inv.ClientName, &inv.ClientEmail,
		&inv.TotalCents, &inv.PaidCents, &inv.DueDate, &inv.Status, &inv.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return &inv, nil
}

// RecordPayment inserts a receipt and moves the invoice's paid counter
// inside one transaction, locking the invoice row so two concurrent
// receipts cannot both read the same balance. Returns the receipt and
// the invoice state after payment.
func (r *InvoiceRepository) RecordPayment(ctx context.Context, invoiceID string, req model.RecordReceiptRequest, receivedAt time.Time) (*model.Receipt, *model.Invoice, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	var inv model.Invoice
	err = tx.QueryRow(ctx,
		`SELECT id, number, booking_id, client_name, client_email,
		        total_cents, paid_cents, due_date, status, created_at
		 FROM invoices
		 WHERE id = $1
		 FOR UPDATE`,
		invoiceID,
	).Scan(&inv.ID, &inv.Number, &inv.BookingID, &inv.ClientName, &inv.ClientEmail,
		&inv.TotalCents, &inv.PaidCents, &inv.DueDate, &inv.Status, &inv.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("lock invoice row: %w", err)
	}

	if req.AmountCents > inv.BalanceCents() {
		err = ErrOverpayment
		return nil, nil, err
	}

	number, err := nextDocumentNumber(ctx, r.db, "RCT")
	if err != nil {
		return nil, nil, err
	}
	receipt := &model.Receipt{
		ID:          uuid.New().String(),
		Number:      number,
		InvoiceID:   invoiceID,
		AmountCents: req.AmountCents,
		Method:      req.Method,
		ReceivedAt:  receivedAt,
		CreatedAt:   time.Now().UTC(),
	}
	_, err = tx.Exec(ctx,
		`INSERT INTO receipts (id, number, invoice_id, amount_cents, method, received_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		receipt.ID, receipt.Number, receipt.InvoiceID, receipt.AmountCents,
		receipt.Method, receipt.ReceivedAt, receipt.CreatedAt,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("insert receipt: %w", err)
	}

	inv.PaidCents += req.AmountCents
	inv.Status = model.InvoiceStatusPartial
	if inv.FullyPaid() {
		inv.Status = model.InvoiceStatusPaid
	}
	_, err = tx.Exec(ctx,
		`UPDATE invoices SET paid_cents = $2, status = $3 WHERE id = $1`,
		invoiceID, inv.PaidCents, inv.Status,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("update invoice paid amount: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("commit transaction: %w", err)
	}
	return receipt, &inv, nil
}

func (r *InvoiceRepository) ListReceipts(ctx context.Context, invoiceID string) ([]model.Receipt, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, number, invoice_id, amount_cents, method, received_at, created_at
		 FROM receipts
		 WHERE invoice_id = $1
		 ORDER BY received_at ASC`,
		invoiceID,
	)
	if err != nil {
		return nil, fmt.Errorf("list receipts: %w", err)
	}
	defer rows.Close()

	var receipts []model.Receipt
	for rows.Next() {
		var rc model.Receipt
		if err := rows.Scan(&rc.ID, &rc.Number, &rc.InvoiceID, &rc.AmountCents,
			&rc.Method, &rc.ReceivedAt, &rc.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan receipt: %w", err)
		}
		receipts = append(receipts, rc)
	}
	return receipts, rows.Err()
}

// VoucherRepository handles persistence for vouchers.
type VoucherRepository struct {
	db *pgxpool.Pool
}

func NewVoucherRepository(db *pgxpool.Pool) *VoucherRepository {
	return &VoucherRepository{db: db}
}

func (r *VoucherRepository) Create(ctx context.Context, bookingID, invoiceID, notes string) (*model.Voucher, error) {
	number, err := nextDocumentNumber(ctx, r.db, "VCH")
	if err != nil {
		return nil, err
	}
	v := &model.Voucher{
		ID:        uuid.New().String(),
		Number:    number,
		BookingID: bookingID,
		InvoiceID: invoiceID,
		Notes:     notes,
		IssuedAt:  time.Now().UTC(),
	}
	_, err = r.db.Exec(ctx,
		`INSERT INTO vouchers (id, number, booking_id, invoice_id, notes, issued_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		v.ID, v.Number, v.BookingID, v.InvoiceID, v.Notes, v.IssuedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert voucher: %w", err)
	}
	return v, nil
}

func (r *VoucherRepository) List(ctx context.Context) ([]model.Voucher, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, number, booking_id, invoice_id, notes, issued_at
		 FROM vouchers
		 ORDER BY issued_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list vouchers: %w", err)
	}
	defer rows.Close()

	var vouchers []model.Voucher
	for rows.Next() {
		var v model.Voucher
		if err := rows.Scan(&v.ID, &v.Number, &v.BookingID, &v.InvoiceID, &v.Notes, &v.IssuedAt); err != nil {
			return nil, fmt.Errorf("scan voucher: %w", err)
		}
		vouchers = append(vouchers, v)
	}
	return vouchers, rows.Err()
}
