package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/crownvoyages/backoffice/internal/model"
)

// DashboardRepository runs the aggregate queries behind the overview
// cards and charts.
type DashboardRepository struct {
	db *pgxpool.Pool
}

func NewDashboardRepository(db *pgxpool.Pool) *DashboardRepository {
	return &DashboardRepository{db: db}
}

func (r *DashboardRepository) Summary(ctx context.Context, now time.Time) (*model.DashboardSummary, error) {
	var s model.DashboardSummary
	err := r.db.QueryRow(ctx,
		`SELECT
		   (SELECT COUNT(*) FROM bookings),
		   (SELECT COUNT(*) FROM leads),
		   (SELECT COUNT(*) FROM quotations),
		   (SELECT COUNT(*) FROM invoices WHERE status <> 'paid'),
		   (SELECT COUNT(*) FROM invoices WHERE status <> 'paid' AND due_date < $1),
		   (SELECT COALESCE(SUM(paid_cents), 0) FROM invoices),
		   (SELECT COALESCE(SUM(total_cents - paid_cents), 0) FROM invoices WHERE status <> 'paid')`,
		now,
	).Scan(&s.Bookings, &s.Leads, &s.Quotations, &s.OpenInvoices,
		&s.OverdueInvoices, &s.RevenueCents, &s.OutstandingCents)
	if err != nil {
		return nil, fmt.Errorf("dashboard summary: %w", err)
	}
	return &s, nil
}

// MonthlyBookings returns one row per month of the given year with the
// number of bookings created in it.
func (r *DashboardRepository) MonthlyBookings(ctx context.Context, year int) ([]model.MonthlyCount, error) {
	rows, err := r.db.Query(ctx,
		`SELECT to_char(created_at, 'YYYY-MM') AS month, COUNT(*)
		 FROM bookings
		 WHERE EXTRACT(YEAR FROM created_at) = $1
		 GROUP BY month
		 ORDER BY month ASC`,
		year,
	)
	if err != nil {
		return nil, fmt.Errorf("monthly bookings: %w", err)
	}
	defer rows.Close()

	var counts []model.MonthlyCount
	for rows.Next() {
		var c model.MonthlyCount
		if err := rows.Scan(&c.Month, &c.Count); err != nil {
			return nil, fmt.Errorf("scan monthly count: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// MonthlyRevenue returns collected payment totals per month of a year.
func (r *DashboardRepository) MonthlyRevenue(ctx context.Context, year int) ([]model.MonthlyAmount, error) {
	rows, err := r.db.Query(ctx,
		`SELECT to_char(received_at, 'YYYY-MM') AS month, COALESCE(SUM(amount_cents), 0)
		 FROM receipts
		 WHERE EXTRACT(YEAR FROM received_at) = $1
		 GROUP BY month
		 ORDER BY month ASC`,
		year,
	)
	if err != nil {
		return nil, fmt.Errorf("monthly revenue: %w", err)
	}
	defer rows.Close()

	var totals []model.MonthlyAmount
	for rows.Next() {
		var a model.MonthlyAmount
		if err := rows.Scan(&a.Month, &a.AmountCents); err != nil {
			return nil, fmt.Errorf("scan monthly revenue: %w", err)
		}
		totals = append(totals, a)
	}
	return totals, rows.Err()
}
