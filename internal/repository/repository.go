// Package repository implements all database queries for the back office.
// It uses pgx directly (no ORM) for transparency and performance.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// ErrNoAvailability is returned when a room has no free units for the
// requested dates.
var ErrNoAvailability = errors.New("no availability for the requested dates")

// ErrEmailTaken is returned when a signup reuses an existing email.
var ErrEmailTaken = errors.New("email already registered")

// ErrOverpayment is returned when a receipt would exceed the invoice
// balance.
var ErrOverpayment = errors.New("receipt exceeds outstanding balance")

// nextDocumentNumber reserves the next value of the shared document
// sequence and renders it with the given prefix, e.g. INV-000042.
func nextDocumentNumber(ctx context.Context, db *pgxpool.Pool, prefix string) (string, error) {
	var seq int64
	if err := db.QueryRow(ctx, `SELECT nextval('document_numbers')`).Scan(&seq); err != nil {
		return "", fmt.Errorf("next document number: %w", err)
	}
	return fmt.Sprintf("%s-%06d", prefix, seq), nil
}
