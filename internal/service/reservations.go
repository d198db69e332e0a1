// Package service implements business logic, validation, and
// orchestration between HTTP handlers and the repository layer.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/crownvoyages/backoffice/internal/model"
	"github.com/crownvoyages/backoffice/internal/repository"
)

// ReservationService creates bookings and leads. It is the submitter
// behind the wizard's final fan-out and also backs the direct booking
// and lead screens.
type ReservationService struct {
	bookings *repository.BookingRepository
	leads    *repository.LeadRepository
}

func NewReservationService(
	bookings *repository.BookingRepository,
	leads *repository.LeadRepository,
) *ReservationService {
	return &ReservationService{bookings: bookings, leads: leads}
}

// CreateBooking validates the request and delegates the availability-
// guarded insert to the repository.
func (s *ReservationService) CreateBooking(ctx context.Context, req model.BookingCreate) (*model.Booking, error) {
	req.ClientName = strings.TrimSpace(req.ClientName)
	if req.ClientName == "" {
		return nil, fmt.Errorf("client name is required")
	}
	if req.RoomID == "" {
		return nil, fmt.Errorf("room id is required")
	}
	if !req.CheckOut.After(req.CheckIn) {
		return nil, fmt.Errorf("check-out must be after check-in")
	}
	if req.Rooms < 1 {
		req.Rooms = 1
	}
	if req.Adults < 1 {
		return nil, fmt.Errorf("at least one adult is required")
	}

	booking, err := s.bookings.Create(ctx, req)
	if err != nil {
		// Surface domain errors directly so handlers can set correct
		// HTTP status.
		if errors.Is(err, repository.ErrNoAvailability) {
			return nil, err
		}
		return nil, fmt.Errorf("create booking: %w", err)
	}
	return booking, nil
}

// CreateLead validates and stores a prospective booking record.
func (s *ReservationService) CreateLead(ctx context.Context, req model.LeadCreate) (*model.Lead, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Name == "" {
		return nil, fmt.Errorf("lead name is required")
	}
	if req.Email != "" && !isValidEmail(req.Email) {
		return nil, fmt.Errorf("email is not a valid email address")
	}
	if req.Source == "" {
		req.Source = "manual"
	}
	lead, err := s.leads.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create lead: %w", err)
	}
	return lead, nil
}

func (s *ReservationService) ListBookings(ctx context.Context, f repository.ListFilter) ([]model.Booking, error) {
	return s.bookings.List(ctx, f)
}

func (s *ReservationService) GetBooking(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, fmt.Errorf("booking id is required")
	}
	return s.bookings.GetByID(ctx, id)
}

func (s *ReservationService) CancelBooking(ctx context.Context, id string) error {
	return s.bookings.Cancel(ctx, id)
}

func (s *ReservationService) ListLeads(ctx context.Context, status string) ([]model.Lead, error) {
	return s.leads.List(ctx, status)
}

func (s *ReservationService) GetLead(ctx context.Context, id string) (*model.Lead, error) {
	return s.leads.GetByID(ctx, id)
}

func (s *ReservationService) SetLeadStatus(ctx context.Context, id, status string) error {
	switch status {
	case model.LeadStatusNew, model.LeadStatusContacted, model.LeadStatusConverted, model.LeadStatusLost:
		return s.leads.SetStatus(ctx, id, status)
	default:
		return fmt.Errorf("unknown lead status %q", status)
	}
}

// isValidEmail does a basic structural check (no external deps).
func isValidEmail(email string) bool {
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return false
	}
	return len(parts[0]) > 0 && strings.Contains(parts[1], ".")
}
