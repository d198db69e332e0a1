package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/crownvoyages/backoffice/internal/model"
	"github.com/crownvoyages/backoffice/internal/repository"
)

// CatalogService manages the resort and room catalog, including
// availability calendars.
type CatalogService struct {
	resorts *repository.ResortRepository
	rooms   *repository.RoomRepository
}

func NewCatalogService(
	resorts *repository.ResortRepository,
	rooms *repository.RoomRepository,
) *CatalogService {
	return &CatalogService{resorts: resorts, rooms: rooms}
}

func (s *CatalogService) CreateResort(ctx context.Context, req model.CreateResortRequest) (*model.Resort, error) {
	if err := validateResort(&req); err != nil {
		return nil, err
	}
	return s.resorts.Create(ctx, req)
}

func (s *CatalogService) UpdateResort(ctx context.Context, id string, req model.CreateResortRequest) (*model.Resort, error) {
	if err := validateResort(&req); err != nil {
		return nil, err
	}
	return s.resorts.Update(ctx, id, req)
}

func (s *CatalogService) ListResorts(ctx context.Context) ([]model.Resort, error) {
	return s.resorts.List(ctx)
}

func (s *CatalogService) GetResort(ctx context.Context, id string) (*model.Resort, error) {
	return s.resorts.GetByID(ctx, id)
}

func (s *CatalogService) DeleteResort(ctx context.Context, id string) error {
	return s.resorts.Delete(ctx, id)
}

func (s *CatalogService) CreateRoom(ctx context.Context, req model.CreateRoomRequest) (*model.Room, error) {
	if err := validateRoom(&req); err != nil {
		return nil, err
	}
	if _, err := s.resorts.GetByID(ctx, req.ResortID); err != nil {
		return nil, fmt.Errorf("resort %s: %w", req.ResortID, err)
	}
	return s.rooms.Create(ctx, req)
}

func (s *CatalogService) UpdateRoom(ctx context.Context, id string, req model.CreateRoomRequest) (*model.Room, error) {
	if err := validateRoom(&req); err != nil {
		return nil, err
	}
	return s.rooms.Update(ctx, id, req)
}

func (s *CatalogService) ListRooms(ctx context.Context, resortID string) ([]model.Room, error) {
	return s.rooms.ListByResort(ctx, resortID)
}

func (s *CatalogService) GetRoom(ctx context.Context, id string) (*model.Room, error) {
	return s.rooms.GetByID(ctx, id)
}

func (s *CatalogService) DeleteRoom(ctx context.Context, id string) error {
	return s.rooms.Delete(ctx, id)
}

// SetAvailability writes one calendar day for a room. An omitted price
// falls back to the room's base rate.
func (s *CatalogService) SetAvailability(ctx context.Context, roomID string, req model.AvailabilityRequest) (*model.AvailabilityEntry, error) {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	date, err := time.Parse(model.DateFormat, req.Date)
	if err != nil {
		return nil, fmt.Errorf("date must be %s formatted", model.DateFormat)
	}
	if req.Units < 0 {
		return nil, fmt.Errorf("units cannot be negative")
	}
	if req.Units > room.TotalUnits {
		return nil, fmt.Errorf("units cannot exceed the room's %d total units", room.TotalUnits)
	}
	price := req.PriceCents
	if price == 0 {
		price = room.PriceCents
	}
	return s.rooms.SetAvailability(ctx, roomID, date, req.Units, price)
}

func (s *CatalogService) ListAvailability(ctx context.Context, roomID, from, to string) ([]model.AvailabilityEntry, error) {
	fromDate, err := time.Parse(model.DateFormat, from)
	if err != nil {
		return nil, fmt.Errorf("from must be %s formatted", model.DateFormat)
	}
	toDate, err := time.Parse(model.DateFormat, to)
	if err != nil {
		return nil, fmt.Errorf("to must be %s formatted", model.DateFormat)
	}
	return s.rooms.ListAvailability(ctx, roomID, fromDate, toDate)
}

func validateResort(req *model.CreateResortRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return fmt.Errorf("resort name is required")
	}
	if req.Stars < 0 || req.Stars > 5 {
		return fmt.Errorf("stars must be between 0 and 5")
	}
	return nil
}

func validateRoom(req *model.CreateRoomRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return fmt.Errorf("room name is required")
	}
	if req.MaxAdults < 1 {
		return fmt.Errorf("max adults must be at least 1")
	}
	if req.MaxChildren < 0 {
		return fmt.Errorf("max children cannot be negative")
	}
	if req.PriceCents < 0 {
		return fmt.Errorf("price cannot be negative")
	}
	if req.TotalUnits < 1 {
		return fmt.Errorf("total units must be at least 1")
	}
	return nil
}
