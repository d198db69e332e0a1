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

// RoomRepository handles persistence for rooms and their availability
// calendars.
type RoomRepository struct {
	db *pgxpool.Pool
}

func NewRoomRepository(db *pgxpool.Pool) *RoomRepository {
	return &RoomRepository{db: db}
}

func (r *RoomRepository) Create(ctx context.Context, req model.CreateRoomRequest) (*model.Room, error) {
	room := &model.Room{
		ID:          uuid.New().String(),
		ResortID:    req.ResortID,
		Name:        req.Name,
		Category:    req.Category,
		Beds:        req.Beds,
		MaxAdults:   req.MaxAdults,
		MaxChildren: req.MaxChildren,
		PriceCents:  req.PriceCents,
		MealPlans:   req.MealPlans,
		Images:      req.Images,
		TotalUnits:  req.TotalUnits,
		CreatedAt:   time.Now().UTC(),
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO rooms (id, resort_id, name, category, beds, max_adults, max_children,
		                    price_cents, meal_plans, images, total_units, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		room.ID, room.ResortID, room.Name, room.Category, room.Beds, room.MaxAdults, room.MaxChildren,
		room.PriceCents, room.MealPlans, room.Images, room.TotalUnits, room.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert room: %w", err)
	}
	return room, nil
}

func (r *RoomRepository) Update(ctx context.Context, id string, req model.CreateRoomRequest) (*model.Room, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE rooms
		 SET name = $2, category = $3, beds = $4, max_adults = $5, max_children = $6,
		     price_cents = $7, meal_plans = $8, images = $9, total_units = $10
		 WHERE id = $1`,
		id, req.Name, req.Category, req.Beds, req.MaxAdults, req.MaxChildren,
		req.PriceCents, req.MealPlans, req.Images, req.TotalUnits,
	)
	if err != nil {
		return nil, fmt.Errorf("update room: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *RoomRepository) ListByResort(ctx context.Context, resortID string) ([]model.Room, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, resort_id, name, category, beds, max_adults, max_children,
		        price_cents, meal_plans, images, total_units, created_at
		 FROM rooms
		 WHERE resort_id = $1
		 ORDER BY name ASC`,
		resortID,
	)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	defer rows.Close()
	return scanRooms(rows)
}

func (r *RoomRepository) GetByID(ctx context.Context, id string) (*model.Room, error) {
	var room model.Room
	err := r.db.QueryRow(ctx,
		`SELECT id, resort_id, name, category, beds, max_adults, max_children,
		        price_cents, meal_plans, images, total_units, created_at
		 FROM rooms WHERE id = $1`,
		id,
	).Scan(&room.ID, &room.ResortID, &room.Name, &room.Category, &room.Beds,
		&room.MaxAdults, &room.MaxChildren, &room.PriceCents, &room.MealPlans,
		&room.Images, &room.TotalUnits, &room.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get room: %w", err)
	}
	return &room, nil
}

func (r *RoomRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM rooms WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete room: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetAvailability inserts or overwrites one calendar day for a room.
func (r *RoomRepository) SetAvailability(ctx context.Context, roomID string, date time.Time, units int, priceCents int64) (*model.AvailabilityEntry, error) {
	entry := &model.AvailabilityEntry{
		ID:         uuid.New().String(),
		RoomID:     roomID,
		Date:       date,
		Units:      units,
		PriceCents: priceCents,
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO room_availability (id, room_id, date, units, price_cents)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (room_id, date)
		 DO UPDATE SET units = EXCLUDED.units, price_cents = EXCLUDED.price_cents`,
		entry.ID, entry.RoomID, entry.Date, entry.Units, entry.PriceCents,
	)
	if err != nil {
		return nil, fmt.Errorf("set availability: %w", err)
	}
	return entry, nil
}

// ListAvailability returns the calendar entries for a room between two
// dates inclusive.
func (r *RoomRepository) ListAvailability(ctx context.Context, roomID string, from, to time.Time) ([]model.AvailabilityEntry, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, room_id, date, units, price_cents
		 FROM room_availability
		 WHERE room_id = $1 AND date BETWEEN $2 AND $3
		 ORDER BY date ASC`,
		roomID, from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("list availability: %w", err)
	}
	defer rows.Close()

	var entries []model.AvailabilityEntry
	for rows.Next() {
		var e model.AvailabilityEntry
		if err := rows.Scan(&e.ID, &e.RoomID, &e.Date, &e.Units, &e.PriceCents); err != nil {
			return nil, fmt.Errorf("scan availability: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func scanRooms(rows pgx.Rows) ([]model.Room, error) {
	var rooms []model.Room
	for rows.Next() {
		var room model.Room
		if err := rows.Scan(&room.ID, &room.ResortID, &room.Name, &room.Category, &room.Beds,
			&room.MaxAdults, &room.MaxChildren, &room.PriceCents, &room.MealPlans,
			&room.Images, &room.TotalUnits, &room.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan room: %w", err)
		}
		rooms = append(rooms, room)
	}
	return rooms, rows.Err()
}
