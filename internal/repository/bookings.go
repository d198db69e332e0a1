package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/crownvoyages/backoffice/internal/model"
)

// BookingRepository handles persistence for bookings.
type BookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{db: db}
}

// Create inserts a booking after decrementing the room's availability
// counters for every night of the stay inside one transaction.
//
// Two concurrent submissions for the last unit of the same room would
// both read a free unit under a naive read-then-write; the calendar rows
// are therefore locked with SELECT … FOR UPDATE so attempts serialise
// and the second one observes the decremented counter.
func (r *BookingRepository) Create(ctx context.Context, req model.BookingCreate) (*model.Booking, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	// Lock every calendar row touched by the stay. Nights without an
	// explicit calendar entry are treated as unconstrained.
	rows, err := tx.Query(ctx,
		`SELECT id, units FROM room_availability
		 WHERE room_id = $1 AND date >= $2 AND date < $3
		 ORDER BY date ASC
		 FOR UPDATE`,
		req.RoomID, req.CheckIn, req.CheckOut,
	)
	if err != nil {
		return nil, fmt.Errorf("lock availability: %w", err)
	}
	type held struct {
		id    string
		units int
	}
	var nights []held
	for rows.Next() {
		var h held
		if scanErr := rows.Scan(&h.id, &h.units); scanErr != nil {
			rows.Close()
			err = fmt.Errorf("scan availability: %w", scanErr)
			return nil, err
		}
		nights = append(nights, h)
	}
	rows.Close()
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("lock availability: %w", err)
	}

	for _, n := range nights {
		if n.units < req.Rooms {
			err = ErrNoAvailability
			return nil, err
		}
	}
	for _, n := range nights {
		if _, err = tx.Exec(ctx,
			`UPDATE room_availability SET units = units - $2 WHERE id = $1`,
			n.id, req.Rooms,
		); err != nil {
			return nil, fmt.Errorf("decrement availability: %w", err)
		}
	}

	booking := &model.Booking{
		ID:              uuid.New().String(),
		ResortID:        req.ResortID,
		ResortName:      req.ResortName,
		RoomID:          req.RoomID,
		RoomName:        req.RoomName,
		ClientName:      req.ClientName,
		ClientEmail:     req.ClientEmail,
		ClientPhone:     req.ClientPhone,
		CheckIn:         req.CheckIn,
		CheckOut:        req.CheckOut,
		MealPlan:        req.MealPlan,
		Rooms:           req.Rooms,
		Adults:          req.Adults,
		Children:        req.Children,
		SpecialRequests: req.SpecialRequests,
		Passengers:      req.Passengers,
		Status:          model.BookingStatusConfirmed,
		CreatedAt:       time.Now().UTC(),
	}

	passengers, err := json.Marshal(booking.Passengers)
	if err != nil {
		return nil, fmt.Errorf("marshal passengers: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO bookings (id, resort_id, resort_name, room_id, room_name,
		                       client_name, client_email, client_phone,
		                       check_in, check_out, meal_plan, rooms, adults, children,
		                       special_requests, passengers, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		booking.ID, booking.ResortID, booking.ResortName, booking.RoomID, booking.RoomName,
		booking.ClientName, booking.ClientEmail, booking.ClientPhone,
		booking.CheckIn, booking.CheckOut, booking.MealPlan, booking.Rooms, booking.Adults, booking.Children,
		booking.SpecialRequests, passengers, booking.Status, booking.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert booking: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return booking, nil
}

// ListFilter narrows List results; zero values mean no constraint.
type ListFilter struct {
	ClientName string
	From       time.Time
	To         time.Time
}

func (r *BookingRepository) List(ctx context.Context, f ListFilter) ([]model.Booking, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, resort_id, resort_name, room_id, room_name,
		        client_name, client_email, client_phone,
		        check_in, check_out, meal_plan, rooms, adults, children,
		        special_requests, passengers, status, created_at
		 FROM bookings
		 WHERE ($1 = '' OR client_name ILIKE '%' || $1 || '%')
		   AND ($2::timestamptz IS NULL OR check_in >= $2)
		   AND ($3::timestamptz IS NULL OR check_out <= $3)
		 ORDER BY created_at DESC`,
		f.ClientName, nullableTime(f.From), nullableTime(f.To),
	)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []model.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

func (r *BookingRepository) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, resort_id, resort_name, room_id, room_name,
		        client_name, client_email, client_phone,
		        check_in, check_out, meal_plan, rooms, adults, children,
		        special_requests, passengers, status, created_at
		 FROM bookings WHERE id = $1`,
		id,
	)
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

// Cancel marks a booking cancelled without touching availability; freed
// units are restored by catalog staff through the calendar screens.
func (r *BookingRepository) Cancel(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE bookings SET status = $2 WHERE id = $1`,
		id, model.BookingStatusCancelled,
	)
	if err != nil {
		return fmt.Errorf("cancel booking: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanBooking(row pgx.Row) (*model.Booking, error) {
	var b model.Booking
	var passengers []byte
	err := row.Scan(&b.ID, &b.ResortID, &b.ResortName, &b.RoomID, &b.RoomName,
		&b.ClientName, &b.ClientEmail, &b.ClientPhone,
		&b.CheckIn, &b.CheckOut, &b.MealPlan, &b.Rooms, &b.Adults, &b.Children,
		&b.SpecialRequests, &passengers, &b.Status, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan booking: %w", err)
	}
	if len(passengers) > 0 {
		if err := json.Unmarshal(passengers, &b.Passengers); err != nil {
			return nil, fmt.Errorf("unmarshal passengers: %w", err)
		}
	}
	return &b, nil
}

// nullableTime maps the zero time to SQL NULL for optional filters.
func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
