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

// LeadRepository handles persistence for leads.
type LeadRepository struct {
	db *pgxpool.Pool
}

func NewLeadRepository(db *pgxpool.Pool) *LeadRepository {
	return &LeadRepository{db: db}
}

func (r *LeadRepository) Create(ctx context.Context, req model.LeadCreate) (*model.Lead, error) {
	lead := &model.Lead{
		ID:         uuid.New().String(),
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		ResortName: req.ResortName,
		RoomName:   req.RoomName,
		CheckIn:    req.CheckIn,
		CheckOut:   req.CheckOut,
		Source:     req.Source,
		Status:     model.LeadStatusNew,
		Notes:      req.Notes,
		CreatedAt:  time.Now().UTC(),
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO leads (id, name, email, phone, resort_name, room_name,
		                    check_in, check_out, source, status, notes, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		lead.ID, lead.Name, lead.Email, lead.Phone, lead.ResortName, lead.RoomName,
		lead.CheckIn, lead.CheckOut, lead.Source, lead.Status, lead.Notes, lead.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert lead: %w", err)
	}
	return lead, nil
}

func (r *LeadRepository) List(ctx context.Context, status string) ([]model.Lead, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, email, phone, resort_name, room_name,
		        check_in, check_out, source, status, notes, created_at
		 FROM leads
		 WHERE ($1 = '' OR status = $1)
		 ORDER BY created_at DESC`,
		status,
	)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	var leads []model.Lead
	for rows.Next() {
		var l model.Lead
		if err := rows.Scan(&l.ID, &l.Name, &l.Email, &l.Phone, &l.ResortName, &l.RoomName,
			&l.CheckIn, &l.CheckOut, &l.Source, &l.Status, &l.Notes, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		leads = append(leads, l)
	}
	return leads, rows.Err()
}

func (r *LeadRepository) GetByID(ctx context.Context, id string) (*model.Lead, error) {
	var l model.Lead
	err := r.db.QueryRow(ctx,
		`SELECT id, name, email, phone, resort_name, room_name,
		        check_in, check_out, source, status, notes, created_at
		 FROM leads WHERE id = $1`,
		id,
	).Scan(&l.ID, &l.Name, &l.Email, &l.Phone, &l.ResortName, &l.RoomName,
		&l.CheckIn, &l.CheckOut, &l.Source, &l.Status, &l.Notes, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get lead: %w", err)
	}
	return &l, nil
}

// SetStatus moves a lead through its pipeline (new → contacted →
// converted/lost).
func (r *LeadRepository) SetStatus(ctx context.Context, id, status string) error {
	tag, err := r.db.Exec(ctx, `UPDATE leads SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("set lead status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
