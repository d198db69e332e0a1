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

// ResortRepository handles persistence for resorts.
type ResortRepository struct {
	db *pgxpool.Pool
}

func NewResortRepository(db *pgxpool.Pool) *ResortRepository {
	return &ResortRepository{db: db}
}

func (r *ResortRepository) Create(ctx context.Context, req model.CreateResortRequest) (*model.Resort, error) {
	now := time.Now().UTC()
	resort := &model.Resort{
		ID:               uuid.New().String(),
		Name:             req.Name,
		Location:         req.Location,
		Description:      req.Description,
		Stars:            req.Stars,
		Amenities:        req.Amenities,
		TransportOptions: req.TransportOptions,
		Images:           req.Images,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO resorts (id, name, location, description, stars, amenities, transport_options, images, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		resort.ID, resort.Name, resort.Location, resort.Description, resort.Stars,
		resort.Amenities, resort.TransportOptions, resort.Images, resort.CreatedAt, resort.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert resort: %w", err)
	}
	return resort, nil
}

func (r *ResortRepository) Update(ctx context.Context, id string, req model.CreateResortRequest) (*model.Resort, error) {
	now := time.Now().UTC()
	tag, err := r.db.Exec(ctx,
		`UPDATE resorts
		 SET name = $2, location = $3, description = $4, stars = $5,
		     amenities = $6, transport_options = $7, images = $8, updated_at = $9
		 WHERE id = $1`,
		id, req.Name, req.Location, req.Description, req.Stars,
		req.Amenities, req.TransportOptions, req.Images, now,
	)
	if err != nil {
		return nil, fmt.Errorf("update resort: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *ResortRepository) List(ctx context.Context) ([]model.Resort, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, location, description, stars, amenities, transport_options, images, created_at, updated_at
		 FROM resorts
		 ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list resorts: %w", err)
	}
	defer rows.Close()

	var resorts []model.Resort
	for rows.Next() {
		var res model.Resort
		if err := rows.Scan(&res.ID, &res.Name, &res.Location, &res.Description, &res.Stars,
			&res.Amenities, &res.TransportOptions, &res.Images, &res.CreatedAt, &res.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan resort: %w", err)
		}
		resorts = append(resorts, res)
	}
	return resorts, rows.Err()
}

func (r *ResortRepository) GetByID(ctx context.Context, id string) (*model.Resort, error) {
	var res model.Resort
	err := r.db.QueryRow(ctx,
		`SELECT id, name, location, description, stars, amenities, transport_options, images, created_at, updated_at
		 FROM resorts WHERE id = $1`,
		id,
	).Scan(&res.ID, &res.Name, &res.Location, &res.Description, &res.Stars,
		&res.Amenities, &res.TransportOptions, &res.Images, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get resort: %w", err)
	}
	return &res, nil
}

func (r *ResortRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM resorts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete resort: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
