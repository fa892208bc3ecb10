package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/smartway/smartway-backend/internal/models"
)

type LocationRepository interface {
	Create(ctx context.Context, loc *models.Location) error
	GetByID(ctx context.Context, id string) (*models.Location, error)
	GetByCode(ctx context.Context, code string) (*models.Location, error)
	ListActive(ctx context.Context) ([]*models.Location, error)
}

type locationRepository struct {
	db *sqlx.DB
}

func NewLocationRepository(db *sqlx.DB) LocationRepository {
	return &locationRepository{db: db}
}

// IsUniqueViolation reports whether err is a Postgres unique constraint
// violation, used to translate duplicate codes into conflict errors.
func IsUniqueViolation(err error) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		return pqErr.Code == "23505"
	}
	return false
}

func (r *locationRepository) Create(ctx context.Context, loc *models.Location) error {
	if loc.ID == "" {
		loc.ID = uuid.New().String()
	}
	loc.CreatedAt = time.Now()
	loc.UpdatedAt = loc.CreatedAt

	query := `
		INSERT INTO locations (id, code, name_ru, name_en, name_ky, sort_order,
			is_active, region, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.ExecContext(ctx, query,
		loc.ID, loc.Code, loc.NameRu, loc.NameEn, loc.NameKy, loc.SortOrder,
		loc.IsActive, loc.Region, loc.CreatedAt, loc.UpdatedAt)
	return err
}

func (r *locationRepository) GetByID(ctx context.Context, id string) (*models.Location, error) {
	var loc models.Location
	query := `SELECT * FROM locations WHERE id = $1`
	err := r.db.GetContext(ctx, &loc, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &loc, err
}

func (r *locationRepository) GetByCode(ctx context.Context, code string) (*models.Location, error) {
	var loc models.Location
	query := `SELECT * FROM locations WHERE code = $1`
	err := r.db.GetContext(ctx, &loc, query, code)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &loc, err
}

func (r *locationRepository) ListActive(ctx context.Context) ([]*models.Location, error) {
	var locs []*models.Location
	query := `SELECT * FROM locations WHERE is_active = TRUE ORDER BY sort_order ASC, name_ru ASC`
	err := r.db.SelectContext(ctx, &locs, query)
	return locs, err
}
