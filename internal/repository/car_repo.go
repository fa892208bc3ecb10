package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/smartway/smartway-backend/internal/models"
)

type CarRepository interface {
	Create(ctx context.Context, car *models.Car) error
	GetByID(ctx context.Context, id string) (*models.Car, error)
	GetActiveByIDAndOwner(ctx context.Context, id, ownerID string) (*models.Car, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Car, error)
}

type carRepository struct {
	db *sqlx.DB
}

func NewCarRepository(db *sqlx.DB) CarRepository {
	return &carRepository{db: db}
}

func (r *carRepository) Create(ctx context.Context, car *models.Car) error {
	if car.ID == "" {
		car.ID = uuid.New().String()
	}
	car.CreatedAt = time.Now()
	car.UpdatedAt = car.CreatedAt
	car.IsActive = true

	query := `
		INSERT INTO cars (id, owner_id, brand, model, color, plate_number,
			passenger_seats, is_active, is_verified, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.ExecContext(ctx, query,
		car.ID, car.OwnerID, car.Brand, car.Model, car.Color, car.PlateNumber,
		car.PassengerSeats, car.IsActive, car.IsVerified, car.CreatedAt, car.UpdatedAt)
	return err
}

func (r *carRepository) GetByID(ctx context.Context, id string) (*models.Car, error) {
	var car models.Car
	query := `SELECT * FROM cars WHERE id = $1`
	err := r.db.GetContext(ctx, &car, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &car, err
}

// GetActiveByIDAndOwner is the take-with-car revalidation lookup: the car
// must belong to the driver and still be active.
func (r *carRepository) GetActiveByIDAndOwner(ctx context.Context, id, ownerID string) (*models.Car, error) {
	var car models.Car
	query := `SELECT * FROM cars WHERE id = $1 AND owner_id = $2 AND is_active = TRUE`
	err := r.db.GetContext(ctx, &car, query, id, ownerID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &car, err
}

func (r *carRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Car, error) {
	var cars []*models.Car
	query := `SELECT * FROM cars WHERE owner_id = $1 ORDER BY created_at DESC`
	err := r.db.SelectContext(ctx, &cars, query, ownerID)
	return cars, err
}
