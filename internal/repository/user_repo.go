package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/smartway/smartway-backend/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByPhone(ctx context.Context, phone string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	IncrementDriverCompleted(ctx context.Context, id string) error
	IncrementPassengerCompleted(ctx context.Context, id string) error
	AverageRating(ctx context.Context, id string, byDrivers bool) (*float64, error)
}

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt

	query := `
		INSERT INTO users (id, phone, full_name, email, is_driver,
			is_verified_driver, is_verified_passenger, telegram_chat_id,
			trips_completed_as_driver, trips_completed_as_passenger,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Phone, user.FullName, user.Email, user.IsDriver,
		user.IsVerifiedDriver, user.IsVerifiedPassenger, user.TelegramChatID,
		user.TripsCompletedAsDriver, user.TripsCompletedAsPassenger,
		user.CreatedAt, user.UpdatedAt)
	return err
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	query := `SELECT * FROM users WHERE id = $1`
	err := r.db.GetContext(ctx, &user, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &user, err
}

func (r *userRepository) GetByPhone(ctx context.Context, phone string) (*models.User, error) {
	var user models.User
	query := `SELECT * FROM users WHERE phone = $1`
	err := r.db.GetContext(ctx, &user, query, phone)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &user, err
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now()
	query := `
		UPDATE users
		SET full_name = $1, email = $2, is_driver = $3, telegram_chat_id = $4, updated_at = $5
		WHERE id = $6
	`
	_, err := r.db.ExecContext(ctx, query,
		user.FullName, user.Email, user.IsDriver, user.TelegramChatID, user.UpdatedAt, user.ID)
	return err
}

func (r *userRepository) IncrementDriverCompleted(ctx context.Context, id string) error {
	query := `UPDATE users SET trips_completed_as_driver = trips_completed_as_driver + 1, updated_at = $1 WHERE id = $2`
	_, err := r.db.ExecContext(ctx, query, time.Now(), id)
	return err
}

func (r *userRepository) IncrementPassengerCompleted(ctx context.Context, id string) error {
	query := `UPDATE users SET trips_completed_as_passenger = trips_completed_as_passenger + 1, updated_at = $1 WHERE id = $2`
	_, err := r.db.ExecContext(ctx, query, time.Now(), id)
	return err
}

// AverageRating aggregates review ratings received by the user. byDrivers
// selects reviews written by drivers (passenger reputation) vs written by
// passengers (driver reputation).
func (r *userRepository) AverageRating(ctx context.Context, id string, byDrivers bool) (*float64, error) {
	var avg sql.NullFloat64
	query := `
		SELECT AVG(rv.rating)
		FROM reviews rv
		JOIN users a ON a.id = rv.author_id
		WHERE rv.recipient_id = $1 AND a.is_driver = $2
	`
	if err := r.db.GetContext(ctx, &avg, query, id, byDrivers); err != nil {
		return nil, err
	}
	if !avg.Valid {
		return nil, nil
	}
	return &avg.Float64, nil
}
