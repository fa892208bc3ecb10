package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/smartway/smartway-backend/internal/models"
)

type ReviewRepository interface {
	Create(ctx context.Context, rv *models.Review) error
	GetByID(ctx context.Context, id string) (*models.Review, error)
	ExistsForTrip(ctx context.Context, authorID, tripID string) (bool, error)
	ExistsForBooking(ctx context.Context, authorID, bookingID string) (bool, error)
	ListByRecipient(ctx context.Context, recipientID string) ([]*models.Review, error)
	ListByAuthor(ctx context.Context, authorID string) ([]*models.Review, error)
}

type reviewRepository struct {
	db *sqlx.DB
}

func NewReviewRepository(db *sqlx.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, rv *models.Review) error {
	if rv.ID == "" {
		rv.ID = uuid.New().String()
	}
	rv.CreatedAt = time.Now()
	rv.UpdatedAt = rv.CreatedAt

	query := `
		INSERT INTO reviews (id, trip_id, booking_id, author_id, recipient_id,
			rating, text, was_on_time, was_polite, car_was_clean,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.db.ExecContext(ctx, query,
		rv.ID, rv.TripID, rv.BookingID, rv.AuthorID, rv.RecipientID,
		rv.Rating, rv.Text, rv.WasOnTime, rv.WasPolite, rv.CarWasClean,
		rv.CreatedAt, rv.UpdatedAt)
	return err
}

func (r *reviewRepository) GetByID(ctx context.Context, id string) (*models.Review, error) {
	var rv models.Review
	query := `SELECT * FROM reviews WHERE id = $1`
	err := r.db.GetContext(ctx, &rv, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &rv, err
}

func (r *reviewRepository) ExistsForTrip(ctx context.Context, authorID, tripID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM reviews WHERE author_id = $1 AND trip_id = $2)`
	err := r.db.GetContext(ctx, &exists, query, authorID, tripID)
	return exists, err
}

func (r *reviewRepository) ExistsForBooking(ctx context.Context, authorID, bookingID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM reviews WHERE author_id = $1 AND booking_id = $2)`
	err := r.db.GetContext(ctx, &exists, query, authorID, bookingID)
	return exists, err
}

func (r *reviewRepository) ListByRecipient(ctx context.Context, recipientID string) ([]*models.Review, error) {
	var list []*models.Review
	query := `SELECT * FROM reviews WHERE recipient_id = $1 ORDER BY created_at DESC`
	err := r.db.SelectContext(ctx, &list, query, recipientID)
	return list, err
}

func (r *reviewRepository) ListByAuthor(ctx context.Context, authorID string) ([]*models.Review, error) {
	var list []*models.Review
	query := `SELECT * FROM reviews WHERE author_id = $1 ORDER BY created_at DESC`
	err := r.db.SelectContext(ctx, &list, query, authorID)
	return list, err
}
