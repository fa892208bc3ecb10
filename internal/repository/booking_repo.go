package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/smartway/smartway-backend/internal/models"
)

type BookingRepository interface {
	Create(ctx context.Context, b *models.Booking) error
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	GetByIDForUpdate(ctx context.Context, tx *sqlx.Tx, id string) (*models.Booking, error)
	HasPending(ctx context.Context, announcementID, passengerID string) (bool, error)
	ListByAnnouncement(ctx context.Context, announcementID string) ([]*models.Booking, error)
	ListByPassenger(ctx context.Context, passengerID string) ([]*models.Booking, error)
	ListIncoming(ctx context.Context, driverID string) ([]*models.Booking, error)
	ListByAnnouncementAndStatuses(ctx context.Context, tx *sqlx.Tx, announcementID string, statuses ...string) ([]*models.Booking, error)
	Reject(ctx context.Context, id, comment string) (bool, error)
}

type bookingRepository struct {
	db *sqlx.DB
}

func NewBookingRepository(db *sqlx.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) Create(ctx context.Context, b *models.Booking) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	b.Status = models.BookingStatusPending

	query := `
		INSERT INTO bookings (id, announcement_id, passenger_id, seats_count,
			status, message, driver_comment, contact_phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.ExecContext(ctx, query,
		b.ID, b.AnnouncementID, b.PassengerID, b.SeatsCount,
		b.Status, b.Message, b.DriverComment, b.ContactPhone, b.CreatedAt, b.UpdatedAt)
	return err
}

func (r *bookingRepository) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	var b models.Booking
	query := `SELECT * FROM bookings WHERE id = $1`
	err := r.db.GetContext(ctx, &b, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &b, err
}

func (r *bookingRepository) GetByIDForUpdate(ctx context.Context, tx *sqlx.Tx, id string) (*models.Booking, error) {
	var b models.Booking
	query := `SELECT * FROM bookings WHERE id = $1 FOR UPDATE`
	err := tx.GetContext(ctx, &b, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &b, err
}

// HasPending enforces the one-outstanding-request rule: at most one pending
// booking per (announcement, passenger) pair. Historical rejected or
// cancelled bookings for the pair are fine.
func (r *bookingRepository) HasPending(ctx context.Context, announcementID, passengerID string) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE announcement_id = $1 AND passenger_id = $2 AND status = $3
		)
	`
	err := r.db.GetContext(ctx, &exists, query, announcementID, passengerID, models.BookingStatusPending)
	return exists, err
}

func (r *bookingRepository) ListByAnnouncement(ctx context.Context, announcementID string) ([]*models.Booking, error) {
	var list []*models.Booking
	query := `SELECT * FROM bookings WHERE announcement_id = $1 ORDER BY created_at DESC`
	err := r.db.SelectContext(ctx, &list, query, announcementID)
	return list, err
}

func (r *bookingRepository) ListByPassenger(ctx context.Context, passengerID string) ([]*models.Booking, error) {
	var list []*models.Booking
	query := `SELECT * FROM bookings WHERE passenger_id = $1 ORDER BY created_at DESC`
	err := r.db.SelectContext(ctx, &list, query, passengerID)
	return list, err
}

// ListIncoming returns bookings made against any of the driver's
// announcements.
func (r *bookingRepository) ListIncoming(ctx context.Context, driverID string) ([]*models.Booking, error) {
	var list []*models.Booking
	query := `
		SELECT b.* FROM bookings b
		JOIN announcements a ON a.id = b.announcement_id
		WHERE a.driver_id = $1
		ORDER BY b.created_at DESC
	`
	err := r.db.SelectContext(ctx, &list, query, driverID)
	return list, err
}

// ListByAnnouncementAndStatuses reads bookings inside a cascade
// transaction. Pass the tx holding the announcement row lock.
func (r *bookingRepository) ListByAnnouncementAndStatuses(ctx context.Context, tx *sqlx.Tx, announcementID string, statuses ...string) ([]*models.Booking, error) {
	query, args, err := sqlx.In(
		`SELECT * FROM bookings WHERE announcement_id = ? AND status IN (?) ORDER BY created_at ASC`,
		announcementID, statuses)
	if err != nil {
		return nil, err
	}
	query = tx.Rebind(query)

	var list []*models.Booking
	err = tx.SelectContext(ctx, &list, query, args...)
	return list, err
}

// Reject flips a pending booking to rejected. The status guard makes the
// write a no-op once the booking has moved on, so no row lock is needed.
func (r *bookingRepository) Reject(ctx context.Context, id, comment string) (bool, error) {
	query := `
		UPDATE bookings SET status = $1, driver_comment = $2, updated_at = $3
		WHERE id = $4 AND status = $5
	`
	res, err := r.db.ExecContext(ctx, query,
		models.BookingStatusRejected, comment, time.Now(), id, models.BookingStatusPending)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}
