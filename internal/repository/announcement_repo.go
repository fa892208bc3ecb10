package repository

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/smartway/smartway-backend/internal/models"
)

// AnnouncementFilter narrows the availability listing.
type AnnouncementFilter struct {
	FromLocationID string
	ToLocationID   string
	MinSeats       int
}

type AnnouncementRepository interface {
	Create(ctx context.Context, a *models.Announcement) error
	GetByID(ctx context.Context, id string) (*models.Announcement, error)
	GetByIDForUpdate(ctx context.Context, tx *sqlx.Tx, id string) (*models.Announcement, error)
	ListAvailable(ctx context.Context, excludeUserID string, now time.Time, filter AnnouncementFilter) ([]*models.Announcement, error)
	ListByDriver(ctx context.Context, driverID string) ([]*models.Announcement, error)
	ExpireStale(ctx context.Context, now time.Time) (int64, error)
}

type announcementRepository struct {
	db *sqlx.DB
}

func NewAnnouncementRepository(db *sqlx.DB) AnnouncementRepository {
	return &announcementRepository{db: db}
}

func (r *announcementRepository) Create(ctx context.Context, a *models.Announcement) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	a.Status = models.AnnouncementStatusActive
	a.BookedSeats = 0
	if a.IntermediateStops == nil {
		a.IntermediateStops = []string{}
	}

	query := `
		INSERT INTO announcements (id, driver_id, car_id,
			from_location_id, to_location_id, departure_time,
			available_seats, booked_seats, price_per_seat, is_negotiable,
			contact_phone, comment,
			allow_smoking, allow_pets, allow_big_luggage, baggage_help,
			allow_children, has_air_conditioning, extra_rules, intermediate_stops,
			status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
			$13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)
	`
	_, err := r.db.ExecContext(ctx, query,
		a.ID, a.DriverID, a.CarID,
		a.FromLocationID, a.ToLocationID, a.DepartureTime,
		a.AvailableSeats, a.BookedSeats, a.PricePerSeat, a.IsNegotiable,
		a.ContactPhone, a.Comment,
		a.AllowSmoking, a.AllowPets, a.AllowBigLuggage, a.BaggageHelp,
		a.AllowChildren, a.HasAirConditioning, a.ExtraRules, a.IntermediateStops,
		a.Status, a.CreatedAt, a.UpdatedAt)
	return err
}

func (r *announcementRepository) GetByID(ctx context.Context, id string) (*models.Announcement, error) {
	var a models.Announcement
	query := `SELECT * FROM announcements WHERE id = $1`
	err := r.db.GetContext(ctx, &a, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &a, err
}

// GetByIDForUpdate locks the announcement row for the duration of the
// transaction. Every mutation of the seat ledger goes through this lock,
// which serializes racing confirmations on the same announcement.
func (r *announcementRepository) GetByIDForUpdate(ctx context.Context, tx *sqlx.Tx, id string) (*models.Announcement, error) {
	var a models.Announcement
	query := `SELECT * FROM announcements WHERE id = $1 FOR UPDATE`
	err := tx.GetContext(ctx, &a, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &a, err
}

// ListAvailable returns active future announcements, excluding the
// requesting user's own. No view-delay gate here: the delay is driver-side
// monetization and does not apply to passengers browsing offers.
func (r *announcementRepository) ListAvailable(ctx context.Context, excludeUserID string, now time.Time, filter AnnouncementFilter) ([]*models.Announcement, error) {
	query := `
		SELECT * FROM announcements
		WHERE status = $1 AND departure_time > $2 AND driver_id != $3
	`
	args := []interface{}{models.AnnouncementStatusActive, now, excludeUserID}

	if filter.FromLocationID != "" {
		args = append(args, filter.FromLocationID)
		query += ` AND from_location_id = $` + strconv.Itoa(len(args))
	}
	if filter.ToLocationID != "" {
		args = append(args, filter.ToLocationID)
		query += ` AND to_location_id = $` + strconv.Itoa(len(args))
	}
	if filter.MinSeats > 0 {
		args = append(args, filter.MinSeats)
		query += ` AND available_seats - booked_seats >= $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY departure_time ASC`

	var list []*models.Announcement
	err := r.db.SelectContext(ctx, &list, query, args...)
	return list, err
}

func (r *announcementRepository) ListByDriver(ctx context.Context, driverID string) ([]*models.Announcement, error) {
	var list []*models.Announcement
	query := `SELECT * FROM announcements WHERE driver_id = $1 ORDER BY created_at DESC`
	err := r.db.SelectContext(ctx, &list, query, driverID)
	return list, err
}

// ExpireStale sweeps active or full announcements whose departure has passed.
func (r *announcementRepository) ExpireStale(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE announcements SET status = $1, updated_at = $2
		WHERE status IN ($3, $4) AND departure_time <= $5
	`
	res, err := r.db.ExecContext(ctx, query,
		models.AnnouncementStatusExpired, now,
		models.AnnouncementStatusActive, models.AnnouncementStatusFull, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
