package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/smartway/smartway-backend/internal/models"
)

type TripRepository interface {
	Create(ctx context.Context, trip *models.Trip) error
	GetByID(ctx context.Context, id string) (*models.Trip, error)
	Take(ctx context.Context, tripID, driverID string, carID *string) (bool, error)
	Release(ctx context.Context, tripID, driverID string) (bool, error)
	Finish(ctx context.Context, tripID, driverID string) (bool, error)
	UpdateStatusFrom(ctx context.Context, id, from, to string) (bool, error)
	Cancel(ctx context.Context, id string) (bool, error)
	ListAvailable(ctx context.Context, driverID string, now, cutoff time.Time) ([]*models.Trip, error)
	ListByPassenger(ctx context.Context, passengerID string) ([]*models.Trip, error)
	ListActiveByDriver(ctx context.Context, driverID string) ([]*models.Trip, error)
	ListCompletedByParticipant(ctx context.Context, userID string, limit int) ([]*models.Trip, error)
	ExpireStale(ctx context.Context, now time.Time) (int64, error)
}

type tripRepository struct {
	db *sqlx.DB
}

func NewTripRepository(db *sqlx.DB) TripRepository {
	return &tripRepository{db: db}
}

func (r *tripRepository) Create(ctx context.Context, trip *models.Trip) error {
	if trip.ID == "" {
		trip.ID = uuid.New().String()
	}
	trip.CreatedAt = time.Now()
	trip.UpdatedAt = trip.CreatedAt
	trip.Status = models.TripStatusOpen

	query := `
		INSERT INTO trips (id, passenger_id, driver_id, car_id,
			from_location_id, to_location_id, departure_time, passengers_count,
			price, is_negotiable, contact_phone, comment,
			prefer_verified_driver, allow_smoking, allow_pets, allow_big_luggage,
			baggage_help, with_child, extra_rules,
			status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
			$13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
	`
	_, err := r.db.ExecContext(ctx, query,
		trip.ID, trip.PassengerID, trip.DriverID, trip.CarID,
		trip.FromLocationID, trip.ToLocationID, trip.DepartureTime, trip.PassengersCount,
		trip.Price, trip.IsNegotiable, trip.ContactPhone, trip.Comment,
		trip.PreferVerifiedDriver, trip.AllowSmoking, trip.AllowPets, trip.AllowBigLuggage,
		trip.BaggageHelp, trip.WithChild, trip.ExtraRules,
		trip.Status, trip.CreatedAt, trip.UpdatedAt)
	return err
}

func (r *tripRepository) GetByID(ctx context.Context, id string) (*models.Trip, error) {
	var trip models.Trip
	query := `SELECT * FROM trips WHERE id = $1`
	err := r.db.GetContext(ctx, &trip, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &trip, err
}

// Take claims an open trip for a driver. The WHERE status='open' guard makes
// the claim a compare-and-swap: of two racing drivers exactly one update
// matches a row, the loser sees zero rows affected.
func (r *tripRepository) Take(ctx context.Context, tripID, driverID string, carID *string) (bool, error) {
	query := `
		UPDATE trips
		SET driver_id = $1, car_id = $2, status = $3, updated_at = $4
		WHERE id = $5 AND status = $6
	`
	res, err := r.db.ExecContext(ctx, query,
		driverID, carID, models.TripStatusTaken, time.Now(), tripID, models.TripStatusOpen)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

// Release puts a taken or in-progress trip back on the market, but only for
// the driver who holds it.
func (r *tripRepository) Release(ctx context.Context, tripID, driverID string) (bool, error) {
	query := `
		UPDATE trips
		SET driver_id = NULL, car_id = NULL, status = $1, updated_at = $2
		WHERE id = $3 AND driver_id = $4 AND status IN ($5, $6)
	`
	res, err := r.db.ExecContext(ctx, query,
		models.TripStatusOpen, time.Now(), tripID, driverID,
		models.TripStatusTaken, models.TripStatusInProgress)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

// Finish marks a trip completed. The driver guard and the status guard make
// the update succeed at most once, so completion counters are bumped exactly once.
func (r *tripRepository) Finish(ctx context.Context, tripID, driverID string) (bool, error) {
	query := `
		UPDATE trips
		SET status = $1, updated_at = $2
		WHERE id = $3 AND driver_id = $4 AND status IN ($5, $6)
	`
	res, err := r.db.ExecContext(ctx, query,
		models.TripStatusCompleted, time.Now(), tripID, driverID,
		models.TripStatusTaken, models.TripStatusInProgress)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

// UpdateStatusFrom performs a guarded status transition.
func (r *tripRepository) UpdateStatusFrom(ctx context.Context, id, from, to string) (bool, error) {
	query := `UPDATE trips SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`
	res, err := r.db.ExecContext(ctx, query, to, time.Now(), id, from)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

// Cancel moves a trip to cancelled from any non-terminal state.
func (r *tripRepository) Cancel(ctx context.Context, id string) (bool, error) {
	query := `
		UPDATE trips SET status = $1, updated_at = $2
		WHERE id = $3 AND status IN ($4, $5, $6)
	`
	res, err := r.db.ExecContext(ctx, query,
		models.TripStatusCancelled, time.Now(), id,
		models.TripStatusOpen, models.TripStatusTaken, models.TripStatusInProgress)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

// ListAvailable returns the trips a driver may see: open, departing in the
// future, created no later than the subscription-derived cutoff, and not the
// driver's own. Ordered chronologically by departure.
func (r *tripRepository) ListAvailable(ctx context.Context, driverID string, now, cutoff time.Time) ([]*models.Trip, error) {
	var trips []*models.Trip
	query := `
		SELECT * FROM trips
		WHERE status = $1 AND departure_time > $2 AND created_at <= $3 AND passenger_id != $4
		ORDER BY departure_time ASC
	`
	err := r.db.SelectContext(ctx, &trips, query, models.TripStatusOpen, now, cutoff, driverID)
	return trips, err
}

func (r *tripRepository) ListByPassenger(ctx context.Context, passengerID string) ([]*models.Trip, error) {
	var trips []*models.Trip
	query := `SELECT * FROM trips WHERE passenger_id = $1 ORDER BY created_at DESC`
	err := r.db.SelectContext(ctx, &trips, query, passengerID)
	return trips, err
}

func (r *tripRepository) ListActiveByDriver(ctx context.Context, driverID string) ([]*models.Trip, error) {
	var trips []*models.Trip
	query := `
		SELECT * FROM trips
		WHERE driver_id = $1 AND status IN ($2, $3)
		ORDER BY departure_time ASC
	`
	err := r.db.SelectContext(ctx, &trips, query, driverID,
		models.TripStatusTaken, models.TripStatusInProgress)
	return trips, err
}

func (r *tripRepository) ListCompletedByParticipant(ctx context.Context, userID string, limit int) ([]*models.Trip, error) {
	var trips []*models.Trip
	query := `
		SELECT * FROM trips
		WHERE (passenger_id = $1 OR driver_id = $1) AND status IN ($2, $3)
		ORDER BY updated_at DESC
		LIMIT $4
	`
	err := r.db.SelectContext(ctx, &trips, query, userID,
		models.TripStatusCompleted, models.TripStatusCancelled, limit)
	return trips, err
}

// ExpireStale sweeps open trips whose departure has passed.
func (r *tripRepository) ExpireStale(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE trips SET status = $1, updated_at = $2
		WHERE status = $3 AND departure_time <= $4
	`
	res, err := r.db.ExecContext(ctx, query,
		models.TripStatusExpired, now, models.TripStatusOpen, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
