package service

import (
	"context"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	apperrors "github.com/smartway/smartway-backend/internal/errors"
	"github.com/smartway/smartway-backend/internal/models"
	"github.com/smartway/smartway-backend/internal/notify"
	"github.com/smartway/smartway-backend/internal/repository"
)

type AnnouncementService interface {
	Create(ctx context.Context, driverID string, req *models.CreateAnnouncementRequest) (*models.AnnouncementResponse, error)
	Get(ctx context.Context, id string) (*models.AnnouncementResponse, error)
	ListAvailable(ctx context.Context, userID string, filter repository.AnnouncementFilter) ([]*models.AnnouncementResponse, error)
	ListMy(ctx context.Context, driverID string) ([]*models.AnnouncementResponse, error)
	ListBookings(ctx context.Context, announcementID, driverID string) ([]*models.BookingResponse, error)
	Complete(ctx context.Context, announcementID, driverID string) error
	Cancel(ctx context.Context, announcementID, driverID string) error
}

type announcementService struct {
	db               *sqlx.DB
	announcementRepo repository.AnnouncementRepository
	bookingRepo      repository.BookingRepository
	userRepo         repository.UserRepository
	carRepo          repository.CarRepository
	locations        LocationService
	notifier         notify.Notifier
}

func NewAnnouncementService(
	db *sqlx.DB,
	announcementRepo repository.AnnouncementRepository,
	bookingRepo repository.BookingRepository,
	userRepo repository.UserRepository,
	carRepo repository.CarRepository,
	locations LocationService,
	notifier notify.Notifier,
) AnnouncementService {
	return &announcementService{
		db:               db,
		announcementRepo: announcementRepo,
		bookingRepo:      bookingRepo,
		userRepo:         userRepo,
		carRepo:          carRepo,
		locations:        locations,
		notifier:         notifier,
	}
}

func (s *announcementService) Create(ctx context.Context, driverID string, req *models.CreateAnnouncementRequest) (*models.AnnouncementResponse, error) {
	driver, err := s.userRepo.GetByID(ctx, driverID)
	if err != nil {
		return nil, err
	}
	if driver == nil {
		return nil, apperrors.NotFound("user")
	}
	if !driver.IsDriver {
		return nil, apperrors.Forbidden("only drivers can create announcements")
	}

	if !req.DepartureTime.After(time.Now()) {
		return nil, apperrors.Validation("departure time must be in the future")
	}
	if req.FromLocationID == req.ToLocationID {
		return nil, apperrors.Validation("departure and destination must differ")
	}
	if _, err := s.locations.Get(ctx, req.FromLocationID); err != nil {
		return nil, err
	}
	if _, err := s.locations.Get(ctx, req.ToLocationID); err != nil {
		return nil, err
	}

	var carID *string
	if req.CarID != "" {
		car, err := s.carRepo.GetActiveByIDAndOwner(ctx, req.CarID, driverID)
		if err != nil {
			return nil, err
		}
		if car == nil {
			return nil, apperrors.Validation("car not found or not yours")
		}
		carID = &car.ID
	}

	contactPhone := req.ContactPhone
	if contactPhone == "" {
		contactPhone = driver.Phone
	}

	a := &models.Announcement{
		DriverID:           driverID,
		CarID:              carID,
		FromLocationID:     req.FromLocationID,
		ToLocationID:       req.ToLocationID,
		DepartureTime:      req.DepartureTime,
		AvailableSeats:     req.AvailableSeats,
		PricePerSeat:       req.PricePerSeat,
		IsNegotiable:       req.IsNegotiable,
		ContactPhone:       contactPhone,
		Comment:            req.Comment,
		AllowSmoking:       req.AllowSmoking,
		AllowPets:          req.AllowPets,
		AllowBigLuggage:    req.AllowBigLuggage,
		BaggageHelp:        req.BaggageHelp,
		AllowChildren:      req.AllowChildren,
		HasAirConditioning: req.HasAirConditioning,
		ExtraRules:         req.ExtraRules,
		IntermediateStops:  req.IntermediateStops,
	}
	if err := s.announcementRepo.Create(ctx, a); err != nil {
		return nil, err
	}

	resp := a.ToResponse()
	resp.Driver = driver.ToResponse()
	return resp, nil
}

func (s *announcementService) Get(ctx context.Context, id string) (*models.AnnouncementResponse, error) {
	a, err := s.announcementRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, apperrors.NotFound("announcement")
	}
	return s.enrich(ctx, a), nil
}

// ListAvailable returns active announcements with seats left. Unlike the
// trip feed there is no view delay here: announcements are driver supply
// and every passenger sees them immediately.
func (s *announcementService) ListAvailable(ctx context.Context, userID string, filter repository.AnnouncementFilter) ([]*models.AnnouncementResponse, error) {
	list, err := s.announcementRepo.ListAvailable(ctx, userID, time.Now(), filter)
	if err != nil {
		return nil, err
	}
	out := make([]*models.AnnouncementResponse, 0, len(list))
	for _, a := range list {
		out = append(out, a.ToResponse())
	}
	return out, nil
}

func (s *announcementService) ListMy(ctx context.Context, driverID string) ([]*models.AnnouncementResponse, error) {
	list, err := s.announcementRepo.ListByDriver(ctx, driverID)
	if err != nil {
		return nil, err
	}
	out := make([]*models.AnnouncementResponse, 0, len(list))
	for _, a := range list {
		out = append(out, a.ToResponse())
	}
	return out, nil
}

func (s *announcementService) ListBookings(ctx context.Context, announcementID, driverID string) ([]*models.BookingResponse, error) {
	a, err := s.announcementRepo.GetByID(ctx, announcementID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, apperrors.NotFound("announcement")
	}
	if a.DriverID != driverID {
		return nil, apperrors.Forbidden("not your announcement")
	}

	bookings, err := s.bookingRepo.ListByAnnouncement(ctx, announcementID)
	if err != nil {
		return nil, err
	}
	out := make([]*models.BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		resp := b.ToResponse()
		if passenger, perr := s.userRepo.GetByID(ctx, b.PassengerID); perr == nil && passenger != nil {
			resp.Passenger = passenger.ToResponse()
		}
		out = append(out, resp)
	}
	return out, nil
}

// Complete marks the ride as done and cascades every confirmed booking
// to completed in the same transaction, holding the announcement row
// lock so confirmations cannot interleave. Completion counters are
// credited once per confirmed passenger plus once for the driver.
func (s *announcementService) Complete(ctx context.Context, announcementID, driverID string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	a, err := s.announcementRepo.GetByIDForUpdate(ctx, tx, announcementID)
	if err != nil {
		return err
	}
	if a == nil {
		return apperrors.NotFound("announcement")
	}
	if a.DriverID != driverID {
		return apperrors.Forbidden("not your announcement")
	}
	if a.IsTerminal() {
		return apperrors.InvalidTransition(a.Status, models.AnnouncementStatusCompleted)
	}

	confirmed, err := s.bookingRepo.ListByAnnouncementAndStatuses(ctx, tx, announcementID, models.BookingStatusConfirmed)
	if err != nil {
		return err
	}

	now := time.Now()
	_, err = tx.ExecContext(ctx,
		`UPDATE announcements SET status = $1, updated_at = $2 WHERE id = $3`,
		models.AnnouncementStatusCompleted, now, announcementID)
	if err != nil {
		return err
	}

	for _, b := range confirmed {
		_, err = tx.ExecContext(ctx,
			`UPDATE bookings SET status = $1, updated_at = $2 WHERE id = $3`,
			models.BookingStatusCompleted, now, b.ID)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`UPDATE users SET trips_completed_as_passenger = trips_completed_as_passenger + 1, updated_at = $1 WHERE id = $2`,
			now, b.PassengerID)
		if err != nil {
			return err
		}
	}
	_, err = tx.ExecContext(ctx,
		`UPDATE users SET trips_completed_as_driver = trips_completed_as_driver + 1, updated_at = $1 WHERE id = $2`,
		now, driverID)
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.notifyCascade(a, confirmed, func(ctx context.Context, passenger *models.User, b *models.Booking) {
		done := *b
		done.Status = models.BookingStatusCompleted
		s.notifier.BookingCompleted(ctx, passenger, &done, a)
	})
	return nil
}

// Cancel withdraws the announcement and cancels every pending and
// confirmed booking with it. Seat accounting is moot afterwards since
// the announcement is terminal.
func (s *announcementService) Cancel(ctx context.Context, announcementID, driverID string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	a, err := s.announcementRepo.GetByIDForUpdate(ctx, tx, announcementID)
	if err != nil {
		return err
	}
	if a == nil {
		return apperrors.NotFound("announcement")
	}
	if a.DriverID != driverID {
		return apperrors.Forbidden("not your announcement")
	}
	if a.IsTerminal() {
		return apperrors.InvalidTransition(a.Status, models.AnnouncementStatusCancelled)
	}

	open, err := s.bookingRepo.ListByAnnouncementAndStatuses(ctx, tx, announcementID,
		models.BookingStatusPending, models.BookingStatusConfirmed)
	if err != nil {
		return err
	}

	now := time.Now()
	_, err = tx.ExecContext(ctx,
		`UPDATE announcements SET status = $1, updated_at = $2 WHERE id = $3`,
		models.AnnouncementStatusCancelled, now, announcementID)
	if err != nil {
		return err
	}
	for _, b := range open {
		_, err = tx.ExecContext(ctx,
			`UPDATE bookings SET status = $1, updated_at = $2 WHERE id = $3`,
			models.BookingStatusCancelled, now, b.ID)
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.notifyCascade(a, open, func(ctx context.Context, passenger *models.User, b *models.Booking) {
		cancelled := *b
		cancelled.Status = models.BookingStatusCancelled
		s.notifier.BookingStatusChanged(ctx, passenger, &cancelled, a)
	})
	return nil
}

func (s *announcementService) notifyCascade(a *models.Announcement, bookings []*models.Booking, send func(context.Context, *models.User, *models.Booking)) {
	if len(bookings) == 0 {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		for _, b := range bookings {
			passenger, err := s.userRepo.GetByID(ctx, b.PassengerID)
			if err != nil || passenger == nil {
				log.Printf("announcement: cannot load passenger %s for notification: %v", b.PassengerID, err)
				continue
			}
			send(ctx, passenger, b)
		}
	}()
}

func (s *announcementService) enrich(ctx context.Context, a *models.Announcement) *models.AnnouncementResponse {
	resp := a.ToResponse()
	if driver, err := s.userRepo.GetByID(ctx, a.DriverID); err == nil && driver != nil {
		resp.Driver = driver.ToResponse()
	}
	if a.CarID != nil {
		if car, err := s.carRepo.GetByID(ctx, *a.CarID); err == nil && car != nil {
			resp.Car = car.ToInfo()
		}
	}
	return resp
}
