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

type BookingService interface {
	Create(ctx context.Context, passengerID string, req *models.CreateBookingRequest) (*models.BookingResponse, error)
	Get(ctx context.Context, id, userID string) (*models.BookingResponse, error)
	ListMy(ctx context.Context, passengerID string) ([]*models.BookingResponse, error)
	ListIncoming(ctx context.Context, driverID string) ([]*models.BookingResponse, error)
	Confirm(ctx context.Context, bookingID, driverID string) error
	Reject(ctx context.Context, bookingID, driverID string, req *models.RejectBookingRequest) error
	Cancel(ctx context.Context, bookingID, passengerID string) error
}

type bookingService struct {
	db               *sqlx.DB
	bookingRepo      repository.BookingRepository
	announcementRepo repository.AnnouncementRepository
	userRepo         repository.UserRepository
	notifier         notify.Notifier
}

func NewBookingService(
	db *sqlx.DB,
	bookingRepo repository.BookingRepository,
	announcementRepo repository.AnnouncementRepository,
	userRepo repository.UserRepository,
	notifier notify.Notifier,
) BookingService {
	return &bookingService{
		db:               db,
		bookingRepo:      bookingRepo,
		announcementRepo: announcementRepo,
		userRepo:         userRepo,
		notifier:         notifier,
	}
}

// Create places a pending seat request. Seats are NOT debited here; the
// ledger only moves when the driver confirms. One pending request per
// passenger per announcement.
func (s *bookingService) Create(ctx context.Context, passengerID string, req *models.CreateBookingRequest) (*models.BookingResponse, error) {
	passenger, err := s.userRepo.GetByID(ctx, passengerID)
	if err != nil {
		return nil, err
	}
	if passenger == nil {
		return nil, apperrors.NotFound("user")
	}

	a, err := s.announcementRepo.GetByID(ctx, req.AnnouncementID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, apperrors.NotFound("announcement")
	}
	if a.DriverID == passengerID {
		return nil, apperrors.Validation("cannot book your own announcement")
	}

	hasPending, err := s.bookingRepo.HasPending(ctx, req.AnnouncementID, passengerID)
	if err != nil {
		return nil, err
	}
	if hasPending {
		return nil, apperrors.PendingBookingExists()
	}

	// Advisory check; the authoritative one happens at confirmation
	// under the announcement row lock.
	if !a.CanBook(req.SeatsCount) {
		return nil, apperrors.NotEnoughSeats(a.FreeSeats())
	}

	contactPhone := req.ContactPhone
	if contactPhone == "" {
		contactPhone = passenger.Phone
	}

	b := &models.Booking{
		AnnouncementID: req.AnnouncementID,
		PassengerID:    passengerID,
		SeatsCount:     req.SeatsCount,
		Message:        req.Message,
		ContactPhone:   contactPhone,
	}
	if err := s.bookingRepo.Create(ctx, b); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperrors.PendingBookingExists()
		}
		return nil, err
	}

	go func() {
		nctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		driver, derr := s.userRepo.GetByID(nctx, a.DriverID)
		if derr != nil || driver == nil {
			log.Printf("booking: cannot load driver %s for notification: %v", a.DriverID, derr)
			return
		}
		s.notifier.BookingCreated(nctx, driver, passenger, b, a)
	}()

	resp := b.ToResponse()
	resp.Passenger = passenger.ToResponse()
	resp.Announcement = a.ToResponse()
	return resp, nil
}

func (s *bookingService) Get(ctx context.Context, id, userID string) (*models.BookingResponse, error) {
	b, a, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.PassengerID != userID && a.DriverID != userID {
		return nil, apperrors.Forbidden("not your booking")
	}
	resp := b.ToResponse()
	resp.Announcement = a.ToResponse()
	if passenger, perr := s.userRepo.GetByID(ctx, b.PassengerID); perr == nil && passenger != nil {
		resp.Passenger = passenger.ToResponse()
	}
	return resp, nil
}

func (s *bookingService) ListMy(ctx context.Context, passengerID string) ([]*models.BookingResponse, error) {
	bookings, err := s.bookingRepo.ListByPassenger(ctx, passengerID)
	if err != nil {
		return nil, err
	}
	return s.withAnnouncements(ctx, bookings), nil
}

func (s *bookingService) ListIncoming(ctx context.Context, driverID string) ([]*models.BookingResponse, error) {
	bookings, err := s.bookingRepo.ListIncoming(ctx, driverID)
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

// Confirm accepts a pending booking and debits the seat ledger. The
// announcement row lock serializes concurrent confirmations: each one
// re-reads free seats under the lock, so overlapping confirms can never
// push booked_seats past available_seats.
func (s *bookingService) Confirm(ctx context.Context, bookingID, driverID string) error {
	b, a, err := s.load(ctx, bookingID)
	if err != nil {
		return err
	}
	if a.DriverID != driverID {
		return apperrors.Forbidden("not your announcement")
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	a, err = s.announcementRepo.GetByIDForUpdate(ctx, tx, b.AnnouncementID)
	if err != nil {
		return err
	}
	if a == nil {
		return apperrors.NotFound("announcement")
	}
	b, err = s.bookingRepo.GetByIDForUpdate(ctx, tx, bookingID)
	if err != nil {
		return err
	}
	if b == nil {
		return apperrors.NotFound("booking")
	}
	if b.Status != models.BookingStatusPending {
		return apperrors.Conflict("booking is no longer pending")
	}
	if !a.CanBook(b.SeatsCount) {
		return apperrors.NotEnoughSeats(a.FreeSeats())
	}

	now := time.Now()
	_, err = tx.ExecContext(ctx,
		`UPDATE bookings SET status = $1, updated_at = $2 WHERE id = $3`,
		models.BookingStatusConfirmed, now, bookingID)
	if err != nil {
		return err
	}

	newBooked, newStatus := a.ConfirmSeats(b.SeatsCount)
	_, err = tx.ExecContext(ctx,
		`UPDATE announcements SET booked_seats = $1, status = $2, updated_at = $3 WHERE id = $4`,
		newBooked, newStatus, now, a.ID)
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	confirmed := *b
	confirmed.Status = models.BookingStatusConfirmed
	s.notifyStatusChange(&confirmed, a)
	return nil
}

func (s *bookingService) Reject(ctx context.Context, bookingID, driverID string, req *models.RejectBookingRequest) error {
	b, a, err := s.load(ctx, bookingID)
	if err != nil {
		return err
	}
	if a.DriverID != driverID {
		return apperrors.Forbidden("not your announcement")
	}

	comment := ""
	if req != nil {
		comment = req.Comment
	}

	// No ledger movement for a pending booking, a guarded update is enough.
	ok, err := s.bookingRepo.Reject(ctx, bookingID, comment)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.Conflict("booking is no longer pending")
	}

	rejected := *b
	rejected.Status = models.BookingStatusRejected
	rejected.DriverComment = comment
	s.notifyStatusChange(&rejected, a)
	return nil
}

// Cancel lets the passenger withdraw a booking. A pending one just flips
// status; a confirmed one also returns its seats to the ledger, which may
// flip a full announcement back to active.
func (s *bookingService) Cancel(ctx context.Context, bookingID, passengerID string) error {
	b, a, err := s.load(ctx, bookingID)
	if err != nil {
		return err
	}
	if b.PassengerID != passengerID {
		return apperrors.Forbidden("not your booking")
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	a, err = s.announcementRepo.GetByIDForUpdate(ctx, tx, b.AnnouncementID)
	if err != nil {
		return err
	}
	if a == nil {
		return apperrors.NotFound("announcement")
	}
	b, err = s.bookingRepo.GetByIDForUpdate(ctx, tx, bookingID)
	if err != nil {
		return err
	}
	if b == nil {
		return apperrors.NotFound("booking")
	}
	if b.Status != models.BookingStatusPending && b.Status != models.BookingStatusConfirmed {
		return apperrors.InvalidTransition(b.Status, models.BookingStatusCancelled)
	}

	now := time.Now()
	_, err = tx.ExecContext(ctx,
		`UPDATE bookings SET status = $1, updated_at = $2 WHERE id = $3`,
		models.BookingStatusCancelled, now, bookingID)
	if err != nil {
		return err
	}

	if b.Status == models.BookingStatusConfirmed {
		newBooked, newStatus := a.ReleaseSeats(b.SeatsCount)
		_, err = tx.ExecContext(ctx,
			`UPDATE announcements SET booked_seats = $1, status = $2, updated_at = $3 WHERE id = $4`,
			newBooked, newStatus, now, a.ID)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *bookingService) load(ctx context.Context, bookingID string) (*models.Booking, *models.Announcement, error) {
	b, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, nil, err
	}
	if b == nil {
		return nil, nil, apperrors.NotFound("booking")
	}
	a, err := s.announcementRepo.GetByID(ctx, b.AnnouncementID)
	if err != nil {
		return nil, nil, err
	}
	if a == nil {
		return nil, nil, apperrors.NotFound("announcement")
	}
	return b, a, nil
}

func (s *bookingService) notifyStatusChange(b *models.Booking, a *models.Announcement) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		passenger, err := s.userRepo.GetByID(ctx, b.PassengerID)
		if err != nil || passenger == nil {
			log.Printf("booking: cannot load passenger %s for notification: %v", b.PassengerID, err)
			return
		}
		s.notifier.BookingStatusChanged(ctx, passenger, b, a)
	}()
}

func (s *bookingService) withAnnouncements(ctx context.Context, bookings []*models.Booking) []*models.BookingResponse {
	out := make([]*models.BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		resp := b.ToResponse()
		if a, err := s.announcementRepo.GetByID(ctx, b.AnnouncementID); err == nil && a != nil {
			resp.Announcement = a.ToResponse()
		}
		out = append(out, resp)
	}
	return out
}
