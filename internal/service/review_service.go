package service

import (
	"context"

	apperrors "github.com/smartway/smartway-backend/internal/errors"
	"github.com/smartway/smartway-backend/internal/models"
	"github.com/smartway/smartway-backend/internal/repository"
)

type ReviewService interface {
	Create(ctx context.Context, authorID string, req *models.CreateReviewRequest) (*models.ReviewResponse, error)
	ListReceived(ctx context.Context, userID string) ([]*models.ReviewResponse, error)
	ListWritten(ctx context.Context, userID string) ([]*models.ReviewResponse, error)
	ListForUser(ctx context.Context, userID string) ([]*models.ReviewResponse, error)
}

type reviewService struct {
	reviewRepo       repository.ReviewRepository
	tripRepo         repository.TripRepository
	bookingRepo      repository.BookingRepository
	announcementRepo repository.AnnouncementRepository
	userRepo         repository.UserRepository
}

func NewReviewService(
	reviewRepo repository.ReviewRepository,
	tripRepo repository.TripRepository,
	bookingRepo repository.BookingRepository,
	announcementRepo repository.AnnouncementRepository,
	userRepo repository.UserRepository,
) ReviewService {
	return &reviewService{
		reviewRepo:       reviewRepo,
		tripRepo:         tripRepo,
		bookingRepo:      bookingRepo,
		announcementRepo: announcementRepo,
		userRepo:         userRepo,
	}
}

// Create attaches a review to a completed trip or booking. The recipient
// is always derived as the author's counterparty on the ride, never taken
// from the request. One review per author per ride.
func (s *reviewService) Create(ctx context.Context, authorID string, req *models.CreateReviewRequest) (*models.ReviewResponse, error) {
	if (req.TripID == "") == (req.BookingID == "") {
		return nil, apperrors.Validation("exactly one of trip_id or booking_id is required")
	}

	review := &models.Review{
		AuthorID:    authorID,
		Rating:      req.Rating,
		Text:        req.Text,
		WasOnTime:   req.WasOnTime,
		WasPolite:   req.WasPolite,
		CarWasClean: req.CarWasClean,
	}

	var err error
	if req.TripID != "" {
		err = s.prepareTripReview(ctx, review, req.TripID)
	} else {
		err = s.prepareBookingReview(ctx, review, req.BookingID)
	}
	if err != nil {
		return nil, err
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperrors.AlreadyReviewed()
		}
		return nil, err
	}
	return review.ToResponse(), nil
}

func (s *reviewService) prepareTripReview(ctx context.Context, review *models.Review, tripID string) error {
	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return err
	}
	if trip == nil {
		return apperrors.NotFound("trip")
	}
	if trip.Status != models.TripStatusCompleted {
		return apperrors.Validation("only completed trips can be reviewed")
	}
	if trip.DriverID == nil {
		return apperrors.Validation("trip has no driver to review")
	}

	switch review.AuthorID {
	case trip.PassengerID:
		review.RecipientID = *trip.DriverID
	case *trip.DriverID:
		review.RecipientID = trip.PassengerID
	default:
		return apperrors.Forbidden("you were not part of this trip")
	}

	exists, err := s.reviewRepo.ExistsForTrip(ctx, review.AuthorID, tripID)
	if err != nil {
		return err
	}
	if exists {
		return apperrors.AlreadyReviewed()
	}

	review.TripID = &tripID
	return nil
}

func (s *reviewService) prepareBookingReview(ctx context.Context, review *models.Review, bookingID string) error {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if booking == nil {
		return apperrors.NotFound("booking")
	}
	if booking.Status != models.BookingStatusCompleted {
		return apperrors.Validation("only completed bookings can be reviewed")
	}

	a, err := s.announcementRepo.GetByID(ctx, booking.AnnouncementID)
	if err != nil {
		return err
	}
	if a == nil {
		return apperrors.NotFound("announcement")
	}

	switch review.AuthorID {
	case booking.PassengerID:
		review.RecipientID = a.DriverID
	case a.DriverID:
		review.RecipientID = booking.PassengerID
	default:
		return apperrors.Forbidden("you were not part of this booking")
	}

	exists, err := s.reviewRepo.ExistsForBooking(ctx, review.AuthorID, bookingID)
	if err != nil {
		return err
	}
	if exists {
		return apperrors.AlreadyReviewed()
	}

	review.BookingID = &bookingID
	return nil
}

func (s *reviewService) ListReceived(ctx context.Context, userID string) ([]*models.ReviewResponse, error) {
	reviews, err := s.reviewRepo.ListByRecipient(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.toResponses(ctx, reviews), nil
}

func (s *reviewService) ListWritten(ctx context.Context, userID string) ([]*models.ReviewResponse, error) {
	reviews, err := s.reviewRepo.ListByAuthor(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.toResponses(ctx, reviews), nil
}

func (s *reviewService) ListForUser(ctx context.Context, userID string) ([]*models.ReviewResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NotFound("user")
	}
	return s.ListReceived(ctx, userID)
}

func (s *reviewService) toResponses(ctx context.Context, reviews []*models.Review) []*models.ReviewResponse {
	names := map[string]string{}
	lookup := func(id string) string {
		if name, ok := names[id]; ok {
			return name
		}
		name := ""
		if u, err := s.userRepo.GetByID(ctx, id); err == nil && u != nil {
			name = u.FullName
		}
		names[id] = name
		return name
	}

	out := make([]*models.ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		resp := r.ToResponse()
		resp.AuthorName = lookup(r.AuthorID)
		resp.RecipientName = lookup(r.RecipientID)
		out = append(out, resp)
	}
	return out
}
