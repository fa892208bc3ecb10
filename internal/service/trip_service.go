package service

import (
	"context"
	"log"
	"time"

	apperrors "github.com/smartway/smartway-backend/internal/errors"
	"github.com/smartway/smartway-backend/internal/models"
	"github.com/smartway/smartway-backend/internal/notify"
	"github.com/smartway/smartway-backend/internal/repository"
)

type TripService interface {
	Create(ctx context.Context, passengerID string, req *models.CreateTripRequest) (*models.TripResponse, error)
	Get(ctx context.Context, id string) (*models.TripResponse, error)
	ListAvailable(ctx context.Context, driverID string) ([]*models.TripResponse, error)
	ListMy(ctx context.Context, passengerID string) ([]*models.TripResponse, error)
	ListMyActive(ctx context.Context, driverID string) ([]*models.TripResponse, error)
	ListMyCompleted(ctx context.Context, userID string) ([]*models.TripResponse, error)
	Take(ctx context.Context, tripID, driverID string, req *models.TakeTripRequest) (*models.TripResponse, error)
	Start(ctx context.Context, tripID, driverID string) error
	Release(ctx context.Context, tripID, driverID string) error
	Finish(ctx context.Context, tripID, driverID string) error
	Cancel(ctx context.Context, tripID, userID string) error
}

type tripService struct {
	tripRepo    repository.TripRepository
	userRepo    repository.UserRepository
	carRepo     repository.CarRepository
	locations   LocationService
	billing     BillingService
	notifier    notify.Notifier
	historySize int
}

func NewTripService(
	tripRepo repository.TripRepository,
	userRepo repository.UserRepository,
	carRepo repository.CarRepository,
	locations LocationService,
	billing BillingService,
	notifier notify.Notifier,
) TripService {
	return &tripService{
		tripRepo:    tripRepo,
		userRepo:    userRepo,
		carRepo:     carRepo,
		locations:   locations,
		billing:     billing,
		notifier:    notifier,
		historySize: 50,
	}
}

func (s *tripService) Create(ctx context.Context, passengerID string, req *models.CreateTripRequest) (*models.TripResponse, error) {
	passenger, err := s.userRepo.GetByID(ctx, passengerID)
	if err != nil {
		return nil, err
	}
	if passenger == nil {
		return nil, apperrors.NotFound("user")
	}
	if passenger.IsDriver {
		return nil, apperrors.Forbidden("drivers publish announcements, not trip requests")
	}

	if !req.DepartureTime.After(time.Now()) {
		return nil, apperrors.Validation("departure time must be in the future")
	}

	fromID, err := s.resolveLocation(ctx, req.FromLocationID, req.FromLocation)
	if err != nil {
		return nil, err
	}
	toID, err := s.resolveLocation(ctx, req.ToLocationID, req.ToLocation)
	if err != nil {
		return nil, err
	}
	if fromID == toID {
		return nil, apperrors.Validation("departure and destination must differ")
	}

	contactPhone := req.ContactPhone
	if contactPhone == "" {
		contactPhone = passenger.Phone
	}

	trip := &models.Trip{
		PassengerID:          passengerID,
		FromLocationID:       fromID,
		ToLocationID:         toID,
		DepartureTime:        req.DepartureTime,
		PassengersCount:      req.PassengersCount,
		Price:                req.Price,
		IsNegotiable:         req.IsNegotiable,
		ContactPhone:         contactPhone,
		Comment:              req.Comment,
		PreferVerifiedDriver: req.PreferVerifiedDriver,
		AllowSmoking:         req.AllowSmoking,
		AllowPets:            req.AllowPets,
		AllowBigLuggage:      req.AllowBigLuggage,
		BaggageHelp:          req.BaggageHelp,
		WithChild:            req.WithChild,
		ExtraRules:           req.ExtraRules,
	}
	if err := s.tripRepo.Create(ctx, trip); err != nil {
		return nil, err
	}

	resp := trip.ToResponse()
	resp.Passenger = passenger.ToResponse()
	return resp, nil
}

func (s *tripService) resolveLocation(ctx context.Context, locationID, freeText string) (string, error) {
	if locationID != "" {
		loc, err := s.locations.Get(ctx, locationID)
		if err != nil {
			return "", err
		}
		return loc.ID, nil
	}
	loc, err := s.locations.LookupOrCreate(ctx, freeText)
	if err != nil {
		return "", err
	}
	return loc.ID, nil
}

func (s *tripService) Get(ctx context.Context, id string) (*models.TripResponse, error) {
	trip, err := s.tripRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if trip == nil {
		return nil, apperrors.NotFound("trip")
	}
	return s.enrich(ctx, trip), nil
}

// ListAvailable returns open trips visible to the driver right now. The
// billing policy decides the cutoff: a trip created less than view_delay
// ago is still hidden from this driver, which is how paid tiers see new
// trips earlier than free ones.
func (s *tripService) ListAvailable(ctx context.Context, driverID string) ([]*models.TripResponse, error) {
	driver, err := s.userRepo.GetByID(ctx, driverID)
	if err != nil {
		return nil, err
	}
	if driver == nil {
		return nil, apperrors.NotFound("user")
	}
	if !driver.IsDriver {
		return nil, apperrors.Forbidden("only drivers can browse trips")
	}

	now := time.Now()
	policy, err := s.billing.ResolvePolicy(ctx, driverID, now)
	if err != nil {
		log.Printf("trip: policy resolution failed for driver %s, using defaults: %v", driverID, err)
	}
	cutoff := now.Add(-policy.ViewDelay())

	trips, err := s.tripRepo.ListAvailable(ctx, driverID, now, cutoff)
	if err != nil {
		return nil, err
	}
	return s.toResponses(trips), nil
}

func (s *tripService) ListMy(ctx context.Context, passengerID string) ([]*models.TripResponse, error) {
	trips, err := s.tripRepo.ListByPassenger(ctx, passengerID)
	if err != nil {
		return nil, err
	}
	return s.toResponses(trips), nil
}

func (s *tripService) ListMyActive(ctx context.Context, driverID string) ([]*models.TripResponse, error) {
	trips, err := s.tripRepo.ListActiveByDriver(ctx, driverID)
	if err != nil {
		return nil, err
	}
	return s.toResponses(trips), nil
}

func (s *tripService) ListMyCompleted(ctx context.Context, userID string) ([]*models.TripResponse, error) {
	trips, err := s.tripRepo.ListCompletedByParticipant(ctx, userID, s.historySize)
	if err != nil {
		return nil, err
	}
	return s.toResponses(trips), nil
}

// Take claims an open trip for a driver. The claim is a conditional
// update guarded on status = open, so when several drivers race for the
// same trip exactly one update lands and the rest get a conflict.
func (s *tripService) Take(ctx context.Context, tripID, driverID string, req *models.TakeTripRequest) (*models.TripResponse, error) {
	driver, err := s.userRepo.GetByID(ctx, driverID)
	if err != nil {
		return nil, err
	}
	if driver == nil {
		return nil, apperrors.NotFound("user")
	}
	if !driver.IsDriver {
		return nil, apperrors.Forbidden("only drivers can take trips")
	}

	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if trip == nil {
		return nil, apperrors.NotFound("trip")
	}
	if trip.PassengerID == driverID {
		return nil, apperrors.Validation("cannot take your own trip")
	}

	var carID *string
	if req != nil && req.CarID != "" {
		// Revalidate here rather than trusting the id: the car may have
		// been deactivated or belong to someone else.
		car, err := s.carRepo.GetActiveByIDAndOwner(ctx, req.CarID, driverID)
		if err != nil {
			return nil, err
		}
		if car != nil {
			carID = &car.ID
		}
	}

	ok, err := s.tripRepo.Take(ctx, tripID, driverID, carID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.TripNotAvailable()
	}

	trip, err = s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if trip == nil {
		return nil, apperrors.NotFound("trip")
	}

	s.notifyTripTaken(trip, driver)

	return s.enrich(ctx, trip), nil
}

func (s *tripService) notifyTripTaken(trip *models.Trip, driver *models.User) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		passenger, err := s.userRepo.GetByID(ctx, trip.PassengerID)
		if err != nil || passenger == nil {
			log.Printf("trip: cannot load passenger %s for notification: %v", trip.PassengerID, err)
			return
		}
		s.notifier.TripTaken(ctx, passenger, driver, trip)
	}()
}

func (s *tripService) Start(ctx context.Context, tripID, driverID string) error {
	trip, err := s.requireAssigned(ctx, tripID, driverID)
	if err != nil {
		return err
	}
	if trip.Status != models.TripStatusTaken {
		return apperrors.InvalidTransition(trip.Status, models.TripStatusInProgress)
	}

	ok, err := s.tripRepo.UpdateStatusFrom(ctx, tripID, models.TripStatusTaken, models.TripStatusInProgress)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.Conflict("trip status changed, try again")
	}
	return nil
}

// Release returns a claimed trip to the marketplace. The driver backs
// out; the trip becomes open again and other drivers can take it.
func (s *tripService) Release(ctx context.Context, tripID, driverID string) error {
	trip, err := s.requireAssigned(ctx, tripID, driverID)
	if err != nil {
		return err
	}
	if trip.IsTerminal() {
		return apperrors.InvalidTransition(trip.Status, models.TripStatusOpen)
	}

	ok, err := s.tripRepo.Release(ctx, tripID, driverID)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.Conflict("trip status changed, try again")
	}
	return nil
}

// Finish completes a trip and credits both completion counters. The
// guarded update succeeds at most once per trip, so a double finish
// cannot double-count.
func (s *tripService) Finish(ctx context.Context, tripID, driverID string) error {
	trip, err := s.requireAssigned(ctx, tripID, driverID)
	if err != nil {
		return err
	}
	if trip.IsTerminal() {
		return apperrors.InvalidTransition(trip.Status, models.TripStatusCompleted)
	}

	ok, err := s.tripRepo.Finish(ctx, tripID, driverID)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.Conflict("trip status changed, try again")
	}

	if err := s.userRepo.IncrementDriverCompleted(ctx, driverID); err != nil {
		log.Printf("trip: failed to bump driver counter for %s: %v", driverID, err)
	}
	if err := s.userRepo.IncrementPassengerCompleted(ctx, trip.PassengerID); err != nil {
		log.Printf("trip: failed to bump passenger counter for %s: %v", trip.PassengerID, err)
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		passenger, perr := s.userRepo.GetByID(ctx, trip.PassengerID)
		driver, derr := s.userRepo.GetByID(ctx, driverID)
		if perr != nil || derr != nil || passenger == nil || driver == nil {
			return
		}
		s.notifier.TripCompleted(ctx, passenger, driver, trip)
	}()
	return nil
}

func (s *tripService) Cancel(ctx context.Context, tripID, userID string) error {
	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return err
	}
	if trip == nil {
		return apperrors.NotFound("trip")
	}
	if trip.PassengerID != userID && !trip.IsAssignedTo(userID) {
		return apperrors.Forbidden("not your trip")
	}
	if trip.IsTerminal() {
		return apperrors.InvalidTransition(trip.Status, models.TripStatusCancelled)
	}

	ok, err := s.tripRepo.Cancel(ctx, tripID)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.Conflict("trip status changed, try again")
	}
	return nil
}

func (s *tripService) requireAssigned(ctx context.Context, tripID, driverID string) (*models.Trip, error) {
	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if trip == nil {
		return nil, apperrors.NotFound("trip")
	}
	if !trip.IsAssignedTo(driverID) {
		return nil, apperrors.Forbidden("trip is not assigned to you")
	}
	return trip, nil
}

func (s *tripService) enrich(ctx context.Context, trip *models.Trip) *models.TripResponse {
	resp := trip.ToResponse()
	if passenger, err := s.userRepo.GetByID(ctx, trip.PassengerID); err == nil && passenger != nil {
		resp.Passenger = passenger.ToResponse()
	}
	if trip.DriverID != nil {
		if driver, err := s.userRepo.GetByID(ctx, *trip.DriverID); err == nil && driver != nil {
			resp.Driver = driver.ToResponse()
		}
	}
	if trip.CarID != nil {
		if car, err := s.carRepo.GetByID(ctx, *trip.CarID); err == nil && car != nil {
			resp.Car = car.ToInfo()
		}
	}
	return resp
}

func (s *tripService) toResponses(trips []*models.Trip) []*models.TripResponse {
	out := make([]*models.TripResponse, 0, len(trips))
	for _, t := range trips {
		out = append(out, t.ToResponse())
	}
	return out
}
