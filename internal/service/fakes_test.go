package service

import (
	"context"
	"time"

	apperrors "github.com/smartway/smartway-backend/internal/errors"
	"github.com/smartway/smartway-backend/internal/models"
	"github.com/smartway/smartway-backend/internal/repository"
)

var errNotFoundLocation = apperrors.NotFound("location")

// Hand-rolled fakes. Each embeds the interface it fakes so only the
// methods a test actually exercises need stubbing; calling anything else
// panics and fails the test loudly.

type fakeUserRepo struct {
	repository.UserRepository
	users map[string]*models.User

	driverCounterBumps    []string
	passengerCounterBumps []string
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	m := make(map[string]*models.User, len(users))
	for _, u := range users {
		m[u.ID] = u
	}
	return &fakeUserRepo{users: m}
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	return f.users[id], nil
}

func (f *fakeUserRepo) IncrementDriverCompleted(_ context.Context, id string) error {
	f.driverCounterBumps = append(f.driverCounterBumps, id)
	return nil
}

func (f *fakeUserRepo) IncrementPassengerCompleted(_ context.Context, id string) error {
	f.passengerCounterBumps = append(f.passengerCounterBumps, id)
	return nil
}

type fakeTripRepo struct {
	repository.TripRepository
	trips map[string]*models.Trip

	takeResult   bool
	finishResult bool
	cancelResult bool
	vanishOnTake bool

	lastAvailableCutoff time.Time
}

func newFakeTripRepo(trips ...*models.Trip) *fakeTripRepo {
	m := make(map[string]*models.Trip, len(trips))
	for _, tr := range trips {
		m[tr.ID] = tr
	}
	return &fakeTripRepo{trips: m, takeResult: true, finishResult: true, cancelResult: true}
}

func (f *fakeTripRepo) Create(_ context.Context, trip *models.Trip) error {
	if trip.ID == "" {
		trip.ID = "generated"
	}
	trip.Status = models.TripStatusOpen
	f.trips[trip.ID] = trip
	return nil
}

func (f *fakeTripRepo) GetByID(_ context.Context, id string) (*models.Trip, error) {
	return f.trips[id], nil
}

func (f *fakeTripRepo) Take(_ context.Context, tripID, driverID string, carID *string) (bool, error) {
	if !f.takeResult {
		return false, nil
	}
	trip := f.trips[tripID]
	trip.Status = models.TripStatusTaken
	trip.DriverID = &driverID
	trip.CarID = carID
	if f.vanishOnTake {
		delete(f.trips, tripID)
	}
	return true, nil
}

func (f *fakeTripRepo) Finish(_ context.Context, tripID, driverID string) (bool, error) {
	if !f.finishResult {
		return false, nil
	}
	f.trips[tripID].Status = models.TripStatusCompleted
	return true, nil
}

func (f *fakeTripRepo) Cancel(_ context.Context, id string) (bool, error) {
	if !f.cancelResult {
		return false, nil
	}
	f.trips[id].Status = models.TripStatusCancelled
	return true, nil
}

func (f *fakeTripRepo) ListAvailable(_ context.Context, _ string, _, cutoff time.Time) ([]*models.Trip, error) {
	f.lastAvailableCutoff = cutoff
	return nil, nil
}

type fakeCarRepo struct {
	repository.CarRepository
	cars map[string]*models.Car
}

func newFakeCarRepo(cars ...*models.Car) *fakeCarRepo {
	m := make(map[string]*models.Car, len(cars))
	for _, c := range cars {
		m[c.ID] = c
	}
	return &fakeCarRepo{cars: m}
}

func (f *fakeCarRepo) GetByID(_ context.Context, id string) (*models.Car, error) {
	return f.cars[id], nil
}

func (f *fakeCarRepo) GetActiveByIDAndOwner(_ context.Context, id, ownerID string) (*models.Car, error) {
	c := f.cars[id]
	if c == nil || c.OwnerID != ownerID || !c.IsActive {
		return nil, nil
	}
	return c, nil
}

type fakeBookingRepo struct {
	repository.BookingRepository
	bookings map[string]*models.Booking
}

func newFakeBookingRepo(bookings ...*models.Booking) *fakeBookingRepo {
	m := make(map[string]*models.Booking, len(bookings))
	for _, b := range bookings {
		m[b.ID] = b
	}
	return &fakeBookingRepo{bookings: m}
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id string) (*models.Booking, error) {
	return f.bookings[id], nil
}

func (f *fakeBookingRepo) HasPending(_ context.Context, announcementID, passengerID string) (bool, error) {
	for _, b := range f.bookings {
		if b.AnnouncementID == announcementID && b.PassengerID == passengerID && b.Status == models.BookingStatusPending {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeBookingRepo) Reject(_ context.Context, id, comment string) (bool, error) {
	b := f.bookings[id]
	if b == nil || b.Status != models.BookingStatusPending {
		return false, nil
	}
	b.Status = models.BookingStatusRejected
	b.DriverComment = comment
	return true, nil
}

func (f *fakeBookingRepo) Create(_ context.Context, b *models.Booking) error {
	if b.ID == "" {
		b.ID = "booking-" + b.PassengerID
	}
	b.Status = models.BookingStatusPending
	f.bookings[b.ID] = b
	return nil
}

type fakeAnnouncementRepo struct {
	repository.AnnouncementRepository
	announcements map[string]*models.Announcement
}

func newFakeAnnouncementRepo(list ...*models.Announcement) *fakeAnnouncementRepo {
	m := make(map[string]*models.Announcement, len(list))
	for _, a := range list {
		m[a.ID] = a
	}
	return &fakeAnnouncementRepo{announcements: m}
}

func (f *fakeAnnouncementRepo) GetByID(_ context.Context, id string) (*models.Announcement, error) {
	return f.announcements[id], nil
}

type fakeReviewRepo struct {
	repository.ReviewRepository
	created         []*models.Review
	tripReviewed    map[string]bool
	bookingReviewed map[string]bool
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{
		tripReviewed:    map[string]bool{},
		bookingReviewed: map[string]bool{},
	}
}

func (f *fakeReviewRepo) Create(_ context.Context, rv *models.Review) error {
	f.created = append(f.created, rv)
	return nil
}

func (f *fakeReviewRepo) ExistsForTrip(_ context.Context, authorID, tripID string) (bool, error) {
	return f.tripReviewed[authorID+":"+tripID], nil
}

func (f *fakeReviewRepo) ExistsForBooking(_ context.Context, authorID, bookingID string) (bool, error) {
	return f.bookingReviewed[authorID+":"+bookingID], nil
}

type fakeBillingRepo struct {
	repository.BillingRepository
	best *models.ActiveSubscription
}

func (f *fakeBillingRepo) BestActiveSubscription(_ context.Context, _ string, _ time.Time) (*models.ActiveSubscription, error) {
	return f.best, nil
}

type fakePolicyCache struct {
	entries     map[string]models.SubscriptionPolicy
	invalidated []string
}

func newFakePolicyCache() *fakePolicyCache {
	return &fakePolicyCache{entries: map[string]models.SubscriptionPolicy{}}
}

func (f *fakePolicyCache) Get(_ context.Context, driverID string) (*models.SubscriptionPolicy, error) {
	if p, ok := f.entries[driverID]; ok {
		return &p, nil
	}
	return nil, nil
}

func (f *fakePolicyCache) Set(_ context.Context, driverID string, policy models.SubscriptionPolicy) error {
	f.entries[driverID] = policy
	return nil
}

func (f *fakePolicyCache) Invalidate(_ context.Context, driverID string) error {
	delete(f.entries, driverID)
	f.invalidated = append(f.invalidated, driverID)
	return nil
}

type fakeBillingService struct {
	BillingService
	policy models.SubscriptionPolicy
}

func (f *fakeBillingService) ResolvePolicy(_ context.Context, _ string, _ time.Time) (models.SubscriptionPolicy, error) {
	return f.policy, nil
}

type fakeLocationService struct {
	LocationService
	locations map[string]*models.Location
}

func newFakeLocationService(locations ...*models.Location) *fakeLocationService {
	m := make(map[string]*models.Location, len(locations))
	for _, l := range locations {
		m[l.ID] = l
	}
	return &fakeLocationService{locations: m}
}

func (f *fakeLocationService) Get(_ context.Context, id string) (*models.Location, error) {
	if l, ok := f.locations[id]; ok {
		return l, nil
	}
	return nil, errNotFoundLocation
}
