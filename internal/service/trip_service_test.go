package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/smartway/smartway-backend/internal/errors"
	"github.com/smartway/smartway-backend/internal/models"
	"github.com/smartway/smartway-backend/internal/notify"
)

func newTripServiceForTest(tripRepo *fakeTripRepo, userRepo *fakeUserRepo, carRepo *fakeCarRepo, policy models.SubscriptionPolicy) TripService {
	return NewTripService(
		tripRepo,
		userRepo,
		carRepo,
		newFakeLocationService(),
		&fakeBillingService{policy: policy},
		notify.Noop{},
	)
}

func TestTakeTripLostRaceReturnsConflict(t *testing.T) {
	driver := &models.User{ID: "d1", IsDriver: true, Phone: "+996700000001"}
	trip := &models.Trip{ID: "t1", PassengerID: "p1", Status: models.TripStatusOpen}

	tripRepo := newFakeTripRepo(trip)
	tripRepo.takeResult = false // another driver won the conditional update

	svc := newTripServiceForTest(tripRepo, newFakeUserRepo(driver), newFakeCarRepo(), models.SubscriptionPolicy{})

	_, err := svc.Take(context.Background(), "t1", "d1", &models.TakeTripRequest{})
	require.Error(t, err)

	apiErr, ok := err.(*apperrors.APIError)
	require.True(t, ok)
	assert.Equal(t, 409, apiErr.StatusCode)
	assert.Equal(t, "trip_not_available", apiErr.Code)
}

func TestTakeTripWinnerGetsAssigned(t *testing.T) {
	driver := &models.User{ID: "d1", IsDriver: true}
	passenger := &models.User{ID: "p1"}
	trip := &models.Trip{ID: "t1", PassengerID: "p1", Status: models.TripStatusOpen}

	svc := newTripServiceForTest(newFakeTripRepo(trip), newFakeUserRepo(driver, passenger), newFakeCarRepo(), models.SubscriptionPolicy{})

	resp, err := svc.Take(context.Background(), "t1", "d1", &models.TakeTripRequest{})
	require.NoError(t, err)

	assert.Equal(t, models.TripStatusTaken, resp.Status)
	require.NotNil(t, trip.DriverID)
	assert.Equal(t, "d1", *trip.DriverID)
}

func TestTakeOwnTripRejected(t *testing.T) {
	user := &models.User{ID: "u1", IsDriver: true}
	trip := &models.Trip{ID: "t1", PassengerID: "u1", Status: models.TripStatusOpen}

	svc := newTripServiceForTest(newFakeTripRepo(trip), newFakeUserRepo(user), newFakeCarRepo(), models.SubscriptionPolicy{})

	_, err := svc.Take(context.Background(), "t1", "u1", &models.TakeTripRequest{})
	require.Error(t, err)

	apiErr, ok := err.(*apperrors.APIError)
	require.True(t, ok)
	assert.Equal(t, 400, apiErr.StatusCode)
}

func TestTakeTripRequiresDriverRole(t *testing.T) {
	passengerOnly := &models.User{ID: "u1", IsDriver: false}
	trip := &models.Trip{ID: "t1", PassengerID: "p1", Status: models.TripStatusOpen}

	svc := newTripServiceForTest(newFakeTripRepo(trip), newFakeUserRepo(passengerOnly), newFakeCarRepo(), models.SubscriptionPolicy{})

	_, err := svc.Take(context.Background(), "t1", "u1", &models.TakeTripRequest{})
	require.Error(t, err)

	apiErr, ok := err.(*apperrors.APIError)
	require.True(t, ok)
	assert.Equal(t, 403, apiErr.StatusCode)
}

func TestTakeTripIgnoresForeignCar(t *testing.T) {
	driver := &models.User{ID: "d1", IsDriver: true}
	passenger := &models.User{ID: "p1"}
	trip := &models.Trip{ID: "t1", PassengerID: "p1", Status: models.TripStatusOpen}
	foreignCar := &models.Car{ID: "c1", OwnerID: "someone-else", IsActive: true}

	svc := newTripServiceForTest(newFakeTripRepo(trip), newFakeUserRepo(driver, passenger), newFakeCarRepo(foreignCar), models.SubscriptionPolicy{})

	_, err := svc.Take(context.Background(), "t1", "d1", &models.TakeTripRequest{CarID: "c1"})
	require.NoError(t, err)

	assert.Nil(t, trip.CarID, "car owned by another user must not be attached")
}

func TestFinishTripBumpsBothCounters(t *testing.T) {
	driverID := "d1"
	driver := &models.User{ID: driverID, IsDriver: true}
	passenger := &models.User{ID: "p1"}
	trip := &models.Trip{ID: "t1", PassengerID: "p1", DriverID: &driverID, Status: models.TripStatusInProgress}

	userRepo := newFakeUserRepo(driver, passenger)
	svc := newTripServiceForTest(newFakeTripRepo(trip), userRepo, newFakeCarRepo(), models.SubscriptionPolicy{})

	err := svc.Finish(context.Background(), "t1", "d1")
	require.NoError(t, err)

	assert.Equal(t, []string{"d1"}, userRepo.driverCounterBumps)
	assert.Equal(t, []string{"p1"}, userRepo.passengerCounterBumps)
}

func TestFinishCompletedTripFails(t *testing.T) {
	driverID := "d1"
	trip := &models.Trip{ID: "t1", PassengerID: "p1", DriverID: &driverID, Status: models.TripStatusCompleted}

	userRepo := newFakeUserRepo(&models.User{ID: "d1", IsDriver: true})
	svc := newTripServiceForTest(newFakeTripRepo(trip), userRepo, newFakeCarRepo(), models.SubscriptionPolicy{})

	err := svc.Finish(context.Background(), "t1", "d1")
	require.Error(t, err)
	assert.Empty(t, userRepo.driverCounterBumps, "terminal trip must not credit counters again")
}

func TestCancelTripByStranger(t *testing.T) {
	trip := &models.Trip{ID: "t1", PassengerID: "p1", Status: models.TripStatusOpen}

	svc := newTripServiceForTest(newFakeTripRepo(trip), newFakeUserRepo(), newFakeCarRepo(), models.SubscriptionPolicy{})

	err := svc.Cancel(context.Background(), "t1", "stranger")
	require.Error(t, err)

	apiErr, ok := err.(*apperrors.APIError)
	require.True(t, ok)
	assert.Equal(t, 403, apiErr.StatusCode)
}

func TestListAvailableAppliesViewDelayCutoff(t *testing.T) {
	driver := &models.User{ID: "d1", IsDriver: true}
	tripRepo := newFakeTripRepo()

	svc := newTripServiceForTest(tripRepo, newFakeUserRepo(driver), newFakeCarRepo(),
		models.SubscriptionPolicy{PriorityLevel: 0, ViewDelaySeconds: 120})

	before := time.Now()
	_, err := svc.ListAvailable(context.Background(), "d1")
	require.NoError(t, err)

	// The cutoff passed to the repository must sit ~120s in the past.
	delay := before.Sub(tripRepo.lastAvailableCutoff)
	assert.InDelta(t, 120, delay.Seconds(), 2)
}

func TestListAvailableZeroDelayForPremium(t *testing.T) {
	driver := &models.User{ID: "d1", IsDriver: true}
	tripRepo := newFakeTripRepo()

	svc := newTripServiceForTest(tripRepo, newFakeUserRepo(driver), newFakeCarRepo(),
		models.SubscriptionPolicy{PriorityLevel: 3, ViewDelaySeconds: 0})

	before := time.Now()
	_, err := svc.ListAvailable(context.Background(), "d1")
	require.NoError(t, err)

	delay := before.Sub(tripRepo.lastAvailableCutoff)
	assert.InDelta(t, 0, delay.Seconds(), 2)
}

func TestCreateTripRejectsDrivers(t *testing.T) {
	driver := &models.User{ID: "d1", IsDriver: true}
	svc := newTripServiceForTest(newFakeTripRepo(), newFakeUserRepo(driver), newFakeCarRepo(),
		models.SubscriptionPolicy{})

	_, err := svc.Create(context.Background(), "d1", &models.CreateTripRequest{
		FromLocationID:  "loc-a",
		ToLocationID:    "loc-b",
		DepartureTime:   time.Now().Add(time.Hour),
		PassengersCount: 1,
	})

	var apiErr *apperrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "forbidden", apiErr.Code)
}

func TestCreateTripDefaultsContactPhone(t *testing.T) {
	passenger := &models.User{ID: "p1", Phone: "+996700000010"}
	tripRepo := newFakeTripRepo()
	svc := NewTripService(
		tripRepo,
		newFakeUserRepo(passenger),
		newFakeCarRepo(),
		newFakeLocationService(
			&models.Location{ID: "loc-a", Code: "bishkek"},
			&models.Location{ID: "loc-b", Code: "osh"},
		),
		&fakeBillingService{},
		notify.Noop{},
	)

	resp, err := svc.Create(context.Background(), "p1", &models.CreateTripRequest{
		FromLocationID:  "loc-a",
		ToLocationID:    "loc-b",
		DepartureTime:   time.Now().Add(time.Hour),
		PassengersCount: 2,
	})
	require.NoError(t, err)

	assert.Equal(t, models.TripStatusOpen, resp.Status)
	assert.Equal(t, passenger.Phone, resp.ContactPhone)
	require.NotNil(t, tripRepo.trips[resp.ID])
}

func TestCreateTripSameLocationRejected(t *testing.T) {
	passenger := &models.User{ID: "p1", Phone: "+996700000010"}
	svc := NewTripService(
		newFakeTripRepo(),
		newFakeUserRepo(passenger),
		newFakeCarRepo(),
		newFakeLocationService(&models.Location{ID: "loc-a", Code: "bishkek"}),
		&fakeBillingService{},
		notify.Noop{},
	)

	_, err := svc.Create(context.Background(), "p1", &models.CreateTripRequest{
		FromLocationID:  "loc-a",
		ToLocationID:    "loc-a",
		DepartureTime:   time.Now().Add(time.Hour),
		PassengersCount: 1,
	})

	var apiErr *apperrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "validation_error", apiErr.Code)
}

func TestTakeTripGoneAfterClaimReturnsNotFound(t *testing.T) {
	driver := &models.User{ID: "d1", IsDriver: true}
	trip := &models.Trip{ID: "t1", PassengerID: "p1", Status: models.TripStatusOpen}

	tripRepo := newFakeTripRepo(trip)
	tripRepo.vanishOnTake = true // trip row gone before the re-read

	svc := newTripServiceForTest(tripRepo, newFakeUserRepo(driver), newFakeCarRepo(), models.SubscriptionPolicy{})

	_, err := svc.Take(context.Background(), "t1", "d1", &models.TakeTripRequest{})

	apiErr, ok := err.(*apperrors.APIError)
	require.True(t, ok)
	assert.Equal(t, 404, apiErr.StatusCode)
}
