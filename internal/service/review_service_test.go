package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/smartway/smartway-backend/internal/errors"
	"github.com/smartway/smartway-backend/internal/models"
)

func newReviewServiceForTest(reviews *fakeReviewRepo, trips *fakeTripRepo, bookings *fakeBookingRepo, announcements *fakeAnnouncementRepo) ReviewService {
	return NewReviewService(reviews, trips, bookings, announcements, newFakeUserRepo())
}

func completedTrip() *models.Trip {
	driverID := "d1"
	return &models.Trip{ID: "t1", PassengerID: "p1", DriverID: &driverID, Status: models.TripStatusCompleted}
}

func TestCreateReviewRequiresExactlyOneSubject(t *testing.T) {
	svc := newReviewServiceForTest(newFakeReviewRepo(), newFakeTripRepo(), newFakeBookingRepo(), newFakeAnnouncementRepo())

	_, err := svc.Create(context.Background(), "p1", &models.CreateReviewRequest{Rating: 5})
	require.Error(t, err, "neither subject given")

	_, err = svc.Create(context.Background(), "p1", &models.CreateReviewRequest{
		TripID: "t1", BookingID: "b1", Rating: 5,
	})
	require.Error(t, err, "both subjects given")
}

func TestCreateTripReviewDerivesRecipient(t *testing.T) {
	reviews := newFakeReviewRepo()
	svc := newReviewServiceForTest(reviews, newFakeTripRepo(completedTrip()), newFakeBookingRepo(), newFakeAnnouncementRepo())

	// Passenger reviews: recipient is the driver.
	resp, err := svc.Create(context.Background(), "p1", &models.CreateReviewRequest{TripID: "t1", Rating: 5})
	require.NoError(t, err)
	assert.Equal(t, "d1", resp.RecipientID)

	// Driver reviews: recipient is the passenger.
	resp, err = svc.Create(context.Background(), "d1", &models.CreateReviewRequest{TripID: "t1", Rating: 4})
	require.NoError(t, err)
	assert.Equal(t, "p1", resp.RecipientID)
}

func TestCreateTripReviewRejectsNonParticipant(t *testing.T) {
	svc := newReviewServiceForTest(newFakeReviewRepo(), newFakeTripRepo(completedTrip()), newFakeBookingRepo(), newFakeAnnouncementRepo())

	_, err := svc.Create(context.Background(), "stranger", &models.CreateReviewRequest{TripID: "t1", Rating: 5})
	require.Error(t, err)

	apiErr, ok := err.(*apperrors.APIError)
	require.True(t, ok)
	assert.Equal(t, 403, apiErr.StatusCode)
}

func TestCreateTripReviewRejectsNonTerminalTrip(t *testing.T) {
	driverID := "d1"
	inProgress := &models.Trip{ID: "t1", PassengerID: "p1", DriverID: &driverID, Status: models.TripStatusInProgress}
	svc := newReviewServiceForTest(newFakeReviewRepo(), newFakeTripRepo(inProgress), newFakeBookingRepo(), newFakeAnnouncementRepo())

	_, err := svc.Create(context.Background(), "p1", &models.CreateReviewRequest{TripID: "t1", Rating: 5})
	require.Error(t, err)

	apiErr, ok := err.(*apperrors.APIError)
	require.True(t, ok)
	assert.Equal(t, 400, apiErr.StatusCode)
}

func TestCreateTripReviewOncePerAuthor(t *testing.T) {
	reviews := newFakeReviewRepo()
	reviews.tripReviewed["p1:t1"] = true
	svc := newReviewServiceForTest(reviews, newFakeTripRepo(completedTrip()), newFakeBookingRepo(), newFakeAnnouncementRepo())

	_, err := svc.Create(context.Background(), "p1", &models.CreateReviewRequest{TripID: "t1", Rating: 5})
	require.Error(t, err)

	apiErr, ok := err.(*apperrors.APIError)
	require.True(t, ok)
	assert.Equal(t, "already_reviewed", apiErr.Code)
}

func TestCreateBookingReviewDerivesRecipient(t *testing.T) {
	booking := &models.Booking{ID: "b1", AnnouncementID: "a1", PassengerID: "p1", Status: models.BookingStatusCompleted}
	announcement := &models.Announcement{ID: "a1", DriverID: "d1", Status: models.AnnouncementStatusCompleted}

	svc := newReviewServiceForTest(newFakeReviewRepo(), newFakeTripRepo(), newFakeBookingRepo(booking), newFakeAnnouncementRepo(announcement))

	resp, err := svc.Create(context.Background(), "p1", &models.CreateReviewRequest{BookingID: "b1", Rating: 5})
	require.NoError(t, err)
	assert.Equal(t, "d1", resp.RecipientID)
}

func TestCreateBookingReviewRejectsPendingBooking(t *testing.T) {
	booking := &models.Booking{ID: "b1", AnnouncementID: "a1", PassengerID: "p1", Status: models.BookingStatusPending}
	announcement := &models.Announcement{ID: "a1", DriverID: "d1", Status: models.AnnouncementStatusActive}

	svc := newReviewServiceForTest(newFakeReviewRepo(), newFakeTripRepo(), newFakeBookingRepo(booking), newFakeAnnouncementRepo(announcement))

	_, err := svc.Create(context.Background(), "p1", &models.CreateReviewRequest{BookingID: "b1", Rating: 5})
	require.Error(t, err)
}
