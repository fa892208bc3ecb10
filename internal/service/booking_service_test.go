package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/smartway/smartway-backend/internal/errors"
	"github.com/smartway/smartway-backend/internal/models"
	"github.com/smartway/smartway-backend/internal/notify"
)

func activeAnnouncement() *models.Announcement {
	return &models.Announcement{
		ID:             "a1",
		DriverID:       "d1",
		Status:         models.AnnouncementStatusActive,
		AvailableSeats: 3,
		BookedSeats:    1,
	}
}

func newBookingServiceForTest(bookings *fakeBookingRepo, announcements *fakeAnnouncementRepo, users *fakeUserRepo) BookingService {
	return NewBookingService(nil, bookings, announcements, users, notify.Noop{})
}

func TestCreateBookingHappyPath(t *testing.T) {
	passenger := &models.User{ID: "p1", Phone: "+996700000002"}
	svc := newBookingServiceForTest(newFakeBookingRepo(), newFakeAnnouncementRepo(activeAnnouncement()), newFakeUserRepo(passenger))

	resp, err := svc.Create(context.Background(), "p1", &models.CreateBookingRequest{
		AnnouncementID: "a1",
		SeatsCount:     2,
	})
	require.NoError(t, err)

	assert.Equal(t, models.BookingStatusPending, resp.Status)
	assert.Equal(t, 2, resp.SeatsCount)
	// Contact phone falls back to the passenger's own number.
	assert.Equal(t, "+996700000002", resp.ContactPhone)
}

func TestCreateBookingOnOwnAnnouncement(t *testing.T) {
	driver := &models.User{ID: "d1", IsDriver: true}
	svc := newBookingServiceForTest(newFakeBookingRepo(), newFakeAnnouncementRepo(activeAnnouncement()), newFakeUserRepo(driver))

	_, err := svc.Create(context.Background(), "d1", &models.CreateBookingRequest{
		AnnouncementID: "a1",
		SeatsCount:     1,
	})
	require.Error(t, err)

	apiErr, ok := err.(*apperrors.APIError)
	require.True(t, ok)
	assert.Equal(t, 400, apiErr.StatusCode)
}

func TestCreateBookingSecondPendingRejected(t *testing.T) {
	passenger := &models.User{ID: "p1"}
	existing := &models.Booking{
		ID:             "b0",
		AnnouncementID: "a1",
		PassengerID:    "p1",
		Status:         models.BookingStatusPending,
		SeatsCount:     1,
	}
	svc := newBookingServiceForTest(newFakeBookingRepo(existing), newFakeAnnouncementRepo(activeAnnouncement()), newFakeUserRepo(passenger))

	_, err := svc.Create(context.Background(), "p1", &models.CreateBookingRequest{
		AnnouncementID: "a1",
		SeatsCount:     1,
	})
	require.Error(t, err)

	apiErr, ok := err.(*apperrors.APIError)
	require.True(t, ok)
	assert.Equal(t, "pending_booking_exists", apiErr.Code)
}

func TestCreateBookingRetryAfterRejection(t *testing.T) {
	passenger := &models.User{ID: "p1"}
	rejected := &models.Booking{
		ID:             "b0",
		AnnouncementID: "a1",
		PassengerID:    "p1",
		Status:         models.BookingStatusRejected,
		SeatsCount:     1,
	}
	svc := newBookingServiceForTest(newFakeBookingRepo(rejected), newFakeAnnouncementRepo(activeAnnouncement()), newFakeUserRepo(passenger))

	// A rejected request does not block a fresh one.
	_, err := svc.Create(context.Background(), "p1", &models.CreateBookingRequest{
		AnnouncementID: "a1",
		SeatsCount:     1,
	})
	require.NoError(t, err)
}

func TestCreateBookingOverFreeSeats(t *testing.T) {
	passenger := &models.User{ID: "p1"}
	svc := newBookingServiceForTest(newFakeBookingRepo(), newFakeAnnouncementRepo(activeAnnouncement()), newFakeUserRepo(passenger))

	_, err := svc.Create(context.Background(), "p1", &models.CreateBookingRequest{
		AnnouncementID: "a1",
		SeatsCount:     3, // only 2 free
	})
	require.Error(t, err)

	apiErr, ok := err.(*apperrors.APIError)
	require.True(t, ok)
	assert.Equal(t, "not_enough_seats", apiErr.Code)
	assert.Equal(t, 409, apiErr.StatusCode)
}

func TestRejectBookingSetsComment(t *testing.T) {
	booking := &models.Booking{
		ID:             "b1",
		AnnouncementID: "a1",
		PassengerID:    "p1",
		SeatsCount:     1,
		Status:         models.BookingStatusPending,
	}
	bookings := newFakeBookingRepo(booking)
	svc := newBookingServiceForTest(bookings, newFakeAnnouncementRepo(activeAnnouncement()), newFakeUserRepo())

	err := svc.Reject(context.Background(), "b1", "d1", &models.RejectBookingRequest{Comment: "car is full of luggage"})
	require.NoError(t, err)

	assert.Equal(t, models.BookingStatusRejected, booking.Status)
	assert.Equal(t, "car is full of luggage", booking.DriverComment)
}

func TestRejectBookingNoLongerPending(t *testing.T) {
	booking := &models.Booking{
		ID:             "b1",
		AnnouncementID: "a1",
		PassengerID:    "p1",
		SeatsCount:     1,
		Status:         models.BookingStatusConfirmed,
	}
	svc := newBookingServiceForTest(newFakeBookingRepo(booking), newFakeAnnouncementRepo(activeAnnouncement()), newFakeUserRepo())

	err := svc.Reject(context.Background(), "b1", "d1", nil)

	apiErr, ok := err.(*apperrors.APIError)
	require.True(t, ok)
	assert.Equal(t, 409, apiErr.StatusCode)
}

func TestRejectBookingNotOwner(t *testing.T) {
	booking := &models.Booking{
		ID:             "b1",
		AnnouncementID: "a1",
		PassengerID:    "p1",
		SeatsCount:     1,
		Status:         models.BookingStatusPending,
	}
	svc := newBookingServiceForTest(newFakeBookingRepo(booking), newFakeAnnouncementRepo(activeAnnouncement()), newFakeUserRepo())

	err := svc.Reject(context.Background(), "b1", "other-driver", nil)

	apiErr, ok := err.(*apperrors.APIError)
	require.True(t, ok)
	assert.Equal(t, 403, apiErr.StatusCode)
}
