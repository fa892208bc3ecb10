package notify

import (
	"context"

	"github.com/smartway/smartway-backend/internal/models"
)

// Notifier delivers user-facing messages about ride events. Sends are
// fire-and-forget: a delivery failure is logged by the implementation and
// never propagates into the state transition that triggered it.
type Notifier interface {
	TripTaken(ctx context.Context, passenger, driver *models.User, trip *models.Trip)
	TripCompleted(ctx context.Context, passenger, driver *models.User, trip *models.Trip)
	BookingCreated(ctx context.Context, driver, passenger *models.User, booking *models.Booking, a *models.Announcement)
	BookingStatusChanged(ctx context.Context, passenger *models.User, booking *models.Booking, a *models.Announcement)
	BookingCompleted(ctx context.Context, passenger *models.User, booking *models.Booking, a *models.Announcement)
}

// Noop is used when no Telegram token is configured.
type Noop struct{}

func (Noop) TripTaken(context.Context, *models.User, *models.User, *models.Trip)     {}
func (Noop) TripCompleted(context.Context, *models.User, *models.User, *models.Trip) {}
func (Noop) BookingCreated(context.Context, *models.User, *models.User, *models.Booking, *models.Announcement) {
}
func (Noop) BookingStatusChanged(context.Context, *models.User, *models.Booking, *models.Announcement) {
}
func (Noop) BookingCompleted(context.Context, *models.User, *models.Booking, *models.Announcement) {}
