package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/smartway/smartway-backend/internal/models"
)

// TelegramNotifier posts messages through the Telegram bot API to users who
// linked a chat id. Failures are logged and swallowed.
type TelegramNotifier struct {
	token  string
	client *http.Client
}

func NewTelegramNotifier(token string) *TelegramNotifier {
	return &TelegramNotifier{
		token: token,
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

func (n *TelegramNotifier) send(ctx context.Context, chatID int64, text string) {
	payload, err := json.Marshal(map[string]interface{}{
		"chat_id": chatID,
		"text":    text,
	})
	if err != nil {
		log.Printf("telegram: marshal message: %v", err)
		return
	}

	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", n.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		log.Printf("telegram: build request: %v", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		log.Printf("telegram: send to chat %d: %v", chatID, err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("telegram: send to chat %d: status %d", chatID, resp.StatusCode)
	}
}

func (n *TelegramNotifier) sendTo(ctx context.Context, user *models.User, text string) {
	if user == nil || user.TelegramChatID == nil {
		return
	}
	n.send(ctx, *user.TelegramChatID, text)
}

func formatTime(t time.Time) string {
	return t.Format("02.01 15:04")
}

func (n *TelegramNotifier) TripTaken(ctx context.Context, passenger, driver *models.User, trip *models.Trip) {
	if driver == nil {
		return
	}
	n.sendTo(ctx, passenger, fmt.Sprintf(
		"Your ride request was accepted!\nDeparture: %s\nDriver: %s\nPhone: %s",
		formatTime(trip.DepartureTime), driver.FullName, driver.Phone))
}

func (n *TelegramNotifier) TripCompleted(ctx context.Context, passenger, driver *models.User, trip *models.Trip) {
	n.sendTo(ctx, passenger, fmt.Sprintf(
		"Trip completed (%s). Please rate your driver.", formatTime(trip.DepartureTime)))
	n.sendTo(ctx, driver, fmt.Sprintf(
		"Trip completed (%s). Don't forget to rate your passenger.", formatTime(trip.DepartureTime)))
}

func (n *TelegramNotifier) BookingCreated(ctx context.Context, driver, passenger *models.User, booking *models.Booking, a *models.Announcement) {
	if passenger == nil {
		return
	}
	n.sendTo(ctx, driver, fmt.Sprintf(
		"New booking request for your ride on %s.\nPassenger: %s\nSeats: %d\nPhone: %s",
		formatTime(a.DepartureTime), passenger.FullName, booking.SeatsCount, booking.ContactPhone))
}

func (n *TelegramNotifier) BookingStatusChanged(ctx context.Context, passenger *models.User, booking *models.Booking, a *models.Announcement) {
	n.sendTo(ctx, passenger, fmt.Sprintf(
		"Your booking for the ride on %s is now %s.",
		formatTime(a.DepartureTime), booking.Status))
}

func (n *TelegramNotifier) BookingCompleted(ctx context.Context, passenger *models.User, booking *models.Booking, a *models.Announcement) {
	n.sendTo(ctx, passenger, fmt.Sprintf(
		"Ride on %s completed. Please rate your driver.", formatTime(a.DepartureTime)))
}
