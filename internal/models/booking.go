package models

import (
	"time"
)

// Booking status constants
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusRejected  = "rejected"
	BookingStatusCancelled = "cancelled"
	BookingStatusCompleted = "completed"
)

// Valid booking state transitions. The passenger creates a pending
// booking; the announcement's driver confirms or rejects it; the
// passenger may cancel while pending or confirmed; completion cascades
// from the announcement.
var ValidBookingTransitions = map[string][]string{
	BookingStatusPending:   {BookingStatusConfirmed, BookingStatusRejected, BookingStatusCancelled},
	BookingStatusConfirmed: {BookingStatusCancelled, BookingStatusCompleted},
	BookingStatusRejected:  {},
	BookingStatusCancelled: {},
	BookingStatusCompleted: {},
}

type Booking struct {
	ID             string    `db:"id" json:"id"`
	AnnouncementID string    `db:"announcement_id" json:"announcement_id"`
	PassengerID    string    `db:"passenger_id" json:"passenger_id"`
	SeatsCount     int       `db:"seats_count" json:"seats_count"`
	Status         string    `db:"status" json:"status"`
	Message        string    `db:"message" json:"message"`
	DriverComment  string    `db:"driver_comment" json:"driver_comment"`
	ContactPhone   string    `db:"contact_phone" json:"contact_phone"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

type CreateBookingRequest struct {
	AnnouncementID string `json:"announcement_id" validate:"required,uuid"`
	SeatsCount     int    `json:"seats_count" validate:"required,min=1,max=50"`
	Message        string `json:"message,omitempty"`
	ContactPhone   string `json:"contact_phone,omitempty" validate:"omitempty,max=32"`
}

type RejectBookingRequest struct {
	Comment string `json:"comment,omitempty"`
}

type BookingResponse struct {
	ID            string                `json:"id"`
	Status        string                `json:"status"`
	SeatsCount    int                   `json:"seats_count"`
	Message       string                `json:"message,omitempty"`
	DriverComment string                `json:"driver_comment,omitempty"`
	ContactPhone  string                `json:"contact_phone"`
	Passenger     *UserResponse         `json:"passenger,omitempty"`
	Announcement  *AnnouncementResponse `json:"announcement,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

func (b *Booking) ToResponse() *BookingResponse {
	return &BookingResponse{
		ID:            b.ID,
		Status:        b.Status,
		SeatsCount:    b.SeatsCount,
		Message:       b.Message,
		DriverComment: b.DriverComment,
		ContactPhone:  b.ContactPhone,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

// CanTransitionTo checks if a booking can transition to a new status
func (b *Booking) CanTransitionTo(newStatus string) bool {
	validNextStates, exists := ValidBookingTransitions[b.Status]
	if !exists {
		return false
	}

	for _, state := range validNextStates {
		if state == newStatus {
			return true
		}
	}
	return false
}

// IsTerminal returns true once no further transitions are possible.
func (b *Booking) IsTerminal() bool {
	return b.Status == BookingStatusRejected || b.Status == BookingStatusCancelled || b.Status == BookingStatusCompleted
}
