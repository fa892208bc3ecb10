package models

import (
	"time"

	"github.com/lib/pq"
)

// Announcement status constants
const (
	AnnouncementStatusActive    = "active"
	AnnouncementStatusFull      = "full"
	AnnouncementStatusCompleted = "completed"
	AnnouncementStatusCancelled = "cancelled"
	AnnouncementStatusExpired   = "expired"
)

// Valid announcement state transitions. full can revert to active when a
// confirmed booking is cancelled and seats are released.
var ValidAnnouncementTransitions = map[string][]string{
	AnnouncementStatusActive:    {AnnouncementStatusFull, AnnouncementStatusCompleted, AnnouncementStatusCancelled, AnnouncementStatusExpired},
	AnnouncementStatusFull:      {AnnouncementStatusActive, AnnouncementStatusCompleted, AnnouncementStatusCancelled, AnnouncementStatusExpired},
	AnnouncementStatusCompleted: {},
	AnnouncementStatusCancelled: {},
	AnnouncementStatusExpired:   {},
}

// Announcement is a driver-originated multi-seat ride offer. The
// available_seats/booked_seats pair is the seat ledger: booked_seats only
// moves inside a transaction holding the announcement row lock, and
// 0 <= booked_seats <= available_seats holds at all times.
type Announcement struct {
	ID             string    `db:"id" json:"id"`
	DriverID       string    `db:"driver_id" json:"driver_id"`
	CarID          *string   `db:"car_id" json:"car_id,omitempty"`
	FromLocationID string    `db:"from_location_id" json:"from_location_id"`
	ToLocationID   string    `db:"to_location_id" json:"to_location_id"`
	DepartureTime  time.Time `db:"departure_time" json:"departure_time"`
	AvailableSeats int       `db:"available_seats" json:"available_seats"`
	BookedSeats    int       `db:"booked_seats" json:"booked_seats"`
	PricePerSeat   float64   `db:"price_per_seat" json:"price_per_seat"`
	IsNegotiable   bool      `db:"is_negotiable" json:"is_negotiable"`
	ContactPhone   string    `db:"contact_phone" json:"contact_phone"`
	Comment        string    `db:"comment" json:"comment"`

	// Ride conditions
	AllowSmoking       bool   `db:"allow_smoking" json:"allow_smoking"`
	AllowPets          bool   `db:"allow_pets" json:"allow_pets"`
	AllowBigLuggage    bool   `db:"allow_big_luggage" json:"allow_big_luggage"`
	BaggageHelp        bool   `db:"baggage_help" json:"baggage_help"`
	AllowChildren      bool   `db:"allow_children" json:"allow_children"`
	HasAirConditioning bool   `db:"has_air_conditioning" json:"has_air_conditioning"`
	ExtraRules         string `db:"extra_rules" json:"extra_rules"`

	// Intermediate stop location ids along the route
	IntermediateStops pq.StringArray `db:"intermediate_stops" json:"intermediate_stops"`

	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type CreateAnnouncementRequest struct {
	FromLocationID string    `json:"from_location_id" validate:"required,uuid"`
	ToLocationID   string    `json:"to_location_id" validate:"required,uuid"`
	CarID          string    `json:"car_id,omitempty" validate:"omitempty,uuid"`
	DepartureTime  time.Time `json:"departure_time" validate:"required"`
	AvailableSeats int       `json:"available_seats" validate:"required,min=1,max=50"`
	PricePerSeat   float64   `json:"price_per_seat" validate:"min=0"`
	IsNegotiable   bool      `json:"is_negotiable"`
	ContactPhone   string    `json:"contact_phone,omitempty" validate:"omitempty,max=32"`
	Comment        string    `json:"comment,omitempty"`

	AllowSmoking       bool     `json:"allow_smoking"`
	AllowPets          bool     `json:"allow_pets"`
	AllowBigLuggage    bool     `json:"allow_big_luggage"`
	BaggageHelp        bool     `json:"baggage_help"`
	AllowChildren      bool     `json:"allow_children"`
	HasAirConditioning bool     `json:"has_air_conditioning"`
	ExtraRules         string   `json:"extra_rules,omitempty"`
	IntermediateStops  []string `json:"intermediate_stops,omitempty" validate:"omitempty,dive,uuid"`
}

type AnnouncementResponse struct {
	ID             string    `json:"id"`
	Status         string    `json:"status"`
	FromLocationID string    `json:"from_location_id"`
	ToLocationID   string    `json:"to_location_id"`
	FromLocation   string    `json:"from_location,omitempty"`
	ToLocation     string    `json:"to_location,omitempty"`
	DepartureTime  time.Time `json:"departure_time"`
	AvailableSeats int       `json:"available_seats"`
	BookedSeats    int       `json:"booked_seats"`
	FreeSeats      int       `json:"free_seats"`
	PricePerSeat   float64   `json:"price_per_seat"`
	IsNegotiable   bool      `json:"is_negotiable"`
	ContactPhone   string    `json:"contact_phone"`
	Comment        string    `json:"comment,omitempty"`

	Driver *UserResponse `json:"driver,omitempty"`
	Car    *CarInfo      `json:"car,omitempty"`

	AllowSmoking       bool     `json:"allow_smoking"`
	AllowPets          bool     `json:"allow_pets"`
	AllowBigLuggage    bool     `json:"allow_big_luggage"`
	BaggageHelp        bool     `json:"baggage_help"`
	AllowChildren      bool     `json:"allow_children"`
	HasAirConditioning bool     `json:"has_air_conditioning"`
	ExtraRules         string   `json:"extra_rules,omitempty"`
	IntermediateStops  []string `json:"intermediate_stops,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *Announcement) ToResponse() *AnnouncementResponse {
	return &AnnouncementResponse{
		ID:                 a.ID,
		Status:             a.Status,
		FromLocationID:     a.FromLocationID,
		ToLocationID:       a.ToLocationID,
		DepartureTime:      a.DepartureTime,
		AvailableSeats:     a.AvailableSeats,
		BookedSeats:        a.BookedSeats,
		FreeSeats:          a.FreeSeats(),
		PricePerSeat:       a.PricePerSeat,
		IsNegotiable:       a.IsNegotiable,
		ContactPhone:       a.ContactPhone,
		Comment:            a.Comment,
		AllowSmoking:       a.AllowSmoking,
		AllowPets:          a.AllowPets,
		AllowBigLuggage:    a.AllowBigLuggage,
		BaggageHelp:        a.BaggageHelp,
		AllowChildren:      a.AllowChildren,
		HasAirConditioning: a.HasAirConditioning,
		ExtraRules:         a.ExtraRules,
		IntermediateStops:  a.IntermediateStops,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}
}

// FreeSeats returns the seats still open for booking.
func (a *Announcement) FreeSeats() int {
	return a.AvailableSeats - a.BookedSeats
}

// ConfirmSeats debits the ledger for a confirmed booking and returns the
// new booked count and announcement status. The caller holds the row lock
// and has already re-checked CanBook.
func (a *Announcement) ConfirmSeats(seats int) (int, string) {
	booked := a.BookedSeats + seats
	status := a.Status
	if booked == a.AvailableSeats {
		status = AnnouncementStatusFull
	}
	return booked, status
}

// ReleaseSeats returns a confirmed booking's seats to the ledger, clamping
// at zero, and flips a full announcement back to active.
func (a *Announcement) ReleaseSeats(seats int) (int, string) {
	booked := a.BookedSeats - seats
	if booked < 0 {
		booked = 0
	}
	status := a.Status
	if a.Status == AnnouncementStatusFull {
		status = AnnouncementStatusActive
	}
	return booked, status
}

// CanBook reports whether seats can still be booked. Checked at
// request time and re-checked at confirmation time under the row lock.
func (a *Announcement) CanBook(seats int) bool {
	return a.Status == AnnouncementStatusActive && a.FreeSeats() >= seats
}

// CanTransitionTo checks if an announcement can transition to a new status
func (a *Announcement) CanTransitionTo(newStatus string) bool {
	validNextStates, exists := ValidAnnouncementTransitions[a.Status]
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
func (a *Announcement) IsTerminal() bool {
	return a.Status == AnnouncementStatusCompleted || a.Status == AnnouncementStatusCancelled || a.Status == AnnouncementStatusExpired
}
