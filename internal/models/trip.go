package models

import (
	"time"
)

// Trip status constants
const (
	TripStatusOpen       = "open"
	TripStatusTaken      = "taken"
	TripStatusInProgress = "in_progress"
	TripStatusCompleted  = "completed"
	TripStatusCancelled  = "cancelled"
	TripStatusExpired    = "expired"
)

// Valid trip state transitions
var ValidTripTransitions = map[string][]string{
	TripStatusOpen:       {TripStatusTaken, TripStatusCancelled, TripStatusExpired},
	TripStatusTaken:      {TripStatusInProgress, TripStatusCompleted, TripStatusOpen, TripStatusCancelled},
	TripStatusInProgress: {TripStatusCompleted, TripStatusOpen, TripStatusCancelled},
	TripStatusCompleted:  {},
	TripStatusCancelled:  {},
	TripStatusExpired:    {},
}

// Trip is a passenger-originated ride request. A passenger opens it, a
// driver claims it exclusively via take.
type Trip struct {
	ID              string    `db:"id" json:"id"`
	PassengerID     string    `db:"passenger_id" json:"passenger_id"`
	DriverID        *string   `db:"driver_id" json:"driver_id,omitempty"`
	CarID           *string   `db:"car_id" json:"car_id,omitempty"`
	FromLocationID  string    `db:"from_location_id" json:"from_location_id"`
	ToLocationID    string    `db:"to_location_id" json:"to_location_id"`
	DepartureTime   time.Time `db:"departure_time" json:"departure_time"`
	PassengersCount int       `db:"passengers_count" json:"passengers_count"`
	Price           *float64  `db:"price" json:"price,omitempty"`
	IsNegotiable    bool      `db:"is_negotiable" json:"is_negotiable"`
	ContactPhone    string    `db:"contact_phone" json:"contact_phone"`
	Comment         string    `db:"comment" json:"comment"`

	// Ride preferences
	PreferVerifiedDriver bool   `db:"prefer_verified_driver" json:"prefer_verified_driver"`
	AllowSmoking         bool   `db:"allow_smoking" json:"allow_smoking"`
	AllowPets            bool   `db:"allow_pets" json:"allow_pets"`
	AllowBigLuggage      bool   `db:"allow_big_luggage" json:"allow_big_luggage"`
	BaggageHelp          bool   `db:"baggage_help" json:"baggage_help"`
	WithChild            bool   `db:"with_child" json:"with_child"`
	ExtraRules           string `db:"extra_rules" json:"extra_rules"`

	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type CreateTripRequest struct {
	FromLocationID  string    `json:"from_location_id" validate:"required_without=FromLocation,omitempty,uuid"`
	ToLocationID    string    `json:"to_location_id" validate:"required_without=ToLocation,omitempty,uuid"`
	FromLocation    string    `json:"from_location,omitempty"` // free text, compatibility path
	ToLocation      string    `json:"to_location,omitempty"`
	DepartureTime   time.Time `json:"departure_time" validate:"required"`
	PassengersCount int       `json:"passengers_count" validate:"required,min=1,max=50"`
	Price           *float64  `json:"price,omitempty" validate:"omitempty,min=0"`
	IsNegotiable    bool      `json:"is_negotiable"`
	ContactPhone    string    `json:"contact_phone,omitempty" validate:"omitempty,max=32"`
	Comment         string    `json:"comment,omitempty"`

	PreferVerifiedDriver bool   `json:"prefer_verified_driver"`
	AllowSmoking         bool   `json:"allow_smoking"`
	AllowPets            bool   `json:"allow_pets"`
	AllowBigLuggage      bool   `json:"allow_big_luggage"`
	BaggageHelp          bool   `json:"baggage_help"`
	WithChild            bool   `json:"with_child"`
	ExtraRules           string `json:"extra_rules,omitempty"`
}

type TakeTripRequest struct {
	CarID string `json:"car_id,omitempty" validate:"omitempty,uuid"`
}

type TripResponse struct {
	ID                   string        `json:"id"`
	Status               string        `json:"status"`
	FromLocationID       string        `json:"from_location_id"`
	ToLocationID         string        `json:"to_location_id"`
	FromLocation         string        `json:"from_location,omitempty"`
	ToLocation           string        `json:"to_location,omitempty"`
	DepartureTime        time.Time     `json:"departure_time"`
	PassengersCount      int           `json:"passengers_count"`
	Price                *float64      `json:"price,omitempty"`
	IsNegotiable         bool          `json:"is_negotiable"`
	ContactPhone         string        `json:"contact_phone"`
	Comment              string        `json:"comment,omitempty"`
	Passenger            *UserResponse `json:"passenger,omitempty"`
	Driver               *UserResponse `json:"driver,omitempty"`
	Car                  *CarInfo      `json:"car,omitempty"`
	PreferVerifiedDriver bool          `json:"prefer_verified_driver"`
	AllowSmoking         bool          `json:"allow_smoking"`
	AllowPets            bool          `json:"allow_pets"`
	AllowBigLuggage      bool          `json:"allow_big_luggage"`
	BaggageHelp          bool          `json:"baggage_help"`
	WithChild            bool          `json:"with_child"`
	ExtraRules           string        `json:"extra_rules,omitempty"`
	CreatedAt            time.Time     `json:"created_at"`
	UpdatedAt            time.Time     `json:"updated_at"`
}

func (t *Trip) ToResponse() *TripResponse {
	return &TripResponse{
		ID:                   t.ID,
		Status:               t.Status,
		FromLocationID:       t.FromLocationID,
		ToLocationID:         t.ToLocationID,
		DepartureTime:        t.DepartureTime,
		PassengersCount:      t.PassengersCount,
		Price:                t.Price,
		IsNegotiable:         t.IsNegotiable,
		ContactPhone:         t.ContactPhone,
		Comment:              t.Comment,
		PreferVerifiedDriver: t.PreferVerifiedDriver,
		AllowSmoking:         t.AllowSmoking,
		AllowPets:            t.AllowPets,
		AllowBigLuggage:      t.AllowBigLuggage,
		BaggageHelp:          t.BaggageHelp,
		WithChild:            t.WithChild,
		ExtraRules:           t.ExtraRules,
		CreatedAt:            t.CreatedAt,
		UpdatedAt:            t.UpdatedAt,
	}
}

// CanTransitionTo checks if a trip can transition to a new status
func (t *Trip) CanTransitionTo(newStatus string) bool {
	validNextStates, exists := ValidTripTransitions[t.Status]
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
func (t *Trip) IsTerminal() bool {
	return t.Status == TripStatusCompleted || t.Status == TripStatusCancelled || t.Status == TripStatusExpired
}

// IsAssignedTo reports whether driverID currently holds the trip.
func (t *Trip) IsAssignedTo(driverID string) bool {
	return t.DriverID != nil && *t.DriverID == driverID
}
