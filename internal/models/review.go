package models

import (
	"time"
)

// Review is attached to exactly one of a completed trip or a completed
// booking. The recipient is always the counterparty of the author and is
// derived, never supplied by the client.
type Review struct {
	ID          string    `db:"id" json:"id"`
	TripID      *string   `db:"trip_id" json:"trip_id,omitempty"`
	BookingID   *string   `db:"booking_id" json:"booking_id,omitempty"`
	AuthorID    string    `db:"author_id" json:"author_id"`
	RecipientID string    `db:"recipient_id" json:"recipient_id"`
	Rating      int       `db:"rating" json:"rating"`
	Text        string    `db:"text" json:"text"`
	WasOnTime   *bool     `db:"was_on_time" json:"was_on_time,omitempty"`
	WasPolite   *bool     `db:"was_polite" json:"was_polite,omitempty"`
	CarWasClean *bool     `db:"car_was_clean" json:"car_was_clean,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

type CreateReviewRequest struct {
	TripID      string `json:"trip_id,omitempty" validate:"omitempty,uuid"`
	BookingID   string `json:"booking_id,omitempty" validate:"omitempty,uuid"`
	Rating      int    `json:"rating" validate:"required,min=1,max=5"`
	Text        string `json:"text,omitempty"`
	WasOnTime   *bool  `json:"was_on_time,omitempty"`
	WasPolite   *bool  `json:"was_polite,omitempty"`
	CarWasClean *bool  `json:"car_was_clean,omitempty"`
}

type ReviewResponse struct {
	ID            string    `json:"id"`
	TripID        *string   `json:"trip_id,omitempty"`
	BookingID     *string   `json:"booking_id,omitempty"`
	AuthorID      string    `json:"author_id"`
	AuthorName    string    `json:"author_name,omitempty"`
	RecipientID   string    `json:"recipient_id"`
	RecipientName string    `json:"recipient_name,omitempty"`
	Rating        int       `json:"rating"`
	Text          string    `json:"text,omitempty"`
	WasOnTime     *bool     `json:"was_on_time,omitempty"`
	WasPolite     *bool     `json:"was_polite,omitempty"`
	CarWasClean   *bool     `json:"car_was_clean,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func (r *Review) ToResponse() *ReviewResponse {
	return &ReviewResponse{
		ID:          r.ID,
		TripID:      r.TripID,
		BookingID:   r.BookingID,
		AuthorID:    r.AuthorID,
		RecipientID: r.RecipientID,
		Rating:      r.Rating,
		Text:        r.Text,
		WasOnTime:   r.WasOnTime,
		WasPolite:   r.WasPolite,
		CarWasClean: r.CarWasClean,
		CreatedAt:   r.CreatedAt,
	}
}
