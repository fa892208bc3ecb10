package models

import (
	"time"
)

type Car struct {
	ID             string    `db:"id" json:"id"`
	OwnerID        string    `db:"owner_id" json:"owner_id"`
	Brand          string    `db:"brand" json:"brand"`
	Model          string    `db:"model" json:"model"`
	Color          string    `db:"color" json:"color"`
	PlateNumber    string    `db:"plate_number" json:"plate_number"`
	PassengerSeats int       `db:"passenger_seats" json:"passenger_seats"`
	IsActive       bool      `db:"is_active" json:"is_active"`
	IsVerified     bool      `db:"is_verified" json:"is_verified"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

type CreateCarRequest struct {
	Brand          string `json:"brand" validate:"required,min=1,max=100"`
	Model          string `json:"model" validate:"required,min=1,max=100"`
	Color          string `json:"color" validate:"required,min=1,max=50"`
	PlateNumber    string `json:"plate_number" validate:"required,min=2,max=20"`
	PassengerSeats int    `json:"passenger_seats" validate:"required,min=1,max=50"`
}

type CarInfo struct {
	ID             string `json:"id"`
	Brand          string `json:"brand"`
	Model          string `json:"model"`
	Color          string `json:"color"`
	PlateNumber    string `json:"plate_number"`
	PassengerSeats int    `json:"passenger_seats"`
}

func (c *Car) ToInfo() *CarInfo {
	return &CarInfo{
		ID:             c.ID,
		Brand:          c.Brand,
		Model:          c.Model,
		Color:          c.Color,
		PlateNumber:    c.PlateNumber,
		PassengerSeats: c.PassengerSeats,
	}
}
