package models

import (
	"time"
)

type User struct {
	ID                        string    `db:"id" json:"id"`
	Phone                     string    `db:"phone" json:"phone"`
	FullName                  string    `db:"full_name" json:"full_name"`
	Email                     *string   `db:"email" json:"email,omitempty"`
	IsDriver                  bool      `db:"is_driver" json:"is_driver"`
	IsVerifiedDriver          bool      `db:"is_verified_driver" json:"is_verified_driver"`
	IsVerifiedPassenger       bool      `db:"is_verified_passenger" json:"is_verified_passenger"`
	TelegramChatID            *int64    `db:"telegram_chat_id" json:"telegram_chat_id,omitempty"`
	TripsCompletedAsDriver    int       `db:"trips_completed_as_driver" json:"trips_completed_as_driver"`
	TripsCompletedAsPassenger int       `db:"trips_completed_as_passenger" json:"trips_completed_as_passenger"`
	CreatedAt                 time.Time `db:"created_at" json:"created_at"`
	UpdatedAt                 time.Time `db:"updated_at" json:"updated_at"`
}

type CreateUserRequest struct {
	Phone    string `json:"phone" validate:"required,min=10,max=20"`
	FullName string `json:"full_name" validate:"required,min=2,max=100"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	IsDriver bool   `json:"is_driver"`
}

type UserResponse struct {
	ID                        string   `json:"id"`
	Phone                     string   `json:"phone"`
	FullName                  string   `json:"full_name"`
	Email                     *string  `json:"email,omitempty"`
	IsDriver                  bool     `json:"is_driver"`
	IsVerifiedDriver          bool     `json:"is_verified_driver"`
	IsVerifiedPassenger       bool     `json:"is_verified_passenger"`
	TripsCompletedAsDriver    int      `json:"trips_completed_as_driver"`
	TripsCompletedAsPassenger int      `json:"trips_completed_as_passenger"`
	RatingAsDriver            *float64 `json:"rating_as_driver,omitempty"`
	RatingAsPassenger         *float64 `json:"rating_as_passenger,omitempty"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:                        u.ID,
		Phone:                     u.Phone,
		FullName:                  u.FullName,
		Email:                     u.Email,
		IsDriver:                  u.IsDriver,
		IsVerifiedDriver:          u.IsVerifiedDriver,
		IsVerifiedPassenger:       u.IsVerifiedPassenger,
		TripsCompletedAsDriver:    u.TripsCompletedAsDriver,
		TripsCompletedAsPassenger: u.TripsCompletedAsPassenger,
	}
}
