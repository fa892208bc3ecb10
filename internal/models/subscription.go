package models

import (
	"time"
)

// Payment statuses
const (
	PaymentStatusCreated = "created"
	PaymentStatusPaid    = "paid"
)

// SubscriptionPlan defines a paid tier for drivers. priority_level ranks
// the tier; view_delay_seconds is how long a fresh trip stays hidden from
// drivers on this plan.
type SubscriptionPlan struct {
	ID               string    `db:"id" json:"id"`
	Name             string    `db:"name" json:"name"`
	Price            float64   `db:"price" json:"price"`
	DurationDays     int       `db:"duration_days" json:"duration_days"`
	PriorityLevel    int       `db:"priority_level" json:"priority_level"`
	ViewDelaySeconds int       `db:"view_delay_seconds" json:"view_delay_seconds"`
	IsActive         bool      `db:"is_active" json:"is_active"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// DriverSubscription ties a driver to a plan until expires_at.
type DriverSubscription struct {
	ID        string    `db:"id" json:"id"`
	DriverID  string    `db:"driver_id" json:"driver_id"`
	PlanID    string    `db:"plan_id" json:"plan_id"`
	StartedAt time.Time `db:"started_at" json:"started_at"`
	ExpiresAt time.Time `db:"expires_at" json:"expires_at"`
}

// IsActive reports whether the subscription is still in force at now.
func (s *DriverSubscription) IsActive(now time.Time) bool {
	return !s.ExpiresAt.Before(now)
}

// ActiveSubscription is a subscription row joined with its plan, as
// returned by the policy lookup query.
type ActiveSubscription struct {
	DriverSubscription
	PlanName         string `db:"plan_name" json:"plan_name"`
	PriorityLevel    int    `db:"priority_level" json:"priority_level"`
	ViewDelaySeconds int    `db:"view_delay_seconds" json:"view_delay_seconds"`
}

// SubscriptionPolicy is the billing output consumed by the availability
// query: how the requesting driver ranks and how long new trips stay
// hidden from them.
type SubscriptionPolicy struct {
	PriorityLevel    int `json:"priority_level"`
	ViewDelaySeconds int `json:"view_delay_seconds"`
}

// ViewDelay returns the delay as a duration.
func (p SubscriptionPolicy) ViewDelay() time.Duration {
	return time.Duration(p.ViewDelaySeconds) * time.Second
}

type Payment struct {
	ID             string    `db:"id" json:"id"`
	UserID         string    `db:"user_id" json:"user_id"`
	Amount         float64   `db:"amount" json:"amount"`
	SubscriptionID *string   `db:"subscription_id" json:"subscription_id,omitempty"`
	ExternalID     string    `db:"external_id" json:"external_id"`
	Status         string    `db:"status" json:"status"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

type PurchaseRequest struct {
	PlanID string `json:"plan_id" validate:"required,uuid"`
}
