package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/smartway/smartway-backend/internal/models"
)

type BillingRepository interface {
	ListActivePlans(ctx context.Context) ([]*models.SubscriptionPlan, error)
	GetActivePlan(ctx context.Context, id string) (*models.SubscriptionPlan, error)
	CreateSubscription(ctx context.Context, sub *models.DriverSubscription) error
	ListSubscriptionsByDriver(ctx context.Context, driverID string) ([]*models.ActiveSubscription, error)
	BestActiveSubscription(ctx context.Context, driverID string, now time.Time) (*models.ActiveSubscription, error)
	CreatePayment(ctx context.Context, p *models.Payment) error
}

type billingRepository struct {
	db *sqlx.DB
}

func NewBillingRepository(db *sqlx.DB) BillingRepository {
	return &billingRepository{db: db}
}

func (r *billingRepository) ListActivePlans(ctx context.Context) ([]*models.SubscriptionPlan, error) {
	var plans []*models.SubscriptionPlan
	query := `SELECT * FROM subscription_plans WHERE is_active = TRUE ORDER BY price ASC`
	err := r.db.SelectContext(ctx, &plans, query)
	return plans, err
}

func (r *billingRepository) GetActivePlan(ctx context.Context, id string) (*models.SubscriptionPlan, error) {
	var plan models.SubscriptionPlan
	query := `SELECT * FROM subscription_plans WHERE id = $1 AND is_active = TRUE`
	err := r.db.GetContext(ctx, &plan, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &plan, err
}

func (r *billingRepository) CreateSubscription(ctx context.Context, sub *models.DriverSubscription) error {
	if sub.ID == "" {
		sub.ID = uuid.New().String()
	}
	if sub.StartedAt.IsZero() {
		sub.StartedAt = time.Now()
	}

	query := `
		INSERT INTO driver_subscriptions (id, driver_id, plan_id, started_at, expires_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query,
		sub.ID, sub.DriverID, sub.PlanID, sub.StartedAt, sub.ExpiresAt)
	return err
}

func (r *billingRepository) ListSubscriptionsByDriver(ctx context.Context, driverID string) ([]*models.ActiveSubscription, error) {
	var subs []*models.ActiveSubscription
	query := `
		SELECT s.*, p.name AS plan_name, p.priority_level, p.view_delay_seconds
		FROM driver_subscriptions s
		JOIN subscription_plans p ON p.id = s.plan_id
		WHERE s.driver_id = $1
		ORDER BY s.started_at DESC
	`
	err := r.db.SelectContext(ctx, &subs, query, driverID)
	return subs, err
}

// BestActiveSubscription picks the subscription whose plan ranks highest.
// Equal priority levels are broken by the latest expiry, which makes the
// lookup deterministic.
func (r *billingRepository) BestActiveSubscription(ctx context.Context, driverID string, now time.Time) (*models.ActiveSubscription, error) {
	var sub models.ActiveSubscription
	query := `
		SELECT s.*, p.name AS plan_name, p.priority_level, p.view_delay_seconds
		FROM driver_subscriptions s
		JOIN subscription_plans p ON p.id = s.plan_id
		WHERE s.driver_id = $1 AND s.expires_at >= $2 AND p.is_active = TRUE
		ORDER BY p.priority_level DESC, s.expires_at DESC
		LIMIT 1
	`
	err := r.db.GetContext(ctx, &sub, query, driverID, now)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return &sub, err
}

func (r *billingRepository) CreatePayment(ctx context.Context, p *models.Payment) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	p.CreatedAt = time.Now()

	query := `
		INSERT INTO payments (id, user_id, amount, subscription_id, external_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.UserID, p.Amount, p.SubscriptionID, p.ExternalID, p.Status, p.CreatedAt)
	return err
}
