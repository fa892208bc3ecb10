package service

import (
	"context"
	"log"
	"time"

	"github.com/smartway/smartway-backend/internal/cache"
	apperrors "github.com/smartway/smartway-backend/internal/errors"
	"github.com/smartway/smartway-backend/internal/models"
	"github.com/smartway/smartway-backend/internal/repository"
	"github.com/smartway/smartway-backend/pkg/utils"
)

type BillingService interface {
	ListPlans(ctx context.Context) ([]*models.SubscriptionPlan, error)
	Purchase(ctx context.Context, userID string, req *models.PurchaseRequest) (*models.DriverSubscription, error)
	CurrentSubscription(ctx context.Context, driverID string) (*models.ActiveSubscription, error)
	MySubscriptions(ctx context.Context, driverID string) ([]*models.ActiveSubscription, error)
	ResolvePolicy(ctx context.Context, driverID string, now time.Time) (models.SubscriptionPolicy, error)
}

type billingService struct {
	billingRepo repository.BillingRepository
	userRepo    repository.UserRepository
	policyCache cache.PolicyCache

	// policy for drivers without an active subscription
	defaultDelay time.Duration
}

func NewBillingService(
	billingRepo repository.BillingRepository,
	userRepo repository.UserRepository,
	policyCache cache.PolicyCache,
	defaultDelay time.Duration,
) BillingService {
	return &billingService{
		billingRepo:  billingRepo,
		userRepo:     userRepo,
		policyCache:  policyCache,
		defaultDelay: defaultDelay,
	}
}

func (s *billingService) ListPlans(ctx context.Context) ([]*models.SubscriptionPlan, error) {
	return s.billingRepo.ListActivePlans(ctx)
}

// Purchase runs the mock payment flow: the payment is recorded as paid
// immediately and the subscription starts now. Stacking is allowed; the
// policy resolver picks the best of the overlapping subscriptions.
func (s *billingService) Purchase(ctx context.Context, userID string, req *models.PurchaseRequest) (*models.DriverSubscription, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NotFound("user")
	}
	if !user.IsDriver {
		return nil, apperrors.Forbidden("only drivers can buy subscriptions")
	}

	plan, err := s.billingRepo.GetActivePlan(ctx, req.PlanID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, apperrors.NotFound("subscription plan")
	}

	now := time.Now()
	sub := &models.DriverSubscription{
		ID:        utils.GenerateID(),
		DriverID:  userID,
		PlanID:    plan.ID,
		StartedAt: now,
		ExpiresAt: now.AddDate(0, 0, plan.DurationDays),
	}
	if err := s.billingRepo.CreateSubscription(ctx, sub); err != nil {
		return nil, err
	}

	payment := &models.Payment{
		ID:             utils.GenerateID(),
		UserID:         userID,
		Amount:         plan.Price,
		SubscriptionID: &sub.ID,
		ExternalID:     "mock-" + sub.ID,
		Status:         models.PaymentStatusPaid,
		CreatedAt:      now,
	}
	if err := s.billingRepo.CreatePayment(ctx, payment); err != nil {
		log.Printf("billing: failed to record payment for subscription %s: %v", sub.ID, err)
	}

	if err := s.policyCache.Invalidate(ctx, userID); err != nil {
		log.Printf("billing: failed to invalidate policy cache for driver %s: %v", userID, err)
	}

	return sub, nil
}

func (s *billingService) CurrentSubscription(ctx context.Context, driverID string) (*models.ActiveSubscription, error) {
	return s.billingRepo.BestActiveSubscription(ctx, driverID, time.Now())
}

func (s *billingService) MySubscriptions(ctx context.Context, driverID string) ([]*models.ActiveSubscription, error) {
	return s.billingRepo.ListSubscriptionsByDriver(ctx, driverID)
}

// ResolvePolicy returns the priority level and view delay in force for a
// driver. Cache first, then the subscription join; drivers without an
// active subscription get priority 0 and the default delay. Cache
// failures degrade to the database lookup.
func (s *billingService) ResolvePolicy(ctx context.Context, driverID string, now time.Time) (models.SubscriptionPolicy, error) {
	if cached, err := s.policyCache.Get(ctx, driverID); err != nil {
		log.Printf("billing: policy cache read failed for driver %s: %v", driverID, err)
	} else if cached != nil {
		return *cached, nil
	}

	policy := models.SubscriptionPolicy{
		PriorityLevel:    0,
		ViewDelaySeconds: int(s.defaultDelay / time.Second),
	}

	sub, err := s.billingRepo.BestActiveSubscription(ctx, driverID, now)
	if err != nil {
		return policy, err
	}
	if sub != nil {
		policy.PriorityLevel = sub.PriorityLevel
		policy.ViewDelaySeconds = sub.ViewDelaySeconds
	}

	if err := s.policyCache.Set(ctx, driverID, policy); err != nil {
		log.Printf("billing: policy cache write failed for driver %s: %v", driverID, err)
	}
	return policy, nil
}
