package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/smartway/smartway-backend/internal/models"
)

const policyKeyPrefix = "policy:driver:"

// PolicyCache keeps resolved subscription policies in Redis for a short TTL.
// Staleness is bounded by the TTL; buying a subscription invalidates the
// entry immediately.
type PolicyCache interface {
	Get(ctx context.Context, driverID string) (*models.SubscriptionPolicy, error)
	Set(ctx context.Context, driverID string, policy models.SubscriptionPolicy) error
	Invalidate(ctx context.Context, driverID string) error
}

type policyCache struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewPolicyCache(redisClient *redis.Client, ttl time.Duration) PolicyCache {
	return &policyCache{
		redis: redisClient,
		ttl:   ttl,
	}
}

func (c *policyCache) Get(ctx context.Context, driverID string) (*models.SubscriptionPolicy, error) {
	data, err := c.redis.Get(ctx, policyKeyPrefix+driverID).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var policy models.SubscriptionPolicy
	if err := json.Unmarshal(data, &policy); err != nil {
		return nil, err
	}
	return &policy, nil
}

func (c *policyCache) Set(ctx context.Context, driverID string, policy models.SubscriptionPolicy) error {
	data, err := json.Marshal(policy)
	if err != nil {
		return err
	}
	return c.redis.Set(ctx, policyKeyPrefix+driverID, data, c.ttl).Err()
}

func (c *policyCache) Invalidate(ctx context.Context, driverID string) error {
	return c.redis.Del(ctx, policyKeyPrefix+driverID).Err()
}
