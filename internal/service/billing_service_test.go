package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/smartway/smartway-backend/internal/models"
)

func TestResolvePolicyDefaultsWithoutSubscription(t *testing.T) {
	svc := NewBillingService(&fakeBillingRepo{best: nil}, newFakeUserRepo(), newFakePolicyCache(), 120*time.Second)

	policy, err := svc.ResolvePolicy(context.Background(), "driver-1", time.Now())
	require.NoError(t, err)

	assert.Equal(t, 0, policy.PriorityLevel)
	assert.Equal(t, 120, policy.ViewDelaySeconds)
}

func TestResolvePolicyUsesBestSubscription(t *testing.T) {
	best := &models.ActiveSubscription{
		PlanName:         "premium",
		PriorityLevel:    3,
		ViewDelaySeconds: 0,
	}
	svc := NewBillingService(&fakeBillingRepo{best: best}, newFakeUserRepo(), newFakePolicyCache(), 120*time.Second)

	policy, err := svc.ResolvePolicy(context.Background(), "driver-1", time.Now())
	require.NoError(t, err)

	assert.Equal(t, 3, policy.PriorityLevel)
	assert.Equal(t, 0, policy.ViewDelaySeconds)
}

func TestResolvePolicyPrefersCache(t *testing.T) {
	cache := newFakePolicyCache()
	cache.entries["driver-1"] = models.SubscriptionPolicy{PriorityLevel: 2, ViewDelaySeconds: 30}

	// The repo holds a different answer; a cache hit must win.
	best := &models.ActiveSubscription{PriorityLevel: 9, ViewDelaySeconds: 999}
	svc := NewBillingService(&fakeBillingRepo{best: best}, newFakeUserRepo(), cache, 120*time.Second)

	policy, err := svc.ResolvePolicy(context.Background(), "driver-1", time.Now())
	require.NoError(t, err)

	assert.Equal(t, 2, policy.PriorityLevel)
	assert.Equal(t, 30, policy.ViewDelaySeconds)
}

func TestResolvePolicyWritesThroughToCache(t *testing.T) {
	cache := newFakePolicyCache()
	best := &models.ActiveSubscription{PriorityLevel: 1, ViewDelaySeconds: 60}
	svc := NewBillingService(&fakeBillingRepo{best: best}, newFakeUserRepo(), cache, 120*time.Second)

	_, err := svc.ResolvePolicy(context.Background(), "driver-1", time.Now())
	require.NoError(t, err)

	cached, ok := cache.entries["driver-1"]
	require.True(t, ok, "policy should be cached after resolution")
	assert.Equal(t, 1, cached.PriorityLevel)
	assert.Equal(t, 60, cached.ViewDelaySeconds)
}
