package models

import (
	"testing"
	"time"
)

func TestDriverSubscriptionIsActive(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		expiresAt time.Time
		want      bool
	}{
		{"expires tomorrow", now.Add(24 * time.Hour), true},
		{"expires exactly now", now, true},
		{"expired a second ago", now.Add(-time.Second), false},
		{"expired last month", now.AddDate(0, -1, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := &DriverSubscription{ExpiresAt: tt.expiresAt}
			if got := sub.IsActive(now); got != tt.want {
				t.Errorf("IsActive() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSubscriptionPolicyViewDelay(t *testing.T) {
	p := SubscriptionPolicy{PriorityLevel: 2, ViewDelaySeconds: 30}
	if got := p.ViewDelay(); got != 30*time.Second {
		t.Errorf("ViewDelay() = %s, want 30s", got)
	}

	zero := SubscriptionPolicy{PriorityLevel: 3, ViewDelaySeconds: 0}
	if got := zero.ViewDelay(); got != 0 {
		t.Errorf("ViewDelay() = %s, want 0", got)
	}
}
