package checks

import (
	"context"
	"errors"
	"testing"
	"time"

	"vitrine/models"
)

func TestRateLimiterUnderThresholdStands(t *testing.T) {
	store := &fakeOrders{count: 5}
	rl := &RateLimiter{Orders: store}

	rl.Run(context.Background(), models.Order{OrderID: "o1", CustomerPhone: "0551234567"})

	if len(store.merges) != 0 {
		t.Fatalf("5 prior orders must stand, got update %v", store.merges)
	}
	if store.lastPhone != "0551234567" {
		t.Fatalf("expected phone filter, got %q", store.lastPhone)
	}
	if store.lastExclude != "o1" {
		t.Fatalf("window count must exclude the triggering order, got %q", store.lastExclude)
	}
}

func TestRateLimiterOverThresholdCancels(t *testing.T) {
	store := &fakeOrders{count: 6}
	rl := &RateLimiter{Orders: store}

	rl.Run(context.Background(), models.Order{OrderID: "o2", CustomerPhone: "0551234567"})

	if len(store.merges) != 1 {
		t.Fatalf("expected exactly one update, got %d", len(store.merges))
	}
	fields := store.merges[0].fields
	if fields["status"] != models.StatusCanceled {
		t.Fatalf("expected canceled status, got %v", fields)
	}
	if fields["cancelReason"] != "Rate limit exceeded" {
		t.Fatalf("expected cancel reason, got %v", fields)
	}
}

func TestRateLimiterWindowIsTrailingHour(t *testing.T) {
	store := &fakeOrders{count: 0}
	rl := &RateLimiter{Orders: store}

	before := time.Now().UTC().Add(-RateWindow)
	rl.Run(context.Background(), models.Order{OrderID: "o3", CustomerPhone: "0551234567"})
	after := time.Now().UTC().Add(-RateWindow)

	since, err := time.Parse(time.RFC3339, store.lastSince)
	if err != nil {
		t.Fatalf("window bound is not RFC3339: %q", store.lastSince)
	}
	if since.Before(before.Truncate(time.Second)) || since.After(after.Add(time.Second)) {
		t.Fatalf("window bound %v not within [%v, %v]", since, before, after)
	}
}

func TestRateLimiterFailsOpenOnQueryError(t *testing.T) {
	store := &fakeOrders{countErr: errors.New("orders store down")}
	rl := &RateLimiter{Orders: store}

	rl.Run(context.Background(), models.Order{OrderID: "o4", CustomerPhone: "0551234567"})

	if len(store.merges) != 0 {
		t.Fatalf("query failure must fail open, got update %v", store.merges)
	}
}
