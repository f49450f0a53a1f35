package checks

import (
	"context"
	"log"
	"time"

	"vitrine/models"

	"go.mongodb.org/mongo-driver/bson"
)

const (
	// RateWindow is the trailing window the phone count is taken over,
	// computed at execution time, not at order creation time.
	RateWindow = time.Hour
	// MaxOrdersPerWindow is the number of prior orders a phone may have in
	// the window before new ones get canceled.
	MaxOrdersPerWindow = 5
)

// RateLimiter cancels orders from phones that have already placed more than
// MaxOrdersPerWindow orders in the trailing window. The count excludes the
// triggering order itself, so the sixth order stands and the seventh cancels.
type RateLimiter struct {
	Orders OrderStore
}

// Run executes the check for one order. A store failure fails open: a
// transient query error must not cost a legitimate customer their order.
func (rl *RateLimiter) Run(ctx context.Context, o models.Order) {
	since := time.Now().UTC().Add(-RateWindow).Format(time.RFC3339)

	n, err := rl.Orders.CountRecent(ctx, o.CustomerPhone, since, o.OrderID)
	if err != nil {
		log.Printf("checks: order %s rate-limit query failed, failing open: %v", o.OrderID, err)
		return
	}

	if n <= MaxOrdersPerWindow {
		return
	}

	log.Printf("checks: rate limit exceeded for %s: %d orders in the last hour", o.CustomerPhone, n)
	if uerr := rl.Orders.Merge(ctx, o.OrderID, bson.M{
		"status":       models.StatusCanceled,
		"cancelReason": "Rate limit exceeded",
	}); uerr != nil {
		log.Printf("checks: order %s rate-limit cancel failed: %v", o.OrderID, uerr)
	}
}
