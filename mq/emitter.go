package mq

import (
	"context"
	"encoding/json"
	"log"

	"vitrine/rdx"
)

// OrderChannel is the redis pub/sub channel order-creation events travel on.
const OrderChannel = "order-events"

// OrderCreated is the message published once per order creation. Both checks
// fire off of this single event.
type OrderCreated struct {
	OrderID string `json:"orderId"`
}

// Emit publishes an order-created event. Returns an error so the creation
// handler can fall back to in-process dispatch when redis is down — an order
// must never go unexamined.
func Emit(ctx context.Context, event OrderCreated) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if err := rdx.Conn.Publish(ctx, OrderChannel, data).Err(); err != nil {
		log.Printf("mq: failed to publish order event: %v", err)
		return err
	}
	return nil
}
