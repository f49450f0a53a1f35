package mq

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"vitrine/checks"
	"vitrine/models"
	"vitrine/notify"
	"vitrine/rdx"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Dispatcher turns order-created events into trigger invocations. Each event
// loads the pristine order document once and hands the same snapshot to both
// checks in separate goroutines — no ordering between them, by contract.
type Dispatcher struct {
	Validator *checks.PriceValidator
	Limiter   *checks.RateLimiter
	Hub       *notify.Hub
	Orders    *mongo.Collection
}

func NewDispatcher(v *checks.PriceValidator, rl *checks.RateLimiter, hub *notify.Hub, orders *mongo.Collection) *Dispatcher {
	return &Dispatcher{Validator: v, Limiter: rl, Hub: hub, Orders: orders}
}

// StartWorker subscribes to the order channel and dispatches until ctx ends.
// Run it in its own goroutine from main.
func (d *Dispatcher) StartWorker(ctx context.Context) {
	sub := rdx.Conn.Subscribe(ctx, OrderChannel)
	defer sub.Close()
	ch := sub.Channel()

	log.Println("mq: order worker listening")

	for {
		select {
		case <-ctx.Done():
			log.Println("mq: order worker stopping")
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var event OrderCreated
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				log.Printf("mq: bad order event payload: %v", err)
				continue
			}
			d.handle(ctx, event.OrderID)
		}
	}
}

func (d *Dispatcher) handle(ctx context.Context, orderID string) {
	loadCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var order models.Order
	if err := d.Orders.FindOne(loadCtx, bson.M{"orderid": orderID}).Decode(&order); err != nil {
		log.Printf("mq: order %s not loadable, skipping checks: %v", orderID, err)
		return
	}

	d.Dispatch(order)
}

// Dispatch fires both checks for one order snapshot and notifies the admin
// dashboard. Also called directly by the creation handler when publishing the
// event failed.
func (d *Dispatcher) Dispatch(order models.Order) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		d.Validator.Run(ctx, order)
	}()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		d.Limiter.Run(ctx, order)
	}()

	if d.Hub != nil {
		d.Hub.NotifyOrder("created", order.OrderID, order.CustomerPhone, order.Total)
	}
}
