package checks

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"vitrine/models"
	"vitrine/utils"

	"go.mongodb.org/mongo-driver/bson"
)

const (
	// PriceTolerance is the slack below which two amounts count as equal.
	PriceTolerance = 0.01
	// MaxSaneQuantity flags bulk quantities no storefront customer orders.
	MaxSaneQuantity = 100
)

// PriceValidator re-prices a freshly created order against the catalog.
//
// Data problems (missing product, price/quantity/total discrepancies) cancel
// the order with a recorded error list. An infrastructure failure never
// cancels: the order keeps its status and gets a single validationError string
// for a human to review.
type PriceValidator struct {
	Catalog Catalog
	Orders  OrderStore
}

// Run executes the check for one order. Every outcome ends in exactly one
// update of the order document; Run itself never returns an error because
// there is no caller to surface it to.
func (v *PriceValidator) Run(ctx context.Context, o models.Order) {
	log.Printf("checks: validating order %s", o.OrderID)

	problems, _, err := v.reprice(ctx, o)
	now := time.Now().UTC()

	if err != nil {
		// Store failure, not a bad order. Flag and keep.
		log.Printf("checks: order %s validation aborted: %v", o.OrderID, err)
		if uerr := v.Orders.Merge(ctx, o.OrderID, bson.M{
			"validationError": err.Error(),
			"validatedAt":     now,
		}); uerr != nil {
			log.Printf("checks: order %s failed to record validation error: %v", o.OrderID, uerr)
		}
		return
	}

	if len(problems) > 0 {
		log.Printf("checks: order %s failed validation: %v", o.OrderID, problems)
		if uerr := v.Orders.Merge(ctx, o.OrderID, bson.M{
			"status":           models.StatusCanceled,
			"validationErrors": problems,
			"validatedAt":      now,
		}); uerr != nil {
			log.Printf("checks: order %s cancel update failed: %v", o.OrderID, uerr)
		}
		return
	}

	if uerr := v.Orders.Merge(ctx, o.OrderID, bson.M{
		"validated":   true,
		"validatedAt": now,
	}); uerr != nil {
		log.Printf("checks: order %s validated update failed: %v", o.OrderID, uerr)
		return
	}
	log.Printf("checks: order %s validated", o.OrderID)
}

// reprice walks the claimed items and rebuilds the total from catalog prices.
// The recomputed total always uses the trusted catalog price and the claimed
// quantity; items whose product does not exist contribute nothing.
func (v *PriceValidator) reprice(ctx context.Context, o models.Order) ([]string, float64, error) {
	var problems []string
	var calculated float64

	for _, item := range o.Items {
		product, ok, err := v.Catalog.Product(ctx, item.ItemID)
		if err != nil {
			return nil, 0, err
		}
		if !ok {
			problems = append(problems, fmt.Sprintf("Product %s not found", item.ItemID))
			continue
		}

		if math.Abs(item.Price-product.Price) > PriceTolerance {
			problems = append(problems, fmt.Sprintf(
				"Price mismatch for %s: submitted %s DA, actual %s DA",
				item.Name, utils.FormatAmount(item.Price), utils.FormatAmount(product.Price)))
		}

		if item.Quantity > MaxSaneQuantity {
			problems = append(problems, fmt.Sprintf(
				"Suspicious quantity for %s: %d", item.Name, item.Quantity))
		}

		calculated += product.Price * float64(item.Quantity)
	}

	if math.Abs(calculated-o.Total) > PriceTolerance {
		problems = append(problems, fmt.Sprintf(
			"Total mismatch: submitted %s DA, calculated %s DA",
			utils.FormatAmount(o.Total), utils.FormatAmount(calculated)))
	}

	return problems, calculated, nil
}
