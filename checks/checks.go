// Package checks holds the two creation-time order checks: the price
// validator, which re-prices a client-submitted order against the catalog, and
// the rate limiter, which counts recent orders from the same phone. Both fire
// once per order creation, independently and concurrently, and each issues at
// most one field-merge update to the order document.
package checks

import (
	"context"

	"vitrine/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Catalog is the read-only view of authoritative product data.
type Catalog interface {
	// Product returns the record and whether it exists. An error means the
	// store itself failed, not that the product is missing.
	Product(ctx context.Context, id string) (models.Product, bool, error)
}

// OrderStore is the triggers' view of the orders collection: field-merge
// updates plus the rate-limit window count.
type OrderStore interface {
	Merge(ctx context.Context, orderID string, fields bson.M) error
	CountRecent(ctx context.Context, phone, sinceISO, excludeOrderID string) (int64, error)
}

// MongoCatalog backs Catalog with the products collection.
type MongoCatalog struct {
	Col *mongo.Collection
}

func (c MongoCatalog) Product(ctx context.Context, id string) (models.Product, bool, error) {
	var p models.Product
	err := c.Col.FindOne(ctx, bson.M{"productid": id}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return p, false, nil
	}
	if err != nil {
		return p, false, err
	}
	return p, true, nil
}

// MongoOrders backs OrderStore with the orders collection.
type MongoOrders struct {
	Col *mongo.Collection
}

func (s MongoOrders) Merge(ctx context.Context, orderID string, fields bson.M) error {
	_, err := s.Col.UpdateOne(ctx, bson.M{"orderid": orderID}, bson.M{"$set": fields})
	return err
}

func (s MongoOrders) CountRecent(ctx context.Context, phone, sinceISO, excludeOrderID string) (int64, error) {
	return s.Col.CountDocuments(ctx, bson.M{
		"customerPhone": phone,
		"createdAt":     bson.M{"$gt": sinceISO},
		"orderid":       bson.M{"$ne": excludeOrderID},
	})
}
