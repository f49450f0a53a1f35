package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ProductsCollection *mongo.Collection
	OrdersCollection   *mongo.Collection
	UserCollection     *mongo.Collection
	Client             *mongo.Client
)

// Init connects the shared client and binds the collections. Called once from
// main before the router starts serving.
func Init(uri, dbName string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return err
	}
	Client = client

	ProductsCollection = client.Database(dbName).Collection("products")
	OrdersCollection = client.Database(dbName).Collection("orders")
	UserCollection = client.Database(dbName).Collection("users")

	return CreateIndexes(ctx)
}

// CreateIndexes bootstraps the indexes the handlers and triggers rely on:
// unique ids, and the phone+createdAt pair behind the rate-limit window query.
func CreateIndexes(ctx context.Context) error {
	_, err := ProductsCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.M{"productid": 1},
		Options: options.Index().SetUnique(true).SetName("unique_productid"),
	})
	if err != nil {
		return err
	}

	_, err = OrdersCollection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.M{"orderid": 1},
			Options: options.Index().SetUnique(true).SetName("unique_orderid"),
		},
		{
			Keys: bson.D{
				{Key: "customerPhone", Value: 1},
				{Key: "createdAt", Value: -1},
			},
			Options: options.Index().SetName("phone_createdAt"),
		},
		{
			Keys:    bson.M{"status": 1},
			Options: options.Index().SetName("status"),
		},
	})
	if err != nil {
		return err
	}

	_, err = UserCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.M{"username": 1},
		Options: options.Index().SetUnique(true).SetName("unique_username"),
	})
	return err
}

// Close disconnects the shared client on shutdown.
func Close(ctx context.Context) error {
	if Client == nil {
		return nil
	}
	return Client.Disconnect(ctx)
}
