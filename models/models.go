package models

import "time"

// Order statuses. There is no enforced state machine: the pipeline auto-cancels
// and an admin may move an order to any status afterwards.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusDelivered = "delivered"
	StatusCanceled  = "canceled"
)

// Product is the authoritative catalog record. Only the admin surface mutates
// it; the validation pipeline treats it as read-only truth for pricing.
type Product struct {
	ProductID   string    `json:"productid" bson:"productid"`
	Name        string    `json:"name" bson:"name"`
	Price       float64   `json:"price" bson:"price"`
	Category    string    `json:"category" bson:"category"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	Image       string    `json:"image,omitempty" bson:"image,omitempty"`
	Thumb       string    `json:"thumb,omitempty" bson:"thumb,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
}

// OrderItem carries the client-claimed name, unit price and quantity for one
// product. Claims are checked against the catalog after creation, never trusted.
type OrderItem struct {
	ItemID   string  `json:"id" bson:"id"`
	Name     string  `json:"name" bson:"name"`
	Price    float64 `json:"price" bson:"price"`
	Quantity int     `json:"quantity" bson:"quantity"`
}

// Order is created once by an unauthenticated client and afterwards written
// only by the two creation triggers and explicit admin status updates.
//
// CreatedAt is an RFC3339 UTC string so the rate-limit window query can use a
// plain lexicographic comparison.
type Order struct {
	OrderID         string      `json:"orderid" bson:"orderid"`
	CustomerName    string      `json:"customerName" bson:"customerName"`
	CustomerPhone   string      `json:"customerPhone" bson:"customerPhone"`
	CustomerAddress string      `json:"customerAddress" bson:"customerAddress"`
	Items           []OrderItem `json:"items" bson:"items"`
	Total           float64     `json:"total" bson:"total"`
	Status          string      `json:"status" bson:"status"`
	CreatedAt       string      `json:"createdAt" bson:"createdAt"`

	// Written by the price validator.
	Validated        bool       `json:"validated,omitempty" bson:"validated,omitempty"`
	ValidationErrors []string   `json:"validationErrors,omitempty" bson:"validationErrors,omitempty"`
	ValidationError  string     `json:"validationError,omitempty" bson:"validationError,omitempty"`
	ValidatedAt      *time.Time `json:"validatedAt,omitempty" bson:"validatedAt,omitempty"`

	// Written by the rate limiter.
	CancelReason string `json:"cancelReason,omitempty" bson:"cancelReason,omitempty"`
}

// User is an admin account for the management dashboard.
type User struct {
	UserID    string    `json:"userid" bson:"userid"`
	Username  string    `json:"username" bson:"username"`
	Password  string    `json:"-" bson:"password"` // bcrypt hash
	Role      []string  `json:"role" bson:"role"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}
