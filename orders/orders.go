package orders

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"vitrine/db"
	"vitrine/models"
	"vitrine/mq"
	"vitrine/utils"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// dispatcher is the in-process fallback used when the order event cannot be
// published; set once from main.
var dispatcher *mq.Dispatcher

func Init(d *mq.Dispatcher) {
	dispatcher = d
}

// orderPayload is the typed boundary for the loosely-typed client document.
// Anything that does not parse into it cleanly is rejected up front instead
// of trusting field presence downstream.
type orderPayload struct {
	CustomerName    string             `json:"customerName"`
	CustomerPhone   string             `json:"customerPhone"`
	CustomerAddress string             `json:"customerAddress"`
	Items           []models.OrderItem `json:"items"`
	Total           float64            `json:"total"`
}

func (p *orderPayload) validate() string {
	if p.CustomerName == "" {
		return "Customer name is required"
	}
	if !utils.ValidPhone(p.CustomerPhone) {
		return "A valid phone number is required"
	}
	if p.CustomerAddress == "" {
		return "Delivery address is required"
	}
	if len(p.Items) == 0 {
		return "Order must contain at least one item"
	}
	for _, it := range p.Items {
		if it.ItemID == "" || it.Name == "" {
			return "Every item needs an id and a name"
		}
		if it.Quantity <= 0 {
			return "Item quantities must be positive"
		}
		if it.Price < 0 {
			return "Item prices cannot be negative"
		}
	}
	if p.Total < 0 {
		return "Total cannot be negative"
	}
	return ""
}

// CreateOrder accepts an unauthenticated storefront checkout. The claimed
// prices and total are persisted as-is; the creation event then fires the
// price validator and the rate limiter, which write their verdicts back onto
// the document.
func CreateOrder(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var payload orderPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		log.Println("CreateOrder decode error:", err)
		http.Error(w, "Invalid order payload", http.StatusBadRequest)
		return
	}
	if msg := payload.validate(); msg != "" {
		utils.RespondWithError(w, http.StatusBadRequest, msg)
		return
	}

	order := models.Order{
		OrderID:         uuid.NewString(),
		CustomerName:    payload.CustomerName,
		CustomerPhone:   payload.CustomerPhone,
		CustomerAddress: payload.CustomerAddress,
		Items:           payload.Items,
		Total:           payload.Total,
		Status:          models.StatusPending,
		CreatedAt:       time.Now().UTC().Format(time.RFC3339),
	}

	if _, err := db.OrdersCollection.InsertOne(ctx, order); err != nil {
		log.Println("CreateOrder InsertOne error:", err)
		http.Error(w, "Order creation failed", http.StatusInternalServerError)
		return
	}

	if err := mq.Emit(ctx, mq.OrderCreated{OrderID: order.OrderID}); err != nil {
		// The checks must still run; fall back to in-process dispatch.
		log.Println("CreateOrder emit failed, dispatching in-process:", err)
		if dispatcher != nil {
			dispatcher.Dispatch(order)
		}
	}

	utils.RespondWithJSON(w, http.StatusCreated, order)
}

// GetOrderStatus lets a customer check their order. The phone must match so
// order ids alone do not leak someone else's order.
func GetOrderStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	phone := r.URL.Query().Get("phone")
	if phone == "" {
		http.Error(w, "Phone is required", http.StatusBadRequest)
		return
	}

	var order models.Order
	err := db.OrdersCollection.FindOne(ctx, bson.M{
		"orderid":       ps.ByName("orderid"),
		"customerPhone": phone,
	}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Println("GetOrderStatus FindOne error:", err)
		http.Error(w, "Could not retrieve order", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"orderid":      order.OrderID,
		"status":       order.Status,
		"total":        order.Total,
		"createdAt":    order.CreatedAt,
		"cancelReason": order.CancelReason,
	})
}
