package orders

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"slices"
	"time"

	"vitrine/db"
	"vitrine/models"
	"vitrine/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var allStatuses = []string{
	models.StatusPending,
	models.StatusConfirmed,
	models.StatusDelivered,
	models.StatusCanceled,
}

// ListOrders is the admin review feed, newest first. Filters: ?status=,
// ?phone=, and ?flagged=true for orders the pipeline canceled or could not
// validate.
func ListOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["status"] = status
	}
	if phone := r.URL.Query().Get("phone"); phone != "" {
		filter["customerPhone"] = phone
	}
	if r.URL.Query().Get("flagged") == "true" {
		filter["$or"] = []bson.M{
			{"validationErrors.0": bson.M{"$exists": true}},
			{"validationError": bson.M{"$exists": true, "$ne": ""}},
			{"cancelReason": bson.M{"$exists": true, "$ne": ""}},
		}
	}

	limit, skip := utils.ParsePagination(r)
	opts := options.Find().
		SetSort(bson.M{"createdAt": -1}).
		SetLimit(limit).
		SetSkip(skip)

	cursor, err := db.OrdersCollection.Find(ctx, filter, opts)
	if err != nil {
		log.Println("ListOrders Find error:", err)
		http.Error(w, "Could not retrieve orders", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var results []models.Order
	if err := cursor.All(ctx, &results); err != nil {
		log.Println("ListOrders cursor.All error:", err)
		http.Error(w, "Error reading orders", http.StatusInternalServerError)
		return
	}
	if len(results) == 0 {
		results = []models.Order{}
	}

	utils.RespondWithJSON(w, http.StatusOK, results)
}

// UpdateOrderStatus applies a manual admin transition. There is deliberately
// no state machine: the pipeline's auto-cancel is only a default the admin
// may override in any direction.
func UpdateOrderStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var input struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if !slices.Contains(allStatuses, input.Status) {
		http.Error(w, "Unknown status", http.StatusBadRequest)
		return
	}

	res, err := db.OrdersCollection.UpdateOne(ctx,
		bson.M{"orderid": ps.ByName("orderid")},
		bson.M{"$set": bson.M{"status": input.Status}})
	if err != nil {
		log.Println("UpdateOrderStatus UpdateOne error:", err)
		http.Error(w, "Failed to update order", http.StatusInternalServerError)
		return
	}
	if res.MatchedCount == 0 {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": input.Status})
}
