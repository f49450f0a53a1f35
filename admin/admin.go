package admin

import (
	"context"
	"log"
	"net/http"
	"time"

	"vitrine/db"
	"vitrine/models"
	"vitrine/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

// GetStats powers the dashboard header: order counts per status, delivered
// revenue, and how many orders the pipeline flagged or canceled on its own.
func GetStats(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	counts := map[string]int64{}
	for _, status := range []string{
		models.StatusPending,
		models.StatusConfirmed,
		models.StatusDelivered,
		models.StatusCanceled,
	} {
		n, err := db.OrdersCollection.CountDocuments(ctx, bson.M{"status": status})
		if err != nil {
			log.Println("GetStats count error:", err)
			http.Error(w, "Failed to compute stats", http.StatusInternalServerError)
			return
		}
		counts[status] = n
	}

	flagged, err := db.OrdersCollection.CountDocuments(ctx, bson.M{"$or": []bson.M{
		{"validationErrors.0": bson.M{"$exists": true}},
		{"validationError": bson.M{"$exists": true, "$ne": ""}},
		{"cancelReason": bson.M{"$exists": true, "$ne": ""}},
	}})
	if err != nil {
		log.Println("GetStats flagged count error:", err)
		http.Error(w, "Failed to compute stats", http.StatusInternalServerError)
		return
	}

	// Revenue of delivered orders via aggregation.
	pipeline := []bson.M{
		{"$match": bson.M{"status": models.StatusDelivered}},
		{"$group": bson.M{"_id": nil, "revenue": bson.M{"$sum": "$total"}}},
	}
	cursor, err := db.OrdersCollection.Aggregate(ctx, pipeline)
	if err != nil {
		log.Println("GetStats aggregate error:", err)
		http.Error(w, "Failed to compute stats", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var revenue float64
	var agg []struct {
		Revenue float64 `bson:"revenue"`
	}
	if err := cursor.All(ctx, &agg); err == nil && len(agg) > 0 {
		revenue = agg[0].Revenue
	}

	productCount, err := db.ProductsCollection.CountDocuments(ctx, bson.M{})
	if err != nil {
		log.Println("GetStats product count error:", err)
		http.Error(w, "Failed to compute stats", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"orders":   counts,
		"flagged":  flagged,
		"revenue":  revenue,
		"products": productCount,
	})
}
