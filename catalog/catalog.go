package catalog

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"vitrine/db"
	"vitrine/models"
	"vitrine/rdx"
	"vitrine/utils"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	listCacheKey = "products:all"
	listCacheTTL = 60 * time.Second
)

// GetProducts lists the catalog, optionally filtered by ?category= and ?q=.
// The unfiltered listing is the storefront's hottest read and is served from
// redis when possible.
func GetProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	category := r.URL.Query().Get("category")
	q := r.URL.Query().Get("q")

	if category == "" && q == "" {
		if cached, err := rdx.Conn.Get(ctx, listCacheKey).Result(); err == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(cached))
			return
		}
	}

	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}
	if q != "" {
		filter["name"] = bson.M{"$regex": q, "$options": "i"}
	}

	cursor, err := db.ProductsCollection.Find(ctx, filter, options.Find().SetSort(bson.M{"updatedAt": -1}))
	if err != nil {
		log.Println("GetProducts Find error:", err)
		http.Error(w, "Could not retrieve products", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		log.Println("GetProducts cursor.All error:", err)
		http.Error(w, "Error reading products", http.StatusInternalServerError)
		return
	}
	if len(products) == 0 {
		products = []models.Product{}
	}

	if category == "" && q == "" {
		if data, err := json.Marshal(products); err == nil {
			if err := rdx.Conn.Set(ctx, listCacheKey, data, listCacheTTL).Err(); err != nil {
				log.Println("GetProducts cache set error:", err)
			}
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, products)
}

// GetProduct returns one product by id.
func GetProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var product models.Product
	err := db.ProductsCollection.FindOne(ctx, bson.M{"productid": ps.ByName("productid")}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Println("GetProduct FindOne error:", err)
		http.Error(w, "Could not retrieve product", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, product)
}

// CreateProduct inserts a new catalog record. Admin only.
func CreateProduct(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var product models.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		log.Println("CreateProduct decode error:", err)
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	if product.Name == "" || product.Category == "" || product.Price <= 0 {
		http.Error(w, "Missing or invalid fields", http.StatusBadRequest)
		return
	}

	product.ProductID = uuid.NewString()
	product.UpdatedAt = time.Now()

	if _, err := db.ProductsCollection.InsertOne(ctx, product); err != nil {
		log.Println("CreateProduct InsertOne error:", err)
		http.Error(w, "Failed to create product", http.StatusInternalServerError)
		return
	}

	invalidateListCache(ctx)
	utils.RespondWithJSON(w, http.StatusCreated, product)
}

// EditProduct updates the mutable fields of a product. Admin only.
func EditProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var input struct {
		Name        *string  `json:"name"`
		Price       *float64 `json:"price"`
		Category    *string  `json:"category"`
		Description *string  `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		log.Println("EditProduct decode error:", err)
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	set := bson.M{"updatedAt": time.Now()}
	if input.Name != nil && *input.Name != "" {
		set["name"] = *input.Name
	}
	if input.Price != nil {
		if *input.Price <= 0 {
			http.Error(w, "Price must be positive", http.StatusBadRequest)
			return
		}
		set["price"] = *input.Price
	}
	if input.Category != nil && *input.Category != "" {
		set["category"] = *input.Category
	}
	if input.Description != nil {
		set["description"] = *input.Description
	}

	res, err := db.ProductsCollection.UpdateOne(ctx,
		bson.M{"productid": ps.ByName("productid")},
		bson.M{"$set": set})
	if err != nil {
		log.Println("EditProduct UpdateOne error:", err)
		http.Error(w, "Failed to update product", http.StatusInternalServerError)
		return
	}
	if res.MatchedCount == 0 {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}

	invalidateListCache(ctx)
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// DeleteProduct removes a product from the catalog. Orders already placed for
// it will fail validation with a "not found" entry, which is intended.
func DeleteProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	res, err := db.ProductsCollection.DeleteOne(ctx, bson.M{"productid": ps.ByName("productid")})
	if err != nil {
		log.Println("DeleteProduct DeleteOne error:", err)
		http.Error(w, "Failed to delete product", http.StatusInternalServerError)
		return
	}
	if res.DeletedCount == 0 {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}

	invalidateListCache(ctx)
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func invalidateListCache(ctx context.Context) {
	if err := rdx.Conn.Del(ctx, listCacheKey).Err(); err != nil {
		log.Println("catalog: cache invalidation error:", err)
	}
}
