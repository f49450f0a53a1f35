// Package seo serves the crawl/share metadata the storefront's pages need:
// a sitemap of product URLs and per-product title/description/og fields.
package seo

import (
	"context"
	"encoding/xml"
	"fmt"
	"log"
	"net/http"
	"time"

	"vitrine/db"
	"vitrine/models"
	"vitrine/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var baseURL = "http://localhost:8080"

func SetBaseURL(u string) {
	baseURL = u
}

type urlEntry struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

type urlSet struct {
	XMLName xml.Name   `xml:"urlset"`
	Xmlns   string     `xml:"xmlns,attr"`
	URLs    []urlEntry `xml:"url"`
}

// Sitemap lists the storefront root plus one URL per product.
func Sitemap(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cursor, err := db.ProductsCollection.Find(ctx, bson.M{},
		options.Find().SetProjection(bson.M{"productid": 1, "updatedAt": 1}))
	if err != nil {
		log.Println("Sitemap Find error:", err)
		http.Error(w, "Failed to build sitemap", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		log.Println("Sitemap cursor.All error:", err)
		http.Error(w, "Failed to build sitemap", http.StatusInternalServerError)
		return
	}

	set := urlSet{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  []urlEntry{{Loc: baseURL + "/"}},
	}
	for _, p := range products {
		set.URLs = append(set.URLs, urlEntry{
			Loc:     fmt.Sprintf("%s/products/%s", baseURL, p.ProductID),
			LastMod: p.UpdatedAt.Format("2006-01-02"),
		})
	}

	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, xml.Header)
	if err := xml.NewEncoder(w).Encode(set); err != nil {
		log.Println("Sitemap encode error:", err)
	}
}

// ProductMeta returns the title/meta/og fields the SPA injects into the page
// head for one product.
func ProductMeta(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var product models.Product
	err := db.ProductsCollection.FindOne(ctx, bson.M{"productid": ps.ByName("productid")}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Println("ProductMeta FindOne error:", err)
		http.Error(w, "Could not retrieve product", http.StatusInternalServerError)
		return
	}

	description := product.Description
	if description == "" {
		description = fmt.Sprintf("%s - %s DA", product.Name, utils.FormatAmount(product.Price))
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"title":       product.Name,
		"description": description,
		"og:title":    product.Name,
		"og:type":     "product",
		"og:url":      fmt.Sprintf("%s/products/%s", baseURL, product.ProductID),
		"og:image":    baseURL + product.Image,
	})
}
