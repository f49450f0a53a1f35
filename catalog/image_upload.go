package catalog

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"vitrine/db"
	"vitrine/utils"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

var picDir = filepath.Join("static", "productpic")

// SetPictureDir points uploads at the configured static directory.
func SetPictureDir(staticDir string) {
	picDir = filepath.Join(staticDir, "productpic")
}

// UploadProductImage accepts a multipart image, re-encodes it as JPEG (which
// also strips anything that is not actually an image) and writes a 300px
// thumbnail next to it. Admin only.
func UploadProductImage(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 20*time.Second)
	defer cancel()

	productID := ps.ByName("productid")
	if err := db.ProductsCollection.FindOne(ctx, bson.M{"productid": productID}).Err(); err != nil {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "File too large", http.StatusRequestEntityTooLarge)
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		http.Error(w, "Missing image file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	img, err := imaging.Decode(file)
	if err != nil {
		http.Error(w, "Invalid image", http.StatusBadRequest)
		return
	}

	if err := os.MkdirAll(picDir, 0o755); err != nil {
		log.Println("UploadProductImage mkdir error:", err)
		http.Error(w, "Failed to save image", http.StatusInternalServerError)
		return
	}

	name := uuid.New().String()
	originalPath := filepath.Join(picDir, name+".jpg")
	thumbPath := filepath.Join(picDir, name+"_thumb.jpg")

	if err := imaging.Save(img, originalPath, imaging.JPEGQuality(85)); err != nil {
		log.Println("UploadProductImage save error:", err)
		http.Error(w, "Failed to save image", http.StatusInternalServerError)
		return
	}

	thumb := imaging.Resize(img, 300, 0, imaging.Lanczos)
	if err := imaging.Save(thumb, thumbPath, imaging.JPEGQuality(85)); err != nil {
		log.Println("UploadProductImage thumbnail error:", err)
		http.Error(w, "Failed to save thumbnail", http.StatusInternalServerError)
		return
	}

	image := fmt.Sprintf("/static/productpic/%s.jpg", name)
	thumbURL := fmt.Sprintf("/static/productpic/%s_thumb.jpg", name)

	if _, err := db.ProductsCollection.UpdateOne(ctx,
		bson.M{"productid": productID},
		bson.M{"$set": bson.M{"image": image, "thumb": thumbURL, "updatedAt": time.Now()}}); err != nil {
		log.Println("UploadProductImage UpdateOne error:", err)
		http.Error(w, "Failed to attach image", http.StatusInternalServerError)
		return
	}

	invalidateListCache(ctx)
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{"image": image, "thumb": thumbURL})
}
