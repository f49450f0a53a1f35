package auth

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"vitrine/db"
	"vitrine/globals"
	"vitrine/middleware"
	"vitrine/models"
	"vitrine/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 12 * time.Hour

// EnsureAdmin seeds the admin account from config on first boot. Existing
// accounts are left alone, so password changes go through the database.
func EnsureAdmin(ctx context.Context, username, password string) error {
	if password == "" {
		log.Println("auth: ADMIN_PASSWORD not set, skipping admin seed")
		return nil
	}

	err := db.UserCollection.FindOne(ctx, bson.M{"username": username}).Err()
	if err == nil {
		return nil
	}
	if err != mongo.ErrNoDocuments {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = db.UserCollection.InsertOne(ctx, models.User{
		UserID:    uuid.NewString(),
		Username:  username,
		Password:  string(hash),
		Role:      []string{"admin"},
		CreatedAt: time.Now(),
	})
	if err == nil {
		log.Printf("auth: seeded admin account %q", username)
	}
	return err
}

// Login checks credentials and returns a signed JWT carrying the role claim.
func Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if input.Username == "" || input.Password == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	var user models.User
	err := db.UserCollection.FindOne(ctx, bson.M{"username": input.Username}).Decode(&user)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	token, err := generateToken(user)
	if err != nil {
		log.Println("auth: token generation error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"token":    token,
		"username": user.Username,
		"role":     user.Role,
	})
}

// Logout exists for the dashboard's sake; tokens are stateless so there is
// nothing to revoke server-side before expiry.
func Logout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

func generateToken(user models.User) (string, error) {
	claims := middleware.Claims{
		Username: user.Username,
		UserID:   user.UserID,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(globals.JwtSecret)
}
