package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vitrine/auth"
	"vitrine/catalog"
	"vitrine/checks"
	"vitrine/config"
	"vitrine/db"
	"vitrine/globals"
	"vitrine/mq"
	"vitrine/notify"
	"vitrine/orders"
	"vitrine/ratelim"
	"vitrine/rdx"
	"vitrine/routes"
	"vitrine/seo"

	"github.com/joho/godotenv"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
)

// securityHeaders applies a set of recommended HTTP security headers.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "frame-ancestors 'none'")
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
		w.Header().Set("Referrer-Policy", "no-referrer")
		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs each request method, path, remote address, and duration.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s from %s – %v", r.Method, r.RequestURI, r.RemoteAddr, time.Since(start))
	})
}

// Index is a simple health check handler.
func Index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	fmt.Fprint(w, "200")
}

func setupRouter(cfg *config.Config, rateLimiter *ratelim.RateLimiter, hub *notify.Hub) *httprouter.Router {
	router := httprouter.New()
	router.GET("/health", Index)

	routes.AddAuthRoutes(router, rateLimiter)
	routes.AddCatalogRoutes(router)
	routes.AddOrderRoutes(router, rateLimiter)
	routes.AddAdminRoutes(router)
	routes.AddSeoRoutes(router)
	routes.AddNotifyRoutes(router, hub)
	routes.AddStaticRoutes(router, cfg.StaticDir)

	return router
}

func main() {
	// load .env if present
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	globals.JwtSecret = []byte(cfg.JWTSecret)
	orders.SetInvoiceSecret(cfg.InvoiceSecret)
	seo.SetBaseURL(cfg.BaseURL)
	catalog.SetPictureDir(cfg.StaticDir)

	if err := db.Init(cfg.MongoURI, cfg.MongoDB); err != nil {
		log.Fatalf("❌ Failed to connect to MongoDB: %v", err)
	}
	if err := rdx.Init(cfg.RedisAddr); err != nil {
		log.Fatalf("❌ Failed to connect to Redis: %v", err)
	}
	if err := auth.EnsureAdmin(context.Background(), cfg.AdminUser, cfg.AdminPassword); err != nil {
		log.Fatalf("❌ Failed to seed admin account: %v", err)
	}

	// admin dashboard notification hub
	hub := notify.NewHub()
	go hub.Run()

	// order validation pipeline: one dispatcher feeding both checks
	validator := &checks.PriceValidator{
		Catalog: checks.MongoCatalog{Col: db.ProductsCollection},
		Orders:  checks.MongoOrders{Col: db.OrdersCollection},
	}
	limiter := &checks.RateLimiter{
		Orders: checks.MongoOrders{Col: db.OrdersCollection},
	}
	dispatcher := mq.NewDispatcher(validator, limiter, hub, db.OrdersCollection)
	orders.Init(dispatcher)

	workerCtx, stopWorker := context.WithCancel(context.Background())
	go dispatcher.StartWorker(workerCtx)

	rateLimiter := ratelim.NewRateLimiter()
	router := setupRouter(cfg, rateLimiter, hub)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // lock down in production
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(router)

	handler := loggingMiddleware(securityHeaders(corsHandler))

	port := cfg.Port
	if port == "" {
		port = ":8080"
	} else if port[0] != ':' {
		port = ":" + port
	}

	server := &http.Server{
		Addr:              port,
		Handler:           handler,
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	server.RegisterOnShutdown(func() {
		log.Println("🛑 Stopping order worker and notification hub...")
		stopWorker()
		hub.Stop()
	})

	go func() {
		log.Printf("🚀 Server listening on %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ ListenAndServe error: %v", err)
		}
	}()

	// wait for interrupt or SIGTERM
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("🛑 Shutdown signal received; shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Graceful shutdown failed: %v", err)
	}
	if err := db.Close(ctx); err != nil {
		log.Printf("MongoDB disconnect error: %v", err)
	}

	log.Println("✅ Server stopped cleanly")
}
