package routes

import (
	"net/http"

	"vitrine/admin"
	"vitrine/auth"
	"vitrine/catalog"
	"vitrine/middleware"
	"vitrine/notify"
	"vitrine/orders"
	"vitrine/ratelim"
	"vitrine/seo"

	"github.com/julienschmidt/httprouter"
)

func AddStaticRoutes(router *httprouter.Router, staticDir string) {
	router.ServeFiles("/static/productpic/*filepath", http.Dir(staticDir+"/productpic"))
}

func AddAuthRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/auth/login", rl.Limit(auth.Login))
	router.POST("/api/auth/logout", middleware.Authenticate(auth.Logout))
}

func AddCatalogRoutes(router *httprouter.Router) {
	router.GET("/api/products", catalog.GetProducts)
	router.GET("/api/products/:productid", catalog.GetProduct)
	router.POST("/api/products", middleware.RequireAdmin(catalog.CreateProduct))
	router.PUT("/api/products/:productid", middleware.RequireAdmin(catalog.EditProduct))
	router.DELETE("/api/products/:productid", middleware.RequireAdmin(catalog.DeleteProduct))
	router.POST("/api/products/:productid/image", middleware.RequireAdmin(catalog.UploadProductImage))
}

func AddOrderRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/orders", rl.Limit(orders.CreateOrder))
	router.GET("/api/orders/:orderid", orders.GetOrderStatus)
}

func AddAdminRoutes(router *httprouter.Router) {
	router.GET("/api/admin/orders", middleware.RequireAdmin(orders.ListOrders))
	router.PUT("/api/admin/orders/:orderid/status", middleware.RequireAdmin(orders.UpdateOrderStatus))
	router.GET("/api/admin/orders/:orderid/invoice", middleware.RequireAdmin(orders.Invoice))
	router.GET("/api/admin/stats", middleware.RequireAdmin(admin.GetStats))
}

func AddSeoRoutes(router *httprouter.Router) {
	router.GET("/sitemap.xml", seo.Sitemap)
	router.GET("/api/seo/products/:productid", seo.ProductMeta)
}

func AddNotifyRoutes(router *httprouter.Router, hub *notify.Hub) {
	router.GET("/ws/orders", notify.WebSocketHandler(hub))
}
