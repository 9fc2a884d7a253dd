package routes

import (
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront/internal/handlers"
	"storefront/internal/logging"
)

// NewRouter builds the gin engine with middleware and every storefront
// route registered.
func NewRouter(h *handlers.Handler, origins []string, log *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(logging.Middleware(log), gin.Recovery())
	router.Use(cors.New(corsConfig(origins)))
	RegisterRoutes(router, h)
	return router
}

// corsConfig allows every origin without credentials for the wildcard
// default. Credentials are only allowed for an explicit origin list.
func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

func RegisterRoutes(router *gin.Engine, h *handlers.Handler) {
	router.GET("/healthz", h.Health)

	router.GET("/about", h.About)
	router.GET("/team", h.Team)
	router.GET("/testimonials", h.Testimonials)
	router.GET("/blog", h.Blog)
	router.GET("/contact", h.ContactPage)
	router.POST("/contact", h.SubmitContact)

	cart := router.Group("/cart", handlers.Session())
	{
		cart.GET("", h.GetCart)
		cart.DELETE("", h.ClearCart)
		cart.POST("/items", h.AddItem)
		cart.GET("/items/:kind/:id", h.ItemDetails)
		cart.PATCH("/items/:kind/:id", h.UpdateItem)
		cart.DELETE("/items/:kind/:id", h.RemoveItem)
		cart.POST("/checkout", h.Checkout)
	}
}
