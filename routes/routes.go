package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/feraszen/keytop-fresh/controllers"
	apperrors "github.com/feraszen/keytop-fresh/errors"
	"github.com/feraszen/keytop-fresh/logger"
	"github.com/feraszen/keytop-fresh/metrics"
	"github.com/feraszen/keytop-fresh/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestTimeout bounds every request's context.
const RequestTimeout = 30 * time.Second

// Controllers groups the handlers the router mounts.
type Controllers struct {
	Cart     *controllers.CartController
	Checkout *controllers.CheckoutController
	Catalog  *controllers.CatalogController
}

// Options configures the middleware chain.
type Options struct {
	Metrics            metrics.Recorder
	AllowedOrigins     []string
	RateLimitPerMinute int
	RateLimitBurst     int
}

// NewRouter builds the gin engine with the standard middleware chain.
func NewRouter(ctrl Controllers, opts Options, log *zap.Logger) *gin.Engine {
	if opts.Metrics == nil {
		opts.Metrics = metrics.Noop{}
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(metrics.Middleware(opts.Metrics, "keytop-fresh"))
	r.Use(logger.RequestLogger(log))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(opts.AllowedOrigins))
	r.Use(middleware.RateLimit(opts.RateLimitPerMinute, opts.RateLimitBurst))
	r.Use(timeout(RequestTimeout))
	r.Use(apperrors.ErrorMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "service": "keytop-fresh"})
	})

	RegisterCartRoutes(r, ctrl.Cart)
	RegisterCheckoutRoutes(r, ctrl.Checkout)
	RegisterCatalogRoutes(r, ctrl.Catalog)
	return r
}

func RegisterCartRoutes(r *gin.Engine, cc *controllers.CartController) {
	api := r.Group("/cart")
	{
		api.GET("", cc.GetCart)
		api.GET("/count", cc.Count)
		api.POST("/items", cc.AddItem)
		api.PATCH("/items/:index", cc.UpdateQuantity)
		api.DELETE("/items/:index", cc.RemoveItem)
		api.DELETE("", cc.ClearCart)
	}
}

func RegisterCheckoutRoutes(r *gin.Engine, cc *controllers.CheckoutController) {
	r.POST("/checkout", cc.Submit)
	r.GET("/orders", cc.ListOrders)
	r.GET("/orders/:invoice", cc.GetOrder)
}

func RegisterCatalogRoutes(r *gin.Engine, cc *controllers.CatalogController) {
	r.GET("/menu", cc.Menu)
	r.GET("/reviews/current", cc.CurrentReview)
}

func timeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
