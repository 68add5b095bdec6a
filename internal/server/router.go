package server

import (
	"context"
	"net/http"
	"time"

	addressH "github.com/fekuna/omnipos-storefront/internal/address/handler"
	"github.com/fekuna/omnipos-storefront/internal/auth"
	cartH "github.com/fekuna/omnipos-storefront/internal/cart/handler"
	catH "github.com/fekuna/omnipos-storefront/internal/category/handler"
	dashH "github.com/fekuna/omnipos-storefront/internal/dashboard/handler"
	orderH "github.com/fekuna/omnipos-storefront/internal/order/handler"
	prodH "github.com/fekuna/omnipos-storefront/internal/product/handler"
	userH "github.com/fekuna/omnipos-storefront/internal/user/handler"
	"github.com/fekuna/omnipos-storefront/pkg/logger"
	"github.com/fekuna/omnipos-storefront/pkg/middleware"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Pinger reports whether the database is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Handlers struct {
	Users      *userH.UserHandler
	Categories *catH.CategoryHandler
	Products   *prodH.ProductHandler
	Cart       *cartH.CartHandler
	Orders     *orderH.OrderHandler
	Addresses  *addressH.AddressHandler
	Dashboard  *dashH.DashboardHandler
	// OrderFeed upgrades admin connections to the live order websocket.
	OrderFeed http.Handler
}

type Options struct {
	AllowedOrigins []string
	// StorageDir is served under /storage when set.
	StorageDir string
}

func NewRouter(h *Handlers, gate *auth.Middleware, db Pinger, opts Options, log logger.ZapLogger) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(log), middleware.Recovery(log))
	r.Use(cors.New(corsConfig(opts.AllowedOrigins)))

	if opts.StorageDir != "" {
		r.Static("/storage", opts.StorageDir)
	}
	r.GET("/healthz", health(db, log))

	api := r.Group("/api")
	api.GET("/products", h.Products.ListPublic)
	api.GET("/products/:product", h.Products.GetProduct)
	api.GET("/categories", h.Categories.ListPublic)
	api.POST("/auth/register", h.Users.Register)
	api.POST("/auth/login", h.Users.Login)
	api.POST("/payments/webhook", h.Orders.PaymentWebhook)

	authed := api.Group("", gate.Authenticate())
	authed.POST("/auth/logout", h.Users.Logout)
	authed.GET("/auth/user", h.Users.Me)

	authed.GET("/cart", h.Cart.GetCart)
	authed.POST("/cart/add/:product", h.Cart.AddItem)
	authed.PUT("/cart/update/:product", h.Cart.UpdateItem)
	authed.DELETE("/cart/remove/:product", h.Cart.RemoveItem)
	authed.DELETE("/cart/clear", h.Cart.Clear)

	authed.POST("/orders", h.Orders.Checkout)
	authed.GET("/orders", h.Orders.ListOrders)
	authed.GET("/orders/:order", h.Orders.GetOrder)
	authed.POST("/orders/:order/payment-intent", h.Orders.CreatePaymentIntent)

	authed.GET("/profile", h.Users.ShowProfile)
	authed.PUT("/profile", h.Users.UpdateProfile)
	authed.DELETE("/profile", h.Users.DeleteProfile)

	authed.GET("/profile/addresses", h.Addresses.ListAddresses)
	authed.POST("/profile/addresses", h.Addresses.CreateAddress)
	authed.PUT("/profile/addresses/:address", h.Addresses.UpdateAddress)
	authed.DELETE("/profile/addresses/:address", h.Addresses.DeleteAddress)
	authed.POST("/profile/addresses/:address/default", h.Addresses.SetDefault)

	admin := authed.Group("/admin", gate.RequireAdmin())
	admin.GET("/dashboard", h.Dashboard.Index)

	admin.GET("/products", h.Products.ListProducts)
	admin.POST("/products", h.Products.CreateProduct)
	admin.GET("/products/:product", h.Products.GetProduct)
	admin.PUT("/products/:product", h.Products.UpdateProduct)
	// Also accepted as POST for multipart clients.
	admin.POST("/products/:product", h.Products.UpdateProduct)
	admin.DELETE("/products/:product", h.Products.DeleteProduct)
	admin.GET("/exports/products", h.Products.ExportProducts)

	admin.GET("/categories", h.Categories.ListCategories)
	admin.POST("/categories", h.Categories.CreateCategory)
	admin.GET("/categories/:category", h.Categories.GetCategory)
	admin.PUT("/categories/:category", h.Categories.UpdateCategory)
	admin.DELETE("/categories/:category", h.Categories.DeleteCategory)

	admin.GET("/orders", h.Orders.AdminListOrders)
	if h.OrderFeed != nil {
		admin.GET("/orders/feed", gin.WrapH(h.OrderFeed))
	}
	admin.GET("/orders/:order", h.Orders.AdminGetOrder)
	admin.PUT("/orders/:order", h.Orders.AdminUpdateStatus)

	admin.GET("/users", h.Users.ListUsers)
	admin.GET("/users/:user", h.Users.GetUser)
	admin.PUT("/users/:user", h.Users.UpdateUser)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Not Found"})
	})
	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "Accept", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

func health(db Pinger, log logger.ZapLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			log.Warn("health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
