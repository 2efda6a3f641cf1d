package httpserver

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"storefront-backend/internal/docstore"
	accountsvc "storefront-backend/internal/service/account"
	authsvc "storefront-backend/internal/service/auth"
	catalogsvc "storefront-backend/internal/service/catalog"
	customersvc "storefront-backend/internal/service/customer"
	ordersvc "storefront-backend/internal/service/order"
)

// Deps carries the services the routes need.
type Deps struct {
	AuthSvc     *authsvc.Service
	AccountSvc  *accountsvc.Service
	OrderSvc    *ordersvc.Service
	CustomerSvc *customersvc.Service
	CatalogSvc  *catalogsvc.Service
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, store docstore.Store, deps Deps, corsOrigins []string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "x-user-email"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(corsOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = corsOrigins
	}
	router.Use(cors.New(corsCfg))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(store))

	auth := router.Group("/auth")
	{
		auth.POST("/otp", sendOTPHandler(deps.AuthSvc))
		auth.POST("/otp/verify", verifyOTPHandler(deps.AuthSvc))
	}

	orders := router.Group("/api/orders")
	{
		orders.GET("", listOrdersHandler(deps.OrderSvc))
		orders.POST("", createOrderHandler(deps.OrderSvc))
		orders.GET("/:id", getOrderHandler(deps.OrderSvc))
		orders.PUT("/:id", updateOrderHandler(deps.OrderSvc))
		orders.PUT("/:id/status", updateOrderStatusHandler(deps.OrderSvc))
		orders.DELETE("/:id", deleteOrderHandler(deps.OrderSvc))
	}

	users := router.Group("/api/users", requireUserEmail())
	{
		users.GET("/cart", getCartHandler(deps.AccountSvc))
		users.PUT("/cart", updateCartHandler(deps.AccountSvc))
		users.DELETE("/cart", clearCartHandler(deps.AccountSvc))

		users.GET("/addresses", listAddressesHandler(deps.AccountSvc))
		users.POST("/addresses", addAddressHandler(deps.AccountSvc))
		users.PUT("/addresses/:id", updateAddressHandler(deps.AccountSvc))
		users.DELETE("/addresses/:id", deleteAddressHandler(deps.AccountSvc))

		users.GET("/orders", listUserOrdersHandler(deps.AccountSvc))
		users.POST("/orders", addUserOrderHandler(deps.AccountSvc))
		users.GET("/orders/:id", getUserOrderHandler(deps.AccountSvc))
	}

	products := router.Group("/api/products")
	{
		products.GET("", listProductsHandler(deps.CatalogSvc))
		products.POST("", createProductHandler(deps.CatalogSvc))
		products.GET("/:id", getProductHandler(deps.CatalogSvc))
		products.PUT("/:id", updateProductHandler(deps.CatalogSvc))
		products.DELETE("/:id", deleteProductHandler(deps.CatalogSvc))
	}

	customers := router.Group("/api/admin/customers")
	{
		customers.GET("", listCustomersHandler(deps.CustomerSvc))
		customers.POST("", createCustomerHandler(deps.CustomerSvc))
		customers.GET("/:id", getCustomerHandler(deps.CustomerSvc))
		customers.PUT("/:id", updateCustomerHandler(deps.CustomerSvc))
		customers.DELETE("/:id", deleteCustomerHandler(deps.CustomerSvc))
	}

	return router
}
