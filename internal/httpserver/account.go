package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-backend/internal/domain"
	accountsvc "storefront-backend/internal/service/account"
)

func getCartHandler(svc *accountsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, err := svc.Cart(c.Request.Context(), userEmail(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

func updateCartHandler(svc *accountsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var lines []domain.CartLine
		if err := c.ShouldBindJSON(&lines); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid cart payload"})
			return
		}
		if err := svc.ReplaceCart(c.Request.Context(), userEmail(c), lines); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

func clearCartHandler(svc *accountsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.ClearCart(c.Request.Context(), userEmail(c)); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

func listAddressesHandler(svc *accountsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		addresses, err := svc.Addresses(c.Request.Context(), userEmail(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, addresses)
	}
}

func addAddressHandler(svc *accountsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var addr domain.Address
		if err := c.ShouldBindJSON(&addr); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid address payload"})
			return
		}
		created, err := svc.AddAddress(c.Request.Context(), userEmail(c), addr)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, created)
	}
}

func updateAddressHandler(svc *accountsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var addr domain.Address
		if err := c.ShouldBindJSON(&addr); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid address payload"})
			return
		}
		if err := svc.UpdateAddress(c.Request.Context(), userEmail(c), c.Param("id"), addr); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

func deleteAddressHandler(svc *accountsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.DeleteAddress(c.Request.Context(), userEmail(c), c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

func listUserOrdersHandler(svc *accountsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := svc.Orders(c.Request.Context(), userEmail(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

func addUserOrderHandler(svc *accountsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var summary domain.OrderSummary
		if err := c.ShouldBindJSON(&summary); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order payload"})
			return
		}
		created, err := svc.AddOrder(c.Request.Context(), userEmail(c), summary)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, created)
	}
}

func getUserOrderHandler(svc *accountsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := svc.Order(c.Request.Context(), userEmail(c), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}
