package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/Adi-ops16/Swift-Tix-server/internal/checkout"
)

func CheckoutMiddleware(gateway checkout.Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("checkout_gateway", gateway)
		c.Next()
	}
}

func GetCheckoutGateway(c *gin.Context) checkout.Gateway {
	gateway, exists := c.Get("checkout_gateway")
	if !exists {
		return nil
	}
	return gateway.(checkout.Gateway)
}
