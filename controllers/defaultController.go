package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func GetHome(ctx *gin.Context) {
	message := `Welcome to the Tindora API. Enjoy seamless interaction with this API.

The following are the endpoints for this API:

ORDER
- POST "/order" - Place a new order
- POST "/order/:orderId/verify-payment" - Verify a gateway payment
- POST "/order/:orderId/cancel" - Cancel an order
- POST "/order/quote" - Calculate pricing without placing an order
- GET "/order/:orderId" - Get order by ID
- GET "/user/:userId/orders" - Get orders for a specific user

WALLET
- GET "/wallet/:userId" - Get wallet balance and transactions

ADMIN
- GET "/admin/orders" - Retrieve all orders
- PATCH "/admin/order/:orderId/status" - Update order status
- POST "/admin/fee-settings" - Activate a fee policy
- GET "/admin/fee-settings" - Get the active fee policy
- POST "/admin/zones" - Create a delivery zone
- GET "/admin/zones" - Get all delivery zones
- POST "/admin/wallet/:userId/credit" - Credit a user wallet`

	ctx.JSON(http.StatusOK, gin.H{
		"message": message,
	})
}

func HealthCheck(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}
