package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/tindora/tindora-api/controllers"
	"github.com/tindora/tindora-api/middlewares"
)

func OrderRoutes(server *gin.Engine, orders *controllers.OrderController, jwtSecret string) {
	auth := middlewares.RequireAuth(jwtSecret)

	server.POST("/order", auth, orders.CreateOrder)
	server.POST("/order/quote", auth, orders.CalculatePricing)
	server.POST("/order/:orderId/verify-payment", auth, orders.VerifyPayment)
	server.POST("/order/:orderId/cancel", auth, orders.CancelOrder)
	server.GET("/order/:orderId", auth, orders.GetOrderByID)
	server.GET("/user/:userId/orders", auth, orders.GetOrdersByCustomer)
}
