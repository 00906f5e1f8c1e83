package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/tindora/tindora-api/controllers"
	"github.com/tindora/tindora-api/middlewares"
)

func AdminRoutes(
	server *gin.Engine,
	orders *controllers.OrderController,
	fees *controllers.FeeSettingsController,
	zones *controllers.ZoneController,
	wallets *controllers.WalletController,
	jwtSecret string,
) {
	admin := server.Group("/admin", middlewares.RequireAuth(jwtSecret), middlewares.RequireAdmin())
	{
		admin.GET("/orders", orders.GetOrders)
		admin.PATCH("/order/:orderId/status", orders.UpdateOrderStatus)
		admin.POST("/fee-settings", fees.CreateFeeSettings)
		admin.GET("/fee-settings", fees.GetActiveFeeSettings)
		admin.POST("/zones", zones.CreateZone)
		admin.GET("/zones", zones.GetZones)
		admin.POST("/wallet/:userId/credit", wallets.CreditWallet)
	}
}
