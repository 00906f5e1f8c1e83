package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/tindora/tindora-api/controllers"
	"github.com/tindora/tindora-api/middlewares"
)

func WalletRoutes(server *gin.Engine, wallets *controllers.WalletController, jwtSecret string) {
	server.GET("/wallet/:userId", middlewares.RequireAuth(jwtSecret), wallets.GetWallet)
}
