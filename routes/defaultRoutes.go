package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/tindora/tindora-api/controllers"
)

func DefaultRoutes(server *gin.Engine) {
	server.GET("/", controllers.GetHome)
	server.GET("/health", controllers.HealthCheck)
}
