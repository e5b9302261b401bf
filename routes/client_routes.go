package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/AVigneron/televente_backend/controllers"
	"github.com/AVigneron/televente_backend/middleware"
	"github.com/AVigneron/televente_backend/models"
)

// RegisterClientRoutes sets up the CRM client pipeline routes
func RegisterClientRoutes(e *echo.Echo, db *mongo.Database, card models.RateCard) {
	clientController := controllers.NewClientController(db, card)

	clients := e.Group("/api/clients")
	clients.Use(middleware.JWTMiddleware())

	clients.POST("", clientController.CreateClient)
	clients.GET("", clientController.GetClients)
	clients.PUT("/:id/status", clientController.UpdateClientStatus)
}
