package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/AVigneron/televente_backend/controllers"
	"github.com/AVigneron/televente_backend/middleware"
	"github.com/AVigneron/televente_backend/models"
)

// RegisterVendorRoutes sets up the salesforce management routes
func RegisterVendorRoutes(e *echo.Echo, db *mongo.Database, card models.RateCard) {
	vendorController := controllers.NewVendorController(db, card)

	vendors := e.Group("/api/vendors")
	vendors.Use(middleware.JWTMiddleware())

	// Enrollment is restricted to managers and admins
	vendors.POST("", vendorController.CreateVendor, middleware.RequireUserType("manager", "admin"))
	vendors.GET("", vendorController.GetAllVendors)
	vendors.GET("/:id", vendorController.GetVendor)
	vendors.GET("/:id/upline", vendorController.GetUplineChain)
}
