package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/AVigneron/televente_backend/controllers"
	"github.com/AVigneron/televente_backend/middleware"
	"github.com/AVigneron/televente_backend/models"
)

// RegisterCommissionRoutes sets up the commission computation routes
func RegisterCommissionRoutes(e *echo.Echo, db *mongo.Database, card models.RateCard) {
	commissionController := controllers.NewCommissionController(db, card)

	commission := e.Group("/api/commission")
	commission.Use(middleware.JWTMiddleware())

	commission.GET("/monthly", commissionController.GetMonthlyCommission)
	commission.POST("/monthly/send-statement", commissionController.SendMonthlyStatement)
	commission.POST("/cae-qualification", commissionController.HandleCAEQualification,
		middleware.RequireUserType("manager", "admin"))
}
