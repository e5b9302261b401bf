package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/AVigneron/televente_backend/controllers"
	"github.com/AVigneron/televente_backend/middleware"
)

// RegisterPaymentRoutes sets up the payment schedule routes
func RegisterPaymentRoutes(e *echo.Echo, db *mongo.Database) {
	paymentController := controllers.NewPaymentController(db)

	payments := e.Group("/api/payments")
	payments.Use(middleware.JWTMiddleware())

	payments.GET("/upcoming", paymentController.GetUpcomingPayments)
	payments.GET("/overdue", paymentController.GetOverduePayments)
	payments.GET("/report", paymentController.GetMonthlyReport, middleware.RequireUserType("manager", "admin"))
	payments.POST("/:id/pay", paymentController.MarkPaymentPaid, middleware.RequireUserType("manager", "admin"))
}
