package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/AVigneron/televente_backend/middleware"
	"github.com/AVigneron/televente_backend/models"
	"github.com/AVigneron/televente_backend/repositories"
	"github.com/AVigneron/televente_backend/utils"
)

type AuthController struct {
	vendors *repositories.VendorRepository
}

func NewAuthController(db *mongo.Database) *AuthController {
	return &AuthController{
		vendors: repositories.NewVendorRepository(db),
	}
}

// Login authenticates a vendor and returns a JWT token
func (ac *AuthController) Login(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.VendorLoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
			Data:    err.Error(),
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Email and password are required",
		})
	}

	vendor, err := ac.vendors.FindByEmail(ctx, req.Email)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusUnauthorized, models.Response{
				Status:  http.StatusUnauthorized,
				Message: "Invalid email or password",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Database error",
			Data:    err.Error(),
		})
	}

	if err := utils.CheckPassword(vendor.Password, req.Password); err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Invalid email or password",
		})
	}

	// Managers and above get access to the settlement and reporting routes
	userType := "vendor"
	switch vendor.Position {
	case models.PositionManager, models.PositionRC, models.PositionRD,
		models.PositionRVP, models.PositionSVP:
		userType = "manager"
	}

	token, err := middleware.GenerateJWT(vendor.ID.Hex(), vendor.Email, userType)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate token",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Login successful",
		Data: map[string]interface{}{
			"token":  token,
			"vendor": vendor,
		},
	})
}
