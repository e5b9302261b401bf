package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/AVigneron/televente_backend/models"
	"github.com/AVigneron/televente_backend/repositories"
	"github.com/AVigneron/televente_backend/utils"
)

type VendorController struct {
	vendors *repositories.VendorRepository
	card    models.RateCard
}

func NewVendorController(db *mongo.Database, card models.RateCard) *VendorController {
	return &VendorController{
		vendors: repositories.NewVendorRepository(db),
		card:    card,
	}
}

// CreateVendor enrolls a new salesforce member under an existing sponsor
func (vc *VendorController) CreateVendor(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.CreateVendorRequest
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
			Message: "Invalid vendor data",
			Data:    err.Error(),
		})
	}

	position := models.Position(req.Position)
	if _, ok := vc.card.CAEBonuses[position]; !ok {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Unknown position: " + req.Position,
		})
	}

	var parentID primitive.ObjectID
	if req.ParentID != "" {
		var err error
		parentID, err = primitive.ObjectIDFromHex(req.ParentID)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid parent ID format",
			})
		}
		if _, err := vc.vendors.FindByID(ctx, parentID); err != nil {
			if err == mongo.ErrNoDocuments {
				return c.JSON(http.StatusNotFound, models.Response{
					Status:  http.StatusNotFound,
					Message: "Sponsor not found",
				})
			}
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Database error",
				Data:    err.Error(),
			})
		}
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to hash password",
		})
	}

	referralCode, err := utils.GenerateVendorCode()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate referral code",
		})
	}

	vendor := &models.Vendor{
		FullName:     req.FullName,
		Email:        req.Email,
		PhoneNumber:  req.PhoneNumber,
		Password:     hashedPassword,
		Position:     position,
		ParentID:     parentID,
		Region:       req.Region,
		ReferralCode: referralCode,
		IsActive:     true,
	}

	if err := vc.vendors.Create(ctx, vendor); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create vendor",
			Data:    err.Error(),
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Vendor created successfully",
		Data:    vendor,
	})
}

// GetVendor returns one vendor by id
func (vc *VendorController) GetVendor(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	vendorID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid vendor ID format",
		})
	}

	vendor, err := vc.vendors.FindByID(ctx, vendorID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Vendor not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Database error",
			Data:    err.Error(),
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Vendor fetched successfully",
		Data:    vendor,
	})
}

// GetAllVendors returns the whole salesforce
func (vc *VendorController) GetAllVendors(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	vendors, err := vc.vendors.FindAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch vendors",
			Data:    err.Error(),
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Vendors fetched successfully",
		Data:    vendors,
	})
}

// GetUplineChain returns the ordered sponsor chain above a vendor
func (vc *VendorController) GetUplineChain(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	vendorID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid vendor ID format",
		})
	}

	chain, err := vc.vendors.GetUplineChain(ctx, vendorID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Vendor not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to build upline chain",
			Data:    err.Error(),
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Upline chain fetched successfully",
		Data:    chain,
	})
}
