package controllers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/AVigneron/televente_backend/config"
	"github.com/AVigneron/televente_backend/middleware"
	"github.com/AVigneron/televente_backend/models"
	"github.com/AVigneron/televente_backend/repositories"
	"github.com/AVigneron/televente_backend/services"
)

type ClientController struct {
	db        *mongo.Database
	installer *services.InstallationService
	card      models.RateCard
}

func NewClientController(db *mongo.Database, card models.RateCard) *ClientController {
	return &ClientController{
		db: db,
		installer: services.NewInstallationService(
			repositories.NewInstallationRepository(db),
			repositories.NewPaymentRepository(db),
			card,
		),
		card: card,
	}
}

// CreateClient registers a new prospect for the authenticated vendor
func (cc *ClientController) CreateClient(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	vendorIDHex, err := middleware.ExtractVendorID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Vendor ID not found in token",
		})
	}
	vendorID, err := primitive.ObjectIDFromHex(vendorIDHex)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid vendor ID format",
		})
	}

	var req models.CreateClientRequest
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
			Message: "Invalid client data",
			Data:    err.Error(),
		})
	}

	productType := models.ProductType(req.ProductType)
	if _, ok := cc.card.ProductPoints[productType]; !ok {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Unknown product type: " + req.ProductType,
		})
	}

	now := time.Now()
	client := models.Client{
		VendorID:    vendorID,
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
		ProductType: productType,
		Status:      models.ClientStatusProspect,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	result, err := cc.db.Collection("clients").InsertOne(ctx, client)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create client",
			Data:    err.Error(),
		})
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		client.ID = oid
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Client created successfully",
		Data:    client,
	})
}

// GetClients returns the authenticated vendor's client portfolio
func (cc *ClientController) GetClients(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	vendorIDHex, err := middleware.ExtractVendorID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, models.Response{
			Status:  http.StatusUnauthorized,
			Message: "Vendor ID not found in token",
		})
	}
	vendorID, err := primitive.ObjectIDFromHex(vendorIDHex)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid vendor ID format",
		})
	}

	cursor, err := cc.db.Collection("clients").Find(ctx, bson.M{"vendorId": vendorID})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch clients",
			Data:    err.Error(),
		})
	}
	defer cursor.Close(ctx)

	clients := []models.Client{}
	if err := cursor.All(ctx, &clients); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode clients",
			Data:    err.Error(),
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Clients fetched successfully",
		Data:    clients,
	})
}

// UpdateClientStatus moves a client through the pipeline. A transition to
// "installation" with a non-null date records an immutable installation event
// and schedules the direct-sale commission payment at that moment, so later
// edits to the client record cannot alter an already-earned commission.
func (cc *ClientController) UpdateClientStatus(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid client ID format",
		})
	}

	var req models.UpdateClientStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
			Data:    err.Error(),
		})
	}

	switch req.Status {
	case models.ClientStatusProspect, models.ClientStatusSigned,
		models.ClientStatusInstallation, models.ClientStatusCancelled:
	default:
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Unknown client status: " + req.Status,
		})
	}

	var client models.Client
	if err := cc.db.Collection("clients").FindOne(ctx, bson.M{"_id": clientID}).Decode(&client); err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Client not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Database error",
			Data:    err.Error(),
		})
	}

	if req.Status != models.ClientStatusInstallation {
		update := bson.M{"status": req.Status, "updatedAt": time.Now()}
		if _, err := cc.db.Collection("clients").UpdateByID(ctx, clientID, bson.M{"$set": update}); err != nil {
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Failed to update client",
				Data:    err.Error(),
			})
		}
		return c.JSON(http.StatusOK, models.Response{
			Status:  http.StatusOK,
			Message: "Client status updated successfully",
		})
	}

	if req.InstallationDate == nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Installation date is required for installation status",
		})
	}

	// The installation event and its commission are written first; the client
	// status flips only after both are durable. A transient failure here
	// leaves the transition retryable instead of stranding the commission
	// behind an already-flipped status.
	schedule, err := cc.installer.RecordInstallation(ctx, client, *req.InstallationDate)
	if err != nil {
		if !errors.Is(err, services.ErrAlreadyInstalled) {
			return c.JSON(http.StatusInternalServerError, models.Response{
				Status:  http.StatusInternalServerError,
				Message: "Failed to record installation",
				Data:    err.Error(),
			})
		}
		if client.Status == models.ClientStatusInstallation {
			return c.JSON(http.StatusConflict, models.Response{
				Status:  http.StatusConflict,
				Message: "Client is already installed",
			})
		}
		// Both records exist from an attempt whose status update failed;
		// finish the transition below.
	}

	update := bson.M{
		"status":           models.ClientStatusInstallation,
		"installationDate": *req.InstallationDate,
		"updatedAt":        time.Now(),
	}
	if _, err := cc.db.Collection("clients").UpdateByID(ctx, clientID, bson.M{"$set": update}); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update client",
			Data:    err.Error(),
		})
	}

	if schedule != nil {
		// The cached monthly result is stale as soon as a new installation lands
		invalidateMonthlyCommissionCache(ctx, client.VendorID, req.InstallationDate.Year(), req.InstallationDate.Month())
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Installation recorded and commission scheduled",
		Data:    schedule,
	})
}

// invalidateMonthlyCommissionCache drops the cached monthly result for a
// vendor/month. A missing Redis connection only disables caching.
func invalidateMonthlyCommissionCache(ctx context.Context, vendorID primitive.ObjectID, year int, month time.Month) {
	redisClient := config.GetRedisClient()
	if redisClient == nil {
		return
	}
	if err := redisClient.Del(ctx, monthlyCommissionCacheKey(vendorID, year, month)).Err(); err != nil {
		log.Printf("Failed to invalidate commission cache: %v", err)
	}
}

func monthlyCommissionCacheKey(vendorID primitive.ObjectID, year int, month time.Month) string {
	return fmt.Sprintf("commission:%s:%04d-%02d", vendorID.Hex(), year, int(month))
}
