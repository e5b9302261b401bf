package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/AVigneron/televente_backend/config"
	"github.com/AVigneron/televente_backend/middleware"
	"github.com/AVigneron/televente_backend/models"
	"github.com/AVigneron/televente_backend/repositories"
	"github.com/AVigneron/televente_backend/services"
	"github.com/AVigneron/televente_backend/utils"
)

// monthlyCommissionCacheTTL bounds the staleness window when an installation
// is recorded by another instance that cannot reach Redis.
const monthlyCommissionCacheTTL = 10 * time.Minute

type CommissionController struct {
	vendors  *repositories.VendorRepository
	payments *repositories.PaymentRepository
	cvd      *services.CVDService
	cae      *services.CAEService
}

func NewCommissionController(db *mongo.Database, card models.RateCard) *CommissionController {
	installations := repositories.NewInstallationRepository(db)
	return &CommissionController{
		vendors:  repositories.NewVendorRepository(db),
		payments: repositories.NewPaymentRepository(db),
		cvd:      services.NewCVDService(installations, card),
		cae:      services.NewCAEService(card),
	}
}

// resolveVendorAndMonth reads the vendorId (optional, defaults to the
// authenticated vendor) and month (YYYY-MM, defaults to the current month)
// query parameters.
func resolveVendorAndMonth(c echo.Context) (primitive.ObjectID, int, time.Month, error) {
	vendorIDHex := c.QueryParam("vendorId")
	if vendorIDHex == "" {
		var err error
		vendorIDHex, err = middleware.ExtractVendorID(c)
		if err != nil {
			return primitive.NilObjectID, 0, 0, fmt.Errorf("vendor ID not found in token")
		}
	}
	vendorID, err := primitive.ObjectIDFromHex(vendorIDHex)
	if err != nil {
		return primitive.NilObjectID, 0, 0, fmt.Errorf("invalid vendor ID format")
	}

	now := time.Now()
	year, month := now.Year(), now.Month()
	if monthParam := c.QueryParam("month"); monthParam != "" {
		parsed, err := time.Parse("2006-01", monthParam)
		if err != nil {
			return primitive.NilObjectID, 0, 0, fmt.Errorf("invalid month format, expected YYYY-MM")
		}
		year, month = parsed.Year(), parsed.Month()
	}

	return vendorID, year, month, nil
}

// GetMonthlyCommission returns a vendor's CVD commission for one month.
// Results are cached per vendor/month; the cache entry is dropped whenever a
// new installation is recorded for that month.
func (cmc *CommissionController) GetMonthlyCommission(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	vendorID, year, month, err := resolveVendorAndMonth(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	cacheKey := monthlyCommissionCacheKey(vendorID, year, month)
	if redisClient := config.GetRedisClient(); redisClient != nil {
		if cached, err := redisClient.Get(ctx, cacheKey).Result(); err == nil {
			var result models.CommissionResult
			if err := json.Unmarshal([]byte(cached), &result); err == nil {
				return c.JSON(http.StatusOK, models.Response{
					Status:  http.StatusOK,
					Message: "Monthly commission fetched successfully",
					Data:    result,
				})
			}
		}
	}

	result, err := cmc.cvd.ComputeMonthlyCommission(ctx, vendorID, year, month)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Could not load commission data",
			Data:    err.Error(),
		})
	}

	if redisClient := config.GetRedisClient(); redisClient != nil {
		if encoded, err := json.Marshal(result); err == nil {
			if err := redisClient.Set(ctx, cacheKey, encoded, monthlyCommissionCacheTTL).Err(); err != nil {
				log.Printf("Failed to cache commission result: %v", err)
			}
		}
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Monthly commission fetched successfully",
		Data:    result,
	})
}

// CAEQualificationRequest triggers a team-animation bonus distribution for a
// vendor who reached the qualification threshold this month
type CAEQualificationRequest struct {
	VendorID string `json:"vendorId" validate:"required"`
}

// HandleCAEQualification checks the vendor's points for the current month,
// distributes the bonus across the upline chain and schedules one CCA
// payment per beneficiary. A vendor below the threshold yields an empty
// distribution, not an error.
func (cmc *CommissionController) HandleCAEQualification(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req CAEQualificationRequest
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
			Message: "Vendor ID is required",
		})
	}

	vendorID, err := primitive.ObjectIDFromHex(req.VendorID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid vendor ID format",
		})
	}

	now := time.Now()
	points, err := cmc.cvd.MonthlyPoints(ctx, vendorID, now.Year(), now.Month())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Could not load commission data",
			Data:    err.Error(),
		})
	}

	chain, err := cmc.vendors.GetUplineChain(ctx, vendorID)
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

	qualifier := models.CAEQualifier{VendorID: vendorID, PointsThisMonth: points}
	distribution, err := cmc.cae.RecordDistribution(ctx, cmc.payments, qualifier, chain, now)
	if err != nil {
		if errors.Is(err, services.ErrAlreadyDistributed) {
			return c.JSON(http.StatusConflict, models.Response{
				Status:  http.StatusConflict,
				Message: "CAE qualification already processed for this month",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to record distribution",
			Data:    err.Error(),
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "CAE qualification processed successfully",
		Data:    distribution,
	})
}

// SendMonthlyStatement emails the monthly commission breakdown to a vendor
func (cmc *CommissionController) SendMonthlyStatement(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	vendorID, year, month, err := resolveVendorAndMonth(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	vendor, err := cmc.vendors.FindByID(ctx, vendorID)
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

	result, err := cmc.cvd.ComputeMonthlyCommission(ctx, vendorID, year, month)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Could not load commission data",
			Data:    err.Error(),
		})
	}

	body := formatStatement(vendor.FullName, result)
	subject := fmt.Sprintf("Commission statement %04d-%02d", year, int(month))
	if err := utils.SendNotificationEmail(vendor.Email, subject, body); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to send statement email",
			Data:    err.Error(),
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Statement sent successfully",
	})
}

func formatStatement(fullName string, result *models.CommissionResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n", fullName)
	fmt.Fprintf(&b, "Commission statement for %04d-%02d\n", result.Year, result.Month)
	fmt.Fprintf(&b, "Total points: %d (tier %d)\n\n", result.TotalPoints, result.Tier)
	for _, line := range result.Breakdown {
		fmt.Fprintf(&b, "%-20s x%d @ %.2f EUR = %.2f EUR\n",
			line.ProductType, line.Count, line.UnitPrice, line.Commission)
	}
	fmt.Fprintf(&b, "\nTotal commission: %.2f EUR\n", result.TotalCommission)
	return b.String()
}
