package controllers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/AVigneron/televente_backend/middleware"
	"github.com/AVigneron/televente_backend/models"
	"github.com/AVigneron/televente_backend/repositories"
	"github.com/AVigneron/televente_backend/services"
)

type PaymentController struct {
	payments *repositories.PaymentRepository
}

func NewPaymentController(db *mongo.Database) *PaymentController {
	return &PaymentController{
		payments: repositories.NewPaymentRepository(db),
	}
}

func (pc *PaymentController) vendorFromRequest(c echo.Context) (primitive.ObjectID, error) {
	vendorIDHex := c.QueryParam("vendorId")
	if vendorIDHex == "" {
		var err error
		vendorIDHex, err = middleware.ExtractVendorID(c)
		if err != nil {
			return primitive.NilObjectID, err
		}
	}
	return primitive.ObjectIDFromHex(vendorIDHex)
}

// GetUpcomingPayments returns a vendor's pending payments that are not yet
// due, split by type with running totals
func (pc *PaymentController) GetUpcomingPayments(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	vendorID, err := pc.vendorFromRequest(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid vendor ID",
		})
	}

	entries, err := pc.payments.FindByVendor(ctx, vendorID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch payment schedules",
			Data:    err.Error(),
		})
	}

	upcoming := services.GetUpcomingPayments(vendorID, entries, time.Now())

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Upcoming payments fetched successfully",
		Data:    upcoming,
	})
}

// GetOverduePayments reports a vendor's pending entries past their payment
// date. The stored status is untouched; overdue is a derived classification.
func (pc *PaymentController) GetOverduePayments(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	vendorID, err := pc.vendorFromRequest(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid vendor ID",
		})
	}

	entries, err := pc.payments.FindByVendor(ctx, vendorID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch payment schedules",
			Data:    err.Error(),
		})
	}

	overdue := services.CheckOverduePayments(entries, time.Now())

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Overdue payments fetched successfully",
		Data:    overdue,
	})
}

// GetMonthlyReport lists the pending payments falling due in the given month
func (pc *PaymentController) GetMonthlyReport(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	year, err := strconv.Atoi(c.QueryParam("year"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid or missing year parameter",
		})
	}
	monthNum, err := strconv.Atoi(c.QueryParam("month"))
	if err != nil || monthNum < 1 || monthNum > 12 {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid or missing month parameter",
		})
	}

	entries, err := pc.payments.FindPending(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch payment schedules",
			Data:    err.Error(),
		})
	}

	report := services.GenerateMonthlyPaymentReport(time.Month(monthNum), year, entries)

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Monthly payment report generated successfully",
		Data:    report,
	})
}

// MarkPaymentPaid settles a pending schedule entry. The update is a single
// atomic document operation, so two settlement actions racing on the same
// entry cannot both succeed.
func (pc *PaymentController) MarkPaymentPaid(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	entryID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid payment ID format",
		})
	}

	entry, err := pc.payments.MarkPaid(ctx, entryID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusConflict, models.Response{
				Status:  http.StatusConflict,
				Message: "Payment not found or already paid",
			})
		}
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to mark payment as paid",
			Data:    err.Error(),
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Payment marked as paid",
		Data:    entry,
	})
}
