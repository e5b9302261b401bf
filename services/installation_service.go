package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/AVigneron/televente_backend/models"
)

// ErrAlreadyInstalled reports that the client already has both an
// installation event and its commission schedule entry.
var ErrAlreadyInstalled = errors.New("installation already recorded for client")

// InstallationStore is the installation persistence surface the recorder needs
type InstallationStore interface {
	InstallationSource
	Create(ctx context.Context, installation *models.Installation) error
	FindByClient(ctx context.Context, clientID primitive.ObjectID) ([]models.Installation, error)
}

// PaymentStore is the schedule persistence surface used by the services that
// create commission payments.
type PaymentStore interface {
	Create(ctx context.Context, entry *models.PaymentSchedule) error
	FindByClient(ctx context.Context, clientID primitive.ObjectID) ([]models.PaymentSchedule, error)
	HasCCAForSourceMonth(ctx context.Context, sourceID primitive.ObjectID, year int, month time.Month) (bool, error)
}

// InstallationService records installation events and their commission
// schedule entries. There is no multi-document transaction here, so the write
// order is chosen to make every partial-failure state retryable: a repeated
// call converges on exactly one installation event and one CVD schedule entry
// per client instead of leaving the commission unrecorded.
type InstallationService struct {
	installations InstallationStore
	payments      PaymentStore
	cvd           *CVDService
}

func NewInstallationService(installations InstallationStore, payments PaymentStore, card models.RateCard) *InstallationService {
	return &InstallationService{
		installations: installations,
		payments:      payments,
		cvd:           NewCVDService(installations, card),
	}
}

// RecordInstallation writes the immutable installation event, prices the unit
// at the vendor's current monthly tier and schedules the CVD payment. If an
// earlier attempt failed between the two writes, the missing schedule entry
// is created without duplicating the event. Returns ErrAlreadyInstalled once
// both records exist.
func (s *InstallationService) RecordInstallation(ctx context.Context, client models.Client, installationDate time.Time) (*models.PaymentSchedule, error) {
	existing, err := s.installations.FindByClient(ctx, client.ID)
	if err != nil {
		return nil, err
	}

	if len(existing) > 0 {
		schedules, err := s.payments.FindByClient(ctx, client.ID)
		if err != nil {
			return nil, err
		}
		for _, entry := range schedules {
			if entry.Type == models.PaymentTypeCVD {
				return nil, ErrAlreadyInstalled
			}
		}
		// The event exists but its schedule entry is missing; keep the
		// recorded date and finish the job.
		installationDate = existing[0].InstallationDate
	} else {
		installation := &models.Installation{
			VendorID:         client.VendorID,
			ClientID:         client.ID,
			ProductType:      client.ProductType,
			InstallationDate: installationDate,
		}
		if err := s.installations.Create(ctx, installation); err != nil {
			return nil, err
		}
	}

	// Unit price at the tier resolved from the month's points including this
	// installation. The monthly rollup recomputes from all installations, so
	// earlier entries of the month are re-priced retroactively there.
	result, err := s.cvd.ComputeMonthlyCommission(ctx, client.VendorID, installationDate.Year(), installationDate.Month())
	if err != nil {
		return nil, err
	}
	unitPrice := 0.0
	for _, line := range result.Breakdown {
		if line.ProductType == client.ProductType {
			unitPrice = line.UnitPrice
			break
		}
	}

	paymentDate, err := SchedulePayment(models.PaymentTypeCVD, installationDate)
	if err != nil {
		return nil, err
	}

	schedule := &models.PaymentSchedule{
		Reference:   uuid.New().String(),
		Type:        models.PaymentTypeCVD,
		VendorID:    client.VendorID,
		ClientID:    client.ID,
		ProductType: client.ProductType,
		TriggerDate: installationDate,
		PaymentDate: paymentDate,
		Amount:      unitPrice,
		Status:      models.PaymentStatusPending,
	}
	if err := s.payments.Create(ctx, schedule); err != nil {
		return nil, err
	}

	return schedule, nil
}
