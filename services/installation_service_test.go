package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/AVigneron/televente_backend/models"
)

type fakeInstallationStore struct {
	installations []models.Installation
	failCreate    error
}

func (f *fakeInstallationStore) Create(_ context.Context, installation *models.Installation) error {
	if f.failCreate != nil {
		return f.failCreate
	}
	installation.ID = primitive.NewObjectID()
	f.installations = append(f.installations, *installation)
	return nil
}

func (f *fakeInstallationStore) FindByClient(_ context.Context, clientID primitive.ObjectID) ([]models.Installation, error) {
	found := []models.Installation{}
	for _, inst := range f.installations {
		if inst.ClientID == clientID {
			found = append(found, inst)
		}
	}
	return found, nil
}

func (f *fakeInstallationStore) FindByVendorAndMonth(_ context.Context, vendorID primitive.ObjectID, year int, month time.Month) ([]models.Installation, error) {
	found := []models.Installation{}
	for _, inst := range f.installations {
		if inst.VendorID == vendorID &&
			inst.InstallationDate.Year() == year && inst.InstallationDate.Month() == month {
			found = append(found, inst)
		}
	}
	return found, nil
}

type fakePaymentStore struct {
	entries    []models.PaymentSchedule
	failCreate error
}

func (f *fakePaymentStore) Create(_ context.Context, entry *models.PaymentSchedule) error {
	if f.failCreate != nil {
		return f.failCreate
	}
	entry.ID = primitive.NewObjectID()
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakePaymentStore) FindByClient(_ context.Context, clientID primitive.ObjectID) ([]models.PaymentSchedule, error) {
	found := []models.PaymentSchedule{}
	for _, entry := range f.entries {
		if entry.ClientID == clientID {
			found = append(found, entry)
		}
	}
	return found, nil
}

func (f *fakePaymentStore) HasCCAForSourceMonth(_ context.Context, sourceID primitive.ObjectID, year int, month time.Month) (bool, error) {
	for _, entry := range f.entries {
		if entry.Type == models.PaymentTypeCCA && entry.SourceVendorID == sourceID &&
			entry.TriggerDate.Year() == year && entry.TriggerDate.Month() == month {
			return true, nil
		}
	}
	return false, nil
}

func signedClient(vendorID primitive.ObjectID, product models.ProductType) models.Client {
	return models.Client{
		ID:          primitive.NewObjectID(),
		VendorID:    vendorID,
		FullName:    "Jean Dupont",
		ProductType: product,
		Status:      models.ClientStatusSigned,
	}
}

func TestRecordInstallation_CreatesEventAndSchedule(t *testing.T) {
	installs := &fakeInstallationStore{}
	payments := &fakePaymentStore{}
	svc := NewInstallationService(installs, payments, models.DefaultRateCard())
	client := signedClient(primitive.NewObjectID(), models.ProductFreeboxPop)

	schedule, err := svc.RecordInstallation(context.Background(), client, date(2025, time.June, 10))
	require.NoError(t, err)

	require.Len(t, installs.installations, 1)
	assert.Equal(t, client.VendorID, installs.installations[0].VendorID)
	assert.Equal(t, client.ID, installs.installations[0].ClientID)

	require.Len(t, payments.entries, 1)
	assert.Equal(t, models.PaymentTypeCVD, schedule.Type)
	assert.Equal(t, date(2025, time.July, 15), schedule.PaymentDate)
	assert.Equal(t, models.PaymentStatusPending, schedule.Status)

	// Single Pop in the month = 4 points, tier 1 rate
	tier1Rate := models.DefaultRateCard().CommissionTable[models.ProductFreeboxPop][0]
	assert.Equal(t, tier1Rate, schedule.Amount)

	_, err = uuid.Parse(schedule.Reference)
	assert.NoError(t, err)
}

func TestRecordInstallation_PricedAtCurrentMonthlyTier(t *testing.T) {
	vendorID := primitive.NewObjectID()
	installs := &fakeInstallationStore{}
	for i := 0; i < 6; i++ {
		installs.installations = append(installs.installations, models.Installation{
			ID:               primitive.NewObjectID(),
			VendorID:         vendorID,
			ClientID:         primitive.NewObjectID(),
			ProductType:      models.ProductFreeboxPop,
			InstallationDate: date(2025, time.June, 1+i),
		})
	}
	payments := &fakePaymentStore{}
	svc := NewInstallationService(installs, payments, models.DefaultRateCard())

	// The 7th Pop pushes the month to 28 points: tier 2
	schedule, err := svc.RecordInstallation(context.Background(),
		signedClient(vendorID, models.ProductFreeboxPop), date(2025, time.June, 20))
	require.NoError(t, err)

	tier2Rate := models.DefaultRateCard().CommissionTable[models.ProductFreeboxPop][1]
	assert.Equal(t, tier2Rate, schedule.Amount)
}

func TestRecordInstallation_SecondCallRejected(t *testing.T) {
	installs := &fakeInstallationStore{}
	payments := &fakePaymentStore{}
	svc := NewInstallationService(installs, payments, models.DefaultRateCard())
	client := signedClient(primitive.NewObjectID(), models.ProductFreeboxUltra)

	_, err := svc.RecordInstallation(context.Background(), client, date(2025, time.June, 10))
	require.NoError(t, err)

	_, err = svc.RecordInstallation(context.Background(), client, date(2025, time.June, 11))
	require.ErrorIs(t, err, ErrAlreadyInstalled)

	assert.Len(t, installs.installations, 1)
	assert.Len(t, payments.entries, 1)
}

func TestRecordInstallation_RetryAfterEventCreateFailure(t *testing.T) {
	installs := &fakeInstallationStore{failCreate: errors.New("connection reset")}
	payments := &fakePaymentStore{}
	svc := NewInstallationService(installs, payments, models.DefaultRateCard())
	client := signedClient(primitive.NewObjectID(), models.ProductFreeboxPop)

	_, err := svc.RecordInstallation(context.Background(), client, date(2025, time.June, 10))
	require.Error(t, err)
	assert.Empty(t, installs.installations)
	assert.Empty(t, payments.entries)

	installs.failCreate = nil
	schedule, err := svc.RecordInstallation(context.Background(), client, date(2025, time.June, 10))
	require.NoError(t, err)
	require.NotNil(t, schedule)
	assert.Len(t, installs.installations, 1)
	assert.Len(t, payments.entries, 1)
}

func TestRecordInstallation_RetryAfterScheduleCreateFailure(t *testing.T) {
	// The event was written but the schedule insert failed. The retry must
	// create the missing schedule entry without duplicating the event.
	installs := &fakeInstallationStore{}
	payments := &fakePaymentStore{failCreate: errors.New("connection reset")}
	svc := NewInstallationService(installs, payments, models.DefaultRateCard())
	client := signedClient(primitive.NewObjectID(), models.ProductFreeboxPop)

	_, err := svc.RecordInstallation(context.Background(), client, date(2025, time.June, 10))
	require.Error(t, err)
	assert.Len(t, installs.installations, 1)
	assert.Empty(t, payments.entries)

	payments.failCreate = nil
	schedule, err := svc.RecordInstallation(context.Background(), client, date(2025, time.June, 10))
	require.NoError(t, err)
	require.NotNil(t, schedule)
	assert.Len(t, installs.installations, 1)
	require.Len(t, payments.entries, 1)
	assert.Equal(t, date(2025, time.July, 15), payments.entries[0].PaymentDate)
}

func TestRecordInstallation_DistinctReferences(t *testing.T) {
	vendorID := primitive.NewObjectID()
	installs := &fakeInstallationStore{}
	payments := &fakePaymentStore{}
	svc := NewInstallationService(installs, payments, models.DefaultRateCard())

	first, err := svc.RecordInstallation(context.Background(),
		signedClient(vendorID, models.ProductFreeboxPop), date(2025, time.June, 10))
	require.NoError(t, err)
	second, err := svc.RecordInstallation(context.Background(),
		signedClient(vendorID, models.ProductFreeboxPop), date(2025, time.June, 11))
	require.NoError(t, err)

	assert.NotEmpty(t, first.Reference)
	assert.NotEqual(t, first.Reference, second.Reference)
}
