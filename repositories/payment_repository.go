package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AVigneron/televente_backend/models"
)

type PaymentRepository struct {
	collection *mongo.Collection
}

func NewPaymentRepository(db *mongo.Database) *PaymentRepository {
	return &PaymentRepository{
		collection: db.Collection("paymentSchedules"),
	}
}

// Create inserts a new schedule entry
func (r *PaymentRepository) Create(ctx context.Context, entry *models.PaymentSchedule) error {
	entry.CreatedAt = time.Now()
	result, err := r.collection.InsertOne(ctx, entry)
	if err != nil {
		return err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		entry.ID = oid
	}
	return nil
}

// FindByVendor returns all schedule entries owned by a vendor, oldest
// payment date first
func (r *PaymentRepository) FindByVendor(ctx context.Context, vendorID primitive.ObjectID) ([]models.PaymentSchedule, error) {
	opts := options.Find().SetSort(bson.D{{Key: "paymentDate", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"vendorId": vendorID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	entries := []models.PaymentSchedule{}
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// FindByClient returns the schedule entries created from one client record
func (r *PaymentRepository) FindByClient(ctx context.Context, clientID primitive.ObjectID) ([]models.PaymentSchedule, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"clientId": clientID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	entries := []models.PaymentSchedule{}
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// HasCCAForSourceMonth reports whether a CCA distribution triggered by the
// given vendor was already persisted for the given month.
func (r *PaymentRepository) HasCCAForSourceMonth(ctx context.Context, sourceID primitive.ObjectID, year int, month time.Month) (bool, error) {
	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	filter := bson.M{
		"type":           models.PaymentTypeCCA,
		"sourceVendorId": sourceID,
		"triggerDate": bson.M{
			"$gte": monthStart,
			"$lt":  monthStart.AddDate(0, 1, 0),
		},
	}
	count, err := r.collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindPending returns every pending schedule entry across all vendors
func (r *PaymentRepository) FindPending(ctx context.Context) ([]models.PaymentSchedule, error) {
	opts := options.Find().SetSort(bson.D{{Key: "paymentDate", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"status": models.PaymentStatusPending}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	entries := []models.PaymentSchedule{}
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// MarkPaid settles a pending entry with a single atomic update, so two
// settlement actions racing on the same entry cannot both succeed. Returns
// mongo.ErrNoDocuments if the entry does not exist or was already paid.
func (r *PaymentRepository) MarkPaid(ctx context.Context, entryID primitive.ObjectID) (*models.PaymentSchedule, error) {
	now := time.Now()
	filter := bson.M{
		"_id":    entryID,
		"status": models.PaymentStatusPending,
	}
	update := bson.M{
		"$set": bson.M{
			"status": models.PaymentStatusPaid,
			"paidAt": now,
		},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var entry models.PaymentSchedule
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&entry); err != nil {
		return nil, err
	}
	return &entry, nil
}
