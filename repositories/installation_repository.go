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

type InstallationRepository struct {
	collection *mongo.Collection
}

func NewInstallationRepository(db *mongo.Database) *InstallationRepository {
	return &InstallationRepository{
		collection: db.Collection("installations"),
	}
}

// Create records a new installation event. The record is immutable once
// written; later edits to the originating client record do not touch it.
func (r *InstallationRepository) Create(ctx context.Context, installation *models.Installation) error {
	installation.CreatedAt = time.Now()
	result, err := r.collection.InsertOne(ctx, installation)
	if err != nil {
		return err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		installation.ID = oid
	}
	return nil
}

// FindByVendorAndMonth returns the vendor's installation events whose
// installation date falls inside the given calendar month, sorted by date.
func (r *InstallationRepository) FindByVendorAndMonth(ctx context.Context, vendorID primitive.ObjectID, year int, month time.Month) ([]models.Installation, error) {
	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	nextMonthStart := monthStart.AddDate(0, 1, 0)

	filter := bson.M{
		"vendorId": vendorID,
		"installationDate": bson.M{
			"$gte": monthStart,
			"$lt":  nextMonthStart,
		},
	}

	opts := options.Find().SetSort(bson.D{{Key: "installationDate", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	installations := []models.Installation{}
	if err := cursor.All(ctx, &installations); err != nil {
		return nil, err
	}
	return installations, nil
}

// FindByClient returns the installation events created from a client record
func (r *InstallationRepository) FindByClient(ctx context.Context, clientID primitive.ObjectID) ([]models.Installation, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"clientId": clientID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	installations := []models.Installation{}
	if err := cursor.All(ctx, &installations); err != nil {
		return nil, err
	}
	return installations, nil
}
