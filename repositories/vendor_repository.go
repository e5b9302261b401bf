package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/AVigneron/televente_backend/models"
)

// maxUplineDepth caps the parent-pointer walk. A hierarchy deeper than this
// indicates corrupted data, most likely a cycle.
const maxUplineDepth = 50

type VendorRepository struct {
	collection *mongo.Collection
}

func NewVendorRepository(db *mongo.Database) *VendorRepository {
	return &VendorRepository{
		collection: db.Collection("vendors"),
	}
}

// Create inserts a new vendor
func (r *VendorRepository) Create(ctx context.Context, vendor *models.Vendor) error {
	now := time.Now()
	vendor.CreatedAt = now
	vendor.UpdatedAt = now
	result, err := r.collection.InsertOne(ctx, vendor)
	if err != nil {
		return err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		vendor.ID = oid
	}
	return nil
}

// FindByID returns a vendor by id
func (r *VendorRepository) FindByID(ctx context.Context, vendorID primitive.ObjectID) (*models.Vendor, error) {
	var vendor models.Vendor
	if err := r.collection.FindOne(ctx, bson.M{"_id": vendorID}).Decode(&vendor); err != nil {
		return nil, err
	}
	return &vendor, nil
}

// FindByEmail returns a vendor by email
func (r *VendorRepository) FindByEmail(ctx context.Context, email string) (*models.Vendor, error) {
	var vendor models.Vendor
	if err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&vendor); err != nil {
		return nil, err
	}
	return &vendor, nil
}

// FindAll returns every vendor
func (r *VendorRepository) FindAll(ctx context.Context) ([]models.Vendor, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	vendors := []models.Vendor{}
	if err := cursor.All(ctx, &vendors); err != nil {
		return nil, err
	}
	return vendors, nil
}

// GetUplineChain walks the parent pointers above a vendor and returns the
// chain ordered from the closest sponsor (distance 1) to the farthest.
func (r *VendorRepository) GetUplineChain(ctx context.Context, vendorID primitive.ObjectID) ([]models.UplineMember, error) {
	vendor, err := r.FindByID(ctx, vendorID)
	if err != nil {
		return nil, err
	}
	return walkUpline(ctx, vendor, r.FindByID)
}

// vendorFinder resolves one vendor by id, returning mongo.ErrNoDocuments for
// an unknown id.
type vendorFinder func(ctx context.Context, vendorID primitive.ObjectID) (*models.Vendor, error)

// walkUpline follows the parent pointers above a vendor. The walk stops at
// the root of the hierarchy or at a dangling parent reference, and errors on
// a cycle or on a chain deeper than maxUplineDepth.
func walkUpline(ctx context.Context, vendor *models.Vendor, find vendorFinder) ([]models.UplineMember, error) {
	chain := []models.UplineMember{}
	visited := map[primitive.ObjectID]bool{vendor.ID: true}
	parentID := vendor.ParentID

	for distance := 1; !parentID.IsZero(); distance++ {
		if distance > maxUplineDepth {
			return nil, errors.New("upline chain exceeds maximum depth")
		}
		if visited[parentID] {
			return nil, errors.New("cycle detected in vendor hierarchy")
		}
		visited[parentID] = true

		parent, err := find(ctx, parentID)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				break
			}
			return nil, err
		}

		chain = append(chain, models.UplineMember{
			VendorID: parent.ID,
			Position: parent.Position,
			Distance: distance,
		})
		parentID = parent.ParentID
	}

	return chain, nil
}
