package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/AVigneron/televente_backend/models"
)

func finderFor(vendors ...*models.Vendor) vendorFinder {
	byID := make(map[primitive.ObjectID]*models.Vendor, len(vendors))
	for _, v := range vendors {
		byID[v.ID] = v
	}
	return func(_ context.Context, vendorID primitive.ObjectID) (*models.Vendor, error) {
		v, ok := byID[vendorID]
		if !ok {
			return nil, mongo.ErrNoDocuments
		}
		return v, nil
	}
}

func vendorNode(position models.Position, parentID primitive.ObjectID) *models.Vendor {
	return &models.Vendor{
		ID:       primitive.NewObjectID(),
		Position: position,
		ParentID: parentID,
	}
}

func TestWalkUpline_DistanceOrdering(t *testing.T) {
	svp := vendorNode(models.PositionSVP, primitive.NilObjectID)
	manager := vendorNode(models.PositionManager, svp.ID)
	etl := vendorNode(models.PositionETL, manager.ID)
	ett := vendorNode(models.PositionETT, etl.ID)

	chain, err := walkUpline(context.Background(), ett, finderFor(svp, manager, etl, ett))
	require.NoError(t, err)
	require.Len(t, chain, 3)

	assert.Equal(t, etl.ID, chain[0].VendorID)
	assert.Equal(t, models.PositionETL, chain[0].Position)
	assert.Equal(t, 1, chain[0].Distance)

	assert.Equal(t, manager.ID, chain[1].VendorID)
	assert.Equal(t, 2, chain[1].Distance)

	assert.Equal(t, svp.ID, chain[2].VendorID)
	assert.Equal(t, 3, chain[2].Distance)
}

func TestWalkUpline_RootVendorHasEmptyChain(t *testing.T) {
	root := vendorNode(models.PositionSVP, primitive.NilObjectID)

	chain, err := walkUpline(context.Background(), root, finderFor(root))
	require.NoError(t, err)
	assert.Empty(t, chain)
}

func TestWalkUpline_DanglingParentEndsChain(t *testing.T) {
	// The manager's parent record was deleted; the walk keeps what it found
	// instead of failing the whole chain.
	manager := vendorNode(models.PositionManager, primitive.NewObjectID())
	ett := vendorNode(models.PositionETT, manager.ID)

	chain, err := walkUpline(context.Background(), ett, finderFor(manager, ett))
	require.NoError(t, err)
	require.Len(t, chain, 1)
	assert.Equal(t, manager.ID, chain[0].VendorID)
}

func TestWalkUpline_CycleDetected(t *testing.T) {
	a := vendorNode(models.PositionETL, primitive.NilObjectID)
	b := vendorNode(models.PositionManager, a.ID)
	a.ParentID = b.ID

	_, err := walkUpline(context.Background(), a, finderFor(a, b))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle")
}

func TestWalkUpline_DepthCap(t *testing.T) {
	vendors := make([]*models.Vendor, 0, maxUplineDepth+2)
	parent := primitive.NilObjectID
	for i := 0; i < maxUplineDepth+2; i++ {
		v := vendorNode(models.PositionETT, parent)
		parent = v.ID
		vendors = append(vendors, v)
	}
	leaf := vendors[len(vendors)-1]

	_, err := walkUpline(context.Background(), leaf, finderFor(vendors...))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "depth")
}
