package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/AVigneron/televente_backend/models"
)

func TestResolveTier_Boundaries(t *testing.T) {
	tests := []struct {
		points int
		tier   int
	}{
		{0, 1},
		{1, 1},
		{25, 1},
		{26, 2},
		{50, 2},
		{51, 3},
		{100, 3},
		{101, 4},
		{500, 4},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.tier, ResolveTier(tt.points), "points=%d", tt.points)
	}
}

func TestResolveTier_NegativePointsDefensiveFloor(t *testing.T) {
	assert.Equal(t, 1, ResolveTier(-1))
	assert.Equal(t, 1, ResolveTier(-1000))
}

func TestResolveTier_Monotonic(t *testing.T) {
	previous := ResolveTier(-10)
	for points := -9; points <= 200; points++ {
		tier := ResolveTier(points)
		require.GreaterOrEqual(t, tier, previous, "tier decreased at points=%d", points)
		require.Contains(t, []int{1, 2, 3, 4}, tier)
		previous = tier
	}
}

func installationsOf(product models.ProductType, count int) []models.Installation {
	vendorID := primitive.NewObjectID()
	installations := make([]models.Installation, 0, count)
	for i := 0; i < count; i++ {
		installations = append(installations, models.Installation{
			VendorID:         vendorID,
			ClientID:         primitive.NewObjectID(),
			ProductType:      product,
			InstallationDate: time.Date(2025, time.June, 1+i, 0, 0, 0, 0, time.UTC),
		})
	}
	return installations
}

func TestComputeFromInstallations_RetroactiveTier(t *testing.T) {
	// 5 Freebox Pop reach 20 points (tier 1); 2 more push the month to 28
	// points (tier 2). All 7 units must be priced at the tier-2 rate.
	svc := NewCVDService(nil, models.DefaultRateCard())

	installations := installationsOf(models.ProductFreeboxPop, 7)
	result := svc.ComputeFromInstallations(installations)

	assert.Equal(t, 28, result.TotalPoints)
	assert.Equal(t, 2, result.Tier)

	require.Len(t, result.Breakdown, 1)
	line := result.Breakdown[0]
	assert.Equal(t, models.ProductFreeboxPop, line.ProductType)
	assert.Equal(t, 7, line.Count)

	tier2Rate := models.DefaultRateCard().CommissionTable[models.ProductFreeboxPop][1]
	assert.Equal(t, tier2Rate, line.UnitPrice)
	assert.Equal(t, 7*tier2Rate, line.Commission)
	assert.Equal(t, 7*tier2Rate, result.TotalCommission)
}

func TestComputeFromInstallations_MixedProducts(t *testing.T) {
	card := models.DefaultRateCard()
	svc := NewCVDService(nil, card)

	installations := append(
		installationsOf(models.ProductFreeboxUltra, 3), // 18 points
		installationsOf(models.ProductForfait5G, 4)...) // 4 points

	result := svc.ComputeFromInstallations(installations)

	assert.Equal(t, 22, result.TotalPoints)
	assert.Equal(t, 1, result.Tier)
	require.Len(t, result.Breakdown, 2)

	expected := 3*card.CommissionTable[models.ProductFreeboxUltra][0] +
		4*card.CommissionTable[models.ProductForfait5G][0]
	assert.Equal(t, expected, result.TotalCommission)
}

func TestComputeFromInstallations_MissingTableEntryDefaultsToZero(t *testing.T) {
	// A product with points but no commission table entry must contribute a
	// zero line item instead of failing the whole rollup.
	card := models.DefaultRateCard()
	delete(card.CommissionTable, models.ProductForfait5G)
	svc := NewCVDService(nil, card)

	installations := append(
		installationsOf(models.ProductFreeboxPop, 2),
		installationsOf(models.ProductForfait5G, 3)...)

	result := svc.ComputeFromInstallations(installations)

	assert.Equal(t, 11, result.TotalPoints)
	require.Len(t, result.Breakdown, 2)

	for _, line := range result.Breakdown {
		if line.ProductType == models.ProductForfait5G {
			assert.Zero(t, line.UnitPrice)
			assert.Zero(t, line.Commission)
		} else {
			assert.Positive(t, line.Commission)
		}
	}
}

func TestComputeFromInstallations_EmptyMonth(t *testing.T) {
	svc := NewCVDService(nil, models.DefaultRateCard())

	result := svc.ComputeFromInstallations(nil)

	assert.Zero(t, result.TotalPoints)
	assert.Equal(t, 1, result.Tier)
	assert.Empty(t, result.Breakdown)
	assert.Zero(t, result.TotalCommission)
}

func TestComputeFromInstallations_IdempotentWithinSnapshot(t *testing.T) {
	svc := NewCVDService(nil, models.DefaultRateCard())
	installations := append(
		installationsOf(models.ProductFreeboxEssentiel, 6),
		installationsOf(models.ProductFreeboxPop, 2)...)

	first := svc.ComputeFromInstallations(installations)
	second := svc.ComputeFromInstallations(installations)

	assert.Equal(t, first, second)
}

func TestComputeFromInstallations_AlternateRateCard(t *testing.T) {
	// The rate card is injected, not hard-coded: an alternate card must flow
	// through the computation unchanged.
	card := models.RateCard{
		ProductPoints: map[models.ProductType]int{
			"Test Box": 10,
		},
		CommissionTable: map[models.ProductType][4]float64{
			"Test Box": {1, 2, 3, 4},
		},
		QualificationThreshold: 25,
	}
	svc := NewCVDService(nil, card)

	result := svc.ComputeFromInstallations(installationsOf("Test Box", 3))

	assert.Equal(t, 30, result.TotalPoints)
	assert.Equal(t, 2, result.Tier)
	assert.Equal(t, 3*2.0, result.TotalCommission)
}
