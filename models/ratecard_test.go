package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRateCard_Complete(t *testing.T) {
	card := DefaultRateCard()

	// Every catalogued product has a point value and a full tier table
	products := []ProductType{
		ProductFreeboxPop, ProductFreeboxEssentiel, ProductFreeboxUltra, ProductForfait5G,
	}
	for _, product := range products {
		points, ok := card.ProductPoints[product]
		require.True(t, ok, "missing points for %s", product)
		assert.GreaterOrEqual(t, points, 1)
		assert.LessOrEqual(t, points, 6)

		table, ok := card.CommissionTable[product]
		require.True(t, ok, "missing commission table for %s", product)
		for tier := 1; tier < 4; tier++ {
			assert.GreaterOrEqual(t, table[tier], table[tier-1],
				"%s: tier %d pays less than tier %d", product, tier+1, tier)
		}
	}

	// Every position has a first-generation pool; only Manager and above
	// have a second-generation amount
	positions := []Position{
		PositionETT, PositionETL, PositionManager,
		PositionRC, PositionRD, PositionRVP, PositionSVP,
	}
	for _, position := range positions {
		bonus, ok := card.CAEBonuses[position]
		require.True(t, ok, "missing bonus for %s", position)
		assert.Positive(t, bonus.FirstGeneration)
	}
	assert.Zero(t, card.CAEBonuses[PositionETT].SecondGeneration)
	assert.Zero(t, card.CAEBonuses[PositionETL].SecondGeneration)
	assert.Equal(t, 60.0, card.CAEBonuses[PositionManager].SecondGeneration)

	assert.Equal(t, 25, card.QualificationThreshold)
}

func TestDefaultRateCard_IsolatedCopies(t *testing.T) {
	// Each call returns fresh maps so one caller cannot poison another's card
	first := DefaultRateCard()
	first.ProductPoints[ProductFreeboxPop] = 99

	second := DefaultRateCard()
	assert.Equal(t, 4, second.ProductPoints[ProductFreeboxPop])
}
