package services

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/AVigneron/televente_backend/models"
)

// Tier boundaries for the CVD commission bands. Monthly cumulative points in
// [0,25] resolve to tier 1, [26,50] to tier 2, [51,100] to tier 3 and
// anything above to tier 4.
const (
	tier1MaxPoints = 25
	tier2MaxPoints = 50
	tier3MaxPoints = 100
)

// ResolveTier maps a monthly cumulative point total to a commission tier.
// Negative totals must not occur upstream; they resolve to tier 1 so a bad
// input can never produce an out-of-range tier.
func ResolveTier(points int) int {
	switch {
	case points <= tier1MaxPoints:
		return 1
	case points <= tier2MaxPoints:
		return 2
	case points <= tier3MaxPoints:
		return 3
	default:
		return 4
	}
}

// InstallationSource provides the monthly installation snapshot the CVD
// calculator prices.
type InstallationSource interface {
	FindByVendorAndMonth(ctx context.Context, vendorID primitive.ObjectID, year int, month time.Month) ([]models.Installation, error)
}

// CVDService computes monthly direct-sale commissions from installation
// events. The rate card is injected so alternate cards can be substituted
// without touching the computation.
type CVDService struct {
	installations InstallationSource
	card          models.RateCard
}

// NewCVDService creates a new CVD commission service
func NewCVDService(installations InstallationSource, card models.RateCard) *CVDService {
	return &CVDService{installations: installations, card: card}
}

// ComputeMonthlyCommission fetches the vendor's installations for the given
// calendar month and prices them. The fetched snapshot is treated as
// immutable for the duration of the computation; re-running after new
// installations were recorded may return a larger result.
func (s *CVDService) ComputeMonthlyCommission(ctx context.Context, vendorID primitive.ObjectID, year int, month time.Month) (*models.CommissionResult, error) {
	if vendorID.IsZero() {
		return nil, errors.New("vendor id is required")
	}
	if month < time.January || month > time.December {
		return nil, errors.New("invalid month")
	}

	installations, err := s.installations.FindByVendorAndMonth(ctx, vendorID, year, month)
	if err != nil {
		return nil, err
	}

	result := s.ComputeFromInstallations(installations)
	result.VendorID = vendorID
	result.Year = year
	result.Month = int(month)
	return &result, nil
}

// ComputeFromInstallations prices a snapshot of installation events. The tier
// is resolved from the final monthly point total and applied to every unit,
// including units sold before the tier was reached. A product with no entry
// in the commission table contributes 0 instead of failing the whole rollup.
func (s *CVDService) ComputeFromInstallations(installations []models.Installation) models.CommissionResult {
	counts := make(map[models.ProductType]int)
	for _, inst := range installations {
		counts[inst.ProductType]++
	}

	totalPoints := 0
	for product, count := range counts {
		totalPoints += count * s.card.ProductPoints[product]
	}

	tier := ResolveTier(totalPoints)

	products := make([]models.ProductType, 0, len(counts))
	for product := range counts {
		products = append(products, product)
	}
	sort.Slice(products, func(i, j int) bool { return products[i] < products[j] })

	result := models.CommissionResult{
		TotalPoints: totalPoints,
		Tier:        tier,
		Breakdown:   make([]models.ProductCommission, 0, len(products)),
	}

	for _, product := range products {
		count := counts[product]
		unitPrice := 0.0
		if table, ok := s.card.CommissionTable[product]; ok {
			unitPrice = table[tier-1]
		}
		commission := float64(count) * unitPrice
		result.Breakdown = append(result.Breakdown, models.ProductCommission{
			ProductType: product,
			Count:       count,
			Points:      count * s.card.ProductPoints[product],
			UnitPrice:   unitPrice,
			Commission:  commission,
		})
		result.TotalCommission += commission
	}

	return result
}

// MonthlyPoints returns only the point total for a vendor's month, used to
// check CAE qualification without pricing the units.
func (s *CVDService) MonthlyPoints(ctx context.Context, vendorID primitive.ObjectID, year int, month time.Month) (int, error) {
	result, err := s.ComputeMonthlyCommission(ctx, vendorID, year, month)
	if err != nil {
		return 0, err
	}
	return result.TotalPoints, nil
}
