package models

// ProductType identifies an entry of the Free product catalogue sold by vendors
type ProductType string

const (
	ProductFreeboxPop       ProductType = "Freebox Pop"
	ProductFreeboxEssentiel ProductType = "Freebox Essentiel"
	ProductFreeboxUltra     ProductType = "Freebox Ultra"
	ProductForfait5G        ProductType = "Forfait 5G"
)

// Position represents a rank in the MLM hierarchy
type Position string

const (
	PositionETT     Position = "ETT"
	PositionETL     Position = "ETL"
	PositionManager Position = "Manager"
	PositionRC      Position = "RC"
	PositionRD      Position = "RD"
	PositionRVP     Position = "RVP"
	PositionSVP     Position = "SVP"
)

// PositionBonus holds the CAE bonus amounts configured for a position.
// SecondGeneration is 0 for positions that are only paid on their first
// occurrence in an upline chain.
type PositionBonus struct {
	FirstGeneration  float64 `json:"firstGeneration" bson:"firstGeneration"`
	SecondGeneration float64 `json:"secondGeneration" bson:"secondGeneration"`
}

// RateCard bundles the immutable commission configuration: product point
// values, per-tier unit commissions and CAE position bonuses. The engine
// services receive a RateCard at construction time instead of reading
// package-level globals, so tests can substitute alternate cards.
type RateCard struct {
	// ProductPoints maps a product to the points it contributes to the
	// monthly cumulative total used for tier resolution.
	ProductPoints map[ProductType]int `json:"productPoints"`

	// CommissionTable maps a product to its per-unit commission amount for
	// each of the four tiers (index 0 = tier 1).
	CommissionTable map[ProductType][4]float64 `json:"commissionTable"`

	// CAEBonuses maps an MLM position to its bonus configuration.
	CAEBonuses map[Position]PositionBonus `json:"caeBonuses"`

	// QualificationThreshold is the monthly point total a new vendor must
	// reach before a CAE distribution is triggered for their upline.
	QualificationThreshold int `json:"qualificationThreshold"`
}

// DefaultRateCard returns the production rate card.
func DefaultRateCard() RateCard {
	return RateCard{
		ProductPoints: map[ProductType]int{
			ProductFreeboxPop:       4,
			ProductFreeboxEssentiel: 5,
			ProductFreeboxUltra:     6,
			ProductForfait5G:        1,
		},
		CommissionTable: map[ProductType][4]float64{
			ProductFreeboxPop:       {30, 40, 50, 60},
			ProductFreeboxEssentiel: {40, 50, 60, 70},
			ProductFreeboxUltra:     {50, 60, 70, 80},
			ProductForfait5G:        {10, 12, 15, 20},
		},
		CAEBonuses: map[Position]PositionBonus{
			PositionETT:     {FirstGeneration: 40},
			PositionETL:     {FirstGeneration: 140},
			PositionManager: {FirstGeneration: 290, SecondGeneration: 60},
			PositionRC:      {FirstGeneration: 390, SecondGeneration: 40},
			PositionRD:      {FirstGeneration: 390, SecondGeneration: 40},
			PositionRVP:     {FirstGeneration: 390, SecondGeneration: 40},
			PositionSVP:     {FirstGeneration: 410, SecondGeneration: 40},
		},
		QualificationThreshold: 25,
	}
}
