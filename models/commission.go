package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProductCommission is one line of a monthly CVD breakdown
type ProductCommission struct {
	ProductType ProductType `json:"productType"`
	Count       int         `json:"count"`
	Points      int         `json:"points"`
	UnitPrice   float64     `json:"unitPrice"`
	Commission  float64     `json:"commission"`
}

// CommissionResult is the outcome of a monthly CVD computation. The tier is
// resolved from the final monthly point total and applied to every unit sold
// in the month, including units sold before the tier was reached.
type CommissionResult struct {
	VendorID        primitive.ObjectID  `json:"vendorId"`
	Year            int                 `json:"year"`
	Month           int                 `json:"month"`
	TotalPoints     int                 `json:"totalPoints"`
	Tier            int                 `json:"tier"`
	Breakdown       []ProductCommission `json:"breakdown"`
	TotalCommission float64             `json:"totalCommission"`
}

// CAEQualifier describes a vendor who just reached the qualification
// threshold, triggering a bonus distribution across their upline.
type CAEQualifier struct {
	VendorID        primitive.ObjectID `json:"vendorId"`
	PointsThisMonth int                `json:"pointsThisMonth"`
}

// DistributionEntry is one upline member's share of a CAE distribution
type DistributionEntry struct {
	VendorID   primitive.ObjectID `json:"vendorId"`
	Position   Position           `json:"position"`
	Distance   int                `json:"distance"`
	Generation int                `json:"generation"`
	Amount     float64            `json:"amount"`
}

// DistributionResult is the outcome of a CAE bonus distribution
type DistributionResult struct {
	Qualified       bool                `json:"qualified"`
	Distribution    []DistributionEntry `json:"distribution"`
	TotalCommission float64             `json:"totalCommission"`
}
