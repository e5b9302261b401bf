package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/AVigneron/televente_backend/models"
)

// ErrAlreadyDistributed reports that a CCA distribution was already persisted
// for this qualifier and month.
var ErrAlreadyDistributed = errors.New("distribution already recorded for vendor this month")

// CAEService distributes the team-animation bonus across a new qualifier's
// upline chain. The compensation plan is a waterfall: each rank absorbs the
// difference between its own pool and what junior ranks already extracted
// from it, so the total paid per qualifying event never exceeds the highest
// rank's configured ceiling.
type CAEService struct {
	card models.RateCard
}

// NewCAEService creates a new CAE distribution service
func NewCAEService(card models.RateCard) *CAEService {
	return &CAEService{card: card}
}

// DistributeCAEBonus walks the upline chain once, from the closest sponsor
// to the farthest, and computes each member's share. Chain order is
// authoritative; reordering the chain changes the result.
//
// A qualifier below the point threshold yields a well-formed zero result,
// not an error. Upline entries with an unconfigured position are skipped.
func (s *CAEService) DistributeCAEBonus(qualifier models.CAEQualifier, chain []models.UplineMember) models.DistributionResult {
	if qualifier.PointsThisMonth < s.card.QualificationThreshold {
		return models.DistributionResult{
			Qualified:    false,
			Distribution: []models.DistributionEntry{},
		}
	}

	result := models.DistributionResult{
		Qualified:    true,
		Distribution: []models.DistributionEntry{},
	}

	occurrences := make(map[models.Position]int)
	var ettPaid, etlPaid float64
	managerPaid := false

	for _, member := range chain {
		bonus, ok := s.card.CAEBonuses[member.Position]
		if !ok {
			continue
		}
		occurrences[member.Position]++

		switch occurrences[member.Position] {
		case 1:
			amount := s.firstGenerationAmount(member.Position, bonus, ettPaid, etlPaid, managerPaid)
			switch member.Position {
			case models.PositionETT:
				ettPaid = amount
			case models.PositionETL:
				etlPaid = amount
			case models.PositionManager:
				managerPaid = true
			}
			if amount > 0 {
				result.Distribution = append(result.Distribution, models.DistributionEntry{
					VendorID:   member.VendorID,
					Position:   member.Position,
					Distance:   member.Distance,
					Generation: 1,
					Amount:     amount,
				})
				result.TotalCommission += amount
			}
		case 2:
			if bonus.SecondGeneration > 0 {
				result.Distribution = append(result.Distribution, models.DistributionEntry{
					VendorID:   member.VendorID,
					Position:   member.Position,
					Distance:   member.Distance,
					Generation: 2,
					Amount:     bonus.SecondGeneration,
				})
				result.TotalCommission += bonus.SecondGeneration
			}
		}
		// Third and later occurrences of a position contribute nothing.
	}

	return result
}

// RecordDistribution computes the distribution and persists one CCA schedule
// entry per beneficiary, stamped with the qualifier as source. A repeated call
// for the same qualifier and month returns ErrAlreadyDistributed instead of
// crediting the upline twice.
func (s *CAEService) RecordDistribution(ctx context.Context, store PaymentStore, qualifier models.CAEQualifier, chain []models.UplineMember, now time.Time) (models.DistributionResult, error) {
	result := s.DistributeCAEBonus(qualifier, chain)
	if !result.Qualified || len(result.Distribution) == 0 {
		return result, nil
	}

	done, err := store.HasCCAForSourceMonth(ctx, qualifier.VendorID, now.Year(), now.Month())
	if err != nil {
		return models.DistributionResult{}, err
	}
	if done {
		return result, ErrAlreadyDistributed
	}

	paymentDate, err := SchedulePayment(models.PaymentTypeCCA, now)
	if err != nil {
		return models.DistributionResult{}, err
	}

	for _, entry := range result.Distribution {
		schedule := &models.PaymentSchedule{
			Reference:      uuid.New().String(),
			Type:           models.PaymentTypeCCA,
			VendorID:       entry.VendorID,
			SourceVendorID: qualifier.VendorID,
			TriggerDate:    now,
			PaymentDate:    paymentDate,
			Amount:         entry.Amount,
			Status:         models.PaymentStatusPending,
		}
		if err := store.Create(ctx, schedule); err != nil {
			return models.DistributionResult{}, err
		}
	}

	return result, nil
}

// firstGenerationAmount applies the position-specific deduction rules.
// ETT is always paid in full. ETL gives up the ETT portion already carved out
// of its pool. Manager gives up whatever ETT and ETL already took. The senior
// ranks give up the whole Manager pool once a Manager was paid, otherwise the
// ETT/ETL amounts; the two deduction paths are mutually exclusive.
func (s *CAEService) firstGenerationAmount(position models.Position, bonus models.PositionBonus, ettPaid, etlPaid float64, managerPaid bool) float64 {
	var amount float64
	switch position {
	case models.PositionETT:
		amount = bonus.FirstGeneration
	case models.PositionETL:
		amount = bonus.FirstGeneration - ettPaid
	case models.PositionManager:
		amount = bonus.FirstGeneration - ettPaid - etlPaid
	default:
		if managerPaid {
			amount = bonus.FirstGeneration - s.card.CAEBonuses[models.PositionManager].FirstGeneration
		} else {
			amount = bonus.FirstGeneration - ettPaid - etlPaid
		}
	}
	if amount < 0 {
		amount = 0
	}
	return amount
}
