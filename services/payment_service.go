package services

import (
	"errors"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/AVigneron/televente_backend/models"
)

// Commission settlement calendar: direct-sale commissions are paid on the
// 15th of the month following the installation, network override commissions
// on the 22nd of the month following the qualification.
const (
	cvdPaymentDay = 15
	ccaPaymentDay = 22
)

// SchedulePayment computes the due date for a commission triggered on the
// given date. December triggers roll over into January of the next year
// through standard date normalization. An invalid trigger date or an unknown
// payment type is a caller error.
func SchedulePayment(paymentType models.PaymentType, triggerDate time.Time) (time.Time, error) {
	if triggerDate.IsZero() {
		return time.Time{}, errors.New("trigger date is required")
	}

	var day int
	switch paymentType {
	case models.PaymentTypeCVD:
		day = cvdPaymentDay
	case models.PaymentTypeCCA:
		day = ccaPaymentDay
	default:
		return time.Time{}, errors.New("unknown payment type: " + string(paymentType))
	}

	return time.Date(triggerDate.Year(), triggerDate.Month()+1, day, 0, 0, 0, 0, triggerDate.Location()), nil
}

// CheckOverduePayments reports the entries that are pending past their
// payment date. The classification is derived; the supplied entries are not
// mutated and nothing is persisted here.
func CheckOverduePayments(entries []models.PaymentSchedule, now time.Time) []models.PaymentSchedule {
	overdue := []models.PaymentSchedule{}
	for _, entry := range entries {
		if entry.Status == models.PaymentStatusPending && entry.PaymentDate.Before(now) {
			entry.Status = models.PaymentStatusOverdue
			overdue = append(overdue, entry)
		}
	}
	return overdue
}

// GetUpcomingPayments filters a vendor's pending entries that are not yet
// due, sorted ascending by payment date and split by type with running sums.
func GetUpcomingPayments(vendorID primitive.ObjectID, entries []models.PaymentSchedule, now time.Time) models.UpcomingPayments {
	upcoming := models.UpcomingPayments{
		NextCvdPayments: []models.PaymentSchedule{},
		NextCcaPayments: []models.PaymentSchedule{},
	}

	pending := make([]models.PaymentSchedule, 0, len(entries))
	for _, entry := range entries {
		if entry.VendorID != vendorID || entry.Status != models.PaymentStatusPending {
			continue
		}
		if entry.PaymentDate.Before(now) {
			continue
		}
		pending = append(pending, entry)
	}
	sort.Slice(pending, func(i, j int) bool {
		return pending[i].PaymentDate.Before(pending[j].PaymentDate)
	})

	for _, entry := range pending {
		switch entry.Type {
		case models.PaymentTypeCVD:
			upcoming.NextCvdPayments = append(upcoming.NextCvdPayments, entry)
			upcoming.TotalCvdPending += entry.Amount
		case models.PaymentTypeCCA:
			upcoming.NextCcaPayments = append(upcoming.NextCcaPayments, entry)
			upcoming.TotalCcaPending += entry.Amount
		}
	}

	return upcoming
}

// GenerateMonthlyPaymentReport lists the pending entries whose payment date
// falls in the given month, split by type, with sums and the two canonical
// due dates of that month.
func GenerateMonthlyPaymentReport(month time.Month, year int, entries []models.PaymentSchedule) models.MonthlyPaymentReport {
	report := models.MonthlyPaymentReport{
		Year:           year,
		Month:          int(month),
		CvdPayments:    []models.PaymentSchedule{},
		CcaPayments:    []models.PaymentSchedule{},
		CvdPaymentDate: time.Date(year, month, cvdPaymentDay, 0, 0, 0, 0, time.UTC),
		CcaPaymentDate: time.Date(year, month, ccaPaymentDay, 0, 0, 0, 0, time.UTC),
	}

	for _, entry := range entries {
		if entry.Status != models.PaymentStatusPending {
			continue
		}
		if entry.PaymentDate.Year() != year || entry.PaymentDate.Month() != month {
			continue
		}
		switch entry.Type {
		case models.PaymentTypeCVD:
			report.CvdPayments = append(report.CvdPayments, entry)
			report.TotalCvd += entry.Amount
		case models.PaymentTypeCCA:
			report.CcaPayments = append(report.CcaPayments, entry)
			report.TotalCca += entry.Amount
		}
	}

	return report
}
