package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PaymentType distinguishes direct-sale commission from network override
// commission. The two types are settled on different days of the month.
type PaymentType string

const (
	PaymentTypeCVD PaymentType = "CVD"
	PaymentTypeCCA PaymentType = "CCA"
)

// Payment schedule statuses. "overdue" is derived by comparing the payment
// date to the current time; the stored status only ever holds pending or paid.
const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusOverdue = "overdue"
)

// PaymentSchedule is one scheduled commission payment. Entries are created
// when a commission is computed and are never deleted, only status-mutated.
type PaymentSchedule struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Reference string             `json:"reference" bson:"reference"`
	Type      PaymentType        `json:"type" bson:"type"`
	VendorID  primitive.ObjectID `json:"vendorId" bson:"vendorId"`
	// SourceVendorID identifies the qualifier whose event triggered a CCA
	// entry; unset on CVD entries.
	SourceVendorID primitive.ObjectID `json:"sourceVendorId,omitempty" bson:"sourceVendorId,omitempty"`
	ClientID       primitive.ObjectID `json:"clientId,omitempty" bson:"clientId,omitempty"`
	ProductType    ProductType        `json:"productType,omitempty" bson:"productType,omitempty"`
	TriggerDate    time.Time          `json:"triggerDate" bson:"triggerDate"`
	PaymentDate    time.Time          `json:"paymentDate" bson:"paymentDate"`
	Amount         float64            `json:"amount" bson:"amount"`
	Status         string             `json:"status" bson:"status"`
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt"`
	PaidAt         *time.Time         `json:"paidAt,omitempty" bson:"paidAt,omitempty"`
}

// UpcomingPayments groups a vendor's pending payments that are not yet due
type UpcomingPayments struct {
	NextCvdPayments []PaymentSchedule `json:"nextCvdPayments"`
	NextCcaPayments []PaymentSchedule `json:"nextCcaPayments"`
	TotalCvdPending float64           `json:"totalCvdPending"`
	TotalCcaPending float64           `json:"totalCcaPending"`
}

// MonthlyPaymentReport lists the pending payments falling due in one month,
// split by type, with the two canonical due dates for that month.
type MonthlyPaymentReport struct {
	Year           int               `json:"year"`
	Month          int               `json:"month"`
	CvdPayments    []PaymentSchedule `json:"cvdPayments"`
	CcaPayments    []PaymentSchedule `json:"ccaPayments"`
	TotalCvd       float64           `json:"totalCvd"`
	TotalCca       float64           `json:"totalCca"`
	CvdPaymentDate time.Time         `json:"cvdPaymentDate"`
	CcaPaymentDate time.Time         `json:"ccaPaymentDate"`
}
