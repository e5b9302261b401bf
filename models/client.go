package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Client pipeline statuses. A client record moving to StatusInstallation with
// a non-null installation date is the event that earns points and commission.
const (
	ClientStatusProspect     = "prospect"
	ClientStatusSigned       = "signed"
	ClientStatusInstallation = "installation"
	ClientStatusCancelled    = "cancelled"
)

// Client is a CRM prospect/customer record owned by a vendor
type Client struct {
	ID               primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	VendorID         primitive.ObjectID `json:"vendorId" bson:"vendorId"`
	FullName         string             `json:"fullName" bson:"fullName"`
	PhoneNumber      string             `json:"phoneNumber" bson:"phoneNumber"`
	Address          string             `json:"address" bson:"address"`
	ProductType      ProductType        `json:"productType" bson:"productType"`
	Status           string             `json:"status" bson:"status"`
	InstallationDate *time.Time         `json:"installationDate,omitempty" bson:"installationDate,omitempty"`
	CreatedAt        time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// CreateClientRequest is the payload for registering a new prospect
type CreateClientRequest struct {
	FullName    string `json:"fullName" validate:"required"`
	PhoneNumber string `json:"phoneNumber"`
	Address     string `json:"address"`
	ProductType string `json:"productType" validate:"required"`
}

// UpdateClientStatusRequest moves a client through the pipeline. The
// installation date is required when the new status is "installation".
type UpdateClientStatusRequest struct {
	Status           string     `json:"status" validate:"required"`
	InstallationDate *time.Time `json:"installationDate,omitempty"`
}
