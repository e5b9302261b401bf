package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Vendor represents a member of the salesforce. Vendors form an MLM tree
// through ParentID; the upline chain used by the CAE distribution engine is
// derived from these parent pointers.
type Vendor struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	FullName     string             `json:"fullName" bson:"fullName"`
	Email        string             `json:"email" bson:"email"`
	PhoneNumber  string             `json:"phoneNumber" bson:"phoneNumber"`
	Password     string             `json:"-" bson:"password"`
	Position     Position           `json:"position" bson:"position"`
	ParentID     primitive.ObjectID `json:"parentId,omitempty" bson:"parentId,omitempty"`
	Region       string             `json:"region" bson:"region"`
	ReferralCode string             `json:"referralCode,omitempty" bson:"referralCode,omitempty"`
	IsActive     bool               `json:"isActive" bson:"isActive"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// UplineMember is one entry of a vendor's upline chain, ordered from the
// closest sponsor (distance 1) to the farthest. The chain is read-only input
// for the distribution engine.
type UplineMember struct {
	VendorID primitive.ObjectID `json:"vendorId" bson:"vendorId"`
	Position Position           `json:"position" bson:"position"`
	Distance int                `json:"distance" bson:"distance"`
}

// VendorLoginRequest is the login payload for salesforce members
type VendorLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// CreateVendorRequest is the payload for enrolling a new vendor
type CreateVendorRequest struct {
	FullName    string `json:"fullName" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password" validate:"required,min=8"`
	Position    string `json:"position" validate:"required"`
	ParentID    string `json:"parentId"`
	Region      string `json:"region"`
}
