package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Installation records one sold-and-installed unit for one vendor. It is
// written once when the client record transitions to "installation" and is
// never edited afterwards, so an already-computed commission cannot drift if
// the client record is touched later.
type Installation struct {
	ID               primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	VendorID         primitive.ObjectID `json:"vendorId" bson:"vendorId"`
	ClientID         primitive.ObjectID `json:"clientId" bson:"clientId"`
	ProductType      ProductType        `json:"productType" bson:"productType"`
	InstallationDate time.Time          `json:"installationDate" bson:"installationDate"`
	CreatedAt        time.Time          `json:"createdAt" bson:"createdAt"`
}
