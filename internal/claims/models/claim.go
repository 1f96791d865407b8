// Package claimmodel defines claim records filed against approved policy
// applications.
package claimmodel

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Claim is filed by a customer against one approved application. The
// application id is unique per claim.
type Claim struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID        string             `bson:"userId" json:"userId"`
	PolicyID      primitive.ObjectID `bson:"policyId" json:"policyId"`
	ApplicationID primitive.ObjectID `bson:"applicationId" json:"applicationId"`
	PolicyName    string             `bson:"policyName,omitempty" json:"policyName,omitempty"`
	Reason        string             `bson:"reason" json:"reason"`
	DocumentURLs  []string           `bson:"documentUrls,omitempty" json:"documentUrls,omitempty"`
	Status        Status             `bson:"status" json:"status"`
	Feedback      string             `bson:"feedback,omitempty" json:"feedback,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}
