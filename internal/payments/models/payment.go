// Package paymentmodel defines the immutable payment record written after a
// processor charge succeeds.
package paymentmodel

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment is append-only. Confirmation writes one record per processor
// intent and nothing ever updates it.
type Payment struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	IntentID   string             `bson:"intentId" json:"intentId"`
	UserID     string             `bson:"userId" json:"userId"`
	PolicyID   primitive.ObjectID `bson:"policyId" json:"policyId"`
	PolicyName string             `bson:"policyName,omitempty" json:"policyName,omitempty"`
	Amount     int64              `bson:"amount" json:"amount"`
	Currency   string             `bson:"currency" json:"currency"`
	Status     string             `bson:"status" json:"status"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}
