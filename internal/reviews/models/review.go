package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review is a customer's one-shot rating of a policy. At most one review per
// (user, policy) pair; reviews are never updated or deleted.
type Review struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID       string             `bson:"userId" json:"userId"`
	PolicyID     primitive.ObjectID `bson:"policyId" json:"policyId"`
	UserName     string             `bson:"userName,omitempty" json:"userName,omitempty"`
	UserPhotoURL string             `bson:"userPhotoURL,omitempty" json:"userPhotoURL,omitempty"`
	PolicyTitle  string             `bson:"policyTitle" json:"policyTitle"`
	Rating       int                `bson:"rating" json:"rating"`
	Feedback     string             `bson:"feedback" json:"feedback"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}
