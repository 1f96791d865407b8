package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Policy is an insurance product definition. ApplicationCount is bumped with
// an atomic increment on every submission; the rest only changes through
// admin edits.
type Policy struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title            string             `bson:"title" json:"title"`
	Category         string             `bson:"category" json:"category"`
	Description      string             `bson:"description" json:"description"`
	MinAge           int                `bson:"minAge" json:"minAge"`
	MaxAge           int                `bson:"maxAge" json:"maxAge"`
	CoverageMin      int64              `bson:"coverageMin" json:"coverageMin"`
	CoverageMax      int64              `bson:"coverageMax" json:"coverageMax"`
	DurationYears    int                `bson:"durationYears" json:"durationYears"`
	BasePremium      float64            `bson:"basePremium" json:"basePremium"`
	ImageURL         string             `bson:"imageURL,omitempty" json:"imageURL,omitempty"`
	ApplicationCount int64              `bson:"applicationCount" json:"applicationCount"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}
