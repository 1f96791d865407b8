// Package blogmodel defines agent-authored blog posts.
package blogmodel

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Blog is authored by one agent. The author fields are stamped from the
// authenticated user at creation and only the author may edit or delete.
type Blog struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AuthorID       string             `bson:"authorId" json:"authorId"`
	AuthorName     string             `bson:"authorName,omitempty" json:"authorName,omitempty"`
	AuthorPhotoURL string             `bson:"authorPhotoURL,omitempty" json:"authorPhotoURL,omitempty"`
	Title          string             `bson:"title" json:"title"`
	Content        string             `bson:"content" json:"content"`
	TotalVisits    int64              `bson:"totalVisits" json:"totalVisits"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}
