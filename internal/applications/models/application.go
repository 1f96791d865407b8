package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Status is a free-form enum written by authorized roles; there is no
// transition validation by design.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusApproved   Status = "approved"
	StatusRejected   Status = "rejected"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Application is a customer's request to enroll in a policy. Policy name,
// premium and coverage are snapshotted at submission so later policy edits
// don't rewrite history.
type Application struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID   string             `bson:"userId" json:"userId"`
	PolicyID primitive.ObjectID `bson:"policyId" json:"policyId"`

	PolicyName     string  `bson:"policyName" json:"policyName"`
	PremiumQuoted  float64 `bson:"premiumQuoted" json:"premiumQuoted"`
	CoverageAmount int64   `bson:"coverageAmount" json:"coverageAmount"`

	FullName          string   `bson:"fullName" json:"fullName"`
	Email             string   `bson:"email" json:"email"`
	Address           string   `bson:"address,omitempty" json:"address,omitempty"`
	NomineeName       string   `bson:"nomineeName,omitempty" json:"nomineeName,omitempty"`
	NomineeRelation   string   `bson:"nomineeRelation,omitempty" json:"nomineeRelation,omitempty"`
	HealthDisclosures []string `bson:"healthDisclosures,omitempty" json:"healthDisclosures,omitempty"`

	Status          Status `bson:"status" json:"status"`
	AssignedAgentID string `bson:"assignedAgent,omitempty" json:"assignedAgent,omitempty"`
	Feedback        string `bson:"feedback,omitempty" json:"feedback,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// PolicyInfo is the slice of the live policy record the admin listing joins
// in database-side.
type PolicyInfo struct {
	Title    string `bson:"title" json:"title"`
	Category string `bson:"category" json:"category"`
}

// AdminItem is an application with the joined policy info attached. Nil
// PolicyInfo means the policy was deleted after submission (no cascade).
type AdminItem struct {
	Application `bson:",inline"`
	PolicyInfo  *PolicyInfo `bson:"policyInfo,omitempty" json:"policyInfo,omitempty"`
}
