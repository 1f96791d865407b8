package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is the sole authorization dimension. The role guard trusts the stored
// value unconditionally once loaded.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAgent    Role = "agent"
	RoleAdmin    Role = "admin"
)

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleAgent, RoleAdmin:
		return true
	}
	return false
}

// AgentApplicationStatus tracks the promotion workflow sub-record.
type AgentApplicationStatus string

const (
	AgentApplicationPending  AgentApplicationStatus = "pending"
	AgentApplicationApproved AgentApplicationStatus = "approved"
	AgentApplicationRejected AgentApplicationStatus = "rejected"
)

// AgentApplication is the promotion request embedded on the user record.
type AgentApplication struct {
	Status      AgentApplicationStatus `bson:"status" json:"status"`
	Experience  string                 `bson:"experience" json:"experience"`
	Specialties []string               `bson:"specialties,omitempty" json:"specialties,omitempty"`
	Feedback    string                 `bson:"feedback,omitempty" json:"feedback,omitempty"`
	AppliedAt   time.Time              `bson:"appliedAt" json:"appliedAt"`
	DecidedAt   *time.Time             `bson:"decidedAt,omitempty" json:"decidedAt,omitempty"`
}

// User is created on first authenticated contact and keyed by the external
// subject id. Role defaults to customer and is only changed by admin action
// or an approved agent application.
type User struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SubjectID        string             `bson:"subjectId" json:"subjectId"`
	Email            string             `bson:"email" json:"email"`
	Name             string             `bson:"name" json:"name"`
	PhotoURL         string             `bson:"photoURL,omitempty" json:"photoURL,omitempty"`
	Role             Role               `bson:"role" json:"role"`
	Active           bool               `bson:"active" json:"active"`
	AgentApplication *AgentApplication  `bson:"agentApplication,omitempty" json:"agentApplication,omitempty"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
	LastLoginAt      time.Time          `bson:"lastLoginAt" json:"lastLoginAt"`
}
