package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleDoctor  = "doctor"
	RolePatient = "patient"
)

// User is one account record. Role is fixed at signup and never changes;
// Profile points at the role-specific document (Doctor or Patient).
type User struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Email     string             `json:"email" bson:"email"`
	Password  string             `json:"-" bson:"password"`
	Role      string             `json:"role" bson:"role"`
	ProfileID primitive.ObjectID `json:"profile,omitempty" bson:"profile,omitempty"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}
